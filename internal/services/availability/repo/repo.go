// Package repo reads calendar account rows for the oracle
package repo

import (
	"context"

	"tandem/internal/modkit/repokit"
	"tandem/internal/services/availability/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the availability repository
type Storage interface {
	// AccountsOf returns the calendar accounts of each listed user.
	// Users without accounts are simply absent from the map
	AccountsOf(ctx context.Context, userIDs []string) (map[string][]domain.Account, error)
}

func (s *pg) AccountsOf(ctx context.Context, userIDs []string) (map[string][]domain.Account, error) {
	if len(userIDs) == 0 {
		return map[string][]domain.Account{}, nil
	}
	const q = `
		SELECT user_id::text, provider, access_token, refresh_token, expires_at, calendar_ids
		FROM calendar_accounts
		WHERE user_id = ANY($1::uuid[])
		ORDER BY user_id, provider`
	rows, err := s.q.Query(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Account, len(userIDs))
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.UserID, &a.Provider,
			&a.AccessToken, &a.RefreshToken, &a.ExpiresAt, &a.CalendarIDs,
		); err != nil {
			return nil, err
		}
		out[a.UserID] = append(out[a.UserID], a)
	}
	return out, rows.Err()
}
