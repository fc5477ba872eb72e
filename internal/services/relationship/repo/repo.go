// Package repo provides the relationship repository over Postgres
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"tandem/internal/modkit/repokit"
	"tandem/internal/services/relationship/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the relationship repository
type Storage interface {
	GetParty(ctx context.Context, id string) (domain.Party, bool, error)
	ListMembers(ctx context.Context, partyID string) ([]domain.Member, error)
	IsMember(ctx context.Context, partyID, userID string) (bool, error)

	// InsertParty writes the party row and its member rows; run it
	// inside a transaction so a failed member insert rolls both back
	InsertParty(ctx context.Context, p domain.Party) error
}

// GetParty implements Storage; found is false when no row exists
func (s *pg) GetParty(ctx context.Context, id string) (domain.Party, bool, error) {
	const q = `SELECT id::text, kind, status FROM parties WHERE id = $1::uuid`
	var p domain.Party
	if err := s.q.QueryRow(ctx, q, id).Scan(&p.ID, &p.Kind, &p.Status); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Party{}, false, nil
		}
		return domain.Party{}, false, err
	}
	return p, true, nil
}

// ListMembers implements Storage ordered by join time
func (s *pg) ListMembers(ctx context.Context, partyID string) ([]domain.Member, error) {
	const q = `
		SELECT user_id::text, role, joined_at
		FROM party_members
		WHERE party_id = $1::uuid
		ORDER BY joined_at, user_id`
	rows, err := s.q.Query(ctx, q, partyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertParty implements Storage
func (s *pg) InsertParty(ctx context.Context, p domain.Party) error {
	const qp = `
		INSERT INTO parties (id, kind, status)
		VALUES ($1::uuid, $2, $3)`
	if _, err := s.q.Exec(ctx, qp, p.ID, p.Kind, p.Status); err != nil {
		return err
	}
	const qm = `
		INSERT INTO party_members (party_id, user_id, role)
		VALUES ($1::uuid, $2::uuid, $3)`
	for _, m := range p.Members {
		if _, err := s.q.Exec(ctx, qm, p.ID, m.UserID, m.Role); err != nil {
			return err
		}
	}
	return nil
}

// IsMember implements Storage
func (s *pg) IsMember(ctx context.Context, partyID, userID string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM party_members WHERE party_id = $1::uuid AND user_id = $2::uuid)`
	var ok bool
	if err := s.q.QueryRow(ctx, q, partyID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
