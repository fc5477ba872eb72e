// Package repo persists party preference rows in Postgres
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/preferences/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the preferences repository
type Storage interface {
	// Get returns the stored prefs; found is false when no row exists
	Get(ctx context.Context, partyID string) (domain.Prefs, bool, error)

	// Insert creates the first preference row for a party at version 1.
	// ok is false when a row already exists
	Insert(ctx context.Context, partyID string, p domain.Prefs) (domain.Prefs, bool, error)

	// Update replaces the row guarded by its current version. ok is
	// false when the row is missing or the version moved on
	Update(ctx context.Context, partyID string, p domain.Prefs, expectedVersion int) (domain.Prefs, bool, error)
}

func (s *pg) Get(ctx context.Context, partyID string) (domain.Prefs, bool, error) {
	const q = `
		SELECT windows, commitments,
		       min_advance_notice_secs, max_advance_window_secs,
		       require_all_members_free, use_external_calendars,
		       version, updated_at
		FROM availability_preferences
		WHERE party_id = $1::uuid`

	var (
		winRaw, comRaw          []byte
		noticeSecs, horizonSecs int64
		p                       domain.Prefs
	)
	err := s.q.QueryRow(ctx, q, partyID).Scan(
		&winRaw, &comRaw,
		&noticeSecs, &horizonSecs,
		&p.RequireAllMembersFree, &p.UseExternalCalendars,
		&p.Version, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Prefs{}, false, nil
		}
		return domain.Prefs{}, false, perr.FromPostgresf(err, "get preferences for party %s", partyID)
	}
	if p.Windows, err = decodeWindows(winRaw); err != nil {
		return domain.Prefs{}, false, err
	}
	if p.Commitments, err = decodeCommitments(comRaw); err != nil {
		return domain.Prefs{}, false, err
	}
	p.MinAdvanceNotice = time.Duration(noticeSecs) * time.Second
	p.MaxAdvanceWindow = time.Duration(horizonSecs) * time.Second
	return p, true, nil
}

func (s *pg) Insert(ctx context.Context, partyID string, p domain.Prefs) (domain.Prefs, bool, error) {
	winRaw, comRaw, err := encodeBoth(p)
	if err != nil {
		return domain.Prefs{}, false, err
	}

	const q = `
		INSERT INTO availability_preferences (
			party_id, windows, commitments,
			min_advance_notice_secs, max_advance_window_secs,
			require_all_members_free, use_external_calendars,
			version, updated_at
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, 1, now())
		ON CONFLICT (party_id) DO NOTHING
		RETURNING version, updated_at`

	out := p
	err = s.q.QueryRow(ctx, q,
		partyID, winRaw, comRaw,
		int64(p.MinAdvanceNotice/time.Second), int64(p.MaxAdvanceWindow/time.Second),
		p.RequireAllMembersFree, p.UseExternalCalendars,
	).Scan(&out.Version, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Prefs{}, false, nil
		}
		return domain.Prefs{}, false, perr.FromPostgresf(err, "insert preferences for party %s", partyID)
	}
	return out, true, nil
}

func (s *pg) Update(
	ctx context.Context,
	partyID string,
	p domain.Prefs,
	expectedVersion int,
) (domain.Prefs, bool, error) {
	winRaw, comRaw, err := encodeBoth(p)
	if err != nil {
		return domain.Prefs{}, false, err
	}

	const q = `
		UPDATE availability_preferences SET
			windows = $2,
			commitments = $3,
			min_advance_notice_secs = $4,
			max_advance_window_secs = $5,
			require_all_members_free = $6,
			use_external_calendars = $7,
			version = version + 1,
			updated_at = now()
		WHERE party_id = $1::uuid AND version = $8
		RETURNING version, updated_at`

	out := p
	err = s.q.QueryRow(ctx, q,
		partyID, winRaw, comRaw,
		int64(p.MinAdvanceNotice/time.Second), int64(p.MaxAdvanceWindow/time.Second),
		p.RequireAllMembersFree, p.UseExternalCalendars,
		expectedVersion,
	).Scan(&out.Version, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Prefs{}, false, nil
		}
		return domain.Prefs{}, false, perr.FromPostgresf(err, "update preferences for party %s", partyID)
	}
	return out, true, nil
}

func encodeBoth(p domain.Prefs) ([]byte, []byte, error) {
	winRaw, err := encodeWindows(p.Windows)
	if err != nil {
		return nil, nil, err
	}
	comRaw, err := encodeCommitments(p.Commitments)
	if err != nil {
		return nil, nil, err
	}
	return winRaw, comRaw, nil
}
