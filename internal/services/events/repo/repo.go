// Package repo persists scheduled event rows in Postgres
package repo

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"errors"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/events/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the events repository
type Storage interface {
	// Insert stores a confirmed event and returns it with its
	// generated id and timestamps filled in
	Insert(ctx context.Context, ev domain.Event) (domain.Event, error)

	// Get returns the stored event; found is false when no row exists
	Get(ctx context.Context, id string) (domain.Event, bool, error)

	// SetProviderRefs replaces the mirror bookkeeping on an event
	SetProviderRefs(ctx context.Context, id string, refs map[string]string) error

	// MarkCancelled flips a confirmed event to cancelled. ok is false
	// when the row is missing or was already cancelled
	MarkCancelled(ctx context.Context, id string) (domain.Event, bool, error)

	// Upcoming lists the party's confirmed events still running inside
	// [from, to); an event in progress counts until it ends
	Upcoming(ctx context.Context, partyID string, from, to time.Time) ([]domain.Event, error)
}

const eventColumns = `
	id::text, party_id::text, starts_at, ends_at, title,
	status, conflict_status, provider_refs, version, created_at, updated_at`

func (s *pg) Insert(ctx context.Context, ev domain.Event) (domain.Event, error) {
	refs, err := encodeRefs(ev.ProviderRefs)
	if err != nil {
		return domain.Event{}, err
	}
	const q = `
		INSERT INTO scheduled_events (
			party_id, starts_at, ends_at, title,
			status, conflict_status, provider_refs, version
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, 1)
		RETURNING ` + eventColumns
	saved, err := s.scanOne(s.q.QueryRow(ctx, q,
		ev.PartyID, ev.StartsAt, ev.EndsAt, ev.Title,
		ev.Status, string(ev.ConflictStatus), refs,
	))
	if err != nil {
		return domain.Event{}, wrapDB(err, "store event for party %s", ev.PartyID)
	}
	return saved, nil
}

func (s *pg) Get(ctx context.Context, id string) (domain.Event, bool, error) {
	const q = `SELECT ` + eventColumns + ` FROM scheduled_events WHERE id = $1::uuid`
	ev, err := s.scanOne(s.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Event{}, false, nil
		}
		return domain.Event{}, false, wrapDB(err, "get event %s", id)
	}
	return ev, true, nil
}

func (s *pg) SetProviderRefs(ctx context.Context, id string, refs map[string]string) error {
	raw, err := encodeRefs(refs)
	if err != nil {
		return err
	}
	const q = `
		UPDATE scheduled_events
		SET provider_refs = $2, version = version + 1, updated_at = now()
		WHERE id = $1::uuid`
	if _, err = s.q.Exec(ctx, q, id, raw); err != nil {
		return wrapDB(err, "set provider refs on event %s", id)
	}
	return nil
}

func (s *pg) MarkCancelled(ctx context.Context, id string) (domain.Event, bool, error) {
	const q = `
		UPDATE scheduled_events
		SET status = $2, version = version + 1, updated_at = now()
		WHERE id = $1::uuid AND status = $3
		RETURNING ` + eventColumns
	ev, err := s.scanOne(s.q.QueryRow(ctx, q, id, domain.StatusCancelled, domain.StatusConfirmed))
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.Event{}, false, nil
		}
		return domain.Event{}, false, wrapDB(err, "cancel event %s", id)
	}
	return ev, true, nil
}

func (s *pg) Upcoming(ctx context.Context, partyID string, from, to time.Time) ([]domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM scheduled_events
		WHERE party_id = $1::uuid AND status = $2
		  AND ends_at > $3 AND starts_at < $4
		ORDER BY starts_at, ends_at`
	rows, err := s.q.Query(ctx, q, partyID, domain.StatusConfirmed, from, to)
	if err != nil {
		return nil, wrapDB(err, "list upcoming events for party %s", partyID)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, wrapDB(err, "list upcoming events for party %s", partyID)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDB(err, "list upcoming events for party %s", partyID)
	}
	return out, nil
}

func (s *pg) scanOne(row repokit.Row) (domain.Event, error) { return scanEvent(row) }

type scanner interface{ Scan(dest ...any) error }

func scanEvent(sc scanner) (domain.Event, error) {
	var (
		ev       domain.Event
		status   string
		conflict string
		refsRaw  []byte
	)
	err := sc.Scan(
		&ev.ID, &ev.PartyID, &ev.StartsAt, &ev.EndsAt, &ev.Title,
		&status, &conflict, &refsRaw, &ev.Version, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	ev.Status = status
	ev.ConflictStatus = schedule.ConflictStatus(conflict)
	if ev.ProviderRefs, err = decodeRefs(refsRaw); err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}

// wrapDB tags raw driver errors; codec errors already carry their code
func wrapDB(err error, format string, a ...any) error {
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.FromPostgresf(err, format, a...)
}

func encodeRefs(refs map[string]string) ([]byte, error) {
	if len(refs) == 0 {
		return []byte(`{}`), nil
	}
	raw, err := json.Marshal(refs)
	if err != nil {
		return nil, perr.JSONErrf("encode provider refs: %v", err)
	}
	return raw, nil
}

func decodeRefs(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return map[string]string{}, nil
	}
	var refs map[string]string
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, perr.JSONErrf("decode provider refs: %v", err)
	}
	if refs == nil {
		refs = map[string]string{}
	}
	return refs, nil
}
