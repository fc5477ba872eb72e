// Package repo reads booked events and fills the notification outbox
package repo

import (
	"context"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	"tandem/internal/services/conflict/domain"
	eventsdom "tandem/internal/services/events/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the conflict repository
type Storage interface {
	// ConfirmedBetween lists confirmed events overlapping [from, to)
	ConfirmedBetween(ctx context.Context, from, to time.Time) ([]domain.Booked, error)

	// ConfirmedForParty narrows the listing to one party
	ConfirmedForParty(ctx context.Context, partyID string, from, to time.Time) ([]domain.Booked, error)

	// SetConflictStatus flips the stored status. changed is false when
	// the row already carried it or is no longer confirmed
	SetConflictStatus(ctx context.Context, eventID string, status schedule.ConflictStatus) (bool, error)

	// EnqueueNotification appends one outbox row
	EnqueueNotification(ctx context.Context, n domain.Notification) error
}

const bookedColumns = `id::text, party_id::text, starts_at, ends_at, conflict_status`

func (s *pg) ConfirmedBetween(ctx context.Context, from, to time.Time) ([]domain.Booked, error) {
	const q = `
		SELECT ` + bookedColumns + `
		FROM scheduled_events
		WHERE status = $1 AND ends_at > $2 AND starts_at < $3
		ORDER BY starts_at, id`
	rows, err := s.q.Query(ctx, q, eventsdom.StatusConfirmed, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (s *pg) ConfirmedForParty(ctx context.Context, partyID string, from, to time.Time) ([]domain.Booked, error) {
	const q = `
		SELECT ` + bookedColumns + `
		FROM scheduled_events
		WHERE party_id = $1::uuid AND status = $2 AND ends_at > $3 AND starts_at < $4
		ORDER BY starts_at, id`
	rows, err := s.q.Query(ctx, q, partyID, eventsdom.StatusConfirmed, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows repokit.Rows) ([]domain.Booked, error) {
	defer rows.Close()
	var out []domain.Booked
	for rows.Next() {
		var (
			b      domain.Booked
			status string
		)
		if err := rows.Scan(&b.EventID, &b.PartyID, &b.StartsAt, &b.EndsAt, &status); err != nil {
			return nil, err
		}
		b.ConflictStatus = schedule.ConflictStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *pg) SetConflictStatus(ctx context.Context, eventID string, status schedule.ConflictStatus) (bool, error) {
	const q = `
		UPDATE scheduled_events
		SET conflict_status = $2, version = version + 1, updated_at = now()
		WHERE id = $1::uuid AND status = $3 AND conflict_status <> $2`
	tag, err := s.q.Exec(ctx, q, eventID, string(status), eventsdom.StatusConfirmed)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *pg) EnqueueNotification(ctx context.Context, n domain.Notification) error {
	const q = `
		INSERT INTO notifications (event_id, party_id, kind, payload)
		VALUES ($1::uuid, $2::uuid, $3, $4)`
	_, err := s.q.Exec(ctx, q, n.EventID, n.PartyID, n.Kind, n.Payload)
	return err
}
