package domain

import (
	"context"
	"time"

	"tandem/internal/core/schedule"
	availdom "tandem/internal/services/availability/domain"
	reldom "tandem/internal/services/relationship/domain"
)

// BookCmd describes one booking request
type BookCmd struct {
	PartyID string
	Slot    schedule.TimeSlot
	Title   string

	// Mirror pushes the booking onto each member's external calendars
	Mirror bool
}

// BookerPort books, cancels and lists scheduled events
type BookerPort interface {
	Book(ctx context.Context, cmd BookCmd) (Event, error)
	Cancel(ctx context.Context, eventID string) (Event, error)
	ListUpcoming(ctx context.Context, partyID string, horizon time.Duration) ([]Event, error)
}

// MirrorSource pushes and removes provider copies of booked events
type MirrorSource interface {
	// Create mirrors ev onto the account and returns the provider event id
	Create(ctx context.Context, acct availdom.Account, ev MirrorEvent) (string, error)

	// Delete removes a mirrored copy; an already absent id is not an error
	Delete(ctx context.Context, acct availdom.Account, providerEventID string) error
}

// MirrorEvent is the provider facing shape of one booking
type MirrorEvent struct {
	Title string
	Start time.Time
	End   time.Time
}

// Ports are dependencies injected into the events module
type Ports struct {
	Resolver reldom.ResolverPort       // required
	Creds    availdom.CredentialSource // required; mirroring reads the same account rows as the oracle
}
