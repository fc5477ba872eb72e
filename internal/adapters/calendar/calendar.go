// Package calendar provides resilient HTTP clients for the external
// calendar providers tandem consults for busy data and event mirroring
package calendar

import (
	"context"
	"strings"
	"time"

	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
)

// Kind names a supported calendar provider
type Kind string

// The provider set is closed; adding one means adding a client here
const (
	KindGoogle  Kind = "google"
	KindOutlook Kind = "outlook"
)

// ParseKind maps a stored provider name onto a Kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindGoogle, KindOutlook:
		return k, nil
	default:
		return "", perr.InvalidArgf("unknown calendar provider %q", s)
	}
}

// Credentials carries one account's tokens and calendar selection.
// For google CalendarIDs are calendar ids ("primary" when empty); for
// outlook they are the mailbox SMTP addresses getSchedule expects
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	CalendarIDs  []string
}

// Event is the provider facing shape of a booked slot
type Event struct {
	// CalendarID is empty for the account's primary calendar
	CalendarID string
	Summary    string
	Start      time.Time
	End        time.Time
	Attendees  []string
}

// Provider is the port the availability oracle and the events service consume
type Provider interface {
	// FreeBusy returns the account's busy intervals within rng
	FreeBusy(ctx context.Context, creds Credentials, rng schedule.Range) ([]schedule.Interval, error)
	// CreateEvent mirrors ev onto the provider and returns the provider event id
	CreateEvent(ctx context.Context, creds Credentials, ev Event) (string, error)
	// DeleteEvent removes a mirrored event; an already absent id is not an error
	DeleteEvent(ctx context.Context, creds Credentials, id string) error
	Kind() Kind
}

// New builds the client for kind
func New(kind Kind, opts Options) (Provider, error) {
	switch kind {
	case KindGoogle:
		return NewGoogle(opts), nil
	case KindOutlook:
		return NewOutlook(opts), nil
	default:
		return nil, perr.InvalidArgf("unknown calendar provider %q", kind)
	}
}
