// Package domain defines the types and ports for the events service
package domain

import (
	"time"

	"tandem/internal/core/schedule"
)

// Lifecycle states of a scheduled event
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Event is one booked slot for a party
type Event struct {
	ID             string
	PartyID        string
	StartsAt       time.Time
	EndsAt         time.Time
	Title          string
	Status         string
	ConflictStatus schedule.ConflictStatus

	// ProviderRefs maps RefKey(userID, provider) to the provider side
	// event id for every calendar the booking was mirrored onto
	ProviderRefs map[string]string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns the booked span
func (e Event) Slot() schedule.TimeSlot {
	return schedule.TimeSlot{Start: e.StartsAt, End: e.EndsAt}
}

// Confirmed reports whether the event still occupies its slot
func (e Event) Confirmed() bool { return e.Status == StatusConfirmed }

// RefKey builds the provider_refs key for one calendar account
func RefKey(userID, provider string) string { return userID + "/" + provider }
