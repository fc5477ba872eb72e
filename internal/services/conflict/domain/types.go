// Package domain defines the types and ports for the conflict service
package domain

import (
	"time"

	"tandem/internal/core/schedule"
)

// Notification kinds written to the outbox
const (
	KindConflict = "conflict"
	KindCleared  = "cleared"
)

// Booked is the sweep's projection of one confirmed event
type Booked struct {
	EventID        string
	PartyID        string
	StartsAt       time.Time
	EndsAt         time.Time
	ConflictStatus schedule.ConflictStatus
}

// Transition is one event whose conflict status flipped during a sweep
type Transition struct {
	EventID string
	PartyID string
	From    schedule.ConflictStatus
	To      schedule.ConflictStatus

	// Members and Overlaps carry the collision detail when To is conflicted
	Members  []string
	Overlaps []schedule.Interval
}

// Kind returns the outbox kind for the transition's target status
func (t Transition) Kind() string {
	if t.To == schedule.StatusConflicted {
		return KindConflict
	}
	return KindCleared
}

// Report summarizes one sweep
type Report struct {
	At          time.Time
	Horizon     time.Duration
	Events      int
	Flagged     int
	Transitions []Transition
}

// Notification is one outbox row awaiting delivery
type Notification struct {
	EventID string
	PartyID string
	Kind    string
	Payload []byte
}
