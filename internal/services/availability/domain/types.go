// Package domain declares availability search types and ports
package domain

import (
	"time"

	"tandem/internal/core/schedule"
)

// Query asks for mutual availability between two parties
type Query struct {
	PartyA   string
	PartyB   string
	Range    schedule.Range
	Duration time.Duration
}

// Result is a successful availability search outcome
type Result struct {
	Slots           []schedule.TimeSlot
	CalendarChecked bool
}

// Strategy names tagged onto fallback suggestions
const (
	StrategyShorter  = "shorter"
	StrategyExtended = "extended"
	StrategyRelaxed  = "relaxed"
)

// Suggestion is one fallback slot and the strategy that found it
type Suggestion struct {
	Slot     schedule.TimeSlot
	Strategy string
}

// Account is one external calendar binding for a user
type Account struct {
	UserID       string
	Provider     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CalendarIDs  []string
}
