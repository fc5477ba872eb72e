package schedule

import "time"

// Rating grades how much breathing room a slot has on its day relative to
// the busy intervals around it
type Rating uint8

const (
	// RatingNone means the slot was never rated
	RatingNone Rating = iota
	// RatingFair is a slot squeezed between nearby busy blocks
	RatingFair
	// RatingGood is a slot with a comfortable free gap around it
	RatingGood
	// RatingExcellent is a slot on a day with no busy data at all
	RatingExcellent
)

// String returns the lowercase wire name of the rating
func (r Rating) String() string {
	switch r {
	case RatingFair:
		return "fair"
	case RatingGood:
		return "good"
	case RatingExcellent:
		return "excellent"
	default:
		return "none"
	}
}

// TimeSlot is a half open [Start, End) bookable window, UTC
type TimeSlot struct {
	Start  time.Time
	End    time.Time
	Rating Rating
}

// Duration returns End minus Start
func (s TimeSlot) Duration() time.Duration { return s.End.Sub(s.Start) }

// Interval strips the rating and returns the bare span
func (s TimeSlot) Interval() Interval { return Interval{Start: s.Start, End: s.End} }

// Valid reports whether the slot has positive length
func (s TimeSlot) Valid() bool { return s.End.After(s.Start) }
