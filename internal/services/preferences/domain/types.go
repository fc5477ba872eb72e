// Package domain declares the preference types shared across modules
package domain

import (
	"strings"
	"time"

	"tandem/internal/core/schedule"
)

// Bounds applied when a party has never saved a preference row
const (
	DefaultMinAdvanceNotice = 24 * time.Hour
	DefaultMaxAdvanceWindow = 90 * 24 * time.Hour
)

// Prefs is one party's saved availability preference set
type Prefs struct {
	Windows               schedule.WeeklyWindows
	Commitments           []schedule.Commitment
	MinAdvanceNotice      time.Duration
	MaxAdvanceWindow      time.Duration
	RequireAllMembersFree bool
	UseExternalCalendars  bool
	Version               int
	UpdatedAt             time.Time
}

// Defaults returns the canonical preference set for parties without a
// saved row: free around the clock every weekday, a full day of notice,
// and a ninety day planning horizon
func Defaults() Prefs {
	w := make(schedule.WeeklyWindows, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		w[d] = []schedule.DayWindow{{Start: 0, End: schedule.MinutesPerDay}}
	}
	return Prefs{
		Windows:               w,
		MinAdvanceNotice:      DefaultMinAdvanceNotice,
		MaxAdvanceWindow:      DefaultMaxAdvanceWindow,
		RequireAllMembersFree: true,
	}
}

// TightenBounds returns the advance bounds a pair search runs under:
// the later notice and the nearer horizon of the two sides
func TightenBounds(a, b Prefs) (notice, horizon time.Duration) {
	notice = a.MinAdvanceNotice
	if b.MinAdvanceNotice > notice {
		notice = b.MinAdvanceNotice
	}
	horizon = a.MaxAdvanceWindow
	if b.MaxAdvanceWindow < horizon {
		horizon = b.MaxAdvanceWindow
	}
	return notice, horizon
}

// weekdayKeys holds the short lowercase keys used in stored and wire
// form, indexed by time.Weekday
var weekdayKeys = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// KeyFromWeekday returns the short lowercase key for d
func KeyFromWeekday(d time.Weekday) string { return weekdayKeys[d] }

// WeekdayFromKey parses a short weekday key, case insensitively
func WeekdayFromKey(key string) (time.Weekday, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, s := range weekdayKeys {
		if s == k {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
