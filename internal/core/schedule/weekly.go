package schedule

import "time"

// MinuteOfDay counts minutes from midnight, 0 through 1440
type MinuteOfDay int

// MinutesPerDay is the exclusive upper bound for a window end
const MinutesPerDay MinuteOfDay = 24 * 60

// DayWindow is a half open availability window within one day.
// End may be 1440 to run through midnight
type DayWindow struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

// Valid reports whether the window is well formed
func (w DayWindow) Valid() bool {
	return w.Start >= 0 && w.Start < w.End && w.End <= MinutesPerDay
}

// On projects the window onto the calendar date containing day, UTC
func (w DayWindow) On(day time.Time) Interval {
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: base.Add(time.Duration(w.Start) * time.Minute),
		End:   base.Add(time.Duration(w.End) * time.Minute),
	}
}

// WeeklyWindows maps weekdays to their availability windows.
// A weekday absent from the map, or mapped to an empty slice, is fully
// unavailable. Windows on one weekday are expected disjoint; they are
// never implicitly merged
type WeeklyWindows map[time.Weekday][]DayWindow

// Commitment is a standing weekly busy block, reprojected onto every
// concrete date sharing its weekday
type Commitment struct {
	Weekday time.Weekday
	Window  DayWindow
	Label   string
}

// MergedPrefs is the effective preference set the generator consumes.
// For a pair search the engine fills it with the requesting party's
// windows and commitments under the pair's tighter advance bounds; the
// other party's preferences are applied afterwards by Filter
type MergedPrefs struct {
	Windows          WeeklyWindows
	Commitments      []Commitment
	MinAdvanceNotice time.Duration
	MaxAdvanceWindow time.Duration
}

// commitmentsOn projects the commitments matching day's weekday onto day
func commitmentsOn(commitments []Commitment, day time.Time) []Interval {
	var out []Interval
	wd := day.Weekday()
	for _, c := range commitments {
		if c.Weekday != wd {
			continue
		}
		out = append(out, c.Window.On(day))
	}
	return out
}
