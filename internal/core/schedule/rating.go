package schedule

import "time"

// Rate grades a slot against the busy intervals on its day.
//
// A day with no busy data at all rates excellent. Otherwise the free gap
// enclosing the slot between the nearest surrounding busy blocks decides:
// a gap of at least twice the slot duration rates good, anything tighter
// rates fair. Slots overlapping busy data are not meant to reach here
func Rate(slot TimeSlot, busy []Interval) Rating {
	dayStart := time.Date(slot.Start.Year(), slot.Start.Month(), slot.Start.Day(), 0, 0, 0, 0, time.UTC)
	day := Interval{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	merged := Merge(busy)

	gapStart, gapEnd := day.Start, day.End
	dayFree := true
	for _, iv := range merged {
		if Overlaps(iv, day) {
			dayFree = false
		}
		// nearest busy block ending at or before the slot bounds the gap left
		if !iv.End.After(slot.Start) && iv.End.After(gapStart) {
			gapStart = iv.End
		}
		// nearest busy block starting at or after the slot bounds it right
		if !iv.Start.Before(slot.End) && iv.Start.Before(gapEnd) {
			gapEnd = iv.Start
		}
	}
	if dayFree {
		return RatingExcellent
	}
	if gapEnd.Sub(gapStart) >= 2*slot.Duration() {
		return RatingGood
	}
	return RatingFair
}
