package schedule

// Filter keeps the slots that fit the other side's weekly preferences.
//
// A slot survives when its weekday has at least one window that fully
// contains it and it overlaps none of the commitments. The filter is pure
// and order preserving: it never reorders, truncates, or mutates slots.
// A weekday with no windows rejects every slot on that weekday
func Filter(slots []TimeSlot, windows WeeklyWindows, commitments []Commitment) []TimeSlot {
	if len(slots) == 0 {
		return nil
	}
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		if !windowContains(windows, s) {
			continue
		}
		if overlapsAny(s.Interval(), commitmentsOn(commitments, s.Start)) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// windowContains reports whether any window for the slot's weekday fully
// contains the slot once projected onto the slot's date
func windowContains(windows WeeklyWindows, s TimeSlot) bool {
	for _, w := range windows[s.Start.Weekday()] {
		if Contains(w.On(s.Start), s.Interval()) {
			return true
		}
	}
	return false
}
