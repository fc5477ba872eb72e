// Package schedule implements the pure interval arithmetic behind mutual
// availability search: candidate slot generation, preference filtering,
// busy-interval merging, slot rating, and conflict detection.
// Everything here is deterministic and free of I/O
package schedule

import (
	"sort"
	"time"
)

// Interval is a half open [Start, End) span of concrete time, UTC
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive length
func (iv Interval) Valid() bool { return iv.End.After(iv.Start) }

// Duration returns End minus Start
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Overlaps reports whether a and b share at least one instant.
// Touching endpoints do not overlap under the half open convention
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether inner lies entirely within outer, boundaries inclusive
func Contains(outer, inner Interval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// Merge coalesces overlapping or touching intervals into the minimal covering
// set, sorted ascending by start. The input slice is never mutated
func Merge(in []Interval) []Interval {
	if len(in) == 0 {
		return nil
	}

	sorted := make([]Interval, len(in))
	copy(sorted, in)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	out := make([]Interval, 0, len(sorted))
	cur := sorted[0]
	for _, iv := range sorted[1:] {
		// touching counts as joinable, so compare with After not Before
		if !iv.Start.After(cur.End) {
			if iv.End.After(cur.End) {
				cur.End = iv.End
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	return append(out, cur)
}

// overlapsAny reports whether iv overlaps any interval in set
func overlapsAny(iv Interval, set []Interval) bool {
	for _, b := range set {
		if Overlaps(iv, b) {
			return true
		}
	}
	return false
}
