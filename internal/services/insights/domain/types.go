// Package domain declares the analytics sink types
package domain

import "time"

// SearchEvent is one availability search outcome bound for ClickHouse
type SearchEvent struct {
	TS               time.Time
	PartyA           string
	PartyB           string
	RangeStart       time.Time
	RangeEnd         time.Time
	DurationSecs     int64
	Outcome          string
	SlotsTotal       int
	SlotsAfterFilter int
	SlotsFinal       int
	CalendarChecked  bool
	ElapsedMs        int64
}
