// Package service implements the mutual availability engine
package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"tandem/internal/core/schedule"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/availability/domain"
	insightsdom "tandem/internal/services/insights/domain"
	prefdom "tandem/internal/services/preferences/domain"
	reldom "tandem/internal/services/relationship/domain"
)

// Config tunes the search service
type Config struct {
	// SuggestPerStrategy caps how many slots each fallback strategy may
	// contribute. Zero or negative means 3
	SuggestPerStrategy int

	// ExtendBy is how far the extended-range strategy pushes the query
	// end. Zero or negative means 14 days
	ExtendBy time.Duration
}

// Service runs availability searches across both parties' preferences
// and, when either side asks for it, their external calendars
type Service struct {
	rel      reldom.ResolverPort
	prefs    prefdom.PrefsPort
	oracle   domain.OraclePort
	insights insightsdom.RecorderPort
	cfg      Config

	now func() time.Time // swapped in tests
}

// New builds the engine. rel, prefs and oracle are required; insights
// may be nil to disable analytics
func New(rel reldom.ResolverPort, prefs prefdom.PrefsPort, oracle domain.OraclePort, insights insightsdom.RecorderPort, cfg Config) *Service {
	if rel == nil {
		panic("availability.New: resolver required")
	}
	if prefs == nil {
		panic("availability.New: prefs required")
	}
	if oracle == nil {
		panic("availability.New: oracle required")
	}
	if cfg.SuggestPerStrategy <= 0 {
		cfg.SuggestPerStrategy = 3
	}
	if cfg.ExtendBy <= 0 {
		cfg.ExtendBy = 14 * 24 * time.Hour
	}
	return &Service{rel: rel, prefs: prefs, oracle: oracle, insights: insights, cfg: cfg, now: time.Now}
}

// searchStats counts slots surviving each pipeline stage
type searchStats struct {
	total       int
	afterFilter int
	final       int
	calendar    bool
}

// FindSlots finds times both parties can make. Slots come back
// ascending by start, each carrying a confidence rating
func (s *Service) FindSlots(ctx context.Context, q domain.Query) (domain.Result, error) {
	started := s.now()
	var stats searchStats
	res, err := s.findSlots(ctx, q, &stats)
	s.record(ctx, q, started, stats, err)
	return res, err
}

func (s *Service) findSlots(ctx context.Context, q domain.Query, stats *searchStats) (domain.Result, error) {
	if err := schedule.ValidateQuery(q.Range, q.Duration); err != nil {
		return domain.Result{}, mapQueryErr(err)
	}

	pa, pb, err := s.rel.ResolvePair(ctx, q.PartyA, q.PartyB)
	if err != nil {
		return domain.Result{}, err
	}

	prefA, err := s.prefs.Get(ctx, pa.ID)
	if err != nil {
		return domain.Result{}, err
	}
	prefB, err := s.prefs.Get(ctx, pb.ID)
	if err != nil {
		return domain.Result{}, err
	}

	return s.search(ctx, pa, pb, prefA, prefB, q, false, stats)
}

// search runs generate, filter and calendar confirmation for one query
// variant. relaxAll forces the all-members-free policy off; only the
// relaxed fallback strategy sets it
func (s *Service) search(
	ctx context.Context,
	pa, pb reldom.Party,
	prefA, prefB prefdom.Prefs,
	q domain.Query,
	relaxAll bool,
	stats *searchStats,
) (domain.Result, error) {
	// Candidates come from the requesting party's own windows under the
	// pair's tighter advance bounds; the other party gates them next
	slots, err := s.generate(q, prefA, prefB)
	if err != nil {
		return domain.Result{}, err
	}
	stats.total = len(slots)
	if len(slots) == 0 {
		return domain.Result{}, perr.UnavailablePeriodf(
			"party %s has no openings of %s in the requested range", pa.ID, q.Duration)
	}

	slots = schedule.Filter(slots, prefB.Windows, prefB.Commitments)
	stats.afterFilter = len(slots)
	if len(slots) == 0 {
		return domain.Result{}, perr.PreferenceConflictf(
			"parties %s and %s share no mutual openings of %s", pa.ID, pb.ID, q.Duration)
	}

	res := domain.Result{Slots: slots}
	var busy map[string][]schedule.Interval
	if prefA.UseExternalCalendars || prefB.UseExternalCalendars {
		res.CalendarChecked = true
		stats.calendar = true

		members, groups := memberUnion(pa, pb)
		busy, err = s.oracle.FetchBusy(ctx, members, q.Range)
		if err != nil {
			return domain.Result{}, err
		}

		requireAll := (prefA.RequireAllMembersFree || prefB.RequireAllMembersFree) && !relaxAll
		kept := make([]schedule.TimeSlot, 0, len(slots))
		for _, slot := range slots {
			if freeAt(busy, groups, slot, requireAll) {
				kept = append(kept, slot)
			}
		}
		if len(kept) == 0 {
			return domain.Result{}, perr.CalendarSyncf(nil, "no slot survived calendar confirmation")
		}
		res.Slots = kept
	}

	sort.Slice(res.Slots, func(i, j int) bool { return res.Slots[i].Start.Before(res.Slots[j].Start) })
	flat := flattenBusy(busy)
	for i := range res.Slots {
		res.Slots[i].Rating = schedule.Rate(res.Slots[i], flat)
	}
	stats.final = len(res.Slots)
	return res, nil
}

// generate projects candidate slots from prefA's weekly shape. Advance
// bounds tighten pairwise so neither party's notice or horizon is
// violated
func (s *Service) generate(q domain.Query, prefA, prefB prefdom.Prefs) ([]schedule.TimeSlot, error) {
	notice, horizon := prefdom.TightenBounds(prefA, prefB)
	merged := schedule.MergedPrefs{
		Windows:          prefA.Windows,
		Commitments:      prefA.Commitments,
		MinAdvanceNotice: notice,
		MaxAdvanceWindow: horizon,
	}
	return schedule.Generate(s.now(), q.Range, q.Duration, merged)
}

// mapQueryErr lifts schedule validation sentinels into the error taxonomy
func mapQueryErr(err error) error {
	switch {
	case errors.Is(err, schedule.ErrInvalidRange):
		return perr.InvalidTimeRangef("%s", err)
	case errors.Is(err, schedule.ErrInvalidDuration):
		return perr.InvalidDurationf("%s", err)
	default:
		return perr.InvalidArgf("%s", err)
	}
}

// memberUnion flattens both parties into a deduplicated id list for the
// busy fetch plus per-party groups for the free check
func memberUnion(pa, pb reldom.Party) (members []string, groups [][]string) {
	seen := make(map[string]struct{})
	for _, id := range append(pa.UserIDs(), pb.UserIDs()...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members, [][]string{pa.UserIDs(), pb.UserIDs()}
}

// flattenBusy folds the per-user busy map into one interval list for
// rating. Rate merges overlaps itself so order does not matter
func flattenBusy(busy map[string][]schedule.Interval) []schedule.Interval {
	if len(busy) == 0 {
		return nil
	}
	var out []schedule.Interval
	for _, ivs := range busy {
		out = append(out, ivs...)
	}
	return out
}

// record hands the outcome to the analytics sink. A nil sink drops it
func (s *Service) record(ctx context.Context, q domain.Query, started time.Time, stats searchStats, err error) {
	if s.insights == nil {
		return
	}
	s.insights.Record(ctx, insightsdom.SearchEvent{
		TS:               started,
		PartyA:           q.PartyA,
		PartyB:           q.PartyB,
		RangeStart:       q.Range.Start,
		RangeEnd:         q.Range.End,
		DurationSecs:     int64(q.Duration / time.Second),
		Outcome:          outcomeOf(err),
		SlotsTotal:       stats.total,
		SlotsAfterFilter: stats.afterFilter,
		SlotsFinal:       stats.final,
		CalendarChecked:  stats.calendar,
		ElapsedMs:        s.now().Sub(started).Milliseconds(),
	})
}

// outcomeOf names a search result with a low cardinality label
func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeInvalidTimeRange, perr.ErrorCodeInvalidDuration:
		return "invalid_query"
	case perr.ErrorCodeRelationshipNotFound:
		return "no_relationship"
	case perr.ErrorCodeUnavailablePeriod:
		return "no_candidates"
	case perr.ErrorCodePreferenceConflict:
		return "preference_conflict"
	case perr.ErrorCodeCalendarSync:
		return "calendar_sync"
	default:
		return "error"
	}
}
