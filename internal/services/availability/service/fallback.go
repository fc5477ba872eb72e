package service

import (
	"context"
	"sort"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/platform/logger"
	"tandem/internal/services/availability/domain"
)

// fallbackFloor is the smallest duration the shorter strategy will try
const fallbackFloor = 30 * time.Minute

// Suggest relaxes a failed search along three independent axes and
// returns whatever alternatives it can scrape together. Each strategy
// is a full re-search with modified inputs, so one strategy can still
// deliver when another hits the same wall the original query did.
// Strategy failures are logged and swallowed; the ladder itself never
// fails, and an empty list is a valid outcome
func (s *Service) Suggest(ctx context.Context, q domain.Query) ([]domain.Suggestion, error) {
	var out []domain.Suggestion

	if q.Duration > fallbackFloor {
		shorter := q
		shorter.Duration = q.Duration / 2
		if shorter.Duration < fallbackFloor {
			shorter.Duration = fallbackFloor
		}
		out = s.collect(ctx, out, shorter, false, domain.StrategyShorter)
	}

	extended := q
	extended.Range = schedule.Range{Start: q.Range.End, End: q.Range.End.Add(s.cfg.ExtendBy)}
	out = s.collect(ctx, out, extended, false, domain.StrategyExtended)

	out = s.collect(ctx, out, q, true, domain.StrategyRelaxed)

	out = dedupeSuggestions(out)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Slot, out[j].Slot
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.End.Before(b.End)
	})
	return out, nil
}

// collect runs one strategy variant and appends up to the per strategy
// cap. A failing variant contributes nothing and aborts nothing
func (s *Service) collect(ctx context.Context, out []domain.Suggestion, q domain.Query, relaxAll bool, strategy string) []domain.Suggestion {
	slots, err := s.searchVariant(ctx, q, relaxAll)
	if err != nil {
		logger.C(ctx).Warn().
			Err(err).
			Str("strategy", strategy).
			Msg("fallback strategy failed, contributes nothing")
		return out
	}
	for i, slot := range slots {
		if i >= s.cfg.SuggestPerStrategy {
			break
		}
		out = append(out, domain.Suggestion{Slot: slot, Strategy: strategy})
	}
	return out
}

// searchVariant is the full pipeline for one fallback attempt. The
// relaxed variant only runs when both parties require all members free
// and at least one actually confirms calendars; otherwise there is no
// constraint to relax and it contributes nothing
func (s *Service) searchVariant(ctx context.Context, q domain.Query, relaxAll bool) ([]schedule.TimeSlot, error) {
	if err := schedule.ValidateQuery(q.Range, q.Duration); err != nil {
		return nil, mapQueryErr(err)
	}
	pa, pb, err := s.rel.ResolvePair(ctx, q.PartyA, q.PartyB)
	if err != nil {
		return nil, err
	}
	prefA, err := s.prefs.Get(ctx, pa.ID)
	if err != nil {
		return nil, err
	}
	prefB, err := s.prefs.Get(ctx, pb.ID)
	if err != nil {
		return nil, err
	}
	if relaxAll {
		if !prefA.RequireAllMembersFree || !prefB.RequireAllMembersFree {
			return nil, nil
		}
		if !prefA.UseExternalCalendars && !prefB.UseExternalCalendars {
			return nil, nil
		}
	}

	var stats searchStats
	res, err := s.search(ctx, pa, pb, prefA, prefB, q, relaxAll, &stats)
	if err != nil {
		return nil, err
	}
	return res.Slots, nil
}

// dedupeSuggestions drops later suggestions that land on an already
// seen (start, end), so earlier strategies win ties
func dedupeSuggestions(in []domain.Suggestion) []domain.Suggestion {
	if len(in) == 0 {
		return nil
	}
	type slotKey struct{ start, end int64 }
	seen := make(map[slotKey]struct{}, len(in))
	out := make([]domain.Suggestion, 0, len(in))
	for _, sg := range in {
		k := slotKey{sg.Slot.Start.UnixNano(), sg.Slot.End.UnixNano()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, sg)
	}
	return out
}
