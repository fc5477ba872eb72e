// Package service implements preference reads, writes, and validation
package service

import (
	"context"
	"sort"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/services/preferences/domain"
	"tandem/internal/services/preferences/repo"
)

// Service owns party preference persistence
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// New builds the preferences service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	if db == nil {
		panic("preferences: db is required")
	}
	return &Service{db: db, binder: b}
}

func (s *Service) storage() repo.Storage { return s.binder.Bind(s.db) }

// Get returns the party's saved preferences, or the canonical defaults
// with Version zero when the party never saved any
func (s *Service) Get(ctx context.Context, partyID string) (domain.Prefs, error) {
	p, found, err := s.storage().Get(ctx, partyID)
	if err != nil {
		return domain.Prefs{}, err
	}
	if !found {
		return domain.Defaults(), nil
	}
	return p, nil
}

// Put validates and replaces a party's preferences under optimistic
// concurrency. expectedVersion zero creates the first row; any other
// value must match the stored version or the write is rejected
func (s *Service) Put(
	ctx context.Context,
	partyID string,
	p domain.Prefs,
	expectedVersion int,
) (domain.Prefs, error) {
	if err := validate(p); err != nil {
		return domain.Prefs{}, err
	}
	if expectedVersion < 0 {
		return domain.Prefs{}, perr.InvalidArgf("expected version must not be negative")
	}

	st := s.storage()
	if expectedVersion == 0 {
		saved, ok, err := st.Insert(ctx, partyID, p)
		if err != nil {
			return domain.Prefs{}, err
		}
		if !ok {
			return domain.Prefs{}, perr.ConcurrentUpdatef(
				"preferences for party %s already exist", partyID)
		}
		return saved, nil
	}

	saved, ok, err := st.Update(ctx, partyID, p, expectedVersion)
	if err != nil {
		return domain.Prefs{}, err
	}
	if !ok {
		return domain.Prefs{}, perr.ConcurrentUpdatef(
			"preferences for party %s are no longer at version %d", partyID, expectedVersion)
	}
	return saved, nil
}

// validate rejects malformed windows, overlapping windows on one
// weekday, malformed commitments, and inverted advance bounds
func validate(p domain.Prefs) error {
	for wd, wins := range p.Windows {
		if wd < time.Sunday || wd > time.Saturday {
			return perr.InvalidArgf("unknown weekday %d in windows", int(wd))
		}
		key := domain.KeyFromWeekday(wd)

		sorted := make([]schedule.DayWindow, len(wins))
		copy(sorted, wins)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
		for i, w := range sorted {
			if !w.Valid() {
				return perr.InvalidArgf("invalid window %d-%d on %s", int(w.Start), int(w.End), key)
			}
			if i > 0 && sorted[i-1].End > w.Start {
				return perr.InvalidArgf("windows overlap on %s", key)
			}
		}
	}

	for _, c := range p.Commitments {
		if c.Weekday < time.Sunday || c.Weekday > time.Saturday {
			return perr.InvalidArgf("unknown weekday %d in commitments", int(c.Weekday))
		}
		if !c.Window.Valid() {
			return perr.InvalidArgf("invalid commitment window %d-%d on %s",
				int(c.Window.Start), int(c.Window.End), domain.KeyFromWeekday(c.Weekday))
		}
	}

	if p.MinAdvanceNotice < 0 {
		return perr.InvalidArgf("min advance notice must not be negative")
	}
	if p.MaxAdvanceWindow <= 0 {
		return perr.InvalidArgf("max advance window must be positive")
	}
	if p.MinAdvanceNotice >= p.MaxAdvanceWindow {
		return perr.InvalidArgf("min advance notice must fall inside the max advance window")
	}
	return nil
}
