package service

import (
	"context"
	"sync"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/platform/logger"
	"tandem/internal/services/availability/domain"
	"tandem/internal/services/availability/repo"
	reldom "tandem/internal/services/relationship/domain"
)

// OracleConfig tunes the calendar fan-out
type OracleConfig struct {
	Workers int // concurrent (user, account) fetches; <=0 -> 4
}

// Oracle implements domain.OraclePort over credential and busy sources
type Oracle struct {
	creds domain.CredentialSource
	busy  domain.BusySource
	cfg   OracleConfig
}

// NewOracle constructs the calendar availability oracle
func NewOracle(creds domain.CredentialSource, busy domain.BusySource, cfg OracleConfig) *Oracle {
	if creds == nil || busy == nil {
		panic("availability.Oracle requires credential and busy sources")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Oracle{creds: creds, busy: busy, cfg: cfg}
}

// FetchBusy fans out one fetch per (user, account) pair under a bounded
// semaphore and merges each user's intervals into a minimal covering
// set. A failed pair degrades into no data from that source; the error
// is non-nil only when every attempted pair failed. Users without
// accounts are absent from the map, which reads as fully free
func (o *Oracle) FetchBusy(
	ctx context.Context,
	userIDs []string,
	rng schedule.Range,
) (map[string][]schedule.Interval, error) {
	accounts, err := o.creds.AccountsOf(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	type unit struct {
		userID string
		acct   domain.Account
	}
	var units []unit
	for _, uid := range userIDs {
		for _, a := range accounts[uid] {
			units = append(units, unit{userID: uid, acct: a})
		}
	}
	if len(units) == 0 {
		return map[string][]schedule.Interval{}, nil
	}

	out := make([][]schedule.Interval, len(units))
	errs := make([]error, len(units))

	sem := make(chan struct{}, o.cfg.Workers)
	wg := sync.WaitGroup{}
	for i := range units {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			u := units[i]
			ivs, err := o.busy.Busy(ctx, u.acct, rng)
			if err != nil {
				logger.C(ctx).Warn().
					Err(err).
					Str("user_id", u.userID).
					Str("provider", u.acct.Provider).
					Msg("calendar busy fetch failed, source contributes nothing")
				errs[i] = err
				return
			}
			out[i] = ivs
		}(i)
	}
	wg.Wait()

	failed := 0
	var firstErr error
	byUser := make(map[string][]schedule.Interval)
	for i, u := range units {
		if errs[i] != nil {
			failed++
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		byUser[u.userID] = append(byUser[u.userID], out[i]...)
	}
	if failed == len(units) {
		return nil, perr.CalendarSyncf(firstErr, "every calendar source failed (%d attempted)", failed)
	}
	for uid, ivs := range byUser {
		byUser[uid] = schedule.Merge(ivs)
	}
	return byUser, nil
}

// IsFree fetches busy data for the slot's window and applies the
// requireAll policy across the parties' members
func (o *Oracle) IsFree(
	ctx context.Context,
	parties []reldom.Party,
	slot schedule.TimeSlot,
	requireAll bool,
) (bool, error) {
	var ids []string
	groups := make([][]string, 0, len(parties))
	for _, p := range parties {
		members := p.UserIDs()
		ids = append(ids, members...)
		groups = append(groups, members)
	}

	busy, err := o.FetchBusy(ctx, ids, schedule.Range{Start: slot.Start, End: slot.End})
	if err != nil {
		return false, err
	}
	return freeAt(busy, groups, slot, requireAll), nil
}

// freeAt reports slot freedom against fetched busy data. requireAll
// demands every member of every group free; otherwise one free member
// per group suffices. A user missing from the busy map counts as free
func freeAt(busy map[string][]schedule.Interval, groups [][]string, slot schedule.TimeSlot, requireAll bool) bool {
	iv := slot.Interval()
	for _, members := range groups {
		anyFree := len(members) == 0
		for _, uid := range members {
			free := !overlapsBusy(iv, busy[uid])
			if requireAll && !free {
				return false
			}
			if free {
				anyFree = true
			}
		}
		if !requireAll && !anyFree {
			return false
		}
	}
	return true
}

func overlapsBusy(iv schedule.Interval, busy []schedule.Interval) bool {
	for _, b := range busy {
		if schedule.Overlaps(iv, b) {
			return true
		}
	}
	return false
}

// credStore implements domain.CredentialSource over the repo
type credStore struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// NewCredentialStore builds the pg backed credential source
func NewCredentialStore(db repokit.TxRunner, b repokit.Binder[repo.Storage]) domain.CredentialSource {
	if db == nil {
		panic("availability: credential store requires a db")
	}
	return &credStore{db: db, binder: b}
}

func (c *credStore) AccountsOf(ctx context.Context, userIDs []string) (map[string][]domain.Account, error) {
	accts, err := c.binder.Bind(c.db).AccountsOf(ctx, userIDs)
	if err != nil {
		return nil, perr.FromPostgresf(err, "load calendar accounts")
	}
	return accts, nil
}
