// Package service runs conflict sweeps over booked events
package service

import (
	"context"
	"encoding/json"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/platform/logger"
	availdom "tandem/internal/services/availability/domain"
	"tandem/internal/services/conflict/domain"
	"tandem/internal/services/conflict/repo"
	reldom "tandem/internal/services/relationship/domain"
)

// Config tunes the sweeper
type Config struct {
	// DefaultHorizon is used when a caller passes no horizon
	DefaultHorizon time.Duration
}

// Service implements domain.SweeperPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	rel    reldom.ResolverPort
	oracle availdom.OraclePort
	cfg    Config
	now    func() time.Time // swapped in tests
}

// New constructs the sweeper
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	rel reldom.ResolverPort,
	oracle availdom.OraclePort,
	cfg Config,
) *Service {
	if db == nil {
		panic("conflict.New: db required")
	}
	if binder == nil {
		panic("conflict.New: repo binder required")
	}
	if rel == nil {
		panic("conflict.New: resolver required")
	}
	if oracle == nil {
		panic("conflict.New: oracle required")
	}
	if cfg.DefaultHorizon <= 0 {
		cfg.DefaultHorizon = 14 * 24 * time.Hour
	}
	return &Service{db: db, binder: binder, rel: rel, oracle: oracle, cfg: cfg, now: time.Now}
}

func (s *Service) storage() repo.Storage { return s.binder.Bind(s.db) }

// Sweep re-checks every confirmed event inside the horizon against
// fresh busy data and persists status flips. Steady states stay quiet;
// only a flip enqueues a notification
func (s *Service) Sweep(ctx context.Context, horizon time.Duration) (domain.Report, error) {
	from, to, horizon := s.window(horizon)
	rows, err := s.storage().ConfirmedBetween(ctx, from, to)
	if err != nil {
		return domain.Report{}, perr.FromPostgresf(err, "load confirmed events")
	}
	return s.run(ctx, rows, nil, from, to, horizon)
}

// ScanParty runs the same pass for a single party on demand
func (s *Service) ScanParty(ctx context.Context, partyID string, horizon time.Duration) (domain.Report, error) {
	party, err := s.rel.ResolveParty(ctx, partyID)
	if err != nil {
		return domain.Report{}, err
	}
	from, to, horizon := s.window(horizon)
	rows, err := s.storage().ConfirmedForParty(ctx, partyID, from, to)
	if err != nil {
		return domain.Report{}, perr.FromPostgresf(err, "load confirmed events for party %s", partyID)
	}
	members := map[string][]string{party.ID: party.UserIDs()}
	return s.run(ctx, rows, members, from, to, horizon)
}

func (s *Service) window(horizon time.Duration) (time.Time, time.Time, time.Duration) {
	if horizon <= 0 {
		horizon = s.cfg.DefaultHorizon
	}
	from := s.now().UTC()
	return from, from.Add(horizon), horizon
}

// run detects collisions for the loaded events and persists the flips.
// members may arrive pre-resolved; nil means resolve per distinct party
func (s *Service) run(
	ctx context.Context,
	rows []domain.Booked,
	members map[string][]string,
	from, to time.Time,
	horizon time.Duration,
) (domain.Report, error) {
	rep := domain.Report{At: from, Horizon: horizon}
	if len(rows) == 0 {
		return rep, nil
	}
	if members == nil {
		members = s.resolveParties(ctx, rows)
	}

	evs, union := detectorInput(rows, members)
	rep.Events = len(evs)
	if len(evs) == 0 {
		return rep, nil
	}

	// busy data must also cover the tail of events running past the horizon
	hi := to
	for _, r := range rows {
		if r.EndsAt.After(hi) {
			hi = r.EndsAt
		}
	}
	busy, err := s.oracle.FetchBusy(ctx, union, schedule.Range{Start: from, End: hi})
	if err != nil {
		return domain.Report{}, err
	}

	flags := schedule.DetectConflicts(evs, busyKeys(busy))
	statuses := schedule.Statuses(evs, flags)
	rep.Flagged = len(flags)

	flagged := make(map[string]schedule.ConflictFlag, len(flags))
	for _, f := range flags {
		flagged[f.EventID] = f
	}

	for _, r := range rows {
		target, ok := statuses[r.EventID]
		if !ok || target == r.ConflictStatus {
			continue
		}
		tr := domain.Transition{
			EventID: r.EventID,
			PartyID: r.PartyID,
			From:    r.ConflictStatus,
			To:      target,
		}
		if f, hit := flagged[r.EventID]; hit {
			tr.Members = memberStrings(f.Members)
			tr.Overlaps = f.Overlaps
		}
		changed, err := s.persist(ctx, tr)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Str("event", r.EventID).
				Msg("conflict transition not persisted, next sweep retries")
			continue
		}
		if changed {
			rep.Transitions = append(rep.Transitions, tr)
		}
	}

	logger.C(ctx).Info().
		Int("events", rep.Events).
		Int("flagged", rep.Flagged).
		Int("transitions", len(rep.Transitions)).
		Msg("conflict sweep complete")
	return rep, nil
}

// resolveParties loads membership for each distinct party. Events of an
// unresolvable party are skipped, not failed; the next sweep retries
func (s *Service) resolveParties(ctx context.Context, rows []domain.Booked) map[string][]string {
	out := make(map[string][]string)
	for _, r := range rows {
		if _, seen := out[r.PartyID]; seen {
			continue
		}
		p, err := s.rel.ResolveParty(ctx, r.PartyID)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Str("party", r.PartyID).
				Msg("party unresolvable, its events skipped")
			out[r.PartyID] = nil
			continue
		}
		out[r.PartyID] = p.UserIDs()
	}
	return out
}

// persist flips the stored status and enqueues the outbox row in one
// transaction. changed is false when a concurrent sweep beat this one,
// in which case no duplicate notification is written
func (s *Service) persist(ctx context.Context, tr domain.Transition) (bool, error) {
	payload, err := payloadOf(tr)
	if err != nil {
		return false, err
	}
	var changed bool
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		ok, err := st.SetConflictStatus(ctx, tr.EventID, tr.To)
		if err != nil {
			return perr.FromPostgresf(err, "flip conflict status on event %s", tr.EventID)
		}
		if !ok {
			return nil
		}
		changed = true
		if err := st.EnqueueNotification(ctx, domain.Notification{
			EventID: tr.EventID,
			PartyID: tr.PartyID,
			Kind:    tr.Kind(),
			Payload: payload,
		}); err != nil {
			return perr.FromPostgresf(err, "enqueue %s notification for event %s", tr.Kind(), tr.EventID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// detectorInput converts rows into detector events plus the member union
func detectorInput(rows []domain.Booked, members map[string][]string) ([]schedule.Event, []string) {
	var (
		evs   []schedule.Event
		union []string
	)
	seen := make(map[string]bool)
	for _, r := range rows {
		mem := members[r.PartyID]
		if len(mem) == 0 {
			continue
		}
		keys := make([]schedule.UserKey, 0, len(mem))
		for _, id := range mem {
			keys = append(keys, schedule.UserKey(id))
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
		evs = append(evs, schedule.Event{
			ID:      r.EventID,
			PartyID: r.PartyID,
			Slot:    schedule.TimeSlot{Start: r.StartsAt, End: r.EndsAt},
			Members: keys,
		})
	}
	return evs, union
}

func busyKeys(busy map[string][]schedule.Interval) map[schedule.UserKey][]schedule.Interval {
	out := make(map[schedule.UserKey][]schedule.Interval, len(busy))
	for id, ivs := range busy {
		out[schedule.UserKey(id)] = ivs
	}
	return out
}

func memberStrings(keys []schedule.UserKey) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, string(k))
	}
	return out
}

// wire shape of the outbox payload
type payloadSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type payloadDoc struct {
	EventID  string        `json:"event_id"`
	PartyID  string        `json:"party_id"`
	From     string        `json:"from"`
	To       string        `json:"to"`
	Members  []string      `json:"members,omitempty"`
	Overlaps []payloadSpan `json:"overlaps,omitempty"`
}

func payloadOf(tr domain.Transition) ([]byte, error) {
	doc := payloadDoc{
		EventID: tr.EventID,
		PartyID: tr.PartyID,
		From:    string(tr.From),
		To:      string(tr.To),
		Members: tr.Members,
	}
	for _, o := range tr.Overlaps {
		doc.Overlaps = append(doc.Overlaps, payloadSpan{Start: o.Start, End: o.End})
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, perr.JSONErrf("encode conflict payload: %v", err)
	}
	return raw, nil
}
