// Package service buffers search outcomes and flushes them to ClickHouse
package service

import (
	"context"
	"time"

	"tandem/internal/platform/logger"
	"tandem/internal/platform/store"
	"tandem/internal/services/insights/domain"
)

// eventsTable columns are positional: ts, party_a, party_b, range_start,
// range_end, duration_secs, outcome, slots_total, slots_after_filter,
// slots_final, calendar_checked, elapsed_ms
const eventsTable = "tandem.search_events"

// Config tunes event batching
type Config struct {
	BatchSize     int           // rows per insert; <=0 -> 64
	FlushInterval time.Duration // <=0 -> 5s
	BufferSize    int           // queue capacity; <=0 -> 1024
}

// Recorder implements domain.RecorderPort over the CH seam. Record is
// fire and forget; a full buffer drops the event rather than stalling
// the search that produced it
type Recorder struct {
	ch    store.Clickhouse
	cfg   Config
	queue chan domain.SearchEvent
}

// NewRecorder builds the recorder. Callers without ClickHouse should
// hand the engine a nil port instead of a recorder with a nil store
func NewRecorder(ch store.Clickhouse, cfg Config) *Recorder {
	if ch == nil {
		panic("insights.NewRecorder requires a clickhouse store")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	return &Recorder{ch: ch, cfg: cfg, queue: make(chan domain.SearchEvent, cfg.BufferSize)}
}

// Record implements domain.RecorderPort
func (r *Recorder) Record(ctx context.Context, ev domain.SearchEvent) {
	select {
	case r.queue <- ev:
	default:
		logger.C(ctx).Debug().Msg("insights buffer full, dropping search event")
	}
}

// Run drains the buffer until ctx ends, inserting whenever a batch
// fills or the flush interval passes, then flushes the remainder
func (r *Recorder) Run(ctx context.Context) error {
	t := time.NewTicker(r.cfg.FlushInterval)
	defer t.Stop()

	batch := make([]domain.SearchEvent, 0, r.cfg.BatchSize)
	for {
		select {
		case <-ctx.Done():
			r.drain(&batch)
			r.flush(batch)
			return ctx.Err()
		case ev := <-r.queue:
			batch = append(batch, ev)
			if len(batch) >= r.cfg.BatchSize {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-t.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

// drain moves whatever is already queued into the final batch
func (r *Recorder) drain(batch *[]domain.SearchEvent) {
	for {
		select {
		case ev := <-r.queue:
			*batch = append(*batch, ev)
		default:
			return
		}
	}
}

// flush inserts one batch. Failures are logged and the rows dropped;
// analytics never get to break scheduling. The insert runs on its own
// timeout so a dying request context cannot strand queued rows
func (r *Recorder) flush(batch []domain.SearchEvent) {
	if len(batch) == 0 {
		return
	}
	rows := make([][]any, 0, len(batch))
	for _, ev := range batch {
		rows = append(rows, []any{
			ev.TS, ev.PartyA, ev.PartyB, ev.RangeStart, ev.RangeEnd,
			ev.DurationSecs, ev.Outcome,
			ev.SlotsTotal, ev.SlotsAfterFilter, ev.SlotsFinal,
			ev.CalendarChecked, ev.ElapsedMs,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.ch.Insert(ctx, eventsTable, rows); err != nil {
		logger.Named("insights").Warn().Err(err).Int("rows", len(rows)).Msg("search event insert failed, dropping batch")
	}
}
