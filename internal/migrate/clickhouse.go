package migrate

import (
	"context"

	"tandem/internal/platform/store"
)

// searchEventsDDL column order must match the tuples the insights
// recorder appends
const searchEventsDDL = `
	CREATE TABLE IF NOT EXISTS tandem.search_events (
		ts                 DateTime64(3, 'UTC'),
		party_a            String,
		party_b            String,
		range_start        DateTime64(3, 'UTC'),
		range_end          DateTime64(3, 'UTC'),
		duration_secs      Int64,
		outcome            LowCardinality(String),
		slots_total        Int32,
		slots_after_filter Int32,
		slots_final        Int32,
		calendar_checked   Bool,
		elapsed_ms         Int64
	)
	ENGINE = MergeTree
	PARTITION BY toYYYYMM(ts)
	ORDER BY (ts, party_a, party_b)
	TTL toDateTime(ts) + INTERVAL 180 DAY`

const searchEventsDB = `CREATE DATABASE IF NOT EXISTS tandem`

// UpClickhouse creates the analytics database and tables. Safe to run
// repeatedly; a nil seam means analytics are disabled and is a no-op
func UpClickhouse(ctx context.Context, ch store.Clickhouse) error {
	if ch == nil {
		return nil
	}
	for _, stmt := range []string{searchEventsDB, searchEventsDDL} {
		rows, err := ch.Query(ctx, stmt)
		if err != nil {
			return err
		}
		rows.Close()
	}
	return nil
}
