// Package ch provides a clickhouse client
package ch

import (
	"context"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// Role tags the connection for server-side bookkeeping (e.g. "api", "sentinel")
	Role string

	// Tag is an optional version/build tag surfaced in client info
	Tag string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// conn is the slice of driver.Conn we actually use; kept narrow so tests can fake it
type conn interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Close() error
}

// openConn is a seam for tests
var openConn = func(opt *clickhouse.Options) (driver.Conn, error) { return clickhouse.Open(opt) }

// CH is a clickhouse client over the native protocol
type CH struct {
	c conn
}

// Open parses the DSN and builds a lazy client; no dial happens until first use
func Open(_ context.Context, cfg Config) (*CH, error) {
	opt, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opt.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)

	c, err := openConn(opt)
	if err != nil {
		return nil, err
	}
	return &CH{c: c}, nil
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.c == nil {
		return errors.New("ch: nil client")
	}
	return c.c.Ping(ctx)
}

// Insert appends rows to table via a native batch
// rows are positional value tuples matching the table column order
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if c == nil || c.c == nil {
		return errors.New("ch: nil client")
	}
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.c.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if c == nil || c.c == nil {
		return nil, errors.New("ch: nil client")
	}
	r, err := c.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r: r}, nil
}

// Close closes the underlying connection pool
func (c *CH) Close() error {
	if c == nil || c.c == nil {
		return nil
	}
	return c.c.Close()
}

// chRows adapts driver.Rows to ch.Rows
type chRows struct{ r driver.Rows }

func (x chRows) Next() bool             { return x.r.Next() }
func (x chRows) Scan(dest ...any) error { return x.r.Scan(dest...) }
func (x chRows) Err() error             { return x.r.Err() }
func (x chRows) Close() error           { return x.r.Close() }
func (x chRows) Columns() []string      { return x.r.Columns() }
