// Package migrate applies the embedded schema files in name order,
// tracking applied versions in a schema_migrations ledger
package migrate

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"tandem/internal/modkit/repokit"
)

//go:embed *.sql
var files embed.FS

const ledger = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`

// Up applies every pending migration. Each file runs inside its own
// transaction together with its ledger insert, so a failed statement
// leaves the previous files applied and the failed one fully rolled back
func Up(ctx context.Context, db repokit.TxRunner) error {
	if _, err := db.Exec(ctx, ledger); err != nil {
		return fmt.Errorf("create migrations ledger: %w", err)
	}

	names, err := pending(ctx, db)
	if err != nil {
		return err
	}

	for _, name := range names {
		body, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		err = db.Tx(ctx, func(q repokit.Queryer) error {
			if _, err := q.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			if _, err := q.Exec(ctx,
				`INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
				return fmt.Errorf("record %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// pending returns the embedded file names not yet in the ledger, sorted
func pending(ctx context.Context, db repokit.TxRunner) ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := names[:0]
	for _, name := range names {
		var applied bool
		err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name,
		).Scan(&applied)
		if err != nil {
			return nil, fmt.Errorf("check migration %s: %w", name, err)
		}
		if !applied {
			out = append(out, name)
		}
	}
	return out, nil
}
