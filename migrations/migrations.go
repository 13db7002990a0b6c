// Package migrations embeds the schema files so tests and tooling can apply
// them without a migration binary.
package migrations

import (
	"context"
	"embed"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"saddleview/internal/pkg/errs"
)

//go:embed *.sql
var files embed.FS

// Apply runs every embedded migration in filename order. Statements are
// idempotent, applying to an already-migrated database is a no-op.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := files.ReadDir(".")
	if err != nil {
		return errs.Wrap(err, "failed to read embedded migrations")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := files.ReadFile(name)
		if err != nil {
			return errs.Wrapf(err, "failed to read migration %s", name)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return errs.Wrapf(err, "failed to apply migration %s", name)
		}
	}
	return nil
}
