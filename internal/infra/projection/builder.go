package projection

import (
	"context"
	"log/slog"
	"time"

	"saddleview/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Builder performs one full rebuild of a named projection. The slow part
// (populating the shadow table) runs outside any transaction so the live
// projection stays queryable; only the swap is transactional.
type Builder interface {
	Rebuild(ctx context.Context, name string) error
	// StateTimes reports the last successful build per projection, for
	// priming coordinator status after a restart.
	StateTimes(ctx context.Context) (map[string]time.Time, error)
}

type PGBuilder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPGBuilder(pool *pgxpool.Pool, logger *slog.Logger) *PGBuilder {
	return &PGBuilder{pool: pool, logger: logger}
}

func (b *PGBuilder) Rebuild(ctx context.Context, name string) error {
	def, ok := definitions[name]
	if !ok {
		return infra.WrapRepoErr("unknown projection", nil, infra.KindNotFound)
	}

	started := time.Now()

	if _, err := b.pool.Exec(ctx, `DROP TABLE IF EXISTS `+def.shadowName); err != nil {
		return infra.WrapRepoErr("failed to drop stale shadow table", err)
	}
	if _, err := b.pool.Exec(ctx, def.shadowDDL); err != nil {
		return infra.WrapRepoErr("failed to create shadow table", err)
	}

	tag, err := b.pool.Exec(ctx, `INSERT INTO `+def.shadowName+def.selectSQL)
	if err != nil {
		return infra.WrapRepoErr("failed to populate shadow table", err)
	}

	if err := b.swap(ctx, name, def); err != nil {
		return err
	}

	b.logger.Info("projection rebuilt",
		"projection", name,
		"rows", tag.RowsAffected(),
		"duration", time.Since(started),
	)
	return nil
}

// swap replaces the live projection with the populated shadow in a single
// transaction; concurrent readers see the old rows until commit.
func (b *PGBuilder) swap(ctx context.Context, name string, def definition) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin swap transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	steps := []string{
		`DROP TABLE IF EXISTS ` + name,
		`ALTER TABLE ` + def.shadowName + ` RENAME TO ` + name,
		def.uniqueIndexSQL,
		// stamped inside the swap so state never points at a half-swapped projection
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step); err != nil {
			return infra.WrapRepoErr("failed to swap projection", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO projection_state (name, refreshed_at) VALUES ($1, now())
		 ON CONFLICT (name) DO UPDATE SET refreshed_at = EXCLUDED.refreshed_at`,
		name,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to stamp projection state", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit swap transaction", err)
	}
	return nil
}

func (b *PGBuilder) StateTimes(ctx context.Context) (map[string]time.Time, error) {
	rows, err := b.pool.Query(ctx, `SELECT name, refreshed_at FROM projection_state`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read projection state", err)
	}
	defer rows.Close()

	times := make(map[string]time.Time, len(Names))
	for rows.Next() {
		var (
			name        string
			refreshedAt time.Time
		)
		if err := rows.Scan(&name, &refreshedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan projection state", err)
		}
		times[name] = refreshedAt
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate projection state", err)
	}

	return times, nil
}
