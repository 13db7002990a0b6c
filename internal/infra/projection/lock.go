package projection

import (
	"context"
	"hash/fnv"

	"saddleview/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdvisoryLock serializes rebuilds of one projection across process
// instances, not just goroutines.
type AdvisoryLock interface {
	// TryAcquire returns ok=false without blocking when another holder exists.
	// The returned release func must be called exactly once when ok is true.
	TryAcquire(ctx context.Context, name string) (release func(), ok bool, err error)
}

type pgAdvisoryLock struct {
	pool *pgxpool.Pool
}

func NewPGAdvisoryLock(pool *pgxpool.Pool) AdvisoryLock {
	return &pgAdvisoryLock{pool: pool}
}

func lockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

func (l *pgAdvisoryLock) TryAcquire(ctx context.Context, name string) (func(), bool, error) {
	// Advisory locks are session scoped; the connection must be pinned until release.
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, infra.WrapRepoErr("failed to acquire connection for advisory lock", err)
	}

	key := lockKey(name)

	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, infra.WrapRepoErr("failed to take advisory lock", err)
	}

	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		// Best effort: releasing the session releases the lock regardless.
		_, _ = conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, key)
		conn.Release()
	}

	return release, true, nil
}
