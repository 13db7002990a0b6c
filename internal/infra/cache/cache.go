// Package cache fronts the projection with a short-TTL key/value store.
// It is a performance layer only: a nil or failed cache degrades every
// lookup to a miss, never to an error.
package cache

import (
	"log/slog"
	"strings"
	"time"

	"saddleview/internal/pkg/config"

	gocache "github.com/patrickmn/go-cache"
)

type QueryCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

// New returns nil when caching is disabled; all methods are nil-safe.
func New(cfg config.CacheConfig, logger *slog.Logger) *QueryCache {
	if !cfg.Enabled {
		logger.Info("query cache disabled, every read falls through to the query path")
		return nil
	}
	return &QueryCache{
		store:      gocache.New(cfg.TTL, cfg.CleanupInterval),
		defaultTTL: cfg.TTL,
	}
}

func (q *QueryCache) Get(key string) ([]byte, bool) {
	if q == nil {
		return nil, false
	}
	v, found := q.store.Get(key)
	if !found {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return b, true
}

func (q *QueryCache) Set(key string, value []byte, ttl time.Duration) {
	if q == nil {
		return
	}
	if ttl <= 0 {
		ttl = q.defaultTTL
	}
	q.store.Set(key, value, ttl)
}

// InvalidateNamespace drops every entry under one query namespace.
// Invalidation is deliberately coarse: fine-grained dependency tracking
// across a seven-table join is not tractable at this layer.
func (q *QueryCache) InvalidateNamespace(namespace string) {
	if q == nil {
		return
	}
	prefix := namespace + "|"
	for key := range q.store.Items() {
		if strings.HasPrefix(key, prefix) {
			q.store.Delete(key)
		}
	}
}
