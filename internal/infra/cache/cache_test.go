//go:build unit

package cache

import (
	"log/slog"
	"testing"
	"time"

	"saddleview/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *QueryCache {
	t.Helper()
	c := New(config.CacheConfig{Enabled: true, TTL: ttl, CleanupInterval: time.Minute}, slog.New(slog.DiscardHandler))
	require.NotNil(t, c)
	return c
}

func TestQueryCache_GetSet(t *testing.T) {
	c := newTestCache(t, time.Minute)

	_, found := c.Get("stock|scope=mine|page=1")
	assert.False(t, found)

	c.Set("stock|scope=mine|page=1", []byte(`{"items":[]}`), 0)

	v, found := c.Get("stock|scope=mine|page=1")
	assert.True(t, found)
	assert.Equal(t, []byte(`{"items":[]}`), v)
}

func TestQueryCache_TTLExpiry(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("orders|page=1", []byte("x"), 20*time.Millisecond)

	_, found := c.Get("orders|page=1")
	assert.True(t, found)

	assert.Eventually(t, func() bool {
		_, found := c.Get("orders|page=1")
		return !found
	}, time.Second, 5*time.Millisecond)
}

func TestQueryCache_InvalidateNamespace(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("stock|scope=mine|page=1", []byte("a"), 0)
	c.Set("stock|scope=all|page=2", []byte("b"), 0)
	c.Set("orders|page=1", []byte("c"), 0)

	c.InvalidateNamespace("stock")

	_, found := c.Get("stock|scope=mine|page=1")
	assert.False(t, found)
	_, found = c.Get("stock|scope=all|page=2")
	assert.False(t, found)

	v, found := c.Get("orders|page=1")
	assert.True(t, found, "other namespaces must survive")
	assert.Equal(t, []byte("c"), v)
}

func TestQueryCache_NilDegradesToMiss(t *testing.T) {
	var c *QueryCache

	c.Set("k", []byte("v"), time.Minute)
	_, found := c.Get("k")
	assert.False(t, found)

	// must not panic
	c.InvalidateNamespace("stock")
}

func TestQueryCache_DisabledConfigReturnsNil(t *testing.T) {
	c := New(config.CacheConfig{Enabled: false}, slog.New(slog.DiscardHandler))
	assert.Nil(t, c)
}
