//go:build unit

package queries

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"saddleview/internal/domain/user"
	"saddleview/internal/pkg/clock"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoryCache) Set(key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *memoryCache) InvalidateNamespace(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, namespace+"|") {
			delete(c.entries, k)
		}
	}
}

type fakeStockStore struct {
	items []*StockItemView
	total int64
	err   error
	calls int
	last  StockFilter
}

func (s *fakeStockStore) ListStock(_ context.Context, f StockFilter) ([]*StockItemView, int64, error) {
	s.calls++
	s.last = f
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.items, s.total, nil
}

type fakeHealth struct {
	status ProjectionStatus
}

func (h fakeHealth) Status(string) ProjectionStatus { return h.status }

func str(s string) *string { return &s }

func freshHealth(now time.Time) fakeHealth {
	return fakeHealth{status: ProjectionStatus{Built: true, RefreshedAt: now.Add(-time.Minute)}}
}

func newStockService(
	identity fakeIdentity,
	cache ResultCache,
	projected, fallback StockReadStore,
	health ProjectionHealth,
	now time.Time,
) StockQueries {
	return NewStockQueries(
		NewPlanner(identity),
		cache,
		projected,
		fallback,
		health,
		clock.NewMockClock(now),
		15*time.Minute,
		time.Second,
		slog.New(slog.DiscardHandler),
	)
}

func TestStockQueries_List_ServesFromProjectionAndCaches(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	items := []*StockItemView{
		{OrderID: 500, SerialNumber: str("SN-500"), HolderID: 9, HolderName: str("Mills Saddlery"), Demo: true},
	}
	projected := &fakeStockStore{items: items, total: 1}
	fallback := &fakeStockStore{}
	cache := newMemoryCache()
	svc := newStockService(fakeIdentity{fitterID: 9, found: true}, cache, projected, fallback, freshHealth(now), now)
	actor := Actor{AccountID: uuid.New(), Role: user.RoleFitter}

	page, err := svc.List(context.Background(), actor, StockListRequest{Scope: "mine"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	if diff := cmp.Diff(items, page.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, projected.calls)
	assert.Equal(t, 0, fallback.calls, "fresh projection must not touch the live join")

	// Identical query shape within the TTL window hits the cache.
	again, err := svc.List(context.Background(), actor, StockListRequest{Scope: "mine"})
	require.NoError(t, err)
	assert.Equal(t, 1, projected.calls, "second identical request must be a cache hit")
	if diff := cmp.Diff(page, again); diff != "" {
		t.Errorf("cached page mismatch (-want +got):\n%s", diff)
	}

	// A mutation invalidates the namespace; the next request misses.
	cache.InvalidateNamespace(NamespaceStock)
	_, err = svc.List(context.Background(), actor, StockListRequest{Scope: "mine"})
	require.NoError(t, err)
	assert.Equal(t, 2, projected.calls)
}

func TestStockQueries_List_DefaultScopeIsMine(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	projected := &fakeStockStore{total: 0}
	svc := newStockService(fakeIdentity{fitterID: 4, found: true}, newMemoryCache(), projected, &fakeStockStore{}, freshHealth(now), now)

	_, err := svc.List(context.Background(), Actor{Role: user.RoleFitter}, StockListRequest{})

	require.NoError(t, err)
	assert.Equal(t, ScopeMine, projected.last.Scope.Scope)
}

func TestStockQueries_List_UnresolvedCallerGetsEmptyPage(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	projected := &fakeStockStore{}
	svc := newStockService(fakeIdentity{found: false}, newMemoryCache(), projected, &fakeStockStore{}, freshHealth(now), now)

	page, err := svc.List(context.Background(), Actor{Role: user.RoleFitter}, StockListRequest{Scope: "mine"})

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)
	assert.Equal(t, 0, projected.calls, "no query runs for a provably empty scope")
}

func TestStockQueries_List_FrontlineAllRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newStockService(fakeIdentity{fitterID: 1, found: true}, newMemoryCache(), &fakeStockStore{}, &fakeStockStore{}, freshHealth(now), now)

	_, err := svc.List(context.Background(), Actor{Role: user.RoleFitter}, StockListRequest{Scope: "all"})

	assert.ErrorIs(t, err, ErrScopeRejected)
}

func TestStockQueries_List_FallsBackWhenProjectionNotBuilt(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	projected := &fakeStockStore{}
	fallback := &fakeStockStore{items: []*StockItemView{{OrderID: 1, HolderID: 2}}, total: 1}
	health := fakeHealth{status: ProjectionStatus{Built: false}}
	svc := newStockService(fakeIdentity{fitterID: 2, found: true}, newMemoryCache(), projected, fallback, health, now)

	page, err := svc.List(context.Background(), Actor{Role: user.RoleFitter}, StockListRequest{Scope: "mine"})

	require.NoError(t, err)
	assert.Equal(t, 0, projected.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Len(t, page.Items, 1)
}

func TestStockQueries_List_FallsBackWhenProjectionStale(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fallback := &fakeStockStore{total: 0}
	health := fakeHealth{status: ProjectionStatus{Built: true, RefreshedAt: now.Add(-time.Hour)}}
	svc := newStockService(fakeIdentity{fitterID: 2, found: true}, newMemoryCache(), &fakeStockStore{}, fallback, health, now)

	_, err := svc.List(context.Background(), Actor{Role: user.RoleFitter}, StockListRequest{Scope: "mine"})

	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
}

func TestStockQueries_List_FallbackTimeout(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	fallback := &fakeStockStore{err: context.DeadlineExceeded}
	health := fakeHealth{status: ProjectionStatus{Built: false}}
	svc := newStockService(fakeIdentity{fitterID: 2, found: true}, newMemoryCache(), &fakeStockStore{}, fallback, health, now)

	_, err := svc.List(context.Background(), Actor{Role: user.RoleFitter}, StockListRequest{Scope: "mine"})

	assert.ErrorIs(t, err, ErrFallbackTimeout)
}

func TestStockFilter_CacheKeyCanonical(t *testing.T) {
	a := StockFilter{Scope: ScopeDescriptor{Scope: ScopeMine, HolderID: holder(5)}, Search: "Dressage", Page: 1, PageSize: 20}
	b := StockFilter{Scope: ScopeDescriptor{Scope: ScopeMine, HolderID: holder(5)}, Search: "dressage", Page: 1, PageSize: 20}
	c := StockFilter{Scope: ScopeDescriptor{Scope: ScopeMine, HolderID: holder(5)}, Search: "dressage", Page: 2, PageSize: 20}

	assert.Equal(t, a.CacheKey(), b.CacheKey(), "search term is case-insensitive in the key")
	assert.NotEqual(t, b.CacheKey(), c.CacheKey(), "different pages must not collide")
	assert.True(t, strings.HasPrefix(a.CacheKey(), NamespaceStock+"|"))
}

func holder(v int64) *int64 { return &v }
