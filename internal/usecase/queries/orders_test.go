//go:build unit

package queries

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"saddleview/internal/infra"
	"saddleview/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	items    []*EnrichedOrderView
	total    int64
	editView *OrderEditView
	err      error
	calls    int
}

func (s *fakeOrderStore) ListOrders(context.Context, OrderFilter) ([]*EnrichedOrderView, int64, error) {
	s.calls++
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.items, s.total, nil
}

func (s *fakeOrderStore) FindEditView(context.Context, int64) (*OrderEditView, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.editView, nil
}

func newOrderService(cache ResultCache, projected, fallback OrderReadStore, health ProjectionHealth, now time.Time) OrderQueries {
	return NewOrderQueries(cache, projected, fallback, health, clock.NewMockClock(now),
		15*time.Minute, time.Second, slog.New(slog.DiscardHandler))
}

func TestOrderQueries_List_CacheHitWithinTTL(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	projected := &fakeOrderStore{items: []*EnrichedOrderView{{OrderID: 500, TotalPriceCents: 4350}}, total: 1}
	svc := newOrderService(newMemoryCache(), projected, &fakeOrderStore{}, freshHealth(now), now)

	first, err := svc.List(context.Background(), OrderListRequest{StatusCode: "in_production"})
	require.NoError(t, err)
	assert.Equal(t, int64(4350), first.Items[0].TotalPriceCents)

	_, err = svc.List(context.Background(), OrderListRequest{StatusCode: "in_production"})
	require.NoError(t, err)
	assert.Equal(t, 1, projected.calls, "identical filter must be served from cache")

	// A different query shape is its own entry.
	_, err = svc.List(context.Background(), OrderListRequest{StatusCode: "delivered"})
	require.NoError(t, err)
	assert.Equal(t, 2, projected.calls)
}

func TestOrderQueries_List_ProjectionErrorFallsBack(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	projected := &fakeOrderStore{err: infra.WrapRepoErr("projection missing", nil, infra.KindUnavailable)}
	fallback := &fakeOrderStore{items: []*EnrichedOrderView{{OrderID: 1}}, total: 1}
	svc := newOrderService(newMemoryCache(), projected, fallback, freshHealth(now), now)

	page, err := svc.List(context.Background(), OrderListRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, fallback.calls)
	assert.Len(t, page.Items, 1)
}

func TestOrderQueries_GetEditView(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("served from projection when fresh", func(t *testing.T) {
		projected := &fakeOrderStore{editView: &OrderEditView{OrderID: 42}}
		fallback := &fakeOrderStore{}
		svc := newOrderService(newMemoryCache(), projected, fallback, freshHealth(now), now)

		view, err := svc.GetEditView(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, int64(42), view.OrderID)
		assert.Equal(t, 0, fallback.calls)
	})

	t.Run("not found maps to sentinel", func(t *testing.T) {
		projected := &fakeOrderStore{err: infra.WrapRepoErr("missing", nil, infra.KindNotFound)}
		svc := newOrderService(newMemoryCache(), projected, &fakeOrderStore{}, freshHealth(now), now)

		_, err := svc.GetEditView(context.Background(), 42)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("fallback serves when projection never built", func(t *testing.T) {
		fallback := &fakeOrderStore{editView: &OrderEditView{OrderID: 7}}
		health := fakeHealth{status: ProjectionStatus{Built: false}}
		svc := newOrderService(newMemoryCache(), &fakeOrderStore{}, fallback, health, now)

		view, err := svc.GetEditView(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), view.OrderID)
	})

	t.Run("fallback timeout is retryable", func(t *testing.T) {
		fallback := &fakeOrderStore{err: context.DeadlineExceeded}
		health := fakeHealth{status: ProjectionStatus{Built: false}}
		svc := newOrderService(newMemoryCache(), &fakeOrderStore{}, fallback, health, now)

		_, err := svc.GetEditView(context.Background(), 7)

		assert.ErrorIs(t, err, ErrFallbackTimeout)
	})
}
