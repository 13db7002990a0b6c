package queries

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"saddleview/internal/infra"
	"saddleview/internal/pkg/clock"
	"saddleview/internal/pkg/errs"
)

type OrderListRequest struct {
	StatusCode string
	CustomerID *int64
	Urgent     *bool
	Sort       string
	Page       int
	PageSize   int
}

type OrderQueries interface {
	List(ctx context.Context, req OrderListRequest) (*OrderPage, error)
	GetEditView(ctx context.Context, orderID int64) (*OrderEditView, error)
}

type orderQueriesImpl struct {
	cache           ResultCache
	projected       OrderReadStore
	fallback        OrderReadStore
	health          ProjectionHealth
	clock           clock.Clock
	maxStaleness    time.Duration
	fallbackTimeout time.Duration
	logger          *slog.Logger
}

func NewOrderQueries(
	cache ResultCache,
	projected OrderReadStore,
	fallback OrderReadStore,
	health ProjectionHealth,
	clk clock.Clock,
	maxStaleness time.Duration,
	fallbackTimeout time.Duration,
	logger *slog.Logger,
) OrderQueries {
	return &orderQueriesImpl{
		cache:           cache,
		projected:       projected,
		fallback:        fallback,
		health:          health,
		clock:           clk,
		maxStaleness:    maxStaleness,
		fallbackTimeout: fallbackTimeout,
		logger:          logger,
	}
}

func (q *orderQueriesImpl) List(ctx context.Context, req OrderListRequest) (*OrderPage, error) {
	filter := OrderFilter{
		StatusCode: req.StatusCode,
		CustomerID: req.CustomerID,
		Urgent:     req.Urgent,
		Sort:       req.Sort,
		Page:       ClampPage(req.Page),
		PageSize:   ClampPageSize(req.PageSize),
	}

	key := filter.CacheKey()
	if cached, hit := q.cache.Get(key); hit {
		var page OrderPage
		if err := json.Unmarshal(cached, &page); err == nil {
			return &page, nil
		}
	}

	items, total, err := q.query(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &OrderPage{Items: items, TotalCount: total, Page: filter.Page, PageSize: filter.PageSize}
	if encoded, err := json.Marshal(page); err == nil {
		q.cache.Set(key, encoded, 0)
	}
	return page, nil
}

func (q *orderQueriesImpl) query(ctx context.Context, filter OrderFilter) ([]*EnrichedOrderView, int64, error) {
	if q.projectionFresh(OrderSummariesProjection) {
		items, total, err := q.projected.ListOrders(ctx, filter)
		if err == nil {
			return items, total, nil
		}
		q.logger.Warn("projection read failed, using live join", "error", err)
	}

	fctx, cancel := context.WithTimeout(ctx, q.fallbackTimeout)
	defer cancel()

	items, total, err := q.fallback.ListOrders(fctx, filter)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, errs.Mark(err, ErrFallbackTimeout)
		}
		return nil, 0, err
	}
	return items, total, nil
}

func (q *orderQueriesImpl) GetEditView(ctx context.Context, orderID int64) (*OrderEditView, error) {
	if q.projectionFresh(OrderEditViewsProjection) {
		view, err := q.projected.FindEditView(ctx, orderID)
		if err == nil {
			return view, nil
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		q.logger.Warn("projection read failed, using live join", "error", err)
	}

	fctx, cancel := context.WithTimeout(ctx, q.fallbackTimeout)
	defer cancel()

	view, err := q.fallback.FindEditView(fctx, orderID)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, context.DeadlineExceeded):
			return nil, errs.Mark(err, ErrFallbackTimeout)
		default:
			return nil, err
		}
	}
	return view, nil
}

func (q *orderQueriesImpl) projectionFresh(name string) bool {
	st := q.health.Status(name)
	if !st.Built {
		return false
	}
	return q.clock.Now().Sub(st.RefreshedAt) <= q.maxStaleness
}
