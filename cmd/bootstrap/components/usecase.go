package components

import (
	"log/slog"

	"saddleview/internal/infra/projection"
	"saddleview/internal/infra/readstore"
	"saddleview/internal/pkg/clock"
	"saddleview/internal/pkg/config"
	"saddleview/internal/usecase"
	"saddleview/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewTokenValidator,
		usecase.NewRefreshUseCase,
		queries.NewPlanner,
		NewProjectionHealth,
		NewOrderQueriesService,
		NewStockQueriesService,
	),
)

// coordinatorHealth adapts the refresh coordinator to the freshness check
// the query services run before every read.
type coordinatorHealth struct {
	coordinator *projection.Coordinator
}

func (h coordinatorHealth) Status(name string) queries.ProjectionStatus {
	st := h.coordinator.Status(name)
	return queries.ProjectionStatus{Built: st.Built, RefreshedAt: st.RefreshedAt}
}

func NewProjectionHealth(coordinator *projection.Coordinator) queries.ProjectionHealth {
	return coordinatorHealth{coordinator: coordinator}
}

// NewOrderQueriesService wires the projection-backed store and its live-join
// twin over the same pool; the service decides per request which one serves.
func NewOrderQueriesService(
	pool *pgxpool.Pool,
	resultCache queries.ResultCache,
	health queries.ProjectionHealth,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) queries.OrderQueries {
	return queries.NewOrderQueries(
		resultCache,
		readstore.NewOrderSummariesStore(pool),
		readstore.NewLiveOrderStore(pool),
		health,
		clk,
		cfg.Projection.MaxStaleness,
		cfg.Projection.FallbackTimeout,
		logger,
	)
}

func NewStockQueriesService(
	planner *queries.Planner,
	pool *pgxpool.Pool,
	resultCache queries.ResultCache,
	health queries.ProjectionHealth,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) queries.StockQueries {
	return queries.NewStockQueries(
		planner,
		resultCache,
		readstore.NewStockSummariesStore(pool),
		readstore.NewLiveStockStore(pool),
		health,
		clk,
		cfg.Projection.MaxStaleness,
		cfg.Projection.FallbackTimeout,
		logger,
	)
}
