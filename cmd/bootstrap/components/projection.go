package components

import (
	"context"
	"log/slog"

	"saddleview/internal/infra/projection"
	"saddleview/internal/pkg/config"

	"go.uber.org/fx"
)

var ProjectionModule = fx.Module("projection",
	fx.Provide(
		fx.Annotate(
			projection.NewPGBuilder,
			fx.As(new(projection.Builder)),
		),
		projection.NewPGAdvisoryLock,
		projection.NewCoordinator,
		NewTrigger,
		NewScheduler,
	),
	fx.Invoke(StartProjectionWorkers),
)

func NewTrigger(coordinator *projection.Coordinator, cfg config.Config, logger *slog.Logger) *projection.Trigger {
	return projection.NewTrigger(coordinator, cfg.Projection.DebounceWindow, logger)
}

func NewScheduler(coordinator *projection.Coordinator, cfg config.Config, logger *slog.Logger) *projection.Scheduler {
	return projection.NewScheduler(coordinator, cfg.Projection.RefreshInterval, logger)
}

// StartProjectionWorkers primes last-build times from projection_state and
// runs the debounce and periodic refresh loops for the process lifetime.
func StartProjectionWorkers(
	lc fx.Lifecycle,
	coordinator *projection.Coordinator,
	trigger *projection.Trigger,
	scheduler *projection.Scheduler,
	logger *slog.Logger,
) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := coordinator.Prime(ctx); err != nil {
				// A cold start with no projection_state rows is normal; reads
				// fall back to the live join until the first rebuild.
				logger.Warn("failed to prime projection status", "error", err)
			}

			var workerCtx context.Context
			workerCtx, cancel = context.WithCancel(context.Background())
			go trigger.Run(workerCtx)
			go scheduler.Run(workerCtx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
