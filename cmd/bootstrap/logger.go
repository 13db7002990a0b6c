package bootstrap

import (
	"log/slog"

	"saddleview/internal/handler/middleware"
	"saddleview/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the request logger once and hands its slog instance to
// the rest of the graph, so app and middleware share one sink.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}
