package components

import (
	"saddleview/internal/handler"
	"saddleview/internal/handler/api"
	"saddleview/internal/handler/middleware"
	"saddleview/internal/infra/projection"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewStockHandler,
		api.NewProjectionHandler,
		api.NewMutationHandler,
		middleware.NewAuthMiddleware,
		NewProjectionStatusReader,
	),
	fx.Invoke(handler.NewRouter),
)

func NewProjectionStatusReader(coordinator *projection.Coordinator) api.ProjectionStatusReader {
	return coordinator
}
