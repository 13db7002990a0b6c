package bootstrap

import (
	"saddleview/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.ProjectionModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
