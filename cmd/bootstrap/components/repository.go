package components

import (
	"log/slog"

	"saddleview/internal/infra/cache"
	"saddleview/internal/infra/identity"
	"saddleview/internal/pkg/config"
	"saddleview/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			NewQueryCache,
			fx.As(new(queries.ResultCache)),
		),
		fx.Annotate(
			NewIdentityResolver,
			fx.As(new(queries.FitterIdentity)),
		),
	),
)

func NewQueryCache(cfg config.Config, logger *slog.Logger) *cache.QueryCache {
	return cache.New(cfg.Cache, logger)
}

func NewIdentityResolver(pool *pgxpool.Pool) *identity.Resolver {
	return identity.NewResolver(pool)
}
