package session

import (
	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/andrasnagy-data/greenplate/internal/shared/database"
	"go.uber.org/fx"
)

// Module provides the cookie codec and the Backend selected by SESSION_BACKEND.
// Redis and Postgres connections are only created when their backend is selected.
func Module(kind string) fx.Option {
	var backend fx.Option
	switch kind {
	case config.SessionBackendRedis:
		backend = fx.Provide(
			database.NewRedisClient,
			fx.Annotate(NewRedisBackend, fx.As(new(Backend))),
		)
	case config.SessionBackendPostgres:
		backend = fx.Provide(
			database.NewPgxPool,
			fx.Annotate(NewPostgresBackend, fx.As(new(Backend))),
		)
	default:
		backend = fx.Provide(fx.Annotate(NewCookieBackend, fx.As(new(Backend))))
	}

	return fx.Module("session",
		fx.Provide(NewCodec),
		backend,
	)
}
