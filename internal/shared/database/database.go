package database

import (
	"context"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewPgxPool creates the PostgreSQL pool backing server-side sessions and applies pending migrations.
// Pool settings: max 10 connections, min 2 connections, 1-hour max lifetime, 30-min idle timeout.
func NewPgxPool(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With().Str("component", "database").Logger()
	logger.Debug().Msg("Initializing database connection pool")

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse database URL")
		return nil, err
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = time.Minute * 30

	logger.Debug().
		Int32("max_conns", poolCfg.MaxConns).
		Int32("min_conns", poolCfg.MinConns).
		Dur("max_conns_lifetime", poolCfg.MaxConnLifetime).
		Dur("max_conns_idletime", poolCfg.MaxConnIdleTime).
		Msg("Database connection pool configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create database connection pool")
		return nil, err
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		logger.Error().Err(err).Msg("Failed to apply migrations")
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Info().Msg("Closing database connection pool")
			pool.Close()
			return nil
		},
	})

	logger.Debug().Msg("Database connection pool created successfully")
	return pool, nil
}
