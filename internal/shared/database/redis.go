package database

import (
	"context"
	"fmt"
	"time"

	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewRedisClient connects to REDIS_URL and verifies the connection before returning.
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	logger = logger.With().Str("component", "redis").Logger()

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Info().Msg("Closing Redis client")
			return client.Close()
		},
	})

	logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return client, nil
}
