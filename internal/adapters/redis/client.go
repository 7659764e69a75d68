package redis

import (
	"MasarWeb/internal/shared/config"
	"context"
	"fmt"
	"time"

	red "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient connects to Redis and pings it before returning.
func NewClient(ctx context.Context, cfg config.RedisConfig, baseLogger *zerolog.Logger) (*red.Client, error) {
	log := baseLogger.With().Str("component", "redis").Logger()

	client := red.NewClient(&red.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("Failed to ping Redis")
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Redis connection established")
	return client, nil
}
