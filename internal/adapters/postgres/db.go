package postgres

import (
	"MasarWeb/internal/shared/config"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DB owns the pgx pool shared by the draft repository.
type DB struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewDB opens the pool described by cfg and pings it once.
func NewDB(ctx context.Context, cfg config.PostgresConfig, baseLogger *zerolog.Logger) (*DB, error) {
	log := baseLogger.With().Str("component", "postgres").Logger()

	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Invalid database configuration")
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create connection pool")
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to ping database")
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	log.Info().
		Int32("max_conns", poolConfig.MaxConns).
		Int32("min_conns", poolConfig.MinConns).
		Str("host", poolConfig.ConnConfig.Host).
		Msg("Draft database ready")
	return &DB{pool: pool, log: log}, nil
}

// newPoolConfig parses the URL and applies the pool bounds. Zero values keep
// the pgx defaults.
func newPoolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "masar-web"
	return poolConfig, nil
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Close() {
	db.log.Info().Msg("Closing draft database pool")
	db.pool.Close()
}
