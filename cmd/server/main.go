package main

import (
	"MasarWeb/internal/adapters/api"
	"MasarWeb/internal/adapters/drafts"
	"MasarWeb/internal/adapters/eventbus"
	"MasarWeb/internal/adapters/postgres"
	"MasarWeb/internal/adapters/redis"
	"MasarWeb/internal/adapters/security"
	"MasarWeb/internal/adapters/telegram"
	"MasarWeb/internal/core/ports"
	"MasarWeb/internal/shared/config"
	"MasarWeb/internal/shared/logger"
	"MasarWeb/internal/web"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	draftSweepInterval = 10 * time.Minute
	redisDraftPrefix   = "masar:draft"
	shutdownTimeout    = 15 * time.Second
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger, err := logger.New(logger.Options{
		Service: cfg.Log.Service,
		Level:   cfg.Log.Level,
		Dev:     cfg.IsDev(),
	})
	if err != nil {
		fmt.Printf("FATAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("api_base_url", cfg.API.BaseURL).
		Str("draft_store", cfg.Drafts.Store).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Upstream API client
	client := api.NewClient(cfg.API, &baseLogger)

	// 4. Draft store
	draftRepo, closeDrafts, err := newDraftRepository(ctx, cfg, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize draft store")
	}
	defer closeDrafts()

	// 5. Event bus and optional Telegram relay
	bus := eventbus.NewInMemoryBus(&baseLogger)
	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.NewBotAPI(cfg.Telegram.BotToken, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
		}
		notifier := telegram.NewNotifier(bot, cfg.Telegram.AdminChatID, &baseLogger)
		telegram.NewRelay(notifier, &baseLogger).Subscribe(bus)
	} else {
		baseLogger.Info().Msg("TELEGRAM_BOT_TOKEN not set, admin notifications disabled")
	}

	// 6. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := web.NewMetrics(registry)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to register metrics")
	}

	// 7. HTTP server
	server := web.NewServer(web.Deps{
		Config:         *cfg,
		Auth:           client,
		Market:         client,
		Drafts:         draftRepo,
		Bus:            bus,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, &baseLogger)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		baseLogger.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	baseLogger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	bus.Wait()
	baseLogger.Info().Msg("Shutdown complete")
}

// newDraftRepository builds the configured draft store and starts its
// expiry sweeper. The returned func releases its connections.
func newDraftRepository(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) (ports.DraftRepository, func(), error) {
	var sec ports.SecurityPort
	if cfg.EncryptionKey != "" {
		var err error
		sec, err = security.NewAESServiceFromHex(cfg.EncryptionKey, baseLogger)
		if err != nil {
			return nil, nil, fmt.Errorf("security service: %w", err)
		}
	}
	codec := drafts.NewCodec(sec)

	switch cfg.Drafts.Store {
	case config.DraftStoreRedis:
		rdb, err := redis.NewClient(ctx, cfg.Redis, baseLogger)
		if err != nil {
			return nil, nil, err
		}
		repo := redis.NewDraftRepository(rdb, codec, redisDraftPrefix, cfg.Drafts.TTL, baseLogger)
		return repo, func() { _ = rdb.Close() }, nil

	case config.DraftStorePostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres, baseLogger)
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewDraftRepository(db.Pool(), codec, cfg.Drafts.TTL, baseLogger)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		go repo.RunPurger(ctx, draftSweepInterval)
		return repo, db.Close, nil

	default:
		repo := drafts.NewMemoryRepository(cfg.Drafts.TTL, baseLogger)
		go repo.Run(ctx, draftSweepInterval)
		return repo, func() {}, nil
	}
}
