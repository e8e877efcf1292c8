// Package app wires configuration, storage, services and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"minishop/internal/auth"
	"minishop/internal/config"
	"minishop/internal/database"
	"minishop/internal/discount"
	"minishop/internal/events"
	"minishop/internal/handler"
	"minishop/internal/metrics"
	"minishop/internal/repository"
	"minishop/internal/router"
	"minishop/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// NewStore builds the repositories over pool.
func NewStore(pool *pgxpool.Pool, logger zerolog.Logger) service.Store {
	return service.Store{
		DB:         pool,
		Users:      repository.NewUserRepository(logger),
		Carts:      repository.NewCartRepository(logger),
		Products:   repository.NewProductRepository(logger),
		Orders:     repository.NewOrderRepository(pool, logger),
		Discounts:  repository.NewDiscountRepository(logger),
		Admins:     repository.NewAdminRepository(logger),
		Statistics: repository.NewStatisticsRepository(logger),
	}
}

// NewPublisher returns a Kafka publisher when enabled and a no-op one otherwise.
func NewPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		logger.Info().Msg("order events disabled")
		return events.NopPublisher{}
	}
	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}

// NewMetrics returns nil when metrics are disabled.
func NewMetrics(cfg config.MetricsConfig) *metrics.Metrics {
	if !cfg.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg)
}

// NewHandler wires services and handlers over pool and returns the HTTP router.
func NewHandler(cfg *config.Config, pool *pgxpool.Pool, publisher events.Publisher, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	store := NewStore(pool, logger)

	ledger := discount.NewLedger(
		store.Orders,
		store.Discounts,
		discount.NewRandomGenerator(cfg.Loyalty.CodeLength),
		cfg.Loyalty.MaxMintAttempts,
		logger,
	)
	loyalty := service.LoyaltyPolicy{
		Period:  cfg.Loyalty.Period,
		Percent: decimal.NewFromInt(int64(cfg.Loyalty.DiscountPercent)),
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(pool, logger),
		Products:  handler.NewProductHandler(service.NewProductService(store, logger), logger),
		Cart:      handler.NewCartHandler(service.NewCartService(store, logger), logger),
		Checkout:  handler.NewCheckoutHandler(service.NewCheckoutService(store, ledger, publisher, m, loyalty, logger), logger),
		Discounts: handler.NewDiscountHandler(service.NewDiscountService(store, ledger, logger), logger),
		Admin:     handler.NewAdminHandler(service.NewAdminService(store, ledger, tokens, m, logger), logger),
	}

	return router.New(handlers, router.Options{
		Tokens:      tokens,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
	}, logger)
}

// Run connects to the database, serves HTTP until ctx is cancelled, then
// drains in-flight requests.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	publisher := NewPublisher(cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           NewHandler(cfg, pool, publisher, NewMetrics(cfg.Metrics), logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("address", server.Addr).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}
