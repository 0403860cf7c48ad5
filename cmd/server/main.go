package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/fiscal/internal"
	"github.com/dukerupert/fiscal/internal/events"
	"github.com/dukerupert/fiscal/internal/fixtures"
	"github.com/dukerupert/fiscal/internal/handler"
	"github.com/dukerupert/fiscal/internal/handler/api"
	"github.com/dukerupert/fiscal/internal/middleware"
	"github.com/dukerupert/fiscal/internal/postgres"
	"github.com/dukerupert/fiscal/internal/router"
	"github.com/dukerupert/fiscal/internal/routes"
	"github.com/dukerupert/fiscal/internal/service"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/dukerupert/fiscal/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Choose the store: PostgreSQL when configured, fixtures otherwise
	var (
		store tax.Store
		db    api.Pinger
	)
	if cfg.DatabaseUrl != "" {
		pool, err := openDatabase(ctx, cfg.DatabaseUrl, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		store = postgres.NewFiscalStore(pool)
		db = pool
	} else {
		logger.Info("DATABASE_URL not set, serving fixtures", "path", cfg.FixturesPath)
		fx, err := fixtures.Load(cfg.FixturesPath)
		if err != nil {
			return fmt.Errorf("fixtures load failed: %w", err)
		}
		store = fx
	}

	// Initialize tax engine
	engine := tax.NewEngine(store,
		tax.WithLogger(logger),
		tax.WithDefaultUF(cfg.DefaultUF),
	)

	// Initialize event publisher
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.NatsURL != "" {
		logger.Info("Connecting to NATS...", "url", cfg.Events.NatsURL, "subject", cfg.Events.Subject)
		natsPublisher, err := events.NewNATSPublisher(cfg.Events.NatsURL, cfg.Events.Subject, logger)
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		publisher = natsPublisher
	} else {
		logger.Info("NATS_URL not set, calculation events disabled")
	}
	defer publisher.Close()

	// ==========================================================================
	// Initialize middleware and metrics
	// ==========================================================================

	httpMetrics := middleware.NewMetrics(cfg.Metrics.Namespace, nil)
	fiscalMetrics := telemetry.NewFiscalMetrics(cfg.Metrics.Namespace, nil)

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		telemetry.SentryMiddleware(middleware.GetRequestID),
		httpMetrics.Middleware,
		middleware.WithRequestLogger(logger),
	)
	r.NotFound(handler.NotFoundResponse)

	// ==========================================================================
	// Register routes
	// ==========================================================================

	apiRouter := r.Group(
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
	)
	routes.RegisterAPIRoutes(apiRouter, routes.APIDeps{
		ImpostosHandler: api.NewImpostosHandler(engine, handler.NewValidator(), publisher, fiscalMetrics, logger),
		PedidosHandler:  api.NewPedidosHandler(service.NewOrderTotalsService()),
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		HealthHandler:  api.NewHealthHandler(db),
		MetricsHandler: httpMetrics.Handler(),
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting fiscal server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

// openDatabase runs the migrations over database/sql and returns the pgx pool
// the store reads from.
func openDatabase(ctx context.Context, url string, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database pool ping failed: %w", err)
	}

	return pool, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
