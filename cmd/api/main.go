// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the bookdesk admin gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (.env.local first).
//  3. Connect to PostgreSQL (pgxpool) and run migrations.
//  4. Connect to Redis.
//  5. Build the book backend client.
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taibuivan/bookdesk/internal/api"
	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/backend"
	"github.com/taibuivan/bookdesk/internal/catalog"
	"github.com/taibuivan/bookdesk/internal/platform/config"
	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/platform/metrics"
	"github.com/taibuivan/bookdesk/internal/platform/migration"
	pgstore "github.com/taibuivan/bookdesk/internal/platform/postgres"
	redisstore "github.com/taibuivan/bookdesk/internal/platform/redis"
	"github.com/taibuivan/bookdesk/internal/platform/sec"
	"github.com/taibuivan/bookdesk/internal/users/auth"
	"github.com/taibuivan/bookdesk/internal/views"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A missing .env.local is normal outside development.
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend_url", cfg.BackendURL),
		slog.Bool("backend_token_verified", cfg.BackendJWTSecret != ""),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Use a 30s deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, constants.AuditWriteTimeout, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Book Backend ───────────────────────────────────────────────────
	registry := metrics.New()
	inspector := sec.NewTokenInspector(cfg.BackendJWTSecret)

	books := backend.New(backend.Options{
		BaseURL:   cfg.BackendURL,
		Timeout:   cfg.BackendTimeout,
		RPS:       cfg.BackendRPS,
		Inspector: inspector,
		Metrics:   registry,
	})

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	auditService := audit.NewService(audit.NewPostgresStore(pool))

	authService := auth.NewService(books, auth.NewSessionRepository(rdb), inspector, auditService, cfg.SessionTTL)
	catalogService := catalog.NewService(books, auditService, registry)

	viewRegistry := views.NewRegistry(cfg.ViewTTL, registry)
	go viewRegistry.Run(rootCtx, constants.ViewJanitorInterval, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Books:     catalog.NewHandler(catalogService),
		Views:     views.NewHandler(views.NewController(viewRegistry, catalogService), viewRegistry, cfg.DefaultPageLimit),
		Audit:     audit.NewHandler(auditService),
	}

	server := api.NewServer(rootCtx, cfg, log, authService, registry, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	rootCancel()
	log.Info("server_stopped_cleanly")
}

// newLogger builds the process logger with the app attribute attached.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
