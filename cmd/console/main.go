// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command console is the entry point for the facility admin console API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Install OpenTelemetry tracing.
//  4. Open the session store (memory, Redis or SQLite).
//  5. Wire the remote API client and the session manager.
//  6. Restore the persisted session.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/facilityadmin/internal/access"
	"github.com/taibuivan/facilityadmin/internal/account"
	"github.com/taibuivan/facilityadmin/internal/api"
	"github.com/taibuivan/facilityadmin/internal/booking"
	"github.com/taibuivan/facilityadmin/internal/dashboard"
	"github.com/taibuivan/facilityadmin/internal/facility"
	"github.com/taibuivan/facilityadmin/internal/platform/apiclient"
	"github.com/taibuivan/facilityadmin/internal/platform/config"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	redisstore "github.com/taibuivan/facilityadmin/internal/platform/redis"
	sqlitestore "github.com/taibuivan/facilityadmin/internal/platform/sqlite"
	"github.com/taibuivan/facilityadmin/internal/platform/telemetry"
	"github.com/taibuivan/facilityadmin/internal/session"
	"github.com/taibuivan/facilityadmin/internal/users"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
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
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// Root context of background routines; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	// ── 3. Tracing ────────────────────────────────────────────────────────
	shutdownTracing := telemetry.Setup(startupCtx, telemetry.Options{
		ServiceName: cfg.OTelServiceName,
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
	}, log)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("otel_shutdown_failed", slog.Any("error", err))
		}
	}()

	// ── 4. Session Store ──────────────────────────────────────────────────
	store, closeStore := openStore(startupCtx, cfg, log)
	defer closeStore()

	// ── 5. Remote API & Session ───────────────────────────────────────────
	client := apiclient.New(apiclient.Options{BaseURL: cfg.APIBaseURL, Logger: log})
	accountService := account.NewService(client, log)

	manager := session.NewManager(session.Options{
		Authenticator: accountService,
		Prober:        access.NewProber(client, log),
		Store:         store,
		KeyPrefix:     cfg.SessionKeyPrefix,
		Logger:        log,
	})
	client.Attach(manager)

	// ── 6. Restoration ────────────────────────────────────────────────────
	// The console never serves a request while the session is half-restored.
	must(log, manager.Restore(startupCtx), "restore session")

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: cfg.SessionBackend, Ping: store.Ping},
	}, log)

	userService := users.NewService(client, log)
	bookingService := booking.NewService(client, log)
	aggregator := dashboard.NewAggregator(userService, bookingService, client.BaseURL(), log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Session:   session.NewHandler(manager),
		Account:   account.NewHandler(accountService),
		Facility:  facility.NewHandler(),
		Dashboard: dashboard.NewHandler(aggregator),
		Users:     users.NewHandler(userService),
		Booking:   booking.NewHandler(bookingService),
	}

	server := api.NewServer(rootCtx, cfg, log, manager, handlers)

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
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger every entry of the process goes through.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// openStore connects the configured session backend and returns its closer.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (session.KV, func()) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		return session.NewRedisStore(rdb), func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}

	case config.BackendSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLitePath, log)
		must(log, err, "open sqlite")
		store, err := session.NewSQLiteStore(ctx, db)
		must(log, err, "prepare sqlite session table")
		return store, func() {
			log.Info("closing_sqlite_database")
			if cerr := db.Close(); cerr != nil {
				log.Error("sqlite_close_error", slog.Any("error", cerr))
			}
		}

	default:
		log.Warn("session_store_in_memory", slog.String("reason", "sessions are lost on restart"))
		return session.NewMemoryStore(), func() {}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
