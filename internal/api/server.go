// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/console are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/taibuivan/facilityadmin/internal/account"
	"github.com/taibuivan/facilityadmin/internal/booking"
	"github.com/taibuivan/facilityadmin/internal/dashboard"
	"github.com/taibuivan/facilityadmin/internal/facility"
	"github.com/taibuivan/facilityadmin/internal/platform/config"
	"github.com/taibuivan/facilityadmin/internal/platform/constants"
	"github.com/taibuivan/facilityadmin/internal/platform/middleware"
	"github.com/taibuivan/facilityadmin/internal/session"
	"github.com/taibuivan/facilityadmin/internal/users"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when the session store responds.
	Readiness http.HandlerFunc

	// Session handles sign-in, sign-out and the session snapshot.
	Session *session.Handler

	// Account changes the password of the signed-in admin.
	Account *account.Handler

	// Facility serves the module registry.
	Facility *facility.Handler

	// Dashboard builds the admin overview.
	Dashboard *dashboard.Handler

	// Users serves the user directory.
	Users *users.Handler

	// Booking browses and deletes module bookings.
	Booking *booking.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, state middleware.SessionState, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.AttachSession(state))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Middleware)
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {

		// Public: the session itself decides who is signed in
		api.Route("/session", h.Session.RegisterRoutes)

		// Signed-in, admin or not
		api.Route("/account", func(signedIn chi.Router) {
			signedIn.Use(middleware.RequireAuthenticated(state))
			h.Account.RegisterRoutes(signedIn)
		})

		// Admin only
		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(state))
			admin.Route("/facilities", h.Facility.RegisterRoutes)
			admin.Route("/dashboard", h.Dashboard.RegisterRoutes)
			admin.Route("/users", h.Users.RegisterRoutes)
			admin.Route("/bookings", h.Booking.RegisterRoutes)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           otelhttp.NewHandler(r, constants.AppName),
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root handler, including tracing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
