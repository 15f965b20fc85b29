// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the router, the middleware chain and the handlers of the
local control plane into a runnable [http.Server].

Architecture:

  - The control plane is how a UI host (browser shell, desktop wrapper,
    script) drives the session core embedded in the agent.
  - Only this package and cmd/agent import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/RisinaLiliia/deczhen-client/internal/filters"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/config"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/middleware"
	"github.com/RisinaLiliia/deczhen-client/internal/presence"
	"github.com/RisinaLiliia/deczhen-client/internal/requests"
	"github.com/RisinaLiliia/deczhen-client/internal/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the handler sets of every package.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 503 while storage or upstream is down.
	Readiness http.HandlerFunc

	// Session drives sign-in, sign-out and the UI mode.
	Session *session.Handler

	// Presence reports heartbeat state and accepts user activity.
	Presence *presence.Handler

	// Requests builds request detail views.
	Requests *requests.Handler

	// Filters normalises request-list URLs.
	Filters *filters.Handler
}

// # Server Initialization

// NewServer constructs the router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, sessions middleware.SessionSource, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Authenticate(sessions))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Control Plane API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/session", h.Session.Routes())

		api.Route("/presence", func(presenceRoutes chi.Router) {
			presenceRoutes.Use(middleware.RequireSession)
			presenceRoutes.Mount("/", h.Presence.Routes())
		})

		api.Route("/requests", func(requestRoutes chi.Router) {
			requestRoutes.Mount("/filters", h.Filters.Routes())
			requestRoutes.Mount("/", h.Requests.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	s.log.Info("control_plane_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
