// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command agent is the entry point for the De-ciZhen client session agent.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (and .env).
//  3. Open browser-state storage (Redis or in-memory).
//  4. Build the marketplace API client with its cookie jar.
//  5. Wire the session core: tokens, hints, refresh, store.
//  6. Start the presence heartbeat on the session status feed.
//  7. Bootstrap the session (and sign in unattended when configured).
//  8. Start the control plane with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RisinaLiliia/deczhen-client/internal/api"
	"github.com/RisinaLiliia/deczhen-client/internal/filters"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/config"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/kv"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/logger"
	redisstore "github.com/RisinaLiliia/deczhen-client/internal/platform/redis"
	"github.com/RisinaLiliia/deczhen-client/internal/presence"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/internal/requests"
	"github.com/RisinaLiliia/deczhen-client/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// JSON until configuration tells us otherwise.
	log := logger.New(logger.Options{Writer: os.Stdout, App: constants.AppName})
	slog.SetDefault(log)

	log.Info("agent_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	log = logger.New(logger.Options{
		Writer:  os.Stdout,
		Console: cfg.IsDevelopment(),
		Debug:   cfg.Debug,
		App:     constants.AppName,
	})
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("api", cfg.APIBaseURL),
	)

	// Root context for the agent lifetime; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Browser State ──────────────────────────────────────────────────
	var store kv.Store = kv.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		store = kv.NewRedis(rdb, cfg.KVNamespace)
	} else if cfg.IsProduction() {
		// Hints and mode are lost on restart, forcing a full sign-in.
		log.Warn("browser_state_in_memory", slog.String("reason", "REDIS_URL not set"))
	}

	// ── 4. Marketplace Client ─────────────────────────────────────────────
	jar, err := cookiejar.New(nil)
	must(log, err, "create cookie jar")

	tokens := session.NewTokenHolder()

	client, err := remote.New(remote.Options{
		BaseURL:     cfg.APIBaseURL,
		PresenceURL: cfg.PresenceURL,
		Timeout:     cfg.HTTPTimeout,
		Jar:         jar,
		Tokens:      tokens,
	})
	must(log, err, "build api client")

	// ── 5. Session Core ───────────────────────────────────────────────────
	hints := session.NewHintStore(store, jar, client.BaseURL(), cfg.ProtectedPrefixes, log)
	refresher := session.NewRefreshCoordinator(client, log)
	sessions := session.NewStore(client, refresher, tokens, hints, log)
	modes := session.NewModeStore(store)

	// ── 6. Presence Heartbeat ─────────────────────────────────────────────
	heartbeat := presence.NewHeartbeat(
		client,
		presence.NewWebSocketDialer(client, cfg.HTTPTimeout),
		tokens,
		presence.Options{
			Interval:             cfg.PresencePingInterval,
			ActivityThrottle:     cfg.PresenceActivityThrottle,
			ReconnectDelay:       cfg.PresenceReconnectDelay,
			MaxReconnectAttempts: cfg.PresenceMaxReconnects,
		},
		log,
	)

	updates, unsubscribe := sessions.Subscribe()
	heartbeatDone := make(chan struct{})
	go func() {
		defer close(heartbeatDone)
		if err := heartbeat.Run(rootCtx, updates); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("presence_heartbeat_stopped", slog.Any("error", err))
		}
	}()

	// ── 7. Bootstrap ──────────────────────────────────────────────────────
	snapshot := sessions.Bootstrap(startupCtx, cfg.BootstrapPath)
	if snapshot.Status == session.StatusUnauthenticated && cfg.HasAutoLogin() {
		if _, err := sessions.Login(startupCtx, remote.LoginInput{
			Email:    cfg.AuthEmail,
			Password: cfg.AuthPassword,
		}); err != nil {
			log.Warn("auto_login_failed", slog.Any("error", err))
		}
	}
	startupCancel()

	log.Info("session_ready", slog.String("status", string(sessions.Status())))

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStorage:  store.Ping,
		CheckUpstream: client.Health,
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Session:   session.NewHandler(sessions, modes),
		Presence:  presence.NewHandler(heartbeat),
		Requests:  requests.NewHandler(client, cfg.Locale, cfg.Currency),
		Filters: filters.NewHandler(client, filters.Defaults{
			SortBy: cfg.DefaultSort,
			Limit:  cfg.DefaultLimit,
		}),
	}

	server := api.NewServer(rootCtx, cfg, log, sessions, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down control plane", slog.Duration("timeout", shutdownTimeout))

	exitCode := 0
	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		exitCode = 1
	}

	// Stop presence before the store it reads from goes away.
	unsubscribe()
	rootCancel()
	<-heartbeatDone

	log.Info("agent stopped cleanly")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
