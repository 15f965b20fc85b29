// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RisinaLiliia/deczhen-client/internal/api"
	"github.com/RisinaLiliia/deczhen-client/internal/filters"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/config"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/kv"
	"github.com/RisinaLiliia/deczhen-client/internal/presence"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/internal/requests"
	"github.com/RisinaLiliia/deczhen-client/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newUpstream fakes the marketplace API endpoints the control plane reaches.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"user":{"id":"user-1","email":"anna@example.com","name":"Anna","role":"client"},"accessToken":"access","expiresIn":900}`)
	})
	mux.HandleFunc("GET /catalog/services", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"key":"window_cleaning","categoryKey":"cleaning","name":"Window cleaning"}]`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newControlPlane wires the real packages against the fake upstream.
func newControlPlane(t *testing.T) *httptest.Server {
	t.Helper()

	upstream := newUpstream(t)
	logger := discardLogger()
	store := kv.NewMemory()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	tokens := session.NewTokenHolder()
	client, err := remote.New(remote.Options{BaseURL: upstream.URL, Jar: jar, Tokens: tokens})
	require.NoError(t, err)

	hints := session.NewHintStore(store, jar, client.BaseURL(), []string{"/client"}, logger)
	sessions := session.NewStore(client, session.NewRefreshCoordinator(client, logger), tokens, hints, logger)
	heartbeat := presence.NewHeartbeat(client, presence.NewWebSocketDialer(client, 0), tokens, presence.Options{}, logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStorage:  store.Ping,
		CheckUpstream: client.Health,
	}, logger)

	cfg := &config.Config{Environment: "development", ServerPort: "0"}
	server := api.NewServer(t.Context(), cfg, logger, sessions, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Session:   session.NewHandler(sessions, session.NewModeStore(store)),
		Presence:  presence.NewHandler(heartbeat),
		Requests:  requests.NewHandler(client, "en", "EUR"),
		Filters:   filters.NewHandler(client, filters.Defaults{SortBy: "date_desc", Limit: 20}),
	})

	controlPlane := httptest.NewServer(server.Handler())
	t.Cleanup(controlPlane.Close)
	return controlPlane
}

/*
TestServer_Infrastructure verifies /health and /ready against a healthy upstream.
*/
func TestServer_Infrastructure(t *testing.T) {
	controlPlane := newControlPlane(t)

	for _, path := range []string{"/health", "/ready"} {
		t.Run(strings.TrimPrefix(path, "/"), func(t *testing.T) {
			response, err := http.Get(controlPlane.URL + path)
			require.NoError(t, err)
			defer response.Body.Close()

			assert.Equal(t, http.StatusOK, response.StatusCode)
			assert.NotEmpty(t, response.Header.Get("X-Request-ID"))
		})
	}
}

/*
TestServer_PresenceRequiresSession verifies that presence routes open only after sign-in.
*/
func TestServer_PresenceRequiresSession(t *testing.T) {
	controlPlane := newControlPlane(t)

	// 1. Signed out
	response, err := http.Get(controlPlane.URL + "/api/v1/presence")
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	// 2. Sign in through the session routes
	response, err = http.Post(controlPlane.URL+"/api/v1/session/login", "application/json",
		strings.NewReader(`{"email":"anna@example.com","password":"secret"}`))
	require.NoError(t, err)
	response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	// 3. Signed in
	response, err = http.Get(controlPlane.URL + "/api/v1/presence")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data presence.Stats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, presence.StateDisconnected, envelope.Data.State)
}

/*
TestServer_FiltersRoute verifies that the filters router wins over the request view router.
*/
func TestServer_FiltersRoute(t *testing.T) {
	controlPlane := newControlPlane(t)

	response, err := http.Get(controlPlane.URL + "/api/v1/requests/filters?serviceKey=window_cleaning&page=1")
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data struct {
			Location string `json:"location"`
			Replaced bool   `json:"replaced"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "/requests?categoryKey=cleaning&subcategoryKey=window_cleaning", envelope.Data.Location)
	assert.True(t, envelope.Data.Replaced)
}

/*
TestHealth_Readiness verifies the degraded response when a dependency fails.
*/
func TestHealth_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		storage    func(context.Context) error
		upstream   func(context.Context) error
		wantStatus int
		wantState  string
	}{
		{"all_ok", func(context.Context) error { return nil }, func(context.Context) error { return nil }, http.StatusOK, "ready"},
		{"upstream_down", func(context.Context) error { return nil }, func(context.Context) error { return errors.New("dial tcp: refused") }, http.StatusServiceUnavailable, "degraded"},
		{"storage_down", func(context.Context) error { return errors.New("redis: ping failed") }, nil, http.StatusServiceUnavailable, "degraded"},
		{"no_checks", nil, nil, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(api.HealthDependencies{
				CheckStorage:  tt.storage,
				CheckUpstream: tt.upstream,
			}, discardLogger())

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var envelope struct {
				Data struct {
					Status string `json:"status"`
				} `json:"data"`
			}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
			assert.Equal(t, tt.wantState, envelope.Data.Status)
		})
	}
}
