// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/ctxutil"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
)

type staticToken string

func (token staticToken) AccessToken() string { return string(token) }

func newClient(t *testing.T, server *httptest.Server, token string) *remote.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client, err := remote.New(remote.Options{
		BaseURL: server.URL,
		Jar:     jar,
		Tokens:  staticToken(token),
	})
	require.NoError(t, err)
	return client
}

/*
TestClient_LoginAndRefreshCookie verifies decoding and that the refresh cookie
set on login is replayed on refresh.
*/
func TestClient_LoginAndRefreshCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var input remote.LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "anna@example.com", input.Email)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r-1", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":        map[string]any{"id": "u-1", "email": input.Email, "name": "Anna"},
			"accessToken": "a-1",
			"expiresIn":   900,
		})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refreshToken")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "r-1", cookie.Value)
		_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "a-2", "expiresIn": 900})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := newClient(t, server, "")
	ctx := context.Background()

	login, err := client.Login(ctx, remote.LoginInput{Email: "anna@example.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "a-1", login.AccessToken)
	assert.Equal(t, "u-1", login.User.ID)
	assert.Equal(t, int64(900), login.ExpiresIn)

	refreshed, err := client.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a-2", refreshed.AccessToken)
}

/*
TestClient_ErrorBodies verifies the parsing of non-2xx responses into AppError.
*/
func TestClient_ErrorBodies(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{"string_message", http.StatusUnauthorized, `{"message":"Invalid credentials","code":"INVALID_CREDENTIALS"}`, "INVALID_CREDENTIALS", "Invalid credentials"},
		{"list_message", http.StatusBadRequest, `{"message":["email must be an email","password too short"]}`, "REQUEST_FAILED", "email must be an email; password too short"},
		{"error_field", http.StatusConflict, `{"error":"Email already registered","code":"EMAIL_TAKEN"}`, "EMAIL_TAKEN", "Email already registered"},
		{"not_json", http.StatusBadGateway, `<html>bad gateway</html>`, "UPSTREAM_ERROR", "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newClient(t, server, "").Login(context.Background(), remote.LoginInput{})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.HTTPStatus)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, tt.wantMessage, ae.Message)
		})
	}
}

/*
TestClient_BearerAndRequestID verifies authenticated calls carry the token and
propagate the request ID from context.
*/
func TestClient_BearerAndRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer a-1", r.Header.Get("Authorization"))
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "u-1", "name": "Anna", "role": "provider"})
	}))
	defer server.Close()

	ctx := ctxutil.WithRequestID(context.Background(), "req-42")
	user, err := newClient(t, server, "a-1").Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "provider", user.Role)
}

/*
TestClient_MeWithoutToken verifies no network call is made without a token.
*/
func TestClient_MeWithoutToken(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newClient(t, server, "").Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.StatusOf(err))

	assert.Error(t, newClient(t, server, "").PingPresence(context.Background()))
	assert.Zero(t, calls.Load())
}

/*
TestClient_TransportError verifies that dial failures are not AppErrors.
*/
func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newClient(t, server, "")
	server.Close()

	_, err := client.Refresh(context.Background())
	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))
}

/*
TestClient_PresenceURL verifies the socket URL derivation.
*/
func TestClient_PresenceURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		override string
		want     string
	}{
		{"http_to_ws", "http://localhost:4000", "", "ws://localhost:4000/presence?token=t-1"},
		{"https_to_wss_with_prefix", "https://api.deczhen.app/api/", "", "wss://api.deczhen.app/api/presence?token=t-1"},
		{"override", "https://api.deczhen.app", "wss://rt.deczhen.app/ws?v=2", "wss://rt.deczhen.app/ws?token=t-1&v=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := remote.New(remote.Options{BaseURL: tt.base, PresenceURL: tt.override})
			require.NoError(t, err)

			got, err := client.PresenceURL("t-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestClient_MarketplaceReads verifies the supplementary read endpoints.
*/
func TestClient_MarketplaceReads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /requests/public/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": r.PathValue("id"), "title": "Fix tap", "clientRatingAvg": "4.5"})
	})
	mux.HandleFunc("GET /offers/my", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": "o-1", "requestId": "r-1", "status": "accepted"}})
	})
	mux.HandleFunc("GET /catalog/services", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"key": "tap", "categoryKey": "plumbing", "name": "Replace tap"}})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := newClient(t, server, "a-1")
	ctx := context.Background()

	request, err := client.PublicRequest(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", request.ID)
	assert.Equal(t, "4.5", request.ClientRatingAvg)

	offers, err := client.MyOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, remote.OfferAccepted, offers[0].Status)

	services, err := client.Services(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plumbing", services[0].CategoryKey)
}
