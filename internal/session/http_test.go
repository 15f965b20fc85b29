// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/kv"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
	"github.com/RisinaLiliia/deczhen-client/internal/session"
)

func newSessionServer(f *fixture) *httptest.Server {
	handler := session.NewHandler(f.store, session.NewModeStore(kv.NewMemory()))
	return httptest.NewServer(handler.Routes())
}

/*
TestHandler_Login verifies the envelope and the sanitised redirect.
*/
func TestHandler_Login(t *testing.T) {
	f := newFixture()
	f.api.auth = &remote.AuthResponse{User: anna, AccessToken: "access"}
	server := newSessionServer(f)
	defer server.Close()

	body := strings.NewReader(`{"email":"anna@example.com","password":"secret"}`)
	response, err := http.Post(server.URL+"/login?next=//evil.example", "application/json", body)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data struct {
			Session struct {
				Status      string       `json:"status"`
				User        *remote.User `json:"user"`
				AccessToken string       `json:"accessToken"`
			} `json:"session"`
			Next string `json:"next"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))

	assert.Equal(t, "authenticated", envelope.Data.Session.Status)
	assert.Equal(t, "user-1", envelope.Data.Session.User.ID)
	assert.Empty(t, envelope.Data.Session.AccessToken)
	assert.Equal(t, "/", envelope.Data.Next)
}

/*
TestHandler_LoginErrors verifies validation and transport failures map to envelopes.
*/
func TestHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authErr    error
		wantStatus int
		wantCode   string
	}{
		{"invalid_json", `{`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid_email", `{"email":"x","password":"p"}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"api_unreachable", `{"email":"anna@example.com","password":"p"}`, errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.api.authErr = tt.authErr
			server := newSessionServer(f)
			defer server.Close()

			response, err := http.Post(server.URL+"/login", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer response.Body.Close()

			var envelope struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
			assert.Equal(t, tt.wantStatus, response.StatusCode)
			assert.Equal(t, tt.wantCode, envelope.Code)
		})
	}
}

/*
TestHandler_Snapshot verifies the session diagnostics include refresh suppression.
*/
func TestHandler_Snapshot(t *testing.T) {
	for _, suppressed := range []bool{false, true} {
		f := newFixture()
		f.refresher.suppressed = suppressed
		server := newSessionServer(f)

		response, err := http.Get(server.URL + "/")
		require.NoError(t, err)

		var envelope struct {
			Data struct {
				Status            string `json:"status"`
				RefreshSuppressed bool   `json:"refreshSuppressed"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
		response.Body.Close()
		server.Close()

		assert.Equal(t, "idle", envelope.Data.Status)
		assert.Equal(t, suppressed, envelope.Data.RefreshSuppressed)
	}
}

/*
TestHandler_Mode verifies the mode endpoints round-trip and reject unknown modes.
*/
func TestHandler_Mode(t *testing.T) {
	server := newSessionServer(newFixture())
	defer server.Close()

	put := func(body string) int {
		request, err := http.NewRequest(http.MethodPut, server.URL+"/mode", strings.NewReader(body))
		require.NoError(t, err)
		response, err := http.DefaultClient.Do(request)
		require.NoError(t, err)
		response.Body.Close()
		return response.StatusCode
	}

	assert.Equal(t, http.StatusOK, put(`{"mode":"provider"}`))
	assert.Equal(t, http.StatusBadRequest, put(`{"mode":"admin"}`))

	response, err := http.Get(server.URL + "/mode")
	require.NoError(t, err)
	defer response.Body.Close()

	var envelope struct {
		Data struct {
			Mode string `json:"mode"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "provider", envelope.Data.Mode)
}
