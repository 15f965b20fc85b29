// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the client core.

Categories:

  - Control Plane Timing: Read/Write/Idle timeouts for the local HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Browser State: storage keys and cookie names shared with the web app.
  - Remote API: endpoint paths of the marketplace API.

Using this package keeps magic strings and numbers out of the session logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "deczhen-agent"
	AppVersion = "0.1.0-dev"
)

// # Control Plane Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 20 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 15 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Browser State

const (
	// SessionHintKey is the storage key recording that this client has had a session.
	SessionHintKey = "dc_auth_session_hint"

	// SessionHintCookieName mirrors the hint as a cookie on the API origin.
	SessionHintCookieName = "dc_auth_session_hint"

	// SessionHintMaxAge is the lifetime of the mirrored hint cookie.
	SessionHintMaxAge = 30 * 24 * time.Hour

	// LastModeKey is the storage key of the last used UI mode (client/provider).
	LastModeKey = "dc_last_mode"
)

// # Remote API

const (
	PathAuthLogin      = "/auth/login"
	PathAuthRegister   = "/auth/register"
	PathAuthRefresh    = "/auth/refresh"
	PathAuthLogout     = "/auth/logout"
	PathUsersMe        = "/users/me"
	PathPresencePing   = "/presence/ping"
	PathPresenceSocket = "/presence"
	PathPublicRequest  = "/requests/public/"
	PathMyOffers       = "/offers/my"
	PathCatalogService = "/catalog/services"
	PathHealth         = "/health"

	// RequestsListPath is the web app route whose query string carries the filter state.
	RequestsListPath = "/requests"
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)
