// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/validate"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
)

// Status is the lifecycle phase of the client session.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// ErrAuthInFlight rejects a login or registration started while another one runs.
var ErrAuthInFlight = apperr.Conflict("AUTH_IN_FLIGHT", "Another sign-in is already in progress")

// Session is a point-in-time copy of the store.
//
// Authenticated implies User != nil and AccessToken != "". ExpiresAt is set
// while authenticated and the token expiry is known.
type Session struct {
	Status      Status       `json:"status"`
	User        *remote.User `json:"user,omitempty"`
	AccessToken string       `json:"-"`
	ExpiresAt   *time.Time   `json:"expiresAt,omitempty"`
	Error       string       `json:"error,omitempty"`

	// RefreshSuppressed reports that refresh calls are short-circuited until
	// the next sign-in.
	RefreshSuppressed bool `json:"refreshSuppressed"`
}

// # Collaborators

// AuthAPI is the subset of the remote client the store calls.
type AuthAPI interface {
	Login(ctx context.Context, input remote.LoginInput) (*remote.AuthResponse, error)
	Register(ctx context.Context, input remote.RegisterInput) (*remote.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*remote.User, error)
}

// Refresher yields fresh access tokens.
type Refresher interface {
	RefreshAccessToken(ctx context.Context) (Grant, bool)
	AllowRefreshAttempts()
	Suppressed() bool
}

// SessionHints decides whether bootstrap may spend a refresh call.
type SessionHints interface {
	Mark(ctx context.Context) error
	Clear(ctx context.Context) error
	ShouldAttemptRefreshOnBootstrap(ctx context.Context, path string) bool
}

// # Store

// Store is the authoritative session state machine.
//
// # States
//
//	idle -> loading -> authenticated | unauthenticated
//
// Bootstrap leaves idle once. Login and Register go through loading again
// and are guarded against running concurrently. Logout always ends
// unauthenticated.
type Store struct {
	api       AuthAPI
	refresher Refresher
	tokens    *TokenHolder
	hints     SessionHints
	logger    *slog.Logger

	mu          sync.Mutex
	status      Status
	user        *remote.User
	lastError   string
	authBusy    bool
	subscribers map[int]chan Status
	nextID      int
}

// NewStore builds an idle store.
func NewStore(api AuthAPI, refresher Refresher, tokens *TokenHolder, hints SessionHints, logger *slog.Logger) *Store {
	return &Store{
		api:         api,
		refresher:   refresher,
		tokens:      tokens,
		hints:       hints,
		logger:      logger,
		status:      StatusIdle,
		subscribers: make(map[int]chan Status),
	}
}

/*
Bootstrap resolves the initial session once per process.

Parameters:
  - ctx: Bounds the refresh and profile calls.
  - path: The location being opened; decides whether a refresh is worth trying.

Returns:
  - The settled [Session]. Calls after the first return the current snapshot.
*/
func (store *Store) Bootstrap(ctx context.Context, path string) Session {
	store.mu.Lock()
	if store.status != StatusIdle {
		store.mu.Unlock()
		return store.Snapshot()
	}
	store.setStatusLocked(StatusLoading)
	store.mu.Unlock()

	// ── 1. Skip the network when no session ever existed ─────────────────

	if !store.hints.ShouldAttemptRefreshOnBootstrap(ctx, path) {
		store.settleBootstrap(ctx, func() {
			store.settleUnauthenticatedLocked("")
			store.logger.InfoContext(ctx, "session_bootstrap_skipped", slog.String("path", path))
		})
		return store.Snapshot()
	}

	// ── 2. Refresh ───────────────────────────────────────────────────────

	grant, ok := store.refresher.RefreshAccessToken(ctx)
	if !ok {
		store.settleBootstrap(ctx, func() {
			store.settleUnauthenticatedLocked("")
			store.logger.InfoContext(ctx, "session_bootstrap_unauthenticated")
		})
		return store.Snapshot()
	}

	if !store.settleBootstrap(ctx, func() { store.tokens.Set(grant.AccessToken, grant.Lifetime) }) {
		return store.Snapshot()
	}

	// ── 3. Load the profile ──────────────────────────────────────────────

	user, err := store.api.Me(ctx)
	store.settleBootstrap(ctx, func() {
		if err != nil || user == nil {
			store.tokens.Clear()
			store.settleUnauthenticatedLocked("")
			store.logger.WarnContext(ctx, "session_bootstrap_profile_failed", slog.Any("error", err))
			return
		}

		store.settleAuthenticatedLocked(user)
		store.logger.InfoContext(ctx, "session_bootstrap_authenticated", store.tokenAttrs(user)...)
	})
	return store.Snapshot()
}

// settleBootstrap runs apply under the lock unless a login or registration
// started after bootstrap did; that sign-in owns the token and the status
// from then on. It reports whether apply ran.
func (store *Store) settleBootstrap(ctx context.Context, apply func()) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.authBusy || store.status != StatusLoading {
		store.logger.DebugContext(ctx, "session_bootstrap_superseded", slog.String("status", string(store.status)))
		return false
	}
	apply()
	return true
}

// tokenAttrs describes the held token for logs. A subject that differs from
// the profile is flagged, since the profile was fetched with that token.
func (store *Store) tokenAttrs(user *remote.User) []any {
	attrs := []any{slog.String("user_id", user.ID)}
	if expiresAt := store.tokens.ExpiresAt(); !expiresAt.IsZero() {
		attrs = append(attrs, slog.Time("expires_at", expiresAt))
	}
	if claims, ok := store.tokens.Claims(); ok && claims.Subject != "" {
		attrs = append(attrs,
			slog.String("token_subject", claims.Subject),
			slog.Bool("subject_mismatch", claims.Subject != user.ID),
		)
	}
	return attrs
}

/*
Login signs in with email and password.

Returns:
  - A VALIDATION_ERROR [apperr.AppError] before any state change when the input is malformed.
  - [ErrAuthInFlight] when another login or registration is running.
  - The remote error, unchanged, when the API rejects the credentials.
*/
func (store *Store) Login(ctx context.Context, input remote.LoginInput) (Session, error) {
	input.Email = strings.TrimSpace(input.Email)

	v := &validate.Validator{}
	v.Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password)
	if err := v.Err(); err != nil {
		return store.Snapshot(), err
	}

	return store.authenticate(ctx, "login", func() (*remote.AuthResponse, error) {
		return store.api.Login(ctx, input)
	})
}

/*
Register creates an account and signs it in.

# Business Rules
  - Name, email, password (8+ characters), role and city are required.
  - Role is client or provider.
  - The privacy policy must be accepted.
*/
func (store *Store) Register(ctx context.Context, input remote.RegisterInput) (Session, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	v := &validate.Validator{}
	v.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		Email("email", input.Email).
		MinLen("password", input.Password, 8).
		OneOf("role", input.Role, string(ModeClient), string(ModeProvider)).
		Required("cityId", input.CityID).
		Accepted("acceptPrivacyPolicy", input.AcceptPrivacyPolicy)
	if err := v.Err(); err != nil {
		return store.Snapshot(), err
	}

	return store.authenticate(ctx, "register", func() (*remote.AuthResponse, error) {
		return store.api.Register(ctx, input)
	})
}

func (store *Store) authenticate(ctx context.Context, action string, call func() (*remote.AuthResponse, error)) (Session, error) {
	store.mu.Lock()
	if store.authBusy {
		store.mu.Unlock()
		return store.Snapshot(), ErrAuthInFlight
	}
	store.authBusy = true
	store.lastError = ""
	store.setStatusLocked(StatusLoading)
	store.mu.Unlock()

	defer func() {
		store.mu.Lock()
		store.authBusy = false
		store.mu.Unlock()
	}()

	response, err := call()
	if err == nil && (response == nil || strings.TrimSpace(response.AccessToken) == "") {
		err = apperr.FromStatus(http.StatusBadGateway, "EMPTY_ACCESS_TOKEN", "Sign-in response carried no access token")
	}
	if err != nil {
		store.tokens.Clear()
		store.settleUnauthenticated(err.Error())
		store.logger.WarnContext(ctx, "session_"+action+"_failed", slog.Any("error", err))
		return store.Snapshot(), err
	}

	store.tokens.Set(response.AccessToken, response.Lifetime())
	if hintErr := store.hints.Mark(ctx); hintErr != nil {
		store.logger.WarnContext(ctx, "session_hint_write_failed", slog.Any("error", hintErr))
	}
	store.refresher.AllowRefreshAttempts()

	user := response.User
	store.settleAuthenticated(&user)
	store.logger.InfoContext(ctx, "session_"+action+"_succeeded", store.tokenAttrs(&user)...)
	return store.Snapshot(), nil
}

// Logout ends the session. The remote call is best-effort; local state is
// cleared whatever it returns.
func (store *Store) Logout(ctx context.Context) Session {
	if err := store.api.Logout(ctx); err != nil {
		store.logger.WarnContext(ctx, "session_logout_remote_failed", slog.Any("error", err))
	}

	store.tokens.Clear()
	if err := store.hints.Clear(ctx); err != nil {
		store.logger.WarnContext(ctx, "session_hint_clear_failed", slog.Any("error", err))
	}
	store.settleUnauthenticated("")

	store.logger.InfoContext(ctx, "session_logged_out")
	return store.Snapshot()
}

// FetchMe reloads the profile. A failure signs the user out and yields
// (nil, nil); without a token it returns (nil, nil) without calling the API.
func (store *Store) FetchMe(ctx context.Context) (*remote.User, error) {
	if store.tokens.AccessToken() == "" {
		return nil, nil
	}

	user, err := store.api.Me(ctx)
	if err != nil || user == nil {
		store.tokens.Clear()
		store.settleUnauthenticated("")
		store.logger.WarnContext(ctx, "session_fetch_me_failed", slog.Any("error", err))
		return nil, nil
	}

	store.mu.Lock()
	store.user = user
	store.mu.Unlock()

	copied := *user
	return &copied, nil
}

// # Reads

// Snapshot returns a copy of the current session.
func (store *Store) Snapshot() Session {
	store.mu.Lock()
	defer store.mu.Unlock()

	snapshot := Session{
		Status:            store.status,
		Error:             store.lastError,
		RefreshSuppressed: store.refresher.Suppressed(),
	}
	if store.user != nil {
		copied := *store.user
		snapshot.User = &copied
	}
	if store.status == StatusAuthenticated {
		snapshot.AccessToken = store.tokens.AccessToken()
		if expiresAt := store.tokens.ExpiresAt(); !expiresAt.IsZero() {
			snapshot.ExpiresAt = &expiresAt
		}
	}
	return snapshot
}

// Status returns the current phase.
func (store *Store) Status() Status {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.status
}

// CurrentUserID returns the signed-in user's ID, or "" when not authenticated.
func (store *Store) CurrentUserID() string {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.status != StatusAuthenticated || store.user == nil {
		return ""
	}
	return store.user.ID
}

// Subscribe returns a feed of status changes and a cancel func.
//
// The feed holds one value: a slow reader skips intermediate states and
// always observes the latest one. The current status is delivered first.
func (store *Store) Subscribe() (<-chan Status, func()) {
	store.mu.Lock()
	defer store.mu.Unlock()

	id := store.nextID
	store.nextID++

	feed := make(chan Status, 1)
	feed <- store.status
	store.subscribers[id] = feed

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			store.mu.Lock()
			defer store.mu.Unlock()
			delete(store.subscribers, id)
			close(feed)
		})
	}
	return feed, cancel
}

// # Transitions

func (store *Store) settleAuthenticated(user *remote.User) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settleAuthenticatedLocked(user)
}

func (store *Store) settleAuthenticatedLocked(user *remote.User) {
	store.user = user
	store.lastError = ""
	store.setStatusLocked(StatusAuthenticated)
}

func (store *Store) settleUnauthenticated(message string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settleUnauthenticatedLocked(message)
}

func (store *Store) settleUnauthenticatedLocked(message string) {
	store.user = nil
	store.lastError = message
	store.setStatusLocked(StatusUnauthenticated)
}

// setStatusLocked must be called with mu held.
func (store *Store) setStatusLocked(status Status) {
	store.status = status

	for _, feed := range store.subscribers {
		select {
		case <-feed:
		default:
		}
		feed <- status
	}
}
