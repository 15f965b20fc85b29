// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/remote"
)

// RefreshAPI is the remote call the coordinator wraps.
type RefreshAPI interface {
	Refresh(ctx context.Context) (*remote.RefreshResponse, error)
}

// Grant is an access token issued by a refresh.
type Grant struct {
	AccessToken string
	// Lifetime is the server-announced validity; zero when not announced.
	Lifetime time.Duration
}

// RefreshCoordinator deduplicates refresh calls and suppresses retries after
// the server has said the refresh session is gone.
//
// # Guarantees
//   - At most one refresh request is in flight; concurrent callers share it.
//   - After a 401, 403 or 5xx no network call is made until
//     [RefreshCoordinator.AllowRefreshAttempts] runs.
//   - Callers never see an error: failure is (Grant{}, false).
type RefreshCoordinator struct {
	api        RefreshAPI
	group      singleflight.Group
	suppressed atomic.Bool
	logger     *slog.Logger
}

// NewRefreshCoordinator wraps api.
func NewRefreshCoordinator(api RefreshAPI, logger *slog.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{api: api, logger: logger}
}

/*
RefreshAccessToken obtains a new access token from the refresh cookie.

Parameters:
  - ctx: Caller context. The shared network call ignores its cancellation so
    one caller leaving does not fail the others; ctx only bounds this caller's wait.

Returns:
  - (grant, true) on success.
  - (Grant{}, false) when suppressed, on any failure, or when ctx ends first.
*/
func (coordinator *RefreshCoordinator) RefreshAccessToken(ctx context.Context) (Grant, bool) {
	if coordinator.suppressed.Load() {
		return Grant{}, false
	}

	detached := context.WithoutCancel(ctx)
	result := coordinator.group.DoChan("refresh", func() (any, error) {
		return coordinator.refresh(detached), nil
	})

	select {
	case <-ctx.Done():
		return Grant{}, false
	case outcome := <-result:
		grant, _ := outcome.Val.(Grant)
		return grant, grant.AccessToken != ""
	}
}

// AllowRefreshAttempts clears suppression. Called after a successful login.
func (coordinator *RefreshCoordinator) AllowRefreshAttempts() {
	coordinator.suppressed.Store(false)
}

// Suppressed reports whether refresh calls are currently short-circuited.
func (coordinator *RefreshCoordinator) Suppressed() bool {
	return coordinator.suppressed.Load()
}

func (coordinator *RefreshCoordinator) refresh(ctx context.Context) Grant {
	response, err := coordinator.api.Refresh(ctx)
	if err != nil {
		status := apperr.StatusOf(err)
		if status == http.StatusUnauthorized || status == http.StatusForbidden || status >= http.StatusInternalServerError {
			coordinator.suppressed.Store(true)
		}
		coordinator.logger.DebugContext(ctx, "session_refresh_failed",
			slog.Int("status", status),
			slog.Bool("suppressed", coordinator.suppressed.Load()),
			slog.Any("error", err),
		)
		return Grant{}
	}

	token := strings.TrimSpace(response.AccessToken)
	if token == "" {
		coordinator.logger.DebugContext(ctx, "session_refresh_empty_token")
		return Grant{}
	}

	coordinator.suppressed.Store(false)
	return Grant{AccessToken: token, Lifetime: response.Lifetime()}
}
