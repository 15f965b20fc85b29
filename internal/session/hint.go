// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/constants"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/kv"
)

const hintValue = "1"

// HintStore persists the "this client has had a session" flag.
//
// The flag lives in the KV store and is mirrored as a cookie on the API
// origin, the same pair of places the web app uses (localStorage + cookie).
// It only decides whether bootstrap should spend a refresh call.
type HintStore struct {
	store     kv.Store
	jar       http.CookieJar
	origin    *url.URL
	protected []string
	logger    *slog.Logger
}

// NewHintStore creates a hint store. jar and origin may be nil to skip the
// cookie mirror.
func NewHintStore(store kv.Store, jar http.CookieJar, origin *url.URL, protectedPrefixes []string, logger *slog.Logger) *HintStore {
	prefixes := make([]string, 0, len(protectedPrefixes))
	for _, prefix := range protectedPrefixes {
		prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}

	return &HintStore{
		store:     store,
		jar:       jar,
		origin:    origin,
		protected: prefixes,
		logger:    logger,
	}
}

// Mark records that a session existed. Called after login/register.
func (hints *HintStore) Mark(ctx context.Context) error {
	hints.setCookie(hintValue, int(constants.SessionHintMaxAge.Seconds()))
	return hints.store.Set(ctx, constants.SessionHintKey, hintValue, 0)
}

// Clear removes the hint. Called on logout.
func (hints *HintStore) Clear(ctx context.Context) error {
	hints.setCookie("", -1)
	return hints.store.Delete(ctx, constants.SessionHintKey)
}

// Has reports whether either copy of the hint is present.
// Storage errors count as "no hint".
func (hints *HintStore) Has(ctx context.Context) bool {
	value, err := hints.store.Get(ctx, constants.SessionHintKey)
	if err == nil && value == hintValue {
		return true
	}
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		hints.logger.WarnContext(ctx, "session_hint_read_failed", slog.Any("error", err))
	}

	if hints.jar == nil || hints.origin == nil {
		return false
	}
	for _, cookie := range hints.jar.Cookies(hints.origin) {
		if cookie.Name == constants.SessionHintCookieName && cookie.Value == hintValue {
			return true
		}
	}
	return false
}

// ShouldAttemptRefreshOnBootstrap reports whether bootstrap should call the
// refresh endpoint for a visit to path. Protected areas always try; public
// pages only try when the hint says a session existed.
func (hints *HintStore) ShouldAttemptRefreshOnBootstrap(ctx context.Context, path string) bool {
	if index := strings.IndexAny(path, "?#"); index >= 0 {
		path = path[:index]
	}

	for _, prefix := range hints.protected {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return hints.Has(ctx)
}

func (hints *HintStore) setCookie(value string, maxAge int) {
	if hints.jar == nil || hints.origin == nil {
		return
	}

	hints.jar.SetCookies(hints.origin, []*http.Cookie{{
		Name:     constants.SessionHintCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	}})
}
