// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/apperr"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/ctxutil"
	"github.com/RisinaLiliia/deczhen-client/internal/platform/respond"
)

// SessionSource reports the signed-in user of the agent.
//
// The control plane has no credentials of its own: whoever can reach it acts
// as the agent's session. The session store implements this.
type SessionSource interface {
	CurrentUserID() string
}

// Authenticate puts the session's user ID into the request context.
//
// # Flow
//  1. Ask the [SessionSource] for the current user.
//  2. If nobody is signed in, the request proceeds as anonymous.
//  3. Otherwise inject the ID for handlers and the request log.
func Authenticate(source SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			userID := source.CurrentUserID()
			if userID == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if identity, ok := request.Context().Value(identityKey{}).(*identityHolder); ok {
				identity.userID = userID
			}

			ctx := ctxutil.WithUserID(request.Context(), userID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks requests while no user is signed in.
//
// Must be registered AFTER [Authenticate].
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetUserID(request.Context()) == "" {
			respond.Error(writer, request, apperr.Unauthorized("Sign in required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
