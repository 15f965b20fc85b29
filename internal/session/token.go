// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the client-side authentication lifecycle: the in-memory
access token, the single-flight refresh coordinator, the persisted session
hint and the finite-state session store built on top of them.

# Ownership

Nothing here is a package global. The application root constructs one
[TokenHolder], one [RefreshCoordinator], one [HintStore] and one [Store] and
passes them by reference to whichever component reads or writes the token.
*/
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the unverified claims read from an access token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenHolder keeps the current access token in memory.
//
// It is the only writer-visible copy of the token: the session store writes
// it, the remote client reads it for bearer headers.
type TokenHolder struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenHolder returns an empty holder.
func NewTokenHolder() *TokenHolder {
	return &TokenHolder{now: time.Now}
}

// Set stores token. When lifetime is not positive the expiry is taken from
// the token's own "exp" claim, if it has one.
func (holder *TokenHolder) Set(token string, lifetime time.Duration) {
	var expiresAt time.Time
	if lifetime > 0 {
		expiresAt = holder.now().Add(lifetime)
	} else if claims, ok := parseClaims(token); ok {
		expiresAt = claims.ExpiresAt
	}

	holder.mu.Lock()
	holder.token = token
	holder.expiresAt = expiresAt
	holder.mu.Unlock()
}

// Clear forgets the token.
func (holder *TokenHolder) Clear() {
	holder.mu.Lock()
	holder.token = ""
	holder.expiresAt = time.Time{}
	holder.mu.Unlock()
}

// AccessToken returns the current token or "".
func (holder *TokenHolder) AccessToken() string {
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	return holder.token
}

// ExpiresAt returns the known expiry, zero when unknown.
func (holder *TokenHolder) ExpiresAt() time.Time {
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	return holder.expiresAt
}

// Claims decodes the current token without verifying its signature.
// The client never holds the signing key; the claims are for display and logs.
func (holder *TokenHolder) Claims() (*TokenClaims, bool) {
	return parseClaims(holder.AccessToken())
}

func parseClaims(token string) (*TokenClaims, bool) {
	if token == "" {
		return nil, false
	}

	registered := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return nil, false
	}

	claims := &TokenClaims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, true
}
