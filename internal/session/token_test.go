// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RisinaLiliia/deczhen-client/internal/session"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return signed
}

/*
TestTokenHolder_SetAndClear verifies the basic read/write cycle.
*/
func TestTokenHolder_SetAndClear(t *testing.T) {
	holder := session.NewTokenHolder()
	assert.Empty(t, holder.AccessToken())
	assert.True(t, holder.ExpiresAt().IsZero())

	before := time.Now()
	holder.Set("opaque-token", 15*time.Minute)

	assert.Equal(t, "opaque-token", holder.AccessToken())
	assert.WithinDuration(t, before.Add(15*time.Minute), holder.ExpiresAt(), time.Second)

	holder.Clear()
	assert.Empty(t, holder.AccessToken())
	assert.True(t, holder.ExpiresAt().IsZero())
}

/*
TestTokenHolder_ExpiryFromClaims verifies the exp claim is used when the
server omits a lifetime.
*/
func TestTokenHolder_ExpiryFromClaims(t *testing.T) {
	expiresAt := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	token := signedToken(t, "user-1", expiresAt)

	holder := session.NewTokenHolder()
	holder.Set(token, 0)

	assert.True(t, expiresAt.Equal(holder.ExpiresAt()))

	claims, ok := holder.Claims()
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.Subject)
}

/*
TestTokenHolder_OpaqueToken verifies non-JWT tokens are stored without claims.
*/
func TestTokenHolder_OpaqueToken(t *testing.T) {
	holder := session.NewTokenHolder()
	holder.Set("not-a-jwt", 0)

	assert.Equal(t, "not-a-jwt", holder.AccessToken())
	assert.True(t, holder.ExpiresAt().IsZero())

	_, ok := holder.Claims()
	assert.False(t, ok)
}
