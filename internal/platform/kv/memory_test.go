// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RisinaLiliia/deczhen-client/internal/platform/kv"
)

/*
TestMemory_SetGetDelete covers the basic lifecycle of a key.
*/
func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	// 1. Absent key
	_, err := store.Get(ctx, "dc_last_mode")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	// 2. Set and read back
	require.NoError(t, store.Set(ctx, "dc_last_mode", "provider", 0))
	value, err := store.Get(ctx, "dc_last_mode")
	require.NoError(t, err)
	assert.Equal(t, "provider", value)

	// 3. Delete is idempotent
	require.NoError(t, store.Delete(ctx, "dc_last_mode"))
	require.NoError(t, store.Delete(ctx, "dc_last_mode"))
	_, err = store.Get(ctx, "dc_last_mode")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.NoError(t, store.Ping(ctx))
}

/*
TestMemory_TTL verifies that expired entries disappear.
*/
func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	require.NoError(t, store.Set(ctx, "hint", "1", 20*time.Millisecond))

	_, err := store.Get(ctx, "hint")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "hint")
		return err == kv.ErrNotFound
	}, time.Second, 5*time.Millisecond)
}
