// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local [Store]. Expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements [Store].
func (store *Memory) Get(_ context.Context, key string) (string, error) {
	store.mu.RLock()
	entry, found := store.entries[key]
	store.mu.RUnlock()

	if !found {
		return "", ErrNotFound
	}

	if !entry.expiresAt.IsZero() && !store.now().Before(entry.expiresAt) {
		store.mu.Lock()
		delete(store.entries, key)
		store.mu.Unlock()
		return "", ErrNotFound
	}

	return entry.value, nil
}

// Set implements [Store].
func (store *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = store.now().Add(ttl)
	}

	store.mu.Lock()
	store.entries[key] = entry
	store.mu.Unlock()
	return nil
}

// Delete implements [Store].
func (store *Memory) Delete(_ context.Context, key string) error {
	store.mu.Lock()
	delete(store.entries, key)
	store.mu.Unlock()
	return nil
}

// Ping implements [Store]. The memory store is always reachable.
func (store *Memory) Ping(context.Context) error { return nil }
