// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	redisstore "github.com/RisinaLiliia/deczhen-client/internal/platform/redis"
)

// Redis implements [Store] on top of a go-redis client.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis wraps client. Every key is stored as "<namespace>:<key>".
func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, namespace: namespace}
}

func (store *Redis) key(key string) string {
	if store.namespace == "" {
		return key
	}
	return store.namespace + ":" + key
}

/*
Get retrieves the value stored under key.

Returns:
  - string: Stored value
  - error: ErrNotFound or connectivity errors
*/
func (store *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := store.client.Get(ctx, store.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("kv_redis_get_failed: %w", err)
	}
	return value, nil
}

// Set implements [Store].
func (store *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := store.client.Set(ctx, store.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("kv_redis_set_failed: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (store *Redis) Delete(ctx context.Context, key string) error {
	if err := store.client.Del(ctx, store.key(key)).Err(); err != nil {
		return fmt.Errorf("kv_redis_delete_failed: %w", err)
	}
	return nil
}

// Ping implements [Store].
func (store *Redis) Ping(ctx context.Context) error {
	return redisstore.Ping(ctx, store.client)
}
