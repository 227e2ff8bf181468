// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a feed cache shared by every API instance. Values are JSON id
// lists with a native Redis expiry.
type Redis struct {
	client redis.UniversalClient
}

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Get returns the cached ids for userID.
func (r *Redis) Get(ctx context.Context, userID string) ([]string, bool, error) {
	defer observe(BackendRedis, "get", time.Now())

	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached feed: %w", err)
	}
	ids, err := decodeIDs(data)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// Set stores ids for userID with ttl.
func (r *Redis) Set(ctx context.Context, userID string, ids []string, ttl time.Duration) error {
	defer observe(BackendRedis, "set", time.Now())

	data, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, cacheKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set cached feed: %w", err)
	}
	return nil
}

// Invalidate deletes the entry for userID.
func (r *Redis) Invalidate(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached feed: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
