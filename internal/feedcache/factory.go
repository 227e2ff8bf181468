// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/hablafeed/internal/config"
)

// memorySweepInterval is how often the in-process cache drops expired entries.
const memorySweepInterval = 5 * time.Minute

// New builds the backend selected by cfg, wrapped in a circuit breaker when
// cfg.BreakerFailures is positive. It returns a nil Store for the "none"
// backend.
func New(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	var store Store
	switch cfg.Backend {
	case config.CacheBackendNone:
		return nil, nil
	case config.CacheBackendMemory, "":
		store = NewMemory(memorySweepInterval)
	case config.CacheBackendBadger:
		b, err := OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		store = b
	case config.CacheBackendRedis:
		r, err := NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		store = r
	default:
		return nil, fmt.Errorf("unknown feed cache backend %q", cfg.Backend)
	}

	if cfg.BreakerFailures > 0 {
		return NewBreaker(store, BreakerSettings{
			Name:     "feed-cache-" + backendName(cfg.Backend),
			Failures: cfg.BreakerFailures,
			Timeout:  cfg.BreakerTimeout,
		}), nil
	}
	return store, nil
}

func backendName(backend string) string {
	if backend == "" {
		return BackendMemory
	}
	return backend
}

// AsBadger returns the Badger backend inside store, if any.
func AsBadger(store Store) (*Badger, bool) {
	if br, ok := store.(*Breaker); ok {
		store = br.Unwrap()
	}
	b, ok := store.(*Badger)
	return b, ok
}
