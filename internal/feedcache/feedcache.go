// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hablafeed/internal/adaptive"
	"github.com/tomtom215/hablafeed/internal/metrics"
)

// Store is a feed cache backend.
type Store interface {
	adaptive.FeedCache

	// Invalidate drops the cached feed of userID. Missing entries are not an error.
	Invalidate(ctx context.Context, userID string) error

	// Close releases the backend.
	Close() error
}

// Backend names used in metrics and configuration.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

const keyPrefix = "feed:"

func cacheKey(userID string) string {
	return keyPrefix + userID
}

// encodeIDs serializes an id list for byte-oriented backends.
func encodeIDs(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode cached ids: %w", err)
	}
	return data, nil
}

func decodeIDs(data []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode cached ids: %w", err)
	}
	return ids, nil
}

func observe(backend, operation string, start time.Time) {
	metrics.RecordCacheOperation(backend, operation, time.Since(start))
}
