// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package maintenance

import (
	"context"
	"time"
)

// Task names, also used as the task label on maintenance_runs_total.
const (
	TaskCacheGC    = "feed_cache_gc"
	TaskCheckpoint = "duckdb_checkpoint"
)

// DefaultDiscardRatio is the share of a value log file that must be stale
// before badger rewrites it.
const DefaultDiscardRatio = 0.5

// GarbageCollector is satisfied by feedcache.Badger.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// Checkpointer is satisfied by database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CacheGCTask reclaims value log space in an on-disk feed cache.
func CacheGCTask(gc GarbageCollector, interval time.Duration) Task {
	return Task{
		Name:     TaskCacheGC,
		Interval: interval,
		Run: func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return gc.RunGC(DefaultDiscardRatio)
		},
	}
}

// CheckpointTask flushes the DuckDB write-ahead log into the database file.
func CheckpointTask(db Checkpointer, interval time.Duration) Task {
	return Task{
		Name:     TaskCheckpoint,
		Interval: interval,
		Run:      db.Checkpoint,
	}
}
