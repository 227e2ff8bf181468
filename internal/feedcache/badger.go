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

	"github.com/dgraph-io/badger/v4"
)

// Badger is an embedded, persistent feed cache. Entries carry a Badger TTL
// so expiry survives restarts.
type Badger struct {
	db    *badger.DB
	owned bool
}

// OpenBadger opens (or creates) a Badger database at path.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for feed cache: %w", err)
	}
	return &Badger{db: db, owned: true}, nil
}

// NewBadgerFromDB wraps an already open database. Close leaves db open.
func NewBadgerFromDB(db *badger.DB) *Badger {
	return &Badger{db: db}
}

// Get returns the cached ids for userID.
func (b *Badger) Get(_ context.Context, userID string) ([]string, bool, error) {
	defer observe(BackendBadger, "get", time.Now())

	var ids []string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKey(userID)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var derr error
			ids, derr = decodeIDs(val)
			return derr
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached feed: %w", err)
	}
	return ids, true, nil
}

// Set stores ids for userID with ttl.
func (b *Badger) Set(_ context.Context, userID string, ids []string, ttl time.Duration) error {
	defer observe(BackendBadger, "set", time.Now())

	data, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(cacheKey(userID)), data).WithTTL(ttl))
	})
	if err != nil {
		return fmt.Errorf("set cached feed: %w", err)
	}
	return nil
}

// Invalidate deletes the entry for userID.
func (b *Badger) Invalidate(_ context.Context, userID string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(cacheKey(userID)))
	})
	if err != nil {
		return fmt.Errorf("invalidate cached feed: %w", err)
	}
	return nil
}

// RunGC reclaims value log space. It returns nil when there was nothing
// to rewrite.
func (b *Badger) RunGC(discardRatio float64) error {
	for {
		err := b.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("badger value log gc: %w", err)
		}
	}
}

// Close closes the database when Badger opened it.
func (b *Badger) Close() error {
	if !b.owned {
		return nil
	}
	return b.db.Close()
}
