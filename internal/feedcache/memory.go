// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	ids       []string
	expiresAt time.Time
}

// Memory is an in-process feed cache with per-entry expiry. Expired
// entries are dropped on read and by a periodic sweep.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a Memory cache that sweeps expired entries every
// cleanupInterval. A non-positive interval disables the sweep.
func NewMemory(cleanupInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

// Get returns a copy of the cached ids for userID.
func (m *Memory) Get(_ context.Context, userID string) ([]string, bool, error) {
	defer observe(BackendMemory, "get", time.Now())

	key := cacheKey(userID)
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if cur, still := m.entries[key]; still && !m.now().Before(cur.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	return append([]string{}, entry.ids...), true, nil
}

// Set stores a copy of ids for ttl.
func (m *Memory) Set(_ context.Context, userID string, ids []string, ttl time.Duration) error {
	defer observe(BackendMemory, "set", time.Now())

	m.mu.Lock()
	m.entries[cacheKey(userID)] = memoryEntry{
		ids:       append([]string{}, ids...),
		expiresAt: m.now().Add(ttl),
	}
	m.mu.Unlock()
	return nil
}

// Invalidate drops the entry for userID.
func (m *Memory) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.entries, cacheKey(userID))
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close stops the sweep goroutine.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

// cleanup removes all expired entries and returns how many it removed.
func (m *Memory) cleanup() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}
