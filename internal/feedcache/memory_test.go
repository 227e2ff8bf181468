// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	defer m.Close()
	ctx := context.Background()

	if _, ok, err := m.Get(ctx, "u1"); ok || err != nil {
		t.Fatalf("empty cache Get = ok %v, err %v", ok, err)
	}

	ids := []string{"c3", "c1", "c2"}
	if err := m.Set(ctx, "u1", ids, time.Minute); err != nil {
		t.Fatal(err)
	}
	ids[0] = "mutated"

	got, ok, err := m.Get(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if len(got) != 3 || got[0] != "c3" || got[2] != "c2" {
		t.Errorf("Get = %v, want stored order [c3 c1 c2]", got)
	}

	got[1] = "mutated"
	again, _, _ := m.Get(ctx, "u1")
	if again[1] != "c1" {
		t.Error("Get must return a copy")
	}
}

func TestMemory_EmptyListIsAHit(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	ctx := context.Background()

	if err := m.Set(ctx, "u1", nil, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.Get(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v; an empty list is still stored", ok, err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Get = %#v, want empty non-nil slice", got)
	}
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m := NewMemory(0)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "u1", []string{"c1"}, 30*time.Minute)
	_ = m.Set(ctx, "u2", []string{"c2"}, time.Hour)

	now = now.Add(29 * time.Minute)
	if _, ok, _ := m.Get(ctx, "u1"); !ok {
		t.Error("entry should live until its TTL")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := m.Get(ctx, "u1"); ok {
		t.Error("entry should expire at its TTL")
	}
	if m.Len() != 1 {
		t.Errorf("expired entry should be removed on read, Len = %d", m.Len())
	}

	now = now.Add(time.Hour)
	if removed := m.cleanup(); removed != 1 {
		t.Errorf("cleanup removed %d, want 1", removed)
	}
	if m.Len() != 0 {
		t.Errorf("Len after cleanup = %d", m.Len())
	}
}

func TestMemory_Invalidate(t *testing.T) {
	t.Parallel()

	m := NewMemory(0)
	ctx := context.Background()

	_ = m.Set(ctx, "u1", []string{"c1"}, time.Minute)
	if err := m.Invalidate(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, "u1"); ok {
		t.Error("invalidated entry should be gone")
	}
	if err := m.Invalidate(ctx, "never-set"); err != nil {
		t.Errorf("invalidating a missing entry should succeed, got %v", err)
	}
}

func TestMemory_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Millisecond)
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestMemory_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Millisecond)
	defer m.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", i%4)
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, user, []string{fmt.Sprint(j)}, time.Minute)
				_, _, _ = m.Get(ctx, user)
				if j%10 == 0 {
					_ = m.Invalidate(ctx, user)
				}
			}
		}(i)
	}
	wg.Wait()
}
