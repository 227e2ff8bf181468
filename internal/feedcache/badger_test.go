// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadger(t *testing.T) (*Badger, *badger.DB) {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerFromDB(db), db
}

func TestBadger_SetGet(t *testing.T) {
	t.Parallel()

	b, _ := newTestBadger(t)
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "u1"); ok || err != nil {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}

	if err := b.Set(ctx, "u1", []string{"c2", "c1"}, time.Hour); err != nil {
		t.Fatal(err)
	}
	got, ok, err := b.Get(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if len(got) != 2 || got[0] != "c2" || got[1] != "c1" {
		t.Errorf("Get = %v, want [c2 c1]", got)
	}
}

func TestBadger_EntryCarriesTTL(t *testing.T) {
	t.Parallel()

	b, db := newTestBadger(t)
	ctx := context.Background()

	before := uint64(time.Now().Unix())
	if err := b.Set(ctx, "u1", []string{"c1"}, 30*time.Minute); err != nil {
		t.Fatal(err)
	}

	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKey("u1")))
		if err != nil {
			return err
		}
		exp := item.ExpiresAt()
		if exp < before+29*60 || exp > before+31*60 {
			t.Errorf("ExpiresAt = %d, want about now+30m (%d)", exp, before+30*60)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBadger_Invalidate(t *testing.T) {
	t.Parallel()

	b, _ := newTestBadger(t)
	ctx := context.Background()

	_ = b.Set(ctx, "u1", []string{"c1"}, time.Hour)
	if err := b.Invalidate(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.Get(ctx, "u1"); ok {
		t.Error("entry should be deleted")
	}
}

func TestBadger_RunGCInMemory(t *testing.T) {
	t.Parallel()

	b, _ := newTestBadger(t)
	if err := b.RunGC(0.5); err != nil {
		t.Errorf("RunGC on an in-memory store should be a no-op, got %v", err)
	}
}

func TestBadger_CloseLeavesSharedDBOpen(t *testing.T) {
	t.Parallel()

	b, db := newTestBadger(t)
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if db.IsClosed() {
		t.Error("Close must not close a database it did not open")
	}
}

func TestOpenBadger_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	b, err := OpenBadger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(ctx, "u1", []string{"c1"}, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenBadger(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "u1")
	if err != nil || !ok || len(got) != 1 {
		t.Errorf("entry should survive a restart, got %v ok=%v err=%v", got, ok, err)
	}
}
