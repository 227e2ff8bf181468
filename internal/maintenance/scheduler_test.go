// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package maintenance

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/metrics"
)

func noop(context.Context) error { return nil }

func TestNewScheduler_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tasks []Task
	}{
		{"missing name", []Task{{Interval: time.Minute, Run: noop}}},
		{"missing run", []Task{{Name: "a", Interval: time.Minute}}},
		{"zero interval", []Task{{Name: "a", Run: noop}}},
		{"duplicate", []Task{
			{Name: "a", Interval: time.Minute, Run: noop},
			{Name: "a", Interval: time.Hour, Run: noop},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewScheduler(logging.NewTestLogger(io.Discard), tt.tasks...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestScheduler_RunNow(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	var calls int32
	sched, err := NewScheduler(logging.NewTestLogger(io.Discard),
		Task{Name: "runnow_ok", Interval: time.Hour, Run: func(context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}},
		Task{Name: "runnow_fail", Interval: time.Hour, Run: func(context.Context) error { return boom }},
	)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	if got := sched.Tasks(); len(got) != 2 || got[0] != "runnow_ok" || got[1] != "runnow_fail" {
		t.Errorf("Tasks() = %v", got)
	}

	okBefore := testutil.ToFloat64(metrics.MaintenanceRuns.WithLabelValues("runnow_ok", "success"))
	if err := sched.RunNow(context.Background(), "runnow_ok"); err != nil {
		t.Errorf("RunNow(ok) = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if d := testutil.ToFloat64(metrics.MaintenanceRuns.WithLabelValues("runnow_ok", "success")) - okBefore; d != 1 {
		t.Errorf("success delta = %f, want 1", d)
	}

	failBefore := testutil.ToFloat64(metrics.MaintenanceRuns.WithLabelValues("runnow_fail", "error"))
	if err := sched.RunNow(context.Background(), "runnow_fail"); !errors.Is(err, boom) {
		t.Errorf("RunNow(fail) = %v, want %v", err, boom)
	}
	if d := testutil.ToFloat64(metrics.MaintenanceRuns.WithLabelValues("runnow_fail", "error")) - failBefore; d != 1 {
		t.Errorf("error delta = %f, want 1", d)
	}

	if err := sched.RunNow(context.Background(), "missing"); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("RunNow(missing) = %v, want ErrUnknownTask", err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 1)
	sched, err := NewScheduler(logging.NewTestLogger(io.Discard),
		Task{Name: "tick", Interval: 100 * time.Millisecond, Run: func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		}},
	)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !sched.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := sched.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run on schedule")
	}

	if err := sched.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if sched.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if err := sched.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

type fakeGC struct{ ratio float64 }

func (f *fakeGC) RunGC(ratio float64) error {
	f.ratio = ratio
	return nil
}

type fakeCheckpointer struct{ err error }

func (f fakeCheckpointer) Checkpoint(context.Context) error { return f.err }

func TestCacheGCTask(t *testing.T) {
	t.Parallel()

	gc := &fakeGC{}
	task := CacheGCTask(gc, time.Minute)
	if task.Name != TaskCacheGC || task.Interval != time.Minute {
		t.Errorf("task = %+v", task)
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gc.ratio != DefaultDiscardRatio {
		t.Errorf("discard ratio = %v, want %v", gc.ratio, DefaultDiscardRatio)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := task.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run(cancelled) = %v, want context.Canceled", err)
	}
}

func TestCheckpointTask(t *testing.T) {
	t.Parallel()

	want := errors.New("locked")
	task := CheckpointTask(fakeCheckpointer{err: want}, time.Hour)
	if task.Name != TaskCheckpoint {
		t.Errorf("Name = %q", task.Name)
	}
	if err := task.Run(context.Background()); !errors.Is(err, want) {
		t.Errorf("Run = %v, want %v", err, want)
	}
}
