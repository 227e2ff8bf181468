// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package maintenance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hablafeed/internal/metrics"
)

// ErrUnknownTask is returned by RunNow for a name that was never registered.
var ErrUnknownTask = errors.New("unknown maintenance task")

// Task is one periodic housekeeping job.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs Tasks on their intervals. A task never overlaps itself.
type Scheduler struct {
	cron   *gocron.Scheduler
	tasks  map[string]Task
	order  []string
	logger zerolog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewScheduler validates tasks and returns a stopped scheduler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewScheduler(logger zerolog.Logger, tasks ...Task) (*Scheduler, error) {
	s := &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		tasks:  make(map[string]Task, len(tasks)),
		logger: logger.With().Str("component", "maintenance").Logger(),
	}
	s.cron.SingletonModeAll()
	s.cron.WaitForScheduleAll()

	for _, task := range tasks {
		if task.Name == "" || task.Run == nil {
			return nil, errors.New("maintenance task requires a name and a run function")
		}
		if task.Interval <= 0 {
			return nil, fmt.Errorf("maintenance task %q: interval must be positive, got %v", task.Name, task.Interval)
		}
		if _, dup := s.tasks[task.Name]; dup {
			return nil, fmt.Errorf("maintenance task %q registered twice", task.Name)
		}
		s.tasks[task.Name] = task
		s.order = append(s.order, task.Name)
	}
	return s, nil
}

// Tasks returns the registered task names in registration order.
func (s *Scheduler) Tasks() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Start registers every task with the cron scheduler and starts it in the
// background. Runs are bound to ctx; cancelling it aborts in-flight tasks.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("maintenance scheduler already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cron.Clear()
	for _, name := range s.order {
		task := s.tasks[name]
		if _, err := s.cron.Every(task.Interval).Tag(task.Name).Do(func() {
			_ = s.execute(runCtx, task)
		}); err != nil {
			cancel()
			return fmt.Errorf("schedule %s: %w", task.Name, err)
		}
	}

	s.cron.StartAsync()
	s.cancel = cancel
	s.running = true
	s.logger.Info().Int("tasks", len(s.order)).Msg("Maintenance scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running tasks to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.cancel()
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Maintenance scheduler stopped")
	return nil
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow executes the named task synchronously, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	task, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return s.execute(ctx, task)
}

func (s *Scheduler) execute(ctx context.Context, task Task) error {
	start := time.Now()
	err := task.Run(ctx)
	metrics.RecordMaintenance(task.Name, err)

	if err != nil {
		s.logger.Warn().Err(err).Str("task", task.Name).Msg("Maintenance task failed")
		return err
	}
	s.logger.Debug().Str("task", task.Name).Dur("duration", time.Since(start)).Msg("Maintenance task completed")
	return nil
}
