// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package services

import (
	"context"
	"fmt"
)

// Scheduler is a component with a Start/Stop lifecycle. It is satisfied by
// *maintenance.Scheduler.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService adapts a Start/Stop component to suture's Serve. A
// failed Start is returned so suture restarts it with backoff.
type SchedulerService struct {
	scheduler Scheduler
}

// NewSchedulerService wraps scheduler.
func NewSchedulerService(scheduler Scheduler) *SchedulerService {
	return &SchedulerService{scheduler: scheduler}
}

// Serve implements suture.Service.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("maintenance scheduler start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("maintenance scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *SchedulerService) String() string {
	return "maintenance-scheduler"
}
