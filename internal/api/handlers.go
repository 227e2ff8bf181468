// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"context"
	"time"

	"github.com/tomtom215/hablafeed/internal/adaptive"
)

// FeedService is the part of adaptive.Sequencer the handlers use.
type FeedService interface {
	GetAdaptiveFeed(ctx context.Context, opts adaptive.FeedOptions) (*adaptive.FeedResult, error)
	GetAdaptiveNext(ctx context.Context, opts adaptive.FeedOptions) (*adaptive.FeedItem, error)
}

// CacheInvalidator drops a learner's cached feed.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Pinger is a dependency reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// Handler serves the HTTP API.
type Handler struct {
	feed      FeedService
	cache     CacheInvalidator
	checks    map[string]Pinger
	version   string
	startTime time.Time
}

// HandlerDeps are the collaborators of a Handler. Cache and Checks are
// optional.
type HandlerDeps struct {
	Feed    FeedService
	Cache   CacheInvalidator
	Checks  map[string]Pinger
	Version string
}

// NewHandler creates a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		feed:      deps.Feed,
		cache:     deps.Cache,
		checks:    deps.Checks,
		version:   version,
		startTime: time.Now(),
	}
}
