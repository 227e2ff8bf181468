// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package feedcache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/metrics"
)

// BreakerSettings configures NewBreaker.
type BreakerSettings struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// Failures is the number of consecutive failures that opens the circuit.
	Failures uint32

	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

type lookup struct {
	ids []string
	ok  bool
}

// Breaker wraps a Store with a circuit breaker. While the circuit is open,
// calls fail fast with gobreaker.ErrOpenState instead of waiting on a dead
// backend. Backend errors are still returned to the caller.
type Breaker struct {
	next Store
	name string
	cb   *gobreaker.CircuitBreaker[lookup]
}

// NewBreaker wraps next.
func NewBreaker(next Store, s BreakerSettings) *Breaker {
	if s.Name == "" {
		s.Name = "feed-cache"
	}
	if s.Failures == 0 {
		s.Failures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	failures := s.Failures

	b := &Breaker{next: next, name: s.Name}
	b.cb = gobreaker.NewCircuitBreaker[lookup](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", stateToString(from)).
				Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})
	return b
}

func (b *Breaker) execute(fn func() (lookup, error)) (lookup, error) {
	res, err := b.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	}
	return res, err
}

// Get implements adaptive.FeedCache.
func (b *Breaker) Get(ctx context.Context, userID string) ([]string, bool, error) {
	res, err := b.execute(func() (lookup, error) {
		ids, ok, err := b.next.Get(ctx, userID)
		return lookup{ids: ids, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	return res.ids, res.ok, nil
}

// Set implements adaptive.FeedCache.
func (b *Breaker) Set(ctx context.Context, userID string, ids []string, ttl time.Duration) error {
	_, err := b.execute(func() (lookup, error) {
		return lookup{}, b.next.Set(ctx, userID, ids, ttl)
	})
	return err
}

// Invalidate implements Store.
func (b *Breaker) Invalidate(ctx context.Context, userID string) error {
	_, err := b.execute(func() (lookup, error) {
		return lookup{}, b.next.Invalidate(ctx, userID)
	})
	return err
}

// State returns the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Unwrap returns the wrapped store.
func (b *Breaker) Unwrap() Store {
	return b.next
}

// Close closes the wrapped store.
func (b *Breaker) Close() error {
	return b.next.Close()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
