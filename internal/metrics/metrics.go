// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Feed Metrics
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of adaptive feed requests",
		},
		[]string{"kind", "outcome"}, // kind: "feed", "next"; outcome: "ok", "empty", "cached", "invalid", "not_found", "error"
	)

	FeedRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_request_duration_seconds",
			Help:    "Adaptive feed computation time in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	FeedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_candidates",
			Help:    "Candidates returned by the catalog per feed request",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 150, 200, 250},
		},
	)

	FeedScoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_scored_total",
			Help: "Candidates scored, by whether they cleared the score floor",
		},
		[]string{"result"}, // "kept", "dropped"
	)

	FeedPreferenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_preference_writes_total",
			Help: "Preference upserts issued by the sequencer",
		},
		[]string{"result"},
	)

	// Feed Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Feed cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	CacheWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_writes_total",
			Help: "Feed cache writes",
		},
		[]string{"result"},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_cache_operation_duration_seconds",
			Help:    "Feed cache backend operation latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"backend", "operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"scope"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failures seen by the circuit breaker",
		},
		[]string{"name"},
	)

	// Maintenance Metrics
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_runs_total",
			Help: "Scheduled maintenance task runs",
		},
		[]string{"task", "result"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordFeedRequest records the outcome and latency of one feed computation.
func RecordFeedRequest(kind, outcome string, duration time.Duration) {
	FeedRequestsTotal.WithLabelValues(kind, outcome).Inc()
	FeedRequestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCacheOperation records a cache backend call.
func RecordCacheOperation(backend, operation string, duration time.Duration) {
	CacheOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordMaintenance records one maintenance task run.
func RecordMaintenance(task string, err error) {
	MaintenanceRuns.WithLabelValues(task, result(err)).Inc()
}

// RecordRateLimitHit counts a request rejected by the rate limiter for scope.
func RecordRateLimitHit(scope string) {
	APIRateLimitHits.WithLabelValues(scope).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// FeedRecorder reports sequencer measurements to Prometheus.
type FeedRecorder struct{}

// CacheLookup counts a feed cache hit or miss.
func (FeedRecorder) CacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// CacheWrite counts a feed cache write.
func (FeedRecorder) CacheWrite(err error) {
	CacheWrites.WithLabelValues(result(err)).Inc()
}

// Candidates observes the candidate pool size.
func (FeedRecorder) Candidates(n int) {
	FeedCandidates.Observe(float64(n))
}

// Scored counts candidates kept and dropped by the score floor.
func (FeedRecorder) Scored(kept, dropped int) {
	FeedScoredTotal.WithLabelValues("kept").Add(float64(kept))
	FeedScoredTotal.WithLabelValues("dropped").Add(float64(dropped))
}

// PreferenceWrite counts a preference upsert.
func (FeedRecorder) PreferenceWrite(err error) {
	FeedPreferenceWrites.WithLabelValues(result(err)).Inc()
}
