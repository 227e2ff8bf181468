// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics by the API router:

	curl http://localhost:8080/metrics

# Available Metrics

Feed Metrics:
  - feed_requests_total: feed computations (counter). Labels: kind, outcome
  - feed_request_duration_seconds: computation latency (histogram). Labels: kind
  - feed_candidates: catalog candidates per request (histogram)
  - feed_scored_total: candidates kept or dropped by the score floor (counter)
  - feed_preference_writes_total: preference upserts (counter). Labels: result

Feed Cache Metrics:
  - feed_cache_lookups_total: lookups by result, hit or miss (counter)
  - feed_cache_writes_total: writes by result (counter)
  - feed_cache_operation_duration_seconds: backend latency (histogram). Labels: backend, operation
  - circuit_breaker_*: state, requests and transitions of the cache breaker

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total: rejections by scope, api or health (counter)

Database Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total

FeedRecorder adapts these collectors to the sequencer's Recorder interface.
*/
package metrics
