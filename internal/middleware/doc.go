// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package middleware provides chi-compatible HTTP middleware shared by all routes.

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge per route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
*/
package middleware
