// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package api exposes the adaptive feed over HTTP with a chi router.

Routes:

	GET    /api/v1/users/{userID}/feed         feed page
	GET    /api/v1/users/{userID}/feed/next    single best next item
	DELETE /api/v1/users/{userID}/feed/cache   drop the cached ranking
	GET    /api/v1/me/feed                     feed page of the token subject (jwt mode)
	GET    /api/v1/me/feed/next                next item of the token subject (jwt mode)
	GET    /health, /health/live, /health/ready
	GET    /metrics                            Prometheus exposition
	GET    /swagger/*                          Swagger UI

Feed query parameters: limit, offset, feedback (too_easy, too_hard, perfect),
current (content id just finished), exclude (repeatable or comma separated),
cache (default true) and explain (default false).

Every JSON body is a models.APIResponse. Sequencer errors map to HTTP status
codes as follows: invalid argument 400, unknown learner 404, anything else 503.
*/
package api
