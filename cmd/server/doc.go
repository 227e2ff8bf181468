// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package main is the entry point for the Hablafeed server.

Hablafeed serves each learner a ranked feed of Spanish content chosen for
their level, their known vocabulary and the feedback they give on what
they just watched.

# Process Layout

	hablafeed (root supervisor)
	├── storage-layer
	│   └── maintenance-scheduler   DuckDB CHECKPOINT, badger value log GC
	└── api-layer
	    └── http-server             chi router, /api/v1, /health, /metrics

Startup order:

 1. Configuration: defaults, optional YAML file, .env, environment (koanf v2)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB schema, optional demo catalog
 4. Feed cache: memory, badger or redis, behind a circuit breaker
 5. Sequencer: adaptive feed ranking over the database and the cache
 6. Authentication: JWT plus casbin policy when AUTH_MODE=jwt
 7. Supervisor tree: HTTP server and maintenance scheduler

# Configuration

	HTTP_PORT=8080
	DUCKDB_PATH=/data/hablafeed.duckdb
	SEED_DEMO_DATA=false

	FEED_CACHE_BACKEND=memory     # memory, badger, redis or none
	FEED_CACHE_TTL=30m
	REDIS_ADDR=127.0.0.1:6379
	BADGER_PATH=/data/feedcache

	AUTH_MODE=none                # none or jwt
	JWT_SECRET=<32+ chars>
	AUTHZ_POLICY_PATH=            # empty uses the embedded policy

	LOG_LEVEL=info
	LOG_FORMAT=json

CONFIG_PATH points at a YAML file with the same keys in nested form.

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to 10 seconds, the scheduler waits for a running
task, and the feed cache and database are closed last.

# Example

	export SEED_DEMO_DATA=true
	export DUCKDB_PATH=:memory:
	./hablafeed
	curl 'http://localhost:8080/api/v1/users/demo-learner/feed?limit=5'
*/
package main
