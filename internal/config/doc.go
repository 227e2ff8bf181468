// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package config loads Hablafeed configuration with Koanf v2.

Sources, lowest priority first:

 1. Struct defaults (defaultConfig)
 2. YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or /etc/hablafeed/config.yaml
 3. Environment variables, including those read from ./.env

Environment variables map to config paths through an explicit table, so
unrelated variables never leak into the configuration:

	HTTP_PORT=8080              -> server.port
	DUCKDB_PATH=/data/h.duckdb  -> database.path
	FEED_CACHE_BACKEND=redis    -> cache.backend
	REDIS_ADDR=redis:6379       -> cache.redis_addr
	FEED_SCORE_FLOOR=0.3        -> feed.score_floor
	AUTH_MODE=jwt               -> security.auth_mode
	CORS_ORIGINS=a.com,b.com    -> security.cors_origins
	LOG_LEVEL=debug             -> logging.level

Example file:

	server:
	  port: 8080
	cache:
	  backend: badger
	  badger_path: /data/feedcache
	  ttl: 30m
	feed:
	  default_limit: 10
	  score_floor: 0.25

Load validates the result; Sequencer derives the adaptive.Config handed to
the feed sequencer.
*/
package config
