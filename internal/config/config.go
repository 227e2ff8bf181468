// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/hablafeed/internal/adaptive"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Auth modes.
const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Cache       CacheConfig       `koanf:"cache"`
	Feed        FeedConfig        `koanf:"feed"`
	Security    SecurityConfig    `koanf:"security"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	RequestTimeout time.Duration `koanf:"request_timeout"` // per-request context deadline
	Environment    string        `koanf:"environment"`     // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path         string `koanf:"path"` // ":memory:" for an ephemeral database
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"` // 0 = DuckDB default
	SeedDemoData bool   `koanf:"seed_demo_data"`
}

// CacheConfig selects and tunes the feed cache backend.
type CacheConfig struct {
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	BadgerPath string `koanf:"badger_path"`

	// Circuit breaker around the backend. Zero BreakerFailures disables it.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// FeedConfig holds the sequencer tunables exposed to operators.
type FeedConfig struct {
	DefaultLimit        int     `koanf:"default_limit"`
	MaxLimit            int     `koanf:"max_limit"`
	CandidateLimit      int     `koanf:"candidate_limit"`
	CacheSize           int     `koanf:"cache_size"`
	ScoreFloor          float64 `koanf:"score_floor"`
	PreferredDifficulty float64 `koanf:"preferred_difficulty"`
	FeedbackLogCap      int     `koanf:"feedback_log_cap"`
}

// SecurityConfig holds authentication and HTTP protection settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	PolicyPath        string        `koanf:"policy_path"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// MaintenanceConfig schedules housekeeping of embedded stores.
type MaintenanceConfig struct {
	Enabled    bool          `koanf:"enabled"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file and line in every entry.
	Caller bool `koanf:"caller"`
}

// Sequencer returns the sequencer configuration derived from the feed
// and cache sections.
func (c *Config) Sequencer() *adaptive.Config {
	sc := adaptive.DefaultConfig()
	sc.DefaultLimit = c.Feed.DefaultLimit
	sc.MaxLimit = c.Feed.MaxLimit
	sc.CandidateLimit = c.Feed.CandidateLimit
	sc.CacheSize = c.Feed.CacheSize
	sc.ScoreFloor = c.Feed.ScoreFloor
	sc.PreferredDifficulty = c.Feed.PreferredDifficulty
	sc.FeedbackLogCap = c.Feed.FeedbackLogCap
	sc.CacheTTL = c.Cache.TTL
	return sc
}
