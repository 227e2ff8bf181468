// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hablafeed/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the values applied before the file and environment.
func defaultConfig() *Config {
	feed := FeedConfig{
		DefaultLimit:        10,
		MaxLimit:            100,
		CandidateLimit:      250,
		CacheSize:           50,
		ScoreFloor:          0.25,
		PreferredDifficulty: 0.96,
		FeedbackLogCap:      12,
	}
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 15 * time.Second,
			Environment:    "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/hablafeed.duckdb",
			MaxMemory: "1GB",
		},
		Cache: CacheConfig{
			Backend:         CacheBackendMemory,
			TTL:             1800 * time.Second,
			RedisAddr:       "127.0.0.1:6379",
			BadgerPath:      "/data/feedcache",
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Feed: feed,
		Security: SecurityConfig{
			AuthMode:        AuthModeNone,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Maintenance: MaintenanceConfig{
			Enabled:    true,
			GCInterval: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing priority. A .env file in the working
// directory is read into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
var envMappings = map[string]string{
	"http_host":         "server.host",
	"http_port":         "server.port",
	"http_timeout":      "server.write_timeout",
	"request_timeout":   "server.request_timeout",
	"environment":       "server.environment",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	"feed_cache_backend":          "cache.backend",
	"feed_cache_ttl":              "cache.ttl",
	"redis_addr":                  "cache.redis_addr",
	"redis_password":              "cache.redis_password",
	"redis_db":                    "cache.redis_db",
	"badger_path":                 "cache.badger_path",
	"feed_cache_breaker_failures": "cache.breaker_failures",
	"feed_cache_breaker_timeout":  "cache.breaker_timeout",

	"feed_default_limit":        "feed.default_limit",
	"feed_max_limit":            "feed.max_limit",
	"feed_candidate_limit":      "feed.candidate_limit",
	"feed_cache_size":           "feed.cache_size",
	"feed_score_floor":          "feed.score_floor",
	"feed_preferred_difficulty": "feed.preferred_difficulty",
	"feed_feedback_log_cap":     "feed.feedback_log_cap",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"authz_policy_path":   "security.policy_path",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"maintenance_enabled":     "maintenance.enabled",
	"maintenance_gc_interval": "maintenance.gc_interval",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
