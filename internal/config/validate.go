// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package config

import (
	"fmt"
	"slices"
	"strings"
)

// minJWTSecretLength is the shortest HS256 secret accepted.
const minJWTSecretLength = 32

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Maintenance.Enabled && c.Maintenance.GCInterval <= 0 {
		return fmt.Errorf("maintenance.gc_interval must be positive, got %v", c.Maintenance.GCInterval)
	}
	if err := c.Sequencer().Validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %v", c.Server.RequestTimeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("database.threads must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendNone:
	case CacheBackendBadger:
		if c.Cache.BadgerPath == "" {
			return fmt.Errorf("cache.badger_path is required for the badger backend")
		}
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("cache.redis_db must be non-negative, got %d", c.Cache.RedisDB)
		}
	default:
		return fmt.Errorf("cache.backend must be one of memory, badger, redis, none, got %q", c.Cache.Backend)
	}
	if c.Cache.BreakerFailures > 0 && c.Cache.BreakerTimeout <= 0 {
		return fmt.Errorf("cache.breaker_timeout must be positive when the breaker is enabled, got %v", c.Cache.BreakerTimeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case AuthModeNone:
	case AuthModeJWT:
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("security.jwt_secret must be at least %d characters in jwt mode", minJWTSecretLength)
		}
	default:
		return fmt.Errorf("security.auth_mode must be none or jwt, got %q", c.Security.AuthMode)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	if c.Server.Environment == "production" && slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("security.cors_origins must not contain * in production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be trace, debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
