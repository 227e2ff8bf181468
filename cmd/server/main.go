// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/hablafeed/internal/adaptive"
	"github.com/tomtom215/hablafeed/internal/api"
	"github.com/tomtom215/hablafeed/internal/auth"
	"github.com/tomtom215/hablafeed/internal/authz"
	"github.com/tomtom215/hablafeed/internal/config"
	"github.com/tomtom215/hablafeed/internal/database"
	"github.com/tomtom215/hablafeed/internal/feedcache"
	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/maintenance"
	"github.com/tomtom215/hablafeed/internal/metrics"
	"github.com/tomtom215/hablafeed/internal/supervisor"
	"github.com/tomtom215/hablafeed/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	api.SwaggerInfo.Version = version

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Hablafeed")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Bool("demo_data", cfg.Database.SeedDemoData).Msg("Database initialized")

	store, err := feedcache.New(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Err(err).Msg("Error closing feed cache")
			}
		}()
	}

	deps := adaptive.Deps{
		Users:       db,
		Knowledge:   db,
		Catalog:     db,
		Preferences: db,
		Recorder:    metrics.FeedRecorder{},
	}
	if store != nil {
		deps.Cache = store
	}
	sequencer, err := adaptive.NewSequencer(cfg.Sequencer(), deps, logging.WithComponent("sequencer"))
	if err != nil {
		return err
	}

	handler := api.NewHandler(api.HandlerDeps{
		Feed:    sequencer,
		Cache:   invalidator(store),
		Checks:  healthChecks(db, store),
		Version: version,
	})

	routerCfg, err := routerConfig(cfg)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, routerCfg).Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: shutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))

	if cfg.Maintenance.Enabled {
		sched, err := maintenance.NewScheduler(logging.Logger(), maintenanceTasks(cfg, db, store)...)
		if err != nil {
			return err
		}
		tree.AddStorageService(services.NewSchedulerService(sched))
	}

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func routerConfig(cfg *config.Config) (api.RouterConfig, error) {
	rc := api.RouterConfig{
		Middleware: &api.MiddlewareConfig{
			CORSAllowedOrigins: cfg.Security.CORSOrigins,
			RateLimitRequests:  cfg.Security.RateLimitReqs,
			RateLimitWindow:    cfg.Security.RateLimitWindow,
			RateLimitDisabled:  cfg.Security.RateLimitDisabled,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
	}

	if cfg.Security.AuthMode != config.AuthModeJWT {
		logging.Warn().Msg("Authentication is disabled (AUTH_MODE=none); use only on trusted networks")
		return rc, nil
	}

	jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTIssuer)
	if err != nil {
		return rc, err
	}
	enforcer, err := authz.NewEnforcer(cfg.Security.PolicyPath)
	if err != nil {
		return rc, err
	}
	rc.Authenticate = auth.NewMiddleware(jwtManager).Authenticate
	rc.Authorize = authz.NewMiddleware(enforcer).Authorize
	logging.Info().Str("policy", policyName(cfg.Security.PolicyPath)).Msg("JWT authentication enabled")
	return rc, nil
}

func policyName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func invalidator(store feedcache.Store) api.CacheInvalidator {
	if store == nil {
		return nil
	}
	return store
}

func healthChecks(db *database.DB, store feedcache.Store) map[string]api.Pinger {
	checks := map[string]api.Pinger{"database": db}
	inner := store
	if br, ok := store.(*feedcache.Breaker); ok {
		inner = br.Unwrap()
	}
	if p, ok := inner.(api.Pinger); ok {
		checks["feed_cache"] = p
	}
	return checks
}

func maintenanceTasks(cfg *config.Config, db *database.DB, store feedcache.Store) []maintenance.Task {
	interval := cfg.Maintenance.GCInterval
	tasks := []maintenance.Task{maintenance.CheckpointTask(db, interval)}
	if b, ok := feedcache.AsBadger(store); ok {
		tasks = append(tasks, maintenance.CacheGCTask(b, interval))
	}
	return tasks
}
