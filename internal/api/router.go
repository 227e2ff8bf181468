// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/hablafeed/internal/middleware"
)

// RouterConfig wires the router. Authenticate and Authorize are nil when
// authentication is disabled; the /me routes are then not mounted.
type RouterConfig struct {
	Middleware     *MiddlewareConfig
	RequestTimeout time.Duration
	Authenticate   func(http.Handler) http.Handler
	Authorize      func(http.Handler) http.Handler
}

// Router assembles the chi route tree.
type Router struct {
	handler *Handler
	config  RouterConfig
	chi     *ChiMiddleware
}

// NewRouter creates a Router serving handler.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	if cfg.Middleware == nil {
		cfg.Middleware = &MiddlewareConfig{CORSAllowedOrigins: []string{"*"}, RateLimitDisabled: true}
	}
	return &Router{handler: handler, config: cfg, chi: NewChiMiddleware(cfg.Middleware)}
}

// Setup returns the root http.Handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chi.CORS())

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chi.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chi.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)
		if router.config.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(router.config.RequestTimeout))
		}
		if router.config.Authenticate != nil {
			r.Use(router.config.Authenticate)
		}
		if router.config.Authorize != nil {
			r.Use(router.config.Authorize)
		}

		r.Route("/users/{userID}/feed", func(r chi.Router) {
			r.Get("/", router.handler.UserFeed)
			r.Get("/next", router.handler.UserFeedNext)
			r.Delete("/cache", router.handler.InvalidateFeedCache)
		})

		if router.config.Authenticate != nil {
			r.Get("/me/feed", router.handler.MyFeed)
			r.Get("/me/feed/next", router.handler.MyFeedNext)
		}
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
