// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/hablafeed/internal/models"
)

// healthCheckTimeout bounds each dependency ping.
const healthCheckTimeout = 2 * time.Second

// Health handles GET /health. It always answers 200; Status is "degraded"
// when a dependency check fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, healthy := h.runChecks(r.Context())

	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	respondJSON(w, r, http.StatusOK, models.HealthStatus{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Checks:        checks,
	}, start, false)
}

// HealthLive handles GET /health/live: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now(), false)
}

// HealthReady handles GET /health/ready: 503 until every dependency answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, healthy := h.runChecks(r.Context())
	if !healthy {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "not ready",
			map[string]interface{}{"checks": checks})
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"ready": true, "checks": checks}, start, false)
}

func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		err := h.checks[name].Ping(checkCtx)
		cancel()
		if err != nil {
			results[name] = "error: " + err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}
	return results, healthy
}
