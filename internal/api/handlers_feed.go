// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hablafeed/internal/adaptive"
	"github.com/tomtom215/hablafeed/internal/auth"
	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/metrics"
	"github.com/tomtom215/hablafeed/internal/models"
	"github.com/tomtom215/hablafeed/internal/validation"
)

// Metric labels for feed requests.
const (
	kindFeed = "feed"
	kindNext = "next"

	outcomeOK       = "ok"
	outcomeCached   = "cached"
	outcomeEmpty    = "empty"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// backendErrorLog throttles the error line for failing stores, which
// otherwise repeats on every request during an outage.
var backendErrorLog = rate.Sometimes{First: 3, Interval: 10 * time.Second}

// UserFeed handles GET /api/v1/users/{userID}/feed.
func (h *Handler) UserFeed(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, chi.URLParam(r, "userID"))
}

// UserFeedNext handles GET /api/v1/users/{userID}/feed/next.
func (h *Handler) UserFeedNext(w http.ResponseWriter, r *http.Request) {
	h.serveNext(w, r, chi.URLParam(r, "userID"))
}

// MyFeed handles GET /api/v1/me/feed for the authenticated learner.
func (h *Handler) MyFeed(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, subjectID(r))
}

// MyFeedNext handles GET /api/v1/me/feed/next for the authenticated learner.
func (h *Handler) MyFeedNext(w http.ResponseWriter, r *http.Request) {
	h.serveNext(w, r, subjectID(r))
}

// InvalidateFeedCache handles DELETE /api/v1/users/{userID}/feed/cache.
func (h *Handler) InvalidateFeedCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	if err := validation.ValidateStruct(&struct {
		UserID string `query:"user_id" validate:"required,identifier"`
	}{userID}); err != nil {
		respondValidationError(w, r, err)
		return
	}

	result := models.CacheInvalidation{UserID: userID}
	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context(), userID); err != nil {
			logBackendError(r, err, "feed cache invalidation failed")
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "feed cache unavailable", nil)
			return
		}
		result.Invalidated = true
	}
	respondJSON(w, r, http.StatusOK, result, start, false)
}

func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request, userID string) {
	start := time.Now()

	fq, err := parseFeedQuery(r, userID)
	if err != nil {
		metrics.RecordFeedRequest(kindFeed, outcomeInvalid, time.Since(start))
		respondValidationError(w, r, err)
		return
	}

	res, err := h.feed.GetAdaptiveFeed(r.Context(), fq.options(r))
	if err != nil {
		h.respondFeedError(w, r, kindFeed, err, start)
		return
	}

	outcome := outcomeOK
	switch {
	case res.FromCache:
		outcome = outcomeCached
	case len(res.Items) == 0:
		outcome = outcomeEmpty
	}
	metrics.RecordFeedRequest(kindFeed, outcome, time.Since(start))
	respondJSON(w, r, http.StatusOK, res, start, res.FromCache)
}

// serveNext answers 200 with a null data field when nothing qualifies.
func (h *Handler) serveNext(w http.ResponseWriter, r *http.Request, userID string) {
	start := time.Now()

	fq, err := parseFeedQuery(r, userID)
	if err != nil {
		metrics.RecordFeedRequest(kindNext, outcomeInvalid, time.Since(start))
		respondValidationError(w, r, err)
		return
	}

	item, err := h.feed.GetAdaptiveNext(r.Context(), fq.options(r))
	if err != nil {
		h.respondFeedError(w, r, kindNext, err, start)
		return
	}

	outcome := outcomeOK
	if item == nil {
		outcome = outcomeEmpty
	}
	metrics.RecordFeedRequest(kindNext, outcome, time.Since(start))
	respondJSON(w, r, http.StatusOK, item, start, false)
}

// respondFeedError maps sequencer errors: invalid argument to 400, unknown
// learner to 404, anything else to 503.
func (h *Handler) respondFeedError(w http.ResponseWriter, r *http.Request, kind string, err error, start time.Time) {
	var opErr *adaptive.OpError
	switch {
	case errors.Is(err, adaptive.ErrInvalidArgument):
		metrics.RecordFeedRequest(kind, outcomeInvalid, time.Since(start))
		var details map[string]interface{}
		if errors.As(err, &opErr) && opErr.Field != "" {
			details = map[string]interface{}{"field": opErr.Field}
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), details)
	case errors.Is(err, adaptive.ErrNotFound):
		metrics.RecordFeedRequest(kind, outcomeNotFound, time.Since(start))
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "learner not found", nil)
	default:
		metrics.RecordFeedRequest(kind, outcomeError, time.Since(start))
		logBackendError(r, err, "feed computation failed")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "feed temporarily unavailable", nil)
	}
}

func respondValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondError(w, r, http.StatusBadRequest, validation.ErrorCode, verr.Error(), verr.Details())
		return
	}
	respondError(w, r, http.StatusBadRequest, validation.ErrorCode, err.Error(), nil)
}

func logBackendError(r *http.Request, err error, msg string) {
	backendErrorLog.Do(func() {
		logging.Ctx(r.Context()).Error().Err(err).Msg(msg)
	})
}

func subjectID(r *http.Request) string {
	if s := auth.SubjectFromContext(r.Context()); s != nil {
		return s.ID
	}
	return ""
}
