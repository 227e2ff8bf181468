// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/models"
)

// Error codes returned in models.APIError.Code.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time, cached bool) {
	writeEnvelope(w, status, models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	writeEnvelope(w, status, models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: code, Message: message, Details: details},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("Failed to encode JSON response")
	}
}
