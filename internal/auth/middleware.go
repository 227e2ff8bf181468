// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/models"
)

// Middleware authenticates bearer tokens.
type Middleware struct {
	jwt *JWTManager
}

// NewMiddleware creates a Middleware validating tokens with jwtManager.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwt: jwtManager}
}

// Authenticate rejects requests without a valid "Authorization: Bearer"
// token with 401. Accepted requests carry the Subject and the learner id
// in their context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeAuthError(w, r, "missing bearer token")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("rejected bearer token")
			writeAuthError(w, r, "invalid or expired token")
			return
		}

		subject := subjectFromClaims(claims)
		ctx := ContextWithSubject(r.Context(), subject)
		ctx = logging.ContextWithUserID(ctx, subject.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", `Bearer realm="hablafeed"`)
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status: models.StatusError,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: "UNAUTHORIZED", Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Err(err).Msg("Failed to encode auth error")
	}
}
