// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package authz

import (
	"net/http"

	"github.com/tomtom215/hablafeed/internal/auth"
	"github.com/tomtom215/hablafeed/internal/logging"
)

// Middleware enforces the policy for authenticated requests.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a Middleware for enforcer.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Authorize must run after auth.Middleware.Authenticate. It answers 403 when
// the policy denies the request.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := auth.SubjectFromContext(r.Context())
		if subject == nil {
			http.Error(w, "Forbidden: no authentication context", http.StatusForbidden)
			return
		}

		allowed, err := m.enforcer.Allowed(subject.ID, subject.Roles, r.URL.Path, r.Method)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if !allowed {
			logging.Ctx(r.Context()).Warn().
				Strs("roles", subject.Roles).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("Access denied")
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
