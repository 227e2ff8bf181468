// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package auth

import (
	"context"
	"slices"
)

// Roles understood by the authorization policy.
const (
	RoleLearner = "learner"
	RoleAdmin   = "admin"
)

// Subject is the authenticated caller.
type Subject struct {
	ID    string
	Roles []string
}

// HasRole reports whether s carries role.
func (s *Subject) HasRole(role string) bool {
	return s != nil && slices.Contains(s.Roles, role)
}

type contextKey string

const subjectKey contextKey = "auth_subject"

// ContextWithSubject stores s in ctx.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectKey, s)
}

// SubjectFromContext returns the authenticated caller, or nil.
func SubjectFromContext(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectKey).(*Subject)
	return s
}

func subjectFromClaims(c *Claims) *Subject {
	roles := c.Roles
	if len(roles) == 0 {
		roles = []string{RoleLearner}
	}
	return &Subject{ID: c.Subject, Roles: roles}
}
