// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

// Package authz decides which authenticated callers may reach which feed
// routes, using a Casbin RBAC model.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// usersPrefix is the path prefix whose next segment is a learner id.
const usersPrefix = "/api/v1/users/"

// Relation of the learner in the path to the caller.
const (
	relationSelf  = "self"
	relationOther = "other"
)

// Enforcer evaluates the policy. It is safe for concurrent use.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer loads the policy from policyPath, or the embedded policy when
// policyPath is empty.
func NewEnforcer(policyPath string) (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var e *casbin.SyncedEnforcer
	if policyPath != "" {
		if _, statErr := os.Stat(policyPath); statErr != nil {
			return nil, fmt.Errorf("policy file: %w", statErr)
		}
		e, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	} else {
		e, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadPolicy(e, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{enforcer: e}, nil
}

func loadPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case parts[0] == "g" && len(parts) == 3:
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Allowed reports whether any of roles may perform method on path for the
// caller subjectID.
func (e *Enforcer) Allowed(subjectID string, roles []string, path, method string) (bool, error) {
	obj := Object(path, subjectID)
	for _, role := range roles {
		ok, err := e.enforcer.Enforce(role, obj, method)
		if err != nil {
			return false, fmt.Errorf("enforcement failed: %w", err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Object maps a request path to the policy object. The learner id segment of
// /api/v1/users/<id>/... becomes "self" when it names the caller and "other"
// otherwise.
func Object(path, subjectID string) string {
	rest, ok := strings.CutPrefix(path, usersPrefix)
	if !ok {
		return path
	}
	id, tail, _ := strings.Cut(rest, "/")
	relation := relationOther
	if id == subjectID {
		relation = relationSelf
	}
	return usersPrefix + relation + "/" + tail
}
