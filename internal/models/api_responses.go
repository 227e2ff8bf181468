// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse wraps every JSON body the HTTP API returns.
//
//	{
//	  "status": "success",
//	  "data": {"items": [...], "total": 4, "from_cache": false, "context": {...}},
//	  "metadata": {"timestamp": "2026-03-02T09:00:00Z", "query_time_ms": 12, "cached": false}
//	}
//
// On failure Status is "error", Data is null and Error is set.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is the error payload of an APIResponse.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Checks        map[string]string `json:"checks"`
}

// CacheInvalidation is returned after a learner's cached feed is dropped.
type CacheInvalidation struct {
	UserID      string `json:"user_id"`
	Invalidated bool   `json:"invalidated"`
}
