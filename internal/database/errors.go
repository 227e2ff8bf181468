// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package database

import (
	"io"
	"time"

	"github.com/tomtom215/hablafeed/internal/metrics"
)

// closeQuietly closes a resource on an error path where the close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

func recordQuery(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// nullable unwraps an optional value into a bind argument, nil for NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
