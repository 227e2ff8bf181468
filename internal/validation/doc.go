// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package validation validates decoded HTTP requests with go-playground/validator.

A single validator instance is shared process-wide; it caches struct metadata
after the first use. Two custom tags are registered:

  - feedback: empty or one of too_easy, too_hard, perfect
  - identifier: a learner or content id, 1-128 characters of [A-Za-z0-9_.:-]

Field names in messages come from the `query` struct tag, so a failure on

	type feedQuery struct {
	    Limit int `query:"limit" validate:"gte=0,lte=100"`
	}

reads "limit must be less than or equal to 100".
*/
package validation
