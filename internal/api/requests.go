// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/hablafeed/internal/adaptive"
	"github.com/tomtom215/hablafeed/internal/logging"
	"github.com/tomtom215/hablafeed/internal/validation"
)

// feedQuery is the decoded query string of the feed routes. Limits above
// the configured maximum are capped by the sequencer rather than rejected;
// at most 500 ids may be excluded.
type feedQuery struct {
	UserID    string   `query:"user_id" validate:"required,identifier"`
	Limit     int      `query:"limit" validate:"gte=0"`
	Offset    int      `query:"offset" validate:"gte=0"`
	Feedback  string   `query:"feedback" validate:"feedback"`
	Current   string   `query:"current" validate:"omitempty,identifier"`
	Exclude   []string `query:"exclude" validate:"max=500,dive,identifier"`
	SkipCache bool     `query:"cache"`
	Explain   bool     `query:"explain"`
}

// parseFeedQuery decodes and validates the query string for userID.
func parseFeedQuery(r *http.Request, userID string) (feedQuery, error) {
	q := r.URL.Query()
	fq := feedQuery{
		UserID:   strings.TrimSpace(userID),
		Feedback: strings.TrimSpace(q.Get("feedback")),
		Current:  strings.TrimSpace(q.Get("current")),
		Exclude:  splitList(q["exclude"]),
	}

	var err error
	if fq.Limit, err = intParam(q, "limit"); err != nil {
		return fq, err
	}
	if fq.Offset, err = intParam(q, "offset"); err != nil {
		return fq, err
	}
	cache, err := boolParam(q, "cache", true)
	if err != nil {
		return fq, err
	}
	fq.SkipCache = !cache
	if fq.Explain, err = boolParam(q, "explain", false); err != nil {
		return fq, err
	}

	if err := validation.ValidateStruct(&fq); err != nil {
		return fq, err
	}
	return fq, nil
}

func (fq *feedQuery) options(r *http.Request) adaptive.FeedOptions {
	return adaptive.FeedOptions{
		UserID:           fq.UserID,
		Limit:            fq.Limit,
		Offset:           fq.Offset,
		Feedback:         adaptive.Feedback(fq.Feedback),
		CurrentContentID: fq.Current,
		ExcludeIDs:       fq.Exclude,
		SkipCache:        fq.SkipCache,
		Explain:          fq.Explain,
		RequestID:        logging.RequestIDFromContext(r.Context()),
	}
}

// splitList accepts both ?exclude=a&exclude=b and ?exclude=a,b.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, paramError(name, "integer", raw)
	}
	return n, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def, paramError(name, "boolean", raw)
	}
	return b, nil
}

func paramError(name, kind, raw string) error {
	return &validation.Error{Fields: []validation.FieldError{{
		Field:   name,
		Tag:     kind,
		Value:   raw,
		Message: name + " must be a valid " + kind,
	}}}
}
