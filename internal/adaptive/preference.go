// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

// DefaultFeedbackLogCap is the feedback log capacity when none is configured.
const DefaultFeedbackLogCap = 12

// AppendFeedback returns log with entry appended, keeping only the newest
// limit entries. The input slice is never modified.
func AppendFeedback(log []FeedbackEntry, entry FeedbackEntry, limit int) []FeedbackEntry {
	if limit < 1 {
		limit = DefaultFeedbackLogCap
	}

	out := make([]FeedbackEntry, 0, min(len(log)+1, limit))
	start := 0
	if len(log)+1 > limit {
		start = len(log) + 1 - limit
	}
	if start < len(log) {
		out = append(out, log[start:]...)
	}
	return append(out, entry)
}

// MergePreference computes the record a PreferenceStore must hold after
// applying u. Stores call it for both the create and update paths so that a
// first-ever save and a later save of the same update are indistinguishable.
//
//nolint:gocritic // hugeParam: u passed by value for immutability
func MergePreference(userID string, u PreferenceUpdate) UserPreference {
	var log []FeedbackEntry
	if u.Previous != nil {
		log = u.Previous.RecentFeedback
	}
	if u.Feedback != FeedbackNone {
		log = AppendFeedback(log, FeedbackEntry{
			Type:   u.Feedback,
			At:     u.At,
			PathID: u.CurrentPathID,
		}, u.FeedbackLogCap)
	} else if log != nil {
		log = append([]FeedbackEntry(nil), log...)
	}
	if log == nil {
		log = []FeedbackEntry{}
	}

	return UserPreference{
		UserID:               userID,
		DifficultyBias:       ClampBias(u.DifficultyBias),
		CurrentPathID:        u.CurrentPathID,
		CurrentSequenceOrder: u.CurrentSequenceOrder,
		RecentFeedback:       log,
		UpdatedAt:            u.At,
	}
}
