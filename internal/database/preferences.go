// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hablafeed/internal/adaptive"
)

type preferenceRow struct {
	UserID               string    `db:"user_id"`
	DifficultyBias       int       `db:"difficulty_bias"`
	CurrentPathID        *string   `db:"current_path_id"`
	CurrentSequenceOrder *int      `db:"current_sequence_order"`
	RecentFeedback       string    `db:"recent_feedback"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// Preference returns the learner's stored preference, or nil when none
// has been written yet.
func (db *DB) Preference(ctx context.Context, userID string) (*adaptive.UserPreference, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var row preferenceRow
	err := db.conn.GetContext(ctx, &row, `
		SELECT user_id, difficulty_bias, current_path_id, current_sequence_order,
			recent_feedback, updated_at
		FROM user_preferences WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		recordQuery("SELECT", "user_preferences", start, nil)
		return nil, nil
	}
	recordQuery("SELECT", "user_preferences", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference for %s: %w", userID, err)
	}

	feedback := []adaptive.FeedbackEntry{}
	if row.RecentFeedback != "" {
		if err := json.Unmarshal([]byte(row.RecentFeedback), &feedback); err != nil {
			return nil, fmt.Errorf("failed to decode feedback log for %s: %w", userID, err)
		}
	}

	return &adaptive.UserPreference{
		UserID:               row.UserID,
		DifficultyBias:       row.DifficultyBias,
		CurrentPathID:        row.CurrentPathID,
		CurrentSequenceOrder: row.CurrentSequenceOrder,
		RecentFeedback:       feedback,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

// SavePreference merges update into the learner's record and upserts it.
// The first write and later writes produce the same row for the same input.
//
//nolint:gocritic // hugeParam: update passed by value for immutability
func (db *DB) SavePreference(ctx context.Context, userID string, update adaptive.PreferenceUpdate) error {
	pref := adaptive.MergePreference(userID, update)

	feedback, err := json.Marshal(pref.RecentFeedback)
	if err != nil {
		return fmt.Errorf("failed to encode feedback log: %w", err)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO user_preferences
			(user_id, difficulty_bias, current_path_id, current_sequence_order, recent_feedback, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			difficulty_bias = excluded.difficulty_bias,
			current_path_id = excluded.current_path_id,
			current_sequence_order = excluded.current_sequence_order,
			recent_feedback = excluded.recent_feedback,
			updated_at = excluded.updated_at`,
		userID, pref.DifficultyBias, nullable(pref.CurrentPathID), nullable(pref.CurrentSequenceOrder),
		string(feedback), pref.UpdatedAt.UTC())
	recordQuery("UPSERT", "user_preferences", start, err)
	if err != nil {
		return fmt.Errorf("failed to save preference for %s: %w", userID, err)
	}
	return nil
}
