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

	"github.com/tomtom215/hablafeed/internal/adaptive"
)

// User returns the learner with id, or nil when there is none.
func (db *DB) User(ctx context.Context, userID string) (*adaptive.User, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var u adaptive.User
	err := db.conn.GetContext(ctx, &u,
		`SELECT id, current_level, target_language FROM users WHERE id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		recordQuery("SELECT", "users", start, nil)
		return nil, nil
	}
	recordQuery("SELECT", "users", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return &u, nil
}

// UpsertUser creates or replaces a learner.
func (db *DB) UpsertUser(ctx context.Context, u *adaptive.User) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, current_level, target_language) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current_level = excluded.current_level,
			target_language = excluded.target_language`,
		u.ID, u.CurrentLevel, u.TargetLanguage)
	recordQuery("UPSERT", "users", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

// WordKnowledge returns the learner's word records with confidence at
// least minConfidence.
func (db *DB) WordKnowledge(ctx context.Context, userID string, minConfidence float64) ([]adaptive.WordKnowledge, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var out []adaptive.WordKnowledge
	err := db.conn.SelectContext(ctx, &out, `
		SELECT word, confidence_score, next_review_at
		FROM word_knowledge
		WHERE user_id = ? AND confidence_score >= ?
		ORDER BY word`, userID, minConfidence)
	recordQuery("SELECT", "word_knowledge", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get word knowledge for %s: %w", userID, err)
	}
	return out, nil
}

// UpsertWordKnowledge records the learner's confidence in each word.
func (db *DB) UpsertWordKnowledge(ctx context.Context, userID string, words []adaptive.WordKnowledge) error {
	if len(words) == 0 {
		return nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, wk := range words {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO word_knowledge (user_id, word, confidence_score, next_review_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, word) DO UPDATE SET
				confidence_score = excluded.confidence_score,
				next_review_at = excluded.next_review_at`,
			userID, wk.Word, wk.ConfidenceScore, nullable(wk.NextReviewAt)); err != nil {
			_ = tx.Rollback()
			recordQuery("UPSERT", "word_knowledge", start, err)
			return fmt.Errorf("failed to upsert word %q: %w", wk.Word, err)
		}
	}
	err = tx.Commit()
	recordQuery("UPSERT", "word_knowledge", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit word knowledge: %w", err)
	}
	return nil
}
