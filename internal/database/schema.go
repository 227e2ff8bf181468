// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package database

import (
	"context"
	"fmt"
)

// schemaStatements create the tables used by the feed. Word lists live in
// content_words with their position so item order survives a round trip.
// Only primary keys are indexed: DuckDB rewrites updates of indexed columns
// as delete plus insert, which conflicts with upserts in one transaction.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              VARCHAR PRIMARY KEY,
		current_level   VARCHAR NOT NULL DEFAULT 'A0',
		target_language VARCHAR NOT NULL DEFAULT 'es'
	)`,
	`CREATE TABLE IF NOT EXISTS word_knowledge (
		user_id          VARCHAR NOT NULL,
		word             VARCHAR NOT NULL,
		confidence_score DOUBLE NOT NULL DEFAULT 0,
		next_review_at   TIMESTAMP,
		PRIMARY KEY (user_id, word)
	)`,
	`CREATE TABLE IF NOT EXISTS content_items (
		id               VARCHAR PRIMARY KEY,
		type             VARCHAR NOT NULL,
		title            VARCHAR NOT NULL,
		content_url      VARCHAR NOT NULL,
		thumbnail_url    VARCHAR,
		transcription    VARCHAR,
		duration_seconds INTEGER,
		captions         VARCHAR,
		difficulty_tier  INTEGER,
		learning_path_id VARCHAR,
		sequence_order   INTEGER,
		dopamine_score   DOUBLE,
		arc_summary      VARCHAR,
		language         VARCHAR NOT NULL DEFAULT 'es'
	)`,
	`CREATE TABLE IF NOT EXISTS content_words (
		content_id VARCHAR NOT NULL,
		position   INTEGER NOT NULL,
		word       VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id                VARCHAR PRIMARY KEY,
		difficulty_bias        INTEGER NOT NULL DEFAULT 0,
		current_path_id        VARCHAR,
		current_sequence_order INTEGER,
		recent_feedback        VARCHAR NOT NULL DEFAULT '[]',
		updated_at             TIMESTAMP NOT NULL
	)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
