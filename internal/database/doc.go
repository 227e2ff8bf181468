// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package database provides the DuckDB-backed stores of the adaptive feed.

A single *DB implements adaptive.UserStore, adaptive.KnowledgeStore,
adaptive.Catalog and adaptive.PreferenceStore. Queries go through sqlx for
struct scanning and IN-list expansion.

# Tables

	users             learner level and target language
	word_knowledge    per-learner confidence and next review time
	content_items     catalog with tier, learning path, sequence and dopamine prior
	content_words     ordered word list of each item
	user_preferences  difficulty bias, path position and the JSON feedback log

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	seq, err := adaptive.NewSequencer(cfg.Sequencer(), adaptive.Deps{
		Users:       db,
		Knowledge:   db,
		Catalog:     db,
		Preferences: db,
	}, logger)

Every query records duckdb_query_duration_seconds and, on failure,
duckdb_query_errors_total. Close checkpoints the WAL before closing.
*/
package database
