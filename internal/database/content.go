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
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/hablafeed/internal/adaptive"
)

const contentColumns = `id, type, title, content_url, thumbnail_url, transcription,
	duration_seconds, captions, difficulty_tier, learning_path_id, sequence_order,
	dopamine_score, arc_summary, language`

// contentRow is the scan target for content_items.
type contentRow struct {
	ID              string   `db:"id"`
	Type            string   `db:"type"`
	Title           string   `db:"title"`
	ContentURL      string   `db:"content_url"`
	ThumbnailURL    *string  `db:"thumbnail_url"`
	Transcription   *string  `db:"transcription"`
	DurationSeconds *int     `db:"duration_seconds"`
	Captions        *string  `db:"captions"`
	DifficultyTier  *int     `db:"difficulty_tier"`
	LearningPathID  *string  `db:"learning_path_id"`
	SequenceOrder   *int     `db:"sequence_order"`
	DopamineScore   *float64 `db:"dopamine_score"`
	ArcSummary      *string  `db:"arc_summary"`
	Language        string   `db:"language"`
}

func (r *contentRow) item(words []string) adaptive.ContentItem {
	if words == nil {
		words = []string{}
	}
	return adaptive.ContentItem{
		ID:              r.ID,
		Type:            r.Type,
		Title:           r.Title,
		ContentURL:      r.ContentURL,
		ThumbnailURL:    r.ThumbnailURL,
		Transcription:   r.Transcription,
		DurationSeconds: r.DurationSeconds,
		Captions:        r.Captions,
		Words:           words,
		DifficultyTier:  r.DifficultyTier,
		LearningPathID:  r.LearningPathID,
		SequenceOrder:   r.SequenceOrder,
		DopamineScore:   r.DopamineScore,
		ArcSummary:      r.ArcSummary,
		Language:        r.Language,
	}
}

// Candidates returns content in the query's language and tier range,
// ordered by path, then sequence, then dopamine score descending, with
// NULLs last in every key. Items without a tier never match.
func (db *DB) Candidates(ctx context.Context, q adaptive.CandidateQuery) ([]adaptive.ContentItem, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var b strings.Builder
	b.WriteString(`SELECT ` + contentColumns + ` FROM content_items
		WHERE language = ? AND difficulty_tier BETWEEN ? AND ?`)
	args := []any{q.Language, q.MinTier, q.MaxTier}
	if len(q.ExcludeIDs) > 0 {
		b.WriteString(` AND id NOT IN (?)`)
		args = append(args, q.ExcludeIDs)
	}
	b.WriteString(` ORDER BY learning_path_id ASC NULLS LAST, sequence_order ASC NULLS LAST,
		dopamine_score DESC NULLS LAST, id ASC LIMIT ?`)
	args = append(args, q.Limit)

	query, args, err := sqlx.In(b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to expand candidate query: %w", err)
	}

	start := time.Now()
	var rows []contentRow
	err = db.conn.SelectContext(ctx, &rows, db.conn.Rebind(query), args...)
	recordQuery("SELECT", "content_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	return db.attachWords(ctx, rows)
}

// ContentByIDs returns the items that exist among ids, in no particular order.
func (db *DB) ContentByIDs(ctx context.Context, ids []string) ([]adaptive.ContentItem, error) {
	if len(ids) == 0 {
		return []adaptive.ContentItem{}, nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args, err := sqlx.In(`SELECT `+contentColumns+` FROM content_items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to expand content query: %w", err)
	}

	start := time.Now()
	var rows []contentRow
	err = db.conn.SelectContext(ctx, &rows, db.conn.Rebind(query), args...)
	recordQuery("SELECT", "content_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query content by ids: %w", err)
	}
	return db.attachWords(ctx, rows)
}

// ContentContext returns the path position and tier of one item, or nil
// when it does not exist.
func (db *DB) ContentContext(ctx context.Context, contentID string) (*adaptive.ContentContext, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var row struct {
		ID             string  `db:"id"`
		LearningPathID *string `db:"learning_path_id"`
		SequenceOrder  *int    `db:"sequence_order"`
		DifficultyTier *int    `db:"difficulty_tier"`
	}
	err := db.conn.GetContext(ctx, &row, `
		SELECT id, learning_path_id, sequence_order, difficulty_tier
		FROM content_items WHERE id = ?`, contentID)
	if errors.Is(err, sql.ErrNoRows) {
		recordQuery("SELECT", "content_items", start, nil)
		return nil, nil
	}
	recordQuery("SELECT", "content_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get content %s: %w", contentID, err)
	}
	return &adaptive.ContentContext{
		ID:             row.ID,
		LearningPathID: row.LearningPathID,
		SequenceOrder:  row.SequenceOrder,
		DifficultyTier: row.DifficultyTier,
	}, nil
}

// attachWords loads the ordered word lists for rows in one query.
func (db *DB) attachWords(ctx context.Context, rows []contentRow) ([]adaptive.ContentItem, error) {
	if len(rows) == 0 {
		return []adaptive.ContentItem{}, nil
	}
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}

	query, args, err := sqlx.In(`SELECT content_id, word FROM content_words
		WHERE content_id IN (?) ORDER BY content_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to expand word query: %w", err)
	}

	start := time.Now()
	var words []struct {
		ContentID string `db:"content_id"`
		Word      string `db:"word"`
	}
	err = db.conn.SelectContext(ctx, &words, db.conn.Rebind(query), args...)
	recordQuery("SELECT", "content_words", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query content words: %w", err)
	}

	byContent := make(map[string][]string, len(rows))
	for _, w := range words {
		byContent[w.ContentID] = append(byContent[w.ContentID], w.Word)
	}

	items := make([]adaptive.ContentItem, len(rows))
	for i := range rows {
		items[i] = rows[i].item(byContent[rows[i].ID])
	}
	return items, nil
}

// InsertContent creates or replaces catalog items and their word lists.
func (db *DB) InsertContent(ctx context.Context, items []adaptive.ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := insertContentTx(ctx, tx, items); err != nil {
		_ = tx.Rollback()
		recordQuery("INSERT", "content_items", start, err)
		return err
	}
	err = tx.Commit()
	recordQuery("INSERT", "content_items", start, err)
	if err != nil {
		return fmt.Errorf("failed to commit content: %w", err)
	}
	return nil
}

func insertContentTx(ctx context.Context, tx *sqlx.Tx, items []adaptive.ContentItem) error {
	for i := range items {
		it := &items[i]
		if _, err := tx.ExecContext(ctx, `DELETE FROM content_words WHERE content_id = ?`, it.ID); err != nil {
			return fmt.Errorf("failed to clear words of %s: %w", it.ID, err)
		}
		language := it.Language
		if language == "" {
			language = "es"
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO content_items (`+contentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				type = excluded.type, title = excluded.title, content_url = excluded.content_url,
				thumbnail_url = excluded.thumbnail_url, transcription = excluded.transcription,
				duration_seconds = excluded.duration_seconds, captions = excluded.captions,
				difficulty_tier = excluded.difficulty_tier, learning_path_id = excluded.learning_path_id,
				sequence_order = excluded.sequence_order, dopamine_score = excluded.dopamine_score,
				arc_summary = excluded.arc_summary, language = excluded.language`,
			it.ID, it.Type, it.Title, it.ContentURL,
			nullable(it.ThumbnailURL), nullable(it.Transcription), nullable(it.DurationSeconds),
			nullable(it.Captions), nullable(it.DifficultyTier), nullable(it.LearningPathID),
			nullable(it.SequenceOrder), nullable(it.DopamineScore), nullable(it.ArcSummary),
			language); err != nil {
			return fmt.Errorf("failed to insert content %s: %w", it.ID, err)
		}
		for pos, w := range it.Words {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO content_words (content_id, position, word) VALUES (?, ?, ?)`,
				it.ID, pos, w); err != nil {
				return fmt.Errorf("failed to insert word %q of %s: %w", w, it.ID, err)
			}
		}
	}
	return nil
}
