// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"context"
	"time"
)

// Note: this package does not import any other internal package. The database
// and feed cache packages implement these interfaces.

// UserStore looks up learner profiles.
type UserStore interface {
	// User returns the profile, or nil and no error when the user does not exist.
	User(ctx context.Context, userID string) (*User, error)
}

// KnowledgeStore reads vocabulary knowledge. The Sequencer never writes to it.
type KnowledgeStore interface {
	// WordKnowledge returns the words recorded for the user whose confidence
	// is at least minConfidence.
	WordKnowledge(ctx context.Context, userID string, minConfidence float64) ([]WordKnowledge, error)
}

// Catalog reads content items.
type Catalog interface {
	// Candidates returns content matching the query in the documented order.
	Candidates(ctx context.Context, q CandidateQuery) ([]ContentItem, error)

	// ContentByIDs returns the items that exist among ids, in any order.
	ContentByIDs(ctx context.Context, ids []string) ([]ContentItem, error)

	// ContentContext returns the path context of one item, or nil and no
	// error when it does not exist.
	ContentContext(ctx context.Context, contentID string) (*ContentContext, error)
}

// PreferenceStore persists per-user sequencing state.
type PreferenceStore interface {
	// Preference returns the stored state, or nil and no error when the user
	// has none yet.
	Preference(ctx context.Context, userID string) (*UserPreference, error)

	// SavePreference creates or replaces the user's state. The same update
	// yields the same stored record whether or not one existed before.
	SavePreference(ctx context.Context, userID string, update PreferenceUpdate) error
}

// FeedCache stores a short ranked id list per user.
type FeedCache interface {
	// Get returns the cached ids and whether an entry was present.
	Get(ctx context.Context, userID string) ([]string, bool, error)

	// Set stores ids for the user with the given time to live.
	Set(ctx context.Context, userID string, ids []string, ttl time.Duration) error
}

// LevelChecker decides whether a known-word ratio suits the learner.
type LevelChecker interface {
	IsAppropriateLevel(knownPercentage, preferredDifficulty float64) LevelVerdict
}

// LevelCheckerFunc adapts a function to LevelChecker.
type LevelCheckerFunc func(knownPercentage, preferredDifficulty float64) LevelVerdict

// IsAppropriateLevel calls f.
func (f LevelCheckerFunc) IsAppropriateLevel(knownPercentage, preferredDifficulty float64) LevelVerdict {
	return f(knownPercentage, preferredDifficulty)
}

// Clock returns the current time.
type Clock func() time.Time

// Recorder receives sequencing measurements. The metrics package provides
// the Prometheus implementation.
type Recorder interface {
	CacheLookup(hit bool)
	CacheWrite(err error)
	Candidates(n int)
	Scored(kept, dropped int)
	PreferenceWrite(err error)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(bool)      {}
func (nopRecorder) CacheWrite(error)      {}
func (nopRecorder) Candidates(int)        {}
func (nopRecorder) Scored(int, int)       {}
func (nopRecorder) PreferenceWrite(error) {}
