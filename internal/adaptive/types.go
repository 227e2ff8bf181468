// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"time"
)

// Feedback is the difficulty signal a learner attaches to a feed request.
type Feedback string

const (
	// FeedbackNone means the request carries no difficulty signal.
	FeedbackNone Feedback = ""

	// FeedbackTooEasy raises the difficulty bias and the immediate tier.
	FeedbackTooEasy Feedback = "too_easy"

	// FeedbackTooHard lowers the difficulty bias and the immediate tier.
	FeedbackTooHard Feedback = "too_hard"

	// FeedbackPerfect is logged but does not move the tier.
	FeedbackPerfect Feedback = "perfect"
)

// Valid reports whether f is one of the known feedback values.
func (f Feedback) Valid() bool {
	switch f {
	case FeedbackNone, FeedbackTooEasy, FeedbackTooHard, FeedbackPerfect:
		return true
	default:
		return false
	}
}

// Delta returns the tier and bias shift carried by the feedback.
func (f Feedback) Delta() int {
	switch f {
	case FeedbackTooEasy:
		return 1
	case FeedbackTooHard:
		return -1
	default:
		return 0
	}
}

// User is the learner profile the Sequencer reads.
type User struct {
	ID             string `json:"id" db:"id"`
	CurrentLevel   string `json:"current_level" db:"current_level"`
	TargetLanguage string `json:"target_language" db:"target_language"`
}

// WordKnowledge is the learner's recorded state for one word.
type WordKnowledge struct {
	Word            string     `json:"word" db:"word"`
	ConfidenceScore float64    `json:"confidence_score" db:"confidence_score"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty" db:"next_review_at"`
}

// FeedbackEntry is one element of the bounded feedback log.
type FeedbackEntry struct {
	Type   Feedback  `json:"type"`
	At     time.Time `json:"at"`
	PathID *string   `json:"pathId"`
}

// UserPreference is the per-user sequencing state persisted between requests.
type UserPreference struct {
	UserID               string          `json:"user_id"`
	DifficultyBias       int             `json:"difficulty_bias"`
	CurrentPathID        *string         `json:"current_path_id,omitempty"`
	CurrentSequenceOrder *int            `json:"current_sequence_order,omitempty"`
	RecentFeedback       []FeedbackEntry `json:"recent_feedback"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// PreferenceUpdate is the state written back after a feed is computed.
// Previous is the record loaded at the start of the request, or nil on a
// user's first request.
type PreferenceUpdate struct {
	Previous             *UserPreference
	DifficultyBias       int
	CurrentPathID        *string
	CurrentSequenceOrder *int
	Feedback             Feedback
	At                   time.Time

	// FeedbackLogCap bounds the merged feedback log. Zero selects the default.
	FeedbackLogCap int
}

// ContentItem is one piece of catalog content.
type ContentItem struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	ContentURL      string   `json:"content_url"`
	ThumbnailURL    *string  `json:"thumbnail_url,omitempty"`
	Transcription   *string  `json:"transcription,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	Captions        *string  `json:"captions,omitempty"`
	Words           []string `json:"words"`
	DifficultyTier  *int     `json:"difficulty_tier,omitempty"`
	LearningPathID  *string  `json:"learning_path_id,omitempty"`
	SequenceOrder   *int     `json:"sequence_order,omitempty"`
	DopamineScore   *float64 `json:"dopamine_score,omitempty"`
	ArcSummary      *string  `json:"arc_summary,omitempty"`
	Language        string   `json:"language"`
}

// ContentContext is the slice of a content item needed to pin the target context.
type ContentContext struct {
	ID             string
	LearningPathID *string
	SequenceOrder  *int
	DifficultyTier *int
}

// CandidateQuery describes the catalog read for one feed request.
// Results must be ordered by learning path ascending, sequence ascending,
// then dopamine score descending.
type CandidateQuery struct {
	Language   string
	MinTier    int
	MaxTier    int
	ExcludeIDs []string
	Limit      int
}

// ScoreBreakdown holds the weighted contribution of each scoring signal.
type ScoreBreakdown struct {
	Difficulty    float64 `json:"difficulty"`
	Comprehension float64 `json:"comprehension"`
	Path          float64 `json:"path"`
	Sequence      float64 `json:"sequence"`
	Dopamine      float64 `json:"dopamine"`
	DueBonus      float64 `json:"due_bonus"`
}

// Total sums the contributions.
//
//nolint:gocritic // value receiver keeps breakdowns immutable
func (b ScoreBreakdown) Total() float64 {
	return b.Difficulty + b.Comprehension + b.Path + b.Sequence + b.Dopamine + b.DueBonus
}

// FeedItem is a content item decorated with per-learner vocabulary insight.
type FeedItem struct {
	ContentItem
	NewWords             []string        `json:"new_words"`
	KnownWordsPercentage float64         `json:"known_words_percentage"`
	Score                *float64        `json:"score,omitempty"`
	ScoreBreakdown       *ScoreBreakdown `json:"score_breakdown,omitempty"`
}

// FeedContext is the resolved target context reported with a feed.
type FeedContext struct {
	TargetDifficultyTier int     `json:"target_difficulty_tier"`
	LearningPathID       *string `json:"learning_path_id"`
	SequenceOrder        *int    `json:"sequence_order"`
}

// FeedResult is the outcome of GetAdaptiveFeed.
type FeedResult struct {
	Items     []FeedItem  `json:"items"`
	Total     int         `json:"total"`
	FromCache bool        `json:"from_cache"`
	Context   FeedContext `json:"context"`
}

// FeedOptions are the inputs of GetAdaptiveFeed.
type FeedOptions struct {
	// UserID is required.
	UserID string

	// Limit is the page size. Zero means the configured default.
	Limit int

	// Offset is the page start.
	Offset int

	// Feedback is the optional difficulty signal.
	Feedback Feedback

	// CurrentContentID is the content the learner just finished, if any.
	CurrentContentID string

	// ExcludeIDs are content ids that must not be returned.
	ExcludeIDs []string

	// SkipCache disables both the cache read and the cache write.
	SkipCache bool

	// Explain attaches scores and score breakdowns to the returned items.
	Explain bool

	// RequestID correlates log lines; generated when empty.
	RequestID string
}

// LevelVerdict is the answer of a LevelChecker.
type LevelVerdict struct {
	Appropriate bool
}
