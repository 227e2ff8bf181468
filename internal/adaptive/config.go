// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"fmt"
	"time"
)

// Config contains the tunables of the Sequencer.
type Config struct {
	// Weights are the scoring weights.
	Weights Weights `json:"weights"`

	// DefaultLimit is the page size used when a request does not set one.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the page size a request may ask for.
	MaxLimit int `json:"max_limit"`

	// CandidateLimit caps the catalog read per request.
	CandidateLimit int `json:"candidate_limit"`

	// ScoreFloor is the score a candidate must exceed to be served.
	ScoreFloor float64 `json:"score_floor"`

	// PreferredDifficulty is the comprehension ratio handed to the LevelChecker.
	PreferredDifficulty float64 `json:"preferred_difficulty"`

	// MinKnowledgeConfidence filters which word records are loaded at all.
	MinKnowledgeConfidence float64 `json:"min_knowledge_confidence"`

	// KnownThreshold is the confidence at which a word counts as known.
	KnownThreshold float64 `json:"known_threshold"`

	// NewWordsLimit caps FeedItem.NewWords.
	NewWordsLimit int `json:"new_words_limit"`

	// FeedbackLogCap bounds UserPreference.RecentFeedback.
	FeedbackLogCap int `json:"feedback_log_cap"`

	// CacheSize is how many ranked ids are written to the feed cache.
	CacheSize int `json:"cache_size"`

	// CacheTTL is the feed cache entry lifetime.
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:                DefaultWeights(),
		DefaultLimit:           10,
		MaxLimit:               100,
		CandidateLimit:         250,
		ScoreFloor:             0.25,
		PreferredDifficulty:    0.96,
		MinKnowledgeConfidence: 0.1,
		KnownThreshold:         0.6,
		NewWordsLimit:          10,
		FeedbackLogCap:         12,
		CacheSize:              50,
		CacheTTL:               1800 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be at least default_limit (%d), got %d", c.DefaultLimit, c.MaxLimit)
	}
	if c.CandidateLimit < 1 {
		return fmt.Errorf("candidate_limit must be positive, got %d", c.CandidateLimit)
	}
	if c.ScoreFloor < 0 {
		return fmt.Errorf("score_floor must be non-negative, got %f", c.ScoreFloor)
	}
	if c.PreferredDifficulty <= 0 || c.PreferredDifficulty > 1 {
		return fmt.Errorf("preferred_difficulty must be in (0, 1], got %f", c.PreferredDifficulty)
	}
	if c.MinKnowledgeConfidence < 0 || c.MinKnowledgeConfidence > 1 {
		return fmt.Errorf("min_knowledge_confidence must be in [0, 1], got %f", c.MinKnowledgeConfidence)
	}
	if c.KnownThreshold < c.MinKnowledgeConfidence || c.KnownThreshold > 1 {
		return fmt.Errorf("known_threshold must be in [min_knowledge_confidence, 1], got %f", c.KnownThreshold)
	}
	if c.NewWordsLimit < 0 {
		return fmt.Errorf("new_words_limit must be non-negative, got %d", c.NewWordsLimit)
	}
	if c.FeedbackLogCap < 1 {
		return fmt.Errorf("feedback_log_cap must be positive, got %d", c.FeedbackLogCap)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL)
	}
	return nil
}
