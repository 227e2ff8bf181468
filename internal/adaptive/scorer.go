// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"fmt"
	"math"
)

// Fallback signal values used when a signal cannot be computed.
const (
	comprehensionMiss = 0.45
	pathMiss          = 0.6
	sequenceUnknown   = 0.6
	defaultDopamine   = 0.5
)

// Weights are the contribution of each scoring signal. They are applied as-is
// and deliberately not normalized.
type Weights struct {
	Difficulty    float64 `json:"difficulty"`
	Comprehension float64 `json:"comprehension"`
	Path          float64 `json:"path"`
	Sequence      float64 `json:"sequence"`
	Dopamine      float64 `json:"dopamine"`
	DueBonus      float64 `json:"due_bonus"`
}

// DefaultWeights returns the production weights. They sum to 1.05.
func DefaultWeights() Weights {
	return Weights{
		Difficulty:    0.35,
		Comprehension: 0.25,
		Path:          0.15,
		Sequence:      0.15,
		Dopamine:      0.08,
		DueBonus:      0.07,
	}
}

// Max returns the highest attainable score.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Max() float64 {
	return w.Difficulty + w.Comprehension + w.Path + w.Sequence + w.Dopamine + w.DueBonus
}

// Validate rejects negative weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"difficulty":    w.Difficulty,
		"comprehension": w.Comprehension,
		"path":          w.Path,
		"sequence":      w.Sequence,
		"dopamine":      w.Dopamine,
		"due_bonus":     w.DueBonus,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weights.%s must be non-negative, got %f", name, v)
		}
	}
	return nil
}

// ScoreInput is everything the Scorer looks at for one candidate.
type ScoreInput struct {
	Item                *ContentItem
	KnownPercentage     float64
	TargetTier          int
	TargetPathID        *string
	TargetNextSequence  *int
	DueWordBoost        bool
	PreferredDifficulty float64
}

// Scorer computes match scores. It has no side effects.
type Scorer struct {
	weights Weights
	checker LevelChecker
}

// NewScorer creates a Scorer. A nil checker selects the default i+1 rule.
func NewScorer(w Weights, checker LevelChecker) *Scorer {
	if checker == nil {
		checker = DefaultLevelChecker()
	}
	return &Scorer{weights: w, checker: checker}
}

// Score returns the weighted match score of one candidate.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (s *Scorer) Score(in ScoreInput) float64 {
	return s.Breakdown(in).Total()
}

// Breakdown returns the weighted contribution of every signal.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (s *Scorer) Breakdown(in ScoreInput) ScoreBreakdown {
	preferred := in.PreferredDifficulty
	if preferred <= 0 {
		preferred = DefaultConfig().PreferredDifficulty
	}

	itemTier := in.TargetTier
	var (
		itemPath *string
		itemSeq  *int
		dopamine = defaultDopamine
	)
	if in.Item != nil {
		if in.Item.DifficultyTier != nil {
			itemTier = *in.Item.DifficultyTier
		}
		itemPath = in.Item.LearningPathID
		itemSeq = in.Item.SequenceOrder
		if in.Item.DopamineScore != nil {
			dopamine = *in.Item.DopamineScore
		}
	}

	b := ScoreBreakdown{
		Difficulty:    s.weights.Difficulty * difficultySignal(itemTier, in.TargetTier),
		Comprehension: s.weights.Comprehension * comprehensionMiss,
		Path:          s.weights.Path * pathSignal(itemPath, in.TargetPathID),
		Sequence:      s.weights.Sequence * sequenceSignal(itemSeq, in.TargetNextSequence),
		Dopamine:      s.weights.Dopamine * dopamine,
	}
	if s.checker.IsAppropriateLevel(in.KnownPercentage, preferred).Appropriate {
		b.Comprehension = s.weights.Comprehension
	}
	if in.DueWordBoost {
		b.DueBonus = s.weights.DueBonus
	}
	return b
}

func difficultySignal(itemTier, targetTier int) float64 {
	diff := math.Abs(float64(itemTier - targetTier))
	return 1 - math.Min(1, diff/3)
}

func pathSignal(itemPath, targetPath *string) float64 {
	if itemPath != nil && targetPath != nil && *itemPath == *targetPath {
		return 1
	}
	return pathMiss
}

func sequenceSignal(itemSeq, targetSeq *int) float64 {
	if itemSeq == nil || targetSeq == nil {
		return sequenceUnknown
	}
	return 1 / (1 + math.Abs(float64(*itemSeq-*targetSeq)))
}

// IPlusOne is the default comprehension check: content is appropriate when
// the learner knows nearly, but not quite, all of its words.
type IPlusOne struct {
	// Below is how far under the preferred ratio is still appropriate.
	Below float64
	// Above is how far over the preferred ratio is still appropriate.
	Above float64
}

// DefaultLevelChecker returns the i+1 check with a [-0.10, +0.03] window.
func DefaultLevelChecker() IPlusOne {
	return IPlusOne{Below: 0.10, Above: 0.03}
}

// IsAppropriateLevel implements LevelChecker.
func (c IPlusOne) IsAppropriateLevel(knownPercentage, preferredDifficulty float64) LevelVerdict {
	lo := preferredDifficulty - c.Below
	hi := math.Min(1, preferredDifficulty+c.Above)
	return LevelVerdict{Appropriate: knownPercentage >= lo && knownPercentage <= hi}
}
