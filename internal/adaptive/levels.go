// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"strings"
)

// Tier and bias bounds.
const (
	MinTier = 0
	MaxTier = 6
	MinBias = -3
	MaxBias = 3
)

// cefrTiers maps CEFR levels to difficulty tiers.
var cefrTiers = map[string]int{
	"A0": 0,
	"A1": 1,
	"A2": 2,
	"B1": 3,
	"B2": 4,
	"C1": 5,
	"C2": 6,
}

// TierForLevel maps a CEFR level to its tier. Unknown levels map to 0.
func TierForLevel(level string) int {
	if tier, ok := cefrTiers[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return tier
	}
	return MinTier
}

// ClampTier bounds t to [MinTier, MaxTier].
func ClampTier(t int) int {
	return clampInt(t, MinTier, MaxTier)
}

// ClampBias bounds b to [MinBias, MaxBias].
func ClampBias(b int) int {
	return clampInt(b, MinBias, MaxBias)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ResolveTier applies feedback to the stored bias and derives the target tier.
// Feedback shifts the persisted bias and then shifts the resulting tier once
// more, so a single too_easy both remembers the preference and moves the
// current feed.
func ResolveTier(level string, storedBias int, fb Feedback) (tier, bias int) {
	delta := fb.Delta()
	bias = ClampBias(storedBias + delta)
	tier = ClampTier(TierForLevel(level) + bias)
	if delta != 0 {
		tier = ClampTier(tier + delta)
	}
	return tier, bias
}

// TierWindow returns the clamped candidate tier range around target.
func TierWindow(target int) (lo, hi int) {
	return ClampTier(target - 1), ClampTier(target + 1)
}
