// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package adaptive ranks and sequences learning content for a single user.

Given what a learner already knows (vocabulary confidence), which words are due
for review, their CEFR level, recent difficulty feedback, and their position in a
learning path, the Sequencer selects a slate of candidate content items from the
catalog, scores each one with the Scorer, and returns a ranked page.

# Architecture

The package owns no storage. All collaborators are small interfaces so the
database layer, the feed cache backends, and tests can plug in freely:

	┌─────────────────────────────────────────────────────────┐
	│                       Sequencer                         │
	│  GetAdaptiveFeed / GetAdaptiveNext                      │
	├──────────────┬──────────────┬──────────────┬────────────┤
	│  UserStore   │ KnowledgeSt. │   Catalog    │ FeedCache  │
	│  Preference  │ LevelChecker │    Clock     │  Scorer    │
	└──────────────┴──────────────┴──────────────┴────────────┘

# Target Context

A request resolves a target difficulty tier (CEFR A0..C2 mapped to 0..6, shifted
by the persisted difficulty bias and by the feedback carried on the request), a
target learning path, and a target next sequence position. Passing the id of the
content the learner just finished pins the path and sequence to that item.

# Scoring

Scores are a fixed weighted sum of five signals plus a flat due-word bonus:

	difficulty     0.35   1 - min(1, |tier delta| / 3)
	comprehension  0.25   1.0 when the i+1 check passes, else 0.45
	path           0.15   1.0 on matching path, else 0.6
	sequence       0.15   1 / (1 + |sequence delta|), else 0.6
	dopamine       0.08   engagement prior, 0.5 when unknown
	due bonus     +0.07   any word of the item is due for review

Weights are not normalized; the maximum attainable score is 1.05. Candidates
scoring at or below the floor of 0.25 are never served.

# Caching

The first page of a request without feedback may be served from the feed cache.
Cached pages keep the cached order but are not re-personalized: NewWords and
KnownWordsPercentage are computed against empty vocabulary sets on that path.
Excluded ids and the current item are still removed from a cached page; if
none remain the feed is computed from scratch.

# Thread Safety

Sequencer holds no per-request mutable state and is safe for concurrent use.
Concurrent requests for the same user race on the preference upsert and the
cache write; the last write wins.
*/
package adaptive
