// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	opFeed = "adaptive.GetAdaptiveFeed"
	opNext = "adaptive.GetAdaptiveNext"
)

// Deps are the collaborators of a Sequencer. Cache, LevelChecker, Clock and
// Recorder are optional.
type Deps struct {
	Users        UserStore
	Knowledge    KnowledgeStore
	Catalog      Catalog
	Preferences  PreferenceStore
	Cache        FeedCache
	LevelChecker LevelChecker
	Clock        Clock
	Recorder     Recorder
}

// Sequencer builds adaptive feeds. It is safe for concurrent use.
type Sequencer struct {
	config *Config
	logger zerolog.Logger

	users     UserStore
	knowledge KnowledgeStore
	catalog   Catalog
	prefs     PreferenceStore
	cache     FeedCache

	scorer   *Scorer
	now      Clock
	recorder Recorder
}

// NewSequencer creates a Sequencer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSequencer(cfg *Config, deps Deps, logger zerolog.Logger) (*Sequencer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case deps.Users == nil:
		return nil, errors.New("user store is required")
	case deps.Knowledge == nil:
		return nil, errors.New("knowledge store is required")
	case deps.Catalog == nil:
		return nil, errors.New("catalog is required")
	case deps.Preferences == nil:
		return nil, errors.New("preference store is required")
	}

	s := &Sequencer{
		config:    cfg,
		logger:    logger.With().Str("component", "adaptive").Logger(),
		users:     deps.Users,
		knowledge: deps.Knowledge,
		catalog:   deps.Catalog,
		prefs:     deps.Preferences,
		cache:     deps.Cache,
		scorer:    NewScorer(cfg.Weights, deps.LevelChecker),
		now:       deps.Clock,
		recorder:  deps.Recorder,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	return s, nil
}

// Config returns the active configuration.
func (s *Sequencer) Config() Config {
	return *s.config
}

// Scorer returns the scorer used for ranking.
func (s *Sequencer) Scorer() *Scorer {
	return s.scorer
}

// vocabulary holds the lowercased known and due word sets of one learner.
type vocabulary struct {
	known map[string]struct{}
	due   map[string]struct{}
}

func emptyVocabulary() vocabulary {
	return vocabulary{known: map[string]struct{}{}, due: map[string]struct{}{}}
}

// target is the resolved ranking context of one request.
type target struct {
	tier    int
	bias    int
	pathID  *string
	nextSeq *int
}

// scored is a candidate that passed the score floor.
type scored struct {
	item      *ContentItem
	score     float64
	breakdown ScoreBreakdown
}

// GetAdaptiveFeed returns a ranked page of content for one learner.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) GetAdaptiveFeed(ctx context.Context, opts FeedOptions) (*FeedResult, error) {
	start := time.Now()

	opts, limit, err := s.prepareOptions(opts)
	if err != nil {
		return nil, err
	}
	logger := s.requestLogger(opts)

	cacheable := s.cacheable(opts)
	if cacheable {
		res, hit, err := s.tryCachedFeed(ctx, opts, limit)
		if err != nil {
			return nil, err
		}
		if hit {
			logger.Debug().
				Int("returned", len(res.Items)).
				Bool("from_cache", true).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Msg("feed served from cache")
			return res, nil
		}
	}

	user, err := s.users.User(ctx, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, notFound(opFeed, fmt.Sprintf("user %q does not exist", opts.UserID))
	}

	pref, err := s.prefs.Preference(ctx, opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("load preference: %w", err)
	}

	now := s.now()
	vocab, err := s.loadVocabulary(ctx, opts.UserID, now)
	if err != nil {
		return nil, err
	}

	tgt, err := s.resolveTarget(ctx, user, pref, opts)
	if err != nil {
		return nil, err
	}

	candidates, err := s.fetchCandidates(ctx, user, tgt, opts)
	if err != nil {
		return nil, fmt.Errorf("get candidates: %w", err)
	}

	ranked := s.rank(candidates, tgt, vocab)

	page := paginate(ranked, opts.Offset, limit)
	items := make([]FeedItem, 0, len(page))
	for i := range page {
		items = append(items, s.serialize(page[i].item, vocab.known))
		if opts.Explain {
			score, breakdown := page[i].score, page[i].breakdown
			items[i].Score = &score
			items[i].ScoreBreakdown = &breakdown
		}
	}

	pathID, seq := selectedContext(items, tgt)

	err = s.prefs.SavePreference(ctx, opts.UserID, PreferenceUpdate{
		Previous:             pref,
		DifficultyBias:       tgt.bias,
		CurrentPathID:        pathID,
		CurrentSequenceOrder: seq,
		Feedback:             opts.Feedback,
		At:                   now,
		FeedbackLogCap:       s.config.FeedbackLogCap,
	})
	s.recorder.PreferenceWrite(err)
	if err != nil {
		return nil, fmt.Errorf("save preference: %w", err)
	}

	if cacheable && len(items) > 0 {
		if err := s.populateCache(ctx, opts.UserID, ranked); err != nil {
			return nil, err
		}
	}

	logger.Debug().
		Int("target_tier", tgt.tier).
		Int("candidates", len(candidates)).
		Int("scored", len(ranked)).
		Int("returned", len(items)).
		Bool("from_cache", false).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("feed complete")

	return &FeedResult{
		Items:     items,
		Total:     len(ranked),
		FromCache: false,
		Context: FeedContext{
			TargetDifficultyTier: tgt.tier,
			LearningPathID:       pathID,
			SequenceOrder:        seq,
		},
	}, nil
}

// GetAdaptiveNext returns the single best next item, or nil when nothing
// qualifies. It never reads or writes the feed cache.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) GetAdaptiveNext(ctx context.Context, opts FeedOptions) (*FeedItem, error) {
	opts.Limit = 1
	opts.Offset = 0
	opts.SkipCache = true

	res, err := s.GetAdaptiveFeed(ctx, opts)
	if err != nil {
		var oe *OpError
		if errors.As(err, &oe) && oe.Op == opFeed {
			return nil, &OpError{Op: opNext, Kind: oe.Kind, Field: oe.Field, Err: oe.Err}
		}
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	item := res.Items[0]
	return &item, nil
}

// prepareOptions validates the request and applies defaults.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) prepareOptions(opts FeedOptions) (FeedOptions, int, error) {
	opts.UserID = strings.TrimSpace(opts.UserID)
	if opts.UserID == "" {
		return opts, 0, invalidArgument(opFeed, "user_id", "user id is required")
	}
	if !opts.Feedback.Valid() {
		return opts, 0, invalidArgument(opFeed, "feedback", fmt.Sprintf("unknown feedback %q", opts.Feedback))
	}
	if opts.Limit < 0 {
		return opts, 0, invalidArgument(opFeed, "limit", "limit must not be negative")
	}
	if opts.Offset < 0 {
		return opts, 0, invalidArgument(opFeed, "offset", "offset must not be negative")
	}

	limit := opts.Limit
	if limit == 0 {
		limit = s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}
	if opts.RequestID == "" {
		opts.RequestID = uuid.New().String()[:8]
	}
	return opts, limit, nil
}

//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) requestLogger(opts FeedOptions) zerolog.Logger {
	return s.logger.With().
		Str("request_id", opts.RequestID).
		Str("user_id", opts.UserID).
		Str("feedback", string(opts.Feedback)).
		Logger()
}

// cacheable reports whether the request may read and populate the feed cache.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) cacheable(opts FeedOptions) bool {
	return s.cache != nil && !opts.SkipCache && opts.Offset == 0 && opts.Feedback == FeedbackNone
}

// tryCachedFeed serves the cached ranking without re-personalizing it.
// Excluded ids and the current item are dropped from the cached list; when
// nothing is left the request falls through to a full computation.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) tryCachedFeed(ctx context.Context, opts FeedOptions, limit int) (*FeedResult, bool, error) {
	ids, found, err := s.cache.Get(ctx, opts.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("read feed cache: %w", err)
	}
	if !found || len(ids) == 0 {
		s.recorder.CacheLookup(false)
		return nil, false, nil
	}
	s.recorder.CacheLookup(true)

	content, err := s.catalog.ContentByIDs(ctx, ids)
	if err != nil {
		return nil, false, fmt.Errorf("load cached content: %w", err)
	}

	byID := make(map[string]*ContentItem, len(content))
	for i := range content {
		byID[content[i].ID] = &content[i]
	}
	exclude := buildExcludeSet(opts)
	ordered := make([]*ContentItem, 0, len(ids))
	for _, id := range ids {
		if _, skip := exclude[id]; skip {
			continue
		}
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	if len(ordered) == 0 {
		return nil, false, nil
	}

	lo := min(opts.Offset, len(ordered))
	hi := min(lo+limit, len(ordered))
	empty := emptyVocabulary()
	items := make([]FeedItem, 0, hi-lo)
	for _, item := range ordered[lo:hi] {
		items = append(items, s.serialize(item, empty.known))
	}

	return &FeedResult{
		Items:     items,
		Total:     len(ordered),
		FromCache: true,
	}, true, nil
}

// loadVocabulary builds the known and due word sets.
func (s *Sequencer) loadVocabulary(ctx context.Context, userID string, now time.Time) (vocabulary, error) {
	records, err := s.knowledge.WordKnowledge(ctx, userID, s.config.MinKnowledgeConfidence)
	if err != nil {
		return vocabulary{}, fmt.Errorf("load word knowledge: %w", err)
	}

	v := emptyVocabulary()
	for i := range records {
		word := strings.ToLower(strings.TrimSpace(records[i].Word))
		if word == "" {
			continue
		}
		if records[i].ConfidenceScore >= s.config.KnownThreshold {
			v.known[word] = struct{}{}
		}
		if r := records[i].NextReviewAt; r != nil && !r.After(now) {
			v.due[word] = struct{}{}
		}
	}
	return v, nil
}

// resolveTarget derives the tier, bias, path and next sequence for a request.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) resolveTarget(ctx context.Context, user *User, pref *UserPreference, opts FeedOptions) (target, error) {
	storedBias := 0
	var tgt target
	if pref != nil {
		storedBias = pref.DifficultyBias
		tgt.pathID = pref.CurrentPathID
		tgt.nextSeq = pref.CurrentSequenceOrder
	}
	tgt.tier, tgt.bias = ResolveTier(user.CurrentLevel, storedBias, opts.Feedback)

	if opts.CurrentContentID == "" {
		return tgt, nil
	}

	current, err := s.catalog.ContentContext(ctx, opts.CurrentContentID)
	if err != nil {
		return target{}, fmt.Errorf("load current content: %w", err)
	}
	if current == nil {
		s.logger.Debug().
			Str("content_id", opts.CurrentContentID).
			Msg("current content not found, keeping stored path context")
		return tgt, nil
	}

	if current.LearningPathID != nil {
		tgt.pathID = current.LearningPathID
	}
	if current.SequenceOrder != nil {
		next := *current.SequenceOrder + 1
		tgt.nextSeq = &next
	}
	if opts.Feedback == FeedbackNone && current.DifficultyTier != nil {
		tgt.tier = ClampTier(*current.DifficultyTier)
	}
	return tgt, nil
}

// fetchCandidates reads the candidate window and drops excluded ids.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (s *Sequencer) fetchCandidates(ctx context.Context, user *User, tgt target, opts FeedOptions) ([]ContentItem, error) {
	exclude := buildExcludeSet(opts)
	excludeIDs := make([]string, 0, len(exclude))
	for id := range exclude {
		excludeIDs = append(excludeIDs, id)
	}
	sort.Strings(excludeIDs)

	lo, hi := TierWindow(tgt.tier)
	candidates, err := s.catalog.Candidates(ctx, CandidateQuery{
		Language:   user.TargetLanguage,
		MinTier:    lo,
		MaxTier:    hi,
		ExcludeIDs: excludeIDs,
		Limit:      s.config.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	filtered := candidates[:0:0]
	for i := range candidates {
		if _, skip := exclude[candidates[i].ID]; skip {
			continue
		}
		filtered = append(filtered, candidates[i])
	}
	if len(filtered) > s.config.CandidateLimit {
		filtered = filtered[:s.config.CandidateLimit]
	}
	s.recorder.Candidates(len(filtered))
	return filtered, nil
}

//nolint:gocritic // hugeParam: opts passed by value for immutability
func buildExcludeSet(opts FeedOptions) map[string]struct{} {
	exclude := make(map[string]struct{}, len(opts.ExcludeIDs)+1)
	if opts.CurrentContentID != "" {
		exclude[opts.CurrentContentID] = struct{}{}
	}
	for _, id := range opts.ExcludeIDs {
		if id = strings.TrimSpace(id); id != "" {
			exclude[id] = struct{}{}
		}
	}
	return exclude
}

// rank scores candidates, applies the floor and sorts by score descending.
// Equal scores keep the catalog order.
func (s *Sequencer) rank(candidates []ContentItem, tgt target, vocab vocabulary) []scored {
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		item := &candidates[i]
		b := s.scorer.Breakdown(ScoreInput{
			Item:                item,
			KnownPercentage:     knownPercentage(item.Words, vocab.known),
			TargetTier:          tgt.tier,
			TargetPathID:        tgt.pathID,
			TargetNextSequence:  tgt.nextSeq,
			DueWordBoost:        anyWordIn(item.Words, vocab.due),
			PreferredDifficulty: s.config.PreferredDifficulty,
		})
		score := b.Total()
		if score <= s.config.ScoreFloor {
			continue
		}
		ranked = append(ranked, scored{item: item, score: score, breakdown: b})
	}
	s.recorder.Scored(len(ranked), len(candidates)-len(ranked))

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

func paginate(ranked []scored, offset, limit int) []scored {
	lo := min(offset, len(ranked))
	hi := min(lo+limit, len(ranked))
	return ranked[lo:hi]
}

// populateCache stores the head of the ranking for the next default request.
func (s *Sequencer) populateCache(ctx context.Context, userID string, ranked []scored) error {
	n := min(len(ranked), s.config.CacheSize)
	ids := make([]string, 0, n)
	for _, r := range ranked[:n] {
		ids = append(ids, r.item.ID)
	}

	err := s.cache.Set(ctx, userID, ids, s.config.CacheTTL)
	s.recorder.CacheWrite(err)
	if err != nil {
		return fmt.Errorf("write feed cache: %w", err)
	}
	return nil
}

// serialize decorates an item with the learner's vocabulary insight.
func (s *Sequencer) serialize(item *ContentItem, known map[string]struct{}) FeedItem {
	newWords := make([]string, 0, s.config.NewWordsLimit)
	seen := make(map[string]struct{}, len(item.Words))
	for _, w := range item.Words {
		if len(newWords) >= s.config.NewWordsLimit {
			break
		}
		word := strings.ToLower(strings.TrimSpace(w))
		if word == "" {
			continue
		}
		if _, ok := known[word]; ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		newWords = append(newWords, word)
	}

	return FeedItem{
		ContentItem:          *item,
		NewWords:             newWords,
		KnownWordsPercentage: knownPercentage(item.Words, known),
	}
}

// selectedContext picks the path and sequence of the first page item that
// carries them, falling back to the resolved target.
func selectedContext(items []FeedItem, tgt target) (*string, *int) {
	pathID, seq := tgt.pathID, tgt.nextSeq
	var pathSet, seqSet bool
	for i := range items {
		if !pathSet && items[i].LearningPathID != nil {
			pathID, pathSet = items[i].LearningPathID, true
		}
		if !seqSet && items[i].SequenceOrder != nil {
			seq, seqSet = items[i].SequenceOrder, true
		}
		if pathSet && seqSet {
			break
		}
	}
	return pathID, seq
}

// knownPercentage is the fraction of words present in known. Empty word
// lists score 0.
func knownPercentage(words []string, known map[string]struct{}) float64 {
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if _, ok := known[strings.ToLower(strings.TrimSpace(w))]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

func anyWordIn(words []string, set map[string]struct{}) bool {
	if len(set) == 0 {
		return false
	}
	for _, w := range words {
		if _, ok := set[strings.ToLower(strings.TrimSpace(w))]; ok {
			return true
		}
	}
	return false
}
