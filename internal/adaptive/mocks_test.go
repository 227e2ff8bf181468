// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func ptr[T any](v T) *T {
	return &v
}

// mockStore implements every store port in memory.
type mockStore struct {
	mu sync.Mutex

	users     map[string]*User
	knowledge map[string][]WordKnowledge
	content   []ContentItem
	prefs     map[string]UserPreference

	// ignoreExclude makes Candidates return excluded ids anyway.
	ignoreExclude bool

	userErr       error
	candidatesErr error
	contentErr    error
	saveErr       error

	queries        []CandidateQuery
	knowledgeFloor float64
	saveCalls      int32
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]*User),
		knowledge: make(map[string][]WordKnowledge),
		prefs:     make(map[string]UserPreference),
	}
}

func (m *mockStore) addUser(id, level string) {
	m.users[id] = &User{ID: id, CurrentLevel: level, TargetLanguage: "es"}
}

func (m *mockStore) User(ctx context.Context, userID string) (*User, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockStore) WordKnowledge(ctx context.Context, userID string, minConfidence float64) ([]WordKnowledge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.knowledgeFloor = minConfidence
	var out []WordKnowledge
	for _, wk := range m.knowledge[userID] {
		if wk.ConfidenceScore >= minConfidence {
			out = append(out, wk)
		}
	}
	return out, nil
}

func (m *mockStore) Candidates(ctx context.Context, q CandidateQuery) ([]ContentItem, error) {
	if m.candidatesErr != nil {
		return nil, m.candidatesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)

	exclude := make(map[string]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		exclude[id] = true
	}

	var out []ContentItem
	for _, c := range m.content {
		if c.Language != q.Language || c.DifficultyTier == nil {
			continue
		}
		if *c.DifficultyTier < q.MinTier || *c.DifficultyTier > q.MaxTier {
			continue
		}
		if exclude[c.ID] && !m.ignoreExclude {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := cmpNullsLast(a.LearningPathID, b.LearningPathID); c != 0 {
			return c < 0
		}
		if c := cmpNullsLast(a.SequenceOrder, b.SequenceOrder); c != 0 {
			return c < 0
		}
		return dopamineOf(a) > dopamineOf(b)
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func cmpNullsLast[T int | string](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	default:
		return 0
	}
}

func dopamineOf(c ContentItem) float64 {
	if c.DopamineScore == nil {
		return defaultDopamine
	}
	return *c.DopamineScore
}

func (m *mockStore) ContentByIDs(ctx context.Context, ids []string) ([]ContentItem, error) {
	if m.contentErr != nil {
		return nil, m.contentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []ContentItem
	// Reverse catalog order so callers cannot rely on it.
	for i := len(m.content) - 1; i >= 0; i-- {
		if want[m.content[i].ID] {
			out = append(out, m.content[i])
		}
	}
	return out, nil
}

func (m *mockStore) ContentContext(ctx context.Context, contentID string) (*ContentContext, error) {
	if m.contentErr != nil {
		return nil, m.contentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.content {
		if c.ID == contentID {
			return &ContentContext{
				ID:             c.ID,
				LearningPathID: c.LearningPathID,
				SequenceOrder:  c.SequenceOrder,
				DifficultyTier: c.DifficultyTier,
			}, nil
		}
	}
	return nil, nil
}

func (m *mockStore) Preference(ctx context.Context, userID string) (*UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockStore) SavePreference(ctx context.Context, userID string, u PreferenceUpdate) error {
	atomic.AddInt32(&m.saveCalls, 1)
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[userID] = MergePreference(userID, u)
	return nil
}

func (m *mockStore) pref(userID string) UserPreference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs[userID]
}

// mockCache implements FeedCache in memory and counts calls.
type mockCache struct {
	mu       sync.Mutex
	entries  map[string][]string
	lastTTL  time.Duration
	getCalls atomic.Int32
	setCalls atomic.Int32
	getErr   error
	setErr   error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]string)}
}

func (c *mockCache) Get(ctx context.Context, userID string) ([]string, bool, error) {
	c.getCalls.Add(1)
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ids, ok := c.entries[userID]
	return ids, ok, nil
}

func (c *mockCache) Set(ctx context.Context, userID string, ids []string, ttl time.Duration) error {
	c.setCalls.Add(1)
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = append([]string(nil), ids...)
	c.lastTTL = ttl
	return nil
}

// mockRecorder counts recorder callbacks.
type mockRecorder struct {
	hits, misses, cacheWrites, prefWrites atomic.Int32
	kept, dropped                         atomic.Int32
}

func (r *mockRecorder) CacheLookup(hit bool) {
	if hit {
		r.hits.Add(1)
		return
	}
	r.misses.Add(1)
}
func (r *mockRecorder) CacheWrite(error)      { r.cacheWrites.Add(1) }
func (r *mockRecorder) Candidates(int)        {}
func (r *mockRecorder) PreferenceWrite(error) { r.prefWrites.Add(1) }
func (r *mockRecorder) Scored(kept, dropped int) {
	r.kept.Add(int32(kept))
	r.dropped.Add(int32(dropped))
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestSequencer(t *testing.T, store *mockStore, cache FeedCache, cfg *Config) *Sequencer {
	t.Helper()
	deps := Deps{
		Users:       store,
		Knowledge:   store,
		Catalog:     store,
		Preferences: store,
		Clock:       func() time.Time { return testNow },
	}
	if cache != nil {
		deps.Cache = cache
	}
	s, err := NewSequencer(cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("NewSequencer() error = %v", err)
	}
	return s
}

func item(id string, tier int, words ...string) ContentItem {
	return ContentItem{
		ID:             id,
		Type:           "video",
		Title:          "Item " + id,
		ContentURL:     "https://cdn.example.com/" + id + ".mp4",
		Words:          words,
		DifficultyTier: ptr(tier),
		Language:       "es",
	}
}

func itemIDs(items []FeedItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
