// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

// vocabStore returns a store with one A2 learner who knows "hola" and "casa".
func vocabStore() *mockStore {
	store := newMockStore()
	store.addUser("u1", "A2")
	store.knowledge["u1"] = []WordKnowledge{
		{Word: "hola", ConfidenceScore: 0.9},
		{Word: "Casa", ConfidenceScore: 0.7},
		{Word: "perro", ConfidenceScore: 0.3},
		{Word: "gato", ConfidenceScore: 0.05},
	}
	store.content = []ContentItem{
		item("c1", 2, "Hola", "casa", "perro"),
		item("c2", 2, "gato"),
		item("c3", 3, "hola"),
		item("c6", 6, "hola"),
	}
	return store
}

func TestGetAdaptiveFeed_Validation(t *testing.T) {
	t.Parallel()

	s := newTestSequencer(t, vocabStore(), nil, nil)
	tests := []struct {
		name string
		opts FeedOptions
	}{
		{"empty user", FeedOptions{}},
		{"blank user", FeedOptions{UserID: "   "}},
		{"unknown feedback", FeedOptions{UserID: "u1", Feedback: "meh"}},
		{"negative limit", FeedOptions{UserID: "u1", Limit: -1}},
		{"negative offset", FeedOptions{UserID: "u1", Offset: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.GetAdaptiveFeed(context.Background(), tt.opts)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestGetAdaptiveFeed_UnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestSequencer(t, vocabStore(), nil, nil)
	_, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "nobody"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	_, err = s.GetAdaptiveNext(context.Background(), FeedOptions{UserID: "nobody"})
	var oe *OpError
	if !errors.As(err, &oe) || oe.Op != opNext || oe.Kind != KindNotFound {
		t.Errorf("GetAdaptiveNext error = %v, want not_found from %s", err, opNext)
	}
}

func TestGetAdaptiveFeed_CloserTierRanksFirst(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	s := newTestSequencer(t, store, nil, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", SkipCache: true})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}

	ids := itemIDs(res.Items)
	if len(ids) == 0 || ids[0] != "c1" {
		t.Fatalf("ids = %v, want c1 first", ids)
	}
	pos := map[string]int{}
	for i, id := range ids {
		pos[id] = i
	}
	if p6, ok := pos["c6"]; ok && p6 < pos["c1"] {
		t.Errorf("tier 6 item ranked above tier 2 item: %v", ids)
	}
	if res.Context.TargetDifficultyTier != 2 {
		t.Errorf("TargetDifficultyTier = %d, want 2", res.Context.TargetDifficultyTier)
	}

	q := store.queries[0]
	if q.Language != "es" || q.MinTier != 1 || q.MaxTier != 3 || q.Limit != 250 {
		t.Errorf("candidate query = %+v", q)
	}
	if store.knowledgeFloor != 0.1 {
		t.Errorf("knowledge floor = %f, want 0.1", store.knowledgeFloor)
	}
}

func TestGetAdaptiveFeed_SerializesVocabulary(t *testing.T) {
	t.Parallel()

	s := newTestSequencer(t, vocabStore(), nil, nil)
	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", SkipCache: true})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}

	c1 := res.Items[0]
	if !reflect.DeepEqual(c1.NewWords, []string{"perro"}) {
		t.Errorf("NewWords = %v, want [perro]", c1.NewWords)
	}
	if !approxEqual(c1.KnownWordsPercentage, 2.0/3.0) {
		t.Errorf("KnownWordsPercentage = %f, want 2/3", c1.KnownWordsPercentage)
	}
	if c1.Score != nil || c1.ScoreBreakdown != nil {
		t.Error("scores should only be attached when Explain is set")
	}
}

func TestGetAdaptiveFeed_NewWordsCappedAndDeduplicated(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A1")
	words := []string{"Uno", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve", "diez", "once", "doce"}
	store.content = []ContentItem{item("long", 1, words...)}
	s := newTestSequencer(t, store, nil, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	got := res.Items[0].NewWords
	want := []string{"uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve", "diez"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewWords = %v, want %v", got, want)
	}
}

func TestGetAdaptiveFeed_TooHardTwiceStoresMinusTwo(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	store.addUser("u2", "B1")
	s := newTestSequencer(t, store, nil, nil)

	for i := 0; i < 2; i++ {
		if _, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u2", Feedback: FeedbackTooHard}); err != nil {
			t.Fatalf("call %d: GetAdaptiveFeed() error = %v", i, err)
		}
	}

	pref := store.pref("u2")
	if pref.DifficultyBias != -2 {
		t.Errorf("DifficultyBias = %d, want -2", pref.DifficultyBias)
	}
	if len(pref.RecentFeedback) != 2 {
		t.Errorf("RecentFeedback len = %d, want 2", len(pref.RecentFeedback))
	}
}

func TestGetAdaptiveFeed_BiasStaysBounded(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	s := newTestSequencer(t, store, nil, nil)

	for i := 0; i < 6; i++ {
		res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", Feedback: FeedbackTooEasy})
		if err != nil {
			t.Fatalf("GetAdaptiveFeed() error = %v", err)
		}
		if tier := res.Context.TargetDifficultyTier; tier < MinTier || tier > MaxTier {
			t.Fatalf("tier %d out of range", tier)
		}
	}
	if got := store.pref("u1").DifficultyBias; got != MaxBias {
		t.Errorf("DifficultyBias = %d, want %d", got, MaxBias)
	}
}

func TestGetAdaptiveFeed_FeedbackLogCapped(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	s := newTestSequencer(t, store, nil, nil)
	calls := 0
	s.now = func() time.Time { return testNow.Add(time.Duration(calls) * time.Minute) }

	for calls = 1; calls <= 13; calls++ {
		if _, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", Feedback: FeedbackPerfect}); err != nil {
			t.Fatalf("call %d: GetAdaptiveFeed() error = %v", calls, err)
		}
	}

	log := store.pref("u1").RecentFeedback
	if len(log) != 12 {
		t.Fatalf("RecentFeedback len = %d, want 12", len(log))
	}
	if want := testNow.Add(2 * time.Minute); !log[0].At.Equal(want) {
		t.Errorf("oldest At = %v, want %v", log[0].At, want)
	}
	if want := testNow.Add(13 * time.Minute); !log[11].At.Equal(want) {
		t.Errorf("newest At = %v, want %v", log[11].At, want)
	}
}

func TestGetAdaptiveFeed_ExcludesCurrentAndExcluded(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A2")
	store.ignoreExclude = true
	store.content = []ContentItem{item("a", 2), item("b", 2), item("c", 2), item("d", 1)}
	s := newTestSequencer(t, store, nil, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{
		UserID:           "u1",
		CurrentContentID: "a",
		ExcludeIDs:       []string{"b", "", "b"},
		SkipCache:        true,
	})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	for _, id := range itemIDs(res.Items) {
		if id == "a" || id == "b" {
			t.Errorf("excluded item %q returned", id)
		}
	}
	if got := store.queries[0].ExcludeIDs; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("query ExcludeIDs = %v, want [a b]", got)
	}
}

func TestGetAdaptiveFeed_CurrentContentPinsContext(t *testing.T) {
	t.Parallel()

	newStore := func() *mockStore {
		store := newMockStore()
		store.addUser("u1", "A2")
		cur := item("cur", 5)
		cur.LearningPathID, cur.SequenceOrder = ptr("p1"), ptr(3)
		next := item("next", 5)
		next.LearningPathID, next.SequenceOrder = ptr("p1"), ptr(4)
		other := item("other", 5)
		other.LearningPathID, other.SequenceOrder = ptr("p2"), ptr(4)
		store.content = []ContentItem{cur, next, other}
		return store
	}

	t.Run("snaps tier without feedback", func(t *testing.T) {
		t.Parallel()
		store := newStore()
		s := newTestSequencer(t, store, nil, nil)

		res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", CurrentContentID: "cur"})
		if err != nil {
			t.Fatalf("GetAdaptiveFeed() error = %v", err)
		}
		if res.Context.TargetDifficultyTier != 5 {
			t.Errorf("TargetDifficultyTier = %d, want 5", res.Context.TargetDifficultyTier)
		}
		if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, []string{"next", "other"}) {
			t.Errorf("ids = %v, want [next other]", ids)
		}
		if p := res.Context.LearningPathID; p == nil || *p != "p1" {
			t.Errorf("LearningPathID = %v, want p1", p)
		}
		if seq := res.Context.SequenceOrder; seq == nil || *seq != 4 {
			t.Errorf("SequenceOrder = %v, want 4", seq)
		}
		pref := store.pref("u1")
		if pref.CurrentPathID == nil || *pref.CurrentPathID != "p1" || pref.CurrentSequenceOrder == nil || *pref.CurrentSequenceOrder != 4 {
			t.Errorf("stored preference = %+v", pref)
		}
	})

	t.Run("feedback keeps computed tier", func(t *testing.T) {
		t.Parallel()
		s := newTestSequencer(t, newStore(), nil, nil)

		res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", CurrentContentID: "cur", Feedback: FeedbackTooEasy})
		if err != nil {
			t.Fatalf("GetAdaptiveFeed() error = %v", err)
		}
		if res.Context.TargetDifficultyTier != 4 {
			t.Errorf("TargetDifficultyTier = %d, want 4", res.Context.TargetDifficultyTier)
		}
	})

	t.Run("unknown content is not fatal", func(t *testing.T) {
		t.Parallel()
		s := newTestSequencer(t, newStore(), nil, nil)

		res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", CurrentContentID: "ghost"})
		if err != nil {
			t.Fatalf("GetAdaptiveFeed() error = %v", err)
		}
		if res.Context.TargetDifficultyTier != 2 {
			t.Errorf("TargetDifficultyTier = %d, want 2", res.Context.TargetDifficultyTier)
		}
	})
}

func TestGetAdaptiveFeed_StoredPathContextUsed(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "B1")
	store.prefs["u1"] = UserPreference{UserID: "u1", CurrentPathID: ptr("p2"), CurrentSequenceOrder: ptr(7)}
	onPath := item("on", 3)
	onPath.LearningPathID, onPath.SequenceOrder = ptr("p2"), ptr(7)
	offPath := item("off", 3)
	offPath.LearningPathID, offPath.SequenceOrder = ptr("p1"), ptr(1)
	store.content = []ContentItem{offPath, onPath}
	s := newTestSequencer(t, store, nil, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if ids := itemIDs(res.Items); ids[0] != "on" {
		t.Errorf("ids = %v, want stored path item first", ids)
	}
}

func TestGetAdaptiveFeed_ScoreFloorIsStrict(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A2")
	flat := item("flat", 2)
	flat.DopamineScore = ptr(0.0)
	lift := item("lift", 2)
	lift.DopamineScore = ptr(0.5)
	store.content = []ContentItem{flat, lift}

	cfg := DefaultConfig()
	cfg.Weights = Weights{Difficulty: 0.25, Dopamine: 0.1}
	s := newTestSequencer(t, store, nil, cfg)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", Explain: true})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, []string{"lift"}) {
		t.Errorf("ids = %v, want [lift]", ids)
	}
	if res.Total != 1 {
		t.Errorf("Total = %d, want 1", res.Total)
	}
	if sc := res.Items[0].Score; sc == nil || !approxEqual(*sc, 0.30) {
		t.Errorf("Score = %v, want 0.30", sc)
	}
}

func TestGetAdaptiveFeed_EmptyFeedIsNotAnError(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "C2")
	cache := newMockCache()
	s := newTestSequencer(t, store, cache, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if res.Items == nil || len(res.Items) != 0 || res.Total != 0 {
		t.Errorf("result = %+v, want empty non-nil items", res)
	}
	if cache.setCalls.Load() != 0 {
		t.Error("empty feed should not be cached")
	}
	if store.saveCalls != 1 {
		t.Errorf("saveCalls = %d, want 1", store.saveCalls)
	}
}

func TestGetAdaptiveFeed_Pagination(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A2")
	for i, d := range []float64{0.9, 0.7, 0.5, 0.3, 0.1} {
		it := item(fmt.Sprintf("i%d", i+1), 2)
		it.DopamineScore = ptr(d)
		store.content = append(store.content, it)
	}
	s := newTestSequencer(t, store, nil, nil)

	tests := []struct {
		offset, limit int
		want          []string
	}{
		{0, 0, []string{"i1", "i2", "i3", "i4", "i5"}},
		{2, 2, []string{"i3", "i4"}},
		{4, 10, []string{"i5"}},
		{9, 2, []string{}},
	}
	for _, tt := range tests {
		res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", Offset: tt.offset, Limit: tt.limit})
		if err != nil {
			t.Fatalf("GetAdaptiveFeed() error = %v", err)
		}
		if ids := itemIDs(res.Items); !reflect.DeepEqual(ids, tt.want) {
			t.Errorf("offset %d limit %d: ids = %v, want %v", tt.offset, tt.limit, ids, tt.want)
		}
		if res.Total != 5 {
			t.Errorf("Total = %d, want 5", res.Total)
		}
	}
}

func TestGetAdaptiveFeed_DefaultLimit(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A2")
	for i := 0; i < 12; i++ {
		store.content = append(store.content, item(fmt.Sprintf("i%02d", i), 2))
	}
	s := newTestSequencer(t, store, nil, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if len(res.Items) != 10 || res.Total != 12 {
		t.Errorf("len(Items) = %d, Total = %d, want 10 and 12", len(res.Items), res.Total)
	}
}

func TestGetAdaptiveFeed_DueWordsBoostRanking(t *testing.T) {
	t.Parallel()

	build := func(review time.Time) *mockStore {
		store := newMockStore()
		store.addUser("u1", "B1")
		store.knowledge["u1"] = []WordKnowledge{{Word: "repaso", ConfidenceScore: 0.3, NextReviewAt: &review}}
		a := item("a", 3, "otro")
		a.DopamineScore = ptr(0.9)
		b := item("b", 3, "repaso")
		b.DopamineScore = ptr(0.5)
		store.content = []ContentItem{a, b}
		return store
	}

	tests := []struct {
		name   string
		review time.Time
		first  string
	}{
		{"due word wins", testNow.Add(-time.Hour), "b"},
		{"due exactly now", testNow, "b"},
		{"future review", testNow.Add(time.Hour), "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := build(tt.review)
			s := newTestSequencer(t, store, nil, nil)
			res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
			if err != nil {
				t.Fatalf("GetAdaptiveFeed() error = %v", err)
			}
			if res.Items[0].ID != tt.first {
				t.Errorf("first = %s, want %s", res.Items[0].ID, tt.first)
			}
			for _, it := range res.Items {
				if it.ID == "b" && !reflect.DeepEqual(it.NewWords, []string{"repaso"}) {
					t.Errorf("due but unknown word should stay new, got %v", it.NewWords)
				}
			}
		})
	}
}

func TestGetAdaptiveFeed_CacheRoundTrip(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	cache := newMockCache()
	s := newTestSequencer(t, store, cache, nil)
	ctx := context.Background()

	first, err := s.GetAdaptiveFeed(ctx, FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("first GetAdaptiveFeed() error = %v", err)
	}
	if first.FromCache {
		t.Fatal("first call should not be served from cache")
	}
	if cache.setCalls.Load() != 1 {
		t.Fatalf("setCalls = %d, want 1", cache.setCalls.Load())
	}
	if cache.lastTTL != 1800*time.Second {
		t.Errorf("ttl = %v, want 1800s", cache.lastTTL)
	}
	if got, want := cache.entries["u1"], itemIDs(first.Items); !reflect.DeepEqual(got, want) {
		t.Errorf("cached ids = %v, want %v", got, want)
	}
	saves := store.saveCalls

	second, err := s.GetAdaptiveFeed(ctx, FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("second GetAdaptiveFeed() error = %v", err)
	}
	if !second.FromCache {
		t.Fatal("second call should be served from cache")
	}
	if !reflect.DeepEqual(itemIDs(second.Items), itemIDs(first.Items)) {
		t.Errorf("cached order = %v, want %v", itemIDs(second.Items), itemIDs(first.Items))
	}
	if !reflect.DeepEqual(second.Context, FeedContext{}) {
		t.Errorf("cached context = %+v, want zero", second.Context)
	}
	if store.saveCalls != saves {
		t.Error("cache hit should not persist preferences")
	}

	// The cached payload is not personalized.
	personal, cached := first.Items[0], second.Items[0]
	if reflect.DeepEqual(personal.NewWords, cached.NewWords) {
		t.Errorf("cache path NewWords %v should differ from personalized %v", cached.NewWords, personal.NewWords)
	}
	if !reflect.DeepEqual(cached.NewWords, []string{"hola", "casa", "perro"}) {
		t.Errorf("cached NewWords = %v, want every word", cached.NewWords)
	}
	if cached.KnownWordsPercentage != 0 {
		t.Errorf("cached KnownWordsPercentage = %f, want 0", cached.KnownWordsPercentage)
	}
}

func TestGetAdaptiveFeed_CacheCapsAtFifty(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A2")
	for i := 0; i < 80; i++ {
		store.content = append(store.content, item(fmt.Sprintf("i%02d", i), 2))
	}
	cache := newMockCache()
	s := newTestSequencer(t, store, cache, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", Limit: 5})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if len(res.Items) != 5 {
		t.Errorf("len(Items) = %d, want 5", len(res.Items))
	}
	if n := len(cache.entries["u1"]); n != 50 {
		t.Errorf("cached %d ids, want 50", n)
	}
}

func TestGetAdaptiveFeed_CacheBypassed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts FeedOptions
	}{
		{"feedback", FeedOptions{UserID: "u1", Feedback: FeedbackPerfect}},
		{"offset", FeedOptions{UserID: "u1", Offset: 1}},
		{"skip cache", FeedOptions{UserID: "u1", SkipCache: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cache := newMockCache()
			cache.entries["u1"] = []string{"c2"}
			s := newTestSequencer(t, vocabStore(), cache, nil)

			res, err := s.GetAdaptiveFeed(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("GetAdaptiveFeed() error = %v", err)
			}
			if res.FromCache {
				t.Error("result should not come from cache")
			}
			if cache.getCalls.Load() != 0 || cache.setCalls.Load() != 0 {
				t.Errorf("cache touched: get=%d set=%d", cache.getCalls.Load(), cache.setCalls.Load())
			}
		})
	}
}

func TestGetAdaptiveFeed_CachedIDsMissingFromCatalog(t *testing.T) {
	t.Parallel()

	cache := newMockCache()
	cache.entries["u1"] = []string{"gone", "c3", "c1"}
	s := newTestSequencer(t, vocabStore(), cache, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if !res.FromCache || !reflect.DeepEqual(itemIDs(res.Items), []string{"c3", "c1"}) {
		t.Errorf("result = %v from cache %v, want [c3 c1] from cache", itemIDs(res.Items), res.FromCache)
	}
}

func TestGetAdaptiveFeed_CacheHitHonoursExclusions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cached    []string
		opts      FeedOptions
		fromCache bool
		wantIDs   []string
	}{
		{
			name:      "excluded and current dropped",
			cached:    []string{"c1", "c2", "c3"},
			opts:      FeedOptions{UserID: "u1", ExcludeIDs: []string{"c1"}, CurrentContentID: "c2"},
			fromCache: true,
			wantIDs:   []string{"c3"},
		},
		{
			name:      "nothing left falls through",
			cached:    []string{"c1"},
			opts:      FeedOptions{UserID: "u1", ExcludeIDs: []string{"c1"}},
			fromCache: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache := newMockCache()
			cache.entries["u1"] = tt.cached
			s := newTestSequencer(t, vocabStore(), cache, nil)

			res, err := s.GetAdaptiveFeed(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("GetAdaptiveFeed() error = %v", err)
			}
			if res.FromCache != tt.fromCache {
				t.Fatalf("FromCache = %v, want %v", res.FromCache, tt.fromCache)
			}
			got := itemIDs(res.Items)
			if tt.wantIDs != nil && !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			if tt.fromCache && res.Total != len(tt.wantIDs) {
				t.Errorf("Total = %d, want %d", res.Total, len(tt.wantIDs))
			}
			for _, id := range got {
				if id == tt.opts.CurrentContentID || slices.Contains(tt.opts.ExcludeIDs, id) {
					t.Errorf("item %s returned despite being excluded", id)
				}
			}
		})
	}
}

func TestGetAdaptiveFeed_EmptyCachedListFallsThrough(t *testing.T) {
	t.Parallel()

	cache := newMockCache()
	cache.entries["u1"] = []string{}
	s := newTestSequencer(t, vocabStore(), cache, nil)

	res, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveFeed() error = %v", err)
	}
	if res.FromCache {
		t.Error("empty cached list should not short-circuit")
	}
}

func TestGetAdaptiveFeed_ErrorsPropagate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*mockStore, *mockCache)
	}{
		{"user lookup", func(s *mockStore, _ *mockCache) { s.userErr = errBoom }},
		{"candidates", func(s *mockStore, _ *mockCache) { s.candidatesErr = errBoom }},
		{"save preference", func(s *mockStore, _ *mockCache) { s.saveErr = errBoom }},
		{"cache read", func(_ *mockStore, c *mockCache) { c.getErr = errBoom }},
		{"cache write", func(_ *mockStore, c *mockCache) { c.setErr = errBoom }},
		{"current content", func(s *mockStore, _ *mockCache) { s.contentErr = errBoom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, cache := vocabStore(), newMockCache()
			tt.mutate(store, cache)
			s := newTestSequencer(t, store, cache, nil)

			_, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1", CurrentContentID: "c3"})
			if !errors.Is(err, errBoom) {
				t.Errorf("error = %v, want wrapped errBoom", err)
			}
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) {
				t.Error("infrastructure failures must not be classified")
			}
		})
	}
}

func TestGetAdaptiveNext(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	cache := newMockCache()
	cache.entries["u1"] = []string{"c3"}
	s := newTestSequencer(t, store, cache, nil)

	next, err := s.GetAdaptiveNext(context.Background(), FeedOptions{UserID: "u1", Limit: 20, Offset: 3})
	if err != nil {
		t.Fatalf("GetAdaptiveNext() error = %v", err)
	}
	if next == nil || next.ID != "c1" {
		t.Fatalf("next = %+v, want c1", next)
	}
	if cache.getCalls.Load() != 0 || cache.setCalls.Load() != 0 {
		t.Errorf("GetAdaptiveNext touched the cache: get=%d set=%d", cache.getCalls.Load(), cache.setCalls.Load())
	}
	if store.saveCalls != 1 {
		t.Errorf("saveCalls = %d, want 1", store.saveCalls)
	}
}

func TestGetAdaptiveNext_NothingQualifies(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.addUser("u1", "A0")
	s := newTestSequencer(t, store, newMockCache(), nil)

	next, err := s.GetAdaptiveNext(context.Background(), FeedOptions{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetAdaptiveNext() error = %v", err)
	}
	if next != nil {
		t.Errorf("next = %+v, want nil", next)
	}
}

func TestGetAdaptiveFeed_RecorderCallbacks(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	rec := &mockRecorder{}
	s, err := NewSequencer(nil, Deps{
		Users:       store,
		Knowledge:   store,
		Catalog:     store,
		Preferences: store,
		Cache:       newMockCache(),
		Recorder:    rec,
	}, testLogger())
	if err != nil {
		t.Fatalf("NewSequencer() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: "u1"}); err != nil {
			t.Fatalf("GetAdaptiveFeed() error = %v", err)
		}
	}
	if rec.misses.Load() != 1 || rec.hits.Load() != 1 {
		t.Errorf("misses=%d hits=%d, want 1 and 1", rec.misses.Load(), rec.hits.Load())
	}
	if rec.cacheWrites.Load() != 1 || rec.prefWrites.Load() != 1 {
		t.Errorf("cacheWrites=%d prefWrites=%d, want 1 and 1", rec.cacheWrites.Load(), rec.prefWrites.Load())
	}
	if rec.kept.Load() != 3 {
		t.Errorf("kept = %d, want 3", rec.kept.Load())
	}
}

func TestGetAdaptiveFeed_ConcurrentUsers(t *testing.T) {
	t.Parallel()

	store := vocabStore()
	for i := 0; i < 8; i++ {
		store.addUser(fmt.Sprintf("user-%d", i), "A2")
	}
	s := newTestSequencer(t, store, newMockCache(), nil)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.GetAdaptiveFeed(context.Background(), FeedOptions{UserID: fmt.Sprintf("user-%d", i%8)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent GetAdaptiveFeed() error = %v", err)
		}
	}
}
