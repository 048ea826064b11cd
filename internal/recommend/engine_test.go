package recommend

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

func newTestEngine(catalog CatalogStore, inf Inference, seed int64) *Engine {
	log := logger.NewNop()
	scorer := NewScoringEngine(log, inf)
	sourcer := NewCandidateSourcer(log, catalog)
	factory := func() Rand { return NewSeededRand(seed) }
	return NewEngine(log, catalog, scorer, sourcer, factory)
}

func taggedFixture(n int) []TaggedMovie {
	out := make([]TaggedMovie, n)
	for i := 0; i < n; i++ {
		out[i] = TaggedMovie{
			Movie:    testMovie(int64(i+1), "an overview"),
			Emotions: []string{"happy"},
		}
	}
	return out
}

func TestRecommendReturnsAtMostMax(t *testing.T) {
	catalog := &fakeCatalog{
		tagged: taggedFixture(40),
		pools:  map[string][]*types.Movie{},
	}
	engine := newTestEngine(catalog, &fakeInference{}, 1)

	got, err := engine.Recommend(context.Background(), Params{
		Emotions:           []string{"happy"},
		MaxRecommendations: 10,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d recommendations, want 10", len(got))
	}
	for _, cand := range got {
		if cand.Source != SourceDatabase {
			t.Fatalf("tagged-only catalog produced source %q", cand.Source)
		}
	}
}

func TestRecommendExcludesUserHistory(t *testing.T) {
	catalog := &fakeCatalog{
		tagged:  taggedFixture(20),
		pools:   map[string][]*types.Movie{},
		history: []int64{1, 2, 3},
	}
	engine := newTestEngine(catalog, &fakeInference{}, 1)

	got, err := engine.Recommend(context.Background(), Params{
		Emotions:           []string{"happy"},
		MaxRecommendations: 20,
		UserID:             uuid.New(),
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, cand := range got {
		for _, excluded := range []int64{1, 2, 3} {
			if cand.Movie.ID == excluded {
				t.Fatalf("movie %d from the user's history was recommended", excluded)
			}
		}
	}
	if len(got) != 17 {
		t.Fatalf("got %d recommendations, want 17 after exclusion", len(got))
	}
}

func TestRecommendAnonymousSkipsHistory(t *testing.T) {
	catalog := &fakeCatalog{
		tagged:  taggedFixture(5),
		pools:   map[string][]*types.Movie{},
		history: []int64{1, 2},
	}
	engine := newTestEngine(catalog, &fakeInference{}, 1)

	got, err := engine.Recommend(context.Background(), Params{
		Emotions:           []string{"happy"},
		MaxRecommendations: 5,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// uuid.Nil means anonymous; the history list must not be consulted.
	if len(got) != 5 {
		t.Fatalf("got %d recommendations, want all 5", len(got))
	}
}

func TestRecommendModelPassFillsShortfall(t *testing.T) {
	inf := &fakeInference{
		ready: true,
		pred: emotion.Prediction{
			Accepted:      []string{"happy"},
			Probabilities: map[string]float64{"happy": 0.9},
		},
	}
	catalog := &fakeCatalog{
		tagged: taggedFixture(2),
		pools: map[string][]*types.Movie{
			OrderRandom: {testMovie(100, "o"), testMovie(101, "o"), testMovie(102, "o")},
		},
	}
	engine := newTestEngine(catalog, inf, 1)

	got, err := engine.Recommend(context.Background(), Params{
		Emotions:           []string{"happy"},
		MaxRecommendations: 5,
		MinSimilarity:      0.1,
		EmotionThreshold:   0.3,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d recommendations, want 5", len(got))
	}
	sources := map[string]int{}
	for _, cand := range got {
		sources[cand.Source]++
	}
	if sources[SourceDatabase] != 2 || sources[SourceModel] != 3 {
		t.Fatalf("sources=%v, want 2 database and 3 model", sources)
	}
}

func TestRecommendDeterministicForSeed(t *testing.T) {
	build := func() *Engine {
		catalog := &fakeCatalog{
			tagged: taggedFixture(40),
			pools:  map[string][]*types.Movie{},
		}
		return newTestEngine(catalog, &fakeInference{}, 77)
	}

	a, err := build().Recommend(context.Background(), Params{Emotions: []string{"happy"}, MaxRecommendations: 8})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	b, err := build().Recommend(context.Background(), Params{Emotions: []string{"happy"}, MaxRecommendations: 8})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths diverged: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Movie.ID != b[i].Movie.ID {
			t.Fatalf("same seed diverged at index %d: %d vs %d", i, a[i].Movie.ID, b[i].Movie.ID)
		}
	}
}

func TestModelPassQuotaCountsTaggedCandidates(t *testing.T) {
	pool := make([]*types.Movie, 60)
	for i := range pool {
		pool[i] = testMovie(int64(100+i), "an overview")
	}
	catalog := &fakeCatalog{pools: map[string][]*types.Movie{
		OrderPopular: pool,
		OrderRandom:  pool,
		OrderRecent:  pool,
	}}
	inf := &fakeInference{ready: true, pred: emotion.Prediction{
		Accepted:      []string{"happy"},
		Probabilities: map[string]float64{"happy": 0.9},
	}}
	engine := newTestEngine(catalog, inf, 1)

	scored := make([]*Candidate, 4)
	for i := range scored {
		scored[i] = &Candidate{Movie: testMovie(int64(i+1), "an overview"), Source: SourceDatabase}
	}

	extra, err := engine.modelPass(context.Background(), Params{
		Emotions:           []string{"happy"},
		MaxRecommendations: 5,
		MinSimilarity:      0.1,
	}, scored, map[int64]struct{}{}, NewSeededRand(1))
	if err != nil {
		t.Fatalf("modelPass: %v", err)
	}
	// The tagged candidates count toward the keep quota of 3x5.
	if len(extra) != 11 {
		t.Fatalf("model pass kept %d candidates, want 11", len(extra))
	}
}
