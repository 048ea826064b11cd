package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// countingInference counts Predict calls so the early-stop behavior can be
// observed.
type countingInference struct {
	mu    sync.Mutex
	calls int
	pred  emotion.Prediction
}

func (ci *countingInference) Predict(string, bool, float64) emotion.Prediction {
	ci.mu.Lock()
	ci.calls++
	ci.mu.Unlock()
	return ci.pred
}

func (ci *countingInference) IsReady() bool { return true }

func moviePool(n int) []*types.Movie {
	out := make([]*types.Movie, n)
	for i := 0; i < n; i++ {
		out[i] = testMovie(int64(i+1), "an overview")
	}
	return out
}

func TestScoreCandidatesParallelKeepsQuota(t *testing.T) {
	inf := &countingInference{
		pred: emotion.Prediction{
			Accepted:      []string{"happy"},
			Probabilities: map[string]float64{"happy": 0.9},
		},
	}
	se := NewScoringEngine(logger.NewNop(), inf)

	kept := se.ScoreCandidatesParallel(context.Background(), moviePool(200), []string{"happy"}, 0.3, 0.1, 15)
	if len(kept) != 15 {
		t.Fatalf("kept=%d, want 15", len(kept))
	}
	for _, cand := range kept {
		if cand == nil || cand.Source != SourceModel {
			t.Fatalf("unexpected candidate %+v", cand)
		}
	}
}

func TestScoreCandidatesParallelFiltersRejections(t *testing.T) {
	// No overlap with requested emotions, every candidate is discarded.
	inf := &countingInference{
		pred: emotion.Prediction{
			Accepted:      []string{"sad"},
			Probabilities: map[string]float64{"sad": 0.9},
		},
	}
	se := NewScoringEngine(logger.NewNop(), inf)

	kept := se.ScoreCandidatesParallel(context.Background(), moviePool(20), []string{"happy"}, 0.3, 0.1, 10)
	if len(kept) != 0 {
		t.Fatalf("kept=%d, want 0", len(kept))
	}
	if inf.calls != 20 {
		t.Fatalf("calls=%d, want the full pool scored", inf.calls)
	}
}

func TestScoreCandidatesParallelEmptyPool(t *testing.T) {
	se := NewScoringEngine(logger.NewNop(), &countingInference{})
	if kept := se.ScoreCandidatesParallel(context.Background(), nil, []string{"happy"}, 0.3, 0.1, 10); kept != nil {
		t.Fatalf("expected nil for empty pool, got %d", len(kept))
	}
}
