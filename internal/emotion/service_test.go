package emotion

import (
	"math"
	"testing"

	"github.com/moodpick/moodpick-backend/internal/logger"
)

type fixedScorer struct {
	prob float64
	err  error
}

func (f fixedScorer) ProbabilityOfPositive(string) (float64, error) {
	return f.prob, f.err
}

func serviceWith(probs map[string]float64) *Service {
	classifiers := make(map[string]Scorer, len(probs))
	for label, p := range probs {
		classifiers[label] = fixedScorer{prob: p}
	}
	return NewService(logger.NewNop(), DefaultCategories, classifiers)
}

func TestPredictNotReady(t *testing.T) {
	s := NewService(logger.NewNop(), DefaultCategories, nil)
	if s.IsReady() {
		t.Fatal("service with no classifiers reported ready")
	}
	pred := s.Predict("a long lonely drama", true, -1)
	if len(pred.Accepted) != 0 {
		t.Fatalf("accepted=%v, want empty", pred.Accepted)
	}
	if len(pred.Probabilities) != 0 {
		t.Fatalf("probabilities=%v, want empty", pred.Probabilities)
	}
	if pred.Threshold != 0 {
		t.Fatalf("threshold=%v, want 0", pred.Threshold)
	}
}

func TestAdaptiveThreshold(t *testing.T) {
	cases := []struct {
		name  string
		probs map[string]float64
		want  float64
	}{
		{
			name:  "confident_max_above_0.7",
			probs: map[string]float64{"happy": 0.9, "sad": 0.1},
			want:  0.5,
		},
		{
			name: "medium_max_uses_scaled_average",
			// max=0.55, avg=0.5, 0.8*avg=0.4
			probs: map[string]float64{"happy": 0.55, "sad": 0.45},
			want:  0.4,
		},
		{
			name: "medium_max_floors_at_0.3",
			// max=0.45, avg=0.25, 0.8*avg=0.2 < 0.3
			probs: map[string]float64{"happy": 0.45, "sad": 0.05},
			want:  0.3,
		},
		{
			name:  "weak_signal_drops_to_0.2",
			probs: map[string]float64{"happy": 0.3, "sad": 0.1},
			want:  0.2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := serviceWith(tc.probs)
			pred := s.Predict("whatever text", true, -1)
			if math.Abs(pred.Threshold-tc.want) > 1e-9 {
				t.Fatalf("threshold=%v, want %v", pred.Threshold, tc.want)
			}
		})
	}
}

func TestAcceptedMatchesThreshold(t *testing.T) {
	s := serviceWith(map[string]float64{"happy": 0.9, "sad": 0.55, "relaxed": 0.2})
	pred := s.Predict("text", true, -1)
	// max=0.9 so threshold is 0.5; happy and sad clear it.
	if pred.Threshold != 0.5 {
		t.Fatalf("threshold=%v, want 0.5", pred.Threshold)
	}
	want := map[string]bool{"happy": true, "sad": true}
	if len(pred.Accepted) != len(want) {
		t.Fatalf("accepted=%v, want happy and sad", pred.Accepted)
	}
	for _, label := range pred.Accepted {
		if !want[label] {
			t.Fatalf("unexpected accepted label %q", label)
		}
	}
}

func TestCustomThreshold(t *testing.T) {
	s := serviceWith(map[string]float64{"happy": 0.35, "sad": 0.25})

	pred := s.Predict("text", false, 0.3)
	if pred.Threshold != 0.3 {
		t.Fatalf("threshold=%v, want 0.3", pred.Threshold)
	}
	if len(pred.Accepted) != 1 || pred.Accepted[0] != "happy" {
		t.Fatalf("accepted=%v, want [happy]", pred.Accepted)
	}

	// Negative means unset and falls back to the default.
	pred = s.Predict("text", false, -1)
	if pred.Threshold != 0.3 {
		t.Fatalf("unset threshold=%v, want default 0.3", pred.Threshold)
	}
}

func TestUnloadedLabelNeverAccepted(t *testing.T) {
	// Only two classifiers available out of the full vocabulary.
	s := serviceWith(map[string]float64{"happy": 0.9, "sad": 0.8})
	pred := s.Predict("thrilling ride", true, -1)
	if _, ok := pred.Probabilities["excited"]; ok {
		t.Fatal("probability reported for a label with no classifier")
	}
	for _, label := range pred.Accepted {
		if label == "excited" {
			t.Fatal("label with no classifier was accepted")
		}
	}
	if s.LoadedCount() != 2 {
		t.Fatalf("LoadedCount=%d, want 2", s.LoadedCount())
	}
}

func TestFailingClassifierScoresZero(t *testing.T) {
	s := NewService(logger.NewNop(), DefaultCategories, map[string]Scorer{
		"happy": fixedScorer{prob: 0.8},
		"sad":   fixedScorer{err: errFake},
	})
	pred := s.Predict("text", true, -1)
	if pred.Probabilities["sad"] != 0 {
		t.Fatalf("failed classifier probability=%v, want 0", pred.Probabilities["sad"])
	}
	if pred.Probabilities["happy"] != 0.8 {
		t.Fatalf("healthy classifier probability=%v, want 0.8", pred.Probabilities["happy"])
	}
}

var errFake = errStub("scorer failure")

type errStub string

func (e errStub) Error() string { return string(e) }
