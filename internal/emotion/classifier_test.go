package emotion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/moodpick/moodpick-backend/internal/logger"
)

func writeModelDir(t *testing.T, labels []string, models map[string]classifierArtifact) string {
	t.Helper()
	dir := t.TempDir()

	raw, err := json.Marshal(labelArtifact{Labels: labels})
	if err != nil {
		t.Fatalf("marshal labels: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "labels.json"), raw, 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}

	for label, artifact := range models {
		sub := filepath.Join(dir, "predictor_"+label)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
		raw, err := json.Marshal(artifact)
		if err != nil {
			t.Fatalf("marshal model %s: %v", label, err)
		}
		if err := os.WriteFile(filepath.Join(sub, "model.json"), raw, 0o644); err != nil {
			t.Fatalf("write model %s: %v", label, err)
		}
	}
	return dir
}

func TestLoadClassifierAndScore(t *testing.T) {
	dir := writeModelDir(t, []string{"happy"}, map[string]classifierArtifact{
		"happy": {
			Label:   "happy",
			Bias:    -1.0,
			Weights: map[string]float64{"joy": 3.0, "gloom": -3.0},
		},
	})

	c, err := LoadClassifier(dir, "happy")
	if err != nil {
		t.Fatalf("LoadClassifier: %v", err)
	}
	if c.Label() != "happy" {
		t.Fatalf("label=%q, want happy", c.Label())
	}

	pos, err := c.ProbabilityOfPositive("pure Joy, joy everywhere!")
	if err != nil {
		t.Fatalf("positive score: %v", err)
	}
	neg, err := c.ProbabilityOfPositive("nothing but gloom")
	if err != nil {
		t.Fatalf("negative score: %v", err)
	}
	if pos <= 0.5 {
		t.Fatalf("positive text probability=%v, want > 0.5", pos)
	}
	if neg >= 0.5 {
		t.Fatalf("negative text probability=%v, want < 0.5", neg)
	}
	if pos <= neg {
		t.Fatalf("expected pos > neg, got pos=%v neg=%v", pos, neg)
	}
}

func TestLoadToleratesMissingClassifier(t *testing.T) {
	dir := writeModelDir(t, []string{"happy", "sad"}, map[string]classifierArtifact{
		"happy": {
			Label:   "happy",
			Bias:    0,
			Weights: map[string]float64{"joy": 1.0},
		},
		// no artifact for "sad"
	})

	s, err := Load(logger.NewNop(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.IsReady() {
		t.Fatal("service should be ready with one classifier")
	}
	if s.LoadedCount() != 1 {
		t.Fatalf("LoadedCount=%d, want 1", s.LoadedCount())
	}
	if got := s.Labels(); len(got) != 2 {
		t.Fatalf("labels=%v, want both labels preserved", got)
	}
}

func TestLoadLabelsMissingDir(t *testing.T) {
	if _, err := LoadLabels(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing label artifact")
	}
}
