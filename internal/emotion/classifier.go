package emotion

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Scorer is the contract a per-emotion binary classifier must satisfy: the
// probability that the positive class (the emotion is present) applies to the
// given text.
type Scorer interface {
	ProbabilityOfPositive(text string) (float64, error)
}

// Classifier is a logistic model over lowercased word tokens, loaded from a
// persisted artifact directory. One classifier is trained per emotion label.
type Classifier struct {
	label   string
	bias    float64
	weights map[string]float64
}

type classifierArtifact struct {
	Label   string             `json:"label"`
	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

type labelArtifact struct {
	Labels []string `json:"labels"`
}

// LoadClassifier reads predictor_<label>/model.json under modelDir.
func LoadClassifier(modelDir, label string) (*Classifier, error) {
	path := filepath.Join(modelDir, "predictor_"+label, "model.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier artifact %s: %w", path, err)
	}
	var artifact classifierArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode classifier artifact %s: %w", path, err)
	}
	if len(artifact.Weights) == 0 {
		return nil, fmt.Errorf("classifier artifact %s has no weights", path)
	}
	return &Classifier{label: label, bias: artifact.Bias, weights: artifact.Weights}, nil
}

// LoadLabels reads the shared label-encoder artifact enumerating the canonical
// emotion category list.
func LoadLabels(modelDir string) ([]string, error) {
	path := filepath.Join(modelDir, "labels.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label artifact %s: %w", path, err)
	}
	var artifact labelArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode label artifact %s: %w", path, err)
	}
	if len(artifact.Labels) == 0 {
		return nil, fmt.Errorf("label artifact %s is empty", path)
	}
	return artifact.Labels, nil
}

func (c *Classifier) Label() string {
	return c.label
}

func (c *Classifier) ProbabilityOfPositive(text string) (float64, error) {
	if c == nil || len(c.weights) == 0 {
		return 0, fmt.Errorf("classifier not loaded")
	}
	score := c.bias
	for _, token := range tokenize(text) {
		if w, ok := c.weights[token]; ok {
			score += w
		}
	}
	return sigmoid(score), nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
