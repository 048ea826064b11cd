package emotion

import (
	"github.com/moodpick/moodpick-backend/internal/logger"
)

// DefaultCategories is the canonical mood vocabulary used when no label
// artifact overrides it.
var DefaultCategories = []string{
	"happy", "sad", "stressed", "motivated",
	"romantic", "excited", "nostalgic", "relaxed",
}

// Prediction is the transient result of one inference call. Accepted holds
// exactly the labels whose probability met or exceeded Threshold.
type Prediction struct {
	Accepted      []string
	Probabilities map[string]float64
	Threshold     float64
}

// Service owns the loaded per-emotion classifiers and the canonical label set.
// Classifiers are read-only after construction and safe for concurrent use.
type Service struct {
	log         *logger.Logger
	labels      []string
	classifiers map[string]Scorer
}

func NewService(log *logger.Logger, labels []string, classifiers map[string]Scorer) *Service {
	serviceLog := log.With("service", "EmotionService")
	if len(labels) == 0 {
		labels = DefaultCategories
	}
	if classifiers == nil {
		classifiers = map[string]Scorer{}
	}
	return &Service{log: serviceLog, labels: labels, classifiers: classifiers}
}

// Load builds a Service from a persisted model directory: the label artifact
// first, then one classifier per label. A missing per-label artifact degrades
// that label only; the service stays ready with the reduced set.
func Load(log *logger.Logger, modelDir string) (*Service, error) {
	labels, err := LoadLabels(modelDir)
	if err != nil {
		return nil, err
	}
	classifiers := make(map[string]Scorer, len(labels))
	for _, label := range labels {
		c, cErr := LoadClassifier(modelDir, label)
		if cErr != nil {
			log.Warn("Classifier artifact missing, label disabled", "label", label, "error", cErr)
			continue
		}
		classifiers[label] = c
	}
	log.Info("Emotion classifiers loaded", "loaded", len(classifiers), "labels", len(labels))
	return NewService(log, labels, classifiers), nil
}

// IsReady reports whether at least one classifier loaded successfully.
func (s *Service) IsReady() bool {
	return len(s.classifiers) > 0
}

func (s *Service) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

func (s *Service) LoadedCount() int {
	return len(s.classifiers)
}

// Predict computes a probability per loaded classifier and derives the
// accepted label subset. With autoThreshold the decision threshold adapts to
// the probability distribution; otherwise customThreshold is used (negative
// means unset, which falls back to 0.3). A single failing classifier scores
// 0.0 and never aborts the call.
func (s *Service) Predict(text string, autoThreshold bool, customThreshold float64) Prediction {
	if !s.IsReady() {
		s.log.Warn("Predict called before any classifier loaded")
		return Prediction{Accepted: []string{}, Probabilities: map[string]float64{}, Threshold: 0}
	}

	probs := make(map[string]float64, len(s.classifiers))
	for _, label := range s.labels {
		scorer, ok := s.classifiers[label]
		if !ok {
			continue
		}
		p, err := scorer.ProbabilityOfPositive(text)
		if err != nil {
			s.log.Warn("Classifier probability failed, scoring zero", "label", label, "error", err)
			p = 0.0
		}
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		probs[label] = p
	}

	threshold := s.resolveThreshold(probs, autoThreshold, customThreshold)

	accepted := make([]string, 0, len(probs))
	for _, label := range s.labels {
		if p, ok := probs[label]; ok && p >= threshold {
			accepted = append(accepted, label)
		}
	}
	return Prediction{Accepted: accepted, Probabilities: probs, Threshold: threshold}
}

func (s *Service) resolveThreshold(probs map[string]float64, autoThreshold bool, customThreshold float64) float64 {
	if !autoThreshold {
		if customThreshold < 0 {
			return 0.3
		}
		return customThreshold
	}
	if len(probs) == 0 {
		return 0.3
	}

	var maxP, sum float64
	for _, p := range probs {
		sum += p
		if p > maxP {
			maxP = p
		}
	}
	avgP := sum / float64(len(probs))

	var threshold float64
	switch {
	case maxP > 0.7:
		threshold = 0.5
	case maxP > 0.4:
		threshold = 0.8 * avgP
		if threshold < 0.3 {
			threshold = 0.3
		}
	default:
		threshold = 0.2
	}
	if threshold < 0.2 {
		threshold = 0.2
	}
	if threshold > 0.6 {
		threshold = 0.6
	}
	return threshold
}
