package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/recommend"
	"github.com/moodpick/moodpick-backend/internal/types"
)

type stubScorer float64

func (s stubScorer) ProbabilityOfPositive(string) (float64, error) { return float64(s), nil }

func validationService(ready bool) RecommendationService {
	classifiers := map[string]emotion.Scorer{}
	if ready {
		classifiers["happy"] = stubScorer(0.8)
	}
	emotionService := emotion.NewService(logger.NewNop(), nil, classifiers)
	// Engine and repos are only reached after validation passes; these tests
	// never get that far.
	return NewRecommendationService(nil, logger.NewNop(), emotionService, nil, nil, nil, nil, nil)
}

func floatPtr(v float64) *float64 { return &v }

func TestRecommendByEmotionsNotReady(t *testing.T) {
	rs := validationService(false)
	_, err := rs.RecommendByEmotions(context.Background(), RecommendationRequest{Emotions: []string{"happy"}})
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err=%v, want ErrNotReady", err)
	}
}

func TestRecommendByEmotionsValidation(t *testing.T) {
	rs := validationService(true)
	cases := []struct {
		name string
		req  RecommendationRequest
	}{
		{name: "no_emotions", req: RecommendationRequest{}},
		{name: "blank_emotions", req: RecommendationRequest{Emotions: []string{"  ", ""}}},
		{name: "unknown_emotion", req: RecommendationRequest{Emotions: []string{"furious"}}},
		{name: "min_similarity_above_one", req: RecommendationRequest{Emotions: []string{"happy"}, MinSimilarity: 1.5}},
		{name: "negative_min_similarity", req: RecommendationRequest{Emotions: []string{"happy"}, MinSimilarity: -0.1}},
		{name: "threshold_above_one", req: RecommendationRequest{Emotions: []string{"happy"}, EmotionThreshold: 1.2}},
		{name: "negative_threshold", req: RecommendationRequest{Emotions: []string{"happy"}, EmotionThreshold: -0.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rs.RecommendByEmotions(context.Background(), tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err=%v, want ErrValidation", err)
			}
		})
	}
}

func TestDetectEmotionsValidation(t *testing.T) {
	rs := validationService(true)

	if _, err := rs.DetectEmotions(context.Background(), "   ", true, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank text err=%v, want ErrValidation", err)
	}
	if _, err := rs.DetectEmotions(context.Background(), "text", false, floatPtr(1.5)); !errors.Is(err, ErrValidation) {
		t.Fatalf("threshold above one err=%v, want ErrValidation", err)
	}
	if _, err := rs.DetectEmotions(context.Background(), "text", false, floatPtr(-0.2)); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative threshold err=%v, want ErrValidation", err)
	}
}

func TestDetectEmotionsNotReady(t *testing.T) {
	rs := validationService(false)
	if _, err := rs.DetectEmotions(context.Background(), "a moving story", true, nil); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err=%v, want ErrNotReady", err)
	}
}

func TestEmotionDistributionNotReady(t *testing.T) {
	rs := validationService(false)
	if _, err := rs.EmotionDistribution(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err=%v, want ErrNotReady", err)
	}
}

func TestDetectEmotions(t *testing.T) {
	rs := validationService(true)
	detection, err := rs.DetectEmotions(context.Background(), "a joyful romp", false, floatPtr(0.5))
	if err != nil {
		t.Fatalf("DetectEmotions: %v", err)
	}
	if detection.Threshold != 0.5 {
		t.Fatalf("threshold=%v, want 0.5", detection.Threshold)
	}
	if len(detection.Emotions) != 1 || detection.Emotions[0] != "happy" {
		t.Fatalf("emotions=%v, want [happy]", detection.Emotions)
	}
	if detection.Probabilities["happy"] != 0.8 {
		t.Fatalf("probability=%v, want 0.8", detection.Probabilities["happy"])
	}
}

func TestRecommendationOverviewTruncatesOnRuneBoundary(t *testing.T) {
	overview := strings.Repeat("müthiş öykü ", 30)
	cand := &recommend.Candidate{
		Movie:  &types.Movie{ID: 1, Title: "movie", Overview: overview},
		Source: recommend.SourceDatabase,
	}

	rec := toRecommendation(cand)
	if !utf8.ValidString(rec.Overview) {
		t.Fatalf("truncated overview is not valid UTF-8: %q", rec.Overview)
	}
	runes := []rune(rec.Overview)
	if len(runes) != overviewPreviewLen+3 {
		t.Fatalf("overview length=%d runes, want %d plus ellipsis", len(runes), overviewPreviewLen)
	}
	if !strings.HasSuffix(rec.Overview, "...") {
		t.Fatalf("overview %q missing ellipsis", rec.Overview)
	}
}
