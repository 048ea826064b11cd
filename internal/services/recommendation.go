package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/normalization"
	"github.com/moodpick/moodpick-backend/internal/recommend"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/requestdata"
	"github.com/moodpick/moodpick-backend/internal/types"
)

const (
	overviewPreviewLen     = 200
	distributionSampleSize = 100
)

// RecommendationRequest is the validated input for an emotion-based
// recommendation call.
type RecommendationRequest struct {
	Emotions           []string
	MaxRecommendations int
	MinSimilarity      float64
	EmotionThreshold   float64
}

// MovieRecommendation is the API-facing projection of one scored candidate.
type MovieRecommendation struct {
	MovieID         int64                    `json:"movie_id"`
	Title           string                   `json:"title"`
	Overview        string                   `json:"overview"`
	Genres          []string                 `json:"genres"`
	ReleaseYear     int                      `json:"release_year,omitempty"`
	VoteAverage     float64                  `json:"vote_average"`
	PosterURL       string                   `json:"poster_url,omitempty"`
	Similarity      float64                  `json:"similarity"`
	FinalScore      float64                  `json:"final_score"`
	MatchedEmotions []string                 `json:"matched_emotions"`
	EmotionScores   []recommend.EmotionScore `json:"emotion_scores"`
	Source          string                   `json:"source"`
	Confidence      float64                  `json:"confidence"`
}

// EmotionDetection is the API-facing result of one inference call.
type EmotionDetection struct {
	Emotions      []string           `json:"emotions"`
	Probabilities map[string]float64 `json:"probabilities"`
	Threshold     float64            `json:"threshold"`
}

// EmotionDistribution summarizes how the loaded classifiers label a sample
// of the catalog.
type EmotionDistribution struct {
	MoviesAnalyzed    int                `json:"movies_analyzed"`
	TotalPredictions  int                `json:"total_predictions"`
	Counts            map[string]int     `json:"emotion_counts"`
	Percentages       map[string]float64 `json:"emotion_percentages"`
	MostCommonEmotion string             `json:"most_common_emotion,omitempty"`
}

type RecommendationService interface {
	RecommendByEmotions(ctx context.Context, req RecommendationRequest) ([]*MovieRecommendation, error)
	DetectEmotions(ctx context.Context, text string, autoThreshold bool, threshold *float64) (*EmotionDetection, error)
	RecommendForUser(ctx context.Context, limit int) ([]*types.Movie, error)
	EmotionDistribution(ctx context.Context) (*EmotionDistribution, error)
}

type recommendationService struct {
	db               *gorm.DB
	log              *logger.Logger
	emotionService   *emotion.Service
	engine           *recommend.Engine
	movieRepo        repos.MovieRepo
	movieEmotionRepo repos.MovieEmotionRepo
	userRepo         repos.UserRepo
	userHistoryRepo  repos.UserHistoryRepo
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	emotionService *emotion.Service,
	engine *recommend.Engine,
	movieRepo repos.MovieRepo,
	movieEmotionRepo repos.MovieEmotionRepo,
	userRepo repos.UserRepo,
	userHistoryRepo repos.UserHistoryRepo,
) RecommendationService {
	return &recommendationService{
		db:               db,
		log:              log.With("service", "RecommendationService"),
		emotionService:   emotionService,
		engine:           engine,
		movieRepo:        movieRepo,
		movieEmotionRepo: movieEmotionRepo,
		userRepo:         userRepo,
		userHistoryRepo:  userHistoryRepo,
	}
}

// RecommendByEmotions validates the request, resolves the caller from the
// context when present and runs the engine. Anonymous callers get results
// without history exclusion.
func (rs *recommendationService) RecommendByEmotions(ctx context.Context, req RecommendationRequest) ([]*MovieRecommendation, error) {
	if !rs.emotionService.IsReady() {
		return nil, fmt.Errorf("%w: no emotion classifiers loaded", ErrNotReady)
	}
	emotions := normalization.ParseLabels(req.Emotions)
	if len(emotions) == 0 {
		return nil, fmt.Errorf("%w: at least one emotion is required", ErrValidation)
	}
	known := toLabelSet(rs.emotionService.Labels())
	for _, e := range emotions {
		if _, ok := known[e]; !ok {
			return nil, fmt.Errorf("%w: unknown emotion %q", ErrValidation, e)
		}
	}
	if req.MaxRecommendations <= 0 {
		req.MaxRecommendations = 10
	}
	if req.MaxRecommendations > 50 {
		req.MaxRecommendations = 50
	}
	if req.MinSimilarity < 0 || req.MinSimilarity > 1 {
		return nil, fmt.Errorf("%w: min_similarity must be within [0, 1]", ErrValidation)
	}
	if req.EmotionThreshold < 0 || req.EmotionThreshold > 1 {
		return nil, fmt.Errorf("%w: emotion_threshold must be within [0, 1]", ErrValidation)
	}
	if req.EmotionThreshold == 0 {
		req.EmotionThreshold = 0.3
	}

	userID := uuid.Nil
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		userID = rd.UserID
	}

	candidates, err := rs.engine.Recommend(ctx, recommend.Params{
		Emotions:           emotions,
		MaxRecommendations: req.MaxRecommendations,
		MinSimilarity:      req.MinSimilarity,
		EmotionThreshold:   req.EmotionThreshold,
		UserID:             userID,
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation engine error: %w", err)
	}

	out := make([]*MovieRecommendation, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, toRecommendation(cand))
	}
	return out, nil
}

// DetectEmotions runs raw inference over free text without touching the
// catalog. A nil threshold means the caller did not supply one; the inference
// layer falls back to its default.
func (rs *recommendationService) DetectEmotions(ctx context.Context, text string, autoThreshold bool, threshold *float64) (*EmotionDetection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if !rs.emotionService.IsReady() {
		return nil, fmt.Errorf("%w: no emotion classifiers loaded", ErrNotReady)
	}
	if threshold != nil && (*threshold < 0 || *threshold > 1) {
		return nil, fmt.Errorf("%w: threshold must be within [0, 1]", ErrValidation)
	}
	customThreshold := -1.0
	if threshold != nil {
		customThreshold = *threshold
	}
	pred := rs.emotionService.Predict(text, autoThreshold, customThreshold)
	return &EmotionDetection{
		Emotions:      pred.Accepted,
		Probabilities: pred.Probabilities,
		Threshold:     round3(pred.Threshold),
	}, nil
}

// RecommendForUser is the lightweight per-user path: rating-ranked movies
// biased by the user's stored mood and genre preference, excluding everything
// already in their history.
func (rs *recommendationService) RecommendForUser(ctx context.Context, limit int) ([]*types.Movie, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("%w: no request data found in context", ErrUnauthorized)
	}
	users, err := rs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	user := users[0]

	kinds := []string{types.InteractionViewed, types.InteractionLiked, types.InteractionClicked}
	excludeIDs, err := rs.userHistoryRepo.MovieIDsByUserAndKinds(ctx, nil, rd.UserID, kinds, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load user history: %w", err)
	}

	var emotionMovieIDs []int64
	if user.Mood != "" {
		emotionMovieIDs, err = rs.movieEmotionRepo.MovieIDsByLabels(ctx, nil, []string{user.Mood})
		if err != nil {
			return nil, fmt.Errorf("failed to load mood-tagged movies: %w", err)
		}
	}

	if limit <= 0 {
		limit = 10
	}
	return rs.movieRepo.RatedSample(ctx, nil, excludeIDs, user.Mood, user.PreferredGenre, emotionMovieIDs, limit)
}

// EmotionDistribution runs the classifiers over a sample of synopses and
// reports how often each label is accepted.
func (rs *recommendationService) EmotionDistribution(ctx context.Context) (*EmotionDistribution, error) {
	if !rs.emotionService.IsReady() {
		return nil, fmt.Errorf("%w: no emotion classifiers loaded", ErrNotReady)
	}
	movies, err := rs.movieRepo.WithOverview(ctx, nil, distributionSampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to sample catalog: %w", err)
	}

	counts := make(map[string]int, len(rs.emotionService.Labels()))
	for _, label := range rs.emotionService.Labels() {
		counts[label] = 0
	}
	total := 0
	for _, m := range movies {
		pred := rs.emotionService.Predict(m.Overview, true, -1)
		for _, label := range pred.Accepted {
			counts[label]++
		}
		total += len(pred.Accepted)
	}

	percentages := make(map[string]float64, len(counts))
	mostCommon := ""
	best := 0
	for label, count := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(count) / float64(total) * 100
		}
		percentages[label] = math.Round(pct*100) / 100
		if count > best {
			best = count
			mostCommon = label
		}
	}
	if total == 0 {
		mostCommon = ""
	}
	return &EmotionDistribution{
		MoviesAnalyzed:    len(movies),
		TotalPredictions:  total,
		Counts:            counts,
		Percentages:       percentages,
		MostCommonEmotion: mostCommon,
	}, nil
}

func toRecommendation(cand *recommend.Candidate) *MovieRecommendation {
	movie := cand.Movie
	overview := movie.Overview
	// Truncate on rune boundaries so multi-byte synopses stay valid UTF-8.
	if runes := []rune(overview); len(runes) > overviewPreviewLen {
		overview = string(runes[:overviewPreviewLen]) + "..."
	}
	scores := make([]recommend.EmotionScore, len(cand.EmotionScores))
	for i, s := range cand.EmotionScores {
		scores[i] = recommend.EmotionScore{Emotion: s.Emotion, Score: round3(s.Score)}
	}
	return &MovieRecommendation{
		MovieID:         movie.ID,
		Title:           movie.Title,
		Overview:        overview,
		Genres:          recommend.SplitGenres(movie.Genre),
		ReleaseYear:     movie.ReleaseYear(),
		VoteAverage:     movie.VoteAverage,
		PosterURL:       movie.PosterURL,
		Similarity:      round3(cand.Similarity),
		FinalScore:      round3(cand.FinalScore),
		MatchedEmotions: cand.Matched,
		EmotionScores:   scores,
		Source:          cand.Source,
		Confidence:      round3(cand.Confidence),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func toLabelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}
