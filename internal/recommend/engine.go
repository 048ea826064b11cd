package recommend

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// Params carries one recommendation request into the engine. Validation
// happens at the service layer; the engine assumes sane inputs.
type Params struct {
	Emotions           []string
	MaxRecommendations int
	MinSimilarity      float64
	EmotionThreshold   float64
	UserID             uuid.UUID
}

// Engine orchestrates the two scoring paths: database-tagged movies first,
// then a live-model pass over sourced candidates when the tagged set cannot
// fill the request.
type Engine struct {
	log      *logger.Logger
	catalog  CatalogStore
	scorer   *ScoringEngine
	sourcer  *CandidateSourcer
	shuffler DiversityShuffler
	newRand  Factory
}

func NewEngine(log *logger.Logger, catalog CatalogStore, scorer *ScoringEngine, sourcer *CandidateSourcer, newRand Factory) *Engine {
	if newRand == nil {
		newRand = NewRand
	}
	return &Engine{
		log:     log.With("service", "RecommendationEngine"),
		catalog: catalog,
		scorer:  scorer,
		sourcer: sourcer,
		newRand: newRand,
	}
}

// Recommend produces at most MaxRecommendations candidates for the requested
// emotions, excluding movies the user has already viewed or liked.
func (e *Engine) Recommend(ctx context.Context, params Params) ([]*Candidate, error) {
	rng := e.newRand()
	requestSeed := rng.Int63()

	excluded, err := e.historyExclusions(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	tagged, err := e.catalog.TaggedMovies(ctx, params.Emotions)
	if err != nil {
		return nil, err
	}

	candidates := make([]*Candidate, 0, len(tagged))
	for _, tm := range tagged {
		if tm.Movie == nil {
			continue
		}
		if _, skip := excluded[tm.Movie.ID]; skip {
			continue
		}
		if cand := e.scorer.ScoreTagged(tm.Movie, tm.Emotions, params.Emotions, rng); cand != nil {
			candidates = append(candidates, cand)
		}
	}

	if len(candidates) < params.MaxRecommendations {
		extra, err := e.modelPass(ctx, params, candidates, excluded, rng)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, extra...)
	}

	e.scorer.FinalizeScores(candidates, params.Emotions, rng, requestSeed)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FinalScore > candidates[j].FinalScore
	})

	result := e.shuffler.Shuffle(candidates, params.MaxRecommendations, rng)
	e.log.Info("Recommendations built",
		"emotions", params.Emotions,
		"tagged", len(tagged),
		"candidates", len(candidates),
		"returned", len(result))
	return result, nil
}

// modelPass sources untagged movies and scores them through the classifier
// pool. Movies already scored on the tagged path are excluded from sourcing.
func (e *Engine) modelPass(ctx context.Context, params Params, scored []*Candidate, excluded map[int64]struct{}, rng Rand) ([]*Candidate, error) {
	excludeIDs := make([]int64, 0, len(excluded)+len(scored))
	for id := range excluded {
		excludeIDs = append(excludeIDs, id)
	}
	for _, cand := range scored {
		excludeIDs = append(excludeIDs, cand.Movie.ID)
	}

	pool, err := e.sourcer.BuildPool(ctx, params.Emotions, params.MaxRecommendations, excludeIDs, rng)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	// The keep quota counts candidates across both paths, so the tagged set
	// shrinks what the model pass may score.
	quota := 3*params.MaxRecommendations - len(scored)
	if quota < 0 {
		quota = 0
	}
	return e.scorer.ScoreCandidatesParallel(ctx, pool, params.Emotions, params.EmotionThreshold, params.MinSimilarity, quota), nil
}

// historyExclusions collects the movie ids the user has viewed or liked.
// Anonymous requests exclude nothing.
func (e *Engine) historyExclusions(ctx context.Context, userID uuid.UUID) (map[int64]struct{}, error) {
	if userID == uuid.Nil {
		return map[int64]struct{}{}, nil
	}
	kinds := []string{types.InteractionViewed, types.InteractionLiked}
	ids, err := e.catalog.UserHistoryMovieIDs(ctx, userID, kinds, maxExcludeIDs)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
