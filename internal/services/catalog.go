package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/recommend"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// catalogStore adapts the repo layer to the recommendation engine's read
// boundary.
type catalogStore struct {
	log              *logger.Logger
	movieRepo        repos.MovieRepo
	movieEmotionRepo repos.MovieEmotionRepo
	userHistoryRepo  repos.UserHistoryRepo
}

func NewCatalogStore(
	log *logger.Logger,
	movieRepo repos.MovieRepo,
	movieEmotionRepo repos.MovieEmotionRepo,
	userHistoryRepo repos.UserHistoryRepo,
) recommend.CatalogStore {
	return &catalogStore{
		log:              log.With("service", "CatalogStore"),
		movieRepo:        movieRepo,
		movieEmotionRepo: movieEmotionRepo,
		userHistoryRepo:  userHistoryRepo,
	}
}

func (cs *catalogStore) TaggedMovies(ctx context.Context, emotions []string) ([]recommend.TaggedMovie, error) {
	movieIDs, err := cs.movieEmotionRepo.MovieIDsByLabels(ctx, nil, emotions)
	if err != nil {
		return nil, err
	}
	if len(movieIDs) == 0 {
		return nil, nil
	}
	movies, err := cs.movieRepo.GetByIDs(ctx, nil, movieIDs)
	if err != nil {
		return nil, err
	}
	labels, err := cs.movieEmotionRepo.LabelsByMovieIDs(ctx, nil, movieIDs)
	if err != nil {
		return nil, err
	}
	out := make([]recommend.TaggedMovie, 0, len(movies))
	for _, movie := range movies {
		out = append(out, recommend.TaggedMovie{Movie: movie, Emotions: labels[movie.ID]})
	}
	return out, nil
}

func (cs *catalogStore) CandidatePool(ctx context.Context, excludeIDs []int64, genres []string, order string, limit int) ([]*types.Movie, error) {
	return cs.movieRepo.CandidatePool(ctx, nil, excludeIDs, genres, order, limit)
}

func (cs *catalogStore) UserHistoryMovieIDs(ctx context.Context, userID uuid.UUID, kinds []string, limit int) ([]int64, error) {
	return cs.userHistoryRepo.MovieIDsByUserAndKinds(ctx, nil, userID, kinds, limit)
}
