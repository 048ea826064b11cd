package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// MovieWithEmotions is a catalog movie hydrated with its durable emotion tags.
type MovieWithEmotions struct {
	Movie    *types.Movie `json:"movie"`
	Emotions []string     `json:"emotions"`
}

type MovieService interface {
	CreateMovie(ctx context.Context, movie *types.Movie) (*types.Movie, error)
	GetMovie(ctx context.Context, movieID int64) (*MovieWithEmotions, error)
	UpdateMovie(ctx context.Context, movieID int64, fields map[string]interface{}) (*types.Movie, error)
	DeleteMovie(ctx context.Context, movieID int64) error
	ListMovies(ctx context.Context, q repos.MovieListQuery) ([]*types.Movie, int64, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]*types.Movie, int64, error)
}

type movieService struct {
	db               *gorm.DB
	log              *logger.Logger
	movieRepo        repos.MovieRepo
	movieEmotionRepo repos.MovieEmotionRepo
}

func NewMovieService(db *gorm.DB, log *logger.Logger, movieRepo repos.MovieRepo, movieEmotionRepo repos.MovieEmotionRepo) MovieService {
	return &movieService{
		db:               db,
		log:              log.With("service", "MovieService"),
		movieRepo:        movieRepo,
		movieEmotionRepo: movieEmotionRepo,
	}
}

func (ms *movieService) CreateMovie(ctx context.Context, movie *types.Movie) (*types.Movie, error) {
	if movie == nil || strings.TrimSpace(movie.Title) == "" {
		return nil, fmt.Errorf("%w: a title is required", ErrValidation)
	}
	created, err := ms.movieRepo.Create(ctx, nil, []*types.Movie{movie})
	if err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return created[0], nil
}

func (ms *movieService) GetMovie(ctx context.Context, movieID int64) (*MovieWithEmotions, error) {
	movie, err := ms.movieRepo.GetByID(ctx, nil, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}
	labels, err := ms.movieEmotionRepo.LabelsByMovieIDs(ctx, nil, []int64{movieID})
	if err != nil {
		return nil, fmt.Errorf("failed to load movie emotions: %w", err)
	}
	return &MovieWithEmotions{Movie: movie, Emotions: labels[movieID]}, nil
}

func (ms *movieService) UpdateMovie(ctx context.Context, movieID int64, fields map[string]interface{}) (*types.Movie, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	movie, err := ms.movieRepo.GetByID(ctx, nil, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}
	if uErr := ms.movieRepo.Update(ctx, nil, movie, fields); uErr != nil {
		return nil, fmt.Errorf("failed to update movie: %w", uErr)
	}
	return ms.movieRepo.GetByID(ctx, nil, movieID)
}

func (ms *movieService) DeleteMovie(ctx context.Context, movieID int64) error {
	movie, err := ms.movieRepo.GetByID(ctx, nil, movieID)
	if err != nil {
		return fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}
	return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ms.movieRepo.Delete(ctx, tx, movieID)
	})
}

func (ms *movieService) ListMovies(ctx context.Context, q repos.MovieListQuery) ([]*types.Movie, int64, error) {
	return ms.movieRepo.List(ctx, nil, q)
}

func (ms *movieService) SearchMovies(ctx context.Context, query string, limit int) ([]*types.Movie, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, fmt.Errorf("%w: a search query is required", ErrValidation)
	}
	return ms.movieRepo.Search(ctx, nil, query, limit)
}
