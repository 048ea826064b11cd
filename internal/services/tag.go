package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/normalization"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// Vocabulary exposes the canonical emotion label set tags are validated
// against.
type Vocabulary interface {
	Labels() []string
}

type TagService interface {
	AddTag(ctx context.Context, movieID int64, label string) (*types.MovieEmotion, error)
	ListTags(ctx context.Context, movieID int64, page, limit int) ([]*types.MovieEmotion, int64, error)
	DeleteTag(ctx context.Context, tagID int64) error
}

type tagService struct {
	db               *gorm.DB
	log              *logger.Logger
	movieRepo        repos.MovieRepo
	movieEmotionRepo repos.MovieEmotionRepo
	vocabulary       Vocabulary
}

func NewTagService(db *gorm.DB, log *logger.Logger, movieRepo repos.MovieRepo, movieEmotionRepo repos.MovieEmotionRepo, vocabulary Vocabulary) TagService {
	return &tagService{
		db:               db,
		log:              log.With("service", "TagService"),
		movieRepo:        movieRepo,
		movieEmotionRepo: movieEmotionRepo,
		vocabulary:       vocabulary,
	}
}

// AddTag stores one curated (movie, emotion) pair. The label must belong to
// the canonical vocabulary and the movie must exist; duplicates are rejected.
func (ts *tagService) AddTag(ctx context.Context, movieID int64, label string) (*types.MovieEmotion, error) {
	label = normalization.ParseInputString(label)
	if label == "" {
		return nil, fmt.Errorf("%w: an emotion label is required", ErrValidation)
	}
	if !ts.knownLabel(label) {
		return nil, fmt.Errorf("%w: unknown emotion %q", ErrValidation, label)
	}
	movie, err := ts.movieRepo.GetByID(ctx, nil, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}

	existing, err := ts.movieEmotionRepo.LabelsByMovieIDs(ctx, nil, []int64{movieID})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing tags: %w", err)
	}
	for _, l := range existing[movieID] {
		if l == label {
			return nil, fmt.Errorf("%w: movie %d already tagged %q", ErrValidation, movieID, label)
		}
	}

	tag := &types.MovieEmotion{MovieID: movieID, EmotionLabel: label}
	created, err := ts.movieEmotionRepo.Create(ctx, nil, []*types.MovieEmotion{tag})
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return created[0], nil
}

func (ts *tagService) ListTags(ctx context.Context, movieID int64, page, limit int) ([]*types.MovieEmotion, int64, error) {
	return ts.movieEmotionRepo.List(ctx, nil, movieID, page, limit)
}

func (ts *tagService) DeleteTag(ctx context.Context, tagID int64) error {
	tag, err := ts.movieEmotionRepo.GetByID(ctx, nil, tagID)
	if err != nil {
		return fmt.Errorf("failed to load tag: %w", err)
	}
	if tag == nil {
		return fmt.Errorf("%w: tag %d", ErrNotFound, tagID)
	}
	return ts.movieEmotionRepo.DeleteByID(ctx, nil, tagID)
}

func (ts *tagService) knownLabel(label string) bool {
	for _, l := range ts.vocabulary.Labels() {
		if l == label {
			return true
		}
	}
	return false
}
