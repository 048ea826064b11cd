package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/requestdata"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// HistoryEntry pairs one interaction record with the movie it refers to.
type HistoryEntry struct {
	Record *types.UserHistory `json:"record"`
	Movie  *types.Movie       `json:"movie,omitempty"`
}

// InteractionResult reports what recording an interaction actually did.
type InteractionResult struct {
	Action string             `json:"action"` // created | refreshed | removed
	Record *types.UserHistory `json:"record,omitempty"`
}

type HistoryService interface {
	RecordInteraction(ctx context.Context, movieID int64, kind string) (*InteractionResult, error)
	ListHistory(ctx context.Context, page, limit int) ([]*HistoryEntry, int64, error)
}

type historyService struct {
	db              *gorm.DB
	log             *logger.Logger
	movieRepo       repos.MovieRepo
	userHistoryRepo repos.UserHistoryRepo
}

func NewHistoryService(db *gorm.DB, log *logger.Logger, movieRepo repos.MovieRepo, userHistoryRepo repos.UserHistoryRepo) HistoryService {
	return &historyService{
		db:              db,
		log:             log.With("service", "HistoryService"),
		movieRepo:       movieRepo,
		userHistoryRepo: userHistoryRepo,
	}
}

// RecordInteraction applies the per-kind semantics: a repeated "liked" removes
// the record (an unlike), while repeated "viewed" or "clicked" refresh the
// existing record's timestamp.
func (hs *historyService) RecordInteraction(ctx context.Context, movieID int64, kind string) (*InteractionResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("%w: no request data found in context", ErrUnauthorized)
	}
	if !types.ValidInteraction(kind) {
		return nil, fmt.Errorf("%w: unknown interaction %q", ErrValidation, kind)
	}
	movie, err := hs.movieRepo.GetByID(ctx, nil, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}

	var result *InteractionResult
	err = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, gErr := hs.userHistoryRepo.GetByUserMovieKind(ctx, tx, rd.UserID, movieID, kind)
		if gErr != nil {
			return fmt.Errorf("failed to check existing interaction: %w", gErr)
		}
		if existing != nil {
			if kind == types.InteractionLiked {
				if dErr := hs.userHistoryRepo.DeleteByID(ctx, tx, existing.ID); dErr != nil {
					return fmt.Errorf("failed to remove like: %w", dErr)
				}
				result = &InteractionResult{Action: "removed"}
				return nil
			}
			now := time.Now()
			if tErr := hs.userHistoryRepo.Touch(ctx, tx, existing.ID, now); tErr != nil {
				return fmt.Errorf("failed to refresh interaction: %w", tErr)
			}
			existing.WatchedAt = now
			result = &InteractionResult{Action: "refreshed", Record: existing}
			return nil
		}
		record := &types.UserHistory{
			ID:          uuid.New(),
			UserID:      rd.UserID,
			MovieID:     movieID,
			Interaction: kind,
			WatchedAt:   time.Now(),
		}
		created, cErr := hs.userHistoryRepo.Create(ctx, tx, []*types.UserHistory{record})
		if cErr != nil {
			return fmt.Errorf("failed to create interaction: %w", cErr)
		}
		result = &InteractionResult{Action: "created", Record: created[0]}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (hs *historyService) ListHistory(ctx context.Context, page, limit int) ([]*HistoryEntry, int64, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, 0, fmt.Errorf("%w: no request data found in context", ErrUnauthorized)
	}
	records, total, err := hs.userHistoryRepo.ListByUser(ctx, nil, rd.UserID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}

	movieIDs := make([]int64, 0, len(records))
	for _, r := range records {
		movieIDs = append(movieIDs, r.MovieID)
	}
	movies, err := hs.movieRepo.GetByIDs(ctx, nil, movieIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load history movies: %w", err)
	}
	byID := make(map[int64]*types.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	entries := make([]*HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, &HistoryEntry{Record: r, Movie: byID[r.MovieID]})
	}
	return entries, total, nil
}
