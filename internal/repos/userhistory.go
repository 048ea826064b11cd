package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

type UserHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.UserHistory) ([]*types.UserHistory, error)
	GetByUserMovieKind(ctx context.Context, tx *gorm.DB, userID uuid.UUID, movieID int64, kind string) (*types.UserHistory, error)
	Touch(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, at time.Time) error
	DeleteByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, page, limit int) ([]*types.UserHistory, int64, error)
	MovieIDsByUserAndKinds(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kinds []string, limit int) ([]int64, error)
}

type userHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserHistoryRepo(db *gorm.DB, baseLog *logger.Logger) UserHistoryRepo {
	return &userHistoryRepo{db: db, log: baseLog.With("repo", "UserHistoryRepo")}
}

func (uhr *userHistoryRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.UserHistory) ([]*types.UserHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = uhr.db
	}
	if len(records) == 0 {
		return []*types.UserHistory{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (uhr *userHistoryRepo) GetByUserMovieKind(ctx context.Context, tx *gorm.DB, userID uuid.UUID, movieID int64, kind string) (*types.UserHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = uhr.db
	}
	var result types.UserHistory
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND movie_id = ? AND interaction = ?", userID, movieID, kind).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (uhr *userHistoryRepo) Touch(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = uhr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserHistory{}).
		Where("id = ?", recordID).
		Update("watched_at", at).Error
}

func (uhr *userHistoryRepo) DeleteByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = uhr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", recordID).
		Delete(&types.UserHistory{}).Error
}

func (uhr *userHistoryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, page, limit int) ([]*types.UserHistory, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = uhr.db
	}
	query := transaction.WithContext(ctx).
		Model(&types.UserHistory{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	var results []*types.UserHistory
	if err := query.
		Order("watched_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// MovieIDsByUserAndKinds returns the most recent interaction movie ids first so
// callers can cap the exclusion set without losing fresh history.
func (uhr *userHistoryRepo) MovieIDsByUserAndKinds(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kinds []string, limit int) ([]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = uhr.db
	}
	var ids []int64
	if userID == uuid.Nil || len(kinds) == 0 {
		return ids, nil
	}
	query := transaction.WithContext(ctx).
		Model(&types.UserHistory{}).
		Where("user_id = ? AND interaction IN ?", userID, kinds).
		Order("watched_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("movie_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
