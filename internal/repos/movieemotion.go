package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

type MovieEmotionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tags []*types.MovieEmotion) ([]*types.MovieEmotion, error)
	GetByID(ctx context.Context, tx *gorm.DB, tagID int64) (*types.MovieEmotion, error)
	List(ctx context.Context, tx *gorm.DB, movieID int64, page, limit int) ([]*types.MovieEmotion, int64, error)
	LabelsByMovieIDs(ctx context.Context, tx *gorm.DB, movieIDs []int64) (map[int64][]string, error)
	MovieIDsByLabels(ctx context.Context, tx *gorm.DB, labels []string) ([]int64, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, tagID int64) error
}

type movieEmotionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovieEmotionRepo(db *gorm.DB, baseLog *logger.Logger) MovieEmotionRepo {
	return &movieEmotionRepo{db: db, log: baseLog.With("repo", "MovieEmotionRepo")}
}

func (mer *movieEmotionRepo) Create(ctx context.Context, tx *gorm.DB, tags []*types.MovieEmotion) ([]*types.MovieEmotion, error) {
	transaction := tx
	if transaction == nil {
		transaction = mer.db
	}
	if len(tags) == 0 {
		return []*types.MovieEmotion{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (mer *movieEmotionRepo) GetByID(ctx context.Context, tx *gorm.DB, tagID int64) (*types.MovieEmotion, error) {
	transaction := tx
	if transaction == nil {
		transaction = mer.db
	}
	var result types.MovieEmotion
	err := transaction.WithContext(ctx).
		Where("emotion_id = ?", tagID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (mer *movieEmotionRepo) List(ctx context.Context, tx *gorm.DB, movieID int64, page, limit int) ([]*types.MovieEmotion, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mer.db
	}
	query := transaction.WithContext(ctx).Model(&types.MovieEmotion{})
	if movieID > 0 {
		query = query.Where("movie_id = ?", movieID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	var results []*types.MovieEmotion
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (mer *movieEmotionRepo) LabelsByMovieIDs(ctx context.Context, tx *gorm.DB, movieIDs []int64) (map[int64][]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = mer.db
	}
	out := make(map[int64][]string, len(movieIDs))
	if len(movieIDs) == 0 {
		return out, nil
	}
	var rows []*types.MovieEmotion
	if err := transaction.WithContext(ctx).
		Where("movie_id IN ?", movieIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.MovieID] = append(out[row.MovieID], row.EmotionLabel)
	}
	return out, nil
}

func (mer *movieEmotionRepo) MovieIDsByLabels(ctx context.Context, tx *gorm.DB, labels []string) ([]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mer.db
	}
	var ids []int64
	if len(labels) == 0 {
		return ids, nil
	}
	if err := transaction.WithContext(ctx).
		Model(&types.MovieEmotion{}).
		Distinct("movie_id").
		Where("emotion_label IN ?", labels).
		Pluck("movie_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (mer *movieEmotionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, tagID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = mer.db
	}
	return transaction.WithContext(ctx).
		Where("emotion_id = ?", tagID).
		Delete(&types.MovieEmotion{}).Error
}
