package repos

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

const (
	OrderPopular = "popular"
	OrderRandom  = "random"
	OrderRecent  = "recent"
)

type MovieListQuery struct {
	Genre     string
	Year      int
	MinRating float64
	SortBy    string // rating | year | title
	Page      int
	Limit     int
}

type MovieRepo interface {
	Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error)
	GetByID(ctx context.Context, tx *gorm.DB, movieID int64) (*types.Movie, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []int64) ([]*types.Movie, error)
	Update(ctx context.Context, tx *gorm.DB, movie *types.Movie, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, movieID int64) error
	List(ctx context.Context, tx *gorm.DB, q MovieListQuery) ([]*types.Movie, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Movie, int64, error)
	CandidatePool(ctx context.Context, tx *gorm.DB, excludeIDs []int64, genres []string, order string, limit int) ([]*types.Movie, error)
	RatedSample(ctx context.Context, tx *gorm.DB, excludeIDs []int64, mood, genre string, emotionMovieIDs []int64, limit int) ([]*types.Movie, error)
	WithOverview(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Movie, error)
}

type movieRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMovieRepo(db *gorm.DB, baseLog *logger.Logger) MovieRepo {
	return &movieRepo{db: db, log: baseLog.With("repo", "MovieRepo")}
}

func (mr *movieRepo) Create(ctx context.Context, tx *gorm.DB, movies []*types.Movie) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(movies) == 0 {
		return []*types.Movie{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (mr *movieRepo) GetByID(ctx context.Context, tx *gorm.DB, movieID int64) (*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.Movie
	err := transaction.WithContext(ctx).
		Where("movie_id = ?", movieID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (mr *movieRepo) GetByIDs(ctx context.Context, tx *gorm.DB, movieIDs []int64) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Movie
	if len(movieIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("movie_id IN ?", movieIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *movieRepo) Update(ctx context.Context, tx *gorm.DB, movie *types.Movie, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(movie).
		Updates(fields).Error
}

func (mr *movieRepo) Delete(ctx context.Context, tx *gorm.DB, movieID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Delete(&types.Movie{}).Error
}

func (mr *movieRepo) List(ctx context.Context, tx *gorm.DB, q MovieListQuery) ([]*types.Movie, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Movie{})
	if q.Genre != "" {
		query = query.Where("LOWER(genre) LIKE ?", "%"+strings.ToLower(q.Genre)+"%")
	}
	if q.Year > 0 {
		query = query.Where("release_date >= ? AND release_date < ?", yearStart(q.Year), yearStart(q.Year+1))
	}
	if q.MinRating > 0 {
		query = query.Where("vote_average >= ?", q.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.SortBy {
	case "year":
		query = query.Order("release_date DESC")
	case "title":
		query = query.Order("title ASC")
	default:
		query = query.Order("vote_average DESC")
	}

	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	var results []*types.Movie
	if err := query.
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (mr *movieRepo) Search(ctx context.Context, tx *gorm.DB, search string, limit int) ([]*types.Movie, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	pattern := "%" + strings.ToLower(search) + "%"
	query := transaction.WithContext(ctx).Model(&types.Movie{}).
		Where("LOWER(title) LIKE ? OR LOWER(director) LIKE ?", pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 10
	}
	var results []*types.Movie
	if err := query.Limit(limit).Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// CandidatePool fetches movies with a non-empty overview, optionally biased to
// a genre list, in one of three orderings. Excluded ids are skipped entirely.
func (mr *movieRepo) CandidatePool(ctx context.Context, tx *gorm.DB, excludeIDs []int64, genres []string, order string, limit int) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Movie{}).
		Where("overview IS NOT NULL AND TRIM(overview) <> ''")
	if len(excludeIDs) > 0 {
		query = query.Where("movie_id NOT IN ?", excludeIDs)
	}
	if len(genres) > 0 {
		clauses := make([]string, 0, len(genres))
		args := make([]interface{}, 0, len(genres))
		for _, g := range genres {
			clauses = append(clauses, "LOWER(genre) LIKE ?")
			args = append(args, "%"+strings.ToLower(g)+"%")
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	switch order {
	case OrderRandom:
		query = query.Order("RANDOM()")
	case OrderRecent:
		query = query.Order("release_date DESC")
	default:
		query = query.Order("vote_average DESC")
	}

	if limit <= 0 {
		limit = 50
	}
	var results []*types.Movie
	if err := query.Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// RatedSample backs the non-ML per-user recommendations: rating-ranked movies
// outside the user's history, optionally restricted by mood-tagged ids and a
// genre substring.
func (mr *movieRepo) RatedSample(ctx context.Context, tx *gorm.DB, excludeIDs []int64, mood, genre string, emotionMovieIDs []int64, limit int) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Movie{})
	if len(excludeIDs) > 0 {
		query = query.Where("movie_id NOT IN ?", excludeIDs)
	}
	if mood != "" && len(emotionMovieIDs) > 0 {
		query = query.Where("movie_id IN ?", emotionMovieIDs)
	}
	if genre != "" {
		query = query.Where("LOWER(genre) LIKE ?", "%"+strings.ToLower(genre)+"%")
	}
	if limit <= 0 {
		limit = 10
	}
	var results []*types.Movie
	if err := query.
		Order("vote_average DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (mr *movieRepo) WithOverview(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Movie, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Movie
	if err := transaction.WithContext(ctx).
		Where("overview IS NOT NULL AND TRIM(overview) <> ''").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
