package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/normalization"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/requestdata"
	"github.com/moodpick/moodpick-backend/internal/types"
)

type UserService interface {
	GetCurrentUser(ctx context.Context) (*types.User, error)
	UpdatePreferences(ctx context.Context, mood, preferredGenre string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) GetCurrentUser(ctx context.Context) (*types.User, error) {
	user, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePreferences stores the user's standing mood and genre preference. Both
// fields are optional; an empty string clears the stored value.
func (us *userService) UpdatePreferences(ctx context.Context, mood, preferredGenre string) (*types.User, error) {
	user, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"mood":            normalization.ParseInputString(mood),
		"preferred_genre": normalization.ParseInputString(preferredGenre),
	}
	if uErr := us.userRepo.Update(ctx, nil, user, fields); uErr != nil {
		return nil, fmt.Errorf("failed to update user preferences: %w", uErr)
	}
	return user, nil
}

func (us *userService) currentUser(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, fmt.Errorf("%w: no request data found in context", ErrUnauthorized)
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return users[0], nil
}
