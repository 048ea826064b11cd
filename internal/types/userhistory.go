package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InteractionViewed  = "viewed"
	InteractionLiked   = "liked"
	InteractionClicked = "clicked"
)

// UserHistory records a single (user, movie, interaction) tuple. A repeated
// "liked" interaction toggles the row off; "viewed" and "clicked" refresh the
// timestamp in place.
type UserHistory struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	MovieID     int64          `gorm:"not null;index;column:movie_id" json:"movie_id"`
	Movie       *Movie         `gorm:"constraint:OnDelete:CASCADE;foreignKey:MovieID;references:ID" json:"movie,omitempty"`
	Interaction string         `gorm:"not null;index;column:interaction" json:"interaction"`
	Data        datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`
	WatchedAt   time.Time      `gorm:"not null;default:now();column:watched_at" json:"watched_at"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserHistory) TableName() string {
	return "user_history"
}

func ValidInteraction(kind string) bool {
	switch kind {
	case InteractionViewed, InteractionLiked, InteractionClicked:
		return true
	default:
		return false
	}
}
