package types

import "time"

// MovieEmotion is a durable, trusted assignment of an emotion category to a
// movie, either seeded offline by the inference service or curated manually.
type MovieEmotion struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:emotion_id" json:"emotion_id"`
	MovieID      int64     `gorm:"not null;index;uniqueIndex:idx_movie_emotion;column:movie_id" json:"movie_id"`
	Movie        *Movie    `gorm:"constraint:OnDelete:CASCADE;foreignKey:MovieID;references:ID" json:"movie,omitempty"`
	EmotionLabel string    `gorm:"not null;index;uniqueIndex:idx_movie_emotion;column:emotion_label" json:"emotion_label"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieEmotion) TableName() string {
	return "movie_emotion"
}
