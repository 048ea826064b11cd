package types

import "time"

type Movie struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;column:movie_id" json:"movie_id"`
	Title       string     `gorm:"not null;index;column:title" json:"title"`
	Overview    string     `gorm:"type:text;column:overview" json:"overview"`
	Genre       string     `gorm:"column:genre" json:"genre"`
	Director    string     `gorm:"column:director" json:"director,omitempty"`
	VoteAverage float64    `gorm:"column:vote_average" json:"vote_average"`
	VoteCount   int        `gorm:"column:vote_count" json:"vote_count"`
	Popularity  float64    `gorm:"column:popularity" json:"popularity"`
	ReleaseDate *time.Time `gorm:"column:release_date" json:"release_date,omitempty"`
	PosterURL   string     `gorm:"column:poster_url" json:"poster_url,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Movie) TableName() string {
	return "movie"
}

// ReleaseYear returns the year of release or 0 when the date is unknown.
func (m *Movie) ReleaseYear() int {
	if m.ReleaseDate == nil {
		return 0
	}
	return m.ReleaseDate.Year()
}
