package repos

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moodpick/moodpick-backend/internal/logger"
)

// newTestDB opens a throwaway sqlite database. Tables are created with raw DDL
// because the production models carry postgres-only defaults
// (uuid_generate_v4) that sqlite cannot migrate.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repos.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := []string{
		`CREATE TABLE "user" (
			id text PRIMARY KEY,
			username text NOT NULL UNIQUE,
			email text NOT NULL UNIQUE,
			password text NOT NULL,
			mood text,
			preferred_genre text,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE user_token (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			access_token text NOT NULL UNIQUE,
			refresh_token text NOT NULL UNIQUE,
			expires_at datetime,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE movie (
			movie_id integer PRIMARY KEY AUTOINCREMENT,
			title text NOT NULL,
			overview text,
			genre text,
			director text,
			vote_average real DEFAULT 0,
			vote_count integer DEFAULT 0,
			popularity real DEFAULT 0,
			release_date datetime,
			poster_url text,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE movie_emotion (
			emotion_id integer PRIMARY KEY AUTOINCREMENT,
			movie_id integer NOT NULL,
			emotion_label text NOT NULL,
			created_at datetime,
			UNIQUE (movie_id, emotion_label)
		)`,
		`CREATE TABLE user_history (
			id text PRIMARY KEY,
			user_id text NOT NULL,
			movie_id integer NOT NULL,
			interaction text NOT NULL,
			data text,
			watched_at datetime,
			created_at datetime,
			updated_at datetime
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func testLog() *logger.Logger {
	return logger.NewNop()
}
