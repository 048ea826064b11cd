package main

import (
	"context"
	"fmt"
	"os"

	"github.com/moodpick/moodpick-backend/internal/db"
	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/types"
	"github.com/moodpick/moodpick-backend/internal/utils"
)

// Offline tag seeding: run the classifiers over every movie synopsis and
// persist the accepted labels as durable emotion tags, so the online request
// path can serve them from the database without re-running inference.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	modelDir := utils.GetEnv("EMOTION_MODEL_DIR", "models", log)
	batchLimit := utils.GetEnvAsInt("SEED_BATCH_LIMIT", 5000, log)

	emotionService, err := emotion.Load(log, modelDir)
	if err != nil {
		log.Error("Failed to load emotion classifiers", "error", err)
		os.Exit(1)
	}
	if !emotionService.IsReady() {
		log.Error("No classifiers loaded, nothing to seed")
		os.Exit(1)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	movieRepo := repos.NewMovieRepo(thePG, log)
	movieEmotionRepo := repos.NewMovieEmotionRepo(thePG, log)

	ctx := context.Background()
	movies, err := movieRepo.WithOverview(ctx, nil, batchLimit)
	if err != nil {
		log.Error("Failed to load movies", "error", err)
		os.Exit(1)
	}
	log.Info("Seeding emotion tags", "movies", len(movies))

	movieIDs := make([]int64, 0, len(movies))
	for _, m := range movies {
		movieIDs = append(movieIDs, m.ID)
	}
	existing, err := movieEmotionRepo.LabelsByMovieIDs(ctx, nil, movieIDs)
	if err != nil {
		log.Error("Failed to load existing tags", "error", err)
		os.Exit(1)
	}

	tagged := 0
	skipped := 0
	for _, movie := range movies {
		pred := emotionService.Predict(movie.Overview, true, -1)
		if len(pred.Accepted) == 0 {
			skipped++
			continue
		}
		have := make(map[string]struct{}, len(existing[movie.ID]))
		for _, l := range existing[movie.ID] {
			have[l] = struct{}{}
		}
		var newTags []*types.MovieEmotion
		for _, label := range pred.Accepted {
			if _, ok := have[label]; ok {
				continue
			}
			newTags = append(newTags, &types.MovieEmotion{MovieID: movie.ID, EmotionLabel: label})
		}
		if len(newTags) == 0 {
			skipped++
			continue
		}
		if _, cErr := movieEmotionRepo.Create(ctx, nil, newTags); cErr != nil {
			log.Warn("Failed to store tags for movie", "movie_id", movie.ID, "error", cErr)
			continue
		}
		tagged++
	}
	log.Info("Emotion tag seeding complete", "tagged", tagged, "skipped", skipped)
}
