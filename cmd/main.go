package main

import (
	"fmt"
	"os"
	"time"

	"github.com/moodpick/moodpick-backend/internal/clients/redis"
	"github.com/moodpick/moodpick-backend/internal/db"
	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/handlers"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/middleware"
	"github.com/moodpick/moodpick-backend/internal/recommend"
	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/server"
	"github.com/moodpick/moodpick-backend/internal/services"
	"github.com/moodpick/moodpick-backend/internal/utils"
)

func main() {
	// Logger
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

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	modelDir := utils.GetEnv("EMOTION_MODEL_DIR", "models", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Emotion classifiers
	log.Info("Loading emotion classifiers from main...", "model_dir", modelDir)
	emotionService, err := emotion.Load(log, modelDir)
	if err != nil {
		log.Warn("Emotion classifiers unavailable, model path disabled", "error", err)
		emotionService = emotion.NewService(log, nil, nil)
	}

	// Redis
	revocationStore, err := redis.NewRevocationStore(log)
	if err != nil {
		log.Warn("Redis unavailable, token revocation disabled", "error", err)
		revocationStore = nil
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	movieRepo := repos.NewMovieRepo(thePG, log)
	movieEmotionRepo := repos.NewMovieEmotionRepo(thePG, log)
	userHistoryRepo := repos.NewUserHistoryRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, revocationStore, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	movieService := services.NewMovieService(thePG, log, movieRepo, movieEmotionRepo)
	historyService := services.NewHistoryService(thePG, log, movieRepo, userHistoryRepo)
	tagService := services.NewTagService(thePG, log, movieRepo, movieEmotionRepo, emotionService)

	catalogStore := services.NewCatalogStore(log, movieRepo, movieEmotionRepo, userHistoryRepo)
	scoringEngine := recommend.NewScoringEngine(log, emotionService)
	candidateSourcer := recommend.NewCandidateSourcer(log, catalogStore)
	engine := recommend.NewEngine(log, catalogStore, scoringEngine, candidateSourcer, nil)
	recommendationService := services.NewRecommendationService(thePG, log, emotionService, engine, movieRepo, movieEmotionRepo, userRepo, userHistoryRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	movieHandler := handlers.NewMovieHandler(movieService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	tagHandler := handlers.NewTagHandler(tagService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	healthHandler := handlers.NewHealthHandler(emotionService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		UserHandler:           userHandler,
		MovieHandler:          movieHandler,
		HistoryHandler:        historyHandler,
		TagHandler:            tagHandler,
		RecommendationHandler: recommendationHandler,
		HealthHandler:         healthHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
