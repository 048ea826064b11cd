package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/handlers"
	"github.com/moodpick/moodpick-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	UserHandler           *handlers.UserHandler
	MovieHandler          *handlers.MovieHandler
	HistoryHandler        *handlers.HistoryHandler
	TagHandler            *handlers.TagHandler
	RecommendationHandler *handlers.RecommendationHandler
	HealthHandler         *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	router.GET("/emotions/categories", cfg.HealthHandler.EmotionCategories)
	router.GET("/emotions/distribution", cfg.RecommendationHandler.EmotionDistribution)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Movie catalog reads
	router.GET("/movies", cfg.MovieHandler.List)
	router.GET("/movies/search", cfg.MovieHandler.Search)
	router.GET("/movies/:movie_id", cfg.MovieHandler.Get)

	// Recommendations accept anonymous callers; a valid token adds history
	// exclusion.
	optional := router.Group("/")
	optional.Use(cfg.AuthMiddleware.OptionalAuth())
	optional.POST("/recommendations", cfg.RecommendationHandler.RecommendByEmotions)
	optional.POST("/emotions/detect", cfg.RecommendationHandler.DetectEmotions)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/preferences", cfg.UserHandler.UpdatePreferences)
	// Movie catalog writes
	protected.POST("/movies", cfg.MovieHandler.Create)
	protected.PATCH("/movies/:movie_id", cfg.MovieHandler.Update)
	protected.DELETE("/movies/:movie_id", cfg.MovieHandler.Delete)
	// History
	protected.POST("/history", cfg.HistoryHandler.Record)
	protected.GET("/history", cfg.HistoryHandler.List)
	// Emotion tags
	protected.POST("/tags", cfg.TagHandler.Add)
	protected.GET("/tags", cfg.TagHandler.List)
	protected.DELETE("/tags/:tag_id", cfg.TagHandler.Delete)
	// Per-user quick picks
	protected.GET("/recommendations/me", cfg.RecommendationHandler.RecommendForUser)

	return router
}
