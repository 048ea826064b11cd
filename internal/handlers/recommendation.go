package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/services"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

func (rh *RecommendationHandler) RecommendByEmotions(c *gin.Context) {
	var req struct {
		Emotions           []string `json:"emotions"`
		MaxRecommendations int      `json:"max_recommendations"`
		MinSimilarity      float64  `json:"min_similarity"`
		EmotionThreshold   float64  `json:"emotion_threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	recommendations, err := rh.recommendationService.RecommendByEmotions(c.Request.Context(), services.RecommendationRequest{
		Emotions:           req.Emotions,
		MaxRecommendations: req.MaxRecommendations,
		MinSimilarity:      req.MinSimilarity,
		EmotionThreshold:   req.EmotionThreshold,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recommendations, "count": len(recommendations)})
}

func (rh *RecommendationHandler) DetectEmotions(c *gin.Context) {
	var req struct {
		Text          string   `json:"text"`
		AutoThreshold *bool    `json:"auto_threshold"`
		Threshold     *float64 `json:"threshold"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	autoThreshold := true
	if req.AutoThreshold != nil {
		autoThreshold = *req.AutoThreshold
	}
	if req.Threshold != nil {
		autoThreshold = false
	}
	detection, err := rh.recommendationService.DetectEmotions(c.Request.Context(), req.Text, autoThreshold, req.Threshold)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detection)
}

func (rh *RecommendationHandler) EmotionDistribution(c *gin.Context) {
	distribution, err := rh.recommendationService.EmotionDistribution(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, distribution)
}

func (rh *RecommendationHandler) RecommendForUser(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	movies, err := rh.recommendationService.RecommendForUser(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"movies": movies, "count": len(movies)})
}
