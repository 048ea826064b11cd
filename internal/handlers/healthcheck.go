package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/emotion"
)

type HealthHandler struct {
	emotionService *emotion.Service
}

func NewHealthHandler(emotionService *emotion.Service) *HealthHandler {
	return &HealthHandler{emotionService: emotionService}
}

func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	RespondOK(c, gin.H{
		"status":             "ok",
		"model_ready":        hh.emotionService.IsReady(),
		"classifiers_loaded": hh.emotionService.LoadedCount(),
		"labels":             hh.emotionService.Labels(),
	})
}

func (hh *HealthHandler) EmotionCategories(c *gin.Context) {
	labels := hh.emotionService.Labels()
	RespondOK(c, gin.H{
		"emotion_categories": labels,
		"total_categories":   len(labels),
	})
}
