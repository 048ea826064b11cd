package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/services"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (hh *HistoryHandler) Record(c *gin.Context) {
	var req struct {
		MovieID     int64  `json:"movie_id"`
		Interaction string `json:"interaction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	result, err := hh.historyService.RecordInteraction(c.Request.Context(), req.MovieID, req.Interaction)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (hh *HistoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, total, err := hh.historyService.ListHistory(c.Request.Context(), page, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"history": entries, "total": total, "page": page, "limit": limit})
}
