package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetCurrentUser(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) UpdatePreferences(c *gin.Context) {
	var req struct {
		Mood           string `json:"mood"`
		PreferredGenre string `json:"preferred_genre"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	user, err := uh.userService.UpdatePreferences(c.Request.Context(), req.Mood, req.PreferredGenre)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}
