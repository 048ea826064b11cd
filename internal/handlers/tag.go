package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/services"
)

type TagHandler struct {
	tagService services.TagService
}

func NewTagHandler(tagService services.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (th *TagHandler) Add(c *gin.Context) {
	var req struct {
		MovieID int64  `json:"movie_id"`
		Emotion string `json:"emotion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	tag, err := th.tagService.AddTag(c.Request.Context(), req.MovieID, req.Emotion)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (th *TagHandler) List(c *gin.Context) {
	movieID, _ := strconv.ParseInt(c.DefaultQuery("movie_id", "0"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	tags, total, err := th.tagService.ListTags(c.Request.Context(), movieID, page, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"tags": tags, "total": total, "page": page, "limit": limit})
}

func (th *TagHandler) Delete(c *gin.Context) {
	tagID, err := strconv.ParseInt(c.Param("tag_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := th.tagService.DeleteTag(c.Request.Context(), tagID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "tag deleted"})
}
