package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodpick/moodpick-backend/internal/repos"
	"github.com/moodpick/moodpick-backend/internal/services"
	"github.com/moodpick/moodpick-backend/internal/types"
)

type MovieHandler struct {
	movieService services.MovieService
}

func NewMovieHandler(movieService services.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

type movieRequest struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Genre       string  `json:"genre"`
	Director    string  `json:"director"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	ReleaseDate string  `json:"release_date"`
	PosterURL   string  `json:"poster_url"`
}

func (mh *MovieHandler) Create(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	movie := types.Movie{
		Title:       req.Title,
		Overview:    req.Overview,
		Genre:       req.Genre,
		Director:    req.Director,
		VoteAverage: req.VoteAverage,
		VoteCount:   req.VoteCount,
		Popularity:  req.Popularity,
		PosterURL:   req.PosterURL,
	}
	if req.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		movie.ReleaseDate = &parsed
	}
	created, err := mh.movieService.CreateMovie(c.Request.Context(), &movie)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (mh *MovieHandler) Get(c *gin.Context) {
	movieID, err := parseMovieID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	movie, err := mh.movieService.GetMovie(c.Request.Context(), movieID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, movie)
}

func (mh *MovieHandler) Update(c *gin.Context) {
	movieID, err := parseMovieID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	// Only whitelisted columns may be patched.
	allowed := map[string]struct{}{
		"title": {}, "overview": {}, "genre": {}, "director": {},
		"vote_average": {}, "vote_count": {}, "popularity": {}, "poster_url": {},
	}
	for key := range fields {
		if _, ok := allowed[key]; !ok {
			delete(fields, key)
		}
	}
	movie, err := mh.movieService.UpdateMovie(c.Request.Context(), movieID, fields)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, movie)
}

func (mh *MovieHandler) Delete(c *gin.Context) {
	movieID, err := parseMovieID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := mh.movieService.DeleteMovie(c.Request.Context(), movieID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "movie deleted"})
}

func (mh *MovieHandler) List(c *gin.Context) {
	q := repos.MovieListQuery{
		Genre:  c.Query("genre"),
		SortBy: c.Query("sort_by"),
	}
	q.Year, _ = strconv.Atoi(c.DefaultQuery("year", "0"))
	q.MinRating, _ = strconv.ParseFloat(c.DefaultQuery("min_rating", "0"), 64)
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	movies, total, err := mh.movieService.ListMovies(c.Request.Context(), q)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"movies": movies, "total": total, "page": q.Page, "limit": q.Limit})
}

func (mh *MovieHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	movies, total, err := mh.movieService.SearchMovies(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"movies": movies, "total": total})
}

func parseMovieID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("movie_id"), 10, 64)
}
