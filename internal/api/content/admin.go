package content

import (
	"net/http"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

type contentRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ReleaseYear int    `json:"release_year"`
}

type contentUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ReleaseYear *int    `json:"release_year"`
}

type mediaRequest struct {
	Resolution string `json:"resolution"`
	Language   string `json:"language"`
	FilePath   string `json:"file_path"`
}

type genreRequest struct {
	Name string `json:"name"`
}

type seasonRequest struct {
	SeasonNumber int `json:"season_number"`
}

type episodeRequest struct {
	Title         string `json:"title"`
	EpisodeNumber int    `json:"episode_number"`
}

type episodeUpdateRequest struct {
	Title         *string `json:"title"`
	EpisodeNumber *int    `json:"episode_number"`
}

// GET /api/admin/content
func (h *Handler) AdminList(c *gin.Context) {
	list, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/content
func (h *Handler) Create(c *gin.Context) {
	var req contentRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	item, err := h.catalog.Create(c.Request.Context(), catalog.ContentInput{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PUT /api/admin/content/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req contentUpdateRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	item, err := h.catalog.Update(c.Request.Context(), id, catalog.ContentUpdate{
		Title:       req.Title,
		Description: req.Description,
		ReleaseYear: req.ReleaseYear,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/admin/content/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted"})
}

// POST /api/admin/content/:id/media
func (h *Handler) AddMediaFile(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req mediaRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	file, err := h.catalog.AddMediaFile(c.Request.Context(), id, catalog.MediaInput{
		Resolution: req.Resolution,
		Language:   req.Language,
		FilePath:   req.FilePath,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

// DELETE /api/admin/media/:id
func (h *Handler) DeleteMediaFile(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.catalog.DeleteMediaFile(c.Request.Context(), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Media file deleted"})
}

// GET /api/admin/genres
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.catalog.ListGenres(c.Request.Context())
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// POST /api/admin/genres
func (h *Handler) CreateGenre(c *gin.Context) {
	var req genreRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	genre, err := h.catalog.CreateGenre(c.Request.Context(), req.Name)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// PUT /api/admin/genres/:id
func (h *Handler) UpdateGenre(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req genreRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	genre, err := h.catalog.UpdateGenre(c.Request.Context(), id, req.Name)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}

// DELETE /api/admin/genres/:id
func (h *Handler) DeleteGenre(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.catalog.DeleteGenre(c.Request.Context(), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genre deleted"})
}

func contentAndGenre(c *gin.Context) (uint, uint, bool) {
	contentID, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return 0, 0, false
	}
	genreID, err := apiutil.ParamID(c, "genre_id")
	if err != nil {
		apiutil.RespondError(c, err)
		return 0, 0, false
	}
	return contentID, genreID, true
}

// POST /api/admin/content/:id/genres/:genre_id
func (h *Handler) LinkGenre(c *gin.Context) {
	contentID, genreID, ok := contentAndGenre(c)
	if !ok {
		return
	}
	if err := h.catalog.LinkGenre(c.Request.Context(), contentID, genreID); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Genre linked"})
}

// DELETE /api/admin/content/:id/genres/:genre_id
func (h *Handler) UnlinkGenre(c *gin.Context) {
	contentID, genreID, ok := contentAndGenre(c)
	if !ok {
		return
	}
	if err := h.catalog.UnlinkGenre(c.Request.Context(), contentID, genreID); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genre unlinked"})
}

// POST /api/admin/content/:id/seasons
func (h *Handler) CreateSeason(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req seasonRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	season, err := h.catalog.CreateSeason(c.Request.Context(), id, req.SeasonNumber)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, season)
}

// PUT /api/admin/seasons/:id
func (h *Handler) UpdateSeason(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req seasonRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	season, err := h.catalog.UpdateSeason(c.Request.Context(), id, req.SeasonNumber)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, season)
}

// DELETE /api/admin/seasons/:id
func (h *Handler) DeleteSeason(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.catalog.DeleteSeason(c.Request.Context(), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Season deleted"})
}

// POST /api/admin/seasons/:id/episodes
func (h *Handler) CreateEpisode(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req episodeRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	episode, err := h.catalog.CreateEpisode(c.Request.Context(), id, req.Title, req.EpisodeNumber)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, episode)
}

// PUT /api/admin/episodes/:id
func (h *Handler) UpdateEpisode(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req episodeUpdateRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	episode, err := h.catalog.UpdateEpisode(c.Request.Context(), id, catalog.EpisodeUpdate{
		Title:         req.Title,
		EpisodeNumber: req.EpisodeNumber,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}

// DELETE /api/admin/episodes/:id
func (h *Handler) DeleteEpisode(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.catalog.DeleteEpisode(c.Request.Context(), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Episode deleted"})
}
