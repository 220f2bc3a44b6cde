package content

import (
	"net/http"
	"strconv"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/apperr"
	"streaming-app/internal/domain/catalog"

	"github.com/gin-gonic/gin"
)

// Handler serves the public catalog and the admin catalog management routes.
type Handler struct {
	catalog *catalog.Service
}

func NewHandler(catalog *catalog.Service) *Handler {
	return &Handler{catalog: catalog}
}

// GET /api/content?type=&genre=&year=
func (h *Handler) Browse(c *gin.Context) {
	f := catalog.Filter{
		Type:  c.Query("type"),
		Genre: c.Query("genre"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			apiutil.RespondError(c, apperr.BadRequest("year must be a number"))
			return
		}
		f.Year = &year
	}
	list, err := h.catalog.Browse(c.Request.Context(), f)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/content/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	item, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GET /api/content/:id/media
func (h *Handler) MediaFiles(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	files, err := h.catalog.MediaFiles(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// GET /api/content/:id/genres
func (h *Handler) Genres(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	genres, err := h.catalog.Genres(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GET /api/content/:id/seasons
func (h *Handler) Seasons(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	seasons, err := h.catalog.Seasons(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seasons)
}

// GET /api/seasons/:id/episodes
func (h *Handler) Episodes(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	episodes, err := h.catalog.Episodes(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, episodes)
}

// GET /api/episodes/:id
func (h *Handler) Episode(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	episode, err := h.catalog.Episode(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, episode)
}
