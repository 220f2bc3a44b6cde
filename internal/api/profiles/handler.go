package profiles

import (
	"net/http"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/app/http/middleware"
	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/library"

	"github.com/gin-gonic/gin"
)

// Handler serves profiles and the per-profile wishlist and history. Every
// route is scoped to the authenticated account.
type Handler struct {
	accounts *accounts.Service
	library  *library.Service
}

func NewHandler(accounts *accounts.Service, library *library.Service) *Handler {
	return &Handler{accounts: accounts, library: library}
}

type profileRequest struct {
	Name          string `json:"name"`
	AgeRatingPref string `json:"age_rating_pref"`
}

type profileUpdateRequest struct {
	Name          *string `json:"name"`
	AgeRatingPref *string `json:"age_rating_pref"`
}

type historyRequest struct {
	LastTimestamp *int64 `json:"last_timestamp" binding:"required"`
}

// GET /api/profiles
func (h *Handler) List(c *gin.Context) {
	list, err := h.accounts.ListProfiles(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/profiles
func (h *Handler) Create(c *gin.Context) {
	var req profileRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	profile, err := h.accounts.CreateProfile(c.Request.Context(), middleware.AccountID(c), accounts.ProfileInput{
		Name:          req.Name,
		AgeRatingPref: req.AgeRatingPref,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GET /api/profiles/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	profile, err := h.accounts.GetProfile(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /api/profiles/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req profileUpdateRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	profile, err := h.accounts.UpdateProfile(c.Request.Context(), middleware.AccountID(c), id, accounts.ProfileUpdate{
		Name:          req.Name,
		AgeRatingPref: req.AgeRatingPref,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DELETE /api/profiles/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.accounts.DeleteProfile(c.Request.Context(), middleware.AccountID(c), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}

// profileAndContent reads the :id and :content_id path parameters.
func profileAndContent(c *gin.Context) (uint, uint, bool) {
	profileID, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return 0, 0, false
	}
	contentID, err := apiutil.ParamID(c, "content_id")
	if err != nil {
		apiutil.RespondError(c, err)
		return 0, 0, false
	}
	return profileID, contentID, true
}

// GET /api/profiles/:id/wishlist
func (h *Handler) Wishlist(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	items, err := h.library.Wishlist(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/profiles/:id/wishlist/:content_id
func (h *Handler) AddToWishlist(c *gin.Context) {
	profileID, contentID, ok := profileAndContent(c)
	if !ok {
		return
	}
	if err := h.library.AddToWishlist(c.Request.Context(), middleware.AccountID(c), profileID, contentID); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist"})
}

// DELETE /api/profiles/:id/wishlist/:content_id
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	profileID, contentID, ok := profileAndContent(c)
	if !ok {
		return
	}
	if err := h.library.RemoveFromWishlist(c.Request.Context(), middleware.AccountID(c), profileID, contentID); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

// GET /api/profiles/:id/history
func (h *Handler) History(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	items, err := h.library.History(c.Request.Context(), middleware.AccountID(c), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/profiles/:id/history/:content_id
func (h *Handler) HistoryItem(c *gin.Context) {
	profileID, contentID, ok := profileAndContent(c)
	if !ok {
		return
	}
	item, err := h.library.HistoryItem(c.Request.Context(), middleware.AccountID(c), profileID, contentID)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// PUT /api/profiles/:id/history/:content_id
func (h *Handler) UpsertHistory(c *gin.Context) {
	profileID, contentID, ok := profileAndContent(c)
	if !ok {
		return
	}
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_timestamp required"})
		return
	}
	item, err := h.library.UpsertHistory(c.Request.Context(), middleware.AccountID(c), profileID, contentID, *req.LastTimestamp)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/profiles/:id/history/:content_id
func (h *Handler) DeleteHistory(c *gin.Context) {
	profileID, contentID, ok := profileAndContent(c)
	if !ok {
		return
	}
	if err := h.library.DeleteHistory(c.Request.Context(), middleware.AccountID(c), profileID, contentID); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History deleted"})
}
