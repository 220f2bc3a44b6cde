package plans

import (
	"errors"
	"net/http"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	plans *subscriptions.Service
}

func NewHandler(plans *subscriptions.Service) *Handler {
	return &Handler{plans: plans}
}

type createRequest struct {
	Name         string   `json:"name" binding:"required"`
	MaxProfiles  *int     `json:"max_profiles" binding:"required"`
	MonthlyPrice *float64 `json:"monthly_price" binding:"required"`
}

type updateRequest struct {
	Name         *string  `json:"name"`
	MaxProfiles  *int     `json:"max_profiles"`
	MonthlyPrice *float64 `json:"monthly_price"`
}

// GET /api/subscriptions and GET /api/admin/subscriptions
func (h *Handler) List(c *gin.Context) {
	list, err := h.plans.List(c.Request.Context())
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/subscriptions/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	sub, err := h.plans.Get(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// POST /api/admin/subscriptions
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, max_profiles, and monthly_price required"})
		return
	}
	sub, err := h.plans.Create(c.Request.Context(), subscriptions.CreateInput{
		Name:         req.Name,
		MaxProfiles:  *req.MaxProfiles,
		MonthlyPrice: *req.MonthlyPrice,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// PUT /api/admin/subscriptions/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	var req updateRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	sub, err := h.plans.Update(c.Request.Context(), id, subscriptions.UpdateInput{
		Name:         req.Name,
		MaxProfiles:  req.MaxProfiles,
		MonthlyPrice: req.MonthlyPrice,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DELETE /api/admin/subscriptions/:id?force=true
func (h *Handler) Delete(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	force := c.Query("force") == "true"
	if err := h.plans.Delete(c.Request.Context(), id, force); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted"})
}

// POST /api/admin/subscriptions/sync
func (h *Handler) Sync(c *gin.Context) {
	res, err := h.plans.SyncFromStripe(c.Request.Context())
	if err != nil {
		if !errors.Is(err, subscriptions.ErrNoPriceSource) {
			apiutil.Logger(c).WithError(err).Error("stripe sync failed")
		}
		apiutil.RespondError(c, err)
		return
	}
	apiutil.Logger(c).WithFields(logrus.Fields{
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
	}).Info("stripe sync finished")
	c.JSON(http.StatusOK, res)
}
