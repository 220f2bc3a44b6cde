package account

import (
	"net/http"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/app/http/middleware"
	"streaming-app/internal/domain/accounts"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts *accounts.Service
}

func NewHandler(accounts *accounts.Service) *Handler {
	return &Handler{accounts: accounts}
}

type updateRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type changeSubscriptionRequest struct {
	SubscriptionID uint `json:"subscription_id"`
}

// GET /api/account
func (h *Handler) Get(c *gin.Context) {
	account, err := h.accounts.Get(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// PUT /api/account
func (h *Handler) Update(c *gin.Context) {
	var req updateRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	account, err := h.accounts.Update(c.Request.Context(), middleware.AccountID(c), accounts.UpdateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GET /api/account/subscription
func (h *Handler) GetSubscription(c *gin.Context) {
	sub, err := h.accounts.GetSubscription(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// PUT /api/account/subscription
func (h *Handler) ChangeSubscription(c *gin.Context) {
	var req changeSubscriptionRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	sub, err := h.accounts.ChangeSubscription(c.Request.Context(), middleware.AccountID(c), req.SubscriptionID)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
