package admin

import (
	"net/http"
	"time"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/domain/accounts"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts *accounts.Service
}

func NewHandler(accounts *accounts.Service) *Handler {
	return &Handler{accounts: accounts}
}

type AdminAccount struct {
	ID             uint      `json:"account_id"`
	Email          string    `json:"email"`
	SubscriptionID *uint     `json:"subscription_id"`
	PlanName       *string   `json:"plan_name,omitempty"`
	GoogleLinked   bool      `json:"google_linked"`
	CreatedAt      time.Time `json:"created_at"`
}

type updateRequest struct {
	Email          *string `json:"email"`
	SubscriptionID *uint   `json:"subscription_id"`
}

func toAdminAccount(a accounts.Account) AdminAccount {
	out := AdminAccount{
		ID:             a.ID,
		Email:          a.Email,
		SubscriptionID: a.SubscriptionID,
		GoogleLinked:   a.GoogleSub != nil,
		CreatedAt:      a.CreatedAt,
	}
	if a.Subscription != nil {
		out.PlanName = &a.Subscription.Name
	}
	return out
}

// GET /api/admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.accounts.Stats(c.Request.Context())
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	list, err := h.accounts.List(c.Request.Context())
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	out := make([]AdminAccount, 0, len(list))
	for _, a := range list {
		out = append(out, toAdminAccount(a))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/admin/accounts/:id
func (h *Handler) GetAccount(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	profiles, err := h.accounts.ListProfiles(c.Request.Context(), id)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account":  toAdminAccount(*account),
		"profiles": profiles,
	})
}

// PUT /api/admin/accounts/:id
func (h *Handler) UpdateAccount(c *gin.Context) {
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
	account, err := h.accounts.AdminUpdate(c.Request.Context(), id, accounts.AdminUpdateInput{
		Email:          req.Email,
		SubscriptionID: req.SubscriptionID,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminAccount(*account))
}

// DELETE /api/admin/accounts/:id
func (h *Handler) DeleteAccount(c *gin.Context) {
	id, err := apiutil.ParamID(c, "id")
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
