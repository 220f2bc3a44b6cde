package auth

import (
	"net/http"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/app/http/middleware"
	appauth "streaming-app/internal/auth"
	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/admins"
	"streaming-app/internal/infra/google"
	"streaming-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts *accounts.Service
	admins   *admins.Service
	tokens   *appauth.TokenIssuer
	google   *google.Provider
	metrics  *metrics.Metrics
}

type Options struct {
	Accounts *accounts.Service
	Admins   *admins.Service
	Tokens   *appauth.TokenIssuer
	Google   *google.Provider // nil disables Google sign-in
	Metrics  *metrics.Metrics
}

func NewHandler(o Options) *Handler {
	return &Handler{
		accounts: o.Accounts,
		admins:   o.Admins,
		tokens:   o.Tokens,
		google:   o.Google,
		metrics:  o.Metrics,
	}
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	SubscriptionID uint   `json:"subscription_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccountID      uint   `json:"account_id"`
	Email          string `json:"email"`
	SubscriptionID *uint  `json:"subscription_id"`
	Token          string `json:"token"`
}

func (h *Handler) recordLogin(kind appauth.Kind, ok bool) {
	if h.metrics != nil {
		h.metrics.RecordLogin(string(kind), ok)
	}
}

func (h *Handler) session(c *gin.Context, status int, a *accounts.Account) {
	token, _, err := h.tokens.Issue(a.ID, appauth.KindCustomer)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(status, sessionResponse{
		AccountID:      a.ID,
		Email:          a.Email,
		SubscriptionID: a.SubscriptionID,
		Token:          token,
	})
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	account, err := h.accounts.Register(c.Request.Context(), accounts.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		SubscriptionID: req.SubscriptionID,
	})
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	h.session(c, http.StatusCreated, account)
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	account, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	h.recordLogin(appauth.KindCustomer, err == nil)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	h.session(c, http.StatusOK, account)
}

// POST /api/auth/logout
//
// Tokens are stateless; the client discards its copy.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	account, err := h.accounts.Get(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// POST /api/admin/login
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := apiutil.BindJSON(c, &req); err != nil {
		apiutil.RespondError(c, err)
		return
	}
	admin, err := h.admins.Authenticate(c.Request.Context(), req.Username, req.Password)
	h.recordLogin(appauth.KindAdmin, err == nil)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	token, _, err := h.tokens.Issue(admin.ID, appauth.KindAdmin)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"admin_id": admin.ID,
		"username": admin.Username,
		"token":    token,
	})
}

// POST /api/admin/logout
func (h *Handler) AdminLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
