package auth

import (
	"net/http"

	"streaming-app/internal/api/apiutil"
	appauth "streaming-app/internal/auth"
	"streaming-app/internal/infra/google"

	"github.com/gin-gonic/gin"
)

const stateCookie = "oauth_state"

// GoogleEnabled reports whether the Google routes should be mounted.
func (h *Handler) GoogleEnabled() bool {
	return h.google != nil
}

// GET /api/auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := google.NewState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	// 5 minutes is plenty for the consent screen.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GET /api/auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code/state"})
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	identity, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		h.recordLogin(appauth.KindCustomer, false)
		apiutil.Logger(c).WithError(err).Warn("google sign-in failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
		return
	}

	account, err := h.accounts.FindOrCreateGoogle(c.Request.Context(), *identity)
	h.recordLogin(appauth.KindCustomer, err == nil)
	if err != nil {
		apiutil.RespondError(c, err)
		return
	}
	h.session(c, http.StatusOK, account)
}
