package middleware

import (
	"errors"
	"net/http"
	"strings"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	accountIDKey = "account_id"
	adminIDKey   = "admin_id"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireCustomer admits only customer tokens. Admin tokens are rejected like
// any other invalid token.
func RequireCustomer(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing"})
			return
		}
		accountID, err := tokens.Verify(raw, auth.KindCustomer)
		if err != nil {
			apiutil.Logger(c).WithError(err).Debug("customer token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid"})
			return
		}
		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// RequireAdmin admits only admin tokens. A valid customer token gets 403.
func RequireAdmin(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing"})
			return
		}
		adminID, err := tokens.Verify(raw, auth.KindAdmin)
		if errors.Is(err, auth.ErrKindMismatch) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		if err != nil {
			apiutil.Logger(c).WithError(err).Debug("admin token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid"})
			return
		}
		c.Set(adminIDKey, adminID)
		c.Next()
	}
}

// AccountID returns the authenticated customer; zero outside RequireCustomer.
func AccountID(c *gin.Context) uint {
	return c.GetUint(accountIDKey)
}

// AdminID returns the authenticated admin; zero outside RequireAdmin.
func AdminID(c *gin.Context) uint {
	return c.GetUint(adminIDKey)
}
