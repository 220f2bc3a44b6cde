package middleware

import (
	"fmt"
	"math"
	"net/http"

	"streaming-app/internal/api/apiutil"
	"streaming-app/internal/infra/metrics"
	"streaming-app/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit throttles attempts per client IP. A limiter failure answers
// 503 instead of letting unlimited attempts through.
func LoginRateLimit(limiter ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), c.FullPath()+"|"+c.ClientIP())
		if err != nil {
			apiutil.Logger(c).WithError(err).Error("rate limiter failure")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Rate limiter unavailable"})
			return
		}
		if !allowed {
			if m != nil {
				m.RecordRateLimited(c.FullPath())
			}
			if retryAfter > 0 {
				c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryAfter.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
			return
		}
		c.Next()
	}
}
