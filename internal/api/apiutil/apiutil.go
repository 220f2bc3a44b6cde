// Package apiutil holds the request/response helpers shared by every handler.
package apiutil

import (
	"strconv"

	"streaming-app/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// SetLogger stores the request-scoped logger on the context.
func SetLogger(c *gin.Context, log logrus.FieldLogger) {
	c.Set(loggerKey, log)
}

// Logger returns the request-scoped logger, or the standard logger when the
// logging middleware is not installed.
func Logger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}

// RespondError writes {"error": msg} with the status of err's kind. Internal
// errors are logged with their cause and answered with a generic message.
func RespondError(c *gin.Context, err error) {
	appErr := apperr.As(err)
	status := appErr.HTTPStatus()
	if appErr.Kind == apperr.KindInternal {
		Logger(c).WithError(err).Error("request failed")
		c.AbortWithStatusJSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": appErr.Message})
}

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

// BindJSON decodes the body into dst and validates its binding tags.
func BindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Wrap(apperr.KindBadRequest, "Invalid request body", err)
	}
	return nil
}
