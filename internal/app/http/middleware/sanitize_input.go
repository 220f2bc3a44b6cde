package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeInput strips markup from every string in a JSON object body.
// Plain text such as "&" or "'" is kept unescaped.
// Password fields are left untouched so hashing sees exactly what was typed.
func SanitizeInput() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		var body map[string]interface{}
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		for k, v := range body {
			if isSecretKey(k) {
				continue
			}
			body[k] = sanitizeValue(policy, v)
		}

		newBody, err := json.Marshal(body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

func isSecretKey(k string) bool {
	return strings.Contains(strings.ToLower(k), "password")
}

func sanitizeValue(policy *bluemonday.Policy, v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		// StrictPolicy escapes entities as well as dropping tags; only the
		// markup should go, the text is stored as typed.
		return html.UnescapeString(policy.Sanitize(val))
	case []interface{}:
		for i := range val {
			val[i] = sanitizeValue(policy, val[i])
		}
		return val
	case map[string]interface{}:
		for k, inner := range val {
			if isSecretKey(k) {
				continue
			}
			val[k] = sanitizeValue(policy, inner)
		}
		return val
	default:
		return v
	}
}
