package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"streaming-app/internal/app/http/middleware"
	"streaming-app/internal/auth"
	"streaming-app/internal/infra/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireCustomerAndAdmin(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret")
	r := gin.New()
	r.GET("/me", middleware.RequireCustomer(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.AccountID(c)})
	})
	r.GET("/admin", middleware.RequireAdmin(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.AdminID(c)})
	})

	customer, _, err := tokens.Issue(7, auth.KindCustomer)
	require.NoError(t, err)
	admin, _, err := tokens.Issue(1, auth.KindAdmin)
	require.NoError(t, err)
	other, _, err := auth.NewTokenIssuer("other-secret").Issue(7, auth.KindCustomer)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"customer ok", "/me", customer, http.StatusOK},
		{"customer missing", "/me", "", http.StatusUnauthorized},
		{"customer wrong secret", "/me", other, http.StatusUnauthorized},
		{"admin token on customer route", "/me", admin, http.StatusUnauthorized},
		{"admin ok", "/admin", admin, http.StatusOK},
		{"customer token on admin route", "/admin", customer, http.StatusForbidden},
		{"admin missing", "/admin", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, tc.path, tc.token, "")
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}

	w := serve(r, http.MethodGet, "/me", customer, "")
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
}

func TestRequireCustomerNonBearerHeader(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret")
	r := gin.New()
	r.GET("/me", middleware.RequireCustomer(tokens), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Token is missing"}`, w.Body.String())
}

func TestSanitizeInput(t *testing.T) {
	var got []byte
	r := gin.New()
	r.Use(middleware.SanitizeInput())
	r.POST("/echo", func(c *gin.Context) {
		got, _ = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	body := `{"name":"<b>Kid</b>","password":"<b>Secret1</b>","nested":{"title":"<i>x</i>"},"count":12345678901234}`
	w := serve(r, http.MethodPost, "/echo", "", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Kid","password":"<b>Secret1</b>","nested":{"title":"x"},"count":12345678901234}`, string(got))

	w = serve(r, http.MethodPost, "/echo", "", `{"name":"Action & Adventure","title":"<b>Ocean's Eleven</b>","quote":"say \"hi\""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Action & Adventure","title":"Ocean's Eleven","quote":"say \"hi\""}`, string(got))

	w = serve(r, http.MethodPost, "/echo", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPost, "/echo", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubLimiter struct {
	allowed bool
	retry   time.Duration
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.retry, s.err
}

func TestLoginRateLimit(t *testing.T) {
	m := metrics.New()
	build := func(l *stubLimiter) *gin.Engine {
		r := gin.New()
		r.POST("/login", middleware.LoginRateLimit(l, m), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	allow := &stubLimiter{allowed: true}
	w := serve(build(allow), http.MethodPost, "/login", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, allow.keys, 1)
	assert.True(t, strings.HasPrefix(allow.keys[0], "/login|"))

	deny := &stubLimiter{retry: 1500 * time.Millisecond}
	w = serve(build(deny), http.MethodPost, "/login", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	broken := &stubLimiter{err: errors.New("redis down")}
	w = serve(build(broken), http.MethodPost, "/login", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, http.MethodGet, "/", "", "")
	generated := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", bytes.NewReader(nil))
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}
