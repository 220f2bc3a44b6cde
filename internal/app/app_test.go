package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streaming-app/config"
	"streaming-app/internal/app"
	"streaming-app/internal/auth"
	"streaming-app/internal/dbtest"
	"streaming-app/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type server struct {
	t   *testing.T
	app *app.App
}

func newServer(t *testing.T) *server {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		CORSOrigin:      "*",
		JWTSecret:       "test-secret",
		BcryptCost:      bcrypt.MinCost,
		LoginRateLimit:  5,
		LoginRateWindow: time.Minute,
	}
	a := app.New(cfg, dbtest.Open(t), logging.Discard())
	t.Cleanup(func() { a.Close() })
	return &server{t: t, app: a}
}

func (s *server) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doWithHeaders(method, path, token, body, nil)
}

func (s *server) doWithHeaders(method, path, token string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}

func (s *server) adminToken() string {
	s.t.Helper()
	_, err := s.app.Admins.Create(context.Background(), "root", "AdminPass123")
	require.NoError(s.t, err)

	w := s.do(http.MethodPost, "/api/admin/login", "", gin.H{"username": "root", "password": "AdminPass123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &body)
	return body.Token
}

func (s *server) createPlan(admin, name string, maxProfiles int) uint {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/subscriptions", admin, gin.H{
		"name": name, "max_profiles": maxProfiles, "monthly_price": 9.99,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		ID uint `json:"subscription_id"`
	}
	decode(s.t, w, &body)
	return body.ID
}

type session struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

func (s *server) register(email string, planID uint) session {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "SecurePass123", "subscription_id": planID,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var out session
	decode(s.t, w, &out)
	return out
}

func (s *server) createContent(admin, title, kind string, year int) uint {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/admin/content", admin, gin.H{
		"title": title, "type": kind, "description": title + " description", "release_year": year,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		ID uint `json:"content_id"`
	}
	decode(s.t, w, &body)
	return body.ID
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)

	sess := s.register("viewer@example.com", basic)
	assert.NotZero(t, sess.AccountID)
	assert.NotEmpty(t, sess.Token)

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "viewer@example.com", "password": "SecurePass123", "subscription_id": basic,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "viewer@example.com", "password": "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, w))

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "viewer@example.com", "password": "SecurePass123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login session
	decode(t, w, &login)
	assert.Equal(t, sess.AccountID, login.AccountID)

	w = s.do(http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Email string `json:"email"`
	}
	decode(t, w, &me)
	assert.Equal(t, "viewer@example.com", me.Email)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterValidation(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"password": "SecurePass123", "subscription_id": basic}},
		{"bad email", gin.H{"email": "not-an-email", "password": "SecurePass123", "subscription_id": basic}},
		{"weak password", gin.H{"email": "a@example.com", "password": "short", "subscription_id": basic}},
		{"unknown plan", gin.H{"email": "a@example.com", "password": "SecurePass123", "subscription_id": 999}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestTokenChecks(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)
	sess := s.register("viewer@example.com", basic)

	w := s.do(http.MethodGet, "/api/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is missing", errorMessage(t, w))

	w = s.do(http.MethodGet, "/api/account", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, _, err := s.app.Tokens.IssueWithTTL(sess.AccountID, auth.KindCustomer, -time.Minute)
	require.NoError(t, err)
	w = s.do(http.MethodGet, "/api/account", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A customer token cannot reach admin routes, and an admin token is not
	// a customer session.
	w = s.do(http.MethodGet, "/api/admin/accounts", sess.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/account", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileLimitAndOwnership(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)
	premium := s.createPlan(admin, "Premium", 4)

	alice := s.register("alice@example.com", basic)
	bob := s.register("bob@example.com", basic)

	w := s.do(http.MethodPost, "/api/profiles", alice.Token, gin.H{"name": "Alice", "age_rating_pref": "PG-13"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var profile struct {
		ID uint `json:"profile_id"`
	}
	decode(t, w, &profile)

	w = s.do(http.MethodPost, "/api/profiles", alice.Token, gin.H{"name": "Kid", "age_rating_pref": "G"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Profile limit reached", errorMessage(t, w))

	w = s.do(http.MethodPut, "/api/account/subscription", alice.Token, gin.H{"subscription_id": premium})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/profiles", alice.Token, gin.H{"name": "Kid", "age_rating_pref": "G"})
	assert.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/profiles/%d", profile.ID)
	w = s.do(http.MethodGet, path, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, path+"/wishlist", bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/profiles/9999", bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/profiles", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	decode(t, w, &list)
	assert.Len(t, list, 2)
}

func TestBrowseFilters(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()

	movie := s.createContent(admin, "Heat", "Movie", 1995)
	s.createContent(admin, "Ronin", "Movie", 1998)
	show := s.createContent(admin, "The Wire", "Show", 2002)

	w := s.do(http.MethodPost, "/api/admin/genres", admin, gin.H{"name": "Crime"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var genre struct {
		ID uint `json:"genre_id"`
	}
	decode(t, w, &genre)

	for _, id := range []uint{movie, show} {
		w = s.do(http.MethodPost, fmt.Sprintf("/api/admin/content/%d/genres/%d", id, genre.ID), admin, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	titles := func(query string) []string {
		t.Helper()
		w := s.do(http.MethodGet, "/api/content"+query, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var items []struct {
			Title string `json:"title"`
		}
		decode(t, w, &items)
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Title)
		}
		return out
	}

	assert.Len(t, titles(""), 3)
	assert.ElementsMatch(t, []string{"Heat", "Ronin"}, titles("?type=Movie"))
	assert.ElementsMatch(t, []string{"Heat", "The Wire"}, titles("?genre=Crime"))
	assert.Equal(t, []string{"Heat"}, titles("?type=Movie&genre=Crime&year=1995"))
	assert.Empty(t, titles("?type=Show&year=1995"))

	w = s.do(http.MethodGet, "/api/content?year=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/api/content?type=Podcast", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeasonsAndEpisodes(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	show := s.createContent(admin, "The Wire", "Show", 2002)
	movie := s.createContent(admin, "Heat", "Movie", 1995)

	w := s.do(http.MethodPost, fmt.Sprintf("/api/admin/content/%d/seasons", movie), admin, gin.H{"season_number": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/admin/content/%d/seasons", show), admin, gin.H{"season_number": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var season struct {
		ID uint `json:"season_id"`
	}
	decode(t, w, &season)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/admin/content/%d/seasons", show), admin, gin.H{"season_number": 1})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/admin/seasons/%d/episodes", season.ID), admin, gin.H{"title": "The Target", "episode_number": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/api/seasons/%d/episodes", season.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var episodes []struct {
		Title string `json:"title"`
	}
	decode(t, w, &episodes)
	require.Len(t, episodes, 1)
	assert.Equal(t, "The Target", episodes[0].Title)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/admin/content/%d", show), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, fmt.Sprintf("/api/seasons/%d/episodes", season.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWishlistAndHistory(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)
	movie := s.createContent(admin, "Heat", "Movie", 1995)
	sess := s.register("viewer@example.com", basic)

	w := s.do(http.MethodPost, "/api/profiles", sess.Token, gin.H{"name": "Main", "age_rating_pref": "R"})
	require.Equal(t, http.StatusCreated, w.Code)
	var profile struct {
		ID uint `json:"profile_id"`
	}
	decode(t, w, &profile)

	wish := fmt.Sprintf("/api/profiles/%d/wishlist/%d", profile.ID, movie)
	for i := 0; i < 2; i++ {
		w = s.do(http.MethodPost, wish, sess.Token, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/wishlist", profile.ID), sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wishlist []json.RawMessage
	decode(t, w, &wishlist)
	assert.Len(t, wishlist, 1)

	hist := fmt.Sprintf("/api/profiles/%d/history/%d", profile.ID, movie)
	w = s.do(http.MethodGet, hist, sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, hist, sess.Token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "last_timestamp required", errorMessage(t, w))

	w = s.do(http.MethodPut, hist, sess.Token, gin.H{"last_timestamp": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, ts := range []int64{120, 480} {
		w = s.do(http.MethodPut, hist, sess.Token, gin.H{"last_timestamp": ts})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w = s.do(http.MethodGet, fmt.Sprintf("/api/profiles/%d/history", profile.ID), sess.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []struct {
		ContentID     uint  `json:"content_id"`
		LastTimestamp int64 `json:"last_timestamp"`
	}
	decode(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, movie, history[0].ContentID)
	assert.EqualValues(t, 480, history[0].LastTimestamp)

	w = s.do(http.MethodDelete, hist, sess.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, hist, sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanDeleteInUse(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)
	sess := s.register("viewer@example.com", basic)

	path := fmt.Sprintf("/api/admin/subscriptions/%d", basic)
	w := s.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodDelete, path+"?force=true", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/account/subscription", sess.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/admin/subscriptions/sync", admin, nil)
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestAdminAccounts(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	basic := s.createPlan(admin, "Basic", 1)
	sess := s.register("viewer@example.com", basic)

	w := s.do(http.MethodGet, "/api/admin/accounts", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		ID       uint    `json:"account_id"`
		PlanName *string `json:"plan_name"`
	}
	decode(t, w, &list)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].PlanName)
	assert.Equal(t, "Basic", *list[0].PlanName)

	w = s.do(http.MethodGet, "/api/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		TotalAccounts   int64            `json:"total_accounts"`
		AccountsPerPlan map[string]int64 `json:"accounts_per_plan"`
	}
	decode(t, w, &stats)
	assert.EqualValues(t, 1, stats.TotalAccounts)
	assert.EqualValues(t, 1, stats.AccountsPerPlan["Basic"])

	path := fmt.Sprintf("/api/admin/accounts/%d", sess.AccountID)
	w = s.do(http.MethodPut, path, admin, gin.H{"email": "renamed@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, path, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginRateLimit(t *testing.T) {
	s := newServer(t)
	body := gin.H{"email": "nobody@example.com", "password": "Whatever123"}
	for i := 0; i < 5; i++ {
		w := s.do(http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := s.do(http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestLoginRateLimitIgnoresForwardedFor(t *testing.T) {
	s := newServer(t)
	body := gin.H{"email": "nobody@example.com", "password": "Whatever123"}
	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		w := s.doWithHeaders(http.MethodPost, "/api/auth/login", "", body, map[string]string{
			"X-Forwarded-For": fmt.Sprintf("10.0.0.%d", i+1),
		})
		codes = append(codes, w.Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, codes[5], "codes: %v", codes)
}

func TestBrowseKeepsPlainTextIntact(t *testing.T) {
	s := newServer(t)
	admin := s.adminToken()
	id := s.createContent(admin, "Ocean's Eleven", "Movie", 2001)

	w := s.do(http.MethodPost, "/api/admin/genres", admin, gin.H{"name": "Action & Adventure"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var genre struct {
		ID   uint   `json:"genre_id"`
		Name string `json:"name"`
	}
	decode(t, w, &genre)
	assert.Equal(t, "Action & Adventure", genre.Name)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/admin/content/%d/genres/%d", id, genre.ID), admin, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/content?genre=Action+%26+Adventure", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []struct {
		ID    uint   `json:"content_id"`
		Title string `json:"title"`
	}
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Ocean's Eleven", items[0].Title)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	s.do(http.MethodGet, "/health", "", nil)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "streaming_http_requests_total")
}
