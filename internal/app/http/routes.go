package routes

import (
	"net/http"

	accountapi "streaming-app/internal/api/account"
	adminapi "streaming-app/internal/api/admin"
	authapi "streaming-app/internal/api/auth"
	contentapi "streaming-app/internal/api/content"
	"streaming-app/internal/api/plans"
	profilesapi "streaming-app/internal/api/profiles"
	"streaming-app/internal/app/http/middleware"
	"streaming-app/internal/auth"
	"streaming-app/internal/infra/metrics"
	"streaming-app/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the route table needs. Metrics and Limiter may be
// nil in tests.
type Deps struct {
	Tokens  *auth.TokenIssuer
	Metrics *metrics.Metrics
	Limiter ratelimit.Limiter

	Auth     *authapi.Handler
	Account  *accountapi.Handler
	Profiles *profilesapi.Handler
	Content  *contentapi.Handler
	Plans    *plans.Handler
	Admin    *adminapi.Handler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	loginLimit := middleware.LoginRateLimit(d.Limiter, d.Metrics)

	api := r.Group("/api")
	api.Use(middleware.SanitizeInput())

	// Public
	api.GET("/subscriptions", d.Plans.List)
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", loginLimit, d.Auth.Login)
	if d.Auth.GoogleEnabled() {
		api.GET("/auth/google", d.Auth.GoogleStart)
		api.GET("/auth/google/callback", d.Auth.GoogleCallback)
	}

	api.GET("/content", d.Content.Browse)
	api.GET("/content/:id", d.Content.Get)
	api.GET("/content/:id/media", d.Content.MediaFiles)
	api.GET("/content/:id/genres", d.Content.Genres)
	api.GET("/content/:id/seasons", d.Content.Seasons)
	api.GET("/seasons/:id/episodes", d.Content.Episodes)
	api.GET("/episodes/:id", d.Content.Episode)

	// Customers
	customer := api.Group("/")
	customer.Use(middleware.RequireCustomer(d.Tokens))
	customer.POST("/auth/logout", d.Auth.Logout)
	customer.GET("/auth/me", d.Auth.Me)

	customer.GET("/account", d.Account.Get)
	customer.PUT("/account", d.Account.Update)
	customer.GET("/account/subscription", d.Account.GetSubscription)
	customer.PUT("/account/subscription", d.Account.ChangeSubscription)

	customer.GET("/profiles", d.Profiles.List)
	customer.POST("/profiles", d.Profiles.Create)
	customer.GET("/profiles/:id", d.Profiles.Get)
	customer.PUT("/profiles/:id", d.Profiles.Update)
	customer.DELETE("/profiles/:id", d.Profiles.Delete)

	customer.GET("/profiles/:id/wishlist", d.Profiles.Wishlist)
	customer.POST("/profiles/:id/wishlist/:content_id", d.Profiles.AddToWishlist)
	customer.DELETE("/profiles/:id/wishlist/:content_id", d.Profiles.RemoveFromWishlist)

	customer.GET("/profiles/:id/history", d.Profiles.History)
	customer.GET("/profiles/:id/history/:content_id", d.Profiles.HistoryItem)
	customer.PUT("/profiles/:id/history/:content_id", d.Profiles.UpsertHistory)
	customer.DELETE("/profiles/:id/history/:content_id", d.Profiles.DeleteHistory)

	// Admins
	api.POST("/admin/login", loginLimit, d.Auth.AdminLogin)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(d.Tokens))
	admin.POST("/logout", d.Auth.AdminLogout)
	admin.GET("/dashboard", d.Admin.Dashboard)

	admin.GET("/subscriptions", d.Plans.List)
	admin.POST("/subscriptions", d.Plans.Create)
	admin.POST("/subscriptions/sync", d.Plans.Sync)
	admin.GET("/subscriptions/:id", d.Plans.Get)
	admin.PUT("/subscriptions/:id", d.Plans.Update)
	admin.DELETE("/subscriptions/:id", d.Plans.Delete)

	admin.GET("/accounts", d.Admin.ListAccounts)
	admin.GET("/accounts/:id", d.Admin.GetAccount)
	admin.PUT("/accounts/:id", d.Admin.UpdateAccount)
	admin.DELETE("/accounts/:id", d.Admin.DeleteAccount)

	admin.GET("/content", d.Content.AdminList)
	admin.POST("/content", d.Content.Create)
	admin.GET("/content/:id", d.Content.Get)
	admin.PUT("/content/:id", d.Content.Update)
	admin.DELETE("/content/:id", d.Content.Delete)

	admin.GET("/content/:id/media", d.Content.MediaFiles)
	admin.POST("/content/:id/media", d.Content.AddMediaFile)
	admin.DELETE("/media/:id", d.Content.DeleteMediaFile)

	admin.GET("/genres", d.Content.ListGenres)
	admin.POST("/genres", d.Content.CreateGenre)
	admin.PUT("/genres/:id", d.Content.UpdateGenre)
	admin.DELETE("/genres/:id", d.Content.DeleteGenre)
	admin.POST("/content/:id/genres/:genre_id", d.Content.LinkGenre)
	admin.DELETE("/content/:id/genres/:genre_id", d.Content.UnlinkGenre)

	admin.POST("/content/:id/seasons", d.Content.CreateSeason)
	admin.PUT("/seasons/:id", d.Content.UpdateSeason)
	admin.DELETE("/seasons/:id", d.Content.DeleteSeason)

	admin.POST("/seasons/:id/episodes", d.Content.CreateEpisode)
	admin.PUT("/episodes/:id", d.Content.UpdateEpisode)
	admin.DELETE("/episodes/:id", d.Content.DeleteEpisode)
}
