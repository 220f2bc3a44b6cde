// Package app assembles services, handlers and middleware into a router.
package app

import (
	"strings"
	"time"

	"streaming-app/config"
	accountapi "streaming-app/internal/api/account"
	adminapi "streaming-app/internal/api/admin"
	authapi "streaming-app/internal/api/auth"
	contentapi "streaming-app/internal/api/content"
	"streaming-app/internal/api/plans"
	profilesapi "streaming-app/internal/api/profiles"
	routes "streaming-app/internal/app/http"
	"streaming-app/internal/app/http/middleware"
	"streaming-app/internal/auth"
	"streaming-app/internal/domain/accounts"
	"streaming-app/internal/domain/admins"
	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/library"
	"streaming-app/internal/domain/subscriptions"
	"streaming-app/internal/infra/google"
	"streaming-app/internal/infra/metrics"
	"streaming-app/internal/infra/ratelimit"
	"streaming-app/internal/infra/stripe"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type App struct {
	Router  *gin.Engine
	Tokens  *auth.TokenIssuer
	Metrics *metrics.Metrics
	Admins  *admins.Service

	limiter ratelimit.Limiter
}

// New wires every service against db. The limiter is Redis-backed when
// cfg.RedisAddr is set and in-process otherwise.
func New(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) *App {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	m := metrics.New()

	plansSvc := subscriptions.NewService(db, log)
	if cfg.StripeSecretKey != "" {
		plansSvc = plansSvc.WithPriceSource(stripe.NewPriceSource(cfg.StripeSecretKey, cfg.StripeProductID))
	}
	accountsSvc := accounts.NewService(db, hasher, log)
	adminsSvc := admins.NewService(db, hasher, log)
	catalogSvc := catalog.NewService(db, log)
	librarySvc := library.NewService(db, log)

	var googleProvider *google.Provider
	if cfg.GoogleEnabled() {
		googleProvider = google.NewProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.LoginRateLimit, cfg.LoginRateWindow)
		log.WithField("addr", cfg.RedisAddr).Info("login rate limiting backed by redis")
	} else {
		limiter = ratelimit.NewMemory(cfg.LoginRateLimit, cfg.LoginRateWindow)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Warn("invalid TRUSTED_PROXIES, trusting no proxy")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), m.Middleware())
	r.Use(cors.New(corsConfig(cfg.CORSOrigin)))

	routes.RegisterRoutes(r, routes.Deps{
		Tokens:  tokens,
		Metrics: m,
		Limiter: limiter,
		Auth: authapi.NewHandler(authapi.Options{
			Accounts: accountsSvc,
			Admins:   adminsSvc,
			Tokens:   tokens,
			Google:   googleProvider,
			Metrics:  m,
		}),
		Account:  accountapi.NewHandler(accountsSvc),
		Profiles: profilesapi.NewHandler(accountsSvc, librarySvc),
		Content:  contentapi.NewHandler(catalogSvc),
		Plans:    plans.NewHandler(plansSvc),
		Admin:    adminapi.NewHandler(accountsSvc),
	})

	return &App{
		Router:  r,
		Tokens:  tokens,
		Metrics: m,
		Admins:  adminsSvc,
		limiter: limiter,
	}
}

// Close releases the limiter's connection when it holds one.
func (a *App) Close() error {
	if closer, ok := a.limiter.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = strings.Split(origin, ",")
	cfg.AllowCredentials = true
	return cfg
}
