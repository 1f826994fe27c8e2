package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/handler"
	"github.com/stemsi/trivia-backend/internal/middleware"
	"github.com/stemsi/trivia-backend/internal/response"
)

const (
	// Catalog responses may be cached by clients for a minute.
	catalogMaxAge = 60

	authRateLimit    = 30
	authRateInterval = time.Minute
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Profile  *handler.ProfileHandler
	Health   *handler.HealthHandler
	Play     *handler.PlayHandler
}

// TokenAuth validates bearer tokens and their server-side session.
// *service.AuthService satisfies it.
type TokenAuth interface {
	middleware.TokenValidator
	middleware.SessionValidator
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background goroutines owned by the router, such as the rate
// limiter's cleanup loop.
func SetupRouter(
	ctx context.Context,
	auth TokenAuth,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when configured, otherwise allow all.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(response.RequestLogger(log.With().Str("component", "http").Logger()))
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	router.GET("/health", handlers.Health.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authLimiter := middleware.NewRateLimiter(ctx, authRateLimit, authRateInterval)
	authAPI := router.Group("/api/v1/auth")
	{
		authAPI.POST("/signup", authLimiter.Middleware(), handlers.Auth.SignUp)
		authAPI.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		signedIn := authAPI.Group("")
		signedIn.Use(
			middleware.RequireUserJWT(auth),
			middleware.CheckActiveSession(auth),
			middleware.NoStore(),
		)
		signedIn.POST("/logout", handlers.Auth.Logout)
		signedIn.GET("/me", handlers.Auth.Me)
	}

	// ─── 2. Category Catalog (Public, Cacheable) ───────────────────────
	categories := router.Group("/api/v1/categories")
	categories.Use(middleware.CacheControl(catalogMaxAge))
	{
		categories.GET("", handlers.Category.List)
		categories.GET("/:category_id", handlers.Category.Get)
	}

	// ─── 3. Profile Group (JWT + Active Session) ───────────────────────
	profile := router.Group("/api/v1/profile")
	profile.Use(
		middleware.RequireUserJWT(auth),
		middleware.CheckActiveSession(auth),
		middleware.NoStore(),
	)
	{
		profile.GET("", handlers.Profile.Get)
		profile.GET("/results", handlers.Profile.ListResults)
	}

	// ─── 4. WebSocket Group (Guests Allowed) ───────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.OptionalUserJWT(auth),
		middleware.CheckActiveSession(auth),
	)
	{
		ws.GET("/play/:category_id", handlers.Play.Play)
	}

	return router
}
