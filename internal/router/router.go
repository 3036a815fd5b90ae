package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/api"
	"github.com/pageza/recipefinder/backend/internal/assets"
	"github.com/pageza/recipefinder/backend/internal/middleware"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the routes are wired to. Redis is
// optional; without it rate limits are kept per process.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Recipes  service.IRecipeService
	Resolver assets.URLResolver
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	router.GET("/health", api.NewHealthHandler(deps.DB, deps.Redis).HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(newLimiter(cfg.RateLimit, deps.Redis)))
	}

	recipeHandler := api.NewRecipeHandler(deps.Recipes, deps.Resolver, cfg.Pagination)
	recipeHandler.RegisterRoutes(v1)

	return router
}

func newLimiter(cfg config.RateLimitConfig, redisClient *redis.Client) middleware.Limiter {
	limits := middleware.RateLimitConfig{
		Window:    cfg.Window,
		Limit:     cfg.Requests,
		KeyPrefix: "rate_limit:api",
	}
	if redisClient != nil {
		return middleware.NewRedisLimiter(redisClient, limits)
	}
	return middleware.NewLocalLimiter(limits)
}
