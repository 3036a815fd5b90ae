package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/internal/database"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports whether the storage backends are reachable. Redis is
// checked only when a client is configured.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("database health check failed")
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("redis health check failed")
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
