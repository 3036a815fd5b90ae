package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured browser origins to read the API. The API is
// read-only, so only GET and preflight requests are permitted. With no origins
// configured no CORS headers are sent and browsers keep same-origin access only.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", "Cache-Control", "X-Requested-With", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        24 * time.Hour,
	}

	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}
