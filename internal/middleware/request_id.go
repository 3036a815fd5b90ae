package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/recipefinder/backend/internal/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID reuses an inbound X-Request-ID or generates one, echoes it on the
// response and stores it in the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))

		c.Next()
	}
}
