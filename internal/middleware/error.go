package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pageza/recipefinder/backend/internal/types"
)

// Recovery turns a panic into a logged 500 with a JSON error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logging.Ctx(c.Request.Context()).Error().
					Interface("panic", err).
					Str("path", c.Request.URL.Path).
					Msg("recovered from panic")

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
			}
		}()

		c.Next()
	}
}

// NotFound answers unknown routes with the JSON error shape.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not found"})
	}
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, types.ErrorResponse{Error: "method not allowed"})
	}
}
