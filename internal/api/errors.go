package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pageza/recipefinder/backend/internal/service"
	"github.com/pageza/recipefinder/backend/internal/types"
)

// respondError maps service errors onto HTTP statuses. Storage failures are
// logged and reported without detail.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "recipe not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: verr.Error(), Field: verr.Field})
	default:
		_ = c.Error(err)
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
	}
}
