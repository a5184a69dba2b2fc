package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/iosplus-extract/internal/domain/dto"
	"github.com/guttosm/iosplus-extract/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into a JSON
// dto.ErrorResponse once the handler chain has finished.
//
// Nothing is written when the handler already produced a response.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().Err(err).Str("request_id", toString(rid)).Msg("request failed")

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError stops the chain and writes a standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
