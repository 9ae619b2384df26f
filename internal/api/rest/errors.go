package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-smartdial/internal/api/shared/errors"
	"github.com/feral-file/ff-smartdial/internal/logger"
)

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, details string) {
	apiErr := apierrors.NewValidationError(details)
	c.JSON(apiErr.StatusCode(), apiErr)
}

// respondInternalError logs the error and responds with an internal server error.
// An APIError produced by the executor is returned as is, with its own status.
func respondInternalError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode(), apiErr)
		return
	}
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message))
}
