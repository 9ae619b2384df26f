package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-smartdial/internal/api/shared/errors"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/ratelimit"
)

// RateLimit rejects requests beyond the per-client rate with 429.
// Clients are identified by their IP address.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !limiter.Allow(clientIP) {
			logger.DebugCtx(c.Request.Context(), "Request rate limited",
				zap.String("client_ip", clientIP),
				zap.String("path", c.Request.URL.Path),
			)
			apiErr := apierrors.NewRateLimitedError("client " + clientIP + " exceeded the request rate")
			c.AbortWithStatusJSON(apiErr.StatusCode(), apiErr)
			return
		}
		c.Next()
	}
}
