package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-smartdial/internal/api/middleware"
)

// SetupRoutes configures all REST API routes.
// lookupMiddleware runs in front of the lookup endpoint only.
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig, lookupMiddleware ...gin.HandlerFunc) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Lookup endpoint (public read access)
		v1.GET("/lookup", append(lookupMiddleware, handler.Lookup)...)

		// Sync trigger (requires authentication)
		v1.POST("/sync", middleware.Auth(authCfg), handler.TriggerSync)

		// Sync status (public read access)
		v1.GET("/sync/status", handler.GetSyncStatus)
	}
}
