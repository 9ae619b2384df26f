package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-smartdial/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Lookup answers a smart-dial query
	// GET /api/v1/lookup?q=<query>&limit=<limit>
	// Returns an empty result with syncing=true while a sync pass holds the index
	Lookup(c *gin.Context)

	// TriggerSync schedules a background sync pass (requires authentication)
	// POST /api/v1/sync
	TriggerSync(c *gin.Context)

	// GetSyncStatus reports the sync state, watermark, index size and recent passes
	// GET /api/v1/sync/status?runs.limit=<limit>
	GetSyncStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// Lookup answers a smart-dial query
func (h *handler) Lookup(c *gin.Context) {
	params, err := ParseLookupQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.executor.Lookup(c.Request.Context(), params.Query, params.Limit))
}

// TriggerSync schedules a background sync pass
func (h *handler) TriggerSync(c *gin.Context) {
	c.JSON(http.StatusAccepted, h.executor.TriggerSync(c.Request.Context()))
}

// GetSyncStatus reports the sync state of the index
func (h *handler) GetSyncStatus(c *gin.Context) {
	params, err := ParseSyncStatusQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	status, err := h.executor.GetSyncStatus(c.Request.Context(), params.RunsLimit)
	if err != nil {
		respondInternalError(c, err, "Failed to get sync status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-smartdial",
	})
}
