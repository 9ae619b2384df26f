package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-smartdial/internal/api/shared/constants"
	"github.com/feral-file/ff-smartdial/internal/domain"
)

// LookupQueryParams holds query parameters for GET /lookup
type LookupQueryParams struct {
	Query string `form:"q"`
	Limit int    `form:"limit,default=20"`
}

// SyncStatusQueryParams holds query parameters for GET /sync/status
type SyncStatusQueryParams struct {
	RunsLimit int `form:"runs.limit,default=10"`
}

// ParseLookupQuery parses query parameters for GET /lookup
func ParseLookupQuery(c *gin.Context) (*LookupQueryParams, error) {
	var params LookupQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.Query = strings.TrimSpace(params.Query)

	if len([]rune(params.Query)) > constants.MAX_QUERY_LENGTH {
		return nil, fmt.Errorf("q must be at most %d characters", constants.MAX_QUERY_LENGTH)
	}
	if params.Limit < 1 || params.Limit > domain.MAX_RESULTS {
		return nil, fmt.Errorf("limit must be between 1 and %d", domain.MAX_RESULTS)
	}

	return &params, nil
}

// ParseSyncStatusQuery parses query parameters for GET /sync/status
func ParseSyncStatusQuery(c *gin.Context) (*SyncStatusQueryParams, error) {
	var params SyncStatusQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.RunsLimit < 0 {
		return nil, fmt.Errorf("runs.limit must not be negative")
	}
	if params.RunsLimit == 0 {
		params.RunsLimit = constants.DEFAULT_SYNC_RUNS_LIMIT
	}
	// Cap limits
	if params.RunsLimit > constants.MAX_SYNC_RUNS_LIMIT {
		params.RunsLimit = constants.MAX_SYNC_RUNS_LIMIT
	}

	return &params, nil
}
