package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// SyncRun represents the smartdial_sync_runs table - journal of sync passes
// Diagnostic only: the sync engine never reads it back
type SyncRun struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// PassID is the UUID v7 assigned to the pass
	PassID string `gorm:"column:pass_id;not null;type:text;uniqueIndex:idx_smartdial_sync_runs_pass_id"`
	// Status is the outcome of the pass
	Status domain.SyncRunStatus `gorm:"column:status;not null;type:text"`
	// StartWatermark is the watermark the pass read before querying the directory
	StartWatermark int64 `gorm:"column:start_watermark;not null"`
	// Watermark is the watermark persisted by the pass (equal to StartWatermark unless it succeeded)
	Watermark int64 `gorm:"column:watermark;not null"`
	// Error holds the failure message for aborted and failed passes
	Error *string `gorm:"column:error;type:text"`
	// Stats contains the pass counters as JSON
	Stats      datatypes.JSON `gorm:"column:stats"`
	StartedAt  time.Time      `gorm:"column:started_at;not null"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null"`
}

// TableName specifies the table name for the SyncRun model
func (SyncRun) TableName() string {
	return "smartdial_sync_runs"
}
