package dto

import (
	"time"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// LookupResponse represents the response for a smart-dial lookup
type LookupResponse struct {
	Results []domain.ConfirmedMatch `json:"results"`
	Syncing bool                    `json:"syncing"` // The index was being synchronized; results are empty
}

// TriggerSyncResponse represents the response for triggering a sync pass
type TriggerSyncResponse struct {
	Accepted bool `json:"accepted"` // False when a pass was already in flight
}

// IndexStatsResponse represents the size of the index
type IndexStatsResponse struct {
	Entries  int64 `json:"entries"`
	Prefixes int64 `json:"prefixes"`
	Contacts int64 `json:"contacts"`
}

// SyncRunResponse represents one journaled sync pass
type SyncRunResponse struct {
	PassID         string           `json:"pass_id"`
	Status         string           `json:"status"`
	StartWatermark int64            `json:"start_watermark"`
	Watermark      int64            `json:"watermark"`
	Error          *string          `json:"error,omitempty"`
	Stats          domain.SyncStats `json:"stats"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
	DurationMS     int64            `json:"duration_ms"`
}

// SyncStatusResponse represents the state of the sync engine and the index
type SyncStatusResponse struct {
	State         string             `json:"state"`
	Watermark     int64              `json:"watermark"`
	WatermarkTime *time.Time         `json:"watermark_time,omitempty"` // Nil before the first completed pass
	Index         IndexStatsResponse `json:"index"`
	RecentRuns    []SyncRunResponse  `json:"recent_runs"`
}
