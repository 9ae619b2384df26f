package dto

import (
	"encoding/json"

	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/store"
	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

// MapSyncRunToDTO maps a journaled sync pass to its DTO
func MapSyncRunToDTO(run *schema.SyncRun) SyncRunResponse {
	var stats domain.SyncStats
	if len(run.Stats) > 0 {
		// Stats are written by the sync engine; an unreadable row reports zero counters
		_ = json.Unmarshal(run.Stats, &stats)
	}

	return SyncRunResponse{
		PassID:         run.PassID,
		Status:         string(run.Status),
		StartWatermark: run.StartWatermark,
		Watermark:      run.Watermark,
		Error:          run.Error,
		Stats:          stats,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		DurationMS:     run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	}
}

// MapIndexStatsToDTO maps index statistics to their DTO
func MapIndexStatsToDTO(stats *store.IndexStats) IndexStatsResponse {
	if stats == nil {
		return IndexStatsResponse{}
	}
	return IndexStatsResponse{
		Entries:  stats.Entries,
		Prefixes: stats.Prefixes,
		Contacts: stats.Contacts,
	}
}
