package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/feral-file/ff-smartdial/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-smartdial/internal/api/shared/errors"
	"github.com/feral-file/ff-smartdial/internal/query"
	"github.com/feral-file/ff-smartdial/internal/store"
	"github.com/feral-file/ff-smartdial/internal/syncer"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// Lookup answers a smart-dial query with at most limit confirmed matches
	Lookup(ctx context.Context, q string, limit int) *dto.LookupResponse

	// TriggerSync schedules a background sync pass
	TriggerSync(ctx context.Context) *dto.TriggerSyncResponse

	// GetSyncStatus reports the sync state, the watermark, index size and the most recent passes
	GetSyncStatus(ctx context.Context, runsLimit int) (*dto.SyncStatusResponse, error)
}

type executor struct {
	store  store.Store
	query  query.Engine
	syncer syncer.Engine
}

func NewExecutor(store store.Store, queryEngine query.Engine, syncEngine syncer.Engine) Executor {
	return &executor{store: store, query: queryEngine, syncer: syncEngine}
}

func (e *executor) Lookup(ctx context.Context, q string, limit int) *dto.LookupResponse {
	result := e.query.Lookup(ctx, q)

	matches := result.Matches
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return &dto.LookupResponse{
		Results: matches,
		Syncing: result.Syncing,
	}
}

func (e *executor) TriggerSync(ctx context.Context) *dto.TriggerSyncResponse {
	return &dto.TriggerSyncResponse{
		Accepted: e.syncer.TriggerSync(),
	}
}

func (e *executor) GetSyncStatus(ctx context.Context, runsLimit int) (*dto.SyncStatusResponse, error) {
	watermark, err := e.store.ReadWatermark(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to read watermark: %v", err))
	}

	stats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get index stats: %v", err))
	}

	runs, err := e.store.ListSyncRuns(ctx, runsLimit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list sync runs: %v", err))
	}

	response := &dto.SyncStatusResponse{
		State:      e.syncer.State().String(),
		Watermark:  watermark,
		Index:      dto.MapIndexStatsToDTO(stats),
		RecentRuns: make([]dto.SyncRunResponse, 0, len(runs)),
	}
	if watermark > 0 {
		t := time.UnixMilli(watermark).UTC()
		response.WatermarkTime = &t
	}
	for i := range runs {
		response.RecentRuns = append(response.RecentRuns, dto.MapSyncRunToDTO(&runs[i]))
	}

	return response, nil
}
