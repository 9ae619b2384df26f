package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/syncer"
)

const (
	DEFAULT_SYNC_INTERVAL       = 5 * time.Minute // Time between sync passes
	SYNC_RETRY_INITIAL_INTERVAL = 5 * time.Second // First retry delay after a failed pass
)

// SyncSweeperConfig holds configuration for the sync sweeper
type SyncSweeperConfig struct {
	Interval   time.Duration // Time between passes, also the longest retry delay
	RunOnStart bool          // Run a pass immediately instead of waiting one interval
}

// syncSweeper implements the Sweeper interface by running a sync pass periodically
type syncSweeper struct {
	config    *SyncSweeperConfig
	engine    syncer.Engine
	clock     adapter.Clock
	retry     *backoff.ExponentialBackOff
	failures  int
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewSyncSweeper creates a new sync sweeper
func NewSyncSweeper(config *SyncSweeperConfig, engine syncer.Engine, clock adapter.Clock) Sweeper {
	if config.Interval <= 0 {
		config.Interval = DEFAULT_SYNC_INTERVAL
	}

	// Failed passes are retried sooner than the regular interval, never later
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = min(SYNC_RETRY_INITIAL_INTERVAL, config.Interval)
	retry.MaxInterval = config.Interval
	retry.MaxElapsedTime = 0 // Retry until a pass succeeds
	retry.Multiplier = 2.0
	retry.RandomizationFactor = 0.2
	retry.Reset()

	return &syncSweeper{
		config:    config,
		engine:    engine,
		clock:     clock,
		retry:     retry,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *syncSweeper) Name() string {
	return "sync-sweeper"
}

// Start runs sync passes until the context is canceled or Stop is called
func (s *syncSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting sync sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	wait := s.config.Interval
	if s.config.RunOnStart {
		wait = 0
	}

	for {
		if !s.sleep(ctx, wait) {
			logger.InfoCtx(ctx, "Sync sweeper stopping")
			return nil
		}
		wait = s.runSyncCycle(ctx)
	}
}

// Stop gracefully stops the sweeper, waiting for an in-flight pass to finish
func (s *syncSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping sync sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Sync sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Sync sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSyncCycle runs one pass and returns how long to wait before the next one
func (s *syncSweeper) runSyncCycle(ctx context.Context) time.Duration {
	startTime := s.clock.Now()

	event, err := s.engine.RunPass(ctx)
	switch {
	case err == nil:
		if s.failures > 0 {
			logger.InfoCtx(ctx, "Sync pass succeeded after retries", zap.Int("failed_attempts", s.failures))
		}
		s.failures = 0
		s.retry.Reset()

		logger.InfoCtx(ctx, "Sync cycle completed",
			zap.Duration("duration", s.clock.Since(startTime)),
			zap.String("pass_id", event.PassID),
			zap.Int64("watermark", event.Watermark),
		)
		return s.config.Interval

	case errors.Is(err, domain.ErrSyncInProgress):
		logger.DebugCtx(ctx, "Sync pass already running, skipping cycle")
		return s.config.Interval

	default:
		s.failures++
		next := s.retry.NextBackOff()
		if next == backoff.Stop || next > s.config.Interval {
			next = s.config.Interval
		}

		logger.WarnCtx(ctx, "Sync pass failed, retrying",
			zap.Error(err),
			zap.Int("attempt", s.failures),
			zap.Duration("next_retry_in", next),
		)
		return next
	}
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted
func (s *syncSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		select {
		case <-ctx.Done():
			return false
		case <-s.stopChan:
			return false
		default:
			return true
		}
	}

	select {
	case <-s.clock.After(duration):
		return true // Sleep completed
	case <-ctx.Done():
		return false // Interrupted by context cancellation
	case <-s.stopChan:
		return false // Interrupted by stop signal
	}
}
