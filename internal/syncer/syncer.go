// Package syncer keeps the smart-dial index consistent with the external
// contact directory by replaying every change since the last watermark.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/directory"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/keypad"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/messaging"
	"github.com/feral-file/ff-smartdial/internal/store"
	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

// Config holds configuration for the sync engine
type Config struct {
	BatchSize          int // entries inserted per transaction
	MaxLookupKeyLength int // rows with a longer lookup key are skipped
}

// Observer is notified once after every completed pass
type Observer func(event domain.IndexChanged)

// Engine synchronizes the index from the contact directory
//
//go:generate mockgen -source=syncer.go -destination=../mocks/syncer.go -package=mocks -mock_names=Engine=MockSyncEngine
type Engine interface {
	// TriggerSync schedules a pass on the background worker and reports whether it was accepted.
	// A trigger while a pass is in flight is dropped.
	TriggerSync() bool
	// RunPass runs one pass synchronously, returning domain.ErrSyncInProgress when another pass is running
	RunPass(ctx context.Context) (*domain.IndexChanged, error)
	// State returns the current sync state
	State() domain.SyncState
	// Subscribe registers an observer for completed passes
	Subscribe(observer Observer)
	// Close waits for the in-flight pass and stops the background worker
	Close()
}

type engine struct {
	config    Config
	store     store.Store
	directory directory.Directory
	publisher messaging.Publisher
	clock     adapter.Clock
	pool      pond.Pool

	state    atomic.Int32
	inFlight atomic.Bool
	closed   atomic.Bool

	mu        sync.RWMutex
	observers []Observer
}

// NewEngine creates a new sync engine. publisher may be nil.
func NewEngine(
	config Config,
	st store.Store,
	dir directory.Directory,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Engine {
	if config.BatchSize <= 0 {
		config.BatchSize = domain.DEFAULT_BATCH_SIZE
	}
	if config.MaxLookupKeyLength <= 0 {
		config.MaxLookupKeyLength = domain.MAX_LOOKUP_KEY_LENGTH
	}

	return &engine{
		config:    config,
		store:     st,
		directory: dir,
		publisher: publisher,
		clock:     clock,
		pool:      pond.NewPool(1),
	}
}

func (e *engine) State() domain.SyncState {
	return domain.SyncState(e.state.Load())
}

func (e *engine) setState(state domain.SyncState) {
	e.state.Store(int32(state))
}

func (e *engine) Subscribe(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, observer)
}

func (e *engine) TriggerSync() bool {
	if e.closed.Load() {
		return false
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		logger.Debug("Sync pass already in flight, trigger dropped")
		return false
	}

	_, submitted := e.pool.TrySubmit(func() {
		defer e.inFlight.Store(false)
		if _, err := e.runPass(context.Background()); err != nil {
			logger.Error(fmt.Errorf("background sync pass failed: %w", err))
		}
	})
	if !submitted {
		// Close stopped the pool after the closed check
		e.inFlight.Store(false)
		return false
	}
	return true
}

func (e *engine) RunPass(ctx context.Context) (*domain.IndexChanged, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer e.inFlight.Store(false)

	// A started pass is never canceled midway
	return e.runPass(context.WithoutCancel(ctx))
}

func (e *engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.pool.StopAndWait()
}

// pass carries the state of a single sync pass
type pass struct {
	id             string
	startedAt      time.Time
	startTime      int64
	startWatermark int64
	stats          domain.SyncStats

	// prefixes written so far, per contact; a (contact, prefix) pair is stored once
	prefixes map[int64]map[string]struct{}
}

// claimPrefix reports whether prefix has not been written for the contact in this pass yet
func (p *pass) claimPrefix(contactID int64, prefix string) bool {
	seen, ok := p.prefixes[contactID]
	if !ok {
		seen = make(map[string]struct{})
		p.prefixes[contactID] = seen
	}
	if _, ok := seen[prefix]; ok {
		return false
	}
	seen[prefix] = struct{}{}
	return true
}

func (e *engine) runPass(ctx context.Context) (*domain.IndexChanged, error) {
	p := &pass{
		id:        uuid.Must(uuid.NewV7()).String(),
		startedAt: e.clock.Now(),
		prefixes:  make(map[int64]map[string]struct{}),
	}
	ctx = logger.WithFields(ctx, zap.String("pass_id", p.id))

	startTime, err := e.directory.Now(ctx)
	if err != nil {
		err = fmt.Errorf("%w: failed to read directory clock: %w", domain.ErrDirectoryUnavailable, err)
		e.journal(ctx, p, domain.SyncRunStatusAborted, err)
		return nil, err
	}
	p.startTime = startTime

	watermark, err := e.store.ReadWatermark(ctx)
	if err != nil {
		err = fmt.Errorf("failed to read watermark: %w", err)
		e.journal(ctx, p, domain.SyncRunStatusFailed, err)
		return nil, err
	}
	p.startWatermark = watermark

	logger.InfoCtx(ctx, "Starting sync pass",
		zap.Int64("watermark", watermark),
		zap.Int64("start_time", startTime),
	)

	deleted, updated, rows, err := e.openResultSets(ctx, watermark)
	if err != nil {
		e.journal(ctx, p, domain.SyncRunStatusAborted, err)
		logger.WarnCtx(ctx, "Sync pass aborted", zap.Error(err))
		return nil, err
	}
	defer func() {
		closeResultSet(ctx, deleted)
		closeResultSet(ctx, updated)
		closeResultSet(ctx, rows)
	}()

	e.setState(domain.SyncStateSyncing)
	err = e.apply(ctx, p, deleted, updated, rows)
	e.setState(domain.SyncStateIdle)
	if err != nil {
		e.journal(ctx, p, domain.SyncRunStatusFailed, err)
		return nil, err
	}

	e.journal(ctx, p, domain.SyncRunStatusSucceeded, nil)

	event := domain.IndexChanged{
		EventID:   ulid.Make().String(),
		PassID:    p.id,
		Watermark: p.startTime,
		Timestamp: e.clock.Now().UTC(),
		Stats:     p.stats,
	}
	e.notify(ctx, event)

	logger.InfoCtx(ctx, "Sync pass completed",
		zap.Duration("duration", e.clock.Since(p.startedAt)),
		zap.Int("deleted_contacts", p.stats.DeletedContacts),
		zap.Int("updated_contacts", p.stats.UpdatedContacts),
		zap.Int("inserted_entries", p.stats.InsertedEntries),
		zap.Int("inserted_prefixes", p.stats.InsertedPrefixes),
		zap.Int("skipped_rows", p.stats.SkippedRows),
	)
	return &event, nil
}

// openResultSets opens the three delta queries; any failure aborts the pass
func (e *engine) openResultSets(ctx context.Context, watermark int64) (
	directory.ResultSet[domain.DeletedContact],
	directory.ResultSet[int64],
	directory.ResultSet[domain.PhoneRow],
	error,
) {
	deleted, err := e.directory.DeletedContacts(ctx, watermark)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: failed to query deleted contacts: %w", domain.ErrDirectoryUnavailable, err)
	}

	updated, err := e.directory.UpdatedContactIDs(ctx, watermark)
	if err != nil {
		closeResultSet(ctx, deleted)
		return nil, nil, nil, fmt.Errorf("%w: failed to query updated contacts: %w", domain.ErrDirectoryUnavailable, err)
	}

	rows, err := e.directory.UpdatedPhoneRows(ctx, watermark)
	if err != nil {
		closeResultSet(ctx, deleted)
		closeResultSet(ctx, updated)
		return nil, nil, nil, fmt.Errorf("%w: failed to query updated phone rows: %w", domain.ErrDirectoryUnavailable, err)
	}

	return deleted, updated, rows, nil
}

// apply replays the directory changes onto the index. Deletion always
// precedes insertion so replaying a pass from the same watermark is idempotent.
func (e *engine) apply(
	ctx context.Context,
	p *pass,
	deleted directory.ResultSet[domain.DeletedContact],
	updated directory.ResultSet[int64],
	rows directory.ResultSet[domain.PhoneRow],
) error {
	for deleted.Next(ctx) {
		page := deleted.Page()
		ids := make([]int64, 0, len(page))
		for _, c := range page {
			ids = append(ids, c.ContactID)
		}
		n, err := e.store.DeleteEntriesForContacts(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to delete entries of deleted contacts: %w", err)
		}
		p.stats.DeletedContacts += len(ids)
		p.stats.PurgedEntries += int(n)
	}
	if err := deleted.Err(); err != nil {
		return fmt.Errorf("%w: failed to read deleted contacts: %w", domain.ErrDirectoryUnavailable, err)
	}

	for updated.Next(ctx) {
		ids := updated.Page()
		n, err := e.store.DeleteEntriesForContacts(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to delete entries of updated contacts: %w", err)
		}
		p.stats.UpdatedContacts += len(ids)
		p.stats.PurgedEntries += int(n)
	}
	if err := updated.Err(); err != nil {
		return fmt.Errorf("%w: failed to read updated contacts: %w", domain.ErrDirectoryUnavailable, err)
	}

	// Rows left behind by an interrupted pass carry a timestamp newer than the watermark
	n, err := e.store.DeleteEntriesNewerThan(ctx, p.startWatermark)
	if err != nil {
		return fmt.Errorf("failed to delete entries newer than watermark: %w", err)
	}
	if n > 0 {
		logger.WarnCtx(ctx, "Removed entries left by an interrupted pass", zap.Int64("entries", n))
	}
	p.stats.PurgedEntries += int(n)

	names, err := e.insertEntries(ctx, p, rows)
	if err != nil {
		return err
	}

	if err := e.insertNamePrefixes(ctx, p, names); err != nil {
		return err
	}

	if err := e.store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	if err := e.store.WriteWatermark(ctx, p.startTime); err != nil {
		return fmt.Errorf("failed to write watermark: %w", err)
	}
	return nil
}

// contactName is a distinct (name, contact) pair whose name prefixes are indexed
type contactName struct {
	contactID int64
	name      string
}

// insertEntries writes one entry per valid phone row together with its number
// prefixes, in batches of BatchSize, and returns the distinct names seen.
func (e *engine) insertEntries(ctx context.Context, p *pass, rows directory.ResultSet[domain.PhoneRow]) ([]contactName, error) {
	var names []contactName
	seenNames := make(map[contactName]struct{})

	entries := make([]schema.IndexedEntry, 0, e.config.BatchSize)
	var prefixes []schema.PrefixEntry

	flush := func() error {
		if len(entries) == 0 {
			return nil
		}
		if err := e.store.InsertEntries(ctx, entries, prefixes); err != nil {
			return fmt.Errorf("failed to insert entries: %w", err)
		}
		p.stats.InsertedEntries += len(entries)
		p.stats.InsertedPrefixes += len(prefixes)
		entries = entries[:0]
		prefixes = nil
		return nil
	}

	for rows.Next(ctx) {
		for _, row := range rows.Page() {
			if !e.validRow(row) {
				p.stats.SkippedRows++
				continue
			}

			entries = append(entries, schema.IndexedEntry{
				ContactID:       row.ContactID,
				PhoneNumber:     row.Number,
				LookupKey:       row.LookupKey,
				DisplayName:     row.DisplayName,
				PhotoRef:        row.PhotoRef,
				LastTimeUsed:    row.LastUsed,
				TimesUsed:       row.UseCount,
				Starred:         row.Starred,
				IsSuperPrimary:  row.SuperPrimary,
				InVisibleGroup:  row.InVisibleGroup,
				IsPrimary:       row.IsPrimary,
				CarrierPresence: row.CarrierPresence,
				SyncTimestamp:   p.startTime,
			})

			for _, prefix := range keypad.NumberPrefixes(row.Number) {
				if !p.claimPrefix(row.ContactID, prefix) {
					continue
				}
				prefixes = append(prefixes, schema.PrefixEntry{ContactID: row.ContactID, Prefix: prefix})
			}

			key := contactName{contactID: row.ContactID, name: row.DisplayName}
			if _, ok := seenNames[key]; !ok && row.DisplayName != "" {
				seenNames[key] = struct{}{}
				names = append(names, key)
			}

			if len(entries) >= e.config.BatchSize {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read updated phone rows: %w", domain.ErrDirectoryUnavailable, err)
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return names, nil
}

// insertNamePrefixes writes the name token prefixes of every distinct (name, contact)
func (e *engine) insertNamePrefixes(ctx context.Context, p *pass, names []contactName) error {
	var prefixes []schema.PrefixEntry
	for _, n := range names {
		for _, prefix := range keypad.NamePrefixes(n.name) {
			if !p.claimPrefix(n.contactID, prefix) {
				continue
			}
			prefixes = append(prefixes, schema.PrefixEntry{ContactID: n.contactID, Prefix: prefix})
		}
		if len(prefixes) >= e.config.BatchSize {
			if err := e.store.InsertPrefixes(ctx, prefixes); err != nil {
				return fmt.Errorf("failed to insert name prefixes: %w", err)
			}
			p.stats.InsertedPrefixes += len(prefixes)
			prefixes = nil
		}
	}

	if len(prefixes) > 0 {
		if err := e.store.InsertPrefixes(ctx, prefixes); err != nil {
			return fmt.Errorf("failed to insert name prefixes: %w", err)
		}
		p.stats.InsertedPrefixes += len(prefixes)
	}
	return nil
}

func (e *engine) validRow(row domain.PhoneRow) bool {
	return row.Number != "" &&
		row.LookupKey != "" &&
		len(row.LookupKey) <= e.config.MaxLookupKeyLength
}

// notify delivers the event to in-process observers and the optional publisher.
// Publish failures never fail the pass.
func (e *engine) notify(ctx context.Context, event domain.IndexChanged) {
	e.mu.RLock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()

	for _, observer := range observers {
		observer(event)
	}

	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishIndexChanged(ctx, &event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish index changed event: %w", err),
			zap.String("event_id", event.EventID))
	}
}

// journal records the outcome of a pass. Journal failures are only logged.
func (e *engine) journal(ctx context.Context, p *pass, status domain.SyncRunStatus, passErr error) {
	stats, err := json.Marshal(p.stats)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to marshal sync stats: %w", err))
		return
	}

	run := &schema.SyncRun{
		PassID:         p.id,
		Status:         status,
		StartWatermark: p.startWatermark,
		Watermark:      p.startWatermark,
		Stats:          stats,
		StartedAt:      p.startedAt,
		FinishedAt:     e.clock.Now(),
	}
	if status == domain.SyncRunStatusSucceeded {
		run.Watermark = p.startTime
	}
	if passErr != nil {
		msg := passErr.Error()
		run.Error = &msg
	}

	if err := e.store.RecordSyncRun(ctx, run); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to record sync run: %w", err))
	}
}

func closeResultSet[T any](ctx context.Context, rs directory.ResultSet[T]) {
	if rs == nil {
		return
	}
	if err := rs.Close(); err != nil {
		logger.WarnCtx(ctx, "Failed to close directory result set", zap.Error(err))
	}
}
