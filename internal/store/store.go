package store

import (
	"context"

	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

// IndexStats summarises the size of the smart-dial index
type IndexStats struct {
	Entries  int64 `json:"entries"`
	Prefixes int64 `json:"prefixes"`
	Contacts int64 `json:"contacts"`
}

// Store defines the interface for smart-dial index operations
// Every mutating method runs in a single transaction
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Bootstrap creates missing tables and checks the schema version, rebuilding the index on mismatch
	Bootstrap(ctx context.Context) error
	// Rebuild drops and recreates the index tables and resets the sync watermark
	Rebuild(ctx context.Context) error

	// ReadWatermark returns the last persisted sync watermark, 0 when none exists
	ReadWatermark(ctx context.Context) (int64, error)
	// WriteWatermark persists the sync watermark
	WriteWatermark(ctx context.Context, watermark int64) error

	// DeleteEntriesForContacts deletes the entries and prefixes of the given contacts
	// and returns the number of deleted entries
	DeleteEntriesForContacts(ctx context.Context, contactIDs []int64) (int64, error)
	// DeleteEntriesNewerThan deletes the entries stamped after watermark, together with
	// the prefixes of their contacts, and returns the number of deleted entries
	DeleteEntriesNewerThan(ctx context.Context, watermark int64) (int64, error)
	// InsertEntries inserts a batch of entries and their prefixes
	InsertEntries(ctx context.Context, entries []schema.IndexedEntry, prefixes []schema.PrefixEntry) error
	// InsertPrefixes inserts a batch of prefixes
	InsertPrefixes(ctx context.Context, prefixes []schema.PrefixEntry) error
	// EnsureIndexes creates any missing secondary index on the index tables
	EnsureIndexes(ctx context.Context) error

	// QueryCandidates returns the entries of every contact owning a prefix that starts with prefix,
	// ordered by entry id
	QueryCandidates(ctx context.Context, prefix string) ([]schema.IndexedEntry, error)

	// RecordSyncRun appends a sync pass to the journal and prunes old journal rows
	RecordSyncRun(ctx context.Context, run *schema.SyncRun) error
	// ListSyncRuns returns the most recent sync passes, newest first
	ListSyncRuns(ctx context.Context, limit int) ([]schema.SyncRun, error)
	// Stats returns entry, prefix and contact counts
	Stats(ctx context.Context) (*IndexStats, error)
}
