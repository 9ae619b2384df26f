package store

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

const (
	// SCHEMA_VERSION is the version of the index tables written by this build
	SCHEMA_VERSION = 2
	// DELETE_CHUNK_SIZE bounds the number of ids in a single IN clause
	DELETE_CHUNK_SIZE = 500
	// SYNC_RUN_RETENTION is the number of journal rows kept
	SYNC_RUN_RETENTION = 50
)

// migration upgrades the schema from one version to the next inside a transaction
type migration func(tx *gorm.DB) error

// migrations maps a schema version to the step that upgrades it to version+1
var migrations = map[int64]migration{
	// version 1 had no sync run journal
	1: func(tx *gorm.DB) error {
		if tx.Migrator().HasTable(&schema.SyncRun{}) {
			return nil
		}
		return tx.Migrator().CreateTable(&schema.SyncRun{})
	},
}

// indexTables are dropped and recreated by a rebuild
var indexTables = []any{&schema.IndexedEntry{}, &schema.PrefixEntry{}}

// allTables are created by bootstrap
var allTables = []any{&schema.Property{}, &schema.IndexedEntry{}, &schema.PrefixEntry{}, &schema.SyncRun{}}

// secondaryIndexes lists the indexes EnsureIndexes verifies, keyed by the model owning them
var secondaryIndexes = []struct {
	model any
	name  string
}{
	{&schema.IndexedEntry{}, "idx_smartdial_entries_contact_id"},
	{&schema.IndexedEntry{}, "idx_smartdial_entries_sync_timestamp"},
	{&schema.IndexedEntry{}, "idx_smartdial_entries_ranking"},
	{&schema.PrefixEntry{}, "idx_smartdial_prefixes_contact_id"},
	{&schema.PrefixEntry{}, "idx_smartdial_prefixes_prefix"},
}

type sqlStore struct {
	db *gorm.DB
}

// NewSQLStore creates a store backed by a GORM connection (SQLite or PostgreSQL)
func NewSQLStore(db *gorm.DB) Store {
	return &sqlStore{db: db}
}

// calculateSafeBatchSize computes the batch size for bulk inserts so a single
// INSERT stays under the bind parameter limit of the database.
// PostgreSQL's extended protocol allows 65535 parameters, SQLite 32766.
func calculateSafeBatchSize(dialect string, totalRecords int, fieldsPerRecord int) int {
	maxParams := 65535
	if dialect == DriverSQLite {
		maxParams = 32766
	}
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return max(totalRecords, 1)
	}

	return safeBatchSize
}

// Bootstrap creates missing tables and reconciles the stored schema version
func (s *sqlStore) Bootstrap(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	if err := db.AutoMigrate(&schema.Property{}); err != nil {
		return fmt.Errorf("failed to create properties table: %w", err)
	}

	version, found, err := getIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion)
	if err != nil {
		return err
	}

	switch {
	case !found || version == SCHEMA_VERSION:
		if err := db.AutoMigrate(allTables...); err != nil {
			return fmt.Errorf("failed to migrate index tables: %w", err)
		}
		if !found {
			return setIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion, SCHEMA_VERSION)
		}
		return nil

	case version == SCHEMA_VERSION-1 && migrations[version] != nil:
		logger.InfoCtx(ctx, "Migrating index schema",
			zap.Int64("from", version),
			zap.Int64("to", SCHEMA_VERSION))

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := migrations[version](tx); err != nil {
				return fmt.Errorf("failed to migrate schema from version %d: %w", version, err)
			}
			return setIntProperty(ctx, tx, schema.PropertyKeySchemaVersion, SCHEMA_VERSION)
		})
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(allTables...); err != nil {
			return fmt.Errorf("failed to migrate index tables: %w", err)
		}
		return nil

	default:
		logger.WarnCtx(ctx, "Index schema version mismatch, rebuilding index",
			zap.Error(domain.ErrSchemaMismatch),
			zap.Int64("found", version),
			zap.Int64("expected", SCHEMA_VERSION))
		return s.Rebuild(ctx)
	}
}

// Rebuild drops and recreates the index tables and resets the watermark.
// The next sync pass re-reads the whole directory.
func (s *sqlStore) Rebuild(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(indexTables...); err != nil {
			return fmt.Errorf("failed to drop index tables: %w", err)
		}
		if err := tx.AutoMigrate(allTables...); err != nil {
			return fmt.Errorf("failed to create index tables: %w", err)
		}
		if err := tx.Where(&schema.Property{Key: schema.PropertyKeySyncWatermark}).Delete(&schema.Property{}).Error; err != nil {
			return fmt.Errorf("failed to reset sync watermark: %w", err)
		}
		return setIntProperty(ctx, tx, schema.PropertyKeySchemaVersion, SCHEMA_VERSION)
	})
}

// DeleteEntriesForContacts deletes the entries and prefixes of the given contacts
func (s *sqlStore) DeleteEntriesForContacts(ctx context.Context, contactIDs []int64) (int64, error) {
	if len(contactIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for chunk := range slices.Chunk(contactIDs, DELETE_CHUNK_SIZE) {
			if err := tx.Where("contact_id IN ?", chunk).Delete(&schema.PrefixEntry{}).Error; err != nil {
				return fmt.Errorf("failed to delete prefixes: %w", err)
			}

			result := tx.Where("contact_id IN ?", chunk).Delete(&schema.IndexedEntry{})
			if result.Error != nil {
				return fmt.Errorf("failed to delete entries: %w", result.Error)
			}
			deleted += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// DeleteEntriesNewerThan removes what an interrupted pass left behind: the
// entries stamped after watermark and every prefix of their contacts
func (s *sqlStore) DeleteEntriesNewerThan(ctx context.Context, watermark int64) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newer := tx.Model(&schema.IndexedEntry{}).
			Select("contact_id").
			Where("sync_timestamp > ?", watermark)

		if err := tx.Where("contact_id IN (?)", newer).Delete(&schema.PrefixEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete prefixes of newer entries: %w", err)
		}

		result := tx.Where("sync_timestamp > ?", watermark).Delete(&schema.IndexedEntry{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete newer entries: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// InsertEntries inserts a batch of entries and their prefixes in one transaction
func (s *sqlStore) InsertEntries(ctx context.Context, entries []schema.IndexedEntry, prefixes []schema.PrefixEntry) error {
	if len(entries) == 0 && len(prefixes) == 0 {
		return nil
	}

	dialect := s.db.Dialector.Name()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(entries) > 0 {
			// 14 columns per entry, id is generated
			batchSize := calculateSafeBatchSize(dialect, len(entries), 14)
			if err := tx.CreateInBatches(entries, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert entries: %w", err)
			}
		}

		if len(prefixes) > 0 {
			batchSize := calculateSafeBatchSize(dialect, len(prefixes), 2)
			if err := tx.CreateInBatches(prefixes, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert prefixes: %w", err)
			}
		}
		return nil
	})
}

// InsertPrefixes inserts a batch of prefixes in one transaction
func (s *sqlStore) InsertPrefixes(ctx context.Context, prefixes []schema.PrefixEntry) error {
	if len(prefixes) == 0 {
		return nil
	}

	batchSize := calculateSafeBatchSize(s.db.Dialector.Name(), len(prefixes), 2)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(prefixes, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert prefixes: %w", err)
		}
		return nil
	})
}

// EnsureIndexes creates any secondary index missing from the index tables
func (s *sqlStore) EnsureIndexes(ctx context.Context) error {
	migrator := s.db.WithContext(ctx).Migrator()
	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		logger.InfoCtx(ctx, "Creating missing index", zap.String("index", idx.name))
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// QueryCandidates returns the entries of every contact owning a prefix starting with prefix.
// This is a loose match: callers confirm each candidate before showing it.
func (s *sqlStore) QueryCandidates(ctx context.Context, prefix string) ([]schema.IndexedEntry, error) {
	if prefix == "" {
		return nil, nil
	}

	db := s.db.WithContext(ctx)
	owners := db.Model(&schema.PrefixEntry{}).
		Select("contact_id").
		Where("prefix LIKE ?", prefix+"%")

	var entries []schema.IndexedEntry
	err := db.Where("contact_id IN (?)", owners).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	return entries, nil
}

// RecordSyncRun appends a journal row and keeps only the latest SYNC_RUN_RETENTION rows
func (s *sqlStore) RecordSyncRun(ctx context.Context, run *schema.SyncRun) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to record sync run: %w", err)
		}

		latest := tx.Model(&schema.SyncRun{}).
			Select("id").
			Order("id DESC").
			Limit(SYNC_RUN_RETENTION)
		if err := tx.Where("id NOT IN (?)", latest).Delete(&schema.SyncRun{}).Error; err != nil {
			return fmt.Errorf("failed to prune sync runs: %w", err)
		}
		return nil
	})
}

// ListSyncRuns returns the most recent journal rows, newest first
func (s *sqlStore) ListSyncRuns(ctx context.Context, limit int) ([]schema.SyncRun, error) {
	var runs []schema.SyncRun
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}

	return runs, nil
}

// Stats returns entry, prefix and contact counts
func (s *sqlStore) Stats(ctx context.Context) (*IndexStats, error) {
	db := s.db.WithContext(ctx)

	var stats IndexStats
	if err := db.Model(&schema.IndexedEntry{}).Count(&stats.Entries).Error; err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	if err := db.Model(&schema.PrefixEntry{}).Count(&stats.Prefixes).Error; err != nil {
		return nil, fmt.Errorf("failed to count prefixes: %w", err)
	}
	if err := db.Model(&schema.IndexedEntry{}).Distinct("contact_id").Count(&stats.Contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	return &stats, nil
}
