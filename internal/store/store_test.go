package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/keypad"
	"github.com/feral-file/ff-smartdial/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestEntry creates an entry and the prefixes of its name and number
func buildTestEntry(contactID int64, name, number string, syncTimestamp int64) (schema.IndexedEntry, []schema.PrefixEntry) {
	entry := schema.IndexedEntry{
		ContactID:     contactID,
		PhoneNumber:   number,
		LookupKey:     fmt.Sprintf("lookup-%d", contactID),
		DisplayName:   name,
		SyncTimestamp: syncTimestamp,
	}

	var prefixes []schema.PrefixEntry
	for _, p := range keypad.NumberPrefixes(number) {
		prefixes = append(prefixes, schema.PrefixEntry{ContactID: contactID, Prefix: p})
	}
	for _, p := range keypad.NamePrefixes(name) {
		prefixes = append(prefixes, schema.PrefixEntry{ContactID: contactID, Prefix: p})
	}
	return entry, prefixes
}

// insertTestEntry inserts an entry with its prefixes and returns the stored entry
func insertTestEntry(t *testing.T, store Store, contactID int64, name, number string, syncTimestamp int64) schema.IndexedEntry {
	entry, prefixes := buildTestEntry(contactID, name, number, syncTimestamp)
	entries := []schema.IndexedEntry{entry}
	require.NoError(t, store.InsertEntries(context.Background(), entries, prefixes))
	require.NotZero(t, entries[0].ID)
	return entries[0]
}

func contactIDsOf(entries []schema.IndexedEntry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ContactID)
	}
	return ids
}

// =============================================================================
// Test: Watermark
// =============================================================================

func testWatermark(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing watermark reads as zero", func(t *testing.T) {
		watermark, err := store.ReadWatermark(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), watermark)
	})

	t.Run("written watermark is read back", func(t *testing.T) {
		require.NoError(t, store.WriteWatermark(ctx, 1_700_000_000_000))
		watermark, err := store.ReadWatermark(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1_700_000_000_000), watermark)

		require.NoError(t, store.WriteWatermark(ctx, 1_700_000_000_500))
		watermark, err = store.ReadWatermark(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1_700_000_000_500), watermark)
	})
}

// =============================================================================
// Test: InsertEntries / QueryCandidates
// =============================================================================

func testQueryCandidates(t *testing.T, store Store) {
	ctx := context.Background()

	ann := insertTestEntry(t, store, 1, "Ann Lee", "555-1234", 100)
	annWork := insertTestEntry(t, store, 1, "Ann Lee", "650-0000", 100)
	bob := insertTestEntry(t, store, 2, "Bob Stone", "(650) 777-9999", 100)

	t.Run("name prefix returns every entry of the contact", func(t *testing.T) {
		entries, err := store.QueryCandidates(ctx, "266")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ann.ID, entries[0].ID)
		assert.Equal(t, annWork.ID, entries[1].ID)
	})

	t.Run("entries are distinct even when many prefixes match", func(t *testing.T) {
		// ann and bob each own several prefixes starting with 2
		entries, err := store.QueryCandidates(ctx, "2")
		require.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Equal(t, []int64{1, 1, 2}, contactIDsOf(entries))
	})

	t.Run("number token prefix matches", func(t *testing.T) {
		entries, err := store.QueryCandidates(ctx, "7779")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, bob.ID, entries[0].ID)
	})

	t.Run("shared number prefix returns both contacts", func(t *testing.T) {
		entries, err := store.QueryCandidates(ctx, "650")
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 1, 2}, contactIDsOf(entries))
	})

	t.Run("stored attributes are returned", func(t *testing.T) {
		entries, err := store.QueryCandidates(ctx, "5551234")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Ann Lee", entries[0].DisplayName)
		assert.Equal(t, "555-1234", entries[0].PhoneNumber)
		assert.Equal(t, "lookup-1", entries[0].LookupKey)
		assert.Equal(t, int64(100), entries[0].SyncTimestamp)
	})

	t.Run("unknown prefix returns nothing", func(t *testing.T) {
		entries, err := store.QueryCandidates(ctx, "8888")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("empty prefix returns nothing", func(t *testing.T) {
		entries, err := store.QueryCandidates(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

// =============================================================================
// Test: DeleteEntriesForContacts
// =============================================================================

func testDeleteEntriesForContacts(t *testing.T, store Store) {
	ctx := context.Background()

	insertTestEntry(t, store, 1, "Ann Lee", "555-1234", 100)
	insertTestEntry(t, store, 1, "Ann Lee", "555-9876", 100)
	insertTestEntry(t, store, 2, "Bob Stone", "555-4321", 100)
	insertTestEntry(t, store, 3, "Cid Moss", "555-1111", 100)

	t.Run("empty id list is a no-op", func(t *testing.T) {
		deleted, err := store.DeleteEntriesForContacts(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})

	t.Run("entries and prefixes of the contacts are removed", func(t *testing.T) {
		deleted, err := store.DeleteEntriesForContacts(ctx, []int64{1, 3, 42})
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		entries, err := store.QueryCandidates(ctx, "555")
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, contactIDsOf(entries))

		// no prefix row of ann survives
		entries, err = store.QueryCandidates(ctx, "266")
		require.NoError(t, err)
		assert.Empty(t, entries)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		_, bobPrefixes := buildTestEntry(2, "Bob Stone", "555-4321", 100)
		assert.Equal(t, int64(len(bobPrefixes)), stats.Prefixes)
	})

	t.Run("ids beyond a single chunk are deleted", func(t *testing.T) {
		ids := make([]int64, 0, DELETE_CHUNK_SIZE+10)
		for i := int64(0); i < DELETE_CHUNK_SIZE+10; i++ {
			ids = append(ids, 1000+i)
		}
		ids = append(ids, 2)

		deleted, err := store.DeleteEntriesForContacts(ctx, ids)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Entries)
		assert.Equal(t, int64(0), stats.Prefixes)
	})
}

// =============================================================================
// Test: DeleteEntriesNewerThan
// =============================================================================

func testDeleteEntriesNewerThan(t *testing.T, store Store) {
	ctx := context.Background()

	insertTestEntry(t, store, 1, "Ann Lee", "555-1234", 100)
	insertTestEntry(t, store, 2, "Bob Stone", "555-4321", 200)
	insertTestEntry(t, store, 2, "Bob Stone", "555-0000", 200)

	deleted, err := store.DeleteEntriesNewerThan(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	entries, err := store.QueryCandidates(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, contactIDsOf(entries))

	entries, err = store.QueryCandidates(ctx, "262")
	require.NoError(t, err)
	assert.Empty(t, entries, "prefixes of the removed contact must be gone")

	t.Run("nothing newer is a no-op", func(t *testing.T) {
		deleted, err := store.DeleteEntriesNewerThan(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Entries)
	})
}

// =============================================================================
// Test: InsertPrefixes
// =============================================================================

func testInsertPrefixes(t *testing.T, store Store) {
	ctx := context.Background()

	entry := schema.IndexedEntry{ContactID: 7, PhoneNumber: "123", LookupKey: "k7", DisplayName: "Zed", SyncTimestamp: 1}
	require.NoError(t, store.InsertEntries(ctx, []schema.IndexedEntry{entry}, nil))

	entries, err := store.QueryCandidates(ctx, "93")
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.InsertPrefixes(ctx, []schema.PrefixEntry{
		{ContactID: 7, Prefix: "9"},
		{ContactID: 7, Prefix: "93"},
		{ContactID: 7, Prefix: "933"},
	}))

	entries, err = store.QueryCandidates(ctx, "93")
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, contactIDsOf(entries))

	require.NoError(t, store.InsertPrefixes(ctx, nil))
}

// =============================================================================
// Test: EnsureIndexes
// =============================================================================

func testEnsureIndexes(t *testing.T, store Store) {
	ctx := context.Background()
	s := store.(*sqlStore)
	migrator := s.db.WithContext(ctx).Migrator()

	for _, idx := range secondaryIndexes {
		assert.True(t, migrator.HasIndex(idx.model, idx.name), idx.name)
	}

	require.NoError(t, migrator.DropIndex(&schema.PrefixEntry{}, "idx_smartdial_prefixes_prefix"))
	require.False(t, migrator.HasIndex(&schema.PrefixEntry{}, "idx_smartdial_prefixes_prefix"))

	require.NoError(t, store.EnsureIndexes(ctx))
	assert.True(t, migrator.HasIndex(&schema.PrefixEntry{}, "idx_smartdial_prefixes_prefix"))

	// idempotent
	require.NoError(t, store.EnsureIndexes(ctx))
}

// =============================================================================
// Test: Sync run journal
// =============================================================================

func testSyncRuns(t *testing.T, store Store) {
	ctx := context.Background()
	started := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < SYNC_RUN_RETENTION+5; i++ {
		run := &schema.SyncRun{
			PassID:         fmt.Sprintf("pass-%02d", i),
			Status:         domain.SyncRunStatusSucceeded,
			StartWatermark: int64(i),
			Watermark:      int64(i + 1),
			Stats:          datatypes.JSON(fmt.Sprintf(`{"inserted_entries":%d}`, i)),
			StartedAt:      started.Add(time.Duration(i) * time.Minute),
			FinishedAt:     started.Add(time.Duration(i)*time.Minute + time.Second),
		}
		require.NoError(t, store.RecordSyncRun(ctx, run))
		require.NotZero(t, run.ID)
	}

	runs, err := store.ListSyncRuns(ctx, 100)
	require.NoError(t, err)
	require.Len(t, runs, SYNC_RUN_RETENTION)
	assert.Equal(t, fmt.Sprintf("pass-%02d", SYNC_RUN_RETENTION+4), runs[0].PassID)
	assert.Equal(t, "pass-05", runs[len(runs)-1].PassID)
	assert.JSONEq(t, fmt.Sprintf(`{"inserted_entries":%d}`, SYNC_RUN_RETENTION+4), string(runs[0].Stats))

	runs, err = store.ListSyncRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	t.Run("failed runs keep their error", func(t *testing.T) {
		msg := "directory unavailable"
		run := &schema.SyncRun{
			PassID:     "pass-failed",
			Status:     domain.SyncRunStatusAborted,
			Error:      &msg,
			StartedAt:  started,
			FinishedAt: started,
		}
		require.NoError(t, store.RecordSyncRun(ctx, run))

		runs, err := store.ListSyncRuns(ctx, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, domain.SyncRunStatusAborted, runs[0].Status)
		require.NotNil(t, runs[0].Error)
		assert.Equal(t, msg, *runs[0].Error)
	})
}

// =============================================================================
// Test: Stats
// =============================================================================

func testStats(t *testing.T, store Store) {
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, IndexStats{}, *stats)

	insertTestEntry(t, store, 1, "Ann", "12", 1)
	insertTestEntry(t, store, 1, "Ann", "34", 1)
	insertTestEntry(t, store, 2, "Bo", "5", 1)

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Entries)
	assert.Equal(t, int64(2), stats.Contacts)
	// ann: 1,12 and 3,34 plus 2,26,266 per entry; bo: 5 plus 2,26
	assert.Equal(t, int64(2+3+2+3+1+2), stats.Prefixes)
}

// =============================================================================
// Test: Bootstrap
// =============================================================================

func testBootstrap(t *testing.T, store Store) {
	ctx := context.Background()
	s := store.(*sqlStore)

	t.Run("bootstrap is idempotent", func(t *testing.T) {
		insertTestEntry(t, store, 1, "Ann Lee", "555-1234", 100)
		require.NoError(t, store.WriteWatermark(ctx, 100))

		require.NoError(t, store.Bootstrap(ctx))

		version, found, err := getIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(SCHEMA_VERSION), version)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Entries)
	})

	t.Run("previous version is migrated in place", func(t *testing.T) {
		require.NoError(t, s.db.Migrator().DropTable(&schema.SyncRun{}))
		require.NoError(t, setIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion, SCHEMA_VERSION-1))

		require.NoError(t, store.Bootstrap(ctx))

		assert.True(t, s.db.Migrator().HasTable(&schema.SyncRun{}))
		version, _, err := getIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion)
		require.NoError(t, err)
		assert.Equal(t, int64(SCHEMA_VERSION), version)

		watermark, err := store.ReadWatermark(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), watermark)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Entries)
	})

	t.Run("unknown version rebuilds the index", func(t *testing.T) {
		require.NoError(t, setIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion, 99))

		require.NoError(t, store.Bootstrap(ctx))

		version, _, err := getIntProperty(ctx, s.db, schema.PropertyKeySchemaVersion)
		require.NoError(t, err)
		assert.Equal(t, int64(SCHEMA_VERSION), version)

		watermark, err := store.ReadWatermark(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), watermark)

		stats, err := store.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, IndexStats{}, *stats)

		for _, idx := range secondaryIndexes {
			assert.True(t, s.db.Migrator().HasIndex(idx.model, idx.name), idx.name)
		}
	})
}

// =============================================================================
// Test: Rebuild
// =============================================================================

func testRebuild(t *testing.T, store Store) {
	ctx := context.Background()

	insertTestEntry(t, store, 1, "Ann Lee", "555-1234", 100)
	require.NoError(t, store.WriteWatermark(ctx, 100))
	require.NoError(t, store.RecordSyncRun(ctx, &schema.SyncRun{
		PassID:     "kept",
		Status:     domain.SyncRunStatusSucceeded,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}))

	require.NoError(t, store.Rebuild(ctx))

	watermark, err := store.ReadWatermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), watermark)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, IndexStats{}, *stats)

	runs, err := store.ListSyncRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "the journal survives a rebuild")

	// the rebuilt tables accept writes
	insertTestEntry(t, store, 2, "Bob", "1", 1)
}

// RunStoreTests runs the store test suite against a store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Watermark", testWatermark},
		{"QueryCandidates", testQueryCandidates},
		{"DeleteEntriesForContacts", testDeleteEntriesForContacts},
		{"DeleteEntriesNewerThan", testDeleteEntriesNewerThan},
		{"InsertPrefixes", testInsertPrefixes},
		{"EnsureIndexes", testEnsureIndexes},
		{"SyncRuns", testSyncRuns},
		{"Stats", testStats},
		{"Bootstrap", testBootstrap},
		{"Rebuild", testRebuild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
