package query_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/keypad"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/matcher"
	"github.com/feral-file/ff-smartdial/internal/mocks"
	"github.com/feral-file/ff-smartdial/internal/query"
	"github.com/feral-file/ff-smartdial/internal/store"
	"github.com/feral-file/ff-smartdial/internal/store/schema"
	"github.com/feral-file/ff-smartdial/internal/store/storetest"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// index writes entries and their name and number prefixes straight into the store
func index(t *testing.T, st store.Store, entries ...schema.IndexedEntry) {
	t.Helper()

	var prefixes []schema.PrefixEntry
	for _, e := range entries {
		for _, p := range keypad.NumberPrefixes(e.PhoneNumber) {
			prefixes = append(prefixes, schema.PrefixEntry{ContactID: e.ContactID, Prefix: p})
		}
		for _, p := range keypad.NamePrefixes(e.DisplayName) {
			prefixes = append(prefixes, schema.PrefixEntry{ContactID: e.ContactID, Prefix: p})
		}
	}
	require.NoError(t, st.InsertEntries(context.Background(), entries, prefixes))
}

func entry(contactID int64, name, number string) schema.IndexedEntry {
	return schema.IndexedEntry{
		ContactID:     contactID,
		LookupKey:     fmt.Sprintf("key-%d", contactID),
		DisplayName:   name,
		PhoneNumber:   number,
		SyncTimestamp: 1,
	}
}

func newEngine(t *testing.T, st store.Store, state domain.SyncState) query.Engine {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()
	stateReader := mocks.NewMockStateReader(ctrl)
	stateReader.EXPECT().State().Return(state).AnyTimes()

	return query.NewEngine(query.Config{}, st, stateReader, clock)
}

func contactIDs(matches []domain.ConfirmedMatch) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ContactID)
	}
	return ids
}

func TestLookupAnnLee(t *testing.T) {
	ctx := context.Background()
	st, _ := storetest.NewSQLiteStore(t)
	index(t, st, entry(1, "Ann Lee", "555-1234"))
	engine := newEngine(t, st, domain.SyncStateIdle)

	t.Run("name prefix", func(t *testing.T) {
		result := engine.Lookup(ctx, "266")
		require.Len(t, result.Matches, 1)
		match := result.Matches[0]
		assert.Equal(t, "Ann Lee", match.DisplayName)
		assert.Equal(t, "555-1234", match.PhoneNumber)
		assert.Equal(t, []domain.Span{{Start: 0, End: 3}}, match.NameSpans)
		assert.Nil(t, match.NumberSpan)
	})

	t.Run("number prefix", func(t *testing.T) {
		result := engine.Lookup(ctx, "5551")
		require.Len(t, result.Matches, 1)
		match := result.Matches[0]
		assert.Empty(t, match.NameSpans)
		require.NotNil(t, match.NumberSpan)
		assert.Equal(t, domain.Span{Start: 0, End: 5}, *match.NumberSpan)
	})

	t.Run("letters typed on a keyboard", func(t *testing.T) {
		result := engine.Lookup(ctx, "lee")
		require.Len(t, result.Matches, 1)
		assert.Equal(t, []domain.Span{{Start: 4, End: 7}}, result.Matches[0].NameSpans)
	})

	t.Run("no match", func(t *testing.T) {
		result := engine.Lookup(ctx, "999")
		assert.NotNil(t, result.Matches)
		assert.Empty(t, result.Matches)
		assert.False(t, result.Syncing)
	})
}

func TestLookupEmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// the store must not be consulted
	st := mocks.NewMockStore(ctrl)
	engine := newEngine(t, st, domain.SyncStateIdle)

	for _, q := range []string{"", "  ", "-()"} {
		result := engine.Lookup(context.Background(), q)
		assert.Empty(t, result.Matches)
		assert.False(t, result.Syncing)
	}
}

func TestLookupWhileSyncing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	engine := newEngine(t, st, domain.SyncStateSyncing)

	result := engine.Lookup(context.Background(), "266")
	assert.Empty(t, result.Matches)
	assert.True(t, result.Syncing)
}

func TestLookupStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	st.EXPECT().QueryCandidates(gomock.Any(), "266").Return(nil, errors.New("no such table"))
	engine := newEngine(t, st, domain.SyncStateIdle)

	result := engine.Lookup(context.Background(), "Ann")
	assert.NotNil(t, result.Matches)
	assert.Empty(t, result.Matches)
}

func TestLookupRejectsFalsePositives(t *testing.T) {
	ctx := context.Background()
	st, _ := storetest.NewSQLiteStore(t)
	index(t, st,
		entry(2, "Bob Stone", "(650) 555-0000"),
		entry(2, "Bob Stone", "+1 650 555 0001"),
	)
	engine := newEngine(t, st, domain.SyncStateIdle)

	// both rows of the contact are candidates, only one number matches
	result := engine.Lookup(ctx, "0001")
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "+1 650 555 0001", result.Matches[0].PhoneNumber)
	require.NotNil(t, result.Matches[0].NumberSpan)
	assert.Equal(t, domain.Span{Start: 11, End: 15}, *result.Matches[0].NumberSpan)
}

func TestLookupDeduplicatesContacts(t *testing.T) {
	ctx := context.Background()
	st, _ := storetest.NewSQLiteStore(t)
	index(t, st,
		entry(2, "Bob Stone", "(650) 555-0000"),
		entry(2, "Bob Stone", "+1 650 555 0001"),
		entry(3, "Bob Stone", "777"),
	)
	engine := newEngine(t, st, domain.SyncStateIdle)

	result := engine.Lookup(ctx, "262")
	assert.Equal(t, []int64{2, 3}, contactIDs(result.Matches))

	seen := make(map[domain.ContactMatch]bool)
	for _, m := range result.Matches {
		key := domain.ContactMatch{LookupKey: m.LookupKey, ContactID: m.ContactID}
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestLookupRanking(t *testing.T) {
	ctx := context.Background()
	st, _ := storetest.NewSQLiteStore(t)

	starred := entry(5, "Al Five", "100")
	starred.Starred = true

	frequent := entry(4, "Al Four", "200")
	frequent.TimesUsed = 9

	recent := entry(6, "Al Six", "300")
	recent.TimesUsed = 1
	recent.LastTimeUsed = domain.Millis(testNow.Add(-24 * time.Hour))

	superPrimary := entry(7, "Al Seven", "400")
	superPrimary.IsSuperPrimary = true

	index(t, st,
		entry(2, "Al Two", "500"),
		entry(1, "Al One", "600"),
		frequent,
		starred,
		recent,
		superPrimary,
		entry(3, "Al One", "700"),
	)
	engine := newEngine(t, st, domain.SyncStateIdle)

	result := engine.Lookup(ctx, "25")
	// starred, super primary, recently used, use count, then name and contact id
	assert.Equal(t, []int64{5, 7, 6, 4, 1, 3, 2}, contactIDs(result.Matches))
}

func TestLookupBoundsResults(t *testing.T) {
	ctx := context.Background()
	st, _ := storetest.NewSQLiteStore(t)

	var entries []schema.IndexedEntry
	for i := int64(1); i <= 30; i++ {
		entries = append(entries, entry(i, fmt.Sprintf("Ann %02d", i), fmt.Sprintf("555-%04d", i)))
	}
	index(t, st, entries...)
	engine := newEngine(t, st, domain.SyncStateIdle)

	for _, q := range []string{"2", "266", "555", "5"} {
		result := engine.Lookup(ctx, q)
		assert.Len(t, result.Matches, domain.MAX_RESULTS, q)

		// every result is confirmed by the matcher
		for _, m := range result.Matches {
			confirmed := matcher.MatchesName(q, m.DisplayName) != nil || matcher.MatchesNumber(q, m.PhoneNumber) != nil
			assert.True(t, confirmed, "%s: %s %s", q, m.DisplayName, m.PhoneNumber)
		}
	}

	// contact id breaks ties between otherwise equal names
	result := engine.Lookup(ctx, "266")
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, int64(1), result.Matches[0].ContactID)
}

func TestLookupCapsConfiguredMaxResults(t *testing.T) {
	ctx := context.Background()
	st, _ := storetest.NewSQLiteStore(t)

	var entries []schema.IndexedEntry
	for i := int64(1); i <= 30; i++ {
		entries = append(entries, entry(i, fmt.Sprintf("Ann %02d", i), fmt.Sprintf("555-%04d", i)))
	}
	index(t, st, entries...)

	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(testNow).AnyTimes()
	stateReader := mocks.NewMockStateReader(ctrl)
	stateReader.EXPECT().State().Return(domain.SyncStateIdle).AnyTimes()

	tests := []struct {
		name       string
		maxResults int
		want       int
	}{
		{"below the cap", 5, 5},
		{"unset", 0, domain.MAX_RESULTS},
		{"above the cap", 50, domain.MAX_RESULTS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := query.NewEngine(query.Config{MaxResults: tt.maxResults}, st, stateReader, clock)
			assert.Len(t, engine.Lookup(ctx, "555").Matches, tt.want)
		})
	}
}
