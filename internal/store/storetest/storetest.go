// Package storetest opens throwaway SQLite-backed index stores for tests of
// the packages built on top of the store.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feral-file/ff-smartdial/internal/store"
)

// NewSQLiteStore returns a bootstrapped store over a private in-memory SQLite
// database, together with the underlying connection for direct assertions.
// The database is discarded when the test ends.
func NewSQLiteStore(t testing.TB) (store.Store, *gorm.DB) {
	t.Helper()

	db, err := store.OpenDB(store.DriverSQLite, "file::memory:", false)
	require.NoError(t, err)

	// an in-memory database lives as long as its only connection
	require.NoError(t, store.ConfigureConnectionPool(db, 1, 1, 0, 0))
	t.Cleanup(func() {
		_ = store.CloseDB(db)
	})

	s := store.NewSQLStore(db)
	require.NoError(t, s.Bootstrap(context.Background()))
	return s, db
}
