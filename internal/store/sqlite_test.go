//go:build !integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-smartdial/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// initSQLiteTestDB opens a private in-memory database for each test
func initSQLiteTestDB(t *testing.T) Store {
	db, err := OpenDB(DriverSQLite, "file::memory:", false)
	require.NoError(t, err)

	// an in-memory database lives as long as its only connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	t.Cleanup(func() {
		_ = CloseDB(db)
	})

	s := NewSQLStore(db)
	require.NoError(t, s.Bootstrap(context.Background()))
	return s
}

func cleanupSQLiteTestDB(t *testing.T) {
	// the database is discarded when its connection closes
}

// TestSQLiteStore runs all store tests against SQLite
func TestSQLiteStore(t *testing.T) {
	RunStoreTests(t, initSQLiteTestDB, cleanupSQLiteTestDB)
}

func TestCalculateSafeBatchSize(t *testing.T) {
	tests := []struct {
		name            string
		dialect         string
		totalRecords    int
		fieldsPerRecord int
		want            int
	}{
		{name: "small batch fits", dialect: DriverSQLite, totalRecords: 10, fieldsPerRecord: 14, want: 10},
		{name: "sqlite limit", dialect: DriverSQLite, totalRecords: 100000, fieldsPerRecord: 2, want: (32766 - 1000) / 2},
		{name: "postgres limit", dialect: DriverPostgres, totalRecords: 100000, fieldsPerRecord: 14, want: (65535 - 1000) / 14},
		{name: "empty input still yields a positive size", dialect: DriverPostgres, totalRecords: 0, fieldsPerRecord: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, calculateSafeBatchSize(tt.dialect, tt.totalRecords, tt.fieldsPerRecord))
		})
	}
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	maxOpen, maxIdle, lifetime, idle := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	require.Equal(t, 20, maxOpen)
	require.Equal(t, 5, maxIdle)
	require.NotZero(t, lifetime)
	require.NotZero(t, idle)

	maxOpen, maxIdle, _, _ = NormalizeConnectionPoolSettings(2, 10, 0, 0)
	require.Equal(t, 2, maxOpen)
	require.Equal(t, 2, maxIdle, "idle connections are clamped to the open limit")
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB("oracle", "dsn", false)
	require.Error(t, err)
}
