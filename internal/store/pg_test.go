//go:build integration

package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/feral-file/ff-smartdial/internal/config"
	"github.com/feral-file/ff-smartdial/internal/logger"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// externalDatabase reads SMARTDIAL_TEST_DB_* for running against an existing server
func externalDatabase() (config.DatabaseConfig, bool) {
	host := os.Getenv("SMARTDIAL_TEST_DB_HOST")
	if host == "" {
		return config.DatabaseConfig{}, false
	}

	cfg := config.DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     host,
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "smartdial_test",
		SSLMode:  "disable",
	}
	if port, err := strconv.Atoi(os.Getenv("SMARTDIAL_TEST_DB_PORT")); err == nil {
		cfg.Port = port
	}
	if user := os.Getenv("SMARTDIAL_TEST_DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("SMARTDIAL_TEST_DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("SMARTDIAL_TEST_DB_NAME"); name != "" {
		cfg.DBName = name
	}
	return cfg, true
}

func terminateContainer(ctx context.Context) {
	if pgContainer == nil {
		return
	}
	if err := pgContainer.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

func exitWith(ctx context.Context, msg string, err error) {
	fmt.Printf("%s: %v\n", msg, err)
	terminateContainer(ctx)
	os.Exit(1)
}

// TestMain starts PostgreSQL (or uses an external server) and bootstraps the index schema
func TestMain(m *testing.M) {
	ctx := context.Background()

	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}

	var dsn string
	if cfg, ok := externalDatabase(); ok {
		dsn = cfg.DSN()
		fmt.Printf("Using external database: %s:%d/%s\n", cfg.Host, cfg.Port, cfg.DBName)
	} else {
		var err error
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("smartdial_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			exitWith(ctx, "Failed to start PostgreSQL container", err)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			exitWith(ctx, "Failed to get connection string", err)
		}
	}

	var err error
	testDB, err = OpenDB(DriverPostgres, dsn, false)
	if err != nil {
		exitWith(ctx, "Failed to connect to database", err)
	}

	if err := NewSQLStore(testDB).Bootstrap(ctx); err != nil {
		exitWith(ctx, "Failed to bootstrap schema", err)
	}

	code := m.Run()

	terminateContainer(ctx)
	os.Exit(code)
}

// initPGTestDB isolates each test in a transaction that is rolled back afterwards
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewSQLStore(tx)
}

func cleanupPGTestDB(t *testing.T) {}

// TestPostgreSQLStore runs all store tests against PostgreSQL
func TestPostgreSQLStore(t *testing.T) {
	if testDB == nil {
		t.Fatal("Test database not initialized")
	}

	RunStoreTests(t, initPGTestDB, cleanupPGTestDB)
}
