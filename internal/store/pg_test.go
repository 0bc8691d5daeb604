package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mirrorDB is nil when neither an external database nor docker is available
var mirrorDB *gorm.DB

// TestMain provides a PostgreSQL mirror for the suite.
// ARTIVIO_TEST_DB_DSN points the tests at an existing database; otherwise a container is started.
func TestMain(m *testing.M) {
	ctx := context.Background()

	dsn, terminate, err := mirrorDSN(ctx)
	if err != nil {
		fmt.Printf("PostgreSQL unavailable, skipping mirror tests: %v\n", err)
		os.Exit(m.Run())
	}

	code := func() int {
		defer terminate()

		db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			fmt.Printf("Failed to connect to mirror database: %v\n", err)
			return 1
		}
		if err := applySchema(db); err != nil {
			fmt.Printf("Failed to apply mirror schema: %v\n", err)
			return 1
		}

		mirrorDB = db
		return m.Run()
	}()

	os.Exit(code)
}

// mirrorDSN returns the external DSN when configured, otherwise the DSN of a fresh container
func mirrorDSN(ctx context.Context) (string, func(), error) {
	if dsn := os.Getenv("ARTIVIO_TEST_DB_DSN"); dsn != "" {
		return dsn, func() {}, nil
	}

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("artivio_test"),
		postgres.WithUsername("artivio"),
		postgres.WithPassword("artivio"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", nil, err
	}

	terminate := func() {
		if err := container.Terminate(context.Background()); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", nil, err
	}

	return dsn, terminate, nil
}

// applySchema runs db/init_pg_db.sql, which is idempotent
func applySchema(db *gorm.DB) error {
	schemaSQL, err := os.ReadFile(filepath.Join("..", "..", "db", "init_pg_db.sql")) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	_, err = sqlDB.Exec(string(schemaSQL))
	return err
}

// newPGTestStore wraps each test in a transaction that is rolled back on cleanup
func newPGTestStore(t *testing.T) Store {
	tx := mirrorDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

func TestPostgreSQLStore(t *testing.T) {
	if mirrorDB == nil {
		t.Skip("PostgreSQL mirror not available")
	}

	RunStoreTests(t, newPGTestStore)
}
