package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/flaskr/internal/database"
	"github.com/charlesng35/flaskr/internal/models"
)

// TestDBOption adjusts how MustOpenTestDB prepares the database.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	autoMigrate bool
	entries     []models.Entry
}

// WithAutoMigrate creates the schema after opening.
func WithAutoMigrate() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
	}
}

// WithEntries inserts the given entries in order. It implies WithAutoMigrate.
func WithEntries(entries ...models.Entry) TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
		cfg.entries = append(cfg.entries, entries...)
	}
}

// MustOpenTestDB opens a private in-memory SQLite database that is closed
// when the test ends.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	var cfg testDBConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Shared-cache memory databases are keyed by name.
	dsn := fmt.Sprintf("file:flaskr-%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	if cfg.autoMigrate {
		require.NoError(t, database.AutoMigrate(db))
	}
	for i := range cfg.entries {
		entry := cfg.entries[i]
		require.NoError(t, db.Create(&entry).Error)
	}

	return db
}
