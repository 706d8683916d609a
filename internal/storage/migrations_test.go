package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var got string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE name = ?", name).Scan(&got)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestApplyMigrations(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", version)

	require.NoError(t, ApplyMigrations(ctx, db))
	for _, table := range []string{"schema_version", "bookmarks", "bookmark_cache", "settings", "idx_bookmarks_url"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	// Idempotent
	require.NoError(t, ApplyMigrations(ctx, db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)

	version, err = SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestRollbackMigration(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))

	require.NoError(t, RollbackMigration(ctx, db))
	assert.False(t, tableExists(t, db, "idx_bookmarks_url"))
	assert.True(t, tableExists(t, db, "bookmarks"))

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	require.NoError(t, RollbackMigration(ctx, db))
	assert.False(t, tableExists(t, db, "bookmarks"))
	assert.False(t, tableExists(t, db, "schema_version"))

	assert.Error(t, RollbackMigration(ctx, db))

	// Re-applying after a full rollback restores the schema
	require.NoError(t, ApplyMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "settings"))
}
