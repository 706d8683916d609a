package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.1.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
	{
		Version: "1.1.0",
		Up:      migrationV11Up,
		Down:    migrationV11Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Flattened bookmarks, in tree order
CREATE TABLE IF NOT EXISTS bookmarks (
    position INTEGER PRIMARY KEY,
    bookmark_id TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL,
    folder_path TEXT NOT NULL,
    date_added TEXT
);

-- Single-row cache metadata for the bookmarks table
CREATE TABLE IF NOT EXISTS bookmark_cache (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    source_path TEXT NOT NULL,
    fetched_at TEXT NOT NULL,
    bookmark_count INTEGER NOT NULL
);

-- Search settings key/value store
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationV1Down = `
DROP TABLE IF EXISTS settings;
DROP TABLE IF EXISTS bookmark_cache;
DROP TABLE IF EXISTS bookmarks;
DROP TABLE IF EXISTS schema_version;
`

const migrationV11Up = `
CREATE INDEX IF NOT EXISTS idx_bookmarks_url ON bookmarks(url);
CREATE INDEX IF NOT EXISTS idx_bookmarks_folder ON bookmarks(folder_path);
`

const migrationV11Down = `
DROP INDEX IF EXISTS idx_bookmarks_folder;
DROP INDEX IF EXISTS idx_bookmarks_url;
`

// appliedVersions returns recorded versions sorted ascending.
// A missing schema_version table yields no versions.
func appliedVersions(ctx context.Context, db *sql.DB) ([]*semver.Version, error) {
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check schema_version table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema_version: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var versions []*semver.Version
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid schema version %s: %w", raw, err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Sort(semver.Collection(versions))
	return versions, nil
}

// SchemaVersion returns the highest applied migration version, or "0.0.0"
func SchemaVersion(ctx context.Context, db *sql.DB) (string, error) {
	versions, err := appliedVersions(ctx, db)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "0.0.0", nil
	}
	return versions[len(versions)-1].Original(), nil
}

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	raw, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	currentVersion := semver.MustParse(raw)

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		if _, err := db.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}

// RollbackMigration rolls back the most recent migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	versions, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("no migrations to rollback")
	}
	currentVersion := versions[len(versions)-1].Original()

	var migration *Migration
	for i := range AllMigrations {
		if AllMigrations[i].Version == currentVersion {
			migration = &AllMigrations[i]
			break
		}
	}

	if migration == nil {
		return fmt.Errorf("migration %s not found", currentVersion)
	}

	if _, err := db.ExecContext(ctx, migration.Down); err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", currentVersion, err)
	}

	// The first migration drops schema_version itself
	if len(versions) == 1 {
		return nil
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", currentVersion); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", currentVersion, err)
	}

	return nil
}
