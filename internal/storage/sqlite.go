package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/fetchmark/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// timeLayout is used for timestamps stored as text so both drivers read them back identically
const timeLayout = time.RFC3339Nano

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx runs fn in a transaction, committing on success
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Bookmark cache operations

// ReplaceBookmarks swaps the cached bookmark list for snapshot in one transaction
func (s *SQLiteStorage) ReplaceBookmarks(ctx context.Context, snapshot *BookmarkSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	return s.withTx(ctx, func(q querier) error {
		if _, err := q.ExecContext(ctx, "DELETE FROM bookmarks"); err != nil {
			return fmt.Errorf("failed to clear bookmarks: %w", err)
		}

		for i, bm := range snapshot.Bookmarks {
			_, err := q.ExecContext(ctx, `
				INSERT INTO bookmarks (position, bookmark_id, title, url, folder_path, date_added)
				VALUES (?, ?, ?, ?, ?, ?)
			`, i, bm.ID, bm.Title, bm.URL, bm.FolderPath, nullString(bm.DateAdded))
			if err != nil {
				return fmt.Errorf("failed to insert bookmark %s: %w", bm.ID, err)
			}
		}

		_, err := q.ExecContext(ctx, `
			INSERT INTO bookmark_cache (id, source_path, fetched_at, bookmark_count)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				source_path = excluded.source_path,
				fetched_at = excluded.fetched_at,
				bookmark_count = excluded.bookmark_count
		`, snapshot.SourcePath, snapshot.FetchedAt.UTC().Format(timeLayout), len(snapshot.Bookmarks))
		if err != nil {
			return fmt.Errorf("failed to record bookmark cache: %w", err)
		}
		return nil
	})
}

// LoadBookmarks returns the cached snapshot, or ErrNotFound if nothing has been cached
func (s *SQLiteStorage) LoadBookmarks(ctx context.Context) (*BookmarkSnapshot, error) {
	snapshot := &BookmarkSnapshot{}
	var fetchedAt string
	var count int

	err := s.db.QueryRowContext(ctx,
		"SELECT source_path, fetched_at, bookmark_count FROM bookmark_cache WHERE id = 1",
	).Scan(&snapshot.SourcePath, &fetchedAt, &count)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmark cache: %w", err)
	}

	snapshot.FetchedAt, err = time.Parse(timeLayout, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid cache timestamp %q: %w", fetchedAt, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bookmark_id, title, url, folder_path, date_added
		FROM bookmarks
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot.Bookmarks = make([]types.Bookmark, 0, count)
	for rows.Next() {
		var bm types.Bookmark
		var dateAdded sql.NullString
		if err := rows.Scan(&bm.ID, &bm.Title, &bm.URL, &bm.FolderPath, &dateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bm.DateAdded = dateAdded.String
		snapshot.Bookmarks = append(snapshot.Bookmarks, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// ClearBookmarks removes the cached bookmarks so the next read goes to the source
func (s *SQLiteStorage) ClearBookmarks(ctx context.Context) error {
	return s.withTx(ctx, func(q querier) error {
		if _, err := q.ExecContext(ctx, "DELETE FROM bookmarks"); err != nil {
			return fmt.Errorf("failed to clear bookmarks: %w", err)
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM bookmark_cache"); err != nil {
			return fmt.Errorf("failed to clear bookmark cache: %w", err)
		}
		return nil
	})
}

// Settings operations

// GetSettingValues returns every stored setting
func (s *SQLiteStorage) GetSettingValues(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		values[key] = value
	}
	return values, rows.Err()
}

// PutSettingValues upserts values in one transaction
func (s *SQLiteStorage) PutSettingValues(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(timeLayout)
	return s.withTx(ctx, func(q querier) error {
		for key, value := range values {
			_, err := q.ExecContext(ctx, `
				INSERT INTO settings (key, value, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET
					value = excluded.value,
					updated_at = excluded.updated_at
			`, key, value, now)
			if err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
}

// Status operations

// GetStatus reports schema, driver and cache statistics
func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	version, err := SchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}

	status := &Status{
		SchemaVersion: version,
		DriverName:    DriverName,
		BuildMode:     BuildMode,
	}

	var sourcePath, fetchedAt string
	err = s.db.QueryRowContext(ctx,
		"SELECT source_path, fetched_at, bookmark_count FROM bookmark_cache WHERE id = 1",
	).Scan(&sourcePath, &fetchedAt, &status.BookmarkCount)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to read bookmark cache: %w", err)
	default:
		status.SourcePath = sourcePath
		if t, err := time.Parse(timeLayout, fetchedAt); err == nil {
			status.CachedAt = &t
		}
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&status.SettingsCount); err != nil {
		return nil, fmt.Errorf("failed to count settings: %w", err)
	}

	return status, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
