package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fetchmark/pkg/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	// Use in-memory database for testing
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func sampleBookmarks() []types.Bookmark {
	return []types.Bookmark{
		types.NewBookmark("10", "Go Blog", "https://go.dev/blog", []string{"Bookmarks bar", "Dev"}, "2023-05-01T10:00:00Z"),
		types.NewBookmark("11", "", "ftp://files.example.com", nil, ""),
		types.NewBookmark("12", "SQLite", "https://sqlite.org", []string{"Other bookmarks"}, ""),
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)

	version, err := SchemaVersion(context.Background(), storage.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestClose(t *testing.T) {
	storage, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	assert.NoError(t, storage.Close())
}

func TestLoadBookmarks_Empty(t *testing.T) {
	storage := setupTestDB(t)

	_, err := storage.LoadBookmarks(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceAndLoadBookmarks(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()
	fetchedAt := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)

	err := storage.ReplaceBookmarks(ctx, &BookmarkSnapshot{
		Bookmarks:  sampleBookmarks(),
		SourcePath: "/home/u/.config/chrome/Default/Bookmarks",
		FetchedAt:  fetchedAt,
	})
	require.NoError(t, err)

	snap, err := storage.LoadBookmarks(ctx)
	require.NoError(t, err)

	assert.Equal(t, sampleBookmarks(), snap.Bookmarks)
	assert.Equal(t, "/home/u/.config/chrome/Default/Bookmarks", snap.SourcePath)
	assert.True(t, fetchedAt.Equal(snap.FetchedAt))
	assert.Equal(t, time.Minute, snap.Age(fetchedAt.Add(time.Minute)))

	// Replacing drops the previous list entirely
	err = storage.ReplaceBookmarks(ctx, &BookmarkSnapshot{
		Bookmarks:  sampleBookmarks()[2:],
		SourcePath: "other",
		FetchedAt:  fetchedAt.Add(time.Hour),
	})
	require.NoError(t, err)

	snap, err = storage.LoadBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Bookmarks, 1)
	assert.Equal(t, "12", snap.Bookmarks[0].ID)
	assert.Equal(t, "other", snap.SourcePath)
}

func TestReplaceBookmarks_EmptyList(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, storage.ReplaceBookmarks(ctx, &BookmarkSnapshot{SourcePath: "p", FetchedAt: time.Now()}))

	snap, err := storage.LoadBookmarks(ctx)
	require.NoError(t, err)
	assert.NotNil(t, snap.Bookmarks)
	assert.Empty(t, snap.Bookmarks)

	assert.Error(t, storage.ReplaceBookmarks(ctx, nil))
}

func TestClearBookmarks(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, storage.ReplaceBookmarks(ctx, &BookmarkSnapshot{Bookmarks: sampleBookmarks(), SourcePath: "p", FetchedAt: time.Now()}))
	require.NoError(t, storage.ClearBookmarks(ctx))

	_, err := storage.LoadBookmarks(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing an empty cache is fine
	assert.NoError(t, storage.ClearBookmarks(ctx))
}

func TestSettingValues(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	values, err := storage.GetSettingValues(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, storage.PutSettingValues(ctx, map[string]string{
		"searchProvider": "hf",
		"hfApiKey":       "hf_abc",
	}))
	require.NoError(t, storage.PutSettingValues(ctx, map[string]string{
		"searchProvider": "ollama",
	}))
	require.NoError(t, storage.PutSettingValues(ctx, nil))

	values, err = storage.GetSettingValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"searchProvider": "ollama",
		"hfApiKey":       "hf_abc",
	}, values)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
	assert.Equal(t, DriverName, status.DriverName)
	assert.Equal(t, BuildMode, status.BuildMode)
	assert.Nil(t, status.CachedAt)
	assert.Zero(t, status.BookmarkCount)

	now := time.Now().UTC()
	require.NoError(t, storage.ReplaceBookmarks(ctx, &BookmarkSnapshot{Bookmarks: sampleBookmarks(), SourcePath: "p", FetchedAt: now}))
	require.NoError(t, storage.PutSettingValues(ctx, map[string]string{"searchProvider": "groq"}))

	status, err = storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.BookmarkCount)
	assert.Equal(t, "p", status.SourcePath)
	require.NotNil(t, status.CachedAt)
	assert.True(t, now.Equal(*status.CachedAt))
	assert.Equal(t, 1, status.SettingsCount)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetchmark.db")
	ctx := context.Background()

	storage, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, storage.PutSettingValues(ctx, map[string]string{"ollamaModel": "llama3"}))
	require.NoError(t, storage.Close())

	storage, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer storage.Close()

	values, err := storage.GetSettingValues(ctx)
	require.NoError(t, err)
	assert.Equal(t, "llama3", values["ollamaModel"])
}
