package storage

import (
	"context"
	"time"

	"github.com/dshills/fetchmark/pkg/types"
)

// Storage defines the interface for persisting the bookmark cache and settings
type Storage interface {
	// Bookmark cache operations
	ReplaceBookmarks(ctx context.Context, snapshot *BookmarkSnapshot) error
	LoadBookmarks(ctx context.Context) (*BookmarkSnapshot, error)
	ClearBookmarks(ctx context.Context) error

	// Settings operations
	GetSettingValues(ctx context.Context) (map[string]string, error)
	PutSettingValues(ctx context.Context, values map[string]string) error

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	// Database operations
	Close() error
}

// BookmarkSnapshot is the flattened bookmark list as of one read of the source file
type BookmarkSnapshot struct {
	Bookmarks  []types.Bookmark
	SourcePath string
	FetchedAt  time.Time
}

// Age returns how long ago the snapshot was taken
func (s *BookmarkSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Status contains statistics about the local store
type Status struct {
	SchemaVersion string
	DriverName    string
	BuildMode     string

	BookmarkCount int
	SourcePath    string
	CachedAt      *time.Time // nil when nothing is cached

	SettingsCount int
}
