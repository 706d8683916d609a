package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/dshills/fetchmark/internal/storage"
	"github.com/dshills/fetchmark/pkg/types"
)

// DefaultTTL is how long a cached bookmark list is served before the file is re-read
const DefaultTTL = 15 * time.Minute

var (
	// ErrNoSourceFile is returned when no bookmarks file has been configured
	ErrNoSourceFile = errors.New("no bookmarks file configured")

	// ErrSave is returned when a freshly read list cannot be cached
	ErrSave = errors.New("could not save bookmarks to local storage")

	// ErrRefreshInProgress is returned when a manual refresh is already running
	ErrRefreshInProgress = errors.New("bookmark refresh already in progress")
)

// Source serves the flattened bookmark list, reading the file only when the cache is stale
type Source struct {
	path    string
	storage storage.Storage
	ttl     time.Duration
	now     func() time.Time
	lock    RefreshLock
}

// NewSource creates a source for the Bookmarks file at path. A ttl <= 0 uses DefaultTTL.
func NewSource(path string, st storage.Storage, ttl time.Duration) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if path != "" {
		path = filepath.Clean(path)
	}
	return &Source{
		path:    path,
		storage: st,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Path returns the bookmarks file being served
func (s *Source) Path() string {
	return s.path
}

// TTL returns the cache lifetime
func (s *Source) TTL() time.Duration {
	return s.ttl
}

// GetBookmarks returns the cached list while it is fresh, otherwise re-reads the file
// and caches the result.
func (s *Source) GetBookmarks(ctx context.Context, forceRefresh bool) ([]types.Bookmark, error) {
	if !forceRefresh {
		if cached, ok := s.cached(ctx); ok {
			return cached, nil
		}
	}
	return s.fetch(ctx)
}

// Refresh re-reads the file unconditionally. Overlapping calls fail with ErrRefreshInProgress.
func (s *Source) Refresh(ctx context.Context) ([]types.Bookmark, error) {
	if !s.lock.TryAcquire() {
		return nil, ErrRefreshInProgress
	}
	defer s.lock.Release()

	return s.fetch(ctx)
}

// Invalidate drops the cached list so the next read goes to the file
func (s *Source) Invalidate(ctx context.Context) error {
	if err := s.storage.ClearBookmarks(ctx); err != nil {
		return fmt.Errorf("failed to clear bookmark cache: %w", err)
	}
	return nil
}

func (s *Source) cached(ctx context.Context) ([]types.Bookmark, bool) {
	snapshot, err := s.storage.LoadBookmarks(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		log.Printf("Error retrieving cached bookmarks: %v", err)
		return nil, false
	}

	if snapshot.SourcePath != s.path {
		return nil, false
	}
	if snapshot.Age(s.now()) >= s.ttl {
		log.Printf("Bookmark cache expired")
		return nil, false
	}
	return snapshot.Bookmarks, true
}

func (s *Source) fetch(ctx context.Context) ([]types.Bookmark, error) {
	if s.path == "" {
		return nil, ErrNoSourceFile
	}

	list, err := ParseFile(s.path)
	if err != nil {
		return nil, err
	}

	snapshot := &storage.BookmarkSnapshot{
		Bookmarks:  list,
		SourcePath: s.path,
		FetchedAt:  s.now(),
	}
	if err := s.storage.ReplaceBookmarks(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSave, err)
	}

	log.Printf("Stored %d bookmarks from %s", len(list), s.path)
	return list, nil
}
