package bookmarks

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a Source's cache whenever its bookmarks file changes on disk.
//
// The parent directory is watched rather than the file itself: browsers replace the
// file by renaming a temporary copy over it, which would drop a watch on the file.
type Watcher struct {
	watcher *fsnotify.Watcher
	source  *Source
	file    string

	// OnInvalidate, when set, is called after each successful invalidation
	OnInvalidate func()
}

// NewWatcher starts watching the directory that holds source's file
func NewWatcher(source *Source) (*Watcher, error) {
	if source.Path() == "" {
		return nil, ErrNoSourceFile
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(source.Path())
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		watcher: w,
		source:  source,
		file:    source.Path(),
	}, nil
}

// Run processes file events until ctx is cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if err := w.source.Invalidate(ctx); err != nil {
				log.Printf("Bookmarks file changed but cache invalidation failed: %v", err)
				continue
			}
			log.Printf("Bookmarks file changed (%s), cache invalidated", event.Op)
			if w.OnInvalidate != nil {
				w.OnInvalidate()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Bookmarks watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.file {
		return false
	}
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return true
	case event.Op&fsnotify.Create == fsnotify.Create:
		return true
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		return true
	default:
		return false
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
