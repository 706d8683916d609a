package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// DefaultTitle is used for bookmarks without a title
	DefaultTitle = "Untitled"

	// RootPath is the folder path rendered for bookmarks at the top level
	RootPath = "Root"

	// PathSeparator joins folder names into a folder path
	PathSeparator = " / "
)

// allowedSchemes lists the URL prefixes a bookmark may carry
var allowedSchemes = []string{"http:", "https:", "ftp:"}

// Bookmark is a single flattened bookmark.
//
// The context string used for semantic comparison is not stored; it is derived
// from the other fields every time it is requested.
type Bookmark struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FolderPath string `json:"folderPath"`
	DateAdded  string `json:"dateAdded,omitempty"` // ISO-8601, empty when unknown
}

// NewBookmark builds a bookmark from raw tree data, applying the title and path defaults
func NewBookmark(id, title, url string, folders []string, dateAdded string) Bookmark {
	if title == "" {
		title = DefaultTitle
	}
	return Bookmark{
		ID:         id,
		Title:      title,
		URL:        url,
		FolderPath: JoinFolderPath(folders),
		DateAdded:  dateAdded,
	}
}

// JoinFolderPath joins ancestor folder names, returning RootPath for an empty path
func JoinFolderPath(folders []string) string {
	if len(folders) == 0 {
		return RootPath
	}
	return strings.Join(folders, PathSeparator)
}

// Context returns the single-line text representation used by every search provider.
// Empty titles and paths render with the same defaults NewBookmark applies.
func (b Bookmark) Context() string {
	title := b.Title
	if title == "" {
		title = DefaultTitle
	}
	path := b.FolderPath
	if path == "" {
		path = RootPath
	}
	return fmt.Sprintf("Title: %s | URL: %s | Path: %s", title, b.URL, path)
}

// MarshalJSON includes the derived context alongside the stored fields
func (b Bookmark) MarshalJSON() ([]byte, error) {
	type plain Bookmark
	return json.Marshal(struct {
		plain
		Context string `json:"context"`
	}{
		plain:   plain(b),
		Context: b.Context(),
	})
}

// ValidURL reports whether url uses one of the schemes bookmarks are kept for
func ValidURL(url string) bool {
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

// Contexts returns the context string of every bookmark, in order
func Contexts(bookmarks []Bookmark) []string {
	contexts := make([]string, len(bookmarks))
	for i, bm := range bookmarks {
		contexts[i] = bm.Context()
	}
	return contexts
}
