package bookmarks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/dshills/fetchmark/pkg/types"
)

// windowsEpochOffset is the number of microseconds between 1601-01-01 and 1970-01-01
const windowsEpochOffset = 11644473600000000

// isoLayout matches the millisecond-precision UTC timestamps browsers produce
const isoLayout = "2006-01-02T15:04:05.000Z"

// Node is one entry of a Chrome bookmark tree
type Node struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	DateAdded string `json:"date_added,omitempty"`
	Children  []Node `json:"children,omitempty"`
}

// File is the top-level layout of Chrome's Bookmarks file
type File struct {
	Roots struct {
		BookmarkBar *Node `json:"bookmark_bar"`
		Other       *Node `json:"other"`
		Synced      *Node `json:"synced"`
	} `json:"roots"`
	Version int `json:"version"`
}

// RootNodes returns the present roots in display order
func (f *File) RootNodes() []Node {
	var nodes []Node
	for _, n := range []*Node{f.Roots.BookmarkBar, f.Roots.Other, f.Roots.Synced} {
		if n != nil {
			nodes = append(nodes, *n)
		}
	}
	return nodes
}

// Parse decodes a Bookmarks file and flattens it
func Parse(data []byte) ([]types.Bookmark, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	return Flatten(file.RootNodes()), nil
}

// ParseFile reads and flattens the Bookmarks file at path
func ParseFile(path string) ([]types.Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read bookmarks file %s: %w", path, err)
	}
	return Parse(data)
}

// Flatten walks nodes depth-first and returns every bookmark with a supported URL.
// Folder names accumulate into each bookmark's folder path.
func Flatten(nodes []Node) []types.Bookmark {
	out := make([]types.Bookmark, 0)
	return flatten(nodes, nil, out)
}

func flatten(nodes []Node, path []string, out []types.Bookmark) []types.Bookmark {
	for _, n := range nodes {
		title := n.Name
		if title == "" {
			title = types.DefaultTitle
		}

		isFolder := n.Children != nil
		switch {
		case n.URL != "" && !isFolder:
			if !types.ValidURL(n.URL) {
				continue
			}
			out = append(out, types.NewBookmark(n.ID, title, n.URL, path, chromeTime(n.DateAdded)))
		case isFolder:
			next := make([]string, len(path), len(path)+1)
			copy(next, path)
			out = flatten(n.Children, append(next, title), out)
		}
	}
	return out
}

// chromeTime converts a Chrome timestamp (microseconds since 1601) to ISO-8601.
// Unparseable or zero values yield "".
func chromeTime(raw string) string {
	if raw == "" {
		return ""
	}
	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || micros <= 0 {
		return ""
	}
	return time.UnixMicro(micros - windowsEpochOffset).UTC().Format(isoLayout)
}

// DefaultPath returns where Chrome keeps the default profile's Bookmarks file on this OS
func DefaultPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Google", "Chrome", "User Data", "Default", "Bookmarks"), nil
		}
		return "", fmt.Errorf("LOCALAPPDATA is not set")
	case "darwin":
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "Google", "Chrome", "Default", "Bookmarks"), nil
	default:
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "google-chrome", "Default", "Bookmarks"), nil
	}
}
