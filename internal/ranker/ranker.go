// Package ranker orders bookmarks by relevance to a query using the configured
// search provider.
package ranker

import (
	"context"

	"github.com/dshills/fetchmark/pkg/types"
)

// Ranker orders candidate bookmarks by relevance to query.
// Implementations return at most types.MaxResults bookmarks, most relevant first.
type Ranker interface {
	Rank(ctx context.Context, query string, bookmarks []types.Bookmark) ([]types.Bookmark, error)

	// Provider returns the provider tag, e.g. "groq"
	Provider() string

	// Close releases the backend client
	Close() error
}
