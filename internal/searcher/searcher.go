package searcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/fetchmark/internal/ranker"
	"github.com/dshills/fetchmark/pkg/types"
)

// MinQueryLength is the shortest trimmed query that is searched
const MinQueryLength = 3

// User-facing messages
const (
	MsgQueryTooShort   = "Please enter a longer search query."
	MsgNoResults       = "No relevant bookmarks found."
	MsgInvalidProvider = "Invalid search provider configured."
	MsgCancelled       = "Search cancelled."
	MsgMissingModel    = "Ollama model name is not configured. Please set it in settings."
)

// SettingsLoader supplies the settings used for a search
type SettingsLoader interface {
	GetSettings(ctx context.Context) (types.Settings, error)
}

// RankerFactory builds the ranker for the active provider
type RankerFactory func(settings types.Settings, opts ranker.Options) (ranker.Ranker, error)

// Searcher validates queries, selects a ranker from current settings and
// normalizes every outcome into a types.SearchResult
type Searcher struct {
	settings  SettingsLoader
	opts      ranker.Options
	newRanker RankerFactory
}

// NewSearcher creates a new Searcher. A nil settings loader means every search
// uses types.DefaultSettings.
func NewSearcher(settings SettingsLoader, opts ranker.Options) *Searcher {
	return &Searcher{
		settings:  settings,
		opts:      opts,
		newRanker: ranker.New,
	}
}

// WithRankerFactory replaces the ranker factory
func (s *Searcher) WithRankerFactory(f RankerFactory) *Searcher {
	s.newRanker = f
	return s
}

// Search ranks bookmarks against query. It never returns an error: failures are
// reported through the Message field with an empty result list.
func (s *Searcher) Search(ctx context.Context, query string, bookmarks []types.Bookmark) (result types.SearchResult) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Search panic: %v", r)
			result = types.NewSearchResult(nil, fmt.Sprintf("Search failed: %v", r))
		}
	}()

	if QueryTooShort(query) {
		return types.NewSearchResult(nil, MsgQueryTooShort)
	}

	settings := s.loadSettings(ctx)
	provider := settings.SearchProvider

	r, err := s.newRanker(settings, s.opts)
	if err != nil {
		log.Printf("Search with %s could not start: %v", provider, err)
		return types.NewSearchResult(nil, UserMessage(ctx, provider, err))
	}
	defer func() { _ = r.Close() }()

	results, err := r.Rank(ctx, query, bookmarks)
	if err != nil {
		log.Printf("Search with %s failed after %v: %v", provider, time.Since(startTime), err)
		return types.NewSearchResult(nil, UserMessage(ctx, provider, err))
	}

	if len(results) > types.MaxResults {
		results = results[:types.MaxResults]
	}

	log.Printf("Search with %s: %d candidates, %d results in %v", provider, len(bookmarks), len(results), time.Since(startTime))

	if len(results) == 0 {
		return types.NewSearchResult(nil, MsgNoResults)
	}
	return types.NewSearchResult(results, "")
}

// QueryTooShort reports whether the trimmed query has fewer than MinQueryLength characters
func QueryTooShort(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength
}

// loadSettings falls back to whatever GetSettings returned alongside its error,
// which for settings.Store are the environment defaults
func (s *Searcher) loadSettings(ctx context.Context) types.Settings {
	if s.settings == nil {
		return types.DefaultSettings()
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		log.Printf("Failed to load settings, using defaults: %v", err)
	}
	return settings
}

// UserMessage maps a search failure to the message shown to the user
func UserMessage(ctx context.Context, provider string, err error) string {
	tag := strings.ToUpper(provider)

	// Client timeouts also match context.DeadlineExceeded, so only the caller's
	// context decides whether the search was cancelled.
	var connErr *types.ConnectionError
	if errors.As(err, &connErr) {
		return connErr.Error()
	}

	if errors.Is(err, context.Canceled) || (ctx != nil && ctx.Err() != nil) {
		return MsgCancelled
	}

	var credErr *types.MissingCredentialError
	if errors.As(err, &credErr) {
		if credErr.Field == "model name" {
			return MsgMissingModel
		}
		return fmt.Sprintf("API key for %s is missing. Please configure it in settings.", tag)
	}

	var httpErr *types.ProviderHTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Unauthorized():
			return fmt.Sprintf("Invalid API key for %s. Please check your key in settings.", tag)
		case httpErr.RateLimited():
			return fmt.Sprintf("API rate limit exceeded for %s. Please try again later or check your plan.", tag)
		}
		status := httpErr.Status
		if status == "" {
			status = fmt.Sprint(httpErr.StatusCode)
		}
		msg := fmt.Sprintf("Search failed: %s API request failed: %s.", tag, status)
		if httpErr.Message != "" {
			msg += " " + httpErr.Message
		}
		return msg
	}

	var formatErr *types.EmbeddingFormatError
	if errors.As(err, &formatErr) {
		return fmt.Sprintf("Search failed: unexpected response format from %s.", tag)
	}

	if errors.Is(err, types.ErrInvalidProvider) {
		return MsgInvalidProvider
	}

	return fmt.Sprintf("Search failed: %v", err)
}
