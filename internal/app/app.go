// Package app assembles storage, settings, the bookmark source and the searcher
// from process configuration.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/fetchmark/internal/bookmarks"
	"github.com/dshills/fetchmark/internal/config"
	"github.com/dshills/fetchmark/internal/embedder"
	"github.com/dshills/fetchmark/internal/probe"
	"github.com/dshills/fetchmark/internal/ranker"
	"github.com/dshills/fetchmark/internal/searcher"
	"github.com/dshills/fetchmark/internal/settings"
	"github.com/dshills/fetchmark/internal/storage"
	"github.com/dshills/fetchmark/pkg/types"
)

// MsgNoBookmarks is returned when there is nothing to search
const MsgNoBookmarks = "No bookmarks found to search."

// App holds the long-lived components shared by the CLI and the MCP server
type App struct {
	Config    *config.Config
	Storage   storage.Storage
	Settings  *settings.Store
	Bookmarks *bookmarks.Source
	Searcher  *searcher.Searcher
	Probe     *probe.Prober

	// Embeddings is nil when embedding caching is disabled
	Embeddings *embedder.Cache
}

// Status describes the local store and active configuration
type Status struct {
	SchemaVersion string     `json:"schema_version"`
	Driver        string     `json:"driver"`
	BuildMode     string     `json:"build_mode"`
	BookmarksFile string     `json:"bookmarks_file"`
	BookmarkCount int        `json:"bookmark_count"`
	CachedAt      *time.Time `json:"cached_at,omitempty"`
	CacheFresh    bool       `json:"cache_fresh"`
	CacheTTL      string     `json:"cache_ttl"`
	Provider      string     `json:"search_provider"`
	SettingsCount int        `json:"settings_saved"`
	CachedVectors int        `json:"embedding_cache_size"`
}

// New opens storage and wires every component from cfg
func New(cfg *config.Config) (*App, error) {
	dbPath, err := resolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	bookmarksFile := cfg.BookmarksFile
	if bookmarksFile == "" {
		if bookmarksFile, err = bookmarks.DefaultPath(); err != nil {
			log.Printf("No bookmarks file configured and no default found: %v", err)
		}
	}

	var cache *embedder.Cache
	if cfg.EmbeddingCacheSize > 0 {
		cache = embedder.NewCache(cfg.EmbeddingCacheSize)
	}

	settingsStore := settings.NewStore(store, cfg.DefaultSettings())

	return &App{
		Config:    cfg,
		Storage:   store,
		Settings:  settingsStore,
		Bookmarks: bookmarks.NewSource(bookmarksFile, store, cfg.BookmarksTTL),
		Searcher: searcher.NewSearcher(settingsStore, ranker.Options{
			GroqModel:         cfg.GroqModel,
			GroqURL:           cfg.GroqURL,
			HFURL:             cfg.HFURL,
			OllamaURL:         cfg.OllamaURL,
			OllamaConcurrency: cfg.OllamaConcurrency,
			OllamaRateLimit:   cfg.OllamaRateLimit,
			Timeout:           cfg.HTTPTimeout,
			EmbeddingCache:    cache,
		}),
		Probe:      probe.New(cfg.OllamaURL, cfg.HTTPTimeout),
		Embeddings: cache,
	}, nil
}

// resolveDBPath expands a leading ~ and creates the parent directory
func resolveDBPath(dbPath string) (string, error) {
	if dbPath == ":memory:" {
		return dbPath, nil
	}

	if dbPath == "~" || strings.HasPrefix(dbPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, strings.TrimPrefix(dbPath, "~"))
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath, nil
}

// Search loads bookmarks (from cache unless forceRefresh) and ranks them against query.
// Like Searcher.Search it never fails; problems are reported in the message.
func (a *App) Search(ctx context.Context, query string, forceRefresh bool) types.SearchResult {
	if searcher.QueryTooShort(query) {
		return types.NewSearchResult(nil, searcher.MsgQueryTooShort)
	}

	list, err := a.Bookmarks.GetBookmarks(ctx, forceRefresh)
	if err != nil {
		log.Printf("Failed to load bookmarks: %v", err)
		return types.NewSearchResult(nil, fmt.Sprintf("Couldn't load bookmarks: %v", err))
	}
	if len(list) == 0 {
		return types.NewSearchResult(nil, MsgNoBookmarks)
	}

	return a.Searcher.Search(ctx, query, list)
}

// Refresh re-reads the bookmarks file and replaces the cache
func (a *App) Refresh(ctx context.Context) ([]types.Bookmark, error) {
	return a.Bookmarks.Refresh(ctx)
}

// TestOllama checks the configured Ollama server for model, or for the saved
// model when model is empty
func (a *App) TestOllama(ctx context.Context, model string) types.ConnectionResult {
	if strings.TrimSpace(model) == "" {
		current, err := a.Settings.GetSettings(ctx)
		if err != nil {
			log.Printf("Failed to load settings: %v", err)
		}
		model = current.OllamaModel
	}
	return a.Probe.TestConnection(ctx, model)
}

// Status reports storage, cache and provider state
func (a *App) Status(ctx context.Context) (*Status, error) {
	st, err := a.Storage.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	current, err := a.Settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		SchemaVersion: st.SchemaVersion,
		Driver:        st.DriverName,
		BuildMode:     st.BuildMode,
		BookmarksFile: a.Bookmarks.Path(),
		BookmarkCount: st.BookmarkCount,
		CachedAt:      st.CachedAt,
		CacheTTL:      a.Bookmarks.TTL().String(),
		Provider:      current.SearchProvider,
		SettingsCount: st.SettingsCount,
	}
	if a.Embeddings != nil {
		status.CachedVectors = a.Embeddings.Size()
	}
	if st.CachedAt != nil && st.SourcePath == a.Bookmarks.Path() {
		status.CacheFresh = time.Since(*st.CachedAt) < a.Bookmarks.TTL()
	}
	return status, nil
}

// Close releases storage
func (a *App) Close() error {
	return a.Storage.Close()
}
