package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fetchmark/pkg/types"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults when env not provided", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, types.ProviderGroq, cfg.SearchProvider)
		assert.Equal(t, DefaultGroqModel, cfg.GroqModel)
		assert.Equal(t, DefaultGroqURL, cfg.GroqURL)
		assert.Equal(t, DefaultHFURL, cfg.HFURL)
		assert.Equal(t, DefaultOllamaURL, cfg.OllamaURL)
		assert.Equal(t, types.DefaultOllamaModel, cfg.OllamaModel)
		assert.Equal(t, DefaultBookmarkTTL, cfg.BookmarksTTL)
		assert.Equal(t, 1, cfg.OllamaConcurrency)
		assert.Zero(t, cfg.OllamaRateLimit)
		assert.Zero(t, cfg.EmbeddingCacheSize)
		assert.True(t, cfg.WatchFile)
	})

	t.Run("parses overrides", func(t *testing.T) {
		t.Setenv("SEARCH_PROVIDER", " Ollama ")
		t.Setenv("OLLAMA_URL", "http://gpu-box:11434/")
		t.Setenv("OLLAMA_CONCURRENCY", "4")
		t.Setenv("OLLAMA_RATE_LIMIT", "2.5")
		t.Setenv("BOOKMARKS_CACHE_TTL", "5m")
		t.Setenv("EMBEDDING_CACHE_SIZE", "512")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, types.ProviderOllama, cfg.SearchProvider)
		assert.Equal(t, "http://gpu-box:11434", cfg.OllamaURL)
		assert.Equal(t, 4, cfg.OllamaConcurrency)
		assert.InDelta(t, 2.5, cfg.OllamaRateLimit, 1e-9)
		assert.Equal(t, 5*time.Minute, cfg.BookmarksTTL)
		assert.Equal(t, 512, cfg.EmbeddingCacheSize)
	})

	t.Run("clamps out of range values", func(t *testing.T) {
		t.Setenv("OLLAMA_CONCURRENCY", "-3")
		t.Setenv("OLLAMA_RATE_LIMIT", "-1")
		t.Setenv("EMBEDDING_CACHE_SIZE", "-10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 1, cfg.OllamaConcurrency)
		assert.Zero(t, cfg.OllamaRateLimit)
		assert.Zero(t, cfg.EmbeddingCacheSize)

		t.Setenv("OLLAMA_CONCURRENCY", "500")
		cfg, err = Load()
		require.NoError(t, err)
		assert.Equal(t, maxOllamaConcurrency, cfg.OllamaConcurrency)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Setenv("SEARCH_PROVIDER", "openai")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SEARCH_PROVIDER")
	})

	t.Run("rejects bad endpoint", func(t *testing.T) {
		t.Setenv("OLLAMA_URL", "localhost:11434")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OLLAMA_URL")
	})
}

func TestDefaultSettings(t *testing.T) {
	cfg := &Config{
		SearchProvider: types.ProviderHF,
		HFAPIKey:       "hf_secret",
		OllamaModel:    "nomic-embed-text",
	}

	s := cfg.DefaultSettings()
	assert.Equal(t, types.ProviderHF, s.SearchProvider)
	assert.Equal(t, "hf_secret", s.HFAPIKey)
	assert.Empty(t, s.GroqAPIKey)
	assert.Equal(t, "nomic-embed-text", s.OllamaModel)

	empty := (&Config{}).DefaultSettings()
	assert.Equal(t, types.DefaultSettings(), empty)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROQ_MODEL=llama-3.1-8b-instant\n"), 0o600))
	t.Setenv("GROQ_MODEL", "")
	require.NoError(t, os.Unsetenv("GROQ_MODEL"))

	LoadDotEnv(path)
	t.Cleanup(func() { _ = os.Unsetenv("GROQ_MODEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.GroqModel)

	// Missing files are tolerated
	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
}
