// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"

	"github.com/dshills/fetchmark/pkg/types"
)

// Default endpoints and models
const (
	DefaultGroqURL     = "https://api.groq.com/openai/v1/chat/completions"
	DefaultGroqModel   = "llama3-8b-8192"
	DefaultHFURL       = "https://api-inference.huggingface.co/pipeline/feature-extraction/sentence-transformers/paraphrase-MiniLM-L6-v2"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultBookmarkTTL = 15 * time.Minute

	maxOllamaConcurrency = 16
)

// Config holds process-level configuration. Values stored through the settings
// store take precedence over the provider fields here at search time.
type Config struct {
	DBPath        string        `env:"FETCHMARK_DB_PATH,default=fetchmark.db"`
	BookmarksFile string        `env:"FETCHMARK_BOOKMARKS_FILE"`
	BookmarksTTL  time.Duration `env:"BOOKMARKS_CACHE_TTL,default=15m"`
	WatchFile     bool          `env:"BOOKMARKS_WATCH,default=true"`

	SearchProvider string `env:"SEARCH_PROVIDER,default=groq"`
	GroqAPIKey     string `env:"GROQ_API_KEY"`
	GroqModel      string `env:"GROQ_MODEL,default=llama3-8b-8192"`
	GroqURL        string `env:"GROQ_API_URL,default=https://api.groq.com/openai/v1/chat/completions"`
	HFAPIKey       string `env:"HF_API_KEY"`
	HFURL          string `env:"HF_API_URL,default=https://api-inference.huggingface.co/pipeline/feature-extraction/sentence-transformers/paraphrase-MiniLM-L6-v2"`

	OllamaURL         string  `env:"OLLAMA_URL,default=http://localhost:11434"`
	OllamaModel       string  `env:"OLLAMA_MODEL,default=mistral"`
	OllamaConcurrency int     `env:"OLLAMA_CONCURRENCY,default=1"`
	OllamaRateLimit   float64 `env:"OLLAMA_RATE_LIMIT,default=0"`

	EmbeddingCacheSize int           `env:"EMBEDDING_CACHE_SIZE,default=0"`
	HTTPTimeout        time.Duration `env:"HTTP_TIMEOUT,default=30s"`
}

// LoadDotEnv loads a .env file into the environment when one exists
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultSettings returns the search settings implied by the environment,
// used before anything has been saved to the settings store
func (c *Config) DefaultSettings() types.Settings {
	s := types.DefaultSettings()
	if c.SearchProvider != "" {
		s.SearchProvider = c.SearchProvider
	}
	s.GroqAPIKey = c.GroqAPIKey
	s.HFAPIKey = c.HFAPIKey
	if c.OllamaModel != "" {
		s.OllamaModel = c.OllamaModel
	}
	return s
}

// validateConfig validates configuration values and adjusts them to safe ranges
func validateConfig(cfg *Config) error {
	cfg.SearchProvider = strings.ToLower(strings.TrimSpace(cfg.SearchProvider))
	if !types.IsKnownProvider(cfg.SearchProvider) {
		return fmt.Errorf("SEARCH_PROVIDER must be one of %s", strings.Join(types.Providers, ", "))
	}

	if cfg.OllamaConcurrency < 1 {
		cfg.OllamaConcurrency = 1
	}
	if cfg.OllamaConcurrency > maxOllamaConcurrency {
		cfg.OllamaConcurrency = maxOllamaConcurrency
	}

	if cfg.OllamaRateLimit < 0 {
		cfg.OllamaRateLimit = 0
	}
	if cfg.EmbeddingCacheSize < 0 {
		cfg.EmbeddingCacheSize = 0
	}
	if cfg.BookmarksTTL <= 0 {
		cfg.BookmarksTTL = DefaultBookmarkTTL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	for name, raw := range map[string]string{
		"GROQ_API_URL": cfg.GroqURL,
		"HF_API_URL":   cfg.HFURL,
		"OLLAMA_URL":   cfg.OllamaURL,
	} {
		if err := validateEndpoint(name, raw); err != nil {
			return err
		}
	}
	cfg.OllamaURL = strings.TrimRight(cfg.OllamaURL, "/")

	if cfg.DBPath == "" {
		return fmt.Errorf("FETCHMARK_DB_PATH cannot be empty")
	}

	return nil
}

func validateEndpoint(name, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s URL format: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a valid host", name)
	}
	return nil
}
