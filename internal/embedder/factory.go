package embedder

import (
	"strings"
	"time"

	"github.com/dshills/fetchmark/pkg/types"
)

// Config holds embedder configuration
type Config struct {
	Provider string
	APIKey   string // hf only
	Model    string // ollama only
	URL      string

	Concurrency int
	RateLimit   float64
	Timeout     time.Duration

	// Cache is shared across embedders when set; nil disables caching
	Cache *Cache
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderHF:
		return NewHFProvider(HFConfig{
			APIKey:  cfg.APIKey,
			URL:     cfg.URL,
			Timeout: cfg.Timeout,
		}, cfg.Cache), nil
	case ProviderOllama:
		ollama, err := NewOllamaProvider(OllamaConfig{
			URL:         cfg.URL,
			Model:       cfg.Model,
			Concurrency: cfg.Concurrency,
			RateLimit:   cfg.RateLimit,
			Timeout:     cfg.Timeout,
		}, cfg.Cache)
		if err != nil {
			return nil, err
		}
		return ollama, nil
	default:
		return nil, &types.InvalidProviderError{Provider: cfg.Provider}
	}
}
