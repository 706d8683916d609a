package ranker

import (
	"strings"
	"time"

	"github.com/dshills/fetchmark/internal/embedder"
	"github.com/dshills/fetchmark/internal/llm"
	"github.com/dshills/fetchmark/pkg/types"
)

// Options holds the endpoint and tuning configuration shared by every search.
// Credentials and the active provider come from types.Settings instead.
type Options struct {
	GroqModel string
	GroqURL   string
	HFURL     string
	OllamaURL string

	OllamaConcurrency int
	OllamaRateLimit   float64
	Timeout           time.Duration

	// EmbeddingCache is shared across searches when set
	EmbeddingCache *embedder.Cache
}

// New builds the ranker for the provider selected in settings.
// Missing credentials are reported here, before any network call.
func New(settings types.Settings, opts Options) (Ranker, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.SearchProvider))

	switch provider {
	case types.ProviderGroq:
		client, err := llm.NewClient(llm.Config{
			APIKey:  settings.GroqAPIKey,
			Model:   opts.GroqModel,
			URL:     opts.GroqURL,
			Timeout: opts.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return NewLLMRanker(client), nil

	case types.ProviderHF, types.ProviderOllama:
		emb, err := embedder.New(embedder.Config{
			Provider:    provider,
			APIKey:      settings.HFAPIKey,
			Model:       settings.OllamaModel,
			URL:         embedderURL(provider, opts),
			Concurrency: opts.OllamaConcurrency,
			RateLimit:   opts.OllamaRateLimit,
			Timeout:     opts.Timeout,
			Cache:       opts.EmbeddingCache,
		})
		if err != nil {
			return nil, err
		}
		return NewEmbeddingRanker(emb), nil

	default:
		return nil, &types.InvalidProviderError{Provider: settings.SearchProvider}
	}
}

func embedderURL(provider string, opts Options) string {
	if provider == types.ProviderHF {
		return opts.HFURL
	}
	return opts.OllamaURL
}
