package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fetchmark/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		wantProvider string
		wantModel    string
		wantErr      error
	}{
		{
			name:         "hf provider",
			cfg:          Config{Provider: "hf", APIKey: "key"},
			wantProvider: ProviderHF,
			wantModel:    DefaultHFModel,
		},
		{
			name:         "case insensitive",
			cfg:          Config{Provider: "OLLAMA", Model: "mistral"},
			wantProvider: ProviderOllama,
			wantModel:    "mistral",
		},
		{
			name:    "ollama without model",
			cfg:     Config{Provider: "ollama"},
			wantErr: types.ErrMissingCredential,
		},
		{
			name:    "groq is not an embedder",
			cfg:     Config{Provider: "groq"},
			wantErr: types.ErrInvalidProvider,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "jina"},
			wantErr: types.ErrInvalidProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emb, err := New(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, emb)
				return
			}

			require.NoError(t, err)
			defer emb.Close()
			assert.Equal(t, tt.wantProvider, emb.Provider())
			assert.Equal(t, tt.wantModel, emb.Model())
		})
	}
}

func TestNew_PassesOllamaOptions(t *testing.T) {
	cache := NewCache(8)
	emb, err := New(Config{
		Provider:    ProviderOllama,
		Model:       "nomic-embed-text",
		URL:         "http://gpu-box:11434",
		Concurrency: 3,
		RateLimit:   5,
		Cache:       cache,
	})
	require.NoError(t, err)

	provider, ok := emb.(*OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://gpu-box:11434/api/embeddings", provider.Endpoint())
	assert.Equal(t, 3, provider.concurrency)
	assert.NotNil(t, provider.limiter)
	assert.Same(t, cache, provider.cache)
}
