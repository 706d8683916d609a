package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/fetchmark/pkg/types"
)

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyText    = errors.New("text cannot be empty")
)

// Embedding represents a vector embedding with metadata.
// A nil Vector means the provider returned no embedding for that text.
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // Content hash for caching
}

// BatchEmbeddingRequest represents a batch request
type BatchEmbeddingRequest struct {
	Texts []string
}

// BatchEmbeddingResponse represents a batch response.
// Embeddings has one entry per requested text, in request order.
type BatchEmbeddingResponse struct {
	Embeddings []*Embedding
	Provider   string
	Model      string
}

// Embedder interface defines methods for generating embeddings
type Embedder interface {
	// GenerateBatch generates embeddings for multiple texts as one logical batch
	GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error)

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the embedder
	Close() error
}

// Cache provides in-memory LRU caching of embeddings by provider, model and content hash
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates a new embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 4096
	}
	cache, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		cache, _ = lru.New[string, *Embedding](4096)
	}
	return &Cache{
		cache: cache,
	}
}

// Get retrieves a deep copy of an embedding from cache
// Returns a copy to prevent caller mutations from affecting cached values
func (c *Cache) Get(key string) (*Embedding, bool) {
	emb, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	vectorCopy := make([]float32, len(emb.Vector))
	copy(vectorCopy, emb.Vector)

	return &Embedding{
		Vector:    vectorCopy,
		Dimension: emb.Dimension,
		Provider:  emb.Provider,
		Model:     emb.Model,
		Hash:      emb.Hash,
	}, true
}

// Set stores an embedding in cache with automatic LRU eviction
func (c *Cache) Set(key string, emb *Embedding) {
	c.cache.Add(key, emb)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// ComputeHash computes SHA-256 hash of text for caching
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// cacheKey scopes a content hash to the provider and model that produced the vector
func cacheKey(provider, model, hash string) string {
	return provider + "|" + model + "|" + hash
}

// ValidateBatchRequest validates a batch embedding request
func ValidateBatchRequest(req BatchEmbeddingRequest) error {
	if len(req.Texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}

	for i, text := range req.Texts {
		if text == "" {
			return fmt.Errorf("%w: %w at index %d", ErrInvalidInput, ErrEmptyText, i)
		}
	}

	return nil
}

// fetchFunc calls a provider backend for texts and returns one embedding per text
type fetchFunc func(ctx context.Context, texts []string) ([]*Embedding, error)

// batchWithCache serves cached embeddings and sends only the misses to fetch.
// Without a cache every text goes to fetch in a single call.
func batchWithCache(ctx context.Context, cache *Cache, provider, model string, texts []string, fetch fetchFunc) ([]*Embedding, error) {
	if cache == nil {
		embeddings, err := fetch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(embeddings) != len(texts) {
			return nil, countMismatch(provider, len(texts), len(embeddings))
		}
		return embeddings, nil
	}

	result := make([]*Embedding, len(texts))
	hashes := make([]string, len(texts))
	var missTexts []string
	var missIdx []int

	for i, text := range texts {
		hashes[i] = ComputeHash(text)
		if emb, ok := cache.Get(cacheKey(provider, model, hashes[i])); ok {
			result[i] = emb
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	if len(missTexts) == 0 {
		return result, nil
	}

	fetched, err := fetch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missTexts) {
		return nil, countMismatch(provider, len(missTexts), len(fetched))
	}

	for j, emb := range fetched {
		i := missIdx[j]
		result[i] = emb
		if emb == nil || len(emb.Vector) == 0 {
			continue
		}
		emb.Hash = hashes[i]
		cache.Set(cacheKey(provider, model, hashes[i]), emb)
	}

	return result, nil
}

func countMismatch(provider string, want, got int) error {
	return &types.EmbeddingFormatError{
		Provider: provider,
		Reason:   fmt.Sprintf("requested %d embeddings, received %d", want, got),
	}
}

// newEmbedding wraps a raw vector; a nil vector yields a nil embedding
func newEmbedding(vector []float32, provider, model string) *Embedding {
	if vector == nil {
		return nil
	}
	return &Embedding{
		Vector:    vector,
		Dimension: len(vector),
		Provider:  provider,
		Model:     model,
	}
}
