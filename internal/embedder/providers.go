package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dshills/fetchmark/pkg/types"
)

// Provider configuration
const (
	ProviderHF     = types.ProviderHF
	ProviderOllama = types.ProviderOllama

	// Default endpoints and models
	DefaultHFURL     = "https://api-inference.huggingface.co/pipeline/feature-extraction/sentence-transformers/paraphrase-MiniLM-L6-v2"
	DefaultHFModel   = "sentence-transformers/paraphrase-MiniLM-L6-v2"
	DefaultOllamaURL = "http://localhost:11434"

	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read
	maxErrorBody = 4096
)

// HFConfig configures the hosted feature-extraction provider
type HFConfig struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// HFProvider implements Embedder using the Hugging Face feature-extraction API.
// A batch is sent as one request.
type HFProvider struct {
	apiKey     string
	url        string
	httpClient *http.Client
	cache      *Cache
}

// NewHFProvider creates a new Hugging Face embedder
func NewHFProvider(cfg HFConfig, cache *Cache) *HFProvider {
	if cfg.URL == "" {
		cfg.URL = DefaultHFURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &HFProvider{
		apiKey: cfg.APIKey,
		url:    cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: cache,
	}
}

func (h *HFProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	embeddings, err := batchWithCache(ctx, h.cache, ProviderHF, DefaultHFModel, req.Texts, h.callAPI)
	if err != nil {
		return nil, err
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   ProviderHF,
		Model:      DefaultHFModel,
	}, nil
}

func (h *HFProvider) callAPI(ctx context.Context, texts []string) ([]*Embedding, error) {
	reqBody := map[string]interface{}{
		"inputs": texts,
		"options": map[string]interface{}{
			"wait_for_model": true,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(ProviderHF, resp)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &types.EmbeddingFormatError{Provider: ProviderHF, Reason: "response is not an array"}
	}

	embeddings := make([]*Embedding, len(raw))
	for i, item := range raw {
		vector, err := parseHFVector(item)
		if err != nil {
			return nil, &types.EmbeddingFormatError{
				Provider: ProviderHF,
				Reason:   fmt.Sprintf("element %d: %v", i, err),
			}
		}
		embeddings[i] = newEmbedding(vector, ProviderHF, DefaultHFModel)
	}

	return embeddings, nil
}

// parseHFVector accepts a flat numeric array, the same array wrapped one extra
// level, or null. Null yields a nil vector.
func parseHFVector(item json.RawMessage) ([]float32, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var flat []float32
	if err := json.Unmarshal(trimmed, &flat); err == nil {
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(trimmed, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}

	return nil, fmt.Errorf("not a numeric vector")
}

func (h *HFProvider) Provider() string {
	return ProviderHF
}

func (h *HFProvider) Model() string {
	return DefaultHFModel
}

func (h *HFProvider) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}

// OllamaConfig configures the local Ollama provider
type OllamaConfig struct {
	URL         string
	Model       string
	Concurrency int     // parallel requests per batch, 1 is sequential
	RateLimit   float64 // requests per second, 0 is unlimited
	Timeout     time.Duration
}

// OllamaProvider implements Embedder using a local Ollama server.
// Ollama embeds one prompt per request, so a batch becomes one request per text.
type OllamaProvider struct {
	baseURL     string
	model       string
	concurrency int
	limiter     *rate.Limiter
	httpClient  *http.Client
	cache       *Cache
}

// NewOllamaProvider creates a new Ollama embedder. The model name is required.
func NewOllamaProvider(cfg OllamaConfig, cache *Cache) (*OllamaProvider, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, &types.MissingCredentialError{Provider: ProviderOllama, Field: "model name"}
	}
	if cfg.URL == "" {
		cfg.URL = DefaultOllamaURL
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &OllamaProvider{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		model:       cfg.Model,
		concurrency: cfg.Concurrency,
		limiter:     limiter,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: cache,
	}, nil
}

// Endpoint returns the embeddings URL requests are sent to
func (o *OllamaProvider) Endpoint() string {
	return o.baseURL + "/api/embeddings"
}

func (o *OllamaProvider) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	embeddings, err := batchWithCache(ctx, o.cache, ProviderOllama, o.model, req.Texts, o.embedAll)
	if err != nil {
		return nil, err
	}

	return &BatchEmbeddingResponse{
		Embeddings: embeddings,
		Provider:   ProviderOllama,
		Model:      o.model,
	}, nil
}

// embedAll embeds texts in input order. With concurrency 1 requests are strictly
// sequential; otherwise a bounded pool runs them and the first failure cancels the rest.
func (o *OllamaProvider) embedAll(ctx context.Context, texts []string) ([]*Embedding, error) {
	embeddings := make([]*Embedding, len(texts))

	if o.concurrency <= 1 {
		for i, text := range texts {
			emb, err := o.embedOne(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("embed text %d: %w", i, err)
			}
			embeddings[i] = emb
		}
		return embeddings, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, text := range texts {
		g.Go(func() error {
			emb, err := o.embedOne(gctx, text)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			embeddings[i] = emb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return embeddings, nil
}

func (o *OllamaProvider) embedOne(ctx context.Context, text string) (*Embedding, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(map[string]string{
		"model":  o.model,
		"prompt": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &types.ConnectionError{Endpoint: o.Endpoint(), Model: o.model, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(ProviderOllama, resp)
	}

	var apiResp struct {
		Embedding json.RawMessage `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &types.EmbeddingFormatError{Provider: ProviderOllama, Reason: "response is not a JSON object"}
	}

	raw := bytes.TrimSpace(apiResp.Embedding)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &types.EmbeddingFormatError{Provider: ProviderOllama, Reason: "missing embedding field"}
	}

	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, &types.EmbeddingFormatError{Provider: ProviderOllama, Reason: "embedding is not a numeric array"}
	}

	return newEmbedding(vector, ProviderOllama, o.model), nil
}

func (o *OllamaProvider) Provider() string {
	return ProviderOllama
}

func (o *OllamaProvider) Model() string {
	return o.model
}

func (o *OllamaProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}

// newHTTPError reads a bounded error body and extracts the upstream message.
// Both {"error": "..."} and {"error": {"message": "..."}} shapes are recognized.
func newHTTPError(provider string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &types.ProviderHTTPError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    upstreamMessage(bodyBytes),
	}
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var s string
		if json.Unmarshal(payload.Error, &s) == nil {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	return strings.TrimSpace(string(body))
}
