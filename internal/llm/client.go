// Package llm talks to an OpenAI-compatible chat-completions endpoint (Groq by
// default) and turns bookmark lists into ranking prompts.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dshills/fetchmark/pkg/types"
)

const (
	ProviderGroq = types.ProviderGroq

	DefaultURL   = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel = "llama3-8b-8192"

	// Sampling parameters for ranking requests
	Temperature = 0.1
	MaxTokens   = 50

	DefaultTimeout = 30 * time.Second

	maxErrorBody = 4096
)

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Config configures a chat client
type Config struct {
	APIKey  string
	Model   string
	URL     string
	Timeout time.Duration
}

// Client sends chat-completion requests
type Client struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewClient creates a chat client. The API key is required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &types.MissingCredentialError{Provider: ProviderGroq, Field: "API key"}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		url:    cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Model returns the model name sent with each request
func (c *Client) Model() string {
	return c.model
}

// Complete sends messages and returns the trimmed content of the first choice.
// A response without choices yields an empty string.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &types.ProviderHTTPError{
			Provider:   ProviderGroq,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(bodyBytes),
		}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(chat.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// errorMessage extracts error.message from an OpenAI-style error body
func errorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error.Message
}
