// Package probe checks that a local Ollama server is reachable and has a model.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dshills/fetchmark/pkg/types"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultTimeout = 10 * time.Second
)

// Prober lists the models of an Ollama server
type Prober struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a prober for the server at baseURL
func New(baseURL string, timeout time.Duration) *Prober {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the server address being probed
func (p *Prober) BaseURL() string {
	return p.baseURL
}

// TestConnection reports whether the server answers and lists model.
// It never fails; problems are described in the returned message.
func (p *Prober) TestConnection(ctx context.Context, model string) types.ConnectionResult {
	model = strings.TrimSpace(model)
	if model == "" {
		return types.ConnectionResult{Success: false, Message: "Model name is empty."}
	}

	names, err := p.ListModels(ctx)
	if err != nil {
		log.Printf("Ollama connection test failed: %v", err)
		return types.ConnectionResult{Success: false, Message: "Ollama test failed: " + err.Error()}
	}

	if !HasModel(names, model) {
		return types.ConnectionResult{
			Success: false,
			Message: fmt.Sprintf("Ollama test failed: Model '%s' not found in Ollama. Run 'ollama pull %s' or 'ollama run %s'.", model, model, model),
		}
	}

	return types.ConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Ollama connection successful. Model '%s' found.", model),
	}
}

// ListModels returns the model names reported by /api/tags
func (p *Prober) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Failed to reach Ollama server at %s. %v", p.baseURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Failed to reach Ollama server at %s. Status: %d", p.baseURL, resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("Unexpected response from Ollama server at %s: %v", p.baseURL, err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// HasModel reports whether model appears in names, either exactly or as the
// base of a tagged name such as "mistral:latest"
func HasModel(names []string, model string) bool {
	for _, name := range names {
		if name == model || strings.HasPrefix(name, model+":") {
			return true
		}
	}
	return false
}
