package types

import "strings"

// Search provider identifiers
const (
	ProviderGroq   = "groq"
	ProviderHF     = "hf"
	ProviderOllama = "ollama"

	// DefaultProvider is used when no provider has been configured
	DefaultProvider = ProviderGroq

	// DefaultOllamaModel is used when no local model name has been configured
	DefaultOllamaModel = "mistral"
)

// Providers lists every recognized provider identifier
var Providers = []string{ProviderGroq, ProviderHF, ProviderOllama}

// Settings selects the active search provider and holds its credentials
type Settings struct {
	SearchProvider string `json:"searchProvider" toml:"provider"`
	GroqAPIKey     string `json:"groqApiKey,omitempty" toml:"groq_api_key"`
	HFAPIKey       string `json:"hfApiKey,omitempty" toml:"hf_api_key"`
	OllamaModel    string `json:"ollamaModel" toml:"ollama_model"`
}

// DefaultSettings returns the settings used before anything has been saved
func DefaultSettings() Settings {
	return Settings{
		SearchProvider: DefaultProvider,
		OllamaModel:    DefaultOllamaModel,
	}
}

// IsKnownProvider reports whether name is a recognized provider identifier
func IsKnownProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}

// Masked returns a copy with credentials obscured for display
func (s Settings) Masked() Settings {
	s.GroqAPIKey = maskSecret(s.GroqAPIKey)
	s.HFAPIKey = maskSecret(s.HFAPIKey)
	return s
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}
