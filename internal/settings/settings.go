// Package settings persists the active search provider and its credentials.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dshills/fetchmark/internal/storage"
	"github.com/dshills/fetchmark/pkg/types"
)

// Keys under which settings are stored
const (
	KeySearchProvider = "searchProvider"
	KeyGroqAPIKey     = "groqApiKey"
	KeyHFAPIKey       = "hfApiKey"
	KeyOllamaModel    = "ollamaModel"
)

// GroqKeyPrefix starts every Groq API key
const GroqKeyPrefix = "gsk_"

// ErrInvalidGroqKey is returned for a non-empty Groq key without GroqKeyPrefix
var ErrInvalidGroqKey = errors.New("invalid Groq API key format")

// Patch holds optional updates; nil fields are left unchanged
type Patch struct {
	SearchProvider *string
	GroqAPIKey     *string
	HFAPIKey       *string
	OllamaModel    *string
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.SearchProvider == nil && p.GroqAPIKey == nil && p.HFAPIKey == nil && p.OllamaModel == nil
}

// Store reads and writes settings, falling back to defaults for anything never saved
type Store struct {
	storage  storage.Storage
	defaults types.Settings
}

// NewStore creates a settings store over st. Zero-valued defaults fields are
// filled from types.DefaultSettings.
func NewStore(st storage.Storage, defaults types.Settings) *Store {
	base := types.DefaultSettings()
	if defaults.SearchProvider == "" {
		defaults.SearchProvider = base.SearchProvider
	}
	if defaults.OllamaModel == "" {
		defaults.OllamaModel = base.OllamaModel
	}
	return &Store{storage: st, defaults: defaults}
}

// Defaults returns the settings used for keys never saved
func (s *Store) Defaults() types.Settings {
	return s.defaults
}

// GetSettings returns the defaults overlaid with every saved value
func (s *Store) GetSettings(ctx context.Context) (types.Settings, error) {
	values, err := s.storage.GetSettingValues(ctx)
	if err != nil {
		return s.defaults, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := s.defaults
	if v, ok := values[KeySearchProvider]; ok {
		settings.SearchProvider = v
	}
	if v, ok := values[KeyGroqAPIKey]; ok {
		settings.GroqAPIKey = v
	}
	if v, ok := values[KeyHFAPIKey]; ok {
		settings.HFAPIKey = v
	}
	if v, ok := values[KeyOllamaModel]; ok {
		settings.OllamaModel = v
	}
	return settings, nil
}

// Update validates and saves the fields set in patch, returning the resulting settings
func (s *Store) Update(ctx context.Context, patch Patch) (types.Settings, error) {
	values, err := patch.values()
	if err != nil {
		return types.Settings{}, err
	}

	if err := s.storage.PutSettingValues(ctx, values); err != nil {
		return types.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	return s.GetSettings(ctx)
}

func (p Patch) values() (map[string]string, error) {
	values := make(map[string]string)

	if p.SearchProvider != nil {
		provider := strings.ToLower(strings.TrimSpace(*p.SearchProvider))
		if !types.IsKnownProvider(provider) {
			return nil, &types.InvalidProviderError{Provider: *p.SearchProvider}
		}
		values[KeySearchProvider] = provider
	}
	if p.GroqAPIKey != nil {
		key := strings.TrimSpace(*p.GroqAPIKey)
		if key != "" && !strings.HasPrefix(key, GroqKeyPrefix) {
			return nil, ErrInvalidGroqKey
		}
		values[KeyGroqAPIKey] = key
	}
	if p.HFAPIKey != nil {
		values[KeyHFAPIKey] = strings.TrimSpace(*p.HFAPIKey)
	}
	if p.OllamaModel != nil {
		values[KeyOllamaModel] = strings.TrimSpace(*p.OllamaModel)
	}

	return values, nil
}

// fileFormat is the layout of an importable settings file:
//
//	[search]
//	provider = "ollama"
//	groq_api_key = "gsk_..."
//	hf_api_key = "hf_..."
//	ollama_model = "mistral"
type fileFormat struct {
	Search types.Settings `toml:"search"`
}

// ImportFile reads a TOML settings file and saves every key it defines
func (s *Store) ImportFile(ctx context.Context, path string) (types.Settings, error) {
	patch, err := ParseFile(path)
	if err != nil {
		return types.Settings{}, err
	}
	if patch.IsEmpty() {
		return types.Settings{}, fmt.Errorf("%s defines no [search] settings", path)
	}
	return s.Update(ctx, patch)
}

// ParseFile decodes a TOML settings file into a patch containing only the keys it defines
func ParseFile(path string) (Patch, error) {
	var file fileFormat
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Patch{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	for _, key := range md.Undecoded() {
		log.Printf("Ignoring unknown settings key %s in %s", key, path)
	}

	var patch Patch
	if md.IsDefined("search", "provider") {
		patch.SearchProvider = &file.Search.SearchProvider
	}
	if md.IsDefined("search", "groq_api_key") {
		patch.GroqAPIKey = &file.Search.GroqAPIKey
	}
	if md.IsDefined("search", "hf_api_key") {
		patch.HFAPIKey = &file.Search.HFAPIKey
	}
	if md.IsDefined("search", "ollama_model") {
		patch.OllamaModel = &file.Search.OllamaModel
	}
	return patch, nil
}
