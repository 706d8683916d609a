package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for provider failures. Each typed error below matches one of
// these through errors.Is.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrProviderHTTP      = errors.New("provider request failed")
	ErrEmbeddingFormat   = errors.New("unexpected embedding format")
	ErrConnection        = errors.New("backend unreachable")
	ErrInvalidProvider   = errors.New("invalid search provider")
)

// MissingCredentialError is returned when the selected provider lacks a required setting
type MissingCredentialError struct {
	Provider string
	Field    string // e.g. "API key", "model name"
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s %s is missing", e.Provider, e.Field)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// ProviderHTTPError is returned for a non-2xx response from a remote provider
type ProviderHTTPError struct {
	Provider   string
	StatusCode int
	Status     string
	Message    string // upstream error message, may be empty
}

func (e *ProviderHTTPError) Error() string {
	msg := fmt.Sprintf("%s API request failed: %d", e.Provider, e.StatusCode)
	if e.Status != "" {
		msg = fmt.Sprintf("%s API request failed: %s", e.Provider, e.Status)
	}
	if e.Message != "" {
		msg += ". " + e.Message
	}
	return msg
}

func (e *ProviderHTTPError) Is(target error) bool {
	return target == ErrProviderHTTP
}

// Unauthorized reports whether the provider rejected the credential
func (e *ProviderHTTPError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// RateLimited reports whether the provider throttled the request
func (e *ProviderHTTPError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		strings.Contains(strings.ToLower(e.Message), "rate limit")
}

// EmbeddingFormatError is returned when a provider response violates the documented shape
type EmbeddingFormatError struct {
	Provider string
	Reason   string
}

func (e *EmbeddingFormatError) Error() string {
	return fmt.Sprintf("unexpected embedding format from %s: %s", e.Provider, e.Reason)
}

func (e *EmbeddingFormatError) Is(target error) bool {
	return target == ErrEmbeddingFormat
}

// ConnectionError is returned when a local backend cannot be reached
type ConnectionError struct {
	Endpoint string
	Model    string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Failed to connect to Ollama at %s. Is Ollama running with model '%s'?", e.Endpoint, e.Model)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// InvalidProviderError is returned when configuration names an unrecognized provider
type InvalidProviderError struct {
	Provider string
}

func (e *InvalidProviderError) Error() string {
	return fmt.Sprintf("invalid search provider %q", e.Provider)
}

func (e *InvalidProviderError) Is(target error) bool {
	return target == ErrInvalidProvider
}
