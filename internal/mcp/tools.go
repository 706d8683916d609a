package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/fetchmark/internal/bookmarks"
	"github.com/dshills/fetchmark/internal/searcher"
	"github.com/dshills/fetchmark/internal/settings"
	"github.com/dshills/fetchmark/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams     = -32602 // Invalid method parameters
	ErrorCodeInternalError     = -32603 // Internal JSON-RPC error
	ErrorCodeRefreshInProgress = -32002 // Another refresh is already running
	ErrorCodeQueryTooShort     = -32004 // Query parameter is empty or too short
)

// handleSearchBookmarks handles the search_bookmarks tool invocation.
// Search failures are part of the result envelope, not tool errors.
func (s *Server) handleSearchBookmarks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}
	if searcher.QueryTooShort(query) {
		return nil, newMCPError(ErrorCodeQueryTooShort, searcher.MsgQueryTooShort, map[string]interface{}{
			"param":      "query",
			"min_length": searcher.MinQueryLength,
		})
	}

	forceRefresh := getBoolDefault(args, "force_refresh", false)

	result := s.app.Search(ctx, query, forceRefresh)
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleTestOllamaConnection handles the test_ollama_connection tool invocation
func (s *Server) handleTestOllamaConnection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	model := getStringDefault(args, "model", "")

	result := s.app.TestOllama(ctx, model)
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// handleRefreshBookmarks handles the refresh_bookmarks tool invocation
func (s *Server) handleRefreshBookmarks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.app.Refresh(ctx)
	if errors.Is(err, bookmarks.ErrRefreshInProgress) {
		return nil, newMCPError(ErrorCodeRefreshInProgress, "bookmark refresh already in progress", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"refreshed":      true,
		"bookmark_count": len(list),
		"source":         s.app.Bookmarks.Path(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetSettings handles the get_settings tool invocation
func (s *Server) handleGetSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	current, err := s.app.Settings.GetSettings(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load settings", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(current.Masked())), nil
}

// handleUpdateSettings handles the update_settings tool invocation
func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	patch := settings.Patch{
		SearchProvider: getStringPtr(args, "search_provider"),
		GroqAPIKey:     getStringPtr(args, "groq_api_key"),
		HFAPIKey:       getStringPtr(args, "hf_api_key"),
		OllamaModel:    getStringPtr(args, "ollama_model"),
	}
	if patch.IsEmpty() {
		return nil, newMCPError(ErrorCodeInvalidParams, "no settings to update", nil)
	}

	updated, err := s.app.Settings.Update(ctx, patch)
	switch {
	case errors.Is(err, types.ErrInvalidProvider):
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_provider", map[string]interface{}{
			"param":   "search_provider",
			"allowed": types.Providers,
		})
	case errors.Is(err, settings.ErrInvalidGroqKey):
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid groq_api_key", map[string]interface{}{
			"param":  "groq_api_key",
			"reason": fmt.Sprintf("must start with %s", settings.GroqKeyPrefix),
		})
	case err != nil:
		return nil, newMCPError(ErrorCodeInternalError, "failed to save settings", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(updated.Masked())), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.app.Status(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(status)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringPtr returns nil when key is absent or not a string
func getStringPtr(args map[string]interface{}, key string) *string {
	if val, ok := args[key].(string); ok {
		return &val
	}
	return nil
}
