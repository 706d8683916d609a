package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchBookmarksTool returns the tool definition for search_bookmarks
func searchBookmarksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_bookmarks",
		Description: "Find the browser bookmarks most relevant to a natural language query using the configured AI provider",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "What you are looking for (at least 3 characters)",
				},
				"force_refresh": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-read the bookmarks file instead of using the cache",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}
}

// testOllamaConnectionTool returns the tool definition for test_ollama_connection
func testOllamaConnectionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "test_ollama_connection",
		Description: "Check that the local Ollama server is reachable and has the given model",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Model name to look for (defaults to the saved Ollama model)",
				},
			},
		},
	}
}

// refreshBookmarksTool returns the tool definition for refresh_bookmarks
func refreshBookmarksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "refresh_bookmarks",
		Description: "Re-read the bookmarks file and replace the local cache",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getSettingsTool returns the tool definition for get_settings
func getSettingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_settings",
		Description: "Show the active search provider and settings (API keys are masked)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// updateSettingsTool returns the tool definition for update_settings
func updateSettingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_settings",
		Description: "Change the search provider or its credentials; omitted fields are left unchanged",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"search_provider": map[string]interface{}{
					"type":        "string",
					"description": "Provider used for searches",
					"enum":        []string{"groq", "hf", "ollama"},
				},
				"groq_api_key": map[string]interface{}{
					"type":        "string",
					"description": "Groq API key (starts with gsk_); empty string clears it",
				},
				"hf_api_key": map[string]interface{}{
					"type":        "string",
					"description": "Hugging Face API key; empty string clears it",
				},
				"ollama_model": map[string]interface{}{
					"type":        "string",
					"description": "Local Ollama embedding model, e.g. nomic-embed-text",
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report the bookmark cache, storage schema and active provider",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
