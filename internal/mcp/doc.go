// Package mcp implements the Model Context Protocol (MCP) server for fetchmark.
//
// The server exposes bookmark search to AI assistants over stdio:
//   - search_bookmarks: rank bookmarks against a natural language query
//   - test_ollama_connection: check a local Ollama server for a model
//   - refresh_bookmarks: re-read the bookmarks file into the cache
//   - get_settings / update_settings: view or change the provider and credentials
//   - get_status: cache and storage statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only; all logging goes to stderr.
//
// # Tool: search_bookmarks
//
//	Request:
//	{
//	  "name": "search_bookmarks",
//	  "arguments": {"query": "kubernetes networking guide", "force_refresh": false}
//	}
//
//	Response (text content):
//	{
//	  "results": [
//	    {
//	      "id": "42",
//	      "title": "Cluster Networking",
//	      "url": "https://kubernetes.io/docs/concepts/cluster-administration/networking/",
//	      "folderPath": "Bookmarks bar / k8s",
//	      "context": "Title: Cluster Networking | URL: https://... | Path: Bookmarks bar / k8s"
//	    }
//	  ],
//	  "message": ""
//	}
//
// A search never fails at the protocol level once the query is long enough:
// missing keys, provider errors and empty results all come back as an empty
// results list with an explanatory message. Queries shorter than three characters
// are rejected with error code -32004.
//
// # Error Codes
//
//	-32602: Invalid params (bad provider, malformed key, missing arguments)
//	-32603: Internal error (storage or file access failed)
//	-32002: Refresh already in progress
//	-32004: Query too short
package mcp
