package mcp

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/fetchmark/internal/app"
	"github.com/dshills/fetchmark/internal/bookmarks"
)

const (
	// ServerName is the MCP server name
	ServerName = "fetchmark"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp *server.MCPServer
	app *app.App
}

// NewServer creates a new MCP server instance over a
func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("app cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp: mcpServer,
		app: a,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve runs the MCP server on stdio until ctx is cancelled or stdin closes.
// When file watching is enabled the bookmark cache is invalidated on every change.
func (s *Server) Serve(ctx context.Context) error {
	if s.app.Config.WatchFile {
		if w, err := bookmarks.NewWatcher(s.app.Bookmarks); err != nil {
			log.Printf("Bookmarks file watching disabled: %v", err)
		} else {
			defer func() { _ = w.Close() }()
			go w.Run(ctx)
			log.Printf("Watching %s for changes", s.app.Bookmarks.Path())
		}
	}

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(os.Stderr, "mcp: ", log.LstdFlags))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(searchBookmarksTool(), s.handleSearchBookmarks)
	s.mcp.AddTool(testOllamaConnectionTool(), s.handleTestOllamaConnection)
	s.mcp.AddTool(refreshBookmarksTool(), s.handleRefreshBookmarks)
	s.mcp.AddTool(getSettingsTool(), s.handleGetSettings)
	s.mcp.AddTool(updateSettingsTool(), s.handleUpdateSettings)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)

	return nil
}
