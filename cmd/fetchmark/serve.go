package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/fetchmark/internal/mcp"
	"github.com/dshills/fetchmark/internal/storage"
)

var noWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing the
search_bookmarks, test_ollama_connection, refresh_bookmarks, get_settings,
update_settings and get_status tools.

The bookmarks file is watched for changes unless BOOKMARKS_WATCH=false or
--no-watch is given.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch the bookmarks file for changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Printf("fetchmark MCP server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if noWatch {
		a.Config.WatchFile = false
	}

	server, err := mcp.NewServer(a)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
