package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/fetchmark/internal/app"
	"github.com/dshills/fetchmark/internal/config"
	"github.com/dshills/fetchmark/internal/storage"
)

var (
	dbPathFlag    string
	bookmarksFlag string
	envFileFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "fetchmark",
	Short: "fetchmark - AI search over your browser bookmarks",
	Long: `fetchmark flattens your Chrome bookmarks into a local cache and finds the ones
most relevant to a natural language query using Groq (LLM ranking), Hugging Face
or a local Ollama server (embedding similarity).

Run "fetchmark serve" to expose search to AI assistants over MCP, or use the
search, refresh and settings commands directly.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"fetchmark {{.Version}}\nBuild Time: %s\nBuild Mode: %s\nSQLite Driver: %s\n",
		buildTime, storage.BuildMode, storage.DriverName,
	))

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "SQLite database path (overrides FETCHMARK_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&bookmarksFlag, "bookmarks", "", "Chrome Bookmarks file (overrides FETCHMARK_BOOKMARKS_FILE)")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "Load environment variables from this file instead of .env")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(testOllamaCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(settingsCmd)
}

// loadConfig reads .env and the environment, then applies command line overrides
func loadConfig() (*config.Config, error) {
	if envFileFlag != "" {
		config.LoadDotEnv(envFileFlag)
	} else {
		config.LoadDotEnv()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if bookmarksFlag != "" {
		cfg.BookmarksFile = bookmarksFlag
	}
	return cfg, nil
}

// openApp loads configuration and wires the application
func openApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}
