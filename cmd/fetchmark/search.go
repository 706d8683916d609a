package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/fetchmark/pkg/types"
)

var (
	searchTimeout time.Duration
	searchRefresh bool
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find the bookmarks most relevant to a query",
	Long: `
Rank your bookmarks against a natural language query with the configured
provider and print up to five matches, most relevant first.

Examples:
  fetchmark search "go concurrency patterns"
  fetchmark search --refresh --timeout 2m "recipes with lentils"
  fetchmark search --json "kubernetes ingress"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 60*time.Second, "Give up on the search after this long")
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false, "Re-read the bookmarks file instead of using the cache")
	searchCmd.Flags().BoolVarP(&searchJSON, "json", "j", false, "Print the result envelope as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	result := a.Search(ctx, strings.Join(args, " "), searchRefresh)

	if searchJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	printSearchResult(cmd.OutOrStdout(), result)
	return nil
}

func printSearchResult(w io.Writer, result types.SearchResult) {
	if result.Message != "" {
		_, _ = fmt.Fprintln(w, result.Message)
	}
	for i, bm := range result.Results {
		_, _ = fmt.Fprintf(w, "%d. %s\n   %s\n   %s\n", i+1, bm.Title, bm.URL, bm.FolderPath)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
