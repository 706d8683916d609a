package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-read the bookmarks file into the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		list, err := a.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Got %d bookmarks from %s\n", len(list), a.Bookmarks.Path())
		return nil
	},
}
