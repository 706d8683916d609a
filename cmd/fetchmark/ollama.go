package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var testOllamaCmd = &cobra.Command{
	Use:   "test-ollama [model]",
	Short: "Check that Ollama is running and has a model",
	Long: `Ask the Ollama server at OLLAMA_URL for its models and check that the given
model (or the saved Ollama model) is among them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		model := ""
		if len(args) == 1 {
			model = args[0]
		}

		result := a.TestOllama(cmd.Context(), model)
		if !result.Success {
			return errors.New(result.Message)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}
