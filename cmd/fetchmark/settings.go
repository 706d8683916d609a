package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/fetchmark/internal/settings"
	"github.com/dshills/fetchmark/pkg/types"
)

var (
	settingsJSON bool

	setProvider    string
	setGroqKey     string
	setHFKey       string
	setOllamaModel string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the search provider and credentials",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings with keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		current, err := a.Settings.GetSettings(cmd.Context())
		if err != nil {
			return err
		}
		return printSettings(cmd.OutOrStdout(), current.Masked(), settingsJSON)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	Long: `Change settings; only the flags given are updated.

Examples:
  fetchmark settings set --provider ollama --ollama-model nomic-embed-text
  fetchmark settings set --groq-key gsk_...
  fetchmark settings set --hf-key ""    # clear a key
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := settingsPatch(cmd)
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to change; pass at least one of --provider, --groq-key, --hf-key, --ollama-model")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		updated, err := a.Settings.Update(cmd.Context(), patch)
		if err != nil {
			return err
		}
		return printSettings(cmd.OutOrStdout(), updated.Masked(), settingsJSON)
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Load settings from a TOML file",
	Long: `Load settings from the [search] table of a TOML file:

  [search]
  provider = "hf"
  hf_api_key = "hf_..."
  ollama_model = "mistral"

Keys missing from the file keep their current values.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		updated, err := a.Settings.ImportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printSettings(cmd.OutOrStdout(), updated.Masked(), settingsJSON)
	},
}

func init() {
	settingsCmd.PersistentFlags().BoolVarP(&settingsJSON, "json", "j", false, "Print settings as JSON")

	settingsSetCmd.Flags().StringVar(&setProvider, "provider", "", "Search provider: groq|hf|ollama")
	settingsSetCmd.Flags().StringVar(&setGroqKey, "groq-key", "", "Groq API key")
	settingsSetCmd.Flags().StringVar(&setHFKey, "hf-key", "", "Hugging Face API key")
	settingsSetCmd.Flags().StringVar(&setOllamaModel, "ollama-model", "", "Ollama model name")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsImportCmd)
}

// settingsPatch includes only the flags set on the command line
func settingsPatch(cmd *cobra.Command) settings.Patch {
	var patch settings.Patch
	flags := cmd.Flags()
	if flags.Changed("provider") {
		patch.SearchProvider = &setProvider
	}
	if flags.Changed("groq-key") {
		patch.GroqAPIKey = &setGroqKey
	}
	if flags.Changed("hf-key") {
		patch.HFAPIKey = &setHFKey
	}
	if flags.Changed("ollama-model") {
		patch.OllamaModel = &setOllamaModel
	}
	return patch
}

func printSettings(w io.Writer, s types.Settings, asJSON bool) error {
	if asJSON {
		return writeJSON(w, s)
	}
	_, err := fmt.Fprintf(w, "provider:     %s\ngroq key:     %s\nhf key:       %s\nollama model: %s\n",
		s.SearchProvider, orNone(s.GroqAPIKey), orNone(s.HFAPIKey), orNone(s.OllamaModel))
	return err
}

func orNone(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
