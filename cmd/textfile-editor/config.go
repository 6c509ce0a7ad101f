// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textfile-editor/internal/history"
	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

// setDefaults registers every config key so that environment variables
// such as TEXTFILE_EDITOR_EXTRACTION_MODE are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := types.DefaultEditorConfig()
	v.SetDefault("extraction.mode", string(d.Extraction.Mode))
	v.SetDefault("extraction.message_label", d.Extraction.MessageLabel)
	v.SetDefault("extraction.timestamp_label", d.Extraction.TimestampLabel)
	v.SetDefault("extraction.strip_fragments", d.Extraction.StripFragments)
	v.SetDefault("share.base_url", d.Share.BaseURL)
	v.SetDefault("share.warn_length", d.Share.WarnLength)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.keep", d.History.Keep)
	v.SetDefault("viewer.highlight", d.Viewer.Highlight)
	v.SetDefault("viewer.style", d.Viewer.Style)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// loadConfig returns the effective configuration: defaults, then the config
// file, then environment variables.
func loadConfig() (types.EditorConfig, error) {
	cfg := types.DefaultEditorConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// newExtractor builds the extractor for cmd, applying --mode over the
// configured mode when the flag is set.
func newExtractor(cmd *cobra.Command, cfg types.EditorConfig) (*transform.Extractor, error) {
	ec := cfg.Extraction
	if f := cmd.Flags().Lookup("mode"); f != nil && f.Changed {
		ec.Mode = types.ExtractionMode(f.Value.String())
	}
	return transform.New(ec)
}

// openHistory opens the history store, or returns nil when recording is
// disabled by config or --no-history. A store that cannot be opened is
// logged and treated as disabled so it never blocks a transform.
func openHistory(cmd *cobra.Command, cfg types.EditorConfig) *history.Store {
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory || !cfg.History.Enabled {
		return nil
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return nil
	}
	return store
}

// addModeFlag registers the shared --mode flag.
func addModeFlag(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "extraction mode: message or braces (default from config)")
}

// --- config subcommand ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration textfile-editor runs with after merging
defaults, the config file, and TEXTFILE_EDITOR_* environment variables.
The output is a valid config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "# from %s\n", used)
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
