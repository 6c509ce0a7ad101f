// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/highlight"
	"github.com/pdiddy/textfile-editor/internal/source"
	"github.com/pdiddy/textfile-editor/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run extraction whenever a file changes",
	Long: `Watch follows a file and re-runs extraction each time it settles after a
write. The transformed text is printed to stdout, or written to --output so
another tool can follow the clean version of a live log. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	color, _ := cmd.Flags().GetBool("color")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debounce") {
		cfg.Watch.Debounce = debounce
	}
	extractor, err := newExtractor(cmd, cfg)
	if err != nil {
		return err
	}

	store := openHistory(cmd, cfg)
	if store != nil {
		defer store.Close()
	}

	var hl *highlight.Highlighter
	if color && output == "" {
		hl = highlight.New(cfg.Viewer.Style)
	}

	w := watch.New(args[0], extractor, cfg.Watch, logger)
	return w.Run(cmd.Context(), func(u watch.Update) {
		stamp := time.Now().Format(time.TimeOnly)
		if u.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] error: %v\n", stamp, u.Err)
			return
		}

		if output != "" {
			if err := source.Save(output, u.Result.Text); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%s] error: %v\n", stamp, err)
				return
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "--- %s %s ---\n", u.Doc.Name, stamp)
			text := u.Result.Text
			if hl != nil {
				text = hl.Lines(text)
			}
			if err := writeOutput(cmd, "", text); err != nil {
				logger.Warn("writing output", "error", err)
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] ", stamp)
		summarize(cmd.ErrOrStderr(), u.Doc, u.Result)

		recordRun(cmd.Context(), store, "watch", u.Doc, extractor.Mode(), u.Result)
	})
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "write each result to this file instead of stdout")
	watchCmd.Flags().Duration("debounce", 0, "quiet period after a write before re-running (default from config)")
	watchCmd.Flags().Bool("color", false, "syntax-highlight output written to the terminal")
	watchCmd.Flags().Bool("no-history", false, "do not record runs in the history database")
	addModeFlag(watchCmd)

	rootCmd.AddCommand(watchCmd)
}
