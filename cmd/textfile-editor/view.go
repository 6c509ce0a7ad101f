// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/highlight"
	"github.com/pdiddy/textfile-editor/internal/source"
	"github.com/pdiddy/textfile-editor/internal/viewer"
	"github.com/pdiddy/textfile-editor/internal/watch"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Browse a document and its extracted form in the terminal",
	Long: `View opens an interactive viewer showing the extracted text of a
document. Press t to toggle between the original and extracted text, m to
switch extraction mode, / to search, c to copy the visible text, and q to
quit.

With --follow the viewer reloads the file whenever it changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractor, err := newExtractor(cmd, cfg)
	if err != nil {
		return err
	}

	doc, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	if follow && doc.Path == source.StdinPath {
		return fmt.Errorf("--follow needs a file, not stdin")
	}

	var opts viewer.Options
	if cfg.Viewer.Highlight && !noColor {
		opts.Highlighter = highlight.New(cfg.Viewer.Style)
	}

	p := tea.NewProgram(viewer.New(doc, extractor, opts), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if follow {
		w := watch.New(doc.Path, extractor, cfg.Watch, logger)
		go func() {
			first := true
			err := w.Run(ctx, func(u watch.Update) {
				if first {
					first = false
					return
				}
				if u.Err != nil {
					p.Send(viewer.ErrorMsg{Err: u.Err})
					return
				}
				p.Send(viewer.DocumentMsg{Doc: u.Doc})
			})
			if err != nil {
				p.Send(viewer.ErrorMsg{Err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}

	if store := openHistory(cmd, cfg); store != nil {
		defer store.Close()
		if res, err := extractor.TransformStats(&doc.Content); err == nil {
			recordRun(cmd.Context(), store, "view", doc, extractor.Mode(), res)
		}
	}
	return nil
}

func init() {
	viewCmd.Flags().BoolP("follow", "f", false, "reload the file when it changes")
	viewCmd.Flags().Bool("no-color", false, "disable syntax highlighting")
	viewCmd.Flags().Bool("no-history", false, "do not record this run in the history database")
	addModeFlag(viewCmd)

	rootCmd.AddCommand(viewCmd)
}
