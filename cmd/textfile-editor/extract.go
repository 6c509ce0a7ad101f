// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/batch"
	"github.com/pdiddy/textfile-editor/internal/highlight"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract JSON and message payloads from log lines",
	Long: `Extract rewrites every line that holds a JSON object. In message mode
(the default) the line becomes the value of the message field; in braces
mode it becomes the text between the first '{' and the last '}'. Lines
without a brace pair are kept as they are, and the line count never changes.

With no file, or "-", text is read from stdin. Output goes to stdout unless
--output is given. Pass --in-place or --out-dir to process several files or
whole directories; --include filters directory contents with a glob such as
"*.log" or "**/app-*.txt".`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	outDir, _ := cmd.Flags().GetString("out-dir")
	include, _ := cmd.Flags().GetString("include")
	color, _ := cmd.Flags().GetBool("color")
	stats, _ := cmd.Flags().GetBool("stats")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	extractor, err := newExtractor(cmd, cfg)
	if err != nil {
		return err
	}

	store := openHistory(cmd, cfg)
	if store != nil {
		defer store.Close()
	}

	if inPlace || outDir != "" {
		if output != "" {
			return fmt.Errorf("--output cannot be combined with --in-place or --out-dir")
		}
		if len(args) == 0 {
			return fmt.Errorf("batch mode requires at least one file or directory")
		}
		inputs, err := batch.Expand(args, include)
		if err != nil {
			return err
		}
		progress, _ := cmd.Flags().GetBool("progress")

		var recorder batch.Recorder
		if store != nil {
			recorder = store
		}
		proc, err := batch.New(extractor, recorder, batch.Options{
			OutDir:      outDir,
			InPlace:     inPlace,
			Progress:    progress,
			ProgressOut: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		result, err := proc.Run(cmd.Context(), inputs, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d file(s) failed", result.Failed)
		}
		return nil
	}

	if len(args) > 1 {
		return fmt.Errorf("several inputs need --in-place or --out-dir")
	}

	doc, err := loadInput(cmd, args)
	if err != nil {
		return err
	}
	res, err := extractor.TransformStats(&doc.Content)
	if err != nil {
		return err
	}

	text := res.Text
	if color && output == "" {
		text = highlight.New(cfg.Viewer.Style).Lines(text)
	}
	if err := writeOutput(cmd, output, text); err != nil {
		return err
	}
	if stats {
		summarize(cmd.ErrOrStderr(), doc, res)
	}

	recordRun(cmd.Context(), store, "extract", doc, extractor.Mode(), res)
	return nil
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")
	extractCmd.Flags().Bool("in-place", false, "overwrite each input file with its transformed text")
	extractCmd.Flags().String("out-dir", "", "write transformed files under this directory")
	extractCmd.Flags().String("include", "", "glob filter for files inside directory arguments")
	extractCmd.Flags().Bool("progress", false, "show a progress bar in batch mode")
	extractCmd.Flags().Bool("color", false, "syntax-highlight output written to the terminal")
	extractCmd.Flags().Bool("stats", false, "print line counts to stderr")
	extractCmd.Flags().Bool("no-history", false, "do not record this run in the history database")
	addModeFlag(extractCmd)

	rootCmd.AddCommand(extractCmd)
}
