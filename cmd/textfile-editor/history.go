// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/history"
	"github.com/pdiddy/textfile-editor/internal/source"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the record of processed documents",
	Long: `History manages the local SQLite database in which extract, view, and
watch record each run: the source, the extraction mode, and how many lines
were changed or fell back to the original text. Use subcommands to list,
export, prune, or clear it.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent runs",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	src, _ := cmd.Flags().GetString("source")

	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), history.ListOptions{Source: src, Limit: limit})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-8s  %-8s  %-7s  %-30s  %7s  %7s  %9s  %s\n",
		"ID", "Op", "Mode", "Source", "Lines", "Changed", "Fallbacks", "When")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, e := range entries {
		shown := e.Source
		if len(shown) > 30 {
			shown = "..." + shown[len(shown)-27:]
		}
		fmt.Fprintf(out, "%-8s  %-8s  %-7s  %-30s  %7d  %7d  %9d  %s\n",
			e.ID[:min(8, len(e.ID))], e.Operation, e.Mode, shown, e.Lines, e.Changed, e.Fallbacks,
			humanize.Time(e.ProcessedAt))
	}
	fmt.Fprintf(out, "\n%d entries\n", len(entries))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to YAML or JSON",
	Long: `Export writes every recorded run, or those for one --source, as YAML
(the default) or JSON. Output goes to stdout unless --output is given.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	src, _ := cmd.Flags().GetString("source")

	store, err := historyStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := history.ListOptions{Source: src}
	if output == "" {
		return store.Export(cmd.Context(), cmd.OutOrStdout(), history.Format(format), opts)
	}

	var buf strings.Builder
	if err := store.Export(cmd.Context(), &buf, history.Format(format), opts); err != nil {
		return err
	}
	if err := source.Save(output, buf.String()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	return nil
}

// --- prune subcommand ---

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep <= 0 {
			return fmt.Errorf("--keep must be positive; use history clear to delete everything")
		}

		store, err := historyStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entries\n", n)
		return nil
	},
}

// --- clear subcommand ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := historyStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", n)
		return nil
	},
}

// --- shared helpers ---

// historyStore opens the configured database regardless of history.enabled,
// so past runs stay inspectable after recording is switched off.
func historyStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History)
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of entries (negative for all)")
	historyListCmd.Flags().String("source", "", `only entries for this document ("-" for stdin)`)

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write the export to this file instead of stdout")
	historyExportCmd.Flags().String("source", "", `only entries for this document ("-" for stdin)`)

	historyPruneCmd.Flags().Int("keep", 500, "number of newest entries to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
