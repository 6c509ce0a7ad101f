// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textfile-editor/internal/history"
	"github.com/pdiddy/textfile-editor/internal/source"
	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

// pipedStdin returns cmd's input when it is not a terminal, nil otherwise.
func pipedStdin(cmd *cobra.Command) io.Reader {
	in := cmd.InOrStdin()
	f, ok := in.(*os.File)
	if !ok {
		return in
	}
	stat, err := f.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	return f
}

// loadInput reads the document named by args[0], or stdin when args is
// empty or "-".
func loadInput(cmd *cobra.Command, args []string) (*types.Document, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	doc, err := source.Load(path, pipedStdin(cmd))
	if err != nil {
		return nil, err
	}
	if doc.Latin1 {
		logger.Info("input is not valid UTF-8, decoded as latin-1", "path", doc.Path)
	}
	return doc, nil
}

// writeOutput writes text to path, or to cmd's stdout when path is empty.
// Text written to stdout always ends with a newline.
func writeOutput(cmd *cobra.Command, path, text string) error {
	if path != "" {
		return source.Save(path, text)
	}
	out := cmd.OutOrStdout()
	if _, err := io.WriteString(out, text); err != nil {
		return err
	}
	if text == "" || text[len(text)-1] != '\n' {
		_, err := io.WriteString(out, "\n")
		return err
	}
	return nil
}

// recordRun stores a history entry for one transform. Failures are logged,
// never returned: history must not fail a transform that already succeeded.
func recordRun(ctx context.Context, store *history.Store, op string, doc *types.Document, mode types.ExtractionMode, res transform.Result) {
	if store == nil {
		return
	}
	entry, err := store.Record(ctx, types.HistoryEntry{
		Source:    doc.Path,
		Operation: op,
		Mode:      mode,
		Lines:     res.Lines,
		Changed:   res.Changed,
		Fallbacks: res.Fallbacks,
		BytesIn:   doc.Size,
		BytesOut:  int64(len(res.Text)),
	})
	if err != nil {
		logger.Warn("recording history", "error", err)
		return
	}
	logger.Debug("recorded history", "id", entry.ID, "operation", op)
}

// summarize prints the per-document counts to w.
func summarize(w io.Writer, doc *types.Document, res transform.Result) {
	fmt.Fprintf(w, "%s: %d lines, %d changed, %d fallbacks\n", doc.Name, res.Lines, res.Changed, res.Fallbacks)
}
