// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the line extractor over many files, writing results to
// an output directory or back in place and printing one status line per file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/textfile-editor/internal/source"
	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

// Status is the outcome for one file.
type Status string

const (
	StatusTransformed Status = "transformed"
	StatusUnchanged   Status = "unchanged"
	StatusFailed      Status = "failed"
)

// Result holds the outcome of a batch run.
type Result struct {
	Transformed int
	Unchanged   int
	Failed      int
}

// Total returns the number of files processed.
func (r Result) Total() int {
	return r.Transformed + r.Unchanged + r.Failed
}

// HasFailures reports whether any file failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Recorder stores a history entry for each processed file. history.Store
// implements it.
type Recorder interface {
	Record(ctx context.Context, entry types.HistoryEntry) (types.HistoryEntry, error)
}

// Options controls where results go and which files are picked up.
type Options struct {
	// OutDir receives transformed files, mirroring paths relative to each
	// directory argument. Ignored when InPlace is set.
	OutDir string

	// InPlace overwrites every input file with its transformed text.
	InPlace bool

	// Progress shows a progress bar on ProgressOut instead of per-file
	// status lines. Failures are still reported.
	Progress    bool
	ProgressOut io.Writer
}

// Input is a file selected for processing.
type Input struct {
	// Path is the file to read.
	Path string
	// Rel is the output path relative to Options.OutDir.
	Rel string
}

// Processor transforms files.
type Processor struct {
	extractor *transform.Extractor
	recorder  Recorder
	opts      Options
}

// New creates a Processor. recorder may be nil to skip history.
func New(e *transform.Extractor, recorder Recorder, opts Options) (*Processor, error) {
	if !opts.InPlace && opts.OutDir == "" {
		return nil, errors.New("batch output requires an output directory or in-place mode")
	}
	if opts.ProgressOut == nil {
		opts.ProgressOut = os.Stderr
	}
	return &Processor{extractor: e, recorder: recorder, opts: opts}, nil
}

// Expand resolves files and directories into a list of inputs. Directories
// are walked recursively, skipping hidden entries, and filtered by include,
// a glob matched against file names and paths relative to the directory.
// Explicit file arguments are always kept. Two inputs with the same output
// path are an error.
func Expand(paths []string, include string) ([]Input, error) {
	var matcher glob.Glob
	if include != "" {
		g, err := glob.Compile(include, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
		matcher = g
	}

	var inputs []Input
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", root, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, Input{Path: root, Rel: filepath.Base(root)})
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if path != root && len(name) > 0 && name[0] == '.' {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if matcher != nil && !matcher.Match(name) && !matcher.Match(rel) {
				return nil
			}
			inputs = append(inputs, Input{Path: path, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		if prev, ok := seen[in.Rel]; ok {
			return nil, fmt.Errorf("%s and %s map to the same output path %s", prev, in.Path, in.Rel)
		}
		seen[in.Rel] = in.Path
	}
	return inputs, nil
}

// Run processes inputs in order, writing a status line per file to w and a
// summary at the end. It stops early if ctx is cancelled.
func (p *Processor) Run(ctx context.Context, inputs []Input, w io.Writer) (Result, error) {
	var bar *progressbar.ProgressBar
	if p.opts.Progress {
		bar = progressbar.NewOptions(len(inputs),
			progressbar.OptionSetWriter(p.opts.ProgressOut),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(p.opts.ProgressOut)
			}),
		)
	}

	var result Result
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		status, err := p.File(ctx, in)
		switch status {
		case StatusTransformed:
			result.Transformed++
		case StatusUnchanged:
			result.Unchanged++
		case StatusFailed:
			result.Failed++
		}

		if bar != nil {
			bar.Add(1)
		}
		switch {
		case status == StatusFailed:
			fmt.Fprintf(w, "failed:      %s (%v)\n", in.Path, err)
		case err != nil:
			fmt.Fprintf(w, "warning:     %s (%v)\n", in.Path, err)
		case bar == nil:
			fmt.Fprintf(w, "%-12s %s\n", string(status)+":", in.Path)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d transformed, %d unchanged, %d failed (total: %d)\n",
		result.Transformed, result.Unchanged, result.Failed, result.Total())
	return result, nil
}

// File transforms a single input and writes the output. A file whose text
// does not change is still written to OutDir but is not rewritten in place.
func (p *Processor) File(ctx context.Context, in Input) (Status, error) {
	doc, err := source.Load(in.Path, nil)
	if err != nil {
		return StatusFailed, err
	}

	res, err := p.extractor.TransformStats(&doc.Content)
	if err != nil {
		return StatusFailed, err
	}

	status := StatusTransformed
	if res.Text == doc.Content {
		status = StatusUnchanged
	}

	out := in.Path
	if !p.opts.InPlace {
		out = filepath.Join(p.opts.OutDir, in.Rel)
	}
	if !(p.opts.InPlace && status == StatusUnchanged) {
		if err := source.Save(out, res.Text); err != nil {
			return StatusFailed, err
		}
	}

	if p.recorder != nil {
		_, err := p.recorder.Record(ctx, types.HistoryEntry{
			Source:    in.Path,
			Operation: "extract",
			Mode:      p.extractor.Mode(),
			Lines:     res.Lines,
			Changed:   res.Changed,
			Fallbacks: res.Fallbacks,
			BytesIn:   doc.Size,
			BytesOut:  int64(len(res.Text)),
		})
		if err != nil {
			return status, fmt.Errorf("recording history: %w", err)
		}
	}
	return status, nil
}
