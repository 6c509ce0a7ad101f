// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs the line extractor whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/textfile-editor/internal/source"
	"github.com/pdiddy/textfile-editor/internal/transform"
	"github.com/pdiddy/textfile-editor/pkg/types"
)

const defaultDebounce = 250 * time.Millisecond

// Update is delivered after the watched file settles. Err is set when the
// file could not be loaded; Doc and Result are zero in that case.
type Update struct {
	Doc    *types.Document
	Result transform.Result
	Err    error
}

// Watcher follows a single file.
type Watcher struct {
	path      string
	extractor *transform.Extractor
	debounce  time.Duration
	logger    *slog.Logger
}

// New creates a Watcher for path. A zero debounce selects 250ms.
func New(path string, e *transform.Extractor, cfg types.WatchConfig, logger *slog.Logger) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, extractor: e, debounce: debounce, logger: logger}
}

// Run delivers one Update for the current content, then one per settled
// burst of changes, until ctx is cancelled. The parent directory is watched
// so editors that save by renaming a new file into place are followed.
func (w *Watcher) Run(ctx context.Context, onUpdate func(Update)) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Debug("watching file", "path", abs, "debounce", w.debounce)

	onUpdate(w.load())

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("file event", "op", ev.Op.String(), "path", ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", abs, "err", err)

		case <-fire:
			fire = nil
			onUpdate(w.load())
		}
	}
}

func (w *Watcher) load() Update {
	doc, err := source.Load(w.path, nil)
	if err != nil {
		return Update{Err: err}
	}
	res, err := w.extractor.TransformStats(&doc.Content)
	if err != nil {
		return Update{Err: err}
	}
	return Update{Doc: doc, Result: res}
}
