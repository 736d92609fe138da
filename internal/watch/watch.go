// Package watch reruns a conversion whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait for more changes before rerunning.
const DefaultDebounce = 200 * time.Millisecond

// Handler performs one conversion. Its error is logged; watching continues.
type Handler func(ctx context.Context) error

// Watcher watches a single file.
//
// The parent directory is watched rather than the file, so editors that
// save by writing a temp file and renaming it over the input are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	handle   Handler
	logger   *slog.Logger
}

// New creates a Watcher for path. debounce <= 0 uses DefaultDebounce.
func New(path string, debounce time.Duration, handle Handler, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{path: abs, debounce: debounce, handle: handle, logger: logger}, nil
}

// Run converts once, then again after every debounced change, until ctx is
// done. Runs never overlap; everything happens on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching", "input", w.path, "debounce", w.debounce)

	w.fire(ctx)

	var timer *time.Timer
	var fired <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.logger.Debug("input changed", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fired = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fired:
			fired = nil
			w.fire(ctx)
		}
	}
}

func (w *Watcher) fire(ctx context.Context) {
	if err := w.handle(ctx); err != nil {
		w.logger.Error("conversion failed", "input", w.path, "error", err)
	}
}
