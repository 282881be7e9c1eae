package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 300 * time.Millisecond

// scriptWatcher signals changes to one file. It watches the file's
// directory so that editors which save by replacing the file are still
// seen.
type scriptWatcher struct {
	path    string
	delay   time.Duration
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

func newScriptWatcher(path string, logger *slog.Logger) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &scriptWatcher{
		path:    filepath.Clean(path),
		delay:   debounceDelay,
		watcher: watcher,
		logger:  logger,
	}, nil
}

// run sends on changes once writes to the file have been quiet for the
// debounce delay, until ctx ends. It closes the underlying watcher.
func (w *scriptWatcher) run(ctx context.Context, changes chan<- struct{}) {
	defer w.watcher.Close()

	timer := time.NewTimer(w.delay)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(w.delay)
			fire = timer.C
		case <-fire:
			fire = nil
			w.logger.Debug("script changed", "path", w.path)
			select {
			case changes <- struct{}{}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch failed", "path", w.path, "error", err)
		}
	}
}
