// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher feeds filesystem change events into cache invalidation.
//
// Description:
//
//	Wraps an fsnotify watcher and translates its events into
//	Cache.DirChanged calls. The watcher owns a single goroutine started
//	by New and stopped by Close.
//
// Thread Safety: Safe for concurrent use.
type Watcher struct {
	fsw    *fsnotify.Watcher
	cache  *Cache
	logger *slog.Logger
	done   chan struct{}
}

// NewWatcher creates and starts a Watcher bound to a cache.
//
// Inputs:
//
//	c - The cache to invalidate. Must not be nil.
//	logger - Logger for diagnostics. Nil selects slog.Default().
//
// Outputs:
//
//	*Watcher - The running watcher. Close it when done.
//	error - Non-nil if the underlying watcher cannot be created.
func NewWatcher(c *Cache, logger *slog.Logger) (*Watcher, error) {
	if c == nil {
		return nil, fmt.Errorf("cache: cache must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		cache:  c,
		logger: logger,
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add registers a directory for change notifications.
//
// fsnotify watches are not recursive; callers register the directories
// they care about (typically the configured base paths under each root).
func (w *Watcher) Add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.logger.Debug("watching directory", slog.String("dir", dir))
	return nil
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

// run pumps fsnotify events into cache invalidation until Close.
func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			dir := filepath.Dir(event.Name)
			if dropped := w.cache.DirChanged(dir); dropped > 0 {
				w.logger.Debug("change event invalidated cache",
					slog.String("path", event.Name),
					slog.String("op", event.Op.String()),
					slog.Int("dropped", dropped),
				)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are diagnostic only; the cache stays usable.
			w.logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
