// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache memoizes component inventories per workspace root and
// configuration, with event-driven invalidation.
//
// The cache is an explicit object owned by the composition root and
// passed by reference to whoever needs it; invalidation happens through
// explicit "directory changed" events (wired to fsnotify by Watcher),
// never through ambient global state.
package cache

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/AleutianAI/ComponentNav/services/navigator/inventory"
)

// Key identifies one memoized inventory: a workspace root plus the hash
// of the configuration it was built with. A configuration change yields
// a different key, so stale path rules never serve cached entries.
type Key struct {
	// Root is the workspace root directory.
	Root string

	// ConfigHash is config.Config.Hash() at build time.
	ConfigHash string
}

// Cache memoizes built inventories.
//
// Thread Safety: Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*inventory.Inventory
	logger  *slog.Logger
}

// New creates an empty cache.
//
// Inputs:
//
//	logger - Logger for diagnostics. Nil selects slog.Default().
func New(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[Key]*inventory.Inventory),
		logger:  logger,
	}
}

// Get returns the memoized inventory for a key, if any.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) Get(key Key) (*inventory.Inventory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inv, ok := c.entries[key]
	return inv, ok
}

// Put memoizes an inventory under a key, replacing any previous entry.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) Put(key Key, inv *inventory.Inventory) error {
	if key.Root == "" {
		return fmt.Errorf("cache: key root must not be empty")
	}
	if inv == nil {
		return fmt.Errorf("cache: inventory must not be nil")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = inv
	return nil
}

// InvalidateRoot drops every entry for a workspace root.
//
// Outputs:
//
//	int - Number of entries dropped.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) InvalidateRoot(root string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.entries {
		if key.Root == root {
			delete(c.entries, key)
			dropped++
		}
	}
	if dropped > 0 {
		c.logger.Info("cache invalidated",
			slog.String("root", root),
			slog.Int("entries", dropped),
		)
	}
	return dropped
}

// DirChanged handles a "directory changed" event by dropping every entry
// whose root contains the changed path.
//
// Description:
//
//	The cache does not track which files fed which inventory; any change
//	below a root invalidates that root's entries wholesale. Rebuilding
//	an inventory is cheap relative to serving stale completions.
//
// Outputs:
//
//	int - Number of entries dropped.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) DirChanged(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key := range c.entries {
		if pathWithin(path, key.Root) {
			delete(c.entries, key)
			dropped++
		}
	}
	if dropped > 0 {
		c.logger.Info("cache invalidated by change event",
			slog.String("path", path),
			slog.Int("entries", dropped),
		)
	}
	return dropped
}

// Len returns the number of memoized entries.
//
// Thread Safety: Safe for concurrent use.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// pathWithin reports whether path is root itself or sits below it.
func pathWithin(path, root string) bool {
	if path == root {
		return true
	}
	sep := "/"
	if strings.Contains(root, "\\") {
		sep = "\\"
	}
	return strings.HasPrefix(path, strings.TrimSuffix(root, sep)+sep)
}
