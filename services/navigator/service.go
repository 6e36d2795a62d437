// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package navigator exposes component navigation over HTTP: resolution
// at a cursor, name completion, tag formatting and inventory indexing.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/ComponentNav/services/navigator/cache"
	"github.com/AleutianAI/ComponentNav/services/navigator/config"
	"github.com/AleutianAI/ComponentNav/services/navigator/format"
	"github.com/AleutianAI/ComponentNav/services/navigator/inventory"
	"github.com/AleutianAI/ComponentNav/services/navigator/resolve"
)

var serviceTracer = otel.Tracer("componentnav/service")

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Roots are the open workspace root directories. Must not be empty.
	Roots []string

	// Logger receives diagnostic output. Nil selects slog.Default().
	Logger *slog.Logger

	// Snapshots optionally persists inventories across restarts. Nil
	// disables persistence.
	Snapshots *cache.SnapshotStore
}

// Service wires the resolution engine, the component inventory and the
// formatter behind one API consumed by the HTTP handlers and the CLI.
//
// Description:
//
//	Inventories are memoized per (root, config hash) and rebuilt on
//	demand; a snapshot store, when configured, warms cold caches from
//	the last persisted scan. Resolution calls go straight to the engine
//	and never depend on the inventory.
//
// Thread Safety: Safe for concurrent use once constructed.
type Service struct {
	roots     []string
	engine    *resolve.Engine
	cache     *cache.Cache
	scanner   *inventory.Scanner
	snapshots *cache.SnapshotStore
	logger    *slog.Logger
}

// NewService creates a Service for the given workspace roots.
func NewService(cfg ServiceConfig) (*Service, error) {
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("navigator: at least one workspace root is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := resolve.NewEngine(cfg.Roots, logger)
	if err != nil {
		return nil, fmt.Errorf("creating resolve engine: %w", err)
	}

	return &Service{
		roots:     cfg.Roots,
		engine:    engine,
		cache:     cache.New(logger),
		scanner:   inventory.NewScanner(logger),
		snapshots: cfg.Snapshots,
		logger:    logger,
	}, nil
}

// Cache exposes the inventory cache so the composition root can wire a
// filesystem watcher to it.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Roots returns the workspace roots in workspace order.
func (s *Service) Roots() []string {
	return s.roots
}

// ResolveAtCursor resolves the component reference under a cursor.
//
// Outputs:
//
//	*resolve.Resolution - The resolution, or nil for "no match".
//	error - Non-nil only for programmer errors or config syntax errors.
func (s *Service) ResolveAtCursor(ctx context.Context, documentText string, line, column int) (*resolve.Resolution, error) {
	return s.engine.ResolveAtCursor(ctx, documentText, line, column)
}

// Complete searches the inventory for components matching a partial name.
//
// Description:
//
//	Each root's inventory is searched independently and results are
//	concatenated in workspace root order, trimmed to limit. Missing
//	inventories are built on the fly.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	query - The partial component name. Must not be empty.
//	limit - Maximum results. Non-positive selects inventory defaults.
//
// Outputs:
//
//	[]*inventory.Component - Matches in rank order per root.
//	error - Non-nil if scanning or searching fails.
func (s *Service) Complete(ctx context.Context, query string, limit int) ([]*inventory.Component, error) {
	ctx, span := serviceTracer.Start(ctx, "Service.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	var out []*inventory.Component
	for _, root := range s.roots {
		inv, err := s.inventoryFor(ctx, root)
		if err != nil {
			return nil, err
		}
		matches, err := inv.Search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
		if limit > 0 && len(out) >= limit {
			out = out[:limit]
			break
		}
	}
	return out, nil
}

// Components returns every indexed component across all roots.
func (s *Service) Components(ctx context.Context) ([]*inventory.Component, error) {
	if ctx == nil {
		return nil, fmt.Errorf("navigator: ctx must not be nil")
	}
	var out []*inventory.Component
	for _, root := range s.roots {
		inv, err := s.inventoryFor(ctx, root)
		if err != nil {
			return nil, err
		}
		out = append(out, inv.All()...)
	}
	return out, nil
}

// Index rebuilds the inventory for every root, bypassing the cache.
//
// Outputs:
//
//	int - Total components indexed across all roots.
//	error - Non-nil if any root fails to scan.
func (s *Service) Index(ctx context.Context) (int, error) {
	if ctx == nil {
		return 0, fmt.Errorf("navigator: ctx must not be nil")
	}
	ctx, span := serviceTracer.Start(ctx, "Service.Index")
	defer span.End()

	total := 0
	for _, root := range s.roots {
		cfg, err := config.Load(ctx, root)
		if err != nil {
			return 0, fmt.Errorf("loading config for %s: %w", root, err)
		}
		inv, count, err := s.rebuild(ctx, root, cfg)
		if err != nil {
			return 0, err
		}
		if err := s.cache.Put(cache.Key{Root: root, ConfigHash: cfg.Hash()}, inv); err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// FormatDocument reformats every component tag in a document, using the
// tag prefix from the first root's configuration.
func (s *Service) FormatDocument(ctx context.Context, text string) ([]format.Edit, string, error) {
	if ctx == nil {
		return nil, "", fmt.Errorf("navigator: ctx must not be nil")
	}
	cfg, err := config.Load(ctx, s.roots[0])
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	edits := format.FormatDocument(text, cfg.TagPrefix, format.Options{})
	return edits, format.ApplyEdits(text, edits), nil
}

// inventoryFor returns the memoized inventory for a root, building it
// from a snapshot or a fresh scan on a miss.
func (s *Service) inventoryFor(ctx context.Context, root string) (*inventory.Inventory, error) {
	cfg, err := config.Load(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("loading config for %s: %w", root, err)
	}
	key := cache.Key{Root: root, ConfigHash: cfg.Hash()}

	if inv, ok := s.cache.Get(key); ok {
		return inv, nil
	}

	if inv := s.warmFromSnapshot(ctx, root, cfg.Hash()); inv != nil {
		if err := s.cache.Put(key, inv); err != nil {
			return nil, err
		}
		return inv, nil
	}

	inv, _, err := s.rebuild(ctx, root, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(key, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// warmFromSnapshot loads the latest persisted inventory for a root if
// it was built under the same configuration. Returns nil on any miss;
// a stale or broken snapshot falls through to a fresh scan.
func (s *Service) warmFromSnapshot(ctx context.Context, root, configHash string) *inventory.Inventory {
	if s.snapshots == nil {
		return nil
	}
	components, meta, err := s.snapshots.LoadLatest(ctx, root)
	if err != nil {
		if !errors.Is(err, cache.ErrSnapshotNotFound) {
			s.logger.Warn("snapshot load failed",
				slog.String("root", root),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
	if meta.ConfigHash != configHash {
		return nil
	}
	inv := inventory.New()
	inv.AddBatch(components)
	return inv
}

// rebuild scans a root and assembles a fresh inventory, persisting a
// snapshot when a store is configured.
func (s *Service) rebuild(ctx context.Context, root string, cfg *config.Config) (*inventory.Inventory, int, error) {
	components, err := s.scanner.Scan(ctx, root, cfg)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", root, err)
	}

	inv := inventory.New()
	added := inv.AddBatch(components)
	s.logger.Info("inventory built",
		slog.String("root", root),
		slog.Int("components", added),
	)

	if s.snapshots != nil {
		if _, err := s.snapshots.Save(ctx, root, cfg.Hash(), components); err != nil {
			// Persistence is best-effort; the in-memory inventory is
			// already usable.
			s.logger.Warn("snapshot save failed",
				slog.String("root", root),
				slog.String("error", err.Error()),
			)
		}
	}
	return inv, added, nil
}
