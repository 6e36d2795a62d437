// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package inventory

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/AleutianAI/ComponentNav/services/navigator/config"
)

// skippedDirNames are directory names never descended into during a scan.
var skippedDirNames = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"var":          {},
	".git":         {},
}

// Scanner discovers components under a project's configured base paths.
//
// Description:
//
//	Walks each configured base path per file kind and derives component
//	identities from file locations: the file stem becomes the name, the
//	directory path below the base path (minus excluded directory names)
//	becomes the namespace. This is the proactive counterpart of the
//	resolution engine: resolution maps references to files, the scanner
//	maps files back to references.
//
// Thread Safety: Safe for concurrent use (the scanner holds no state).
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a Scanner.
//
// Inputs:
//
//	logger - Logger for diagnostics. Nil selects slog.Default().
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Scan discovers all components under one workspace root.
//
// Description:
//
//	Walks the configured logic and template base paths. A missing base
//	path is skipped silently (not every project uses every convention).
//	Unreadable directories are skipped and logged, never fatal. The walk
//	honors context cancellation between directories.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	root - The workspace root directory.
//	cfg - The configuration snapshot.
//
// Outputs:
//
//	[]*Component - Discovered entries, walk order.
//	error - Non-nil on invalid input or context cancellation.
//
// Thread Safety: Safe for concurrent use.
func (s *Scanner) Scan(ctx context.Context, root string, cfg *config.Config) ([]*Component, error) {
	if ctx == nil {
		return nil, fmt.Errorf("inventory: ctx must not be nil")
	}
	if root == "" {
		return nil, fmt.Errorf("inventory: root must not be empty")
	}
	if cfg == nil {
		return nil, fmt.Errorf("inventory: config must not be nil")
	}

	excluded := cfg.ExcludedSet()

	var out []*Component
	for _, bp := range cfg.Logic.BasePaths {
		found, err := s.scanBasePath(ctx, root, bp, cfg.LogicExtension, KindLogic, excluded)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	for _, bp := range cfg.Template.BasePaths {
		found, err := s.scanBasePath(ctx, root, bp, cfg.TemplateExtension, KindTemplate, excluded)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}

	s.logger.Info("component scan complete",
		slog.String("root", root),
		slog.Int("components", len(out)),
	)
	return out, nil
}

// scanBasePath walks one base path for files of one kind.
func (s *Scanner) scanBasePath(ctx context.Context, root, basePath, ext string, kind Kind, excluded map[string]struct{}) ([]*Component, error) {
	baseAbs := filepath.Join(root, filepath.FromSlash(basePath))

	var out []*Component
	walkErr := filepath.WalkDir(baseAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == baseAbs {
				// Base path absent under this root: not every project
				// uses every convention.
				return fs.SkipAll
			}
			s.logger.Debug("scan: skipping unreadable entry",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			name := d.Name()
			if _, skip := skippedDirNames[name]; skip {
				return fs.SkipDir
			}
			if name != "." && strings.HasPrefix(name, ".") && path != baseAbs {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		rel, err := filepath.Rel(baseAbs, path)
		if err != nil {
			return nil
		}
		out = append(out, &Component{
			Name:      strings.TrimSuffix(d.Name(), ext),
			Namespace: deriveNamespace(filepath.Dir(rel), excluded),
			Kind:      kind,
			Root:      root,
			Path:      path,
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", baseAbs, walkErr)
	}
	return out, nil
}

// deriveNamespace converts a directory path below a base path into a
// colon-joined namespace, dropping excluded directory names.
func deriveNamespace(relDir string, excluded map[string]struct{}) string {
	if relDir == "." || relDir == "" {
		return ""
	}
	var segs []string
	for _, seg := range strings.Split(filepath.ToSlash(relDir), "/") {
		if seg == "" || seg == "." {
			continue
		}
		if _, drop := excluded[strings.ToLower(seg)]; drop {
			continue
		}
		segs = append(segs, seg)
	}
	return strings.Join(segs, ":")
}
