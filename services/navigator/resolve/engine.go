// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/ComponentNav/services/navigator/config"
)

// engineTracer traces resolution calls.
var engineTracer = otel.Tracer("componentnav/resolve")

// Resolution is the final output of one resolution call.
//
// Description:
//
//	Holds the parsed reference plus the confirmed-existing logic and
//	template files. Both lists empty means "no match", which is a valid,
//	expected outcome (never surfaced as an error).
type Resolution struct {
	// Reference is the parsed component reference.
	Reference Reference `json:"reference"`

	// LogicFiles are existing logic files, root-major order.
	LogicFiles []FileRef `json:"logic_files"`

	// TemplateFiles are existing template files, root-major order.
	TemplateFiles []FileRef `json:"template_files"`
}

// ConfigLoader supplies the configuration snapshot for a resolution call.
//
// The engine reads configuration exactly once per call and uses that
// snapshot throughout, so base-path/template-path pairings stay consistent
// even if the configuration changes between calls.
type ConfigLoader func(ctx context.Context, projectRoot string) (*config.Config, error)

// Engine is the single entry point for navigation, completion and cache
// collaborators.
//
// Description:
//
//	Each resolution call is pure given its inputs (document text, cursor
//	position, configuration, filesystem state at call time); the engine
//	itself holds no mutable state beyond its wiring.
//
// Thread Safety: Safe for concurrent use once constructed.
type Engine struct {
	// Roots are the open workspace root directories, in workspace order.
	Roots []string

	// LoadConfig loads the configuration snapshot. Nil selects
	// config.Load against the first root.
	LoadConfig ConfigLoader

	// Probe is the filesystem existence probe. Nil selects StatProbe.
	Probe ProbeFunc

	// Logger receives diagnostic output. Nil selects slog.Default().
	Logger *slog.Logger
}

// NewEngine creates an Engine for the given workspace roots.
//
// Inputs:
//
//	roots - Workspace root directories. Must not be empty.
//	logger - Logger for diagnostics. Nil selects slog.Default().
//
// Outputs:
//
//	*Engine - The configured engine.
//	error - Non-nil if roots is empty.
func NewEngine(roots []string, logger *slog.Logger) (*Engine, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("resolve: at least one workspace root is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Roots:      roots,
		LoadConfig: config.Load,
		Probe:      StatProbe,
		Logger:     logger,
	}, nil
}

// ResolveAtCursor resolves the component reference under a cursor.
//
// Description:
//
//	Extracts the tag on the cursor's line, builds candidate paths per
//	file kind, filters them by existence against every workspace root,
//	and runs the aggressive template fallback when logic files were found
//	but templates were not. The configuration snapshot is read once and
//	used consistently throughout the call.
//
//	A cursor outside any tag reference, or a reference with no existing
//	files, yields (nil, nil): both are normal negative results. Errors
//	are reserved for programmer mistakes (nil context, empty document)
//	and unreadable configuration syntax.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	documentText - The full document text. Must not be empty.
//	line - Zero-based cursor line.
//	column - Zero-based cursor byte offset within the line.
//
// Outputs:
//
//	*Resolution - The resolved reference and found files, or nil for
//	"no match".
//	error - Non-nil only for programmer errors or config syntax errors.
//
// Thread Safety: Safe for concurrent use.
func (e *Engine) ResolveAtCursor(ctx context.Context, documentText string, line, column int) (*Resolution, error) {
	if ctx == nil {
		return nil, fmt.Errorf("resolve: ctx must not be nil")
	}
	if documentText == "" {
		return nil, fmt.Errorf("resolve: document text must not be empty")
	}

	ctx, span := engineTracer.Start(ctx, "resolve.ResolveAtCursor")
	defer span.End()

	lines := strings.Split(documentText, "\n")
	if line < 0 || line >= len(lines) {
		return nil, nil
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	ref, ok := ReferenceAt(lines[line], column, cfg.TagPrefix)
	if !ok {
		return nil, nil
	}
	span.SetAttributes(attribute.String("component", ref.FullName()))

	res := e.resolveReference(ref, cfg)
	if res == nil {
		e.Logger.Info("component resolution: no files found",
			slog.String("component", ref.FullName()),
			slog.Int("roots", len(e.Roots)),
		)
		return nil, nil
	}

	e.Logger.Info("component resolution: resolved",
		slog.String("component", ref.FullName()),
		slog.Int("logic_files", len(res.LogicFiles)),
		slog.Int("template_files", len(res.TemplateFiles)),
	)
	return res, nil
}

// ResolveReference resolves an already-parsed reference.
//
// Description:
//
//	Same engine semantics as ResolveAtCursor without the cursor gate.
//	Used by the completion inventory and the CLI, which already hold a
//	parsed reference.
//
// Outputs:
//
//	*Resolution - The resolution, or nil for "no match".
//	error - Non-nil only for programmer errors or config syntax errors.
func (e *Engine) ResolveReference(ctx context.Context, ref Reference) (*Resolution, error) {
	if ctx == nil {
		return nil, fmt.Errorf("resolve: ctx must not be nil")
	}
	if ref.Name == "" {
		return nil, fmt.Errorf("resolve: reference name must not be empty")
	}

	ctx, span := engineTracer.Start(ctx, "resolve.ResolveReference")
	defer span.End()

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return e.resolveReference(ref, cfg), nil
}

// resolveReference runs candidate generation, existence filtering and the
// aggressive fallback against one configuration snapshot.
func (e *Engine) resolveReference(ref Reference, cfg *config.Config) *Resolution {
	probe := e.Probe
	if probe == nil {
		probe = StatProbe
	}

	candidates := BuildCandidates(ref, cfg)
	logicFiles := FilterExisting(candidates.Logic, e.Roots, probe)
	templateFiles := FilterExisting(candidates.Template, e.Roots, probe)

	if len(logicFiles) > 0 && len(templateFiles) == 0 {
		templateFiles = FallbackSearchTemplates(ref, cfg, e.Roots, probe)
	}

	if len(logicFiles) == 0 && len(templateFiles) == 0 {
		return nil
	}
	return &Resolution{
		Reference:     ref,
		LogicFiles:    logicFiles,
		TemplateFiles: templateFiles,
	}
}

// loadConfig reads the one configuration snapshot for a resolution call.
func (e *Engine) loadConfig(ctx context.Context) (*config.Config, error) {
	loader := e.LoadConfig
	if loader == nil {
		loader = config.Load
	}
	cfg, err := loader(ctx, e.Roots[0])
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}
