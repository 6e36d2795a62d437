// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package navigator

import (
	"github.com/AleutianAI/ComponentNav/services/navigator/format"
	"github.com/AleutianAI/ComponentNav/services/navigator/inventory"
	"github.com/AleutianAI/ComponentNav/services/navigator/resolve"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	// Error is the human-readable message.
	Error string `json:"error"`

	// Code is the machine-readable error code.
	Code string `json:"code"`
}

// ResolveRequest is the body for POST /v1/nav/resolve.
type ResolveRequest struct {
	// Text is the full document text.
	Text string `json:"text"`

	// Line is the zero-based cursor line.
	Line int `json:"line"`

	// Column is the zero-based cursor byte offset within the line.
	Column int `json:"column"`
}

// ResolveResponse is the body for a successful resolve call.
type ResolveResponse struct {
	// Found reports whether a reference resolved to at least one file.
	Found bool `json:"found"`

	// Resolution holds the resolved files; nil when Found is false.
	Resolution *resolve.Resolution `json:"resolution,omitempty"`
}

// ComponentInfo is the wire shape of one inventory entry.
type ComponentInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	FullName  string `json:"full_name"`
	Kind      string `json:"kind"`
	Root      string `json:"root"`
	Path      string `json:"path"`
}

// componentInfoFrom converts an inventory entry to its wire shape.
func componentInfoFrom(c *inventory.Component) ComponentInfo {
	return ComponentInfo{
		Name:      c.Name,
		Namespace: c.Namespace,
		FullName:  c.FullName(),
		Kind:      c.Kind.String(),
		Root:      c.Root,
		Path:      c.Path,
	}
}

// CompleteResponse is the body for GET /v1/nav/complete.
type CompleteResponse struct {
	// Query echoes the partial name searched.
	Query string `json:"query"`

	// Components are the matches, best first.
	Components []ComponentInfo `json:"components"`
}

// FormatRequest is the body for POST /v1/nav/format.
type FormatRequest struct {
	// Text is the document text to reformat.
	Text string `json:"text"`
}

// FormatResponse is the body for a successful format call.
type FormatResponse struct {
	// Edits are the replacements, ascending, non-overlapping.
	Edits []format.Edit `json:"edits"`

	// Formatted is the document with all edits applied.
	Formatted string `json:"formatted"`
}

// IndexResponse is the body for POST /v1/nav/index.
type IndexResponse struct {
	// Components is the total number of entries indexed.
	Components int `json:"components"`

	// Roots is the number of workspace roots scanned.
	Roots int `json:"roots"`

	// DurationMs is the wall-clock scan time in milliseconds.
	DurationMs int64 `json:"duration_ms"`
}

// ComponentsResponse is the body for GET /v1/nav/components.
type ComponentsResponse struct {
	// Components are all indexed entries across all roots.
	Components []ComponentInfo `json:"components"`

	// Total is len(Components).
	Total int `json:"total"`
}

// HealthResponse is the body for GET /v1/nav/health.
type HealthResponse struct {
	Status string   `json:"status"`
	Roots  []string `json:"roots"`
}
