// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve implements the namespace-to-file-path resolution engine
// for namespaced component tags.
//
// A component reference like <twig:Section:Group:Name> is matched against
// user-configured base paths and path templates, producing candidate file
// paths for the component's logic file and template file. Candidates are
// then checked against every workspace root; an aggressive fallback search
// backstops missing templates. The engine is deliberately over-generating:
// false candidates are harmless (the existence filter drops them), while a
// missed candidate silently breaks navigation.
package resolve

import (
	"regexp"
	"strings"
	"sync"
)

// Reference is the parsed identity of one component tag occurrence.
//
// Description:
//
//	Segments holds the colon-delimited namespace parts, possibly empty.
//	Name is the final identifier and is never empty for a valid reference.
//	A Reference is constructed fresh per resolution request and never
//	persisted.
type Reference struct {
	// Segments are the namespace parts in order, without the name.
	Segments []string

	// Name is the component name, the final identifier of the tag.
	Name string
}

// Namespace returns the colon-joined namespace, empty for none.
func (r Reference) Namespace() string {
	return strings.Join(r.Segments, ":")
}

// NamespacePath returns the namespace joined with the path separator,
// empty for none.
func (r Reference) NamespacePath() string {
	return strings.Join(r.Segments, "/")
}

// FullName returns the complete reference as written in the tag, e.g.
// "Section:Group:Name", or just the name when there is no namespace.
func (r Reference) FullName() string {
	if len(r.Segments) == 0 {
		return r.Name
	}
	return r.Namespace() + ":" + r.Name
}

// ParseReference splits a raw colon-delimited reference string.
//
// Description:
//
//	The final segment becomes the component name; everything before it
//	becomes the namespace. An empty or separator-only input reports false.
//
// Inputs:
//
//	raw - The reference text as written inside the tag, e.g. "Cards:Stat".
//
// Outputs:
//
//	Reference - The parsed reference.
//	bool - False if raw contains no usable component name.
func ParseReference(raw string) (Reference, bool) {
	parts := strings.Split(raw, ":")
	cleaned := parts[:0]
	for _, p := range parts {
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return Reference{}, false
	}
	return Reference{
		Segments: cleaned[:len(cleaned)-1],
		Name:     cleaned[len(cleaned)-1],
	}, true
}

// tagPatterns caches compiled open-tag patterns per tag prefix.
var tagPatterns sync.Map // prefix → *regexp.Regexp

// tagPattern returns the open-tag pattern for a prefix, e.g. for "twig"
// it matches `<twig:Section:Group:Name` and captures the reference text.
func tagPattern(prefix string) *regexp.Regexp {
	if cached, ok := tagPatterns.Load(prefix); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`<` + regexp.QuoteMeta(prefix) + `:([A-Za-z_][A-Za-z0-9_]*(?::[A-Za-z_][A-Za-z0-9_]*)*)`)
	tagPatterns.Store(prefix, re)
	return re
}

// ReferenceAt extracts the component reference under a cursor column.
//
// Description:
//
//	Runs the single-line open-tag pattern over the line and reports the
//	match whose reference span (namespace plus component name) contains
//	the cursor. The cursor sitting on the tag prefix or outside any tag
//	is a normal negative result, not an error.
//
// Inputs:
//
//	lineText - The full text of the cursor's line.
//	column - Zero-based byte offset of the cursor within the line.
//	tagPrefix - The configured tag prefix, e.g. "twig".
//
// Outputs:
//
//	Reference - The parsed reference under the cursor.
//	bool - False if no tag reference spans the cursor.
func ReferenceAt(lineText string, column int, tagPrefix string) (Reference, bool) {
	if column < 0 || column > len(lineText) {
		return Reference{}, false
	}
	re := tagPattern(tagPrefix)
	for _, m := range re.FindAllStringSubmatchIndex(lineText, -1) {
		refStart, refEnd := m[2], m[3]
		if column < refStart || column > refEnd {
			continue
		}
		return ParseReference(lineText[refStart:refEnd])
	}
	return Reference{}, false
}
