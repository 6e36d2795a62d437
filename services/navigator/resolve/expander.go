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
	"strings"

	"github.com/AleutianAI/ComponentNav/services/navigator/config"
)

// ExpandTemplates produces concrete candidate paths from path templates.
//
// Description:
//
//	For each template, the first ${namespace} occurrence is replaced with
//	the remainder joined by "/" (empty string for an empty remainder) and
//	every ${componentName} occurrence with the component name. A template
//	whose literal prefix already names leading remainder segments does not
//	duplicate them: "Widget/${namespace}" with remainder [Widget Cards]
//	expands to "Widget/Cards". Repeated separators left behind by an
//	empty namespace are collapsed, a leading separator is stripped, and
//	the result is joined with the base path.
//
//	This is a pure string transformation: no filesystem access, no
//	errors. A malformed template simply yields a path that will not
//	exist. Output order matches template order.
//
// Inputs:
//
//	basePath - The matched base path, e.g. "src".
//	pathTemplates - Templates containing the two placeholders.
//	namespaceRemainder - Namespace segments not consumed by the base path.
//	componentName - The component name.
//
// Outputs:
//
//	[]string - One candidate relative path per template, in order.
//
// Thread Safety: Safe for concurrent use (stateless function).
func ExpandTemplates(basePath string, pathTemplates []string, namespaceRemainder []string, componentName string) []string {
	out := make([]string, 0, len(pathTemplates))
	for _, tmpl := range pathTemplates {
		p := substituteNamespace(tmpl, namespaceRemainder)
		p = strings.ReplaceAll(p, config.ComponentNamePlaceholder, componentName)
		p = collapseSeparators(p)
		p = strings.TrimPrefix(p, "/")
		out = append(out, joinPath(basePath, p))
	}
	return out
}

// substituteNamespace replaces the first ${namespace} occurrence,
// dropping leading remainder segments the template's literal prefix
// already names.
func substituteNamespace(tmpl string, remainder []string) string {
	idx := strings.Index(tmpl, config.NamespacePlaceholder)
	if idx < 0 {
		return tmpl
	}
	prefix := tmpl[:idx]
	segs := remainder
	for len(segs) > 0 && lastSegment(prefix) == segs[0] {
		segs = segs[1:]
	}
	return prefix + strings.Join(segs, "/") + tmpl[idx+len(config.NamespacePlaceholder):]
}

// lastSegment returns the final path segment of a literal prefix, with
// trailing separators ignored.
func lastSegment(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		return prefix[i+1:]
	}
	return prefix
}

// collapseSeparators reduces any run of "/" to a single separator.
func collapseSeparators(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// joinPath joins a base path and a relative path with "/", tolerating an
// empty base and trailing separators. Candidate paths stay slash-separated
// until the existence filter converts them for the host filesystem.
func joinPath(base, rel string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return rel
	}
	if rel == "" {
		return base
	}
	return base + "/" + rel
}
