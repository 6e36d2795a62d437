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
	"os"
	"path/filepath"

	"github.com/AleutianAI/ComponentNav/services/navigator/config"
)

// FallbackSearchTemplates retries the template search with fixed shapes.
//
// Description:
//
//	Triggered only when logic files were found but the primary template
//	search produced nothing. For each configured fallback directory that
//	exists under a workspace root, two convention-biased shapes are
//	probed per template base path:
//
//	  {templateBasePath}/{componentName}{ext}
//	  {templateBasePath}/components/{namespace-as-path}/{componentName}{ext}
//
//	This is a narrow retry, not a recursive scan: no directory trees are
//	enumerated at runtime, keeping the cost bounded.
//
// Inputs:
//
//	ref - The parsed component reference.
//	cfg - The configuration snapshot for this resolution call.
//	roots - Workspace root directories, in workspace order.
//	probe - The existence probe. Nil selects StatProbe.
//
// Outputs:
//
//	[]FileRef - Existing template files, root-major, deduplicated.
//
// Thread Safety: Safe for concurrent use (stateless function).
func FallbackSearchTemplates(ref Reference, cfg *config.Config, roots []string, probe ProbeFunc) []FileRef {
	if probe == nil {
		probe = StatProbe
	}

	nsPath := ref.NamespacePath()
	shapes := make([]string, 0, 2*len(cfg.Template.BasePaths))
	for _, tbp := range cfg.Template.BasePaths {
		shapes = append(shapes,
			joinPath(tbp, ref.Name+cfg.TemplateExtension),
			joinPath(tbp, collapseSeparators(joinPath("components", joinPath(nsPath, ref.Name+cfg.TemplateExtension)))),
		)
	}

	var out []FileRef
	seen := make(map[string]struct{})
	for _, root := range roots {
		if !anyFallbackDirExists(root, cfg.FallbackTemplateDirs) {
			continue
		}
		for _, rel := range shapes {
			abs := filepath.Join(root, filepath.FromSlash(rel))
			if _, dup := seen[abs]; dup {
				continue
			}
			if !probe(abs) {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, FileRef{Root: root, RelPath: rel, AbsPath: abs})
		}
	}
	return out
}

// anyFallbackDirExists reports whether at least one configured fallback
// directory is present under the root. Probe failures count as absent.
func anyFallbackDirExists(root string, dirs []string) bool {
	for _, dir := range dirs {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir)))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
