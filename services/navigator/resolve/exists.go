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
)

// FileRef is a confirmed-existing file location under a workspace root.
type FileRef struct {
	// Root is the workspace root the file was found under.
	Root string `json:"root"`

	// RelPath is the slash-separated candidate path relative to Root.
	RelPath string `json:"rel_path"`

	// AbsPath is the absolute filesystem path.
	AbsPath string `json:"abs_path"`
}

// ProbeFunc reports whether a regular file exists at an absolute path.
//
// Implementations must never panic; a probe that fails for any reason
// (permissions, transient I/O) reports false. This is a best-effort probe,
// not a critical read.
type ProbeFunc func(absPath string) bool

// StatProbe probes the real filesystem via os.Stat.
//
// Any error, including permission errors, counts as non-existence so a
// single bad candidate never aborts the batch.
func StatProbe(absPath string) bool {
	info, err := os.Stat(absPath)
	return err == nil && info.Mode().IsRegular()
}

// FilterExisting keeps the candidates that exist under workspace roots.
//
// Description:
//
//	Probes every workspace root x candidate combination, root-major, and
//	returns the existing ones in that deterministic order. A path present
//	under two roots yields two results; callers decide precedence.
//	Duplicate candidate entries touching the same absolute path are
//	deduplicated on output.
//
// Inputs:
//
//	candidates - Slash-separated relative paths, in generation order.
//	roots - Workspace root directories, in workspace order.
//	probe - The existence probe. Nil selects StatProbe.
//
// Outputs:
//
//	[]FileRef - Existing files, root-major then candidate order.
//
// Thread Safety: Safe for concurrent use (stateless function).
func FilterExisting(candidates []string, roots []string, probe ProbeFunc) []FileRef {
	if probe == nil {
		probe = StatProbe
	}

	var out []FileRef
	seen := make(map[string]struct{})
	for _, root := range roots {
		for _, rel := range candidates {
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
