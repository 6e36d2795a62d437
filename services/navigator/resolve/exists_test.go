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
	"testing"
)

// writeFile creates a file (and parent directories) under root.
func writeFile(t *testing.T, root, rel string) string {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(abs, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return abs
}

func TestFilterExisting_RootMajorOrder(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()

	writeFile(t, rootA, "templates/components/Cards/Stat.html.twig")
	writeFile(t, rootB, "templates/components/Cards/Stat.html.twig")

	got := FilterExisting(
		[]string{"missing/first.html.twig", "templates/components/Cards/Stat.html.twig"},
		[]string{rootA, rootB},
		nil,
	)
	if len(got) != 2 {
		t.Fatalf("expected one result per root, got %d: %v", len(got), got)
	}
	if got[0].Root != rootA || got[1].Root != rootB {
		t.Errorf("expected root-major order %s then %s, got %v", rootA, rootB, got)
	}
}

func TestFilterExisting_DeduplicatesCandidates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Stat.php")

	got := FilterExisting([]string{"src/Stat.php", "src/Stat.php"}, []string{root}, nil)
	if len(got) != 1 {
		t.Errorf("expected duplicate candidates collapsed, got %d results", len(got))
	}
}

func TestFilterExisting_ProbeFailureIsNonExistence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Good.php")

	// A probe that fails on one candidate must not abort the batch.
	probe := func(abs string) bool {
		if filepath.Base(abs) == "Bad.php" {
			// Simulates a permission or transient I/O failure.
			return false
		}
		return StatProbe(abs)
	}

	got := FilterExisting([]string{"src/Bad.php", "src/Good.php"}, []string{root}, probe)
	if len(got) != 1 || got[0].RelPath != "src/Good.php" {
		t.Errorf("expected only src/Good.php, got %v", got)
	}
}

func TestFilterExisting_DirectoryIsNotAFile(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src", "Stat.php"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := FilterExisting([]string{"src/Stat.php"}, []string{root}, nil)
	if len(got) != 0 {
		t.Errorf("a directory must not satisfy a file candidate, got %v", got)
	}
}

func TestFilterExisting_NoRoots(t *testing.T) {
	got := FilterExisting([]string{"src/Stat.php"}, nil, nil)
	if len(got) != 0 {
		t.Errorf("expected empty result without roots, got %v", got)
	}
}
