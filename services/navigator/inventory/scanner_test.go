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
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/ComponentNav/services/navigator/config"
)

func writeProjectFile(t *testing.T, root, rel string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(abs, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func scanByFullName(t *testing.T, components []*Component) map[string]*Component {
	t.Helper()
	out := make(map[string]*Component, len(components))
	for _, c := range components {
		out[c.Kind.String()+":"+c.FullName()] = c
	}
	return out
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/Cards/Stat.php")
	writeProjectFile(t, root, "src/Button.php")
	writeProjectFile(t, root, "src/Cards/README.md")
	writeProjectFile(t, root, "templates/components/Cards/Stat.html.twig")
	writeProjectFile(t, root, "templates/base.html.twig")

	s := NewScanner(slog.Default())
	components, err := s.Scan(context.Background(), root, config.Default())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(components) != 4 {
		t.Fatalf("components = %d, want 4", len(components))
	}

	byName := scanByFullName(t, components)
	for _, want := range []string{"logic:Cards:Stat", "logic:Button", "template:Cards:Stat", "template:base"} {
		if byName[want] == nil {
			t.Errorf("missing %q", want)
		}
	}
	if c := byName["logic:Cards:Stat"]; c != nil && c.Root != root {
		t.Errorf("Root = %q, want %q", c.Root, root)
	}
}

func TestScanner_Scan_SkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/Button.php")
	writeProjectFile(t, root, "src/vendor/dep/Thing.php")
	writeProjectFile(t, root, "src/node_modules/pkg/Thing.php")
	writeProjectFile(t, root, "src/.hidden/Secret.php")

	s := NewScanner(slog.Default())
	components, err := s.Scan(context.Background(), root, config.Default())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(components) != 1 {
		t.Errorf("components = %d, want 1", len(components))
	}
}

func TestScanner_Scan_MissingBasePath(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "templates/components/Button.html.twig")

	// No src directory at all; the scan still succeeds.
	s := NewScanner(slog.Default())
	components, err := s.Scan(context.Background(), root, config.Default())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(components) != 1 {
		t.Errorf("components = %d, want 1", len(components))
	}
}

func TestScanner_Scan_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "src/Button.php")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner(slog.Default())
	if _, err := s.Scan(ctx, root, config.Default()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestScanner_Scan_InvalidInput(t *testing.T) {
	s := NewScanner(slog.Default())
	if _, err := s.Scan(nil, "/x", config.Default()); err == nil { //nolint:staticcheck
		t.Error("expected error for nil ctx")
	}
	if _, err := s.Scan(context.Background(), "", config.Default()); err == nil {
		t.Error("expected error for empty root")
	}
	if _, err := s.Scan(context.Background(), "/x", nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestScanner_Scan_SampleProjectFixture(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", "..", "..", "test", "fixtures", "sample-project"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Skipf("fixture not present: %v", err)
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx, root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s := NewScanner(slog.Default())
	components, err := s.Scan(ctx, root, cfg)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	byName := scanByFullName(t, components)
	for _, want := range []string{
		"logic:Cards:Stat", "logic:Alert",
		"template:Cards:Stat", "template:Alert", "template:page",
	} {
		if byName[want] == nil {
			t.Errorf("missing %q", want)
		}
	}
}
