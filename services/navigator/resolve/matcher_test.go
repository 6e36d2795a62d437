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
	"reflect"
	"testing"
)

func excludedSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func TestDeriveBaseNamespace(t *testing.T) {
	tests := []struct {
		name     string
		basePath string
		excluded []string
		want     []string
	}{
		{"plain", "src/Cards", []string{"src"}, []string{"Cards"}},
		{"all excluded", "templates/components", []string{"templates", "components"}, nil},
		{"case insensitive exclusion", "Src/Cards", []string{"src"}, []string{"Cards"}},
		{"backslash separators", `src\Widget\Cards`, []string{"src"}, []string{"Widget", "Cards"}},
		{"empty segments dropped", "src//Cards/", []string{"src"}, []string{"Cards"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveBaseNamespace(tt.basePath, excludedSet(tt.excluded...))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeriveBaseNamespace(%q) = %v, want %v", tt.basePath, got, tt.want)
			}
		})
	}
}

func TestMatchNamespace_Exact(t *testing.T) {
	got := MatchNamespace([]string{"Cards"}, []string{"src/Cards"}, excludedSet("src"))
	if len(got) != 1 {
		t.Fatalf("expected one match, got %d", len(got))
	}
	if got[0].BasePath != "src/Cards" {
		t.Errorf("expected base path src/Cards, got %q", got[0].BasePath)
	}
	if len(got[0].Remainder) != 0 {
		t.Errorf("exact match must leave an empty remainder, got %v", got[0].Remainder)
	}
}

func TestMatchNamespace_Prefix(t *testing.T) {
	got := MatchNamespace(
		[]string{"Widget", "Cards", "Inner"},
		[]string{"src/Widget"},
		excludedSet("src"),
	)
	if len(got) != 1 {
		t.Fatalf("expected one match, got %d", len(got))
	}
	want := []string{"Cards", "Inner"}
	if !reflect.DeepEqual(got[0].Remainder, want) {
		t.Errorf("expected remainder %v, got %v", want, got[0].Remainder)
	}
}

func TestMatchNamespace_ReverseContained(t *testing.T) {
	// The directory structure is finer-grained than the namespace.
	got := MatchNamespace(
		[]string{"Widget"},
		[]string{"src/Widget/Cards"},
		excludedSet("src"),
	)
	if len(got) != 1 {
		t.Fatalf("expected one match, got %d", len(got))
	}
	if len(got[0].Remainder) != 0 {
		t.Errorf("reverse match must leave an empty remainder, got %v", got[0].Remainder)
	}
}

func TestMatchNamespace_OrderedPartial(t *testing.T) {
	got := MatchNamespace(
		[]string{"Widget", "Cards", "Extra"},
		[]string{"Widget/Shared"},
		excludedSet(),
	)
	if len(got) != 1 {
		t.Fatalf("expected one ordered partial match, got %d", len(got))
	}
	want := []string{"Cards", "Extra"}
	if !reflect.DeepEqual(got[0].Remainder, want) {
		t.Errorf("expected remainder %v, got %v", want, got[0].Remainder)
	}
}

func TestMatchNamespace_UnorderedPartial(t *testing.T) {
	got := MatchNamespace(
		[]string{"Cards", "Widget"},
		[]string{"Widget/Misc"},
		excludedSet(),
	)
	if len(got) != 1 {
		t.Fatalf("expected one unordered partial match, got %d", len(got))
	}
	want := []string{"Cards"}
	if !reflect.DeepEqual(got[0].Remainder, want) {
		t.Errorf("expected remainder %v (absent segments in original order), got %v", want, got[0].Remainder)
	}
}

func TestMatchNamespace_NoMatch(t *testing.T) {
	got := MatchNamespace([]string{"Alpha"}, []string{"src"}, excludedSet("src"))
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestMatchNamespace_EmptyNamespace(t *testing.T) {
	// A component with no namespace still resolves against a base path
	// whose derived base namespace is empty.
	got := MatchNamespace(nil, []string{"templates/components", "src/Widget"}, excludedSet("templates", "components"))
	if len(got) != 1 {
		t.Fatalf("expected one match, got %d", len(got))
	}
	if got[0].BasePath != "templates/components" {
		t.Errorf("expected templates/components, got %q", got[0].BasePath)
	}
	if len(got[0].Remainder) != 0 {
		t.Errorf("expected empty remainder, got %v", got[0].Remainder)
	}
}

func TestMatchNamespace_AccumulatesAllPlausible(t *testing.T) {
	// Two base paths both match precisely; both must be retained so the
	// existence filter can arbitrate.
	got := MatchNamespace(
		[]string{"Widget", "Cards"},
		[]string{"src/Widget", "src/Widget/Cards"},
		excludedSet("src"),
	)
	if len(got) != 2 {
		t.Fatalf("expected both matches retained, got %d: %v", len(got), got)
	}
	if got[0].BasePath != "src/Widget" || got[1].BasePath != "src/Widget/Cards" {
		t.Errorf("expected configured order preserved, got %v", got)
	}
}

func TestMatchNamespace_PreciseShadowsPartial(t *testing.T) {
	// A precise match on one base path suppresses partial strategies for
	// all base paths.
	got := MatchNamespace(
		[]string{"Widget", "Cards"},
		[]string{"Widget/Misc", "src/Widget"},
		excludedSet("src"),
	)
	if len(got) != 1 {
		t.Fatalf("expected only the precise match, got %d: %v", len(got), got)
	}
	if got[0].BasePath != "src/Widget" {
		t.Errorf("expected src/Widget, got %q", got[0].BasePath)
	}
}
