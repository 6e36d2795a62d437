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
	"slices"
	"testing"

	"github.com/AleutianAI/ComponentNav/services/navigator/config"
)

// testConfig returns a small configuration for candidate generation tests.
func testConfig() *config.Config {
	return &config.Config{
		Logic: config.PathRules{
			BasePaths:     []string{"src"},
			PathTemplates: []string{"${namespace}/${componentName}.php"},
		},
		Template: config.PathRules{
			BasePaths:     []string{"templates"},
			PathTemplates: []string{"components/${namespace}/${componentName}.html.twig"},
		},
		ExcludedDirectoryNames: []string{"src", "templates", "components"},
		FallbackTemplateDirs:   []string{"templates"},
		TagPrefix:              "twig",
		LogicExtension:         ".php",
		TemplateExtension:      ".html.twig",
	}
}

func TestBuildCandidates_FullNamespaceFallback(t *testing.T) {
	// No base path matches "Cards" (src and templates both derive empty
	// base namespaces), so every base path is tried with the unmodified
	// full namespace.
	ref := Reference{Segments: []string{"Cards"}, Name: "Stat"}
	set := BuildCandidates(ref, testConfig())

	if !slices.Contains(set.Logic, "src/Cards/Stat.php") {
		t.Errorf("expected full-namespace logic candidate, got %v", set.Logic)
	}
	if !slices.Contains(set.Template, "templates/components/Cards/Stat.html.twig") {
		t.Errorf("expected full-namespace template candidate, got %v", set.Template)
	}
}

func TestBuildCandidates_FixedConventionAlwaysPresent(t *testing.T) {
	// The components/{namespace}/{name} convention is appended for every
	// template base path even when the matcher found a precise match.
	cfg := testConfig()
	cfg.Template.BasePaths = []string{"templates/Cards"}
	ref := Reference{Segments: []string{"Cards"}, Name: "Stat"}

	set := BuildCandidates(ref, cfg)
	if !slices.Contains(set.Template, "templates/Cards/components/Cards/Stat.html.twig") {
		t.Errorf("expected fixed convention candidate, got %v", set.Template)
	}
}

func TestBuildCandidates_PreciseMatchExpansion(t *testing.T) {
	cfg := testConfig()
	cfg.Logic.BasePaths = []string{"src/Widget"}
	ref := Reference{Segments: []string{"Widget", "Cards"}, Name: "Stat"}

	set := BuildCandidates(ref, cfg)
	if !slices.Contains(set.Logic, "src/Widget/Cards/Stat.php") {
		t.Errorf("expected prefix-match expansion, got %v", set.Logic)
	}
}

func TestBuildCandidates_NoNamespace(t *testing.T) {
	ref := Reference{Name: "Button"}
	set := BuildCandidates(ref, testConfig())

	// src derives an empty base namespace, so the empty namespace matches
	// exactly and the placeholder collapses without a double separator.
	if !slices.Contains(set.Logic, "src/Button.php") {
		t.Errorf("expected src/Button.php, got %v", set.Logic)
	}
	if !slices.Contains(set.Template, "templates/components/Button.html.twig") {
		t.Errorf("expected templates/components/Button.html.twig, got %v", set.Template)
	}
}

func TestBuildCandidates_BridgeContainmentHeuristic(t *testing.T) {
	// Logic matches but no template base path does: template candidates
	// are additionally derived from template base paths related to the
	// matched logic base path by string containment.
	cfg := testConfig()
	cfg.Logic.BasePaths = []string{"app/Widget"}
	cfg.Template.BasePaths = []string{"app/Widget_themes"}
	cfg.ExcludedDirectoryNames = []string{"app"}
	ref := Reference{Segments: []string{"Widget", "Cards"}, Name: "Stat"}

	set := BuildCandidates(ref, cfg)

	// app/Widget_themes contains the matched logic base path app/Widget,
	// so the template path templates are re-expanded under it with the
	// logic match's remainder.
	if !slices.Contains(set.Template, "app/Widget_themes/components/Cards/Stat.html.twig") {
		t.Errorf("expected containment-derived candidate, got %v", set.Template)
	}
}

func TestBridgeTemplates_NamespacePathContainment(t *testing.T) {
	// A template base path whose value textually contains the
	// namespace-as-path gets the simplified {name}{ext} candidate.
	cfg := testConfig()
	cfg.Template.BasePaths = []string{"views/Widget/Cards"}
	logicMatches := []MatchResult{{BasePath: "src/Widget", Remainder: []string{"Cards"}}}
	ref := Reference{Segments: []string{"Widget", "Cards"}, Name: "Stat"}

	got := bridgeTemplates(logicMatches, ref, cfg)
	if !slices.Contains(got, "views/Widget/Cards/Stat.html.twig") {
		t.Errorf("expected simplified namespace-path candidate, got %v", got)
	}
}

func TestBuildCandidates_IsPure(t *testing.T) {
	// Candidate generation must be a pure function of (reference, config):
	// identical inputs, identical output, and no filesystem dependence.
	ref := Reference{Segments: []string{"Widget", "Cards"}, Name: "Stat"}
	cfg := testConfig()

	first := BuildCandidates(ref, cfg)
	second := BuildCandidates(ref, cfg)

	if !slices.Equal(first.Logic, second.Logic) || !slices.Equal(first.Template, second.Template) {
		t.Errorf("candidate generation is not deterministic: %v vs %v", first, second)
	}
}
