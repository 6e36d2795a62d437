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

// CandidateSet holds the generated relative candidate paths per file kind.
//
// Description:
//
//	Both lists are order-preserving and may contain duplicates; the
//	existence filter deduplicates on output. Paths are slash-separated
//	and relative to a workspace root.
type CandidateSet struct {
	// Logic holds candidate paths for the component's logic file.
	Logic []string

	// Template holds candidate paths for the component's template file.
	Template []string
}

// BuildCandidates generates all candidate paths for a reference.
//
// Description:
//
//	Runs the namespace matcher once per file kind, expands path templates
//	for every plausible match, and backstops with three deliberately
//	permissive additions:
//
//	  - When no base path matched for a kind, every configured base path
//	    for that kind is tried with the unmodified full namespace.
//	  - The fixed convention {templateBasePath}/components/{ns}/{name}{ext}
//	    is always appended for every template base path, bypassing the
//	    matcher entirely.
//	  - When logic matched but no template base path did, template
//	    candidates are additionally derived by relating the matched logic
//	    base paths to the template base paths (string containment), and a
//	    simplified {name}{ext} is tried under any template base path that
//	    textually contains the namespace-as-path.
//
//	This is a pure function of (reference, configuration): it never
//	consults the filesystem.
//
// Inputs:
//
//	ref - The parsed component reference.
//	cfg - The configuration snapshot for this resolution call.
//
// Outputs:
//
//	CandidateSet - The generated candidates, logic and template.
//
// Thread Safety: Safe for concurrent use (stateless function).
func BuildCandidates(ref Reference, cfg *config.Config) CandidateSet {
	excluded := cfg.ExcludedSet()

	logicMatches := MatchNamespace(ref.Segments, cfg.Logic.BasePaths, excluded)
	templateMatches := MatchNamespace(ref.Segments, cfg.Template.BasePaths, excluded)

	var set CandidateSet
	set.Logic = expandMatches(logicMatches, cfg.Logic, ref)
	set.Template = expandMatches(templateMatches, cfg.Template, ref)

	// Last resort for a kind with no match: every base path, full namespace.
	if len(logicMatches) == 0 {
		for _, bp := range cfg.Logic.BasePaths {
			set.Logic = append(set.Logic, ExpandTemplates(bp, cfg.Logic.PathTemplates, ref.Segments, ref.Name)...)
		}
	}
	if len(templateMatches) == 0 {
		for _, bp := range cfg.Template.BasePaths {
			set.Template = append(set.Template, ExpandTemplates(bp, cfg.Template.PathTemplates, ref.Segments, ref.Name)...)
		}
	}

	// The single most common real-world layout, matcher or no matcher.
	nsPath := ref.NamespacePath()
	for _, bp := range cfg.Template.BasePaths {
		p := joinPath(bp, collapseSeparators(joinPath("components", joinPath(nsPath, ref.Name+cfg.TemplateExtension))))
		set.Template = append(set.Template, p)
	}

	if len(logicMatches) > 0 && len(templateMatches) == 0 {
		set.Template = append(set.Template, bridgeTemplates(logicMatches, ref, cfg)...)
	}

	return set
}

// expandMatches expands the path templates of one kind for every match.
func expandMatches(matches []MatchResult, rules config.PathRules, ref Reference) []string {
	var out []string
	for _, m := range matches {
		out = append(out, ExpandTemplates(m.BasePath, rules.PathTemplates, m.Remainder, ref.Name)...)
	}
	return out
}

// bridgeTemplates derives template candidates from matched logic base
// paths when the template matcher came up empty.
//
// Description:
//
//	Two best-effort heuristics. First, any template base path related to
//	a matched logic base path by string containment is re-expanded with
//	that match's remainder. Second, a bare {name}{ext} is tried directly
//	under any template base path whose value textually contains the
//	namespace-as-path. False positives are filtered out by the existence
//	check, so generosity is the safe default.
func bridgeTemplates(logicMatches []MatchResult, ref Reference, cfg *config.Config) []string {
	var out []string

	for _, m := range logicMatches {
		for _, tbp := range cfg.Template.BasePaths {
			if strings.Contains(tbp, m.BasePath) || strings.Contains(m.BasePath, tbp) {
				out = append(out, ExpandTemplates(tbp, cfg.Template.PathTemplates, m.Remainder, ref.Name)...)
			}
		}
	}

	nsPath := ref.NamespacePath()
	if nsPath != "" {
		for _, tbp := range cfg.Template.BasePaths {
			if strings.Contains(tbp, nsPath) {
				out = append(out, joinPath(tbp, ref.Name+cfg.TemplateExtension))
			}
		}
	}

	return out
}
