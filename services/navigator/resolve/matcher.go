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
)

// MatchResult pairs a matched base path with the namespace remainder to
// feed into template expansion.
//
// Description:
//
//	BasePath is the matched configured base path. Remainder holds the
//	namespace segments not consumed by the match; it is empty for exact
//	and reverse matches and carries the unmatched suffix for prefix and
//	partial matches.
type MatchResult struct {
	// BasePath is the matched configured base path.
	BasePath string

	// Remainder is the unconsumed portion of the namespace, in order.
	Remainder []string
}

// DeriveBaseNamespace reduces a base path to its namespace view.
//
// Description:
//
//	Splits the base path on separators and drops segments whose
//	lower-cased form is an excluded directory name. "src/Cards" with
//	"src" excluded derives the base namespace ["Cards"]; "templates"
//	with "templates" excluded derives an empty base namespace.
//
// Inputs:
//
//	basePath - A configured base path, slash- or backslash-separated.
//	excluded - Lower-cased directory names to drop.
//
// Outputs:
//
//	[]string - The remaining segments, in order. May be empty.
//
// Thread Safety: Safe for concurrent use (stateless function).
func DeriveBaseNamespace(basePath string, excluded map[string]struct{}) []string {
	normalized := strings.ReplaceAll(basePath, "\\", "/")
	var out []string
	for _, seg := range strings.Split(normalized, "/") {
		if seg == "" || seg == "." {
			continue
		}
		if _, drop := excluded[strings.ToLower(seg)]; drop {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// MatchNamespace determines which base paths apply to a namespace.
//
// Description:
//
//	Runs an ordered cascade of matching strategies, most precise first,
//	and accumulates every plausible match rather than stopping at the
//	first. Over-generation is safe here: the existence filter is the
//	final arbiter, while an under-match silently breaks navigation.
//
//	Strategies, in order:
//
//	  1. Exact: the derived base namespace equals the namespace.
//	  2. Prefix: the namespace starts with baseNamespace + ":". The
//	     remainder is the suffix.
//	  3. Reverse/contained: the base namespace extends or contains the
//	     namespace (the directory structure is finer-grained than the
//	     namespace). Remainder is empty.
//	  4. Ordered partial: only when no base path matched above. Longest
//	     common prefix of namespace segments vs filtered base segments;
//	     at least one segment must line up. Remainder is the unmatched
//	     suffix.
//	  5. Unordered partial: only when ordered partial found nothing.
//	     Namespace segments appearing anywhere among the base segments
//	     count as matched; the remainder keeps the absent segments in
//	     original order. At least one segment must appear.
//
//	An empty namespace matches exactly against any base path whose
//	derived base namespace is itself empty.
//
// Inputs:
//
//	segments - The full namespace segments from the tag. May be empty.
//	basePaths - Configured base paths, precedence = order.
//	excluded - Lower-cased directory names without namespace meaning.
//
// Outputs:
//
//	[]MatchResult - All plausible matches in base-path order. Empty when
//	no strategy matched any base path; the caller then falls back to the
//	full namespace against every base path.
//
// Thread Safety: Safe for concurrent use (stateless function).
func MatchNamespace(segments []string, basePaths []string, excluded map[string]struct{}) []MatchResult {
	fullNS := strings.Join(segments, ":")

	var precise []MatchResult
	for _, bp := range basePaths {
		baseSegs := DeriveBaseNamespace(bp, excluded)
		baseNS := strings.Join(baseSegs, ":")

		switch {
		case baseNS == fullNS:
			// Exact match, covers the empty-namespace edge case too.
			precise = append(precise, MatchResult{BasePath: bp})

		case fullNS != "" && strings.HasPrefix(fullNS, baseNS+":") && baseNS != "":
			suffix := strings.TrimPrefix(fullNS, baseNS+":")
			precise = append(precise, MatchResult{
				BasePath:  bp,
				Remainder: strings.Split(suffix, ":"),
			})

		case fullNS != "" && (strings.HasPrefix(baseNS, fullNS+":") || strings.Contains(baseNS, fullNS)):
			// The directory tree is finer-grained than the namespace.
			precise = append(precise, MatchResult{BasePath: bp})
		}
	}
	if len(precise) > 0 {
		return precise
	}
	if len(segments) == 0 {
		return nil
	}

	var ordered []MatchResult
	for _, bp := range basePaths {
		baseSegs := DeriveBaseNamespace(bp, excluded)
		n := commonPrefixLen(segments, baseSegs)
		if n >= 1 {
			ordered = append(ordered, MatchResult{
				BasePath:  bp,
				Remainder: cloneSegments(segments[n:]),
			})
		}
	}
	if len(ordered) > 0 {
		return ordered
	}

	var unordered []MatchResult
	for _, bp := range basePaths {
		baseSegs := DeriveBaseNamespace(bp, excluded)
		present := make(map[string]struct{}, len(baseSegs))
		for _, seg := range baseSegs {
			present[seg] = struct{}{}
		}

		matched := 0
		var remainder []string
		for _, seg := range segments {
			if _, ok := present[seg]; ok {
				matched++
			} else {
				remainder = append(remainder, seg)
			}
		}
		if matched >= 1 {
			unordered = append(unordered, MatchResult{
				BasePath:  bp,
				Remainder: remainder,
			})
		}
	}
	return unordered
}

// commonPrefixLen counts how many leading segments two sequences share.
func commonPrefixLen(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func cloneSegments(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
