// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"regexp"
	"strings"
	"sync"
)

// Edit is one replacement in a document, as byte offsets into the
// original text.
type Edit struct {
	// Start is the byte offset of the first replaced byte.
	Start int `json:"start"`

	// End is the byte offset one past the last replaced byte.
	End int `json:"end"`

	// NewText replaces the span [Start, End).
	NewText string `json:"new_text"`
}

var (
	docPatternMu sync.Mutex
	docPatterns  = make(map[string]*regexp.Regexp)
)

// docTagPattern matches every opening tag for a prefix, including
// multi-line tags, e.g. every "<twig:...>" span for prefix "twig".
func docTagPattern(prefix string) *regexp.Regexp {
	docPatternMu.Lock()
	defer docPatternMu.Unlock()
	if re, ok := docPatterns[prefix]; ok {
		return re
	}
	re := regexp.MustCompile(`(?s)<` + regexp.QuoteMeta(prefix) + `:[\w:.-]*(?:\s+[^\s=/>]+(?:=(?:"[^"]*"|'[^']*'|\{[^}]*\}))?)*\s*/?>`)
	docPatterns[prefix] = re
	return re
}

// FormatDocument reformats every component tag in a document.
//
// Description:
//
//	Finds each opening tag carrying the prefix and reformats it with
//	FormatTag, using the indentation of the line the tag starts on.
//	Tags that fail to parse or already match their formatted shape
//	produce no edit.
//
// Inputs:
//
//	text - The document text. May be empty.
//	tagPrefix - The component tag prefix without the colon, e.g. "twig".
//	opts - Layout thresholds. A zero value selects DefaultOptions.
//
// Outputs:
//
//	[]Edit - Non-overlapping edits in ascending Start order. Empty when
//	the document is already formatted.
func FormatDocument(text, tagPrefix string, opts Options) []Edit {
	if text == "" || tagPrefix == "" {
		return nil
	}

	var edits []Edit
	for _, span := range docTagPattern(tagPrefix).FindAllStringIndex(text, -1) {
		raw := text[span[0]:span[1]]
		formatted, err := FormatTag(raw, lineIndent(text, span[0]), opts)
		if err != nil || formatted == raw {
			continue
		}
		edits = append(edits, Edit{Start: span[0], End: span[1], NewText: formatted})
	}
	return edits
}

// ApplyEdits applies non-overlapping ascending edits to a document.
func ApplyEdits(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, e := range edits {
		b.WriteString(text[prev:e.Start])
		b.WriteString(e.NewText)
		prev = e.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// lineIndent returns the leading whitespace of the line containing
// byte offset pos.
func lineIndent(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}
