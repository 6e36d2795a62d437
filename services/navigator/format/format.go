// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package format reformats component tag attributes.
//
// Tags stay on a single line while they are short; once a tag carries
// more attributes than AttributeThreshold or exceeds LineLengthThreshold
// characters, each attribute moves to its own indented line. The package
// is pure text in, text out; it never touches the filesystem.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// Options control tag layout.
type Options struct {
	// AttributeThreshold is the maximum attribute count kept on a
	// single line. Tags with more attributes break one per line.
	AttributeThreshold int

	// LineLengthThreshold is the maximum single-line tag width in
	// characters. Longer tags break one attribute per line.
	LineLengthThreshold int

	// Indent is the per-level indent string for broken attributes.
	Indent string
}

// DefaultOptions returns the layout thresholds used when callers pass
// a zero Options value.
func DefaultOptions() Options {
	return Options{
		AttributeThreshold:  3,
		LineLengthThreshold: 100,
		Indent:              "    ",
	}
}

// Tag is a parsed component tag.
type Tag struct {
	// Name is the tag name including its prefix, e.g. "twig:Cards:Stat".
	Name string

	// Attributes are the tag's attributes in source order.
	Attributes []Attribute

	// SelfClosing reports whether the tag ends with "/>".
	SelfClosing bool
}

// Attribute is one name/value pair on a tag.
type Attribute struct {
	// Name is the attribute name, possibly with a ":" binding prefix.
	Name string

	// Value is the raw attribute value including quotes, or "" for
	// bare boolean attributes.
	Value string
}

// tagPattern matches an opening component tag and captures its name and
// attribute text. Attribute values may contain ">" inside quotes, so the
// body is matched lazily up to the closing bracket.
var tagPattern = regexp.MustCompile(`(?s)^<([A-Za-z_][\w:.-]*)((?:\s+[^\s=/>]+(?:=(?:"[^"]*"|'[^']*'|\{[^}]*\}))?)*)\s*(/?)>$`)

// attrPattern splits the attribute body into name/value pairs.
var attrPattern = regexp.MustCompile(`([^\s=/>]+)(?:=("[^"]*"|'[^']*'|\{[^}]*\}))?`)

// ParseTag parses a single opening tag.
//
// Inputs:
//
//	raw - The tag text from "<" through ">", possibly spanning lines.
//
// Outputs:
//
//	*Tag - The parsed tag.
//	error - Non-nil if raw is not a well-formed opening tag.
func ParseTag(raw string) (*Tag, error) {
	trimmed := strings.TrimSpace(raw)
	m := tagPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, fmt.Errorf("not a well-formed opening tag: %q", truncate(trimmed, 60))
	}

	tag := &Tag{
		Name:        m[1],
		SelfClosing: m[3] == "/",
	}
	for _, am := range attrPattern.FindAllStringSubmatch(m[2], -1) {
		tag.Attributes = append(tag.Attributes, Attribute{Name: am[1], Value: am[2]})
	}
	return tag, nil
}

// FormatTag reformats a component tag per the layout thresholds.
//
// Description:
//
//	Parses the tag, renders it single-line, and keeps that rendering
//	when it fits within both thresholds. Otherwise each attribute moves
//	to its own line indented one level past baseIndent, with the closing
//	bracket on its own line at baseIndent. Attribute order and values
//	are preserved byte for byte.
//
// Inputs:
//
//	raw - The tag text from "<" through ">".
//	baseIndent - The indentation of the line the tag starts on.
//	opts - Layout thresholds. A zero value selects DefaultOptions.
//
// Outputs:
//
//	string - The reformatted tag, without a trailing newline.
//	error - Non-nil if raw cannot be parsed.
func FormatTag(raw, baseIndent string, opts Options) (string, error) {
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	if opts.Indent == "" {
		opts.Indent = DefaultOptions().Indent
	}

	tag, err := ParseTag(raw)
	if err != nil {
		return "", err
	}

	single := renderSingleLine(tag)
	if len(tag.Attributes) <= opts.AttributeThreshold &&
		len(baseIndent)+len(single) <= opts.LineLengthThreshold {
		return single, nil
	}
	return renderMultiLine(tag, baseIndent, opts.Indent), nil
}

func renderSingleLine(tag *Tag) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag.Name)
	for _, a := range tag.Attributes {
		b.WriteString(" ")
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString("=")
			b.WriteString(a.Value)
		}
	}
	if tag.SelfClosing {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

func renderMultiLine(tag *Tag, baseIndent, indent string) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag.Name)
	for _, a := range tag.Attributes {
		b.WriteString("\n")
		b.WriteString(baseIndent)
		b.WriteString(indent)
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString("=")
			b.WriteString(a.Value)
		}
	}
	b.WriteString("\n")
	b.WriteString(baseIndent)
	if tag.SelfClosing {
		b.WriteString("/>")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
