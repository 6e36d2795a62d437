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
	"strings"
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantName    string
		wantAttrs   int
		selfClosing bool
		wantErr     bool
	}{
		{
			name:        "self closing with attributes",
			raw:         `<twig:Cards:Stat label="Users" value="42" />`,
			wantName:    "twig:Cards:Stat",
			wantAttrs:   2,
			selfClosing: true,
		},
		{
			name:      "open tag no attributes",
			raw:       `<twig:Button>`,
			wantName:  "twig:Button",
			wantAttrs: 0,
		},
		{
			name:        "bare boolean attribute",
			raw:         `<twig:Button disabled />`,
			wantName:    "twig:Button",
			wantAttrs:   1,
			selfClosing: true,
		},
		{
			name:        "bound expression attribute",
			raw:         `<twig:Chart :data={series} />`,
			wantName:    "twig:Chart",
			wantAttrs:   1,
			selfClosing: true,
		},
		{
			name:        "multi line input",
			raw:         "<twig:Cards:Stat\n    label=\"Users\"\n/>",
			wantName:    "twig:Cards:Stat",
			wantAttrs:   1,
			selfClosing: true,
		},
		{name: "not a tag", raw: `plain text`, wantErr: true},
		{name: "closing tag", raw: `</twig:Button>`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := ParseTag(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag failed: %v", err)
			}
			if tag.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", tag.Name, tt.wantName)
			}
			if len(tag.Attributes) != tt.wantAttrs {
				t.Errorf("attributes = %d, want %d", len(tag.Attributes), tt.wantAttrs)
			}
			if tag.SelfClosing != tt.selfClosing {
				t.Errorf("SelfClosing = %v, want %v", tag.SelfClosing, tt.selfClosing)
			}
		})
	}
}

func TestFormatTag_ShortTagStaysSingleLine(t *testing.T) {
	raw := `<twig:Cards:Stat label="Users" value="42" />`
	got, err := FormatTag(raw, "", Options{})
	if err != nil {
		t.Fatalf("FormatTag failed: %v", err)
	}
	if got != raw {
		t.Errorf("got %q, want unchanged %q", got, raw)
	}
}

func TestFormatTag_AttributeCountBreaks(t *testing.T) {
	raw := `<twig:Cards:Stat label="Users" value="42" trend="up" color="green" />`
	got, err := FormatTag(raw, "", Options{})
	if err != nil {
		t.Fatalf("FormatTag failed: %v", err)
	}
	want := "<twig:Cards:Stat\n" +
		"    label=\"Users\"\n" +
		"    value=\"42\"\n" +
		"    trend=\"up\"\n" +
		"    color=\"green\"\n" +
		"/>"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTag_LineLengthBreaks(t *testing.T) {
	long := strings.Repeat("x", 120)
	raw := `<twig:Button label="` + long + `" />`
	got, err := FormatTag(raw, "", Options{})
	if err != nil {
		t.Fatalf("FormatTag failed: %v", err)
	}
	if !strings.Contains(got, "\n") {
		t.Error("over-length tag should break across lines")
	}
}

func TestFormatTag_BaseIndentCarries(t *testing.T) {
	raw := `<twig:Cards:Stat a="1" b="2" c="3" d="4">`
	got, err := FormatTag(raw, "        ", Options{})
	if err != nil {
		t.Fatalf("FormatTag failed: %v", err)
	}
	want := "<twig:Cards:Stat\n" +
		"            a=\"1\"\n" +
		"            b=\"2\"\n" +
		"            c=\"3\"\n" +
		"            d=\"4\"\n" +
		"        >"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTag_CollapsesMultiLineBackUnderThreshold(t *testing.T) {
	raw := "<twig:Button\n    label=\"Go\"\n/>"
	got, err := FormatTag(raw, "", Options{})
	if err != nil {
		t.Fatalf("FormatTag failed: %v", err)
	}
	if got != `<twig:Button label="Go" />` {
		t.Errorf("got %q", got)
	}
}

func TestFormatTag_PreservesValuesAndOrder(t *testing.T) {
	raw := `<twig:Chart title='A > B' :data={series} legend a="x:y=z" />`
	got, err := FormatTag(raw, "", Options{AttributeThreshold: 10, LineLengthThreshold: 200, Indent: "  "})
	if err != nil {
		t.Fatalf("FormatTag failed: %v", err)
	}
	if got != raw {
		t.Errorf("got %q, want unchanged %q", got, raw)
	}
}

func TestFormatDocument(t *testing.T) {
	doc := "<div>\n" +
		"  <twig:Cards:Stat label=\"Users\" value=\"42\" trend=\"up\" color=\"green\" />\n" +
		"  <twig:Button label=\"Go\" />\n" +
		"</div>\n"
	edits := FormatDocument(doc, "twig", Options{})
	if len(edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(edits))
	}

	got := ApplyEdits(doc, edits)
	want := "<div>\n" +
		"  <twig:Cards:Stat\n" +
		"      label=\"Users\"\n" +
		"      value=\"42\"\n" +
		"      trend=\"up\"\n" +
		"      color=\"green\"\n" +
		"  />\n" +
		"  <twig:Button label=\"Go\" />\n" +
		"</div>\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatDocument_IgnoresOtherPrefixes(t *testing.T) {
	doc := `<other:Cards:Stat a="1" b="2" c="3" d="4" />`
	if edits := FormatDocument(doc, "twig", Options{}); len(edits) != 0 {
		t.Errorf("edits = %d, want 0", len(edits))
	}
}

func TestFormatDocument_AlreadyFormatted(t *testing.T) {
	doc := `<twig:Button label="Go" />`
	if edits := FormatDocument(doc, "twig", Options{}); len(edits) != 0 {
		t.Errorf("edits = %d, want 0", len(edits))
	}
}

func TestFormatDocument_Empty(t *testing.T) {
	if edits := FormatDocument("", "twig", Options{}); edits != nil {
		t.Errorf("edits = %v, want nil", edits)
	}
	if edits := FormatDocument("<twig:X />", "", Options{}); edits != nil {
		t.Errorf("edits = %v, want nil", edits)
	}
}
