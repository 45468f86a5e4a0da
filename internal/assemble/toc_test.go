// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"strings"
	"testing"
)

func TestAddTableOfContents(t *testing.T) {
	doc := "# Title\n\nIntro text.\n\n## A\n\nBody A.\n\n### B\n\nBody B.\n"
	got := AddTableOfContents(doc)

	for _, want := range []string{
		"- [Title](#title)",
		"  - [A](#a)",
		"    - [B](#b)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("TOC missing entry %q:\n%s", want, got)
		}
	}

	// The TOC sits immediately after the first heading line.
	idx := strings.Index(got, "## Table of Contents")
	firstHeadingEnd := strings.Index(got, "# Title") + len("# Title")
	if idx < 0 {
		t.Fatalf("no TOC block inserted:\n%s", got)
	}
	between := got[firstHeadingEnd:idx]
	if strings.TrimSpace(between) != "" {
		t.Errorf("TOC not directly after first heading, found %q between", between)
	}
}

func TestAddTableOfContentsNoHeadings(t *testing.T) {
	doc := "Just prose.\n\nNo headings anywhere.\n"
	if got := AddTableOfContents(doc); got != doc {
		t.Errorf("document without headings must be unchanged, got:\n%s", got)
	}
}

func TestAddTableOfContentsSkipsExistingTOCHeadings(t *testing.T) {
	doc := "# Manual\n\n## Table of Contents\n\nold toc\n\n## Contents\n\n## TOC\n\n## Pinout\n"
	got := AddTableOfContents(doc)

	if !strings.Contains(got, "- [Pinout](#pinout)") {
		t.Errorf("real heading missing from TOC:\n%s", got)
	}
	if strings.Contains(got, "- [Contents]") || strings.Contains(got, "- [TOC]") {
		t.Errorf("TOC-titled headings must be excluded:\n%s", got)
	}
}

func TestAnchorFor(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"Electrical Characteristics", "electrical-characteristics"},
		{"AC/DC Ratings (Max)", "acdc-ratings-max"},
		{"Pin 1 — VCC", "pin-1--vcc"},
		{"Überblick", "berblick"},
	}
	for _, tt := range tests {
		if got := anchorFor(tt.heading); got != tt.want {
			t.Errorf("anchorFor(%q) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

// Duplicate headings produce duplicate anchors; the ambiguity is
// deliberate and documented.
func TestAnchorCollisionsNotDisambiguated(t *testing.T) {
	doc := "# Doc\n\n## Timing\n\n## Timing\n"
	got := AddTableOfContents(doc)
	if n := strings.Count(got, "- [Timing](#timing)"); n != 2 {
		t.Errorf("expected 2 identical anchor entries, got %d:\n%s", n, got)
	}
}
