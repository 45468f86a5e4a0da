// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"errors"
	"strings"
	"testing"
)

func TestClampRange(t *testing.T) {
	tests := []struct {
		name               string
		start, end, count  int
		wantStart, wantEnd int
	}{
		{name: "unset bounds cover whole document", start: 0, end: 0, count: 10, wantStart: 1, wantEnd: 10},
		{name: "explicit range kept", start: 2, end: 5, count: 10, wantStart: 2, wantEnd: 5},
		{name: "end clamped to page count", start: 3, end: 99, count: 10, wantStart: 3, wantEnd: 10},
		{name: "start below one clamped up", start: 0, end: 4, count: 10, wantStart: 1, wantEnd: 4},
		{name: "start beyond document clamped to last page", start: 50, end: 0, count: 10, wantStart: 10, wantEnd: 10},
		{name: "single page document", start: 0, end: 0, count: 1, wantStart: 1, wantEnd: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := ClampRange(tt.start, tt.end, tt.count)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("ClampRange(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.start, tt.end, tt.count, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPopplerLocateMissingToolchain(t *testing.T) {
	// A poppler directory without pdftoppm must produce the typed error
	// with remediation guidance, before any rendering is attempted.
	r := &PopplerRasterizer{Path: t.TempDir()}

	_, err := r.locate()
	if err == nil {
		t.Fatal("expected error for missing pdftoppm")
	}

	var missing *ToolchainMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %T, want *ToolchainMissingError", err)
	}
	if !strings.Contains(err.Error(), "poppler") {
		t.Errorf("remediation text missing from error: %v", err)
	}
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		want   int
		wantOK bool
	}{
		{name: "two digit page", file: "page-07.jpg", want: 7, wantOK: true},
		{name: "three digit page", file: "page-123.jpg", want: 123, wantOK: true},
		{name: "no separator", file: "page.jpg", wantOK: false},
		{name: "non-numeric suffix", file: "page-ab.jpg", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pageNumber(tt.file)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("pageNumber(%q) = (%d, %v), want (%d, %v)", tt.file, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
