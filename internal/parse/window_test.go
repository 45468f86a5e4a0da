// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "testing"

func TestContextWindowBound(t *testing.T) {
	w := NewContextWindow(2)
	w.Push("page one")
	w.Push("page two")
	w.Push("page three")

	if got := w.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	want := "page two\n\npage three"
	if got := w.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestContextWindowEvictsOldestFirst(t *testing.T) {
	w := NewContextWindow(3)
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		w.Push(text)
	}
	if got, want := w.Render(), "c\n\nd\n\ne"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestContextWindowEmpty(t *testing.T) {
	w := NewContextWindow(4)
	if got := w.Render(); got != "" {
		t.Errorf("Render() on empty window = %q, want empty", got)
	}
}

func TestContextWindowDisabled(t *testing.T) {
	w := NewContextWindow(0)
	w.Push("anything")
	w.Push("more")

	if got := w.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0 for disabled window", got)
	}
	if got := w.Render(); got != "" {
		t.Errorf("Render() = %q, want empty for disabled window", got)
	}
}

func TestContextWindowNegativeSizeIsDisabled(t *testing.T) {
	w := NewContextWindow(-1)
	w.Push("x")
	if got := w.Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}
