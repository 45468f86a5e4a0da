// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "strings"

// ContextWindow holds the cleaned output of the most recently processed
// pages, oldest first, to bias the next page's extraction. A size of
// zero makes the window inert: Push does nothing and Render is always
// empty, so a disabled window never changes request shape or cost.
type ContextWindow struct {
	size    int
	entries []string
}

// NewContextWindow returns a window holding at most size entries.
func NewContextWindow(size int) *ContextWindow {
	if size < 0 {
		size = 0
	}
	return &ContextWindow{size: size}
}

// Push appends the newest page output, evicting the oldest entry when
// the window is at capacity.
func (w *ContextWindow) Push(text string) {
	if w.size == 0 {
		return
	}
	w.entries = append(w.entries, text)
	if len(w.entries) > w.size {
		w.entries = w.entries[1:]
	}
}

// Render joins the held entries, oldest first, separated by one blank
// line. An empty window renders to the empty string.
func (w *ContextWindow) Render() string {
	return strings.Join(w.entries, "\n\n")
}

// Len returns the number of entries currently held.
func (w *ContextWindow) Len() int {
	return len(w.entries)
}
