// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble merges per-page results into the final Markdown
// document: metadata header, cleaned page content in page order, and a
// generated table of contents.
package assemble

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// Merge concatenates the successful pages' cleaned text in ascending
// page order, separated by blank lines, under a metadata header. Failed
// pages are simply absent; surviving pages are never renumbered.
func Merge(results []types.PageResult, meta types.DocumentMetadata) string {
	ordered := make([]types.PageResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var pages []string
	for _, r := range ordered {
		if !r.OK {
			continue
		}
		if text := strings.TrimSpace(r.Cleaned); text != "" {
			pages = append(pages, text)
		}
	}

	return header(meta) + strings.Join(pages, "\n\n")
}

// header builds the metadata block. Missing fields are omitted, never
// filled with placeholders; an entirely empty metadata set produces no
// header at all.
func header(meta types.DocumentMetadata) string {
	var b strings.Builder
	if meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	}
	if meta.Author != "" {
		fmt.Fprintf(&b, "**Author**: %s\n\n", meta.Author)
	}
	if meta.Subject != "" {
		fmt.Fprintf(&b, "**Description**: %s\n\n", meta.Subject)
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteString("---\n\n")
	return b.String()
}

var (
	excessBlankLines = regexp.MustCompile(`\n{3,}`)

	// pageMarkerLine matches lines that are only "Page N" (any case) or a
	// bare integer — the usual survivors of page headers and footers.
	// Heuristic: a legitimate content line that happens to be a lone
	// number is removed too.
	pageMarkerLine = regexp.MustCompile(`(?mi)^[ \t]*page[ \t]+\d+[ \t]*$\n?`)
	bareNumberLine = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$\n?`)
)

// Clean collapses runs of three or more blank lines down to one blank
// separator and strips stray page-number lines.
func Clean(content string) string {
	content = pageMarkerLine.ReplaceAllString(content, "")
	content = bareNumberLine.ReplaceAllString(content, "")
	content = excessBlankLines.ReplaceAllString(content, "\n\n")
	return content
}
