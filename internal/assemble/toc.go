// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"regexp"
	"strings"
)

// headingLine matches a Markdown heading: one to six hash marks, a
// space, then the heading text.
var headingLine = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)

// nonAnchorChars matches everything an anchor slug drops.
var nonAnchorChars = regexp.MustCompile(`[^a-z0-9-]`)

// AddTableOfContents inserts a generated table of contents immediately
// after the first heading in the document. Each heading becomes one flat
// bullet, indented two spaces per level beyond the first, linking to the
// heading's anchor. Headings titled "Table of Contents", "Contents", or
// "TOC" are excluded. A document with no headings is returned unchanged.
func AddTableOfContents(content string) string {
	headings := headingLine.FindAllStringSubmatch(content, -1)
	if len(headings) == 0 {
		return content
	}

	var toc strings.Builder
	toc.WriteString("## Table of Contents\n\n")
	for _, h := range headings {
		text := strings.TrimSpace(h[2])
		switch strings.ToLower(text) {
		case "table of contents", "contents", "toc":
			continue
		}
		level := len(h[1])
		indent := strings.Repeat(" ", 2*(level-1))
		fmt.Fprintf(&toc, "%s- [%s](#%s)\n", indent, text, anchorFor(text))
	}

	first := headingLine.FindStringIndex(content)
	return content[:first[1]] + "\n\n" + toc.String() + "\n" + content[first[1]:]
}

// anchorFor derives a link anchor from heading text: lowercased, spaces
// to hyphens, everything outside [a-z0-9-] dropped. Identical headings
// yield identical anchors; duplicates are deliberately not
// disambiguated.
func anchorFor(text string) string {
	a := strings.ToLower(text)
	a = strings.ReplaceAll(a, " ", "-")
	return nonAnchorChars.ReplaceAllString(a, "")
}
