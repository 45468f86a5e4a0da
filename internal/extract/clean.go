// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

var (
	// scratchBlock matches a delimited reasoning block, non-greedily and
	// across newlines, so only the block itself is removed.
	scratchBlock = regexp.MustCompile(`(?s)<thinking>.*?</thinking>`)

	// excessBlankLines matches runs of three or more newlines.
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanResponse strips the model's scratch reasoning block, collapses
// runs of blank lines down to a single blank separator, and trims outer
// whitespace. Applied to every response, whether or not the model was
// asked to use a scratch block.
func CleanResponse(s string) string {
	s = scratchBlock.ReplaceAllString(s, "")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
