// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// OutputBase returns the stem shared by all artifacts of a run: the
// source document's base name, with the lowercased target language
// appended when translating.
func OutputBase(cfg types.RunConfig) string {
	name := filepath.Base(cfg.DocumentPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if cfg.Mode == types.ModeTranslate && cfg.TargetLanguage != "" {
		base += "_" + strings.ToLower(cfg.TargetLanguage)
	}
	return base
}

// MergedFileName returns the name of the final merged document. An
// explicitly requested page range is reflected in the name so partial
// runs never clobber a full-document result.
func MergedFileName(cfg types.RunConfig) string {
	base := OutputBase(cfg)
	if cfg.StartPage > 0 || cfg.EndPage > 0 {
		base += fmt.Sprintf("_p%d-%d", cfg.StartPage, cfg.EndPage)
	}
	return base + "_full.md"
}
