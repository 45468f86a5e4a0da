// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize turns a PDF's pages into image files with pluggable
// backends. The built-in renderer needs no external tooling; the poppler
// backend shells out to pdftoppm for cases where its output is preferred.
package rasterize

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// Rasterizer renders an ordered, ascending range of document pages to
// image files. The returned PageImages carry the 1-based page index in
// the source document, which is the canonical page identity for all
// downstream artifacts.
type Rasterizer interface {
	Rasterize(path string, start, end int) ([]types.PageImage, error)
}

// ToolchainMissingError reports that an external rasterization dependency
// could not be located. It is fatal and carries remediation guidance.
type ToolchainMissingError struct {
	Tool string
	Err  error
}

func (e *ToolchainMissingError) Error() string {
	return fmt.Sprintf("%s not found: %v\n"+
		"Install poppler-utils (Debian/Ubuntu: apt install poppler-utils, macOS: brew install poppler)\n"+
		"or point --poppler-path at the directory containing the poppler binaries,\n"+
		"or omit --poppler-path to use the built-in renderer.", e.Tool, e.Err)
}

func (e *ToolchainMissingError) Unwrap() error { return e.Err }

// ClampRange resolves a requested 1-based inclusive page range against the
// document's page count. Zero bounds mean "unbounded on that side". The
// caller has already rejected end < start as a configuration error.
func ClampRange(start, end, pageCount int) (int, int) {
	if start < 1 {
		start = 1
	}
	if end < 1 || end > pageCount {
		end = pageCount
	}
	if start > pageCount {
		start = pageCount
	}
	return start, end
}

// ReadMetadata reads the document's descriptive fields and page count.
// Absent fields come back empty.
func ReadMetadata(path string) (types.DocumentMetadata, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return types.DocumentMetadata{}, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer doc.Close()

	m := doc.Metadata()
	return types.DocumentMetadata{
		Title:     m["title"],
		Author:    m["author"],
		Subject:   m["subject"],
		Creator:   m["creator"],
		Producer:  m["producer"],
		PageCount: doc.NumPage(),
	}, nil
}
