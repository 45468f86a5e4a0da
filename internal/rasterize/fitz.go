// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

const defaultQuality = 85

// FitzRasterizer renders pages with the embedded MuPDF engine. It is the
// default backend and needs no external toolchain.
type FitzRasterizer struct {
	// ScratchDir receives the page images. When empty a fresh temp
	// directory is created; it lives for the whole run.
	ScratchDir string

	// Quality is the JPEG quality (default 85).
	Quality int
}

// Rasterize renders pages start..end (clamped to the document) as
// page_NNN.jpg files named by absolute page number.
func (r *FitzRasterizer) Rasterize(path string, start, end int) ([]types.PageImage, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("document %s has no pages", path)
	}
	start, end = ClampRange(start, end, doc.NumPage())

	dir, err := r.scratchDir()
	if err != nil {
		return nil, err
	}

	quality := r.Quality
	if quality <= 0 {
		quality = defaultQuality
	}

	pages := make([]types.PageImage, 0, end-start+1)
	for p := start; p <= end; p++ {
		img, err := doc.Image(p - 1)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", p, err)
		}

		outPath := filepath.Join(dir, fmt.Sprintf("page_%03d.jpg", p))
		out, err := os.Create(outPath)
		if err != nil {
			return nil, fmt.Errorf("creating image for page %d: %w", p, err)
		}
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: quality})
		out.Close()
		if err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", p, err)
		}

		info, err := os.Stat(outPath)
		if err != nil {
			return nil, fmt.Errorf("stat image for page %d: %w", p, err)
		}

		pages = append(pages, types.PageImage{Index: p, Path: outPath, Size: info.Size()})
	}

	return pages, nil
}

func (r *FitzRasterizer) scratchDir() (string, error) {
	if r.ScratchDir != "" {
		if err := os.MkdirAll(r.ScratchDir, 0o755); err != nil {
			return "", fmt.Errorf("creating scratch directory: %w", err)
		}
		return r.ScratchDir, nil
	}
	dir, err := os.MkdirTemp("", "datasheet-parser-*")
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	r.ScratchDir = dir
	return dir, nil
}
