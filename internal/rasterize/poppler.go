// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rasterize

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// PopplerRasterizer renders pages by shelling out to pdftoppm. Selected
// with --poppler-path; useful when poppler's rendering is preferred over
// the embedded engine for a particular document.
type PopplerRasterizer struct {
	// Path is the directory containing the poppler binaries. Empty means
	// look up pdftoppm on PATH.
	Path string

	// ScratchDir receives the page images; created fresh when empty.
	ScratchDir string

	// DPI is the render resolution (default 150).
	DPI int
}

// Rasterize renders pages start..end via pdftoppm. Page identity comes
// from the page numbers pdftoppm embeds in output filenames, which are
// absolute document page numbers for the requested range.
func (r *PopplerRasterizer) Rasterize(path string, start, end int) ([]types.PageImage, error) {
	bin, err := r.locate()
	if err != nil {
		return nil, err
	}

	// Page count still comes from the embedded engine; poppler is only
	// trusted with rendering.
	meta, err := ReadMetadata(path)
	if err != nil {
		return nil, err
	}
	if meta.PageCount == 0 {
		return nil, fmt.Errorf("document %s has no pages", path)
	}
	start, end = ClampRange(start, end, meta.PageCount)

	dir := r.ScratchDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "datasheet-parser-*")
		if err != nil {
			return nil, fmt.Errorf("creating scratch directory: %w", err)
		}
		r.ScratchDir = dir
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	dpi := r.DPI
	if dpi <= 0 {
		dpi = 150
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.Command(bin,
		"-jpeg",
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(start),
		"-l", strconv.Itoa(end),
		path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return collectPages(dir)
}

// locate finds the pdftoppm binary, either inside the configured poppler
// directory or on PATH.
func (r *PopplerRasterizer) locate() (string, error) {
	if r.Path != "" {
		bin := filepath.Join(r.Path, "pdftoppm")
		if _, err := os.Stat(bin); err != nil {
			return "", &ToolchainMissingError{Tool: bin, Err: err}
		}
		return bin, nil
	}
	bin, err := exec.LookPath("pdftoppm")
	if err != nil {
		return "", &ToolchainMissingError{Tool: "pdftoppm", Err: err}
	}
	return bin, nil
}

// collectPages gathers pdftoppm's page-NN.jpg outputs, parsing the page
// number from each filename, and returns them in ascending page order.
func collectPages(dir string) ([]types.PageImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scratch directory: %w", err)
	}

	var pages []types.PageImage
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jpg") {
			continue
		}
		num, ok := pageNumber(name)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		pages = append(pages, types.PageImage{
			Index: num,
			Path:  filepath.Join(dir, name),
			Size:  info.Size(),
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images in %s", dir)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })
	return pages, nil
}

// pageNumber extracts the page number from a pdftoppm output name like
// "page-07.jpg".
func pageNumber(name string) (int, bool) {
	stem := strings.TrimSuffix(name, ".jpg")
	i := strings.LastIndexByte(stem, '-')
	if i < 0 {
		return 0, false
	}
	num, err := strconv.Atoi(stem[i+1:])
	if err != nil || num < 1 {
		return 0, false
	}
	return num, true
}
