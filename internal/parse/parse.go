// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse drives the per-page pipeline: for each rasterized page,
// in ascending page order, it shrinks the image to the payload budget,
// builds the instruction, calls the extraction client with the current
// context window, and persists the page artifact. A page failure is
// recorded and skipped; it never aborts the run or touches other pages.
package parse

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/datasheet-parser/internal/imaging"
	"github.com/pdiddy/datasheet-parser/internal/prompt"
	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// PageProcessor abstracts the extraction client so tests can supply a
// mock.
type PageProcessor interface {
	ProcessPage(ctx context.Context, imagePath, instruction, system, prior string) (string, error)
}

// debugPause is the delay between page requests in debug mode. Tests
// override this to avoid real sleeps.
var debugPause = 3 * time.Second

// Runner processes a run's pages sequentially. One request is in flight
// at a time; the window, loop state, and output files are owned by the
// calling goroutine for the whole run.
type Runner struct {
	Client PageProcessor
	Config types.RunConfig

	// TotalPages is the source document's page count, quoted in each
	// instruction so the model knows where the page sits.
	TotalPages int

	// Out receives per-page progress lines and the closing summary.
	Out io.Writer
}

// Run processes pages in ascending page order and returns the summary.
// The returned error covers only fatal setup problems (output directory
// creation); per-page failures live inside the summary.
func (r *Runner) Run(ctx context.Context, pages []types.PageImage) (types.RunSummary, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	summary := types.RunSummary{
		Document: r.Config.DocumentPath,
		Model:    r.Config.Model,
		Mode:     r.Config.Mode,
	}

	if err := os.MkdirAll(r.Config.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating output directory: %w", err)
	}

	window := NewContextWindow(r.Config.ContextWindow)
	base := OutputBase(r.Config)

	for i, page := range pages {
		result := r.processPage(ctx, page, base, window)

		if result.OK {
			fmt.Fprintf(out, "page %03d: ok (%d bytes)\n", page.Index, result.Bytes)
			summary.Succeeded++
		} else {
			fmt.Fprintf(out, "page %03d: failed (%s)\n", page.Index, result.Error)
			summary.Failed++
		}
		summary.Pages = append(summary.Pages, result)

		if r.Config.Debug && i < len(pages)-1 {
			time.Sleep(debugPause)
		}
	}

	fmt.Fprintf(out, "\nProcessed %d/%d pages\n", summary.Succeeded, summary.Total())
	return summary, nil
}

// processPage runs one page through the pipeline steps. Every failure
// path returns a failed PageResult rather than an error; the window is
// only advanced on success.
func (r *Runner) processPage(ctx context.Context, page types.PageImage, base string, window *ContextWindow) types.PageResult {
	result := types.PageResult{Index: page.Index}

	// Best-effort shrink; an unreadable image will fail the request
	// anyway, so a resize error is not terminal for the page.
	if _, err := imaging.ShrinkToBudget(page.Path, imaging.DefaultBudget); err != nil {
		fmt.Fprintf(os.Stderr, "warning: page %d: %v\n", page.Index, err)
	}

	system, instruction, err := prompt.Build(page.Index, r.TotalPages, r.Config.Mode, r.Config.TargetLanguage)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	cleaned, err := r.Client.ProcessPage(ctx, page.Path, instruction, system, window.Render())
	if err != nil {
		result.Error = err.Error()
		return result
	}

	artifact := filepath.Join(r.Config.OutputDir, fmt.Sprintf("%s_page_%03d.md", base, page.Index))
	if err := os.WriteFile(artifact, []byte(cleaned), 0o644); err != nil {
		result.Error = fmt.Sprintf("writing artifact: %v", err)
		return result
	}

	window.Push(cleaned)

	result.Cleaned = cleaned
	result.ArtifactPath = artifact
	result.Bytes = len(cleaned)
	result.OK = true
	return result
}
