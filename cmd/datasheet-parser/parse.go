// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/datasheet-parser/internal/assemble"
	"github.com/pdiddy/datasheet-parser/internal/extract"
	"github.com/pdiddy/datasheet-parser/internal/ledger"
	"github.com/pdiddy/datasheet-parser/internal/parse"
	"github.com/pdiddy/datasheet-parser/internal/rasterize"
	"github.com/pdiddy/datasheet-parser/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse <document.pdf>",
	Short: "Process a PDF datasheet into one structured Markdown document",
	Long: `Parse rasterizes each page of the document, sends it to the configured
multimodal inference endpoint, writes a Markdown artifact per page, and
merges the successful pages into a single cleaned document with a
metadata header and a table of contents.

A completed run exits 0 even when some pages failed; the per-page
outcomes are printed, saved in a YAML summary sidecar, and recorded in
the run ledger (see "datasheet-parser runs").`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringP("output", "o", "", "directory for results (default \"output\")")
	parseCmd.Flags().StringP("model", "m", "", "model identifier (default from config or \"gpt-4o\")")
	parseCmd.Flags().IntP("context-window", "c", 2, "number of previous pages sent as context (0 disables)")
	parseCmd.Flags().Int("max-tokens", 4096, "maximum tokens for each page response")
	parseCmd.Flags().StringP("temp-dir", "t", "", "directory for rasterized page images (default: fresh temp dir)")
	parseCmd.Flags().StringP("poppler-path", "p", "", "directory with poppler binaries; selects the pdftoppm backend")
	parseCmd.Flags().Int("start-page", 0, "first page to process (1-based, clamped to the document)")
	parseCmd.Flags().Int("end-page", 0, "last page to process (1-based, clamped to the document)")
	parseCmd.Flags().Bool("translate", false, "translate each page instead of extracting verbatim")
	parseCmd.Flags().String("language", "", "target language for --translate (e.g. \"German\")")
	parseCmd.Flags().Bool("debug", false, "pause between page requests")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := buildRunConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.DocumentPath); err != nil {
		return fmt.Errorf("document not found: %s", cfg.DocumentPath)
	}

	meta, err := rasterize.ReadMetadata(cfg.DocumentPath)
	if err != nil {
		return err
	}
	title := meta.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("Document: %s, %d pages\n", title, meta.PageCount)

	// Resolve the requested range against the real page count so
	// artifact names and the ledger carry the pages actually processed.
	if cfg.StartPage > 0 || cfg.EndPage > 0 {
		cfg.StartPage, cfg.EndPage = rasterize.ClampRange(cfg.StartPage, cfg.EndPage, meta.PageCount)
	}

	var rasterizer rasterize.Rasterizer
	if cfg.PopplerPath != "" {
		rasterizer = &rasterize.PopplerRasterizer{Path: cfg.PopplerPath, ScratchDir: cfg.TempDir}
	} else {
		rasterizer = &rasterize.FitzRasterizer{ScratchDir: cfg.TempDir}
	}

	pages, err := rasterizer.Rasterize(cfg.DocumentPath, cfg.StartPage, cfg.EndPage)
	if err != nil {
		return err
	}
	fmt.Printf("Rasterized %d pages\n", len(pages))

	startedAt := time.Now()
	runner := &parse.Runner{
		Client:     extract.NewClient(cfg.ClientConfig, nil),
		Config:     cfg,
		TotalPages: meta.PageCount,
		Out:        os.Stdout,
	}
	summary, err := runner.Run(context.Background(), pages)
	if err != nil {
		return err
	}

	merged := assemble.Merge(summary.Pages, meta)
	final := assemble.AddTableOfContents(assemble.Clean(merged))

	mergedPath := filepath.Join(cfg.OutputDir, parse.MergedFileName(cfg))
	if err := os.WriteFile(mergedPath, []byte(final), 0o644); err != nil {
		return fmt.Errorf("writing merged document: %w", err)
	}

	summaryPath := strings.TrimSuffix(mergedPath, ".md") + "_summary.yaml"
	if err := parse.WriteSummary(summaryPath, summary); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write summary: %v\n", err)
	}

	recordRun(cfg, startedAt, summary)

	fmt.Printf("Saved %s (%d/%d pages succeeded)\n", mergedPath, summary.Succeeded, summary.Total())
	return nil
}

// recordRun stores the run in the ledger. Ledger problems are warnings;
// they never fail a run that produced a document.
func recordRun(cfg types.RunConfig, startedAt time.Time, summary types.RunSummary) {
	store, err := ledger.Open(cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open run ledger: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(context.Background(), cfg, startedAt, summary); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}

// buildRunConfig assembles the run configuration from flags, the viper
// config file, environment, and secrets. Flags win.
func buildRunConfig(cmd *cobra.Command, documentPath string) (types.RunConfig, error) {
	flags := cmd.Flags()

	output, _ := flags.GetString("output")
	if output == "" {
		output = viper.GetString("output_dir")
	}

	model, _ := flags.GetString("model")
	if model == "" {
		model = secretDefault("default-model", "")
	}
	if model == "" {
		model = viper.GetString("model")
	}

	apiURL := firstNonEmpty(
		os.Getenv("OPENAI_API_URL"),
		loadedSecrets["openai-api-url"],
		viper.GetString("api_url"),
	)
	apiKey := firstNonEmpty(
		os.Getenv("OPENAI_API_KEY"),
		loadedSecrets["openai-api-key"],
		viper.GetString("api_key"),
	)
	if apiKey == "" {
		return types.RunConfig{}, fmt.Errorf("no API key configured: set OPENAI_API_KEY, .secrets/openai-api-key, or api_key in the config file")
	}

	contextWindow, _ := flags.GetInt("context-window")
	maxTokens, _ := flags.GetInt("max-tokens")
	tempDir, _ := flags.GetString("temp-dir")
	popplerPath, _ := flags.GetString("poppler-path")
	startPage, _ := flags.GetInt("start-page")
	endPage, _ := flags.GetInt("end-page")
	translate, _ := flags.GetBool("translate")
	language, _ := flags.GetString("language")
	debug, _ := flags.GetBool("debug")

	mode := types.ModeExtract
	if translate {
		mode = types.ModeTranslate
	}

	return types.RunConfig{
		ClientConfig: types.ClientConfig{
			APIURL:    apiURL,
			APIKey:    apiKey,
			Model:     model,
			MaxTokens: maxTokens,
		},
		DocumentPath:   documentPath,
		OutputDir:      output,
		TempDir:        tempDir,
		Mode:           mode,
		TargetLanguage: language,
		StartPage:      startPage,
		EndPage:        endPage,
		ContextWindow:  contextWindow,
		PopplerPath:    popplerPath,
		Debug:          debug,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
