// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Mode selects what the model is asked to do with each page.
type Mode string

const (
	// ModeExtract asks for structured Markdown in the source language.
	ModeExtract Mode = "extract"
	// ModeTranslate asks for structured Markdown translated into TargetLanguage.
	ModeTranslate Mode = "translate"
)

// ClientConfig holds settings for the inference endpoint client.
type ClientConfig struct {
	// APIURL is the chat-completions endpoint (OpenAI-compatible).
	APIURL string `json:"api_url" yaml:"api_url"`

	// APIKey is the bearer token for the endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// MaxTokens caps the length of each page response (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Timeout is the HTTP request timeout for one page (default 5m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// RunConfig holds the full configuration for one parse run. It is built
// once from flags, config file, and secrets, validated up front, and then
// passed by value into each component; there is no process-wide state.
type RunConfig struct {
	ClientConfig `yaml:",inline"`

	// DocumentPath is the PDF to process.
	DocumentPath string `json:"document" yaml:"document"`

	// OutputDir receives per-page artifacts and the merged document.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// TempDir holds rasterized page images for the duration of the run.
	// Empty means a fresh scratch directory.
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`

	// Mode selects extraction or translation.
	Mode Mode `json:"mode" yaml:"mode"`

	// TargetLanguage is the translation target. Required when Mode is
	// ModeTranslate, ignored otherwise.
	TargetLanguage string `json:"target_language,omitempty" yaml:"target_language,omitempty"`

	// StartPage and EndPage bound the page range, 1-based inclusive.
	// Zero means unbounded on that side; the range is clamped to the
	// document's page count.
	StartPage int `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	EndPage   int `json:"end_page,omitempty" yaml:"end_page,omitempty"`

	// ContextWindow is the number of previous pages whose cleaned output
	// is sent as context with each request. Zero disables the feature.
	ContextWindow int `json:"context_window" yaml:"context_window"`

	// PopplerPath selects the pdftoppm rasterization backend and points
	// at the directory containing the poppler binaries. Empty selects
	// the built-in renderer.
	PopplerPath string `json:"poppler_path,omitempty" yaml:"poppler_path,omitempty"`

	// Debug pauses between page requests to make endpoint traffic easier
	// to follow. Operational only; it never changes the produced output.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// Validate checks the configuration before any page is processed.
// All violations are ConfigError: the run aborts rather than starting
// a partial pipeline.
func (c RunConfig) Validate() error {
	if c.DocumentPath == "" {
		return &ConfigError{Reason: "document path is required"}
	}
	if c.Mode != ModeExtract && c.Mode != ModeTranslate {
		return &ConfigError{Reason: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
	if c.Mode == ModeTranslate && c.TargetLanguage == "" {
		return &ConfigError{Reason: "translation requested without a target language"}
	}
	if c.StartPage < 0 || c.EndPage < 0 {
		return &ConfigError{Reason: "page range bounds must be positive"}
	}
	if c.StartPage > 0 && c.EndPage > 0 && c.EndPage < c.StartPage {
		return &ConfigError{Reason: fmt.Sprintf("end page %d before start page %d", c.EndPage, c.StartPage)}
	}
	if c.ContextWindow < 0 {
		return &ConfigError{Reason: "context window size must be >= 0"}
	}
	return nil
}
