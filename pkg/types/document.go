// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentMetadata holds the source document's descriptive fields, read
// once at the start of a run and used for the merged document's header.
// Fields absent from the source are empty strings.
type DocumentMetadata struct {
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Subject   string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Creator   string `json:"creator,omitempty" yaml:"creator,omitempty"`
	Producer  string `json:"producer,omitempty" yaml:"producer,omitempty"`
	PageCount int    `json:"page_count" yaml:"page_count"`
}

// PageImage is one rasterized page, the unit of work sent to the
// inference endpoint. Index is the 1-based page number in the source
// document; it is the canonical page identity everywhere downstream
// (artifact names, context, ledger rows), never a loop counter.
type PageImage struct {
	Index int    `json:"index" yaml:"index"`
	Path  string `json:"path" yaml:"path"`
	Size  int64  `json:"size" yaml:"size"`
}

// PageResult is the outcome of processing one page. Exactly one of OK or
// Error is meaningful; a failed page produces no artifact and never
// enters the context window.
type PageResult struct {
	// Index is the 1-based page number in the source document.
	Index int `json:"page" yaml:"page"`

	// Cleaned is the post-processed model output. Held in memory for
	// the assembler; the per-page artifact file is the persisted form.
	Cleaned string `json:"-" yaml:"-"`

	// ArtifactPath is the per-page Markdown file, empty on failure.
	ArtifactPath string `json:"artifact,omitempty" yaml:"artifact,omitempty"`

	// Bytes is the size of the cleaned output.
	Bytes int `json:"bytes,omitempty" yaml:"bytes,omitempty"`

	// OK reports whether the page succeeded.
	OK bool `json:"ok" yaml:"ok"`

	// Error is the failure reason, recorded so missing pages can be
	// reconstructed from the summary.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunSummary reports the outcome of a full run.
type RunSummary struct {
	Document  string       `json:"document" yaml:"document"`
	Model     string       `json:"model" yaml:"model"`
	Mode      Mode         `json:"mode" yaml:"mode"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
	Pages     []PageResult `json:"pages" yaml:"pages"`
}

// Total returns the number of pages processed.
func (s RunSummary) Total() int {
	return s.Succeeded + s.Failed
}

// HasFailures reports whether any page failed.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}
