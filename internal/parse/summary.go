// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

// WriteSummary marshals the run summary to a YAML sidecar next to the
// merged document, so missing pages can be reconstructed after the run.
func WriteSummary(path string, summary types.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
