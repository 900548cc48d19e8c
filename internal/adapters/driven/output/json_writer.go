// Package output provides file-based writers for extraction results.
// Each writer derives its output file name from the result's source
// file, so usc05.xml becomes usc05.json or usc05.csv.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
)

// JSONWriter serialises extraction results as indented JSON, one file
// per source document.
type JSONWriter struct {
	outDir string
}

// Compile-time interface compliance check.
var _ driven.RecordWriter = (*JSONWriter)(nil)

// NewJSONWriter creates a JSON writer that places files in outDir.
func NewJSONWriter(outDir string) *JSONWriter {
	return &JSONWriter{outDir: outDir}
}

// Format returns "json".
func (w *JSONWriter) Format() string {
	return "json"
}

// Write serialises the result to <outDir>/<source base>.json. The
// whole result is written, records and processing notes both, so the
// output file is a faithful snapshot of the run.
func (w *JSONWriter) Write(ctx context.Context, result *domain.ExtractionResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}

	path := filepath.Join(w.outDir, outputName(result.SourceFile, "json"))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// outputName maps a source XML file name to an output file name with
// the given extension.
func outputName(sourceFile, ext string) string {
	base := filepath.Base(sourceFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + ext
}
