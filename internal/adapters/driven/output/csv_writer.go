package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
)

// csvHeader is the flattened column layout. Structured fields collapse
// to counts or joined strings; the JSON writer keeps the full shape.
var csvHeader = []string{
	"citation",
	"parent_citation",
	"title_number",
	"section_number",
	"heading",
	"status",
	"identifier_path",
	"hierarchy_path",
	"content_hash",
	"subsection_count",
	"action_count",
	"unparsed_count",
	"crossref_count",
	"source_credit",
}

// CSVWriter serialises extraction results as flat CSV, one row per
// section record.
type CSVWriter struct {
	outDir string
}

// Compile-time interface compliance check.
var _ driven.RecordWriter = (*CSVWriter)(nil)

// NewCSVWriter creates a CSV writer that places files in outDir.
func NewCSVWriter(outDir string) *CSVWriter {
	return &CSVWriter{outDir: outDir}
}

// Format returns "csv".
func (w *CSVWriter) Format() string {
	return "csv"
}

// Write serialises the result's records to <outDir>/<source base>.csv.
func (w *CSVWriter) Write(ctx context.Context, result *domain.ExtractionResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(w.outDir, outputName(result.SourceFile, "csv"))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range result.Records {
		if err := cw.Write(csvRow(rec)); err != nil {
			return fmt.Errorf("writing row for %s: %w", rec.Citation, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// csvRow flattens one record into the csvHeader column layout.
func csvRow(rec domain.SectionRecord) []string {
	unparsed := 0
	for _, a := range rec.Actions {
		if a.Kind == domain.ActionUnparsed {
			unparsed++
		}
	}

	return []string{
		rec.Citation,
		rec.ParentCitation,
		rec.TitleNumber,
		rec.SectionNumber,
		rec.Heading,
		rec.Status,
		rec.IDs.IdentifierPath,
		pathString(rec.Path),
		rec.ContentHash,
		strconv.Itoa(rec.SubsectionCount),
		strconv.Itoa(len(rec.Actions)),
		strconv.Itoa(unparsed),
		strconv.Itoa(rec.CrossRefs.Total()),
		rec.SourceCredit,
	}
}

// pathString renders a hierarchy path as "title 5 > chapter 12 >
// subchapter II".
func pathString(p domain.HierarchyPath) string {
	parts := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		parts = append(parts, string(e.Level)+" "+e.Number)
	}
	return strings.Join(parts, " > ")
}
