package driving

import (
	"context"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
)

// ExtractOptions controls one extraction run.
type ExtractOptions struct {
	// Force re-extracts files whose bookkeeping row says they are
	// unchanged.
	Force bool

	// Workers is the section worker pool size; 0 selects a default
	// based on available CPUs.
	Workers int

	// Persist stores the results in the record store when one is
	// configured.
	Persist bool
}

// Extractor runs the extraction engine over loaded documents.
type Extractor interface {
	// ExtractFile extracts every section record from one title XML
	// file. Per-section failures accumulate as processing notes; a
	// document that cannot be loaded at all fails the call with no
	// partial result.
	ExtractFile(ctx context.Context, path string, opts ExtractOptions) (*domain.ExtractionResult, error)

	// ExtractAll extracts every title file in the data directory, in
	// filename order. Files whose bookkeeping says they are unchanged
	// are skipped unless opts.Force is set; skipped files yield no
	// result entry.
	ExtractAll(ctx context.Context, opts ExtractOptions) ([]*domain.ExtractionResult, error)
}
