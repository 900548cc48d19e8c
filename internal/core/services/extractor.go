package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driving"
	"github.com/custodia-labs/uscode-cli/internal/logger"
	"github.com/custodia-labs/uscode-cli/internal/uslm"
)

// Ensure ExtractOrchestrator implements the interface.
var _ driving.Extractor = (*ExtractOrchestrator)(nil)

// Clock supplies the extraction timestamp attached to results. The
// engine never reads the clock itself.
type Clock func() time.Time

// ExtractOrchestrator runs the extraction engine over title files,
// fanning sections out to a worker pool and re-assembling the output
// in document order.
type ExtractOrchestrator struct {
	loader      driven.DocumentLoader
	recordStore driven.RecordStore
	sourceFiles driven.SourceFileStore
	clock       Clock
	version     string
}

// NewExtractOrchestrator creates a new extract orchestrator. The
// recordStore and sourceFiles stores are optional - if nil, result
// persistence and change skipping are disabled.
func NewExtractOrchestrator(
	loader driven.DocumentLoader,
	recordStore driven.RecordStore,
	sourceFiles driven.SourceFileStore,
	clock Clock,
	version string,
) *ExtractOrchestrator {
	if clock == nil {
		clock = time.Now
	}
	return &ExtractOrchestrator{
		loader:      loader,
		recordStore: recordStore,
		sourceFiles: sourceFiles,
		clock:       clock,
		version:     version,
	}
}

// sectionOutcome is one worker's result, tagged with the section's
// document-order index so output can be re-sorted on completion.
type sectionOutcome struct {
	index   int
	record  domain.SectionRecord
	notes   []domain.ProcessingNote
	skipped bool
}

// ExtractFile extracts every section record from one title XML file.
func (o *ExtractOrchestrator) ExtractFile(ctx context.Context, path string, opts driving.ExtractOptions) (*domain.ExtractionResult, error) {
	doc, err := o.loader.Load(ctx, path)
	if err != nil {
		// Document-level failure is fatal for the run: no partial
		// results.
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDocumentLoad, path, err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Section(fmt.Sprintf("Extracting %s", path))

	visits := make(chan uslm.SectionVisit)
	outcomes := make(chan sectionOutcome)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for visit := range visits {
				outcomes <- processSection(visit)
			}
		}()
	}

	go func() {
		defer close(visits)
		for visit := range uslm.Walk(doc) {
			select {
			case visits <- visit:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var collected []sectionOutcome
	for outcome := range outcomes {
		collected = append(collected, outcome)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Workers finish out of order; the output contract is document
	// order, restored here by the walker's sequence index.
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].index < collected[j].index
	})

	result := &domain.ExtractionResult{
		RunID:         uuid.New().String(),
		SourceFile:    path,
		ExtractedAt:   o.clock(),
		EngineVersion: o.version,
	}
	for _, outcome := range collected {
		result.Notes = append(result.Notes, outcome.notes...)
		if !outcome.skipped {
			result.Records = append(result.Records, outcome.record)
		}
	}

	logger.Info("Extracted %d sections from %s (%d notes)", len(result.Records), path, len(result.Notes))

	if opts.Persist && o.recordStore != nil {
		if err := o.recordStore.SaveResult(ctx, result); err != nil {
			return nil, fmt.Errorf("save result: %w", err)
		}
	}
	if o.sourceFiles != nil {
		if err := o.recordBookkeeping(ctx, path); err != nil {
			return nil, fmt.Errorf("record bookkeeping: %w", err)
		}
	}

	return result, nil
}

// ExtractAll extracts every title file in the data directory, skipping
// files whose bookkeeping row is unchanged unless forced.
func (o *ExtractOrchestrator) ExtractAll(ctx context.Context, opts driving.ExtractOptions) ([]*domain.ExtractionResult, error) {
	paths, err := o.loader.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	if len(paths) == 0 {
		return nil, domain.ErrCorpusMissing
	}

	var results []*domain.ExtractionResult
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !opts.Force {
			unchanged, err := o.isUnchanged(ctx, path)
			if err != nil {
				return nil, err
			}
			if unchanged {
				logger.Debug("Skipping unchanged file %s", path)
				continue
			}
		}

		result, err := o.ExtractFile(ctx, path, opts)
		if err != nil {
			// One unreadable file does not abort the corpus run.
			errs = append(errs, err)
			logger.Warn("Failed to extract %s: %v", path, err)
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

// isUnchanged compares the file's current fingerprint against its
// bookkeeping row.
func (o *ExtractOrchestrator) isUnchanged(ctx context.Context, path string) (bool, error) {
	if o.sourceFiles == nil {
		return false, nil
	}

	prev, err := o.sourceFiles.Get(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get source file %s: %w", path, err)
	}

	cur, err := o.loader.Describe(ctx, path)
	if err != nil {
		return false, fmt.Errorf("describe %s: %w", path, err)
	}
	return cur.Size == prev.Size && cur.ContentHash == prev.ContentHash, nil
}

func (o *ExtractOrchestrator) recordBookkeeping(ctx context.Context, path string) error {
	info, err := o.loader.Describe(ctx, path)
	if err != nil {
		return err
	}
	info.ExtractedAt = o.clock()
	return o.sourceFiles.Put(ctx, info)
}

// processSection runs the section-local pipeline: assemble text, parse
// the source credit and the amendments note, scan references, build
// the record. Failures here
// are recovered into processing notes, never propagated.
func processSection(visit uslm.SectionVisit) sectionOutcome {
	outcome := sectionOutcome{index: visit.Index}

	sectionID := visit.Node.Attr("identifier")
	if sectionID == "" {
		sectionID = visit.Node.Attr("id")
	}

	if visit.Path.Incomplete {
		outcome.notes = append(outcome.notes, domain.ProcessingNote{
			Kind:      domain.NoteMalformedHierarchy,
			SectionID: sectionID,
			Detail:    "ancestor chain is missing an expected level",
		})
	}

	text, subsections := uslm.Assemble(visit.Node)
	credit := uslm.SourceCredit(visit.Node)
	actions := uslm.ParseSourceCredit(credit)
	amendments := uslm.AmendmentHistory(visit.Node, actions)
	notes := uslm.Notes(visit.Node)
	refs := uslm.ScanReferences(visit.Node, text, notes)

	for _, action := range actions {
		if action.Kind == domain.ActionUnparsed {
			outcome.notes = append(outcome.notes, domain.ProcessingNote{
				Kind:      domain.NoteUnparsedSegment,
				SectionID: sectionID,
				Detail:    fmt.Sprintf("unrecognised credit segment: %q", action.RawText),
			})
		}
	}

	record, err := uslm.Build(visit.Node, visit.Path, text, subsections, credit, actions, amendments, refs, notes)
	if err != nil {
		// The section is skipped but reported, not silently dropped.
		outcome.skipped = true
		outcome.notes = append(outcome.notes, domain.ProcessingNote{
			Kind:      domain.NoteMissingAttribute,
			SectionID: sectionID,
			Detail:    err.Error(),
		})
		return outcome
	}

	outcome.record = record
	return outcome
}
