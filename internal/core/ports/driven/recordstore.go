package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
)

// RecordFilter narrows a record query. Zero values match everything.
type RecordFilter struct {
	// TitleNumber matches records of one Code title.
	TitleNumber string

	// SectionNumber matches one section number exactly.
	SectionNumber string

	// Status matches the section status.
	Status string

	// Limit caps the number of returned records; 0 means no cap.
	Limit int
}

// RecordStore persists extraction output for later querying.
// Backed by SQLite.
type RecordStore interface {
	// SaveResult stores a run's records and processing notes,
	// replacing any previous records for the same source file.
	SaveResult(ctx context.Context, result *domain.ExtractionResult) error

	// ListRecords returns stored records matching the filter, in
	// document order within each title.
	ListRecords(ctx context.Context, filter RecordFilter) ([]domain.SectionRecord, error)

	// CountByStatus returns per-status record counts for one title,
	// or for the whole store when title is empty.
	CountByStatus(ctx context.Context, title string) (map[string]int, error)

	// CountUnparsedSegments returns the number of stored actions with
	// kind unparsed, grouped by title.
	CountUnparsedSegments(ctx context.Context) (map[string]int, error)
}

// SourceFileInfo is the bookkeeping row for one source XML file.
type SourceFileInfo struct {
	// Path is the file path relative to the data directory.
	Path string

	// Size is the file size in bytes at last extraction.
	Size int64

	// ModTime is the file modification time at last extraction.
	ModTime time.Time

	// ContentHash is the SHA-256 of the file at last extraction.
	ContentHash string

	// ExtractedAt is when the file was last extracted.
	ExtractedAt time.Time
}

// SourceFileStore tracks which source files have been extracted, so
// unchanged files can be skipped on re-runs.
type SourceFileStore interface {
	// Get returns the bookkeeping row for a path, or
	// domain.ErrNotFound when the file was never extracted.
	Get(ctx context.Context, path string) (*SourceFileInfo, error)

	// Put stores or replaces the bookkeeping row for a path.
	Put(ctx context.Context, info SourceFileInfo) error
}
