package domain

import "errors"

// Domain errors represent extraction failures. Per-section failures
// are recovered and reported as processing notes; only document-level
// failures abort a run.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentLoad indicates the XML document could not be parsed
	// at all. Fatal for the whole run; no partial results.
	ErrDocumentLoad = errors.New("document load failed")

	// ErrMissingAttribute indicates a section lacks an identifier or
	// any text body. The section is skipped and reported.
	ErrMissingAttribute = errors.New("missing required attribute")

	// ErrMalformedHierarchy indicates a section's ancestor chain is
	// missing an expected level. Recovered locally; the section is
	// still emitted with an incomplete path.
	ErrMalformedHierarchy = errors.New("malformed hierarchy")

	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrCorpusMissing indicates the XML corpus is not present in the
	// data directory and must be fetched first.
	ErrCorpusMissing = errors.New("corpus not present")
)

// NoteKind classifies a processing note.
type NoteKind string

// Processing note kinds, mirroring the recoverable error taxonomy.
const (
	NoteMalformedHierarchy NoteKind = "malformed_hierarchy"
	NoteUnparsedSegment    NoteKind = "unparsed_citation_segment"
	NoteMissingAttribute   NoteKind = "missing_required_attribute"
)

// ProcessingNote records one non-fatal issue so callers can audit data
// quality without log scraping.
type ProcessingNote struct {
	// Kind classifies the issue.
	Kind NoteKind `json:"kind"`

	// SectionID identifies the affected section, by USLM identifier
	// when available.
	SectionID string `json:"section_id,omitempty"`

	// Detail is a human-readable description.
	Detail string `json:"detail"`
}
