package domain

import "time"

// SectionStatus values observed on USLM section elements. An element
// without a status attribute is operational.
const (
	StatusOperational = "operational"
	StatusRepealed    = "repealed"
	StatusReserved    = "reserved"
)

// Identifiers collects the identity attributes of a section element.
type Identifiers struct {
	// GUID is the element's id attribute.
	GUID string `json:"guid"`

	// IdentifierPath is the USLM identifier ("/us/usc/t5/s1202").
	IdentifierPath string `json:"identifier_path"`

	// TemporalID is the temporalId attribute when present.
	TemporalID string `json:"temporal_id,omitempty"`

	// LegacyName is the pre-USLM name attribute when present.
	LegacyName string `json:"legacy_name,omitempty"`
}

// NoteBlock is one note attached to a section, keyed by topic.
type NoteBlock struct {
	// Topic is the note topic ("amendments", "shortTitle", ...).
	Topic string `json:"topic"`

	// Role refines the topic when the XML provides one.
	Role string `json:"role,omitempty"`

	// Text is the note's assembled plain text.
	Text string `json:"text"`
}

// SectionRecord is the per-section output of the extraction engine.
// Records are immutable once built and fully derived from a single XML
// snapshot, so unchanged sections hash identically across runs.
type SectionRecord struct {
	// Citation is the canonical citation ("5 U.S.C. § 1202").
	Citation string `json:"citation"`

	// ParentCitation cites the nearest enclosing chapter or
	// subchapter. Empty when the path carries neither.
	ParentCitation string `json:"parent_citation,omitempty"`

	// TitleNumber is the Code title number as a string ("50A" legal).
	TitleNumber string `json:"title_number"`

	// SectionNumber is the section number without the § marker.
	SectionNumber string `json:"section_number"`

	// Heading is the section heading text.
	Heading string `json:"heading"`

	// Path is the ancestor chain of the section.
	Path HierarchyPath `json:"path"`

	// FullText is the normalised section text: heading, chapeau,
	// subsections and continuation text in document order.
	FullText string `json:"full_text"`

	// ContentHash is the SHA-256 hex digest of FullText. Metadata
	// never feeds the hash; it exists to detect changes to the legal
	// text itself.
	ContentHash string `json:"content_hash"`

	// SubsectionCount counts subsection-or-deeper nodes beneath the
	// section, not just direct children.
	SubsectionCount int `json:"subsection_count"`

	// Status is the section status; defaults to operational.
	Status string `json:"status"`

	// IDs holds the identity attributes of the section element.
	IDs Identifiers `json:"identifiers"`

	// SourceCredit is the raw source-credit string.
	SourceCredit string `json:"source_credit,omitempty"`

	// Actions is the parsed legislative history, one entry per
	// source-credit segment, in credit order.
	Actions []LegislativeAction `json:"actions"`

	// Amendments is the parsed amendments note, one entry per
	// year-prefixed paragraph, in note order.
	Amendments []AmendmentEntry `json:"amendments"`

	// CrossRefs holds the scanned cross-references.
	CrossRefs CrossReferences `json:"cross_references"`

	// Notes holds the section's note blocks verbatim.
	Notes []NoteBlock `json:"notes"`
}

// ExtractionResult is the whole-document output: the ordered record
// sequence plus the processing notes accumulated along the way. The
// timestamp and engine version come from the caller's clock/config
// collaborators, never from the engine.
type ExtractionResult struct {
	// RunID uniquely identifies this extraction run.
	RunID string `json:"run_id"`

	// SourceFile is the XML file the records came from.
	SourceFile string `json:"source_file"`

	// Records holds one record per section, in document order.
	Records []SectionRecord `json:"records"`

	// Notes lists every non-fatal issue encountered.
	Notes []ProcessingNote `json:"processing_notes"`

	// ExtractedAt is the run timestamp supplied by the caller.
	ExtractedAt time.Time `json:"extracted_at"`

	// EngineVersion is the engine version string supplied by the caller.
	EngineVersion string `json:"engine_version"`
}
