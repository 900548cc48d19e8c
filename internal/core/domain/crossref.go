package domain

// CrossReference is a citation-shaped substring found in a section's
// text or notes.
type CrossReference struct {
	// RawText is the matched substring exactly as it appears.
	RawText string `json:"raw_text"`

	// TargetCitation is a best-effort normalised citation string.
	// Empty when the scanner cannot confidently derive a target.
	TargetCitation string `json:"target_citation,omitempty"`

	// EditoriallyInserted is set for matches inside bracketed
	// editorial text ("[...]").
	EditoriallyInserted bool `json:"editorially_inserted,omitempty"`
}

// CrossReferences groups the scanned references by citation family.
// Each bucket is deduplicated by raw text with insertion order kept.
type CrossReferences struct {
	// Code holds United States Code references ("5 U.S.C. § 1202").
	Code []CrossReference `json:"code"`

	// PublicLaws holds public law references ("Pub. L. 117-286").
	PublicLaws []CrossReference `json:"public_laws"`

	// ExecutiveOrders holds executive order references
	// ("Ex. Ord. No. 12107").
	ExecutiveOrders []CrossReference `json:"executive_orders"`

	// FederalRegister holds Federal Register citations ("75 F.R. 707").
	FederalRegister []CrossReference `json:"federal_register"`

	// Acts holds references to named acts resolved from document
	// markup ("Act of 1947-07-30, ch388").
	Acts []CrossReference `json:"acts"`

	// Statutes holds Statutes at Large references resolved from
	// document markup ("116 Stat. 926").
	Statutes []CrossReference `json:"statutes"`
}

// Total returns the number of references across all buckets.
func (c CrossReferences) Total() int {
	return len(c.Code) + len(c.PublicLaws) + len(c.ExecutiveOrders) +
		len(c.FederalRegister) + len(c.Acts) + len(c.Statutes)
}
