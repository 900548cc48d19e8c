package domain

import "time"

// ActionKind classifies one entry of a source credit.
type ActionKind string

// Action kinds. Unparsed is the guaranteed fallback: a credit segment
// matching no grammar rule is retained verbatim, never dropped.
const (
	ActionBase       ActionKind = "base"
	ActionAsAdded    ActionKind = "as_added"
	ActionRenumbered ActionKind = "renumbered"
	ActionAmended    ActionKind = "amended"
	ActionUnparsed   ActionKind = "unparsed"
)

// StatCitation is a Statutes-at-Large reference. Split citations such
// as "110 Stat. 698, 699" keep all pages on a single citation.
type StatCitation struct {
	// Volume is the Statutes-at-Large volume number.
	Volume int `json:"volume"`

	// Pages holds one or more page numbers in cited order.
	Pages []int `json:"pages"`
}

// LegislativeAction is one semicolon-delimited entry of a section's
// source credit: the base law, an "as added" enactment, a renumbering,
// or an amendment.
type LegislativeAction struct {
	// Kind classifies the action.
	Kind ActionKind `json:"kind"`

	// LawID identifies the enacting law: "Pub. L. 90-284", "ch. 645"
	// for pre-1957 act citations, or "R.S. §161" for Revised Statutes
	// provisions. Empty for unparsed segments.
	LawID string `json:"law_id,omitempty"`

	// Division is the division letter within the act, when cited.
	Division string `json:"division,omitempty"`

	// TitleInAct is the title within the act, when cited.
	TitleInAct string `json:"title_in_act,omitempty"`

	// SectionInAct is the section within the act, when cited. For
	// renumbered actions it carries the new section number.
	SectionInAct string `json:"section_in_act,omitempty"`

	// Date is the enactment or amendment date. Zero when the segment
	// carries no date.
	Date time.Time `json:"date,omitzero"`

	// StatutesAtLarge is the Stat. citation, nil when absent.
	StatutesAtLarge *StatCitation `json:"statutes_at_large,omitempty"`

	// FormerNumber is set when the segment records a prior section
	// number ("formerly §413").
	FormerNumber string `json:"former_number,omitempty"`

	// RawText preserves the original segment verbatim.
	RawText string `json:"raw_text"`
}

// HasDate reports whether the action carries an enactment date.
func (a LegislativeAction) HasDate() bool {
	return !a.Date.IsZero()
}
