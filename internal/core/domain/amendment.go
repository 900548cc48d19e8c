package domain

import "time"

// AmendmentEntry is one entry of a section's amendments note: a
// year-prefixed paragraph ("2022—Pub. L. 117–286 substituted ...")
// parsed into its structured parts.
type AmendmentEntry struct {
	// Year is the four-digit year prefixed to the paragraph.
	Year string `json:"year"`

	// Text is the paragraph's normalised text, year prefix included.
	Text string `json:"text"`

	// PublicLaw is the amending law ("Pub. L. 117-286") when the
	// paragraph cites one.
	PublicLaw string `json:"public_law,omitempty"`

	// StatutesAtLarge is the Stat. citation as written ("136 Stat.
	// 4359") when the paragraph carries one.
	StatutesAtLarge string `json:"statutes_at_large,omitempty"`

	// Date is the amendment date, recovered from the source-credit
	// action citing the same law. Zero when the credit carries no
	// matching dated action.
	Date time.Time `json:"date,omitzero"`
}
