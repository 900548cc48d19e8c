package uslm

import (
	"regexp"
	"time"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// Amendment note paragraphs open with the amendment year and an
// em-dash ("2022—Pub. L. 117–286 substituted ..."). Paragraphs without
// the prefix are continuation prose and carry no entry of their own.
var (
	reAmendYear = regexp.MustCompile(`^(\d{4})—`)
	reAmendPL   = regexp.MustCompile(`Pub\.\s*L\.\s*(\d+)[-–](\d+)`)
	reAmendStat = regexp.MustCompile(`\b\d+\s+Stat\.\s+\d+`)
)

// AmendmentHistory parses the section's amendments notes into one
// entry per year-prefixed paragraph, in note order. Each entry keeps
// the paragraph text verbatim alongside the year, the cited public law
// and the Statutes-at-Large citation. The amendment date comes from
// the source-credit action citing the same law, since the note itself
// never carries one.
func AmendmentHistory(sec *xmldoc.Node, actions []domain.LegislativeAction) []domain.AmendmentEntry {
	notes := sec.Child("notes")
	if notes == nil {
		return nil
	}

	var entries []domain.AmendmentEntry
	notes.Walk(func(n *xmldoc.Node) bool {
		if n.Tag != "note" || n.Attr("topic") != "amendments" {
			return true
		}
		n.Walk(func(p *xmldoc.Node) bool {
			if p.Tag != "p" {
				return true
			}
			if entry, ok := parseAmendmentParagraph(normaliseSpace(p.AllText()), actions); ok {
				entries = append(entries, entry)
			}
			return true
		})
		return false
	})
	return entries
}

func parseAmendmentParagraph(text string, actions []domain.LegislativeAction) (domain.AmendmentEntry, bool) {
	m := reAmendYear.FindStringSubmatch(text)
	if m == nil {
		return domain.AmendmentEntry{}, false
	}

	entry := domain.AmendmentEntry{Year: m[1], Text: text}
	if pl := reAmendPL.FindStringSubmatch(text); pl != nil {
		entry.PublicLaw = "Pub. L. " + pl[1] + "-" + pl[2]
		entry.Date = actionDate(actions, entry.PublicLaw)
	}
	entry.StatutesAtLarge = reAmendStat.FindString(text)
	return entry, true
}

// actionDate returns the date of the first dated source-credit action
// citing the given law, zero when the credit never cites it.
func actionDate(actions []domain.LegislativeAction, lawID string) time.Time {
	for _, a := range actions {
		if a.LawID == lawID && a.HasDate() {
			return a.Date
		}
	}
	return time.Time{}
}
