package uslm

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// reIdentifierTitle recovers the title number from a USLM identifier
// path ("/us/usc/t50A/s4" → "50A") when the ancestor chain has none.
var reIdentifierTitle = regexp.MustCompile(`^/us/usc/t(\d+[A-Za-z]*)`)

// Build composes the final immutable record for one section from the
// outputs of the walker, assembler, credit parser, amendments parser
// and reference scanner. Inputs are never mutated.
//
// A section without a USLM identifier or without any text body returns
// domain.ErrMissingAttribute; callers skip and report such sections
// rather than drop them silently.
func Build(
	sec *xmldoc.Node,
	path domain.HierarchyPath,
	fullText string,
	subsectionCount int,
	credit string,
	actions []domain.LegislativeAction,
	amendments []domain.AmendmentEntry,
	refs domain.CrossReferences,
	notes []domain.NoteBlock,
) (domain.SectionRecord, error) {
	identifier := sec.Attr("identifier")
	if identifier == "" {
		return domain.SectionRecord{}, fmt.Errorf("section %q: identifier: %w", sec.Attr("id"), domain.ErrMissingAttribute)
	}
	if fullText == "" {
		return domain.SectionRecord{}, fmt.Errorf("section %s: text body: %w", identifier, domain.ErrMissingAttribute)
	}

	titleNum := path.TitleNumber()
	if titleNum == "" {
		if m := reIdentifierTitle.FindStringSubmatch(identifier); m != nil {
			titleNum = m[1]
		}
	}
	sectionNum := unitNumber(sec)

	status := sec.Attr("status")
	if status == "" {
		status = domain.StatusOperational
	}

	sum := sha256.Sum256([]byte(fullText))

	return domain.SectionRecord{
		Citation:        citationString(titleNum, sectionNum),
		ParentCitation:  parentCitation(titleNum, path),
		TitleNumber:     titleNum,
		SectionNumber:   sectionNum,
		Heading:         sec.ChildText("heading"),
		Path:            path,
		FullText:        fullText,
		ContentHash:     hex.EncodeToString(sum[:]),
		SubsectionCount: subsectionCount,
		Status:          status,
		IDs: domain.Identifiers{
			GUID:           sec.Attr("id"),
			IdentifierPath: identifier,
			TemporalID:     sec.Attr("temporalId"),
			LegacyName:     sec.Attr("name"),
		},
		SourceCredit: credit,
		Actions:      actions,
		Amendments:   amendments,
		CrossRefs:    refs,
		Notes:        notes,
	}, nil
}

func citationString(title, section string) string {
	if title == "" || section == "" {
		return ""
	}
	return fmt.Sprintf("%s U.S.C. § %s", title, section)
}

// parentCitation cites the nearest enclosing chapter or subchapter. A
// subchapter citation carries its chapter for context.
func parentCitation(title string, path domain.HierarchyPath) string {
	if title == "" {
		return ""
	}

	nearest, ok := path.Nearest(domain.LevelChapter, domain.LevelSubchapter)
	if !ok {
		return ""
	}

	if nearest.Level == domain.LevelChapter {
		return fmt.Sprintf("%s U.S.C. Ch. %s", title, nearest.Number)
	}

	var b strings.Builder
	if ch, ok := path.Find(domain.LevelChapter); ok {
		fmt.Fprintf(&b, "%s U.S.C. Ch. %s, ", title, ch.Number)
	} else {
		fmt.Fprintf(&b, "%s U.S.C. ", title)
	}
	fmt.Fprintf(&b, "Subch. %s", nearest.Number)
	return b.String()
}
