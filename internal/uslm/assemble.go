package uslm

import (
	"strings"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// subsectionTags are the subdivision levels counted beneath a section.
// Sections subdivide unevenly (subsection→paragraph→subparagraph with
// levels skipped), so the count covers all of them, nested included.
var subsectionTags = map[string]bool{
	"subsection":   true,
	"paragraph":    true,
	"subparagraph": true,
	"clause":       true,
	"subclause":    true,
	"item":         true,
	"subitem":      true,
	"subsubitem":   true,
}

// nonTextTags are section children excluded from the assembled text:
// the source credit and notes are extracted separately, and tables of
// contents are navigation rather than statutory text.
var nonTextTags = map[string]bool{
	"sourceCredit": true,
	"notes":        true,
	"toc":          true,
	"meta":         true,
}

// Assemble concatenates a section's content nodes into normalised
// plain text and counts its subdivision nodes. Identical subtrees
// always produce identical output; the content hash depends on it.
func Assemble(sec *xmldoc.Node) (string, int) {
	if sec == nil {
		return "", 0
	}

	var parts []string
	for _, child := range sec.Children {
		if nonTextTags[child.Tag] {
			continue
		}
		if text := normaliseSpace(child.AllText()); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), sec.CountDescendants(subsectionTags)
}

// SourceCredit returns the section's raw source-credit string, or ""
// when the section carries none.
func SourceCredit(sec *xmldoc.Node) string {
	if sec == nil {
		return ""
	}
	return normaliseSpace(sec.Child("sourceCredit").AllText())
}

// Notes returns the section's note blocks in document order. Note text
// is normalised the same way as section text so the cross-reference
// scanner sees both identically.
func Notes(sec *xmldoc.Node) []domain.NoteBlock {
	if sec == nil {
		return nil
	}
	notes := sec.Child("notes")
	if notes == nil {
		return nil
	}

	var blocks []domain.NoteBlock
	for _, n := range notes.Children {
		if n.Tag != "note" {
			continue
		}
		text := normaliseSpace(n.AllText())
		if text == "" {
			continue
		}
		blocks = append(blocks, domain.NoteBlock{
			Topic: n.Attr("topic"),
			Role:  n.Attr("role"),
			Text:  text,
		})
	}
	return blocks
}

// normaliseSpace collapses all runs of whitespace to single spaces and
// trims the ends. The single normalising boundary between nodes keeps
// assembly deterministic regardless of source indentation.
func normaliseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
