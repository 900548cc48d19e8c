package uslm

import (
	"iter"
	"strings"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// levelTags maps USLM structural element names to hierarchy levels.
var levelTags = map[string]domain.HierarchyLevel{
	"title":      domain.LevelTitle,
	"subtitle":   domain.LevelSubtitle,
	"chapter":    domain.LevelChapter,
	"subchapter": domain.LevelSubchapter,
	"part":       domain.LevelPart,
	"subpart":    domain.LevelSubpart,
	"division":   domain.LevelDivision,
	"article":    domain.LevelArticle,
}

// skipSubtrees are element names that never contain statutory sections.
var skipSubtrees = map[string]bool{
	"meta": true,
	"toc":  true,
}

// SectionVisit pairs a section element with its reconstructed ancestor
// path and its position in document order.
type SectionVisit struct {
	// Index is the zero-based document-order position of the section.
	Index int

	// Node is the section element, owned by the document tree.
	Node *xmldoc.Node

	// Path is the ancestor chain of the section.
	Path domain.HierarchyPath
}

// Walk returns the document's sections in document order, each paired
// with its hierarchy path. The sequence is finite and restartable:
// ranging over it again re-traverses the tree from the top.
//
// Sections under an appendix root are tagged InAppendix. A section
// whose chain lacks a title ancestor, or that bypasses a level its
// enclosing unit otherwise uses, is tagged Incomplete rather than
// dropped.
func Walk(doc *xmldoc.Document) iter.Seq[SectionVisit] {
	return func(yield func(SectionVisit) bool) {
		if doc == nil || doc.Root == nil {
			return
		}
		w := walker{yield: yield}
		w.visit(doc.Root, false, false)
	}
}

type walker struct {
	yield   func(SectionVisit) bool
	stack   []domain.HierarchyEntry
	index   int
	stopped bool
}

// visit descends through one element. inAppendix and gap carry the
// appendix marker and level-gap state down the subtree.
func (w *walker) visit(n *xmldoc.Node, inAppendix, gap bool) {
	if w.stopped || skipSubtrees[n.Tag] {
		return
	}

	switch {
	case n.Tag == "section":
		w.emit(n, inAppendix, gap)
		return // sections do not nest

	case n.Tag == "appendix":
		// Appendix documents use a distinct root marker. Derive a
		// title entry from the appendix itself when none is on the
		// stack, so appendix sections still cite a title.
		if _, ok := pathOf(w.stack).Find(domain.LevelTitle); !ok {
			w.stack = append(w.stack, domain.HierarchyEntry{
				Level:      domain.LevelTitle,
				Number:     unitNumber(n),
				Name:       n.ChildText("heading"),
				Identifier: n.Attr("identifier"),
			})
			defer func() { w.stack = w.stack[:len(w.stack)-1] }()
		}
		inAppendix = true

	case levelTags[n.Tag] != "":
		w.stack = append(w.stack, domain.HierarchyEntry{
			Level:      levelTags[n.Tag],
			Number:     unitNumber(n),
			Name:       n.ChildText("heading"),
			Identifier: n.Attr("identifier"),
		})
		defer func() { w.stack = w.stack[:len(w.stack)-1] }()
	}

	// A unit that subdivides into deeper structural levels but also
	// holds sections directly gives those sections a gapped chain.
	childGap := gap || bypassesLevel(n)

	for _, c := range n.Children {
		if w.stopped {
			return
		}
		w.visit(c, inAppendix, childGap)
	}
}

func (w *walker) emit(n *xmldoc.Node, inAppendix, gap bool) {
	path := pathOf(w.stack)
	path.InAppendix = inAppendix

	if _, ok := path.Find(domain.LevelTitle); !ok {
		path.Incomplete = true
	}
	if gap {
		path.Incomplete = true
	}

	if !w.yield(SectionVisit{Index: w.index, Node: n, Path: path}) {
		w.stopped = true
		return
	}
	w.index++
}

// pathOf snapshots the stack into an owned path value.
func pathOf(stack []domain.HierarchyEntry) domain.HierarchyPath {
	entries := make([]domain.HierarchyEntry, len(stack))
	copy(entries, stack)
	return domain.HierarchyPath{Entries: entries}
}

// bypassesLevel reports whether an element holds both deeper
// structural units and direct sections, so that its direct sections
// skip a level the unit otherwise uses.
func bypassesLevel(n *xmldoc.Node) bool {
	hasDeeper := false
	hasSection := false
	for _, c := range n.Children {
		if c.Tag == "section" {
			hasSection = true
		} else if levelTags[c.Tag] != "" {
			hasDeeper = true
		}
	}
	return hasDeeper && hasSection
}

// unitNumber extracts a structural unit's number. The num element's
// value attribute is authoritative; the printed text ("CHAPTER 12—",
// "§ 1202.") is the fallback.
func unitNumber(n *xmldoc.Node) string {
	num := n.Child("num")
	if num == nil {
		return ""
	}
	if v := num.Attr("value"); v != "" {
		return v
	}
	return numberFromText(num.AllText())
}

// numberFromText pulls the unit number out of printed num text.
func numberFromText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "§")
	text = strings.TrimSpace(text)

	// Printed forms append an em-dash before the heading and a
	// trailing period: "CHAPTER 12—THE MERIT SYSTEM", "1202."
	if i := strings.IndexRune(text, '—'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	return strings.TrimRight(last, ".")
}
