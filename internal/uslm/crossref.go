package uslm

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// Citation-shaped text patterns. USC references cover both the cited
// form ("5 U.S.C. § 1202") and the bracketed editorial form without
// the section marker ("[42 U.S.C. 1396 et seq.]").
var (
	reUSCRef = regexp.MustCompile(`\b(\d+[A-Za-z]*)\s+U\.S\.C\.\s+(?:§§?\s*)?(\d+[0-9A-Za-z.\-–]*(?:\([0-9A-Za-z]+\))*)((?:\s+et\s+seq\.)?)`)
	rePLRef  = regexp.MustCompile(`Pub\.\s*L\.\s*(\d+)[-–](\d+)`)
	reEORef  = regexp.MustCompile(`(?:Ex\.\s*Ord\.\s*No\.|Executive\s+Order\s+No\.|Executive\s+Order)\s+(\d+)`)
	reFRRef  = regexp.MustCompile(`\b\d+\s+F\.R\.\s+\d+(?:,\s*\d+)*`)
)

// USLM href identifier shapes carried by <ref> elements, matched from
// the start of the href ("/us/usc/t5/s1202", "/us/act/1947-07-30/ch388",
// "/us/pl/117/286", "/us/stat/116/926").
var (
	reHrefUSC  = regexp.MustCompile(`^/us/usc/t(\d+[A-Za-z]*)/([sc])h?(\d+[0-9A-Za-z.\-–]*)`)
	reHrefAct  = regexp.MustCompile(`^/us/act/([^/]+)/(.+)`)
	reHrefPL   = regexp.MustCompile(`^/us/pl/(\d+)/(\d+)`)
	reHrefStat = regexp.MustCompile(`^/us/stat/(\d+[A-Za-z]*)/(\d+)`)
)

// refScanner accumulates references with per-bucket deduplication by
// raw text, insertion order preserved.
type refScanner struct {
	refs domain.CrossReferences
	seen map[string]bool
}

// ScanReferences collects a section's cross-references from two
// sources, in order: the <ref> elements of the section subtree, whose
// href attributes carry authoritative link targets, then the
// citation-shaped substrings of the assembled text and note blocks.
// Matches inside bracketed editorial text stay in the result, tagged
// as editorially inserted.
func ScanReferences(sec *xmldoc.Node, text string, notes []domain.NoteBlock) domain.CrossReferences {
	s := &refScanner{seen: make(map[string]bool)}
	s.scanRefElements(sec)
	s.scan(text)
	for _, note := range notes {
		s.scan(note.Text)
	}
	return s.refs
}

// scanRefElements resolves every <ref href="..."> under the section.
// The href pass runs before the text patterns, so a citation present
// both as markup and as text is kept once, from the markup.
func (s *refScanner) scanRefElements(sec *xmldoc.Node) {
	sec.Walk(func(n *xmldoc.Node) bool {
		if n.Tag == "ref" {
			s.resolveHref(n.Attr("href"), normaliseSpace(n.AllText()))
		}
		return true
	})
}

// resolveHref maps a USLM identifier path to its citation bucket. The
// ref's display text is the raw text; a ref without display text falls
// back to the derived citation. Unrecognised href shapes are dropped.
func (s *refScanner) resolveHref(href, display string) {
	if href == "" {
		return
	}

	add := func(bucket *[]domain.CrossReference, citation string) {
		raw := display
		if raw == "" {
			raw = citation
		}
		s.add(bucket, domain.CrossReference{
			RawText:        raw,
			TargetCitation: citation,
		})
	}

	if m := reHrefUSC.FindStringSubmatch(href); m != nil {
		if m[2] == "s" {
			add(&s.refs.Code, m[1]+" U.S.C. § "+m[3])
		} else {
			add(&s.refs.Code, m[1]+" U.S.C. Ch. "+m[3])
		}
		return
	}
	if m := reHrefAct.FindStringSubmatch(href); m != nil {
		add(&s.refs.Acts, "Act of "+m[1]+", "+m[2])
		return
	}
	if m := reHrefPL.FindStringSubmatch(href); m != nil {
		add(&s.refs.PublicLaws, "Pub. L. "+m[1]+"-"+m[2])
		return
	}
	if m := reHrefStat.FindStringSubmatch(href); m != nil {
		add(&s.refs.Statutes, m[1]+" Stat. "+m[2])
	}
}

func (s *refScanner) scan(text string) {
	if text == "" {
		return
	}
	brackets := bracketSpans(text)

	for _, m := range reUSCRef.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		title := text[m[2]:m[3]]
		section := text[m[4]:m[5]]
		s.add(&s.refs.Code, domain.CrossReference{
			RawText:             strings.TrimSpace(raw),
			TargetCitation:      title + " U.S.C. § " + section,
			EditoriallyInserted: insideSpan(brackets, m[0]),
		})
	}

	for _, m := range rePLRef.FindAllStringSubmatchIndex(text, -1) {
		s.add(&s.refs.PublicLaws, domain.CrossReference{
			RawText:             text[m[0]:m[1]],
			TargetCitation:      "Pub. L. " + text[m[2]:m[3]] + "-" + text[m[4]:m[5]],
			EditoriallyInserted: insideSpan(brackets, m[0]),
		})
	}

	for _, m := range reEORef.FindAllStringSubmatchIndex(text, -1) {
		s.add(&s.refs.ExecutiveOrders, domain.CrossReference{
			RawText:             text[m[0]:m[1]],
			TargetCitation:      "Ex. Ord. No. " + text[m[2]:m[3]],
			EditoriallyInserted: insideSpan(brackets, m[0]),
		})
	}

	for _, m := range reFRRef.FindAllStringIndex(text, -1) {
		raw := strings.TrimRight(text[m[0]:m[1]], ", ")
		s.add(&s.refs.FederalRegister, domain.CrossReference{
			RawText:             raw,
			TargetCitation:      raw,
			EditoriallyInserted: insideSpan(brackets, m[0]),
		})
	}
}

// add appends unless the raw text was already collected anywhere in
// the structure.
func (s *refScanner) add(bucket *[]domain.CrossReference, ref domain.CrossReference) {
	if s.seen[ref.RawText] {
		return
	}
	s.seen[ref.RawText] = true
	*bucket = append(*bucket, ref)
}

// bracketSpans returns the [start,end) spans of square-bracketed runs.
// Editorial brackets in the Code do not nest meaningfully; the first
// closing bracket ends a span.
func bracketSpans(text string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range text {
		switch r {
		case '[':
			if start < 0 {
				start = i
			}
		case ']':
			if start >= 0 {
				spans = append(spans, [2]int{start, i + 1})
				start = -1
			}
		}
	}
	return spans
}

func insideSpan(spans [][2]int, pos int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}
