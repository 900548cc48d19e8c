package uslm

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
)

// Source-credit clause patterns. Credits are prose with two centuries
// of formatting drift, so each clause type gets its own rule and the
// rules are applied independently per segment; a segment matching no
// rule degrades to an unparsed action instead of being dropped.
var (
	rePublicLaw  = regexp.MustCompile(`Pub\.\s*L\.\s*(\d+)[-–](\d+)`)
	reActChapter = regexp.MustCompile(`\bch\.\s*(\d+[A-Za-z]*)`)
	reRevStat    = regexp.MustCompile(`R\.S\.\s*§\s*([0-9A-Za-z.\-–]+)`)
	reDivision   = regexp.MustCompile(`\bdiv\.\s*([A-Z]+|\d+[A-Za-z]*)`)
	reTitleInAct = regexp.MustCompile(`\btitle\s+([0-9IVXLCDM]+(?:[-–][A-Z])?)`)
	reActSection = regexp.MustCompile(`§§?\s*([0-9A-Za-z.\-–]+(?:\([0-9A-Za-z]+\))*(?:,\s*\([0-9A-Za-z]+\))*)`)
	reCreditDate = regexp.MustCompile(`\b(Jan\.|Feb\.|Mar\.|Apr\.|May|June|July|Aug\.|Sept\.|Oct\.|Nov\.|Dec\.)\s+(\d{1,2}),\s+(\d{4})`)
	// Lettered volumes ("76A Stat. 699", the codified-title volumes) do
	// not fit the numeric volume field and are left uncited; the
	// citation text still survives in the segment's RawText.
	reStatCite = regexp.MustCompile(`\b(\d+)\s+Stat\.\s+(\d+(?:,\s*\d+)*)`)
	reFormerly   = regexp.MustCompile(`(?i)\bformerly\s+§\s*([0-9A-Za-z.\-–()]+)`)
	reRenumbered = regexp.MustCompile(`(?i)\brenumbered\s+§\s*([0-9A-Za-z.\-–()]+)`)
)

var creditMonths = map[string]time.Month{
	"Jan.":  time.January,
	"Feb.":  time.February,
	"Mar.":  time.March,
	"Apr.":  time.April,
	"May":   time.May,
	"June":  time.June,
	"July":  time.July,
	"Aug.":  time.August,
	"Sept.": time.September,
	"Oct.":  time.October,
	"Nov.":  time.November,
	"Dec.":  time.December,
}

// ParseSourceCredit parses a section's raw source-credit string into
// its legislative actions, one per semicolon-delimited segment and in
// credit order. The result always has exactly as many actions as the
// credit has segments.
func ParseSourceCredit(credit string) []domain.LegislativeAction {
	credit = strings.TrimSpace(credit)
	if credit == "" {
		return nil
	}

	body := stripEnclosure(credit)
	segments := splitTopLevel(body, ';')

	actions := make([]domain.LegislativeAction, 0, len(segments))
	for i, seg := range segments {
		actions = append(actions, parseSegment(seg, i == 0))
	}
	return actions
}

// stripEnclosure removes the enclosing parentheses and the trailing
// period of the credit block.
func stripEnclosure(s string) string {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

// splitTopLevel splits on sep outside any parenthesised group, so a
// "§8077(b), (c)" style citation never splits a segment.
func splitTopLevel(s string, sep rune) []string {
	var segments []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				segments = append(segments, strings.TrimSpace(s[start:i]))
				start = i + len(string(sep))
			}
		}
	}
	segments = append(segments, strings.TrimSpace(s[start:]))
	return segments
}

// parseSegment applies the clause rules to one credit segment.
func parseSegment(seg string, first bool) domain.LegislativeAction {
	action := domain.LegislativeAction{
		Kind:    classifySegment(seg, first),
		RawText: seg,
	}

	// Law identifier: public law, Revised Statutes, or act chapter.
	var lawEnd int
	if m := rePublicLaw.FindStringSubmatchIndex(seg); m != nil {
		action.LawID = "Pub. L. " + seg[m[2]:m[3]] + "-" + seg[m[4]:m[5]]
		lawEnd = m[1]
	} else if m := reRevStat.FindStringSubmatchIndex(seg); m != nil {
		action.LawID = "R.S. §" + seg[m[2]:m[3]]
		lawEnd = m[1]
	} else if m := reActChapter.FindStringSubmatchIndex(seg); m != nil {
		action.LawID = "ch. " + seg[m[2]:m[3]]
		lawEnd = m[1]
	}

	if m := reDivision.FindStringSubmatch(seg); m != nil {
		action.Division = m[1]
	}
	if m := reTitleInAct.FindStringSubmatch(seg); m != nil {
		action.TitleInAct = m[1]
	}
	if m := reFormerly.FindStringSubmatch(seg); m != nil {
		action.FormerNumber = trimSectionNumber(m[1])
	}

	if m := reRenumbered.FindStringSubmatch(seg); m != nil {
		// A renumbering records the new number regardless of where in
		// the segment it appears.
		action.SectionInAct = trimSectionNumber(m[1])
		action.Kind = domain.ActionRenumbered
	} else {
		action.SectionInAct = findActSection(seg, lawEnd)
	}

	if m := reCreditDate.FindStringSubmatch(seg); m != nil {
		month := creditMonths[m[1]]
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month != 0 && day > 0 {
			action.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		}
	}

	if m := reStatCite.FindStringSubmatch(seg); m != nil {
		volume, _ := strconv.Atoi(m[1])
		cite := &domain.StatCitation{Volume: volume}
		for _, p := range strings.Split(m[2], ",") {
			page, err := strconv.Atoi(strings.TrimSpace(p))
			if err == nil {
				cite.Pages = append(cite.Pages, page)
			}
		}
		action.StatutesAtLarge = cite
	}

	// Fallback rule: nothing recognisable makes the segment unparsed,
	// preserved verbatim in RawText.
	if action.LawID == "" && action.Date.IsZero() && action.StatutesAtLarge == nil &&
		action.SectionInAct == "" && action.FormerNumber == "" {
		action.Kind = domain.ActionUnparsed
	}

	return action
}

// classifySegment decides the action kind from the segment's keywords.
// The first segment is the base law unless an Added or Renumbered
// prefix overrides; later segments are amendments unless overridden.
// When both amendment and renumbering keywords appear, the more
// specific renumbering wins.
func classifySegment(seg string, first bool) domain.ActionKind {
	low := strings.ToLower(seg)

	switch {
	case strings.HasPrefix(low, "added"), strings.HasPrefix(low, "as added"):
		return domain.ActionAsAdded
	case strings.HasPrefix(low, "renumbered"):
		return domain.ActionRenumbered
	}

	if reRenumbered.MatchString(seg) {
		return domain.ActionRenumbered
	}

	if first {
		return domain.ActionBase
	}
	return domain.ActionAmended
}

// findActSection locates the in-act section citation, preferring the
// first § token after the law identifier and never mistaking a
// "formerly §N" clause for it.
func findActSection(seg string, lawEnd int) string {
	matches := reActSection.FindAllStringSubmatchIndex(seg, -1)
	if matches == nil {
		return ""
	}

	var formerSpan []int
	if m := reFormerly.FindStringIndex(seg); m != nil {
		formerSpan = m
	}

	for _, m := range matches {
		if formerSpan != nil && m[0] >= formerSpan[0] && m[0] < formerSpan[1] {
			continue
		}
		// Tokens inside the law identifier itself (R.S. §161) are not
		// in-act sections.
		if m[0] < lawEnd {
			continue
		}
		if sec := trimSectionNumber(seg[m[2]:m[3]]); sec != "" {
			return sec
		}
	}
	return ""
}

// trimSectionNumber drops the punctuation a section token drags along
// from the surrounding prose.
func trimSectionNumber(s string) string {
	return strings.Trim(s, ".,")
}
