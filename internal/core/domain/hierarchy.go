package domain

// HierarchyLevel identifies one structural level of the Code between a
// title and a section. Not every level is present for every section;
// absent levels are simply omitted from the path.
type HierarchyLevel string

// Hierarchy levels in decreasing order of scope.
const (
	LevelTitle      HierarchyLevel = "title"
	LevelSubtitle   HierarchyLevel = "subtitle"
	LevelChapter    HierarchyLevel = "chapter"
	LevelSubchapter HierarchyLevel = "subchapter"
	LevelPart       HierarchyLevel = "part"
	LevelSubpart    HierarchyLevel = "subpart"
	LevelDivision   HierarchyLevel = "division"
	LevelArticle    HierarchyLevel = "article"
)

// levelRank orders levels by specificity. Higher rank means closer to
// the section.
var levelRank = map[HierarchyLevel]int{
	LevelTitle:      0,
	LevelSubtitle:   1,
	LevelChapter:    2,
	LevelSubchapter: 3,
	LevelPart:       4,
	LevelSubpart:    5,
	LevelDivision:   6,
	LevelArticle:    7,
}

// Rank returns the specificity rank of the level, with title lowest.
// Unknown levels rank below title.
func (l HierarchyLevel) Rank() int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return -1
}

// HierarchyEntry records one ancestor unit on the way down to a section.
type HierarchyEntry struct {
	// Level is the structural level of this ancestor.
	Level HierarchyLevel `json:"level"`

	// Number is the unit number as printed (e.g. "12" or "II").
	Number string `json:"number"`

	// Name is the unit heading. Empty when the XML carries none.
	Name string `json:"name,omitempty"`

	// Identifier is the USLM identifier path of the ancestor element.
	Identifier string `json:"identifier,omitempty"`
}

// HierarchyPath is the ordered ancestor chain of a section, outermost
// first. Levels appear in increasing specificity; any level other than
// title may be absent.
type HierarchyPath struct {
	// Entries holds the recognised ancestor units, title first.
	Entries []HierarchyEntry `json:"entries"`

	// InAppendix is set for sections under an appendix root rather
	// than a regular title ancestry.
	InAppendix bool `json:"in_appendix,omitempty"`

	// Incomplete is set when an expected level (at minimum the title)
	// could not be derived. The section is still emitted.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Find returns the entry for a level, if present.
func (p HierarchyPath) Find(level HierarchyLevel) (HierarchyEntry, bool) {
	for _, e := range p.Entries {
		if e.Level == level {
			return e, true
		}
	}
	return HierarchyEntry{}, false
}

// TitleNumber returns the number of the title entry, or "" when the
// path has no title ancestor.
func (p HierarchyPath) TitleNumber() string {
	if e, ok := p.Find(LevelTitle); ok {
		return e.Number
	}
	return ""
}

// Nearest returns the most specific entry among the given levels, or
// false when none is present.
func (p HierarchyPath) Nearest(levels ...HierarchyLevel) (HierarchyEntry, bool) {
	for i := len(p.Entries) - 1; i >= 0; i-- {
		for _, l := range levels {
			if p.Entries[i].Level == l {
				return p.Entries[i], true
			}
		}
	}
	return HierarchyEntry{}, false
}
