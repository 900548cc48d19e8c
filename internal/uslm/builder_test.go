package uslm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
)

func fullPath() domain.HierarchyPath {
	return domain.HierarchyPath{
		Entries: []domain.HierarchyEntry{
			{Level: domain.LevelTitle, Number: "5", Name: "Government Organization and Employees"},
			{Level: domain.LevelChapter, Number: "12", Name: "Merit Systems Protection Board"},
			{Level: domain.LevelSubchapter, Number: "I", Name: "Board"},
		},
	}
}

func TestBuild(t *testing.T) {
	sec := parseDoc(t, `
<section identifier="/us/usc/t5/s1202" id="id1202" temporalId="t1202" name="s1202">
  <num value="1202">§ 1202.</num>
  <heading>Term of office</heading>
</section>`).Root

	rec, err := Build(sec, fullPath(), "§ 1202. Term of office The term is 7 years.", 3,
		"(Pub. L. 95-454.)", []domain.LegislativeAction{{Kind: domain.ActionAsAdded}},
		nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "5 U.S.C. § 1202", rec.Citation)
	assert.Equal(t, "5 U.S.C. Ch. 12, Subch. I", rec.ParentCitation)
	assert.Equal(t, "5", rec.TitleNumber)
	assert.Equal(t, "1202", rec.SectionNumber)
	assert.Equal(t, "Term of office", rec.Heading)
	assert.Equal(t, 3, rec.SubsectionCount)
	assert.Equal(t, domain.StatusOperational, rec.Status, "missing status defaults to operational")
	assert.Equal(t, domain.Identifiers{
		GUID:           "id1202",
		IdentifierPath: "/us/usc/t5/s1202",
		TemporalID:     "t1202",
		LegacyName:     "s1202",
	}, rec.IDs)
	assert.Len(t, rec.ContentHash, 64)
}

func TestBuild_HashDependsOnTextOnly(t *testing.T) {
	sec := parseDoc(t, `<section identifier="/us/usc/t5/s1"><num value="1"/></section>`).Root
	text := "Some section text."

	a, err := Build(sec, fullPath(), text, 0, "(credit one)", nil, nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)

	otherPath := domain.HierarchyPath{Entries: []domain.HierarchyEntry{
		{Level: domain.LevelTitle, Number: "7"},
	}}
	b, err := Build(sec, otherPath, text, 5, "(credit two)",
		[]domain.LegislativeAction{{Kind: domain.ActionBase}}, nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)

	assert.Equal(t, a.ContentHash, b.ContentHash, "metadata never feeds the hash")

	c, err := Build(sec, fullPath(), text+" changed", 0, "(credit one)", nil, nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ContentHash, c.ContentHash)
}

func TestBuild_StatusAttribute(t *testing.T) {
	sec := parseDoc(t, `<section identifier="/us/usc/t5/s1209" status="repealed"><num value="1209"/></section>`).Root

	rec, err := Build(sec, fullPath(), "Repealed.", 0, "", nil, nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "repealed", rec.Status)
}

func TestBuild_TitleFallsBackToIdentifier(t *testing.T) {
	sec := parseDoc(t, `<section identifier="/us/usc/t50A/s4"><num value="4"/></section>`).Root

	incomplete := domain.HierarchyPath{Incomplete: true}
	rec, err := Build(sec, incomplete, "Text.", 0, "", nil, nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "50A", rec.TitleNumber)
	assert.Equal(t, "50A U.S.C. § 4", rec.Citation)
	assert.Equal(t, "", rec.ParentCitation)
}

func TestBuild_ParentCitationChapterOnly(t *testing.T) {
	sec := parseDoc(t, `<section identifier="/us/usc/t5/s1301"><num value="1301"/></section>`).Root

	path := domain.HierarchyPath{Entries: []domain.HierarchyEntry{
		{Level: domain.LevelTitle, Number: "5"},
		{Level: domain.LevelChapter, Number: "13"},
	}}
	rec, err := Build(sec, path, "Text.", 0, "", nil, nil, domain.CrossReferences{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "5 U.S.C. Ch. 13", rec.ParentCitation)
}

func TestBuild_MissingIdentifier(t *testing.T) {
	sec := parseDoc(t, `<section id="orphan"><num value="9"/></section>`).Root

	_, err := Build(sec, fullPath(), "Text.", 0, "", nil, nil, domain.CrossReferences{}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingAttribute)
}

func TestBuild_MissingText(t *testing.T) {
	sec := parseDoc(t, `<section identifier="/us/usc/t5/s1"><num value="1"/></section>`).Root

	_, err := Build(sec, fullPath(), "", 0, "", nil, nil, domain.CrossReferences{}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingAttribute)
}
