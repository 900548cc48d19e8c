package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driving"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// fakeLoader serves documents from an in-memory map.
type fakeLoader struct {
	docs  map[string]string
	infos map[string]driven.SourceFileInfo
}

func (f *fakeLoader) Load(_ context.Context, path string) (*xmldoc.Document, error) {
	src, ok := f.docs[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, domain.ErrNotFound)
	}
	return xmldoc.Parse(strings.NewReader(src))
}

func (f *fakeLoader) ListTitles(_ context.Context) ([]string, error) {
	var paths []string
	for p := range f.docs {
		paths = append(paths, p)
	}
	return paths, nil
}

func (f *fakeLoader) Describe(_ context.Context, path string) (driven.SourceFileInfo, error) {
	return f.infos[path], nil
}

// fakeRecordStore captures saved results.
type fakeRecordStore struct {
	saved []*domain.ExtractionResult
}

func (f *fakeRecordStore) SaveResult(_ context.Context, result *domain.ExtractionResult) error {
	f.saved = append(f.saved, result)
	return nil
}

func (f *fakeRecordStore) ListRecords(_ context.Context, _ driven.RecordFilter) ([]domain.SectionRecord, error) {
	return nil, nil
}

func (f *fakeRecordStore) CountByStatus(_ context.Context, _ string) (map[string]int, error) {
	return nil, nil
}

func (f *fakeRecordStore) CountUnparsedSegments(_ context.Context) (map[string]int, error) {
	return nil, nil
}

// fakeSourceFileStore is an in-memory bookkeeping table.
type fakeSourceFileStore struct {
	rows map[string]driven.SourceFileInfo
}

func (f *fakeSourceFileStore) Get(_ context.Context, path string) (*driven.SourceFileInfo, error) {
	row, ok := f.rows[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (f *fakeSourceFileStore) Put(_ context.Context, info driven.SourceFileInfo) error {
	if f.rows == nil {
		f.rows = make(map[string]driven.SourceFileInfo)
	}
	f.rows[info.Path] = info
	return nil
}

// titleXML builds a minimal title document with n consecutively
// numbered sections.
func titleXML(title string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<uscDoc><main><title identifier="/us/usc/t%s"><num value="%s"/>`, title, title)
	b.WriteString(`<chapter><num value="1"/>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<section identifier="/us/usc/t%s/s%d"><num value="%d">§ %d.</num>`+
			`<heading>Section %d</heading><content>Text of section %d.</content>`+
			`<sourceCredit>(Pub. L. 89-554, Sept. 6, 1966, 80 Stat. %d.)</sourceCredit></section>`,
			title, i, i, i, i, i, 400+i)
	}
	b.WriteString(`</chapter></title></main></uscDoc>`)
	return b.String()
}

func fixedClock() Clock {
	return func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestExtractFile_RecordsInDocumentOrder(t *testing.T) {
	loader := &fakeLoader{docs: map[string]string{"usc05.xml": titleXML("5", 20)}}
	orch := NewExtractOrchestrator(loader, nil, nil, fixedClock(), "1.0.0")

	// Several workers so completion order differs from document order.
	result, err := orch.ExtractFile(context.Background(), "usc05.xml",
		driving.ExtractOptions{Workers: 4})
	require.NoError(t, err)
	require.Len(t, result.Records, 20)

	for i, rec := range result.Records {
		assert.Equal(t, fmt.Sprintf("5 U.S.C. § %d", i+1), rec.Citation)
	}

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "usc05.xml", result.SourceFile)
	assert.Equal(t, "1.0.0", result.EngineVersion)
	assert.Equal(t, fixedClock()(), result.ExtractedAt)
	assert.Empty(t, result.Notes)
}

func TestExtractFile_AmendmentsAndMarkupRefs(t *testing.T) {
	doc := `<uscDoc><main><title identifier="/us/usc/t5"><num value="5"/><chapter><num value="1"/>
		<section identifier="/us/usc/t5/s1"><num value="1">§ 1.</num><heading>One</heading>
		<content>See <ref href="/us/usc/t5/s2">section 2 of this title</ref>.</content>
		<sourceCredit>(Pub. L. 95-454, Oct. 13, 1978, 92 Stat. 1121.)</sourceCredit>
		<notes><note topic="amendments"><p>1978—Pub. L. 95-454 amended section generally.</p></note></notes>
		</section></chapter></title></main></uscDoc>`
	loader := &fakeLoader{docs: map[string]string{"usc05.xml": doc}}
	orch := NewExtractOrchestrator(loader, nil, nil, fixedClock(), "1.0.0")

	result, err := orch.ExtractFile(context.Background(), "usc05.xml", driving.ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]

	require.Len(t, rec.Amendments, 1)
	assert.Equal(t, "1978", rec.Amendments[0].Year)
	assert.Equal(t, "Pub. L. 95-454", rec.Amendments[0].PublicLaw)
	assert.Equal(t, time.Date(1978, time.October, 13, 0, 0, 0, 0, time.UTC), rec.Amendments[0].Date)

	require.Len(t, rec.CrossRefs.Code, 1)
	assert.Equal(t, "5 U.S.C. § 2", rec.CrossRefs.Code[0].TargetCitation)
	assert.Equal(t, "section 2 of this title", rec.CrossRefs.Code[0].RawText)
}

func TestExtractFile_LoadFailureIsFatal(t *testing.T) {
	loader := &fakeLoader{docs: map[string]string{}}
	orch := NewExtractOrchestrator(loader, nil, nil, nil, "dev")

	_, err := orch.ExtractFile(context.Background(), "missing.xml", driving.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
}

func TestExtractFile_SkipsAndReportsBrokenSection(t *testing.T) {
	// Second section has no identifier: skipped with a note, the rest
	// of the document still extracts.
	doc := `<uscDoc><main><title><num value="5"/>
		<section identifier="/us/usc/t5/s1"><num value="1"/><content>One.</content></section>
		<section id="broken"><num value="2"/><content>Two.</content></section>
		<section identifier="/us/usc/t5/s3"><num value="3"/><content>Three.</content></section>
	</title></main></uscDoc>`
	loader := &fakeLoader{docs: map[string]string{"usc05.xml": doc}}
	orch := NewExtractOrchestrator(loader, nil, nil, nil, "dev")

	result, err := orch.ExtractFile(context.Background(), "usc05.xml",
		driving.ExtractOptions{Workers: 1})
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "5 U.S.C. § 1", result.Records[0].Citation)
	assert.Equal(t, "5 U.S.C. § 3", result.Records[1].Citation)

	require.Len(t, result.Notes, 1)
	assert.Equal(t, domain.NoteMissingAttribute, result.Notes[0].Kind)
	assert.Equal(t, "broken", result.Notes[0].SectionID)
}

func TestExtractFile_NotesForIncompletePathAndUnparsedCredit(t *testing.T) {
	doc := `<uscDoc><main>
		<section identifier="/us/usc/t5/s1"><num value="1"/><content>Orphan.</content>
			<sourceCredit>(utterly opaque provenance.)</sourceCredit>
		</section>
	</main></uscDoc>`
	loader := &fakeLoader{docs: map[string]string{"usc05.xml": doc}}
	orch := NewExtractOrchestrator(loader, nil, nil, nil, "dev")

	result, err := orch.ExtractFile(context.Background(), "usc05.xml",
		driving.ExtractOptions{Workers: 1})
	require.NoError(t, err)

	require.Len(t, result.Records, 1, "section is emitted despite its notes")
	assert.True(t, result.Records[0].Path.Incomplete)

	kinds := make(map[domain.NoteKind]int)
	for _, note := range result.Notes {
		kinds[note.Kind]++
	}
	assert.Equal(t, 1, kinds[domain.NoteMalformedHierarchy])
	assert.Equal(t, 1, kinds[domain.NoteUnparsedSegment])
}

func TestExtractFile_PersistsWhenConfigured(t *testing.T) {
	loader := &fakeLoader{
		docs:  map[string]string{"usc05.xml": titleXML("5", 2)},
		infos: map[string]driven.SourceFileInfo{"usc05.xml": {Path: "usc05.xml", Size: 100, ContentHash: "h1"}},
	}
	store := &fakeRecordStore{}
	files := &fakeSourceFileStore{}
	orch := NewExtractOrchestrator(loader, store, files, fixedClock(), "dev")

	_, err := orch.ExtractFile(context.Background(), "usc05.xml",
		driving.ExtractOptions{Workers: 1, Persist: true})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Len(t, store.saved[0].Records, 2)

	row, err := files.Get(context.Background(), "usc05.xml")
	require.NoError(t, err)
	assert.Equal(t, "h1", row.ContentHash)
	assert.Equal(t, fixedClock()(), row.ExtractedAt)
}

func TestExtractAll_SkipsUnchangedFiles(t *testing.T) {
	loader := &fakeLoader{
		docs: map[string]string{
			"usc05.xml": titleXML("5", 1),
			"usc06.xml": titleXML("6", 1),
		},
		infos: map[string]driven.SourceFileInfo{
			"usc05.xml": {Path: "usc05.xml", Size: 100, ContentHash: "same"},
			"usc06.xml": {Path: "usc06.xml", Size: 200, ContentHash: "changed"},
		},
	}
	files := &fakeSourceFileStore{rows: map[string]driven.SourceFileInfo{
		"usc05.xml": {Path: "usc05.xml", Size: 100, ContentHash: "same"},
		"usc06.xml": {Path: "usc06.xml", Size: 200, ContentHash: "old"},
	}}
	orch := NewExtractOrchestrator(loader, nil, files, fixedClock(), "dev")

	results, err := orch.ExtractAll(context.Background(), driving.ExtractOptions{Workers: 1})
	require.NoError(t, err)

	require.Len(t, results, 1, "unchanged file is skipped")
	assert.Equal(t, "usc06.xml", results[0].SourceFile)
}

func TestExtractAll_ForceExtractsEverything(t *testing.T) {
	loader := &fakeLoader{
		docs: map[string]string{
			"usc05.xml": titleXML("5", 1),
			"usc06.xml": titleXML("6", 1),
		},
		infos: map[string]driven.SourceFileInfo{
			"usc05.xml": {Path: "usc05.xml"},
			"usc06.xml": {Path: "usc06.xml"},
		},
	}
	files := &fakeSourceFileStore{rows: map[string]driven.SourceFileInfo{
		"usc05.xml": {Path: "usc05.xml"},
		"usc06.xml": {Path: "usc06.xml"},
	}}
	orch := NewExtractOrchestrator(loader, nil, files, fixedClock(), "dev")

	results, err := orch.ExtractAll(context.Background(),
		driving.ExtractOptions{Workers: 1, Force: true})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestExtractAll_EmptyCorpus(t *testing.T) {
	loader := &fakeLoader{docs: map[string]string{}}
	orch := NewExtractOrchestrator(loader, nil, nil, nil, "dev")

	_, err := orch.ExtractAll(context.Background(), driving.ExtractOptions{})
	assert.ErrorIs(t, err, domain.ErrCorpusMissing)
}

func TestExtractFile_CancelledContext(t *testing.T) {
	loader := &fakeLoader{docs: map[string]string{"usc05.xml": titleXML("5", 5)}}
	orch := NewExtractOrchestrator(loader, nil, nil, nil, "dev")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.ExtractFile(ctx, "usc05.xml", driving.ExtractOptions{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
