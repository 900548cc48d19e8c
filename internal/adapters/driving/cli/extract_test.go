package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driving"
)

// mockExtractor implements driving.Extractor for testing.
type mockExtractor struct {
	lastPath string
	lastOpts driving.ExtractOptions
}

func (m *mockExtractor) ExtractFile(_ context.Context, path string, opts driving.ExtractOptions) (*domain.ExtractionResult, error) {
	m.lastPath = path
	m.lastOpts = opts
	return &domain.ExtractionResult{
		SourceFile: path,
		Records: []domain.SectionRecord{
			{Citation: "5 U.S.C. § 1202", TitleNumber: "5", SectionNumber: "1202"},
		},
	}, nil
}

func (m *mockExtractor) ExtractAll(_ context.Context, opts driving.ExtractOptions) ([]*domain.ExtractionResult, error) {
	m.lastOpts = opts
	return []*domain.ExtractionResult{
		{SourceFile: "usc05.xml"},
		{SourceFile: "usc06.xml"},
	}, nil
}

func setupExtractTest(t *testing.T) *mockExtractor {
	t.Helper()
	mock := &mockExtractor{}
	oldExtractor := extractor
	oldOut := extractOut
	extractor = mock
	extractOut = t.TempDir()
	t.Cleanup(func() {
		extractor = oldExtractor
		extractOut = oldOut
		extractTitle = ""
		extractAll = false
		extractFormat = "json"
		extractForce = false
		extractWatch = false
	})
	return mock
}

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract [file]", extractCmd.Use)
}

func TestExtractCmd_Short(t *testing.T) {
	assert.Equal(t, "Extract section records from USLM XML", extractCmd.Short)
}

func TestExtractCmd_RequiresTarget(t *testing.T) {
	setupExtractTest(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"extract", "--out", extractOut})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "specify a file, --title, or --all")
}

func TestExtractCmd_ExtractsNamedFile(t *testing.T) {
	mock := setupExtractTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "usc05.xml", "--out", extractOut})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "usc05.xml", mock.lastPath)
	assert.True(t, mock.lastOpts.Persist)
	assert.Contains(t, buf.String(), "usc05.xml: 1 sections")
}

func TestExtractCmd_MapsTitleFlagToFileName(t *testing.T) {
	mock := setupExtractTest(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"extract", "--title", "5", "--out", extractOut})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "usc05.xml", mock.lastPath)
}

func TestExtractCmd_All(t *testing.T) {
	setupExtractTest(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"extract", "--all", "--out", extractOut})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Extracted 2 title file(s).")
}

func TestExtractCmd_RejectsUnknownFormat(t *testing.T) {
	setupExtractTest(t)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"extract", "usc05.xml", "--format", "xml", "--out", extractOut})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestNewWriter(t *testing.T) {
	w, err := newWriter("json", "")
	require.NoError(t, err)
	assert.Equal(t, "json", w.Format())

	w, err = newWriter("CSV", "")
	require.NoError(t, err)
	assert.Equal(t, "csv", w.Format())

	_, err = newWriter("yaml", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIsTitleFile(t *testing.T) {
	assert.True(t, isTitleFile("/data/usc05.xml"))
	assert.False(t, isTitleFile("/data/usc05.json"))
	assert.False(t, isTitleFile("/data/readme.xml"))
}
