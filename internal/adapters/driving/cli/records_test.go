package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
)

// mockRecordStore implements driven.RecordStore for testing.
type mockRecordStore struct {
	records    []domain.SectionRecord
	lastFilter driven.RecordFilter
}

func (m *mockRecordStore) SaveResult(_ context.Context, _ *domain.ExtractionResult) error {
	return nil
}

func (m *mockRecordStore) ListRecords(_ context.Context, filter driven.RecordFilter) ([]domain.SectionRecord, error) {
	m.lastFilter = filter
	return m.records, nil
}

func (m *mockRecordStore) CountByStatus(_ context.Context, _ string) (map[string]int, error) {
	return nil, nil
}

func (m *mockRecordStore) CountUnparsedSegments(_ context.Context) (map[string]int, error) {
	return nil, nil
}

func setupRecordsTest(t *testing.T, records []domain.SectionRecord) *mockRecordStore {
	t.Helper()
	mock := &mockRecordStore{records: records}
	oldStore := recordStore
	recordStore = mock
	t.Cleanup(func() {
		recordStore = oldStore
		recordsTitle = ""
		recordsSection = ""
		recordsStatus = ""
		recordsLimit = 0
	})
	return mock
}

func TestRecordsCmd_Use(t *testing.T) {
	assert.Equal(t, "records", recordsCmd.Use)
}

func TestRecordsCmd_PrintsRecords(t *testing.T) {
	setupRecordsTest(t, []domain.SectionRecord{
		{Citation: "5 U.S.C. § 1201", Heading: "Appointment of members", Status: domain.StatusOperational},
		{Citation: "5 U.S.C. § 1209", Heading: "Transferred", Status: domain.StatusRepealed},
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"records"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "5 U.S.C. § 1201")
	assert.Contains(t, buf.String(), "[repealed]")
	assert.Contains(t, buf.String(), "2 record(s).")
}

func TestRecordsCmd_PassesFilterFlags(t *testing.T) {
	mock := setupRecordsTest(t, nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"records", "--title", "5", "--section", "1202", "--status", "operational", "--limit", "10"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, driven.RecordFilter{
		TitleNumber:   "5",
		SectionNumber: "1202",
		Status:        "operational",
		Limit:         10,
	}, mock.lastFilter)
	assert.Contains(t, buf.String(), "No records found")
}
