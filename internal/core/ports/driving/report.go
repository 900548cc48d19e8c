package driving

import "context"

// TitleStats summarises stored records for one Code title.
type TitleStats struct {
	// TitleNumber is the Code title the stats cover; empty for
	// store-wide totals.
	TitleNumber string

	// RecordsByStatus counts records per section status.
	RecordsByStatus map[string]int

	// UnparsedSegments counts source-credit segments no grammar rule
	// matched.
	UnparsedSegments int
}

// ReportService summarises persisted extraction output.
type ReportService interface {
	// TitleStats reports stats for one title, or store-wide totals
	// when title is empty.
	TitleStats(ctx context.Context, title string) (*TitleStats, error)
}
