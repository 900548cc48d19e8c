package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driving"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService summarises persisted extraction output.
type ReportService struct {
	store driven.RecordStore
}

// NewReportService creates a new report service.
func NewReportService(store driven.RecordStore) *ReportService {
	return &ReportService{store: store}
}

// TitleStats reports stored-record stats for one title, or store-wide
// totals when title is empty.
func (s *ReportService) TitleStats(ctx context.Context, title string) (*driving.TitleStats, error) {
	byStatus, err := s.store.CountByStatus(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	unparsed, err := s.store.CountUnparsedSegments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unparsed segments: %w", err)
	}

	stats := &driving.TitleStats{
		TitleNumber:     title,
		RecordsByStatus: byStatus,
	}
	if title == "" {
		for _, n := range unparsed {
			stats.UnparsedSegments += n
		}
	} else {
		stats.UnparsedSegments = unparsed[title]
	}
	return stats, nil
}
