package driven

import (
	"context"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
)

// RecordWriter serialises an extraction result. The engine itself
// performs no I/O; writers consume the ordered record sequence it
// hands over.
type RecordWriter interface {
	// Write serialises one extraction result to the writer's output
	// location, derived from the result's source file name.
	Write(ctx context.Context, result *domain.ExtractionResult) error

	// Format returns the writer's format name ("json", "csv").
	Format() string
}
