package driven

import (
	"context"

	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// DocumentLoader supplies parsed USLM document trees. The returned
// tree is read-only and owned by the loader; implementations may cache
// and share it across callers.
type DocumentLoader interface {
	// Load parses the XML file at path into a document tree. A file
	// that cannot be parsed returns an error wrapping
	// domain.ErrDocumentLoad; no partial tree is ever returned.
	Load(ctx context.Context, path string) (*xmldoc.Document, error)

	// ListTitles returns the title XML files present in the data
	// directory, sorted by filename.
	ListTitles(ctx context.Context) ([]string, error)

	// Describe returns the current size, modification time and
	// content hash of the file at path, for change bookkeeping.
	Describe(ctx context.Context, path string) (SourceFileInfo, error)
}
