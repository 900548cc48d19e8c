package driven

import "context"

// CorpusFetcher downloads the bulk USLM XML release into the local
// data directory.
type CorpusFetcher interface {
	// Fetch downloads and unpacks the full release archive. When the
	// data directory already holds title XML files it returns without
	// downloading unless force is set.
	Fetch(ctx context.Context, force bool) error

	// FetchTitle downloads a single title's archive. Requests are
	// rate-limited out of politeness to the release server.
	FetchTitle(ctx context.Context, title string, force bool) error

	// DataDir returns the directory the corpus is unpacked into.
	DataDir() string
}
