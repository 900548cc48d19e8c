// Package loader implements the DocumentLoader port over the local
// XML data directory. Parsed trees are cached in a small LRU so
// repeated commands over the same titles avoid re-parsing multi-
// megabyte files.
package loader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
	"github.com/custodia-labs/uscode-cli/internal/logger"
	"github.com/custodia-labs/uscode-cli/internal/uslm/xmldoc"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// defaultCacheSize bounds the number of parsed documents held in
// memory. Title trees are large; a handful is plenty for CLI use.
const defaultCacheSize = 8

// cacheEntry pairs a parsed tree with the fingerprint of the file it
// came from, so a changed file on disk invalidates the cached tree.
type cacheEntry struct {
	doc  *xmldoc.Document
	hash string
}

// Loader loads USLM title files from a data directory.
type Loader struct {
	dataDir string
	cache   *lru.Cache[string, cacheEntry]
}

// New creates a loader over dataDir. cacheSize 0 selects the default.
func New(dataDir string, cacheSize int) (*Loader, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create document cache: %w", err)
	}
	return &Loader{dataDir: dataDir, cache: cache}, nil
}

// Load parses the XML file at path, serving from cache when the file
// is unchanged since it was last parsed.
func (l *Loader) Load(ctx context.Context, path string) (*xmldoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := l.resolve(path)
	info, err := l.Describe(ctx, path)
	if err != nil {
		return nil, err
	}

	if entry, ok := l.cache.Get(full); ok && entry.hash == info.ContentHash {
		logger.Debug("Document cache hit: %s", path)
		return entry.doc, nil
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := xmldoc.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDocumentLoad, path, err)
	}

	l.cache.Add(full, cacheEntry{doc: doc, hash: info.ContentHash})
	return doc, nil
}

// ListTitles returns the usc*.xml files under the data directory,
// sorted by filename so titles come out in numeric order.
func (l *Loader) ListTitles(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCorpusMissing
		}
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "usc") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		paths = append(paths, name)
	}
	sort.Strings(paths)
	return paths, nil
}

// Describe fingerprints the file at path for change bookkeeping.
func (l *Loader) Describe(_ context.Context, path string) (driven.SourceFileInfo, error) {
	full := l.resolve(path)

	stat, err := os.Stat(full)
	if err != nil {
		return driven.SourceFileInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.Open(full)
	if err != nil {
		return driven.SourceFileInfo{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return driven.SourceFileInfo{}, fmt.Errorf("hash %s: %w", path, err)
	}

	return driven.SourceFileInfo{
		Path:        path,
		Size:        stat.Size(),
		ModTime:     stat.ModTime(),
		ContentHash: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// resolve joins relative paths onto the data directory; absolute paths
// pass through unchanged.
func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.dataDir, path)
}
