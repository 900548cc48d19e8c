package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
)

// sourceFileStore implements driven.SourceFileStore using SQLite.
type sourceFileStore struct {
	store *Store
}

// Compile-time interface compliance check.
var _ driven.SourceFileStore = (*sourceFileStore)(nil)

// Get returns the bookkeeping row for a path.
func (s *sourceFileStore) Get(ctx context.Context, path string) (*driven.SourceFileInfo, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT path, size, mod_time, content_hash, extracted_at
		FROM source_files
		WHERE path = ?
	`, path)

	var info driven.SourceFileInfo
	var modTime, extractedAt string
	err := row.Scan(&info.Path, &info.Size, &modTime, &info.ContentHash, &extractedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source file %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying source file: %w", err)
	}

	if info.ModTime, err = time.Parse(time.RFC3339, modTime); err != nil {
		return nil, fmt.Errorf("parsing mod time: %w", err)
	}
	if info.ExtractedAt, err = time.Parse(time.RFC3339, extractedAt); err != nil {
		return nil, fmt.Errorf("parsing extracted time: %w", err)
	}
	return &info, nil
}

// Put stores or replaces the bookkeeping row for a path.
func (s *sourceFileStore) Put(ctx context.Context, info driven.SourceFileInfo) error {
	if info.Path == "" {
		return fmt.Errorf("%w: empty source file path", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO source_files (path, size, mod_time, content_hash, extracted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mod_time = excluded.mod_time,
			content_hash = excluded.content_hash,
			extracted_at = excluded.extracted_at
	`, info.Path, info.Size,
		info.ModTime.UTC().Format(time.RFC3339), info.ContentHash,
		info.ExtractedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting source file: %w", err)
	}
	return nil
}
