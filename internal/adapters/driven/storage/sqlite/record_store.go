package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/uscode-cli/internal/core/domain"
	"github.com/custodia-labs/uscode-cli/internal/core/ports/driven"
)

// recordStore implements driven.RecordStore using SQLite.
type recordStore struct {
	store *Store
}

// Compile-time interface compliance check.
var _ driven.RecordStore = (*recordStore)(nil)

// SaveResult stores a run's records and processing notes in one
// transaction, replacing any previous rows for the same source file.
func (r *recordStore) SaveResult(ctx context.Context, result *domain.ExtractionResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil result", domain.ErrInvalidInput)
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM section_records WHERE source_file = ?", result.SourceFile); err != nil {
		return fmt.Errorf("clearing previous records: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM processing_notes WHERE source_file = ?", result.SourceFile); err != nil {
		return fmt.Errorf("clearing previous notes: %w", err)
	}

	insertRecord, err := tx.PrepareContext(ctx, `
		INSERT INTO section_records (
			id, run_id, source_file, seq,
			citation, parent_citation, title_number, section_number,
			heading, full_text, content_hash, subsection_count, status,
			guid, identifier_path, temporal_id, legacy_name,
			source_credit, unparsed_count,
			path_json, actions_json, amendments_json, crossrefs_json, notes_json,
			extracted_at, engine_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer insertRecord.Close()

	for i, rec := range result.Records {
		pathJSON, err := json.Marshal(rec.Path)
		if err != nil {
			return fmt.Errorf("marshalling path for %s: %w", rec.Citation, err)
		}
		actionsJSON, err := json.Marshal(rec.Actions)
		if err != nil {
			return fmt.Errorf("marshalling actions for %s: %w", rec.Citation, err)
		}
		amendmentsJSON, err := json.Marshal(rec.Amendments)
		if err != nil {
			return fmt.Errorf("marshalling amendments for %s: %w", rec.Citation, err)
		}
		crossrefsJSON, err := json.Marshal(rec.CrossRefs)
		if err != nil {
			return fmt.Errorf("marshalling cross-references for %s: %w", rec.Citation, err)
		}
		notesJSON, err := json.Marshal(rec.Notes)
		if err != nil {
			return fmt.Errorf("marshalling notes for %s: %w", rec.Citation, err)
		}

		unparsed := 0
		for _, a := range rec.Actions {
			if a.Kind == domain.ActionUnparsed {
				unparsed++
			}
		}

		_, err = insertRecord.ExecContext(ctx,
			uuid.NewString(), result.RunID, result.SourceFile, i,
			rec.Citation, rec.ParentCitation, rec.TitleNumber, rec.SectionNumber,
			rec.Heading, rec.FullText, rec.ContentHash, rec.SubsectionCount, rec.Status,
			rec.IDs.GUID, rec.IDs.IdentifierPath, rec.IDs.TemporalID, rec.IDs.LegacyName,
			rec.SourceCredit, unparsed,
			string(pathJSON), string(actionsJSON), string(amendmentsJSON), string(crossrefsJSON), string(notesJSON),
			result.ExtractedAt.UTC().Format(time.RFC3339), result.EngineVersion,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.Citation, err)
		}
	}

	for _, note := range result.Notes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO processing_notes (run_id, source_file, kind, section_id, detail)
			VALUES (?, ?, ?, ?, ?)
		`, result.RunID, result.SourceFile, string(note.Kind), note.SectionID, note.Detail)
		if err != nil {
			return fmt.Errorf("inserting processing note: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListRecords returns stored records matching the filter, ordered by
// title and document position.
func (r *recordStore) ListRecords(ctx context.Context, filter driven.RecordFilter) ([]domain.SectionRecord, error) {
	query := `
		SELECT citation, parent_citation, title_number, section_number,
		       heading, full_text, content_hash, subsection_count, status,
		       guid, identifier_path, temporal_id, legacy_name,
		       source_credit, path_json, actions_json, amendments_json, crossrefs_json, notes_json
		FROM section_records
		WHERE 1=1
	`
	var args []any

	if filter.TitleNumber != "" {
		query += " AND title_number = ?"
		args = append(args, filter.TitleNumber)
	}
	if filter.SectionNumber != "" {
		query += " AND section_number = ?"
		args = append(args, filter.SectionNumber)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY title_number, seq"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.SectionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// CountByStatus returns per-status record counts for one title, or
// for the whole store when title is empty.
func (r *recordStore) CountByStatus(ctx context.Context, title string) (map[string]int, error) {
	query := "SELECT status, COUNT(*) FROM section_records"
	var args []any
	if title != "" {
		query += " WHERE title_number = ?"
		args = append(args, title)
	}
	query += " GROUP BY status"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return counts, nil
}

// CountUnparsedSegments returns the number of stored unparsed actions
// grouped by title.
func (r *recordStore) CountUnparsedSegments(ctx context.Context) (map[string]int, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT title_number, SUM(unparsed_count)
		FROM section_records
		WHERE unparsed_count > 0
		GROUP BY title_number
	`)
	if err != nil {
		return nil, fmt.Errorf("counting unparsed segments: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var title string
		var n int
		if err := rows.Scan(&title, &n); err != nil {
			return nil, fmt.Errorf("scanning unparsed count: %w", err)
		}
		counts[title] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unparsed counts: %w", err)
	}
	return counts, nil
}

// scanRecord reads one section record row, rehydrating the JSON
// columns into their domain types.
func scanRecord(rows *sql.Rows) (domain.SectionRecord, error) {
	var rec domain.SectionRecord
	var parentCitation, heading, guid, temporalID, legacyName, sourceCredit sql.NullString
	var pathJSON, actionsJSON, amendmentsJSON, crossrefsJSON, notesJSON string

	err := rows.Scan(
		&rec.Citation, &parentCitation, &rec.TitleNumber, &rec.SectionNumber,
		&heading, &rec.FullText, &rec.ContentHash, &rec.SubsectionCount, &rec.Status,
		&guid, &rec.IDs.IdentifierPath, &temporalID, &legacyName,
		&sourceCredit, &pathJSON, &actionsJSON, &amendmentsJSON, &crossrefsJSON, &notesJSON,
	)
	if err != nil {
		return rec, fmt.Errorf("scanning record: %w", err)
	}

	rec.ParentCitation = parentCitation.String
	rec.Heading = heading.String
	rec.IDs.GUID = guid.String
	rec.IDs.TemporalID = temporalID.String
	rec.IDs.LegacyName = legacyName.String
	rec.SourceCredit = sourceCredit.String

	if err := json.Unmarshal([]byte(pathJSON), &rec.Path); err != nil {
		return rec, fmt.Errorf("unmarshalling path for %s: %w", rec.Citation, err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &rec.Actions); err != nil {
		return rec, fmt.Errorf("unmarshalling actions for %s: %w", rec.Citation, err)
	}
	if err := json.Unmarshal([]byte(amendmentsJSON), &rec.Amendments); err != nil {
		return rec, fmt.Errorf("unmarshalling amendments for %s: %w", rec.Citation, err)
	}
	if err := json.Unmarshal([]byte(crossrefsJSON), &rec.CrossRefs); err != nil {
		return rec, fmt.Errorf("unmarshalling cross-references for %s: %w", rec.Citation, err)
	}
	if err := json.Unmarshal([]byte(notesJSON), &rec.Notes); err != nil {
		return rec, fmt.Errorf("unmarshalling notes for %s: %w", rec.Citation, err)
	}
	return rec, nil
}
