// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - RecordStore: Extracted section record persistence
//   - SourceFileStore: Source XML file bookkeeping
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory, applied in filename order on open.
//
// # Data Location
//
// By default, the database is stored at ~/.uscode/data/records.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
