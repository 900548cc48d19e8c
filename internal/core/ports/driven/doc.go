// Package driven defines the interfaces that core calls OUT to
// infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal
// architecture. Core services depend on these interfaces, and
// infrastructure adapters implement them.
//
// # Required Interfaces
//
//   - DocumentLoader: Supplies parsed, read-only USLM document trees
//   - RecordWriter: Serialises extraction results (JSON, CSV)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CorpusFetcher: Bulk XML download. Without it, the data directory
//     must be populated manually.
//   - RecordStore: Record persistence for later querying. Without it,
//     the records and stats commands are disabled.
//   - SourceFileStore: File-modification bookkeeping. Without it,
//     every extraction reprocesses every file.
//
// # Import Rules
//
//   - Can Import: domain and uslm/xmldoc packages only
//   - Cannot Import: Any adapter or service package
package driven
