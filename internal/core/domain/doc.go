// Package domain holds the core value types produced by the extraction
// engine: section records, hierarchy paths, legislative actions and
// cross-references.
//
// All types here are plain immutable values. Once a SectionRecord is
// built it is never mutated; re-running extraction over an unchanged
// XML snapshot yields byte-identical content hashes.
//
// # Import Rules
//
//   - Can Import: standard library only
//   - Cannot Import: Any port, service, or adapter package
package domain
