// Package uslm is the extraction engine for USLM-encoded United
// States Code titles. It walks a parsed document, reconstructs each
// section's ancestor hierarchy, assembles normalised section text,
// parses source credits into structured legislative actions, scans for
// cross-references and composes immutable section records.
//
// The engine is stateless and section-local: no function here shares
// mutable state across sections, so callers are free to process the
// walker's output concurrently. The engine performs no I/O and emits
// no logs; all data-quality issues surface as values.
package uslm
