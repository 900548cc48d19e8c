// Package xmldoc builds a read-only in-memory tree from a USLM XML
// stream. The tree keeps parent links, attribute maps and both the
// text and tail of each element, which the extraction engine needs for
// ancestor reconstruction and document-order text assembly.
//
// Namespaces are stripped: USLM, Dublin Core and XHTML elements are
// addressed by local name only.
package xmldoc
