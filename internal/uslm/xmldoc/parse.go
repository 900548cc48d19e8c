package xmldoc

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Document is a parsed USLM document.
type Document struct {
	// Root is the document element (uscDoc for USC title files).
	Root *Node
}

// Parse reads an XML stream into a document tree. Any well-formedness
// error is fatal: partial trees are never returned.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var root *Node
	var current *Node

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:    t.Name.Local,
				Parent: current,
			}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					// Later duplicates (namespaced variants) do not
					// clobber an already-seen local name.
					if _, seen := node.Attrs[a.Name.Local]; !seen {
						node.Attrs[a.Name.Local] = a.Value
					}
				}
			}
			if current == nil {
				if root != nil {
					return nil, fmt.Errorf("parsing XML: multiple root elements")
				}
				root = node
			} else {
				current.Children = append(current.Children, node)
			}
			current = node

		case xml.EndElement:
			if current == nil {
				return nil, fmt.Errorf("parsing XML: unbalanced end element %q", t.Name.Local)
			}
			current = current.Parent

		case xml.CharData:
			if current == nil {
				continue // whitespace outside the root
			}
			text := string(t)
			if len(current.Children) == 0 {
				current.Text += text
			} else {
				last := current.Children[len(current.Children)-1]
				last.Tail += text
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing XML: empty document")
	}
	if current != nil {
		return nil, fmt.Errorf("parsing XML: unclosed element %q", current.Tag)
	}

	return &Document{Root: root}, nil
}
