package xmldoc

import "strings"

// Node is one element of the parsed document. Nodes are owned by the
// document tree and must be treated as read-only after parsing.
type Node struct {
	// Tag is the element's local name with the namespace stripped.
	Tag string

	// Attrs holds the element attributes by local name.
	Attrs map[string]string

	// Text is the character data before the first child element.
	Text string

	// Tail is the character data following this element within its
	// parent, up to the next sibling.
	Tail string

	// Parent is the enclosing element, nil for the root.
	Parent *Node

	// Children are the child elements in document order.
	Children []*Node
}

// Attr returns the value of an attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text content of the first direct child
// with the given tag, or "" when the child is absent.
func (n *Node) ChildText(tag string) string {
	c := n.Child(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.AllText())
}

// AllText concatenates the element's entire text content in document
// order, including child text and tails, separated where the markup
// separated it. Leading and trailing whitespace of each fragment is
// preserved; callers normalise as needed.
func (n *Node) AllText() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		c.writeText(b)
		b.WriteString(c.Tail)
	}
}

// Walk visits the node and every descendant in document order. The
// visit function returns false to prune the subtree below a node.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// CountDescendants returns the number of descendant elements (the node
// itself excluded) whose tag is in the given set.
func (n *Node) CountDescendants(tags map[string]bool) int {
	count := 0
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if tags[d.Tag] {
				count++
			}
			return true
		})
	}
	return count
}
