/*
Package scene is a small retained element tree that a timeline is drawn into.

A Scene is created once and then mutated in place on every render. Elements
that stand for data carry a Key, and Join reconciles a parent's keyed
children against the keys of the current data: unknown keys are created,
known keys are kept (and updated by the caller), and keys that disappeared
are removed. Running the same join twice is a no-op, so a scene can be
re-rendered any number of times without duplicating elements.

The tree serializes to SVG markup.
*/
package scene

import "strings"

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is an element of the scene tree.
type Node struct {
	Tag string
	// Key identifies the datum the node is bound to. Empty for unbound nodes.
	Key string

	attrs    []Attr
	text     string
	children []*Node
	parent   *Node
}

// NewNode returns a detached element.
func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// SetAttr sets an attribute and returns n. An existing attribute keeps its
// position so repeated updates serialize identically.
func (n *Node) SetAttr(name, value string) *Node {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return n
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	return n
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attributes in serialization order.
func (n *Node) Attrs() []Attr {
	return append([]Attr(nil), n.attrs...)
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// HasClass reports whether class is one of n's space separated classes.
func (n *Node) HasClass(class string) bool {
	v, _ := n.Attr("class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// SetText replaces the node's text content and returns n.
func (n *Node) SetText(text string) *Node {
	n.text = text
	return n
}

// Text returns the node's text content.
func (n *Node) Text() string { return n.text }

// Parent returns the node's parent, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in document order. The slice must
// not be modified.
func (n *Node) Children() []*Node { return n.children }

// Append adds child as the last child of n and returns child.
func (n *Node) Append(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref, or last when ref is nil or not a
// child of n. It returns child.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	if i := n.indexOf(ref); ref != nil && i >= 0 {
		n.children = append(n.children, nil)
		copy(n.children[i+1:], n.children[i:])
		n.children[i] = child
		return child
	}
	n.children = append(n.children, child)
	return child
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	i := n.indexOf(child)
	if i < 0 {
		return false
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
	return true
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Matches reports whether n has the given tag and, when class is not empty,
// the given class.
func (n *Node) Matches(tag, class string) bool {
	return n.Tag == tag && (class == "" || n.HasClass(class))
}

// Select returns the first direct child matching tag and class.
func (n *Node) Select(tag, class string) *Node {
	for _, c := range n.children {
		if c.Matches(tag, class) {
			return c
		}
	}
	return nil
}

// SelectAll returns the direct children matching tag and class.
func (n *Node) SelectAll(tag, class string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Matches(tag, class) {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Find returns every node in the subtree matching tag and class.
func (n *Node) Find(tag, class string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Matches(tag, class) {
			out = append(out, c)
		}
		return true
	})
	return out
}
