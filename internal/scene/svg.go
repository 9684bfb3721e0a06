package scene

import (
	"io"
	"strings"
)

// SVGNamespace is the namespace of the root svg element.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Scene is the persistent element tree of a timeline. Root stands for the
// host container the canvas is drawn into.
type Scene struct {
	Root *Node
}

// New returns an empty scene with a container root.
func New() *Scene {
	return &Scene{Root: NewNode("div").SetAttr("id", "container")}
}

// Canvas returns the svg element of the scene, or nil before the first render.
func (s *Scene) Canvas() *Node {
	return s.Root.Select("svg", "")
}

// Count returns the number of elements below the container.
func (s *Scene) Count() int {
	return s.Root.Count() - 1
}

// WriteSVG writes the canvas markup suitable for embedding in HTML.
func (s *Scene) WriteSVG(w io.Writer) error {
	var b strings.Builder
	for _, c := range s.Root.SelectAll("svg", "") {
		writeNode(&b, c)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDocument writes the canvas as a standalone SVG file.
func (s *Scene) WriteDocument(w io.Writer) error {
	if _, err := io.WriteString(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"); err != nil {
		return err
	}
	if err := s.WriteSVG(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// String returns the markup of the subtree rooted at n.
func (n *Node) String() string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escapeXML(a.Value))
		b.WriteByte('"')
	}
	if len(n.children) == 0 && n.text == "" {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	b.WriteString(escapeXML(n.text))
	for _, c := range n.children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// escapeXML replaces the XML special characters &, <, >, " and ' with their
// entity references so text and attribute values cannot break the markup.
// Runes XML 1.0 does not allow, such as C0 control characters, become U+FFFD.
func escapeXML(s string) string {
	s = strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return '\uFFFD'
	}, s)
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

// isXMLChar reports whether r matches the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
