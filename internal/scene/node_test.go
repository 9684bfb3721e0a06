package scene

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_AttributesKeepOrder(t *testing.T) {
	n := NewNode("g").SetAttr("class", "row").SetAttr("fill", "red")
	n.SetAttr("class", "row active")

	assert.Equal(t, []Attr{{"class", "row active"}, {"fill", "red"}}, n.Attrs())
	assert.True(t, n.HasClass("active"))
	assert.False(t, n.HasClass("ro"))

	n.RemoveAttr("class")
	_, ok := n.Attr("class")
	assert.False(t, ok)
}

func TestNode_TreeOperations(t *testing.T) {
	root := NewNode("g")
	a := root.Append(NewNode("a"))
	c := root.Append(NewNode("c"))
	b := root.InsertBefore(NewNode("b"), c)

	assert.Equal(t, []*Node{a, b, c}, root.Children())
	assert.Same(t, root, b.Parent())
	assert.Equal(t, 4, root.Count())

	// Appending an attached node moves it.
	other := NewNode("g")
	other.Append(a)
	assert.Equal(t, []*Node{b, c}, root.Children())
	assert.Same(t, other, a.Parent())

	assert.True(t, root.Remove(b))
	assert.False(t, root.Remove(b))
	assert.Nil(t, b.Parent())
}

func TestNode_Find(t *testing.T) {
	root := NewNode("svg")
	row := root.Append(NewNode("g").SetAttr("class", "row"))
	row.Append(NewNode("a").SetAttr("class", "row__point"))
	row.Append(NewNode("a").SetAttr("class", "row__point"))
	row.Append(NewNode("text").SetAttr("class", "row__label"))

	assert.Len(t, root.Find("a", "row__point"), 2)
	assert.Len(t, root.Find("a", ""), 2)
	assert.NotNil(t, row.Select("text", "row__label"))
	assert.Nil(t, root.Select("text", "row__label"), "Select only looks at direct children")
}

func TestScene_WriteSVG(t *testing.T) {
	s := New()
	svg := s.Root.Append(NewNode("svg").SetAttr("xmlns", SVGNamespace).SetAttr("width", "800"))
	a := svg.Append(NewNode("a").SetAttr("href", `https://example.org/?a=1&b="2"`))
	a.Append(NewNode("circle").SetAttr("r", "3"))
	a.Append(NewNode("title").SetText("<abc>: 1/1/2020"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteSVG(&buf))
	assert.Equal(t,
		`<svg xmlns="http://www.w3.org/2000/svg" width="800">`+
			`<a href="https://example.org/?a=1&amp;b=&quot;2&quot;"><circle r="3"/><title>&lt;abc&gt;: 1/1/2020</title></a>`+
			`</svg>`,
		buf.String())
	assert.Same(t, svg, s.Canvas())
	assert.Equal(t, 4, s.Count())

	buf.Reset()
	require.NoError(t, s.WriteDocument(&buf))
	assert.Contains(t, buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`)
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&quot;&apos;", escapeXML(`&<>"'`))
	assert.Equal(t, "plain", escapeXML("plain"))
	assert.Equal(t, "a\uFFFDb\uFFFDc", escapeXML("a\x01b\x1fc"))
	assert.Equal(t, "tab\tnew\nline\r", escapeXML("tab\tnew\nline\r"))
	assert.Equal(t, "\uFFFD", escapeXML("\uFFFE"))
}

func TestScene_WriteSVGIsWellFormedWithControlCharacters(t *testing.T) {
	s := New()
	svg := s.Root.Append(NewNode("svg")).SetAttr("xmlns", SVGNamespace)
	svg.Append(NewNode("a")).SetAttr("href", "x\x01y").
		Append(NewNode("title")).SetText("id\x00\x07: name")

	var buf bytes.Buffer
	require.NoError(t, s.WriteSVG(&buf))

	dec := xml.NewDecoder(&buf)
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
}
