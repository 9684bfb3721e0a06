package render

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/layout"
	"github.com/grahamc/nix-channel-monitor/internal/scene"
)

var (
	jan = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	mar = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	jun = time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
)

func unstable() channel.Channel {
	return channel.Channel{
		Name:    "nixos-unstable",
		History: []channel.Event{{ID: "abc123", Time: jan}, {ID: "def456", Time: jun}},
	}
}

func draw(s *scene.Scene, width float64, data []channel.Channel) (layout.Geometry, Report) {
	g := layout.Planner{Location: time.UTC}.Compute(width, data)
	return g, Reconcile(s, g, data)
}

func attr(t *testing.T, n *scene.Node, name string) string {
	t.Helper()
	v, ok := n.Attr(name)
	require.True(t, ok, "missing attribute %q on <%s>", name, n.Tag)
	return v
}

// pointX extracts x from "translate(x y)".
func pointX(t *testing.T, n *scene.Node) float64 {
	t.Helper()
	v := strings.TrimSuffix(strings.TrimPrefix(attr(t, n, "transform"), "translate("), ")")
	x, err := strconv.ParseFloat(strings.Fields(v)[0], 64)
	require.NoError(t, err)
	return x
}

func TestReconcile_Scenario(t *testing.T) {
	s := scene.New()
	g, _ := draw(s, 1000, []channel.Channel{unstable()})

	svg := s.Canvas()
	require.NotNil(t, svg)
	assert.Equal(t, "0 0 1000 40", attr(t, svg, "viewBox"))
	assert.Equal(t, "1000", attr(t, svg, "width"))
	assert.Equal(t, "40", attr(t, svg, "height"))

	rows := svg.SelectAll("g", ClassRow)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "nixos-unstable", row.Key)
	assert.Equal(t, "translate(40 0)", attr(t, row, "transform"))
	assert.Equal(t, "#1f77b4", attr(t, row, "fill"))
	assert.Equal(t, "#1f77b4", attr(t, row, "stroke"))

	points := row.SelectAll("a", ClassPoint)
	require.Len(t, points, 2)
	assert.Equal(t, "abc123", points[0].Key)
	assert.Equal(t, "def456", points[1].Key)
	assert.Equal(t, "https://github.com/NixOS/nixpkgs/commit/abc123", attr(t, points[0], "href"))
	assert.Equal(t, "https://github.com/NixOS/nixpkgs/commit/def456", attr(t, points[1], "href"))
	assert.Less(t, pointX(t, points[0]), pointX(t, points[1]))
	assert.Equal(t, "translate(40 5)", attr(t, points[0], "transform"))
	assert.Equal(t, "translate(990 5)", attr(t, points[1], "transform"))

	for _, p := range points {
		require.Len(t, p.Children(), 2)
		assert.Equal(t, "3", attr(t, p.Select("circle", ""), "r"))
	}
	assert.Equal(t, "abc123: 1/1/2020, 12:00:00 AM", points[0].Select("title", "").Text())

	label := row.Select("text", ClassLabel)
	require.NotNil(t, label)
	assert.Equal(t, "nixos-unstable", label.Text())
	assert.Equal(t, "-40", attr(t, label, "x"))
	assert.Equal(t, "20", attr(t, label, "y"))
	assert.Equal(t, "-0.1em", attr(t, label, "dy"))

	axes := svg.SelectAll("g", ClassAxis)
	require.Len(t, axes, 1)
	assert.Equal(t, "translate(40 20)", attr(t, axes[0], "transform"))
	d0, d1 := g.Time.Domain()
	assert.False(t, d0.After(jan))
	assert.False(t, d1.Before(jun))

	ticks := axes[0].SelectAll("g", "tick")
	require.Len(t, ticks, 6)
	assert.Equal(t, "2020", ticks[0].Select("text", "").Text())
	assert.Equal(t, "June", ticks[5].Select("text", "").Text())
	assert.Equal(t, "translate(40.5,0)", attr(t, ticks[0], "transform"))
	assert.Equal(t, "M40.5,6V0.5H990.5V6", attr(t, axes[0].Select("path", "domain"), "d"))
}

func TestReconcile_Idempotent(t *testing.T) {
	data := []channel.Channel{unstable(), {Name: "nixos-20.03", History: []channel.Event{{ID: "aaa", Time: mar}}}}
	s := scene.New()
	_, first := draw(s, 1000, data)
	before := s.Root.String()
	var nodes []*scene.Node
	s.Root.Walk(func(n *scene.Node) bool { nodes = append(nodes, n); return true })

	_, second := draw(s, 1000, data)

	assert.Equal(t, before, s.Root.String())
	assert.Equal(t, first.Elements, second.Elements)
	assert.Zero(t, second.Entered)
	assert.Zero(t, second.Exited)
	i := 0
	s.Root.Walk(func(n *scene.Node) bool {
		require.Less(t, i, len(nodes))
		assert.Same(t, nodes[i], n)
		i++
		return true
	})
	assert.Equal(t, len(nodes), i)
}

func TestReconcile_AddsOnlyTheDelta(t *testing.T) {
	s := scene.New()
	_, first := draw(s, 1000, []channel.Channel{unstable()})
	oldRow := s.Canvas().Select("g", ClassRow)
	oldPoints := oldRow.SelectAll("a", ClassPoint)

	added := channel.Channel{Name: "nixos-20.03", History: []channel.Event{{ID: "aaa", Time: mar}}}
	_, rep := draw(s, 1000, []channel.Channel{unstable(), added})

	assert.Equal(t, 2, rep.Entered, "one row and one point")
	assert.Zero(t, rep.Exited)
	rows := s.Canvas().SelectAll("g", ClassRow)
	require.Len(t, rows, 2)
	assert.Same(t, oldRow, rows[0])
	assert.Equal(t, oldPoints, rows[0].SelectAll("a", ClassPoint))
	require.Len(t, rows[1].SelectAll("a", ClassPoint), 1)
	assert.Equal(t, "aaa", rows[1].SelectAll("a", ClassPoint)[0].Key)
	// row + label + point with circle and title
	assert.Equal(t, first.Elements+5, rep.Elements)
}

func TestReconcile_TicksAreCountedApart(t *testing.T) {
	s := scene.New()
	one := channel.Channel{Name: "a", History: []channel.Event{{ID: "one", Time: jan}}}
	_, first := draw(s, 1000, []channel.Channel{one})
	assert.Equal(t, 2, first.Entered, "one row and one point")
	assert.Equal(t, 1, first.TicksEntered)

	two := channel.Channel{Name: "b", History: []channel.Event{{ID: "two", Time: jan.Add(24 * time.Hour)}}}
	_, rep := draw(s, 1000, []channel.Channel{one, two})

	assert.Equal(t, 2, rep.Entered, "one row and one point")
	assert.Zero(t, rep.Exited)
	// Three-hourly ticks from midnight to midnight; the midnight tick stays.
	assert.Equal(t, 8, rep.TicksEntered)
	assert.Zero(t, rep.TicksExited)
	assert.Len(t, s.Root.Find("g", "tick"), 9)
}

func TestReconcile_RemovesDeletedChannels(t *testing.T) {
	old := channel.Channel{Name: "nixos-19.09", History: []channel.Event{{ID: "old1", Time: jan}, {ID: "old2", Time: mar}}}
	s := scene.New()
	_, full := draw(s, 1000, []channel.Channel{unstable(), old})

	_, rep := draw(s, 1000, []channel.Channel{unstable()})

	rows := s.Canvas().SelectAll("g", ClassRow)
	require.Len(t, rows, 1)
	assert.Equal(t, "nixos-unstable", rows[0].Key)
	for _, p := range s.Root.Find("a", ClassPoint) {
		assert.NotContains(t, []string{"old1", "old2"}, p.Key)
	}
	assert.Len(t, s.Root.Find("a", ClassPoint), 2)
	assert.Len(t, s.Root.Find("text", ClassLabel), 1)
	assert.Equal(t, 1, rep.Exited)
	assert.Equal(t, full.Elements-8, rep.Elements)
}

func TestReconcile_RemovesDeletedEvents(t *testing.T) {
	s := scene.New()
	draw(s, 1000, []channel.Channel{unstable()})

	shrunk := unstable()
	shrunk.History = shrunk.History[1:]
	draw(s, 1000, []channel.Channel{shrunk})

	points := s.Root.Find("a", ClassPoint)
	require.Len(t, points, 1)
	assert.Equal(t, "def456", points[0].Key)
}

func TestReconcile_RenamedLabelIsUpdatedInPlace(t *testing.T) {
	s := scene.New()
	draw(s, 1000, []channel.Channel{unstable()})
	label := s.Root.Find("text", ClassLabel)[0]

	// The row key and the label text are the same value, so a rename is a
	// new row; the label of a surviving row is still rewritten each time.
	label.SetText("stale")
	draw(s, 1000, []channel.Channel{unstable()})
	assert.Equal(t, "nixos-unstable", label.Text())
	assert.Len(t, s.Root.Find("text", ClassLabel), 1)
}

func TestReconcile_Resize(t *testing.T) {
	s := scene.New()
	_, small := draw(s, 500, []channel.Channel{unstable()})
	assert.Equal(t, "800", attr(t, s.Canvas(), "width"), "narrow containers are clamped")

	_, wide := draw(s, 2000, []channel.Channel{unstable()})

	assert.Equal(t, small.Elements, wide.Elements)
	assert.Equal(t, "0 0 2000 40", attr(t, s.Canvas(), "viewBox"))
	last := s.Root.Find("a", ClassPoint)[1]
	assert.Equal(t, "translate(1990 5)", attr(t, last, "transform"))
}

func TestReconcile_AxisTicksRegenerate(t *testing.T) {
	s := scene.New()
	draw(s, 1000, []channel.Channel{unstable()})

	later := channel.Channel{Name: "nixos-unstable", History: []channel.Event{
		{ID: "x", Time: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "y", Time: time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
	}}
	g, _ := draw(s, 1000, []channel.Channel{later})

	axis := s.Canvas().Select("g", ClassAxis)
	ticks := axis.SelectAll("g", "tick")
	want := g.Time.Ticks(10)
	require.Len(t, ticks, len(want))
	for i, tick := range ticks {
		assert.Equal(t, strconv.FormatInt(want[i].UnixMilli(), 10), tick.Key)
		assert.Len(t, tick.Children(), 2)
	}
	assert.Len(t, s.Root.Find("path", "domain"), 1)
	assert.Len(t, s.Root.Find("g", ClassAxis), 1)
}

func TestReconcile_EmptyInputs(t *testing.T) {
	s := scene.New()
	_, rep := draw(s, 0, nil)

	assert.Equal(t, "20", attr(t, s.Canvas(), "height"))
	assert.Empty(t, s.Root.Find("g", ClassRow))
	assert.Empty(t, s.Root.Find("g", "tick"))
	assert.Len(t, s.Root.Find("g", ClassAxis), 1)
	assert.Positive(t, rep.Elements)

	draw(s, 1000, []channel.Channel{{Name: "nixos-unstable"}})
	rows := s.Root.Find("g", ClassRow)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].SelectAll("a", ClassPoint))
}

func TestReconcile_IDIsUsedVerbatim(t *testing.T) {
	s := scene.New()
	id := `a/b?c=<d>&e`
	draw(s, 1000, []channel.Channel{{Name: "x", History: []channel.Event{{ID: id, Time: jan}}}})

	p := s.Root.Find("a", ClassPoint)[0]
	assert.Equal(t, CommitURLPrefix+id, attr(t, p, "href"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteSVG(&buf))
	assert.Contains(t, buf.String(), `href="https://github.com/NixOS/nixpkgs/commit/a/b?c=&lt;d&gt;&amp;e"`)
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(-0.0))
	assert.Equal(t, "40.5", num(40.5))
	assert.Equal(t, "1000", num(1000))
}
