// Package render reconciles a persistent scene against a timeline dataset.
//
// Reconcile is incremental and idempotent: each call creates elements only
// for new channels and events, deletes elements whose channel or event is
// gone, and rewrites the attributes of everything else from the current
// geometry. Calling it twice with the same input leaves the scene unchanged.
package render

import (
	"fmt"
	"strconv"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/layout"
	"github.com/grahamc/nix-channel-monitor/internal/scene"
)

// CommitURLPrefix is prepended to an event ID to link a point to its commit.
const CommitURLPrefix = "https://github.com/NixOS/nixpkgs/commit/"

// TooltipLayout renders event times the way en-US Date.toLocaleString does.
const TooltipLayout = "1/2/2006, 3:04:05 PM"

// Element classes.
const (
	ClassRow   = "row"
	ClassPoint = "row__point"
	ClassLabel = "row__label"
	ClassAxis  = "axis"
)

// Report counts the element changes of one reconciliation. Entered, Updated
// and Exited count channel rows and event points only; axis ticks follow the
// time domain and are counted apart.
type Report struct {
	Entered int
	Updated int
	Exited  int

	TicksEntered int
	TicksExited  int

	// Elements is the size of the scene afterwards.
	Elements int
}

func (r *Report) add(res scene.JoinResult) {
	r.Entered += res.Entered
	r.Updated += res.Updated
	r.Exited += res.Exited
}

// CommitURL returns the link target of an event. The ID is used verbatim.
func CommitURL(id string) string {
	return CommitURLPrefix + id
}

// Tooltip returns the hover text of an event.
func Tooltip(e channel.Event, g layout.Geometry) string {
	return fmt.Sprintf("%s: %s", e.ID, e.Time.In(g.Time.Location()).Format(TooltipLayout))
}

// Reconcile brings s in line with channels laid out by g.
func Reconcile(s *scene.Scene, g layout.Geometry, channels []channel.Channel) Report {
	var rep Report

	svg, _ := scene.Singleton(s.Root, "svg", "", func(n *scene.Node) {
		n.SetAttr("xmlns", scene.SVGNamespace)
	})
	svg.SetAttr("viewBox", fmt.Sprintf("0 0 %s %s", num(g.Width), num(g.Height))).
		SetAttr("width", num(g.Width)).
		SetAttr("height", num(g.Height))

	rows := scene.Join(svg, "g", ClassRow, channel.Names(channels), func(row *scene.Node) {
		row.Append(scene.NewNode("text")).
			SetAttr("class", ClassLabel).
			SetAttr("x", num(-layout.PaddingLeft)).
			SetAttr("dy", "-0.1em")
	})
	rep.add(rows)

	bandwidth := g.Rows.Bandwidth()
	for i, c := range unique(channels) {
		row := rows.Nodes[i]
		y, _ := g.Rows.Position(c.Name)
		color := g.Color.Color(c.Name)
		row.SetAttr("transform", translate(layout.PaddingLeft, y)).
			SetAttr("fill", color).
			SetAttr("stroke", color)

		rep.add(reconcilePoints(row, g, c.History))

		row.Select("text", ClassLabel).
			SetAttr("y", num(bandwidth)).
			SetText(c.Name)
	}

	axis, _ := scene.Singleton(svg, "g", ClassAxis, nil)
	axis.SetAttr("transform", translate(layout.PaddingLeft, g.ChartHeight))
	ticks := AxisBottom(axis, g.Time)
	rep.TicksEntered = ticks.Entered
	rep.TicksExited = ticks.Exited

	rep.Elements = s.Count()
	return rep
}

func reconcilePoints(row *scene.Node, g layout.Geometry, history []channel.Event) scene.JoinResult {
	events := uniqueEvents(history)
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	points := scene.Join(row, "a", ClassPoint, ids, func(p *scene.Node) {
		p.Append(scene.NewNode("circle"))
		p.Append(scene.NewNode("title"))
	})

	dy := g.Rows.Bandwidth() * 0.25
	for i, p := range points.Nodes {
		e := events[i]
		p.SetAttr("transform", translate(g.Time.Map(e.Time), dy)).
			SetAttr("href", CommitURL(e.ID))
		p.Select("circle", "").SetAttr("r", num(layout.PointRadius))
		p.Select("title", "").SetText(Tooltip(e, g))
	}
	return points
}

// unique drops channels whose name already appeared, matching the join's
// first-occurrence binding.
func unique(channels []channel.Channel) []channel.Channel {
	seen := make(map[string]bool, len(channels))
	out := make([]channel.Channel, 0, len(channels))
	for _, c := range channels {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

func uniqueEvents(history []channel.Event) []channel.Event {
	seen := make(map[string]bool, len(history))
	out := make([]channel.Event, 0, len(history))
	for _, e := range history {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

func translate(x, y float64) string {
	return "translate(" + num(x) + " " + num(y) + ")"
}

// num formats v the way JavaScript stringifies numbers.
func num(v float64) string {
	if v == 0 {
		v = 0 // normalizes -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
