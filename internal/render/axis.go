package render

import (
	"fmt"
	"strconv"

	"github.com/grahamc/nix-channel-monitor/internal/scale"
	"github.com/grahamc/nix-channel-monitor/internal/scene"
)

// Axis tick geometry, in pixels.
const (
	tickSizeInner = 6
	tickSizeOuter = 6
	tickPadding   = 3
	// tickOffset puts one pixel wide lines on pixel centers.
	tickOffset = 0.5
)

// AxisBottom draws a horizontal axis for s into g, with ticks below the
// domain line. Ticks are keyed by instant, so ticks that no longer belong to
// the scale are removed and the rest are moved in place. The result is the
// join of the tick groups.
func AxisBottom(g *scene.Node, s *scale.Time) scene.JoinResult {
	if _, ok := g.Attr("fill"); !ok {
		g.SetAttr("fill", "none").
			SetAttr("font-size", "10").
			SetAttr("font-family", "sans-serif").
			SetAttr("text-anchor", "middle")
	}

	ticks := s.Ticks(scale.DefaultTickCount)
	keys := make([]string, len(ticks))
	for i, t := range ticks {
		keys[i] = strconv.FormatInt(t.UnixMilli(), 10)
	}

	res := scene.Join(g, "g", "tick", keys, func(tick *scene.Node) {
		tick.Append(scene.NewNode("line")).
			SetAttr("stroke", "currentColor").
			SetAttr("y2", num(tickSizeInner))
		tick.Append(scene.NewNode("text")).
			SetAttr("fill", "currentColor").
			SetAttr("y", num(tickSizeInner+tickPadding)).
			SetAttr("dy", "0.71em")
	})
	for i, tick := range res.Nodes {
		tick.SetAttr("opacity", "1").
			SetAttr("transform", fmt.Sprintf("translate(%s,0)", num(s.Map(ticks[i])+tickOffset)))
		tick.Select("text", "").SetText(s.TickFormat(ticks[i]))
	}

	domain, _ := scene.Singleton(g, "path", "domain", func(p *scene.Node) {
		p.SetAttr("stroke", "currentColor")
	})
	r0, r1 := s.Range()
	domain.SetAttr("d", fmt.Sprintf("M%s,%dV%sH%sV%d",
		num(r0+tickOffset), tickSizeOuter, num(tickOffset), num(r1+tickOffset), tickSizeOuter))
	return res
}
