// Package layout computes the pixel geometry of a channel timeline from the
// available container width and the dataset.
package layout

import (
	"math"
	"time"

	"github.com/grahamc/nix-channel-monitor/internal/channel"
	"github.com/grahamc/nix-channel-monitor/internal/scale"
)

// Layout constants. They are fixed at compile time.
const (
	// PaddingLeft reserves room for the row labels.
	PaddingLeft = 40
	// PaddingRight is a plain margin.
	PaddingRight  = 10
	PaddingTop    = 0
	PaddingBottom = 20

	// MinWidth is the narrowest canvas drawn. Any narrower and the points
	// become unreadable.
	MinWidth = 800

	RowHeight   = 20
	PointRadius = 3
)

// Geometry is the layout of one render. It is recomputed every time and
// never kept across renders.
type Geometry struct {
	// Width and Height are the canvas size.
	Width, Height float64
	// ChartWidth and ChartHeight are the canvas size without padding.
	ChartWidth, ChartHeight float64

	Time  *scale.Time
	Rows  *scale.Band
	Color *scale.Ordinal
}

// Planner computes Geometry. The zero value lays times out in UTC.
type Planner struct {
	// Location is the time zone axis ticks are aligned to.
	Location *time.Location
}

// Compute lays out channels in a container containerWidth pixels wide.
// It never fails: an empty dataset yields a canvas of padding only, and a
// dataset without events yields an empty time scale.
func (p Planner) Compute(containerWidth float64, channels []channel.Channel) Geometry {
	if math.IsNaN(containerWidth) || containerWidth < 0 {
		containerWidth = 0
	}
	width := math.Max(containerWidth, MinWidth)
	chartWidth := width - (PaddingLeft + PaddingRight)
	chartHeight := float64(RowHeight * len(channels))

	g := Geometry{
		Width:       width,
		Height:      chartHeight + PaddingTop + PaddingBottom,
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
	}

	r0, r1 := float64(PaddingLeft), chartWidth+PaddingLeft
	if lo, hi, ok := channel.Extent(channels); ok {
		g.Time = scale.NewTime(lo, hi, r0, r1, p.Location).Nice(scale.DefaultTickCount)
	} else {
		g.Time = scale.EmptyTime(r0, r1, p.Location)
	}

	names := channel.Names(channels)
	g.Rows = scale.NewBand(names, chartHeight, 0)
	g.Color = scale.NewOrdinal(names, scale.Category10)
	return g
}
