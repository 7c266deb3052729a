package web

import (
	"fmt"
	"math"

	"embedding-wrangler/internal/embeddings"
)

// Plot geometry in SVG user units.
const (
	plotWidth   = 560.0
	plotHeight  = 400.0
	plotMargin  = 40.0
	pointRadius = 5.0
	targetTicks = 5
	maxTicks    = 4 * targetTicks
)

// Plot is a scatter chart laid out for the page template.
type Plot struct {
	Width, Height float64
	Left, Right   float64
	Top, Bottom   float64
	Points        []PlotPoint
	XTicks        []Tick
	YTicks        []Tick
}

// PlotPoint is one point in both data and SVG coordinates.
type PlotPoint struct {
	embeddings.Point
	CX, CY  float64
	R       float64
	Tooltip []string
}

// Tick is an axis mark at an SVG position.
type Tick struct {
	Pos   float64
	Label string
}

// Tooltip returns the lines shown when hovering a point.
func Tooltip(p embeddings.Point) []string {
	return []string{
		"Word: " + p.Word,
		fmt.Sprintf("X: %.4f", p.X),
		fmt.Sprintf("Y: %.4f", p.Y),
	}
}

// NewPlot lays out points on a grid with "nice" axis ticks. It returns nil
// when there is nothing to draw.
func NewPlot(points []embeddings.Point) *Plot {
	if len(points) == 0 {
		return nil
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	xTicks := niceTicks(minX, maxX, targetTicks)
	yTicks := niceTicks(minY, maxY, targetTicks)
	x0, x1 := xTicks[0], xTicks[len(xTicks)-1]
	y0, y1 := yTicks[0], yTicks[len(yTicks)-1]

	pl := &Plot{
		Width:  plotWidth,
		Height: plotHeight,
		Left:   plotMargin,
		Right:  plotWidth - plotMargin/2,
		Top:    plotMargin / 2,
		Bottom: plotHeight - plotMargin,
	}
	sx := func(v float64) float64 { return pl.Left + (v-x0)/(x1-x0)*(pl.Right-pl.Left) }
	sy := func(v float64) float64 { return pl.Bottom - (v-y0)/(y1-y0)*(pl.Bottom-pl.Top) }

	for _, v := range xTicks {
		pl.XTicks = append(pl.XTicks, Tick{Pos: sx(v), Label: formatTick(v)})
	}
	for _, v := range yTicks {
		pl.YTicks = append(pl.YTicks, Tick{Pos: sy(v), Label: formatTick(v)})
	}
	for _, p := range points {
		pl.Points = append(pl.Points, PlotPoint{
			Point:   p,
			CX:      sx(p.X),
			CY:      sy(p.Y),
			R:       pointRadius,
			Tooltip: Tooltip(p),
		})
	}
	return pl
}

// niceTicks returns evenly spaced round values covering [lo, hi], always at
// least two of them. When the range is too narrow for float64 to step
// through, it returns the bounds themselves.
func niceTicks(lo, hi float64, n int) []float64 {
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	step := niceNum((hi - lo) / float64(n-1))
	start := math.Floor(lo/step) * step
	end := math.Ceil(hi/step) * step
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 || start+step == start {
		return boundTicks(lo, hi)
	}

	var ticks []float64
	for v := start; v <= end+step/2 && len(ticks) < maxTicks; v += step {
		// Snap away float drift so labels stay clean.
		ticks = append(ticks, math.Round(v/step)*step)
	}
	if len(ticks) < 2 {
		ticks = append(ticks, start+step)
	}
	return ticks
}

// boundTicks spans [lo, hi] with a non-zero width so scaling never divides by zero.
func boundTicks(lo, hi float64) []float64 {
	if hi <= lo {
		hi = math.Nextafter(lo, math.Inf(1))
	}
	return []float64{lo, hi}
}

// niceNum rounds x to 1, 2, 5 or 10 times a power of ten.
func niceNum(x float64) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	switch {
	case f < 1.5:
		nf = 1
	case f < 3:
		nf = 2
	case f < 7:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%g", math.Round(v*1e6)/1e6)
}
