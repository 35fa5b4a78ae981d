package ui

import (
	"fmt"
	"strconv"
	"strings"

	"zhypo/domain/distribution"
)

const (
	chartWidth  = 600
	chartHeight = 300

	marginTop    = 20
	marginRight  = 20
	marginBottom = 40
	marginLeft   = 40

	// markerFrames is how many positions the marker animation passes through.
	markerFrames = 30
)

// Chart is a Plot projected into SVG pixel space
type Chart struct {
	Width, Height int
	Left, Right   float64
	Top, Bottom   float64
	CurvePath     string
	Regions       []RegionShape
	Ticks         []Tick
	NullX         float64
	Marker        MarkerShape
}

// RegionShape is a filled rejection region
type RegionShape struct {
	Side       string
	Path       string
	ThresholdX float64
}

// Tick is an x-axis tick label
type Tick struct {
	X     float64
	Label string
}

// MarkerShape is the observed-statistic marker together with the path it
// travels from the null mean to its final position.
type MarkerShape struct {
	X, Y       float64
	Reject     bool
	MotionPath string
}

// NewChart projects plot onto a width×height canvas. Non-positive sizes use
// the page defaults.
func NewChart(plot *distribution.Plot, width, height int) *Chart {
	if width <= 0 {
		width = chartWidth
	}
	if height <= 0 {
		height = chartHeight
	}

	c := &Chart{
		Width:  width,
		Height: height,
		Left:   marginLeft,
		Right:  float64(width - marginRight),
		Top:    marginTop,
		Bottom: float64(height - marginBottom),
	}

	xs, ys := plot.XScale(), plot.YScale()
	px := func(x float64) float64 { return c.Left + xs.Map(x)*(c.Right-c.Left) }
	py := func(y float64) float64 { return c.Bottom - ys.Map(y)*(c.Bottom-c.Top) }

	c.CurvePath = linePath(plot.Curve, px, py)
	for _, r := range plot.Regions {
		c.Regions = append(c.Regions, RegionShape{
			Side:       string(r.Side),
			Path:       areaPath(r.Points, px, py, c.Bottom),
			ThresholdX: px(r.Threshold),
		})
	}
	for _, t := range plot.XTicks {
		c.Ticks = append(c.Ticks, Tick{X: px(t), Label: strconv.FormatFloat(t, 'g', 4, 64)})
	}
	c.NullX = px(plot.Mean)

	var motion strings.Builder
	for i := 0; i <= markerFrames; i++ {
		m := plot.MarkerAt(float64(i) / markerFrames)
		// The marker may lie outside the plotted domain; keep it on the canvas.
		x := clamp(px(m.X), c.Left, c.Right)
		y := py(m.Y)
		if i == 0 {
			fmt.Fprintf(&motion, "M%s,%s", coord(x), coord(y))
		} else {
			fmt.Fprintf(&motion, " L%s,%s", coord(x), coord(y))
		}
		if i == markerFrames {
			c.Marker = MarkerShape{X: x, Y: y, Reject: m.Reject}
		}
	}
	c.Marker.MotionPath = motion.String()

	return c
}

func linePath(points []distribution.Point, px, py func(float64) float64) string {
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(coord(px(p.X)) + "," + coord(py(p.Y)))
	}
	return b.String()
}

func areaPath(points []distribution.Point, px, py func(float64) float64, baseline float64) string {
	if len(points) == 0 {
		return ""
	}
	first, last := points[0], points[len(points)-1]
	return fmt.Sprintf("M%s,%s %s L%s,%s Z",
		coord(px(first.X)), coord(baseline),
		"L"+strings.TrimPrefix(linePath(points, px, py), "M"),
		coord(px(last.X)), coord(baseline))
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
