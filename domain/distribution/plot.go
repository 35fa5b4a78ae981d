// Package distribution builds the sampling-distribution view of a z-test:
// the density curve under H₀, the shaded rejection regions and the
// observed-statistic marker. Renderers consume a Plot and never feed back
// into the computation.
package distribution

import (
	"math"

	"github.com/aclements/go-moremath/scale"

	"zhypo/domain/stats"
)

const (
	DefaultPoints = 100
	DefaultSpanSE = 4.0

	// narrowWidth is the rendering width below which fewer ticks are drawn.
	narrowWidth = 400
	// headroom leaves space above the peak of the curve.
	headroom = 1.1
)

// Options controls how the curve is sampled.
type Options struct {
	Points int     // number of grid points across the domain
	SpanSE float64 // half-width of the domain in standard errors
	Width  int     // rendering width hint in pixels, 0 if unknown
}

// DefaultOptions returns the grid used by the simulator page.
func DefaultOptions() Options {
	return Options{Points: DefaultPoints, SpanSE: DefaultSpanSE}
}

// Side identifies which tail a rejection region covers.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Point is one sample of the density curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Region is a shaded rejection region in sample-mean units.
type Region struct {
	Side      Side    `json:"side"`
	Threshold float64 `json:"threshold"`
	Points    []Point `json:"points"`
}

// Marker locates the observed statistic on the curve.
type Marker struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Progress float64 `json:"progress"`
	Reject   bool    `json:"reject"`
}

// Plot is everything a renderer needs to draw one simulation run.
type Plot struct {
	Mean          float64   `json:"mean"`
	StandardError float64   `json:"standard_error"`
	XMin          float64   `json:"x_min"`
	XMax          float64   `json:"x_max"`
	YMax          float64   `json:"y_max"`
	Curve         []Point   `json:"curve"`
	Regions       []Region  `json:"regions"`
	XTicks        []float64 `json:"x_ticks"`
	Marker        Marker    `json:"marker"`

	testStatistic float64
	rejectNull    bool
}

// Build samples the sampling distribution of the mean under H₀ and overlays
// the rejection regions and the statistic marker at full progress.
func Build(params stats.TestParameters, result stats.TestResult, opts Options) *Plot {
	if opts.Points <= 0 {
		opts.Points = DefaultPoints
	}
	if opts.SpanSE <= 0 {
		opts.SpanSE = DefaultSpanSE
	}

	mean := params.NullMean
	se := result.StandardError

	p := &Plot{
		Mean:          mean,
		StandardError: se,
		XMin:          mean - opts.SpanSE*se,
		XMax:          mean + opts.SpanSE*se,
		YMax:          stats.NormalPDF(mean, mean, se) * headroom,
		testStatistic: result.TestStatistic,
		rejectNull:    result.RejectNull,
	}

	step := (p.XMax - p.XMin) / float64(opts.Points)
	p.Curve = make([]Point, opts.Points)
	for i := range p.Curve {
		x := p.XMin + float64(i)*step
		p.Curve[i] = Point{X: x, Y: stats.NormalPDF(x, mean, se)}
	}

	p.Regions = p.rejectionRegions(params.TestType, result.CriticalValue)
	p.XTicks = p.ticks(opts.Width)
	p.Marker = p.MarkerAt(1)

	return p
}

// MarkerAt places the statistic marker part of the way from the null mean
// to the observed statistic; progress is clamped to [0, 1].
func (p *Plot) MarkerAt(progress float64) Marker {
	progress = math.Max(0, math.Min(1, progress))
	x := p.Mean + p.testStatistic*p.StandardError*progress
	return Marker{
		X:        x,
		Y:        stats.NormalPDF(x, p.Mean, p.StandardError),
		Progress: progress,
		Reject:   p.rejectNull,
	}
}

// XScale maps the plotted domain onto [0, 1].
func (p *Plot) XScale() scale.Linear {
	return scale.Linear{Min: p.XMin, Max: p.XMax}
}

// YScale maps densities onto [0, 1].
func (p *Plot) YScale() scale.Linear {
	return scale.Linear{Min: 0, Max: p.YMax}
}

func (p *Plot) rejectionRegions(testType stats.TestType, critical stats.CriticalValue) []Region {
	if critical == nil {
		return nil
	}

	var regions []Region
	add := func(side Side, z float64) {
		threshold := p.Mean + z*p.StandardError
		var pts []Point
		for _, pt := range p.Curve {
			if (side == SideLeft && pt.X <= threshold) || (side == SideRight && pt.X >= threshold) {
				pts = append(pts, pt)
			}
		}
		if len(pts) > 0 {
			regions = append(regions, Region{Side: side, Threshold: threshold, Points: pts})
		}
	}

	bounds := critical.Bounds()
	switch testType {
	case stats.TestLess:
		add(SideLeft, bounds[0])
	case stats.TestGreater:
		add(SideRight, bounds[0])
	default: // stats.TestTwoTailed
		add(SideLeft, bounds[0])
		add(SideRight, bounds[len(bounds)-1])
	}
	return regions
}

func (p *Plot) ticks(width int) []float64 {
	n := 5
	if width > 0 && width < narrowWidth {
		n = 3
	}
	major, _ := p.XScale().Ticks(scale.TickOptions{Max: n})
	return major
}
