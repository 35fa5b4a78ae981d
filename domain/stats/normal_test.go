package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestNormalPDF_PeakAndSymmetry(t *testing.T) {
	for _, sd := range []float64{0.1, 0.5, 1, 2, 7.5} {
		peak := NormalPDF(3, 3, sd)
		assert.InDelta(t, 1/(sd*math.Sqrt(2*math.Pi)), peak, 1e-12, "peak for sd=%g", sd)

		for _, d := range []float64{0.01, 0.3, 1, 2.5, 10} {
			left := NormalPDF(3-d, 3, sd)
			right := NormalPDF(3+d, 3, sd)
			assert.InDelta(t, left, right, 1e-12*peak, "symmetry for sd=%g d=%g", sd, d)
			assert.LessOrEqual(t, left, peak)
		}
	}
}

func TestNormalPDF_MatchesGonum(t *testing.T) {
	dist := distuv.Normal{Mu: -1.5, Sigma: 2.25}
	for x := -10.0; x <= 10; x += 0.37 {
		assert.InDelta(t, dist.Prob(x), NormalPDF(x, dist.Mu, dist.Sigma), 1e-14, "x=%g", x)
	}
}

func TestNormalPDF_InvalidStdDevPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(NormalPDF(0, 0, 0)))
	assert.True(t, math.IsNaN(NormalPDF(0, 0, math.NaN())))
}

func TestNormalCDF_Center(t *testing.T) {
	for _, sd := range []float64{0.01, 1, 3, 250} {
		assert.Equal(t, 0.5, NormalCDF(42, 42, sd), "sd=%g", sd)
	}
}

func TestNormalCDF_ReferenceValues(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{1.96, 0.9750021048517796},
		{1, 0.8413447460685429},
		{-1, 0.15865525393145707},
		{2.5, 0.9937903346742238},
		{-2.5, 0.006209665325776159},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalCDF(tt.x, 0, 1), 1e-12, "x=%g", tt.x)
	}
}

func TestNormalCDF_Saturation(t *testing.T) {
	assert.Equal(t, 0.0, NormalCDF(-8.0001, 0, 1))
	assert.Equal(t, 1.0, NormalCDF(8.0001, 0, 1))
	assert.Equal(t, 0.0, NormalCDF(-1e300, 0, 1))
	assert.Equal(t, 1.0, NormalCDF(math.Inf(1), 0, 1))

	// z is standardized before the guard: 10 + 2*8.5 is 8.5 standard deviations out.
	assert.Equal(t, 1.0, NormalCDF(27, 10, 2))
	assert.Equal(t, 0.0, NormalCDF(-7, 10, 2))

	// Exactly at the boundary the series still runs.
	atEdge := NormalCDF(8, 0, 1)
	assert.Less(t, atEdge, 1.0)
	assert.Greater(t, atEdge, 0.999999999)
	assert.Greater(t, NormalCDF(-8, 0, 1), 0.0)
}

func TestNormalCDF_NaNPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(NormalCDF(math.NaN(), 0, 1)))
	assert.True(t, math.IsNaN(NormalCDF(1, 1, 0)))
}

func TestNormalCDF_MonotoneAndSymmetric(t *testing.T) {
	const mean, sd = 1.5, 0.75
	prev := -1.0
	for x := mean - 7*sd; x <= mean+7*sd; x += 0.01 {
		got := NormalCDF(x, mean, sd)
		require.GreaterOrEqual(t, got, prev, "x=%g", x)
		require.GreaterOrEqual(t, got, 0.0)
		require.LessOrEqual(t, got, 1.0)
		prev = got

		mirror := NormalCDF(2*mean-x, mean, sd)
		assert.InDelta(t, 1.0, got+mirror, 1e-13, "x=%g", x)
	}
}

func TestNormalCDF_MatchesGonum(t *testing.T) {
	for z := -6.0; z <= 6; z += 0.05 {
		want := distuv.UnitNormal.CDF(z)
		assert.InDelta(t, want, NormalCDF(z, 0, 1), 1e-13, "z=%g", z)
	}
}

func TestNormalQuantile_Sentinels(t *testing.T) {
	assert.True(t, math.IsInf(NormalQuantile(0, 0, 1), -1))
	assert.True(t, math.IsInf(NormalQuantile(-0.3, 5, 2), -1))
	assert.True(t, math.IsInf(NormalQuantile(1, 0, 1), 1))
	assert.True(t, math.IsInf(NormalQuantile(1.7, 5, 2), 1))
	assert.Equal(t, 0.0, NormalQuantile(0.5, 0, 1))
	assert.Equal(t, 5.0, NormalQuantile(0.5, 5, 2))
}

func TestNormalQuantile_ReferenceValues(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0.975, 1.959964},
		{0.95, 1.644854},
		{0.99, 2.326348},
		{0.995, 2.575829},
		{0.9, 1.281552},
		{0.025, -1.959964},
		{0.05, -1.644854},
		{0.01, -2.326348},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalQuantile(tt.p, 0, 1), 1e-6, "p=%g", tt.p)
	}
}

func TestNormalQuantile_MatchesGonumAcrossRegions(t *testing.T) {
	// central, near tail (r <= 5) and far tail (r > 5)
	ps := []float64{0.6, 0.9, 0.925, 0.075, 1e-3, 1e-8, 1e-11, 1e-15, 1e-30, 1e-100, 1 - 1e-12}
	for _, p := range ps {
		want := distuv.UnitNormal.Quantile(p)
		assert.InEpsilon(t, want, NormalQuantile(p, 0, 1), 1e-9, "p=%g", p)
	}
}

func TestNormalQuantile_ScalesWithMeanAndStdDev(t *testing.T) {
	z := NormalQuantile(0.975, 0, 1)
	assert.InDelta(t, 10+3*z, NormalQuantile(0.975, 10, 3), 1e-12)
	assert.InDelta(t, -4-0.5*z, NormalQuantile(0.025, -4, 0.5), 1e-12)
}

func TestNormalQuantile_Monotone(t *testing.T) {
	prev := math.Inf(-1)
	for p := 1e-6; p < 1; p += 1e-3 {
		got := NormalQuantile(p, 0, 1)
		require.Greater(t, got, prev, "p=%g", p)
		prev = got
	}
}

func TestNormalQuantile_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		p := 1e-6 + rng.Float64()*(1-2e-6)
		x := NormalQuantile(p, 0, 1)
		assert.InDelta(t, p, NormalCDF(x, 0, 1), 1e-6, "p=%g", p)
	}
}

func BenchmarkNormalCDF(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NormalCDF(1.96, 0, 1)
	}
}

func BenchmarkNormalQuantile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NormalQuantile(0.975, 0, 1)
	}
}
