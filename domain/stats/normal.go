package stats

import "math"

// cdfSaturation is the |z| beyond which NormalCDF returns exactly 0 or 1.
const cdfSaturation = 8.0

// NormalPDF returns the Gaussian probability density at x.
// stdDev must be positive; no guard is applied.
func NormalPDF(x, mean, stdDev float64) float64 {
	variance := stdDev * stdDev
	d := x - mean
	return (1 / math.Sqrt(2*math.Pi*variance)) * math.Exp(-(d*d)/(2*variance))
}

// NormalCDF returns P(X <= x) for X ~ Normal(mean, stdDev).
//
// The standardized value is expanded in the series z + z^3/3 + z^5/15 + ...
// and accumulated until adding the next term no longer changes the sum.
// Outside |z| <= 8 the result saturates to exactly 0 or 1.
func NormalCDF(x, mean, stdDev float64) float64 {
	z := (x - mean) / stdDev
	if math.IsNaN(z) {
		// the convergence test never holds for NaN
		return z
	}
	if z < -cdfSaturation {
		return 0
	}
	if z > cdfSaturation {
		return 1
	}

	sum := 0.0
	term := z
	for i := 3.0; sum+term != sum; i += 2 {
		sum += term
		term = term * z * z / i
	}

	return 0.5 + sum*NormalPDF(z, 0, 1)
}

// Coefficients of Wichura's AS241 (PPND16) rational approximations.
var (
	// |q| <= 0.425, r = 0.180625 - q*q
	centralNum = [8]float64{
		3.3871328727963666080e0,
		1.3314166789178437745e+2,
		1.9715909503065514427e+3,
		1.3731693765509461125e+4,
		4.5921953931549871457e+4,
		6.7265770927008700853e+4,
		3.3430575583588128105e+4,
		2.5090809287301226727e+3,
	}
	centralDen = [8]float64{
		1.0,
		4.2313330701600911252e+1,
		6.8718700749205790830e+2,
		5.3941960214247511077e+3,
		2.1213794301586595867e+4,
		3.9307895800092710610e+4,
		2.8729085735721942674e+4,
		5.2264952788528545610e+3,
	}

	// r <= 5, evaluated at r - 1.6
	nearTailNum = [8]float64{
		1.42343711074968357734e0,
		4.63033784615654529590e0,
		5.76949722146069140550e0,
		3.64784832476320460504e0,
		1.27045825245236838258e0,
		2.41780725177450611770e-1,
		2.27238449892691845833e-2,
		7.74545014278341407640e-4,
	}
	nearTailDen = [8]float64{
		1.0,
		2.05319162663775882187e0,
		1.67638483018380384940e0,
		6.89767334985100004550e-1,
		1.48103976427480074590e-1,
		1.51986665636164571966e-2,
		5.47593808499534494600e-4,
		1.05075007164441684324e-9,
	}

	// r > 5, evaluated at r - 5
	farTailNum = [8]float64{
		6.65790464350110377720e0,
		5.46378491116411436990e0,
		1.78482653991729133580e0,
		2.96560571828504891230e-1,
		2.65321895265761230930e-2,
		1.24266094738807843860e-3,
		2.71155556874348757815e-5,
		2.01033439929228813265e-7,
	}
	farTailDen = [8]float64{
		1.0,
		5.99832206555887937690e-1,
		1.36929880922735805310e-1,
		1.48753612908506148525e-2,
		7.86869131145613259100e-4,
		1.84631831751005468180e-5,
		1.42151175831644588870e-7,
		2.04426310338993978564e-15,
	}
)

// horner evaluates c[0] + c[1]*r + ... + c[7]*r^7, highest power first.
func horner(c *[8]float64, r float64) float64 {
	v := c[7]
	for i := 6; i >= 0; i-- {
		v = v*r + c[i]
	}
	return v
}

// NormalQuantile returns x such that NormalCDF(x, mean, stdDev) = p.
// p <= 0 yields -Inf and p >= 1 yields +Inf.
func NormalQuantile(p, mean, stdDev float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	if p >= 1 {
		return math.Inf(1)
	}

	q := p - 0.5
	if math.Abs(q) <= 0.425 {
		r := 0.180625 - q*q
		return mean + stdDev*(q*horner(&centralNum, r)/horner(&centralDen, r))
	}

	r := p
	if q >= 0 {
		r = 1 - p
	}
	r = math.Sqrt(-math.Log(r))

	var val float64
	if r <= 5.0 {
		r -= 1.6
		val = horner(&nearTailNum, r) / horner(&nearTailDen, r)
	} else {
		r -= 5.0
		val = horner(&farTailNum, r) / horner(&farTailDen, r)
	}
	if q < 0 {
		val = -val
	}
	return mean + stdDev*val
}
