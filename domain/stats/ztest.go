package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// TestType is the directionality of the alternative hypothesis.
type TestType int

const (
	TestTwoTailed TestType = iota
	TestLess
	TestGreater
)

// NullSymbol is the null hypothesis notation shared by every test type.
const NullSymbol = "μ = μ₀"

// String returns the canonical text form of the test type
func (t TestType) String() string {
	switch t {
	case TestLess:
		return "less"
	case TestGreater:
		return "greater"
	case TestTwoTailed:
		return "two-tailed"
	default:
		return fmt.Sprintf("TestType(%d)", int(t))
	}
}

// Valid reports whether t is one of the three defined test types.
func (t TestType) Valid() bool {
	switch t {
	case TestLess, TestGreater, TestTwoTailed:
		return true
	}
	return false
}

// AlternativeSymbol returns the H₁ notation for the test type
func (t TestType) AlternativeSymbol() string {
	switch t {
	case TestLess:
		return "μ < μ₀"
	case TestGreater:
		return "μ > μ₀"
	default:
		return "μ ≠ μ₀"
	}
}

// ParseTestType parses the text form of a test type. Common aliases
// ("left", "right", "two-sided") are accepted.
func ParseTestType(s string) (TestType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "less", "left", "lower", "<":
		return TestLess, nil
	case "greater", "right", "upper", ">":
		return TestGreater, nil
	case "two-tailed", "two_tailed", "twotailed", "two-sided", "two", "!=":
		return TestTwoTailed, nil
	}
	return 0, fmt.Errorf("unknown test type %q (want less, greater or two-tailed)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t TestType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid test type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TestType) UnmarshalText(text []byte) error {
	parsed, err := ParseTestType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TestParameters are the caller-supplied inputs of a one-sample z-test.
// INVARIANTS (enforced by the caller, not here):
// - StdDev > 0
// - SampleSize >= 1
// - 0 < Alpha < 1
type TestParameters struct {
	NullMean   float64  `json:"null_mean"`   // μ₀
	SampleMean float64  `json:"sample_mean"` // x̄
	StdDev     float64  `json:"std_dev"`     // σ, population standard deviation
	SampleSize int      `json:"sample_size"` // n
	Alpha      float64  `json:"alpha"`       // significance level
	TestType   TestType `json:"test_type"`
}

// CriticalValue is the z-threshold of the rejection region: a CriticalBound
// for one-tailed tests or a CriticalPair for two-tailed tests.
type CriticalValue interface {
	// Bounds returns the thresholds in ascending order.
	Bounds() []float64
	criticalValue()
}

// CriticalBound is the single threshold of a one-tailed test.
type CriticalBound float64

func (c CriticalBound) Bounds() []float64 { return []float64{float64(c)} }
func (CriticalBound) criticalValue()      {}

// MarshalJSON encodes the bound as a plain number.
func (c CriticalBound) MarshalJSON() ([]byte, error) {
	return json.Marshal(JSONFloat(float64(c)))
}

// CriticalPair is the symmetric pair of thresholds of a two-tailed test.
type CriticalPair struct {
	Low  float64
	High float64
}

func (c CriticalPair) Bounds() []float64 { return []float64{c.Low, c.High} }
func (CriticalPair) criticalValue()      {}

// MarshalJSON encodes the pair as [low, high].
func (c CriticalPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{JSONFloat(c.Low), JSONFloat(c.High)})
}

// TestResult is the decision record derived from TestParameters.
type TestResult struct {
	StandardError float64       `json:"standard_error"`
	TestStatistic float64       `json:"test_statistic"`
	CriticalValue CriticalValue `json:"critical_value"`
	PValue        float64       `json:"p_value"`
	RejectNull    bool          `json:"reject_null"`
}

// MarshalJSON encodes non-finite statistics as strings so a vanishing
// standard error does not break the encoder.
func (r TestResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StandardError any           `json:"standard_error"`
		TestStatistic any           `json:"test_statistic"`
		CriticalValue CriticalValue `json:"critical_value"`
		PValue        any           `json:"p_value"`
		RejectNull    bool          `json:"reject_null"`
	}{
		StandardError: JSONFloat(r.StandardError),
		TestStatistic: JSONFloat(r.TestStatistic),
		CriticalValue: r.CriticalValue,
		PValue:        JSONFloat(r.PValue),
		RejectNull:    r.RejectNull,
	})
}

// Decision returns the human-readable verdict.
func (r TestResult) Decision() string {
	if r.RejectNull {
		return "Reject H₀"
	}
	return "Fail to Reject H₀"
}

// EvaluateHypothesisTest computes the one-sample z-test for params.
// Inputs are assumed valid; NaN and ±Inf propagate unguarded.
func EvaluateHypothesisTest(params TestParameters) TestResult {
	standardError := params.StdDev / math.Sqrt(float64(params.SampleSize))
	z := (params.SampleMean - params.NullMean) / standardError

	result := TestResult{
		StandardError: standardError,
		TestStatistic: z,
	}

	switch params.TestType {
	case TestLess:
		critical := NormalQuantile(params.Alpha, 0, 1)
		result.CriticalValue = CriticalBound(critical)
		result.PValue = NormalCDF(z, 0, 1)
		result.RejectNull = z < critical
	case TestGreater:
		critical := NormalQuantile(1-params.Alpha, 0, 1)
		result.CriticalValue = CriticalBound(critical)
		result.PValue = 1 - NormalCDF(z, 0, 1)
		result.RejectNull = z > critical
	default: // TestTwoTailed
		upper := NormalQuantile(1-params.Alpha/2, 0, 1)
		pair := CriticalPair{Low: -math.Abs(upper), High: upper}
		result.CriticalValue = pair
		result.PValue = 2 * (1 - NormalCDF(math.Abs(z), 0, 1))
		result.RejectNull = math.Abs(z) > math.Abs(pair.Low)
	}

	return result
}

// JSONFloat keeps finite values numeric and spells out NaN and infinities
// so they survive encoding/json.
func JSONFloat(v float64) any {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return v
}
