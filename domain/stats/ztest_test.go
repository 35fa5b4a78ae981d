package stats

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateHypothesisTest_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		params     TestParameters
		se         float64
		z          float64
		critical   []float64
		pValue     float64
		pDelta     float64
		rejectNull bool
	}{
		{
			name:       "two-tailed large effect",
			params:     TestParameters{NullMean: 0, SampleMean: 1, StdDev: 1, SampleSize: 30, Alpha: 0.05, TestType: TestTwoTailed},
			se:         0.18257418583505536,
			z:          5.477225575051661,
			critical:   []float64{-1.959964, 1.959964},
			pValue:     4.3e-8,
			pDelta:     0.1e-8,
			rejectNull: true,
		},
		{
			name:       "greater small effect",
			params:     TestParameters{NullMean: 0, SampleMean: 0.1, StdDev: 1, SampleSize: 30, Alpha: 0.05, TestType: TestGreater},
			se:         0.18257418583505536,
			z:          0.5477225575051662,
			critical:   []float64{1.644854},
			pValue:     0.2919,
			pDelta:     1e-4,
			rejectNull: false,
		},
		{
			name:       "less at alpha 0.01",
			params:     TestParameters{NullMean: 10, SampleMean: 9, StdDev: 2, SampleSize: 25, Alpha: 0.01, TestType: TestLess},
			se:         0.4,
			z:          -2.5,
			critical:   []float64{-2.326348},
			pValue:     0.0062,
			pDelta:     1e-4,
			rejectNull: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EvaluateHypothesisTest(tt.params)

			assert.InDelta(t, tt.se, res.StandardError, 1e-12)
			assert.InDelta(t, tt.z, res.TestStatistic, 1e-9)
			require.NotNil(t, res.CriticalValue)
			bounds := res.CriticalValue.Bounds()
			require.Len(t, bounds, len(tt.critical))
			for i := range bounds {
				assert.InDelta(t, tt.critical[i], bounds[i], 1e-6)
			}
			assert.InDelta(t, tt.pValue, res.PValue, tt.pDelta)
			assert.Equal(t, tt.rejectNull, res.RejectNull)
		})
	}
}

func TestEvaluateHypothesisTest_CriticalValueVariant(t *testing.T) {
	base := TestParameters{NullMean: 0, SampleMean: 0.2, StdDev: 1, SampleSize: 16, Alpha: 0.1}

	base.TestType = TestTwoTailed
	pair, ok := EvaluateHypothesisTest(base).CriticalValue.(CriticalPair)
	require.True(t, ok, "two-tailed test must yield a CriticalPair")
	assert.Equal(t, -pair.High, pair.Low)
	assert.Greater(t, pair.High, 0.0)

	base.TestType = TestLess
	low, ok := EvaluateHypothesisTest(base).CriticalValue.(CriticalBound)
	require.True(t, ok)
	base.TestType = TestGreater
	high, ok := EvaluateHypothesisTest(base).CriticalValue.(CriticalBound)
	require.True(t, ok)
	assert.InDelta(t, float64(-low), float64(high), 1e-12)
}

func TestEvaluateHypothesisTest_TwoTailedDecisionMatchesPValue(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphas := []float64{0.001, 0.01, 0.05, 0.1, 0.2}

	for i := 0; i < 10000; i++ {
		params := TestParameters{
			NullMean:   rng.NormFloat64() * 5,
			SampleMean: rng.NormFloat64() * 5,
			StdDev:     0.1 + rng.Float64()*10,
			SampleSize: 1 + rng.Intn(200),
			Alpha:      alphas[rng.Intn(len(alphas))],
			TestType:   TestTwoTailed,
		}
		res := EvaluateHypothesisTest(params)
		require.Equal(t, res.PValue < params.Alpha, res.RejectNull, "params=%+v result=%+v", params, res)
	}
}

func TestEvaluateHypothesisTest_OneTailedDirections(t *testing.T) {
	params := TestParameters{NullMean: 50, SampleMean: 53, StdDev: 6, SampleSize: 36, Alpha: 0.05}

	params.TestType = TestGreater
	greater := EvaluateHypothesisTest(params)
	params.TestType = TestLess
	less := EvaluateHypothesisTest(params)

	assert.InDelta(t, 3.0, greater.TestStatistic, 1e-12)
	assert.True(t, greater.RejectNull)
	assert.False(t, less.RejectNull)
	assert.InDelta(t, 1.0, greater.PValue+less.PValue, 1e-12)
}

func TestEvaluateHypothesisTest_ExtremeStatisticSaturates(t *testing.T) {
	params := TestParameters{NullMean: 0, SampleMean: 100, StdDev: 1, SampleSize: 100, Alpha: 0.05, TestType: TestTwoTailed}
	res := EvaluateHypothesisTest(params)
	assert.Equal(t, 0.0, res.PValue)
	assert.True(t, res.RejectNull)

	params.TestType = TestLess
	res = EvaluateHypothesisTest(params)
	assert.Equal(t, 1.0, res.PValue)
	assert.False(t, res.RejectNull)
}

func TestEvaluateHypothesisTest_InvalidInputsPropagate(t *testing.T) {
	res := EvaluateHypothesisTest(TestParameters{NullMean: 0, SampleMean: 1, StdDev: 0, SampleSize: 10, Alpha: 0.05, TestType: TestGreater})
	assert.Equal(t, 0.0, res.StandardError)
	assert.True(t, math.IsInf(res.TestStatistic, 1))
	assert.Equal(t, 0.0, res.PValue)
	assert.True(t, res.RejectNull)

	res = EvaluateHypothesisTest(TestParameters{NullMean: 1, SampleMean: 1, StdDev: 0, SampleSize: 10, Alpha: 0.05, TestType: TestGreater})
	assert.True(t, math.IsNaN(res.TestStatistic))
	assert.True(t, math.IsNaN(res.PValue))
	assert.False(t, res.RejectNull)
}

func TestEvaluateHypothesisTest_Idempotent(t *testing.T) {
	params := TestParameters{NullMean: 1, SampleMean: 1.3, StdDev: 0.9, SampleSize: 12, Alpha: 0.05, TestType: TestTwoTailed}
	assert.Equal(t, EvaluateHypothesisTest(params), EvaluateHypothesisTest(params))
}

func TestTestType_Parse(t *testing.T) {
	tests := []struct {
		input    string
		expected TestType
		hasError bool
	}{
		{"less", TestLess, false},
		{"LEFT", TestLess, false},
		{"greater", TestGreater, false},
		{" right ", TestGreater, false},
		{"two-tailed", TestTwoTailed, false},
		{"two-sided", TestTwoTailed, false},
		{"sideways", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTestType(tt.input)
		if tt.hasError {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got)
		assert.True(t, got.Valid())
	}

	assert.False(t, TestType(9).Valid())
	assert.Equal(t, "TestType(9)", TestType(9).String())
}

func TestTestType_Symbols(t *testing.T) {
	assert.Equal(t, "μ < μ₀", TestLess.AlternativeSymbol())
	assert.Equal(t, "μ > μ₀", TestGreater.AlternativeSymbol())
	assert.Equal(t, "μ ≠ μ₀", TestTwoTailed.AlternativeSymbol())
}

func TestTestResult_JSON(t *testing.T) {
	res := EvaluateHypothesisTest(TestParameters{NullMean: 10, SampleMean: 9, StdDev: 2, SampleSize: 25, Alpha: 0.01, TestType: TestLess})
	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.InDelta(t, -2.326348, decoded["critical_value"], 1e-6)
	assert.Equal(t, true, decoded["reject_null"])

	two := EvaluateHypothesisTest(TestParameters{NullMean: 0, SampleMean: 1, StdDev: 1, SampleSize: 30, Alpha: 0.05, TestType: TestTwoTailed})
	raw, err = json.Marshal(two)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	pair, ok := decoded["critical_value"].([]any)
	require.True(t, ok)
	require.Len(t, pair, 2)
	assert.InDelta(t, -1.959964, pair[0], 1e-6)

	inf := EvaluateHypothesisTest(TestParameters{NullMean: 0, SampleMean: 1, StdDev: 0, SampleSize: 1, Alpha: 0.05, TestType: TestGreater})
	raw, err = json.Marshal(inf)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"test_statistic":"+Inf"`)
}

func TestJSONFloat(t *testing.T) {
	assert.Equal(t, 1.5, JSONFloat(1.5))
	assert.Equal(t, "+Inf", JSONFloat(math.Inf(1)))
	assert.Equal(t, "-Inf", JSONFloat(math.Inf(-1)))
	assert.Equal(t, "NaN", JSONFloat(math.NaN()))
}

func TestTestParameters_JSONRoundTripsTestType(t *testing.T) {
	var params TestParameters
	require.NoError(t, json.Unmarshal([]byte(`{"null_mean":1,"sample_mean":2,"std_dev":3,"sample_size":4,"alpha":0.05,"test_type":"greater"}`), &params))
	assert.Equal(t, TestGreater, params.TestType)

	raw, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"test_type":"greater"`)

	assert.Error(t, json.Unmarshal([]byte(`{"test_type":"bogus"}`), &params))
}
