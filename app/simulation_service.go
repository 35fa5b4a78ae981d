package app

import (
	"context"
	"time"

	mstats "github.com/montanaflynn/stats"

	"zhypo/domain/core"
	"zhypo/domain/distribution"
	"zhypo/domain/stats"
	"zhypo/internal"
	"zhypo/internal/errors"
	"zhypo/internal/validation"
)

// SimulationService runs one-sample z-tests on behalf of the UI, API and CLI.
// Runs are independent and nothing is stored between them.
type SimulationService struct {
	limits   validation.Limits
	plotOpts distribution.Options
	logger   *internal.Logger
	now      func() time.Time
}

// Simulation is the outcome of one user-initiated run
type Simulation struct {
	RunID        core.RunID           `json:"run_id"`
	Fingerprint  core.Hash            `json:"fingerprint"`
	CreatedAt    core.Timestamp       `json:"created_at"`
	Params       stats.TestParameters `json:"params"`
	Result       stats.TestResult     `json:"result"`
	Decision     string               `json:"decision"`
	Hypotheses   Hypotheses           `json:"hypotheses"`
	Distribution *distribution.Plot   `json:"distribution,omitempty"`
	Sample       *SampleSummary       `json:"sample,omitempty"`
}

// Hypotheses holds the display form of H₀ and H₁
type Hypotheses struct {
	Null        string `json:"null"`
	Alternative string `json:"alternative"`
}

// ObservationRequest asks for a z-test over raw observations. The
// population standard deviation is still supplied by the caller.
type ObservationRequest struct {
	NullMean     float64        `json:"null_mean"`
	StdDev       float64        `json:"std_dev"`
	Observations []float64      `json:"observations"`
	Alpha        float64        `json:"alpha"`
	TestType     stats.TestType `json:"test_type"`
}

// SampleSummary describes the observations behind a FromObservations run
type SampleSummary struct {
	Size         int     `json:"size"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	SampleStdDev float64 `json:"sample_std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// NewSimulationService creates a simulation service. A nil logger is silent.
func NewSimulationService(limits validation.Limits, plotOpts distribution.Options, logger *internal.Logger) *SimulationService {
	return &SimulationService{
		limits:   limits,
		plotOpts: plotOpts,
		logger:   logger,
		now:      time.Now,
	}
}

// Limits returns the edge bounds the service validates against
func (s *SimulationService) Limits() validation.Limits {
	return s.limits
}

// Run validates params, evaluates the test and builds the distribution view
func (s *SimulationService) Run(ctx context.Context, params stats.TestParameters) (*Simulation, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "simulation cancelled")
	}
	if err := validation.ValidateParameters(params, s.limits); err != nil {
		s.logger.Debug("rejected parameters: %v", err)
		return nil, err
	}

	result := stats.EvaluateHypothesisTest(params)

	sim := &Simulation{
		RunID:       core.NewRunID(),
		Fingerprint: Fingerprint(params),
		CreatedAt:   core.NewTimestamp(s.now().UTC()),
		Params:      params,
		Result:      result,
		Decision:    result.Decision(),
		Hypotheses: Hypotheses{
			Null:        stats.NullSymbol,
			Alternative: params.TestType.AlternativeSymbol(),
		},
		Distribution: distribution.Build(params, result, s.plotOpts),
	}

	s.logger.Info("run %s (%s): %s test z=%.4f p=%.4g -> %s",
		sim.RunID, sim.Fingerprint.Short(), params.TestType, result.TestStatistic, result.PValue, sim.Decision)

	return sim, nil
}

// FromObservations derives the sample mean and size from raw observations
// and then runs the test.
func (s *SimulationService) FromObservations(ctx context.Context, req ObservationRequest) (*Simulation, error) {
	if err := validation.ValidateObservations(req.Observations, s.limits); err != nil {
		return nil, err
	}

	summary, err := Summarize(req.Observations)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize observations")
	}

	sim, err := s.Run(ctx, stats.TestParameters{
		NullMean:   req.NullMean,
		SampleMean: summary.Mean,
		StdDev:     req.StdDev,
		SampleSize: summary.Size,
		Alpha:      req.Alpha,
		TestType:   req.TestType,
	})
	if err != nil {
		return nil, err
	}
	sim.Sample = summary
	return sim, nil
}

// Summarize computes descriptive statistics of a non-empty sample. The
// sample standard deviation is zero for a single observation.
func Summarize(data []float64) (*SampleSummary, error) {
	mean, err := mstats.Mean(data)
	if err != nil {
		return nil, errors.ValidationError("observations: " + err.Error())
	}
	median, err := mstats.Median(data)
	if err != nil {
		return nil, errors.ValidationError("observations: " + err.Error())
	}
	lo, err := mstats.Min(data)
	if err != nil {
		return nil, errors.ValidationError("observations: " + err.Error())
	}
	hi, err := mstats.Max(data)
	if err != nil {
		return nil, errors.ValidationError("observations: " + err.Error())
	}

	summary := &SampleSummary{
		Size:   len(data),
		Mean:   mean,
		Median: median,
		Min:    lo,
		Max:    hi,
	}
	if len(data) > 1 {
		sd, err := mstats.StandardDeviationSample(data)
		if err != nil {
			return nil, errors.ValidationError("observations: " + err.Error())
		}
		summary.SampleStdDev = sd
	}
	return summary, nil
}

// Fingerprint identifies a parameter set; identical inputs always give the
// same fingerprint while each run still gets its own RunID.
func Fingerprint(p stats.TestParameters) core.Hash {
	return core.ComputeParamsHash(
		core.Field{Name: "null_mean", Value: p.NullMean},
		core.Field{Name: "sample_mean", Value: p.SampleMean},
		core.Field{Name: "std_dev", Value: p.StdDev},
		core.Field{Name: "sample_size", Value: p.SampleSize},
		core.Field{Name: "alpha", Value: p.Alpha},
		core.Field{Name: "test_type", Value: p.TestType.String()},
	)
}
