// Package validation checks z-test inputs at the edge. The numerical core
// assumes a valid domain and never validates on its own.
package validation

import (
	"fmt"
	"math"

	"zhypo/domain/stats"
	"zhypo/internal/errors"
)

// Field names reported in validation errors.
const (
	FieldNullMean     = "null_mean"
	FieldSampleMean   = "sample_mean"
	FieldStdDev       = "std_dev"
	FieldSampleSize   = "sample_size"
	FieldAlpha        = "alpha"
	FieldTestType     = "test_type"
	FieldObservations = "observations"
	FieldX            = "x"
	FieldMean         = "mean"
	FieldProbability  = "p"
)

// Limits are the edge bounds applied before the core runs.
type Limits struct {
	MinSampleSize int
}

// DefaultLimits accepts any sample of at least one observation.
func DefaultLimits() Limits {
	return Limits{MinSampleSize: 1}
}

// ValidateParameters rejects parameters outside the core's domain.
func ValidateParameters(p stats.TestParameters, limits Limits) error {
	if err := finite(FieldNullMean, p.NullMean); err != nil {
		return err
	}
	if err := finite(FieldSampleMean, p.SampleMean); err != nil {
		return err
	}
	if err := ValidateStdDev(p.StdDev); err != nil {
		return err
	}
	if err := validateSampleSize(p.SampleSize, limits); err != nil {
		return err
	}
	if err := validateStandardError(p.StdDev, p.SampleSize); err != nil {
		return err
	}
	if !(p.Alpha > 0 && p.Alpha < 1) {
		return errors.InvalidInput(FieldAlpha, "significance level must be strictly between 0 and 1")
	}
	if !p.TestType.Valid() {
		return errors.InvalidInput(FieldTestType, fmt.Sprintf("unknown test type %d", int(p.TestType)))
	}
	return nil
}

// ValidateStdDev rejects a non-positive or non-finite standard deviation.
func ValidateStdDev(sd float64) error {
	if math.IsNaN(sd) || math.IsInf(sd, 0) || sd <= 0 {
		return errors.InvalidInput(FieldStdDev, "standard deviation must be positive")
	}
	return nil
}

// ValidateObservations checks a raw sample before it is summarized.
func ValidateObservations(obs []float64, limits Limits) error {
	if err := validateSampleSize(len(obs), limits); err != nil {
		return errors.InvalidInput(FieldObservations, err.Error())
	}
	for i, v := range obs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.InvalidInput(FieldObservations, fmt.Sprintf("observation %d is not a finite number", i+1))
		}
	}
	return nil
}

// ValidateDensityArgs checks the arguments of a PDF or CDF evaluation.
func ValidateDensityArgs(x, mean, sd float64) error {
	if math.IsNaN(x) {
		return errors.InvalidInput(FieldX, "x must be a number")
	}
	if err := finite(FieldMean, mean); err != nil {
		return err
	}
	return ValidateStdDev(sd)
}

// ValidateQuantileArgs checks the arguments of a quantile evaluation.
// Probabilities outside [0, 1] are allowed and map to ±Inf.
func ValidateQuantileArgs(p, mean, sd float64) error {
	if math.IsNaN(p) {
		return errors.InvalidInput(FieldProbability, "p must be a number")
	}
	if err := finite(FieldMean, mean); err != nil {
		return err
	}
	return ValidateStdDev(sd)
}

func validateSampleSize(n int, limits Limits) error {
	minSize := limits.MinSampleSize
	if minSize < 1 {
		minSize = 1
	}
	if n < minSize {
		return errors.InvalidInput(FieldSampleSize, fmt.Sprintf("sample size must be at least %d", minSize))
	}
	return nil
}

// minVariance is the smallest normal float64. Below it the sampling density
// can no longer be evaluated.
const minVariance = 0x1p-1022

// validateStandardError rejects a standard deviation whose sampling variance
// 2π·SE² underflows or overflows.
func validateStandardError(sd float64, n int) error {
	se := sd / math.Sqrt(float64(n))
	v := 2 * math.Pi * se * se
	if v < minVariance || math.IsInf(v, 0) {
		return errors.InvalidInput(FieldStdDev, "standard deviation is out of range for this sample size")
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.InvalidInput(field, "must be a finite number")
	}
	return nil
}
