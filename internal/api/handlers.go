package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"zhypo/app"
	"zhypo/domain/stats"
	"zhypo/internal/errors"
	"zhypo/internal/validation"
)

// ZTestRequest is the body of POST /ztest
type ZTestRequest struct {
	NullMean   *float64 `json:"null_mean" binding:"required"`
	SampleMean *float64 `json:"sample_mean" binding:"required"`
	StdDev     *float64 `json:"std_dev" binding:"required"`
	SampleSize *int     `json:"sample_size" binding:"required"`
	Alpha      *float64 `json:"alpha"`
	TestType   string   `json:"test_type"`
}

// ObservationsRequest is the body of POST /ztest/observations
type ObservationsRequest struct {
	NullMean     *float64  `json:"null_mean" binding:"required"`
	StdDev       *float64  `json:"std_dev" binding:"required"`
	Observations []float64 `json:"observations" binding:"required"`
	Alpha        *float64  `json:"alpha"`
	TestType     string    `json:"test_type"`
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunZTest evaluates a z-test from summary statistics
func (h *Handler) RunZTest(c *gin.Context) {
	var req ZTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ValidationError("invalid request body: "+err.Error()))
		return
	}

	testType, err := parseTestType(req.TestType)
	if err != nil {
		respondError(c, err)
		return
	}

	sim, err := h.service.Run(c.Request.Context(), stats.TestParameters{
		NullMean:   *req.NullMean,
		SampleMean: *req.SampleMean,
		StdDev:     *req.StdDev,
		SampleSize: *req.SampleSize,
		Alpha:      h.alpha(req.Alpha),
		TestType:   testType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondSimulation(c, sim)
}

// RunObservations evaluates a z-test from raw observations
func (h *Handler) RunObservations(c *gin.Context) {
	var req ObservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ValidationError("invalid request body: "+err.Error()))
		return
	}

	testType, err := parseTestType(req.TestType)
	if err != nil {
		respondError(c, err)
		return
	}

	sim, err := h.service.FromObservations(c.Request.Context(), app.ObservationRequest{
		NullMean:     *req.NullMean,
		StdDev:       *req.StdDev,
		Observations: req.Observations,
		Alpha:        h.alpha(req.Alpha),
		TestType:     testType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondSimulation(c, sim)
}

// PDF evaluates the normal density at x
func (h *Handler) PDF(c *gin.Context) {
	x, mean, sd, err := densityArgs(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": stats.JSONFloat(x), "mean": mean, "sd": sd, "pdf": stats.JSONFloat(stats.NormalPDF(x, mean, sd))})
}

// CDF evaluates the normal cumulative probability at x
func (h *Handler) CDF(c *gin.Context) {
	x, mean, sd, err := densityArgs(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": stats.JSONFloat(x), "mean": mean, "sd": sd, "cdf": stats.JSONFloat(stats.NormalCDF(x, mean, sd))})
}

// Quantile evaluates the inverse normal CDF at p
func (h *Handler) Quantile(c *gin.Context) {
	p, err := queryFloat(c, validation.FieldProbability, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	mean, sd, err := locationScale(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := validation.ValidateQuantileArgs(p, mean, sd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"p": p, "mean": mean, "sd": sd, "quantile": stats.JSONFloat(stats.NormalQuantile(p, mean, sd))})
}

func (h *Handler) respondSimulation(c *gin.Context, sim *app.Simulation) {
	withPlot, _ := strconv.ParseBool(c.DefaultQuery("plot", "false"))
	out := *sim
	if !withPlot {
		out.Distribution = nil
	} else if raw, ok := c.GetQuery("progress"); ok {
		progress, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(progress) {
			respondError(c, errors.InvalidInput("progress", "progress must be a number between 0 and 1"))
			return
		}
		plot := *sim.Distribution
		plot.Marker = plot.MarkerAt(progress)
		out.Distribution = &plot
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) alpha(a *float64) float64 {
	if a == nil {
		return h.defaultAlpha
	}
	return *a
}

func parseTestType(s string) (stats.TestType, error) {
	if s == "" {
		return stats.TestTwoTailed, nil
	}
	t, err := stats.ParseTestType(s)
	if err != nil {
		return 0, errors.InvalidInput(validation.FieldTestType, err.Error())
	}
	return t, nil
}

func densityArgs(c *gin.Context) (x, mean, sd float64, err error) {
	if x, err = queryFloat(c, validation.FieldX, nil); err != nil {
		return
	}
	if mean, sd, err = locationScale(c); err != nil {
		return
	}
	err = validation.ValidateDensityArgs(x, mean, sd)
	return
}

func locationScale(c *gin.Context) (mean, sd float64, err error) {
	zero, one := 0.0, 1.0
	if mean, err = queryFloat(c, validation.FieldMean, &zero); err != nil {
		return
	}
	sd, err = queryFloat(c, "sd", &one)
	if err != nil {
		err = errors.InvalidInput(validation.FieldStdDev, "sd must be a number")
	}
	return
}

// queryFloat reads a numeric query parameter, falling back to def when it
// is absent. A nil def makes the parameter required.
func queryFloat(c *gin.Context, name string, def *float64) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		if def == nil {
			return 0, errors.InvalidInput(name, name+" is required")
		}
		return *def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidInput(name, name+" must be a number")
	}
	return v, nil
}

func respondError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
	if field := errors.GetField(err); field != "" {
		body["field"] = field
	}
	c.AbortWithStatusJSON(errors.HTTPStatus(err), body)
}
