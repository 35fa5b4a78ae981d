package ui

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"zhypo/app"
	"zhypo/domain/stats"
	"zhypo/internal/errors"
	"zhypo/internal/validation"
)

// FormValues holds the raw simulator form fields so they can be echoed
// back after a rejected submission.
type FormValues struct {
	NullMean   string
	SampleMean string
	StdDev     string
	SampleSize string
	Alpha      string
	TestType   string
}

// TestTypeOption is one entry of the test type selector
type TestTypeOption struct {
	Value    string
	Label    string
	Selected bool
}

// ResultView is the decision card data for one run
type ResultView struct {
	Sim         *app.Simulation
	Formula     string
	Critical    string
	Reject      bool
	Chart       *Chart
	Alternative string
}

type pageData struct {
	Title   string
	Form    FormValues
	Options []TestTypeOption
	Error   string
	Field   string
	Result  *ResultView
	Content interface{}
}

func (a *App) defaultForm() FormValues {
	return FormValues{
		NullMean:   "0",
		SampleMean: "1",
		StdDev:     "1",
		SampleSize: "30",
		Alpha:      strconv.FormatFloat(a.config.DefaultAlpha, 'g', -1, 64),
		TestType:   stats.TestTwoTailed.String(),
	}
}

func testTypeOptions(selected string) []TestTypeOption {
	opts := make([]TestTypeOption, 0, 3)
	for _, t := range []stats.TestType{stats.TestTwoTailed, stats.TestLess, stats.TestGreater} {
		opts = append(opts, TestTypeOption{
			Value:    t.String(),
			Label:    fmt.Sprintf("%s (H₁: %s)", t, t.AlternativeSymbol()),
			Selected: t.String() == selected,
		})
	}
	return opts
}

// handleIndex serves the parameter form
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	form := a.defaultForm()
	a.renderTemplate(w, http.StatusOK, "index.html", pageData{
		Title:   "Z-Test Simulator",
		Form:    form,
		Options: testTypeOptions(form.TestType),
	})
}

// handleSimulate runs the test for the submitted form and renders the
// decision cards and the sampling distribution.
func (a *App) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := a.defaultForm()
	overlay := func(dst *string, key string) {
		if v := strings.TrimSpace(r.Form.Get(key)); v != "" {
			*dst = v
		}
	}
	overlay(&form.NullMean, validation.FieldNullMean)
	overlay(&form.SampleMean, validation.FieldSampleMean)
	overlay(&form.StdDev, validation.FieldStdDev)
	overlay(&form.SampleSize, validation.FieldSampleSize)
	overlay(&form.Alpha, validation.FieldAlpha)
	overlay(&form.TestType, validation.FieldTestType)

	data := pageData{
		Title:   "Z-Test Simulator",
		Form:    form,
		Options: testTypeOptions(form.TestType),
	}

	params, err := parseForm(form)
	if err == nil {
		err = validation.ValidateParameters(params, a.config.FormLimits)
	}
	var sim *app.Simulation
	if err == nil {
		sim, err = a.service.Run(r.Context(), params)
	}
	if err != nil {
		data.Error = formMessage(err)
		data.Field = errors.GetField(err)
		a.renderTemplate(w, errors.HTTPStatus(err), "index.html", data)
		return
	}

	data.Result = newResultView(sim, a.config.ChartWidth)
	a.renderTemplate(w, http.StatusOK, "index.html", data)
}

// handlePage serves a Markdown page
func (a *App) handlePage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, ok := a.pages[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		a.renderTemplate(w, http.StatusOK, "page.html", pageData{Title: title, Content: content})
	}
}

func parseForm(form FormValues) (stats.TestParameters, error) {
	var p stats.TestParameters
	var err error

	if p.NullMean, err = parseNumber(validation.FieldNullMean, form.NullMean); err != nil {
		return p, err
	}
	if p.SampleMean, err = parseNumber(validation.FieldSampleMean, form.SampleMean); err != nil {
		return p, err
	}
	if p.StdDev, err = parseNumber(validation.FieldStdDev, form.StdDev); err != nil {
		return p, err
	}
	if p.Alpha, err = parseNumber(validation.FieldAlpha, form.Alpha); err != nil {
		return p, err
	}
	n, convErr := strconv.Atoi(form.SampleSize)
	if convErr != nil {
		return p, errors.InvalidInput(validation.FieldSampleSize, "sample size must be a whole number")
	}
	p.SampleSize = n
	if p.TestType, convErr = stats.ParseTestType(form.TestType); convErr != nil {
		return p, errors.InvalidInput(validation.FieldTestType, convErr.Error())
	}
	return p, nil
}

func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidInput(field, "must be a number")
	}
	return v, nil
}

// formMessage renders an error for the form banner
func formMessage(err error) string {
	if appErr, ok := errors.As(err); ok && appErr.Field != "" {
		label := fieldLabels[appErr.Field]
		if label == "" {
			label = appErr.Field
		}
		return label + ": " + appErr.Message
	}
	return err.Error()
}

var fieldLabels = map[string]string{
	validation.FieldNullMean:   "Null hypothesis mean (μ₀)",
	validation.FieldSampleMean: "Sample mean (x̄)",
	validation.FieldStdDev:     "Population standard deviation (σ)",
	validation.FieldSampleSize: "Sample size (n)",
	validation.FieldAlpha:      "Significance level (α)",
	validation.FieldTestType:   "Test type",
}

func newResultView(sim *app.Simulation, chartWidth int) *ResultView {
	p, res := sim.Params, sim.Result

	var critical string
	switch cv := res.CriticalValue.(type) {
	case stats.CriticalPair:
		critical = fmt.Sprintf("±%s", formatFixed(cv.High, 3))
	case stats.CriticalBound:
		critical = formatFixed(float64(cv), 3)
	}

	return &ResultView{
		Sim: sim,
		Formula: fmt.Sprintf("z = (x̄ − μ₀) / (σ / √n) = (%s − %s) / (%s / √%d) = %s",
			formatSig(p.SampleMean, 6), formatSig(p.NullMean, 6), formatSig(p.StdDev, 6), p.SampleSize,
			formatFixed(res.TestStatistic, 3)),
		Critical:    critical,
		Reject:      res.RejectNull,
		Chart:       NewChart(sim.Distribution, chartWidth, 0),
		Alternative: sim.Hypotheses.Alternative,
	}
}

func formatFixed(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

func formatSig(v float64, digits int) string {
	return strconv.FormatFloat(v, 'g', digits, 64)
}
