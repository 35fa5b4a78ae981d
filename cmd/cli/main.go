package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"zhypo/app"
	"zhypo/domain/distribution"
	"zhypo/domain/stats"
	"zhypo/internal"
	"zhypo/internal/config"
	"zhypo/internal/errors"
	"zhypo/internal/validation"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env carries what every subcommand needs once configuration is loaded
type env struct {
	cfg     *config.Config
	service *app.SimulationService
}

func newRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "zhypo-cli",
		Short:         "One-sample z-test simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Logs go to stderr so stdout stays machine-readable.
			logger := internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(cfg.Logging.Level))
			e.cfg = cfg
			e.service = app.NewSimulationService(
				validation.Limits{MinSampleSize: cfg.Simulation.MinSampleSize},
				distribution.Options{Points: cfg.Simulation.CurvePoints, SpanSE: cfg.Simulation.CurveSpanSE},
				logger,
			)
			return nil
		},
	}

	rootCmd.AddCommand(
		newZTestCmd(e),
		newCurveCmd(e),
		newDensityCmd("pdf", "Evaluate the normal probability density at x", stats.NormalPDF),
		newDensityCmd("cdf", "Evaluate the normal cumulative distribution at x", stats.NormalCDF),
		newQuantileCmd(),
	)

	return rootCmd
}

// testFlags are the parameter flags shared by ztest and curve
type testFlags struct {
	nullMean     float64
	sampleMean   float64
	stdDev       float64
	sampleSize   int
	alpha        float64
	testType     string
	observations []float64
}

func (f *testFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.nullMean, "null-mean", 0, "Mean under the null hypothesis (μ₀)")
	cmd.Flags().Float64Var(&f.sampleMean, "sample-mean", 1, "Observed sample mean (x̄)")
	cmd.Flags().Float64Var(&f.stdDev, "std-dev", 1, "Population standard deviation (σ)")
	cmd.Flags().IntVar(&f.sampleSize, "sample-size", 30, "Sample size (n)")
	cmd.Flags().Float64Var(&f.alpha, "alpha", 0, "Significance level (default DEFAULT_ALPHA)")
	cmd.Flags().StringVar(&f.testType, "test-type", "two-tailed", "Test type: less, greater or two-tailed")
	cmd.Flags().Float64SliceVar(&f.observations, "observations", nil, "Comma-separated raw observations; replaces --sample-mean and --sample-size")
}

func (f *testFlags) run(cmd *cobra.Command, e *env) (*app.Simulation, error) {
	ctx := cmd.Context()
	testType, err := stats.ParseTestType(f.testType)
	if err != nil {
		return nil, errors.InvalidInput(validation.FieldTestType, err.Error())
	}
	alpha := f.alpha
	if !cmd.Flags().Changed("alpha") {
		alpha = e.cfg.Simulation.DefaultAlpha
	}

	if len(f.observations) > 0 {
		return e.service.FromObservations(ctx, app.ObservationRequest{
			NullMean:     f.nullMean,
			StdDev:       f.stdDev,
			Observations: f.observations,
			Alpha:        alpha,
			TestType:     testType,
		})
	}
	return e.service.Run(ctx, stats.TestParameters{
		NullMean:   f.nullMean,
		SampleMean: f.sampleMean,
		StdDev:     f.stdDev,
		SampleSize: f.sampleSize,
		Alpha:      alpha,
		TestType:   testType,
	})
}

func newZTestCmd(e *env) *cobra.Command {
	var flags testFlags
	var asJSON, withPlot bool

	cmd := &cobra.Command{
		Use:   "ztest",
		Short: "Run a one-sample z-test",
		Long: `Run a one-sample z-test with known population standard deviation.

Example: zhypo-cli ztest --null-mean 10 --sample-mean 9 --std-dev 2 --sample-size 25 --test-type less`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := flags.run(cmd, e)
			if err != nil {
				return err
			}
			if asJSON {
				if !withPlot {
					sim.Distribution = nil
				}
				return writeJSON(cmd.OutOrStdout(), sim)
			}
			printSimulation(cmd.OutOrStdout(), sim)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run as JSON")
	cmd.Flags().BoolVar(&withPlot, "plot", false, "Include the sampling distribution in JSON output")

	return cmd
}

func newCurveCmd(e *env) *cobra.Command {
	var flags testFlags
	var asJSON bool
	var progress float64

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the sampling distribution under the null hypothesis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := flags.run(cmd, e)
			if err != nil {
				return err
			}
			plot := *sim.Distribution
			plot.Marker = plot.MarkerAt(progress)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), plot)
			}
			printCurve(cmd.OutOrStdout(), &plot)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the curve as JSON")
	cmd.Flags().Float64Var(&progress, "progress", 1, "Marker position between the null mean (0) and the statistic (1)")

	return cmd
}

func newDensityCmd(name, short string, fn func(x, mean, sd float64) float64) *cobra.Command {
	var mean, sd float64

	cmd := &cobra.Command{
		Use:   name + " x",
		Short: short,
		Long:  short + ".\n\nPrefix negative values with --, e.g. zhypo-cli " + name + " -- -1.96",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.InvalidInput(validation.FieldX, "x must be a number")
			}
			if err := validation.ValidateDensityArgs(x, mean, sd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(fn(x, mean, sd)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&mean, "mean", 0, "Distribution mean")
	cmd.Flags().Float64Var(&sd, "sd", 1, "Distribution standard deviation")

	return cmd
}

func newQuantileCmd() *cobra.Command {
	var mean, sd float64

	cmd := &cobra.Command{
		Use:   "quantile p",
		Short: "Evaluate the inverse normal CDF at probability p",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.InvalidInput(validation.FieldProbability, "p must be a number")
			}
			if err := validation.ValidateQuantileArgs(p, mean, sd); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(stats.NormalQuantile(p, mean, sd)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&mean, "mean", 0, "Distribution mean")
	cmd.Flags().Float64Var(&sd, "sd", 1, "Distribution standard deviation")

	return cmd
}

func printSimulation(w io.Writer, sim *app.Simulation) {
	res := sim.Result

	var critical string
	switch cv := res.CriticalValue.(type) {
	case stats.CriticalPair:
		critical = "±" + strconv.FormatFloat(cv.High, 'f', 4, 64)
	case stats.CriticalBound:
		critical = strconv.FormatFloat(float64(cv), 'f', 4, 64)
	}

	fmt.Fprintf(w, "Run:            %s\n", sim.RunID)
	fmt.Fprintf(w, "Hypotheses:     H₀: %s   H₁: %s\n", sim.Hypotheses.Null, sim.Hypotheses.Alternative)
	if sim.Sample != nil {
		fmt.Fprintf(w, "Sample:         n=%d mean=%g median=%g sd=%g\n",
			sim.Sample.Size, sim.Sample.Mean, sim.Sample.Median, sim.Sample.SampleStdDev)
	}
	fmt.Fprintf(w, "Standard error: %s\n", formatValue(res.StandardError))
	fmt.Fprintf(w, "Test statistic: %s\n", strconv.FormatFloat(res.TestStatistic, 'f', 3, 64))
	fmt.Fprintf(w, "Critical value: %s\n", critical)
	fmt.Fprintf(w, "p-value:        %s\n", strconv.FormatFloat(res.PValue, 'g', 4, 64))
	fmt.Fprintf(w, "Decision:       %s (α = %g)\n", sim.Decision, sim.Params.Alpha)
}

func printCurve(w io.Writer, plot *distribution.Plot) {
	bounds := make(map[distribution.Side]float64, len(plot.Regions))
	for _, r := range plot.Regions {
		bounds[r.Side] = r.Threshold
	}

	fmt.Fprintf(w, "%14s  %14s  %s\n", "x", "density", "region")
	for _, pt := range plot.Curve {
		region := ""
		if t, ok := bounds[distribution.SideLeft]; ok && pt.X <= t {
			region = "reject"
		}
		if t, ok := bounds[distribution.SideRight]; ok && pt.X >= t {
			region = "reject"
		}
		fmt.Fprintf(w, "%14.6f  %14.8f  %s\n", pt.X, pt.Y, region)
	}
	fmt.Fprintf(w, "marker: x=%.6f density=%.8f progress=%g\n", plot.Marker.X, plot.Marker.Y, plot.Marker.Progress)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
