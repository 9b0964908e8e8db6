package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/solver"
	"github.com/san-kum/pendsim/internal/sweep"
	"github.com/san-kum/pendsim/internal/viz"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "solve a trajectory and print a summary with plots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return runSolve(cmd.Context(), cmd.OutOrStdout(), exp, opts)
		},
	}
}

func runSolve(ctx context.Context, w io.Writer, exp *experiment.Experiment, opts *options) error {
	cfg := exp.Config()
	start := time.Now()
	traj, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	summary := maps.Clone(traj.Metrics)
	summary["samples"] = float64(traj.Len())
	summary["steps"] = float64(traj.Stats.Steps)
	summary["rejected"] = float64(traj.Stats.Rejected)
	summary["elapsed_ms"] = float64(elapsed.Microseconds()) / 1000
	if p, ok := analysis.Period(traj.Times, traj.Angles[0]); ok {
		summary["period"] = p
	}

	title := fmt.Sprintf("%s pendulum / %s", cfg.Kind, cfg.Integrator)
	fmt.Fprintln(w, viz.Summary(title, summary, traj.Energy))
	fmt.Fprintln(w, viz.PlotAngles(traj, opts.width, opts.height))
	fmt.Fprintln(w)
	fmt.Fprintln(w, viz.PlotEnergy(traj, opts.width, opts.height/2))
	fmt.Fprintln(w)
	fmt.Fprint(w, viz.TraceTip(traj, opts.width/2, opts.height))
	return nil
}

func newLiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "animate the pendulum in real time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return runLive(cmd.Context(), exp, opts)
		},
	}
}

func runLive(ctx context.Context, exp *experiment.Experiment, opts *options) error {
	stepper, err := exp.Live()
	if err != nil {
		return err
	}
	cfg := exp.Config()
	opts.log.Info("live view",
		zap.Stringer("kind", cfg.Kind),
		zap.Float64("dt", stepper.Dt),
		zap.Int("substeps", stepper.Substeps),
		zap.Int("fps", cfg.Live.FPS),
	)
	title := fmt.Sprintf("%s pendulum", cfg.Kind)
	return viz.RunLive(ctx, viz.NewLiveModel(title, stepper, cfg.Live.FPS))
}

func newEnergyCmd(opts *options) *cobra.Command {
	var cols, rows int
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "map total energy over a slice of state space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			return runEnergy(cmd.Context(), cmd.OutOrStdout(), exp, cols, rows, opts)
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 120, "grid columns")
	cmd.Flags().IntVar(&rows, "rows", 60, "grid rows")
	return cmd
}

func runEnergy(ctx context.Context, w io.Writer, exp *experiment.Experiment, cols, rows int, opts *options) error {
	m, err := analysis.NewEnergyMap(ctx, exp.System(), exp.InitialState(), cols, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s pendulum energy: %s in [%.2f, %.2f] across, %s in [%.2f, %.2f] up\n",
		m.Kind, m.XAxis.Label, m.XAxis.Min, m.XAxis.Max, m.YAxis.Label, m.YAxis.Min, m.YAxis.Max)
	fmt.Fprintf(w, "%d levels from 0 to %.3f J\n\n", len(m.Levels), m.Levels[len(m.Levels)-1])
	fmt.Fprint(w, m.ToASCII(opts.width, opts.height*2))
	return nil
}

func newPhaseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "phase",
		Short: "phase portrait and Poincaré section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			traj, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			x, y := analysis.PhaseAxes(traj.Kind)
			fmt.Fprintf(w, "phase portrait: %s vs %s\n", y.Label, x.Label)
			fmt.Fprintln(w, analysis.NewPhasePortrait(traj, x, y).ToASCII(opts.width, opts.height))

			if traj.Kind.DOF() < 2 {
				return nil
			}
			// sample (θ2, ω2) whenever ω1 turns positive
			sx := analysis.Axis{Label: "θ2", Index: 2, Angle: true}
			sy := analysis.Axis{Label: "ω2", Index: 3}
			section := analysis.NewPoincareSection(traj, 1, 0, sx, sy)
			fmt.Fprintf(w, "\nPoincaré section at ω1 = 0: %s vs %s, %d crossings\n", sy.Label, sx.Label, len(section.Points))
			fmt.Fprintln(w, section.ToASCII(opts.width, opts.height))
			return nil
		},
	}
}

func newChaosCmd(opts *options) *cobra.Command {
	var eps, dt float64
	cmd := &cobra.Command{
		Use:   "chaos",
		Short: "estimate sensitivity to initial conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := exp.NewSolver(); err != nil {
				return err
			}
			newSolver := func() *solver.Solver {
				s, _ := exp.NewSolver()
				return s
			}

			cfg := exp.Config()
			sep, err := analysis.Divergence(cmd.Context(), newSolver, exp.System(), cfg.Time, exp.InitialState(), eps)
			if err != nil {
				return err
			}
			lambda := analysis.LyapunovExponent(exp.System(), integrators.NewRK4(), exp.InitialState(), dt, cfg.Time.End-cfg.Time.Start, eps)

			logSep := make([]float64, len(sep))
			for i, d := range sep {
				logSep[i] = math.Log10(math.Max(d, 1e-300))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, viz.Summary(fmt.Sprintf("%s pendulum sensitivity", cfg.Kind), map[string]float64{
				"lyapunov":       lambda,
				"perturbation":   eps,
				"final_distance": sep[len(sep)-1],
			}, nil))
			fmt.Fprintln(w, viz.PlotSeries(logSep, "log10 separation", opts.width, opts.height))
			return nil
		},
	}
	cmd.Flags().Float64Var(&eps, "eps", 1e-8, "initial perturbation of the first angle [rad]")
	cmd.Flags().Float64Var(&dt, "dt", 1e-3, "fixed step for the Lyapunov estimate")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = config.Integrators
			}
			base, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "comparing integrators for %s pendulum (t = %g..%g, step %g)\n\n",
				base.Kind, base.Time.Start, base.Time.End, base.Time.Step)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "integrator\tfinal θ1 [deg]\tenergy drift\tsteps\trejected\ttime [ms]\t")

			for _, name := range names {
				cfg := base.Clone()
				cfg.Integrator = name
				exp, err := setupConfig(cfg, opts)
				if err != nil {
					fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t\t\n", name, err)
					continue
				}
				start := time.Now()
				traj, err := exp.Run(cmd.Context())
				elapsed := time.Since(start)
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, dynamo.ErrContextCanceled) {
						return err
					}
					fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t\t\n", name, err)
					continue
				}
				final := angle.Degrees(angle.Normalize(traj.Final()[0]))
				fmt.Fprintf(tw, "%s\t%.4f\t%.2e\t%d\t%d\t%.2f\t\n",
					name, final, traj.EnergyDrift(), traj.Stats.Steps, traj.Stats.Rejected, float64(elapsed.Microseconds())/1000)
			}
			return tw.Flush()
		},
	}
}

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params [kind]",
		Short: "list the parameters of a pendulum kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dynamo.ParseKind(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "name\tdefault\tmin\tmax\tunit")
			for _, p := range config.Params(k) {
				unit := ""
				if p.Angle {
					unit = "deg"
				}
				fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n", p.Name, p.Default, p.Min, p.Max, unit)
			}
			return tw.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets for a pendulum kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dynamo.ParseKind(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "presets for %s:\n", k)
			for _, name := range config.ListPresets(k) {
				p := config.GetPreset(k, name)
				keys := make([]string, 0, len(p.Params))
				for _, s := range config.Params(k) {
					if v, ok := p.Params[s.Name]; ok {
						keys = append(keys, fmt.Sprintf("%s=%g", s.Name, v))
					}
				}
				fmt.Fprintf(w, "  %-12s %s\n", name, strings.Join(keys, " "))
			}
			return nil
		},
	}
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := cfg.Resolve(); err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}

func runMenu(cmd *cobra.Command, opts *options) error {
	choice, err := viz.RunMenu(cmd.Context())
	if err != nil || choice.Action == "" {
		return err
	}
	exp, err := setupConfig(choice.Config(), opts)
	if err != nil {
		return err
	}

	switch choice.Action {
	case viz.ActionLive:
		return runLive(cmd.Context(), exp, opts)
	case viz.ActionEnergy:
		return runEnergy(cmd.Context(), cmd.OutOrStdout(), exp, 120, 60, opts)
	default:
		return runSolve(cmd.Context(), cmd.OutOrStdout(), exp, opts)
	}
}

func newSweepCmd(opts *options) *cobra.Command {
	var (
		param    string
		from, to float64
		n        int
		metric   string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and tabulate a metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("sweep needs at least one value, got -n %d", n)
			}
			base, err := buildConfig(cmd, opts)
			if err != nil {
				return err
			}
			s := &sweep.Sweep{
				Base:  base,
				Axes:  []sweep.Axis{sweep.Linspace(param, from, to, n)},
				Limit: parallel,
				Log:   opts.log,
			}
			points, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "%s\t%s\t\n", param, metric)
			for _, p := range points {
				if p.Err != nil {
					fmt.Fprintf(tw, "%g\terror: %v\t\n", p.Params[param], p.Err)
					continue
				}
				v, ok := p.Metrics[metric]
				if !ok {
					fmt.Fprintf(tw, "%g\t-\t\n", p.Params[param])
					continue
				}
				fmt.Fprintf(tw, "%g\t%.6g\t\n", p.Params[param], v)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			col := sweep.Column(points, metric)
			var valid []float64
			for _, v := range col {
				if !math.IsNaN(v) {
					valid = append(valid, v)
				}
			}
			if len(valid) > 1 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, viz.PlotSeries(valid, fmt.Sprintf("%s vs %s", metric, param), opts.width, opts.height))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&param, "param", "th0", "parameter to vary")
	cmd.Flags().Float64Var(&from, "from", 10, "first value")
	cmd.Flags().Float64Var(&to, "to", 170, "last value")
	cmd.Flags().IntVarP(&n, "num", "n", 9, "number of values")
	cmd.Flags().StringVar(&metric, "metric", "period", "metric to report")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent solves (0 = all cores)")
	return cmd
}

func newScenarioCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of configurations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sweep.LoadScenario(args[0])
			if err != nil {
				return err
			}
			results, err := sweep.RunScenario(cmd.Context(), sc, opts.log)
			w := cmd.OutOrStdout()
			for _, r := range results {
				title := fmt.Sprintf("%s: %s pendulum", r.Name, r.Trajectory.Kind)
				fmt.Fprintln(w, viz.Summary(title, sweep.Measure(r.Trajectory), r.Trajectory.Energy))
			}
			return err
		},
	}
}
