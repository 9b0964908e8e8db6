package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/logging"
	"github.com/san-kum/pendsim/internal/viz"
)

type options struct {
	configFile string
	kind       string
	preset     string
	integrator string
	tolerance  float64
	end        float64
	step       float64
	sets       []string
	fps        int
	substeps   int
	theme      string
	logLevel   string
	logFormat  string
	width      int
	height     int

	log *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &options{log: zap.NewNop()}
	err := newRootCmd(opts).ExecuteContext(ctx)
	_ = opts.log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pendsim",
		Short:         "simple, double, triple and spherical pendulum simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.log = l
			viz.SetTheme(opts.theme)
			return nil
		},
		// Default to the interactive menu when no command is given
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "config file path (yaml)")
	pf.StringVarP(&opts.kind, "kind", "k", "simple", "pendulum kind: simple, double, triple, spherical")
	pf.StringVarP(&opts.preset, "preset", "p", "", "use preset configuration")
	pf.StringVar(&opts.integrator, "integrator", "", "integrator: rk45, rk4, symplectic")
	pf.Float64Var(&opts.tolerance, "tol", 0, "adaptive error tolerance")
	pf.Float64Var(&opts.end, "end", 0, "end time [s]")
	pf.Float64Var(&opts.step, "step", 0, "output step [s]")
	pf.StringArrayVar(&opts.sets, "set", nil, "override a parameter, name=value (angles in degrees)")
	pf.IntVar(&opts.fps, "fps", 0, "live frame rate")
	pf.IntVar(&opts.substeps, "substeps", 0, "live ticks per frame")
	pf.StringVar(&opts.theme, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "console", "log format: console, json")
	pf.IntVar(&opts.width, "width", 72, "plot width")
	pf.IntVar(&opts.height, "height", 14, "plot height")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newLiveCmd(opts),
		newEnergyCmd(opts),
		newPhaseCmd(opts),
		newChaosCmd(opts),
		newCompareCmd(opts),
		newSweepCmd(opts),
		newScenarioCmd(opts),
		newParamsCmd(),
		newPresetsCmd(),
		newInitCmd(opts),
	)
	return rootCmd
}
