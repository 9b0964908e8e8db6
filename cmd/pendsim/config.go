package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/experiment"
)

// buildConfig layers the run configuration: defaults, then the config file,
// then the preset's parameters, then flags that were given explicitly.
func buildConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("kind") || opts.configFile == "" {
		k, err := dynamo.ParseKind(opts.kind)
		if err != nil {
			return nil, err
		}
		cfg.Kind = k
	}

	if opts.preset != "" {
		p := config.GetPreset(cfg.Kind, opts.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", opts.preset, config.ListPresets(cfg.Kind))
		}
		for name, v := range p.Params {
			cfg.Params[name] = v
		}
	}

	if flags.Changed("integrator") {
		cfg.Integrator = opts.integrator
	}
	if flags.Changed("tol") {
		cfg.Tolerance = opts.tolerance
	}
	if flags.Changed("end") {
		cfg.Time.End = opts.end
	}
	if flags.Changed("step") {
		cfg.Time.Step = opts.step
	}
	if flags.Changed("fps") {
		cfg.Live.FPS = opts.fps
	}
	if flags.Changed("substeps") {
		cfg.Live.Substeps = opts.substeps
	}

	for _, s := range opts.sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want name=value", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", s, err)
		}
		cfg.Params[strings.TrimSpace(name)] = v
	}

	return cfg, nil
}

// setup builds the experiment for the command's configuration.
func setup(cmd *cobra.Command, opts *options) (*experiment.Experiment, error) {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	return setupConfig(cfg, opts)
}

func setupConfig(cfg *config.Config, opts *options) (*experiment.Experiment, error) {
	exp := experiment.New(cfg, experiment.WithLogger(opts.log))
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}
