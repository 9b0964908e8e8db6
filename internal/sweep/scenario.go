package sweep

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/solver"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Runs        []Run  `yaml:"runs"`
}

// Run is one named configuration. Fields it leaves out take the defaults.
type Run struct {
	Name   string
	Config *config.Config
}

func (r *Run) UnmarshalYAML(node *yaml.Node) error {
	var meta struct {
		Name string `yaml:"name"`
	}
	if err := node.Decode(&meta); err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if err := node.Decode(cfg); err != nil {
		return err
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	r.Name, r.Config = meta.Name, cfg
	return nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range scenario.Runs {
		if scenario.Runs[i].Name == "" {
			scenario.Runs[i].Name = fmt.Sprintf("run%d", i+1)
		}
	}
	return &scenario, nil
}

// Result pairs a run with its trajectory.
type Result struct {
	Name       string
	Trajectory *solver.Trajectory
}

// RunScenario executes the runs in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, log *zap.Logger) ([]Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]Result, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Runs)),
			zap.String("run", run.Name),
		)

		exp := experiment.New(run.Config, experiment.WithLogger(log))
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d (%s) setup: %w", i+1, run.Name, err)
		}
		traj, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, run.Name, err)
		}
		results = append(results, Result{Name: run.Name, Trajectory: traj})
	}

	return results, nil
}
