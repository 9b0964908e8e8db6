// Package experiment turns a run configuration into a model, an integrator
// and a solver, and runs it.
package experiment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/realtime"
	"github.com/san-kum/pendsim/internal/solver"
)

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	params   map[string]float64
	sys      dynamo.System
	x0       dynamo.State
	log      *zap.Logger
}

type Option func(*Experiment)

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) { e.log = l }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Setup validates the configuration and builds the model.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if _, err := e.registry.GetIntegrator(e.cfg.Integrator); err != nil {
		return err
	}

	params, err := e.cfg.Resolve()
	if err != nil {
		return err
	}
	sys, err := physics.New(e.cfg.Kind, params)
	if err != nil {
		return err
	}

	e.params = params
	e.sys = sys
	e.x0 = config.InitialState(e.cfg.Kind, params)

	e.log.Debug("experiment ready",
		zap.Stringer("kind", e.cfg.Kind),
		zap.String("integrator", e.cfg.Integrator),
		zap.Any("params", params),
		zap.Float64s("x0", e.x0),
	)
	return nil
}

// NewSolver returns a solver with the configured integrator, tolerance and
// the default metrics for the model.
func (e *Experiment) NewSolver() (*solver.Solver, error) {
	if e.sys == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}
	return solver.New(integ,
		solver.WithTolerance(e.cfg.Tolerance),
		solver.WithMetrics(e.registry.DefaultMetrics(e.sys)...),
	), nil
}

func (e *Experiment) Run(ctx context.Context) (*solver.Trajectory, error) {
	s, err := e.NewSolver()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	traj, err := s.Solve(ctx, e.sys, e.cfg.Time, e.x0)
	if err != nil {
		e.log.Warn("solve failed", zap.Stringer("kind", e.cfg.Kind), zap.Error(err))
		return nil, err
	}
	e.log.Info("solve finished",
		zap.Stringer("kind", e.cfg.Kind),
		zap.Int("samples", traj.Len()),
		zap.Int("steps", traj.Stats.Steps),
		zap.Int("rejected", traj.Stats.Rejected),
		zap.Float64("energy_drift", traj.EnergyDrift()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return traj, nil
}

// Live returns a stepper for the interactive view.
func (e *Experiment) Live() (*realtime.Stepper, error) {
	if e.sys == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return realtime.NewStepper(e.sys, e.x0, e.cfg.Live.Dt, e.cfg.Live.Steps()), nil
}

func (e *Experiment) System() dynamo.System      { return e.sys }
func (e *Experiment) InitialState() dynamo.State { return e.x0.Clone() }
func (e *Experiment) Params() map[string]float64 { return e.params }
func (e *Experiment) Config() *config.Config     { return e.cfg }
