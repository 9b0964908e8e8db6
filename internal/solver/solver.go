package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	DefaultTolerance = 1e-9
	DefaultMinStep   = 1e-12
	DefaultMaxSteps  = 2_000_000
)

type Option func(*Solver)

// WithTolerance sets the local error tolerance for adaptive stepping.
func WithTolerance(tol float64) Option {
	return func(s *Solver) { s.tol = tol }
}

func WithMinStep(h float64) Option {
	return func(s *Solver) { s.minStep = h }
}

// WithMaxSteps bounds the number of attempted steps over a whole solve.
func WithMaxSteps(n int) Option {
	return func(s *Solver) { s.maxSteps = n }
}

func WithMetrics(ms ...dynamo.Metric) Option {
	return func(s *Solver) { s.metrics = append(s.metrics, ms...) }
}

func WithObservers(obs ...dynamo.Observer) Option {
	return func(s *Solver) { s.observers = append(s.observers, obs...) }
}

type Solver struct {
	integrator dynamo.Integrator
	tol        float64
	minStep    float64
	maxSteps   int
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

// Stats counts the work done by the last solve.
type Stats struct {
	Steps    int
	Rejected int
}

func New(integrator dynamo.Integrator, opts ...Option) *Solver {
	s := &Solver{
		integrator: integrator,
		tol:        DefaultTolerance,
		minStep:    DefaultMinStep,
		maxSteps:   DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Adaptive reports whether the configured integrator controls its own step.
func (s *Solver) Adaptive() bool {
	_, ok := s.integrator.(dynamo.AdaptiveIntegrator)
	return ok
}

// Solve integrates sys from x0 and samples the state at every grid point.
// On failure no trajectory is returned; the error is a *dynamo.SimulationError
// wrapping one of the dynamo sentinels.
func (s *Solver) Solve(ctx context.Context, sys dynamo.System, grid dynamo.TimeGrid, x0 dynamo.State) (*Trajectory, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != 2*sys.DOF() {
		return nil, fmt.Errorf("%w: state has %d components, %s needs %d",
			dynamo.ErrDimensionMismatch, len(x0), sys.Kind(), 2*sys.DOF())
	}
	if !x0.IsValid() {
		return nil, &dynamo.SimulationError{Time: grid.Start, State: x0.Clone(), Wrapped: dynamo.ErrInvalidState}
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	times := grid.Points()
	states := make([]dynamo.State, 0, len(times))

	x := x0.Clone()
	states = append(states, x.Clone())
	s.observe(x, times[0])

	adaptive, isAdaptive := s.integrator.(dynamo.AdaptiveIntegrator)
	h := grid.Step
	var stats Stats

	for i := 1; i < len(times); i++ {
		select {
		case <-ctx.Done():
			return nil, &dynamo.SimulationError{
				Step:    i,
				Time:    times[i-1],
				State:   x.Clone(),
				Wrapped: fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		var err error
		if isAdaptive {
			x, h, err = s.advance(adaptive, sys, x, times[i-1], times[i], h, &stats)
		} else {
			x = s.integrator.Step(sys, x, times[i-1], times[i]-times[i-1])
			stats.Steps++
			if !x.IsValid() {
				err = &dynamo.SimulationError{Step: stats.Steps, Time: times[i], State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
			}
		}
		if err != nil {
			return nil, err
		}

		states = append(states, x.Clone())
		s.observe(x, times[i])
	}

	traj := newTrajectory(sys, times, states)
	traj.Stats = stats
	for _, m := range s.metrics {
		traj.Metrics[m.Name()] = m.Value()
	}

	return traj, nil
}

// advance integrates from t0 to t1 with error control, starting from step h.
// It returns the state at t1 and the step to try next.
func (s *Solver) advance(integ dynamo.AdaptiveIntegrator, sys dynamo.System, x dynamo.State, t0, t1, h float64, stats *Stats) (dynamo.State, float64, error) {
	t := t0
	for t < t1 {
		if stats.Steps+stats.Rejected >= s.maxSteps {
			return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrNonConvergence}
		}

		step := h
		last := false
		if t+step >= t1-1e-12*math.Max(1, math.Abs(t1)) {
			step = t1 - t
			last = true
		}

		next, suggested, err := integ.StepAdaptive(sys, x, t, step, s.tol)
		if errors.Is(err, dynamo.ErrStepRejected) {
			stats.Rejected++
			if suggested < s.minStep {
				return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x.Clone(), Wrapped: dynamo.ErrStepTooSmall}
			}
			h = suggested
			continue
		}
		if err != nil {
			return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t, State: x.Clone(), Wrapped: err}
		}

		stats.Steps++
		if !next.IsValid() {
			return nil, 0, &dynamo.SimulationError{Step: stats.Steps, Time: t + step, State: next, Wrapped: dynamo.ErrInvalidState}
		}

		x = next
		if last {
			t = t1
		} else {
			t += step
		}
		// a clipped final step says nothing about the natural step size
		if !last || suggested > h {
			h = suggested
		}
	}
	return x, h, nil
}

func (s *Solver) observe(x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, o := range s.observers {
		o.OnStep(x, t)
	}
}

func (s *Solver) validate() error {
	if s.integrator == nil {
		return fmt.Errorf("solver: no integrator configured")
	}
	if s.tol <= 0 {
		return fmt.Errorf("solver: tolerance must be positive, got %g", s.tol)
	}
	if s.minStep <= 0 {
		return fmt.Errorf("solver: minimum step must be positive, got %g", s.minStep)
	}
	if s.maxSteps <= 0 {
		return fmt.Errorf("solver: step budget must be positive, got %d", s.maxSteps)
	}
	return nil
}
