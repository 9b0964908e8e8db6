// Package realtime advances a pendulum at a fixed tick for interactive
// display. It owns no loop; the caller decides when the next frame is due.
package realtime

import (
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
)

const (
	DefaultDt       = 1e-3
	DefaultSubsteps = 16
)

// Advance returns the state one semi-implicit Euler tick of dt after x.
// x itself is not modified.
func Advance(model dynamo.AccelerationModel, x dynamo.State, dt float64) dynamo.State {
	pos, vel := x.Split()
	integrators.SemiImplicitEuler(model, dt, pos, vel)
	return dynamo.Join(pos, vel)
}

// Frame is what a renderer needs to draw one picture.
type Frame struct {
	Time   float64
	State  dynamo.State
	Bodies []dynamo.Point
	Energy float64
}

// Stepper holds the running state of a live simulation. Each call to Next
// performs Substeps ticks of Dt.
type Stepper struct {
	Model    dynamo.System
	Dt       float64
	Substeps int

	x0  dynamo.State
	pos []float64
	vel []float64
	t   float64
}

func NewStepper(model dynamo.System, x0 dynamo.State, dt float64, substeps int) *Stepper {
	if dt <= 0 {
		dt = DefaultDt
	}
	if substeps <= 0 {
		substeps = DefaultSubsteps
	}
	s := &Stepper{Model: model, Dt: dt, Substeps: substeps, x0: x0.Clone()}
	s.Reset()
	return s
}

// Reset returns to the initial state at t = 0.
func (s *Stepper) Reset() {
	s.pos, s.vel = s.x0.Split()
	s.t = 0
}

func (s *Stepper) Time() float64 { return s.t }

func (s *Stepper) State() dynamo.State { return dynamo.Join(s.pos, s.vel) }

// Next advances one display frame and returns it.
func (s *Stepper) Next() Frame {
	for i := 0; i < s.Substeps; i++ {
		integrators.SemiImplicitEuler(s.Model, s.Dt, s.pos, s.vel)
		s.t += s.Dt
	}
	return s.Current()
}

// Current describes the present state without advancing.
func (s *Stepper) Current() Frame {
	x := s.State()
	f := Frame{Time: s.t, State: x}
	if kin, ok := s.Model.(dynamo.Kinematic); ok {
		f.Bodies = kin.Positions(x)
	}
	if h, ok := s.Model.(dynamo.Hamiltonian); ok {
		f.Energy = h.Energy(x)
	}
	return f
}
