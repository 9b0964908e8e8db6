package dynamo

import "math"

// State holds one (angle, angular velocity) pair per degree of freedom:
// [q0, w0, q1, w1, ...]. Angles are never wrapped during integration.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// DOF is the number of angle/velocity pairs in the state.
func (s State) DOF() int { return len(s) / 2 }

// Split copies the interleaved state into separate position and velocity slices.
func (s State) Split() (pos, vel []float64) {
	n := s.DOF()
	pos = make([]float64, n)
	vel = make([]float64, n)
	for i := 0; i < n; i++ {
		pos[i] = s[2*i]
		vel[i] = s[2*i+1]
	}
	return pos, vel
}

// Join interleaves positions and velocities into a new State.
func Join(pos, vel []float64) State {
	s := make(State, 2*len(pos))
	for i := range pos {
		s[2*i] = pos[i]
		if i < len(vel) {
			s[2*i+1] = vel[i]
		}
	}
	return s
}

// AccelerationModel computes the angular accelerations of every degree of
// freedom from the current angles and angular velocities.
type AccelerationModel interface {
	DOF() int
	Accelerations(pos, vel []float64) []float64
}

// System is a pendulum whose full state derivative can be evaluated. The
// time argument is accepted for uniformity; all supported systems are
// autonomous.
type System interface {
	AccelerationModel
	Kind() Kind
	Derive(x State, t float64) State
}

// Hamiltonian systems expose their total mechanical energy.
type Hamiltonian interface {
	Energy(x State) float64
}

// Point is a Cartesian body position. Planar chains leave Z at zero.
type Point struct {
	X, Y, Z float64
}

// Kinematic systems map a state to the Cartesian position of each body.
type Kinematic interface {
	Positions(x State) []Point
}

type Configurable interface {
	Params() map[string]float64
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator attempts a step of dt. On success it returns the new
// state and a suggested next step; on rejection it returns ErrStepRejected
// and a smaller step to retry with.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}
