package integrators

import "github.com/san-kum/pendsim/internal/dynamo"

// SemiImplicitEuler advances pos and vel in place by one tick of dt.
// All accelerations are taken from the current state first; then each
// velocity is updated and its position moves with the updated velocity.
// There is no error control, accuracy is set by the choice of dt.
func SemiImplicitEuler(m dynamo.AccelerationModel, dt float64, pos, vel []float64) ([]float64, []float64) {
	acc := m.Accelerations(pos, vel)
	for i, a := range acc {
		vel[i] += a * dt
		pos[i] += vel[i] * dt
	}
	return pos, vel
}

// Symplectic adapts SemiImplicitEuler to the full-state Integrator
// interface so it can drive a batch solve.
type Symplectic struct{}

func NewSymplectic() *Symplectic {
	return &Symplectic{}
}

func (s *Symplectic) Step(sys dynamo.System, x dynamo.State, _ float64, dt float64) dynamo.State {
	pos, vel := x.Split()
	SemiImplicitEuler(sys, dt, pos, vel)
	return dynamo.Join(pos, vel)
}
