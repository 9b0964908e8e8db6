package physics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Simple is a point mass on a rigid rod with linear drag coefficient B.
// State: [th, w].
type Simple struct {
	G float64 // gravity
	L float64 // rod length
	B float64 // drag coefficient
	M float64 // bob mass
}

func NewSimple() Simple {
	return Simple{G: DefaultGravity, L: DefaultLength, B: DefaultDamping, M: DefaultMass}
}

func (Simple) Kind() dynamo.Kind { return dynamo.Simple }
func (Simple) DOF() int          { return 1 }

func (p Simple) Accelerations(pos, vel []float64) []float64 {
	return []float64{-p.B/p.M*vel[0] - p.G/p.L*math.Sin(pos[0])}
}

func (p Simple) Derive(x dynamo.State, _ float64) dynamo.State {
	return derive(p, x)
}

func (p Simple) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * (L*w)^2
	// PE = m * g * L * (1 - cos(th))
	v := p.L * x[1]
	ke := 0.5 * p.M * v * v
	pe := p.M * p.G * p.L * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p Simple) Positions(x dynamo.State) []dynamo.Point {
	return chain([]float64{p.L}, x)
}

func (p Simple) Params() map[string]float64 {
	return map[string]float64{
		"m": p.M,
		"g": p.G,
		"L": p.L,
		"b": p.B,
	}
}
