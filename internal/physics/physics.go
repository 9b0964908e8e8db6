package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	DefaultGravity = 9.8
	DefaultMass    = 1.0
	DefaultLength  = 1.0
	DefaultDamping = 0.1
)

// New builds the model for kind. Constants missing from params keep their
// defaults; unrelated keys such as initial conditions are ignored.
func New(kind dynamo.Kind, params map[string]float64) (dynamo.System, error) {
	get := func(name string, def float64) float64 {
		if v, ok := params[name]; ok {
			return v
		}
		return def
	}

	switch kind {
	case dynamo.Simple:
		return Simple{
			G: get("g", DefaultGravity),
			L: get("L", DefaultLength),
			B: get("b", DefaultDamping),
			M: get("m", DefaultMass),
		}, nil
	case dynamo.Double:
		return Double{
			G:  get("g", DefaultGravity),
			L1: get("L1", DefaultLength),
			L2: get("L2", DefaultLength),
			M1: get("m1", DefaultMass),
			M2: get("m2", DefaultMass),
		}, nil
	case dynamo.Triple:
		return Triple{
			G:  get("g", DefaultGravity),
			L1: get("L1", DefaultLength),
			L2: get("L2", DefaultLength),
			L3: get("L3", DefaultLength),
			M1: get("m1", DefaultMass),
			M2: get("m2", DefaultMass),
			M3: get("m3", DefaultMass),
		}, nil
	case dynamo.Spherical:
		return Spherical{
			G: get("g", DefaultGravity),
			L: get("L", DefaultLength),
			M: get("m", DefaultMass),
		}, nil
	}
	return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownKind, kind)
}

// derive assembles the full interleaved derivative from the acceleration
// model: (w_i, a_i) for every degree of freedom.
func derive(m dynamo.AccelerationModel, x dynamo.State) dynamo.State {
	pos, vel := x.Split()
	acc := m.Accelerations(pos, vel)

	dx := make(dynamo.State, len(x))
	for i := range acc {
		dx[2*i] = vel[i]
		dx[2*i+1] = acc[i]
	}
	return dx
}

// chain composes planar body positions from the pivot at the origin:
// p_i = p_{i-1} + (L_i sin th_i, -L_i cos th_i).
func chain(lengths []float64, x dynamo.State) []dynamo.Point {
	pts := make([]dynamo.Point, len(lengths))
	px, py := 0.0, 0.0
	for i, l := range lengths {
		th := x[2*i]
		px += l * math.Sin(th)
		py -= l * math.Cos(th)
		pts[i] = dynamo.Point{X: px, Y: py}
	}
	return pts
}

// chainEnergy is the kinetic plus potential energy of a planar chain of
// point masses, with zero potential at the hanging rest configuration.
func chainEnergy(g float64, lengths, masses []float64, x dynamo.State) float64 {
	var vx, vy, y, depth, e float64
	for i, l := range lengths {
		th, w := x[2*i], x[2*i+1]
		vx += l * math.Cos(th) * w
		vy += l * math.Sin(th) * w
		y -= l * math.Cos(th)
		depth += l
		e += 0.5*masses[i]*(vx*vx+vy*vy) + masses[i]*g*(y+depth)
	}
	return e
}
