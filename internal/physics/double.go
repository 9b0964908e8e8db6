package physics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Double is a two-link planar chain of point masses on massless rods.
// State: [th1, w1, th2, w2], angles measured from the downward vertical.
type Double struct {
	G      float64
	L1, L2 float64
	M1, M2 float64
}

func NewDouble() Double {
	return Double{
		G:  DefaultGravity,
		L1: DefaultLength, L2: DefaultLength,
		M1: DefaultMass, M2: DefaultMass,
	}
}

func (Double) Kind() dynamo.Kind { return dynamo.Double }
func (Double) DOF() int          { return 2 }

// Accelerations divides by L_i*B with B = (2*m1+m2) - m2*cos(2*(th1-th2)).
// B only vanishes for degenerate masses; no guard is applied.
func (d Double) Accelerations(pos, vel []float64) []float64 {
	th1, th2 := pos[0], pos[1]
	w1, w2 := vel[0], vel[1]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.G

	dth := th1 - th2
	sinD, cosD := math.Sin(dth), math.Cos(dth)
	lw1 := w1 * w1 * l1
	lw2 := w2 * w2 * l2
	a := 2*m1 + m2
	b := a - m2*math.Cos(2*dth)

	alpha1 := (-g*(a*math.Sin(th1)+m2*math.Sin(th1-2*th2)) - 2*m2*sinD*(lw2+lw1*cosD)) / (l1 * b)
	alpha2 := (2 * sinD * ((m1+m2)*(lw1+g*math.Cos(th1)) + lw2*m2*cosD)) / (l2 * b)

	return []float64{alpha1, alpha2}
}

func (d Double) Derive(x dynamo.State, _ float64) dynamo.State {
	return derive(d, x)
}

func (d Double) Energy(x dynamo.State) float64 {
	th1, w1, th2, w2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := d.M1, d.M2, d.L1, d.L2, d.G

	ke := 0.5*(m1+m2)*l1*l1*w1*w1 + 0.5*m2*l2*l2*w2*w2 +
		m2*l1*l2*w1*w2*math.Cos(th1-th2)
	pe := -g*((m1+m2)*l1*math.Cos(th1)+m2*l2*math.Cos(th2)) +
		g*((m1+m2)*l1+m2*l2)

	return ke + pe
}

func (d Double) Positions(x dynamo.State) []dynamo.Point {
	return chain([]float64{d.L1, d.L2}, x)
}

func (d Double) Params() map[string]float64 {
	return map[string]float64{
		"g":  d.G,
		"m1": d.M1,
		"m2": d.M2,
		"L1": d.L1,
		"L2": d.L2,
	}
}
