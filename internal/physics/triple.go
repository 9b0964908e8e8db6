package physics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Triple is a three-link planar chain of point masses on massless rods.
// State: [th1, w1, th2, w2, th3, w3].
type Triple struct {
	G          float64
	L1, L2, L3 float64
	M1, M2, M3 float64
}

func NewTriple() Triple {
	return Triple{
		G:  DefaultGravity,
		L1: DefaultLength, L2: DefaultLength, L3: DefaultLength,
		M1: DefaultMass, M2: DefaultMass, M3: DefaultMass,
	}
}

func (Triple) Kind() dynamo.Kind { return dynamo.Triple }
func (Triple) DOF() int          { return 3 }

// Accelerations evaluates the closed-form solution of the chain's
// Lagrange equations. All three share the denominator
//
//	den = m1*m3*cos(2*th32) + m2*m23*cos(2*th21) - m12*m3 - m2^2 - 2*m1*m2
//
// which is proportional to the determinant of the mass matrix.
func (p Triple) Accelerations(pos, vel []float64) []float64 {
	th1, th2, th3 := pos[0], pos[1], pos[2]
	w1, w2, w3 := vel[0], vel[1], vel[2]
	m1, m2, m3 := p.M1, p.M2, p.M3
	l1, l2, l3, g := p.L1, p.L2, p.L3, p.G

	m12 := m1 + m2
	m23 := m2 + m3
	th21 := th2 - th1
	th32 := th3 - th2
	th31 := th3 - th1
	ww1, ww2, ww3 := w1*w1, w2*w2, w3*w3

	den := m1*m3*math.Cos(2*th32) + m2*m23*math.Cos(2*th21) - m12*m3 - m2*m2 - 2*m1*m2

	alpha1 := (l3/l1*m2*m3*(math.Sin(th32-th21)-math.Sin(th31))*ww3 -
		2*l2/l1*m2*m23*math.Sin(th21)*ww2 -
		m2*m23*math.Sin(2*th21)*ww1 +
		g/l1*(0.5*m1*m3*(math.Sin(2*th32-th1)-math.Sin(2*th32+th1))-
			m2*m23*math.Sin(th2+th21)+
			(m12*m3+m2*m2+2*m1*m2)*math.Sin(th1))) / den

	gravity2 := 0.5*(m12+m2)*m3 + m2*m12
	alpha2 := (l3/l2*m3*(m2*math.Sin(th31+th21)-(m12+m1)*math.Sin(th32))*ww3 +
		(m2*m23*math.Sin(2*th21)-m1*m3*math.Sin(2*th32))*ww2 +
		l1/l2*(((m12+m2)*m3+2*m12*m2)*math.Sin(th21)-m1*m3*math.Sin(th32+th31))*ww1 +
		g/l2*(-0.5*m1*m3*math.Sin(th32+th31-th1)-
			0.5*m1*m3*math.Sin(th32+th3)+
			gravity2*math.Sin(th21-th1)+
			gravity2*math.Sin(th2))) / den

	alpha3 := (m1*m3*math.Sin(2*th32)*ww3 +
		2*l2/l3*m1*m23*math.Sin(th32)*ww2 +
		l1/l3*m1*m23*(math.Sin(th32-th21)+math.Sin(th31))*ww1 +
		0.5*g/l3*m1*m23*(math.Sin(th32-th21+th1)+math.Sin(th32-th2)+math.Sin(th31-th1)+math.Sin(th3))) / den

	return []float64{alpha1, alpha2, alpha3}
}

func (p Triple) Derive(x dynamo.State, _ float64) dynamo.State {
	return derive(p, x)
}

func (p Triple) Energy(x dynamo.State) float64 {
	return chainEnergy(p.G, p.lengths(), []float64{p.M1, p.M2, p.M3}, x)
}

func (p Triple) Positions(x dynamo.State) []dynamo.Point {
	return chain(p.lengths(), x)
}

func (p Triple) lengths() []float64 { return []float64{p.L1, p.L2, p.L3} }

func (p Triple) Params() map[string]float64 {
	return map[string]float64{
		"g":  p.G,
		"m1": p.M1,
		"m2": p.M2,
		"m3": p.M3,
		"L1": p.L1,
		"L2": p.L2,
		"L3": p.L3,
	}
}
