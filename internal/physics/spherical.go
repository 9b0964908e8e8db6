package physics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Spherical is a point mass on a rigid rod free to move on a sphere.
// State: [th, wth, ph, wph] with th the azimuth and ph the polar angle
// from the downward vertical.
type Spherical struct {
	G float64
	L float64
	M float64 // only enters the energy
}

func NewSpherical() Spherical {
	return Spherical{G: DefaultGravity, L: DefaultLength, M: DefaultMass}
}

func (Spherical) Kind() dynamo.Kind { return dynamo.Spherical }
func (Spherical) DOF() int          { return 2 }

// Accelerations returns (ath, aph). ath divides by tan(ph) and is
// undefined at the poles ph = 0, π.
func (s Spherical) Accelerations(pos, vel []float64) []float64 {
	ph := pos[1]
	wth, wph := vel[0], vel[1]
	sinP, cosP := math.Sin(ph), math.Cos(ph)

	ath := -2 * wth * wph / math.Tan(ph)
	aph := wth*wth*sinP*cosP - s.G/s.L*sinP

	return []float64{ath, aph}
}

func (s Spherical) Derive(x dynamo.State, _ float64) dynamo.State {
	return derive(s, x)
}

func (s Spherical) Energy(x dynamo.State) float64 {
	wth, ph, wph := x[1], x[2], x[3]
	sinP := math.Sin(ph)
	ke := 0.5 * s.M * s.L * s.L * (wph*wph + wth*wth*sinP*sinP)
	pe := s.M * s.G * s.L * (1 - math.Cos(ph))
	return ke + pe
}

func (s Spherical) Positions(x dynamo.State) []dynamo.Point {
	th, ph := x[0], x[2]
	return []dynamo.Point{{
		X: s.L * math.Sin(ph) * math.Cos(th),
		Y: s.L * math.Sin(ph) * math.Sin(th),
		Z: -s.L * math.Cos(ph),
	}}
}

func (s Spherical) Params() map[string]float64 {
	return map[string]float64{
		"m": s.M,
		"g": s.G,
		"L": s.L,
	}
}
