package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Amplitude is the largest absolute raw angle of one degree of freedom,
// in degrees.
type Amplitude struct {
	name string
	dof  int
	max  float64
}

func NewAmplitude(dof int) *Amplitude {
	return &Amplitude{
		name: fmt.Sprintf("amplitude_%d", dof),
		dof:  dof,
	}
}

func (a *Amplitude) Name() string { return a.name }

func (a *Amplitude) Observe(x dynamo.State, t float64) {
	if 2*a.dof >= len(x) {
		return
	}
	a.max = math.Max(a.max, math.Abs(x[2*a.dof]))
}

func (a *Amplitude) Value() float64 {
	return a.max * 180 / math.Pi
}

func (a *Amplitude) Reset() {
	a.max = 0
}

// ForSystem returns the default metric set for a run of sys.
func ForSystem(sys dynamo.System) []dynamo.Metric {
	ms := []dynamo.Metric{NewEnergyDrift(sys)}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, NewEnergy(h), NewEnergyRise(h))
	}
	for d := 0; d < sys.DOF(); d++ {
		ms = append(ms, NewAmplitude(d))
	}
	return ms
}
