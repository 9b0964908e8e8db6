package solver

import (
	"math"

	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/dynamo"
)

// Trajectory is a solved run sampled on its time grid. Angle series are the
// raw integrated values and are never wrapped.
type Trajectory struct {
	Kind       dynamo.Kind
	Times      []float64
	States     []dynamo.State
	Angles     [][]float64
	Velocities [][]float64
	Bodies     [][]dynamo.Point
	Energy     []float64
	Metrics    map[string]float64
	Stats      Stats
}

func newTrajectory(sys dynamo.System, times []float64, states []dynamo.State) *Trajectory {
	dof := sys.DOF()
	traj := &Trajectory{
		Kind:       sys.Kind(),
		Times:      times,
		States:     states,
		Angles:     make([][]float64, dof),
		Velocities: make([][]float64, dof),
		Metrics:    make(map[string]float64),
	}

	for d := 0; d < dof; d++ {
		traj.Angles[d] = make([]float64, len(states))
		traj.Velocities[d] = make([]float64, len(states))
	}
	for i, x := range states {
		for d := 0; d < dof; d++ {
			traj.Angles[d][i] = x[2*d]
			traj.Velocities[d][i] = x[2*d+1]
		}
	}

	if kin, ok := sys.(dynamo.Kinematic); ok {
		traj.Bodies = make([][]dynamo.Point, sys.Kind().Bodies())
		for b := range traj.Bodies {
			traj.Bodies[b] = make([]dynamo.Point, len(states))
		}
		for i, x := range states {
			for b, p := range kin.Positions(x) {
				traj.Bodies[b][i] = p
			}
		}
	}

	if h, ok := sys.(dynamo.Hamiltonian); ok {
		traj.Energy = make([]float64, len(states))
		for i, x := range states {
			traj.Energy[i] = h.Energy(x)
		}
	}

	return traj
}

func (t *Trajectory) Len() int { return len(t.Times) }

// PhaseAngles returns the angle series of one degree of freedom wrapped
// into (-π, π]. The stored series is left untouched.
func (t *Trajectory) PhaseAngles(dof int) []float64 {
	return angle.NormalizeSeries(t.Angles[dof])
}

// Final returns a copy of the last sampled state.
func (t *Trajectory) Final() dynamo.State {
	return t.States[len(t.States)-1].Clone()
}

// Tip returns the path of the outermost body.
func (t *Trajectory) Tip() []dynamo.Point {
	if len(t.Bodies) == 0 {
		return nil
	}
	return t.Bodies[len(t.Bodies)-1]
}

// EnergyDrift is the largest relative deviation of the energy series from
// its initial value. When the initial energy is zero the absolute deviation
// is returned instead.
func (t *Trajectory) EnergyDrift() float64 {
	if len(t.Energy) == 0 {
		return 0
	}
	e0 := t.Energy[0]
	worst := 0.0
	for _, e := range t.Energy {
		worst = math.Max(worst, math.Abs(e-e0))
	}
	if e0 != 0 {
		return worst / math.Abs(e0)
	}
	return worst
}
