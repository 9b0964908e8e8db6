package analysis

import (
	"context"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/solver"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby trajectories with a fixed step
// 2. After each step add ln(|δx|/d0) and pull the partner back to d0
// 3. λ ≈ Σ ln(|δx|/d0) / t
//
// The estimate is NaN once either trajectory leaves the finite state space.
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || perturbation <= 0 || dt <= 0 {
		return 0
	}

	xp := x0.Clone()
	xp[0] += perturbation
	return lyapunovForPerturbation(sys, integ, x0, xp, dt, duration, perturbation)
}

// LyapunovSpectrum perturbs each state component in turn and returns the
// exponent measured from each. The values approach the largest exponent
// from different directions; they are not a full orthonormalised spectrum.
func LyapunovSpectrum(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) []float64 {
	n := len(x0)
	spectrum := make([]float64, n)

	for i := 0; i < n; i++ {
		xp := x0.Clone()
		xp[i] += perturbation

		spectrum[i] = lyapunovForPerturbation(sys, integ, x0, xp, dt, duration, perturbation)
	}

	return spectrum
}

func lyapunovForPerturbation(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0, x0p dynamo.State,
	dt, duration, d0 float64,
) float64 {
	x := x0.Clone()
	xp := x0p.Clone()
	t := 0.0
	sumLog := 0.0

	for t < duration {
		x = integ.Step(sys, x, t, dt)
		xp = integ.Step(sys, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return math.NaN()
		}
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if t == 0 {
		return 0
	}
	return sumLog / t
}

// Divergence solves x0 and a copy with the first angle nudged by eps side
// by side and returns the state-space separation at every grid time.
func Divergence(ctx context.Context, newSolver func() *solver.Solver, sys dynamo.System, grid dynamo.TimeGrid, x0 dynamo.State, eps float64) ([]float64, error) {
	xp := x0.Clone()
	xp[0] += eps

	trajs, err := solver.NewEnsemble(newSolver, 2).Run(ctx, sys, grid, []dynamo.State{x0, xp})
	if err != nil {
		return nil, err
	}

	sep := make([]float64, trajs[0].Len())
	for i := range sep {
		sep[i] = trajs[1].States[i].Sub(trajs[0].States[i]).Norm()
	}
	return sep, nil
}
