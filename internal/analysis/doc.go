// Package analysis provides views on solved pendulum runs.
//
//   - [NewPhasePortrait]: angle/velocity portrait of a trajectory, using the
//     per-kind axes from [PhaseAxes]
//   - [NewPoincareSection]: samples taken when one coordinate crosses a level
//   - [Period], [DominantPeriod]: oscillation period from crossings or spectrum
//   - [LyapunovExponent], [Divergence]: sensitivity to initial conditions
//   - [NewEnergyMap]: total energy over a 2D slice of state space, with
//     contour levels
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sys, integ, x0, dt, duration, 1e-8)
//	if lambda > 0 {
//	    // double and triple pendulums at large angles end up here
//	}
package analysis
