// Package solver integrates a pendulum system over a time grid and unpacks
// the result into angle, velocity, energy and Cartesian series.
//
// With an adaptive integrator each grid interval is covered by as many
// error-controlled steps as needed, the last one clipped to land on the
// output time. With a fixed-step integrator each interval is one step.
package solver
