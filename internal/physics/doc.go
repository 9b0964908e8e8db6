// Package physics provides the pendulum models integrated by the solver.
//
// Each model is an immutable constants bundle implementing [dynamo.System]:
//
//   - [Simple]: single rod with linear air drag
//   - [Double]: two-link planar chain
//   - [Triple]: three-link planar chain
//   - [Spherical]: single rod free to swing in 3D
//
// The acceleration-only function is the single source of the equations of
// motion; Derive is built on top of it so the fixed-step and adaptive paths
// always agree. Every model also implements [dynamo.Hamiltonian] and
// [dynamo.Kinematic].
//
// # Singularities
//
// Nothing is regularized. The double and triple chains divide by a mass
// determinant that can vanish for degenerate parameters, and the spherical
// model divides by tan(φ), which is a coordinate singularity at the poles.
// Non-finite accelerations propagate to the caller unchanged:
//
//	sys, _ := physics.New(dynamo.Spherical, nil)
//	dx := sys.Derive(dynamo.State{0, 1, 0, 0}, 0) // dx[1] is NaN
package physics
