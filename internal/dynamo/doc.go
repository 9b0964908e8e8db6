// Package dynamo provides core simulation primitives for pendulum systems.
//
// The package defines the fundamental interfaces and types shared by the
// models, integrators and the trajectory solver:
//
//   - [State]: interleaved angle/angular-velocity vector
//   - [AccelerationModel]: angular accelerations from positions and velocities
//   - [System]: full state derivative (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper over a [System]
//   - [Kind]: the closed set of supported pendulum variants
//   - [TimeGrid]: fixed-step sample instants for a batch run
//
// # Example
//
//	sys, _ := physics.New(dynamo.Double, nil)
//	grid := dynamo.TimeGrid{Start: 0, End: 20, Step: 0.02}
//	traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, x0)
//
// # Thread Safety
//
// States and constants bundles are plain values. Integrators keep scratch
// buffers and must not be shared between goroutines.
package dynamo
