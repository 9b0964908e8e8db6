// Package viz draws pendulums in the terminal.
//
// The live view ([LiveModel]) is a Bubble Tea program that advances a
// [realtime.Stepper] once per frame and draws the chain on a Braille
// [Canvas]. Planar chains are drawn in a fitted 2D viewport; the spherical
// pendulum is projected through a rotatable [Camera] together with a
// wireframe guide of its sphere.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	X/Y   - Rotate camera (spherical)
//	+/-   - Zoom (spherical)
//	?     - Show help overlay
//	Q     - Quit
//
// [MenuModel] picks a kind, preset and action, and the plot helpers render
// trajectories and summaries as plain text for non-interactive commands.
package viz
