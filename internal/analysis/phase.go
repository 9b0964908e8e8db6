package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/solver"
)

// Axis selects one state component for plotting. Angle axes are wrapped
// into (-π, π] before use.
type Axis struct {
	Label string
	Index int
	Angle bool
}

// PhaseAxes returns the default (x, y) axes for a kind: simple (θ, ω),
// double (θ2, θ1), triple (θ2, θ3), spherical (θ, φ).
func PhaseAxes(k dynamo.Kind) (Axis, Axis) {
	switch k {
	case dynamo.Double:
		return Axis{"θ2", 2, true}, Axis{"θ1", 0, true}
	case dynamo.Triple:
		return Axis{"θ2", 2, true}, Axis{"θ3", 4, true}
	case dynamo.Spherical:
		return Axis{"θ", 0, true}, Axis{"φ", 2, true}
	default:
		return Axis{"θ", 0, true}, Axis{"ω", 1, false}
	}
}

func (a Axis) value(x dynamo.State) float64 {
	if a.Angle {
		return angle.Normalize(x[a.Index])
	}
	return x[a.Index]
}

type Point2D struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XAxis, YAxis Axis
	Points       []Point2D
}

// NewPhasePortrait projects every sample of traj onto the two axes.
func NewPhasePortrait(traj *solver.Trajectory, xAxis, yAxis Axis) *PhasePortrait2D {
	if len(traj.States) == 0 || xAxis.Index >= len(traj.States[0]) || yAxis.Index >= len(traj.States[0]) {
		return nil
	}

	portrait := &PhasePortrait2D{
		XAxis:  xAxis,
		YAxis:  yAxis,
		Points: make([]Point2D, 0, len(traj.States)),
	}
	for _, x := range traj.States {
		portrait.Points = append(portrait.Points, Point2D{X: xAxis.value(x), Y: yAxis.value(x)})
	}
	return portrait
}

// ToASCII renders the portrait on a width x height character grid.
func (p *PhasePortrait2D) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 {
		return ""
	}
	return scatterASCII(p.Points, width, height)
}

func scatterASCII(points []Point2D, width, height int) string {
	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y

	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	Times  []float64
	Points []Point2D
}

// NewPoincareSection records the (x, y) axes, linearly interpolated,
// each time component cross rises through level. Angles are compared raw.
func NewPoincareSection(traj *solver.Trajectory, cross int, level float64, xAxis, yAxis Axis) *PoincareSection {
	section := &PoincareSection{}
	if len(traj.States) == 0 || cross >= len(traj.States[0]) {
		return section
	}

	for i := 1; i < len(traj.States); i++ {
		prev, curr := traj.States[i-1], traj.States[i]
		if !(prev[cross] < level && curr[cross] >= level) {
			continue
		}
		frac := (level - prev[cross]) / (curr[cross] - prev[cross])
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		x := make(dynamo.State, len(curr))
		for j := range x {
			x[j] = prev[j] + frac*(curr[j]-prev[j])
		}
		section.Times = append(section.Times, traj.Times[i-1]+frac*(traj.Times[i]-traj.Times[i-1]))
		section.Points = append(section.Points, Point2D{X: xAxis.value(x), Y: yAxis.value(x)})
	}
	return section
}

func (s *PoincareSection) ToASCII(width, height int) string {
	if s == nil || len(s.Points) == 0 {
		return "No crossings detected"
	}
	return scatterASCII(s.Points, width, height)
}
