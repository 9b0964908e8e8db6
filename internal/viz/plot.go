package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/solver"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Yellow,
}

// PlotSeries renders one series as a line chart.
func PlotSeries(data []float64, caption string, w, h int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.Caption(caption),
	)
}

// PlotAngles charts every wrapped angle of traj in degrees.
func PlotAngles(traj *solver.Trajectory, w, h int) string {
	if traj == nil || traj.Len() == 0 {
		return ""
	}
	names := angleNames(traj.Kind)
	series := make([][]float64, len(traj.Angles))
	for d := range traj.Angles {
		wrapped := traj.PhaseAngles(d)
		deg := make([]float64, len(wrapped))
		for i, a := range wrapped {
			deg[i] = angle.Degrees(a)
		}
		series[d] = deg
	}
	return asciigraph.PlotMany(series,
		asciigraph.Width(w),
		asciigraph.Height(h),
		asciigraph.SeriesColors(seriesColors[:min(len(series), len(seriesColors))]...),
		asciigraph.Caption(strings.Join(names[:len(series)], " ")+" [deg]"),
	)
}

// PlotEnergy charts the energy series of traj.
func PlotEnergy(traj *solver.Trajectory, w, h int) string {
	if traj == nil {
		return ""
	}
	return PlotSeries(traj.Energy, "Energy [J]", w, h)
}

// TraceTip draws the path of the outermost bob seen from the front, the
// x-y plane for planar chains and x-z for the spherical pendulum.
func TraceTip(traj *solver.Trajectory, w, h int) string {
	c := NewCanvas(w, h)
	tip := traj.Tip()
	if len(tip) == 0 {
		return c.String()
	}

	up := func(p dynamo.Point) float64 { return p.Y }
	if traj.Kind == dynamo.Spherical {
		up = func(p dynamo.Point) float64 { return p.Z }
	}

	reach := 0.0
	for _, p := range tip {
		reach = math.Max(reach, math.Hypot(p.X, up(p)))
	}
	vp := FitViewport(c, reach)
	c.Dot(vp.OX, vp.OY, 1)

	px, py := vp.Map(tip[0].X, up(tip[0]))
	for _, p := range tip[1:] {
		x, y := vp.Map(p.X, up(p))
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
	return c.String()
}

// Summary renders a titled panel of metric values, sorted by name, with an
// optional energy sparkline.
func Summary(title string, metrics map[string]float64, energy []float64) string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title) + "\n")
	for _, name := range names {
		b.WriteString(MetricLabel.Render(name) + MetricValue.Render(formatMetric(metrics[name])) + "\n")
	}
	if len(energy) > 0 {
		b.WriteString("\n" + MetricLabel.Render("energy") + SparklineChart(energy, 32))
	}
	return GlassPanel.Render(b.String())
}

func formatMetric(v float64) string {
	a := math.Abs(v)
	if a != 0 && (a < 1e-3 || a >= 1e5) {
		return fmt.Sprintf("%.3e", v)
	}
	return fmt.Sprintf("%.4f", v)
}
