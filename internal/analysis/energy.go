package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// DefaultLevels is the number of contour levels in an energy map.
const DefaultLevels = 40

// shades run from the lowest to the highest band.
const shades = " .:-=+*#%@"

// MapAxis is one side of an energy map: the state component it varies and
// the range it spans.
type MapAxis struct {
	Label    string
	Index    int
	Min, Max float64
}

// EnergyAxes returns the (x, y) slice of state space mapped for each kind:
// simple θ × ω, double θ1 × θ2, triple θ2 × θ3 and spherical φ × θ.
// All other components stay at the values of the base state.
func EnergyAxes(k dynamo.Kind) (MapAxis, MapAxis) {
	switch k {
	case dynamo.Double:
		return MapAxis{"θ1", 0, -math.Pi, math.Pi}, MapAxis{"θ2", 2, -math.Pi, math.Pi}
	case dynamo.Triple:
		return MapAxis{"θ2", 2, -math.Pi, math.Pi}, MapAxis{"θ3", 4, -math.Pi, math.Pi}
	case dynamo.Spherical:
		return MapAxis{"φ", 2, -math.Pi, math.Pi}, MapAxis{"θ", 0, -2 * math.Pi, 2 * math.Pi}
	default:
		return MapAxis{"θ", 0, -math.Pi, math.Pi}, MapAxis{"ω", 1, -10, 10}
	}
}

// EnergyMap is total energy sampled on a regular grid. E[row][col] belongs
// to (X[col], Y[row]).
type EnergyMap struct {
	Kind         dynamo.Kind
	XAxis, YAxis MapAxis
	X, Y         []float64
	E            [][]float64
	Levels       []float64
}

// NewEnergyMap evaluates sys.Energy on a cols x rows grid over the kind's
// energy axes. Rows are computed concurrently.
func NewEnergyMap(ctx context.Context, sys dynamo.System, base dynamo.State, cols, rows int) (*EnergyMap, error) {
	h, ok := sys.(dynamo.Hamiltonian)
	if !ok {
		return nil, fmt.Errorf("energy map: %s has no energy function", sys.Kind())
	}
	if len(base) != 2*sys.DOF() {
		return nil, fmt.Errorf("%w: base state has %d components", dynamo.ErrDimensionMismatch, len(base))
	}
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("energy map: grid %dx%d too small", cols, rows)
	}

	xa, ya := EnergyAxes(sys.Kind())
	m := &EnergyMap{
		Kind:  sys.Kind(),
		XAxis: xa,
		YAxis: ya,
		X:     linspace(xa.Min, xa.Max, cols),
		Y:     linspace(ya.Min, ya.Max, rows),
		E:     make([][]float64, rows),
	}

	g, ctx := errgroup.WithContext(ctx)
	for r := range m.E {
		r := r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			x := base.Clone()
			x[ya.Index] = m.Y[r]
			row := make([]float64, cols)
			for c, xv := range m.X {
				x[xa.Index] = xv
				row[c] = h.Energy(x)
			}
			m.E[r] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hi := 0.0
	for _, row := range m.E {
		for _, e := range row {
			hi = math.Max(hi, e)
		}
	}
	m.Levels = linspace(0, hi, DefaultLevels)
	return m, nil
}

// Band returns the index of the contour band containing e.
func (m *EnergyMap) Band(e float64) int {
	top := m.Levels[len(m.Levels)-1]
	if top <= 0 || e <= 0 {
		return 0
	}
	b := int(e / top * float64(len(m.Levels)-1))
	if b >= len(m.Levels)-1 {
		b = len(m.Levels) - 2
	}
	return b
}

// ToASCII shades the map on a width x height grid, highest Y on top.
func (m *EnergyMap) ToASCII(width, height int) string {
	if m == nil || width < 1 || height < 1 {
		return ""
	}
	bands := len(m.Levels) - 1

	var sb strings.Builder
	for row := 0; row < height; row++ {
		r := (height - 1 - row) * (len(m.Y) - 1) / max(height-1, 1)
		for col := 0; col < width; col++ {
			c := col * (len(m.X) - 1) / max(width-1, 1)
			shade := m.Band(m.E[r][c]) * (len(shades) - 1) / max(bands-1, 1)
			sb.WriteByte(shades[shade])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
