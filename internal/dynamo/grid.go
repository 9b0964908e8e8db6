package dynamo

import (
	"fmt"
	"math"
)

// MaxSamples bounds the number of instants on a grid.
const MaxSamples = math.MaxInt32

// TimeGrid describes the sample instants of a batch run: start, start+step,
// ... up to and including end when end-start is a multiple of step.
type TimeGrid struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Step  float64 `yaml:"step"`
}

func DefaultTimeGrid() TimeGrid {
	return TimeGrid{Start: 0, End: 20, Step: 0.02}
}

func (g TimeGrid) Validate() error {
	if g.Step <= 0 || math.IsNaN(g.Step) || math.IsInf(g.Step, 0) {
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalidGrid, g.Step)
	}
	if math.IsNaN(g.Start) || math.IsInf(g.Start, 0) || math.IsNaN(g.End) || math.IsInf(g.End, 0) {
		return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", ErrInvalidGrid, g.Start, g.End)
	}
	if g.End < g.Start {
		return fmt.Errorf("%w: end %g before start %g", ErrInvalidGrid, g.End, g.Start)
	}
	if n := g.samples(); n > MaxSamples {
		return fmt.Errorf("%w: %.0f samples exceed the limit of %d", ErrInvalidGrid, n, MaxSamples)
	}
	return nil
}

// tolerate representation error so [0, 20] with step 0.02 yields 1001 points
func (g TimeGrid) samples() float64 {
	return math.Floor((g.End-g.Start)/g.Step+1e-9) + 1
}

// Len is the number of samples on the grid.
func (g TimeGrid) Len() int {
	if g.Validate() != nil {
		return 0
	}
	return int(g.samples())
}

func (g TimeGrid) Points() []float64 {
	n := g.Len()
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = g.Start + float64(i)*g.Step
	}
	return ts
}
