package sweep

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
)

func TestLinspace(t *testing.T) {
	a := Linspace("th0", 10, 50, 5)
	assert.Equal(t, []float64{10, 20, 30, 40, 50}, a.Values)
	assert.Equal(t, []float64{7}, Linspace("x", 7, 9, 1).Values)
	assert.Empty(t, Linspace("x", 7, 9, 0).Values)
	assert.Empty(t, Linspace("x", 7, 9, -1).Values)
}

func TestGridOrder(t *testing.T) {
	s := &Sweep{Axes: []Axis{
		{Param: "m1", Values: []float64{1, 2}},
		{Param: "th1", Values: []float64{10, 20, 30}},
	}}
	grid := s.Grid()
	require.Len(t, grid, 6)
	assert.Equal(t, map[string]float64{"m1": 1, "th1": 10}, grid[0])
	assert.Equal(t, map[string]float64{"m1": 1, "th1": 30}, grid[2])
	assert.Equal(t, map[string]float64{"m1": 2, "th1": 10}, grid[3])
}

func TestPeriodGrowsWithAmplitude(t *testing.T) {
	base := config.DefaultConfig()
	base.Params["b"] = 0
	base.Time = dynamo.TimeGrid{Start: 0, End: 15, Step: 0.01}

	s := &Sweep{Base: base, Axes: []Axis{{Param: "th0", Values: []float64{10, 90, 170}}}}
	points, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 3)

	periods := Column(points, "period")
	for i, p := range points {
		require.NoError(t, p.Err)
		assert.False(t, math.IsNaN(periods[i]))
	}
	assert.Less(t, periods[0], periods[1])
	assert.Less(t, periods[1], periods[2])
	assert.InDelta(t, 2*math.Pi*math.Sqrt(1/9.8), periods[0], 0.02)

	best, ok := Best(points, "period")
	require.True(t, ok)
	assert.Equal(t, 10.0, best.Params["th0"])

	// the base configuration is not modified
	_, touched := base.Params["th0"]
	assert.False(t, touched)
}

func TestFailedPointDoesNotAbort(t *testing.T) {
	base := config.DefaultConfig()
	base.Kind = dynamo.Spherical
	base.Time = dynamo.TimeGrid{Start: 0, End: 1, Step: 0.1}

	s := &Sweep{Base: base, Axes: []Axis{{Param: "ph0", Values: []float64{0, 30}}}, Limit: 1}
	points, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, points[0].Err, dynamo.ErrInvalidState)
	assert.NoError(t, points[1].Err)
	assert.True(t, math.IsNaN(Column(points, "energy_drift")[0]))

	best, ok := Best(points, "energy_drift")
	require.True(t, ok)
	assert.Equal(t, 30.0, best.Params["ph0"])
}

func TestBadParameterIsRecorded(t *testing.T) {
	s := &Sweep{Base: config.DefaultConfig(), Axes: []Axis{{Param: "g", Values: []float64{100}}}}
	points, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, points[0].Err, dynamo.ErrParameterBounds)

	_, ok := Best(points, "period")
	assert.False(t, ok)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Sweep{Base: config.DefaultConfig(), Axes: []Axis{Linspace("th0", 10, 90, 4)}}
	_, err := s.Run(ctx)
	assert.Error(t, err)
}

func TestSweepNeedsBaseAndAxes(t *testing.T) {
	_, err := (&Sweep{Axes: []Axis{Linspace("th0", 1, 2, 2)}}).Run(context.Background())
	assert.Error(t, err)
	_, err = (&Sweep{Base: config.DefaultConfig()}).Run(context.Background())
	assert.Error(t, err)
	_, err = (&Sweep{Base: config.DefaultConfig(), Axes: []Axis{Linspace("th0", 1, 2, -1)}}).Run(context.Background())
	assert.ErrorContains(t, err, "no values")
}

const scenarioYAML = `
name: tour
description: one of each
runs:
  - name: small swing
    kind: simple
    params:
      th0: 10
    time:
      start: 0
      end: 1
      step: 0.1
  - kind: double
    integrator: rk4
    time:
      start: 0
      end: 0.5
      step: 0.05
`

func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, sc.Runs, 2)
	assert.Equal(t, "small swing", sc.Runs[0].Name)
	assert.Equal(t, "run2", sc.Runs[1].Name)
	assert.Equal(t, dynamo.Double, sc.Runs[1].Config.Kind)
	assert.Equal(t, "rk4", sc.Runs[1].Config.Integrator)
	assert.Equal(t, config.DefaultTolerance, sc.Runs[1].Config.Tolerance)

	results, err := RunScenario(context.Background(), sc, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 11, results[0].Trajectory.Len())
	assert.Equal(t, dynamo.Double, results[1].Trajectory.Kind)
}

func TestScenarioStopsAtFailure(t *testing.T) {
	sc := &Scenario{Name: "bad", Runs: []Run{
		{Name: "ok", Config: config.DefaultConfig()},
		{Name: "broken", Config: &config.Config{Kind: dynamo.Simple}},
	}}
	sc.Runs[0].Config.Time = dynamo.TimeGrid{Start: 0, End: 1, Step: 0.5}

	results, err := RunScenario(context.Background(), sc, nil)
	assert.ErrorContains(t, err, "broken")
	assert.Len(t, results, 1)
}
