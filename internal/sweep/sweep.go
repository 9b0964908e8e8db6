// Package sweep runs many configurations that differ in a few parameters,
// either as a grid over named parameters or as a scripted scenario.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pendsim/internal/analysis"
	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/solver"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Param  string
	Values []float64
}

// Linspace returns an axis of n evenly spaced values from lo to hi.
func Linspace(param string, lo, hi float64, n int) Axis {
	if n < 1 {
		return Axis{Param: param}
	}
	a := Axis{Param: param, Values: make([]float64, n)}
	if n == 1 {
		a.Values[0] = lo
		return a
	}
	for i := range a.Values {
		a.Values[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return a
}

// Point is the outcome of one grid point. Err is set when the solve failed;
// the remaining points are still run.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Err     error
}

type Sweep struct {
	Base  *config.Config
	Axes  []Axis
	Limit int // concurrent solves, 0 means GOMAXPROCS
	Log   *zap.Logger
}

// Grid enumerates every combination of axis values. The first axis varies
// slowest.
func (s *Sweep) Grid() []map[string]float64 {
	var out []map[string]float64
	s.expand(0, map[string]float64{}, &out)
	return out
}

func (s *Sweep) expand(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(s.Axes) {
		*out = append(*out, current)
		return
	}
	axis := s.Axes[depth]
	for _, v := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[axis.Param] = v
		s.expand(depth+1, next, out)
	}
}

// Run solves every grid point and returns the points in grid order. Only
// context cancellation aborts the sweep.
func (s *Sweep) Run(ctx context.Context) ([]Point, error) {
	if s.Base == nil {
		return nil, fmt.Errorf("sweep: no base configuration")
	}
	if len(s.Axes) == 0 {
		return nil, fmt.Errorf("sweep: no axes")
	}
	for _, a := range s.Axes {
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("sweep: axis %s has no values", a.Param)
		}
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := s.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	grid := s.Grid()
	points := make([]Point, len(grid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, params := range grid {
		i, params := i, params
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points[i] = s.solve(gctx, params)
			if points[i].Err != nil {
				log.Debug("sweep point failed", zap.Any("params", params), zap.Error(points[i].Err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("sweep finished", zap.Int("points", len(points)))
	return points, nil
}

func (s *Sweep) solve(ctx context.Context, params map[string]float64) Point {
	cfg := s.Base.Clone()
	for k, v := range params {
		cfg.Params[k] = v
	}
	p := Point{Params: params}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		p.Err = err
		return p
	}
	traj, err := exp.Run(ctx)
	if err != nil {
		p.Err = err
		return p
	}
	p.Metrics = Measure(traj)
	return p
}

// Measure collects the trajectory's metrics plus the period of the first
// angle and solver statistics.
func Measure(traj *solver.Trajectory) map[string]float64 {
	m := make(map[string]float64, len(traj.Metrics)+3)
	for k, v := range traj.Metrics {
		m[k] = v
	}
	m["steps"] = float64(traj.Stats.Steps)
	m["rejected"] = float64(traj.Stats.Rejected)
	if period, ok := analysis.Period(traj.Times, traj.Angles[0]); ok {
		m["period"] = period
	}
	return m
}

// Best returns the successful point with the smallest value of metric.
func Best(points []Point, metric string) (Point, bool) {
	best, found := Point{}, false
	lowest := math.Inf(1)
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < lowest {
			lowest, best, found = v, p, true
		}
	}
	return best, found
}

// Column returns metric for every point, NaN where it is missing.
func Column(points []Point, metric string) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		v, ok := p.Metrics[metric]
		if p.Err != nil || !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
