package solver_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/solver"
)

func mustSystem(k dynamo.Kind, params map[string]float64) dynamo.System {
	sys, err := physics.New(k, params)
	Expect(err).NotTo(HaveOccurred())
	return sys
}

func downwardCrossings(times, xs []float64) []float64 {
	var out []float64
	for i := 1; i < len(xs); i++ {
		if xs[i-1] > 0 && xs[i] <= 0 {
			frac := xs[i-1] / (xs[i-1] - xs[i])
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string                      { return "samples" }
func (c *countingMetric) Observe(_ dynamo.State, _ float64) { c.n++ }
func (c *countingMetric) Value() float64                    { return float64(c.n) }
func (c *countingMetric) Reset()                            { c.n = 0 }

var _ = Describe("Solver", func() {
	var (
		ctx  context.Context
		grid dynamo.TimeGrid
	)

	BeforeEach(func() {
		ctx = context.Background()
		grid = dynamo.TimeGrid{Start: 0, End: 5, Step: 0.02}
	})

	Describe("energy conservation", func() {
		DescribeTable("undamped systems keep their energy",
			func(k dynamo.Kind, x0 dynamo.State) {
				sys := mustSystem(k, map[string]float64{"b": 0})
				traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, x0)
				Expect(err).NotTo(HaveOccurred())
				Expect(traj.Energy).To(HaveLen(grid.Len()))
				Expect(traj.EnergyDrift()).To(BeNumerically("<", 1e-5))
			},
			Entry("simple", dynamo.Simple, dynamo.State{math.Pi / 2, 0}),
			Entry("double", dynamo.Double, dynamo.State{math.Pi / 2, 0, math.Pi / 2, 0}),
			Entry("triple", dynamo.Triple, dynamo.State{math.Pi / 3, 0, math.Pi / 2, 0, 2 * math.Pi / 3, 0}),
			Entry("spherical", dynamo.Spherical, dynamo.State{0, 1, 1, 0}),
		)

		It("never gains energy with damping", func() {
			sys := mustSystem(dynamo.Simple, map[string]float64{"b": 0.1})
			traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{math.Pi / 2, 0})
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(traj.Energy); i++ {
				Expect(traj.Energy[i]).To(BeNumerically("<=", traj.Energy[i-1]+1e-9))
			}
			Expect(traj.Energy[len(traj.Energy)-1]).To(BeNumerically("<", traj.Energy[0]))
		})
	})

	Describe("the 90 degree simple pendulum", func() {
		var traj *solver.Trajectory

		BeforeEach(func() {
			sys := mustSystem(dynamo.Simple, map[string]float64{"m": 1, "g": 9.8, "L": 1, "b": 0})
			var err error
			traj, err = solver.New(integrators.NewRK45()).Solve(ctx, sys, dynamo.DefaultTimeGrid(), dynamo.State{math.Pi / 2, 0})
			Expect(err).NotTo(HaveOccurred())
		})

		It("samples the whole default grid", func() {
			Expect(traj.Len()).To(Equal(1001))
			Expect(traj.Times[0]).To(Equal(0.0))
			Expect(traj.Times[traj.Len()-1]).To(BeNumerically("~", 20, 1e-9))
		})

		It("swings to about 90 degrees on both sides", func() {
			hi, lo := math.Inf(-1), math.Inf(1)
			for _, th := range traj.Angles[0] {
				hi = math.Max(hi, th)
				lo = math.Min(lo, th)
			}
			Expect(angle.Degrees(hi)).To(BeNumerically("~", 90, 0.5))
			Expect(angle.Degrees(lo)).To(BeNumerically("~", -90, 0.5))
		})

		It("is slower than the small-angle period", func() {
			c := downwardCrossings(traj.Times, traj.Angles[0])
			Expect(len(c)).To(BeNumerically(">=", 3))
			period := (c[len(c)-1] - c[0]) / float64(len(c)-1)
			Expect(period).To(BeNumerically(">", 2*math.Pi*math.Sqrt(1/9.8)))
			// 4K(sin 45°)/sqrt(g/L)
			Expect(period).To(BeNumerically("~", 2.3690, 0.01))
		})
	})

	It("leaves a double pendulum at rest where it is", func() {
		sys := mustSystem(dynamo.Double, nil)
		traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{0, 0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		for _, x := range traj.States {
			Expect(x.Norm()).To(BeNumerically("<", 1e-12))
		}
	})

	It("keeps the azimuth of a planar spherical swing", func() {
		th0 := angle.Radians(30)
		sph := mustSystem(dynamo.Spherical, nil)
		traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sph, grid, dynamo.State{th0, 0, math.Pi / 2, 0})
		Expect(err).NotTo(HaveOccurred())
		for _, th := range traj.Angles[0] {
			Expect(th).To(BeNumerically("~", th0, 1e-12))
		}

		planar := mustSystem(dynamo.Simple, map[string]float64{"b": 0})
		ref, err := solver.New(integrators.NewRK45()).Solve(ctx, planar, grid, dynamo.State{math.Pi / 2, 0})
		Expect(err).NotTo(HaveOccurred())
		for i, ph := range traj.Angles[1] {
			Expect(ph).To(BeNumerically("~", ref.Angles[0][i], 1e-6))
		}
	})

	Describe("Cartesian conversion", func() {
		It("round trips chain angles through atan2", func() {
			sys := mustSystem(dynamo.Double, map[string]float64{"L1": 1.5, "L2": 0.7})
			traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{2.5, 1, -1, 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Bodies).To(HaveLen(2))

			for i := range traj.Times {
				p1, p2 := traj.Bodies[0][i], traj.Bodies[1][i]
				th1 := math.Atan2(p1.X, -p1.Y)
				th2 := math.Atan2(p2.X-p1.X, -(p2.Y - p1.Y))
				Expect(angle.Normalize(th1 - traj.Angles[0][i])).To(BeNumerically("~", 0, 1e-9))
				Expect(angle.Normalize(th2 - traj.Angles[1][i])).To(BeNumerically("~", 0, 1e-9))
				Expect(p1.Z).To(Equal(0.0))
			}
		})

		It("places the spherical bob on the sphere", func() {
			sys := mustSystem(dynamo.Spherical, map[string]float64{"L": 2})
			traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{0, 1, 1, 0})
			Expect(err).NotTo(HaveOccurred())
			for _, p := range traj.Tip() {
				Expect(math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)).To(BeNumerically("~", 2, 1e-12))
			}
		})

		It("wraps phase angles without touching the raw series", func() {
			sys := mustSystem(dynamo.Simple, map[string]float64{"b": 0})
			traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{0, 10})
			Expect(err).NotTo(HaveOccurred())

			raw := traj.Angles[0]
			Expect(raw[len(raw)-1]).To(BeNumerically(">", math.Pi))
			for i, a := range traj.PhaseAngles(0) {
				Expect(a).To(BeNumerically(">", -math.Pi))
				Expect(a).To(BeNumerically("<=", math.Pi))
				Expect(a).To(Equal(angle.Normalize(raw[i])))
			}
			Expect(raw[len(raw)-1]).To(BeNumerically(">", math.Pi))
		})
	})

	Describe("failures", func() {
		It("reports a non-finite state at the spherical pole", func() {
			sys := mustSystem(dynamo.Spherical, nil)
			traj, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{0, 1, 0, 0})
			Expect(traj).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.State.IsValid()).To(BeFalse())
		})

		It("reports a non-finite state from a fixed-step integrator", func() {
			sys := mustSystem(dynamo.Spherical, nil)
			_, err := solver.New(integrators.NewRK4()).Solve(ctx, sys, grid, dynamo.State{0, 1, 0, 0})
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("rejects an initial state that is already invalid", func() {
			sys := mustSystem(dynamo.Simple, nil)
			_, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{math.NaN(), 0})
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("rejects a state of the wrong size", func() {
			sys := mustSystem(dynamo.Double, nil)
			_, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, grid, dynamo.State{0, 0})
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})

		It("rejects an empty grid", func() {
			sys := mustSystem(dynamo.Simple, nil)
			_, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, dynamo.TimeGrid{Start: 1, End: 0, Step: 0.1}, dynamo.State{0, 0})
			Expect(errors.Is(err, dynamo.ErrInvalidGrid)).To(BeTrue())

			for _, g := range []dynamo.TimeGrid{
				{Start: 0, End: math.Inf(1), Step: 0.02},
				{Start: 0, End: 1e30, Step: 1e-3},
			} {
				_, err := solver.New(integrators.NewRK45()).Solve(ctx, sys, g, dynamo.State{0, 0})
				Expect(errors.Is(err, dynamo.ErrInvalidGrid)).To(BeTrue())
			}
		})

		It("gives up when the step budget runs out", func() {
			sys := mustSystem(dynamo.Double, nil)
			_, err := solver.New(integrators.NewRK45(), solver.WithMaxSteps(10)).
				Solve(ctx, sys, grid, dynamo.State{math.Pi / 2, 0, math.Pi / 2, 0})
			Expect(errors.Is(err, dynamo.ErrNonConvergence)).To(BeTrue())
		})

		It("fails when the step would shrink below the minimum", func() {
			sys := mustSystem(dynamo.Double, nil)
			_, err := solver.New(integrators.NewRK45(), solver.WithTolerance(1e-15), solver.WithMinStep(1)).
				Solve(ctx, sys, grid, dynamo.State{math.Pi / 2, 0, math.Pi / 2, 0})
			Expect(errors.Is(err, dynamo.ErrStepTooSmall)).To(BeTrue())
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			sys := mustSystem(dynamo.Simple, nil)
			traj, err := solver.New(integrators.NewRK45()).Solve(cctx, sys, grid, dynamo.State{1, 0})
			Expect(traj).To(BeNil())
			Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
		})
	})

	It("feeds metrics once per sample and records stats", func() {
		m := &countingMetric{}
		s := solver.New(integrators.NewRK45(), solver.WithMetrics(m))
		traj, err := s.Solve(ctx, mustSystem(dynamo.Simple, nil), grid, dynamo.State{1, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Metrics).To(HaveKeyWithValue("samples", float64(grid.Len())))
		Expect(traj.Stats.Steps).To(BeNumerically(">=", grid.Len()-1))
		Expect(s.Adaptive()).To(BeTrue())
	})

	It("takes one fixed step per interval", func() {
		s := solver.New(integrators.NewRK4())
		traj, err := s.Solve(ctx, mustSystem(dynamo.Simple, nil), grid, dynamo.State{1, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Stats.Steps).To(Equal(grid.Len() - 1))
		Expect(traj.Stats.Rejected).To(BeZero())
		Expect(s.Adaptive()).To(BeFalse())
	})
})

var _ = Describe("Ensemble", func() {
	It("returns trajectories in input order", func() {
		grid := dynamo.TimeGrid{Start: 0, End: 2, Step: 0.05}
		sys := mustSystem(dynamo.Double, nil)
		x0s := []dynamo.State{
			{0.1, 0, 0.2, 0},
			{1.0, 0, -1.0, 0},
			{2.0, 0, 2.0, 0},
		}

		e := solver.NewEnsemble(func() *solver.Solver { return solver.New(integrators.NewRK45()) }, 2)
		trajs, err := e.Run(context.Background(), sys, grid, x0s)
		Expect(err).NotTo(HaveOccurred())
		Expect(trajs).To(HaveLen(3))
		for i, tr := range trajs {
			Expect(tr.States[0]).To(Equal(x0s[i]))
		}
	})

	It("fails as a whole when one run fails", func() {
		grid := dynamo.TimeGrid{Start: 0, End: 1, Step: 0.05}
		sys := mustSystem(dynamo.Spherical, nil)
		e := solver.NewEnsemble(func() *solver.Solver { return solver.New(integrators.NewRK45()) }, 0)
		_, err := e.Run(context.Background(), sys, grid, []dynamo.State{{0, 1, 1, 0}, {0, 1, 0, 0}})
		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
	})
})
