package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

func TestSemiImplicitEulerUpdatesVelocityFirst(t *testing.T) {
	pos := []float64{1.0}
	vel := []float64{0.0}

	SemiImplicitEuler(oscillator{}, 0.1, pos, vel)

	// v = 0 - 1*0.1, q = 1 + v*0.1
	if math.Abs(vel[0]+0.1) > 1e-15 {
		t.Errorf("velocity = %v, want -0.1", vel[0])
	}
	if math.Abs(pos[0]-0.99) > 1e-15 {
		t.Errorf("position = %v, want 0.99", pos[0])
	}
}

func TestSemiImplicitEulerBoundedEnergy(t *testing.T) {
	pos := []float64{1.0}
	vel := []float64{0.0}

	for i := 0; i < 100000; i++ {
		SemiImplicitEuler(oscillator{}, 0.01, pos, vel)
	}

	e := oscillator{}.Energy(dynamo.Join(pos, vel))
	if math.Abs(e-0.5) > 0.01 {
		t.Errorf("energy wandered to %v", e)
	}
}

func TestSemiImplicitEulerSmallAnglePeriod(t *testing.T) {
	p := physics.Simple{G: 9.8, L: 1, B: 0, M: 1}
	dt := 1e-3
	pos := []float64{0.05}
	vel := []float64{0}

	var crossings []float64
	prev := pos[0]
	for i := 1; i <= 25000 && len(crossings) < 6; i++ {
		SemiImplicitEuler(p, dt, pos, vel)
		if prev > 0 && pos[0] <= 0 {
			frac := prev / (prev - pos[0])
			crossings = append(crossings, (float64(i-1)+frac)*dt)
		}
		prev = pos[0]
	}

	if len(crossings) < 6 {
		t.Fatalf("only %d downward crossings", len(crossings))
	}

	period := (crossings[5] - crossings[0]) / 5
	want := 2 * math.Pi * math.Sqrt(p.L/p.G)
	if math.Abs(period-want)/want > 0.01 {
		t.Errorf("period %.5f, want %.5f", period, want)
	}
}

func TestSymplecticMatchesPrimitive(t *testing.T) {
	sys, err := physics.New(dynamo.Double, nil)
	if err != nil {
		t.Fatal(err)
	}
	x := dynamo.State{0.3, 0.1, -0.2, 0.4}

	got := NewSymplectic().Step(sys, x, 0, 1e-3)

	pos, vel := x.Split()
	SemiImplicitEuler(sys, 1e-3, pos, vel)
	want := dynamo.Join(pos, vel)

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("component %d: %v != %v", i, got[i], want[i])
		}
	}
	if x[0] != 0.3 {
		t.Error("input state mutated")
	}
}
