package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
)

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(oscillator{}, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := oscillator{}.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(oscillator{}, x, float64(i)*dt, dt)
	}

	drift := math.Abs(oscillator{}.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, err := integrator.StepAdaptive(oscillator{}, x0, 0, 0.01, 1e-8)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if newDt <= 0 {
		t.Errorf("StepAdaptive returned invalid dt: %f", newDt)
	}
}

func TestRK45_RejectsLargeStep(t *testing.T) {
	integrator := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	x, retry, err := integrator.StepAdaptive(oscillator{}, x0, 0, 2.0, 1e-12)
	if !errors.Is(err, dynamo.ErrStepRejected) {
		t.Fatalf("expected ErrStepRejected, got %v", err)
	}
	if x != nil {
		t.Errorf("rejected step returned a state: %v", x)
	}
	if retry >= 2.0 || retry <= 0 {
		t.Errorf("retry step %f should shrink", retry)
	}
}

func TestRK45_AdaptiveTracksSolution(t *testing.T) {
	integrator := NewRK45()
	x := dynamo.State{1.0, 0.0}
	tm, dt, end := 0.0, 0.1, 10.0

	for tm < end {
		h := math.Min(dt, end-tm)
		next, suggested, err := integrator.StepAdaptive(oscillator{}, x, tm, h, 1e-10)
		if errors.Is(err, dynamo.ErrStepRejected) {
			dt = suggested
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		x, tm, dt = next, tm+h, suggested
	}

	if math.Abs(x[0]-math.Cos(end)) > 1e-7 {
		t.Errorf("position %.10f, want %.10f", x[0], math.Cos(end))
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()

	x4 := dynamo.State{1.0, 0.0}
	x45 := x4.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(oscillator{}, x4, float64(i)*dt, dt)
		x45 = rk45.Step(oscillator{}, x45, float64(i)*dt, dt)
	}

	e4 := oscillator{}.Energy(x4)
	e45 := oscillator{}.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Errorf("RK45 energy error %e exceeds RK4 %e", math.Abs(e45-0.5), math.Abs(e4-0.5))
	}
}
