package realtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

func TestAdvanceIsPure(t *testing.T) {
	sys, err := physics.New(dynamo.Double, nil)
	require.NoError(t, err)

	x := dynamo.State{1, 0.5, -0.5, 0.2}
	before := x.Clone()

	a := Advance(sys, x, 1e-3)
	b := Advance(sys, x, 1e-3)

	assert.Equal(t, before, x)
	assert.Equal(t, a, b)
	assert.NotEqual(t, x, a)
}

func TestAdvanceOrder(t *testing.T) {
	sys := physics.Simple{G: 9.8, L: 1, B: 0, M: 1}
	dt := 0.01
	x := Advance(sys, dynamo.State{math.Pi / 2, 0}, dt)

	wantV := -9.8 * dt
	assert.InDelta(t, wantV, x[1], 1e-15)
	assert.InDelta(t, math.Pi/2+wantV*dt, x[0], 1e-15)
}

func TestStepperFrames(t *testing.T) {
	sys, err := physics.New(dynamo.Triple, nil)
	require.NoError(t, err)

	x0 := dynamo.State{0.5, 0, 0.5, 0, 0.5, 0}
	s := NewStepper(sys, x0, 1e-3, 10)

	f := s.Next()
	assert.InDelta(t, 0.01, f.Time, 1e-12)
	require.Len(t, f.Bodies, 3)
	assert.True(t, f.State.IsValid())

	x := x0.Clone()
	for i := 0; i < 10; i++ {
		x = Advance(sys, x, 1e-3)
	}
	assert.InDeltaSlice(t, x, f.State, 1e-15)

	s.Reset()
	assert.Zero(t, s.Time())
	assert.Equal(t, x0, s.State())
}

func TestStepperDefaults(t *testing.T) {
	s := NewStepper(physics.NewSimple(), dynamo.State{1, 0}, 0, 0)
	assert.Equal(t, DefaultDt, s.Dt)
	assert.Equal(t, DefaultSubsteps, s.Substeps)
}

func TestStepperEnergyStaysBounded(t *testing.T) {
	sys := physics.Simple{G: 9.8, L: 1, B: 0, M: 1}
	s := NewStepper(sys, dynamo.State{math.Pi / 2, 0}, 1e-3, 16)
	e0 := s.Current().Energy

	for i := 0; i < 1000; i++ {
		f := s.Next()
		assert.InDelta(t, e0, f.Energy, 0.05*e0)
	}
}
