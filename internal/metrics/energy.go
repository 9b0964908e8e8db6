package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Energy is the mean total energy over the observed samples.
type Energy struct {
	name        string
	sys         dynamo.Hamiltonian
	samples     int
	totalEnergy float64
}

func NewEnergy(sys dynamo.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		sys:  sys,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	e.totalEnergy += e.sys.Energy(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation from the first observed
// energy. With zero initial energy the absolute deviation is used.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	dyn           dynamo.System
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	ec, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := ec.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyRise is the largest increase of energy between two consecutive
// samples. A damped pendulum should report zero up to integration error.
type EnergyRise struct {
	name    string
	sys     dynamo.Hamiltonian
	last    float64
	maxRise float64
	seen    bool
}

func NewEnergyRise(sys dynamo.Hamiltonian) *EnergyRise {
	return &EnergyRise{name: "energy_rise", sys: sys}
}

func (e *EnergyRise) Name() string { return e.name }

func (e *EnergyRise) Observe(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)
	if e.seen {
		e.maxRise = math.Max(e.maxRise, energy-e.last)
	}
	e.last = energy
	e.seen = true
}

func (e *EnergyRise) Value() float64 { return e.maxRise }

func (e *EnergyRise) Reset() {
	e.last = 0
	e.maxRise = 0
	e.seen = false
}
