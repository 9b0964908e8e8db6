package config

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// ParamSpec is one adjustable parameter with its default and allowed range.
// Angle parameters are in degrees.
type ParamSpec struct {
	Name    string
	Default float64
	Min     float64
	Max     float64
	Angle   bool
}

func (s ParamSpec) Check(v float64) error {
	if math.IsNaN(v) || v < s.Min || v > s.Max {
		return fmt.Errorf("%w: %s = %g not in [%g, %g]", dynamo.ErrParameterBounds, s.Name, v, s.Min, s.Max)
	}
	return nil
}

var (
	gravity  = ParamSpec{Name: "g", Default: 9.8, Min: 0.2, Max: 20}
	velocity = func(name string) ParamSpec { return ParamSpec{Name: name, Default: 0, Min: -10, Max: 10} }
	angleDeg = func(name string) ParamSpec { return ParamSpec{Name: name, Default: 90, Min: 0, Max: 360, Angle: true} }
	chainM   = func(name string) ParamSpec { return ParamSpec{Name: name, Default: 1, Min: 0.2, Max: 5} }
	chainL   = func(name string) ParamSpec { return ParamSpec{Name: name, Default: 1, Min: 0.5, Max: 3} }
)

var tables = map[dynamo.Kind][]ParamSpec{
	dynamo.Simple: {
		{Name: "m", Default: 1, Min: 0.5, Max: 3},
		gravity,
		{Name: "L", Default: 1, Min: 0.5, Max: 3},
		velocity("w0"),
		angleDeg("th0"),
		{Name: "b", Default: 0.1, Min: 0, Max: 3},
	},
	dynamo.Double: {
		gravity,
		chainM("m1"), chainM("m2"),
		chainL("L1"), chainL("L2"),
		velocity("w1"), velocity("w2"),
		angleDeg("th1"), angleDeg("th2"),
	},
	dynamo.Triple: {
		gravity,
		chainM("m1"), chainM("m2"), chainM("m3"),
		chainL("L1"), chainL("L2"), chainL("L3"),
		velocity("w1"), velocity("w2"), velocity("w3"),
		angleDeg("th1"), angleDeg("th2"), angleDeg("th3"),
	},
	dynamo.Spherical: {
		{Name: "m", Default: 1, Min: 0.5, Max: 3},
		gravity,
		{Name: "L", Default: 1, Min: 0.2, Max: 5},
		velocity("wph0"), velocity("wth0"),
		angleDeg("ph0"), angleDeg("th0"),
	},
}

// Params returns the ordered parameter table for k, or nil for an unknown
// kind. The returned slice is a copy.
func Params(k dynamo.Kind) []ParamSpec {
	t, ok := tables[k]
	if !ok {
		return nil
	}
	return append([]ParamSpec(nil), t...)
}
