package config

import (
	"sort"

	"github.com/san-kum/pendsim/internal/dynamo"
)

func preset(k dynamo.Kind, params map[string]float64) *Config {
	cfg := DefaultConfig()
	cfg.Kind = k
	cfg.Params = params
	return cfg
}

var Presets = map[dynamo.Kind]map[string]*Config{
	dynamo.Simple: {
		"small":    preset(dynamo.Simple, map[string]float64{"th0": 10, "b": 0}),
		"large":    preset(dynamo.Simple, map[string]float64{"th0": 170, "b": 0}),
		"spinning": preset(dynamo.Simple, map[string]float64{"th0": 0, "w0": 8, "b": 0}),
		"damped":   preset(dynamo.Simple, map[string]float64{"th0": 120, "b": 1}),
	},
	dynamo.Double: {
		"symmetric": preset(dynamo.Double, map[string]float64{"th1": 90, "th2": 90}),
		"chaos":     preset(dynamo.Double, map[string]float64{"th1": 170, "th2": 175}),
		"gentle":    preset(dynamo.Double, map[string]float64{"th1": 15, "th2": 15}),
		"heavy":     preset(dynamo.Double, map[string]float64{"th1": 60, "th2": 0, "m1": 5, "m2": 0.2}),
	},
	dynamo.Triple: {
		"straight": preset(dynamo.Triple, map[string]float64{"th1": 90, "th2": 90, "th3": 90}),
		"chaos":    preset(dynamo.Triple, map[string]float64{"th1": 120, "th2": 150, "th3": 180}),
		"gentle":   preset(dynamo.Triple, map[string]float64{"th1": 10, "th2": 10, "th3": 10}),
	},
	dynamo.Spherical: {
		// wth² = g / (L cos φ) keeps φ constant
		"conical":    preset(dynamo.Spherical, map[string]float64{"ph0": 45, "th0": 0, "wth0": 3.7228}),
		"planar":     preset(dynamo.Spherical, map[string]float64{"ph0": 90, "th0": 0}),
		"precessing": preset(dynamo.Spherical, map[string]float64{"ph0": 60, "th0": 0, "wth0": 2, "wph0": 1}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(k dynamo.Kind, name string) *Config {
	kindPresets, ok := Presets[k]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names for k in sorted order.
func ListPresets(k dynamo.Kind) []string {
	kindPresets, ok := Presets[k]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
