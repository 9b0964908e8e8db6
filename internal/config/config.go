package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/angle"
	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	DefaultIntegrator = "rk45"
	DefaultTolerance  = 1e-9
	DefaultLiveDt     = 1e-3
	DefaultFPS        = 60
)

// Integrators lists the accepted values of Config.Integrator.
var Integrators = []string{"rk45", "rk4", "symplectic"}

type Config struct {
	Kind       dynamo.Kind        `yaml:"kind"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Time       dynamo.TimeGrid    `yaml:"time"`
	Integrator string             `yaml:"integrator"`
	Tolerance  float64            `yaml:"tolerance"`
	Live       LiveConfig         `yaml:"live"`
}

// LiveConfig paces the interactive view. Each frame performs Substeps
// ticks of Dt; zero Substeps means real time at FPS.
type LiveConfig struct {
	Dt       float64 `yaml:"dt"`
	FPS      int     `yaml:"fps"`
	Substeps int     `yaml:"substeps"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind:       dynamo.Simple,
		Params:     map[string]float64{},
		Time:       dynamo.DefaultTimeGrid(),
		Integrator: DefaultIntegrator,
		Tolerance:  DefaultTolerance,
		Live: LiveConfig{
			Dt:  DefaultLiveDt,
			FPS: DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked freely.
func (c *Config) Clone() *Config {
	out := *c
	out.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		out.Params[k] = v
	}
	return &out
}

// Resolve returns the full parameter set for the configured kind, in table
// units, with table defaults for anything not set. Values outside the table
// ranges wrap dynamo.ErrParameterBounds.
func (c *Config) Resolve() (map[string]float64, error) {
	specs := Params(c.Kind)
	if specs == nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownKind, c.Kind)
	}

	known := make(map[string]bool, len(specs))
	out := make(map[string]float64, len(specs))
	for _, s := range specs {
		known[s.Name] = true
		v, ok := c.Params[s.Name]
		if !ok {
			v = s.Default
		}
		if err := s.Check(v); err != nil {
			return nil, err
		}
		out[s.Name] = v
	}
	for name := range c.Params {
		if !known[name] {
			return nil, fmt.Errorf("%s has no parameter %q", c.Kind, name)
		}
	}
	return out, nil
}

// Validate checks everything except the parameters.
func (c *Config) Validate() error {
	if err := c.Time.Validate(); err != nil {
		return err
	}
	found := false
	for _, name := range Integrators {
		if c.Integrator == name {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("unknown integrator %q (want one of %v)", c.Integrator, Integrators)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Live.Dt <= 0 {
		return fmt.Errorf("live dt must be positive, got %g", c.Live.Dt)
	}
	if c.Live.FPS <= 0 {
		return fmt.Errorf("live fps must be positive, got %d", c.Live.FPS)
	}
	if c.Live.Substeps < 0 {
		return fmt.Errorf("live substeps must not be negative, got %d", c.Live.Substeps)
	}
	return nil
}

// Steps is the number of live ticks per frame.
func (l LiveConfig) Steps() int {
	if l.Substeps > 0 {
		return l.Substeps
	}
	n := int(1.0 / (float64(l.FPS) * l.Dt))
	if n < 1 {
		n = 1
	}
	return n
}

// InitialState builds the integration state for kind from resolved
// parameters. Angles are converted from degrees.
func InitialState(k dynamo.Kind, p map[string]float64) dynamo.State {
	switch k {
	case dynamo.Simple:
		return dynamo.State{angle.Radians(p["th0"]), p["w0"]}
	case dynamo.Double:
		return dynamo.State{
			angle.Radians(p["th1"]), p["w1"],
			angle.Radians(p["th2"]), p["w2"],
		}
	case dynamo.Triple:
		return dynamo.State{
			angle.Radians(p["th1"]), p["w1"],
			angle.Radians(p["th2"]), p["w2"],
			angle.Radians(p["th3"]), p["w3"],
		}
	case dynamo.Spherical:
		return dynamo.State{
			angle.Radians(p["th0"]), p["wth0"],
			angle.Radians(p["ph0"]), p["wph0"],
		}
	}
	return nil
}
