package config

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pendsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, dynamo.Simple, cfg.Kind)
	assert.Equal(t, "rk45", cfg.Integrator)
	assert.Equal(t, 1001, cfg.Time.Len())
	assert.Equal(t, 1e-3, cfg.Live.Dt)
	assert.NoError(t, cfg.Validate())
}

func TestResolveDefaults(t *testing.T) {
	for _, k := range dynamo.Kinds() {
		cfg := DefaultConfig()
		cfg.Kind = k

		p, err := cfg.Resolve()
		require.NoError(t, err, k.String())
		assert.Len(t, p, len(Params(k)))
		for _, s := range Params(k) {
			assert.Equal(t, s.Default, p[s.Name], "%v %s", k, s.Name)
		}
	}
}

func TestParamTables(t *testing.T) {
	names := func(k dynamo.Kind) []string {
		var out []string
		for _, s := range Params(k) {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{"m", "g", "L", "w0", "th0", "b"}, names(dynamo.Simple))
	assert.Equal(t, []string{"g", "m1", "m2", "L1", "L2", "w1", "w2", "th1", "th2"}, names(dynamo.Double))
	assert.Len(t, names(dynamo.Triple), 13)
	assert.Equal(t, []string{"m", "g", "L", "wph0", "wth0", "ph0", "th0"}, names(dynamo.Spherical))

	for _, k := range dynamo.Kinds() {
		for _, s := range Params(k) {
			assert.LessOrEqual(t, s.Min, s.Default, "%v %s", k, s.Name)
			assert.GreaterOrEqual(t, s.Max, s.Default, "%v %s", k, s.Name)
		}
	}
	assert.Nil(t, Params(dynamo.Kind(42)))
}

func TestParamsReturnsCopy(t *testing.T) {
	p := Params(dynamo.Simple)
	p[0].Default = 99
	assert.Equal(t, 1.0, Params(dynamo.Simple)[0].Default)
}

func TestResolveOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kind = dynamo.Double
	cfg.Params = map[string]float64{"m2": 2.5, "th1": 45}

	p, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 2.5, p["m2"])
	assert.Equal(t, 45.0, p["th1"])
	assert.Equal(t, 9.8, p["g"])
}

func TestResolveOutOfBounds(t *testing.T) {
	tests := []struct {
		kind  dynamo.Kind
		name  string
		value float64
	}{
		{dynamo.Simple, "L", 0.1},
		{dynamo.Simple, "b", -1},
		{dynamo.Double, "w2", 11},
		{dynamo.Triple, "th3", 361},
		{dynamo.Spherical, "L", 6},
		{dynamo.Spherical, "g", math.NaN()},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Kind = tt.kind
		cfg.Params = map[string]float64{tt.name: tt.value}

		_, err := cfg.Resolve()
		require.Error(t, err)
		assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
		assert.Contains(t, err.Error(), tt.name)
	}
}

func TestResolveUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params = map[string]float64{"m1": 1}
	_, err := cfg.Resolve()
	assert.ErrorContains(t, err, `"m1"`)

	cfg = DefaultConfig()
	cfg.Kind = dynamo.Kind(42)
	_, err = cfg.Resolve()
	assert.ErrorIs(t, err, dynamo.ErrUnknownKind)
}

func TestValidate(t *testing.T) {
	mutate := []func(*Config){
		func(c *Config) { c.Integrator = "euler" },
		func(c *Config) { c.Tolerance = 0 },
		func(c *Config) { c.Time.Step = 0 },
		func(c *Config) { c.Time.End = -1 },
		func(c *Config) { c.Live.Dt = 0 },
		func(c *Config) { c.Live.FPS = 0 },
		func(c *Config) { c.Live.Substeps = -1 },
	}
	for i, m := range mutate {
		cfg := DefaultConfig()
		m(cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}

func TestLiveSteps(t *testing.T) {
	assert.Equal(t, 16, LiveConfig{Dt: 1e-3, FPS: 60}.Steps())
	assert.Equal(t, 5, LiveConfig{Dt: 1e-3, FPS: 60, Substeps: 5}.Steps())
	assert.Equal(t, 1, LiveConfig{Dt: 1, FPS: 60}.Steps())
}

func TestInitialState(t *testing.T) {
	p := map[string]float64{"th0": 180, "w0": 2}
	assert.InDeltaSlice(t, []float64{math.Pi, 2}, InitialState(dynamo.Simple, p), 1e-15)

	p = map[string]float64{"th1": 90, "w1": 1, "th2": 0, "w2": -1}
	assert.InDeltaSlice(t, []float64{math.Pi / 2, 1, 0, -1}, InitialState(dynamo.Double, p), 1e-15)

	p = map[string]float64{"th1": 90, "th2": 180, "th3": 270, "w3": 3}
	assert.InDeltaSlice(t, []float64{math.Pi / 2, 0, math.Pi, 0, 3 * math.Pi / 2, 3}, InitialState(dynamo.Triple, p), 1e-15)

	p = map[string]float64{"th0": 90, "wth0": 1, "ph0": 45, "wph0": 2}
	assert.InDeltaSlice(t, []float64{math.Pi / 2, 1, math.Pi / 4, 2}, InitialState(dynamo.Spherical, p), 1e-15)

	for _, k := range dynamo.Kinds() {
		cfg := DefaultConfig()
		cfg.Kind = k
		p, err := cfg.Resolve()
		require.NoError(t, err)
		assert.Len(t, InitialState(k, p), 2*k.DOF())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`kind: double_pendulum
params:
  th1: 120
  m2: 2
time:
  start: 0
  end: 5
  step: 0.01
integrator: rk4
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, dynamo.Double, cfg.Kind)
	assert.Equal(t, "rk4", cfg.Integrator)
	assert.Equal(t, 501, cfg.Time.Len())
	assert.Equal(t, DefaultTolerance, cfg.Tolerance)
	assert.Equal(t, DefaultFPS, cfg.Live.FPS)

	p, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 120.0, p["th1"])
	assert.Equal(t, 2.0, p["m2"])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kind: quadruple\n"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, dynamo.ErrUnknownKind)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset(dynamo.Spherical, "conical")
	require.NotNil(t, cfg)
	require.NoError(t, Save(path, cfg))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestPresetsResolve(t *testing.T) {
	for k, ps := range Presets {
		for name, cfg := range ps {
			assert.Equal(t, k, cfg.Kind, name)
			assert.NoError(t, cfg.Validate(), "%v/%s", k, name)
			_, err := cfg.Resolve()
			assert.NoError(t, err, "%v/%s", k, name)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(dynamo.Simple, "small")
	require.NotNil(t, cfg)
	assert.Equal(t, 10.0, cfg.Params["th0"])

	cfg.Params["th0"] = 50
	assert.Equal(t, 10.0, GetPreset(dynamo.Simple, "small").Params["th0"])

	assert.Nil(t, GetPreset(dynamo.Simple, "nonexistent"))
	assert.Nil(t, GetPreset(dynamo.Kind(42), "small"))
}

func TestListPresets(t *testing.T) {
	for _, k := range dynamo.Kinds() {
		names := ListPresets(k)
		assert.NotEmpty(t, names, k.String())
		assert.True(t, sort.StringsAreSorted(names))
	}
	assert.Nil(t, ListPresets(dynamo.Kind(42)))
}
