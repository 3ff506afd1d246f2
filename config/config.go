// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Fluid     FluidConfig     `yaml:"fluid"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Collision CollisionConfig `yaml:"collision"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FluidConfig holds the particle fluid parameters. Distances are world units
// (pixels); velocities are world units per tick.
type FluidConfig struct {
	MaxParticles      int     `yaml:"max_particles"`
	CellSize          float64 `yaml:"cell_size"`          // spatial grid cell size
	InteractionRadius float64 `yaml:"interaction_radius"` // pressure cutoff in world units
	IdealRadius       float64 `yaml:"ideal_radius"`       // pressure cutoff in normalized units
	RestDensity       float64 `yaml:"rest_density"`       // normalized pressure scale
	Viscosity         float64 `yaml:"viscosity"`
	GravityX          float64 `yaml:"gravity_x"`
	GravityY          float64 `yaml:"gravity_y"`
	DT                float64 `yaml:"dt"`
}

// SpawnConfig holds emitter parameters.
type SpawnConfig struct {
	Count  int     `yaml:"count"`  // particles per spawn trigger
	Jitter float64 `yaml:"jitter"` // max offset from the spawn origin
}

// CollisionConfig holds rigid-fixture coupling parameters.
type CollisionConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

// RenderConfig holds presentation settings.
type RenderConfig struct {
	ParticleRadius  float64 `yaml:"particle_radius"`
	BackgroundShade uint8   `yaml:"background_shade"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks in the perf rolling window
}

// StreamConfig holds the snapshot streaming endpoint settings.
type StreamConfig struct {
	Addr     string `yaml:"addr"`     // listen address; empty disables streaming
	Interval int    `yaml:"interval"` // ticks between broadcasts
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Multiplier float64 // IdealRadius / InteractionRadius
	WorldW     float64 // Screen.Width as float64
	WorldH     float64 // Screen.Height as float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Fluid.InteractionRadius > 0 {
		c.Derived.Multiplier = c.Fluid.IdealRadius / c.Fluid.InteractionRadius
	}
	c.Derived.WorldW = float64(c.Screen.Width)
	c.Derived.WorldH = float64(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
