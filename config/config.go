// Package config provides configuration loading, validation and access for
// the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig marks configuration validation failures. All violations
// are reported before any computation begins.
var ErrInvalidConfig = errors.New("invalid configuration")

// Initial condition generator modes.
const (
	ModeUniform   = "uniform"
	ModePerturbed = "perturbed"
	ModeZeldovich = "zeldovich"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Initial    InitialConfig    `yaml:"initial"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Output     OutputConfig     `yaml:"output"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// SimulationConfig holds the core run parameters.
type SimulationConfig struct {
	Particles            int     `yaml:"particles"`
	GridResolution       int     `yaml:"grid_resolution"`
	BoxSize              float64 `yaml:"box_size"`
	TimeStep             float64 `yaml:"time_step"`
	Steps                int     `yaml:"steps"`
	ProjectionResolution int     `yaml:"projection_resolution"`
}

// InitialConfig selects and tunes the initial-condition generator.
type InitialConfig struct {
	Mode                  string  `yaml:"mode"`
	PerturbationAmplitude float64 `yaml:"perturbation_amplitude"`
}

// PhysicsConfig holds force calculation knobs.
type PhysicsConfig struct {
	// GrowthFactor amplifies mesh forces to accelerate visible structure
	// formation. Not a physical parameter; 1.0 disables it.
	GrowthFactor float64 `yaml:"growth_factor"`
}

// RuntimeConfig holds execution parameters.
type RuntimeConfig struct {
	Workers int `yaml:"workers"` // 0 = GOMAXPROCS
}

// OutputConfig holds persistence intervals.
type OutputConfig struct {
	FrameInterval    int `yaml:"frame_interval"`
	SnapshotInterval int `yaml:"snapshot_interval"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded
// defaults, and validates the result. If path is empty, only embedded
// defaults are used.
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every precondition the pipeline depends on. Violations
// wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	s := &c.Simulation
	switch {
	case s.Particles <= 0:
		return fmt.Errorf("%w: particles must be > 0, got %d", ErrInvalidConfig, s.Particles)
	case s.GridResolution <= 0:
		return fmt.Errorf("%w: grid_resolution must be > 0, got %d", ErrInvalidConfig, s.GridResolution)
	case s.ProjectionResolution <= 0:
		return fmt.Errorf("%w: projection_resolution must be > 0, got %d", ErrInvalidConfig, s.ProjectionResolution)
	case s.BoxSize <= 0:
		return fmt.Errorf("%w: box_size must be > 0, got %g", ErrInvalidConfig, s.BoxSize)
	case s.Steps < 0:
		return fmt.Errorf("%w: steps must be >= 0, got %d", ErrInvalidConfig, s.Steps)
	}

	switch c.Initial.Mode {
	case ModeUniform, ModePerturbed:
	case ModeZeldovich:
		r := s.GridResolution
		if s.Particles != r*r*r {
			return fmt.Errorf("%w: zeldovich requires particles == grid_resolution^3 (%d), got %d",
				ErrInvalidConfig, r*r*r, s.Particles)
		}
	default:
		return fmt.Errorf("%w: unknown initial mode %q", ErrInvalidConfig, c.Initial.Mode)
	}

	if c.Physics.GrowthFactor <= 0 {
		return fmt.Errorf("%w: growth_factor must be > 0, got %g", ErrInvalidConfig, c.Physics.GrowthFactor)
	}
	return nil
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
