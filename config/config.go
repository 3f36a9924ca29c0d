// Package config provides configuration loading for the backdrop.
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

// Config holds all backdrop configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Theme     ThemeConfig     `yaml:"theme"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Resizable bool   `yaml:"resizable"`
	Title     string `yaml:"title"`
}

// FieldConfig holds particle pool parameters.
type FieldConfig struct {
	Count         int     `yaml:"count"`
	RadiusMin     float64 `yaml:"radius_min"`     // Smallest particle radius
	RadiusMax     float64 `yaml:"radius_max"`     // Exclusive upper bound
	Speed         float64 `yaml:"speed"`          // Velocity components drawn from [-speed/2, speed/2)
	OpacityMin    float64 `yaml:"opacity_min"`
	OpacityMax    float64 `yaml:"opacity_max"`
	LinkThreshold float64 `yaml:"link_threshold"` // Max distance for a connecting line
	LinkDim       float64 `yaml:"link_dim"`       // Multiplier applied to every link alpha
	LinkWidth     float64 `yaml:"link_width"`
}

// ThemeConfig holds theme persistence settings.
type ThemeConfig struct {
	StateFile string `yaml:"state_file"` // Empty = user config dir
	Dark      bool   `yaml:"dark"`       // Initial theme when nothing is persisted
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Frames in the rolling perf window
	StatsWindow float64 `yaml:"stats_window"` // Seconds between window stats
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32     float32 // Screen.Width as float32
	ScreenH32     float32 // Screen.Height as float32
	FrameInterval float64 // Seconds per frame at TargetFPS
	StatsFrames   int     // Telemetry.StatsWindow expressed in frames
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
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
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the field cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height))
	}
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("target_fps must be positive, got %d", c.Screen.TargetFPS))
	}
	f := c.Field
	if f.Count <= 0 {
		errs = append(errs, fmt.Errorf("field.count must be positive, got %d", f.Count))
	}
	if f.RadiusMin <= 0 || f.RadiusMax < f.RadiusMin {
		errs = append(errs, fmt.Errorf("field radius range [%g, %g) is invalid", f.RadiusMin, f.RadiusMax))
	}
	if f.Speed < 0 {
		errs = append(errs, fmt.Errorf("field.speed must not be negative, got %g", f.Speed))
	}
	if f.OpacityMin < 0 || f.OpacityMax > 1 || f.OpacityMax < f.OpacityMin {
		errs = append(errs, fmt.Errorf("field opacity range [%g, %g) is invalid", f.OpacityMin, f.OpacityMax))
	}
	if f.LinkThreshold <= 0 {
		errs = append(errs, fmt.Errorf("field.link_threshold must be positive, got %g", f.LinkThreshold))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FrameInterval = 1.0 / float64(c.Screen.TargetFPS)

	frames := int(c.Telemetry.StatsWindow * float64(c.Screen.TargetFPS))
	if frames < 1 {
		frames = c.Screen.TargetFPS
	}
	c.Derived.StatsFrames = frames

	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = c.Screen.TargetFPS
	}
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
