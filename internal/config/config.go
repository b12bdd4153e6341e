// Package config provides configuration loading for the temporal simulator.
// It layers a YAML file over tuned defaults; a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/engine"
)

// Config contains all simulator settings.
type Config struct {
	// Engine holds the immutable simulation constants.
	Engine engine.Config `yaml:"engine"`

	// Run controls the driver loop cadence.
	Run RunConfig `yaml:"run"`

	// Spectrum controls the synthetic spectrum provider.
	Spectrum SpectrumConfig `yaml:"spectrum"`

	// Database is the run-recorder SQLite location. Empty disables recording.
	Database DatabaseConfig `yaml:"database"`

	// Logging sets the log verbosity: "debug", "info" (default), "warn".
	Logging LoggingConfig `yaml:"logging"`
}

// RunConfig paces the driver loop.
type RunConfig struct {
	// Cadence is "realtime" (~16 ms), "observation" (seconds) or "analysis"
	// (paused until stepped).
	Cadence string `yaml:"cadence"`

	// Interval overrides the cadence preset when non-zero.
	Interval time.Duration `yaml:"interval"`

	// Speed is the loop multiplier: 1.0 = real-time, 0 = paused.
	Speed float64 `yaml:"speed"`
}

// SpectrumConfig selects and seeds the spectrum source.
type SpectrumConfig struct {
	// Source is "synthetic", "sdss" or "stellar". Only synthetic samples are
	// generated locally; the others describe externally supplied files.
	Source string `yaml:"source"`
	Seed   int64  `yaml:"seed"`
	Points int    `yaml:"points"`
}

// DatabaseConfig locates the run recorder.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the tuned configuration.
func Default() *Config {
	return &Config{
		Engine: engine.DefaultConfig(),
		Run: RunConfig{
			Cadence: "realtime",
			Speed:   1.0,
		},
		Spectrum: SpectrumConfig{
			Source: "synthetic",
			Seed:   42,
			Points: 256,
		},
		Database: DatabaseConfig{
			Path: "data/temporal.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file returns the
// defaults unchanged; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// TickInterval resolves the loop interval from cadence and override.
func (c *Config) TickInterval() time.Duration {
	if c.Run.Interval > 0 {
		return c.Run.Interval
	}
	switch c.Run.Cadence {
	case "observation":
		return engine.ObservationInterval
	default:
		return engine.RealtimeInterval
	}
}

// Paused reports whether the analysis cadence (or zero speed) was selected.
func (c *Config) Paused() bool {
	return c.Run.Cadence == "analysis" || c.Run.Speed <= 0
}

// normalize repairs out-of-range values instead of failing.
func (c *Config) normalize() {
	if c.Engine.N < 1 {
		c.Engine.N = 1
	}
	if c.Engine.DeltaT <= 0 {
		c.Engine.DeltaT = engine.DefaultConfig().DeltaT
	}
	if c.Engine.ClampBound <= 0 {
		c.Engine.ClampBound = engine.DefaultConfig().ClampBound
	}
	if c.Engine.BaseThreshold <= 0 {
		c.Engine.BaseThreshold = engine.DefaultConfig().BaseThreshold
	}
	if c.Run.Speed < 0 {
		c.Run.Speed = 0
	}
	if c.Spectrum.Points < 2 {
		c.Spectrum.Points = 256
	}
}
