package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the full qalpha configuration. Command-line flags override any
// value loaded from file.
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Output OutputConfig `yaml:"output"`
}

// ModelConfig carries the q-alpha model hyperparameters shared by every bond
// in a sweep.
type ModelConfig struct {
	KurtosisQ    float64 `yaml:"kurtosis_q"`
	SkewAlpha    float64 `yaml:"skew_alpha"`
	Sigma        float64 `yaml:"sigma"`
	HorizonYears int     `yaml:"horizon_years"`
}

// SweepConfig controls the recovery-rate sensitivity grid and run mechanics.
// The recovery grid is half-open: [min, max) stepped by step.
type SweepConfig struct {
	RecoveryMin  float64 `yaml:"recovery_min"`
	RecoveryMax  float64 `yaml:"recovery_max"`
	RecoveryStep float64 `yaml:"recovery_step"`
	PathCount    int     `yaml:"path_count"`
	Workers      int     `yaml:"workers"` // 0 means one worker per CPU
	Seed         uint64  `yaml:"seed"`
	SkipErrors   bool    `yaml:"skip_errors"`
}

// OutputConfig controls result formatting and optional telemetry.
type OutputConfig struct {
	Precision   int    `yaml:"precision"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the reference configuration: the sample parameters of the
// q-alpha model with the standard 10%-85% recovery grid.
func Default() Config {
	return Config{
		Model: ModelConfig{
			KurtosisQ:    1.3,
			SkewAlpha:    2.0,
			Sigma:        0.55,
			HorizonYears: 3,
		},
		Sweep: SweepConfig{
			RecoveryMin:  0.10,
			RecoveryMax:  0.90,
			RecoveryStep: 0.05,
			PathCount:    1000,
			Workers:      0,
			Seed:         1,
		},
		Output: OutputConfig{
			Precision: 4,
		},
	}
}

// Load reads and validates a YAML configuration file, filling unset sections
// from the defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before any simulation starts.
func (c Config) Validate() error {
	if c.Model.KurtosisQ <= 1 {
		return fmt.Errorf("model kurtosis_q must be > 1, got %g", c.Model.KurtosisQ)
	}
	if c.Model.KurtosisQ == 3 {
		return fmt.Errorf("model kurtosis_q = 3 is outside the kernel domain")
	}
	if c.Model.Sigma <= 0 {
		return fmt.Errorf("model sigma must be positive, got %g", c.Model.Sigma)
	}
	if c.Model.HorizonYears <= 0 {
		return fmt.Errorf("model horizon_years must be at least 1, got %d", c.Model.HorizonYears)
	}
	if c.Sweep.RecoveryStep <= 0 {
		return fmt.Errorf("sweep recovery_step must be positive, got %g", c.Sweep.RecoveryStep)
	}
	if c.Sweep.RecoveryMin < 0 || c.Sweep.RecoveryMax > 1+c.Sweep.RecoveryStep {
		return fmt.Errorf("sweep recovery grid [%g, %g) outside [0, 1]", c.Sweep.RecoveryMin, c.Sweep.RecoveryMax)
	}
	if c.Sweep.RecoveryMin >= c.Sweep.RecoveryMax {
		return fmt.Errorf("sweep recovery grid is empty: min %g >= max %g", c.Sweep.RecoveryMin, c.Sweep.RecoveryMax)
	}
	if c.Sweep.PathCount <= 0 {
		return fmt.Errorf("sweep path_count must be positive, got %d", c.Sweep.PathCount)
	}
	if c.Sweep.Workers < 0 {
		return fmt.Errorf("sweep workers must be >= 0, got %d", c.Sweep.Workers)
	}
	if c.Output.Precision <= 0 {
		return fmt.Errorf("output precision must be positive, got %d", c.Output.Precision)
	}
	return nil
}
