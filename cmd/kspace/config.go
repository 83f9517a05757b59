// SPDX-License-Identifier: MIT

package main

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/katalvlaran/kspace/model"
	"github.com/katalvlaran/kspace/nonabelian"
)

// envPrefix maps nested keys such as "compute.mode" to KSPACE_COMPUTE_MODE.
const envPrefix = "KSPACE"

// Config is the full CLI configuration: YAML file, KSPACE_* environment
// and command-line flags, in increasing precedence.
type Config struct {
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Energy  EnergyConfig  `mapstructure:"energy" yaml:"energy"`
	Compute ComputeConfig `mapstructure:"compute" yaml:"compute"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Output  string        `mapstructure:"output" yaml:"output"`
	// MetricsFile receives the run metrics in Prometheus text format.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// ModelConfig selects the in-memory provider.
type ModelConfig struct {
	Preset     string    `mapstructure:"preset" yaml:"preset"`
	Mass       float64   `mapstructure:"mass" yaml:"mass"`
	Mesh       []int     `mapstructure:"mesh" yaml:"mesh"`
	Shift      []float64 `mapstructure:"shift" yaml:"shift"`
	CellVolume float64   `mapstructure:"cell_volume" yaml:"cell_volume"`
	Workers    int       `mapstructure:"workers" yaml:"workers"`
}

// EnergyConfig is the Fermi-level grid: Min, Min+Step, ... up to Max inclusive.
type EnergyConfig struct {
	Min  float64 `mapstructure:"min" yaml:"min"`
	Max  float64 `mapstructure:"max" yaml:"max"`
	Step float64 `mapstructure:"step" yaml:"step"`
}

// ComputeConfig mirrors the nonabelian options. Preset, when set, replaces
// Quantities, Mode and Factor.
type ComputeConfig struct {
	Preset       string   `mapstructure:"preset" yaml:"preset"`
	Quantities   []string `mapstructure:"quantities" yaml:"quantities"`
	Subscripts   string   `mapstructure:"subscripts" yaml:"subscripts"`
	Mode         string   `mapstructure:"mode" yaml:"mode"`
	Factor       float64  `mapstructure:"factor" yaml:"factor"`
	DegenThresh  float64  `mapstructure:"degen_thresh" yaml:"degen_thresh"`
	MorbMode     string   `mapstructure:"morb_mode" yaml:"morb_mode"`
	Workers      int      `mapstructure:"workers" yaml:"workers"`
	IncludeLower bool     `mapstructure:"include_lower" yaml:"include_lower"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// defaults is the single source of truth for unset keys. Every key must be
// listed so that AutomaticEnv can resolve it.
var defaults = map[string]any{
	"model.preset":          "dirac",
	"model.mass":            2.5,
	"model.mesh":            []int{8, 8, 8},
	"model.shift":           []float64{0.5, 0.5, 0.5},
	"model.cell_volume":     model.DefaultCellVolume,
	"model.workers":         1,
	"energy.min":            -6.0,
	"energy.max":            6.0,
	"energy.step":           0.1,
	"compute.preset":        "",
	"compute.quantities":    []string{"curv"},
	"compute.subscripts":    "",
	"compute.mode":          string(nonabelian.DefaultMode),
	"compute.factor":        nonabelian.DefaultFactor,
	"compute.degen_thresh":  nonabelian.DefaultDegenThreshold,
	"compute.morb_mode":     string(nonabelian.DefaultMorbMode),
	"compute.workers":       nonabelian.DefaultWorkers,
	"compute.include_lower": false,
	"log.level":             "info",
	"log.format":            "console",
	"output":                "",
	"metrics_file":          "",
}

// newViper builds a Viper with YAML config type, KSPACE_ env prefix, automatic
// env binding, a "." → "_" key replacer and all defaults registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	return v
}

// loadConfig reads configPath (if non-empty) into v and decodes the merged
// settings.
func loadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %q", configPath)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config: validation failed")
	}

	return cfg, nil
}

// Validate checks the settings that nonabelian and model would otherwise
// reject with a panic or a less specific error.
func (c *Config) Validate() error {
	if len(c.Model.Mesh) != 3 {
		return errors.Newf("model.mesh needs 3 extents, got %v", c.Model.Mesh)
	}
	if len(c.Model.Shift) != 3 {
		return errors.Newf("model.shift needs 3 values, got %v", c.Model.Shift)
	}
	if !(c.Model.CellVolume > 0) || math.IsInf(c.Model.CellVolume, 0) {
		return errors.Newf("model.cell_volume must be > 0, got %g", c.Model.CellVolume)
	}
	if c.Model.Workers <= 0 || c.Compute.Workers <= 0 {
		return errors.New("workers must be > 0")
	}
	if !(c.Energy.Step > 0) || !(c.Energy.Max > c.Energy.Min) {
		return errors.Newf("energy grid needs step > 0 and max > min, got %+v", c.Energy)
	}
	if math.IsNaN(c.Compute.DegenThresh) || math.IsInf(c.Compute.DegenThresh, 0) {
		return errors.New("compute.degen_thresh must be finite")
	}
	if math.IsNaN(c.Compute.Factor) || math.IsInf(c.Compute.Factor, 0) {
		return errors.New("compute.factor must be finite")
	}
	if c.Compute.Preset == "" && len(c.Compute.Quantities) == 0 {
		return errors.WithHint(errors.New("no quantities"), "set compute.quantities or compute.preset")
	}
	// a preset brings its own mode
	if c.Compute.Preset == "" {
		if _, err := nonabelian.ParseMode(c.Compute.Mode); err != nil {
			return errors.Wrap(err, "compute.mode")
		}
	}
	if _, err := nonabelian.ParseMorbMode(c.Compute.MorbMode); err != nil {
		return errors.Wrap(err, "compute.morb_mode")
	}

	return nil
}

// Efermi expands the energy grid. The point count is rounded so that a Max
// lying on the grid up to round-off is included.
func (e EnergyConfig) Efermi() []float64 {
	n := int(math.Floor((e.Max-e.Min)/e.Step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = e.Min + float64(i)*e.Step
	}

	return out
}

// options translates the compute section into nonabelian options.
// Mode and morb-mode strings are passed through so Compute reports them.
func (c ComputeConfig) options() []nonabelian.Option {
	opts := []nonabelian.Option{
		nonabelian.WithSubscripts(c.Subscripts),
		nonabelian.WithDegenThreshold(c.DegenThresh),
		nonabelian.WithMorbMode(nonabelian.MorbMode(strings.ToLower(c.MorbMode))),
		nonabelian.WithWorkers(c.Workers),
		nonabelian.WithIncludeLower(c.IncludeLower),
	}
	if c.Preset == "" {
		opts = append(opts,
			nonabelian.WithMode(nonabelian.Mode(strings.ToLower(c.Mode))),
			nonabelian.WithFactor(c.Factor))
	}

	return opts
}
