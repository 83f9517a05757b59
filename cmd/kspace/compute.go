// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/kspace/model"
	"github.com/katalvlaran/kspace/nonabelian"
	"github.com/katalvlaran/kspace/result"
)

// report is the YAML document written by "kspace compute".
type report struct {
	RunID      string               `yaml:"run_id"`
	Model      modelReport          `yaml:"model"`
	Preset     string               `yaml:"preset,omitempty"`
	Quantities []string             `yaml:"quantities"`
	Plan       string               `yaml:"plan"`
	Mode       string               `yaml:"mode"`
	Factor     float64              `yaml:"factor"`
	Result     *result.EnergyResult `yaml:"result"`
}

type modelReport struct {
	Preset   string  `yaml:"preset"`
	Mass     float64 `yaml:"mass"`
	Mesh     []int   `yaml:"mesh"`
	NumK     int     `yaml:"num_k"`
	NumBands int     `yaml:"num_bands"`
}

// flagKeys maps compute flags to the config keys they override.
var flagKeys = map[string]string{
	"model":         "model.preset",
	"mass":          "model.mass",
	"mesh":          "model.mesh",
	"quantities":    "compute.quantities",
	"preset":        "compute.preset",
	"subscripts":    "compute.subscripts",
	"mode":          "compute.mode",
	"factor":        "compute.factor",
	"degen-thresh":  "compute.degen_thresh",
	"morb-mode":     "compute.morb_mode",
	"workers":       "compute.workers",
	"include-lower": "compute.include_lower",
	"emin":          "energy.min",
	"emax":          "energy.max",
	"estep":         "energy.step",
	"output":        "output",
	"metrics-file":  "metrics_file",
}

func newComputeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Integrate a product of quantities over the model's k-grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := newRunMetrics()
			rep, err := runCompute(a.cfg, a.logger, m)
			m.done(err)
			if werr := m.write(a.cfg.MetricsFile); werr != nil {
				a.logger.Warn("metrics not written", zap.Error(werr))
			}
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), a.cfg.Output, rep)
		},
	}

	f := cmd.Flags()
	f.String("model", "", "model preset ("+join(model.PresetNames())+")")
	f.Float64("mass", 0, "model mass parameter")
	f.IntSlice("mesh", nil, "k-mesh extents, e.g. 8,8,8")
	f.StringSliceP("quantities", "q", nil, "quantities to contract, e.g. curv,morb")
	f.StringP("preset", "p", "", "named preset ("+join(nonabelian.Presets())+")")
	f.String("subscripts", "", "Cartesian subscripts, e.g. a,a->a")
	f.String("mode", "", "fermi-surface or fermi-sea")
	f.Float64("factor", 0, "overall prefactor")
	f.Float64("degen-thresh", 0, "degeneracy threshold (eV)")
	f.String("morb-mode", "", "precomputed or sum-over-states")
	f.Int("workers", 0, "k-point workers")
	f.Bool("include-lower", false, "fermi-sea: count groups below the first level")
	f.Float64("emin", 0, "first Fermi level")
	f.Float64("emax", 0, "last Fermi level")
	f.Float64("estep", 0, "Fermi-level step")
	f.StringP("output", "o", "", "write the report to a file instead of stdout")
	f.String("metrics-file", "", "write Prometheus run metrics to this textfile")
	for name, key := range flagKeys {
		_ = a.v.BindPFlag(key, f.Lookup(name))
	}

	return cmd
}

// runCompute builds the model and runs either the preset or the explicit
// quantity list.
func runCompute(cfg *Config, logger *zap.Logger, m *runMetrics) (*report, error) {
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	h, err := model.NewPreset(cfg.Model.Preset, cfg.Model.Mass)
	if err != nil {
		return nil, err
	}
	mesh := [3]int{cfg.Model.Mesh[0], cfg.Model.Mesh[1], cfg.Model.Mesh[2]}
	shift := [3]float64{cfg.Model.Shift[0], cfg.Model.Shift[1], cfg.Model.Shift[2]}
	var md *model.Model
	err = m.time("model", func() (err error) {
		md, err = model.New(h, mesh,
			model.WithShift(shift),
			model.WithCellVolume(cfg.Model.CellVolume),
			model.WithWorkers(cfg.Model.Workers),
			model.WithLogger(logger))
		return err
	})
	if err != nil {
		return nil, err
	}
	m.kpoints.Set(float64(md.NumK()))
	m.bands.Set(float64(md.NumBands()))

	c := cfg.Compute
	rep := &report{
		RunID: runID,
		Model: modelReport{
			Preset:   cfg.Model.Preset,
			Mass:     cfg.Model.Mass,
			Mesh:     cfg.Model.Mesh,
			NumK:     md.NumK(),
			NumBands: md.NumBands(),
		},
		Preset: c.Preset,
		Mode:   c.Mode,
		Factor: c.Factor,
	}

	var qs []nonabelian.Quantity
	if c.Preset != "" {
		p, ok := nonabelian.LookupPreset(c.Preset)
		if !ok {
			return nil, errors.WithHint(errors.Wrapf(nonabelian.ErrConfiguration, "unknown preset %q", c.Preset),
				"run \"kspace quantities\" to list presets")
		}
		qs, rep.Mode, rep.Factor = p.Quantities, string(p.Mode), p.Factor
	} else if qs, err = nonabelian.ParseQuantities(c.Quantities); err != nil {
		return nil, err
	}
	for _, q := range qs {
		rep.Quantities = append(rep.Quantities, q.String())
	}
	plan, err := nonabelian.NewPlan(qs, c.Subscripts)
	if err != nil {
		return nil, err
	}
	rep.Plan = plan.String()

	efermi := cfg.Energy.Efermi()
	m.energies.Set(float64(len(efermi)))
	logger.Info("compute",
		zap.Strings("quantities", rep.Quantities),
		zap.String("plan", rep.Plan),
		zap.String("mode", rep.Mode),
		zap.Int("nk", md.NumK()),
		zap.Int("nE", len(efermi)))

	opts := append(c.options(), nonabelian.WithLogger(logger))
	err = m.time("compute", func() (err error) {
		if c.Preset != "" {
			rep.Result, err = nonabelian.ComputePreset(c.Preset, md, efermi, c.DegenThresh, opts...)
		} else {
			rep.Result, err = nonabelian.Compute(md, efermi, qs, opts...)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("compute done", zap.Float64("max_abs", rep.Result.MaxAbs()))

	return rep, nil
}

// writeReport encodes rep as YAML to path, or to w when path is empty.
func writeReport(w io.Writer, path string, rep *report) error {
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "output %q", path)
		}
		defer f.Close()
		w = f
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(err, "encode report")
	}

	return enc.Close()
}
