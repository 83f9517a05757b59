// SPDX-License-Identifier: MIT

package nonabelian

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/kspace/result"
)

// Physical constants (SI unless noted) behind the preset prefactors.
const (
	elementaryCharge = 1.6021766208e-19 // C
	hbar             = 1.0545718e-34    // J·s
	eVAtomicUnits    = 3.674932e-2      // 1 eV in Hartree
	bohrAngstrom     = 0.52917721067    // Bohr radius in Å

	// FactorAHC converts Σ Ω / (N·V[Å³]) into the anomalous Hall
	// conductivity in S/cm.
	FactorAHC = -1e8 * elementaryCharge * elementaryCharge / hbar

	// FactorMorb converts Σ M / (N·V[Å³]) into the orbital magnetization
	// in Bohr magnetons per Bohr³.
	FactorMorb = -eVAtomicUnits / (bohrAngstrom * bohrAngstrom * bohrAngstrom)
)

// Preset is a named quantity product with its integration mode and factor.
type Preset struct {
	Name       string
	Quantities []Quantity
	Mode       Mode
	Factor     float64
}

var presets = map[string]Preset{
	"spin":     {Name: "spin", Quantities: []Quantity{Spin}, Mode: ModeFermiSurface, Factor: 1},
	"spinvel":  {Name: "spinvel", Quantities: []Quantity{Spin, Vel}, Mode: ModeFermiSurface, Factor: 1},
	"curvvel":  {Name: "curvvel", Quantities: []Quantity{Curv, Vel}, Mode: ModeFermiSurface, Factor: 1},
	"curvmorb": {Name: "curvmorb", Quantities: []Quantity{Curv, Morb}, Mode: ModeFermiSurface, Factor: 1},
	"velvel":   {Name: "velvel", Quantities: []Quantity{Vel, Vel}, Mode: ModeFermiSurface, Factor: 1},
	"morbvel":  {Name: "morbvel", Quantities: []Quantity{Morb, Vel}, Mode: ModeFermiSurface, Factor: 1},
	"spinspin": {Name: "spinspin", Quantities: []Quantity{Spin, Spin}, Mode: ModeFermiSurface, Factor: 1},
	"curv_tot": {Name: "curv_tot", Quantities: []Quantity{Curv}, Mode: ModeFermiSea, Factor: 1},
	"ahc":      {Name: "ahc", Quantities: []Quantity{Curv}, Mode: ModeFermiSea, Factor: FactorAHC},
	"morb_tot": {Name: "morb_tot", Quantities: []Quantity{Morb}, Mode: ModeFermiSea, Factor: FactorMorb},
}

// Presets returns the preset names in sorted order.
func Presets() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// LookupPreset returns the preset called name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	if ok {
		p.Quantities = append([]Quantity(nil), p.Quantities...)
	}

	return p, ok
}

// ComputePreset runs the named preset. Options in opts are applied after the
// preset's own mode, factor and threshold, so they win.
func ComputePreset(name string, d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	p, ok := LookupPreset(name)
	if !ok {
		return nil, errors.WithHintf(errors.Wrapf(ErrConfiguration, "unknown preset %q", name), "known presets: %v", Presets())
	}
	base := []Option{WithMode(p.Mode), WithFactor(p.Factor), WithDegenThreshold(degenThresh)}

	return Compute(d, efermi, p.Quantities, append(base, opts...)...)
}

// ComputeSpin integrates Tr S^a on the Fermi surface.
func ComputeSpin(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("spin", d, efermi, degenThresh, opts...)
}

// ComputeSpinVel integrates Tr(S^a·V^b) on the Fermi surface.
func ComputeSpinVel(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("spinvel", d, efermi, degenThresh, opts...)
}

// ComputeCurvVel integrates Tr(Ω^a·V^b) on the Fermi surface.
func ComputeCurvVel(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("curvvel", d, efermi, degenThresh, opts...)
}

// ComputeCurvMorb integrates Tr(Ω^a·M^b) on the Fermi surface.
func ComputeCurvMorb(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("curvmorb", d, efermi, degenThresh, opts...)
}

// ComputeVelVel integrates Tr(V^a·V^b) on the Fermi surface.
func ComputeVelVel(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("velvel", d, efermi, degenThresh, opts...)
}

// ComputeMorbVel integrates Tr(M^a·V^b) on the Fermi surface.
func ComputeMorbVel(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("morbvel", d, efermi, degenThresh, opts...)
}

// ComputeSpinSpin integrates Tr(S^a·S^b) on the Fermi surface.
func ComputeSpinSpin(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("spinspin", d, efermi, degenThresh, opts...)
}

// ComputeCurvTot integrates Tr Ω^a over the Fermi sea.
func ComputeCurvTot(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("curv_tot", d, efermi, degenThresh, opts...)
}

// ComputeAHC is ComputeCurvTot scaled to S/cm by FactorAHC.
func ComputeAHC(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("ahc", d, efermi, degenThresh, opts...)
}

// ComputeMorbTot integrates Tr M^a over the Fermi sea, scaled by FactorMorb.
func ComputeMorbTot(d Data, efermi []float64, degenThresh float64, opts ...Option) (*result.EnergyResult, error) {
	return ComputePreset("morb_tot", d, efermi, degenThresh, opts...)
}
