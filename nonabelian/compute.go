// SPDX-License-Identifier: MIT

package nonabelian

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/result"
)

// Compute contracts the blocks of qs for every degenerate group of every
// k-point and integrates the real part over the Fermi-level grid efermi.
//
// Implementation:
//   - Stage 1: validate mode, quantities, grid, morb mode and subscripts, then
//     build the Plan. Nothing touches the provider before this succeeds.
//   - Stage 2: ask the provider for degenerate groups inside
//     [efermi[0]-dE/2, efermi[-1]+dE/2] (lower edge -Inf with WithIncludeLower
//     in fermi-sea mode).
//   - Stage 3: per k-point extract each distinct quantity once, contract per
//     group and deposit: fermi-surface adds to the nearest level, fermi-sea to
//     every level strictly above the group energy.
//   - Stage 4: scale by factor/(NKFFTTot·CellVolume), and by 1/dE in
//     fermi-surface mode; attach parity flags.
//
// Errors:
//   - ErrUnsupportedMode, ErrNoQuantities, ErrEnergyGrid, ErrConfiguration,
//     ErrNilData before any k-point is processed.
//   - ErrShapeMismatch for unknown quantities and absent or malformed provider data.
//
// Complexity:
//   - Time O(NK · groups · Π label extents), Space O(len(efermi)·3^rank + one k-point of blocks per worker).
func Compute(d Data, efermi []float64, qs []Quantity, opts ...Option) (*result.EnergyResult, error) {
	o := gatherOptions(opts...)
	if !o.mode.valid() {
		return nil, errors.Wrapf(ErrUnsupportedMode, "%q (want %q or %q)", string(o.mode), ModeFermiSurface, ModeFermiSea)
	}
	if len(qs) == 0 {
		return nil, ErrNoQuantities
	}
	grid, err := newEnergyGrid(efermi)
	if err != nil {
		return nil, err
	}
	if !o.morbMode.valid() {
		return nil, errors.Wrapf(ErrConfiguration, "unknown morb mode %q", string(o.morbMode))
	}
	plan, err := NewPlan(qs, o.subscripts)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNilData
	}
	nkTot, vol := d.NKFFTTot(), d.CellVolume()
	if nkTot <= 0 || !(vol > 0) || math.IsInf(vol, 0) {
		return nil, errors.Wrapf(ErrConfiguration, "provider normalization: NKFFT=%d, cell volume=%g", nkTot, vol)
	}

	emin, emax := grid.window()
	if o.mode == ModeFermiSea && o.includeLower {
		emin = math.Inf(-1)
	}
	groups, err := d.Degen(emin, emax, o.degenThresh)
	if err != nil {
		return nil, errors.Wrap(err, "degenerate groups")
	}
	if len(groups) != d.NumK() {
		return nil, errors.Wrapf(ErrShapeMismatch, "provider returned groups for %d of %d k-points", len(groups), d.NumK())
	}

	extractors := make(map[Quantity]extractor, len(qs))
	for _, q := range qs {
		extractors[q] = quantityTable[q].extract
		if q == Morb && o.morbMode == MorbSumOverStates {
			extractors[q] = morbSumOverStates(o.gapTol)
		}
	}

	log := o.logger
	log.Debug("nonabelian: start",
		zap.Strings("quantities", names(qs)),
		zap.Stringer("plan", plan),
		zap.String("mode", string(o.mode)),
		zap.String("morb_mode", string(o.morbMode)),
		zap.Int("nk", len(groups)),
		zap.Int("groups", countGroups(groups)),
		zap.Int("workers", o.workers),
	)
	start := time.Now()

	it := &integrator{
		data:       d,
		plan:       plan,
		grid:       grid,
		mode:       o.mode,
		emax:       emax,
		groups:     groups,
		extractors: extractors,
		binSize:    binSizeOf(plan),
	}
	acc, err := it.run(o.workers)
	if err != nil {
		return nil, err
	}

	norm := o.factor / (float64(nkTot) * vol)
	if o.mode == ModeFermiSurface {
		norm /= grid.dE
	}
	for i := range acc {
		acc[i] *= norm
	}

	res, err := result.New(efermi, plan.Rank(), acc, TROdd(qs), InvOdd(qs))
	if err != nil {
		return nil, errors.Wrap(err, "package result")
	}
	log.Debug("nonabelian: done", zap.Duration("elapsed", time.Since(start)), zap.Float64("max_abs", res.MaxAbs()))

	return res, nil
}

// ComputeNamed is Compute for quantity names ("spin", "vel", "curv", "morb").
// Unknown names fail with ErrShapeMismatch.
func ComputeNamed(d Data, efermi []float64, quantities []string, opts ...Option) (*result.EnergyResult, error) {
	qs, err := ParseQuantities(quantities)
	if err != nil {
		return nil, err
	}

	return Compute(d, efermi, qs, opts...)
}

func countGroups(groups [][]degen.Group) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}

	return n
}
