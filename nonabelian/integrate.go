// SPDX-License-Identifier: MIT

package nonabelian

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/result"
	"github.com/katalvlaran/kspace/tensor"
)

// gridRelTol bounds the deviation of each grid step from dE, relative to dE.
const gridRelTol = 1e-8

// energyGrid is a validated, uniform, increasing Fermi-level grid.
type energyGrid struct {
	efermi []float64
	dE     float64
}

func newEnergyGrid(efermi []float64) (energyGrid, error) {
	if len(efermi) < 2 {
		return energyGrid{}, errors.Wrapf(ErrEnergyGrid, "%d points, need at least 2", len(efermi))
	}
	for ie, e := range efermi {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return energyGrid{}, errors.Wrapf(ErrEnergyGrid, "point %d is %g", ie, e)
		}
	}
	dE := efermi[1] - efermi[0]
	if dE <= 0 {
		return energyGrid{}, errors.Wrapf(ErrEnergyGrid, "not increasing: dE = %g", dE)
	}
	for ie := 2; ie < len(efermi); ie++ {
		if step := efermi[ie] - efermi[ie-1]; math.Abs(step-dE) > gridRelTol*dE {
			return energyGrid{}, errors.Wrapf(ErrEnergyGrid, "step %d is %g, want %g", ie-1, step, dE)
		}
	}

	return energyGrid{efermi: efermi, dE: dE}, nil
}

// window returns [Emin, Emax], the outer bin edges of the grid.
func (g energyGrid) window() (float64, float64) {
	return g.efermi[0] - g.dE/2, g.efermi[len(g.efermi)-1] + g.dE/2
}

// bin maps an energy to the nearest grid index, rounding half to even.
// ok is false outside the grid.
func (g energyGrid) bin(e float64) (int, bool) {
	ie := int(math.RoundToEven((e - g.efermi[0]) / g.dE))

	return ie, ie >= 0 && ie < len(g.efermi)
}

// integrator holds everything the k-loop reads; it is never written after
// construction, so chunks share it freely.
type integrator struct {
	data       Data
	plan       Plan
	grid       energyGrid
	mode       Mode
	emax       float64
	groups     [][]degen.Group
	extractors map[Quantity]extractor
	binSize    int
}

// run integrates every k-point and returns the raw (unnormalized) histogram,
// bin-major. With workers > 1 the k-range is cut into contiguous chunks,
// each with a private accumulator; chunks are summed in order afterwards.
func (it *integrator) run(workers int) ([]float64, error) {
	nk := len(it.groups)
	size := len(it.grid.efermi) * it.binSize
	if workers > nk {
		workers = nk
	}
	if workers <= 1 {
		acc := make([]float64, size)

		return acc, it.accumulate(0, nk, acc)
	}

	partial := make([][]float64, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*nk/workers, (w+1)*nk/workers
		partial[w] = make([]float64, size)
		acc := partial[w]
		eg.Go(func() error { return it.accumulate(lo, hi, acc) })
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := partial[0]
	for _, p := range partial[1:] {
		for i, v := range p {
			total[i] += v
		}
	}

	return total, nil
}

// accumulate adds the contributions of k-points [lo, hi) into acc.
func (it *integrator) accumulate(lo, hi int, acc []float64) error {
	qs := it.plan.Quantities
	operands := make([]*tensor.Tensor, len(qs))
	blocks := make(map[Quantity][]*tensor.Tensor, len(it.extractors))

	for ik := lo; ik < hi; ik++ {
		gs := it.groups[ik]
		if len(gs) == 0 {
			continue
		}
		clear(blocks)
		for _, q := range qs {
			if _, ok := blocks[q]; ok {
				continue
			}
			b, err := it.extractors[q](it.data, ik, gs)
			if err != nil {
				return err
			}
			blocks[q] = b
		}

		for ig, g := range gs {
			for i, q := range qs {
				operands[i] = blocks[q][ig]
			}
			val, err := tensor.Contract(it.plan.Expr, operands...)
			if err != nil {
				return markf(err, ErrShapeMismatch, "k=%d group [%d,%d) %s", ik, g.Lo, g.Hi, it.plan)
			}
			it.deposit(acc, g.E, val.Real())
		}
	}

	return nil
}

// deposit spreads one group's contribution over the grid.
func (it *integrator) deposit(acc []float64, e float64, v []float64) {
	bs := it.binSize
	switch it.mode {
	case ModeFermiSurface:
		if ie, ok := it.grid.bin(e); ok {
			addInto(acc[ie*bs:(ie+1)*bs], v)
		}
	case ModeFermiSea:
		if e >= it.emax {
			return
		}
		for ie, ef := range it.grid.efermi {
			if ef > e {
				addInto(acc[ie*bs:(ie+1)*bs], v)
			}
		}
	}
}

func addInto(dst, src []float64) {
	for i, v := range src {
		dst[i] += v
	}
}

// binSizeOf is the number of real values per Fermi level for plan p.
func binSizeOf(p Plan) int { return result.BinSize(p.Rank()) }
