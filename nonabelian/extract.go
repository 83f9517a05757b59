// SPDX-License-Identifier: MIT

package nonabelian

import (
	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/result"
	"github.com/katalvlaran/kspace/tensor"
)

// extractor returns one (size, size, 3) block per group at k-point ik.
//
// Extractors must not reach quantityTable (directly or through Quantity
// methods): the table refers to them, and Go rejects the initialization cycle.
type extractor func(d Data, ik int, groups []degen.Group) ([]*tensor.Tensor, error)

func extractSpin(d Data, ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	return diagonalBlocks("spin", d, ik, groups, d.Spin)
}

func extractVel(d Data, ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	return diagonalBlocks("vel", d, ik, groups, d.Velocity)
}

func extractCurv(d Data, ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	blocks, err := d.Curvature(ik, groups)
	if err != nil {
		return nil, markf(err, ErrShapeMismatch, "curv at k=%d", ik)
	}

	return checkBlocks("curv", ik, groups, blocks)
}

func extractMorb(d Data, ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	blocks, err := d.Morb(ik, groups)
	if err != nil {
		return nil, markf(err, ErrShapeMismatch, "morb at k=%d", ik)
	}

	return checkBlocks("morb", ik, groups, blocks)
}

// diagonalBlocks reads the full band matrix and slices matrix[lo:hi, lo:hi, :]
// for every group.
func diagonalBlocks(
	name string, d Data, ik int, groups []degen.Group,
	raw func(ik int) (*tensor.Tensor, error),
) ([]*tensor.Tensor, error) {
	full, err := bandMatrix(name, d, ik, raw)
	if err != nil {
		return nil, err
	}
	out := make([]*tensor.Tensor, len(groups))
	for ig, g := range groups {
		if out[ig], err = full.Block(g.Lo, g.Hi); err != nil {
			return nil, markf(err, ErrShapeMismatch, "%s at k=%d group [%d,%d)", name, ik, g.Lo, g.Hi)
		}
	}

	return out, nil
}

// bandMatrix fetches one (nb, nb, 3) provider matrix and validates its shape.
func bandMatrix(name string, d Data, ik int, raw func(ik int) (*tensor.Tensor, error)) (*tensor.Tensor, error) {
	energies, err := d.Energies(ik)
	if err != nil {
		return nil, markf(err, ErrShapeMismatch, "energies at k=%d", ik)
	}
	full, err := raw(ik)
	if err != nil {
		return nil, markf(err, ErrShapeMismatch, "%s at k=%d", name, ik)
	}
	nb := len(energies)
	if full == nil {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s at k=%d: no data", name, ik)
	}
	if full.Rank() != 3 || full.Dim(0) != nb || full.Dim(1) != nb || full.Dim(2) != result.CartDim {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s at k=%d: shape %v, want [%d %d %d]",
			name, ik, full.Shape(), nb, nb, result.CartDim)
	}

	return full, nil
}

// checkBlocks validates provider-built per-group blocks.
func checkBlocks(name string, ik int, groups []degen.Group, blocks []*tensor.Tensor) ([]*tensor.Tensor, error) {
	if len(blocks) != len(groups) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s at k=%d: %d blocks for %d groups", name, ik, len(blocks), len(groups))
	}
	for ig, b := range blocks {
		size := groups[ig].Size()
		if b == nil || b.Rank() != 3 || b.Dim(0) != size || b.Dim(1) != size || b.Dim(2) != result.CartDim {
			return nil, errors.Wrapf(ErrShapeMismatch, "%s at k=%d group %d: bad block", name, ik, ig)
		}
	}

	return blocks, nil
}
