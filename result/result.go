// SPDX-License-Identifier: MIT

// Package result holds energy-resolved response tensors.
//
// An EnergyResult pairs a Fermi-energy grid with one real Cartesian tensor of
// shape (3,)*Rank per grid point, together with the time-reversal and
// inversion parity of the quantity it represents. Downstream symmetrization
// uses the parity flags to discard forbidden components.
package result

import (
	"math"

	"github.com/cockroachdb/errors"
)

// CartDim is the extent of every Cartesian axis.
const CartDim = 3

var (
	// ErrShape indicates mismatched grids, ranks, data lengths or indices.
	ErrShape = errors.New("result: shape mismatch")

	// ErrParity indicates arithmetic between results of different symmetry parity.
	ErrParity = errors.New("result: parity mismatch")
)

// EnergyResult is a real tensor per Fermi level.
// Data is flattened bin-major: Data[ie*BinSize() + cartesian offset].
type EnergyResult struct {
	Efermi []float64 `yaml:"efermi" json:"efermi"`
	Rank   int       `yaml:"rank" json:"rank"`
	Data   []float64 `yaml:"data" json:"data"`
	TRodd  bool      `yaml:"tr_odd" json:"tr_odd"`
	Iodd   bool      `yaml:"i_odd" json:"i_odd"`
}

// BinSize returns 3^rank, the number of values stored per energy.
func BinSize(rank int) int {
	n := 1
	for r := 0; r < rank; r++ {
		n *= CartDim
	}

	return n
}

// New packages data for the given grid. The grid and data are copied.
func New(efermi []float64, rank int, data []float64, trOdd, iOdd bool) (*EnergyResult, error) {
	if rank < 0 {
		return nil, errors.Wrapf(ErrShape, "negative rank %d", rank)
	}
	if len(data) != len(efermi)*BinSize(rank) {
		return nil, errors.Wrapf(ErrShape, "%d values for %d energies of rank %d", len(data), len(efermi), rank)
	}

	return &EnergyResult{
		Efermi: append([]float64(nil), efermi...),
		Rank:   rank,
		Data:   append([]float64(nil), data...),
		TRodd:  trOdd,
		Iodd:   iOdd,
	}, nil
}

// BinSize returns the number of values per energy.
func (r *EnergyResult) BinSize() int { return BinSize(r.Rank) }

// Shape returns (len(Efermi), 3, ..., 3).
func (r *EnergyResult) Shape() []int {
	shape := []int{len(r.Efermi)}
	for k := 0; k < r.Rank; k++ {
		shape = append(shape, CartDim)
	}

	return shape
}

// Bin returns a copy of the tensor at energy index ie.
func (r *EnergyResult) Bin(ie int) ([]float64, error) {
	if ie < 0 || ie >= len(r.Efermi) {
		return nil, errors.Wrapf(ErrShape, "energy index %d of %d", ie, len(r.Efermi))
	}
	n := r.BinSize()

	return append([]float64(nil), r.Data[ie*n:(ie+1)*n]...), nil
}

// At returns one component: energy index ie, Cartesian indices cart (len == Rank).
func (r *EnergyResult) At(ie int, cart ...int) (float64, error) {
	if ie < 0 || ie >= len(r.Efermi) || len(cart) != r.Rank {
		return 0, errors.Wrapf(ErrShape, "At(%d, %v) on rank %d", ie, cart, r.Rank)
	}
	off := 0
	for _, c := range cart {
		if c < 0 || c >= CartDim {
			return 0, errors.Wrapf(ErrShape, "Cartesian index %d", c)
		}
		off = off*CartDim + c
	}

	return r.Data[ie*r.BinSize()+off], nil
}

// Add returns r + other. Grids, ranks and parities must agree.
func (r *EnergyResult) Add(other *EnergyResult) (*EnergyResult, error) {
	if other == nil || r.Rank != other.Rank || len(r.Data) != len(other.Data) {
		return nil, errors.Wrap(ErrShape, "Add")
	}
	for k, e := range r.Efermi {
		if math.Abs(e-other.Efermi[k]) > 1e-12*math.Max(1, math.Abs(e)) {
			return nil, errors.Wrapf(ErrShape, "Add: Efermi[%d] %g != %g", k, e, other.Efermi[k])
		}
	}
	if r.TRodd != other.TRodd || r.Iodd != other.Iodd {
		return nil, errors.Wrap(ErrParity, "Add")
	}
	out, err := New(r.Efermi, r.Rank, r.Data, r.TRodd, r.Iodd)
	if err != nil {
		return nil, err
	}
	for k, v := range other.Data {
		out.Data[k] += v
	}

	return out, nil
}

// Scale returns f·r.
func (r *EnergyResult) Scale(f float64) *EnergyResult {
	out := &EnergyResult{
		Efermi: append([]float64(nil), r.Efermi...),
		Rank:   r.Rank,
		Data:   make([]float64, len(r.Data)),
		TRodd:  r.TRodd,
		Iodd:   r.Iodd,
	}
	for k, v := range r.Data {
		out.Data[k] = f * v
	}

	return out
}

// MaxAbs returns max |Data| (0 for an empty result).
func (r *EnergyResult) MaxAbs() float64 {
	var m float64
	for _, v := range r.Data {
		m = math.Max(m, math.Abs(v))
	}

	return m
}
