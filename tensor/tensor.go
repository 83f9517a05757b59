// SPDX-License-Identifier: MIT

// Package tensor - dense complex tensors of arbitrary rank.
//
// Purpose:
//   - Hold per-k band matrices with trailing Cartesian axes, shape (nb, nb, 3, ...).
//   - Slice diagonal and off-diagonal band blocks out of them (Block, Gather).
//   - Feed the contraction routine in contract.go.
//
// Storage is row-major with the last axis fastest; a rank-0 tensor holds one value.
package tensor

import (
	"fmt"
	"math/cmplx"

	"github.com/cockroachdb/errors"
)

// Tensor is a dense row-major complex tensor.
type Tensor struct {
	shape   []int
	strides []int
	data    []complex128
}

// New allocates a zero tensor of the given shape. An empty shape yields a
// rank-0 tensor holding a single element.
func New(shape ...int) (*Tensor, error) {
	size := 1
	for axis, n := range shape {
		if n <= 0 {
			return nil, errors.Wrapf(ErrBadShape, "New: axis %d has extent %d", axis, n)
		}
		size *= n
	}
	sh := append([]int(nil), shape...)

	return &Tensor{shape: sh, strides: rowMajorStrides(sh), data: make([]complex128, size)}, nil
}

// FromData wraps a copy of data with the given shape.
func FromData(data []complex128, shape ...int) (*Tensor, error) {
	t, err := New(shape...)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, errors.Wrapf(ErrBadShape, "FromData: %d values for shape %v", len(data), shape)
	}
	copy(t.data, data)

	return t, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for axis := len(shape) - 1; axis >= 0; axis-- {
		strides[axis] = acc
		acc *= shape[axis]
	}

	return strides
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int { return len(t.shape) }

// Size returns the number of elements.
func (t *Tensor) Size() int { return len(t.data) }

// Shape returns a copy of the extents.
func (t *Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// Dim returns the extent of one axis (0 for an invalid axis).
func (t *Tensor) Dim(axis int) int {
	if axis < 0 || axis >= len(t.shape) {
		return 0
	}

	return t.shape[axis]
}

func (t *Tensor) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, errors.Wrapf(ErrOutOfRange, "%d indices for rank %d", len(idx), len(t.shape))
	}
	off := 0
	for axis, i := range idx {
		if i < 0 || i >= t.shape[axis] {
			return 0, errors.Wrapf(ErrOutOfRange, "index %d on axis %d of extent %d", i, axis, t.shape[axis])
		}
		off += i * t.strides[axis]
	}

	return off, nil
}

// At returns the element at idx.
func (t *Tensor) At(idx ...int) (complex128, error) {
	off, err := t.offset(idx)
	if err != nil {
		return 0, err
	}

	return t.data[off], nil
}

// Set writes v at idx.
func (t *Tensor) Set(v complex128, idx ...int) error {
	off, err := t.offset(idx)
	if err != nil {
		return err
	}
	t.data[off] = v

	return nil
}

// Data returns a copy of the row-major buffer.
func (t *Tensor) Data() []complex128 { return append([]complex128(nil), t.data...) }

// Real returns the real parts of the row-major buffer.
func (t *Tensor) Real() []float64 {
	out := make([]float64, len(t.data))
	for k, v := range t.data {
		out[k] = real(v)
	}

	return out
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
		data:    append([]complex128(nil), t.data...),
	}
}

// IsFinite reports whether every element is finite.
func (t *Tensor) IsFinite() bool {
	for _, v := range t.data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}

	return true
}

// Block returns the diagonal band block t[lo:hi, lo:hi, ...] as a new tensor.
// The first two axes must be square band axes.
func (t *Tensor) Block(lo, hi int) (*Tensor, error) {
	if t == nil {
		return nil, ErrNilTensor
	}
	if lo < 0 || hi <= lo || len(t.shape) < 2 || hi > t.shape[0] || hi > t.shape[1] {
		return nil, errors.Wrapf(ErrOutOfRange, "Block[%d:%d] of shape %v", lo, hi, t.shape)
	}
	idx := make([]int, hi-lo)
	for k := range idx {
		idx[k] = lo + k
	}

	return t.Gather(idx, idx)
}

// Gather returns t[rows][:, cols][...] for explicit band index lists,
// keeping every trailing axis.
func (t *Tensor) Gather(rows, cols []int) (*Tensor, error) {
	if t == nil {
		return nil, ErrNilTensor
	}
	if len(t.shape) < 2 {
		return nil, errors.Wrapf(ErrDimensionMismatch, "Gather on rank %d", len(t.shape))
	}
	if len(rows) == 0 || len(cols) == 0 {
		return nil, errors.Wrap(ErrBadShape, "Gather: empty index list")
	}
	for _, r := range rows {
		if r < 0 || r >= t.shape[0] {
			return nil, errors.Wrapf(ErrOutOfRange, "Gather: row %d", r)
		}
	}
	for _, c := range cols {
		if c < 0 || c >= t.shape[1] {
			return nil, errors.Wrapf(ErrOutOfRange, "Gather: col %d", c)
		}
	}

	shape := append([]int{len(rows), len(cols)}, t.shape[2:]...)
	out, err := New(shape...)
	if err != nil {
		return nil, err
	}
	inner := t.strides[1] // elements in one trailing Cartesian sub-block
	pos := 0
	for _, r := range rows {
		for _, c := range cols {
			src := r*t.strides[0] + c*t.strides[1]
			copy(out.data[pos:pos+inner], t.data[src:src+inner])
			pos += inner
		}
	}

	return out, nil
}

// String renders shape and data, mostly for test diagnostics.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
}
