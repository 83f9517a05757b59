// SPDX-License-Identifier: MIT

package tensor

import "github.com/cockroachdb/errors"

var (
	// ErrBadShape is returned when a requested shape has a non-positive extent
	// or the data length does not match the shape.
	ErrBadShape = errors.New("tensor: invalid shape")

	// ErrOutOfRange indicates an index outside the tensor's extents.
	ErrOutOfRange = errors.New("tensor: index out of range")

	// ErrNilTensor indicates a nil *Tensor receiver or operand.
	ErrNilTensor = errors.New("tensor: nil tensor")

	// ErrDimensionMismatch indicates operand ranks or extents incompatible with
	// the contraction expression (or with each other for a shared label).
	ErrDimensionMismatch = errors.New("tensor: dimension mismatch")

	// ErrBadExpr indicates a malformed contraction expression.
	ErrBadExpr = errors.New("tensor: malformed contraction expression")
)
