// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All kernels return these sentinels (optionally wrapped with an operation
// tag) and tests match them via errors.Is. Kernels never panic on
// user-triggered conditions.

package matrix

import "github.com/cockroachdb/errors"

// Every message is prefixed with "matrix: ..." for easy grepping across logs.
// Wrap with matrixErrorf at the detection site; callers keep using errors.Is.
var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., Add of different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Dense (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNaNInf signals a NaN or ±Inf component where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNotHermitian signals that a matrix expected to be Hermitian violated
	// A[i,j] == conj(A[j,i]) beyond the tolerance.
	ErrNotHermitian = errors.New("matrix: matrix is not Hermitian within tol")

	// ErrEigenFailed indicates that the Jacobi sweeps did not converge within
	// the configured iteration budget.
	ErrEigenFailed = errors.New("matrix: eigen decomposition failed")
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel for errors.Is.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return errors.Wrap(err, tag)
}
