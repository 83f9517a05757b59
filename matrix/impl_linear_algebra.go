// SPDX-License-Identifier: MIT
// Package matrix provides the element-wise and product kernels on *Dense.
// All functions perform strict fail-fast validation and return fresh
// matrices; operands are never mutated.
//
// Notes:
//   - All kernels use the central validators and wrap failures with an op tag.

package matrix

import (
	"math"
	"math/cmplx"
)

// Operation name constants for unified error wrapping.
const (
	opAdd      = "Add"
	opSub      = "Sub"
	opScale    = "Scale"
	opMul      = "Mul"
	opAdjoint  = "ConjTranspose"
	opKron     = "Kron"
	opTrace    = "Trace"
	opAllClose = "AllClose"
)

// addSub computes element-wise out = a + sign*b for sign ∈ {+1, -1}.
// Internal helper for Add/Sub to share validation and allocation.
//
// Determinism:
//   - Single flat slice walk 0..(r*c−1).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func addSub(a, b *Dense, sign complex128, opTag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	out, err := NewDense(a.r, a.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for k := range out.data {
		out.data[k] = a.data[k] + sign*b.data[k]
	}

	return out, nil
}

// Add returns a + b. Complexity: O(r*c).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, 1, opAdd) }

// Sub returns a − b. Complexity: O(r*c).
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Scale returns alpha·m. Complexity: O(r*c).
func Scale(m *Dense, alpha complex128) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out := m.Clone()
	for k := range out.data {
		out.data[k] *= alpha
	}

	return out, nil
}

// Mul computes the matrix product a×b.
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b); allocate r×c result.
//   - Stage 2: i→k→j loop order so the inner loop walks contiguous rows of b and out.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, k, j int
		aik     complex128
		rowOut  []complex128
		rowB    []complex128
	)
	for i = 0; i < a.r; i++ {
		rowOut = out.data[i*b.c : (i+1)*b.c]
		for k = 0; k < a.c; k++ {
			aik = a.data[i*a.c+k]
			if aik == 0 {
				continue // sparse Γ-matrices make this skip worthwhile
			}
			rowB = b.data[k*b.c : (k+1)*b.c]
			for j = 0; j < b.c; j++ {
				rowOut[j] += aik * rowB[j]
			}
		}
	}

	return out, nil
}

// ConjTranspose returns the Hermitian adjoint m† (m†[j,i] = conj(m[i,j])).
// Complexity: O(r*c).
func ConjTranspose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opAdjoint, err)
	}
	out, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opAdjoint, err)
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.data[j*m.r+i] = cmplx.Conj(m.data[i*m.c+j])
		}
	}

	return out, nil
}

// Sandwich returns u† · m · u, the change of basis used to rotate operators
// into the eigenbasis. Complexity: O(n³).
func Sandwich(u, m *Dense) (*Dense, error) {
	ud, err := ConjTranspose(u)
	if err != nil {
		return nil, err
	}
	tmp, err := Mul(ud, m)
	if err != nil {
		return nil, err
	}

	return Mul(tmp, u)
}

// Kron returns the Kronecker product a⊗b of shape (a.r*b.r)×(a.c*b.c).
// Complexity: O(a.r*a.c*b.r*b.c).
func Kron(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opKron, ErrNilMatrix)
	}
	out, err := NewDense(a.r*b.r, a.c*b.c)
	if err != nil {
		return nil, matrixErrorf(opKron, err)
	}
	cols := out.c
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			aij := a.data[i*a.c+j]
			if aij == 0 {
				continue
			}
			for p := 0; p < b.r; p++ {
				for q := 0; q < b.c; q++ {
					out.data[(i*b.r+p)*cols+j*b.c+q] = aij * b.data[p*b.c+q]
				}
			}
		}
	}

	return out, nil
}

// Trace returns Σ_i m[i,i] of a square matrix. Complexity: O(n).
func Trace(m *Dense) (complex128, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	var tr complex128
	for i := 0; i < m.r; i++ {
		tr += m.data[i*m.c+i]
	}

	return tr, nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Negative tolerances are normalized to their absolute value.
//
// Errors: ErrNaNInf for non-finite tolerances, ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	for k := range a.data {
		if cmplx.Abs(a.data[k]-b.data[k]) > atol+rtol*cmplx.Abs(b.data[k]) {
			return false, nil // early-exit on first violation
		}
	}

	return true, nil
}
