// SPDX-License-Identifier: MIT

// Package matrix provides small dense complex matrices and the Hermitian
// linear algebra needed to diagonalize Bloch Hamiltonians.
//
// The matrix package provides:
//
//   - Dense: a row-major complex128 matrix with error-returning At/Set.
//   - Kernels: Add, Sub, Scale, Mul, ConjTranspose, Kron, Trace, AllClose.
//   - EigenHermitian: a deterministic complex Jacobi eigen-solver that returns
//     eigenvalues in ascending order together with the unitary of eigenvectors.
//
// Matrices here are band-space sized (a handful to a few dozen rows), so the
// kernels favour determinism and clear error surfaces over blocked layouts.
//
// See the model package for the main consumer.
package matrix
