// SPDX-License-Identifier: MIT

package matrix

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"
)

const opEigen = "EigenHermitian"

// EigenHermitian diagonalizes a Hermitian matrix with complex Jacobi rotations.
// It returns the eigenvalues in ascending order and the unitary U whose
// column k is the eigenvector of eigenvalue k, so that U†·m·U is diagonal.
//
// Implementation:
//   - Stage 1: ValidateHermitian within hermTol·max|m|; symmetrize the working copy
//     so that round-off on input does not leak into the rotations.
//   - Stage 2: repeatedly pick (p,q) with the largest |A[p,q]| in i→j order,
//     rotate the phase of column q so A[p,q] becomes real, then apply the real
//     Jacobi rotation that annihilates it.
//   - Stage 3: sort eigenpairs by eigenvalue (stable, so equal values keep the
//     order in which the sweeps produced them).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNotHermitian,
//     ErrEigenFailed (largest off-diagonal still above tol after the budget).
//
// Determinism:
//   - Fixed pivot scan and update order produce identical output for identical input.
//
// Complexity:
//   - Time O(budget·n), Space O(n²).
//
// Notes:
//   - Eigenvectors within a degenerate eigenspace are an arbitrary orthonormal
//     basis; downstream quantities must be gauge covariant (traces, blocks).
func EigenHermitian(m *Dense, opts ...Option) ([]float64, *Dense, error) {
	o := gatherOptions(opts...)
	if err := ValidateNotNil(m); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	scale := m.maxAbs()
	if err := ValidateHermitian(m, o.hermTol*math.Max(1, scale)); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	n := m.r
	a := m.Clone()
	var i, j int
	for i = 0; i < n; i++ {
		a.data[i*n+i] = complex(real(a.data[i*n+i]), 0)
		for j = i + 1; j < n; j++ {
			v := (a.data[i*n+j] + cmplx.Conj(a.data[j*n+i])) / 2
			a.data[i*n+j], a.data[j*n+i] = v, cmplx.Conj(v)
		}
	}
	u, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	thresh := o.tol * scale
	budget := o.maxRotations * n * n
	var (
		p, q               int
		maxOff, off, r     float64
		app, aqq           float64
		theta, t, c, s     float64
		phase, conjPhase   complex128
		aip, aiq, uip, uiq complex128
	)
	for iter := 0; iter < budget; iter++ {
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = cmplx.Abs(a.data[i*n+j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff <= thresh {
			break
		}

		// Make A[p,q] real and positive: A ← D†AD with D[q,q] = e^{-iφ}.
		r = maxOff
		phase = a.data[p*n+q] / complex(r, 0)
		conjPhase = cmplx.Conj(phase)
		for i = 0; i < n; i++ {
			a.data[i*n+q] *= conjPhase
			u.data[i*n+q] *= conjPhase
		}
		for j = 0; j < n; j++ {
			a.data[q*n+j] *= phase
		}

		app = real(a.data[p*n+p])
		aqq = real(a.data[q*n+q])
		// θ = (aqq−app)/(2·apq), t = sign(θ)/(|θ|+√(θ²+1))
		theta = (aqq - app) / (2 * r)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip = a.data[i*n+p]
			aiq = a.data[i*n+q]
			aip, aiq = complex(c, 0)*aip-complex(s, 0)*aiq, complex(s, 0)*aip+complex(c, 0)*aiq
			a.data[i*n+p], a.data[p*n+i] = aip, cmplx.Conj(aip)
			a.data[i*n+q], a.data[q*n+i] = aiq, cmplx.Conj(aiq)
		}
		a.data[p*n+p] = complex(c*c*app-2*c*s*r+s*s*aqq, 0)
		a.data[q*n+q] = complex(s*s*app+2*c*s*r+c*c*aqq, 0)
		a.data[p*n+q], a.data[q*n+p] = 0, 0

		for i = 0; i < n; i++ {
			uip = u.data[i*n+p]
			uiq = u.data[i*n+q]
			u.data[i*n+p] = complex(c, 0)*uip - complex(s, 0)*uiq
			u.data[i*n+q] = complex(s, 0)*uip + complex(c, 0)*uiq
		}
	}

	// Final convergence check over the whole strict upper triangle.
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if cmplx.Abs(a.data[i*n+j]) > thresh {
				return nil, nil, matrixErrorf(opEigen, ErrEigenFailed)
			}
		}
	}

	order := make([]int, n)
	for i = range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return cmp.Compare(real(a.data[x*n+x]), real(a.data[y*n+y]))
	})

	eigs := make([]float64, n)
	vecs, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for k, src := range order {
		eigs[k] = real(a.data[src*n+src])
		for i = 0; i < n; i++ {
			vecs.data[i*n+k] = u.data[i*n+src]
		}
	}

	return eigs, vecs, nil
}
