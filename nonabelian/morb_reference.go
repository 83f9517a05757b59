// SPDX-License-Identifier: MIT

package nonabelian

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/result"
	"github.com/katalvlaran/kspace/tensor"
)

// alphaA and betaA pair each Cartesian component γ with the two directions
// of its cross product: (y,z) for x, (z,x) for y, (x,y) for z.
var (
	alphaA = [result.CartDim]int{1, 2, 0}
	betaA  = [result.CartDim]int{2, 0, 1}
)

// morbSumOverStates rebuilds the orbital-moment blocks from the band
// velocity and the internal Wannier-gauge terms instead of reading the
// provider's precomputed Morb.
//
// For a group G with mean energy Ē and complement bands l:
//
//	X^γ_mn = Σ_l −i·V^α_ml·V^β_ln / (E_l − Ē) + V^α_ml·A^β_ln − A^α_ml·V^β_ln
//	M^γ    = X^γ + (X^γ)† + C^γ|_G − Ē·Ω^γ|_G
//
// where A, Ω and C are the internal connection, curvature and correction.
// A single-group k-point with no complement bands yields C − Ē·Ω only.
// A complement band within gapTol of Ē fails with ErrGapClosed.
//
// Complexity: O(groups · size² · nb) per k-point.
func morbSumOverStates(gapTol float64) extractor {
	return func(d Data, ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
		return sumOverStates(d, ik, groups, gapTol)
	}
}

func sumOverStates(d Data, ik int, groups []degen.Group, gapTol float64) ([]*tensor.Tensor, error) {
	ref, ok := d.(ReferenceData)
	if !ok {
		return nil, errors.Wrapf(ErrShapeMismatch, "morb at k=%d: provider has no internal terms for %s", ik, MorbSumOverStates)
	}

	vel, err := bandMatrix("vel", d, ik, d.Velocity)
	if err != nil {
		return nil, err
	}
	aInt, err := bandMatrix("berry connection", d, ik, ref.BerryConnectionInternal)
	if err != nil {
		return nil, err
	}
	oInt, err := bandMatrix("internal curvature", d, ik, ref.CurvatureInternal)
	if err != nil {
		return nil, err
	}
	cInt, err := bandMatrix("morb correction", d, ik, ref.MorbCorrection)
	if err != nil {
		return nil, err
	}
	energies, err := d.Energies(ik)
	if err != nil {
		return nil, markf(err, ErrShapeMismatch, "energies at k=%d", ik)
	}

	nb := len(energies)
	v, a, o, c := vel.Data(), aInt.Data(), oInt.Data(), cInt.Data()
	at := func(m, n, x int) int { return (m*nb+n)*result.CartDim + x }

	out := make([]*tensor.Tensor, len(groups))
	for ig, g := range groups {
		size := g.Size()
		comp := g.Complement(nb)
		inv := make([]complex128, len(comp))
		for j, l := range comp {
			de := energies[l] - g.E
			if math.Abs(de) < gapTol {
				return nil, errors.Wrapf(ErrGapClosed, "morb at k=%d: band %d at %g, group [%d,%d) at %g",
					ik, l, energies[l], g.Lo, g.Hi, g.E)
			}
			inv[j] = complex(1/de, 0)
		}
		x := make([]complex128, size*size*result.CartDim)
		xAt := func(m, n, gam int) int { return (m*size+n)*result.CartDim + gam }

		for gam := 0; gam < result.CartDim; gam++ {
			al, be := alphaA[gam], betaA[gam]
			for m := 0; m < size; m++ {
				for n := 0; n < size; n++ {
					bm, bn := g.Lo+m, g.Lo+n
					var s complex128
					for j, l := range comp {
						s += -1i * v[at(bm, l, al)] * v[at(l, bn, be)] * inv[j]
						s += v[at(bm, l, al)]*a[at(l, bn, be)] - a[at(bm, l, al)]*v[at(l, bn, be)]
					}
					x[xAt(m, n, gam)] = s
				}
			}
		}

		blk := make([]complex128, len(x))
		for m := 0; m < size; m++ {
			for n := 0; n < size; n++ {
				bm, bn := g.Lo+m, g.Lo+n
				for gam := 0; gam < result.CartDim; gam++ {
					herm := x[xAt(n, m, gam)]
					blk[xAt(m, n, gam)] = x[xAt(m, n, gam)] + complex(real(herm), -imag(herm)) +
						c[at(bm, bn, gam)] - complex(g.E, 0)*o[at(bm, bn, gam)]
				}
			}
		}
		if out[ig], err = tensor.FromData(blk, size, size, result.CartDim); err != nil {
			return nil, markf(err, ErrShapeMismatch, "morb at k=%d group %d", ik, ig)
		}
	}

	return out, nil
}
