// SPDX-License-Identifier: MIT

package model

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/tensor"
)

// Cyclic partners (α, β) of each Cartesian component γ.
var (
	alphaA = [cart]int{1, 2, 0}
	betaA  = [cart]int{2, 0, 1}
)

// Curvature returns the non-abelian Berry curvature block of every group.
func (md *Model) Curvature(ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	return md.blocks(ik, groups, func(de float64) complex128 { return 1i }, "curvature")
}

// Morb returns the non-abelian orbital-moment block of every group.
func (md *Model) Morb(ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	return md.blocks(ik, groups, func(de float64) complex128 { return complex(0, -de) }, "morb")
}

// blocks evaluates Σ_l w(E_l − Ē)·(A^α_ml·A^β_ln − A^β_ml·A^α_ln) per group,
// with A^a_ml = i·V^a_ml/(E_l − Ē) and A^a_ln = conj(A^a_nl).
func (md *Model) blocks(ik int, groups []degen.Group, w func(de float64) complex128, what string) ([]*tensor.Tensor, error) {
	if err := md.check(ik); err != nil {
		return nil, err
	}
	nb := md.nb
	e := md.energies[ik]
	v := md.vel[ik].Data()
	at := func(m, n, a int) int { return (m*nb+n)*cart + a }

	out := make([]*tensor.Tensor, len(groups))
	for ig, g := range groups {
		if g.Lo < 0 || g.Hi > nb || g.Hi <= g.Lo {
			return nil, errors.Wrapf(ErrKPoint, "%s: group [%d,%d) outside %d bands", what, g.Lo, g.Hi, nb)
		}
		size := g.Size()
		comp := g.Complement(nb)

		// conn[(m*len(comp)+j)*cart+a] = A^a between group band m and complement band comp[j]
		conn := make([]complex128, size*len(comp)*cart)
		weight := make([]complex128, len(comp))
		for j, l := range comp {
			de := e[l] - g.E
			if math.Abs(de) < md.gapTol {
				return nil, errors.Wrapf(ErrGapClosed, "%s at k=%d: band %d at %g, group [%d,%d) at %g",
					what, ik, l, e[l], g.Lo, g.Hi, g.E)
			}
			weight[j] = w(de)
			for m := 0; m < size; m++ {
				for a := 0; a < cart; a++ {
					conn[(m*len(comp)+j)*cart+a] = 1i * v[at(g.Lo+m, l, a)] / complex(de, 0)
				}
			}
		}
		ca := func(m, j, a int) complex128 { return conn[(m*len(comp)+j)*cart+a] }
		// A^a_ln for l ∉ G, n ∈ G
		cb := func(j, n, a int) complex128 {
			z := ca(n, j, a)
			return complex(real(z), -imag(z))
		}

		blk := make([]complex128, size*size*cart)
		for m := 0; m < size; m++ {
			for n := 0; n < size; n++ {
				for gam := 0; gam < cart; gam++ {
					al, be := alphaA[gam], betaA[gam]
					var s complex128
					for j := range comp {
						s += weight[j] * (ca(m, j, al)*cb(j, n, be) - ca(m, j, be)*cb(j, n, al))
					}
					blk[(m*size+n)*cart+gam] = s
				}
			}
		}
		t, err := tensor.FromData(blk, size, size, cart)
		if err != nil {
			return nil, err
		}
		out[ig] = t
	}

	return out, nil
}
