// SPDX-License-Identifier: MIT

// Package degen partitions the bands of one k-point into contiguous
// degenerate groups.
//
// Bands are assumed sorted by energy. A new group starts wherever the gap
// between consecutive bands exceeds the threshold, so a group is a chain of
// near-equal energies. Groups whose mean energy falls outside [emin, emax]
// are dropped.
package degen

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ErrUnsorted is returned when band energies are not in ascending order.
var ErrUnsorted = errors.New("degen: band energies are not sorted")

// Group is the half-open band interval [Lo, Hi) with mean energy E.
type Group struct {
	Lo int     `yaml:"lo" json:"lo"`
	Hi int     `yaml:"hi" json:"hi"`
	E  float64 `yaml:"e" json:"e"`
}

// Size returns the number of bands in the group.
func (g Group) Size() int { return g.Hi - g.Lo }

// Bands returns the band indices of the group in ascending order.
func (g Group) Bands() []int {
	out := make([]int, 0, g.Size())
	for ib := g.Lo; ib < g.Hi; ib++ {
		out = append(out, ib)
	}

	return out
}

// Complement returns every band index in [0, nb) outside the group.
func (g Group) Complement(nb int) []int {
	out := make([]int, 0, nb-g.Size())
	for ib := 0; ib < nb; ib++ {
		if ib < g.Lo || ib >= g.Hi {
			out = append(out, ib)
		}
	}

	return out
}

// Find groups the sorted energies of one k-point.
// A negative thresh disables grouping (every band stands alone);
// emin may be -Inf to keep everything below emax.
func Find(energies []float64, emin, emax, thresh float64) ([]Group, error) {
	for ib := 1; ib < len(energies); ib++ {
		if energies[ib] < energies[ib-1] {
			return nil, errors.Wrapf(ErrUnsorted, "band %d: %g < %g", ib, energies[ib], energies[ib-1])
		}
	}

	var groups []Group
	lo := 0
	for ib := 1; ib <= len(energies); ib++ {
		if ib < len(energies) && energies[ib]-energies[ib-1] <= thresh {
			continue
		}
		if e := mean(energies[lo:ib]); e >= emin && e <= emax {
			groups = append(groups, Group{Lo: lo, Hi: ib, E: e})
		}
		lo = ib
	}

	return groups, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var s float64
	for _, x := range xs {
		s += x
	}

	return s / float64(len(xs))
}
