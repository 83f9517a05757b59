// SPDX-License-Identifier: MIT

package nonabelian

import (
	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/tensor"
)

// Data is the electronic-structure provider consumed by Compute.
//
// Band matrices are (nb, nb, 3) tensors in the eigenbasis of k-point ik,
// with nb = len(Energies(ik)). Curvature and Morb return one
// (size, size, 3) block per requested group, already restricted to it.
// Implementations must be safe for concurrent reads when Compute runs with
// more than one worker.
type Data interface {
	// NumK returns the number of k-points held by the provider.
	NumK() int
	// NKFFTTot returns the full grid size used for normalization.
	NKFFTTot() int
	// CellVolume returns the real-space unit-cell volume.
	CellVolume() float64
	// Energies returns the ascending band energies at ik.
	Energies(ik int) ([]float64, error)
	// Degen groups the bands of every k-point for the window and threshold.
	Degen(emin, emax, thresh float64) ([][]degen.Group, error)

	Spin(ik int) (*tensor.Tensor, error)
	Velocity(ik int) (*tensor.Tensor, error)
	Curvature(ik int, groups []degen.Group) ([]*tensor.Tensor, error)
	Morb(ik int, groups []degen.Group) ([]*tensor.Tensor, error)
}

// ReferenceData extends Data with the Wannier-gauge internal terms that the
// sum-over-states orbital moment (MorbSumOverStates) needs. Each is an
// (nb, nb, 3) tensor in the eigenbasis of ik.
type ReferenceData interface {
	Data
	// BerryConnectionInternal returns the internal Berry connection A.
	BerryConnectionInternal(ik int) (*tensor.Tensor, error)
	// CurvatureInternal returns the internal Berry curvature Ω.
	CurvatureInternal(ik int) (*tensor.Tensor, error)
	// MorbCorrection returns the orbital-moment C term.
	MorbCorrection(ik int) (*tensor.Tensor, error)
}
