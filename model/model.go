// SPDX-License-Identifier: MIT

package model

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/matrix"
	"github.com/katalvlaran/kspace/tensor"
)

const cart = 3

// Model holds the diagonalized Hamiltonian on a uniform k-mesh.
type Model struct {
	mesh   [3]int
	volume float64
	gapTol float64
	nb     int

	kpts     [][3]float64
	energies [][]float64
	vel      []*tensor.Tensor // (nb, nb, 3) in the eigenbasis
	spin     []*tensor.Tensor // (nb, nb, 3) in the eigenbasis
}

// New samples h on an n[0]×n[1]×n[2] mesh and diagonalizes every k-point.
//
// Implementation:
//   - Stage 1: build Cartesian k = 2π·(i + shift)/n per axis, z fastest.
//   - Stage 2: per k, EigenHermitian(H(k)) → (E, U); rotate ∂H/∂k_a and the
//     spin operators with U†·X·U. With WithWorkers(n) k-points are split into
//     contiguous chunks, each writing only its own slots.
//
// Errors:
//   - ErrBadMesh, ErrHamiltonian, and any matrix.EigenHermitian error.
func New(h Hamiltonian, n [3]int, opts ...Option) (*Model, error) {
	o := gatherOptions(opts...)
	if h == nil {
		return nil, errors.Wrap(ErrHamiltonian, "nil Hamiltonian")
	}
	for a, na := range n {
		if na <= 0 {
			return nil, errors.Wrapf(ErrBadMesh, "axis %d has %d points", a, na)
		}
	}
	spinOps, err := h.Spin()
	if err != nil {
		return nil, errors.Wrap(err, "spin operators")
	}

	nk := n[0] * n[1] * n[2]
	md := &Model{
		mesh:     n,
		volume:   o.volume,
		gapTol:   o.gapTol,
		nb:       h.Dim(),
		kpts:     make([][3]float64, nk),
		energies: make([][]float64, nk),
		vel:      make([]*tensor.Tensor, nk),
		spin:     make([]*tensor.Tensor, nk),
	}
	for i := 0; i < n[0]; i++ {
		for j := 0; j < n[1]; j++ {
			for l := 0; l < n[2]; l++ {
				ik := (i*n[1]+j)*n[2] + l
				md.kpts[ik] = [3]float64{
					2 * math.Pi * (float64(i) + o.shift[0]) / float64(n[0]),
					2 * math.Pi * (float64(j) + o.shift[1]) / float64(n[1]),
					2 * math.Pi * (float64(l) + o.shift[2]) / float64(n[2]),
				}
			}
		}
	}

	start := time.Now()
	workers := min(o.workers, nk)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*nk/workers, (w+1)*nk/workers
		eg.Go(func() error {
			for ik := lo; ik < hi; ik++ {
				if err := md.diagonalize(h, ik, spinOps, o.eigen); err != nil {
					return errors.Wrapf(err, "k-point %d %v", ik, md.kpts[ik])
				}
			}

			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}
	o.logger.Debug("model: diagonalized",
		zap.Ints("mesh", n[:]),
		zap.Int("bands", md.nb),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)),
	)

	return md, nil
}

func (md *Model) diagonalize(h Hamiltonian, ik int, spinOps [3]*matrix.Dense, eig []matrix.Option) error {
	k := md.kpts[ik]
	hk, err := h.H(k)
	if err != nil {
		return err
	}
	if hk.Rows() != md.nb || hk.Cols() != md.nb {
		return errors.Wrapf(ErrHamiltonian, "H(k) is %dx%d, want %dx%d", hk.Rows(), hk.Cols(), md.nb, md.nb)
	}
	e, u, err := matrix.EigenHermitian(hk, eig...)
	if err != nil {
		return err
	}
	dh, err := h.DH(k)
	if err != nil {
		return err
	}
	if md.vel[ik], err = rotate(u, dh, md.nb); err != nil {
		return err
	}
	if md.spin[ik], err = rotate(u, spinOps, md.nb); err != nil {
		return err
	}
	md.energies[ik] = e

	return nil
}

// rotate packs U†·ops[a]·U into one (nb, nb, 3) tensor.
func rotate(u *matrix.Dense, ops [3]*matrix.Dense, nb int) (*tensor.Tensor, error) {
	data := make([]complex128, nb*nb*cart)
	for a, op := range ops {
		if op == nil || op.Rows() != nb || op.Cols() != nb {
			return nil, errors.Wrapf(ErrHamiltonian, "operator %d has the wrong size", a)
		}
		r, err := matrix.Sandwich(u, op)
		if err != nil {
			return nil, err
		}
		for m := 0; m < nb; m++ {
			row, err := r.Row(m)
			if err != nil {
				return nil, err
			}
			for n, v := range row {
				data[(m*nb+n)*cart+a] = v
			}
		}
	}

	return tensor.FromData(data, nb, nb, cart)
}

// NumK returns the number of mesh points.
func (md *Model) NumK() int { return len(md.kpts) }

// NKFFTTot returns the full mesh size; the mesh is never reduced by symmetry.
func (md *Model) NKFFTTot() int { return len(md.kpts) }

// CellVolume returns the real-space cell volume.
func (md *Model) CellVolume() float64 { return md.volume }

// NumBands returns the number of bands.
func (md *Model) NumBands() int { return md.nb }

// Mesh returns the mesh extents.
func (md *Model) Mesh() [3]int { return md.mesh }

// KPoint returns the Cartesian k of mesh point ik.
func (md *Model) KPoint(ik int) ([3]float64, error) {
	if err := md.check(ik); err != nil {
		return [3]float64{}, err
	}

	return md.kpts[ik], nil
}

func (md *Model) check(ik int) error {
	if ik < 0 || ik >= len(md.kpts) {
		return errors.Wrapf(ErrKPoint, "%d not in [0, %d)", ik, len(md.kpts))
	}

	return nil
}

// Energies returns a copy of the ascending band energies at ik.
func (md *Model) Energies(ik int) ([]float64, error) {
	if err := md.check(ik); err != nil {
		return nil, err
	}

	return append([]float64(nil), md.energies[ik]...), nil
}

// Degen groups the bands of every k-point with degen.Find.
func (md *Model) Degen(emin, emax, thresh float64) ([][]degen.Group, error) {
	out := make([][]degen.Group, len(md.energies))
	for ik, e := range md.energies {
		g, err := degen.Find(e, emin, emax, thresh)
		if err != nil {
			return nil, errors.Wrapf(err, "k-point %d", ik)
		}
		out[ik] = g
	}

	return out, nil
}

// Spin returns the spin matrix at ik in the eigenbasis.
func (md *Model) Spin(ik int) (*tensor.Tensor, error) {
	if err := md.check(ik); err != nil {
		return nil, err
	}

	return md.spin[ik].Clone(), nil
}

// Velocity returns ∂H/∂k at ik in the eigenbasis.
func (md *Model) Velocity(ik int) (*tensor.Tensor, error) {
	if err := md.check(ik); err != nil {
		return nil, err
	}

	return md.vel[ik].Clone(), nil
}

// BerryConnectionInternal is zero for point-like orbitals.
func (md *Model) BerryConnectionInternal(ik int) (*tensor.Tensor, error) { return md.zero(ik) }

// CurvatureInternal is zero for point-like orbitals.
func (md *Model) CurvatureInternal(ik int) (*tensor.Tensor, error) { return md.zero(ik) }

// MorbCorrection is zero for point-like orbitals.
func (md *Model) MorbCorrection(ik int) (*tensor.Tensor, error) { return md.zero(ik) }

func (md *Model) zero(ik int) (*tensor.Tensor, error) {
	if err := md.check(ik); err != nil {
		return nil, err
	}

	return tensor.New(md.nb, md.nb, cart)
}
