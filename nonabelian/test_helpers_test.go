// SPDX-License-Identifier: MIT
// Package nonabelian_test contains test helpers
//
// Purpose:
//   • stubData: a hand-filled provider whose band matrices are given per k-point.
//   • Builders for diagonal band tensors and uniform grids.

package nonabelian_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kspace/degen"
	"github.com/katalvlaran/kspace/result"
	"github.com/katalvlaran/kspace/tensor"
)

// stubData serves fixed per-k matrices. curv and morb are full (nb, nb, 3)
// tensors whose diagonal blocks are handed out per group.
type stubData struct {
	nkTot    int
	volume   float64
	energies [][]float64
	spin     []*tensor.Tensor
	vel      []*tensor.Tensor
	curv     []*tensor.Tensor
	morb     []*tensor.Tensor

	degenCalls int
}

func (s *stubData) NumK() int           { return len(s.energies) }
func (s *stubData) NKFFTTot() int       { return s.nkTot }
func (s *stubData) CellVolume() float64 { return s.volume }

func (s *stubData) Energies(ik int) ([]float64, error) {
	return append([]float64(nil), s.energies[ik]...), nil
}

func (s *stubData) Degen(emin, emax, thresh float64) ([][]degen.Group, error) {
	s.degenCalls++
	out := make([][]degen.Group, len(s.energies))
	for ik, e := range s.energies {
		g, err := degen.Find(e, emin, emax, thresh)
		if err != nil {
			return nil, err
		}
		out[ik] = g
	}

	return out, nil
}

func pick(ts []*tensor.Tensor, ik int) (*tensor.Tensor, error) {
	if ik >= len(ts) {
		return nil, nil
	}

	return ts[ik], nil
}

func (s *stubData) Spin(ik int) (*tensor.Tensor, error)     { return pick(s.spin, ik) }
func (s *stubData) Velocity(ik int) (*tensor.Tensor, error) { return pick(s.vel, ik) }

func blocksOf(ts []*tensor.Tensor, ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	out := make([]*tensor.Tensor, len(groups))
	for ig, g := range groups {
		b, err := ts[ik].Block(g.Lo, g.Hi)
		if err != nil {
			return nil, err
		}
		out[ig] = b
	}

	return out, nil
}

func (s *stubData) Curvature(ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	return blocksOf(s.curv, ik, groups)
}

func (s *stubData) Morb(ik int, groups []degen.Group) ([]*tensor.Tensor, error) {
	return blocksOf(s.morb, ik, groups)
}

// refStub adds the internal Wannier-gauge terms of nonabelian.ReferenceData
// to stubData. Missing k-points read as nil.
type refStub struct {
	*stubData
	conn []*tensor.Tensor
	ocrv []*tensor.Tensor
	corr []*tensor.Tensor
}

func (r *refStub) BerryConnectionInternal(ik int) (*tensor.Tensor, error) { return pick(r.conn, ik) }
func (r *refStub) CurvatureInternal(ik int) (*tensor.Tensor, error)       { return pick(r.ocrv, ik) }
func (r *refStub) MorbCorrection(ik int) (*tensor.Tensor, error)          { return pick(r.corr, ik) }

// bandEntry is one element [m, n] of an (nb, nb, 3) band tensor.
type bandEntry struct {
	m, n int
	v    [3]complex128
}

// bandTensor builds an (nb, nb, 3) tensor from entries; the rest is zero.
func bandTensor(t testing.TB, nb int, entries ...bandEntry) *tensor.Tensor {
	t.Helper()
	x, err := tensor.New(nb, nb, result.CartDim)
	require.NoError(t, err)
	for _, e := range entries {
		for a, c := range e.v {
			require.NoError(t, x.Set(c, e.m, e.n, a))
		}
	}

	return x
}

// diagBands builds an (nb, nb, 3) tensor with v[b] on the diagonal of band b.
func diagBands(t testing.TB, v ...[3]float64) *tensor.Tensor {
	t.Helper()
	nb := len(v)
	x, err := tensor.New(nb, nb, result.CartDim)
	require.NoError(t, err)
	for b, vb := range v {
		for a, c := range vb {
			require.NoError(t, x.Set(complex(c, 0), b, b, a))
		}
	}

	return x
}

// stubFrom builds a provider whose four quantities share diagonal matrices:
// vals[ik][b] sits on band b of k-point ik. NKFFT and volume are 1.
func stubFrom(t testing.TB, energies [][]float64, vals [][][3]float64) *stubData {
	t.Helper()
	require.Len(t, vals, len(energies))
	s := &stubData{nkTot: 1, volume: 1, energies: energies}
	for ik := range energies {
		require.Len(t, vals[ik], len(energies[ik]))
		s.spin = append(s.spin, diagBands(t, vals[ik]...))
		s.vel = append(s.vel, diagBands(t, vals[ik]...))
		s.curv = append(s.curv, diagBands(t, vals[ik]...))
		s.morb = append(s.morb, diagBands(t, vals[ik]...))
	}

	return s
}

// uniformStub is stubFrom with the same band values at every k-point.
func uniformStub(t testing.TB, energies [][]float64, v ...[3]float64) *stubData {
	t.Helper()
	vals := make([][][3]float64, len(energies))
	for ik := range vals {
		vals[ik] = v
	}

	return stubFrom(t, energies, vals)
}

// grid returns n Fermi levels from e0 with step dE.
func grid(e0, dE float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = e0 + float64(i)*dE
	}

	return out
}

func mustAt(t testing.TB, r *result.EnergyResult, ie int, cart ...int) float64 {
	t.Helper()
	v, err := r.At(ie, cart...)
	require.NoError(t, err)

	return v
}
