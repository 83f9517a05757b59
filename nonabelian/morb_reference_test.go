// SPDX-License-Identifier: MIT

package nonabelian_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kspace/model"
	"github.com/katalvlaran/kspace/nonabelian"
	"github.com/katalvlaran/kspace/tensor"
)

var sumOverStates = nonabelian.WithMorbMode(nonabelian.MorbSumOverStates)

func TestSumOverStates_SingleBandIsCorrectionOnly(t *testing.T) {
	// one band at Ē = 0.5: no complement, so M = C − Ē·Ω
	d := &refStub{
		stubData: &stubData{
			nkTot: 1, volume: 1,
			energies: [][]float64{{0.5}},
			vel:      []*tensor.Tensor{diagBands(t, [3]float64{7, 8, 9})},
			morb:     []*tensor.Tensor{diagBands(t, [3]float64{100, 100, 100})},
		},
		conn: []*tensor.Tensor{bandTensor(t, 1)},
		ocrv: []*tensor.Tensor{bandTensor(t, 1, bandEntry{0, 0, [3]complex128{4, 5, 6}})},
		corr: []*tensor.Tensor{bandTensor(t, 1, bandEntry{0, 0, [3]complex128{1, 2, 3}})},
	}
	const dE = 0.25
	res, err := nonabelian.Compute(d, grid(0, dE, 5), []nonabelian.Quantity{nonabelian.Morb}, sumOverStates)
	require.NoError(t, err)

	want := [3]float64{1 - 0.5*4, 2 - 0.5*5, 3 - 0.5*6}
	for a, w := range want {
		require.InDelta(t, w/dE, mustAt(t, res, 2, a), 1e-12, "axis %d", a)
	}
}

func TestSumOverStates_TwoBands(t *testing.T) {
	// bands at 0 and 1 coupled by real symmetric V^x = 1, V^y = 2 and
	// internal A^x = 5, A^y = 3. For γ = z (α = x, β = y) each group gets
	//   X = −i·V^x·V^y/(E_l − Ē) + V^x·A^y − A^x·V^y = ∓2i + 3 − 10,
	//   X + X† = −14,
	// and band 1 adds C − Ē·Ω = 1 − 1·2.
	v := [3]complex128{1, 2, 0}
	a := [3]complex128{5, 3, 0}
	d := &refStub{
		stubData: &stubData{
			nkTot: 1, volume: 1,
			energies: [][]float64{{0, 1}},
			vel:      []*tensor.Tensor{bandTensor(t, 2, bandEntry{0, 1, v}, bandEntry{1, 0, v})},
		},
		conn: []*tensor.Tensor{bandTensor(t, 2, bandEntry{0, 1, a}, bandEntry{1, 0, a})},
		ocrv: []*tensor.Tensor{bandTensor(t, 2, bandEntry{1, 1, [3]complex128{0, 0, 2}})},
		corr: []*tensor.Tensor{bandTensor(t, 2, bandEntry{1, 1, [3]complex128{0, 0, 1}})},
	}
	const dE = 0.25
	res, err := nonabelian.Compute(d, grid(0, dE, 5), []nonabelian.Quantity{nonabelian.Morb}, sumOverStates)
	require.NoError(t, err)

	require.InDelta(t, -14/dE, mustAt(t, res, 0, 2), 1e-12)
	require.InDelta(t, -15/dE, mustAt(t, res, 4, 2), 1e-12)
	for _, ie := range []int{0, 4} {
		require.InDelta(t, 0, mustAt(t, res, ie, 0), 1e-12)
		require.InDelta(t, 0, mustAt(t, res, ie, 1), 1e-12)
	}
	require.InDelta(t, 0, mustAt(t, res, 2, 2), 1e-12)
}

func TestSumOverStates_GapClosed(t *testing.T) {
	split := nonabelian.WithDegenThreshold(-1)
	morb := []nonabelian.Quantity{nonabelian.Morb}
	stub := func(energies ...float64) *refStub {
		nb := len(energies)
		zero := []*tensor.Tensor{bandTensor(t, nb)}
		return &refStub{
			stubData: &stubData{nkTot: 1, volume: 1, energies: [][]float64{energies}, vel: zero},
			conn:     zero, ocrv: zero, corr: zero,
		}
	}

	_, err := nonabelian.Compute(stub(0, 0), grid(0, 0.25, 5), morb, sumOverStates, split)
	require.True(t, errors.Is(err, nonabelian.ErrGapClosed), "got %v", err)

	res, err := nonabelian.Compute(stub(0, 1e-6), grid(0, 0.25, 5), morb, sumOverStates, split)
	require.NoError(t, err)
	require.Zero(t, res.MaxAbs())

	_, err = nonabelian.Compute(stub(0, 1e-6), grid(0, 0.25, 5), morb, sumOverStates, split,
		nonabelian.WithGapTolerance(1e-3))
	require.True(t, errors.Is(err, nonabelian.ErrGapClosed), "got %v", err)
}

func TestCompute_SplitKramersPairFailsOnBothMorbPaths(t *testing.T) {
	md := diracModel(t)
	morb := []nonabelian.Quantity{nonabelian.Morb}
	split := nonabelian.WithDegenThreshold(-1)

	_, err := nonabelian.Compute(md, wideGrid(), morb, split)
	require.True(t, errors.Is(err, model.ErrGapClosed), "got %v", err)
	require.True(t, errors.Is(err, nonabelian.ErrShapeMismatch), "got %v", err)

	_, err = nonabelian.Compute(md, wideGrid(), morb, split, sumOverStates)
	require.True(t, errors.Is(err, nonabelian.ErrGapClosed), "got %v", err)
}
