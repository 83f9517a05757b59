// SPDX-License-Identifier: MIT

package nonabelian_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/kspace/model"
	"github.com/katalvlaran/kspace/nonabelian"
	"github.com/katalvlaran/kspace/result"
	"github.com/katalvlaran/kspace/tensor"
)

func TestCompute_SurfaceNormalization(t *testing.T) {
	efermi := grid(0, 0.25, 5)
	d := uniformStub(t, [][]float64{{0.51}}, [3]float64{1, 2, 3})

	res, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Spin})
	require.NoError(t, err)
	require.Equal(t, efermi, res.Efermi)
	require.Equal(t, []int{5, 3}, res.Shape())

	bin, err := res.Bin(2)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1 / 0.25, 2 / 0.25, 3 / 0.25}, bin, 1e-12)
	for _, ie := range []int{0, 1, 3, 4} {
		b, err := res.Bin(ie)
		require.NoError(t, err)
		require.Equal(t, []float64{0, 0, 0}, b)
	}
}

func TestCompute_FactorAndVolume(t *testing.T) {
	efermi := grid(0, 0.25, 5)
	d := uniformStub(t, [][]float64{{0.51}}, [3]float64{1, 2, 3})
	d.nkTot, d.volume = 4, 2

	res, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Vel},
		nonabelian.WithFactor(3), nonabelian.WithMode(nonabelian.ModeFermiSea))
	require.NoError(t, err)
	// 0.51 lies below levels 0.75 and 1.0 only
	for ie, want := range []float64{0, 0, 0, 3.0 / 8, 3.0 / 8} {
		require.InDelta(t, want, mustAt(t, res, ie, 0), 1e-12, "level %d", ie)
	}
	require.InDelta(t, 3*3.0/8, mustAt(t, res, 4, 2), 1e-12)
}

func TestCompute_RankPerBin(t *testing.T) {
	d := uniformStub(t, [][]float64{{0.1, 0.6}}, [3]float64{1, 0, 0}, [3]float64{0, 1, 0})
	cases := [][]nonabelian.Quantity{
		{nonabelian.Spin},
		{nonabelian.Curv, nonabelian.Morb},
		{nonabelian.Spin, nonabelian.Vel, nonabelian.Vel},
		{nonabelian.Spin, nonabelian.Spin, nonabelian.Curv, nonabelian.Morb},
	}
	for _, qs := range cases {
		res, err := nonabelian.Compute(d, grid(0, 0.25, 4), qs)
		require.NoError(t, err)
		require.Equal(t, len(qs), res.Rank)
		require.Len(t, res.Shape(), 1+len(qs))
		require.Len(t, res.Data, 4*result.BinSize(len(qs)))
	}
}

func TestCompute_Parity(t *testing.T) {
	d := uniformStub(t, [][]float64{{0.3}}, [3]float64{1, 1, 1})
	cases := []struct {
		names       []string
		trOdd, iOdd bool
	}{
		{[]string{"curv"}, true, false},
		{[]string{"vel", "vel"}, false, false},
		{[]string{"spin", "vel"}, false, true},
		{[]string{"curv", "morb"}, false, false},
		{[]string{"morb", "vel"}, false, true},
		{[]string{"spin", "vel", "vel"}, true, false},
	}
	for _, tc := range cases {
		res, err := nonabelian.ComputeNamed(d, grid(0, 0.25, 3), tc.names)
		require.NoError(t, err)
		require.Equal(t, tc.trOdd, res.TRodd, "%v", tc.names)
		require.Equal(t, tc.iOdd, res.Iodd, "%v", tc.names)
	}
}

func TestCompute_SeaIsCumulativeSurface(t *testing.T) {
	const dE = 0.25
	efermi := grid(0, dE, 5)
	// every group sits a quarter step below a level, so its nearest level is
	// also the first one above it; 2.0 is outside the window
	d := stubFrom(t,
		[][]float64{{0.1875, 0.6875}, {0.4375}, {0.9375, 2.0}},
		[][][3]float64{
			{{1, 2, 3}, {-1, 0.5, 2}},
			{{0.25, -4, 1}},
			{{3, 3, -3}, {100, 100, 100}},
		})

	surf, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Curv})
	require.NoError(t, err)
	sea, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Curv}, nonabelian.WithMode(nonabelian.ModeFermiSea))
	require.NoError(t, err)

	for a := 0; a < 3; a++ {
		var cum float64
		for ie := range efermi {
			cum += mustAt(t, surf, ie, a) * dE
			require.InDelta(t, cum, mustAt(t, sea, ie, a), 1e-12, "level %d axis %d", ie, a)
		}
	}
	require.InDelta(t, 1+0.25+3-1, mustAt(t, sea, 4, 0), 1e-12)
}

func TestCompute_BankersRounding(t *testing.T) {
	efermi := grid(0, 0.25, 5)
	d := stubFrom(t, [][]float64{{0.125}, {0.375}}, [][][3]float64{{{1, 0, 0}}, {{0, 1, 0}}})

	res, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Spin})
	require.NoError(t, err)
	// 0.5 rounds to level 0, 1.5 rounds to level 2
	require.InDelta(t, 4, mustAt(t, res, 0, 0), 1e-12)
	require.InDelta(t, 0, mustAt(t, res, 1, 1), 1e-12)
	require.InDelta(t, 4, mustAt(t, res, 2, 1), 1e-12)
}

func TestCompute_IncludeLower(t *testing.T) {
	efermi := grid(0, 0.25, 5)
	d := stubFrom(t, [][]float64{{-1, 0.6}}, [][][3]float64{{{1, 0, 0}, {0, 1, 0}}})

	plain, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Curv}, nonabelian.WithMode(nonabelian.ModeFermiSea))
	require.NoError(t, err)
	lower, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Curv},
		nonabelian.WithMode(nonabelian.ModeFermiSea), nonabelian.WithIncludeLower(true))
	require.NoError(t, err)

	for ie := range efermi {
		require.InDelta(t, 0, mustAt(t, plain, ie, 0), 1e-12)
		require.InDelta(t, 1, mustAt(t, lower, ie, 0), 1e-12)
		want := 0.0
		if efermi[ie] > 0.6 {
			want = 1
		}
		require.InDelta(t, want, mustAt(t, plain, ie, 1), 1e-12)
		require.InDelta(t, want, mustAt(t, lower, ie, 1), 1e-12)
	}
}

func TestCompute_DegenerateGroupIsOneBlock(t *testing.T) {
	// S^x = [[0,1],[1,0]] on the near-degenerate pair: Tr(S^x·S^x) = 2 only if
	// the pair is kept as one 2×2 block.
	s, err := tensor.New(3, 3, 3)
	require.NoError(t, err)
	require.NoError(t, s.Set(1, 0, 1, 0))
	require.NoError(t, s.Set(1, 1, 0, 0))
	require.NoError(t, s.Set(4, 2, 2, 0))
	d := &stubData{nkTot: 1, volume: 1, energies: [][]float64{{1.0, 1.0 + 1e-6, 5.0}}, spin: []*tensor.Tensor{s}}

	efermi := grid(0.5, 0.5, 10)
	grouped, err := nonabelian.ComputeNamed(d, efermi, []string{"spin", "spin"})
	require.NoError(t, err)
	require.InDelta(t, 2/0.5, mustAt(t, grouped, 1, 0, 0), 1e-12)
	require.InDelta(t, 16/0.5, mustAt(t, grouped, 9, 0, 0), 1e-12)

	split, err := nonabelian.ComputeNamed(d, efermi, []string{"spin", "spin"}, nonabelian.WithDegenThreshold(1e-7))
	require.NoError(t, err)
	require.InDelta(t, 0, mustAt(t, split, 1, 0, 0), 1e-12)
	require.InDelta(t, 16/0.5, mustAt(t, split, 9, 0, 0), 1e-12)
}

func TestCompute_Errors(t *testing.T) {
	efermi := grid(0, 0.25, 5)
	spin := []nonabelian.Quantity{nonabelian.Spin}

	t.Run("unsupported mode", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		_, err := nonabelian.Compute(d, efermi, spin, nonabelian.WithMode("fermi-lake"))
		require.True(t, errors.Is(err, nonabelian.ErrUnsupportedMode))
		require.Contains(t, err.Error(), "fermi-lake")
		require.Zero(t, d.degenCalls, "no provider work before the mode is checked")
	})
	t.Run("subscript rank mismatch", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		_, err := nonabelian.Compute(d, efermi, spin, nonabelian.WithSubscripts("ab->ab"))
		require.True(t, errors.Is(err, nonabelian.ErrConfiguration))
		require.Contains(t, err.Error(), "spin")
		require.Zero(t, d.degenCalls)
	})
	t.Run("unknown quantity", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		_, err := nonabelian.ComputeNamed(d, efermi, []string{"spin", "magnetism"})
		require.True(t, errors.Is(err, nonabelian.ErrShapeMismatch))
		_, err = nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Quantity(9)})
		require.True(t, errors.Is(err, nonabelian.ErrShapeMismatch))
	})
	t.Run("absent provider data", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		d.spin = nil
		_, err := nonabelian.Compute(d, efermi, spin)
		require.True(t, errors.Is(err, nonabelian.ErrShapeMismatch))
	})
	t.Run("malformed provider data", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		bad, err := tensor.New(1, 1, 2)
		require.NoError(t, err)
		d.vel = []*tensor.Tensor{bad}
		_, err = nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Vel})
		require.True(t, errors.Is(err, nonabelian.ErrShapeMismatch))
	})
	t.Run("energy grid", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		for _, g := range [][]float64{nil, {0.1}, {0, 0.1, 0.3}, {0.2, 0.1, 0}, {0, math.NaN()}} {
			_, err := nonabelian.Compute(d, g, spin)
			require.True(t, errors.Is(err, nonabelian.ErrEnergyGrid), "%v", g)
		}
	})
	t.Run("no quantities", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		_, err := nonabelian.Compute(d, efermi, nil)
		require.True(t, errors.Is(err, nonabelian.ErrNoQuantities))
	})
	t.Run("nil data", func(t *testing.T) {
		_, err := nonabelian.Compute(nil, efermi, spin)
		require.True(t, errors.Is(err, nonabelian.ErrNilData))
	})
	t.Run("normalization", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		d.volume = 0
		_, err := nonabelian.Compute(d, efermi, spin)
		require.True(t, errors.Is(err, nonabelian.ErrConfiguration))
	})
	t.Run("morb mode", func(t *testing.T) {
		d := uniformStub(t, [][]float64{{0.5}}, [3]float64{1, 1, 1})
		_, err := nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Morb}, nonabelian.WithMorbMode("exact"))
		require.True(t, errors.Is(err, nonabelian.ErrConfiguration))
		// the stub carries no internal terms
		_, err = nonabelian.Compute(d, efermi, []nonabelian.Quantity{nonabelian.Morb},
			nonabelian.WithMorbMode(nonabelian.MorbSumOverStates))
		require.True(t, errors.Is(err, nonabelian.ErrShapeMismatch))
	})
}

func TestOptions_Panics(t *testing.T) {
	require.Panics(t, func() { nonabelian.WithWorkers(0) })
	require.Panics(t, func() { nonabelian.WithDegenThreshold(math.NaN()) })
	require.Panics(t, func() { nonabelian.WithFactor(math.Inf(1)) })
	require.Panics(t, func() { nonabelian.WithGapTolerance(-1e-3) })
	require.Panics(t, func() { nonabelian.WithGapTolerance(math.NaN()) })
	require.NotPanics(t, func() { nonabelian.WithDegenThreshold(-1) })
	require.NotPanics(t, func() { nonabelian.WithGapTolerance(0) })
}

func TestParseModes(t *testing.T) {
	m, err := nonabelian.ParseMode(" Fermi-Sea ")
	require.NoError(t, err)
	require.Equal(t, nonabelian.ModeFermiSea, m)
	_, err = nonabelian.ParseMode("surface")
	require.True(t, errors.Is(err, nonabelian.ErrUnsupportedMode))

	mm, err := nonabelian.ParseMorbMode("sum-over-states")
	require.NoError(t, err)
	require.Equal(t, nonabelian.MorbSumOverStates, mm)
	_, err = nonabelian.ParseMorbMode("old")
	require.True(t, errors.Is(err, nonabelian.ErrConfiguration))
}

// --- model-backed checks ---

func diracModel(t testing.TB) *model.Model {
	t.Helper()
	md, err := model.New(model.NewDirac(2.5), [3]int{3, 3, 2}, model.WithShift([3]float64{0.1, 0.2, 0.3}))
	require.NoError(t, err)

	return md
}

func weylModel(t testing.TB) *model.Model {
	t.Helper()
	md, err := model.New(model.NewWeyl(3.5), [3]int{3, 3, 3}, model.WithShift([3]float64{0.25, 0.5, 0.1}))
	require.NoError(t, err)

	return md
}

// wideGrid covers every band of the presets used here.
func wideGrid() []float64 { return grid(-7, 0.1, 141) }

func requireSameResult(t *testing.T, a, b *result.EnergyResult, delta float64) {
	t.Helper()
	require.Equal(t, a.Shape(), b.Shape())
	require.Equal(t, a.TRodd, b.TRodd)
	require.Equal(t, a.Iodd, b.Iodd)
	require.InDeltaSlice(t, a.Data, b.Data, delta)
}

func TestCompute_WorkersMatchSerial(t *testing.T) {
	defer goleak.VerifyNone(t)
	md := diracModel(t)
	qs := []nonabelian.Quantity{nonabelian.Curv, nonabelian.Vel}

	serial, err := nonabelian.Compute(md, wideGrid(), qs, nonabelian.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	for _, w := range []int{2, 4, 64} {
		par, err := nonabelian.Compute(md, wideGrid(), qs, nonabelian.WithWorkers(w))
		require.NoError(t, err)
		requireSameResult(t, serial, par, 1e-10)
	}
}

func TestCompute_MorbPathsAgree(t *testing.T) {
	for name, md := range map[string]*model.Model{"weyl": weylModel(t), "dirac": diracModel(t)} {
		t.Run(name, func(t *testing.T) {
			var seen float64
			for _, qs := range [][]nonabelian.Quantity{
				{nonabelian.Morb},
				{nonabelian.Curv, nonabelian.Morb},
			} {
				for _, mode := range []nonabelian.Mode{nonabelian.ModeFermiSurface, nonabelian.ModeFermiSea} {
					pre, err := nonabelian.Compute(md, wideGrid(), qs, nonabelian.WithMode(mode))
					require.NoError(t, err)
					sos, err := nonabelian.Compute(md, wideGrid(), qs, nonabelian.WithMode(mode),
						nonabelian.WithMorbMode(nonabelian.MorbSumOverStates))
					require.NoError(t, err)
					requireSameResult(t, pre, sos, 1e-9)
					seen = max(seen, pre.MaxAbs())
				}
			}
			require.Greater(t, seen, 1e-6, "cross-check must compare non-zero data")
		})
	}
}

func TestCompute_CyclicRotationKeepsTrace(t *testing.T) {
	md := diracModel(t)
	abc, err := nonabelian.Compute(md, wideGrid(), []nonabelian.Quantity{nonabelian.Spin, nonabelian.Vel, nonabelian.Curv})
	require.NoError(t, err)
	bca, err := nonabelian.Compute(md, wideGrid(), []nonabelian.Quantity{nonabelian.Vel, nonabelian.Curv, nonabelian.Spin})
	require.NoError(t, err)

	for ie := range abc.Efermi {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				for c := 0; c < 3; c++ {
					require.InDelta(t, mustAt(t, abc, ie, a, b, c), mustAt(t, bca, ie, b, c, a), 1e-9)
				}
			}
		}
	}
}

func TestCompute_ExplicitSubscriptsSumDiagonal(t *testing.T) {
	md := diracModel(t)
	qs := []nonabelian.Quantity{nonabelian.Curv, nonabelian.Morb}
	full, err := nonabelian.Compute(md, wideGrid(), qs)
	require.NoError(t, err)
	diag, err := nonabelian.Compute(md, wideGrid(), qs, nonabelian.WithSubscripts("a,a->a"))
	require.NoError(t, err)
	require.Equal(t, 1, diag.Rank)

	for ie := range full.Efermi {
		for a := 0; a < 3; a++ {
			require.InDelta(t, mustAt(t, full, ie, a, a), mustAt(t, diag, ie, a), 1e-9)
		}
	}
}

func BenchmarkCompute_Dirac(b *testing.B) {
	md, err := model.New(model.NewDirac(2.5), [3]int{6, 6, 6}, model.WithShift([3]float64{0.5, 0.5, 0.5}))
	require.NoError(b, err)
	qs := []nonabelian.Quantity{nonabelian.Curv, nonabelian.Morb}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := nonabelian.Compute(md, wideGrid(), qs, nonabelian.WithWorkers(4)); err != nil {
			b.Fatal(err)
		}
	}
}
