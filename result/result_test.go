// SPDX-License-Identifier: MIT

package result_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/kspace/result"
)

func TestNewShapeAndAccess(t *testing.T) {
	data := make([]float64, 2*9)
	for k := range data {
		data[k] = float64(k)
	}
	r, err := result.New([]float64{0, 0.1}, 2, data, true, false)
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 3}, r.Shape())
	require.Equal(t, 9, r.BinSize())

	v, err := r.At(1, 2, 1)
	require.NoError(t, err)
	require.Equal(t, float64(9+2*3+1), v)

	bin, err := r.Bin(0)
	require.NoError(t, err)
	require.Len(t, bin, 9)
	bin[0] = -1
	require.Equal(t, 0.0, r.Data[0]) // Bin returns a copy

	_, err = r.At(0, 1)
	require.ErrorIs(t, err, result.ErrShape)
	_, err = r.At(0, 3, 0)
	require.ErrorIs(t, err, result.ErrShape)
	_, err = r.Bin(2)
	require.ErrorIs(t, err, result.ErrShape)

	_, err = result.New([]float64{0}, 1, []float64{1, 2}, false, false)
	require.ErrorIs(t, err, result.ErrShape)
}

func TestAddScale(t *testing.T) {
	a, err := result.New([]float64{0, 1}, 0, []float64{1, 2}, true, false)
	require.NoError(t, err)
	b, err := result.New([]float64{0, 1}, 0, []float64{10, 20}, true, false)
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, []float64{11, 22}, sum.Data)
	require.Equal(t, []float64{1, 2}, a.Data) // operands untouched

	require.Equal(t, []float64{-2, -4}, a.Scale(-2).Data)
	require.Equal(t, 2.0, a.MaxAbs())

	c, err := result.New([]float64{0, 1}, 0, []float64{1, 2}, false, false)
	require.NoError(t, err)
	_, err = a.Add(c)
	require.ErrorIs(t, err, result.ErrParity)

	d, err := result.New([]float64{0, 2}, 0, []float64{1, 2}, true, false)
	require.NoError(t, err)
	_, err = a.Add(d)
	require.ErrorIs(t, err, result.ErrShape)
}

func TestYAMLRoundTripKeys(t *testing.T) {
	r, err := result.New([]float64{0.5}, 1, []float64{1, 2, 3}, true, true)
	require.NoError(t, err)
	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	require.Contains(t, string(out), "tr_odd: true")
	require.Contains(t, string(out), "i_odd: true")

	var back result.EnergyResult
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, *r, back)
}
