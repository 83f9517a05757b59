// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for kernels and the eigen-solver.
//   • Keep all data finite to avoid numeric-policy interference.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/kspace/matrix"
	"github.com/stretchr/testify/require"
)

// MustFromRows builds a *Dense from literal rows or fails the test.
func MustFromRows(t testing.TB, rows [][]complex128) *matrix.Dense {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t testing.TB, m *matrix.Dense, i, j int) complex128 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// RandomHermitian BUILDS an n×n Hermitian matrix with U(-1,1) components by seed.
// Deterministic for a fixed seed.
func RandomHermitian(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, m.Set(i, i, complex(rng.Float64()*2-1, 0)))
		for j := i + 1; j < n; j++ {
			v := complex(rng.Float64()*2-1, rng.Float64()*2-1)
			require.NoError(t, m.Set(i, j, v))
			require.NoError(t, m.Set(j, i, complex(real(v), -imag(v))))
		}
	}

	return m
}

// RequireClose asserts AllClose(a, b) with the given absolute tolerance.
func RequireClose(t testing.TB, a, b *matrix.Dense, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, 0, atol)
	require.NoError(t, err)
	require.Truef(t, ok, "matrices differ:\n%s\nvs\n%s", a, b)
}

// Pauli returns σx, σy, σz.
func Pauli(t testing.TB) (sx, sy, sz *matrix.Dense) {
	t.Helper()
	sx = MustFromRows(t, [][]complex128{{0, 1}, {1, 0}})
	sy = MustFromRows(t, [][]complex128{{0, -1i}, {1i, 0}})
	sz = MustFromRows(t, [][]complex128{{1, 0}, {0, -1}})

	return sx, sy, sz
}
