// SPDX-License-Identifier: MIT

package model

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/kspace/matrix"
)

// Hamiltonian is a Bloch Hamiltonian in a fixed orbital basis.
type Hamiltonian interface {
	// Dim returns the number of orbitals (and bands).
	Dim() int
	// H returns H(k) for a Cartesian k.
	H(k [3]float64) (*matrix.Dense, error)
	// DH returns ∂H/∂k_a for a = x, y, z.
	DH(k [3]float64) ([3]*matrix.Dense, error)
	// Spin returns the spin operators in the orbital basis.
	Spin() ([3]*matrix.Dense, error)
}

// Clifford is H(k) = Σ_i d_i(k)·Γ_i for a fixed set of Hermitian matrices Γ.
type Clifford struct {
	gammas []*matrix.Dense
	spin   [3]*matrix.Dense
	// d returns the coefficients; grad returns ∂d_i/∂k_a as grad[i][a].
	d    func(k [3]float64) []float64
	grad func(k [3]float64) [][3]float64
}

// Dim implements Hamiltonian.
func (c *Clifford) Dim() int { return c.gammas[0].Rows() }

// H implements Hamiltonian.
func (c *Clifford) H(k [3]float64) (*matrix.Dense, error) {
	return combine(c.d(k), c.gammas)
}

// DH implements Hamiltonian.
func (c *Clifford) DH(k [3]float64) ([3]*matrix.Dense, error) {
	var out [3]*matrix.Dense
	g := c.grad(k)
	coef := make([]float64, len(g))
	for a := 0; a < 3; a++ {
		for i := range g {
			coef[i] = g[i][a]
		}
		m, err := combine(coef, c.gammas)
		if err != nil {
			return out, err
		}
		out[a] = m
	}

	return out, nil
}

// Spin implements Hamiltonian.
func (c *Clifford) Spin() ([3]*matrix.Dense, error) {
	var out [3]*matrix.Dense
	for a, s := range c.spin {
		out[a] = s.Clone()
	}

	return out, nil
}

// combine returns Σ coef_i·mats_i.
func combine(coef []float64, mats []*matrix.Dense) (*matrix.Dense, error) {
	if len(coef) != len(mats) {
		return nil, errors.Wrapf(ErrHamiltonian, "%d coefficients for %d matrices", len(coef), len(mats))
	}
	out, err := matrix.NewDense(mats[0].Rows(), mats[0].Cols())
	if err != nil {
		return nil, err
	}
	for i, m := range mats {
		if coef[i] == 0 {
			continue
		}
		term, err := matrix.Scale(m, complex(coef[i], 0))
		if err != nil {
			return nil, err
		}
		if out, err = matrix.Add(out, term); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// pauli returns 1, σx, σy, σz.
func pauli() [4]*matrix.Dense {
	must := func(rows [][]complex128) *matrix.Dense {
		m, err := matrix.FromRows(rows)
		if err != nil {
			panic(err) // literal input
		}

		return m
	}

	return [4]*matrix.Dense{
		must([][]complex128{{1, 0}, {0, 1}}),
		must([][]complex128{{0, 1}, {1, 0}}),
		must([][]complex128{{0, -1i}, {1i, 0}}),
		must([][]complex128{{1, 0}, {0, -1}}),
	}
}

func kron(a, b *matrix.Dense) *matrix.Dense {
	m, err := matrix.Kron(a, b)
	if err != nil {
		panic(err) // non-nil literal input
	}

	return m
}

// massTerm is m − cos kx − cos ky − cos kz with its gradient.
func massTerm(m float64, k [3]float64) (float64, [3]float64) {
	return m - math.Cos(k[0]) - math.Cos(k[1]) - math.Cos(k[2]),
		[3]float64{math.Sin(k[0]), math.Sin(k[1]), math.Sin(k[2])}
}

// NewWeyl returns the two-band lattice model d(k)·σ with
// d = (sin kx, sin ky, m − Σ cos k_a). Spin is σ.
func NewWeyl(m float64) *Clifford {
	s := pauli()

	return &Clifford{
		gammas: []*matrix.Dense{s[1], s[2], s[3]},
		spin:   [3]*matrix.Dense{s[1], s[2], s[3]},
		d: func(k [3]float64) []float64 {
			mz, _ := massTerm(m, k)
			return []float64{math.Sin(k[0]), math.Sin(k[1]), mz}
		},
		grad: func(k [3]float64) [][3]float64 {
			_, gz := massTerm(m, k)
			return [][3]float64{{math.Cos(k[0]), 0, 0}, {0, math.Cos(k[1]), 0}, gz}
		},
	}
}

// NewDirac returns the four-band model Σ d_i(k)·Γ_i with
// Γ = (τx⊗σx, τx⊗σy, τx⊗σz, τz⊗1) and d = (sin kx, sin ky, sin kz, m − Σ cos k_a).
// The Γ anticommute, so every band is doubly degenerate. Spin is 1⊗σ.
func NewDirac(m float64) *Clifford {
	s := pauli()

	return &Clifford{
		gammas: []*matrix.Dense{
			kron(s[1], s[1]), kron(s[1], s[2]), kron(s[1], s[3]), kron(s[3], s[0]),
		},
		spin: [3]*matrix.Dense{kron(s[0], s[1]), kron(s[0], s[2]), kron(s[0], s[3])},
		d: func(k [3]float64) []float64 {
			mz, _ := massTerm(m, k)
			return []float64{math.Sin(k[0]), math.Sin(k[1]), math.Sin(k[2]), mz}
		},
		grad: func(k [3]float64) [][3]float64 {
			_, gz := massTerm(m, k)
			return [][3]float64{
				{math.Cos(k[0]), 0, 0}, {0, math.Cos(k[1]), 0}, {0, 0, math.Cos(k[2])}, gz,
			}
		},
	}
}

var presets = map[string]func(m float64) *Clifford{
	"weyl":  NewWeyl,
	"dirac": NewDirac,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// NewPreset returns the named preset with mass parameter m.
func NewPreset(name string, m float64) (Hamiltonian, error) {
	ctor, ok := presets[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPreset, "%q (known: %v)", name, PresetNames())
	}

	return ctor(m), nil
}
