// SPDX-License-Identifier: MIT

package nonabelian

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Quantity is one of the band-matrix observables the engine can contract.
type Quantity int

const (
	Spin Quantity = iota // spin expectation matrix
	Vel                  // band velocity (Hamiltonian derivative)
	Curv                 // non-abelian Berry curvature
	Morb                 // non-abelian orbital magnetic moment
)

// quantityInfo is the static metadata of one quantity.
type quantityInfo struct {
	name   string
	rank   int  // number of Cartesian axes after the two band axes
	trOdd  bool // odd under time reversal
	invOdd bool // odd under spatial inversion
	// extract cuts the per-group blocks at one k-point (default path).
	extract extractor
}

// quantityTable is built once and never mutated.
var quantityTable = [...]quantityInfo{
	Spin: {name: "spin", rank: 1, trOdd: true, invOdd: false, extract: extractSpin},
	Vel:  {name: "vel", rank: 1, trOdd: true, invOdd: true, extract: extractVel},
	Curv: {name: "curv", rank: 1, trOdd: true, invOdd: false, extract: extractCurv},
	Morb: {name: "morb", rank: 1, trOdd: true, invOdd: false, extract: extractMorb},
}

// Quantities lists every supported quantity in table order.
func Quantities() []Quantity {
	out := make([]Quantity, len(quantityTable))
	for k := range quantityTable {
		out[k] = Quantity(k)
	}

	return out
}

// Valid reports whether q is in the table.
func (q Quantity) Valid() bool { return q >= 0 && int(q) < len(quantityTable) }

// String returns the canonical name ("spin", "vel", "curv", "morb").
func (q Quantity) String() string {
	if !q.Valid() {
		return "Quantity(" + strconv.Itoa(int(q)) + ")"
	}

	return quantityTable[q].name
}

// Rank returns the number of Cartesian axes of q (0 for an invalid q).
func (q Quantity) Rank() int {
	if !q.Valid() {
		return 0
	}

	return quantityTable[q].rank
}

// TROdd reports whether q flips sign under time reversal.
func (q Quantity) TROdd() bool { return q.Valid() && quantityTable[q].trOdd }

// InvOdd reports whether q flips sign under inversion.
func (q Quantity) InvOdd() bool { return q.Valid() && quantityTable[q].invOdd }

// ParseQuantity maps a name to its Quantity. Unknown names are ErrShapeMismatch.
func ParseQuantity(name string) (Quantity, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for k, info := range quantityTable {
		if info.name == key {
			return Quantity(k), nil
		}
	}

	return 0, errors.Wrapf(ErrShapeMismatch, "unknown quantity %q", name)
}

// ParseQuantities maps every name, failing on the first unknown one.
func ParseQuantities(names []string) ([]Quantity, error) {
	out := make([]Quantity, 0, len(names))
	for _, n := range names {
		q, err := ParseQuantity(n)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}

	return out, nil
}

// TROdd reports whether a product of qs is odd under time reversal,
// i.e. an odd number of its factors are.
func TROdd(qs []Quantity) bool {
	return oddCount(qs, Quantity.TROdd)
}

// InvOdd reports whether a product of qs is odd under inversion.
func InvOdd(qs []Quantity) bool {
	return oddCount(qs, Quantity.InvOdd)
}

func oddCount(qs []Quantity, odd func(Quantity) bool) bool {
	n := 0
	for _, q := range qs {
		if odd(q) {
			n++
		}
	}

	return n%2 == 1
}

func names(qs []Quantity) []string {
	out := make([]string, len(qs))
	for k, q := range qs {
		out[k] = q.String()
	}

	return out
}
