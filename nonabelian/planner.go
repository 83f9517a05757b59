// SPDX-License-Identifier: MIT

package nonabelian

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/kspace/tensor"
)

const (
	// bandAlphabet supplies the cyclic band-loop labels, one per quantity.
	bandAlphabet = "lmnopqrstuvwxyz"
	// cartAlphabet supplies default Cartesian labels in allocation order.
	cartAlphabet = "abcdefghijk"
)

// Plan is a validated contraction over the blocks of one degenerate group.
type Plan struct {
	Quantities []Quantity
	// Expr has one operand per quantity: bra band, ket band, Cartesian labels.
	Expr tensor.Expr
}

// Rank returns the number of output Cartesian axes.
func (p Plan) Rank() int { return len(p.Expr.Output) }

// String renders the contraction, e.g. "lma,mlb->ab".
func (p Plan) String() string { return p.Expr.String() }

// NewPlan builds the contraction for qs.
//
// Without subscripts every quantity gets Rank() fresh Cartesian labels from
// "abcdefghijk" in list order and the output keeps all of them, so nothing
// is summed over Cartesian axes. With subscripts ("ab,c->abc") the label
// group of each quantity must have exactly Rank() labels.
//
// Quantity i is labeled (band[i], band[i+1 mod n], cart...), closing the
// chain of block products into a trace:
//
//	[curv, morb]        → "lma,mlb->ab"   Tr(Ω^a·M^b)
//	[spin, vel, vel]    → "lma,mnb,nlc->abc"
//
// Errors:
//   - ErrNoQuantities for an empty list, ErrShapeMismatch for an invalid Quantity.
//   - ErrConfiguration for malformed subscripts, a label-group count or rank
//     mismatch (naming the quantity), labels that collide with band labels,
//     or more quantities/labels than the alphabets hold.
func NewPlan(qs []Quantity, subscripts string) (Plan, error) {
	if len(qs) == 0 {
		return Plan{}, ErrNoQuantities
	}
	if len(qs) > len(bandAlphabet) {
		return Plan{}, errors.Wrapf(ErrConfiguration, "%d quantities, at most %d supported", len(qs), len(bandAlphabet))
	}
	for k, q := range qs {
		if !q.Valid() {
			return Plan{}, errors.Wrapf(ErrShapeMismatch, "quantity %d: %v", k, q)
		}
	}

	var (
		cart []tensor.Labels
		out  tensor.Labels
		err  error
	)
	if strings.TrimSpace(subscripts) == "" {
		cart, out, err = defaultLabels(qs)
	} else {
		cart, out, err = explicitLabels(qs, subscripts)
	}
	if err != nil {
		return Plan{}, err
	}

	n := len(qs)
	band := []rune(bandAlphabet)
	e := tensor.Expr{Inputs: make([]tensor.Labels, n), Output: out}
	for i := range qs {
		in := tensor.Labels{band[i], band[(i+1)%n]}
		e.Inputs[i] = append(in, cart[i]...)
	}

	return Plan{Quantities: append([]Quantity(nil), qs...), Expr: e}, nil
}

func defaultLabels(qs []Quantity) ([]tensor.Labels, tensor.Labels, error) {
	alphabet := []rune(cartAlphabet)
	cart := make([]tensor.Labels, len(qs))
	var out tensor.Labels
	next := 0
	for k, q := range qs {
		r := q.Rank()
		if next+r > len(alphabet) {
			return nil, nil, errors.WithHint(
				errors.Wrapf(ErrConfiguration, "quantities %v need more than %d Cartesian labels", names(qs), len(alphabet)),
				"pass explicit subscripts that reuse labels to sum over them")
		}
		cart[k] = tensor.Labels(alphabet[next : next+r])
		out = append(out, cart[k]...)
		next += r
	}

	return cart, out, nil
}

func explicitLabels(qs []Quantity, subscripts string) ([]tensor.Labels, tensor.Labels, error) {
	e, err := tensor.ParseExpr(subscripts)
	if err != nil {
		return nil, nil, markf(err, ErrConfiguration, "subscripts")
	}
	if len(e.Inputs) != len(qs) {
		return nil, nil, errors.WithHint(
			errors.Wrapf(ErrConfiguration, "subscripts %q have %d label groups for %d quantities %v",
				subscripts, len(e.Inputs), len(qs), names(qs)),
			"give one comma-separated label group per quantity")
	}

	used := []rune(bandAlphabet)[:len(qs)]
	for k, q := range qs {
		if len(e.Inputs[k]) != q.Rank() {
			return nil, nil, errors.WithHint(
				errors.Wrapf(ErrConfiguration, "quantity %q (#%d) has rank %d, subscripts give %q",
					q, k, q.Rank(), string(e.Inputs[k])),
				"each label group must have one label per Cartesian axis")
		}
		for _, l := range e.Inputs[k] {
			if slices.Contains(used, l) {
				return nil, nil, errors.Wrapf(ErrConfiguration, "label %q of quantity %q is reserved for band loops", l, q)
			}
		}
	}
	for k, l := range e.Output {
		if slices.Contains(e.Output[:k], l) {
			return nil, nil, errors.Wrapf(ErrConfiguration, "subscripts %q: duplicate output label %q", subscripts, l)
		}
		if !slices.ContainsFunc(e.Inputs, func(in tensor.Labels) bool { return slices.Contains(in, l) }) {
			return nil, nil, errors.Wrapf(ErrConfiguration, "subscripts %q: output label %q is not bound", subscripts, l)
		}
	}

	return e.Inputs, e.Output, nil
}
