// SPDX-License-Identifier: MIT

package tensor

import (
	"slices"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// Labels names the axes of one operand, one rune per axis.
type Labels []rune

// Expr is the intermediate representation of a contraction: one label
// sequence per operand and the output label sequence. A label shared by
// several axes is matched (diagonal within one operand, product across
// operands); a label absent from Output is summed over.
type Expr struct {
	Inputs []Labels
	Output Labels
}

// String renders the expression in subscript notation, e.g. "lma,mlb->ab".
func (e Expr) String() string {
	var sb strings.Builder
	for k, in := range e.Inputs {
		if k > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(in))
	}
	sb.WriteString("->")
	sb.WriteString(string(e.Output))

	return sb.String()
}

// ParseExpr parses subscript notation "ab,c->abc". The arrow is mandatory;
// labels must be letters and output labels must be unique.
func ParseExpr(s string) (Expr, error) {
	left, right, ok := strings.Cut(s, "->")
	if !ok {
		return Expr{}, errors.Wrapf(ErrBadExpr, "%q: missing \"->\"", s)
	}
	if strings.Contains(right, "->") {
		return Expr{}, errors.Wrapf(ErrBadExpr, "%q: more than one \"->\"", s)
	}
	var e Expr
	for _, part := range strings.Split(left, ",") {
		labels, err := parseLabels(strings.TrimSpace(part))
		if err != nil {
			return Expr{}, errors.Wrapf(err, "%q", s)
		}
		e.Inputs = append(e.Inputs, labels)
	}
	out, err := parseLabels(strings.TrimSpace(right))
	if err != nil {
		return Expr{}, errors.Wrapf(err, "%q", s)
	}
	e.Output = out

	return e, nil
}

func parseLabels(s string) (Labels, error) {
	labels := Labels(s)
	for _, r := range labels {
		if !unicode.IsLetter(r) {
			return nil, errors.Wrapf(ErrBadExpr, "label %q is not a letter", r)
		}
	}

	return labels, nil
}

// Contract evaluates e over the operands and returns a tensor whose axes
// follow e.Output (rank 0 when the output is empty).
//
// Implementation:
//   - Stage 1: bind every label to one extent; reject rank or extent conflicts.
//   - Stage 2: order the loop labels as Output followed by the summed labels
//     in first-appearance order; fold each operand's strides per label so a
//     repeated label inside one operand walks its diagonal.
//   - Stage 3: walk the full label space with an odometer (last label fastest)
//     and accumulate the product of operand elements into the output cell.
//
// Errors:
//   - ErrNilTensor, ErrDimensionMismatch (operand count, rank, or extent conflicts),
//     ErrBadExpr (duplicate or unbound output label).
//
// Complexity:
//   - Time O(Π extents · operands), Space O(output size).
func Contract(e Expr, operands ...*Tensor) (*Tensor, error) {
	if len(operands) != len(e.Inputs) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "Contract %s: %d operands", e, len(operands))
	}

	extent := map[rune]int{}
	var order Labels
	for k, op := range operands {
		if op == nil {
			return nil, errors.Wrapf(ErrNilTensor, "Contract %s: operand %d", e, k)
		}
		labels := e.Inputs[k]
		if len(labels) != op.Rank() {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"Contract %s: operand %d has rank %d, labels %q", e, k, op.Rank(), string(labels))
		}
		for axis, l := range labels {
			n, seen := extent[l]
			if !seen {
				extent[l] = op.shape[axis]
				order = append(order, l)
				continue
			}
			if n != op.shape[axis] {
				return nil, errors.Wrapf(ErrDimensionMismatch,
					"Contract %s: label %q bound to %d and %d", e, l, n, op.shape[axis])
			}
		}
	}

	outShape := make([]int, len(e.Output))
	for k, l := range e.Output {
		n, ok := extent[l]
		if !ok {
			return nil, errors.Wrapf(ErrBadExpr, "Contract %s: output label %q not in inputs", e, l)
		}
		if slices.Contains(e.Output[:k], l) {
			return nil, errors.Wrapf(ErrBadExpr, "Contract %s: duplicate output label %q", e, l)
		}
		outShape[k] = n
	}

	loop := append(Labels(nil), e.Output...)
	for _, l := range order {
		if !slices.Contains(e.Output, l) {
			loop = append(loop, l)
		}
	}
	sizes := make([]int, len(loop))
	for k, l := range loop {
		sizes[k] = extent[l]
	}

	// stride[k][p]: how far operand k moves when loop label p advances by one
	stride := make([][]int, len(operands))
	for k, op := range operands {
		stride[k] = make([]int, len(loop))
		for axis, l := range e.Inputs[k] {
			stride[k][slices.Index(loop, l)] += op.strides[axis]
		}
	}

	out, err := New(outShape...)
	if err != nil {
		return nil, err
	}

	nOut := len(e.Output)
	idx := make([]int, len(loop))
	off := make([]int, len(operands))
	outOff := 0
	for {
		prod := complex(1, 0)
		for k, op := range operands {
			prod *= op.data[off[k]]
		}
		out.data[outOff] += prod

		// advance the odometer, last label fastest
		p := len(loop) - 1
		for ; p >= 0; p-- {
			idx[p]++
			for k := range operands {
				off[k] += stride[k][p]
			}
			if p < nOut {
				outOff += out.strides[p]
			}
			if idx[p] < sizes[p] {
				break
			}
			for k := range operands {
				off[k] -= stride[k][p] * sizes[p]
			}
			if p < nOut {
				outOff -= out.strides[p] * sizes[p]
			}
			idx[p] = 0
		}
		if p < 0 {
			break
		}
	}

	return out, nil
}
