// SPDX-License-Identifier: MIT

package nonabelian

import "github.com/cockroachdb/errors"

// Every sentinel is prefixed with "nonabelian: ..." and is matched with errors.Is.
// None of them is retryable: inputs are in-memory and deterministic.
var (
	// ErrConfiguration reports an invalid contraction request: subscripts whose
	// label groups disagree with a quantity's rank, too many quantities for the
	// label alphabets, or an unknown morb mode.
	ErrConfiguration = errors.New("nonabelian: configuration error")

	// ErrUnsupportedMode reports an integration mode other than fermi-surface
	// or fermi-sea. It is raised before any k-point is processed.
	ErrUnsupportedMode = errors.New("nonabelian: unsupported integration mode")

	// ErrShapeMismatch reports an unknown quantity name or provider data that
	// is absent or does not have the (nb, nb, 3) band shape.
	ErrShapeMismatch = errors.New("nonabelian: shape mismatch")

	// ErrEnergyGrid reports a Fermi-energy grid with fewer than two points or
	// non-uniform / non-increasing spacing.
	ErrEnergyGrid = errors.New("nonabelian: invalid energy grid")

	// ErrNoQuantities reports an empty quantity list.
	ErrNoQuantities = errors.New("nonabelian: no quantities requested")

	// ErrNilData reports a nil data provider.
	ErrNilData = errors.New("nonabelian: nil data provider")

	// ErrGapClosed reports a complement band closer to a group's energy than
	// the gap tolerance, where the sum-over-states denominators diverge.
	ErrGapClosed = errors.New("nonabelian: gap closes at group energy")
)

// markf wraps err with context and marks it with sentinel, so callers can
// match both the sentinel and the provider's own error with errors.Is.
func markf(err, sentinel error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), sentinel)
}
