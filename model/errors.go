// SPDX-License-Identifier: MIT

package model

import "github.com/cockroachdb/errors"

var (
	// ErrBadMesh indicates a k-mesh with a non-positive extent.
	ErrBadMesh = errors.New("model: k-mesh extents must be > 0")

	// ErrKPoint indicates a k-point index outside [0, NumK).
	ErrKPoint = errors.New("model: k-point index out of range")

	// ErrGapClosed indicates a band outside a degenerate group that lies at
	// the group energy, where the Berry connection diverges.
	ErrGapClosed = errors.New("model: gap closes at group energy")

	// ErrUnknownPreset indicates a preset name outside PresetNames().
	ErrUnknownPreset = errors.New("model: unknown preset")

	// ErrHamiltonian indicates a Hamiltonian whose matrices have the wrong size.
	ErrHamiltonian = errors.New("model: malformed Hamiltonian")
)
