// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the eigen-solver.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEigenTol is the absolute off-diagonal magnitude, relative to the
	// largest entry of the input, below which Jacobi sweeps stop.
	DefaultEigenTol = 1e-14

	// DefaultEigenMaxRotations caps the number of Jacobi rotations per n² entries.
	// The effective budget is DefaultEigenMaxRotations*n*n.
	DefaultEigenMaxRotations = 64

	// DefaultHermitianTol bounds |A[i,j] − conj(A[j,i])| accepted on input.
	DefaultHermitianTol = 1e-10
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicTolInvalid       = "matrix: WithTolerance: tol must be finite and > 0"
	panicRotationsInvalid = "matrix: WithMaxRotations: budget must be > 0"
	panicHermTolInvalid   = "matrix: WithHermitianTolerance: tol must be finite and >= 0"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	tol          float64 // relative convergence threshold
	maxRotations int     // budget multiplier (×n²)
	hermTol      float64 // input Hermiticity tolerance
}

// WithTolerance sets the relative off-diagonal convergence threshold.
// Panics when tol is not finite and strictly positive.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithMaxRotations sets the rotation budget multiplier (effective budget n·n·k).
// Panics when k <= 0.
func WithMaxRotations(k int) Option {
	if k <= 0 {
		panic(panicRotationsInvalid)
	}

	return func(o *Options) { o.maxRotations = k }
}

// WithHermitianTolerance sets the accepted input asymmetry.
// Panics when tol is negative or not finite.
func WithHermitianTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicHermTolInvalid)
	}

	return func(o *Options) { o.hermTol = tol }
}

// gatherOptions applies user-provided Option setters on top of defaults
// (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		tol:          DefaultEigenTol,
		maxRotations: DefaultEigenMaxRotations,
		hermTol:      DefaultHermitianTol,
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
