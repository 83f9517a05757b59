// SPDX-License-Identifier: MIT

// Package nonabelian: functional configuration for Compute.
// This file defines:
//   - Mode / MorbMode (closed string enumerations, parsed by ParseMode / ParseMorbMode),
//   - documented defaults (constants),
//   - WithX constructors (panic on nonsensical programmer values),
//   - gatherOptions helper (internal).
//
// Values that come from user configuration (mode strings, subscripts) are not
// checked here; Compute rejects them with an error before touching any k-point.
package nonabelian

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Mode selects how a group's contribution is spread over the energy grid.
type Mode string

const (
	// ModeFermiSurface bins each group at the nearest Fermi level and divides by dE.
	ModeFermiSurface Mode = "fermi-surface"
	// ModeFermiSea adds each group to every Fermi level strictly above it.
	ModeFermiSea Mode = "fermi-sea"
)

// ParseMode maps a mode name to a Mode. Unknown names are ErrUnsupportedMode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.valid() {
		return "", errors.Wrapf(ErrUnsupportedMode, "%q", s)
	}

	return m, nil
}

func (m Mode) valid() bool { return m == ModeFermiSurface || m == ModeFermiSea }

// MorbMode selects the source of the orbital-moment blocks.
type MorbMode string

const (
	// MorbPrecomputed reads Data.Morb.
	MorbPrecomputed MorbMode = "precomputed"
	// MorbSumOverStates rebuilds the blocks from velocities and internal terms
	// (requires ReferenceData). Slower; kept as an independent cross-check.
	MorbSumOverStates MorbMode = "sum-over-states"
)

// ParseMorbMode maps a name to a MorbMode. Unknown names are ErrConfiguration.
func ParseMorbMode(s string) (MorbMode, error) {
	m := MorbMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.valid() {
		return "", errors.Wrapf(ErrConfiguration, "unknown morb mode %q", s)
	}

	return m, nil
}

func (m MorbMode) valid() bool { return m == MorbPrecomputed || m == MorbSumOverStates }

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultDegenThreshold is the largest energy gap between consecutive bands
	// of one degenerate group.
	DefaultDegenThreshold = 1e-5

	// DefaultMode is the integration mode used when WithMode is absent.
	DefaultMode = ModeFermiSurface

	// DefaultFactor is the physical prefactor applied on normalization.
	DefaultFactor = 1.0

	// DefaultMorbMode is the orbital-moment source.
	DefaultMorbMode = MorbPrecomputed

	// DefaultWorkers runs the k-loop on the calling goroutine.
	DefaultWorkers = 1

	// DefaultGapTolerance is the smallest |E_l − Ē| accepted as an energy
	// denominator by MorbSumOverStates.
	DefaultGapTolerance = 1e-10
)

const (
	panicThreshInvalid  = "nonabelian: WithDegenThreshold: threshold must not be NaN or Inf"
	panicFactorInvalid  = "nonabelian: WithFactor: factor must be finite"
	panicWorkersInvalid = "nonabelian: WithWorkers: workers must be > 0"
	panicGapTolInvalid  = "nonabelian: WithGapTolerance: tolerance must be finite and >= 0"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	subscripts   string // explicit "ab,c->abc"; empty means default labels
	degenThresh  float64
	mode         Mode
	factor       float64
	morbMode     MorbMode
	workers      int
	includeLower bool // fermi-sea: let groups below the window contribute
	gapTol       float64
	logger       *zap.Logger
}

// WithSubscripts sets explicit Cartesian subscripts, one comma-separated
// label group per quantity, e.g. "a,a->a" for Tr(Ω^a·M^a) summed over a.
// Band labels are added by the planner and must not appear here.
func WithSubscripts(s string) Option {
	return func(o *Options) { o.subscripts = s }
}

// WithDegenThreshold sets the degeneracy threshold. A negative value keeps
// every band in its own group. Panics on NaN or Inf.
func WithDegenThreshold(thresh float64) Option {
	if math.IsNaN(thresh) || math.IsInf(thresh, 0) {
		panic(panicThreshInvalid)
	}

	return func(o *Options) { o.degenThresh = thresh }
}

// WithMode selects the integration mode. Unknown modes are reported by
// Compute as ErrUnsupportedMode.
func WithMode(m Mode) Option {
	return func(o *Options) { o.mode = m }
}

// WithFactor sets the physical prefactor. Panics on NaN or Inf.
func WithFactor(f float64) Option {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(panicFactorInvalid)
	}

	return func(o *Options) { o.factor = f }
}

// WithMorbMode selects the orbital-moment source.
func WithMorbMode(m MorbMode) Option {
	return func(o *Options) { o.morbMode = m }
}

// WithWorkers splits the k-loop across n goroutines. The reduction is
// ordered, so results do not depend on n beyond float summation order of
// chunks. Panics when n <= 0.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithGapTolerance sets the smallest energy gap between a group and a
// complement band that MorbSumOverStates divides by. Closer bands fail the
// run with ErrGapClosed. Panics on NaN, Inf or a negative value.
func WithGapTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicGapTolInvalid)
	}

	return func(o *Options) { o.gapTol = tol }
}

// WithIncludeLower lets fermi-sea groups below the lowest bin edge contribute
// to every Fermi level. Ignored in fermi-surface mode.
func WithIncludeLower(on bool) Option {
	return func(o *Options) { o.includeLower = on }
}

// WithLogger routes debug output to l. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// gatherOptions applies user-provided Option setters on top of defaults
// (last-writer-wins).
func gatherOptions(user ...Option) Options {
	o := Options{
		degenThresh: DefaultDegenThreshold,
		mode:        DefaultMode,
		factor:      DefaultFactor,
		morbMode:    DefaultMorbMode,
		workers:     DefaultWorkers,
		gapTol:      DefaultGapTolerance,
		logger:      zap.NewNop(),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
