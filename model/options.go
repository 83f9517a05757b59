// SPDX-License-Identifier: MIT

package model

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/kspace/matrix"
)

const (
	// DefaultCellVolume is the volume of the unit cubic cell.
	DefaultCellVolume = 1.0

	// DefaultWorkers diagonalizes on the calling goroutine.
	DefaultWorkers = 1

	// DefaultGapTol is the smallest |E_l − Ē| accepted in energy denominators.
	DefaultGapTol = 1e-10
)

const (
	panicVolumeInvalid  = "model: WithCellVolume: volume must be finite and > 0"
	panicShiftInvalid   = "model: WithShift: shift must be finite"
	panicWorkersInvalid = "model: WithWorkers: workers must be > 0"
	panicGapTolInvalid  = "model: WithGapTolerance: tol must be finite and > 0"
)

// Option mutates internal options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	volume  float64
	shift   [3]float64 // fractional offset of the mesh, in units of one step
	workers int
	gapTol  float64
	eigen   []matrix.Option
	logger  *zap.Logger
}

// WithCellVolume sets the real-space cell volume. Panics unless finite and > 0.
func WithCellVolume(v float64) Option {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		panic(panicVolumeInvalid)
	}

	return func(o *Options) { o.volume = v }
}

// WithShift offsets the mesh by shift[a] steps along axis a
// (0.5 gives a Monkhorst-Pack shifted mesh for even n).
func WithShift(shift [3]float64) Option {
	for _, s := range shift {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			panic(panicShiftInvalid)
		}
	}

	return func(o *Options) { o.shift = shift }
}

// WithWorkers diagonalizes k-points on n goroutines. Panics when n <= 0.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithGapTolerance sets the smallest accepted energy denominator.
func WithGapTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicGapTolInvalid)
	}

	return func(o *Options) { o.gapTol = tol }
}

// WithEigenOptions forwards options to matrix.EigenHermitian.
func WithEigenOptions(opts ...matrix.Option) Option {
	return func(o *Options) { o.eigen = append(o.eigen, opts...) }
}

// WithLogger routes construction diagnostics to l (nil disables them).
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

func gatherOptions(user ...Option) Options {
	o := Options{
		volume:  DefaultCellVolume,
		workers: DefaultWorkers,
		gapTol:  DefaultGapTol,
		logger:  zap.NewNop(),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
