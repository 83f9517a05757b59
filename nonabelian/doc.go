// SPDX-License-Identifier: MIT

// Package nonabelian integrates band-resolved response quantities over the
// Fermi surface or the Fermi sea while keeping degenerate band subspaces
// whole.
//
// What & Why:
//
//	Spin, velocity, Berry curvature and orbital moment are matrices in band
//	space. Where bands are degenerate only the trace over the degenerate
//	subspace is gauge invariant, so the engine works on per-group matrix
//	blocks instead of per-band scalars. A product of quantities becomes a
//	cyclic chain of block products closed by a trace:
//
//	    ["curv","morb"]  →  "lma,mlb->ab"  =  Tr(Ω^a · M^b)
//
// Pipeline per call:
//
//  1. The data provider groups each k-point's bands into degenerate groups
//     inside the energy window of the grid.
//  2. Extractors cut each quantity's block for every (k, group).
//  3. The planner turns the quantity list (and optional subscripts) into a
//     tensor.Expr with one cyclic band-label pair per quantity.
//  4. The integrator contracts the blocks and bins the real part by group
//     energy (ModeFermiSurface) or adds it to every level above
//     (ModeFermiSea), then normalizes by factor/(NKFFT·V_cell).
//  5. The result carries time-reversal and inversion parity flags.
//
// Complexity:
//
//	O(NK · groups · Π label extents) per call; the k-loop can be split across
//	workers (WithWorkers) with a deterministic ordered reduction.
package nonabelian
