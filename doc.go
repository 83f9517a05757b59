// SPDX-License-Identifier: MIT

// Package kspace computes non-abelian Fermi-surface and Fermi-sea responses
// of band structures sampled on a k-grid.
//
// At every k-point the bands are split into degenerate groups. For each
// group the engine cuts the group's block out of band matrices such as spin,
// velocity, Berry curvature and orbital moment, contracts a product of those
// blocks into a trace over the group, and deposits the result either into
// the Fermi-level bin holding the group energy (Fermi surface) or into every
// level above it (Fermi sea).
//
// Layout:
//
//	matrix/      dense complex matrices, Hermitian eigensolver, Kronecker products
//	tensor/      complex tensors, block extraction, subscript contraction
//	degen/       degenerate band groups within an energy window
//	result/      per-energy real tensors with parity flags
//	nonabelian/  quantities, contraction planner, k-point integrator, presets
//	model/       analytic tight-binding models (Weyl, Dirac) as data providers
//	cmd/kspace   command-line front end (cobra, viper, zap)
//
// Quick start:
//
//	md, _ := model.New(model.NewDirac(2.5), [3]int{8, 8, 8})
//	res, _ := nonabelian.ComputeNamed(md, efermi, []string{"curv", "morb"})
//	fmt.Println(res.Shape()) // [len(efermi) 3 3]
package kspace
