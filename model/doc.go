// SPDX-License-Identifier: MIT

// Package model is an in-memory electronic-structure provider built from an
// analytic Bloch Hamiltonian sampled on a uniform k-grid.
//
// 🚀 What it provides:
//
//	Every k-point is diagonalized once at construction (matrix.EigenHermitian);
//	velocity and spin operators are rotated into the eigenbasis, and the
//	non-abelian Berry curvature and orbital moment of each degenerate group
//	are evaluated on demand from the velocity matrix elements:
//
//	    A^a_ml = i·V^a_ml / (E_l − Ē)                       m ∈ G, l ∉ G
//	    Ω^γ_mn = i·Σ_l (A^α_ml·A^β_ln − A^β_ml·A^α_ln)
//	    M^γ_mn = −i·Σ_l (E_l − Ē)·(A^α_ml·A^β_ln − A^β_ml·A^α_ln)
//
//	with (α, β) the cyclic partners of γ. Orbitals are point-like, so the
//	internal (Wannier-gauge) connection, curvature and correction terms are zero.
//
// ✨ Presets:
//   - "weyl":  two bands, d(k)·σ with d = (sin kx, sin ky, m − Σ cos k).
//     Gapped for |m| > 3; Weyl nodes otherwise.
//   - "dirac": four Kramers-degenerate bands, Σ d_i(k)·Γ_i with
//     Γ = (τx⊗σx, τx⊗σy, τx⊗σz, τz⊗1) and d = (sin kx, sin ky, sin kz, m − Σ cos k).
//
// The cell is cubic with lattice constant 1 unless WithCellVolume says
// otherwise; k_cart = 2π·(i + shift)/n per axis.
//
// A Model is immutable after New and safe for concurrent reads.
package model
