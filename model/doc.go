// Package model assembles the indexed network model: the single entry point
// is Assemble, which turns a normalized record set into an immutable Model.
//
// Assembly pipeline:
//
//  1. Structural validation — duplicate device ids abort with an error.
//  2. Topology reduction (package topo) — zero-impedance merging.
//  3. Node indexing — slack calculation nodes first, then the rest, both in
//     first-seen order; indices are contiguous in [0, NodeCount).
//  4. Branch parameter building — two mirrored admittance terminal rows per
//     ordinary branch, taps ratio correction, bridge terminals kept apart.
//  5. Injection indexing and the node×injection incidence operator.
//  6. Measurement batch resolution — Output associations joined with
//     P/Q/I/V value records.
//
// Everything recoverable (out-of-range tap, unresolvable batch, unreachable
// node) lands in the Model's message table; only structural violations make
// Assemble return an error.
//
// Errors:
//
//	ErrDuplicateID        - two branches or two injections share an id.
//	ErrDimensionMismatch  - an incidence multiplication with a wrong-length vector.
package model
