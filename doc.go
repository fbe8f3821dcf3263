// Package gridmodel assembles a normalized, indexed model of a balanced
// electrical distribution network from loosely-connected device records,
// ready for consumption by external power-flow or state-estimation solvers.
//
// 🔌 What is gridmodel?
//
//	A pure, deterministic, in-memory assembly engine that turns a bag of
//	device descriptions into one consistent model:
//		• Record normalization: mixed, nested record collections → per-kind tables
//		• Topology reduction: zero-impedance merging via union-find
//		• Node/injection indexing: contiguous indices, slack nodes front-grouped
//		• Branch parameters: per-terminal PI-equivalent conductance/susceptance
//		• Incidence operator: sparse node×injection aggregation
//		• Measurement batches: Output associations joined with P/Q/I/V values
//		• Scaling factors: per-step decision variables/constants with chaining
//		• Diagnostics: accumulated info/warning/error messages, not panics
//
// ✨ Why gridmodel?
//
//   - Referentially transparent – one call, one Model, no shared state
//   - Deterministic – stable indices for a stable input order
//   - No solving – gridmodel prepares data; solvers stay external
//
// Everything is organized under five subpackages:
//
//	records/ — device record types, the flattening normalizer, input adapters
//	topo/    — zero-impedance closure and raw→canonical node mapping
//	model/   — the assembled Model: indices, terminals, incidence, batches
//	factors/ — scaling/adjustment factors across optimization steps
//	check/   — standalone record-set validation producing messages
//
// Quick ASCII example:
//
//	    slack ── line_0 ── n1 ── line_1 ── n2 ─▷ consumer
//
//	three calculation nodes, two branches with four terminal rows,
//	one injection attached to the node indexed for n2.
//
// Dive into the package docs for the full table contracts.
//
//	go get github.com/katalvlaran/gridmodel
package gridmodel
