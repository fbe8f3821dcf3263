// Package records defines the canonical device-record types the assembly
// engine consumes, and the normalizer that turns mixed, possibly nested
// collections of such records into per-kind tables (a Set).
//
// Two input paths converge here (and only here):
//
//	Flatten(...)  — an ordered, arbitrarily nested iterable of typed records
//	Set{...}      — pre-tabulated per-kind collections (the "frames" path)
//
// plus FromYAML, which decodes the frames form from a YAML document.
//
// All electrical quantities are per-unit. Complex admittances use complex128;
// a longitudinal admittance with a non-finite real or imaginary part marks a
// zero-impedance bridge (closed switch), see IsBridge.
//
// Errors:
//
//	ErrUnknownRecord - Flatten met a value of a type outside the record set.
//	ErrBadYAML       - FromYAML met a structurally invalid document.
package records
