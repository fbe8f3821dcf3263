// Package check validates a record set before assembly and reports findings
// as messages instead of failing: the same data-not-exceptions policy the
// assembly engine follows, available standalone for input screening.
//
// CheckSet walks the set once per concern — counts, duplicate ids, branch
// endpoints, taps, factor definitions and links, measurement references,
// slack connectivity — and returns every finding. FirstError distills that
// into the first error-level message, or nil for a structurally sound set.
package check
