// Package factors manages scaling/adjustment factors across optimization
// steps: it expands multi-step factor definitions into per-(step, id) rows,
// assigns per-step symbol indices, resolves initialization chaining to the
// previous step, and associates factors with injections and branch terminals.
//
// The step value records.GenericStep (-1) declares a generic factor: it never
// belongs to a concrete step but serves as the initialization source of
// step 0 and answers Group(-1) queries.
//
// Injections without a factor link in a step get the implicit constant-1.0
// default factor (records.DefaultFactorID) substituted, surfaced as an info
// message.
//
// Group queries tolerate arbitrary step subsets: steps without rows simply
// contribute nothing.
//
// Errors:
//
//	ErrDuplicateFactor - two definitions expand to the same (step, id) pair.
package factors
