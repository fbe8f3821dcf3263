package model

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch indicates an incidence multiplication received a
// vector whose length differs from the injection count.
var ErrDimensionMismatch = errors.New("model: vector length does not match injection count")

// Incidence is the sparse node×injection incidence operator: entry (n, j) is
// 1 iff injection j attaches to calculation node n. Each column holds exactly
// one nonzero, so the operator is stored as one node row per column.
type Incidence struct {
	rows   int
	nodeOf []int
}

// newIncidence builds the operator from the indexed injection table.
func newIncidence(nodeCount int, injections []Injection) *Incidence {
	in := &Incidence{
		rows:   nodeCount,
		nodeOf: make([]int, len(injections)),
	}
	for j, inj := range injections {
		in.nodeOf[j] = inj.NodeIndex
	}

	return in
}

// Shape returns (nodeCount, injectionCount).
func (in *Incidence) Shape() (int, int) {
	return in.rows, len(in.nodeOf)
}

// At returns the 0/1 entry at (node, injection). Out-of-range indices panic,
// matching slice semantics.
func (in *Incidence) At(node, injection int) float64 {
	if node < 0 || node >= in.rows {
		panic(fmt.Sprintf("model: node index %d out of range [0,%d)", node, in.rows))
	}
	if in.nodeOf[injection] == node {
		return 1
	}

	return 0
}

// MulVec aggregates an injection-ordered vector onto calculation nodes:
// result[n] is the sum of v[j] over all injections j attached to node n.
//
// Complexity: O(injections).
func (in *Incidence) MulVec(v []float64) ([]float64, error) {
	if len(v) != len(in.nodeOf) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), len(in.nodeOf))
	}
	out := make([]float64, in.rows)
	for j, n := range in.nodeOf {
		out[n] += v[j]
	}

	return out, nil
}

// MulVecComplex is MulVec over complex vectors (e.g. apparent power S = P+jQ).
func (in *Incidence) MulVecComplex(v []complex128) ([]complex128, error) {
	if len(v) != len(in.nodeOf) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), len(in.nodeOf))
	}
	out := make([]complex128, in.rows)
	for j, n := range in.nodeOf {
		out[n] += v[j]
	}

	return out, nil
}
