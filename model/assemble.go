package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/katalvlaran/gridmodel/records"
	"github.com/katalvlaran/gridmodel/topo"
)

// ErrDuplicateID indicates two branches or two injections share an id, which
// would make index assignment ambiguous.
var ErrDuplicateID = errors.New("model: duplicate device id")

// Assemble turns a normalized record set into an immutable Model.
//
// Steps:
//  1. Structural validation: duplicate branch/injection ids abort.
//  2. Zero-impedance reduction via topo.Reduce.
//  3. Node indexing, slack nodes first.
//  4. Branch terminal building (taps correction, bridges apart).
//  5. Injection indexing and the incidence operator.
//  6. Measurement batch resolution and value joins.
//
// Recoverable findings accumulate in the Model's message table; assembly
// aborts only on structural violations. Two calls over an identical,
// order-stable set produce bit-identical tables (the PID differs unless
// pinned with WithPID).
//
// Complexity: near-linear in the record count.
func Assemble(set *records.Set, opts ...Option) (*Model, error) {
	o := gatherOptions(opts...)

	if err := checkStructure(set); err != nil {
		return nil, err
	}

	t, err := topo.Reduce(set)
	if err != nil {
		return nil, err
	}

	m := &Model{pid: o.pid}
	if m.pid == "" {
		m.pid = uuid.NewString()
	}

	canonical := make(map[string]string)
	for _, raw := range set.NodeIDs() {
		if canon, ok := t.Canonical(raw); ok {
			canonical[raw] = canon
		}
	}
	m.canonical = canonical

	var indexOf map[string]int
	m.nodes, indexOf, m.slacks, m.slackNodes = indexNodes(set, t)
	m.indexOf = indexOf

	if o.reachabilityWarnings {
		m.messages = append(m.messages, t.Messages()...)
	}

	var branchMsgs []records.Message
	m.terminals, m.bridges, branchMsgs = buildTerminals(set, canonical, indexOf)
	m.messages = append(m.messages, branchMsgs...)

	m.terminalOf = make(map[string]map[string]int)
	for _, term := range m.terminals {
		sides, ok := m.terminalOf[term.BranchID]
		if !ok {
			sides = make(map[string]int, 2)
			m.terminalOf[term.BranchID] = sides
		}
		sides[term.NodeID] = term.Index
	}

	m.injections, m.injectionOf = indexInjections(set, canonical, indexOf)
	m.incidence = newIncidence(len(m.nodes), m.injections)

	m.resolveBatches(set)

	return m, nil
}

// checkStructure rejects the violations that would make indices ambiguous.
func checkStructure(set *records.Set) error {
	branchIDs := make(map[string]struct{}, len(set.Branches))
	for _, br := range set.Branches {
		if _, dup := branchIDs[br.ID]; dup {
			return fmt.Errorf("%w: branch %q", ErrDuplicateID, br.ID)
		}
		branchIDs[br.ID] = struct{}{}
	}

	injectionIDs := make(map[string]struct{}, len(set.Injections))
	for _, inj := range set.Injections {
		if _, dup := injectionIDs[inj.ID]; dup {
			return fmt.Errorf("%w: injection %q", ErrDuplicateID, inj.ID)
		}
		injectionIDs[inj.ID] = struct{}{}
	}

	return nil
}
