package model

import (
	"fmt"

	"github.com/katalvlaran/gridmodel/records"
)

// resolveBatches turns Output associations into index-based terminal
// references and joins the measured-value records onto them.
//
// Resolution per Output:
//   - device id matches an ordinary branch: the node id selects the terminal
//     side, resolved to a BranchTerminal row;
//   - device id matches a bridge: node linkage only, flagged Bridge;
//   - device id matches an injection: its sole terminal, node id ignored;
//   - anything else is an error message and excludes the batch.
//
// A batch with any unresolvable association is dropped wholesale from the
// usable tables; its error messages identify every failing Output. Value
// records referencing a missing or dropped batch are themselves dropped with
// an error message. Assembly always completes.
func (m *Model) resolveBatches(set *records.Set) {
	bridgeOf := make(map[string][]BridgeTerminal)
	for _, bt := range m.bridges {
		bridgeOf[bt.BranchID] = append(bridgeOf[bt.BranchID], bt)
	}
	branchIDs := make(map[string]struct{}, len(set.Branches))
	for _, br := range set.Branches {
		branchIDs[br.ID] = struct{}{}
	}

	var order []string
	byID := make(map[string]*Batch)
	failed := make(map[string]bool)

	for _, out := range set.Outputs {
		b, ok := byID[out.BatchID]
		if !ok {
			order = append(order, out.BatchID)
			b = &Batch{ID: out.BatchID}
			byID[out.BatchID] = b
		}

		ref, msg := m.resolveOutput(out, branchIDs, bridgeOf)
		if msg != nil {
			m.messages = append(m.messages, *msg)
			failed[out.BatchID] = true
			continue
		}
		b.Refs = append(b.Refs, ref)
	}

	for _, id := range order {
		if failed[id] {
			continue
		}
		m.batches = append(m.batches, *byID[id])
	}
	usable := make(map[string]*Batch, len(m.batches))
	for i := range m.batches {
		usable[m.batches[i].ID] = &m.batches[i]
	}

	m.joinValues(set, usable)
}

// resolveOutput resolves one association; exactly one of the returned values
// is meaningful.
func (m *Model) resolveOutput(out records.Output, branchIDs map[string]struct{}, bridgeOf map[string][]BridgeTerminal) (TerminalRef, *records.Message) {
	fail := func(text string) (TerminalRef, *records.Message) {
		msg := records.Error(text)

		return TerminalRef{}, &msg
	}

	if idx, ok := m.injectionOf[out.DeviceID]; ok {
		return TerminalRef{
			BatchID:        out.BatchID,
			DeviceID:       out.DeviceID,
			TerminalIndex:  -1,
			InjectionIndex: idx,
			NodeIndex:      m.injections[idx].NodeIndex,
		}, nil
	}

	if bts, ok := bridgeOf[out.DeviceID]; ok {
		canon, ok := m.canonical[out.NodeID]
		if !ok {
			return fail(fmt.Sprintf(
				"batch %q: node %q is not a terminal of bridge %q",
				out.BatchID, out.NodeID, out.DeviceID))
		}
		for _, bt := range bts {
			if bt.NodeID == canon {
				return TerminalRef{
					BatchID:        out.BatchID,
					DeviceID:       out.DeviceID,
					TerminalIndex:  -1,
					InjectionIndex: -1,
					NodeIndex:      bt.NodeIndex,
					Bridge:         true,
				}, nil
			}
		}

		return fail(fmt.Sprintf(
			"batch %q: node %q is not a terminal of bridge %q",
			out.BatchID, out.NodeID, out.DeviceID))
	}

	if _, ok := branchIDs[out.DeviceID]; ok {
		if out.NodeID == "" {
			return fail(fmt.Sprintf(
				"batch %q: branch %q needs a node id to select the terminal side",
				out.BatchID, out.DeviceID))
		}
		idx, ok := m.Terminal(out.DeviceID, out.NodeID)
		if !ok {
			return fail(fmt.Sprintf(
				"batch %q: no usable terminal of branch %q at node %q",
				out.BatchID, out.DeviceID, out.NodeID))
		}

		return TerminalRef{
			BatchID:        out.BatchID,
			DeviceID:       out.DeviceID,
			TerminalIndex:  idx,
			InjectionIndex: -1,
			NodeIndex:      m.terminals[idx].NodeIndex,
		}, nil
	}

	return fail(fmt.Sprintf(
		"batch %q: device %q matches neither a branch nor an injection",
		out.BatchID, out.DeviceID))
}

// joinValues sums P/Q/I records per usable batch and resolves voltage values
// to node indices.
func (m *Model) joinValues(set *records.Set, usable map[string]*Batch) {
	type pq struct {
		p, q      float64
		direction float64
		hasDir    bool
	}
	sums := make(map[string]*pq)
	var pqOrder []string
	join := func(batchID string, kind string) (*Batch, *pq) {
		b, ok := usable[batchID]
		if !ok {
			m.messages = append(m.messages, records.Error(fmt.Sprintf(
				"%s value references unknown batch %q", kind, batchID)))
			return nil, nil
		}
		s, ok := sums[batchID]
		if !ok {
			s = &pq{}
			sums[batchID] = s
			pqOrder = append(pqOrder, batchID)
		}

		return b, s
	}

	for _, v := range set.PValues {
		b, s := join(v.BatchID, "P")
		if b == nil {
			continue
		}
		b.HasP = true
		s.p += v.P
		if !s.hasDir {
			s.direction = v.Direction
			s.hasDir = true
		}
	}
	for _, v := range set.QValues {
		b, s := join(v.BatchID, "Q")
		if b == nil {
			continue
		}
		b.HasQ = true
		s.q += v.Q
		if !s.hasDir {
			s.direction = v.Direction
			s.hasDir = true
		}
	}
	for _, id := range pqOrder {
		s := sums[id]
		m.pqRows = append(m.pqRows, PQRow{BatchID: id, P: s.p, Q: s.q, Direction: s.direction})
	}

	iSums := make(map[string]float64)
	var iOrder []string
	for _, v := range set.IValues {
		b, ok := usable[v.BatchID]
		if !ok {
			m.messages = append(m.messages, records.Error(fmt.Sprintf(
				"I value references unknown batch %q", v.BatchID)))
			continue
		}
		b.HasI = true
		if _, seen := iSums[v.BatchID]; !seen {
			iOrder = append(iOrder, v.BatchID)
		}
		iSums[v.BatchID] += v.I
	}
	for _, id := range iOrder {
		m.iRows = append(m.iRows, IRow{BatchID: id, I: iSums[id]})
	}

	for _, v := range set.VValues {
		idx, ok := m.NodeIndex(v.NodeID)
		if !ok {
			m.messages = append(m.messages, records.Error(fmt.Sprintf(
				"V value references unknown node %q", v.NodeID)))
			continue
		}
		m.vRows = append(m.vRows, VRow{NodeID: m.canonical[v.NodeID], NodeIndex: idx, V: v.V})
	}
}
