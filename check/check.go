package check

import (
	"fmt"

	"github.com/katalvlaran/gridmodel/records"
	"github.com/katalvlaran/gridmodel/topo"
)

// CheckSet validates the record set and returns every finding, ordered by
// concern: counts, duplicate ids, branch endpoints, taps, factors, factor
// links, measurement references, connectivity. The set is never mutated and
// the function never fails; an unusable set simply yields error messages.
//
// Complexity: near-linear in the record count.
func CheckSet(set *records.Set) []records.Message {
	var msgs []records.Message
	msgs = append(msgs, checkCounts(set)...)
	msgs = append(msgs, checkDuplicates(set)...)
	msgs = append(msgs, checkEndpoints(set)...)
	msgs = append(msgs, checkTaps(set)...)
	msgs = append(msgs, checkFactors(set)...)
	msgs = append(msgs, checkFactorLinks(set)...)
	msgs = append(msgs, checkMeasurements(set)...)
	msgs = append(msgs, checkConnectivity(set)...)

	return msgs
}

// FirstError returns the first error-level finding, or nil when the set has
// none. Warnings and infos never count.
func FirstError(set *records.Set) *records.Message {
	for _, m := range CheckSet(set) {
		if m.Level == records.LevelError {
			found := m

			return &found
		}
	}

	return nil
}

// checkCounts flags empty tables that make the model unusable or dubious.
func checkCounts(set *records.Set) []records.Message {
	var msgs []records.Message
	if len(set.NodeIDs()) == 0 {
		msgs = append(msgs, records.Error("the set declares no node"))
	}
	if len(set.Slacks) == 0 {
		msgs = append(msgs, records.Error("the set declares no slack"))
	}
	if len(set.Injections) == 0 {
		msgs = append(msgs, records.Warning("the set declares no injection"))
	}

	return msgs
}

// checkDuplicates flags device ids that would make indices ambiguous.
func checkDuplicates(set *records.Set) []records.Message {
	var msgs []records.Message
	dup := func(kind string, seen map[string]struct{}, id string) {
		if _, ok := seen[id]; ok {
			msgs = append(msgs, records.Error(fmt.Sprintf("duplicate %s id %q", kind, id)))
			return
		}
		seen[id] = struct{}{}
	}

	branches := make(map[string]struct{}, len(set.Branches))
	for _, br := range set.Branches {
		dup("branch", branches, br.ID)
	}
	injections := make(map[string]struct{}, len(set.Injections))
	for _, inj := range set.Injections {
		dup("injection", injections, inj.ID)
	}
	taps := make(map[string]struct{}, len(set.Taps))
	for _, t := range set.Taps {
		dup("taps", taps, t.ID)
	}

	return msgs
}

// checkEndpoints flags branches missing a node id.
func checkEndpoints(set *records.Set) []records.Message {
	var msgs []records.Message
	for _, br := range set.Branches {
		if br.NodeA == "" || br.NodeB == "" {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"branch %q misses a node id", br.ID)))
		}
	}

	return msgs
}

// checkTaps flags taps with dangling branch references or out-of-range
// positions.
func checkTaps(set *records.Set) []records.Message {
	branchIDs := make(map[string]struct{}, len(set.Branches))
	for _, br := range set.Branches {
		branchIDs[br.ID] = struct{}{}
	}

	var msgs []records.Message
	for _, t := range set.Taps {
		if _, ok := branchIDs[t.BranchID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"taps %q references unknown branch %q", t.ID, t.BranchID)))
		}
		if t.Position < t.PositionMin || t.Position > t.PositionMax {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"taps %q: position %d outside [%d, %d]",
				t.ID, t.Position, t.PositionMin, t.PositionMax)))
		}
	}

	return msgs
}

// checkFactors flags factor definitions whose explicit source names a factor
// id declared nowhere.
func checkFactors(set *records.Set) []records.Message {
	declared := make(map[string]struct{})
	for _, def := range set.Defs {
		for _, id := range def.IDs {
			declared[id] = struct{}{}
		}
	}

	var msgs []records.Message
	for _, def := range set.Defs {
		if def.SourceID == "" {
			continue
		}
		if _, ok := declared[def.SourceID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"factor definition %v: dangling source %q", def.IDs, def.SourceID)))
		}
	}

	return msgs
}

// checkFactorLinks flags links referencing missing factors, injections,
// branches, or malformed parts.
func checkFactorLinks(set *records.Set) []records.Message {
	declared := make(map[string]struct{})
	for _, def := range set.Defs {
		for _, id := range def.IDs {
			declared[id] = struct{}{}
		}
	}
	injectionIDs := make(map[string]struct{}, len(set.Injections))
	for _, inj := range set.Injections {
		injectionIDs[inj.ID] = struct{}{}
	}
	branchIDs := make(map[string]struct{}, len(set.Branches))
	for _, br := range set.Branches {
		branchIDs[br.ID] = struct{}{}
	}

	var msgs []records.Message
	for _, l := range set.InjLinks {
		if l.Part != "p" && l.Part != "q" && l.Part != "pq" {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"injection link for %q: unknown part %q", l.InjectionID, l.Part)))
		} else if len(l.FactorIDs) != len(l.Part) {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"injection link for %q: part %q needs %d factor id(s), got %d",
				l.InjectionID, l.Part, len(l.Part), len(l.FactorIDs))))
		}
		if _, ok := injectionIDs[l.InjectionID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"injection link references unknown injection %q", l.InjectionID)))
		}
		for _, id := range l.FactorIDs {
			if _, ok := declared[id]; !ok {
				msgs = append(msgs, records.Error(fmt.Sprintf(
					"injection link for %q references undeclared factor %q",
					l.InjectionID, id)))
			}
		}
	}
	for _, l := range set.TermLinks {
		if _, ok := branchIDs[l.BranchID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"terminal link references unknown branch %q", l.BranchID)))
		}
		if _, ok := declared[l.FactorID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"terminal link for branch %q references undeclared factor %q",
				l.BranchID, l.FactorID)))
		}
	}

	return msgs
}

// checkMeasurements flags outputs referencing missing devices and value rows
// referencing missing batches or nodes.
func checkMeasurements(set *records.Set) []records.Message {
	branchEndpoints := make(map[string][2]string, len(set.Branches))
	for _, br := range set.Branches {
		branchEndpoints[br.ID] = [2]string{br.NodeA, br.NodeB}
	}
	injectionIDs := make(map[string]struct{}, len(set.Injections))
	for _, inj := range set.Injections {
		injectionIDs[inj.ID] = struct{}{}
	}
	nodeIDs := make(map[string]struct{})
	for _, id := range set.NodeIDs() {
		nodeIDs[id] = struct{}{}
	}

	var msgs []records.Message
	batches := make(map[string]struct{}, len(set.Outputs))
	for _, out := range set.Outputs {
		batches[out.BatchID] = struct{}{}
		if _, ok := injectionIDs[out.DeviceID]; ok {
			continue
		}
		ends, ok := branchEndpoints[out.DeviceID]
		if !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"batch %q: device %q matches neither a branch nor an injection",
				out.BatchID, out.DeviceID)))
			continue
		}
		if out.NodeID == "" {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"batch %q: branch %q needs a node id to select the terminal side",
				out.BatchID, out.DeviceID)))
			continue
		}
		if out.NodeID != ends[0] && out.NodeID != ends[1] {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"batch %q: node %q is not an endpoint of branch %q",
				out.BatchID, out.NodeID, out.DeviceID)))
		}
	}

	missingBatch := func(kind, batchID string) {
		if _, ok := batches[batchID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"%s value references unknown batch %q", kind, batchID)))
		}
	}
	for _, v := range set.PValues {
		missingBatch("P", v.BatchID)
	}
	for _, v := range set.QValues {
		missingBatch("Q", v.BatchID)
	}
	for _, v := range set.IValues {
		missingBatch("I", v.BatchID)
	}
	for _, v := range set.VValues {
		if _, ok := nodeIDs[v.NodeID]; !ok {
			msgs = append(msgs, records.Error(fmt.Sprintf(
				"V value references unknown node %q", v.NodeID)))
		}
	}

	return msgs
}

// checkConnectivity reuses the reduction's slack-reachability walk. Sets
// whose branches fail endpoint validation skip the walk; checkEndpoints
// already reported them.
func checkConnectivity(set *records.Set) []records.Message {
	t, err := topo.Reduce(set)
	if err != nil {
		return nil
	}

	return t.Messages()
}
