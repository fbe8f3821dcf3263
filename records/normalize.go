package records

import (
	"errors"
	"fmt"
)

// ErrUnknownRecord indicates Flatten met a value whose type is not part of
// the device-record set.
var ErrUnknownRecord = errors.New("records: unknown record type")

// Flatten normalizes an ordered, possibly nested collection of typed device
// records into per-kind tables.
//
// Accepted elements:
//   - any record type of this package, by value or by pointer;
//   - a *Set, merged table-wise in order;
//   - []any or a typed slice of any accepted element, recursively.
//
// Steps:
//  1. Walk the arguments depth-first, preserving encounter order.
//  2. Dispatch each leaf by type into the matching Set table.
//  3. Reject anything else with ErrUnknownRecord naming the offending type.
//
// The record order inside each table is the encounter order, which is what
// makes downstream index assignment reproducible for a stable input.
//
// Complexity: O(n) over the total number of leaves.
func Flatten(args ...any) (*Set, error) {
	set := &Set{}
	for _, arg := range args {
		if err := flattenInto(set, arg); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// flattenInto dispatches one element, recursing into collections.
func flattenInto(set *Set, arg any) error {
	switch v := arg.(type) {
	case nil:
		return nil
	case Slack:
		set.Slacks = append(set.Slacks, v)
	case *Slack:
		set.Slacks = append(set.Slacks, *v)
	case Branch:
		set.Branches = append(set.Branches, v)
	case *Branch:
		set.Branches = append(set.Branches, *v)
	case Taps:
		set.Taps = append(set.Taps, v)
	case *Taps:
		set.Taps = append(set.Taps, *v)
	case Injection:
		set.Injections = append(set.Injections, v)
	case *Injection:
		set.Injections = append(set.Injections, *v)
	case Output:
		set.Outputs = append(set.Outputs, v)
	case *Output:
		set.Outputs = append(set.Outputs, *v)
	case PValue:
		set.PValues = append(set.PValues, v)
	case *PValue:
		set.PValues = append(set.PValues, *v)
	case QValue:
		set.QValues = append(set.QValues, v)
	case *QValue:
		set.QValues = append(set.QValues, *v)
	case IValue:
		set.IValues = append(set.IValues, v)
	case *IValue:
		set.IValues = append(set.IValues, *v)
	case VValue:
		set.VValues = append(set.VValues, v)
	case *VValue:
		set.VValues = append(set.VValues, *v)
	case DefK:
		set.Defs = append(set.Defs, v)
	case *DefK:
		set.Defs = append(set.Defs, *v)
	case InjLink:
		set.InjLinks = append(set.InjLinks, v)
	case *InjLink:
		set.InjLinks = append(set.InjLinks, *v)
	case TermLink:
		set.TermLinks = append(set.TermLinks, v)
	case *TermLink:
		set.TermLinks = append(set.TermLinks, *v)
	case *Set:
		set.merge(v)
	case Set:
		set.merge(&v)
	case []any:
		for _, e := range v {
			if err := flattenInto(set, e); err != nil {
				return err
			}
		}
	case []Slack:
		set.Slacks = append(set.Slacks, v...)
	case []Branch:
		set.Branches = append(set.Branches, v...)
	case []Taps:
		set.Taps = append(set.Taps, v...)
	case []Injection:
		set.Injections = append(set.Injections, v...)
	case []Output:
		set.Outputs = append(set.Outputs, v...)
	case []PValue:
		set.PValues = append(set.PValues, v...)
	case []QValue:
		set.QValues = append(set.QValues, v...)
	case []IValue:
		set.IValues = append(set.IValues, v...)
	case []VValue:
		set.VValues = append(set.VValues, v...)
	case []DefK:
		set.Defs = append(set.Defs, v...)
	case []InjLink:
		set.InjLinks = append(set.InjLinks, v...)
	case []TermLink:
		set.TermLinks = append(set.TermLinks, v...)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownRecord, arg)
	}

	return nil
}

// merge appends every table of other onto set, preserving order.
func (s *Set) merge(other *Set) {
	s.Slacks = append(s.Slacks, other.Slacks...)
	s.Branches = append(s.Branches, other.Branches...)
	s.Taps = append(s.Taps, other.Taps...)
	s.Injections = append(s.Injections, other.Injections...)
	s.Outputs = append(s.Outputs, other.Outputs...)
	s.PValues = append(s.PValues, other.PValues...)
	s.QValues = append(s.QValues, other.QValues...)
	s.IValues = append(s.IValues, other.IValues...)
	s.VValues = append(s.VValues, other.VValues...)
	s.Defs = append(s.Defs, other.Defs...)
	s.InjLinks = append(s.InjLinks, other.InjLinks...)
	s.TermLinks = append(s.TermLinks, other.TermLinks...)
}

// NodeIDs returns every raw node id declared by the set, in first-seen order
// over slacks, branches and injections. Voltage values and outputs reference
// nodes but never declare them; dangling references there are resolution
// errors, not new nodes. The order feeds the deterministic index assignment
// of the model package.
func (s *Set) NodeIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, sl := range s.Slacks {
		add(sl.NodeID)
	}
	for _, br := range s.Branches {
		add(br.NodeA)
		add(br.NodeB)
	}
	for _, inj := range s.Injections {
		add(inj.NodeID)
	}

	return ids
}
