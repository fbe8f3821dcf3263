package topo

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gridmodel/records"
)

// ErrMissingEndpoint indicates a branch record omits one of its node ids.
var ErrMissingEndpoint = errors.New("topo: branch endpoint missing")

// Topology is the result of the zero-impedance reduction: the mapping from
// every raw node id to its canonical calculation-node id, the merged groups,
// and warnings about nodes unreachable from every slack.
type Topology struct {
	canonical map[string]string
	groups    map[string][]string
	order     []string
	messages  []records.Message
}

// Reduce computes the connectivity closure over the set's zero-impedance
// connections and maps every declared raw node id to a canonical id.
//
// Steps:
//  1. Intern every declared raw node id (first-seen order) into an arena.
//  2. Union the two endpoints of every bridge branch (records.Branch.IsBridge).
//  3. Elect the lexicographically smallest member of each component as its
//     canonical id.
//  4. Order canonical ids by the first-seen position of their earliest member,
//     so index assignment downstream is reproducible for a stable input.
//  5. Flag canonical nodes unreachable from every slack over the full branch
//     graph with warning messages (skipped when the set has no slack at all —
//     that condition is reported by check, not here).
//
// Guarantee: two raw ids share a canonical id iff they are connected by a
// zero-impedance path. Ordinary branches never merge nodes.
//
// Complexity: near-linear in nodes+branches (inverse-Ackermann union-find).
func Reduce(set *records.Set) (*Topology, error) {
	for _, br := range set.Branches {
		if br.NodeA == "" || br.NodeB == "" {
			return nil, fmt.Errorf("%w: branch %q", ErrMissingEndpoint, br.ID)
		}
	}

	// 1. Arena of raw ids in first-seen order.
	raw := set.NodeIDs()
	index := make(map[string]int, len(raw))
	for i, id := range raw {
		index[id] = i
	}

	// 2. Union over zero-impedance connections only.
	uf := newUnionFind(len(raw))
	for _, br := range set.Branches {
		if br.IsBridge() {
			uf.union(index[br.NodeA], index[br.NodeB])
		}
	}

	// 3. Elect canonical representatives: smallest member id per component.
	repr := make(map[int]string)
	for i, id := range raw {
		root := uf.find(i)
		if cur, ok := repr[root]; !ok || id < cur {
			repr[root] = id
		}
	}

	// 4. Build the mapping and the first-seen component order.
	t := &Topology{
		canonical: make(map[string]string, len(raw)),
		groups:    make(map[string][]string),
	}
	seen := make(map[int]struct{})
	for i, id := range raw {
		root := uf.find(i)
		canon := repr[root]
		t.canonical[id] = canon
		t.groups[canon] = append(t.groups[canon], id)
		if _, ok := seen[root]; !ok {
			seen[root] = struct{}{}
			t.order = append(t.order, canon)
		}
	}

	// 5. Slack-reachability warnings.
	t.flagUnreachable(set)

	return t, nil
}

// Canonical resolves a raw node id to its canonical calculation-node id.
// The second result is false for ids the set never declared.
func (t *Topology) Canonical(raw string) (string, bool) {
	canon, ok := t.canonical[raw]

	return canon, ok
}

// CanonicalIDs returns the canonical node ids in deterministic first-seen
// order. The returned slice is a copy.
func (t *Topology) CanonicalIDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)

	return out
}

// Group returns the raw member ids merged into the given canonical node,
// in first-seen order. Nil for unknown canonical ids.
func (t *Topology) Group(canonical string) []string {
	members, ok := t.groups[canonical]
	if !ok {
		return nil
	}
	out := make([]string, len(members))
	copy(out, members)

	return out
}

// Messages returns the warnings collected during reduction.
func (t *Topology) Messages() []records.Message {
	out := make([]records.Message, len(t.messages))
	copy(out, t.messages)

	return out
}

// flagUnreachable walks the full branch graph (bridges included) from every
// slack's canonical node and records a warning for each canonical node the
// walk never reaches. BFS over canonical ids.
func (t *Topology) flagUnreachable(set *records.Set) {
	if len(set.Slacks) == 0 {
		return
	}

	adj := make(map[string][]string)
	for _, br := range set.Branches {
		a := t.canonical[br.NodeA]
		b := t.canonical[br.NodeB]
		if a == b {
			continue
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	reached := make(map[string]struct{})
	var queue []string
	for _, sl := range set.Slacks {
		canon, ok := t.canonical[sl.NodeID]
		if !ok {
			continue
		}
		if _, dup := reached[canon]; !dup {
			reached[canon] = struct{}{}
			queue = append(queue, canon)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		for _, next := range adj[queue[qi]] {
			if _, dup := reached[next]; !dup {
				reached[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}

	for _, canon := range t.order {
		if _, ok := reached[canon]; !ok {
			t.messages = append(t.messages, records.Warning(
				fmt.Sprintf("node %q is unreachable from any slack", canon)))
		}
	}
}
