package model

import (
	"github.com/katalvlaran/gridmodel/records"
	"github.com/katalvlaran/gridmodel/topo"
)

// indexNodes assigns contiguous indices to canonical nodes: slack nodes
// first (first-seen over the slack records), then every remaining canonical
// node in first-seen order. The slack prefix makes slack/non-slack matrix
// partitioning a plain index-range slice.
//
// Returns the node table, the canonical-id→index map, the slack table (one
// row per slack record) and the count of distinct slack nodes.
func indexNodes(set *records.Set, t *topo.Topology) ([]Node, map[string]int, []Slack, int) {
	indexOf := make(map[string]int)
	var nodes []Node
	add := func(canon string) {
		if _, ok := indexOf[canon]; ok {
			return
		}
		indexOf[canon] = len(nodes)
		nodes = append(nodes, Node{ID: canon, Index: len(nodes)})
	}

	for _, sl := range set.Slacks {
		if canon, ok := t.Canonical(sl.NodeID); ok {
			add(canon)
		}
	}
	slackNodes := len(nodes)
	for _, canon := range t.CanonicalIDs() {
		add(canon)
	}

	slacks := make([]Slack, 0, len(set.Slacks))
	for _, sl := range set.Slacks {
		canon, ok := t.Canonical(sl.NodeID)
		if !ok {
			continue
		}
		v := sl.V
		if v == 0 {
			v = complex(1, 0)
		}
		slacks = append(slacks, Slack{NodeID: canon, NodeIndex: indexOf[canon], V: v})
	}

	return nodes, indexOf, slacks, slackNodes
}

// indexInjections assigns injection indices in input order and resolves each
// injection to its calculation node.
func indexInjections(set *records.Set, canonical map[string]string, indexOf map[string]int) ([]Injection, map[string]int) {
	injections := make([]Injection, 0, len(set.Injections))
	injectionOf := make(map[string]int, len(set.Injections))
	for i, inj := range set.Injections {
		canon := canonical[inj.NodeID]
		injections = append(injections, Injection{
			ID:        inj.ID,
			Index:     i,
			NodeID:    canon,
			NodeIndex: indexOf[canon],
			P10:       inj.P10,
			Q10:       inj.Q10,
			ExpVP:     inj.ExpVP,
			ExpVQ:     inj.ExpVQ,
		})
		injectionOf[inj.ID] = i
	}

	return injections, injectionOf
}
