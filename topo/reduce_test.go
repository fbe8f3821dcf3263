package topo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridmodel/records"
)

// chain builds n0 —line— n1 —line— n2 with a slack at n0.
func chain() *records.Set {
	return &records.Set{
		Slacks: []records.Slack{{NodeID: "n0", V: 1}},
		Branches: []records.Branch{
			{ID: "line_0", NodeA: "n0", NodeB: "n1", YLo: complex(1, -1)},
			{ID: "line_1", NodeA: "n1", NodeB: "n2", YLo: complex(1, -1)},
		},
	}
}

// TestReduce_NoBridges verifies that ordinary branches never merge nodes:
// every raw id is its own canonical id.
func TestReduce_NoBridges(t *testing.T) {
	topo, err := Reduce(chain())
	require.NoError(t, err)

	require.Equal(t, []string{"n0", "n1", "n2"}, topo.CanonicalIDs())
	for _, id := range []string{"n0", "n1", "n2"} {
		canon, ok := topo.Canonical(id)
		require.True(t, ok)
		require.Equal(t, id, canon)
	}
}

// TestReduce_BridgeMergesNodes verifies the zero-impedance closure: nodes
// joined by a closed switch share one canonical id, chosen as the
// lexicographically smallest member.
func TestReduce_BridgeMergesNodes(t *testing.T) {
	set := chain()
	set.Branches = append(set.Branches, records.Bridge("sw_0", "n2", "n1"))

	topo, err := Reduce(set)
	require.NoError(t, err)

	c1, _ := topo.Canonical("n1")
	c2, _ := topo.Canonical("n2")
	require.Equal(t, c1, c2)
	require.Equal(t, "n1", c1, "smallest member id wins")
	require.Equal(t, []string{"n0", "n1"}, topo.CanonicalIDs())
	require.Equal(t, []string{"n1", "n2"}, topo.Group("n1"))
}

// TestReduce_TransitiveClosure chains three switches and expects a single
// four-node group.
func TestReduce_TransitiveClosure(t *testing.T) {
	set := &records.Set{
		Branches: []records.Branch{
			records.Bridge("sw_0", "d", "c"),
			records.Bridge("sw_1", "c", "b"),
			records.Bridge("sw_2", "b", "a"),
		},
	}

	topo, err := Reduce(set)
	require.NoError(t, err)

	require.Equal(t, []string{"d"}, topo.CanonicalIDs()[:1])
	canon, _ := topo.Canonical("d")
	require.Equal(t, "a", canon)
	require.ElementsMatch(t, []string{"a", "b", "c", "d"}, topo.Group("a"))
}

// TestReduce_UnknownRawID verifies the lookup miss path.
func TestReduce_UnknownRawID(t *testing.T) {
	topo, err := Reduce(chain())
	require.NoError(t, err)

	_, ok := topo.Canonical("nope")
	require.False(t, ok)
	require.Nil(t, topo.Group("nope"))
}

// TestReduce_UnreachableWarning: an island disconnected from every slack is
// retained but flagged.
func TestReduce_UnreachableWarning(t *testing.T) {
	set := chain()
	set.Branches = append(set.Branches,
		records.Branch{ID: "line_x", NodeA: "x0", NodeB: "x1", YLo: complex(2, -2)})

	topo, err := Reduce(set)
	require.NoError(t, err)

	msgs := topo.Messages()
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		require.Equal(t, records.LevelWarning, m.Level)
	}
	require.Contains(t, msgs[0].Text, `"x0"`)
	require.Contains(t, msgs[1].Text, `"x1"`)
}

// TestReduce_NoSlackNoWarnings: with no slack at all, reachability is
// meaningless and no warnings are emitted.
func TestReduce_NoSlackNoWarnings(t *testing.T) {
	set := chain()
	set.Slacks = nil

	topo, err := Reduce(set)
	require.NoError(t, err)
	require.Empty(t, topo.Messages())
}

// TestReduce_MissingEndpoint rejects a branch without both node ids.
func TestReduce_MissingEndpoint(t *testing.T) {
	set := &records.Set{
		Branches: []records.Branch{{ID: "broken", NodeA: "n0", YLo: 1}},
	}

	_, err := Reduce(set)
	require.ErrorIs(t, err, ErrMissingEndpoint)
	require.Contains(t, err.Error(), `"broken"`)
}

// TestReduce_Empty: an empty set reduces to an empty topology.
func TestReduce_Empty(t *testing.T) {
	topo, err := Reduce(&records.Set{})
	require.NoError(t, err)
	require.Empty(t, topo.CanonicalIDs())
	require.Empty(t, topo.Messages())
}
