package factors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridmodel/factors"
	"github.com/katalvlaran/gridmodel/model"
	"github.com/katalvlaran/gridmodel/records"
)

// TestNew_AgainstAssembledModel wires the factor manager to a real assembled
// Model: terminal links resolve through the zero-impedance closure and
// injection links land on assembly-time injection indices.
func TestNew_AgainstAssembledModel(t *testing.T) {
	set := &records.Set{
		Slacks: []records.Slack{{NodeID: "n0", V: 1}},
		Branches: []records.Branch{
			{ID: "trafo_0", NodeA: "n0", NodeB: "n1", YLo: complex(1e3, -1e3)},
			records.Bridge("sw_0", "n1", "n1_bus"),
		},
		Injections: []records.Injection{
			{ID: "consumer_0", NodeID: "n1_bus", P10: 30, Q10: 10},
		},
		Defs: []records.DefK{records.Def([]string{"kp", "kt"}, 0)},
		InjLinks: []records.InjLink{{
			Steps:       []int{0},
			InjectionID: "consumer_0",
			Part:        "pq",
			FactorIDs:   []string{"kp", "kp"},
		}},
		TermLinks: []records.TermLink{{
			// n1_bus merges into n1; the link still finds side B.
			Steps:    []int{0},
			BranchID: "trafo_0",
			NodeID:   "n1_bus",
			FactorID: "kt",
		}},
	}

	m, err := model.Assemble(set)
	require.NoError(t, err)

	f, msgs, err := factors.New(set, m, m)
	require.NoError(t, err)
	require.Empty(t, msgs)

	terms := f.TermGroups(0)
	require.Len(t, terms, 1)
	require.Equal(t, model.SideB, m.BranchTerminals()[terms[0].TerminalIndex].Side)
	require.Equal(t, model.SideA, m.BranchTerminals()[terms[0].OtherTerminalIndex].Side)

	injAssocs := f.InjGroups(0)
	require.Len(t, injAssocs, 2)
	idx, ok := m.InjectionIndex("consumer_0")
	require.True(t, ok)
	for _, a := range injAssocs {
		require.Equal(t, idx, a.InjectionIndex)
		require.Equal(t, "kp", a.FactorID)
	}
}
