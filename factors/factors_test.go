package factors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridmodel/records"
)

// fakeTerminals resolves branch→node→terminal rows; each branch carries
// exactly two mirrored rows.
type fakeTerminals map[string]map[string]int

func (ft fakeTerminals) Terminal(branchID, nodeID string) (int, bool) {
	idx, ok := ft[branchID][nodeID]

	return idx, ok
}

func (ft fakeTerminals) OtherTerminal(branchID, nodeID string) (int, bool) {
	sides, ok := ft[branchID]
	if !ok {
		return 0, false
	}
	for node, idx := range sides {
		if node != nodeID {
			return idx, true
		}
	}

	return 0, false
}

type fakeInjections map[string]int

func (fi fakeInjections) InjectionIndex(id string) (int, bool) {
	idx, ok := fi[id]

	return idx, ok
}

// kpSet declares factor kp for steps 0..2 linked to consumer_0 on both power
// parts, mirroring a plain scaling setup.
func kpSet() *records.Set {
	return &records.Set{
		Injections: []records.Injection{{ID: "consumer_0", NodeID: "n2", P10: 30, Q10: 10}},
		Defs:       []records.DefK{records.Def([]string{"kp"}, 0, 1, 2)},
		InjLinks: []records.InjLink{{
			Steps:       []int{0, 1, 2},
			InjectionID: "consumer_0",
			Part:        "pq",
			FactorIDs:   []string{"kp", "kp"},
		}},
	}
}

// TestNew_GroupStepSubset: grouping over {0,1} out of three declared steps
// returns exactly one row per requested step.
func TestNew_GroupStepSubset(t *testing.T) {
	f, msgs, err := New(kpSet(), fakeTerminals{}, fakeInjections{"consumer_0": 0})
	require.NoError(t, err)
	require.Empty(t, msgs)

	rows := f.Group(0, 1)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, "kp", row.ID)
	}
	require.Equal(t, 0, rows[0].Step)
	require.Equal(t, 1, rows[1].Step)

	require.Empty(t, f.Group(7), "unknown step yields no rows, not an error")
	require.Equal(t, []int{0, 1, 2}, f.Steps())
}

// TestNew_SourceChaining: each step's row initializes from the same-named
// row of the previous step; step 0 falls back to its Value.
func TestNew_SourceChaining(t *testing.T) {
	f, _, err := New(kpSet(), fakeTerminals{}, fakeInjections{"consumer_0": 0})
	require.NoError(t, err)

	k0, ok := f.Lookup(0, "kp")
	require.True(t, ok)
	require.Equal(t, -1, k0.SourceIndex)
	require.Equal(t, 1.0, k0.Value)

	k1, _ := f.Lookup(1, "kp")
	require.Equal(t, k0.SymbolIndex, k1.SourceIndex)
	k2, _ := f.Lookup(2, "kp")
	require.Equal(t, k1.SymbolIndex, k2.SourceIndex)
}

// TestNew_GenericSource: a generic (step -1) row feeds step 0.
func TestNew_GenericSource(t *testing.T) {
	set := kpSet()
	set.Defs = append(set.Defs, records.Def([]string{"kp"}, records.GenericStep))

	f, msgs, err := New(set, fakeTerminals{}, fakeInjections{"consumer_0": 0})
	require.NoError(t, err)
	require.Empty(t, msgs)

	generic, ok := f.Lookup(records.GenericStep, "kp")
	require.True(t, ok)
	k0, _ := f.Lookup(0, "kp")
	require.Equal(t, generic.SymbolIndex, k0.SourceIndex)

	require.Len(t, f.Group(records.GenericStep), 1)
}

// TestNew_DanglingSource: an explicit source naming no factor of the
// previous step is an error message; the row keeps its Value fallback.
func TestNew_DanglingSource(t *testing.T) {
	set := kpSet()
	def := records.Def([]string{"kq"}, 1)
	def.SourceID = "ghost"
	set.Defs = append(set.Defs, def)

	f, msgs, err := New(set, fakeTerminals{}, fakeInjections{"consumer_0": 0})
	require.NoError(t, err)

	require.Len(t, msgs, 1)
	require.Equal(t, records.LevelError, msgs[0].Level)
	require.Contains(t, msgs[0].Text, `"ghost"`)

	kq, _ := f.Lookup(1, "kq")
	require.Equal(t, -1, kq.SourceIndex)
}

// TestNew_DuplicateFactor aborts: symbol indices would be ambiguous.
func TestNew_DuplicateFactor(t *testing.T) {
	set := kpSet()
	set.Defs = append(set.Defs, records.Def([]string{"kp"}, 1))

	_, _, err := New(set, fakeTerminals{}, fakeInjections{"consumer_0": 0})
	require.ErrorIs(t, err, ErrDuplicateFactor)
}

// TestNew_DefaultSubstitution: an injection without links in a declared step
// gets the constant default factor on both parts, with an info message.
func TestNew_DefaultSubstitution(t *testing.T) {
	set := kpSet()
	set.Injections = append(set.Injections, records.Injection{ID: "consumer_1", NodeID: "n1"})

	f, msgs, err := New(set, fakeTerminals{}, fakeInjections{"consumer_0": 0, "consumer_1": 1})
	require.NoError(t, err)

	// One info per step; consumer_1 lacks links everywhere.
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		require.Equal(t, records.LevelInfo, m.Level)
	}

	def, ok := f.Lookup(0, records.DefaultFactorID)
	require.True(t, ok)
	require.Equal(t, records.TypeConst, def.Type)
	require.Equal(t, 1.0, def.Value)

	assocs := f.InjGroups(0)
	require.Len(t, assocs, 4, "kp on p+q, default on p+q")
	defaulted := 0
	for _, a := range assocs {
		if a.FactorID == records.DefaultFactorID {
			defaulted++
			require.Equal(t, "consumer_1", a.InjectionID)
			require.Equal(t, 1, a.InjectionIndex)
		}
	}
	require.Equal(t, 2, defaulted)
}

// TestNew_InjLinkValidation covers the malformed-link paths.
func TestNew_InjLinkValidation(t *testing.T) {
	set := &records.Set{
		Defs: []records.DefK{records.Def([]string{"kp"}, 0)},
		InjLinks: []records.InjLink{
			{Steps: []int{0}, InjectionID: "c0", Part: "x", FactorIDs: []string{"kp"}},
			{Steps: []int{0}, InjectionID: "c0", Part: "pq", FactorIDs: []string{"kp"}},
			{Steps: []int{0}, InjectionID: "ghost", Part: "p", FactorIDs: []string{"kp"}},
			{Steps: []int{0}, InjectionID: "c0", Part: "p", FactorIDs: []string{"missing"}},
		},
	}

	f, msgs, err := New(set, fakeTerminals{}, fakeInjections{"c0": 0})
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	for _, m := range msgs {
		require.Equal(t, records.LevelError, m.Level)
	}
	require.Empty(t, f.InjGroups(0))
}

// TestNew_TerminalLinks: terminal links resolve both the linked and the
// mirrored terminal.
func TestNew_TerminalLinks(t *testing.T) {
	set := &records.Set{
		Defs: []records.DefK{records.Def([]string{"kt"}, 0, 1)},
		TermLinks: []records.TermLink{
			{Steps: []int{0, 1}, BranchID: "trafo_0", NodeID: "n0", FactorID: "kt"},
			{Steps: []int{0}, BranchID: "ghost", NodeID: "n0", FactorID: "kt"},
		},
	}
	terminals := fakeTerminals{"trafo_0": {"n0": 0, "n1": 1}}

	f, msgs, err := New(set, terminals, fakeInjections{})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Text, `"ghost"`)

	assocs := f.TermGroups(0, 1)
	require.Len(t, assocs, 2)
	require.Equal(t, 0, assocs[0].TerminalIndex)
	require.Equal(t, 1, assocs[0].OtherTerminalIndex)
	require.Equal(t, "kt", assocs[0].FactorID)

	require.Len(t, f.TermGroups(1), 1)
}

// TestNew_NoFactors: a factorless set yields an empty, queryable state.
func TestNew_NoFactors(t *testing.T) {
	set := &records.Set{
		Injections: []records.Injection{{ID: "c0", NodeID: "n0"}},
	}

	f, msgs, err := New(set, fakeTerminals{}, fakeInjections{"c0": 0})
	require.NoError(t, err)
	require.Empty(t, msgs, "no declared steps, no default substitution")
	require.Empty(t, f.Rows())
	require.Empty(t, f.Group(0))
	require.Empty(t, f.Steps())
}
