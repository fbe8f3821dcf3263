package records

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const framesDoc = `
slacks:
  - node: n0
branches:
  - id: line_0
    node_a: n0
    node_b: n1
    y_lo: [1000.0, -1000.0]
    y_tr_half: [0.0, 0.001]
  - id: sw_0
    node_a: n1
    node_b: n2
    bridge: true
taps:
  - id: taps_0
    branch: line_0
    node: n0
    v_step: 0.01
    position_min: -16
    position_neutral: 0
    position_max: 16
    position: 3
injections:
  - id: consumer_0
    node: n2
    p10: 30.0
    q10: 10.0
    exp_v_p: 1.2
outputs:
  - batch: pq_line_0
    device: line_0
    node: n0
p_values:
  - batch: pq_line_0
    p: 30.0
q_values:
  - batch: pq_line_0
    q: 8.0
    direction: -1
i_values:
  - batch: pq_line_0
    i: 0.42
v_values:
  - node: n1
    v: 0.98
factors:
  - ids: [kp]
    steps: [0, 1]
    type: const
    value: 0.9
injection_links:
  - steps: [0, 1]
    injection: consumer_0
    part: pq
    factors: [kp, kp]
terminal_links:
  - steps: [0]
    branch: line_0
    node: n0
    factor: kp
`

// TestFromYAML_FullDocument decodes every frame kind and the documented
// defaults.
func TestFromYAML_FullDocument(t *testing.T) {
	set, err := FromYAML([]byte(framesDoc))
	require.NoError(t, err)

	require.Len(t, set.Slacks, 1)
	require.Equal(t, complex(1, 0), set.Slacks[0].V, "omitted slack voltage defaults to 1+0j")

	require.Len(t, set.Branches, 2)
	require.Equal(t, complex(1000, -1000), set.Branches[0].YLo)
	require.Equal(t, complex(0, 0.001), set.Branches[0].YTrHalf)
	require.True(t, set.Branches[1].IsBridge(), "bridge: true maps to non-finite y_lo")

	require.Len(t, set.Taps, 1)
	require.Equal(t, "line_0", set.Taps[0].BranchID)
	require.Equal(t, -16, set.Taps[0].PositionMin)
	require.Equal(t, 3, set.Taps[0].Position)

	require.Len(t, set.Injections, 1)
	require.Equal(t, 1.2, set.Injections[0].ExpVP)

	require.Equal(t, []Output{{BatchID: "pq_line_0", DeviceID: "line_0", NodeID: "n0"}}, set.Outputs)
	require.Equal(t, []PValue{{BatchID: "pq_line_0", P: 30, Direction: 1}}, set.PValues,
		"omitted direction defaults to +1")
	require.Equal(t, []QValue{{BatchID: "pq_line_0", Q: 8, Direction: -1}}, set.QValues)
	require.Equal(t, []IValue{{BatchID: "pq_line_0", I: 0.42}}, set.IValues)
	require.Equal(t, []VValue{{NodeID: "n1", V: 0.98}}, set.VValues)

	require.Len(t, set.Defs, 1)
	def := set.Defs[0]
	require.Equal(t, []string{"kp"}, def.IDs)
	require.Equal(t, []int{0, 1}, def.Steps)
	require.Equal(t, TypeConst, def.Type)
	require.Equal(t, 0.9, def.Value)
	require.True(t, math.IsInf(def.Min, -1), "omitted bounds keep the Def defaults")
	require.Equal(t, 1.0, def.M)

	require.Len(t, set.InjLinks, 1)
	require.Equal(t, "pq", set.InjLinks[0].Part)
	require.Len(t, set.TermLinks, 1)
	require.Equal(t, "kp", set.TermLinks[0].FactorID)
}

// TestFromYAML_EquivalentToDirectSet: the file-borne path converges on the
// same Set as direct construction.
func TestFromYAML_EquivalentToDirectSet(t *testing.T) {
	doc := `
slacks:
  - node: n0
    v: [1.02, 0.0]
branches:
  - id: line_0
    node_a: n0
    node_b: n1
    y_lo: [1.0, -1.0]
`
	fromYAML, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	direct := &Set{
		Slacks:   []Slack{{NodeID: "n0", V: complex(1.02, 0)}},
		Branches: []Branch{{ID: "line_0", NodeA: "n0", NodeB: "n1", YLo: complex(1, -1)}},
	}
	require.Equal(t, direct, fromYAML)
}

// TestFromYAML_Invalid rejects a malformed document.
func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte("slacks: {not: [a, list"))
	require.ErrorIs(t, err, ErrBadYAML)
}

// TestFromYAML_Empty yields an empty Set.
func TestFromYAML_Empty(t *testing.T) {
	set, err := FromYAML(nil)
	require.NoError(t, err)
	require.Equal(t, &Set{}, set)
}
