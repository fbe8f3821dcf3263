package model

import "github.com/katalvlaran/gridmodel/records"

// Terminal sides of a two-terminal branch.
const (
	SideA = "A"
	SideB = "B"
)

// Node is one canonical calculation node with its contiguous index.
type Node struct {
	// ID is the canonical node id (smallest raw id of its merged group).
	ID string

	// Index is unique and contiguous in [0, NodeCount).
	Index int
}

// Slack is a voltage-reference row resolved to its calculation node.
type Slack struct {
	// NodeID is the canonical node id.
	NodeID string

	// NodeIndex is the node's index; slack nodes occupy the index prefix.
	NodeIndex int

	// V is the given complex voltage, per unit.
	V complex128
}

// BranchTerminal is one oriented endpoint of an ordinary branch, carrying the
// admittance parameters split into conductance/susceptance. The two rows of a
// branch are mirrored: identical parameters, swapped node indices.
type BranchTerminal struct {
	// Index is the row index within the terminal table.
	Index int

	// BranchID identifies the branch; BranchIndex counts ordinary branches
	// in input order.
	BranchID    string
	BranchIndex int

	// NodeID / NodeIndex locate this side; OtherNodeID / OtherNodeIndex the
	// opposite side. All node ids are canonical.
	NodeID         string
	OtherNodeID    string
	NodeIndex      int
	OtherNodeIndex int

	// GLo/BLo split the effective longitudinal admittance (taps correction
	// applied); GTrHalf/BTrHalf split the half transversal admittance.
	GLo     float64
	BLo     float64
	GTrHalf float64
	BTrHalf float64

	// GTot/BTot are the diagonal contributions: longitudinal + half
	// transversal.
	GTot float64
	BTot float64

	// Side is SideA or SideB.
	Side string
}

// BridgeTerminal is one endpoint of a zero-impedance bridge. Bridges carry no
// admittance parameters and never enter matrix assembly; the rows exist for
// topology inspection and Output resolution.
type BridgeTerminal struct {
	BranchID       string
	NodeID         string
	OtherNodeID    string
	NodeIndex      int
	OtherNodeIndex int
	Side           string
}

// Injection is an injection row resolved to its calculation node.
type Injection struct {
	// ID identifies the injection; Index counts injections in input order.
	ID    string
	Index int

	// NodeID is the canonical node id; NodeIndex its index.
	NodeID    string
	NodeIndex int

	// P10/Q10 are the powers at 1.0 pu voltage; ExpVP/ExpVQ the
	// voltage-dependency exponents.
	P10   float64
	Q10   float64
	ExpVP float64
	ExpVQ float64
}

// TerminalRef is one resolved Output association of a measurement batch.
type TerminalRef struct {
	// BatchID names the measurement point; DeviceID the referenced device.
	BatchID  string
	DeviceID string

	// TerminalIndex is the BranchTerminal row when the device is an ordinary
	// branch, -1 otherwise.
	TerminalIndex int

	// InjectionIndex is the injection row when the device is an injection,
	// -1 otherwise.
	InjectionIndex int

	// NodeIndex is the measured terminal's calculation node.
	NodeIndex int

	// Bridge marks a closed-switch terminal: node linkage only, no
	// admittance row.
	Bridge bool
}

// Batch summarizes one resolved measurement point: its terminal associations
// and which value kinds the input binds to it.
type Batch struct {
	ID   string
	Refs []TerminalRef

	// HasP/HasQ/HasI report which measured-value kinds reference the batch.
	HasP bool
	HasQ bool
	HasI bool
}

// PQRow is the power join of one batch: summed active/reactive values with
// the declared flow direction.
type PQRow struct {
	BatchID string

	// P and Q are the summed measured powers, per unit.
	P float64
	Q float64

	// Direction is -1 device→node, +1 node→device.
	Direction float64
}

// IRow is the current-magnitude join of one batch.
type IRow struct {
	BatchID string
	I       float64
}

// VRow is a voltage magnitude resolved to a calculation node.
type VRow struct {
	NodeID    string
	NodeIndex int
	V         float64
}

// Model is the immutable assembled result. All accessors return copies; a
// Model never changes after Assemble returns it.
type Model struct {
	pid string

	nodes      []Node
	slacks     []Slack
	slackNodes int

	terminals []BranchTerminal
	bridges   []BridgeTerminal

	injections []Injection
	incidence  *Incidence

	batches []Batch
	pqRows  []PQRow
	iRows   []IRow
	vRows   []VRow

	// raw → canonical → index lookup for callers holding raw ids.
	canonical map[string]string
	indexOf   map[string]int

	// terminal lookup keyed by branch id then node id, injection lookup by id.
	terminalOf  map[string]map[string]int
	injectionOf map[string]int

	messages []records.Message
}

// PID is the generated (or pinned) instance id of this assembly. It is the
// one field excluded from the bit-identical-tables contract.
func (m *Model) PID() string { return m.pid }

// Nodes returns the calculation-node table, ordered by index.
func (m *Model) Nodes() []Node {
	return append([]Node(nil), m.nodes...)
}

// NodeCount is the number of calculation nodes.
func (m *Model) NodeCount() int { return len(m.nodes) }

// NodeIndex resolves a raw node id through the zero-impedance closure to the
// calculation-node index. The second result is false for undeclared ids.
func (m *Model) NodeIndex(raw string) (int, bool) {
	canon, ok := m.canonical[raw]
	if !ok {
		return 0, false
	}
	idx, ok := m.indexOf[canon]

	return idx, ok
}

// Slacks returns the slack table.
func (m *Model) Slacks() []Slack {
	return append([]Slack(nil), m.slacks...)
}

// CountOfSlacks is the number of distinct slack calculation nodes; they
// occupy node indices [0, CountOfSlacks).
func (m *Model) CountOfSlacks() int { return m.slackNodes }

// AdmittanceShape is the (rows, cols) shape of the admittance matrix the
// model prepares for: NodeCount × NodeCount.
func (m *Model) AdmittanceShape() (int, int) {
	return len(m.nodes), len(m.nodes)
}

// BranchTerminals returns the admittance-ready terminal table: two mirrored
// rows per ordinary branch that passed validation.
func (m *Model) BranchTerminals() []BranchTerminal {
	return append([]BranchTerminal(nil), m.terminals...)
}

// BridgeTerminals returns the zero-impedance terminal table.
func (m *Model) BridgeTerminals() []BridgeTerminal {
	return append([]BridgeTerminal(nil), m.bridges...)
}

// Injections returns the injection table, ordered by index.
func (m *Model) Injections() []Injection {
	return append([]Injection(nil), m.injections...)
}

// Incidence returns the node×injection incidence operator.
func (m *Model) Incidence() *Incidence { return m.incidence }

// Batches returns the resolved measurement points with their kind summary.
func (m *Model) Batches() []Batch {
	out := make([]Batch, len(m.batches))
	for i, b := range m.batches {
		out[i] = b
		out[i].Refs = append([]TerminalRef(nil), b.Refs...)
	}

	return out
}

// PQRows returns the per-batch power joins.
func (m *Model) PQRows() []PQRow {
	return append([]PQRow(nil), m.pqRows...)
}

// IRows returns the per-batch current-magnitude joins.
func (m *Model) IRows() []IRow {
	return append([]IRow(nil), m.iRows...)
}

// VRows returns the node-resolved voltage values.
func (m *Model) VRows() []VRow {
	return append([]VRow(nil), m.vRows...)
}

// Messages returns the accumulated diagnostics.
func (m *Model) Messages() []records.Message {
	return append([]records.Message(nil), m.messages...)
}

// Terminal resolves (branchID, nodeID) to the matching BranchTerminal row
// index. The node id may be raw; it resolves through the closure.
func (m *Model) Terminal(branchID, nodeID string) (int, bool) {
	sides, ok := m.terminalOf[branchID]
	if !ok {
		return 0, false
	}
	canon, ok := m.canonical[nodeID]
	if !ok {
		return 0, false
	}
	idx, ok := sides[canon]

	return idx, ok
}

// OtherTerminal resolves (branchID, nodeID) to the mirrored terminal row of
// the same branch — the "other terminal" of ratio-type factor links.
func (m *Model) OtherTerminal(branchID, nodeID string) (int, bool) {
	idx, ok := m.Terminal(branchID, nodeID)
	if !ok {
		return 0, false
	}
	term := m.terminals[idx]
	other, ok := m.terminalOf[branchID][term.OtherNodeID]

	return other, ok
}

// InjectionIndex resolves an injection id to its row index.
func (m *Model) InjectionIndex(id string) (int, bool) {
	idx, ok := m.injectionOf[id]

	return idx, ok
}
