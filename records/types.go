package records

import "math"

// Message level constants. Levels order by severity; assembly never aborts
// on anything below LevelError, and only structural errors abort at all.
const (
	// LevelInfo marks an informational notice (e.g. a substituted default).
	LevelInfo = 0

	// LevelWarning marks a suspicious but usable condition.
	LevelWarning = 1

	// LevelError marks a condition that excluded data from the model.
	LevelError = 2
)

// Message is one diagnostics entry accumulated during assembly or checking.
type Message struct {
	// Text is the human readable description.
	Text string

	// Level is LevelInfo, LevelWarning or LevelError.
	Level int
}

// Info returns an informational Message.
func Info(text string) Message { return Message{Text: text, Level: LevelInfo} }

// Warning returns a warning Message.
func Warning(text string) Message { return Message{Text: text, Level: LevelWarning} }

// Error returns an error Message.
func Error(text string) Message { return Message{Text: text, Level: LevelError} }

// Slack tags a node as a voltage reference.
type Slack struct {
	// NodeID identifies the slack node.
	NodeID string

	// V is the given complex voltage, per unit. Zero means 1+0j.
	V complex128
}

// Taps describes a set of transformer taps attached to one branch terminal.
// The terminal is addressed by (BranchID, NodeID), exactly like an Output.
type Taps struct {
	// ID uniquely identifies the taps.
	ID string

	// BranchID identifies the branch carrying the taps.
	BranchID string

	// NodeID identifies the node of the tapped terminal.
	NodeID string

	// VStep is the voltage increment per tap step, per unit.
	VStep float64

	// PositionMin is the smallest possible position.
	PositionMin int

	// PositionNeutral is the position with ratio 1:1.
	PositionNeutral int

	// PositionMax is the greatest possible position.
	PositionMax int

	// Position is the actual position.
	Position int
}

// Branch models a two-terminal device: lines, transformer windings, and
// closed switches. A closed switch is a Branch whose YLo is non-finite
// (the zero-impedance convention); see IsBridge.
type Branch struct {
	// ID uniquely identifies the branch.
	ID string

	// NodeA is the id of the node at side A.
	NodeA string

	// NodeB is the id of the node at side B.
	NodeB string

	// YLo is the longitudinal admittance, per unit.
	YLo complex128

	// YTrHalf is half of the transversal admittance, per unit.
	YTrHalf complex128
}

// IsBridge reports whether the branch is a zero-impedance bridge: a branch
// whose longitudinal admittance has a non-finite real or imaginary part.
// Bridges merge their two nodes into one calculation node and never enter
// admittance-matrix assembly.
func (b Branch) IsBridge() bool {
	return math.IsInf(real(b.YLo), 0) || math.IsInf(imag(b.YLo), 0)
}

// Bridge returns a closed-switch Branch between two nodes.
func Bridge(id, nodeA, nodeB string) Branch {
	return Branch{
		ID:    id,
		NodeA: nodeA,
		NodeB: nodeB,
		YLo:   complex(math.Inf(1), math.Inf(1)),
	}
}

// Injection models a one-terminal device: consumers (positive and negative
// loads), PQ/PV generators, batteries, shunt capacitors.
type Injection struct {
	// ID uniquely identifies the injection.
	ID string

	// NodeID is the id of the connected node.
	NodeID string

	// P10 is the active power at a voltage magnitude of 1.0 pu.
	P10 float64

	// Q10 is the reactive power at a voltage magnitude of 1.0 pu.
	Q10 float64

	// ExpVP is the voltage-dependency exponent of active power
	// (0 for voltage-independent power, 2 for constant conductance).
	ExpVP float64

	// ExpVQ is the voltage-dependency exponent of reactive power.
	ExpVQ float64
}

// Output names one terminal whose flow belongs to a measurement batch.
// Several Outputs may share a BatchID: the batch then spans several
// terminals (e.g. a power balance across a junction).
type Output struct {
	// BatchID identifies the measurement point.
	BatchID string

	// DeviceID references a branch or an injection.
	DeviceID string

	// NodeID selects the branch terminal; empty when DeviceID is an
	// injection (an injection has exactly one terminal).
	NodeID string
}

// PValue is a measured/given active power bound to a batch.
type PValue struct {
	// BatchID references Outputs with the same id.
	BatchID string

	// P is the active power, per unit.
	P float64

	// Direction disambiguates flow polarity: -1 device→node, +1 node→device.
	Direction float64
}

// QValue is a measured/given reactive power bound to a batch.
type QValue struct {
	// BatchID references Outputs with the same id.
	BatchID string

	// Q is the reactive power, per unit.
	Q float64

	// Direction disambiguates flow polarity: -1 device→node, +1 node→device.
	Direction float64
}

// IValue is a measured electric-current magnitude bound to a batch.
type IValue struct {
	// BatchID references Outputs with the same id.
	BatchID string

	// I is the current magnitude, per unit.
	I float64
}

// VValue is a voltage magnitude given for a node: a setpoint or a measurement.
type VValue struct {
	// NodeID identifies the node.
	NodeID string

	// V is the voltage magnitude, per unit.
	V float64
}

// Factor types.
const (
	// TypeVar marks a factor that is a decision variable.
	TypeVar = "var"

	// TypeConst marks a factor that is a constant parameter.
	TypeConst = "const"
)

// DefaultFactorID is the id of the implicit constant-1.0 factor substituted
// for injections that lack a factor link in a step.
const DefaultFactorID = "_default_"

// GenericStep is the step index meaning "initial / all steps".
const GenericStep = -1

// DefK declares one or more scaling/adjustment factors over one or more
// optimization steps. It expands into one factor row per (step, id) pair.
type DefK struct {
	// IDs are the factor identifiers, each unique within one step.
	IDs []string

	// Steps are the optimization steps to declare the factors for.
	// GenericStep (-1) declares a generic factor valid for all steps.
	Steps []int

	// Type is TypeVar or TypeConst.
	Type string

	// SourceID references the same-named factor of the previous step whose
	// result initializes this one. Empty means "same id".
	SourceID string

	// Value initializes the factor when SourceID resolves to nothing.
	Value float64

	// Min is the smallest allowed value.
	Min float64

	// Max is the greatest allowed value.
	Max float64

	// IsDiscrete forbids fractional values (MINLP input).
	IsDiscrete bool

	// M and N are the linear-transform coefficients: effective = M·x + N.
	M float64

	// N is the linear-transform offset.
	N float64

	// Cost weights the factor in the objective function.
	Cost float64
}

// Def returns a DefK for the given ids and steps with the documented
// defaults: var, value 1, unbounded, continuous, identity transform.
func Def(ids []string, steps ...int) DefK {
	return DefK{
		IDs:   ids,
		Steps: steps,
		Type:  TypeVar,
		Value: 1.0,
		Min:   math.Inf(-1),
		Max:   math.Inf(1),
		M:     1.0,
		N:     0.0,
	}
}

// InjLink associates factors with an injection for the given steps.
// Part selects what is scaled: "p" active power, "q" reactive power, or
// "pq" both — FactorIDs then carries one id per part letter.
type InjLink struct {
	// Steps are the optimization steps the link applies to.
	Steps []int

	// InjectionID references the linked injection.
	InjectionID string

	// Part is "p", "q" or "pq".
	Part string

	// FactorIDs carries one factor id per letter of Part.
	FactorIDs []string
}

// TermLink associates a factor with a branch terminal for the given steps.
// The terminal is addressed by (BranchID, NodeID); the mirrored terminal of
// the same branch becomes the "other terminal" of ratio-type factors.
type TermLink struct {
	// Steps are the optimization steps the link applies to.
	Steps []int

	// BranchID references the linked branch.
	BranchID string

	// NodeID selects the terminal side.
	NodeID string

	// FactorID references the linked factor.
	FactorID string
}

// Set holds per-kind record tables: the single normalized input form of the
// assembly engine. Construct it directly (the frames path) or via Flatten.
type Set struct {
	Slacks     []Slack
	Branches   []Branch
	Taps       []Taps
	Injections []Injection
	Outputs    []Output
	PValues    []PValue
	QValues    []QValue
	IValues    []IValue
	VValues    []VValue
	Defs       []DefK
	InjLinks   []InjLink
	TermLinks  []TermLink
}
