package factors

// TerminalIndex resolves branch terminals; *model.Model satisfies it.
type TerminalIndex interface {
	// Terminal resolves (branchID, nodeID) to a terminal row index.
	Terminal(branchID, nodeID string) (int, bool)

	// OtherTerminal resolves to the mirrored terminal of the same branch.
	OtherTerminal(branchID, nodeID string) (int, bool)
}

// InjectionIndex resolves injection ids; *model.Model satisfies it.
type InjectionIndex interface {
	InjectionIndex(id string) (int, bool)
}

// Factor is one expanded (step, id) scaling-factor row.
type Factor struct {
	// Step is the optimization step, records.GenericStep for generic rows.
	Step int

	// ID is unique within its step.
	ID string

	// Type is records.TypeVar or records.TypeConst.
	Type string

	// SourceID names the previous-step factor whose result initializes this
	// one; equals ID when the definition left it empty.
	SourceID string

	// Value initializes the factor when no source row resolves.
	Value float64

	// Min/Max bound the decision variable; IsDiscrete forbids fractions.
	Min        float64
	Max        float64
	IsDiscrete bool

	// M and N shape the effective value: effective = M·x + N.
	M float64
	N float64

	// Cost weights the factor in the objective.
	Cost float64

	// SymbolIndex is contiguous within the row's step, in declaration order.
	SymbolIndex int

	// SourceIndex is the SymbolIndex of the resolved previous-step source,
	// or -1 when the row initializes from Value.
	SourceIndex int
}

// InjAssoc binds a factor to one injection part for one step. A "pq" link
// expands into a "p" row and a "q" row.
type InjAssoc struct {
	Step           int
	InjectionID    string
	InjectionIndex int

	// Part is "p" or "q".
	Part string

	FactorID string
}

// TermAssoc binds a factor to a branch terminal for one step. The mirrored
// terminal rides along as the "other terminal" of ratio-type factors.
type TermAssoc struct {
	Step     int
	BranchID string
	FactorID string

	// TerminalIndex / OtherTerminalIndex are rows of the admittance-ready
	// terminal table.
	TerminalIndex      int
	OtherTerminalIndex int
}
