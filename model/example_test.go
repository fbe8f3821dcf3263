package model_test

import (
	"fmt"

	"github.com/katalvlaran/gridmodel/model"
	"github.com/katalvlaran/gridmodel/records"
)

// ExampleAssemble builds the minimal feeder: a slack, two lines, a closed
// switch and one consumer, then inspects the indexed result.
func ExampleAssemble() {
	set, err := records.Flatten(
		records.Slack{NodeID: "n0", V: complex(1, 0)},
		[]records.Branch{
			{ID: "line_0", NodeA: "n0", NodeB: "n1", YLo: complex(1e3, -1e3)},
			{ID: "line_1", NodeA: "n1", NodeB: "n2", YLo: complex(1e3, -1e3)},
		},
		records.Bridge("sw_0", "n2", "n3"),
		records.Injection{ID: "consumer_0", NodeID: "n3", P10: 30, Q10: 10},
	)
	if err != nil {
		fmt.Println("flatten:", err)
		return
	}

	m, err := model.Assemble(set)
	if err != nil {
		fmt.Println("assemble:", err)
		return
	}

	rows, cols := m.AdmittanceShape()
	fmt.Printf("nodes=%d slacks=%d shape=%dx%d\n", m.NodeCount(), m.CountOfSlacks(), rows, cols)
	fmt.Printf("terminal rows=%d bridge rows=%d\n", len(m.BranchTerminals()), len(m.BridgeTerminals()))

	// The switch merges n2 and n3 into one calculation node.
	i2, _ := m.NodeIndex("n2")
	i3, _ := m.NodeIndex("n3")
	fmt.Printf("n2 and n3 share index: %v\n", i2 == i3)

	// Aggregate the injected power onto nodes.
	s, _ := m.Incidence().MulVecComplex([]complex128{complex(30, 10)})
	fmt.Printf("power at merged node: %v\n", s[i3])

	// Output:
	// nodes=3 slacks=1 shape=3x3
	// terminal rows=4 bridge rows=2
	// n2 and n3 share index: true
	// power at merged node: (30+10i)
}
