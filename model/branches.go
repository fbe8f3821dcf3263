package model

import (
	"fmt"

	"github.com/katalvlaran/gridmodel/records"
)

// tapsRatio computes the ratio-based longitudinal correction of a tapped
// terminal: r = 1 − VStep·(Position − PositionNeutral). At the neutral
// position the ratio is exactly 1.
func tapsRatio(t records.Taps) float64 {
	return 1 - t.VStep*float64(t.Position-t.PositionNeutral)
}

// buildTerminals derives the admittance-ready terminal table and the bridge
// terminal table.
//
// Per ordinary branch:
//  1. Resolve both endpoints through the closure to node indices.
//  2. Apply the taps ratio to y_lo; a position outside [min, max] is a
//     resolution error — message emitted, both rows excluded.
//  3. Emit two mirrored rows (side A and side B): identical parameters,
//     swapped node/other-node columns.
//
// Bridges skip admittance derivation and land in the bridge table with node
// linkage only. Taps referencing an unknown branch, or a node that is not a
// terminal of their branch, yield error messages and are ignored.
func buildTerminals(set *records.Set, canonical map[string]string, indexOf map[string]int) (
	terminals []BranchTerminal, bridges []BridgeTerminal, messages []records.Message,
) {
	// Taps lookup by branch id. Several taps on one branch multiply their
	// ratios (three-winding arrangements tap more than one side).
	tapsOf := make(map[string][]records.Taps)
	branchIDs := make(map[string]struct{}, len(set.Branches))
	for _, br := range set.Branches {
		branchIDs[br.ID] = struct{}{}
	}
	for _, t := range set.Taps {
		if _, ok := branchIDs[t.BranchID]; !ok {
			messages = append(messages, records.Error(
				fmt.Sprintf("taps %q references unknown branch %q", t.ID, t.BranchID)))
			continue
		}
		tapsOf[t.BranchID] = append(tapsOf[t.BranchID], t)
	}

	branchIndex := 0
	for _, br := range set.Branches {
		aID := canonical[br.NodeA]
		bID := canonical[br.NodeB]
		aIdx := indexOf[aID]
		bIdx := indexOf[bID]

		if br.IsBridge() {
			bridges = append(bridges,
				BridgeTerminal{
					BranchID:       br.ID,
					NodeID:         aID,
					OtherNodeID:    bID,
					NodeIndex:      aIdx,
					OtherNodeIndex: bIdx,
					Side:           SideA,
				},
				BridgeTerminal{
					BranchID:       br.ID,
					NodeID:         bID,
					OtherNodeID:    aID,
					NodeIndex:      bIdx,
					OtherNodeIndex: aIdx,
					Side:           SideB,
				})

			continue
		}

		yLo := br.YLo
		excluded := false
		for _, t := range tapsOf[br.ID] {
			if canon, ok := canonical[t.NodeID]; !ok || (canon != aID && canon != bID) {
				messages = append(messages, records.Error(fmt.Sprintf(
					"taps %q references node %q which is not a terminal of branch %q",
					t.ID, t.NodeID, br.ID)))
				continue
			}
			if t.Position < t.PositionMin || t.Position > t.PositionMax {
				messages = append(messages, records.Error(fmt.Sprintf(
					"taps %q: position %d outside [%d, %d], branch %q excluded",
					t.ID, t.Position, t.PositionMin, t.PositionMax, br.ID)))
				excluded = true
				continue
			}
			r := tapsRatio(t)
			yLo *= complex(r, 0)
		}
		if excluded {
			branchIndex++
			continue
		}

		gLo, bLo := real(yLo), imag(yLo)
		gTr, bTr := real(br.YTrHalf), imag(br.YTrHalf)
		terminals = append(terminals,
			BranchTerminal{
				Index:          len(terminals),
				BranchID:       br.ID,
				BranchIndex:    branchIndex,
				NodeID:         aID,
				OtherNodeID:    bID,
				NodeIndex:      aIdx,
				OtherNodeIndex: bIdx,
				GLo:            gLo,
				BLo:            bLo,
				GTrHalf:        gTr,
				BTrHalf:        bTr,
				GTot:           gLo + gTr,
				BTot:           bLo + bTr,
				Side:           SideA,
			},
			BranchTerminal{
				Index:          len(terminals) + 1,
				BranchID:       br.ID,
				BranchIndex:    branchIndex,
				NodeID:         bID,
				OtherNodeID:    aID,
				NodeIndex:      bIdx,
				OtherNodeIndex: aIdx,
				GLo:            gLo,
				BLo:            bLo,
				GTrHalf:        gTr,
				BTrHalf:        bTr,
				GTot:           gLo + gTr,
				BTot:           bLo + bTr,
				Side:           SideB,
			})
		branchIndex++
	}

	return terminals, bridges, messages
}
