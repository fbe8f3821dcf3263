package records

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ErrBadYAML indicates FromYAML met a structurally invalid frames document.
var ErrBadYAML = errors.New("records: invalid frames document")

// yamlPair is a complex value spelled as a [re, im] pair.
type yamlPair [2]float64

func (p yamlPair) complex() complex128 { return complex(p[0], p[1]) }

// Frame DTOs. Field tags spell the external column names; defaults are
// applied after decoding so that omitted scalars keep their documented
// meaning (slack voltage 1+0j, direction +1, factor value 1, ±Inf bounds).
type (
	yamlSlack struct {
		Node string    `yaml:"node"`
		V    *yamlPair `yaml:"v"`
	}

	yamlBranch struct {
		ID      string   `yaml:"id"`
		NodeA   string   `yaml:"node_a"`
		NodeB   string   `yaml:"node_b"`
		YLo     yamlPair `yaml:"y_lo"`
		YTrHalf yamlPair `yaml:"y_tr_half"`
		Bridge  bool     `yaml:"bridge"`
	}

	yamlTaps struct {
		ID       string  `yaml:"id"`
		Branch   string  `yaml:"branch"`
		Node     string  `yaml:"node"`
		VStep    float64 `yaml:"v_step"`
		Min      int     `yaml:"position_min"`
		Neutral  int     `yaml:"position_neutral"`
		Max      int     `yaml:"position_max"`
		Position int     `yaml:"position"`
	}

	yamlInjection struct {
		ID    string  `yaml:"id"`
		Node  string  `yaml:"node"`
		P10   float64 `yaml:"p10"`
		Q10   float64 `yaml:"q10"`
		ExpVP float64 `yaml:"exp_v_p"`
		ExpVQ float64 `yaml:"exp_v_q"`
	}

	yamlOutput struct {
		Batch  string `yaml:"batch"`
		Device string `yaml:"device"`
		Node   string `yaml:"node"`
	}

	yamlPQValue struct {
		Batch     string   `yaml:"batch"`
		P         float64  `yaml:"p"`
		Q         float64  `yaml:"q"`
		Direction *float64 `yaml:"direction"`
	}

	yamlIValue struct {
		Batch string  `yaml:"batch"`
		I     float64 `yaml:"i"`
	}

	yamlVValue struct {
		Node string  `yaml:"node"`
		V    float64 `yaml:"v"`
	}

	yamlDef struct {
		IDs      []string `yaml:"ids"`
		Steps    []int    `yaml:"steps"`
		Type     string   `yaml:"type"`
		Source   string   `yaml:"source"`
		Value    *float64 `yaml:"value"`
		Min      *float64 `yaml:"min"`
		Max      *float64 `yaml:"max"`
		Discrete bool     `yaml:"discrete"`
		M        *float64 `yaml:"m"`
		N        float64  `yaml:"n"`
		Cost     float64  `yaml:"cost"`
	}

	yamlInjLink struct {
		Steps     []int    `yaml:"steps"`
		Injection string   `yaml:"injection"`
		Part      string   `yaml:"part"`
		Factors   []string `yaml:"factors"`
	}

	yamlTermLink struct {
		Steps  []int  `yaml:"steps"`
		Branch string `yaml:"branch"`
		Node   string `yaml:"node"`
		Factor string `yaml:"factor"`
	}

	yamlFrames struct {
		Slacks     []yamlSlack     `yaml:"slacks"`
		Branches   []yamlBranch    `yaml:"branches"`
		Taps       []yamlTaps      `yaml:"taps"`
		Injections []yamlInjection `yaml:"injections"`
		Outputs    []yamlOutput    `yaml:"outputs"`
		PValues    []yamlPQValue   `yaml:"p_values"`
		QValues    []yamlPQValue   `yaml:"q_values"`
		IValues    []yamlIValue    `yaml:"i_values"`
		VValues    []yamlVValue    `yaml:"v_values"`
		Defs       []yamlDef       `yaml:"factors"`
		InjLinks   []yamlInjLink   `yaml:"injection_links"`
		TermLinks  []yamlTermLink  `yaml:"terminal_links"`
	}
)

// FromYAML decodes a frames document — per-kind record collections keyed by
// kind — into a Set. It is the file-borne twin of constructing a Set
// directly; both converge on the same normalized form before assembly.
//
// Complexity: O(n) over the record count.
func FromYAML(doc []byte) (*Set, error) {
	var frames yamlFrames
	if err := yaml.Unmarshal(doc, &frames); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadYAML, err)
	}

	set := &Set{}
	for _, s := range frames.Slacks {
		v := complex(1, 0)
		if s.V != nil {
			v = s.V.complex()
		}
		set.Slacks = append(set.Slacks, Slack{NodeID: s.Node, V: v})
	}
	for _, b := range frames.Branches {
		yLo := b.YLo.complex()
		if b.Bridge {
			yLo = complex(math.Inf(1), math.Inf(1))
		}
		set.Branches = append(set.Branches, Branch{
			ID:      b.ID,
			NodeA:   b.NodeA,
			NodeB:   b.NodeB,
			YLo:     yLo,
			YTrHalf: b.YTrHalf.complex(),
		})
	}
	for _, t := range frames.Taps {
		set.Taps = append(set.Taps, Taps{
			ID:              t.ID,
			BranchID:        t.Branch,
			NodeID:          t.Node,
			VStep:           t.VStep,
			PositionMin:     t.Min,
			PositionNeutral: t.Neutral,
			PositionMax:     t.Max,
			Position:        t.Position,
		})
	}
	for _, i := range frames.Injections {
		set.Injections = append(set.Injections, Injection{
			ID:     i.ID,
			NodeID: i.Node,
			P10:    i.P10,
			Q10:    i.Q10,
			ExpVP:  i.ExpVP,
			ExpVQ:  i.ExpVQ,
		})
	}
	for _, o := range frames.Outputs {
		set.Outputs = append(set.Outputs, Output{
			BatchID:  o.Batch,
			DeviceID: o.Device,
			NodeID:   o.Node,
		})
	}
	for _, p := range frames.PValues {
		set.PValues = append(set.PValues, PValue{
			BatchID:   p.Batch,
			P:         p.P,
			Direction: direction(p.Direction),
		})
	}
	for _, q := range frames.QValues {
		set.QValues = append(set.QValues, QValue{
			BatchID:   q.Batch,
			Q:         q.Q,
			Direction: direction(q.Direction),
		})
	}
	for _, i := range frames.IValues {
		set.IValues = append(set.IValues, IValue{BatchID: i.Batch, I: i.I})
	}
	for _, v := range frames.VValues {
		set.VValues = append(set.VValues, VValue{NodeID: v.Node, V: v.V})
	}
	for _, d := range frames.Defs {
		def := Def(d.IDs, d.Steps...)
		if d.Type != "" {
			def.Type = d.Type
		}
		def.SourceID = d.Source
		if d.Value != nil {
			def.Value = *d.Value
		}
		if d.Min != nil {
			def.Min = *d.Min
		}
		if d.Max != nil {
			def.Max = *d.Max
		}
		def.IsDiscrete = d.Discrete
		if d.M != nil {
			def.M = *d.M
		}
		def.N = d.N
		def.Cost = d.Cost
		set.Defs = append(set.Defs, def)
	}
	for _, l := range frames.InjLinks {
		set.InjLinks = append(set.InjLinks, InjLink{
			Steps:       l.Steps,
			InjectionID: l.Injection,
			Part:        l.Part,
			FactorIDs:   l.Factors,
		})
	}
	for _, l := range frames.TermLinks {
		set.TermLinks = append(set.TermLinks, TermLink{
			Steps:    l.Steps,
			BranchID: l.Branch,
			NodeID:   l.Node,
			FactorID: l.Factor,
		})
	}

	return set, nil
}

// direction applies the documented default of +1 for omitted directions.
func direction(d *float64) float64 {
	if d == nil {
		return 1
	}

	return *d
}
