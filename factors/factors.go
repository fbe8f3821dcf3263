package factors

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/gridmodel/records"
)

// ErrDuplicateFactor indicates two definitions expand to the same (step, id)
// pair, which would make symbol indices ambiguous.
var ErrDuplicateFactor = errors.New("factors: duplicate (step, id) factor")

type key struct {
	step int
	id   string
}

// Factors is the expanded, indexed factor state of one record set.
type Factors struct {
	rows  []Factor
	byKey map[key]int

	injAssocs  []InjAssoc
	termAssocs []TermAssoc

	steps    []int
	messages []records.Message
}

// New expands the set's factor definitions and links.
//
// Steps:
//  1. Expand every DefK over its (step, id) product; duplicates abort.
//  2. Assign per-step symbol indices in declaration order.
//  3. Resolve initialization chaining: step k sources from (k−1, source_id),
//     step 0 from the generic row; a dangling explicit source is an error
//     message and the row falls back to its Value.
//  4. Expand injection links (part "pq" into "p" and "q") and terminal links,
//     resolving against the supplied indices; failures are error messages.
//  5. Substitute the constant default factor for injections without a link in
//     a step, with one info message per step.
//
// The returned messages are the recoverable findings of steps 3–5.
//
// Complexity: O(rows + links) beyond the sort of the step universe.
func New(set *records.Set, terminals TerminalIndex, injections InjectionIndex) (*Factors, []records.Message, error) {
	f := &Factors{byKey: make(map[key]int)}

	if err := f.expand(set); err != nil {
		return nil, nil, err
	}
	f.resolveSources()
	f.linkInjections(set, injections)
	f.linkTerminals(set, terminals)
	f.substituteDefaults(set, injections)

	return f, f.messages, nil
}

// expand builds the (step, id) rows and the per-step symbol indices.
func (f *Factors) expand(set *records.Set) error {
	nextSymbol := make(map[int]int)
	stepSeen := make(map[int]struct{})

	for _, def := range set.Defs {
		for _, step := range def.Steps {
			for _, id := range def.IDs {
				k := key{step: step, id: id}
				if _, dup := f.byKey[k]; dup {
					return fmt.Errorf("%w: step %d, id %q", ErrDuplicateFactor, step, id)
				}
				source := def.SourceID
				if source == "" {
					source = id
				}
				f.byKey[k] = len(f.rows)
				f.rows = append(f.rows, Factor{
					Step:        step,
					ID:          id,
					Type:        def.Type,
					SourceID:    source,
					Value:       def.Value,
					Min:         def.Min,
					Max:         def.Max,
					IsDiscrete:  def.IsDiscrete,
					M:           def.M,
					N:           def.N,
					Cost:        def.Cost,
					SymbolIndex: nextSymbol[step],
					SourceIndex: -1,
				})
				nextSymbol[step]++
				if step != records.GenericStep {
					stepSeen[step] = struct{}{}
				}
			}
		}
	}

	for _, l := range set.InjLinks {
		for _, step := range l.Steps {
			if step != records.GenericStep {
				stepSeen[step] = struct{}{}
			}
		}
	}
	for _, l := range set.TermLinks {
		for _, step := range l.Steps {
			if step != records.GenericStep {
				stepSeen[step] = struct{}{}
			}
		}
	}
	for step := range stepSeen {
		f.steps = append(f.steps, step)
	}
	sort.Ints(f.steps)

	return nil
}

// resolveSources fills SourceIndex by chaining each row to the same-named (or
// explicitly named) factor of the previous step; step 0 chains to the generic
// row.
func (f *Factors) resolveSources() {
	for i := range f.rows {
		row := &f.rows[i]
		if row.Step == records.GenericStep {
			continue
		}
		prev := row.Step - 1
		if row.Step == 0 {
			prev = records.GenericStep
		}
		if src, ok := f.byKey[key{step: prev, id: row.SourceID}]; ok {
			row.SourceIndex = f.rows[src].SymbolIndex
			continue
		}
		if row.SourceID != row.ID {
			f.messages = append(f.messages, records.Error(fmt.Sprintf(
				"factor %q of step %d: dangling source %q (no such factor in step %d)",
				row.ID, row.Step, row.SourceID, prev)))
		}
	}
}

// linkInjections expands injection links over steps and part letters.
func (f *Factors) linkInjections(set *records.Set, injections InjectionIndex) {
	for _, l := range set.InjLinks {
		if l.Part != "p" && l.Part != "q" && l.Part != "pq" {
			f.messages = append(f.messages, records.Error(fmt.Sprintf(
				"injection link for %q: unknown part %q", l.InjectionID, l.Part)))
			continue
		}
		if len(l.FactorIDs) != len(l.Part) {
			f.messages = append(f.messages, records.Error(fmt.Sprintf(
				"injection link for %q: part %q needs %d factor id(s), got %d",
				l.InjectionID, l.Part, len(l.Part), len(l.FactorIDs))))
			continue
		}
		idx, ok := injections.InjectionIndex(l.InjectionID)
		if !ok {
			f.messages = append(f.messages, records.Error(fmt.Sprintf(
				"injection link references unknown injection %q", l.InjectionID)))
			continue
		}
		for _, step := range l.Steps {
			for i := 0; i < len(l.Part); i++ {
				factorID := l.FactorIDs[i]
				if !f.declared(step, factorID) {
					f.messages = append(f.messages, records.Error(fmt.Sprintf(
						"injection link for %q: factor %q not declared for step %d",
						l.InjectionID, factorID, step)))
					continue
				}
				f.injAssocs = append(f.injAssocs, InjAssoc{
					Step:           step,
					InjectionID:    l.InjectionID,
					InjectionIndex: idx,
					Part:           l.Part[i : i+1],
					FactorID:       factorID,
				})
			}
		}
	}
}

// linkTerminals expands terminal links over steps.
func (f *Factors) linkTerminals(set *records.Set, terminals TerminalIndex) {
	for _, l := range set.TermLinks {
		term, ok := terminals.Terminal(l.BranchID, l.NodeID)
		if !ok {
			f.messages = append(f.messages, records.Error(fmt.Sprintf(
				"terminal link references no usable terminal of branch %q at node %q",
				l.BranchID, l.NodeID)))
			continue
		}
		other, _ := terminals.OtherTerminal(l.BranchID, l.NodeID)
		for _, step := range l.Steps {
			if !f.declared(step, l.FactorID) {
				f.messages = append(f.messages, records.Error(fmt.Sprintf(
					"terminal link for branch %q: factor %q not declared for step %d",
					l.BranchID, l.FactorID, step)))
				continue
			}
			f.termAssocs = append(f.termAssocs, TermAssoc{
				Step:               step,
				BranchID:           l.BranchID,
				FactorID:           l.FactorID,
				TerminalIndex:      term,
				OtherTerminalIndex: other,
			})
		}
	}
}

// declared reports whether a factor id exists for the step, either as an
// explicit row or as a generic one.
func (f *Factors) declared(step int, id string) bool {
	if _, ok := f.byKey[key{step: step, id: id}]; ok {
		return true
	}
	_, ok := f.byKey[key{step: records.GenericStep, id: id}]

	return ok
}

// substituteDefaults gives every injection without a "p" or "q" association
// in a step the constant default factor. Substitution happens only for steps
// the input actually declares.
func (f *Factors) substituteDefaults(set *records.Set, injections InjectionIndex) {
	if len(f.steps) == 0 || len(set.Injections) == 0 {
		return
	}

	type partKey struct {
		step int
		inj  string
		part string
	}
	linked := make(map[partKey]struct{}, len(f.injAssocs))
	for _, a := range f.injAssocs {
		linked[partKey{step: a.Step, inj: a.InjectionID, part: a.Part}] = struct{}{}
	}

	nextSymbol := make(map[int]int)
	for _, row := range f.rows {
		if row.SymbolIndex >= nextSymbol[row.Step] {
			nextSymbol[row.Step] = row.SymbolIndex + 1
		}
	}

	for _, step := range f.steps {
		substituted := 0
		for _, inj := range set.Injections {
			idx, ok := injections.InjectionIndex(inj.ID)
			if !ok {
				continue
			}
			for _, part := range []string{"p", "q"} {
				if _, ok := linked[partKey{step: step, inj: inj.ID, part: part}]; ok {
					continue
				}
				f.ensureDefault(step, nextSymbol)
				f.injAssocs = append(f.injAssocs, InjAssoc{
					Step:           step,
					InjectionID:    inj.ID,
					InjectionIndex: idx,
					Part:           part,
					FactorID:       records.DefaultFactorID,
				})
				substituted++
			}
		}
		if substituted > 0 {
			f.messages = append(f.messages, records.Info(fmt.Sprintf(
				"step %d: default factor substituted for %d injection part(s)",
				step, substituted)))
		}
	}
}

// ensureDefault declares the constant-1.0 default factor for a step once.
func (f *Factors) ensureDefault(step int, nextSymbol map[int]int) {
	k := key{step: step, id: records.DefaultFactorID}
	if _, ok := f.byKey[k]; ok {
		return
	}
	f.byKey[k] = len(f.rows)
	f.rows = append(f.rows, Factor{
		Step:        step,
		ID:          records.DefaultFactorID,
		Type:        records.TypeConst,
		SourceID:    records.DefaultFactorID,
		Value:       1,
		Min:         1,
		Max:         1,
		M:           1,
		N:           0,
		SymbolIndex: nextSymbol[step],
		SourceIndex: -1,
	})
	nextSymbol[step]++
}

// Rows returns every expanded factor row, generic rows included.
func (f *Factors) Rows() []Factor {
	return append([]Factor(nil), f.rows...)
}

// Steps returns the declared concrete steps, ascending.
func (f *Factors) Steps() []int {
	return append([]int(nil), f.steps...)
}

// Lookup resolves one (step, id) row.
func (f *Factors) Lookup(step int, id string) (Factor, bool) {
	i, ok := f.byKey[key{step: step, id: id}]
	if !ok {
		return Factor{}, false
	}

	return f.rows[i], true
}

// Group returns the factor rows of exactly the requested steps, in row
// order. Steps without rows contribute nothing; the query never fails.
func (f *Factors) Group(steps ...int) []Factor {
	want := stepSet(steps)
	var out []Factor
	for _, row := range f.rows {
		if _, ok := want[row.Step]; ok {
			out = append(out, row)
		}
	}

	return out
}

// InjGroups returns the injection associations of exactly the requested
// steps, defaults included.
func (f *Factors) InjGroups(steps ...int) []InjAssoc {
	want := stepSet(steps)
	var out []InjAssoc
	for _, a := range f.injAssocs {
		if _, ok := want[a.Step]; ok {
			out = append(out, a)
		}
	}

	return out
}

// TermGroups returns the terminal associations of exactly the requested
// steps.
func (f *Factors) TermGroups(steps ...int) []TermAssoc {
	want := stepSet(steps)
	var out []TermAssoc
	for _, a := range f.termAssocs {
		if _, ok := want[a.Step]; ok {
			out = append(out, a)
		}
	}

	return out
}

func stepSet(steps []int) map[int]struct{} {
	set := make(map[int]struct{}, len(steps))
	for _, s := range steps {
		set[s] = struct{}{}
	}

	return set
}
