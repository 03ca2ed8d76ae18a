package driver

import (
	"github.com/nihei9/automata/spec"
)

// DFASimulator runs a DFA over input strings. The transitions are indexed
// into a table where 0 means no transition, so states are numbered from 1.
type DFASimulator struct {
	states    []spec.State
	columns   map[spec.Symbol]int
	accepting []bool
	initial   int
	tran      []int
	colCount  int
}

func NewDFASimulator(dfa *spec.DFA) (*DFASimulator, error) {
	const op = "simulate dfa"

	state2Num := map[spec.State]int{}
	states := []spec.State{
		"",
	}
	for i, s := range dfa.States {
		state2Num[s] = i + 1
		states = append(states, s)
	}
	initial, ok := state2Num[dfa.Start]
	if !ok {
		return nil, spec.NewInternalError(op, "start state `%v` is not a declared state", dfa.Start)
	}

	columns := map[spec.Symbol]int{}
	for i, a := range dfa.Alphabet {
		columns[a] = i
	}
	colCount := len(dfa.Alphabet)

	accepting := make([]bool, len(states))
	for _, s := range dfa.Accepting {
		num, ok := state2Num[s]
		if !ok {
			return nil, spec.NewInternalError(op, "accepting state `%v` is not a declared state", s)
		}
		accepting[num] = true
	}

	tran := make([]int, len(states)*colCount)
	for _, t := range dfa.Transitions {
		from, ok := state2Num[t.From]
		if !ok {
			return nil, spec.NewInternalError(op, "%v: `%v` is not a declared state", t, t.From)
		}
		to, ok := state2Num[t.To]
		if !ok {
			return nil, spec.NewInternalError(op, "%v: `%v` is not a declared state", t, t.To)
		}
		col, ok := columns[t.Symbol]
		if !ok {
			return nil, spec.NewInternalError(op, "%v: `%v` is not in the alphabet", t, t.Symbol)
		}
		if tran[from*colCount+col] != 0 {
			return nil, spec.NewInternalError(op, "%v: the DFA is not deterministic", t)
		}
		tran[from*colCount+col] = to
	}

	return &DFASimulator{
		states:    states,
		columns:   columns,
		accepting: accepting,
		initial:   initial,
		tran:      tran,
		colCount:  colCount,
	}, nil
}

// DFARun is the trace of a single simulation.
type DFARun struct {
	Accepted bool

	// Path lists the visited states beginning with the start state.
	Path []spec.State

	// Consumed is the number of characters read before the run halted. It is
	// less than the input length when a missing transition rejected the input.
	Consumed int
}

func (s *DFASimulator) Accepts(input string) bool {
	return s.run(input, false).Accepted
}

func (s *DFASimulator) Run(input string) *DFARun {
	return s.run(input, true)
}

func (s *DFASimulator) run(input string, trace bool) *DFARun {
	r := &DFARun{}
	state := s.initial
	if trace {
		r.Path = append(r.Path, s.states[state])
	}
	for _, c := range input {
		col, ok := s.columns[spec.Symbol(string(c))]
		if !ok {
			return r
		}
		next := s.tran[state*s.colCount+col]
		if next == 0 {
			return r
		}
		state = next
		r.Consumed++
		if trace {
			r.Path = append(r.Path, s.states[state])
		}
	}
	r.Accepted = s.accepting[state]
	return r
}
