package driver

import (
	"github.com/nihei9/automata/spec"
)

// NFASimulator keeps the set of states the NFA can be in and follows
// epsilon moves eagerly.
type NFASimulator struct {
	accepting []bool
	start     int
	moves     []map[spec.Symbol][]int
}

func NewNFASimulator(nfa *spec.NFA) (*NFASimulator, error) {
	const op = "simulate nfa"

	state2Num := map[spec.State]int{}
	for i, s := range nfa.States {
		state2Num[s] = i
	}
	start, ok := state2Num[nfa.Start]
	if !ok {
		return nil, spec.NewInternalError(op, "start state `%v` is not a declared state", nfa.Start)
	}
	accepting := make([]bool, len(nfa.States))
	for _, s := range nfa.Accepting {
		num, ok := state2Num[s]
		if !ok {
			return nil, spec.NewInternalError(op, "accepting state `%v` is not a declared state", s)
		}
		accepting[num] = true
	}
	moves := make([]map[spec.Symbol][]int, len(nfa.States))
	for i := range moves {
		moves[i] = map[spec.Symbol][]int{}
	}
	for _, t := range nfa.Transitions {
		from, ok := state2Num[t.From]
		if !ok {
			return nil, spec.NewInternalError(op, "%v: `%v` is not a declared state", t, t.From)
		}
		for _, s := range t.To {
			to, ok := state2Num[s]
			if !ok {
				return nil, spec.NewInternalError(op, "%v: `%v` is not a declared state", t, s)
			}
			moves[from][t.Symbol] = append(moves[from][t.Symbol], to)
		}
	}

	return &NFASimulator{
		accepting: accepting,
		start:     start,
		moves:     moves,
	}, nil
}

func (s *NFASimulator) Accepts(input string) bool {
	current := s.closure([]int{s.start})
	for _, c := range input {
		sym := spec.Symbol(string(c))
		var next []int
		for _, q := range current {
			next = append(next, s.moves[q][sym]...)
		}
		if len(next) == 0 {
			return false
		}
		current = s.closure(next)
	}
	for _, q := range current {
		if s.accepting[q] {
			return true
		}
	}
	return false
}

// closure returns the states reachable from states through epsilon moves,
// states included, without duplicates.
func (s *NFASimulator) closure(states []int) []int {
	seen := make([]bool, len(s.moves))
	var set []int
	stack := append([]int{}, states...)
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[q] {
			continue
		}
		seen[q] = true
		set = append(set, q)
		stack = append(stack, s.moves[q][spec.Epsilon]...)
	}
	return set
}
