package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/nihei9/automata/spec"
)

// NFAToDFA builds the DFA of the subsets of NFA states reachable from the
// epsilon closure of the start state. Each subset is labelled with its
// members in declaration order, e.g. `{q0,q2}`, and the empty subset becomes
// the sink `{}`, so the result is complete. When a member name contains one of
// `{`, `}`, or `,`, the states are labelled D0, D1, ... in discovery order
// instead.
func NFAToDFA(ctx context.Context, nfa *spec.NFA, opts ...CompilerOption) (*spec.DFA, error) {
	const op = "convert nfa to dfa"

	config, err := newCompilerConfig(opts)
	if err != nil {
		return nil, err
	}

	res := nfa.Validate()
	if !res.Valid() {
		return nil, spec.NewInternalError(op, "the nfa must be validated before conversion:\n%v", res)
	}

	state2Num := map[spec.State]int{}
	for i, s := range nfa.States {
		state2Num[s] = i
	}
	moves := make([]map[spec.Symbol][]int, len(nfa.States))
	for i := range moves {
		moves[i] = map[spec.Symbol][]int{}
	}
	for _, t := range nfa.Transitions {
		from := state2Num[t.From]
		for _, to := range t.To {
			moves[from][t.Symbol] = append(moves[from][t.Symbol], state2Num[to])
		}
	}

	closure := func(s stateSet) stateSet {
		c := newStateSet().merge(s)
		stack := s.sort()
		for len(stack) > 0 {
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, r := range moves[q][spec.Epsilon] {
				if _, ok := c[r]; ok {
					continue
				}
				c.add(r)
				stack = append(stack, r)
			}
		}
		return c
	}

	initialState := closure(newStateSet().add(state2Num[nfa.Start]))
	subsets := []stateSet{
		initialState,
	}
	subsetNums := map[string]int{
		initialState.hash(): 0,
	}
	var tranTab [][]int
	for i := 0; i < len(subsets); i++ {
		err := checkContext(ctx, op)
		if err != nil {
			return nil, err
		}

		row := make([]int, len(nfa.Alphabet))
		for j, a := range nfa.Alphabet {
			next := newStateSet()
			for q := range subsets[i] {
				for _, r := range moves[q][a] {
					next.add(r)
				}
			}
			next = closure(next)
			h := next.hash()
			num, ok := subsetNums[h]
			if !ok {
				if len(subsets) >= config.maxDFAStates {
					return nil, &spec.ResourceExceededError{
						Op:       op,
						Resource: "dfa states",
						Limit:    fmt.Sprintf("%v", config.maxDFAStates),
					}
				}
				num = len(subsets)
				subsets = append(subsets, next)
				subsetNums[h] = num
			}
			row[j] = num
		}
		tranTab = append(tranTab, row)
	}

	config.logger.Log("Subset construction: %v states", len(subsets))

	labels := make([]spec.State, len(subsets))
	{
		indexed := false
		for _, s := range nfa.States {
			if strings.ContainsAny(string(s), "{},") {
				indexed = true
				break
			}
		}
		for i, set := range subsets {
			if indexed {
				labels[i] = spec.State(fmt.Sprintf("D%v", i))
			} else {
				labels[i] = subsetLabel(nfa, set)
			}
			config.logger.Log("  %v: %v", labels[i], set.hash())
		}
	}

	dfa := &spec.DFA{
		Alphabet: append([]spec.Symbol{}, nfa.Alphabet...),
		Start:    labels[0],
	}
	for i, set := range subsets {
		dfa.States = append(dfa.States, labels[i])
		for q := range set {
			if nfa.IsAccepting(nfa.States[q]) {
				dfa.Accepting = append(dfa.Accepting, labels[i])
				break
			}
		}
		for j, a := range nfa.Alphabet {
			dfa.Transitions = append(dfa.Transitions, &spec.DFATransition{
				From:   labels[i],
				Symbol: a,
				To:     labels[tranTab[i][j]],
			})
		}
	}

	res = dfa.Validate()
	if !res.Valid() || !res.Complete {
		return nil, spec.NewInternalError(op, "the subset construction produced a broken dfa:\n%v", res)
	}
	return dfa, nil
}

func subsetLabel(nfa *spec.NFA, set stateSet) spec.State {
	var b strings.Builder
	fmt.Fprintf(&b, "{")
	for i, q := range set.sort() {
		if i > 0 {
			fmt.Fprintf(&b, ",")
		}
		fmt.Fprintf(&b, "%v", nfa.States[q])
	}
	fmt.Fprintf(&b, "}")
	return spec.State(b.String())
}
