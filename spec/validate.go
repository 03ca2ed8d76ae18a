package spec

import (
	"fmt"
	"strings"
)

type ViolationCode string

const (
	ViolationDuplicateName         = ViolationCode("duplicate_name")
	ViolationNoStates              = ViolationCode("no_states")
	ViolationEmptyAlphabet         = ViolationCode("empty_alphabet")
	ViolationEmptyStackAlphabet    = ViolationCode("empty_stack_alphabet")
	ViolationUnknownStartState     = ViolationCode("unknown_start_state")
	ViolationUnknownAcceptingState = ViolationCode("unknown_accepting_state")
	ViolationUnknownState          = ViolationCode("unknown_state")
	ViolationUnknownSymbol         = ViolationCode("unknown_symbol")
	ViolationUnknownStackSymbol    = ViolationCode("unknown_stack_symbol")
	ViolationUnknownStartStack     = ViolationCode("unknown_start_stack_symbol")
	ViolationInvalidAcceptance     = ViolationCode("invalid_acceptance")
	ViolationEpsilonMove           = ViolationCode("epsilon_move")
	ViolationNondeterministic      = ViolationCode("nondeterministic")
	ViolationNoTarget              = ViolationCode("no_target")
	ViolationOverlappingSymbols    = ViolationCode("overlapping_symbols")
	ViolationUnknownStartSymbol    = ViolationCode("unknown_start_symbol")
	ViolationUnknownHead           = ViolationCode("unknown_head")
	ViolationUnknownBodySymbol     = ViolationCode("unknown_body_symbol")
	ViolationNoStartProduction     = ViolationCode("no_start_production")
	ViolationEpsilonInBody         = ViolationCode("epsilon_in_body")
)

type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

func (v *Violation) String() string {
	return fmt.Sprintf("%v: %v", v.Code, v.Message)
}

// ValidationResult is the outcome of a structural check. An invalid
// definition is a normal outcome, not an error.
type ValidationResult struct {
	Kind       Kind
	Violations []*Violation

	// Complete is meaningful for DFAs only: it is true when every (state,
	// symbol) pair has a transition. It never affects validity.
	Complete bool
}

func (r *ValidationResult) Valid() bool {
	return len(r.Violations) == 0
}

// Has reports whether a violation with the code was found.
func (r *ValidationResult) Has(code ViolationCode) bool {
	for _, v := range r.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func (r *ValidationResult) String() string {
	if r.Valid() {
		return fmt.Sprintf("valid %v", r.Kind)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %v", r.Kind)
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "\n  %v", v)
	}
	return b.String()
}

func (r *ValidationResult) add(code ViolationCode, format string, a ...interface{}) {
	r.Violations = append(r.Violations, &Violation{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	})
}

// references performs the membership checks shared by all automaton kinds.
// Kind-specific rules are layered on top by each Validate method.
type references struct {
	res      *ValidationResult
	states   map[State]struct{}
	alphabet map[Symbol]struct{}
}

func newReferences(res *ValidationResult, states []State, alphabet []Symbol) *references {
	r := &references{
		res:      res,
		states:   map[State]struct{}{},
		alphabet: map[Symbol]struct{}{},
	}
	if len(states) == 0 {
		res.add(ViolationNoStates, "an automaton needs at least one state")
	}
	for _, s := range states {
		if _, ok := r.states[s]; ok {
			res.add(ViolationDuplicateName, "state `%v` is declared more than once", s)
		}
		r.states[s] = struct{}{}
	}
	if len(alphabet) == 0 {
		res.add(ViolationEmptyAlphabet, "the input alphabet must not be empty")
	}
	for _, a := range alphabet {
		if a == Epsilon {
			res.add(ViolationUnknownSymbol, "epsilon cannot be an alphabet symbol")
			continue
		}
		if _, ok := r.alphabet[a]; ok {
			res.add(ViolationDuplicateName, "symbol `%v` is declared more than once", a)
		}
		r.alphabet[a] = struct{}{}
	}
	return r
}

func (r *references) checkStartAndAccepting(start State, accepting []State) {
	if _, ok := r.states[start]; !ok {
		r.res.add(ViolationUnknownStartState, "start state `%v` is not a declared state", start)
	}
	for _, s := range accepting {
		if _, ok := r.states[s]; !ok {
			r.res.add(ViolationUnknownAcceptingState, "accepting state `%v` is not a declared state", s)
		}
	}
}

func (r *references) checkState(where fmt.Stringer, s State) {
	if _, ok := r.states[s]; !ok {
		r.res.add(ViolationUnknownState, "%v: `%v` is not a declared state", where, s)
	}
}

func (r *references) checkSymbol(where fmt.Stringer, a Symbol, allowEpsilon bool) {
	if a == Epsilon {
		if !allowEpsilon {
			r.res.add(ViolationEpsilonMove, "%v: epsilon moves are not allowed", where)
		}
		return
	}
	if _, ok := r.alphabet[a]; !ok {
		r.res.add(ViolationUnknownSymbol, "%v: `%v` is not in the alphabet", where, a)
	}
}

func (d *DFA) Validate() *ValidationResult {
	res := &ValidationResult{
		Kind: KindDFA,
	}
	refs := newReferences(res, d.States, d.Alphabet)
	refs.checkStartAndAccepting(d.Start, d.Accepting)

	type key struct {
		from State
		sym  Symbol
	}
	seen := map[key]*DFATransition{}
	for _, t := range d.Transitions {
		refs.checkState(t, t.From)
		refs.checkSymbol(t, t.Symbol, false)
		refs.checkState(t, t.To)
		k := key{from: t.From, sym: t.Symbol}
		if prev, ok := seen[k]; ok {
			res.add(ViolationNondeterministic, "%v: state `%v` already has a transition on `%v` (%v)", t, t.From, symbolString(t.Symbol), prev)
			continue
		}
		seen[k] = t
	}

	res.Complete = true
	for _, s := range d.States {
		for _, a := range d.Alphabet {
			if _, ok := seen[key{from: s, sym: a}]; !ok {
				res.Complete = false
			}
		}
	}
	return res
}

func (n *NFA) Validate() *ValidationResult {
	res := &ValidationResult{
		Kind: KindNFA,
	}
	refs := newReferences(res, n.States, n.Alphabet)
	refs.checkStartAndAccepting(n.Start, n.Accepting)
	for _, t := range n.Transitions {
		refs.checkState(t, t.From)
		refs.checkSymbol(t, t.Symbol, true)
		if len(t.To) == 0 {
			res.add(ViolationNoTarget, "%v: a transition needs at least one target state", t)
		}
		for _, to := range t.To {
			refs.checkState(t, to)
		}
	}
	return res
}

func (p *PDA) Validate() *ValidationResult {
	res := &ValidationResult{
		Kind: KindPDA,
	}
	refs := newReferences(res, p.States, p.InputAlphabet)
	refs.checkStartAndAccepting(p.Start, p.Accepting)

	stack := map[StackSymbol]struct{}{}
	if len(p.StackAlphabet) == 0 {
		res.add(ViolationEmptyStackAlphabet, "the stack alphabet must not be empty")
	}
	for _, x := range p.StackAlphabet {
		if x == StackEpsilon {
			res.add(ViolationUnknownStackSymbol, "epsilon cannot be a stack symbol")
			continue
		}
		if _, ok := stack[x]; ok {
			res.add(ViolationDuplicateName, "stack symbol `%v` is declared more than once", x)
		}
		stack[x] = struct{}{}
	}
	if _, ok := stack[p.StartStack]; !ok {
		res.add(ViolationUnknownStartStack, "start stack symbol `%v` is not in the stack alphabet", p.StartStack)
	}
	if _, err := ParseAcceptance(string(p.AcceptanceMode())); err != nil {
		res.add(ViolationInvalidAcceptance, "%v", err)
	}

	for _, t := range p.Transitions {
		refs.checkState(t, t.From)
		refs.checkSymbol(t, t.Input, true)
		refs.checkState(t, t.To)
		if t.Pop != StackEpsilon {
			if _, ok := stack[t.Pop]; !ok {
				res.add(ViolationUnknownStackSymbol, "%v: popped symbol `%v` is not in the stack alphabet", t, t.Pop)
			}
		}
		for _, x := range t.Push {
			if _, ok := stack[x]; !ok {
				res.add(ViolationUnknownStackSymbol, "%v: pushed symbol `%v` is not in the stack alphabet", t, x)
			}
		}
	}
	return res
}

func (g *CFG) Validate() *ValidationResult {
	res := &ValidationResult{
		Kind: KindCFG,
	}

	nonterms := map[Symbol]struct{}{}
	for _, n := range g.Nonterminals {
		if n == Epsilon {
			res.add(ViolationUnknownHead, "epsilon cannot be a nonterminal")
			continue
		}
		if _, ok := nonterms[n]; ok {
			res.add(ViolationDuplicateName, "nonterminal `%v` is declared more than once", n)
		}
		nonterms[n] = struct{}{}
	}
	terms := map[Symbol]struct{}{}
	for _, t := range g.Terminals {
		if t == Epsilon {
			res.add(ViolationUnknownBodySymbol, "epsilon cannot be a terminal")
			continue
		}
		if _, ok := terms[t]; ok {
			res.add(ViolationDuplicateName, "terminal `%v` is declared more than once", t)
		}
		terms[t] = struct{}{}
		if _, ok := nonterms[t]; ok {
			res.add(ViolationOverlappingSymbols, "`%v` is declared both as a nonterminal and as a terminal", t)
		}
	}

	if _, ok := nonterms[g.Start]; !ok {
		res.add(ViolationUnknownStartSymbol, "start symbol `%v` is not a declared nonterminal", g.Start)
	}

	startHasProduction := false
	for _, p := range g.Productions {
		if _, ok := nonterms[p.Head]; !ok {
			res.add(ViolationUnknownHead, "%v: `%v` is not a declared nonterminal", p, p.Head)
		}
		if p.Head == g.Start {
			startHasProduction = true
		}
		for _, s := range p.Body {
			if s == Epsilon {
				res.add(ViolationEpsilonInBody, "%v: epsilon must be written as an empty body", p)
				continue
			}
			_, isN := nonterms[s]
			_, isT := terms[s]
			if !isN && !isT {
				res.add(ViolationUnknownBodySymbol, "%v: `%v` is neither a nonterminal nor a terminal", p, s)
			}
		}
	}
	if !startHasProduction {
		res.add(ViolationNoStartProduction, "start symbol `%v` has no production", g.Start)
	}
	return res
}
