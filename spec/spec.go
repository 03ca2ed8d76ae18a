package spec

import "fmt"

type Kind string

const (
	KindCFG = Kind("cfg")
	KindDFA = Kind("dfa")
	KindNFA = Kind("nfa")
	KindPDA = Kind("pda")
)

var Kinds = []Kind{
	KindCFG,
	KindDFA,
	KindNFA,
	KindPDA,
}

func (k Kind) String() string {
	return string(k)
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown definition kind `%v`; it must be one of %v", s, Kinds)
}

type State string

func (s State) String() string {
	return string(s)
}

// Symbol is an input or terminal symbol (a single character) or, in a CFG,
// the name of a nonterminal. The empty symbol is epsilon.
type Symbol string

const Epsilon = Symbol("")

func (s Symbol) String() string {
	return string(s)
}

func (s Symbol) IsEpsilon() bool {
	return s == Epsilon
}

type StackSymbol string

const StackEpsilon = StackSymbol("")

func (s StackSymbol) String() string {
	return string(s)
}

// Definition is one of *CFG, *DFA, *NFA, or *PDA.
type Definition interface {
	fmt.Stringer
	Kind() Kind
	Validate() *ValidationResult
}

var (
	_ Definition = &CFG{}
	_ Definition = &DFA{}
	_ Definition = &NFA{}
	_ Definition = &PDA{}
)

type DFATransition struct {
	From   State
	Symbol Symbol
	To     State
}

type DFA struct {
	States      []State
	Alphabet    []Symbol
	Transitions []*DFATransition
	Start       State
	Accepting   []State
}

func (*DFA) Kind() Kind {
	return KindDFA
}

// IsAccepting reports whether s is one of the accepting states.
func (d *DFA) IsAccepting(s State) bool {
	return containsState(d.Accepting, s)
}

type NFATransition struct {
	From   State
	Symbol Symbol
	To     []State
}

type NFA struct {
	States      []State
	Alphabet    []Symbol
	Transitions []*NFATransition
	Start       State
	Accepting   []State
}

func (*NFA) Kind() Kind {
	return KindNFA
}

func (n *NFA) IsAccepting(s State) bool {
	return containsState(n.Accepting, s)
}

type Acceptance string

const (
	AcceptByFinalState = Acceptance("final")
	AcceptByEmptyStack = Acceptance("empty")
)

func ParseAcceptance(s string) (Acceptance, error) {
	switch Acceptance(s) {
	case AcceptByFinalState, AcceptByEmptyStack:
		return Acceptance(s), nil
	}
	return "", fmt.Errorf("acceptance must be `%v` or `%v`", AcceptByFinalState, AcceptByEmptyStack)
}

// PDATransition reads Input (or nothing when it is epsilon), pops Pop (or
// nothing when it is epsilon), moves to To, and pushes Push. Push[0] becomes
// the new top of the stack.
type PDATransition struct {
	From  State
	Input Symbol
	Pop   StackSymbol
	To    State
	Push  []StackSymbol
}

type PDA struct {
	States        []State
	InputAlphabet []Symbol
	StackAlphabet []StackSymbol
	Transitions   []*PDATransition
	Start         State
	StartStack    StackSymbol
	Accepting     []State
	Acceptance    Acceptance
}

func (*PDA) Kind() Kind {
	return KindPDA
}

func (p *PDA) IsAccepting(s State) bool {
	return containsState(p.Accepting, s)
}

// AcceptanceMode returns the acceptance mode; the zero value means acceptance by final state.
func (p *PDA) AcceptanceMode() Acceptance {
	if p.Acceptance == "" {
		return AcceptByFinalState
	}
	return p.Acceptance
}

// Production rewrites Head into Body. An empty body is an epsilon production.
type Production struct {
	Head Symbol
	Body []Symbol
}

func (p *Production) IsEpsilon() bool {
	return len(p.Body) == 0
}

type CFG struct {
	Nonterminals []Symbol
	Terminals    []Symbol
	Productions  []*Production
	Start        Symbol
}

func (*CFG) Kind() Kind {
	return KindCFG
}

func (g *CFG) IsNonterminal(s Symbol) bool {
	return containsSymbol(g.Nonterminals, s)
}

func (g *CFG) IsTerminal(s Symbol) bool {
	return containsSymbol(g.Terminals, s)
}

// ProductionsOf returns the productions whose head is head, in declared order.
func (g *CFG) ProductionsOf(head Symbol) []*Production {
	var prods []*Production
	for _, p := range g.Productions {
		if p.Head == head {
			prods = append(prods, p)
		}
	}
	return prods
}

func containsState(states []State, s State) bool {
	for _, t := range states {
		if t == s {
			return true
		}
	}
	return false
}

func containsSymbol(syms []Symbol, s Symbol) bool {
	for _, t := range syms {
		if t == s {
			return true
		}
	}
	return false
}
