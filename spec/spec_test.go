package spec

import (
	"fmt"
	"testing"
)

func newBoundaryDFA() *DFA {
	return &DFA{
		States:   []State{"q0", "q1"},
		Alphabet: []Symbol{"a", "b"},
		Transitions: []*DFATransition{
			{From: "q0", Symbol: "a", To: "q1"},
			{From: "q1", Symbol: "b", To: "q0"},
		},
		Start:     "q0",
		Accepting: []State{"q1"},
	}
}

func TestDFA_Validate(t *testing.T) {
	tests := []struct {
		caption  string
		dfa      *DFA
		codes    []ViolationCode
		complete bool
	}{
		{
			caption: "an incomplete DFA is still valid",
			dfa:     newBoundaryDFA(),
		},
		{
			caption: "a complete DFA",
			dfa: &DFA{
				States:   []State{"q0"},
				Alphabet: []Symbol{"a"},
				Transitions: []*DFATransition{
					{From: "q0", Symbol: "a", To: "q0"},
				},
				Start: "q0",
			},
			complete: true,
		},
		{
			caption: "two transitions leaving the same state on the same symbol",
			dfa: &DFA{
				States:   []State{"q0", "q1"},
				Alphabet: []Symbol{"a"},
				Transitions: []*DFATransition{
					{From: "q0", Symbol: "a", To: "q0"},
					{From: "q0", Symbol: "a", To: "q1"},
					{From: "q1", Symbol: "a", To: "q1"},
				},
				Start: "q0",
			},
			codes:    []ViolationCode{ViolationNondeterministic},
			complete: true,
		},
		{
			caption: "epsilon moves are not allowed",
			dfa: &DFA{
				States:   []State{"q0", "q1"},
				Alphabet: []Symbol{"a"},
				Transitions: []*DFATransition{
					{From: "q0", Symbol: Epsilon, To: "q1"},
				},
				Start: "q0",
			},
			codes: []ViolationCode{ViolationEpsilonMove},
		},
		{
			caption: "references to undeclared states and symbols",
			dfa: &DFA{
				States:   []State{"q0"},
				Alphabet: []Symbol{"a"},
				Transitions: []*DFATransition{
					{From: "q0", Symbol: "b", To: "q9"},
				},
				Start:     "q7",
				Accepting: []State{"q8"},
			},
			codes: []ViolationCode{
				ViolationUnknownStartState,
				ViolationUnknownAcceptingState,
				ViolationUnknownSymbol,
				ViolationUnknownState,
			},
		},
		{
			caption: "the alphabet must not be empty",
			dfa: &DFA{
				States: []State{"q0"},
				Start:  "q0",
			},
			codes:    []ViolationCode{ViolationEmptyAlphabet},
			complete: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			res := tt.dfa.Validate()
			testViolations(t, res, tt.codes)
			if res.Complete != tt.complete {
				t.Fatalf("unexpected completeness; want: %v, got: %v", tt.complete, res.Complete)
			}
		})
	}
}

func TestNFA_Validate(t *testing.T) {
	tests := []struct {
		caption string
		nfa     *NFA
		codes   []ViolationCode
	}{
		{
			caption: "multiple targets and epsilon moves are allowed",
			nfa: &NFA{
				States:   []State{"q0", "q1", "q2"},
				Alphabet: []Symbol{"a"},
				Transitions: []*NFATransition{
					{From: "q0", Symbol: Epsilon, To: []State{"q1"}},
					{From: "q1", Symbol: "a", To: []State{"q1", "q2"}},
					{From: "q1", Symbol: "a", To: []State{"q0"}},
				},
				Start:     "q0",
				Accepting: []State{"q2"},
			},
		},
		{
			caption: "a transition without targets",
			nfa: &NFA{
				States:   []State{"q0"},
				Alphabet: []Symbol{"a"},
				Transitions: []*NFATransition{
					{From: "q0", Symbol: "a"},
				},
				Start: "q0",
			},
			codes: []ViolationCode{ViolationNoTarget},
		},
		{
			caption: "an undeclared target",
			nfa: &NFA{
				States:   []State{"q0"},
				Alphabet: []Symbol{"a"},
				Transitions: []*NFATransition{
					{From: "q0", Symbol: "a", To: []State{"q0", "q1"}},
				},
				Start: "q0",
			},
			codes: []ViolationCode{ViolationUnknownState},
		},
		{
			caption: "no states at all",
			nfa: &NFA{
				Alphabet: []Symbol{"a"},
			},
			codes: []ViolationCode{ViolationNoStates, ViolationUnknownStartState},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			testViolations(t, tt.nfa.Validate(), tt.codes)
		})
	}
}

func TestPDA_Validate(t *testing.T) {
	valid := func() *PDA {
		return &PDA{
			States:        []State{"p", "q"},
			InputAlphabet: []Symbol{"a", "b"},
			StackAlphabet: []StackSymbol{"A", "Z"},
			Transitions: []*PDATransition{
				{From: "p", Input: "a", Pop: StackEpsilon, To: "p", Push: []StackSymbol{"A"}},
				{From: "p", Input: "b", Pop: "A", To: "q"},
				{From: "q", Input: Epsilon, Pop: "Z", To: "q", Push: []StackSymbol{"Z"}},
			},
			Start:      "p",
			StartStack: "Z",
			Accepting:  []State{"q"},
		}
	}

	tests := []struct {
		caption string
		modify  func(p *PDA)
		codes   []ViolationCode
	}{
		{
			caption: "valid",
			modify:  func(p *PDA) {},
		},
		{
			caption: "the start stack symbol must be a stack symbol",
			modify: func(p *PDA) {
				p.StartStack = "X"
			},
			codes: []ViolationCode{ViolationUnknownStartStack},
		},
		{
			caption: "popped and pushed symbols must be stack symbols",
			modify: func(p *PDA) {
				p.Transitions = append(p.Transitions, &PDATransition{From: "p", Input: "a", Pop: "a", To: "p", Push: []StackSymbol{"B"}})
			},
			codes: []ViolationCode{ViolationUnknownStackSymbol, ViolationUnknownStackSymbol},
		},
		{
			caption: "input symbols are checked against the input alphabet",
			modify: func(p *PDA) {
				p.Transitions = append(p.Transitions, &PDATransition{From: "p", Input: "A", Pop: "A", To: "p"})
			},
			codes: []ViolationCode{ViolationUnknownSymbol},
		},
		{
			caption: "an unknown acceptance mode",
			modify: func(p *PDA) {
				p.Acceptance = "both"
			},
			codes: []ViolationCode{ViolationInvalidAcceptance},
		},
		{
			caption: "an empty stack alphabet",
			modify: func(p *PDA) {
				p.StackAlphabet = nil
				p.Transitions = nil
			},
			codes: []ViolationCode{ViolationEmptyStackAlphabet, ViolationUnknownStartStack},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			p := valid()
			tt.modify(p)
			testViolations(t, p.Validate(), tt.codes)
		})
	}
}

func TestCFG_Validate(t *testing.T) {
	tests := []struct {
		caption string
		cfg     *CFG
		codes   []ViolationCode
	}{
		{
			caption: "balanced parentheses",
			cfg: &CFG{
				Nonterminals: []Symbol{"S"},
				Terminals:    []Symbol{"(", ")"},
				Productions: []*Production{
					{Head: "S", Body: []Symbol{"(", "S", ")", "S"}},
					{Head: "S"},
				},
				Start: "S",
			},
		},
		{
			caption: "a grammar without terminals is degenerate but valid",
			cfg: &CFG{
				Nonterminals: []Symbol{"S"},
				Productions: []*Production{
					{Head: "S", Body: []Symbol{"S"}},
				},
				Start: "S",
			},
		},
		{
			caption: "the start symbol needs a production",
			cfg: &CFG{
				Nonterminals: []Symbol{"S", "A"},
				Terminals:    []Symbol{"a"},
				Productions: []*Production{
					{Head: "A", Body: []Symbol{"a"}},
				},
				Start: "S",
			},
			codes: []ViolationCode{ViolationNoStartProduction},
		},
		{
			caption: "nonterminals and terminals must be disjoint",
			cfg: &CFG{
				Nonterminals: []Symbol{"S", "a"},
				Terminals:    []Symbol{"a"},
				Productions: []*Production{
					{Head: "S", Body: []Symbol{"a"}},
				},
				Start: "S",
			},
			codes: []ViolationCode{ViolationOverlappingSymbols},
		},
		{
			caption: "unknown heads, body symbols, and start symbol",
			cfg: &CFG{
				Nonterminals: []Symbol{"A"},
				Terminals:    []Symbol{"a"},
				Productions: []*Production{
					{Head: "B", Body: []Symbol{"a", "C"}},
					{Head: "A", Body: []Symbol{"a", Epsilon}},
				},
				Start: "S",
			},
			codes: []ViolationCode{
				ViolationUnknownStartSymbol,
				ViolationUnknownHead,
				ViolationUnknownBodySymbol,
				ViolationEpsilonInBody,
				ViolationNoStartProduction,
			},
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.caption), func(t *testing.T) {
			testViolations(t, tt.cfg.Validate(), tt.codes)
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	defs := []Definition{
		newBoundaryDFA(),
		&DFA{
			States:   []State{"q0"},
			Alphabet: []Symbol{"a"},
			Transitions: []*DFATransition{
				{From: "q0", Symbol: "a", To: "q0"},
				{From: "q0", Symbol: "a", To: "q1"},
			},
			Start: "q0",
		},
		&CFG{
			Nonterminals: []Symbol{"S"},
			Start:        "S",
		},
	}
	for i, def := range defs {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			first := def.Validate()
			second := def.Validate()
			if first.String() != second.String() || first.Complete != second.Complete {
				t.Fatalf("validation is not idempotent:\n%v\n%v", first, second)
			}
		})
	}
}

func TestDefinition_String(t *testing.T) {
	tests := []struct {
		def  Definition
		text string
	}{
		{
			def: newBoundaryDFA(),
			text: `states: q0, q1
alphabet: a, b
start: q0
accept: q1
q0, a -> q1
q1, b -> q0
`,
		},
		{
			def: &NFA{
				States:   []State{"q0", "q1"},
				Alphabet: []Symbol{"a"},
				Transitions: []*NFATransition{
					{From: "q0", Symbol: Epsilon, To: []State{"q1"}},
					{From: "q1", Symbol: "a", To: []State{"q0", "q1"}},
				},
				Start:     "q0",
				Accepting: []State{"q1"},
			},
			text: `states: q0, q1
alphabet: a
start: q0
accept: q1
q0, ε -> q1
q1, a -> q0, q1
`,
		},
		{
			def: &PDA{
				States:        []State{"p"},
				InputAlphabet: []Symbol{"a"},
				StackAlphabet: []StackSymbol{"A", "Z"},
				Transitions: []*PDATransition{
					{From: "p", Input: "a", Pop: "Z", To: "p", Push: []StackSymbol{"A", "Z"}},
					{From: "p", Input: Epsilon, Pop: "Z", To: "p"},
				},
				Start:      "p",
				StartStack: "Z",
				Acceptance: AcceptByEmptyStack,
			},
			text: `states: p
input: a
stack: A, Z
start: p
bottom: Z
acceptance: empty
p, a, Z -> p, A Z
p, ε, Z -> p, ε
`,
		},
		{
			def: &CFG{
				Nonterminals: []Symbol{"S", "A"},
				Terminals:    []Symbol{"a", "b"},
				Productions: []*Production{
					{Head: "S", Body: []Symbol{"a", "S", "b"}},
					{Head: "A", Body: []Symbol{"a"}},
					{Head: "S"},
				},
				Start: "S",
			},
			text: `nonterminals: S, A
terminals: a, b
start: S
S -> a S b | ε
A -> a
`,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v %v", i, tt.def.Kind()), func(t *testing.T) {
			text := tt.def.String()
			if text != tt.text {
				t.Fatalf("unexpected text; want:\n%v\ngot:\n%v", tt.text, text)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		kind, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("unexpected error occurred: %v", err)
		}
		if kind != k {
			t.Fatalf("unexpected kind; want: %v, got: %v", k, kind)
		}
	}
	_, err := ParseKind("tm")
	if err == nil {
		t.Fatalf("expected error didn't occur")
	}
}

func testViolations(t *testing.T, res *ValidationResult, codes []ViolationCode) {
	t.Helper()
	if res.Valid() != (len(codes) == 0) {
		t.Fatalf("unexpected validity; want: %v, got: %v", len(codes) == 0, res)
	}
	if len(res.Violations) != len(codes) {
		t.Fatalf("unexpected violation count; want: %v, got: %v", codes, res)
	}
	for i, code := range codes {
		if res.Violations[i].Code != code {
			t.Errorf("unexpected violation #%v; want: %v, got: %v", i, code, res.Violations[i])
		}
	}
}
