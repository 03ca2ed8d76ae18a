package spec

import (
	"fmt"
	"strings"
)

// EpsilonText is how epsilon is written in definitions.
const EpsilonText = "ε"

func symbolString(s Symbol) string {
	if s == Epsilon {
		return EpsilonText
	}
	return string(s)
}

func stackSymbolString(s StackSymbol) string {
	if s == StackEpsilon {
		return EpsilonText
	}
	return string(s)
}

func (t *DFATransition) String() string {
	return fmt.Sprintf("%v, %v -> %v", t.From, symbolString(t.Symbol), t.To)
}

func (t *NFATransition) String() string {
	return fmt.Sprintf("%v, %v -> %v", t.From, symbolString(t.Symbol), joinStates(t.To, ", "))
}

func (t *PDATransition) String() string {
	return fmt.Sprintf("%v, %v, %v -> %v, %v", t.From, symbolString(t.Input), stackSymbolString(t.Pop), t.To, PushString(t.Push))
}

// PushString renders a push sequence top first, or epsilon when it is empty.
func PushString(push []StackSymbol) string {
	if len(push) == 0 {
		return EpsilonText
	}
	var b strings.Builder
	for i, x := range push {
		if i > 0 {
			fmt.Fprintf(&b, " ")
		}
		fmt.Fprintf(&b, "%v", x)
	}
	return b.String()
}

func (p *Production) String() string {
	return fmt.Sprintf("%v -> %v", p.Head, BodyString(p.Body))
}

// BodyString renders a production body, or epsilon when it is empty.
func BodyString(body []Symbol) string {
	if len(body) == 0 {
		return EpsilonText
	}
	return joinSymbols(body, " ")
}

func (d *DFA) String() string {
	var b strings.Builder
	writeDecl(&b, "states", joinStates(d.States, ", "))
	writeDecl(&b, "alphabet", joinSymbols(d.Alphabet, ", "))
	writeDecl(&b, "start", d.Start.String())
	if len(d.Accepting) > 0 {
		writeDecl(&b, "accept", joinStates(d.Accepting, ", "))
	}
	for _, t := range d.Transitions {
		fmt.Fprintf(&b, "%v\n", t)
	}
	return b.String()
}

func (n *NFA) String() string {
	var b strings.Builder
	writeDecl(&b, "states", joinStates(n.States, ", "))
	writeDecl(&b, "alphabet", joinSymbols(n.Alphabet, ", "))
	writeDecl(&b, "start", n.Start.String())
	if len(n.Accepting) > 0 {
		writeDecl(&b, "accept", joinStates(n.Accepting, ", "))
	}
	for _, t := range n.Transitions {
		fmt.Fprintf(&b, "%v\n", t)
	}
	return b.String()
}

func (p *PDA) String() string {
	var b strings.Builder
	writeDecl(&b, "states", joinStates(p.States, ", "))
	writeDecl(&b, "input", joinSymbols(p.InputAlphabet, ", "))
	{
		syms := make([]string, len(p.StackAlphabet))
		for i, x := range p.StackAlphabet {
			syms[i] = string(x)
		}
		writeDecl(&b, "stack", strings.Join(syms, ", "))
	}
	writeDecl(&b, "start", p.Start.String())
	writeDecl(&b, "bottom", p.StartStack.String())
	if len(p.Accepting) > 0 {
		writeDecl(&b, "accept", joinStates(p.Accepting, ", "))
	}
	if p.AcceptanceMode() != AcceptByFinalState {
		writeDecl(&b, "acceptance", string(p.AcceptanceMode()))
	}
	for _, t := range p.Transitions {
		fmt.Fprintf(&b, "%v\n", t)
	}
	return b.String()
}

// String renders the grammar with the alternatives of each head merged into
// one line. Heads appear in the order of their first production.
func (g *CFG) String() string {
	var b strings.Builder
	writeDecl(&b, "nonterminals", joinSymbols(g.Nonterminals, ", "))
	if len(g.Terminals) > 0 {
		writeDecl(&b, "terminals", joinSymbols(g.Terminals, ", "))
	}
	writeDecl(&b, "start", g.Start.String())

	var heads []Symbol
	bodies := map[Symbol][]string{}
	for _, p := range g.Productions {
		if _, ok := bodies[p.Head]; !ok {
			heads = append(heads, p.Head)
		}
		bodies[p.Head] = append(bodies[p.Head], BodyString(p.Body))
	}
	for _, h := range heads {
		fmt.Fprintf(&b, "%v -> %v\n", h, strings.Join(bodies[h], " | "))
	}
	return b.String()
}

func writeDecl(b *strings.Builder, key string, values string) {
	fmt.Fprintf(b, "%v: %v\n", key, values)
}

func joinStates(states []State, sep string) string {
	ss := make([]string, len(states))
	for i, s := range states {
		ss[i] = string(s)
	}
	return strings.Join(ss, sep)
}

func joinSymbols(syms []Symbol, sep string) string {
	ss := make([]string, len(syms))
	for i, s := range syms {
		ss[i] = symbolString(s)
	}
	return strings.Join(ss, sep)
}
