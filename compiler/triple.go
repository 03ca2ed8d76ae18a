package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/nihei9/automata/spec"
)

// stackRule is a PDA transition that always pops exactly one symbol.
type stackRule struct {
	from  spec.State
	input spec.Symbol
	pop   spec.StackSymbol
	to    spec.State
	push  []spec.StackSymbol
}

// emptyStackPDA accepts by empty stack and has no transitions popping
// epsilon. The triple construction works on this form only.
type emptyStackPDA struct {
	states []spec.State
	stack  []spec.StackSymbol
	start  spec.State
	bottom spec.StackSymbol
	rules  []*stackRule
}

func freshState(states []spec.State, name string) spec.State {
	for {
		if !containsState(states, spec.State(name)) {
			return spec.State(name)
		}
		name += "'"
	}
}

func freshStackSymbol(syms []spec.StackSymbol, name string) spec.StackSymbol {
	for {
		found := false
		for _, x := range syms {
			if x == spec.StackSymbol(name) {
				found = true
				break
			}
		}
		if !found {
			return spec.StackSymbol(name)
		}
		name += "'"
	}
}

func containsState(states []spec.State, s spec.State) bool {
	for _, t := range states {
		if t == s {
			return true
		}
	}
	return false
}

// toEmptyStackPDA rewrites pda into an equivalent emptyStackPDA.
//
// A fresh bottom marker X0 is placed under the declared start stack symbol
// whenever the PDA accepts by final state or may move on an empty stack. The
// marker stands for the empty stack of pda. For acceptance by final state,
// each accepting state may move to a fresh drain state that pops everything.
// For acceptance by empty stack, the marker may be popped anywhere.
// Transitions popping epsilon are then split into one transition per stack
// symbol that pops the symbol and pushes it back under the pushed sequence.
func toEmptyStackPDA(pda *spec.PDA) *emptyStackPDA {
	m := &emptyStackPDA{
		states: append([]spec.State{}, pda.States...),
		stack:  append([]spec.StackSymbol{}, pda.StackAlphabet...),
		start:  pda.Start,
		bottom: pda.StartStack,
	}

	popsEpsilon := false
	for _, t := range pda.Transitions {
		if t.Pop == spec.StackEpsilon {
			popsEpsilon = true
		}
		m.rules = append(m.rules, &stackRule{
			from:  t.From,
			input: t.Input,
			pop:   t.Pop,
			to:    t.To,
			push:  t.Push,
		})
	}

	byFinalState := pda.AcceptanceMode() == spec.AcceptByFinalState
	if byFinalState || popsEpsilon {
		p0 := freshState(m.states, "p0")
		m.states = append(m.states, p0)
		x0 := freshStackSymbol(m.stack, "X0")
		m.stack = append(m.stack, x0)
		m.rules = append(m.rules, &stackRule{
			from:  p0,
			input: spec.Epsilon,
			pop:   x0,
			to:    pda.Start,
			push:  []spec.StackSymbol{pda.StartStack, x0},
		})
		m.start = p0
		m.bottom = x0

		if byFinalState {
			pe := freshState(m.states, "pe")
			m.states = append(m.states, pe)
			for _, f := range pda.Accepting {
				for _, y := range m.stack {
					m.rules = append(m.rules, &stackRule{
						from:  f,
						input: spec.Epsilon,
						pop:   y,
						to:    pe,
					})
				}
			}
			for _, y := range m.stack {
				m.rules = append(m.rules, &stackRule{
					from:  pe,
					input: spec.Epsilon,
					pop:   y,
					to:    pe,
				})
			}
		} else {
			for _, q := range pda.States {
				m.rules = append(m.rules, &stackRule{
					from:  q,
					input: spec.Epsilon,
					pop:   x0,
					to:    q,
				})
			}
		}
	}

	var rules []*stackRule
	for _, r := range m.rules {
		if r.pop != spec.StackEpsilon {
			rules = append(rules, r)
			continue
		}
		for _, y := range m.stack {
			push := make([]spec.StackSymbol, 0, len(r.push)+1)
			push = append(push, r.push...)
			push = append(push, y)
			rules = append(rules, &stackRule{
				from:  r.from,
				input: r.input,
				pop:   y,
				to:    r.to,
				push:  push,
			})
		}
	}
	m.rules = rules
	return m
}

// tripleGrammar accumulates the productions of the triple construction.
type tripleGrammar struct {
	ctx      context.Context
	op       string
	config   *compilerConfig
	m        *emptyStackPDA
	indexed  bool
	names    map[string]spec.Symbol
	nonterms []spec.Symbol
	prods    []*spec.Production
	prodSet  map[string]struct{}
	chains   map[string]struct{}
}

// triple names the nonterminal deriving the inputs that take the PDA from
// state p to state q while popping seq off the stack.
func (g *tripleGrammar) triple(p spec.State, seq []spec.StackSymbol, q spec.State) spec.Symbol {
	key := fmt.Sprintf("[%v,%v,%v]", p, spec.PushString(seq), q)
	if sym, ok := g.names[key]; ok {
		return sym
	}
	sym := spec.Symbol(key)
	if g.indexed {
		sym = spec.Symbol(fmt.Sprintf("N%v", len(g.nonterms)))
	}
	g.names[key] = sym
	g.nonterms = append(g.nonterms, sym)
	return sym
}

func (g *tripleGrammar) addProduction(head spec.Symbol, body ...spec.Symbol) error {
	prod := &spec.Production{
		Head: head,
		Body: body,
	}
	key := prod.String()
	if _, ok := g.prodSet[key]; ok {
		return nil
	}
	if len(g.prods) >= g.config.maxProductions {
		return &spec.ResourceExceededError{
			Op:       g.op,
			Resource: "productions",
			Limit:    fmt.Sprintf("%v", g.config.maxProductions),
		}
	}
	g.prodSet[key] = struct{}{}
	g.prods = append(g.prods, prod)
	return nil
}

// defineChain adds [s,Y1 .. Yk,q] -> [s,Y1,m] [m,Y2 .. Yk,q] for every q and
// m, and recursively the chains of the shorter suffixes.
func (g *tripleGrammar) defineChain(s spec.State, seq []spec.StackSymbol) error {
	if len(seq) < 2 {
		return nil
	}
	key := fmt.Sprintf("%v\x00%v", s, spec.PushString(seq))
	if _, ok := g.chains[key]; ok {
		return nil
	}
	g.chains[key] = struct{}{}

	err := checkContext(g.ctx, g.op)
	if err != nil {
		return err
	}
	for _, q := range g.m.states {
		head := g.triple(s, seq, q)
		for _, m := range g.m.states {
			err := g.addProduction(head, g.triple(s, seq[:1], m), g.triple(m, seq[1:], q))
			if err != nil {
				return err
			}
		}
	}
	for _, m := range g.m.states {
		err := g.defineChain(m, seq[1:])
		if err != nil {
			return err
		}
	}
	return nil
}

// PDAToCFG builds a CFG generating the language of pda with the triple
// construction. Nonterminals are named `[p,X,q]` after the states and stack
// symbols they stand for; when a name contains `[` or `]` they are named N0,
// N1, ... instead. Useless symbols are removed. A PDA accepting nothing
// yields the grammar `S -> S`.
func PDAToCFG(ctx context.Context, pda *spec.PDA, opts ...CompilerOption) (*spec.CFG, error) {
	const op = "convert pda to cfg"

	config, err := newCompilerConfig(opts)
	if err != nil {
		return nil, err
	}

	res := pda.Validate()
	if !res.Valid() {
		return nil, spec.NewInternalError(op, "the pda must be validated before conversion:\n%v", res)
	}

	m := toEmptyStackPDA(pda)
	config.logger.Log("Empty-stack form: %v states, %v stack symbols, %v transitions", len(m.states), len(m.stack), len(m.rules))

	g := &tripleGrammar{
		ctx:     ctx,
		op:      op,
		config:  config,
		m:       m,
		names:   map[string]spec.Symbol{},
		prodSet: map[string]struct{}{},
		chains:  map[string]struct{}{},
	}
	for _, s := range m.states {
		if strings.ContainsAny(string(s), "[]") {
			g.indexed = true
		}
	}
	for _, x := range m.stack {
		if strings.ContainsAny(string(x), "[]") {
			g.indexed = true
		}
	}

	start := freshStart(pda.InputAlphabet)
	{
		var targets []spec.State
		for _, r := range m.rules {
			if !containsState(targets, r.to) {
				targets = append(targets, r.to)
			}
		}
		for _, q := range m.states {
			if !containsState(targets, q) {
				continue
			}
			err := g.addProduction(start, g.triple(m.start, []spec.StackSymbol{m.bottom}, q))
			if err != nil {
				return nil, err
			}
		}
	}

	for _, r := range m.rules {
		err := checkContext(ctx, op)
		if err != nil {
			return nil, err
		}

		var prefix []spec.Symbol
		if r.input != spec.Epsilon {
			prefix = []spec.Symbol{r.input}
		}
		pop := []spec.StackSymbol{r.pop}
		if len(r.push) == 0 {
			err := g.addProduction(g.triple(r.from, pop, r.to), prefix...)
			if err != nil {
				return nil, err
			}
			continue
		}
		for _, q := range m.states {
			body := append(append([]spec.Symbol{}, prefix...), g.triple(r.to, r.push, q))
			err := g.addProduction(g.triple(r.from, pop, q), body...)
			if err != nil {
				return nil, err
			}
		}
		err = g.defineChain(r.to, r.push)
		if err != nil {
			return nil, err
		}
	}
	config.logger.Log("Triple construction: %v nonterminals, %v productions", len(g.nonterms), len(g.prods))

	cfg := trim(&spec.CFG{
		Nonterminals: append([]spec.Symbol{start}, g.nonterms...),
		Terminals:    append([]spec.Symbol{}, pda.InputAlphabet...),
		Productions:  g.prods,
		Start:        start,
	})
	config.logger.Log("Useless symbols removed: %v nonterminals, %v productions", len(cfg.Nonterminals), len(cfg.Productions))

	res = cfg.Validate()
	if !res.Valid() {
		return nil, spec.NewInternalError(op, "the triple construction produced a broken cfg:\n%v", res)
	}
	return cfg, nil
}

func freshStart(terminals []spec.Symbol) spec.Symbol {
	name := "S"
	for {
		found := false
		for _, t := range terminals {
			if t == spec.Symbol(name) {
				found = true
				break
			}
		}
		if !found {
			return spec.Symbol(name)
		}
		name += "'"
	}
}

// trim removes unproductive symbols and then unreachable ones. When the start
// symbol itself is unproductive, the grammar degenerates to `S -> S`.
func trim(cfg *spec.CFG) *spec.CFG {
	nonterms := map[spec.Symbol]struct{}{}
	for _, n := range cfg.Nonterminals {
		nonterms[n] = struct{}{}
	}

	productive := map[spec.Symbol]bool{}
	{
		pending := make([]int, len(cfg.Productions))
		occurrences := map[spec.Symbol][]int{}
		var worklist []spec.Symbol
		for i, p := range cfg.Productions {
			for _, s := range p.Body {
				if _, ok := nonterms[s]; ok {
					pending[i]++
					occurrences[s] = append(occurrences[s], i)
				}
			}
			if pending[i] == 0 && !productive[p.Head] {
				productive[p.Head] = true
				worklist = append(worklist, p.Head)
			}
		}
		for len(worklist) > 0 {
			n := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, i := range occurrences[n] {
				pending[i]--
				head := cfg.Productions[i].Head
				if pending[i] == 0 && !productive[head] {
					productive[head] = true
					worklist = append(worklist, head)
				}
			}
		}
	}

	if !productive[cfg.Start] {
		return &spec.CFG{
			Nonterminals: []spec.Symbol{cfg.Start},
			Terminals:    cfg.Terminals,
			Productions: []*spec.Production{
				{Head: cfg.Start, Body: []spec.Symbol{cfg.Start}},
			},
			Start: cfg.Start,
		}
	}

	isUseful := func(p *spec.Production) bool {
		if !productive[p.Head] {
			return false
		}
		for _, s := range p.Body {
			if _, ok := nonterms[s]; ok && !productive[s] {
				return false
			}
		}
		return true
	}
	byHead := map[spec.Symbol][]*spec.Production{}
	for _, p := range cfg.Productions {
		if isUseful(p) {
			byHead[p.Head] = append(byHead[p.Head], p)
		}
	}

	reachable := map[spec.Symbol]bool{
		cfg.Start: true,
	}
	worklist := []spec.Symbol{cfg.Start}
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, p := range byHead[n] {
			for _, s := range p.Body {
				if _, ok := nonterms[s]; !ok || reachable[s] {
					continue
				}
				reachable[s] = true
				worklist = append(worklist, s)
			}
		}
	}

	trimmed := &spec.CFG{
		Terminals: cfg.Terminals,
		Start:     cfg.Start,
	}
	for _, n := range cfg.Nonterminals {
		if reachable[n] {
			trimmed.Nonterminals = append(trimmed.Nonterminals, n)
		}
	}
	for _, p := range cfg.Productions {
		if reachable[p.Head] && isUseful(p) {
			trimmed.Productions = append(trimmed.Productions, p)
		}
	}
	return trimmed
}
