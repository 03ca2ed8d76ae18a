package syntax

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/nihei9/automata/spec"
)

// Version is the version of the definition syntax. A definition may state
// it with `syntax: 1`.
const Version = "1"

const (
	keySyntax       = "syntax"
	keyKind         = "kind"
	keyStates       = "states"
	keyAlphabet     = "alphabet"
	keyInput        = "input"
	keyStack        = "stack"
	keyStart        = "start"
	keyBottom       = "bottom"
	keyAccept       = "accept"
	keyAcceptance   = "acceptance"
	keyNonterminals = "nonterminals"
	keyTerminals    = "terminals"
)

// nameClass constrains the values of a declaration.
type nameClass int

const (
	className nameClass = iota
	classChar
	classKeyword
)

type keySpec struct {
	key      string
	required bool
	single   bool
	class    nameClass
}

type ruleForm int

const (
	ruleTransition ruleForm = iota
	ruleStackTransition
	ruleProduction
)

func (f ruleForm) String() string {
	switch f {
	case ruleTransition:
		return "`<from>, <symbol> -> <to>`"
	case ruleStackTransition:
		return "`<from>, <input>, <pop> -> <to>, <push>`"
	default:
		return "`<head> -> <body> | ...`"
	}
}

// capability describes which declarations and which rule form a kind of
// definition accepts. One parser serves all kinds through these descriptors.
type capability struct {
	kind spec.Kind
	keys []*keySpec
	rule ruleForm
}

func (c *capability) keySpec(key string) *keySpec {
	for _, k := range c.keys {
		if k.key == key {
			return k
		}
	}
	return nil
}

var commonKeys = []*keySpec{
	{key: keySyntax, single: true, class: classKeyword},
	{key: keyKind, single: true, class: classKeyword},
}

var finiteAutomatonKeys = append([]*keySpec{
	{key: keyStates, required: true},
	{key: keyAlphabet, required: true, class: classChar},
	{key: keyStart, required: true, single: true},
	{key: keyAccept},
}, commonKeys...)

var capabilities = map[spec.Kind]*capability{
	spec.KindDFA: {
		kind: spec.KindDFA,
		keys: finiteAutomatonKeys,
		rule: ruleTransition,
	},
	spec.KindNFA: {
		kind: spec.KindNFA,
		keys: finiteAutomatonKeys,
		rule: ruleTransition,
	},
	spec.KindPDA: {
		kind: spec.KindPDA,
		keys: append([]*keySpec{
			{key: keyStates, required: true},
			{key: keyInput, required: true, class: classChar},
			{key: keyStack, required: true},
			{key: keyStart, required: true, single: true},
			{key: keyBottom, required: true, single: true},
			{key: keyAccept},
			{key: keyAcceptance, single: true, class: classKeyword},
		}, commonKeys...),
		rule: ruleStackTransition,
	},
	spec.KindCFG: {
		kind: spec.KindCFG,
		keys: append([]*keySpec{
			{key: keyNonterminals, required: true},
			{key: keyTerminals, class: classChar},
			{key: keyStart, required: true, single: true},
		}, commonKeys...),
		rule: ruleProduction,
	},
}

func isEpsilon(s string) bool {
	return s == spec.EpsilonText || s == "eps"
}

// Parse reads a definition of the given kind. The result is one of *spec.CFG,
// *spec.DFA, *spec.NFA, or *spec.PDA. Failures are *ParseError.
func Parse(kind spec.Kind, src io.Reader) (spec.Definition, error) {
	b, err := ioutil.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return ParseString(kind, string(b))
}

func ParseString(kind spec.Kind, src string) (spec.Definition, error) {
	c, ok := capabilities[kind]
	if !ok {
		return nil, fmt.Errorf("unknown definition kind: %v", kind)
	}
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	doc, err := definitionParser.ParseString("", src)
	if err != nil {
		return nil, fromParticipleError(kind, err)
	}
	p := &interpreter{
		cap: c,
	}
	def, err := p.interpret(doc)
	if err != nil {
		return nil, err
	}
	return def, nil
}

func ParseDFA(src io.Reader) (*spec.DFA, error) {
	def, err := Parse(spec.KindDFA, src)
	if err != nil {
		return nil, err
	}
	return def.(*spec.DFA), nil
}

func ParseNFA(src io.Reader) (*spec.NFA, error) {
	def, err := Parse(spec.KindNFA, src)
	if err != nil {
		return nil, err
	}
	return def.(*spec.NFA), nil
}

func ParsePDA(src io.Reader) (*spec.PDA, error) {
	def, err := Parse(spec.KindPDA, src)
	if err != nil {
		return nil, err
	}
	return def.(*spec.PDA), nil
}

func ParseCFG(src io.Reader) (*spec.CFG, error) {
	def, err := Parse(spec.KindCFG, src)
	if err != nil {
		return nil, err
	}
	return def.(*spec.CFG), nil
}

// interpreter turns the kind-independent syntax tree into a typed definition.
// It panics with *ParseError and recovers in interpret.
type interpreter struct {
	cap   *capability
	decls map[string]*declaration
	rules []*line
}

func (p *interpreter) raise(pos lexer.Position, token string, format string, a ...interface{}) {
	panic(newParseError(p.cap.kind, pos, token, format, a...))
}

func (p *interpreter) interpret(doc *document) (def spec.Definition, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			perr, ok := err.(*ParseError)
			if !ok {
				panic(err)
			}
			def = nil
			retErr = perr
		}
	}()

	p.collect(doc)
	switch p.cap.kind {
	case spec.KindDFA:
		return p.buildDFA(), nil
	case spec.KindNFA:
		return p.buildNFA(), nil
	case spec.KindPDA:
		return p.buildPDA(), nil
	default:
		return p.buildCFG(), nil
	}
}

func (p *interpreter) collect(doc *document) {
	p.decls = map[string]*declaration{}
	for _, l := range doc.Lines {
		if l.Declaration == nil {
			p.checkRuleForm(l)
			p.rules = append(p.rules, l)
			continue
		}

		d := l.Declaration
		ks := p.cap.keySpec(d.Key)
		if ks == nil {
			p.raise(d.Pos, d.Key, "unknown declaration `%v` in a %v definition", d.Key, p.cap.kind)
		}
		if prev, ok := p.decls[d.Key]; ok {
			p.raise(d.Pos, d.Key, "duplicate declaration of `%v`; it is already declared at line %v", d.Key, prev.Pos.Line)
		}
		p.checkValues(ks, d)
		p.decls[d.Key] = d
	}

	for _, ks := range p.cap.keys {
		if !ks.required {
			continue
		}
		if _, ok := p.decls[ks.key]; !ok {
			panic(&ParseError{
				Kind:    p.cap.kind,
				Message: fmt.Sprintf("missing `%v` declaration", ks.key),
			})
		}
	}

	if d, ok := p.decls[keySyntax]; ok && d.Values[0].Value != Version {
		v := d.Values[0]
		p.raise(v.Pos, v.Value, "unsupported syntax version `%v`; the supported version is %v", v.Value, Version)
	}
	if d, ok := p.decls[keyKind]; ok && d.Values[0].Value != p.cap.kind.String() {
		v := d.Values[0]
		p.raise(v.Pos, v.Value, "a %v definition cannot declare `kind: %v`", p.cap.kind, v.Value)
	}
}

func (p *interpreter) checkValues(ks *keySpec, d *declaration) {
	if len(d.Values) == 0 {
		if ks.required || ks.single {
			p.raise(d.Pos, d.Key, "`%v` needs a value", d.Key)
		}
		return
	}
	if ks.single && len(d.Values) > 1 {
		v := d.Values[1]
		p.raise(v.Pos, v.Value, "`%v` takes exactly one value", d.Key)
	}
	seen := map[string]struct{}{}
	for _, v := range d.Values {
		if isEpsilon(v.Value) {
			p.raise(v.Pos, v.Value, "`%v` is reserved for epsilon and cannot be declared", v.Value)
		}
		if _, ok := seen[v.Value]; ok {
			p.raise(v.Pos, v.Value, "duplicate name `%v` in `%v`", v.Value, d.Key)
		}
		seen[v.Value] = struct{}{}
		switch ks.class {
		case classChar:
			if utf8.RuneCountInString(v.Value) != 1 {
				p.raise(v.Pos, v.Value, "`%v` must be a single character, but got `%v`", d.Key, v.Value)
			}
		case classKeyword:
			if strings.ContainsAny(v.Value, "{}[]") {
				p.raise(v.Pos, v.Value, "`%v` takes a plain word, but got `%v`", d.Key, v.Value)
			}
		}
	}
}

func (p *interpreter) checkRuleForm(l *line) {
	var form ruleForm
	var pos lexer.Position
	switch {
	case l.Production != nil:
		form = ruleProduction
		pos = l.Production.Pos
	case l.Transition.Pop != nil:
		form = ruleStackTransition
		pos = l.Transition.Pos
	default:
		form = ruleTransition
		pos = l.Transition.Pos
	}
	if form != p.cap.rule {
		p.raise(pos, "", "a %v definition expects rules of the form %v", p.cap.kind, p.cap.rule)
	}
}

func (p *interpreter) values(key string) []string {
	d, ok := p.decls[key]
	if !ok {
		return nil
	}
	vs := make([]string, len(d.Values))
	for i, v := range d.Values {
		vs[i] = v.Value
	}
	return vs
}

func (p *interpreter) value(key string) string {
	vs := p.values(key)
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func (p *interpreter) states(key string) []spec.State {
	vs := p.values(key)
	if vs == nil {
		return nil
	}
	ss := make([]spec.State, len(vs))
	for i, v := range vs {
		ss[i] = spec.State(v)
	}
	return ss
}

func (p *interpreter) symbols(key string) []spec.Symbol {
	vs := p.values(key)
	if vs == nil {
		return nil
	}
	ss := make([]spec.Symbol, len(vs))
	for i, v := range vs {
		ss[i] = spec.Symbol(v)
	}
	return ss
}

func toSymbol(n *name) spec.Symbol {
	if isEpsilon(n.Value) {
		return spec.Epsilon
	}
	return spec.Symbol(n.Value)
}

func (p *interpreter) singleName(t *target, what string) *name {
	if len(t.Names) != 1 {
		p.raise(t.Names[1].Pos, t.Names[1].Value, "%v must be a single name", what)
	}
	return t.Names[0]
}

func (p *interpreter) buildDFA() *spec.DFA {
	dfa := &spec.DFA{
		States:    p.states(keyStates),
		Alphabet:  p.symbols(keyAlphabet),
		Start:     spec.State(p.value(keyStart)),
		Accepting: p.states(keyAccept),
	}
	for _, l := range p.rules {
		t := l.Transition
		for _, to := range t.Targets {
			dfa.Transitions = append(dfa.Transitions, &spec.DFATransition{
				From:   spec.State(t.From.Value),
				Symbol: toSymbol(t.Symbol),
				To:     spec.State(p.singleName(to, "a target state").Value),
			})
		}
	}
	return dfa
}

func (p *interpreter) buildNFA() *spec.NFA {
	nfa := &spec.NFA{
		States:    p.states(keyStates),
		Alphabet:  p.symbols(keyAlphabet),
		Start:     spec.State(p.value(keyStart)),
		Accepting: p.states(keyAccept),
	}
	for _, l := range p.rules {
		t := l.Transition
		tran := &spec.NFATransition{
			From:   spec.State(t.From.Value),
			Symbol: toSymbol(t.Symbol),
		}
		for _, to := range t.Targets {
			tran.To = append(tran.To, spec.State(p.singleName(to, "a target state").Value))
		}
		nfa.Transitions = append(nfa.Transitions, tran)
	}
	return nfa
}

func (p *interpreter) buildPDA() *spec.PDA {
	pda := &spec.PDA{
		States:        p.states(keyStates),
		InputAlphabet: p.symbols(keyInput),
		Start:         spec.State(p.value(keyStart)),
		StartStack:    spec.StackSymbol(p.value(keyBottom)),
		Accepting:     p.states(keyAccept),
		Acceptance:    spec.AcceptByFinalState,
	}
	for _, x := range p.values(keyStack) {
		pda.StackAlphabet = append(pda.StackAlphabet, spec.StackSymbol(x))
	}
	if d, ok := p.decls[keyAcceptance]; ok {
		v := d.Values[0]
		acc, err := spec.ParseAcceptance(v.Value)
		if err != nil {
			p.raise(v.Pos, v.Value, "%v", err)
		}
		pda.Acceptance = acc
	}

	for _, l := range p.rules {
		t := l.Transition
		if len(t.Targets) != 2 {
			p.raise(t.Pos, "", "a pda transition must end with `-> <to>, <push>`; use `%v` to push nothing", spec.EpsilonText)
		}
		pda.Transitions = append(pda.Transitions, &spec.PDATransition{
			From:  spec.State(t.From.Value),
			Input: toSymbol(t.Symbol),
			Pop:   spec.StackSymbol(toSymbol(t.Pop)),
			To:    spec.State(p.singleName(t.Targets[0], "a target state").Value),
			Push:  stackSymbols(p.sequence(t.Targets[1], nil)),
		})
	}
	return pda
}

func stackSymbols(syms []spec.Symbol) []spec.StackSymbol {
	if len(syms) == 0 {
		return nil
	}
	xs := make([]spec.StackSymbol, len(syms))
	for i, s := range syms {
		xs[i] = spec.StackSymbol(s)
	}
	return xs
}

// sequence reads a push sequence or a production body. A lone epsilon is the
// empty sequence; epsilon mixed with other names is an error.
func (p *interpreter) sequence(t *target, check func(n *name)) []spec.Symbol {
	if len(t.Names) == 1 && isEpsilon(t.Names[0].Value) {
		return nil
	}
	syms := make([]spec.Symbol, 0, len(t.Names))
	for _, n := range t.Names {
		if isEpsilon(n.Value) {
			p.raise(n.Pos, n.Value, "`%v` cannot be combined with other symbols", n.Value)
		}
		if check != nil {
			check(n)
		}
		syms = append(syms, spec.Symbol(n.Value))
	}
	return syms
}

func (p *interpreter) buildCFG() *spec.CFG {
	cfg := &spec.CFG{
		Nonterminals: p.symbols(keyNonterminals),
		Terminals:    p.symbols(keyTerminals),
		Start:        spec.Symbol(p.value(keyStart)),
	}
	nonterms := map[string]struct{}{}
	for _, n := range p.values(keyNonterminals) {
		nonterms[n] = struct{}{}
	}
	terms := map[string]struct{}{}
	for _, t := range p.values(keyTerminals) {
		terms[t] = struct{}{}
	}

	for _, l := range p.rules {
		prod := l.Production
		head := prod.Head
		if _, ok := nonterms[head.Value]; !ok {
			p.raise(head.Pos, head.Value, "unknown nonterminal `%v`", head.Value)
		}
		for _, body := range prod.Bodies {
			syms := p.sequence(body, func(n *name) {
				_, isN := nonterms[n.Value]
				_, isT := terms[n.Value]
				if !isN && !isT {
					p.raise(n.Pos, n.Value, "unknown symbol `%v`; it is neither a nonterminal nor a terminal", n.Value)
				}
			})
			cfg.Productions = append(cfg.Productions, &spec.Production{
				Head: spec.Symbol(head.Value),
				Body: syms,
			})
		}
	}
	return cfg
}
