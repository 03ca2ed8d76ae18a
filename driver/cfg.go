package driver

import (
	"github.com/nihei9/automata/spec"
)

// Recognizer decides membership in the language of a CFG with the Earley
// algorithm. Nullable nonterminals are advanced over at prediction time, so
// epsilon productions need no special completion pass.
type Recognizer struct {
	cfg      *spec.CFG
	nonterms map[spec.Symbol]struct{}
	prods    map[spec.Symbol][]int
	nullable map[spec.Symbol]bool
}

func NewRecognizer(cfg *spec.CFG) *Recognizer {
	nonterms := map[spec.Symbol]struct{}{}
	for _, n := range cfg.Nonterminals {
		nonterms[n] = struct{}{}
	}
	prods := map[spec.Symbol][]int{}
	for i, p := range cfg.Productions {
		prods[p.Head] = append(prods[p.Head], i)
	}
	return &Recognizer{
		cfg:      cfg,
		nonterms: nonterms,
		prods:    prods,
		nullable: genNullable(cfg),
	}
}

func genNullable(cfg *spec.CFG) map[spec.Symbol]bool {
	nullable := map[spec.Symbol]bool{}
	for {
		changed := false
		for _, p := range cfg.Productions {
			if nullable[p.Head] {
				continue
			}
			all := true
			for _, s := range p.Body {
				if !nullable[s] {
					all = false
					break
				}
			}
			if all {
				nullable[p.Head] = true
				changed = true
			}
		}
		if !changed {
			return nullable
		}
	}
}

type earleyItem struct {
	prod   int
	dot    int
	origin int
}

type earleySet struct {
	items []earleyItem
	seen  map[earleyItem]struct{}
}

func newEarleySet() *earleySet {
	return &earleySet{
		seen: map[earleyItem]struct{}{},
	}
}

func (s *earleySet) add(item earleyItem) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

// Generates reports whether the start symbol derives input. Each character of
// input is one terminal.
func (r *Recognizer) Generates(input string) bool {
	var tokens []spec.Symbol
	for _, c := range input {
		tokens = append(tokens, spec.Symbol(string(c)))
	}

	sets := make([]*earleySet, len(tokens)+1)
	for i := range sets {
		sets[i] = newEarleySet()
	}
	for _, p := range r.prods[r.cfg.Start] {
		sets[0].add(earleyItem{prod: p})
	}

	for i, set := range sets {
		for k := 0; k < len(set.items); k++ {
			item := set.items[k]
			body := r.cfg.Productions[item.prod].Body
			if item.dot < len(body) {
				sym := body[item.dot]
				if _, ok := r.nonterms[sym]; ok {
					for _, p := range r.prods[sym] {
						set.add(earleyItem{prod: p, origin: i})
					}
					if r.nullable[sym] {
						set.add(earleyItem{prod: item.prod, dot: item.dot + 1, origin: item.origin})
					}
					continue
				}
				if i < len(tokens) && tokens[i] == sym {
					sets[i+1].add(earleyItem{prod: item.prod, dot: item.dot + 1, origin: item.origin})
				}
				continue
			}

			head := r.cfg.Productions[item.prod].Head
			origin := sets[item.origin]
			for j := 0; j < len(origin.items); j++ {
				waiting := origin.items[j]
				wb := r.cfg.Productions[waiting.prod].Body
				if waiting.dot < len(wb) && wb[waiting.dot] == head {
					set.add(earleyItem{prod: waiting.prod, dot: waiting.dot + 1, origin: waiting.origin})
				}
			}
		}
	}

	for _, item := range sets[len(tokens)].items {
		p := r.cfg.Productions[item.prod]
		if p.Head == r.cfg.Start && item.origin == 0 && item.dot == len(p.Body) {
			return true
		}
	}
	return false
}
