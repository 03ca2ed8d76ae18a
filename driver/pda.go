package driver

import (
	"fmt"
	"strings"

	"github.com/nihei9/automata/spec"
)

const (
	DefaultMaxConfigurations = 100000
	DefaultMaxStackDepth     = 256
)

type PDAOption func(c *pdaConfig) error

// MaxConfigurations bounds the number of distinct configurations a single
// call of Accepts may visit.
func MaxConfigurations(n int) PDAOption {
	return func(c *pdaConfig) error {
		if n <= 0 {
			return fmt.Errorf("the maximum number of configurations must be positive: %v", n)
		}
		c.maxConfigs = n
		return nil
	}
}

// MaxStackDepth bounds the stack. Configurations whose stack would grow
// beyond it are not explored, and a search that skipped any of them without
// accepting fails with *spec.ResourceExceededError instead of rejecting.
func MaxStackDepth(n int) PDAOption {
	return func(c *pdaConfig) error {
		if n <= 0 {
			return fmt.Errorf("the maximum stack depth must be positive: %v", n)
		}
		c.maxDepth = n
		return nil
	}
}

type pdaConfig struct {
	maxConfigs int
	maxDepth   int
}

// PDASimulator searches the configurations of a PDA breadth first.
type PDASimulator struct {
	pda    *spec.PDA
	moves  map[spec.State][]*spec.PDATransition
	config *pdaConfig
}

func NewPDASimulator(pda *spec.PDA, opts ...PDAOption) (*PDASimulator, error) {
	config := &pdaConfig{
		maxConfigs: DefaultMaxConfigurations,
		maxDepth:   DefaultMaxStackDepth,
	}
	for _, opt := range opts {
		err := opt(config)
		if err != nil {
			return nil, err
		}
	}

	if !containsState(pda.States, pda.Start) {
		return nil, spec.NewInternalError("simulate pda", "start state `%v` is not a declared state", pda.Start)
	}
	moves := map[spec.State][]*spec.PDATransition{}
	for _, t := range pda.Transitions {
		moves[t.From] = append(moves[t.From], t)
	}
	return &PDASimulator{
		pda:    pda,
		moves:  moves,
		config: config,
	}, nil
}

// pdaConfiguration is an instantaneous description. The top of the stack is
// the last element of stack.
type pdaConfiguration struct {
	state spec.State
	pos   int
	stack []spec.StackSymbol
}

func (c *pdaConfiguration) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v\x00%v", c.state, c.pos)
	for _, x := range c.stack {
		fmt.Fprintf(&b, "\x00%v", x)
	}
	return b.String()
}

// Accepts reports whether some computation accepts input. It returns
// *spec.ResourceExceededError when the configuration budget runs out before
// the search ends, or when no computation accepts but some were cut off by
// the stack bound.
func (s *PDASimulator) Accepts(input string) (bool, error) {
	var syms []spec.Symbol
	for _, c := range input {
		syms = append(syms, spec.Symbol(string(c)))
	}
	byEmptyStack := s.pda.AcceptanceMode() == spec.AcceptByEmptyStack

	init := &pdaConfiguration{
		state: s.pda.Start,
		stack: []spec.StackSymbol{s.pda.StartStack},
	}
	visited := map[string]struct{}{
		init.key(): {},
	}
	queue := []*pdaConfiguration{init}
	pruned := false
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if c.pos == len(syms) {
			if byEmptyStack && len(c.stack) == 0 {
				return true, nil
			}
			if !byEmptyStack && s.pda.IsAccepting(c.state) {
				return true, nil
			}
		}

		for _, t := range s.moves[c.state] {
			next, ok := s.step(c, t, syms)
			if !ok {
				continue
			}
			if len(next.stack) > s.config.maxDepth {
				pruned = true
				continue
			}
			k := next.key()
			if _, ok := visited[k]; ok {
				continue
			}
			if len(visited) >= s.config.maxConfigs {
				return false, &spec.ResourceExceededError{
					Op:       "simulate pda",
					Resource: "configurations",
					Limit:    fmt.Sprintf("%v", s.config.maxConfigs),
				}
			}
			visited[k] = struct{}{}
			queue = append(queue, next)
		}
	}
	if pruned {
		return false, &spec.ResourceExceededError{
			Op:       "simulate pda",
			Resource: "stack depth",
			Limit:    fmt.Sprintf("%v", s.config.maxDepth),
		}
	}
	return false, nil
}

func (s *PDASimulator) step(c *pdaConfiguration, t *spec.PDATransition, syms []spec.Symbol) (*pdaConfiguration, bool) {
	pos := c.pos
	if t.Input != spec.Epsilon {
		if pos >= len(syms) || syms[pos] != t.Input {
			return nil, false
		}
		pos++
	}
	depth := len(c.stack)
	if t.Pop != spec.StackEpsilon {
		if depth == 0 || c.stack[depth-1] != t.Pop {
			return nil, false
		}
		depth--
	}
	stack := make([]spec.StackSymbol, depth, depth+len(t.Push))
	copy(stack, c.stack[:depth])
	for i := len(t.Push) - 1; i >= 0; i-- {
		stack = append(stack, t.Push[i])
	}
	return &pdaConfiguration{
		state: t.To,
		pos:   pos,
		stack: stack,
	}, true
}

func containsState(states []spec.State, s spec.State) bool {
	for _, t := range states {
		if t == s {
			return true
		}
	}
	return false
}
