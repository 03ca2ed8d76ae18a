package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nihei9/automata/log"
	"github.com/nihei9/automata/spec"
)

const (
	DefaultMaxDFAStates   = 4096
	DefaultMaxProductions = 100000
)

type CompilerOption func(c *compilerConfig) error

func EnableLogging(w io.Writer) CompilerOption {
	return func(c *compilerConfig) error {
		logger, err := log.NewLogger(w)
		if err != nil {
			return err
		}
		c.logger = logger
		return nil
	}
}

// UseLogger makes the converters write to an existing logger.
func UseLogger(logger log.Logger) CompilerOption {
	return func(c *compilerConfig) error {
		if logger == nil {
			return fmt.Errorf("logger must be non-nil")
		}
		c.logger = logger
		return nil
	}
}

// MaxDFAStates bounds the number of states the subset construction may
// discover.
func MaxDFAStates(n int) CompilerOption {
	return func(c *compilerConfig) error {
		if n <= 0 {
			return fmt.Errorf("the maximum number of DFA states must be positive: %v", n)
		}
		c.maxDFAStates = n
		return nil
	}
}

// MaxProductions bounds the number of productions the triple construction
// may generate before useless symbols are removed.
func MaxProductions(n int) CompilerOption {
	return func(c *compilerConfig) error {
		if n <= 0 {
			return fmt.Errorf("the maximum number of productions must be positive: %v", n)
		}
		c.maxProductions = n
		return nil
	}
}

type compilerConfig struct {
	logger         log.Logger
	maxDFAStates   int
	maxProductions int
}

func newCompilerConfig(opts []CompilerOption) (*compilerConfig, error) {
	config := &compilerConfig{
		logger:         log.NewNopLogger(),
		maxDFAStates:   DefaultMaxDFAStates,
		maxProductions: DefaultMaxProductions,
	}
	for _, opt := range opts {
		err := opt(config)
		if err != nil {
			return nil, err
		}
	}
	return config, nil
}

// checkContext turns an expired deadline into *spec.ResourceExceededError.
// Cancellation is returned as is.
func checkContext(ctx context.Context, op string) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		limit := "deadline"
		if dl, ok := ctx.Deadline(); ok {
			limit = fmt.Sprintf("deadline %v", dl.Format("15:04:05.000"))
		}
		return &spec.ResourceExceededError{
			Op:       op,
			Resource: "time",
			Limit:    limit,
		}
	}
	return fmt.Errorf("%v: %w", op, err)
}
