package server

import (
	"fmt"
	"time"

	"github.com/nihei9/automata/compiler"
)

type Config struct {
	Addr string

	// StaticDir is served under `/` when it is not empty.
	StaticDir string

	MaxBodyBytes      int64
	ConversionTimeout time.Duration
	MaxDFAStates      int
	MaxProductions    int
}

func DefaultConfig() *Config {
	return &Config{
		Addr:              ":8080",
		MaxBodyBytes:      1 << 20,
		ConversionTimeout: 10 * time.Second,
		MaxDFAStates:      compiler.DefaultMaxDFAStates,
		MaxProductions:    compiler.DefaultMaxProductions,
	}
}

func (c *Config) validate() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("the maximum body size must be positive: %v", c.MaxBodyBytes)
	}
	if c.ConversionTimeout <= 0 {
		return fmt.Errorf("the conversion timeout must be positive: %v", c.ConversionTimeout)
	}
	if c.MaxDFAStates <= 0 {
		return fmt.Errorf("the maximum number of DFA states must be positive: %v", c.MaxDFAStates)
	}
	if c.MaxProductions <= 0 {
		return fmt.Errorf("the maximum number of productions must be positive: %v", c.MaxProductions)
	}
	return nil
}
