package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nihei9/automata/compiler"
	"github.com/nihei9/automata/spec"
	"github.com/spf13/cobra"
)

var convertFlags = struct {
	debug          *bool
	output         *string
	timeout        *time.Duration
	maxDFAStates   *int
	maxProductions *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "convert (nfa|pda) [definition]",
		Short: "Convert an NFA into a DFA or a PDA into a CFG",
		Long: `convert takes an NFA and generates an equivalent DFA with the subset construction,
or takes a PDA and generates an equivalent CFG with the triple construction.
The result is written in the definition syntax, so it can be passed to the other commands.`,
		Example: `  Read from/Write to the specified file:
    automata convert nfa ends-with-ab.nfa -o ends-with-ab.dfa
  Read from stdin and write to stdout:
    cat anbn.pda | automata convert pda`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runConvert,
	}
	convertFlags.debug = cmd.Flags().BoolP("debug", "d", false, "enable logging")
	convertFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	convertFlags.timeout = cmd.Flags().Duration("timeout", 0, "give up after the duration (default no limit)")
	convertFlags.maxDFAStates = cmd.Flags().Int("max-dfa-states", compiler.DefaultMaxDFAStates, "maximum number of DFA states")
	convertFlags.maxProductions = cmd.Flags().Int("max-productions", compiler.DefaultMaxProductions, "maximum number of productions")
	rootCmd.AddCommand(cmd)
}

func runConvert(cmd *cobra.Command, args []string) (retErr error) {
	kind, err := parseKindArg(args[0], spec.KindNFA, spec.KindPDA)
	if err != nil {
		return err
	}
	var path string
	if len(args) > 1 {
		path = args[1]
	}

	opts := []compiler.CompilerOption{
		compiler.MaxDFAStates(*convertFlags.maxDFAStates),
		compiler.MaxProductions(*convertFlags.maxProductions),
	}
	if *convertFlags.debug {
		f, finish, err := openLogFile("convert")
		if err != nil {
			return err
		}
		defer func() {
			finish(retErr)
		}()
		opts = append(opts, compiler.EnableLogging(f))
	}

	def, err := readValidDefinition(kind, path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *convertFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *convertFlags.timeout)
		defer cancel()
	}
	var result spec.Definition
	switch def := def.(type) {
	case *spec.NFA:
		result, err = compiler.NFAToDFA(ctx, def, opts...)
	case *spec.PDA:
		result, err = compiler.PDAToCFG(ctx, def, opts...)
	}
	if err != nil {
		return err
	}

	w := os.Stdout
	if *convertFlags.output != "" {
		f, err := os.OpenFile(*convertFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot open the output file %s: %w", *convertFlags.output, err)
		}
		defer f.Close()
		w = f
	}
	fmt.Fprintf(w, "%v", result)
	return nil
}
