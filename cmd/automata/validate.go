package main

import (
	"fmt"
	"os"

	"github.com/nihei9/automata/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate kind [definition]",
		Short: "Check a definition for structural errors",
		Long: `validate parses a definition and reports every structural violation it finds.
kind is one of cfg, dfa, nfa, and pda. The exit status is 1 when the definition cannot be parsed or is invalid.`,
		Example: `  automata validate dfa even.dfa
  cat grammar.cfg | automata validate cfg`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runValidate,
	}
	rootCmd.AddCommand(cmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args[0])
	if err != nil {
		return err
	}
	var path string
	if len(args) > 1 {
		path = args[1]
	}
	def, err := readDefinition(kind, path)
	if err != nil {
		return err
	}

	res := def.Validate()
	fmt.Fprintf(os.Stdout, "%v\n", res)
	if kind == spec.KindDFA && res.Valid() {
		fmt.Fprintf(os.Stdout, "complete: %v\n", res.Complete)
	}
	if !res.Valid() {
		return fmt.Errorf("%v violation(s) found", len(res.Violations))
	}
	return nil
}
