package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nihei9/automata/driver"
	"github.com/nihei9/automata/spec"
	"github.com/spf13/cobra"
)

var acceptsFlags = struct {
	trace      *bool
	maxConfigs *int
	maxDepth   *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "accepts kind definition input...",
		Short: "Run a definition on input strings",
		Long: `accepts prints accept or reject for each input string.
For a cfg, an input is accepted when the grammar generates it.`,
		Example: `  automata accepts dfa even.dfa "" ab abab
  automata accepts pda anbn.pda aabb --max-configurations 1000000`,
		Args: cobra.MinimumNArgs(3),
		RunE: runAccepts,
	}
	acceptsFlags.trace = cmd.Flags().BoolP("trace", "t", false, "print the visited states (dfa only)")
	acceptsFlags.maxConfigs = cmd.Flags().Int("max-configurations", driver.DefaultMaxConfigurations, "maximum number of configurations a PDA run may visit")
	acceptsFlags.maxDepth = cmd.Flags().Int("max-stack-depth", driver.DefaultMaxStackDepth, "maximum PDA stack depth")
	rootCmd.AddCommand(cmd)
}

func runAccepts(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args[0])
	if err != nil {
		return err
	}
	def, err := readValidDefinition(kind, args[1])
	if err != nil {
		return err
	}
	acc, err := newAcceptor(def,
		driver.MaxConfigurations(*acceptsFlags.maxConfigs),
		driver.MaxStackDepth(*acceptsFlags.maxDepth),
	)
	if err != nil {
		return err
	}

	for _, input := range args[2:] {
		ok, err := acc.accepts(input)
		if err != nil {
			return fmt.Errorf("%q: %w", input, err)
		}
		verdict := "reject"
		if ok {
			verdict = "accept"
		}
		fmt.Fprintf(os.Stdout, "%v %q\n", verdict, input)

		if d, isDFA := acc.(*dfaAcceptor); isDFA && *acceptsFlags.trace {
			r := d.sim.Run(input)
			fmt.Fprintf(os.Stdout, "  path: %v\n", joinPath(r.Path))
			if r.Consumed < len([]rune(input)) {
				fmt.Fprintf(os.Stdout, "  halted after %v character(s)\n", r.Consumed)
			}
		}
	}
	return nil
}

func joinPath(path []spec.State) string {
	ss := make([]string, len(path))
	for i, s := range path {
		ss[i] = s.String()
	}
	return strings.Join(ss, " -> ")
}
