package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "automata",
	Short: "Validate, simulate, and convert automata and grammars",
	Long: `automata works with textual definitions of DFAs, NFAs, PDAs, and CFGs:
* Validates a definition and simulates it on input strings.
* Converts an NFA into an equivalent DFA and a PDA into an equivalent CFG.
* Serves these features over HTTP.
Run ` + "`automata syntax`" + ` to see the definition syntax.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
