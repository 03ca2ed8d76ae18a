package main

import (
	"fmt"
	"os"

	"github.com/nihei9/automata/syntax"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "syntax",
		Short: "Print the EBNF of the definition language",
		Args:  cobra.NoArgs,
		RunE:  runSyntax,
	}
	rootCmd.AddCommand(cmd)
}

func runSyntax(cmd *cobra.Command, args []string) error {
	err := syntax.VerifyEBNF()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "(* definition language version %v *)\n%v", syntax.Version, syntax.EBNF)
	return nil
}
