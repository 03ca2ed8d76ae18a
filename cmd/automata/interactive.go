package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/nihei9/automata/driver"
	"github.com/spf13/cobra"
)

var interactiveFlags = struct {
	maxConfigs *int
	maxDepth   *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "interactive kind definition",
		Short: "Read input strings from a prompt and run a definition on them",
		Long: `interactive loads a definition and asks for input strings until you type exit
or press Ctrl+C / Ctrl+D.`,
		Example: `  automata interactive dfa even.dfa`,
		Args:    cobra.ExactArgs(2),
		RunE:    runInteractive,
	}
	interactiveFlags.maxConfigs = cmd.Flags().Int("max-configurations", driver.DefaultMaxConfigurations, "maximum number of configurations a PDA run may visit")
	interactiveFlags.maxDepth = cmd.Flags().Int("max-stack-depth", driver.DefaultMaxStackDepth, "maximum PDA stack depth")
	rootCmd.AddCommand(cmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	kind, err := parseKindArg(args[0])
	if err != nil {
		return err
	}
	def, err := readValidDefinition(kind, args[1])
	if err != nil {
		return err
	}
	acc, err := newAcceptor(def,
		driver.MaxConfigurations(*interactiveFlags.maxConfigs),
		driver.MaxStackDepth(*interactiveFlags.maxDepth),
	)
	if err != nil {
		return err
	}

	err = writeTables(os.Stdout, def)
	if err != nil {
		return err
	}

	divider := promptui.Styler(promptui.FGMagenta)(strings.Repeat("-", 30))
	for {
		prompt := promptui.Prompt{
			Label: "Input (type exit to quit)",
		}
		input, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}
		if input == "exit" {
			return nil
		}

		if d, isDFA := acc.(*dfaAcceptor); isDFA {
			r := d.sim.Run(input)
			fmt.Println(promptui.Styler(promptui.FGCyan)("path: " + joinPath(r.Path)))
			if r.Consumed < len([]rune(input)) {
				fmt.Println(promptui.Styler(promptui.FGYellow)(fmt.Sprintf("halted after %v character(s)", r.Consumed)))
			}
		}

		ok, err := acc.accepts(input)
		switch {
		case err != nil:
			fmt.Println(promptui.Styler(promptui.FGYellow)(err.Error()))
		case ok:
			fmt.Println(promptui.Styler(promptui.FGGreen)(fmt.Sprintf("accept %q", input)))
		default:
			fmt.Println(promptui.Styler(promptui.FGRed)(fmt.Sprintf("reject %q", input)))
		}
		fmt.Println(divider)
	}
}
