package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/automata/spec"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show kind [definition]",
		Short: "Print a definition as tables",
		Long:  `show prints the declarations of a definition and its transitions or productions as tables.`,
		Example: `  automata show dfa even.dfa
  automata convert nfa ends-with-ab.nfa | automata show dfa`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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
	err = writeTables(os.Stdout, def)
	if err != nil {
		return err
	}
	res := def.Validate()
	if !res.Valid() {
		fmt.Fprintf(os.Stdout, "%v\n", res)
	}
	return nil
}

func writeTables(w io.Writer, def spec.Definition) error {
	var decls, rules [][]string
	var ruleHeader []string
	switch def := def.(type) {
	case *spec.DFA:
		decls = [][]string{
			{"states", joinNames(def.States)},
			{"alphabet", joinNames(def.Alphabet)},
			{"start", def.Start.String()},
			{"accept", joinNames(def.Accepting)},
		}
		ruleHeader = []string{"From", "Symbol", "To"}
		for _, t := range def.Transitions {
			rules = append(rules, []string{t.From.String(), symbolText(t.Symbol), t.To.String()})
		}
	case *spec.NFA:
		decls = [][]string{
			{"states", joinNames(def.States)},
			{"alphabet", joinNames(def.Alphabet)},
			{"start", def.Start.String()},
			{"accept", joinNames(def.Accepting)},
		}
		ruleHeader = []string{"From", "Symbol", "To"}
		for _, t := range def.Transitions {
			rules = append(rules, []string{t.From.String(), symbolText(t.Symbol), joinNames(t.To)})
		}
	case *spec.PDA:
		decls = [][]string{
			{"states", joinNames(def.States)},
			{"input", joinNames(def.InputAlphabet)},
			{"stack", joinNames(def.StackAlphabet)},
			{"start", def.Start.String()},
			{"bottom", def.StartStack.String()},
			{"accept", joinNames(def.Accepting)},
			{"acceptance", string(def.AcceptanceMode())},
		}
		ruleHeader = []string{"From", "Input", "Pop", "To", "Push"}
		for _, t := range def.Transitions {
			rules = append(rules, []string{
				t.From.String(),
				symbolText(t.Input),
				symbolText(spec.Symbol(t.Pop)),
				t.To.String(),
				spec.PushString(t.Push),
			})
		}
	case *spec.CFG:
		decls = [][]string{
			{"nonterminals", joinNames(def.Nonterminals)},
			{"terminals", joinNames(def.Terminals)},
			{"start", def.Start.String()},
		}
		ruleHeader = []string{"#", "Head", "Body"}
		for i, p := range def.Productions {
			rules = append(rules, []string{fmt.Sprintf("%v", i+1), p.Head.String(), spec.BodyString(p.Body)})
		}
	default:
		return fmt.Errorf("unsupported definition: %T", def)
	}
	err := renderTable(w, []string{"Declaration", "Value"}, decls)
	if err != nil {
		return err
	}
	return renderTable(w, ruleHeader, rules)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to add a table row %v: %w", row, err)
		}
	}
	return table.Render()
}

func symbolText(s spec.Symbol) string {
	if s.IsEpsilon() {
		return spec.EpsilonText
	}
	return s.String()
}

func joinNames[T fmt.Stringer](names []T) string {
	ss := make([]string, len(names))
	for i, n := range names {
		ss[i] = n.String()
	}
	return strings.Join(ss, ", ")
}
