package syntax

import (
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// EBNF describes the definition syntax. Spaces, tabs, and carriage returns
// may separate any two tokens. Character classes the notation cannot list
// are given as comments in the manner of the Go specification.
const EBNF = `Definition  = { Line } .
Line        = [ Entry ] [ comment ] newline .
Entry       = Declaration | Rule .
Declaration = word ":" [ NameList ] .
NameList    = Name { "," Name } .
Rule        = Name ( Transition | Production ) .
Transition  = "," Name [ "," Name ] "->" Target { "," Target } .
Production  = "->" Target { "|" Target } .
Target      = Name { Name } .
Name        = word | set | bracket .

word        = wordchar { wordchar } .
set         = "{" { setchar } "}" .
bracket     = "[" { bracketchar } "]" .
comment     = "#" { commentchar } .
newline     = [ "\r" ] "\n" .

wordchar    = /* any character except space, tab, newline, carriage return, form feed, and , : | # { } [ ] - > */ .
setchar     = /* any character except newline, { and } */ .
bracketchar = /* any character except newline, [ and ] */ .
commentchar = /* any character except newline */ .
`

const ebnfStart = "Definition"

// VerifyEBNF checks that EBNF is well formed and that every production is
// reachable from Definition.
func VerifyEBNF() error {
	g, err := ebnf.Parse("definition.ebnf", strings.NewReader(EBNF))
	if err != nil {
		return fmt.Errorf("failed to parse the definition syntax: %w", err)
	}
	err = ebnf.Verify(g, ebnfStart)
	if err != nil {
		return fmt.Errorf("the definition syntax is inconsistent: %w", err)
	}
	return nil
}
