package syntax

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The lexer is shared by all definition kinds. Set and bracket names may
// contain commas and spaces so that generated labels such as `{q0,q1}` and
// `[p,X,q]` survive a round trip.
var definitionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Set", Pattern: `\{[^{}\n]*\}`},
	{Name: "Triple", Pattern: `\[[^\[\]\n]*\]`},
	{Name: "Punct", Pattern: `[,:|]`},
	{Name: "Word", Pattern: `[^\s,:|#{}\[\]>\-]+`},
})

var definitionParser = participle.MustBuild[document](
	participle.Lexer(definitionLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

type document struct {
	Lines []*line `( @@ | EOL )*`
}

type line struct {
	Pos lexer.Position

	Declaration *declaration `(   @@`
	Transition  *transition  `  | @@`
	Production  *production  `  | @@ ) EOL`
}

type declaration struct {
	Pos lexer.Position

	Key    string  `@Word ":"`
	Values []*name `( @@ ( "," @@ )* )?`
}

type name struct {
	Pos lexer.Position

	Value string `@( Word | Set | Triple )`
}

// transition covers both `<from>, <sym> -> <to>, ...` and the PDA form
// `<from>, <in>, <pop> -> <to>, <push...>`.
type transition struct {
	Pos lexer.Position

	From    *name     `@@ ","`
	Symbol  *name     `@@`
	Pop     *name     `( "," @@ )?`
	Targets []*target `Arrow @@ ( "," @@ )*`
}

type target struct {
	Pos lexer.Position

	Names []*name `@@+`
}

type production struct {
	Pos lexer.Position

	Head   *name     `@@ Arrow`
	Bodies []*target `@@ ( "|" @@ )*`
}
