package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/nihei9/automata/spec"
	"golang.org/x/text/width"
)

// ParseError reports a definition that could not be parsed. Line and Column
// are 1-based; they are 0 when the problem has no single location, such as a
// missing declaration.
type ParseError struct {
	Kind    spec.Kind
	Line    int
	Column  int
	Token   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("syntax error: %v definition: %v", e.Kind, e.Message)
	}
	return fmt.Sprintf("syntax error: %v definition: %v:%v: %v", e.Kind, e.Line, e.Column, e.Message)
}

func newParseError(kind spec.Kind, pos lexer.Position, token string, format string, a ...interface{}) *ParseError {
	return &ParseError{
		Kind:    kind,
		Line:    pos.Line,
		Column:  pos.Column,
		Token:   token,
		Message: fmt.Sprintf(format, a...),
	}
}

func fromParticipleError(kind spec.Kind, err error) *ParseError {
	perr := &ParseError{
		Kind:    kind,
		Message: err.Error(),
	}
	var pe participle.Error
	if errors.As(err, &pe) {
		pos := pe.Position()
		perr.Line = pos.Line
		perr.Column = pos.Column
		perr.Message = pe.Message()
	}
	var ue *participle.UnexpectedTokenError
	if errors.As(err, &ue) {
		perr.Token = ue.Unexpected.Value
		if ue.Unexpected.Value == "\n" || ue.Unexpected.Value == "\r\n" {
			perr.Message = "unexpected end of line"
		}
	}
	return perr
}

// WriteExcerpt writes the source line the error points at with a caret
// under the offending column. Nothing is written when the error has no
// location.
func WriteExcerpt(w io.Writer, src []byte, err *ParseError) {
	if err.Line <= 0 {
		return
	}
	lines := bytes.Split(src, []byte("\n"))
	if err.Line > len(lines) {
		return
	}
	l := bytes.TrimRight(lines[err.Line-1], "\r")
	fmt.Fprintf(w, "%4d | %s\n", err.Line, l)

	var pad strings.Builder
	col := 1
	for i := 0; i < len(l) && col < err.Column; col++ {
		r, size := utf8.DecodeRune(l[i:])
		i += size
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", cellWidth(r)))
	}
	fmt.Fprintf(w, "     | %s^ %v\n", pad.String(), err.Message)
}

// cellWidth is the number of terminal cells r occupies with a monospaced font.
func cellWidth(r rune) int {
	if !unicode.IsGraphic(r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianFullwidth, width.EastAsianWide:
		return 2
	default:
		return 1
	}
}
