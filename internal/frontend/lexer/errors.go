package lexer

import (
	"fmt"

	"clexer/internal/source"
)

type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota
	InvalidPreprocessorDirective
	InvalidDefineArity
	InvalidIncludeArity
	UnterminatedStringLiteral
	InvalidNumberLiteral
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case InvalidPreprocessorDirective:
		return "invalid preprocessor directive"
	case InvalidDefineArity:
		return "invalid #define arity"
	case InvalidIncludeArity:
		return "invalid #include arity"
	case UnterminatedStringLiteral:
		return "unterminated string literal"
	case InvalidNumberLiteral:
		return "invalid number literal"
	default:
		return "unknown"
	}
}

// Error is the terminal error of a scan. Line and Column are 0-based.
type Error struct {
	Kind     ErrorKind
	Filepath string
	Char     rune   // offending character, UnexpectedCharacter only
	Text     string // offending span: directive line, number text or string opening
	Line     int
	Column   int
	Index    int
	End      source.Position // one past the offending span
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("Unexpected character %c at line %d column %d", e.Char, e.Line, e.Column)
	case InvalidPreprocessorDirective:
		return fmt.Sprintf("Invalid preprocessor directive at line %d", e.Line)
	case InvalidDefineArity:
		return fmt.Sprintf("Invalid number of arguments for #define at line %d", e.Line)
	case InvalidIncludeArity:
		return fmt.Sprintf("Invalid number of arguments for #include at line %d", e.Line)
	case UnterminatedStringLiteral:
		return fmt.Sprintf("Unterminated string literal at line %d column %d", e.Line, e.Column)
	case InvalidNumberLiteral:
		return fmt.Sprintf("Invalid number literal %s at line %d column %d", e.Text, e.Line, e.Column)
	default:
		return fmt.Sprintf("lexer error at line %d column %d", e.Line, e.Column)
	}
}

// Location returns the span the error points at.
func (e *Error) Location() *source.Location {
	start := source.Position{Line: e.Line, Column: e.Column, Index: e.Index}
	end := e.End
	if end.Index <= start.Index {
		end = start.Advance(1)
	}
	return source.NewLocation(&start, &end)
}

// fail sets the terminal error. The span runs from start to end.
func (l *Lexer) fail(kind ErrorKind, start, end source.Position, text string) {
	if l.err != nil {
		return
	}
	l.err = &Error{
		Kind:     kind,
		Filepath: l.filepath,
		Text:     text,
		Line:     start.Line,
		Column:   start.Column,
		Index:    start.Index,
		End:      end,
	}
}
