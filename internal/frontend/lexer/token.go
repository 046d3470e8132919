package lexer

import (
	"fmt"
	"strconv"

	"clexer/internal/source"
)

type TOKEN string

const (
	// Punctuation
	LEFT_PAREN   TOKEN = "("
	RIGHT_PAREN  TOKEN = ")"
	LEFT_BRACE   TOKEN = "{"
	RIGHT_BRACE  TOKEN = "}"
	PLUS         TOKEN = "+"
	MINUS        TOKEN = "-"
	SLASH        TOKEN = "/"
	ASTERISK     TOKEN = "*"
	HASH         TOKEN = "#" // never emitted, '#' always opens a directive
	LESS_THAN    TOKEN = "<"
	GREATER_THAN TOKEN = ">"

	// Type keywords
	VOID   TOKEN = "void"
	CHAR   TOKEN = "char"
	INT    TOKEN = "int"
	FLOAT  TOKEN = "float"
	DOUBLE TOKEN = "double"

	// Preprocessor directives
	PPD_INCLUDE TOKEN = "#include"
	PPD_DEFINE  TOKEN = "#define"

	IDENTIFIER     TOKEN = "identifier"
	STRING_LITERAL TOKEN = "string"
	INT_LITERAL    TOKEN = "int_literal"
	FLOAT_LITERAL  TOKEN = "float_literal"
)

// punctuation maps single characters to their token kind.
var punctuation = map[byte]TOKEN{
	'(': LEFT_PAREN,
	')': RIGHT_PAREN,
	'{': LEFT_BRACE,
	'}': RIGHT_BRACE,
	'+': PLUS,
	'-': MINUS,
	'/': SLASH,
	'*': ASTERISK,
	'<': LESS_THAN,
	'>': GREATER_THAN,
}

var keywords = map[string]TOKEN{
	"void":   VOID,
	"char":   CHAR,
	"int":    INT,
	"float":  FLOAT,
	"double": DOUBLE,
}

// IsKeyword reports whether kind is one of the type keywords.
func IsKeyword(kind TOKEN) bool {
	_, ok := keywords[string(kind)]
	return ok
}

// Token is a single lexical unit.
//
// Literal holds at most one payload: a string for identifiers, string
// literals and directives, an int64 for INT_LITERAL and a float64 for
// FLOAT_LITERAL. Replacement is only set on PPD_DEFINE.
type Token struct {
	Kind        TOKEN
	Literal     any
	Replacement string
	source.Location
}

// Text returns the string payload, or "" when the token carries none.
func (t Token) Text() string {
	s, _ := t.Literal.(string)
	return s
}

func (t Token) IntValue() int64 {
	v, _ := t.Literal.(int64)
	return v
}

func (t Token) FloatValue() float64 {
	v, _ := t.Literal.(float64)
	return v
}

// LiteralString formats the payload for listings. Tokens without a payload
// return "".
func (t Token) LiteralString() string {
	switch v := t.Literal.(type) {
	case string:
		if t.Kind == STRING_LITERAL {
			return strconv.Quote(v)
		}
		if t.Kind == PPD_DEFINE {
			return v + " = " + t.Replacement
		}
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

func (t Token) String() string {
	if t.Literal == nil {
		return string(t.Kind)
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.LiteralString())
}
