package lexer

import (
	"reflect"
	"strings"
	"testing"
)

const (
	testFile          = "test.c"
	noErrorExpected   = "Expected no error, got: %v"
	tokenCountMessage = "Expected %d token(s), got %d: %v"
)

// lex scans src and fails the test on a lexer error.
func lex(t *testing.T, src string) []Token {
	t.Helper()
	result := Tokenize(testFile, src)
	if !result.Completed() {
		t.Fatalf(noErrorExpected, result.Err)
	}
	return result.Tokens
}

func kinds(tokens []Token) []TOKEN {
	out := make([]TOKEN, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestPunctuationMapsOneToOne(t *testing.T) {
	src := "(){}+-/*<>)(><*/-+}{"
	tokens := lex(t, src)

	if len(tokens) != len(src) {
		t.Fatalf(tokenCountMessage, len(src), len(tokens), tokens)
	}
	for i, tok := range tokens {
		if want := punctuation[src[i]]; tok.Kind != want {
			t.Errorf("token %d: expected %s, got %s", i, want, tok.Kind)
		}
		if tok.Literal != nil {
			t.Errorf("token %d: expected no literal, got %v", i, tok.Literal)
		}
	}
}

func TestSingleTokens(t *testing.T) {
	tests := []struct {
		src     string
		kind    TOKEN
		literal any
	}{
		{"123", INT_LITERAL, int64(123)},
		{"0", INT_LITERAL, int64(0)},
		{"1.5", FLOAT_LITERAL, 1.5},
		{".5", FLOAT_LITERAL, 0.5},
		{"2.", FLOAT_LITERAL, 2.0},
		{"int", INT, nil},
		{"void", VOID, nil},
		{"char", CHAR, nil},
		{"float", FLOAT, nil},
		{"double", DOUBLE, nil},
		{"integer", IDENTIFIER, "integer"},
		{"Int", IDENTIFIER, "Int"},
		{"x1y2", IDENTIFIER, "x1y2"},
		{`"hello"`, STRING_LITERAL, "hello"},
		{`'c'`, STRING_LITERAL, "c"},
		{`"a\n"`, STRING_LITERAL, `a\n`},
		{`"it's"`, STRING_LITERAL, "it's"},
		{`""`, STRING_LITERAL, ""},
		{"#include <stdio.h>", PPD_INCLUDE, "<stdio.h>"},
		{`#include "local.h"`, PPD_INCLUDE, `"local.h"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens := lex(t, tt.src)
			if len(tokens) != 1 {
				t.Fatalf(tokenCountMessage, 1, len(tokens), tokens)
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, tokens[0].Kind)
			}
			if tokens[0].Literal != tt.literal {
				t.Errorf("Expected literal %#v, got %#v", tt.literal, tokens[0].Literal)
			}
		})
	}
}

func TestDefineDirective(t *testing.T) {
	tokens := lex(t, "#define MAX 100\nint")

	if got := kinds(tokens); !reflect.DeepEqual(got, []TOKEN{PPD_DEFINE, INT}) {
		t.Fatalf("Unexpected kinds: %v", got)
	}
	if tokens[0].Text() != "MAX" || tokens[0].Replacement != "100" {
		t.Errorf("Expected MAX = 100, got %s = %s", tokens[0].Text(), tokens[0].Replacement)
	}
	// the directive's newline counts as a line break
	if tokens[1].Start.Line != 1 || tokens[1].Start.Column != 0 {
		t.Errorf("Expected int at 1:0, got %s", tokens[1].Start)
	}
}

func TestNumberWithSecondDecimalPointSplits(t *testing.T) {
	tokens := lex(t, "1.2.3")

	if len(tokens) != 2 {
		t.Fatalf(tokenCountMessage, 2, len(tokens), tokens)
	}
	if tokens[0].FloatValue() != 1.2 || tokens[1].FloatValue() != 0.3 {
		t.Errorf("Expected 1.2 and 0.3, got %v", tokens)
	}
}

func TestNumberStopsAtLetter(t *testing.T) {
	tokens := lex(t, "12ab")

	if got := kinds(tokens); !reflect.DeepEqual(got, []TOKEN{INT_LITERAL, IDENTIFIER}) {
		t.Fatalf("Unexpected kinds: %v", got)
	}
	if tokens[0].IntValue() != 12 || tokens[1].Text() != "ab" {
		t.Errorf("Unexpected tokens: %v", tokens)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	src := `#include <stdio.h>
#define GREETING "hi"

int main(void) {
    double ratio = 3.25;
    printf("%d", 42 + x * 2);
}
`
	result := Tokenize(testFile, src)
	if result.Completed() {
		t.Fatalf("Expected '=' to halt the scan")
	}
	if result.Err.Kind != UnexpectedCharacter || result.Err.Char != '=' {
		t.Fatalf("Expected unexpected '=', got %v", result.Err)
	}
	if result.Err.Line != 4 || result.Err.Column != 17 {
		t.Errorf("Expected error at 4:17, got %d:%d", result.Err.Line, result.Err.Column)
	}

	want := []TOKEN{PPD_INCLUDE, PPD_DEFINE, INT, IDENTIFIER, LEFT_PAREN, VOID, RIGHT_PAREN, LEFT_BRACE, DOUBLE, IDENTIFIER}
	if got := kinds(result.Tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTokenLocations(t *testing.T) {
	tokens := lex(t, "int x\n  \"ab\"\n3.5")

	want := []struct{ line, col, endCol int }{
		{0, 0, 3},
		{0, 4, 5},
		{1, 2, 6},
		{2, 0, 3},
	}
	if len(tokens) != len(want) {
		t.Fatalf(tokenCountMessage, len(want), len(tokens), tokens)
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Start.Line != w.line || tok.Start.Column != w.col || tok.End.Column != w.endCol {
			t.Errorf("token %d (%s): expected %d:%d-%d, got %s-%s", i, tok, w.line, w.col, w.endCol, tok.Start, tok.End)
		}
	}
}

func TestStringLiteralSpanningLines(t *testing.T) {
	tokens := lex(t, "\"a\nb\" x")

	if len(tokens) != 2 {
		t.Fatalf(tokenCountMessage, 2, len(tokens), tokens)
	}
	if tokens[0].Text() != "a\nb" {
		t.Errorf("Expected literal with newline, got %q", tokens[0].Text())
	}
	if tokens[1].Start.Line != 1 || tokens[1].Start.Column != 3 {
		t.Errorf("Expected x at 1:3, got %s", tokens[1].Start)
	}
}

func TestWhitespaceOnly(t *testing.T) {
	tokens := lex(t, " \t\r\n\v\f\n ")
	if len(tokens) != 0 {
		t.Errorf("Expected no tokens, got %v", tokens)
	}
}

func TestByteOrderMarkIsSkipped(t *testing.T) {
	tokens := lex(t, "\uFEFFint x")
	if len(tokens) != 2 || tokens[0].Kind != INT || tokens[1].Text() != "x" {
		t.Fatalf("Expected int x, got %v", tokens)
	}
	// the mark is three bytes wide
	if tokens[0].Start.Column != 3 {
		t.Errorf("Expected int at column 3, got %s", tokens[0].Start)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    ErrorKind
		line    int
		column  int
		tokens  int
		message string
	}{
		{"unexpected character", "@", UnexpectedCharacter, 0, 0, 0, "Unexpected character @ at line 0 column 0"},
		{"unexpected after tokens", "int x;\n", UnexpectedCharacter, 0, 5, 2, "Unexpected character ; at line 0 column 5"},
		{"unexpected on later line", "x\n  y = 1", UnexpectedCharacter, 1, 4, 2, "Unexpected character = at line 1 column 4"},
		{"next line character", "int\u0085x", UnexpectedCharacter, 0, 3, 1, "Unexpected character \u0085 at line 0 column 3"},
		{"non-ascii character", "int é", UnexpectedCharacter, 0, 4, 1, "Unexpected character é at line 0 column 4"},
		{"define with one argument", "#define X", InvalidDefineArity, 0, 0, 0, "Invalid number of arguments for #define at line 0"},
		{"define with three arguments", "int\n#define X 1 2\n", InvalidDefineArity, 1, 0, 1, "Invalid number of arguments for #define at line 1"},
		{"include without argument", "#include", InvalidIncludeArity, 0, 0, 0, "Invalid number of arguments for #include at line 0"},
		{"unknown directive", "void\n\n#pragma once", InvalidPreprocessorDirective, 2, 0, 1, "Invalid preprocessor directive at line 2"},
		{"bare hash", "#", InvalidPreprocessorDirective, 0, 0, 0, "Invalid preprocessor directive at line 0"},
		{"unterminated string", "x \"abc", UnterminatedStringLiteral, 0, 2, 1, "Unterminated string literal at line 0 column 2"},
		{"mismatched quotes", "'abc\"", UnterminatedStringLiteral, 0, 0, 0, "Unterminated string literal at line 0 column 0"},
		{"lone decimal point", "1 . 2", InvalidNumberLiteral, 0, 2, 1, "Invalid number literal . at line 0 column 2"},
		{"integer overflow", "99999999999999999999", InvalidNumberLiteral, 0, 0, 0, "Invalid number literal 99999999999999999999 at line 0 column 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Tokenize(testFile, tt.src)
			if result.Completed() {
				t.Fatalf("Expected an error, got tokens %v", result.Tokens)
			}
			if result.Err.Kind != tt.kind {
				t.Errorf("Expected %s, got %s", tt.kind, result.Err.Kind)
			}
			if result.Err.Line != tt.line || result.Err.Column != tt.column {
				t.Errorf("Expected error at %d:%d, got %d:%d", tt.line, tt.column, result.Err.Line, result.Err.Column)
			}
			if len(result.Tokens) != tt.tokens {
				t.Errorf(tokenCountMessage, tt.tokens, len(result.Tokens), result.Tokens)
			}
			if result.Err.Error() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, result.Err.Error())
			}
			if result.Err.Filepath != testFile {
				t.Errorf("Expected file %s, got %s", testFile, result.Err.Filepath)
			}
		})
	}
}

func TestHaltedLexerIsIdempotent(t *testing.T) {
	l := New(testFile, "int @ void")
	first := l.Tokenize(false)
	cursor := l.cursor

	for i := 0; i < 3; i++ {
		if l.Step() {
			t.Fatalf("Expected halted lexer to stay halted")
		}
	}
	second := l.Tokenize(false)

	if l.cursor != cursor {
		t.Errorf("Cursor moved after halt: %d -> %d", cursor, l.cursor)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %v and %v", first, second)
	}

	done := New(testFile, "int")
	done.Tokenize(false)
	if done.Step() || !done.eof {
		t.Errorf("Expected end of input to be final")
	}
}

func TestDeterministicAcrossInstances(t *testing.T) {
	src := "#include <a.h>\n#define N 4\nint f(char c) { 1.5 + 'x' * N }\n@"
	a := Tokenize(testFile, src)
	b := Tokenize(testFile, src)

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected identical results:\n%v\n%v", a, b)
	}
}

func TestTerminatesWithinSourceLength(t *testing.T) {
	inputs := []string{
		"",
		"int x",
		"((((",
		"1.2.3.4.5",
		"\"unterminated",
		"#define A B\n#include <c>\n",
		strings.Repeat("ab 12 ", 50),
		"a\x00b",
	}

	for _, src := range inputs {
		l := New(testFile, src)
		steps := 0
		for l.Step() {
			steps++
			if l.cursor > l.lookahead || l.lookahead > len(l.source) {
				t.Fatalf("%q: offsets out of order: cursor=%d lookahead=%d", src, l.cursor, l.lookahead)
			}
			if steps > len(src) {
				t.Fatalf("%q: more than %d steps", src, len(src))
			}
		}
		if !l.halted() {
			t.Errorf("%q: expected lexer to halt", src)
		}
	}
}

func TestPeekStopsAtEnd(t *testing.T) {
	l := New(testFile, "ab")

	if ch, ok := l.peek(); !ok || ch != 'b' {
		t.Fatalf("Expected 'b', got %q %v", ch, ok)
	}
	for i := 0; i < 3; i++ {
		if _, ok := l.peek(); ok {
			t.Fatalf("Expected end of input")
		}
	}
	if l.lookahead != 2 {
		t.Errorf("Expected lookahead to stop at 2, got %d", l.lookahead)
	}

	l.commit(1)
	if l.cursor != 1 || l.lookahead != 1 {
		t.Errorf("Expected commit to reset lookahead, got cursor=%d lookahead=%d", l.cursor, l.lookahead)
	}
}

func TestClassification(t *testing.T) {
	for ch := 0; ch < 128; ch++ {
		b := byte(ch)
		digit := ch >= 48 && ch <= 57
		alpha := (ch >= 65 && ch <= 90) || (ch >= 97 && ch <= 122)
		if isDigit(b) != digit || isAlpha(b) != alpha || isAlphaNumeric(b) != (digit || alpha) {
			t.Errorf("Wrong classification for %q", b)
		}
	}
	for _, ch := range " \t\n\r\v\f  " {
		if !isWhitespace(ch) {
			t.Errorf("Expected %q to be whitespace", ch)
		}
	}
	for _, ch := range "\u2028\u2029\u3000\uFEFF" {
		if !isWhitespace(ch) {
			t.Errorf("Expected %U to be whitespace", ch)
		}
	}
	if isWhitespace('x') || isWhitespace('_') || isWhitespace('\u0085') || isWhitespace('\u200B') {
		t.Errorf("Expected letters, NEL and zero width space to not be whitespace")
	}
}

func TestTokenString(t *testing.T) {
	tokens := lex(t, "#define N 3\nint n \"s\" 4 0.25 (")

	want := []string{"#define(N = 3)", "int", "identifier(n)", `string("s")`, "int_literal(4)", "float_literal(0.25)", "("}
	if len(tokens) != len(want) {
		t.Fatalf(tokenCountMessage, len(want), len(tokens), tokens)
	}
	for i, tok := range tokens {
		if tok.String() != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], tok.String())
		}
	}
	if !IsKeyword(tokens[1].Kind) || IsKeyword(tokens[2].Kind) {
		t.Errorf("Expected only int to be a keyword")
	}
}
