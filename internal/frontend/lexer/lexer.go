// Package lexer turns C source text into an ordered sequence of tokens.
//
// The Lexer is a small state machine. Each Step dispatches on the character
// under the cursor to one of the literal scanners, the directive scanner or
// the punctuation table. Scanners explore ahead with the lookahead offset and
// commit once they know the extent of their token, so the cursor only moves
// forward and the scan always terminates.
//
// A scan ends either at the end of the source or at the first error. There is
// no recovery: the error is terminal and the tokens collected so far are kept
// for diagnostics only.
package lexer

import (
	"fmt"
	"os"
	"unicode/utf8"

	"clexer/internal/source"
)

// Lexer holds the state of a single scan. It must not be shared between
// goroutines; scan several files with several lexers instead.
type Lexer struct {
	filepath string
	source   string

	cursor    int // start of the character or span being scanned
	lookahead int // exploration offset, always >= cursor
	line      int // 0-based
	bol       int // offset of the beginning of the current line

	tokens []Token
	eof    bool
	err    *Error
}

// Result is the outcome of driving a Lexer to completion.
type Result struct {
	Tokens []Token
	Err    *Error // nil when the whole source was scanned
}

// Completed reports whether the scan reached the end of the source.
// When it did not, Tokens holds only what was scanned before the error.
func (r Result) Completed() bool {
	return r.Err == nil
}

func New(filepath, source string) *Lexer {
	return &Lexer{
		filepath: filepath,
		source:   source,
		tokens:   make([]Token, 0),
	}
}

// Tokenize scans a whole source unit.
func Tokenize(filepath, source string) Result {
	return New(filepath, source).Tokenize(false)
}

// Tokenize drives the lexer until it halts. With debug set the tokens are
// listed on stderr. Calling it again returns the same result.
func (l *Lexer) Tokenize(debug bool) Result {
	for l.Step() {
	}

	if debug {
		l.printTokens()
	}

	return Result{Tokens: l.tokens, Err: l.err}
}

func (l *Lexer) halted() bool {
	return l.err != nil || l.eof
}

// Step scans at most one token and reports whether scanning can go on.
func (l *Lexer) Step() bool {
	if l.halted() {
		return false
	}

	ch, width, ok := l.current()
	if !ok {
		l.eof = true
		return false
	}

	switch {
	case ch == '#':
		l.directive()
	case isWhitespace(ch):
		l.commit(width)
		if ch == '\n' {
			l.newline()
		}
	case ch < utf8.RuneSelf && punctuation[byte(ch)] != "":
		start := l.position()
		l.emit(punctuation[byte(ch)], nil, start, start.Advance(1))
		l.commit(1)
	case ch == '\'' || ch == '"':
		l.stringLiteral()
	case ch < utf8.RuneSelf && isAlpha(byte(ch)):
		l.identifier()
	case ch == '.' || (ch < utf8.RuneSelf && isDigit(byte(ch))):
		l.numberLiteral()
	default:
		start := l.position()
		l.fail(UnexpectedCharacter, start, start.Advance(width), string(ch))
		l.err.Char = ch
	}

	return !l.halted()
}

func (l *Lexer) emit(kind TOKEN, literal any, start, end source.Position) {
	if l.err != nil {
		return
	}
	l.tokens = append(l.tokens, Token{
		Kind:     kind,
		Literal:  literal,
		Location: *source.NewLocation(&start, &end),
	})
}

func (l *Lexer) printTokens() {
	fmt.Fprintf(os.Stderr, "Tokens of %s:\n", l.filepath)
	for _, tok := range l.tokens {
		fmt.Fprintf(os.Stderr, "  %s %s\n", tok.Start, tok)
	}
	if l.err != nil {
		fmt.Fprintf(os.Stderr, "  halted: %s\n", l.err)
	}
}
