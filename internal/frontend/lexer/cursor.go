package lexer

import (
	"unicode"
	"unicode/utf8"

	"clexer/internal/source"
)

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isAlphaNumeric(ch byte) bool {
	return isDigit(ch) || isAlpha(ch)
}

// isWhitespace reports whether ch is blank, newline included. The set is
// the Unicode white space plus the byte order mark, without NEL (U+0085).
func isWhitespace(ch rune) bool {
	if ch == '\uFEFF' {
		return true
	}
	return unicode.IsSpace(ch) && ch != '\u0085'
}

// current returns the character at the cursor and its width in bytes.
func (l *Lexer) current() (rune, int, bool) {
	if l.cursor >= len(l.source) {
		return 0, 0, false
	}
	ch, width := utf8.DecodeRuneInString(l.source[l.cursor:])
	return ch, width, true
}

// peek moves the lookahead one byte forward and returns the byte there.
// The lookahead stops at the end of the source.
func (l *Lexer) peek() (byte, bool) {
	if l.lookahead >= len(l.source) {
		return 0, false
	}
	l.lookahead++
	if l.lookahead >= len(l.source) {
		return 0, false
	}
	return l.source[l.lookahead], true
}

// commit moves the cursor n bytes forward and resets the lookahead to it.
func (l *Lexer) commit(n int) {
	l.cursor += n
	l.lookahead = l.cursor
}

func (l *Lexer) commitLookahead() {
	l.commit(l.lookahead - l.cursor)
}

// newline records that the byte just before the cursor was a line break.
func (l *Lexer) newline() {
	l.line++
	l.bol = l.cursor
}

func (l *Lexer) position() source.Position {
	return l.positionAt(l.cursor)
}

// positionAt returns the position of an offset on the current line.
func (l *Lexer) positionAt(offset int) source.Position {
	return source.Position{Line: l.line, Column: offset - l.bol, Index: offset}
}
