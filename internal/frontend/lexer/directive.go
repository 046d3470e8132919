package lexer

import (
	"strings"

	"clexer/internal/source"
)

// directive scans a preprocessor line starting at '#'. The line is split on
// single spaces into a command and its arguments; only #include and #define
// are understood.
func (l *Lexer) directive() {
	start := l.position()
	for {
		ch, ok := l.peek()
		if !ok || ch == '\n' {
			break
		}
	}

	line := strings.TrimRight(l.source[l.cursor:l.lookahead], " \t\r")
	end := l.positionAt(l.cursor + len(line))

	fields := strings.Split(line, " ")
	command, args := fields[0], fields[1:]

	tok := Token{Location: *source.NewLocation(&start, &end)}
	switch command {
	case "#include":
		if len(args) != 1 {
			l.fail(InvalidIncludeArity, start, end, line)
			return
		}
		tok.Kind = PPD_INCLUDE
		tok.Literal = args[0]
	case "#define":
		if len(args) != 2 {
			l.fail(InvalidDefineArity, start, end, line)
			return
		}
		tok.Kind = PPD_DEFINE
		tok.Literal = args[0]
		tok.Replacement = args[1]
	default:
		l.fail(InvalidPreprocessorDirective, start, end, line)
		return
	}
	l.tokens = append(l.tokens, tok)

	if l.lookahead < len(l.source) {
		// the newline ends the directive
		l.commit(l.lookahead - l.cursor + 1)
		l.newline()
		return
	}
	l.commitLookahead()
}
