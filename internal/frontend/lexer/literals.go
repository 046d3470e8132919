package lexer

import "strconv"

// identifier scans the longest run of letters and digits and classifies it
// as a keyword or an identifier.
func (l *Lexer) identifier() {
	start := l.position()
	for {
		ch, ok := l.peek()
		if !ok || !isAlphaNumeric(ch) {
			break
		}
	}

	text := l.source[l.cursor:l.lookahead]
	end := l.positionAt(l.lookahead)
	l.commitLookahead()

	if kind, ok := keywords[text]; ok {
		l.emit(kind, nil, start, end)
		return
	}
	l.emit(IDENTIFIER, text, start, end)
}

// stringLiteral scans up to the next occurrence of the opening quote.
// Escapes are not interpreted.
func (l *Lexer) stringLiteral() {
	start := l.position()
	quote := l.source[l.cursor]

	for {
		ch, ok := l.peek()
		if !ok {
			l.fail(UnterminatedStringLiteral, start, l.positionAt(l.lookahead), string(quote))
			return
		}
		if ch == quote {
			break
		}
		if ch == '\n' {
			l.line++
			l.bol = l.lookahead + 1
		}
	}

	literal := l.source[l.cursor+1 : l.lookahead]
	l.lookahead++ // closing quote
	end := l.positionAt(l.lookahead)
	l.commitLookahead()
	l.emit(STRING_LITERAL, literal, start, end)
}

// numberLiteral scans digits with at most one decimal point. A second point
// is left for the next step, so "1.2.3" becomes 1.2 followed by .3.
func (l *Lexer) numberLiteral() {
	start := l.position()
	decimal := l.source[l.cursor] == '.'

	l.digits()
	if !decimal && l.lookahead < len(l.source) && l.source[l.lookahead] == '.' {
		decimal = true
		l.digits()
	}

	text := l.source[l.cursor:l.lookahead]
	end := l.positionAt(l.lookahead)

	if decimal {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.fail(InvalidNumberLiteral, start, end, text)
			return
		}
		l.commitLookahead()
		l.emit(FLOAT_LITERAL, value, start, end)
		return
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.fail(InvalidNumberLiteral, start, end, text)
		return
	}
	l.commitLookahead()
	l.emit(INT_LITERAL, value, start, end)
}

// digits extends the lookahead over a run of decimal digits.
func (l *Lexer) digits() {
	for {
		ch, ok := l.peek()
		if !ok || !isDigit(ch) {
			return
		}
	}
}
