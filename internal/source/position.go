// Package source describes where things are in a source file.
//
// Lines and columns are 0-based everywhere inside the compiler. Only the
// diagnostics emitter shifts them to 1-based when printing.
package source

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int // 0-based line number
	Column int // 0-based byte offset from the beginning of the line
	Index  int // byte offset from the beginning of the file
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Advance returns the position n bytes further on the same line.
func (p Position) Advance(n int) Position {
	return Position{Line: p.Line, Column: p.Column + n, Index: p.Index + n}
}

// Location is a half-open span [Start, End) in a source file.
type Location struct {
	Start *Position
	End   *Position
}

// NewLocation copies start and end into a fresh Location.
func NewLocation(start, end *Position) *Location {
	loc := &Location{}
	if start != nil {
		s := *start
		loc.Start = &s
	}
	if end != nil {
		e := *end
		loc.End = &e
	}
	return loc
}
