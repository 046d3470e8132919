package diagnostics

import (
	"fmt"

	"clexer/internal/source"
)

// Common diagnostic builders for the lexer

// UnexpectedCharacter creates a diagnostic for an unexpected character
func UnexpectedCharacter(filepath string, loc *source.Location, char rune) *Diagnostic {
	return NewError(fmt.Sprintf("unexpected character %q", char)).
		WithCode(ErrUnexpectedCharacter).
		WithPrimaryLabel(filepath, loc, "unexpected character").
		WithNote("only ( ) { } + - / * < > start a punctuation token").
		WithHelp("remove this character or check if it's a typo")
}

// UnterminatedString creates a diagnostic for an unterminated string literal
func UnterminatedString(filepath string, loc *source.Location, quote string) *Diagnostic {
	return NewError("unterminated string literal").
		WithCode(ErrUnterminatedString).
		WithPrimaryLabel(filepath, loc, "no closing quote before the end of the file").
		WithHelp(fmt.Sprintf("add a closing quote (%s) to terminate the string", quote))
}

// InvalidNumberLiteral creates a diagnostic for a number that does not parse
func InvalidNumberLiteral(filepath string, loc *source.Location, text string) *Diagnostic {
	return NewError("invalid number literal " + text).
		WithCode(ErrInvalidNumber).
		WithPrimaryLabel(filepath, loc, "not a valid integer or floating-point value").
		WithHelp("integers must fit in 64 bits and a decimal point needs at least one digit")
}

// Common diagnostic builders for directives

// InvalidDirective creates a diagnostic for an unknown preprocessor command
func InvalidDirective(filepath string, loc *source.Location, command string) *Diagnostic {
	return NewError("invalid preprocessor directive " + command).
		WithCode(ErrInvalidDirective).
		WithPrimaryLabel(filepath, loc, "unknown directive").
		WithNote("supported directives are #include and #define")
}

// WrongDirectiveArity creates a diagnostic for a directive with the wrong
// number of space-separated arguments. cmd marks the directive name.
func WrongDirectiveArity(filepath string, args, cmd *source.Location, command string, expected, found int) *Diagnostic {
	code := ErrDefineArity
	if command == "#include" {
		code = ErrIncludeArity
	}
	return NewError("invalid number of arguments for "+command).
		WithCode(code).
		WithPrimaryLabel(filepath, args, fmt.Sprintf("expected %d argument(s), found %d", expected, found)).
		WithSecondaryLabel(filepath, cmd, "directive").
		WithNote("arguments are separated by single spaces")
}

// Common diagnostic builders for include discovery

// IncludeNotFound creates a warning for a quoted include that resolves to no file
func IncludeNotFound(filepath string, loc *source.Location, path string) *Diagnostic {
	return NewWarning("include not found: "+path).
		WithCode(ErrIncludeNotFound).
		WithPrimaryLabel(filepath, loc, "no such file next to this one or in the include paths").
		WithHelp("add the directory with -I")
}
