package diagnostics

// Lexer error codes
const (
	ErrUnexpectedCharacter = "L0001"
	ErrInvalidDirective    = "L0002"
	ErrDefineArity         = "L0003"
	ErrIncludeArity        = "L0004"
	ErrUnterminatedString  = "L0005"
	ErrInvalidNumber       = "L0006"
)

// Include discovery codes
const (
	ErrIncludeNotFound = "I0001"
)
