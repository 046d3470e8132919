// Package context - tokenization pipeline
//
// Phase progression:
//
//	Entry -> [File Discovery] -> Lexer -> Exit
//
// Every phase reads what the previous one left on the SourceFiles and
// reports problems to ctx.Diagnostics.
package context

import (
	"fmt"
	"strings"
	"sync"

	"clexer/internal/diagnostics"
	"clexer/internal/frontend/lexer"
	"clexer/internal/source"
)

// Pipeline manages the tokenization pipeline
type Pipeline struct {
	Context *CompilerContext
}

// NewPipeline creates a new pipeline with the given options
func NewPipeline(options *CompilerOptions) *Pipeline {
	return &Pipeline{
		Context: New(options),
	}
}

// Run discovers every file reachable from the entry point and tokenizes all
// of them. It fails when a file cannot be read or any file has a lexer error;
// the tokens of the other files remain available either way.
func (p *Pipeline) Run(entryPoint string) error {
	ctx := p.Context

	if err := ctx.BuildDependencyGraph(entryPoint); err != nil {
		return fmt.Errorf("file discovery failed: %w", err)
	}

	ctx.RunLexerPhase()
	ctx.CurrentPhase = PhaseComplete

	if ctx.HasErrors() {
		return fmt.Errorf("tokenization failed with errors")
	}
	return nil
}

// RunLexerPhase tokenizes all registered files, one goroutine per file.
// Each file gets its own lexer, so the workers share nothing but the
// diagnostic bag.
func (ctx *CompilerContext) RunLexerPhase() {
	ctx.CurrentPhase = PhaseLexing
	ctx.debugf("\n[Phase 1] Lexer (Parallel)\n")

	files := ctx.GetAllFiles()
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(f *SourceFile) {
			defer wg.Done()
			ctx.LexFile(f)
		}(file)
	}

	wg.Wait()

	ctx.debugf("  ✓ Processed %d file(s)\n", len(files))
}

// LexFile tokenizes a single registered file and reports its lexer error,
// if any, as a diagnostic. It performs no I/O.
func (ctx *CompilerContext) LexFile(file *SourceFile) error {
	ctx.debugf("  Tokenizing %s (%d bytes)\n", file.Path, len(file.Content))

	result := lexer.New(file.Path, file.Content).Tokenize(ctx.Options.Debug)
	file.Tokens = result.Tokens
	file.LexErr = result.Err

	ctx.debugf("    Generated %d tokens\n", len(result.Tokens))

	if result.Err != nil {
		ctx.Diagnostics.Add(LexDiagnostic(result.Err))
		return result.Err
	}
	return nil
}

// LexDiagnostic converts a terminal lexer error to a diagnostic.
func LexDiagnostic(err *lexer.Error) *diagnostics.Diagnostic {
	path := err.Filepath
	loc := err.Location()

	switch err.Kind {
	case lexer.UnexpectedCharacter:
		return diagnostics.UnexpectedCharacter(path, loc, err.Char)
	case lexer.UnterminatedStringLiteral:
		return diagnostics.UnterminatedString(path, loc, err.Text)
	case lexer.InvalidNumberLiteral:
		return diagnostics.InvalidNumberLiteral(path, loc, err.Text)
	case lexer.InvalidPreprocessorDirective:
		command, _ := splitDirective(err.Text)
		return diagnostics.InvalidDirective(path, directiveSpan(loc, 0, len(command)), command)
	case lexer.InvalidDefineArity, lexer.InvalidIncludeArity:
		command, args := splitDirective(err.Text)
		expected := 2
		if err.Kind == lexer.InvalidIncludeArity {
			expected = 1
		}
		argStart := len(command) + 1
		if argStart > len(err.Text) {
			argStart = len(err.Text)
		}
		return diagnostics.WrongDirectiveArity(path,
			directiveSpan(loc, argStart, len(err.Text)),
			directiveSpan(loc, 0, len(command)),
			command, expected, len(args))
	default:
		return diagnostics.NewError(err.Error()).
			WithPrimaryLabel(path, loc, "")
	}
}

// splitDirective splits a directive line the way the lexer does.
func splitDirective(line string) (string, []string) {
	fields := strings.Split(line, " ")
	return fields[0], fields[1:]
}

// directiveSpan returns the byte range [from, to) of a directive line.
func directiveSpan(loc *source.Location, from, to int) *source.Location {
	start := loc.Start.Advance(from)
	end := loc.Start.Advance(to)
	return source.NewLocation(&start, &end)
}
