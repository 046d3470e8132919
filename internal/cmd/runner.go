package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"clexer/colors"
	"clexer/internal/context"
	"clexer/internal/frontend/lexer"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	virtualFile = "main.c"
)

type jsonToken struct {
	Kind        string `json:"kind"`
	Literal     any    `json:"literal,omitempty"`
	Replacement string `json:"replacement,omitempty"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
}

type jsonFile struct {
	File   string      `json:"file"`
	Tokens []jsonToken `json:"tokens"`
	Error  string      `json:"error,omitempty"`
}

// Run tokenizes the entry point and every file it includes, writes the token
// listings to w and the diagnostics to stderr. Listings are written even when
// a file fails; they then stop at the terminal error.
func Run(w io.Writer, entryPoint string, options *context.CompilerOptions) error {
	if options.Debug {
		fmt.Fprintf(os.Stderr, "\n[Tokenization Started] Entry Point: %s\n", entryPoint)
	}

	pipeline := context.NewPipeline(options)
	ctx := pipeline.Context

	runErr := pipeline.Run(entryPoint)

	var err error
	switch options.Format {
	case "", FormatText:
		WriteText(w, ctx.GetAllFiles())
	case FormatJSON:
		err = WriteJSON(w, ctx.GetAllFiles())
	default:
		err = fmt.Errorf("unknown output format %q", options.Format)
	}

	ctx.EmitDiagnostics()

	if runErr != nil {
		return runErr
	}
	return err
}

// WriteText writes one listing per file: a header with the path, then one
// line per token with its 1-based position.
func WriteText(w io.Writer, files []*context.SourceFile) {
	for i, file := range files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		colors.BOLD_CYAN.Fprintln(w, file.Path)
		for _, tok := range file.Tokens {
			pos := fmt.Sprintf("%d:%d", tok.Start.Line+1, tok.Start.Column+1)
			colors.GREY.Fprintf(w, "%-8s", pos)
			kindColor(tok.Kind).Fprintf(w, "%-14s", tok.Kind)
			fmt.Fprintln(w, tok.LiteralString())
		}
	}
}

// WriteJSON writes all listings as a single JSON array.
func WriteJSON(w io.Writer, files []*context.SourceFile) error {
	out := make([]jsonFile, 0, len(files))
	for _, file := range files {
		jf := jsonFile{File: file.Path, Tokens: make([]jsonToken, 0, len(file.Tokens))}
		for _, tok := range file.Tokens {
			jf.Tokens = append(jf.Tokens, jsonToken{
				Kind:        string(tok.Kind),
				Literal:     tok.Literal,
				Replacement: tok.Replacement,
				Line:        tok.Start.Line + 1,
				Column:      tok.Start.Column + 1,
			})
		}
		if file.LexErr != nil {
			jf.Error = file.LexErr.Error()
		}
		out = append(out, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func kindColor(kind lexer.TOKEN) colors.COLOR {
	switch {
	case lexer.IsKeyword(kind):
		return colors.BLUE
	case kind == lexer.PPD_INCLUDE || kind == lexer.PPD_DEFINE:
		return colors.CYAN
	case kind == lexer.STRING_LITERAL:
		return colors.GREEN
	case kind == lexer.INT_LITERAL || kind == lexer.FLOAT_LITERAL:
		return colors.YELLOW
	case kind == lexer.IDENTIFIER:
		return colors.RED
	default:
		return colors.GREY
	}
}

// TokenizeHTML tokenizes code as a single in-memory file and returns its
// listing followed by its diagnostics, both as HTML. The error is the
// terminal lexer error, if any.
func TokenizeHTML(code string, debug bool) (string, error) {
	colors.SetEnabled(true)

	ctx := context.New(&context.CompilerOptions{Debug: debug})
	file := ctx.AddFile(virtualFile, code)
	lexErr := ctx.LexFile(file)

	var listing bytes.Buffer
	WriteText(&listing, []*context.SourceFile{file})

	output := colors.ConvertANSIToHTML(listing.String())
	output += ctx.Diagnostics.EmitAllToHTML()

	if lexErr != nil {
		return output, fmt.Errorf("tokenization failed: %w", lexErr)
	}
	return output, nil
}
