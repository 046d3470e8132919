//go:build !(js && wasm)

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"clexer/colors"
	"clexer/internal/cmd"
	"clexer/internal/context"
	"clexer/internal/diagnostics"
	"clexer/internal/frontend/lexer"

	"github.com/peterh/liner"
)

const (
	replPrompt  = "clex> "
	historyFile = ".clexer_history"
	stdinName   = "<stdin>"
)

// includeDirs collects repeated -I flags
type includeDirs []string

func (d *includeDirs) String() string {
	return strings.Join(*d, string(os.PathListSeparator))
}

func (d *includeDirs) Set(value string) error {
	*d = append(*d, value)
	return nil
}

func main() {
	var includes includeDirs

	debugFlag := flag.Bool("debug", false, "Enable debug output")
	formatFlag := flag.String("format", cmd.FormatText, "Token listing format: text or json")
	noColorFlag := flag.Bool("no-color", false, "Disable coloured output")
	interactiveFlag := flag.Bool("i", false, "Tokenize lines read from an interactive prompt")
	flag.Var(&includes, "I", "Add a directory to the include search path (repeatable)")
	flag.Parse()

	if *noColorFlag {
		colors.SetEnabled(false)
	}

	options := &context.CompilerOptions{
		Debug:        *debugFlag,
		IncludePaths: includes,
		Format:       *formatFlag,
		NoColor:      *noColorFlag,
	}

	if *interactiveFlag {
		if err := repl(options); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-debug] [-I dir]... [-format text|json] [-no-color] <file.c>\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "       %s -i\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	if err := cmd.Run(os.Stdout, flag.Arg(0), options); err != nil {
		fmt.Fprintf(os.Stderr, "\nTokenization failed: %v\n", err)
		os.Exit(1)
	}
}

// repl tokenizes each line typed at the prompt on its own. Directives work
// too, since every line ends before the lexer sees a newline.
func repl(options *context.CompilerOptions) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	bag := diagnostics.NewDiagnosticBag(stdinName)

	for {
		input, err := line.Prompt(replPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				break
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		lexLine(os.Stdout, os.Stderr, bag, input, options.Debug)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

// lexLine tokenizes one line of input, lists its tokens on out and renders
// a lexer error on errOut. The bag is left empty.
func lexLine(out, errOut io.Writer, bag *diagnostics.DiagnosticBag, input string, debug bool) bool {
	result := lexer.New(stdinName, input).Tokenize(debug)
	for _, tok := range result.Tokens {
		fmt.Fprintln(out, tok)
	}

	if result.Err == nil {
		return true
	}
	bag.Sources().SetSource(stdinName, input)
	bag.Add(context.LexDiagnostic(result.Err))
	bag.EmitAllToWriter(errOut)
	bag.Clear()
	return false
}
