// Package context provides the shared state of a tokenization run.
//
// All phases are stateless workers that receive a CompilerContext and
// operate on the SourceFile objects within it. The context owns the file
// registry, the include graph, the options and the diagnostics; the lexer
// itself knows nothing about any of them.
package context

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"clexer/internal/diagnostics"
	"clexer/internal/frontend/lexer"
)

// CompilationPhase tracks the current phase of the run.
// This is global state - not per-file. All files move through phases together.
type CompilationPhase int

const (
	PhaseInitial   CompilationPhase = iota // Not started
	PhaseDiscovery                         // Following #include directives
	PhaseLexing                            // Tokenizing source files
	PhaseComplete                          // Finished
)

// DependencyGraph tracks the include relationships between files
type DependencyGraph struct {
	// file path -> files it includes
	Dependencies map[string][]string

	// file path -> files that include it
	Dependents map[string][]string

	// files already queued for discovery
	Processed map[string]bool

	mu sync.RWMutex
}

// CompilerContext is the central hub for all run state.
type CompilerContext struct {
	// All phases report here instead of storing their own errors
	Diagnostics *diagnostics.DiagnosticBag

	// absolute file path -> SourceFile
	Files map[string]*SourceFile

	Graph *DependencyGraph

	CurrentPhase CompilationPhase

	Options *CompilerOptions

	// order files were added, for deterministic output
	FileOrder []string

	mu sync.RWMutex
}

// SourceFile is a single source unit and everything derived from it.
type SourceFile struct {
	Path    string // Absolute file path
	Content string // Raw source code

	Tokens   []lexer.Token
	LexErr   *lexer.Error // terminal lexer error; Tokens is partial when set
	Includes []*IncludeInfo
}

// IncludeInfo tracks a single #include directive and its resolution.
type IncludeInfo struct {
	Path         string // path as written, without quotes or brackets
	Angled       bool   // <path> rather than "path"
	ResolvedPath string // absolute path, empty when not found
	Token        lexer.Token
}

// CompilerOptions holds the run configuration.
// Passed to the context at creation time and remains immutable.
type CompilerOptions struct {
	Debug        bool     // Print phase progress and token dumps to stderr
	IncludePaths []string // Directories searched for included files (-I)
	Format       string   // Token listing format: "text" or "json"
	NoColor      bool     // Disable colours in diagnostics and listings
}

// New is the entry point for starting a new run.
func New(options *CompilerOptions) *CompilerContext {
	if options == nil {
		options = &CompilerOptions{}
	}

	return &CompilerContext{
		Diagnostics: diagnostics.NewDiagnosticBag(""),
		Files:       make(map[string]*SourceFile),
		Graph: &DependencyGraph{
			Dependencies: make(map[string][]string),
			Dependents:   make(map[string][]string),
			Processed:    make(map[string]bool),
		},
		Options:      options,
		FileOrder:    make([]string, 0),
		CurrentPhase: PhaseInitial,
	}
}

// AddFile registers a source file that does not come from disk.
func (ctx *CompilerContext) AddFile(path string, content string) *SourceFile {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	file := &SourceFile{
		Path:    path,
		Content: content,
	}

	if _, exists := ctx.Files[path]; !exists {
		ctx.FileOrder = append(ctx.FileOrder, path)
	}
	ctx.Files[path] = file
	ctx.Diagnostics.Sources().SetSource(path, content)

	return file
}

// GetFile retrieves a source file by path.
// Returns nil if the file hasn't been registered.
func (ctx *CompilerContext) GetFile(path string) *SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.Files[path]
}

// GetAllFiles returns all registered files in the order they were added.
func (ctx *CompilerContext) GetAllFiles() []*SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()

	files := make([]*SourceFile, 0, len(ctx.FileOrder))
	for _, path := range ctx.FileOrder {
		files = append(files, ctx.Files[path])
	}
	return files
}

// HasErrors returns true if any errors have been reported.
func (ctx *CompilerContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// EmitDiagnostics outputs all collected diagnostics to stderr.
func (ctx *CompilerContext) EmitDiagnostics() {
	ctx.Diagnostics.EmitAll()
}

func (ctx *CompilerContext) debugf(format string, args ...any) {
	if ctx.Options.Debug {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// BuildDependencyGraph discovers all source files starting from the entry
// point by following #include directives breadth-first. Each level is
// processed in parallel.
func (ctx *CompilerContext) BuildDependencyGraph(entryPoint string) error {
	ctx.CurrentPhase = PhaseDiscovery
	ctx.debugf("\n[Phase 0] File Discovery (Parallel)\n")

	absPath, err := filepath.Abs(entryPoint)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", entryPoint, err)
	}

	toProcess := []string{absPath}
	ctx.Graph.Processed[absPath] = true

	for len(toProcess) > 0 {
		nextBatch, err := ctx.processBatch(toProcess)
		if err != nil {
			return err
		}
		toProcess = nextBatch
	}

	ctx.logDiscoveryStats()

	return nil
}

// processBatch processes a batch of files in parallel and returns newly discovered files
func (ctx *CompilerContext) processBatch(batch []string) ([]string, error) {
	var nextBatch []string
	var mu sync.Mutex
	var wg sync.WaitGroup
	errorChan := make(chan error, len(batch))

	for _, filePath := range batch {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			ctx.processFileInBatch(path, &nextBatch, &mu, errorChan)
		}(filePath)
	}

	wg.Wait()
	close(errorChan)

	for err := range errorChan {
		if err != nil {
			return nil, err
		}
	}

	return nextBatch, nil
}

// processFileInBatch discovers includes for a single file and queues new ones
func (ctx *CompilerContext) processFileInBatch(filePath string, nextBatch *[]string, mu *sync.Mutex, errorChan chan<- error) {
	includes, err := ctx.discoverFile(filePath)
	if err != nil {
		errorChan <- err
		return
	}

	for _, inc := range includes {
		if ctx.shouldProcessInclude(inc) {
			mu.Lock()
			*nextBatch = append(*nextBatch, inc)
			mu.Unlock()
		}
	}
}

// shouldProcessInclude marks a path as queued and reports whether it was new
func (ctx *CompilerContext) shouldProcessInclude(path string) bool {
	ctx.Graph.mu.Lock()
	defer ctx.Graph.mu.Unlock()

	if ctx.Graph.Processed[path] {
		return false
	}
	ctx.Graph.Processed[path] = true
	return true
}

func (ctx *CompilerContext) logDiscoveryStats() {
	ctx.debugf("  Discovered %d file(s)\n", len(ctx.Files))
	if len(ctx.Graph.Dependencies) > 0 {
		ctx.debugf("  Include edges: %d\n", ctx.countDependencyEdges())
	}
}

func (ctx *CompilerContext) countDependencyEdges() int {
	ctx.Graph.mu.RLock()
	defer ctx.Graph.mu.RUnlock()

	count := 0
	for _, deps := range ctx.Graph.Dependencies {
		count += len(deps)
	}
	return count
}

// discoverFile reads a file, registers it, and returns the absolute paths of
// the files it includes.
func (ctx *CompilerContext) discoverFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	file := &SourceFile{
		Path:    filePath,
		Content: string(content),
	}
	file.Includes = ctx.extractIncludes(file)

	ctx.mu.Lock()
	if _, exists := ctx.Files[filePath]; exists {
		ctx.mu.Unlock()
		return nil, nil
	}
	ctx.Files[filePath] = file
	ctx.FileOrder = append(ctx.FileOrder, filePath)
	ctx.mu.Unlock()

	ctx.Diagnostics.Sources().SetSource(filePath, file.Content)
	ctx.debugf("  %s\n", filepath.Base(filePath))

	var resolved []string
	for _, inc := range file.Includes {
		if inc.ResolvedPath != "" {
			resolved = append(resolved, inc.ResolvedPath)
		}
	}

	if len(resolved) > 0 {
		ctx.Graph.mu.Lock()
		ctx.Graph.Dependencies[filePath] = resolved
		for _, dep := range resolved {
			ctx.Graph.Dependents[dep] = append(ctx.Graph.Dependents[dep], filePath)
		}
		ctx.Graph.mu.Unlock()
	}

	return resolved, nil
}

// extractIncludes scans a file for #include directives and resolves them.
// A lexer error only cuts the list short; it is reported by the lexer phase.
func (ctx *CompilerContext) extractIncludes(file *SourceFile) []*IncludeInfo {
	result := lexer.Tokenize(file.Path, file.Content)

	var includes []*IncludeInfo
	for _, tok := range result.Tokens {
		if tok.Kind != lexer.PPD_INCLUDE {
			continue
		}

		path, angled, ok := splitIncludePath(tok.Text())
		if !ok {
			continue
		}

		inc := &IncludeInfo{Path: path, Angled: angled, Token: tok}
		inc.ResolvedPath = ctx.resolveIncludePath(path, angled, file.Path)
		if inc.ResolvedPath == "" && !angled {
			loc := tok.Location
			ctx.Diagnostics.Add(diagnostics.IncludeNotFound(file.Path, &loc, path))
		}
		includes = append(includes, inc)
	}

	return includes
}

// splitIncludePath strips the quotes or angle brackets around an include argument.
func splitIncludePath(arg string) (string, bool, bool) {
	if len(arg) < 2 {
		return "", false, false
	}
	switch {
	case strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`):
		return arg[1 : len(arg)-1], false, true
	case strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">"):
		return arg[1 : len(arg)-1], true, true
	default:
		return "", false, false
	}
}

// resolveIncludePath converts an include path to an absolute file path.
// Quoted includes are looked up next to the including file first; angled
// includes only in the include paths. Returns "" when nothing matches.
func (ctx *CompilerContext) resolveIncludePath(includePath string, angled bool, currentFile string) string {
	candidates := make([]string, 0, len(ctx.Options.IncludePaths)+1)
	if filepath.IsAbs(includePath) {
		candidates = append(candidates, includePath)
	} else {
		if !angled {
			candidates = append(candidates, filepath.Join(filepath.Dir(currentFile), includePath))
		}
		for _, dir := range ctx.Options.IncludePaths {
			candidates = append(candidates, filepath.Join(dir, includePath))
		}
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			absPath, err := filepath.Abs(candidate)
			if err != nil {
				continue
			}
			return absPath
		}
	}

	return ""
}
