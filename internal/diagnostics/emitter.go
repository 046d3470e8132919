package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"clexer/colors"
	"clexer/internal/source"
)

const (
	STR_MULTIPLIER = "%*d | "
)

// SourceCache caches source file lines for error reporting
type SourceCache struct {
	mu    sync.Mutex
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// SetSource registers in-memory content for a path so it is never read from disk.
func (sc *SourceCache) SetSource(filepath, content string) {
	sc.SetSourceLines(filepath, strings.Split(content, "\n"))
}

func (sc *SourceCache) SetSourceLines(filepath string, lines []string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimSuffix(line, "\r")
	}
	sc.files[filepath] = trimmed
}

// GetLine retrieves a specific 1-based line from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	lines, ok := sc.files[filepath]
	if !ok {
		var err error
		lines, err = readLines(filepath)
		if err != nil {
			return "", err
		}
		sc.files[filepath] = lines
	}

	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

func readLines(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Emitter handles the rendering and output of diagnostics.
// Positions are stored 0-based and printed 1-based.
type Emitter struct {
	w     io.Writer
	cache *SourceCache
}

// labelContext groups parameters for printing labels to reduce parameter count
type labelContext struct {
	filepath     string
	line         int
	startLine    int
	endLine      int
	startCol     int
	endCol       int
	label        Label
	lineNumWidth int
	severity     Severity
}

// NewEmitter creates an emitter writing to stderr
func NewEmitter() *Emitter {
	return NewEmitterWithWriter(os.Stderr)
}

func NewEmitterWithWriter(w io.Writer) *Emitter {
	return &Emitter{
		w:     w,
		cache: NewSourceCache(),
	}
}

// UseCache makes the emitter share a source cache.
func (e *Emitter) UseCache(cache *SourceCache) {
	e.cache = cache
}

// display converts a stored position to 1-based line and column.
func display(p *source.Position) (int, int) {
	return p.Line + 1, p.Column + 1
}

// Emit renders and prints a diagnostic
func (e *Emitter) Emit(filepath string, diag *Diagnostic) {
	// Use filepath from diagnostic if available, otherwise use parameter
	if diag.FilePath != "" {
		filepath = diag.FilePath
	}

	e.printHeader(diag)

	if len(diag.Labels) > 0 {
		primaryCount := 0
		var primaryLabel Label
		secondaryLabels := []Label{}

		for _, label := range diag.Labels {
			if label.Style == Primary {
				primaryCount++
				primaryLabel = label
			} else {
				secondaryLabels = append(secondaryLabels, label)
			}
		}

		switch {
		case primaryCount == 1 && len(secondaryLabels) == 0:
			e.printLabel(filepath, primaryLabel, diag.Severity)
		case primaryCount == 1 && len(secondaryLabels) == 1 && sameLine(primaryLabel, secondaryLabels[0]):
			e.printCompactDualLabel(filepath, primaryLabel, secondaryLabels[0], diag.Severity)
		default:
			if primaryCount > 1 {
				colors.BOLD_RED.Fprintln(e.w, "INTERNAL COMPILER ERROR: Multiple primary labels in diagnostic!")
			}
			for _, label := range diag.Labels {
				e.printLabel(filepath, label, diag.Severity)
			}
		}
	}

	for _, note := range diag.Notes {
		e.printNote(note)
	}

	if diag.Help != "" {
		e.printHelp(diag.Help)
	}

	fmt.Fprintln(e.w)
}

func sameLine(a, b Label) bool {
	return a.Location != nil && a.Location.Start != nil &&
		b.Location != nil && b.Location.Start != nil &&
		a.Location.Start.Line == b.Location.Start.Line
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	var color colors.COLOR

	switch diag.Severity {
	case Error:
		color = colors.BOLD_RED
	case Warning:
		color = colors.BOLD_YELLOW
	default:
		color = colors.BOLD_CYAN
	}

	color.Fprint(e.w, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.w, "[%s]", diag.Code)
	}
	fmt.Fprint(e.w, ": ")
	color.Fprintln(e.w, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity) {
	if label.Location == nil || label.Location.Start == nil {
		return
	}

	start := label.Location.Start
	end := label.Location.End
	if end == nil {
		end = start
	}
	startLine, startCol := display(start)
	endLine, endCol := display(end)

	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, startLine, startCol)

	lineNumWidth := len(fmt.Sprintf("%d", endLine))

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprintln(e.w, " |")

	ctx := labelContext{
		filepath:     filepath,
		startLine:    startLine,
		endLine:      endLine,
		startCol:     startCol,
		endCol:       endCol,
		label:        label,
		lineNumWidth: lineNumWidth,
		severity:     severity,
	}

	if startLine == endLine {
		ctx.line = startLine
		e.printSingleLineLabel(ctx)
	} else {
		e.printMultiLineLabel(ctx)
	}
}

func (e *Emitter) printSingleLineLabel(ctx labelContext) {
	// Previous line for context, when not blank
	if ctx.line > 1 {
		prevLine, err := e.cache.GetLine(ctx.filepath, ctx.line-1)
		if err == nil && strings.TrimSpace(prevLine) != "" {
			colors.GREY.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.line-1)
			colors.GREY.Fprintln(e.w, prevLine)
		}
	}

	sourceLine, err := e.cache.GetLine(ctx.filepath, ctx.line)
	if err != nil {
		return
	}

	colors.GREY.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.line)
	fmt.Fprintln(e.w, sourceLine)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")

	padding := ctx.startCol - 1
	length := ctx.endCol - ctx.startCol
	if length <= 0 {
		length = 1
	}

	underlineColor := labelColor(ctx.label.Style, ctx.severity)
	underlineChar := labelChar(ctx.label.Style, length)

	fmt.Fprint(e.w, strings.Repeat(" ", padding))
	underlineColor.Fprint(e.w, strings.Repeat(underlineChar, length))

	if ctx.label.Message != "" {
		underlineColor.Fprintf(e.w, " %s", ctx.label.Message)
	}
	fmt.Fprintln(e.w)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.GREY.Fprintln(e.w, " |")
}

func (e *Emitter) printMultiLineLabel(ctx labelContext) {
	sourceLine, err := e.cache.GetLine(ctx.filepath, ctx.startLine)
	if err != nil {
		return
	}

	colors.BLUE.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.startLine)
	fmt.Fprintln(e.w, sourceLine)

	colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.BLUE.Fprint(e.w, " | ")

	underlineColor := labelColor(ctx.label.Style, ctx.severity)

	fmt.Fprint(e.w, strings.Repeat(" ", ctx.startCol-1))
	underlineColor.Fprintln(e.w, "^--- starts here")

	// Elide long spans
	if ctx.endLine-ctx.startLine > 5 {
		colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
		colors.BLUE.Fprintln(e.w, " | ...")
	} else {
		for i := ctx.startLine + 1; i < ctx.endLine; i++ {
			line, err := e.cache.GetLine(ctx.filepath, i)
			if err != nil {
				continue
			}
			colors.BLUE.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, i)
			fmt.Fprintln(e.w, line)
		}
	}

	endSourceLine, err := e.cache.GetLine(ctx.filepath, ctx.endLine)
	if err == nil {
		colors.BLUE.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.endLine)
		fmt.Fprintln(e.w, endSourceLine)

		colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
		colors.BLUE.Fprint(e.w, " | ")
		fmt.Fprint(e.w, strings.Repeat(" ", ctx.endCol-1))
		underlineColor.Fprint(e.w, "^")

		if ctx.label.Message != "" {
			underlineColor.Fprintf(e.w, " %s", ctx.label.Message)
		}
		fmt.Fprintln(e.w)
	}

	colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.BLUE.Fprintln(e.w, " |")
}

func (e *Emitter) printNote(note Note) {
	colors.CYAN.Fprint(e.w, "  = note: ")
	fmt.Fprintln(e.w, note.Message)
}

func (e *Emitter) printHelp(help string) {
	colors.GREEN.Fprint(e.w, "  = help: ")
	fmt.Fprintln(e.w, help)
}

// printCompactDualLabel prints primary + one secondary label on the same line.
// Primary gets the inline message, secondary gets a connector line below.
func (e *Emitter) printCompactDualLabel(filepath string, primary Label, secondary Label, severity Severity) {
	primaryStart := primary.Location.Start
	primaryEnd := primary.Location.End
	if primaryEnd == nil {
		primaryEnd = primaryStart
	}

	secondaryStart := secondary.Location.Start
	secondaryEnd := secondary.Location.End
	if secondaryEnd == nil {
		secondaryEnd = secondaryStart
	}

	line, primaryCol := display(primaryStart)
	_, primaryEndCol := display(primaryEnd)
	_, secondaryCol := display(secondaryStart)
	_, secondaryEndCol := display(secondaryEnd)

	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, line, primaryCol)

	lineNumWidth := len(fmt.Sprintf("%d", line))

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprintln(e.w, " |")

	sourceLine, err := e.cache.GetLine(filepath, line)
	if err != nil {
		return
	}

	colors.GREY.Fprintf(e.w, STR_MULTIPLIER, lineNumWidth, line)
	fmt.Fprintln(e.w, sourceLine)

	primaryPadding := primaryCol - 1
	primaryLength := primaryEndCol - primaryCol
	if primaryLength <= 0 {
		primaryLength = 1
	}

	secondaryPadding := secondaryCol - 1
	secondaryLength := secondaryEndCol - secondaryCol
	if secondaryLength <= 0 {
		secondaryLength = 1
	}

	primaryColor := labelColor(Primary, severity)
	secondaryColor := labelColor(Secondary, severity)
	primaryChar := labelChar(Primary, primaryLength)
	secondaryChar := labelChar(Secondary, secondaryLength)

	// Line 1: both underlines, primary message inline
	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")

	if secondaryPadding < primaryPadding {
		fmt.Fprint(e.w, strings.Repeat(" ", secondaryPadding))
		secondaryColor.Fprint(e.w, strings.Repeat(secondaryChar, secondaryLength))

		spaceBetween := primaryPadding - secondaryPadding - secondaryLength
		if spaceBetween < 0 {
			spaceBetween = 0
		}
		fmt.Fprint(e.w, strings.Repeat(" ", spaceBetween))

		primaryColor.Fprint(e.w, strings.Repeat(primaryChar, primaryLength))
	} else {
		fmt.Fprint(e.w, strings.Repeat(" ", primaryPadding))
		primaryColor.Fprint(e.w, strings.Repeat(primaryChar, primaryLength))

		if primaryPadding < secondaryPadding {
			spaceBetween := secondaryPadding - primaryPadding - primaryLength
			if spaceBetween < 0 {
				spaceBetween = 0
			}
			fmt.Fprint(e.w, strings.Repeat(" ", spaceBetween))
			secondaryColor.Fprint(e.w, strings.Repeat(secondaryChar, secondaryLength))
		}
	}
	if primary.Message != "" {
		primaryColor.Fprintf(e.w, " %s", primary.Message)
	}
	fmt.Fprintln(e.w)

	// Line 2: connector for the secondary label
	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")
	fmt.Fprint(e.w, strings.Repeat(" ", secondaryPadding))
	secondaryColor.Fprintln(e.w, "|")

	// Line 3: secondary message
	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")
	fmt.Fprint(e.w, strings.Repeat(" ", secondaryPadding))
	secondaryColor.Fprint(e.w, "--")
	if secondary.Message != "" {
		secondaryColor.Fprintf(e.w, " %s", secondary.Message)
	}
	fmt.Fprintln(e.w)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprintln(e.w, " |")
}

func labelColor(style LabelStyle, severity Severity) colors.COLOR {
	if style != Primary {
		return colors.BLUE
	}
	switch severity {
	case Error:
		return colors.RED
	case Warning:
		return colors.YELLOW
	default:
		return colors.BLUE
	}
}

// labelChar picks ^ for single characters, ~ for primary spans and - for
// secondary spans.
func labelChar(style LabelStyle, length int) string {
	if length == 1 {
		return "^"
	}
	if style == Primary {
		return "~"
	}
	return "-"
}
