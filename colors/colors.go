// Package colors holds the terminal palette used for diagnostics and token
// listings, and converts coloured output to HTML for the browser build.
package colors

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

type COLOR struct {
	c *color.Color
}

var (
	RED    = COLOR{color.New(color.FgRed)}
	GREEN  = COLOR{color.New(color.FgGreen)}
	YELLOW = COLOR{color.New(color.FgYellow)}
	BLUE   = COLOR{color.New(color.FgBlue)}
	CYAN   = COLOR{color.New(color.FgCyan)}
	GREY   = COLOR{color.New(color.FgHiBlack)}

	BOLD_RED    = COLOR{color.New(color.Bold, color.FgRed)}
	BOLD_YELLOW = COLOR{color.New(color.Bold, color.FgYellow)}
	BOLD_CYAN   = COLOR{color.New(color.Bold, color.FgCyan)}
)

// SetEnabled turns colour output on or off for the whole process.
func SetEnabled(on bool) {
	color.NoColor = !on
}

func (c COLOR) Fprint(w io.Writer, a ...any) {
	c.c.Fprint(w, a...)
}

func (c COLOR) Fprintf(w io.Writer, format string, a ...any) {
	c.c.Fprintf(w, format, a...)
}

func (c COLOR) Fprintln(w io.Writer, a ...any) {
	c.c.Fprintln(w, a...)
}

func (c COLOR) Sprint(a ...any) string {
	return c.c.Sprint(a...)
}

var htmlColors = map[int]string{
	30: "#3b4048",
	31: "#e06c75",
	32: "#98c379",
	33: "#e5c07b",
	34: "#61afef",
	35: "#c678dd",
	36: "#56b6c2",
	37: "#abb2bf",
	90: "#7f848e",
}

// ConvertANSIToHTML replaces SGR escape sequences with <span> elements and
// escapes everything else. Unknown codes are dropped.
func ConvertANSIToHTML(s string) string {
	var b strings.Builder
	open := 0

	closeAll := func() {
		b.WriteString(strings.Repeat("</span>", open))
		open = 0
	}

	for len(s) > 0 {
		i := strings.Index(s, "\x1b[")
		if i < 0 {
			b.WriteString(html.EscapeString(s))
			break
		}
		b.WriteString(html.EscapeString(s[:i]))
		s = s[i+2:]

		j := strings.IndexByte(s, 'm')
		if j < 0 {
			break
		}
		params := s[:j]
		s = s[j+1:]

		var styles []string
		for _, p := range strings.Split(params, ";") {
			code, err := strconv.Atoi(p)
			if err != nil && p != "" {
				continue
			}
			switch {
			case p == "" || code == 0:
				closeAll()
			case code == 1:
				styles = append(styles, "font-weight:bold")
			default:
				if hex, ok := htmlColors[code]; ok {
					styles = append(styles, "color:"+hex)
				}
			}
		}
		if len(styles) > 0 {
			fmt.Fprintf(&b, `<span style="%s">`, strings.Join(styles, ";"))
			open++
		}
	}
	closeAll()

	return b.String()
}
