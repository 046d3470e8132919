package colors

import (
	"bytes"
	"testing"
)

func TestConvertANSIToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "a < b", "a &lt; b"},
		{"single colour", "\x1b[31mred\x1b[0m!", `<span style="color:#e06c75">red</span>!`},
		{"bold colour", "\x1b[1;33mwarn\x1b[0m", `<span style="font-weight:bold;color:#e5c07b">warn</span>`},
		{"unclosed", "\x1b[90m12 |", `<span style="color:#7f848e">12 |</span>`},
		{"unknown code", "\x1b[4mx\x1b[0m", "x"},
		{"truncated sequence", "ok\x1b[31", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertANSIToHTML(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSetEnabled(t *testing.T) {
	defer SetEnabled(false)

	var buf bytes.Buffer
	SetEnabled(false)
	RED.Fprint(&buf, "x")
	if buf.String() != "x" {
		t.Errorf("Expected plain output, got %q", buf.String())
	}

	buf.Reset()
	SetEnabled(true)
	RED.Fprint(&buf, "x")
	if buf.String() != "\x1b[31mx\x1b[0m" {
		t.Errorf("Expected coloured output, got %q", buf.String())
	}
}
