package diagnostic

import (
	"strings"
	"testing"

	"github.com/cwbudde/merlin-go/internal/lexer"
)

func TestFormatIncludesCaretAndMessage(t *testing.T) {
	d := New(Syntax, lexer.Position{Line: 1, Column: 4}, "unexpected token", "let = 1", "")
	out := d.Format(false)
	if !strings.Contains(out, "unexpected token") {
		t.Fatalf("Format() missing message: %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("Format() missing caret: %q", out)
	}
	if !strings.Contains(out, "let = 1") {
		t.Fatalf("Format() missing source line: %q", out)
	}
}

func TestFormatAllNumbersMultiple(t *testing.T) {
	diags := []*Diagnostic{
		New(Syntax, lexer.Position{Line: 1}, "first", "", ""),
		New(Type, lexer.Position{Line: 2}, "second", "", ""),
	}
	out := FormatAll(diags, false)
	if !strings.Contains(out, "1 of 2") || !strings.Contains(out, "2 of 2") {
		t.Fatalf("FormatAll() not numbered: %q", out)
	}
}
