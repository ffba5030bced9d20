package query

import (
	"testing"

	"github.com/cwbudde/merlin-go/internal/lexer"
)

func TestUnqualifyStripsSingleSegmentPrefix(t *testing.T) {
	source := "module M = struct\n  let u = ()\nend\nopen M\nlet u = M.u"

	reps := Unqualify(source, "M", lexer.Position{Line: 5, Column: 6, Offset: 49})

	if len(reps) != 1 {
		t.Fatalf("got %d replacements, want 1: %+v", len(reps), reps)
	}
	r := reps[0]
	if r.Content != "u" {
		t.Fatalf("Content = %q, want %q", r.Content, "u")
	}
	if r.Start.Line != 5 || r.Start.Column != 8 {
		t.Fatalf("Start = %+v, want line 5 col 8", r.Start)
	}
	if r.End.Line != 5 || r.End.Column != 11 {
		t.Fatalf("End = %+v, want line 5 col 11", r.End)
	}
}

func TestUnqualifyStripsDottedPrefix(t *testing.T) {
	source := "module M = struct\n  module N = struct\n    let u = ()\n  end\nend\nopen M.N\nlet u = M.N.u"

	reps := Unqualify(source, "M.N", lexer.Position{Line: 6, Column: 6, Offset: 0})

	if len(reps) != 1 {
		t.Fatalf("got %d replacements, want 1: %+v", len(reps), reps)
	}
	r := reps[0]
	if r.Content != "u" {
		t.Fatalf("Content = %q, want %q", r.Content, "u")
	}
	if r.Start.Line != 7 || r.Start.Column != 8 {
		t.Fatalf("Start = %+v, want line 7 col 8", r.Start)
	}
	if r.End.Line != 7 || r.End.Column != 13 {
		t.Fatalf("End = %+v, want line 7 col 13", r.End)
	}
}

// TestUnqualifyPreservesMultilineFixme reproduces the documented
// observed-but-not-fixed behavior for an identifier whose qualifier and
// base name were scanned across a line break: a replacement is still
// returned, but its content is the full qualified spelling rather than
// the stripped base name. See spec.md §9 "Open question" / scenario D.
func TestUnqualifyPreservesMultilineFixme(t *testing.T) {
	source := "open N\nlet u = N.\nu"

	reps := Unqualify(source, "N", lexer.Position{Line: 2, Column: 0, Offset: 0})

	if len(reps) != 1 {
		t.Fatalf("got %d replacements, want 1: %+v", len(reps), reps)
	}
	r := reps[0]
	if r.Content != "N.u" {
		t.Fatalf("Content = %q, want %q (fixme: nothing should have been unqualified here)", r.Content, "N.u")
	}
	if r.Start.Line != 2 || r.End.Line != 3 {
		t.Fatalf("replacement should span lines 2-3, got Start=%+v End=%+v", r.Start, r.End)
	}
}

func TestUnqualifyIgnoresOccurrencesBeforePosition(t *testing.T) {
	source := "open M\nlet u = M.u\nlet v = M.u"

	reps := Unqualify(source, "M", lexer.Position{Line: 3, Column: 0, Offset: 0})

	if len(reps) != 1 {
		t.Fatalf("got %d replacements, want 1 (only the line-3 occurrence): %+v", len(reps), reps)
	}
	if reps[0].Start.Line != 3 {
		t.Fatalf("matched replacement on line %d, want line 3", reps[0].Start.Line)
	}
}

func TestUnqualifyIgnoresNonMatchingPrefix(t *testing.T) {
	source := "open M\nopen N\nlet u = N.u"

	reps := Unqualify(source, "M", lexer.Position{Line: 1, Column: 0, Offset: 0})

	if len(reps) != 0 {
		t.Fatalf("got %d replacements, want 0 (prefix N does not match open path M): %+v", len(reps), reps)
	}
}
