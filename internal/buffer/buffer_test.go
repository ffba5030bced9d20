package buffer

import (
	"testing"

	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/cwbudde/merlin-go/internal/prelude"
	"github.com/cwbudde/merlin-go/internal/query"
)

func TestOpenTypesWholeBuffer(t *testing.T) {
	src := "module M = struct\n  let u = ()\nend\nopen M\nlet u = M.u"
	b := Open("scratch.ml", src, prelude.Initial())

	outline := query.Outline(b.State())
	if len(outline) != 2 {
		t.Fatalf("got %d top-level entries, want 2 (module M, value u): %+v", len(outline), outline)
	}
}

func TestEditAppendsWithoutDisturbingEarlierChunks(t *testing.T) {
	src := "let a = 1\nlet b = 2\nlet c = 3"
	b := Open("scratch.ml", src, prelude.Initial())

	before := b.ChunkCount()

	newText := src + "\nlet d = 4"
	// The edit starts where the old text ended: line 3, column after "3".
	editPos := lexer.Position{Line: 3, Column: len("let c = 3"), Offset: len(src)}
	b.Edit(newText, editPos)

	outline := query.Outline(b.State())
	names := map[string]bool{}
	for _, e := range outline {
		names[e.Name] = true
	}
	for _, want := range []string{"a", "b", "c", "d"} {
		if !names[want] {
			t.Fatalf("expected %q in outline after edit, got %+v", want, outline)
		}
	}
	if b.ChunkCount() <= before {
		t.Fatalf("expected chunk count to grow after appending a definition, before=%d after=%d", before, b.ChunkCount())
	}
}

func TestEditAtEndOnlyRetypesTheLastChunk(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "let x" + string(rune('0'+i)) + " = " + string(rune('0'+i))
	}
	src := ""
	for i, line := range lines {
		if i > 0 {
			src += "\n"
		}
		src += line
	}
	b := Open("scratch.ml", src, prelude.Initial())
	before := b.TypeCallCount()
	if before != 10 {
		t.Fatalf("TypeCallCount() after opening = %d, want 10 (one per let)", before)
	}

	// Widen the last chunk's numeral ("9" -> "99"), editing strictly inside
	// its last token rather than at a chunk boundary (spec.md §8 Scenario E).
	lastLine := lines[len(lines)-1]
	editOffset := len(src) - 1
	newText := src[:editOffset] + "9" + src[editOffset:]
	editPos := lexer.Position{Line: 10, Column: len(lastLine) - 1, Offset: editOffset}
	b.Edit(newText, editPos)

	after := b.TypeCallCount()
	if after-before != 1 {
		t.Fatalf("TypeCallCount grew by %d, want 1 (only chunk 10 re-typed, chunks 1..9 untouched)", after-before)
	}
}

func TestSyntaxErrorInOneChunkDoesNotBlockLaterChunks(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		if i == 4 { // chunk 5 of 10
			lines = append(lines, "@@@")
			continue
		}
		lines = append(lines, "let x"+string(rune('0'+i))+" = "+string(rune('0'+i)))
	}
	src := ""
	for i, line := range lines {
		if i > 0 {
			src += "\n"
		}
		src += line
	}
	b := Open("scratch.ml", src, prelude.Initial())

	state := b.State()
	if len(state.Errors) != 1 {
		t.Fatalf("Errors = %+v, want exactly one diagnostic (spec.md §8 scenario F)", state.Errors)
	}

	outline := query.Outline(state)
	names := map[string]bool{}
	for _, e := range outline {
		names[e.Name] = true
	}
	for i := 5; i < 10; i++ { // chunks 6..10 (0-indexed 5..9)
		want := "x" + string(rune('0'+i))
		if !names[want] {
			t.Fatalf("expected %q from a chunk after the error to still be queryable, got %+v", want, outline)
		}
	}
}

func TestEmptyBufferIsOneChunk(t *testing.T) {
	b := Open("scratch.ml", "", prelude.Initial())
	if b.ChunkCount() != 1 {
		t.Fatalf("ChunkCount() = %d, want 1 (Done)", b.ChunkCount())
	}
	if len(query.Outline(b.State())) != 0 {
		t.Fatal("expected an empty outline for an empty buffer")
	}
}
