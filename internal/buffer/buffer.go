// Package buffer owns the per-document analysis state: the token, chunk,
// and typer history triple created on open, advanced on every edit, and
// discarded on close (spec.md §3 "Lifecycle", §5 "Scheduling model"). A
// Buffer is not safe for concurrent use — the caller is the single task
// that owns it ("one buffer → one single-threaded analysis task").
package buffer

import (
	"github.com/cwbudde/merlin-go/internal/chunk"
	"github.com/cwbudde/merlin-go/internal/history"
	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/cwbudde/merlin-go/internal/lexhist"
	"github.com/cwbudde/merlin-go/internal/typer"
)

// Buffer is the live analysis state for one open document.
type Buffer struct {
	path string
	text string

	tokens *history.History[lexer.Token]
	chunks *history.History[chunk.Chunk]
	typed  *history.History[typer.Entry]

	lex    *lexhist.Lexer
	driver *chunk.Driver
	typer  *typer.Typer
}

// Open creates a buffer over text, running the chunk parser and typer to
// completion once (spec.md §3 "Lifecycle: created on open").
func Open(path, text string, initialEnv *typer.Env) *Buffer {
	b := &Buffer{
		path:   path,
		text:   text,
		tokens: history.New[lexer.Token](),
		chunks: history.New[chunk.Chunk](),
		typed:  history.New[typer.Entry](),
	}
	b.lex = lexhist.Wrap(lexer.New(text), b.tokens, lexhist.SkipComments)
	b.driver = chunk.New(b.lex, b.chunks)
	b.typer = typer.New(b.chunks, b.typed, initialEnv)

	b.driver.Run()
	b.typer.Sync(0)
	return b
}

// Edit replaces the buffer's text with newText, re-chunks and re-types
// only from editPos onward, and leaves every chunk and typer entry at or
// before editPos untouched (spec.md §8 property 5 "prefix stability").
// editPos must describe a position in newText.
func (b *Buffer) Edit(newText string, editPos lexer.Position) {
	b.text = newText

	raw := lexer.New(newText, lexer.WithStartPosition(editPos.Offset, editPos.Line, editPos.Column))
	b.lex = lexhist.Wrap(raw, b.tokens, lexhist.SkipComments)
	b.driver = chunk.New(b.lex, b.chunks)

	boundary := b.driver.Resync(editPos)
	b.typer.Sync(boundary)
}

// Path returns the document identifier this buffer was opened with.
func (b *Buffer) Path() string { return b.path }

// Text returns the buffer's current source text.
func (b *Buffer) Text() string { return b.text }

// State returns the current typer snapshot, the input to every query
// adapter (spec.md §4.4).
func (b *Buffer) State() typer.State { return b.typer.State() }

// ChunkCount returns the number of chunks produced so far, mainly for
// instrumenting incremental re-analysis (spec.md §8 scenario E).
func (b *Buffer) ChunkCount() int { return b.chunks.Len() }

// TypeCallCount returns how many items the typer has processed over this
// buffer's lifetime, for instrumenting that an edit only re-types its
// suffix rather than the whole buffer (spec.md §8 scenario E).
func (b *Buffer) TypeCallCount() int { return b.typer.TypeOneCallCount() }
