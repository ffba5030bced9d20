// Package lexhist wraps the raw lexer so that every consumed token is
// recorded in a token history (spec.md §4.1 "Lexer adapter", §2 "Lexer
// adapter"). Repositioning the history replays tokens without rescanning.
package lexhist

import (
	"github.com/cwbudde/merlin-go/internal/history"
	"github.com/cwbudde/merlin-go/internal/lexer"
)

// Filter decides whether a token should be handed to the caller. Filtered
// tokens are still recorded in the history, so a later replay sees them.
type Filter func(lexer.Token) bool

// SkipComments is the filter used by the chunker: comments are recorded for
// tooling (e.g. doc-comment attachment) but never drive grammar actions.
func SkipComments(t lexer.Token) bool {
	return t.Type != lexer.COMMENT
}

// Lexer wraps a raw *lexer.Lexer with a History[lexer.Token] (spec.md
// §4.1's wrap_lexer). Next returns the next token visible to the grammar,
// replaying from the history when the cursor sits behind the lexer's own
// scan position.
type Lexer struct {
	raw    *lexer.Lexer
	hist   *history.History[lexer.Token]
	filter Filter
}

// Wrap returns a Lexer over raw, backed by hist. hist may already contain
// tokens from a previous scan; Wrap does not reset it.
func Wrap(raw *lexer.Lexer, hist *history.History[lexer.Token], filter Filter) *Lexer {
	if filter == nil {
		filter = func(lexer.Token) bool { return true }
	}
	return &Lexer{raw: raw, hist: hist, filter: filter}
}

// History exposes the backing token history, e.g. so the chunker can record
// a Sync[lexer.Token] alongside an emitted chunk.
func (l *Lexer) History() *history.History[lexer.Token] {
	return l.hist
}

// Next returns the next token the grammar should see: a replayed token from
// history if the cursor has one pending, otherwise a freshly scanned one
// that gets inserted into history before being handed back. Filtered
// tokens (e.g. comments) are recorded but skipped transparently.
func (l *Lexer) Next() lexer.Token {
	for {
		if tok, ok := l.hist.Forward(); ok {
			if l.filter(tok) {
				return tok
			}
			continue
		}
		tok := l.raw.NextToken()
		l.hist.Insert(tok)
		// Insert leaves the cursor past the inserted element already
		// (History.Insert appends to past), so no separate Forward here.
		if l.filter(tok) {
			return tok
		}
		if tok.Type == lexer.EOF {
			return tok
		}
	}
}

// Pushback rewinds the history cursor by one, so the next call to Next
// returns the same token again. Used when the chunker's lookahead token
// turns out to belong to the next chunk (spec.md §4.2 state 2).
func (l *Lexer) Pushback() {
	l.hist.Backward()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() lexer.Token {
	tok := l.Next()
	l.Pushback()
	return tok
}

// SeekPos repositions the history cursor to the last recorded token that
// ends at or before p, then discards everything after it (spec.md §4.1
// "Edits are expressed as seek_pos(p, hist) followed by cutoff"). A
// token is compared by its end, not its start: a token whose span
// straddles p has its content changed by an edit landing at p, so it
// must fall on the discarded side even though it started before p.
// Re-scanning resumes from the underlying lexer's own position only once
// the replay buffer is exhausted; callers must already have repositioned
// the underlying raw lexer's input to match, since this adapter does not
// own the raw lexer's cursor independently of the token history once a
// cutoff discards the tokens scanned past p.
func (l *Lexer) SeekPos(p lexer.Position) {
	l.hist.Seek(func(t lexer.Token) int {
		end := t.End()
		switch {
		case end.Less(p):
			return 1
		case p.Less(end):
			return -1
		default:
			return 0
		}
	})
	l.hist.Cutoff()
}
