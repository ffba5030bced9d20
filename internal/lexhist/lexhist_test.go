package lexhist

import (
	"testing"

	"github.com/cwbudde/merlin-go/internal/history"
	"github.com/cwbudde/merlin-go/internal/lexer"
)

func TestNextRecordsIntoHistory(t *testing.T) {
	hist := history.New[lexer.Token]()
	l := Wrap(lexer.New("let a = 1"), hist, nil)

	first := l.Next()
	if first.Type != lexer.LET {
		t.Fatalf("first token = %v, want LET", first)
	}
	if hist.Offset() != 1 {
		t.Fatalf("History offset = %d, want 1 after one Next()", hist.Offset())
	}
}

func TestPushbackReplaysSameToken(t *testing.T) {
	hist := history.New[lexer.Token]()
	l := Wrap(lexer.New("let a = 1"), hist, nil)

	first := l.Next()
	l.Pushback()
	replayed := l.Next()

	if first.Type != replayed.Type || first.Literal != replayed.Literal {
		t.Fatalf("replayed token %v != original %v", replayed, first)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	hist := history.New[lexer.Token]()
	l := Wrap(lexer.New("let a = 1"), hist, nil)

	peeked := l.Peek()
	next := l.Next()
	if peeked.Type != next.Type || peeked.Literal != next.Literal {
		t.Fatalf("Peek() = %v, Next() = %v, want equal", peeked, next)
	}
}

func TestSkipCommentsFiltersButStillRecords(t *testing.T) {
	hist := history.New[lexer.Token]()
	raw := lexer.New("(* hi *) let a = 1", lexer.WithPreserveComments(true))
	l := Wrap(raw, hist, SkipComments)

	first := l.Next()
	if first.Type != lexer.LET {
		t.Fatalf("first visible token = %v, want LET (comment should be filtered)", first)
	}
}

func TestSeekPosReplaysThenCutsOff(t *testing.T) {
	hist := history.New[lexer.Token]()
	l := Wrap(lexer.New("let a = 1\nlet b = 2"), hist, nil)

	for {
		tok := l.Next()
		if tok.Type == lexer.EOF {
			break
		}
	}

	l.SeekPos(lexer.Position{Line: 2, Column: 0, Offset: 10})
	if hist.Len() != hist.Offset() {
		t.Fatalf("expected SeekPos+Cutoff to discard the future: Len=%d Offset=%d", hist.Len(), hist.Offset())
	}
}
