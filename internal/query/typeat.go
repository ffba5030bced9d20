package query

import (
	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/cwbudde/merlin-go/internal/typer"
)

// TypeAtPosition finds the innermost typed subtree whose source range
// encloses pos and returns its signature (spec.md §4.4 "Type-at-position").
func TypeAtPosition(state typer.State, pos lexer.Position) (typer.Signature, bool) {
	return findInnermost(state.Results, pos)
}

func findInnermost(results []typer.Result, pos lexer.Position) (typer.Signature, bool) {
	var best typer.Signature
	found := false
	for _, r := range results {
		s := r.Structure
		if !encloses(s.Start, s.End, pos) {
			continue
		}
		best, found = r.Signature, true
		if childSig, ok := findInnermost(s.Children, pos); ok {
			best, found = childSig, true
		}
	}
	return best, found
}

func encloses(start, end, pos lexer.Position) bool {
	return pos.Offset >= start.Offset && pos.Offset <= end.Offset
}
