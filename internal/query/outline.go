// Package query implements the read-only query adapters that project a
// typer state into editor-friendly answers (spec.md §4.4): outline,
// type-at-position, and refactor-unqualify. None of these adapters
// mutate the histories they read.
package query

import (
	"sort"

	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/cwbudde/merlin-go/internal/typer"
	"github.com/maruel/natural"
)

// OutlineEntry is one node of the outline response (spec.md §6 "Outline
// response").
type OutlineEntry struct {
	Name     string
	Kind     string
	Type     string
	Start    lexer.Position
	End      lexer.Position
	Children []OutlineEntry
}

// Outline walks the current typed trees and produces a navigation tree
// (spec.md §4.4 "Outline"). Siblings are ordered with a natural-sort
// comparator so that generated names like `u2` and `u10` sort the way a
// human expects rather than lexicographically.
func Outline(state typer.State) []OutlineEntry {
	return outlineFrom(state.Results)
}

func outlineFrom(results []typer.Result) []OutlineEntry {
	entries := make([]OutlineEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, OutlineEntry{
			Name:     r.Structure.Name,
			Kind:     r.Structure.Kind.String(),
			Type:     r.Signature.Type,
			Start:    r.Structure.Start,
			End:      r.Structure.End,
			Children: outlineFrom(r.Structure.Children),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return natural.Less(entries[i].Name, entries[j].Name)
	})
	return entries
}
