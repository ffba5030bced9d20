package query

import (
	"strings"

	"github.com/cwbudde/merlin-go/internal/lexer"
	"golang.org/x/text/width"
)

// Replacement is one edit in a refactor-open response (spec.md §6
// "Refactor-open response").
type Replacement struct {
	Start   lexer.Position
	End     lexer.Position
	Content string
}

// Unqualify finds qualified identifiers whose prefix matches openPath
// ("M" or a dotted "M.N") at or after pos, and returns the edits that
// drop the prefix (spec.md §4.4 "Refactor unqualify").
//
// When a matched identifier's qualifier and base name span more than one
// source line, the observed behavior is preserved rather than "fixed": a
// replacement is still returned, but its content is the full qualified
// spelling (qualifier and base name joined by dots, without the line
// break) rather than the base name (spec.md §9 "Open question" / scenario D). Implementers must
// not silently diverge from this.
func Unqualify(source, openPath string, pos lexer.Position) []Replacement {
	segments := strings.Split(openPath, ".")
	toks := scanTokens(source)

	var out []Replacement
	for i, tok := range toks {
		if tok.Type != lexer.UIDENT {
			continue
		}
		finalTok, ok := matchQualifiedPath(toks, i, segments)
		if !ok {
			continue
		}
		start := tok.Pos
		end := finalTok.End()
		if !atOrAfter(pos, end) {
			continue
		}
		if start.Line != end.Line {
			// The qualifier and the base name were scanned on different
			// lines. The matched occurrence still produces a replacement,
			// but its content is the full qualified spelling rather than
			// the stripped base name: nothing is actually unqualified here.
			out = append(out, Replacement{Start: start, End: end, Content: strings.Join(segments, ".") + "." + finalTok.Literal})
		} else {
			out = append(out, Replacement{Start: start, End: end, Content: foldIdent(finalTok.Literal)})
		}
	}
	return out
}

// matchQualifiedPath checks whether toks[i:] spells
// segments[0] "." segments[1] "." ... "." <final identifier>, returning
// the final identifier token.
func matchQualifiedPath(toks []lexer.Token, i int, segments []string) (lexer.Token, bool) {
	j := i
	for _, seg := range segments {
		if j >= len(toks) || toks[j].Type != lexer.UIDENT || toks[j].Literal != seg {
			return lexer.Token{}, false
		}
		j++
		if j >= len(toks) || toks[j].Type != lexer.DOT {
			return lexer.Token{}, false
		}
		j++
	}
	if j >= len(toks) || toks[j].Type != lexer.IDENT {
		return lexer.Token{}, false
	}
	return toks[j], true
}

func scanTokens(source string) []lexer.Token {
	l := lexer.New(source)
	var toks []lexer.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			return toks
		}
	}
}

func atOrAfter(pos, candidate lexer.Position) bool {
	if candidate.Line != pos.Line {
		return candidate.Line > pos.Line
	}
	return candidate.Column >= pos.Column
}

// foldIdent normalizes fullwidth/halfwidth identifier variants so that
// display strings stay stable regardless of the input encoding a CJK
// editor might send (golang.org/x/text/width), matching the lexer's own
// documented stance on Unicode handling.
func foldIdent(s string) string {
	return width.Fold.String(s)
}
