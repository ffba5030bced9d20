// Package chunk implements the chunk parser (spec.md §4.2): it drives the
// grammar over a token stream and emits top-level items by side-effect,
// even when later constructs in the buffer are syntactically broken.
//
// The underlying grammar and lexer tables are an external contract
// (spec.md §1); this package supplies a compact driver over the reduced
// token set in internal/lexer sufficient to recognize module/definition/
// open boundaries, matching the worked examples in spec.md §8.
package chunk

import (
	"github.com/cwbudde/merlin-go/internal/history"
	"github.com/cwbudde/merlin-go/internal/lexer"
)

// Kind is the closed set of chunk kinds (spec.md §3 "Chunk kind").
type Kind int

const (
	EnterModule Kind = iota
	LeaveModule
	Definition
	Rollback
	Done
	Unterminated
	SyntaxError
)

func (k Kind) String() string {
	switch k {
	case EnterModule:
		return "Enter-module"
	case LeaveModule:
		return "Leave-module"
	case Definition:
		return "Definition"
	case Rollback:
		return "Rollback"
	case Done:
		return "Done"
	case Unterminated:
		return "Unterminated"
	case SyntaxError:
		return "Syntax-error"
	default:
		return "Unknown"
	}
}

// DefKind classifies the items carried by a Definition chunk.
type DefKind int

const (
	ValueDef DefKind = iota
	TypeDef
	ExceptionDef
	ClassDef
	OpenDef
	IncludeDef
)

// Item is one binding, type, exception, class, open, or include recognized
// inside a Definition chunk.
type Item struct {
	Kind     DefKind
	Name     string
	StartPos lexer.Position
	EndPos   lexer.Position
}

// Chunk is one element of the chunk history. Not every field is populated
// for every Kind; see the comment on each field.
type Chunk struct {
	Kind Kind
	// Pos is the end position of the last token consumed while producing
	// this chunk (spec.md §3: "Each chunk also carries the end position
	// of its last consumed token").
	Pos  lexer.Position
	Sync history.Sync[lexer.Token]

	// Definition.
	Items     []Item
	Recursive bool

	// Enter-module / Leave-module.
	ModuleName string
	ModulePos  lexer.Position
	// BackOffset is the chunk-history offset of the matching Enter-module,
	// populated on Leave-module (spec.md §4.2 "Module nesting").
	BackOffset int

	// Syntax-error.
	ErrPos lexer.Position
	ErrMsg string
}
