package chunk

import (
	"github.com/cwbudde/merlin-go/internal/history"
	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/cwbudde/merlin-go/internal/lexhist"
)

// State holds the parser's shared mutable counters, threaded explicitly
// through the driver rather than kept as module-level state (spec.md §9
// "Mutable parser counters → explicit state record").
type State struct {
	// FilterFirst counts prospective emissions still to be suppressed
	// while coalescing an `and`-joined binding chain (spec.md §4.2).
	FilterFirst int
	// Nesting tracks open module forms; no top-level chunk is emitted
	// while a module is open inline within an expression. For the
	// compact grammar here it doubles as the Enter-module/Leave-module
	// depth counter.
	Nesting int
}

// Driver runs the chunk parser's state machine (spec.md §4.2) over a
// lexhist.Lexer, inserting chunks into a chunk history as it goes.
type Driver struct {
	lex    *lexhist.Lexer
	chunks *history.History[Chunk]
	state  State

	// moduleOpens records, per open module, the chunk-history offset of
	// its Enter-module chunk, so Leave-module can carry the back-offset
	// spec.md §4.2 describes.
	moduleOpens []int
}

// New returns a Driver that reads tokens from lex and appends chunks to
// chunks.
func New(lex *lexhist.Lexer, chunks *history.History[Chunk]) *Driver {
	return &Driver{lex: lex, chunks: chunks}
}

// State exposes the driver's counters, mainly for tests.
func (d *Driver) State() State { return d.state }

func (d *Driver) peek() lexer.Token { return d.lex.Peek() }
func (d *Driver) next() lexer.Token { return d.lex.Next() }

func (d *Driver) emit(c Chunk) {
	d.chunks.Insert(c)
}

// Run drives the state machine to completion: Ready/Emission/Syntax-error
// cycles (spec.md §4.2 states 1-3) until a Done or Unterminated chunk is
// emitted.
func (d *Driver) Run() {
	for {
		if d.step() {
			return
		}
	}
}

// step runs one Ready/Emission cycle and reports whether the driver has
// reached a terminal state.
func (d *Driver) step() bool {
	tok := d.peek()
	switch tok.Type {
	case lexer.EOF:
		if d.state.Nesting > 0 || len(d.moduleOpens) > 0 {
			d.emit(Chunk{Kind: Unterminated, Pos: tok.Pos, Sync: history.At(d.lex.History())})
			return true
		}
		d.emit(Chunk{Kind: Done, Pos: tok.Pos, Sync: history.At(d.lex.History())})
		return true
	case lexer.LET:
		return d.parseLet()
	case lexer.MODULE:
		return d.parseModuleOpen()
	case lexer.END:
		return d.parseModuleClose()
	case lexer.OPEN, lexer.INCLUDE:
		return d.parseOpenInclude(tok)
	case lexer.TYPE:
		return d.parseSimpleDecl(TypeDef)
	case lexer.EXCEPTION:
		return d.parseSimpleDecl(ExceptionDef)
	case lexer.CLASS:
		return d.parseSimpleDecl(ClassDef)
	default:
		return d.syntaxError(tok)
	}
}

// parseLet recognizes `let [rec] b1 (and b2)*`.
func (d *Driver) parseLet() bool {
	d.next() // LET
	rec := false
	if d.peek().Type == lexer.REC {
		d.next()
		rec = true
	}

	items, unterminated, ok := d.parseAndChain()
	if unterminated {
		d.emit(Chunk{Kind: Unterminated, Pos: d.peek().Pos, Sync: history.At(d.lex.History())})
		return true
	}
	if !ok {
		return d.syntaxError(d.peek())
	}

	last := items[len(items)-1]
	d.emit(Chunk{
		Kind: Definition, Items: items, Recursive: rec,
		Pos: last.EndPos, Sync: history.At(d.lex.History()),
	})
	return false
}

// parseAndChain parses the first binding, then zero or more `and`-joined
// bindings. A real shift-reduce parser cannot tell after the first binding
// whether more follow; this driver models that by emitting a Rollback
// chunk the instant it discovers a trailing `and`, rewinding it out of the
// chunk history immediately, and folding every binding in the chain into
// one combined Definitions emission (spec.md §4.2, §9).
func (d *Driver) parseAndChain() (items []Item, unterminated bool, ok bool) {
	first, ut, ok := d.parseOneBinding()
	if ut {
		return nil, true, false
	}
	if !ok {
		return nil, false, false
	}
	items = []Item{first}
	if d.peek().Type != lexer.AND {
		return items, false, true
	}

	d.emit(Chunk{Kind: Rollback, Pos: first.EndPos, Sync: history.At(d.lex.History())})
	d.chunks.Backward()
	d.chunks.Cutoff()
	d.state.FilterFirst = 1

	for d.peek().Type == lexer.AND {
		d.next() // AND
		next, ut, ok := d.parseOneBinding()
		if ut {
			return nil, true, false
		}
		if !ok {
			return nil, false, false
		}
		items = append(items, next)
	}
	d.state.FilterFirst = 0
	return items, false, true
}

// parseOneBinding recognizes `<name> <params>* = <expr>`.
func (d *Driver) parseOneBinding() (item Item, unterminated bool, ok bool) {
	nameTok := d.next()
	if nameTok.Type != lexer.IDENT && nameTok.Type != lexer.UNDERSCORE {
		return Item{}, false, false
	}
	for d.peek().Type == lexer.IDENT || d.peek().Type == lexer.UNDERSCORE {
		d.next()
	}
	eq := d.next()
	if eq.Type != lexer.EOF && eq.Type != lexer.EQ {
		return Item{}, false, false
	}
	if eq.Type == lexer.EOF {
		return Item{}, true, false
	}
	end, ut := d.scanExprBody()
	if ut {
		return Item{}, true, false
	}
	return Item{Kind: ValueDef, Name: nameTok.Literal, StartPos: nameTok.Pos, EndPos: end}, false, true
}

// scanExprBody consumes tokens up to the next synchronizing top-level
// token at bracket depth 0, or up to an illegal token at depth 0, which
// step then reports as a Syntax-error chunk. A full expression grammar is out of scope
// (spec.md §1 treats the grammar as an external contract); this driver
// only needs to know where one top-level construct's tokens end.
func (d *Driver) scanExprBody() (lexer.Position, bool) {
	depth := 0
	last := d.peek().Pos
	for {
		tok := d.peek()
		if tok.Type == lexer.EOF {
			if depth > 0 {
				return last, true
			}
			return last, false
		}
		if depth == 0 && (tok.Type == lexer.AND || tok.Type == lexer.ILLEGAL || lexer.IsTopLevelStarter(tok.Type)) {
			return last, false
		}
		switch tok.Type {
		case lexer.LPAREN, lexer.LBRACK, lexer.LBRACE, lexer.BEGIN:
			depth++
		case lexer.RPAREN, lexer.RBRACK, lexer.RBRACE:
			depth--
		case lexer.END:
			if depth == 0 {
				return last, false
			}
			depth--
		}
		d.next()
		last = tok.End()
	}
}

// parseSimpleDecl recognizes `<keyword> <name> <rest-of-construct>` for
// type/exception/class declarations, which share a shape for this
// driver's purposes: a name followed by an opaque body.
func (d *Driver) parseSimpleDecl(kind DefKind) bool {
	kwTok := d.next()
	nameTok := d.next()
	if nameTok.Type == lexer.EOF {
		d.emit(Chunk{Kind: Unterminated, Pos: nameTok.Pos, Sync: history.At(d.lex.History())})
		return true
	}
	if nameTok.Type != lexer.IDENT && nameTok.Type != lexer.UIDENT {
		return d.syntaxError(nameTok)
	}
	end, ut := d.scanExprBody()
	if ut {
		d.emit(Chunk{Kind: Unterminated, Pos: end, Sync: history.At(d.lex.History())})
		return true
	}
	d.emit(Chunk{
		Kind:  Definition,
		Items: []Item{{Kind: kind, Name: nameTok.Literal, StartPos: kwTok.Pos, EndPos: end}},
		Pos:   end, Sync: history.At(d.lex.History()),
	})
	return false
}

// parseOpenInclude recognizes `open <path>` / `include <path>` where path
// is a dot-separated chain of uppercase identifiers.
func (d *Driver) parseOpenInclude(kw lexer.Token) bool {
	d.next() // OPEN or INCLUDE
	name, end, ok := d.parseModulePath()
	if !ok {
		return d.syntaxError(d.peek())
	}
	kind := OpenDef
	if kw.Type == lexer.INCLUDE {
		kind = IncludeDef
	}
	d.emit(Chunk{
		Kind:  Definition,
		Items: []Item{{Kind: kind, Name: name, StartPos: kw.Pos, EndPos: end}},
		Pos:   end, Sync: history.At(d.lex.History()),
	})
	return false
}

func (d *Driver) parseModulePath() (string, lexer.Position, bool) {
	tok := d.next()
	if tok.Type != lexer.UIDENT {
		return "", lexer.Position{}, false
	}
	name := tok.Literal
	end := tok.End()
	for d.peek().Type == lexer.DOT {
		d.next()
		seg := d.next()
		if seg.Type != lexer.UIDENT {
			return "", lexer.Position{}, false
		}
		name += "." + seg.Literal
		end = seg.End()
	}
	return name, end, true
}

// parseModuleOpen recognizes `module <Name> [: <sig>] = (struct|sig)`.
func (d *Driver) parseModuleOpen() bool {
	modTok := d.next() // MODULE
	nameTok := d.next()
	if nameTok.Type == lexer.EOF {
		d.emit(Chunk{Kind: Unterminated, Pos: nameTok.Pos, Sync: history.At(d.lex.History())})
		return true
	}
	if nameTok.Type != lexer.UIDENT {
		return d.syntaxError(nameTok)
	}
	if d.peek().Type == lexer.EQ {
		d.next()
	}
	// Skip any signature constraint between the name and the opening
	// body keyword; the emitted chunk carries only the stripped module
	// expression (spec.md §4.2 "Module nesting").
	for d.peek().Type != lexer.STRUCT && d.peek().Type != lexer.SIG && d.peek().Type != lexer.EOF {
		d.next()
	}
	bodyTok := d.next()
	if bodyTok.Type == lexer.EOF {
		d.emit(Chunk{Kind: Unterminated, Pos: bodyTok.Pos, Sync: history.At(d.lex.History())})
		return true
	}
	d.state.Nesting++
	d.emit(Chunk{
		Kind: EnterModule, ModuleName: nameTok.Literal, ModulePos: modTok.Pos,
		Pos: bodyTok.End(), Sync: history.At(d.lex.History()),
	})
	d.moduleOpens = append(d.moduleOpens, d.chunks.Offset()-1)
	return false
}

// parseModuleClose recognizes the `end` that closes a module opened by
// parseModuleOpen.
func (d *Driver) parseModuleClose() bool {
	endTok := d.next() // END
	if len(d.moduleOpens) == 0 {
		return d.syntaxError(endTok)
	}
	back := d.moduleOpens[len(d.moduleOpens)-1]
	d.moduleOpens = d.moduleOpens[:len(d.moduleOpens)-1]
	d.state.Nesting--
	enter, _ := d.chunks.At(back)
	d.emit(Chunk{
		Kind: LeaveModule, ModuleName: enter.ModuleName, ModulePos: enter.ModulePos,
		Pos: endTok.End(), BackOffset: back, Sync: history.At(d.lex.History()),
	})
	return false
}

// Resync re-chunks after an edit at editPos (spec.md §4.2 "Incremental
// re-chunking on edit"). It seeks the token history to the nearest token
// boundary at or before editPos, cuts off its future, rewinds the chunk
// history to the deepest chunk whose sync marker still precedes that
// point, cuts off the chunk history's future, drops a stale terminal
// chunk left dangling at that boundary, restores the driver's
// module-nesting bookkeeping from what remains, and resumes parsing.
// Run always drains the chunk history back to a terminal chunk, so the
// surviving-prefix length computed here is the only record of where the
// edit's invalidated suffix began; it is returned for the typer to
// rewind against (internal/typer.Typer.Sync).
func (d *Driver) Resync(editPos lexer.Position) int {
	d.lex.SeekPos(editPos)
	history.Rewind(func(c Chunk) history.Sync[lexer.Token] { return c.Sync }, d.lex.History(), d.chunks)
	d.chunks.Cutoff()
	d.discardStaleTerminal()
	d.snapTokensToChunkBoundary()
	boundary := d.chunks.Offset()
	d.restoreModuleStack()
	d.Run()
	return boundary
}

// discardStaleTerminal drops a Done/Unterminated chunk left at the tail
// of the surviving prefix: Run() only ever appends a fresh terminal
// chunk once it reaches the end of input again, so a stale one left in
// place would leave two terminal chunks in the history.
func (d *Driver) discardStaleTerminal() {
	last, ok := d.chunks.Last()
	if !ok {
		return
	}
	if last.Kind == Done || last.Kind == Unterminated {
		d.chunks.Backward()
		d.chunks.Cutoff()
	}
}

// snapTokensToChunkBoundary repositions the token history to exactly the
// sync point of the surviving prefix's last chunk, so Run() resumes
// parsing at a genuine chunk boundary rather than mid-chunk: SeekPos
// alone only guarantees the token cursor sits at or before editPos, not
// that it lines up with the chunk that was just kept.
func (d *Driver) snapTokensToChunkBoundary() {
	last, ok := d.chunks.Last()
	if !ok {
		d.lex.History().SeekOffset(0)
		return
	}
	d.lex.History().SeekOffset(last.Sync.Offset())
}

// restoreModuleStack rebuilds moduleOpens and Nesting from the chunk
// history surviving a rewind, by replaying the Enter-module/Leave-module
// balance across the retained prefix.
func (d *Driver) restoreModuleStack() {
	d.moduleOpens = d.moduleOpens[:0]
	for i, c := range d.chunks.Past() {
		switch c.Kind {
		case EnterModule:
			d.moduleOpens = append(d.moduleOpens, i)
		case LeaveModule:
			if len(d.moduleOpens) > 0 {
				d.moduleOpens = d.moduleOpens[:len(d.moduleOpens)-1]
			}
		}
	}
	d.state.Nesting = len(d.moduleOpens)
}

// syntaxError records the error location, resynchronizes at the next
// top-level starter token, and emits a Syntax-error chunk (spec.md §4.2
// state 3).
func (d *Driver) syntaxError(tok lexer.Token) bool {
	d.emit(Chunk{
		Kind: SyntaxError, ErrPos: tok.Pos, ErrMsg: "unexpected token " + tok.Type.String(),
		Pos: tok.End(), Sync: history.At(d.lex.History()),
	})
	for !lexer.IsTopLevelStarter(d.peek().Type) {
		d.next()
	}
	return false
}
