// Package typer implements the incremental typer (spec.md §4.3): it keeps,
// for every chunk, the type-checker environment, typed tree, and error
// list, rewinding to the deepest still-valid point when chunks change and
// re-typing only the suffix.
package typer

import (
	"fmt"

	"github.com/cwbudde/merlin-go/internal/chunk"
	"github.com/cwbudde/merlin-go/internal/diagnostic"
	"github.com/cwbudde/merlin-go/internal/history"
	"github.com/cwbudde/merlin-go/internal/lexer"
)

// StructureKind is the closed set of typed-structure kinds query adapters
// recognize (spec.md §4.4).
type StructureKind int

const (
	ValueKind StructureKind = iota
	TypeKind
	ClassKind
	ExceptionKind
	LabelKind
	ModuleKind
)

func (k StructureKind) String() string {
	switch k {
	case ValueKind:
		return "Value"
	case TypeKind:
		return "Type"
	case ClassKind:
		return "Class"
	case ExceptionKind:
		return "Exception"
	case LabelKind:
		return "Label"
	case ModuleKind:
		return "Module"
	default:
		return "Unknown"
	}
}

// TypedStructure is one typed top-level item.
type TypedStructure struct {
	Kind     StructureKind
	Name     string
	Sig      Signature
	Start    lexer.Position
	End      lexer.Position
	Children []Result
}

// Result pairs a typed structure with its signature (spec.md §3 "Typer
// state": "(Env, [(TypedStructure, Signature)], [Error])").
type Result struct {
	Structure TypedStructure
	Signature Signature
}

// State is the triple the typer produces for one chunk.
type State struct {
	Env     *Env
	Results []Result
	Errors  []*diagnostic.Diagnostic
}

// Entry is one element of the typer history: a State plus the sync marker
// pointing into the chunk history (spec.md §3 "Typer history").
type Entry struct {
	State State
	Sync  history.Sync[chunk.Chunk]
}

type moduleFrame struct {
	name         string
	outerResults []Result
	results      []Result
}

// Typer drives append_step over a chunk history, maintaining a typer
// history in lock-step (spec.md §4.3).
type Typer struct {
	chunks      *history.History[chunk.Chunk]
	hist        *history.History[Entry]
	initialEnv  *Env
	moduleStack []moduleFrame
	typeOneCalls int
}

// New returns a Typer reading chunks from chunks, appending to hist, and
// using initialEnv as the environment before the first chunk (normally
// the memoized prelude environment — see internal/prelude).
func New(chunks *history.History[chunk.Chunk], hist *history.History[Entry], initialEnv *Env) *Typer {
	return &Typer{chunks: chunks, hist: hist, initialEnv: initialEnv}
}

// History exposes the typer history, e.g. for query adapters.
func (t *Typer) History() *history.History[Entry] {
	return t.hist
}

// TypeOneCallCount returns how many times a single item has gone through
// typeOneSafe over this Typer's lifetime. Sync only replays chunks after
// the rewound common ancestor, so across an edit this count grows only by
// the items of the re-typed suffix (spec.md §8 Scenario E).
func (t *Typer) TypeOneCallCount() int {
	return t.typeOneCalls
}

// Sync brings the typer history back in step with the chunk history
// (spec.md §4.3 "Sync"): it rewinds to the deepest common ancestor,
// discards the invalidated suffix, and re-types everything the chunk
// history has moved forward over.
//
// boundary is the chunk-history offset the driver's Resync surviving
// prefix actually ended at (0 for the initial Open). The chunk history
// is shared with the driver, which always re-drives it forward to a
// fresh terminal chunk before Sync ever runs, so by the time Sync sees
// t.chunks its cursor already sits past every chunk the edit touched —
// there is no boundary left to discover by looking at t.chunks alone,
// it has to be passed in.
func (t *Typer) Sync(boundary int) {
	t.chunks.SeekOffset(boundary)
	// A module still open at the boundary keeps its earlier children and
	// the results outside it only in moduleStack, so typing restarts at the
	// outermost such module's Enter-module chunk.
	depth, outermost := 0, 0
	for i, c := range t.chunks.Past() {
		switch c.Kind {
		case chunk.EnterModule:
			if depth == 0 {
				outermost = i
			}
			depth++
		case chunk.LeaveModule:
			if depth > 0 {
				depth--
			}
		}
	}
	if depth > 0 {
		t.chunks.SeekOffset(outermost)
	}
	history.Rewind(func(e Entry) history.Sync[chunk.Chunk] { return e.Sync }, t.chunks, t.hist)
	t.hist.Cutoff()
	t.restoreModuleStack()
	for {
		c, ok := t.chunks.Forward()
		if !ok {
			return
		}
		t.appendStep(c)
	}
}

// restoreModuleStack rebuilds the open-module bookkeeping from the
// surviving chunk-history prefix after a rewind. Sync never stops inside
// an open module (it moves back to the outermost open module's
// Enter-module chunk), so every module's results are retyped when Sync
// walks forward past them again.
func (t *Typer) restoreModuleStack() {
	t.moduleStack = t.moduleStack[:0]
	for _, c := range t.chunks.Past() {
		switch c.Kind {
		case chunk.EnterModule:
			t.moduleStack = append(t.moduleStack, moduleFrame{name: c.ModuleName})
		case chunk.LeaveModule:
			if len(t.moduleStack) > 0 {
				t.moduleStack = t.moduleStack[:len(t.moduleStack)-1]
			}
		}
	}
}

// State returns the most recently committed typer state, or the initial
// environment with no results if nothing has been typed yet.
func (t *Typer) State() State {
	env, results, errs := t.current()
	return State{Env: env, Results: results, Errors: errs}
}

func (t *Typer) current() (*Env, []Result, []*diagnostic.Diagnostic) {
	e, ok := t.hist.Last()
	if !ok {
		return t.initialEnv, nil, nil
	}
	return e.State.Env, e.State.Results, e.State.Errors
}

func (t *Typer) commit(env *Env, results []Result, errs []*diagnostic.Diagnostic) {
	t.hist.Insert(Entry{State: State{Env: env, Results: results, Errors: errs}, Sync: history.At(t.chunks)})
}

// appendStep applies one chunk, the per-chunk catch layer of spec.md §7's
// three-layer policy (per-item / per-chunk / per-request). It does not
// itself recover panics: only the per-item layer in typeDefinitions
// converts exceptions to data, matching spec.md §4.3's "only the innermost
// catch converts exceptions to values; all other exceptions propagate."
func (t *Typer) appendStep(c chunk.Chunk) {
	env, results, errs := t.current()

	switch c.Kind {
	case chunk.Definition:
		newEnv, items, newErrs := t.typeDefinitions(env, c)
		errs = append(append([]*diagnostic.Diagnostic{}, errs...), newErrs...)
		if len(t.moduleStack) > 0 {
			top := &t.moduleStack[len(t.moduleStack)-1]
			top.results = append(top.results, items...)
			t.commit(newEnv, results, errs)
		} else {
			t.commit(newEnv, append(append([]Result{}, results...), items...), errs)
		}

	case chunk.EnterModule:
		var outer []Result
		if len(t.moduleStack) > 0 {
			outer = t.moduleStack[len(t.moduleStack)-1].results
		} else {
			outer = results
		}
		t.moduleStack = append(t.moduleStack, moduleFrame{name: c.ModuleName, outerResults: outer})
		t.commit(env, results, errs)

	case chunk.LeaveModule:
		if len(t.moduleStack) == 0 {
			t.commit(env, results, errs)
			return
		}
		frame := t.moduleStack[len(t.moduleStack)-1]
		t.moduleStack = t.moduleStack[:len(t.moduleStack)-1]
		outerEnv := t.outerEnvAt(c.BackOffset)
		sig := Signature{Kind: "module", Type: frame.name}
		mod := TypedStructure{Kind: ModuleKind, Name: frame.name, Sig: sig, Start: c.ModulePos, End: c.Pos, Children: frame.results}
		newEnv := outerEnv.Extend(frame.name, sig)
		combined := append(append([]Result{}, frame.outerResults...), Result{Structure: mod, Signature: sig})
		if len(t.moduleStack) > 0 {
			t.moduleStack[len(t.moduleStack)-1].results = combined
			t.commit(newEnv, results, errs)
		} else {
			t.commit(newEnv, combined, errs)
		}

	case chunk.SyntaxError:
		diag := diagnostic.New(diagnostic.Syntax, c.ErrPos, c.ErrMsg, "", "")
		t.commit(env, results, append(append([]*diagnostic.Diagnostic{}, errs...), diag))

	default: // Rollback, Done, Unterminated: no typing effect.
		t.commit(env, results, errs)
	}
}

// outerEnvAt recovers the environment live outside a module, by seeking to
// the typer entry produced just before its Enter-module chunk
// (spec.md §4.3 "Module-closing with back-offset k").
func (t *Typer) outerEnvAt(enterOffset int) *Env {
	if enterOffset <= 0 {
		return t.initialEnv
	}
	e, ok := t.hist.At(enterOffset - 1)
	if !ok {
		return t.initialEnv
	}
	return e.State.Env
}

// typeDefinitions folds the items of a Definition chunk left-to-right,
// the per-item catch layer (spec.md §4.3, §7): a failing item advances the
// environment with the remaining items and contributes an error; a
// succeeding item contributes a typed result and extends env.
func (t *Typer) typeDefinitions(env *Env, c chunk.Chunk) (*Env, []Result, []*diagnostic.Diagnostic) {
	var results []Result
	var errs []*diagnostic.Diagnostic
	for _, item := range c.Items {
		newEnv, res, errd := t.typeOneSafe(env, item)
		if errd != nil {
			errs = append(errs, errd)
			continue
		}
		env = newEnv
		if res != nil {
			results = append(results, *res)
		}
	}
	return env, results, errs
}

// typeOneSafe is the innermost catch layer: the only one that converts a
// typing exception into data rather than letting it propagate.
func (t *Typer) typeOneSafe(env *Env, item chunk.Item) (newEnv *Env, res *Result, errd *diagnostic.Diagnostic) {
	t.typeOneCalls++
	defer func() {
		if r := recover(); r != nil {
			errd = diagnostic.New(diagnostic.Type, item.StartPos, fmt.Sprintf("%v", r), "", "")
			newEnv = env
			res = nil
		}
	}()
	return t.typeOne(env, item)
}

func (t *Typer) typeOne(env *Env, item chunk.Item) (*Env, *Result, *diagnostic.Diagnostic) {
	switch item.Kind {
	case chunk.OpenDef, chunk.IncludeDef:
		return env.Extend("open:"+item.Name, Signature{Kind: "open", Type: item.Name}), nil, nil
	default:
		kind, sigKind := structureKindFor(item.Kind)
		sig := Signature{Kind: sigKind, Type: "_"}
		structure := TypedStructure{Kind: kind, Name: item.Name, Sig: sig, Start: item.StartPos, End: item.EndPos}
		newEnv := env.Extend(item.Name, sig)
		return newEnv, &Result{Structure: structure, Signature: sig}, nil
	}
}

func structureKindFor(k chunk.DefKind) (StructureKind, string) {
	switch k {
	case chunk.TypeDef:
		return TypeKind, "type"
	case chunk.ExceptionDef:
		return ExceptionKind, "exception"
	case chunk.ClassDef:
		return ClassKind, "class"
	default:
		return ValueKind, "value"
	}
}
