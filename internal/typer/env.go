package typer

// Signature is the printable type/kind information attached to a binding.
// The type-checking rules themselves are an external contract (spec.md §1
// treats the grammar and its semantics as provided); Signature only needs
// to carry enough to drive the query adapters and outline.
type Signature struct {
	Kind string // "value", "type", "exception", "class", "module", "open"
	Type string // printable type expression
}

// Env is a persistent (structurally shared) environment: a cons-list of
// frames, each binding one name. Extending an Env never mutates the
// receiver, so every typer-history entry can hold its own Env sharing
// storage with its ancestors (spec.md §9 "Persistent environment
// sharing").
type Env struct {
	parent *Env
	name   string
	sig    Signature
}

// EmptyEnv is the environment with no bindings.
func EmptyEnv() *Env { return nil }

// Extend returns a new environment with name bound to sig, shadowing any
// existing binding of name without mutating e.
func (e *Env) Extend(name string, sig Signature) *Env {
	return &Env{parent: e, name: name, sig: sig}
}

// Lookup walks the frame chain from the most recent binding outward.
func (e *Env) Lookup(name string) (Signature, bool) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			return f.sig, true
		}
	}
	return Signature{}, false
}

// Names returns every bound name, most recently bound first. Used by
// completion-style queries; duplicates (shadowed names) are included since
// callers may want to show both levels of the chain.
func (e *Env) Names() []string {
	var out []string
	for f := e; f != nil; f = f.parent {
		out = append(out, f.name)
	}
	return out
}
