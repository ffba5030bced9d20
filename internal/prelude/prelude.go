// Package prelude computes the process-wide initial typer environment
// exactly once (spec.md §4.3 "Environment initialization"): it binds the
// builtin type and value names below on top of an empty environment. No
// language extensions are registered. Building it has no failure path, so
// Initial returns no error (spec.md §5 "Shared resources").
package prelude

import (
	"sync"

	"github.com/cwbudde/merlin-go/internal/typer"
)

var (
	once     sync.Once
	memoized *typer.Env
)

// builtinTypes and builtinValues are the minimal standard-library surface
// every buffer's environment starts from.
var builtinTypes = []string{"unit", "bool", "int", "float", "string", "char", "list", "option", "array", "exn"}
var builtinValues = []string{"ignore", "not", "raise", "failwith", "print_string", "string_of_int"}

// Initial returns the memoized initial environment, computing it on first
// use and reusing it for every subsequent buffer (spec.md §5 "the only
// process-wide mutable state is (i) the memoized initial environment...").
// Safe to call concurrently from distinct buffer tasks.
func Initial() *typer.Env {
	once.Do(func() {
		env := typer.EmptyEnv()
		for _, name := range builtinTypes {
			env = env.Extend(name, typer.Signature{Kind: "type", Type: name})
		}
		for _, name := range builtinValues {
			env = env.Extend(name, typer.Signature{Kind: "value", Type: "_"})
		}
		memoized = env
	})
	return memoized
}
