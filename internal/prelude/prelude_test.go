package prelude

import "testing"

func TestInitialIsMemoized(t *testing.T) {
	a := Initial()
	b := Initial()
	if a != b {
		t.Fatal("Initial() should return the same environment instance across calls")
	}
}

func TestInitialRegistersBuiltins(t *testing.T) {
	env := Initial()
	if _, ok := env.Lookup("int"); !ok {
		t.Fatal("expected builtin type `int` in the initial environment")
	}
	if _, ok := env.Lookup("failwith"); !ok {
		t.Fatal("expected builtin value `failwith` in the initial environment")
	}
}
