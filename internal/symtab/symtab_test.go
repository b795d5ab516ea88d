package symtab_test

import (
	"testing"

	"minstral.dev/basicc/internal/symtab"
)

func TestInScope(t *testing.T) {
	test := func(declared, query string, expected bool) {
		if got := symtab.InScope(declared, query); got != expected {
			t.Errorf("InScope(%q, %q) = %v, want %v", declared, query, got, expected)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("", "main@if12", true) // global scope is a prefix of everything
		test("main", "main@if12", true)
		test("main@if12", "main@if12", true)
		test("main@if12", "main@if12@else12", true)
	})

	t.Run("Invalid data", func(t *testing.T) {
		test("main@if12", "main", false)
		test("other", "main@if12", false)
		test("main@if99", "main@if12", false)
	})
}

func TestFindShadowing(t *testing.T) {
	// Find must return the earliest-inserted visible declaration, not the
	// most deeply nested one — this matches the reference table's
	// insertion-order scan exactly.
	table := symtab.New()
	table.Insert(symtab.Symbol{Kind: symtab.KindVar, Name: "x", Scope: "", Node: "global-x"})
	table.Insert(symtab.Symbol{Kind: symtab.KindVar, Name: "x", Scope: "main", Node: "main-x"})

	t.Run("Valid data", func(t *testing.T) {
		sym := table.Find(symtab.KindVar, "x", "main@if12")
		if sym == nil || sym.Node != "global-x" {
			t.Fatalf("expected earliest declaration to win, got %+v", sym)
		}
	})

	t.Run("Invalid data", func(t *testing.T) {
		if sym := table.Find(symtab.KindVar, "y", "main"); sym != nil {
			t.Errorf("expected no match for undeclared name, got %+v", sym)
		}
		if sym := table.Find(symtab.KindFunc, "x", "main"); sym != nil {
			t.Errorf("expected no match across kinds, got %+v", sym)
		}
	})
}
