// Package symtab implements the flat, scope-prefixed symbol table described
// in spec.md §4.2: an append-only list of declarations, looked up by
// (kind, name, scope) where a declared scope is visible at a query scope
// iff it is a `@`-segment prefix of it.
package symtab

import "strings"

type Kind int

const (
	KindVar Kind = iota
	KindFunc
)

// Symbol is a non-owning record; Decl/Func point back at the owning AST
// node (the symbol table never frees them, Go's GC does).
type Symbol struct {
	Kind  Kind
	Name  string
	Scope string
	Node  any // *ast.Decl or *ast.Func
	// Line and Col duplicate the owning node's position so redefinition
	// diagnostics can cite "first defined at" without a type assertion.
	Line int
	Col  int
}

// Table is a flat, append-only symbol list. Find scans in insertion order
// and returns the first visible match: whichever declaration was added
// earliest among those whose scope is a prefix of the query scope. This
// mirrors the reference symbol table's find_symbol exactly, including its
// shadowing behavior (the earliest declaration of a name in scope wins,
// not the most deeply nested one).
type Table struct {
	symbols []Symbol
}

func New() *Table { return &Table{} }

func (t *Table) Insert(sym Symbol) { t.symbols = append(t.symbols, sym) }

// InScope reports whether declared is visible from query: query's
// `@`-segment sequence must have declared's as a prefix. The global scope
// ("") is a prefix of everything.
func InScope(declared, query string) bool {
	if declared == "" || declared == query {
		return true
	}

	declSegs := strings.Split(declared, "@")
	querySegs := strings.Split(query, "@")
	if len(declSegs) > len(querySegs) {
		return false
	}

	for i, seg := range declSegs {
		if querySegs[i] != seg {
			return false
		}
	}
	return true
}

// Find returns the first declaration of (kind, name) whose scope is
// visible from scope, scanning in insertion order.
func (t *Table) Find(kind Kind, name, scope string) *Symbol {
	for i := range t.symbols {
		sym := &t.symbols[i]
		if sym.Kind == kind && sym.Name == name && InScope(sym.Scope, scope) {
			return sym
		}
	}
	return nil
}
