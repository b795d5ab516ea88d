// Package ast defines the tagged-variant AST produced by the parser.
//
// Every node shares a Scope plus source position; per-kind payload is
// carried by distinct Go struct types implementing the Node marker
// interface, dispatched on with type switches the way the rest of this
// toolchain dispatches on tagged variants (see internal/ir, internal/backend).
package ast

import "minstral.dev/basicc/internal/token"

// Global is the scope-prefix sentinel: it is a prefix of every other scope.
const Global = ""

// Scope mirrors the reference compiler's four ambient strings, but as a
// plain value threaded by the parser instead of process-wide globals.
type Scope struct {
	Full   string
	Func   string
	File   string
	Module string
}

// Node is implemented by every AST node type. It carries no methods beyond
// Pos and the marker on purpose: callers type-switch on the concrete type, the way
// vm.Operation and hack's Statement hierarchies do.
type Node interface {
	Pos() (line, col int)
	astNode()
}

type base struct {
	Scope Scope
	Line  int
	Col   int
}

func (b base) Pos() (int, int) { return b.Line, b.Col }
func (base) astNode()          {}

type Nop struct{ base }

type Root struct {
	base
	Body []Node
}

type Int struct {
	base
	Value int64
}

// Var is a reference to a previously declared Decl; Sym is filled in by the
// parser/symbol table and is a non-owning pointer (Go's GC makes manual
// ownership bookkeeping unnecessary).
type Var struct {
	base
	Name string
	Sym  *Decl
}

type Func struct {
	base
	Name       string
	ReturnType string
	Params     []*Decl
	Body       []Node
}

type Call struct {
	base
	Name string
	Args []Node
	Sym  *Func
}

type Decl struct {
	base
	Name string
	Type string
	// Value holds the optional initializer; nil if this is a bare declaration.
	Value Node
}

type Assign struct {
	base
	Name  string
	Value Node
	Sym   *Decl
}

type Ret struct {
	base
	// Value is nil for a bare `return`.
	Value Node
	Func  *Func
}

type AsmBlock struct {
	base
	Text string
}

// Oper wraps a single operator token so Math/Condition lists can alternate
// value/Oper/value/Oper/.../value without a separate tagged type per op.
type Oper struct {
	base
	Kind token.Kind
}

// Math is a flat, source-ordered list alternating value, Oper, value, Oper,
// ..., value. Precedence is resolved during lowering, not here.
type Math struct {
	base
	Values  []Node
	IsFloat bool
}

type Parens struct {
	base
	Inner Node
}

// Condition has the same shape as Math but its operators are comparisons
// or the logical and/or keywords.
type Condition struct {
	base
	Values  []Node
	IsFloat bool
}

type If struct {
	base
	Cond     Node
	Body     []Node
	ElseBody []Node
}

type For struct {
	base
	// Counter is one of *Var, *Decl or *Assign.
	Counter Node
	Start   Node
	End     Node
	Step    Node
	Body    []Node
	Reverse bool
}

type While struct {
	base
	Cond Node
	Body []Node
}

type Not struct {
	base
	Inner Node
}

type Unary struct {
	base
	Inner Node
}

func newBase(scope Scope, line, col int) base {
	return base{Scope: scope, Line: line, Col: col}
}

// Constructors. The parser builds every node through these rather than
// struct literals, since the shared base embed is unexported.

func NewNop(scope Scope, line, col int) *Nop { return &Nop{newBase(scope, line, col)} }

func NewRoot(scope Scope, line, col int) *Root {
	return &Root{base: newBase(scope, line, col)}
}

func NewInt(scope Scope, line, col int, v int64) *Int {
	return &Int{base: newBase(scope, line, col), Value: v}
}

func NewVar(scope Scope, line, col int, name string) *Var {
	return &Var{base: newBase(scope, line, col), Name: name}
}

func NewFunc(scope Scope, line, col int, name, retType string) *Func {
	return &Func{base: newBase(scope, line, col), Name: name, ReturnType: retType}
}

func NewCall(scope Scope, line, col int, name string) *Call {
	return &Call{base: newBase(scope, line, col), Name: name}
}

func NewDecl(scope Scope, line, col int, name, typ string) *Decl {
	return &Decl{base: newBase(scope, line, col), Name: name, Type: typ}
}

func NewAssign(scope Scope, line, col int, name string) *Assign {
	return &Assign{base: newBase(scope, line, col), Name: name}
}

func NewRet(scope Scope, line, col int) *Ret {
	return &Ret{base: newBase(scope, line, col)}
}

func NewAsmBlock(scope Scope, line, col int, text string) *AsmBlock {
	return &AsmBlock{base: newBase(scope, line, col), Text: text}
}

func NewOper(scope Scope, line, col int, kind token.Kind) *Oper {
	return &Oper{base: newBase(scope, line, col), Kind: kind}
}

func NewMath(scope Scope, line, col int) *Math {
	return &Math{base: newBase(scope, line, col)}
}

func NewParens(scope Scope, line, col int, inner Node) *Parens {
	return &Parens{base: newBase(scope, line, col), Inner: inner}
}

func NewCondition(scope Scope, line, col int) *Condition {
	return &Condition{base: newBase(scope, line, col)}
}

func NewIf(scope Scope, line, col int) *If {
	return &If{base: newBase(scope, line, col)}
}

func NewFor(scope Scope, line, col int) *For {
	return &For{base: newBase(scope, line, col)}
}

func NewWhile(scope Scope, line, col int) *While {
	return &While{base: newBase(scope, line, col)}
}

func NewNot(scope Scope, line, col int, inner Node) *Not {
	return &Not{base: newBase(scope, line, col), Inner: inner}
}

func NewUnary(scope Scope, line, col int, inner Node) *Unary {
	return &Unary{base: newBase(scope, line, col), Inner: inner}
}
