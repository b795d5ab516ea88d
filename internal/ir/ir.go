// Package ir defines the intermediate representation operations produced
// by lowering and consumed by the optimizer and backend.
package ir

import "fmt"

type OpKind int

const (
	Nop OpKind = iota
	FuncBegin
	FuncEnd
	Ret
	NewVar
	Load
	Store
	Call
	InlineAsm
	Push
	Pop
	Add
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	And
	Or
	Xor
	Not
	Neg
	Swp
	Compare
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
	BranchTrue
	BranchFalse
	Jump
	NewBranch
)

var opNames = [...]string{
	"nop", "func_begin", "func_end", "ret", "new_var", "load", "store", "call",
	"asm", "push", "pop", "add", "sub", "mul", "div", "mod", "shl", "shr",
	"and", "or", "xor", "not", "neg", "swp", "cmp", "eq", "neq", "lt", "lte",
	"gt", "gte", "branch_true", "branch_false", "jump", "new_branch",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("opkind(%d)", int(k))
}

type ValueKind int

const (
	ValNone ValueKind = iota
	ValInt
	ValString
	ValReg
	ValVar
	ValIdent
	ValRet
	ValStack
	ValBranch
)

// Source identifies which scope/function a Var or Branch value belongs to.
type Source struct {
	Scope string
	Func  string
}

// Value is one IR operand: none, an integer constant, the accumulator
// register, a scoped variable, a bare identifier (subroutine reference), a
// function's return slot, the stack top, a branch label, or raw text for
// inline assembly.
type Value struct {
	Kind     ValueKind
	IntConst int64
	Str      string
	Var      string // for ValVar: unqualified variable name
	Ident    string // for ValIdent/ValRet: subroutine name
	Branch   uint32
	Source   Source
}

func None() Value { return Value{Kind: ValNone} }
func Int(n int64) Value { return Value{Kind: ValInt, IntConst: n} }
func Acc() Value { return Value{Kind: ValReg} }
func Stack() Value { return Value{Kind: ValStack} }
func Str(s string) Value { return Value{Kind: ValString, Str: s} }
func Ident(name string) Value { return Value{Kind: ValIdent, Ident: name} }

func VarOf(scope, name string) Value {
	return Value{Kind: ValVar, Var: name, Source: Source{Scope: scope}}
}

func RetOf(fn string) Value {
	return Value{Kind: ValRet, Ident: fn, Source: Source{Func: fn}}
}

func BranchOf(fn string, n uint32) Value {
	return Value{Kind: ValBranch, Branch: n, Source: Source{Func: fn}}
}

// Op is a single IR instruction (op, dst, src).
type Op struct {
	Kind OpKind
	Dst  Value
	Src  Value
}

// IR is the linear operation vector produced by lowering.
type IR struct {
	Ops []Op
}

func (ir *IR) Emit(kind OpKind, dst, src Value) {
	ir.Ops = append(ir.Ops, Op{Kind: kind, Dst: dst, Src: src})
}
