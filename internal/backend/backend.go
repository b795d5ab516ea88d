// Package backend serializes IR into textual Minstral assembly, following
// spec.md §4.5: a .text region, an appended block of subroutine bodies, and
// a .data region holding one `dat 0` entry per declared variable.
package backend

import (
	"fmt"
	"strconv"
	"strings"

	"minstral.dev/basicc/internal/ir"
)

const tableSize = 1000

type variable struct {
	name string
	used bool
}

// Emitter holds the running dedup table and output buffers for a single
// Generate call; it is not reused across compilations.
type Emitter struct {
	variables  [tableSize]variable
	dataSect   strings.Builder
	subroutine strings.Builder
}

func NewEmitter() *Emitter { return &Emitter{} }

// hashFNV1a mirrors the reference backend's 32-bit FNV1a hash mod 1000;
// colliding variable names silently overwrite one another's table slot,
// a known limitation carried over unchanged (see spec.md §9).
func hashFNV1a(data string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(data); i++ {
		h ^= uint32(data[i])
		h *= 16777619
	}
	return h % tableSize
}

func (e *Emitter) findVariable(name string) *variable {
	return &e.variables[hashFNV1a(name)]
}

func (e *Emitter) addVariable(name string) {
	v := e.findVariable(name)
	if v.used && v.name == name {
		return
	}
	v.name = name
	v.used = true
	e.dataSect.WriteString(fmt.Sprintf("_%s dat 0\n", name))
}

// valueText renders an operand per spec.md §4.5's serialization table.
func valueText(v ir.Value) string {
	switch v.Kind {
	case ir.ValInt:
		return strconv.FormatInt(v.IntConst, 10)
	case ir.ValVar:
		return "_" + v.Source.Scope + v.Var
	case ir.ValRet:
		return "_" + v.Source.Func + "@ret"
	case ir.ValReg:
		return ""
	case ir.ValStack:
		return "^"
	case ir.ValBranch:
		return fmt.Sprintf("_%s@l%d", v.Source.Func, v.Branch)
	default:
		return ""
	}
}

func (e *Emitter) emitFuncBegin(op ir.Op) string {
	retVar := op.Src.Source.Scope + op.Src.Ident + "@ret"
	e.addVariable(retVar)
	return fmt.Sprintf("_%s dsr\n", op.Src.Ident)
}

func (e *Emitter) emitNewVar(op ir.Op) string {
	e.addVariable(op.Src.Source.Scope + op.Src.Var)
	return ""
}

func emitLoad(op ir.Op) string {
	if op.Src.Kind == ir.ValReg {
		return ""
	}
	return fmt.Sprintf("lda %s\n", valueText(op.Src))
}

func emitStore(op ir.Op) string {
	return fmt.Sprintf("sta %s\n", valueText(op.Dst))
}

func emitCall(op ir.Op) string {
	return fmt.Sprintf("csr _%s\n", op.Src.Ident)
}

func emitInlineAsm(op ir.Op) string {
	text := op.Src.Str
	if text == "" {
		return ""
	}
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

func emitPush(op ir.Op) string {
	return fmt.Sprintf("psh %s\n", valueText(op.Src))
}

func emitPop(op ir.Op) string {
	if op.Dst.Kind == ir.ValReg {
		return "pop\n"
	}
	return fmt.Sprintf("pop %s\n", valueText(op.Dst))
}

// emitMath renders arithmetic ops. When the value is already in the
// accumulator and the destination is the stack top, the source operand is
// rewritten to `^` so the instruction operates on the top of stack
// directly (spec.md §4.5's operand-rewrite rule).
func emitMath(op ir.Op) string {
	src := op.Src
	if src.Kind == ir.ValReg && op.Dst.Kind == ir.ValStack {
		src = ir.Stack()
	}
	srcText := valueText(src)

	switch op.Kind {
	case ir.Add:
		return fmt.Sprintf("add %s\n", srcText)
	case ir.Sub:
		return fmt.Sprintf("sub %s\n", srcText)
	case ir.Mul:
		return fmt.Sprintf("mul %s\n", srcText)
	case ir.Div:
		return fmt.Sprintf("div %s\n", srcText)
	case ir.Mod:
		return fmt.Sprintf("mod %s\n", srcText)
	case ir.Shl:
		return fmt.Sprintf("shl %s\n", srcText)
	case ir.Shr:
		// Bug preserved from the reference backend: OP_SHR renders as shl.
		return fmt.Sprintf("shl %s\n", srcText)
	case ir.And:
		return fmt.Sprintf("and %s\n", srcText)
	case ir.Or:
		return fmt.Sprintf("or %s\n", srcText)
	case ir.Xor:
		return fmt.Sprintf("xor %s\n", srcText)
	case ir.Not:
		if src.Kind == ir.ValReg {
			return "not\n"
		}
		return fmt.Sprintf("not %s\n", srcText)
	default: // Neg
		if src.Kind == ir.ValReg {
			return "neg\n"
		}
		return fmt.Sprintf("neg %s\n", srcText)
	}
}

func emitSwp(op ir.Op) string {
	return fmt.Sprintf("swp %s\n", valueText(op.Dst))
}

func emitCompare(op ir.Op) string {
	return fmt.Sprintf("cmp %s\n", valueText(op.Src))
}

func emitStatus(op ir.Op) string {
	dst := valueText(op.Dst)
	switch op.Kind {
	case ir.Eq:
		return fmt.Sprintf("seq %s\n", dst)
	case ir.Neq:
		return fmt.Sprintf("sne %s\n", dst)
	case ir.Lt:
		return fmt.Sprintf("slt %s\n", dst)
	case ir.Lte:
		return fmt.Sprintf("sle %s\n", dst)
	case ir.Gt:
		return fmt.Sprintf("sgt %s\n", dst)
	default: // Gte
		return fmt.Sprintf("sge %s\n", dst)
	}
}

func emitBranchBool(op ir.Op) string {
	branch := "beq"
	if op.Kind == ir.BranchTrue {
		branch = "bne"
	}
	return fmt.Sprintf("cmp 0\n%s %s\n", branch, valueText(op.Dst))
}

func emitNewBranch(op ir.Op) string {
	return fmt.Sprintf("_%s@l%d\n", op.Src.Source.Func, op.Src.Branch)
}

func emitJump(op ir.Op) string {
	return fmt.Sprintf("jmp %s\n", valueText(op.Dst))
}

func (e *Emitter) emitStmt(op ir.Op) string {
	switch op.Kind {
	case ir.FuncEnd, ir.Nop:
		return ""
	case ir.FuncBegin:
		return e.emitFuncBegin(op)
	case ir.Ret:
		return "rsr\n"
	case ir.NewVar:
		return e.emitNewVar(op)
	case ir.Load:
		return emitLoad(op)
	case ir.Store:
		return emitStore(op)
	case ir.Call:
		return emitCall(op)
	case ir.InlineAsm:
		return emitInlineAsm(op)
	case ir.Push:
		return emitPush(op)
	case ir.Pop:
		return emitPop(op)
	case ir.Add, ir.Sub, ir.Mul, ir.Div, ir.Mod, ir.Shl, ir.Shr, ir.And, ir.Or, ir.Xor, ir.Not, ir.Neg:
		return emitMath(op)
	case ir.Swp:
		return emitSwp(op)
	case ir.Compare:
		return emitCompare(op)
	case ir.Eq, ir.Neq, ir.Lt, ir.Lte, ir.Gt, ir.Gte:
		return emitStatus(op)
	case ir.BranchTrue, ir.BranchFalse:
		return emitBranchBool(op)
	case ir.NewBranch:
		return emitNewBranch(op)
	case ir.Jump:
		return emitJump(op)
	default:
		return ""
	}
}

// Generate serializes prog into the three-region Minstral assembly text.
func (e *Emitter) Generate(prog *ir.IR) string {
	var code strings.Builder
	code.WriteString(".text\n")

	inSubroutine := false

	for _, op := range prog.Ops {
		stmt := e.emitStmt(op)

		if op.Kind == ir.FuncBegin {
			inSubroutine = true
		}

		if inSubroutine {
			e.subroutine.WriteString(stmt)
			if op.Kind == ir.FuncEnd {
				inSubroutine = false
			}
			continue
		}

		code.WriteString(stmt)
	}

	code.WriteString("hlt\n")
	code.WriteString(e.subroutine.String())

	if e.dataSect.Len() > 0 {
		code.WriteString(".data\n")
		code.WriteString(e.dataSect.String())
	}

	return code.String()
}
