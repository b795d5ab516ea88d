package ir

import (
	"strconv"
	"strings"
)

// valueText renders a Value the way the reference debug printer does:
// bare names/constants with no scope qualification (unlike the backend,
// which renders fully-qualified `_<scope><name>` symbols).
func valueText(v Value) string {
	switch v.Kind {
	case ValNone, ValRet:
		return ""
	case ValInt:
		return strconv.FormatInt(v.IntConst, 10)
	case ValReg:
		return "@acc"
	case ValVar:
		return v.Var
	case ValStack:
		return "@stack"
	case ValIdent:
		return v.Ident
	case ValString:
		return v.Str
	case ValBranch:
		return strconv.FormatUint(uint64(v.Branch), 10)
	default:
		return ""
	}
}

func opText(op Op) string {
	src := valueText(op.Src)
	dst := valueText(op.Dst)

	switch op.Kind {
	case Nop:
		return "nop\n"
	case FuncBegin:
		return "subroutine " + op.Src.Ident + "\n"
	case FuncEnd:
		return "end " + op.Src.Ident + "\n"
	case Ret:
		return "return\n"
	case NewVar:
		return "var " + src + "\n"
	case Load:
		return "load " + dst + ", " + src + "\n"
	case Store:
		return "store " + dst + ", " + src + "\n"
	case Call:
		return "call " + src + "\n"
	case InlineAsm:
		return "asm {\n" + src + "\n}\n"
	case Push:
		return "push " + src + "\n"
	case Pop:
		return "pop " + dst + "\n"
	case Add:
		return "add " + dst + ", " + src + "\n"
	case Sub:
		return "sub " + dst + ", " + src + "\n"
	case Mul:
		return "mul " + dst + ", " + src + "\n"
	case Div:
		return "div " + dst + ", " + src + "\n"
	case Mod:
		return "mod " + dst + ", " + src + "\n"
	case Shl:
		return "shl " + dst + ", " + src + "\n"
	case Shr:
		return "shr " + dst + ", " + src + "\n"
	case And:
		return "and " + dst + ", " + src + "\n"
	case Or:
		return "or " + dst + ", " + src + "\n"
	case Xor:
		return "xor " + dst + ", " + src + "\n"
	case Not:
		return "not " + src + "\n"
	case Neg:
		return "neg " + src + "\n"
	case Swp:
		return "swap " + dst + ", " + src + "\n"
	case Compare:
		return "compare " + dst + ", " + src + "\n"
	case Eq:
		return "eq " + dst + "\n"
	case Neq:
		return "neq " + dst + "\n"
	case Lt:
		return "lt " + dst + "\n"
	case Lte:
		return "lte " + dst + "\n"
	case Gt:
		return "gt " + dst + "\n"
	case Gte:
		return "gte " + dst + "\n"
	case BranchTrue:
		return "branch true " + dst + "\n"
	case BranchFalse:
		return "branch false " + dst + "\n"
	case Jump:
		return "jump " + dst + "\n"
	case NewBranch:
		return "branch " + dst + ":\n"
	default:
		return ""
	}
}

// ToString renders the whole op vector as the human-readable IR debug
// form; showNops controls whether Nop ops (left behind by the optimizer)
// are included.
func ToString(ir *IR, showNops bool) string {
	var b strings.Builder
	for _, op := range ir.Ops {
		if !showNops && op.Kind == Nop {
			continue
		}
		b.WriteString(opText(op))
	}
	return b.String()
}
