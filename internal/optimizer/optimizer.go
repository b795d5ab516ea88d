// Package optimizer implements the fixed three-pass peephole optimizer
// described in spec.md §4.4, ported from the reference implementation's
// dead_code_elimination/stack_reduction rewrites. Constant folding is
// defined (foldConstants) but never invoked from pass, matching the
// reference's own weak_constant_folding being commented out of its pass().
package optimizer

import "minstral.dev/basicc/internal/ir"

type optimizer struct {
	ops []ir.Op
	pos int
}

func isAcc(v ir.Value) bool { return v.Kind == ir.ValReg }

func isMath(k ir.OpKind) bool { return k >= ir.Add && k <= ir.Xor }

// peek returns the op at pos+offset, clamped to the vector's bounds and
// skipping Nops in the direction of travel, mirroring the reference's
// recursive peek().
func (o *optimizer) peek(offset int) *ir.Op {
	idx := o.pos + offset
	switch {
	case idx >= len(o.ops):
		idx = len(o.ops) - 1
	case idx < 0:
		idx = 0
	}

	for o.ops[idx].Kind == ir.Nop && offset+1 < len(o.ops) {
		if offset < 0 {
			offset--
		} else {
			offset++
		}
		idx = o.pos + offset
		if idx >= len(o.ops) {
			idx = len(o.ops) - 1
		} else if idx < 0 {
			idx = 0
		}
	}

	return &o.ops[idx]
}

func (o *optimizer) deadCodeElimination() {
	op := &o.ops[o.pos]

	if (op.Kind == ir.Load || op.Kind == ir.Store) && isAcc(op.Dst) && isAcc(op.Src) {
		op.Kind = ir.Nop
		return
	}

	next := o.peek(1)

	if op.Kind == ir.Store && isAcc(op.Src) && op.Dst.Kind == ir.ValVar &&
		next.Kind == ir.Load && isAcc(next.Dst) && next.Src.Kind == ir.ValVar &&
		next.Src.Var == op.Dst.Var && next.Src.Source.Scope == op.Dst.Source.Scope {
		next.Kind = ir.Nop
	}
}

// foldConstants collapses a `Load @acc, k` immediately followed by a
// constant arithmetic op into a single constant load. Present for parity
// with the reference implementation's weak_constant_folding but never
// called from pass, which disables it the same way.
func (o *optimizer) foldConstants() {
	op := &o.ops[o.pos]
	if op.Kind != ir.Load || !isAcc(op.Dst) || op.Src.Kind != ir.ValInt {
		return
	}

	next := o.peek(1)
	if !isMath(next.Kind) {
		return
	}

	if next.Src.Kind == ir.ValInt {
		switch next.Kind {
		case ir.Add:
			op.Src.IntConst += next.Src.IntConst
		case ir.Sub:
			op.Src.IntConst -= next.Src.IntConst
		case ir.Mul:
			op.Src.IntConst *= next.Src.IntConst
		case ir.Div:
			op.Src.IntConst /= next.Src.IntConst
		case ir.Mod:
			op.Src.IntConst %= next.Src.IntConst
		case ir.Shl:
			op.Src.IntConst <<= uint(next.Src.IntConst)
		case ir.Shr:
			op.Src.IntConst >>= uint(next.Src.IntConst)
		case ir.And:
			op.Src.IntConst &= next.Src.IntConst
		case ir.Or:
			op.Src.IntConst |= next.Src.IntConst
		default:
			op.Src.IntConst ^= next.Src.IntConst
		}
	} else if op.Kind == ir.Not {
		if op.Src.IntConst == 0 {
			op.Src.IntConst = 1
		} else {
			op.Src.IntConst = 0
		}
	} else if op.Kind == ir.Neg {
		op.Src.IntConst = -op.Src.IntConst
	} else {
		return
	}

	next.Kind = ir.Nop
}

func (o *optimizer) stackReduction() {
	op := &o.ops[o.pos]
	next := o.peek(1)

	switch {
	case op.Kind == ir.Load && next.Kind == ir.Push && isAcc(next.Src):
		op.Kind = ir.Nop
		next.Src = op.Src
		return
	case op.Kind == ir.Push && next.Kind == ir.Pop:
		op.Kind = ir.Load
		op.Dst = ir.Acc()
		next.Kind = ir.Store
		next.Src = ir.Acc()
		return
	case op.Kind == ir.Pop && isAcc(op.Dst) && next.Kind == ir.Store && isAcc(next.Src):
		op.Kind = ir.Nop
		next.Kind = ir.Pop
		return
	}

	// Math idiom: push X; load Y; store @temp; pop @acc -> load X; ...; math
	if op.Kind != ir.Push || isAcc(op.Src) || next.Kind != ir.Load {
		return
	}

	next2 := o.peek(2)
	next3 := o.peek(3)

	if next2.Kind != ir.Store || next2.Dst.Kind != ir.ValVar || next2.Dst.Var != "@temp" ||
		next3.Kind != ir.Pop || !isAcc(next3.Dst) {
		return
	}

	op.Kind = ir.Nop
	next3.Kind = ir.Load
	next3.Src = op.Src
}

func (o *optimizer) pass() {
	for o.pos+2 < len(o.ops) {
		o.deadCodeElimination()
		o.stackReduction()
		if o.pos+1 < len(o.ops) {
			o.pos++
		}
	}
}

// Optimize runs three fixed passes over prog's op vector in place.
func Optimize(prog *ir.IR) {
	if len(prog.Ops) == 0 {
		return
	}

	o := &optimizer{ops: prog.Ops}

	o.pass()
	o.pos = 0

	o.pass()
	o.pos = 0

	o.pass()
}
