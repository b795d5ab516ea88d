package ir

import (
	"minstral.dev/basicc/internal/ast"
	"minstral.dev/basicc/internal/token"
)

// Lowerer walks an AST Root and produces a linear IR op vector. It mirrors
// the reference lowering pass's ast_to_ir/push_* functions; the per-function
// branch-label counter and the name of the function being lowered are the
// only carried state, both scoped to the Lowerer instead of process globals.
type Lowerer struct {
	ir         IR
	labelCount uint32
	curFunc    string
}

func NewLowerer() *Lowerer { return &Lowerer{} }

// Lower walks every top-level statement of root and returns the resulting IR.
func (l *Lowerer) Lower(root *ast.Root) IR {
	l.ir = IR{}
	l.labelCount = 0

	l.ir.Emit(NewVar, None(), VarOf(ast.Global, "@temp"))

	for _, stmt := range root.Body {
		l.pushStmt(stmt)
	}

	l.ir.Emit(Nop, None(), None())
	return l.ir
}

func tempVar() Value { return VarOf(ast.Global, "@temp") }

// valueOf lowers an AST node used in expression position to the Value that
// holds its result once evaluated: constants/variables lower to themselves,
// Math/Condition push their own ops first and then yield the accumulator
// (their result lands in @acc as a side effect of pushStmt), and calls push
// their own ops and yield the callee's return slot.
func (l *Lowerer) valueOf(n ast.Node) Value {
	switch v := n.(type) {
	case nil:
		return None()
	case *ast.Nop:
		return None()
	case *ast.Int:
		return Int(v.Value)
	case *ast.Var:
		scope := ""
		if v.Sym != nil {
			scope = v.Sym.Scope.Full
		}
		return VarOf(scope, v.Name)
	case *ast.Call:
		l.pushStmt(v)
		return RetOf(v.Name)
	case *ast.Math:
		l.pushStmt(v)
		return Acc()
	case *ast.Parens:
		return l.valueOf(v.Inner)
	case *ast.Condition:
		l.pushStmt(v)
		return Acc()
	case *ast.Not:
		l.ir.Emit(Load, Acc(), l.valueOf(v.Inner))
		l.ir.Emit(Not, Acc(), Acc())
		return Acc()
	case *ast.Unary:
		l.ir.Emit(Load, Acc(), l.valueOf(v.Inner))
		l.ir.Emit(Neg, Acc(), Acc())
		return Acc()
	default:
		return None()
	}
}

func (l *Lowerer) pushFunc(f *ast.Func) {
	l.ir.Emit(FuncBegin, None(), Value{Kind: ValIdent, Ident: f.Name, Source: Source{Scope: f.Scope.Full, Func: f.Name}})
	l.labelCount = 0
	prevFunc := l.curFunc
	l.curFunc = f.Name

	for _, p := range f.Params {
		l.ir.Emit(NewVar, None(), VarOf(p.Scope.Full, p.Name))
	}

	for _, stmt := range f.Body {
		l.pushStmt(stmt)
	}

	if len(f.Body) == 0 {
		l.ir.Emit(Ret, None(), None())
	} else if _, ok := f.Body[len(f.Body)-1].(*ast.Ret); !ok {
		l.ir.Emit(Ret, None(), None())
	}

	l.ir.Emit(FuncEnd, None(), None())
	l.curFunc = prevFunc
}

func (l *Lowerer) pushCall(c *ast.Call) {
	for i, arg := range c.Args {
		l.ir.Emit(Load, Acc(), l.valueOf(arg))
		var paramScope, paramName string
		if c.Sym != nil && i < len(c.Sym.Params) {
			paramScope, paramName = c.Sym.Params[i].Scope.Full, c.Sym.Params[i].Name
		}
		l.ir.Emit(Store, VarOf(paramScope, paramName), Acc())
	}

	l.ir.Emit(Call, None(), Ident(c.Name))
}

func (l *Lowerer) pushDecl(d *ast.Decl) {
	v := VarOf(d.Scope.Full, d.Name)
	l.ir.Emit(NewVar, None(), v)
	l.ir.Emit(Load, Acc(), l.valueOf(d.Value))
	l.ir.Emit(Store, v, Acc())
}

func (l *Lowerer) pushAssign(a *ast.Assign) {
	scope := ""
	if a.Sym != nil {
		scope = a.Sym.Scope.Full
	}
	l.ir.Emit(Load, Acc(), l.valueOf(a.Value))
	l.ir.Emit(Store, VarOf(scope, a.Name), Acc())
}

func (l *Lowerer) pushRet(r *ast.Ret) {
	if r.Value != nil {
		l.ir.Emit(Load, Acc(), l.valueOf(r.Value))
		l.ir.Emit(Store, RetOf(l.curFunc), Acc())
	}
	l.ir.Emit(Ret, None(), None())
}

// operPrec returns the precedence tier: 0 = shift/bitwise, 1 = +/-, 2 = */%.
func operPrec(op token.Kind) int {
	switch op {
	case token.Shl, token.Shr, token.Amp, token.Pipe, token.Caret:
		return 0
	case token.Plus, token.Minus:
		return 1
	default:
		return 2
	}
}

func operToOpKind(op token.Kind) OpKind {
	switch op {
	case token.Plus:
		return Add
	case token.Minus:
		return Sub
	case token.Star:
		return Mul
	case token.Slash:
		return Div
	case token.Percent:
		return Mod
	case token.Shl:
		return Shl
	case token.Shr:
		return Shr
	case token.Amp:
		return And
	case token.Pipe:
		return Or
	default:
		return Xor
	}
}

func higherPrecLater(values []ast.Node, cur int) bool {
	curPrec := operPrec(values[cur].(*ast.Oper).Kind)
	for i := cur + 2; i < len(values); i += 2 {
		if operPrec(values[i].(*ast.Oper).Kind) > curPrec {
			return true
		}
	}
	return false
}

// pushMath ports push_math: left-to-right evaluation over a flat
// value/oper/value/... list, deferring tier-1 and tier-0 operators past
// any higher-precedence operator that appears later in the list.
func (l *Lowerer) pushMath(m *ast.Math) {
	values := m.Values
	temp := tempVar()

	var midOpers, lowOpers []token.Kind

	l.ir.Emit(Load, Acc(), l.valueOf(values[0]))
	l.ir.Emit(Push, None(), Acc())

	flush := func(opers []token.Kind) {
		for _, op := range opers {
			l.ir.Emit(Pop, temp, None())
			l.ir.Emit(Pop, Acc(), None())
			l.ir.Emit(operToOpKind(op), Acc(), temp)
			l.ir.Emit(Push, None(), Acc())
		}
	}

	for i := 1; i < len(values); i += 2 {
		op := values[i].(*ast.Oper).Kind
		value := values[i+1]
		prec := operPrec(op)

		if prec == 2 {
			l.ir.Emit(Load, Acc(), l.valueOf(value))
			l.ir.Emit(Store, temp, Acc())
			l.ir.Emit(Pop, Acc(), None())
			l.ir.Emit(operToOpKind(op), Acc(), temp)
			l.ir.Emit(Push, None(), Acc())
			continue
		}

		if prec == 1 && higherPrecLater(values, i) &&
			(i+2 >= len(values) || operPrec(values[i+2].(*ast.Oper).Kind) != prec) {
			l.ir.Emit(Load, Acc(), l.valueOf(value))
			l.ir.Emit(Push, None(), Acc())
			midOpers = append(midOpers, op)
			continue
		}

		if len(midOpers) > 0 {
			flush(midOpers)
			midOpers = nil
		}

		if prec == 0 && higherPrecLater(values, i) &&
			(i+2 >= len(values) || operPrec(values[i+2].(*ast.Oper).Kind) != prec) {
			l.ir.Emit(Load, Acc(), l.valueOf(value))
			l.ir.Emit(Push, None(), Acc())
			lowOpers = append(lowOpers, op)
			continue
		}

		if len(lowOpers) > 0 {
			flush(lowOpers)
			lowOpers = nil
		}

		l.ir.Emit(Load, Acc(), l.valueOf(value))
		l.ir.Emit(Store, temp, Acc())
		l.ir.Emit(Pop, Acc(), None())
		l.ir.Emit(operToOpKind(op), Acc(), temp)
		l.ir.Emit(Push, None(), Acc())
	}

	flush(midOpers)
	flush(lowOpers)

	l.ir.Emit(Pop, Acc(), None())
}

func loadingWillCorrupt(n ast.Node) bool {
	switch n.(type) {
	case *ast.Call, *ast.Math, *ast.Condition:
		return true
	default:
		return false
	}
}

// ---- Condition and/or combination --------------------------------------

func condSetOp(op token.Kind) OpKind {
	switch op {
	case token.EqEq:
		return Eq
	case token.NotEq:
		return Neq
	case token.Lt:
		return Lt
	case token.Lte:
		return Lte
	case token.Gt:
		return Gt
	default:
		return Gte
	}
}

// condOperKind classifies an operator inside a Condition's Values list:
// either a comparison or one of the `and`/`or` combinators.
type condOperKind int

const (
	CondCmp condOperKind = iota
	CondAnd
	CondOr
)

func operLogicalKind(op token.Kind) condOperKind {
	switch op {
	case token.KwAnd:
		return CondAnd
	case token.KwOr:
		return CondOr
	default:
		return CondCmp
	}
}

// pushCondition ports push_condition's short-circuit lowering exactly,
// including the pushed/pushed_res running-state flags the reference
// implementation tracks inline rather than as an explicit basic-block CFG
// (see spec.md §9's Open Questions on this point).
func (l *Lowerer) pushCondition(c *ast.Condition) {
	values := c.Values
	count := len(values)
	temp := tempVar()

	doneLabel := l.labelCount
	l.labelCount++
	pushed := false

	for i := 2; i < count; i += 4 {
		left := values[i-2]
		right := values[i]
		op := values[i-1].(*ast.Oper).Kind

		pushedRes := false

		l.ir.Emit(Load, Acc(), l.valueOf(left))

		if loadingWillCorrupt(right) {
			l.ir.Emit(Push, None(), Acc())
			l.ir.Emit(Load, temp, l.valueOf(right))
			l.ir.Emit(Pop, None(), Acc())
			l.ir.Emit(Compare, Acc(), temp)
		} else {
			l.ir.Emit(Compare, Acc(), l.valueOf(right))
		}

		l.ir.Emit(condSetOp(op), Acc(), None())

		var lastOper, nextOper condOperKind = CondCmp, CondCmp
		if i > 3 {
			lastOper = operLogicalKind(values[i-3].(*ast.Oper).Kind)
		}
		if i+1 != count {
			nextOper = operLogicalKind(values[i+1].(*ast.Oper).Kind)
		}

		if pushedRes || lastOper == CondAnd {
			l.ir.Emit(Store, temp, Acc())
			l.ir.Emit(Pop, Acc(), None())
		}

		if lastOper == CondAnd && i != 2 {
			l.ir.Emit(And, Acc(), temp)

			if nextOper != CondAnd {
				l.ir.Emit(BranchTrue, BranchOf(l.curFunc, doneLabel), None())
			}
		} else {
			justPopped := false

			if lastOper != CondAnd && nextOper != CondAnd && count > 3 {
				if pushed {
					l.ir.Emit(Store, temp, Acc())
					l.ir.Emit(Pop, Acc(), None())
					justPopped = true
				}

				l.ir.Emit(BranchTrue, BranchOf(l.curFunc, doneLabel), None())
			}

			if lastOper == CondOr {
				if !justPopped {
					l.ir.Emit(Store, temp, Acc())
					l.ir.Emit(Pop, Acc(), None())
				}

				l.ir.Emit(Or, Acc(), temp)
			}
		}

		if count > 3 && (nextOper == CondAnd || nextOper == CondOr) {
			l.ir.Emit(Push, None(), Acc())
			pushed = true
		}
	}

	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, doneLabel))
}

func (l *Lowerer) pushBlock(body []ast.Node) {
	for _, stmt := range body {
		l.pushStmt(stmt)
	}
}

func (l *Lowerer) pushIf(n *ast.If) {
	if len(n.Body) == 0 && len(n.ElseBody) == 0 {
		return
	}

	l.pushCondition(n.Cond.(*ast.Condition))

	trueLabel := l.labelCount
	l.labelCount++
	falseLabel := l.labelCount
	l.labelCount++
	finalLabel := falseLabel
	if len(n.ElseBody) > 0 {
		finalLabel = l.labelCount
		l.labelCount++
	}

	l.ir.Emit(BranchTrue, BranchOf(l.curFunc, trueLabel), None())
	l.ir.Emit(Jump, BranchOf(l.curFunc, falseLabel), None())

	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, trueLabel))
	l.pushBlock(n.Body)

	if len(n.ElseBody) > 0 {
		l.ir.Emit(Jump, BranchOf(l.curFunc, finalLabel), None())

		l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, falseLabel))
		l.pushBlock(n.ElseBody)
	}

	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, finalLabel))
}

func counterValue(n ast.Node) Value {
	switch v := n.(type) {
	case *ast.Var:
		scope := ""
		if v.Sym != nil {
			scope = v.Sym.Scope.Full
		}
		return VarOf(scope, v.Name)
	case *ast.Decl:
		return VarOf(v.Scope.Full, v.Name)
	case *ast.Assign:
		scope := ""
		if v.Sym != nil {
			scope = v.Sym.Scope.Full
		}
		return VarOf(scope, v.Name)
	default:
		return None()
	}
}

func (l *Lowerer) pushFor(n *ast.For) {
	switch n.Counter.(type) {
	case *ast.Decl, *ast.Assign:
		l.pushStmt(n.Counter)
	}

	condLabel := l.labelCount
	l.labelCount++
	stepLabel := l.labelCount
	l.labelCount++
	finalLabel := l.labelCount
	l.labelCount++

	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, condLabel))

	counter := counterValue(n.Counter)

	l.ir.Emit(Load, Acc(), counter)
	l.ir.Emit(Compare, Acc(), l.valueOf(n.End))
	if n.Reverse {
		l.ir.Emit(Lt, Acc(), None())
	} else {
		l.ir.Emit(Gte, Acc(), None())
	}
	l.ir.Emit(BranchFalse, BranchOf(l.curFunc, finalLabel), Acc())

	l.pushBlock(n.Body)

	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, stepLabel))

	l.ir.Emit(Load, Acc(), counter)
	l.ir.Emit(Add, Acc(), l.valueOf(n.Step))
	l.ir.Emit(Store, counter, Acc())

	l.ir.Emit(Jump, BranchOf(l.curFunc, condLabel), None())
	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, finalLabel))
}

func (l *Lowerer) pushWhile(n *ast.While) {
	condLabel := l.labelCount
	l.labelCount++
	finalLabel := l.labelCount
	l.labelCount++

	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, condLabel))
	l.pushCondition(n.Cond.(*ast.Condition))
	l.ir.Emit(BranchFalse, BranchOf(l.curFunc, finalLabel), None())

	l.pushBlock(n.Body)

	l.ir.Emit(Jump, BranchOf(l.curFunc, condLabel), None())
	l.ir.Emit(NewBranch, None(), BranchOf(l.curFunc, finalLabel))
}

func (l *Lowerer) pushStmt(n ast.Node) {
	switch v := n.(type) {
	case *ast.Func:
		l.pushFunc(v)
	case *ast.Call:
		l.pushCall(v)
	case *ast.Decl:
		l.pushDecl(v)
	case *ast.Assign:
		l.pushAssign(v)
	case *ast.Ret:
		l.pushRet(v)
	case *ast.AsmBlock:
		l.ir.Emit(InlineAsm, None(), Str(v.Text))
	case *ast.Math:
		l.pushMath(v)
	case *ast.Condition:
		l.pushCondition(v)
	case *ast.If:
		l.pushIf(v)
	case *ast.For:
		l.pushFor(v)
	case *ast.While:
		l.pushWhile(v)
	case *ast.Nop:
		// Dropped statements produce no code.
	default:
		// Unreachable if the parser only ever emits the node kinds above.
	}
}
