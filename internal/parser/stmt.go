package parser

import (
	"strconv"
	"strings"

	"minstral.dev/basicc/internal/ast"
	"minstral.dev/basicc/internal/symtab"
	"minstral.dev/basicc/internal/token"
)

// parseStmt is the per-statement dispatcher used by both passes: it skips
// leading EOLs, then dispatches on the current token's kind the way the
// reference parser's parse_stmt does.
func (p *Parser) parseStmt() ast.Node {
	p.skipEOLs()
	t := p.cur()

	switch t.Kind {
	case token.EOF:
		return ast.NewNop(p.scope, t.Line, t.Col)
	case token.Ident:
		return p.parseId()
	case token.Int:
		return p.parseConstant()
	case token.LParen:
		return p.parseParens()
	default:
		p.diags.Errorf(p.file, t.Line, t.Col, "invalid statement %s", t.Kind)
		p.advance()
		return ast.NewNop(p.scope, t.Line, t.Col)
	}
}

// parseId dispatches an identifier token to assignment, call, a keyword
// statement, a variable reference, or an undefined-identifier diagnostic —
// in that order, matching the reference parser's parse_id exactly.
func (p *Parser) parseId() ast.Node {
	t := p.cur()
	line, col := t.Line, t.Col
	name := t.Value
	p.advance()

	switch {
	case p.cur().Kind == token.Equal:
		p.advance()
		return p.parseAssign(name, line, col)
	case p.cur().Kind == token.LParen:
		return p.parseCall(name, line, col)
	case name == "sub":
		return p.parseSubroutine(line, col)
	case name == "if":
		return p.parseIf(line, col)
	case name == "return":
		return p.parseRet(line, col)
	case name == "for":
		return p.parseFor(line, col)
	case name == "while":
		return p.parseWhile(line, col)
	case name == "asm":
		return p.parseAsm(line, col)
	}

	if sym := p.symtab.Find(symtab.KindVar, name, p.scope.Full); sym != nil {
		return p.parseVar(name, sym.Node.(*ast.Decl), line, col)
	}

	// Reported once: pass one never reaches here (it only looks for "sub"),
	// so this only fires in pass two.
	p.diags.Errorf(p.file, line, col, "undefined identifier %q", name)
	return ast.NewNop(p.scope, line, col)
}

// parseVar wraps an existing declaration in a Var reference, or — if the
// current token is a math operator immediately followed by `=` — desugars
// the compound assignment into an Assign of a synthetic Math node.
func (p *Parser) parseVar(name string, sym *ast.Decl, line, col int) ast.Node {
	v := ast.NewVar(p.scope, line, col, name)
	v.Sym = sym

	if p.isMathOperator() && p.peek(1).Kind == token.Equal {
		return p.parseCompoundMath(v)
	}
	return v
}

func (p *Parser) parseCompoundMath(dst *ast.Var) ast.Node {
	opTok := p.cur()
	p.advance() // operator
	p.eat(token.Equal)

	value := p.parseValue()
	vLine, vCol := value.Pos()

	m := ast.NewMath(p.scope, vLine, vCol)
	m.Values = []ast.Node{dst, ast.NewOper(p.scope, opTok.Line, opTok.Col, opTok.Kind), value}

	assign := ast.NewAssign(p.scope, dst.Line, dst.Col, dst.Name)
	assign.Sym = dst.Sym
	assign.Value = m
	return assign
}

func (p *Parser) parseCall(name string, line, col int) ast.Node {
	sym := p.symtab.Find(symtab.KindFunc, name, ast.Global)
	if sym == nil {
		p.diags.Errorf(p.file, line, col, "undefined subroutine %q", name)
		p.eatUntil(token.RParen)
		p.eat(token.RParen)
		return ast.NewNop(p.scope, line, col)
	}

	fn := sym.Node.(*ast.Func)
	call := ast.NewCall(p.scope, line, col, name)
	call.Sym = fn

	p.eat(token.LParen)
	for p.cur().Kind != token.EOF && p.cur().Kind != token.RParen {
		if len(call.Args) > 0 {
			p.eat(token.Comma)
		}
		call.Args = append(call.Args, p.parseValue())
	}
	p.eat(token.RParen)

	return call
}

// parseAssign creates a Decl the first time a name is seen (globals are
// registered lazily this way, see ParseRoot's doc comment), drops the
// statement during pass one if the symbol already exists, and otherwise
// builds a plain Assign.
func (p *Parser) parseAssign(name string, line, col int) ast.Node {
	sym := p.symtab.Find(symtab.KindVar, name, p.scope.Full)

	if sym == nil {
		decl := ast.NewDecl(p.scope, line, col, name, "i64")
		decl.Value = p.parseValue()
		p.symtab.Insert(symtab.Symbol{Kind: symtab.KindVar, Name: name, Scope: p.scope.Full, Node: decl, Line: line, Col: col})
		return decl
	}

	if p.firstPass {
		return ast.NewNop(p.scope, line, col)
	}

	assign := ast.NewAssign(p.scope, line, col, name)
	assign.Sym = sym.Node.(*ast.Decl)
	assign.Value = p.parseValue()
	return assign
}

func (p *Parser) parseRet(line, col int) *ast.Ret {
	ret := ast.NewRet(p.scope, line, col)

	// A value on a later line isn't meant for this return.
	if p.cur().Line == line {
		ret.Value = p.parseValue()
	}

	if fsym := p.symtab.Find(symtab.KindFunc, p.scope.Func, ast.Global); fsym != nil {
		ret.Func = fsym.Node.(*ast.Func)
	}
	return ret
}

// parseAsm accumulates raw tokens into an inline-asm string, inserting a
// space between tokens (except around `@`) and rendering a comma as a
// newline, matching the reference parser's parse_asm byte for byte.
func (p *Parser) parseAsm(line, col int) *ast.AsmBlock {
	var sb strings.Builder

	for p.cur().Kind != token.EOF && !p.isKeyword("end") {
		t := p.cur()
		sb.WriteString(t.Value)
		if t.Kind != token.At && p.peek(1).Kind != token.At {
			sb.WriteString(" ")
		}
		p.advance()

		if p.cur().Kind == token.Comma {
			p.advance()
			sb.WriteString("\n")
		}
	}
	p.eat(token.Ident) // "end"

	return ast.NewAsmBlock(p.scope, line, col, strings.TrimSuffix(sb.String(), " "))
}

func (p *Parser) parseIf(line, col int) *ast.If {
	node := ast.NewIf(p.scope, line, col)
	node.Cond = p.parseCondition(nil)

	old := p.enterScope("if", line, col)
	prevInIf := p.inIf
	p.inIf = true
	node.Body = p.parseBody(false)
	p.inIf = prevInIf
	p.exitScope(old)

	if p.isKeyword("else") {
		elseLine := p.cur().Line
		p.advance()

		elseOld := p.scope
		// The reference parser builds the else scope off the if's own
		// (line, col), not the "else" token's — kept as-is here.
		p.scope.Full = elseOld.Full + "@else" + itoa(line) + itoa(col)

		singleStmt := p.isKeyword("if") && p.cur().Line == elseLine

		prevInIf2 := p.inIf
		p.inIf = true
		node.ElseBody = p.parseBody(singleStmt)
		p.inIf = prevInIf2

		p.scope = elseOld
	}

	return node
}

func (p *Parser) parseFor(line, col int) *ast.For {
	node := ast.NewFor(p.scope, line, col)

	if p.isKeyword("rev") {
		p.advance()
		node.Reverse = true
	}

	// The counter is parsed as an ordinary statement: `i = 0` yields a
	// Decl or Assign, a bare existing variable yields a Var (in which case
	// there's no usable start value, same as the reference's for_stmt.start
	// quirk — it's simply left unset here).
	node.Counter = p.parseStmt()

	switch node.Counter.(type) {
	case *ast.Var, *ast.Decl, *ast.Assign:
	default:
		cline, ccol := node.Counter.Pos()
		p.diags.Errorf(p.file, cline, ccol, "invalid counter value; expected variable or assignment but found %T", node.Counter)
	}

	p.eat(token.Ident) // "to", unchecked by value like the reference eat()
	node.End = p.parseValue()

	if p.isKeyword("step") {
		p.advance()
		node.Step = p.parseValue()
	} else {
		step := int64(1)
		if node.Reverse {
			step = -1
		}
		node.Step = ast.NewInt(p.scope, line, col, step)
	}

	old := p.enterScope("for", line, col)
	prevInLoop := p.inLoop
	p.inLoop = true
	node.Body = p.parseBody(false)
	p.inLoop = prevInLoop
	p.exitScope(old)

	return node
}

func (p *Parser) parseWhile(line, col int) *ast.While {
	node := ast.NewWhile(p.scope, line, col)

	old := p.enterScope("while", line, col)
	node.Cond = p.parseCondition(nil)

	prevInLoop := p.inLoop
	p.inLoop = true
	node.Body = p.parseBody(false)
	p.inLoop = prevInLoop
	p.exitScope(old)

	return node
}

// parseSubroutine is called from parseId on both passes and branches on
// whether the name is already registered: a fresh name registers it and
// skips the body (pass one); a registered name — found only once the
// registering occurrence's own call has returned — fills the body in
// (pass two); a name registered *and* still in pass one is a redefinition.
func (p *Parser) parseSubroutine(line, col int) ast.Node {
	nameTok := p.cur()
	name := nameTok.Value
	p.advance()

	sym := p.symtab.Find(symtab.KindFunc, name, ast.Global)

	if sym != nil && p.firstPass {
		existing := sym.Node.(*ast.Func)
		p.diags.Errorf(p.file, line, col, "redefinition of subroutine %q; first defined at %s:%d:%d", name, p.file, existing.Line, existing.Col)
		p.eatUntil(token.RParen)
		p.eat(token.RParen)
		p.skipBody()
		return ast.NewNop(p.scope, line, col)
	}

	if sym != nil {
		fn := sym.Node.(*ast.Func)
		p.eatUntil(token.RParen)
		p.eat(token.RParen)

		prevScope := p.scope
		p.scope.Full = name
		p.scope.Func = name

		fn.Body = p.parseBody(false)

		p.scope = prevScope
		return fn
	}

	fn := ast.NewFunc(p.scope, line, col, name, "i64")

	prevScope := p.scope
	p.scope.Full = name
	p.scope.Func = name

	p.eat(token.LParen)
	for p.cur().Kind != token.EOF && p.cur().Kind != token.RParen {
		if len(fn.Params) > 0 {
			p.eat(token.Comma)
		}
		pt := p.cur()
		pname := pt.Value

		if existing := p.symtab.Find(symtab.KindVar, pname, p.scope.Full); existing != nil {
			p.diags.Errorf(p.file, pt.Line, pt.Col, "redefinition of variable %q; first defined at %d:%d", pname, existing.Line, existing.Col)
		} else {
			decl := ast.NewDecl(p.scope, pt.Line, pt.Col, pname, "i64")
			p.symtab.Insert(symtab.Symbol{Kind: symtab.KindVar, Name: pname, Scope: p.scope.Full, Node: decl, Line: pt.Line, Col: pt.Col})
			fn.Params = append(fn.Params, decl)
		}
		p.eat(token.Ident)
	}
	p.eat(token.RParen)

	p.symtab.Insert(symtab.Symbol{Kind: symtab.KindFunc, Name: name, Scope: ast.Global, Node: fn, Line: line, Col: col})

	p.scope = prevScope
	p.skipBody()
	return ast.NewNop(p.scope, line, col)
}

// skipBody consumes tokens up to and including the "end" that matches the
// subroutine header just parsed, counting nested if/for/while openers so
// an inner "end" doesn't terminate the skip early. It tolerates whatever
// leads the body (the reference parser's own skip_body performs a single
// unconditional eat() here too) by skipping EOLs first.
func (p *Parser) skipBody() {
	p.skipEOLs()
	depth := 1

	for p.cur().Kind != token.EOF && depth > 0 {
		switch {
		case p.isKeyword("if"), p.isKeyword("for"), p.isKeyword("while"):
			depth++
		case p.isKeyword("end"):
			depth--
		}
		p.advance()
	}
}

// parseBody fills in one block's statements up to a terminating "end"
// (consumed here unless singleStmt, which parses exactly one statement and
// leaves the terminator for that statement's own recursive call — this is
// how "else if" chaining shares a single trailing "end" across the whole
// if/else-if/else chain) or, inside an if's body, an unconsumed "else".
func (p *Parser) parseBody(singleStmt bool) []ast.Node {
	var body []ast.Node

	for p.cur().Kind != token.EOF && !p.isKeyword("end") {
		p.skipEOLs()
		if p.isKeyword("end") || p.cur().Kind == token.EOF {
			break
		}
		if p.inIf && p.isKeyword("else") {
			return body
		}

		stmt := p.parseStmt()

		if _, isNop := stmt.(*ast.Nop); isNop {
			continue
		}

		switch stmt.(type) {
		case *ast.Decl, *ast.Assign, *ast.Call, *ast.Ret, *ast.AsmBlock, *ast.If, *ast.For, *ast.While:
		default:
			line, col := stmt.Pos()
			p.diags.Errorf(p.file, line, col, "invalid statement in subroutine %q", p.scope.Func)
		}

		body = append(body, stmt)
		if singleStmt {
			return body
		}
	}

	if !singleStmt {
		p.eat(token.Ident) // "end"
	}
	return body
}

func (p *Parser) parseConstant() *ast.Int {
	t := p.cur()

	n, err := strconv.ParseInt(t.Value, 10, 64)
	if err != nil {
		p.diags.Errorf(p.file, t.Line, t.Col, "digit conversion failed: %v", err)
		n = 0
	}
	p.eat(token.Int)

	return ast.NewInt(p.scope, t.Line, t.Col, n)
}

func (p *Parser) parseParens() *ast.Parens {
	t := p.cur()

	savedMath, savedCond := p.inMath, p.inCondition
	p.inMath, p.inCondition = false, false

	p.eat(token.LParen)
	inner := p.parseValue()
	p.eat(token.RParen)

	p.inMath, p.inCondition = savedMath, savedCond

	return ast.NewParens(p.scope, t.Line, t.Col, inner)
}
