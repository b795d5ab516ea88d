package parser

import (
	"minstral.dev/basicc/internal/ast"
	"minstral.dev/basicc/internal/token"
)

// isMathOperator reports whether the current token can continue an
// arithmetic chain. `&`, `|` and `^` only count when NOT doubled — "&&"/
// "||" stop the math chain so a caller's isCondition check gets a look,
// even though (per the reference grammar) only the literal "and"/"or"
// keywords actually start a Condition; a doubled symbolic operator simply
// ends the Math node early.
func (p *Parser) isMathOperator() bool {
	switch p.cur().Kind {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Shl, token.Shr:
		return true
	case token.Amp, token.Pipe, token.Caret:
		return p.peek(1).Kind != p.cur().Kind
	}
	return false
}

func (p *Parser) isConditionalAndOr() bool {
	return p.cur().Kind == token.Ident && (p.cur().Value == "and" || p.cur().Value == "or")
}

func (p *Parser) isCondition() bool {
	switch p.cur().Kind {
	case token.EqEq, token.NotEq, token.Lt, token.Lte, token.Gt, token.Gte:
		return true
	case token.Ident:
		return p.isConditionalAndOr()
	}
	return false
}

// parseValue parses one operand via parseStmt, then greedily wraps it in a
// Math and/or Condition if what follows calls for one — unless this call
// is itself nested inside a Math or Condition already being built, in
// which case the outer call owns the wrapping.
func (p *Parser) parseValue() ast.Node {
	value := p.parseStmt()

	switch value.(type) {
	case *ast.Nop, *ast.Int, *ast.Var, *ast.Call, *ast.Math, *ast.Parens, *ast.Condition:
	default:
		line, col := value.Pos()
		p.diags.Errorf(p.file, line, col, "invalid value")
	}

	if !p.inMath && p.isMathOperator() {
		value = p.parseMath(value)
	}
	if !p.inCondition && p.isCondition() {
		value = p.parseCondition(value)
	}
	return value
}

// parseMath builds a flat value/Oper/value/... list; first may be supplied
// by a caller that already parsed the leading operand (parseCondition does
// this via parseValue's own dispatch), or nil to parse one here.
func (p *Parser) parseMath(first ast.Node) *ast.Math {
	wasInMath := p.inMath
	p.inMath = true

	if first == nil {
		first = p.parseValue()
	}
	line, col := first.Pos()
	m := ast.NewMath(p.scope, line, col)
	m.Values = append(m.Values, first)

	for p.isMathOperator() {
		t := p.cur()
		m.Values = append(m.Values, ast.NewOper(p.scope, t.Line, t.Col, t.Kind))
		p.advance()
		m.Values = append(m.Values, p.parseValue())
	}

	p.inMath = wasInMath
	return m
}

// parseCondition builds the same flat value/Oper/... shape as parseMath,
// but normalizes a bare truthy operand ("if x" rather than "if x != 0")
// into an explicit `!= 0` comparison at both the head and after every
// and/or, matching the reference parser's parse_condition.
func (p *Parser) parseCondition(begin ast.Node) *ast.Condition {
	wasInCond := p.inCondition
	p.inCondition = true

	if begin == nil {
		begin = p.parseValue()
	}
	line, col := begin.Pos()
	c := ast.NewCondition(p.scope, line, col)

	if !p.isCondition() || p.isConditionalAndOr() {
		c.Values = append(c.Values, begin,
			ast.NewOper(p.scope, line, col, token.NotEq),
			ast.NewInt(p.scope, line, col, 0))
	} else {
		c.Values = append(c.Values, begin)
	}

	for p.isCondition() {
		if p.isConditionalAndOr() {
			t := p.cur()
			kind := token.KwOr
			if t.Value == "and" {
				kind = token.KwAnd
			}
			p.advance()
			c.Values = append(c.Values, ast.NewOper(p.scope, t.Line, t.Col, kind))

			lhs := p.parseValue()
			lLine, lCol := lhs.Pos()

			if !p.isCondition() || p.isConditionalAndOr() {
				c.Values = append(c.Values, lhs,
					ast.NewOper(p.scope, lLine, lCol, token.NotEq),
					ast.NewInt(p.scope, lLine, lCol, 0))
			} else {
				c.Values = append(c.Values, lhs)
			}
			continue
		}

		t := p.cur()
		c.Values = append(c.Values, ast.NewOper(p.scope, t.Line, t.Col, t.Kind))
		p.advance()
		c.Values = append(c.Values, p.parseValue())
	}

	p.inCondition = wasInCond
	return c
}
