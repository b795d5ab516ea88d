// Package parser implements the two-pass parser described in spec.md §4.1:
// pass one registers subroutine declarations and skips their bodies, pass
// two re-walks the full token buffer filling bodies in, resolving the
// forward references pass one left behind. Top-level globals are not
// registered by pass one; pass two registers each one at its first
// assignment, so a global used above that assignment is undefined.
package parser

import (
	"minstral.dev/basicc/internal/ast"
	"minstral.dev/basicc/internal/diagnostics"
	"minstral.dev/basicc/internal/symtab"
	"minstral.dev/basicc/internal/token"
)

// Parser threads the four ambient scope strings as fields (spec.md §9
// recommends this over process-wide globals) plus a handful of context
// flags that guard re-entrant Math/Condition wrapping and track whether
// parsing is inside an if body (so parseBody stops at `else`) or a loop.
type Parser struct {
	toks []token.Token
	pos  int

	firstPass bool

	inMath      bool
	inCondition bool
	inLoop      bool
	inIf        bool

	scope ast.Scope
	file  string

	symtab *symtab.Table
	diags  *diagnostics.Collector
}

func New(file string, toks []token.Token, sym *symtab.Table, diags *diagnostics.Collector) *Parser {
	return &Parser{
		toks:   toks,
		file:   file,
		scope:  ast.Scope{Full: ast.Global, Func: ast.Global, File: file, Module: file},
		symtab: sym,
		diags:  diags,
	}
}

// ---- token stream helpers -----------------------------------------------

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) peek(offset int) token.Token {
	idx := p.pos + offset
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.toks) {
		idx = len(p.toks) - 1
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return t
}

// eat reports a mismatch but always advances regardless, the same
// recovery rule the reference parser's own eat() uses: a diagnostic never
// stalls the cursor.
func (p *Parser) eat(kind token.Kind) token.Token {
	t := p.cur()
	if t.Kind != kind {
		p.diags.Errorf(p.file, t.Line, t.Col, "found token %s when expecting %s", t.Kind, kind)
	}
	return p.advance()
}

func (p *Parser) eatUntil(kind token.Kind) {
	for p.cur().Kind != kind && p.cur().Kind != token.EOF {
		p.advance()
	}
}

func (p *Parser) skipEOLs() {
	for p.cur().Kind == token.EOL {
		p.advance()
	}
}

func (p *Parser) isKeyword(word string) bool {
	return p.cur().Kind == token.Ident && p.cur().Value == word
}

// ---- scope management -----------------------------------------------

func (p *Parser) enterScope(kind string, line, col int) ast.Scope {
	old := p.scope
	p.scope.Full = p.scope.Full + "@" + kind + itoa(line) + itoa(col)
	return old
}

func (p *Parser) exitScope(old ast.Scope) { p.scope = old }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ---- entry point -----------------------------------------------

// ParseRoot runs both passes over toks and returns the resulting Root.
//
// Pass one mirrors the reference parser's root loop exactly: it looks only
// for "sub" and dispatches through parseSubroutine to register it (skipping
// the body); every other token is skipped one at a time. Top-level globals
// are deliberately NOT pre-registered here — they fall out of pass two's
// parseAssign taking its "declare on first sight" branch, same as the
// reference implementation, even though it means a global referenced above
// its own assignment is reported undefined rather than forward-resolved.
func ParseRoot(file string, toks []token.Token, sym *symtab.Table, diags *diagnostics.Collector) *ast.Root {
	p := New(file, toks, sym, diags)

	p.firstPass = true
	p.pos = 0
	for p.cur().Kind != token.EOF {
		if p.isKeyword("sub") {
			stmt := p.parseId()
			_ = stmt // pass one only cares about the symbol table side effect
			continue
		}
		if p.cur().Kind != token.Ident {
			p.eatUntil(token.Ident)
			continue
		}
		p.advance()
	}

	// Pass 2: body fill, re-walking from position 0.
	p.firstPass = false
	p.pos = 0
	root := ast.NewRoot(p.scope, 1, 1)

	for p.cur().Kind != token.EOF {
		stmt := p.parseStmt()

		if _, isNop := stmt.(*ast.Nop); isNop {
			continue
		}

		switch stmt.(type) {
		case *ast.Func, *ast.Call, *ast.Decl, *ast.Assign, *ast.Ret, *ast.AsmBlock, *ast.If, *ast.For, *ast.While:
		default:
			line, col := stmt.Pos()
			p.diags.Errorf(p.file, line, col, "invalid top-level statement")
		}

		root.Body = append(root.Body, stmt)
	}

	return root
}
