// Package token defines the lexical tokens produced by the scanner and
// consumed by the parser.
package token

import "fmt"

type Kind int

const (
	EOF Kind = iota
	EOL
	Ident
	Int
	Float
	String

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Equal
	At

	Plus
	Minus
	Star
	Slash
	Percent

	Shl
	Shr
	Amp
	Pipe
	Caret
	Tilde

	EqEq
	NotEq
	Lt
	Lte
	Gt
	Gte
	LogNot

	// KwAnd and KwOr are the `and`/`or` keyword operators that combine
	// comparisons inside a Condition; distinct from the bitwise Amp/Pipe
	// tokens, which only ever appear inside a Math.
	KwAnd
	KwOr
)

var names = map[Kind]string{
	EOF: "eof", EOL: "eol", Ident: "ident", Int: "int", Float: "float", String: "string",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", Comma: ",", Equal: "=", At: "@",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Shl: "<<", Shr: ">>", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	EqEq: "==", NotEq: "!=", Lt: "<", Lte: "<=", Gt: ">", Gte: ">=", LogNot: "!",
	KwAnd: "and", KwOr: "or",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is a single lexical unit: (kind, lexeme, line, col).
type Token struct {
	Kind Kind
	// Value holds the raw lexeme; for Int it additionally carries the
	// parsed numeric value in IntValue (Float tokens carry only the lexeme).
	Value    string
	IntValue int64
	Line     int
	Col      int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Value, t.Line, t.Col)
}

// Keywords reserved by the language. The lexer returns them as ordinary
// Ident tokens and the parser recognizes them by comparing token text,
// which keeps the lexer itself keyword-agnostic the way the original
// scanner is.
var Keywords = map[string]bool{
	"sub": true, "return": true, "if": true, "else": true, "for": true,
	"while": true, "asm": true, "and": true, "or": true, "rev": true, "step": true,
	"to": true, "end": true,
}
