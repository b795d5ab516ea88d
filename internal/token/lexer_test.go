package token_test

import (
	"testing"

	"minstral.dev/basicc/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokenizeNumbersAndOperators(t *testing.T) {
	t.Run("Valid data", func(t *testing.T) {
		toks := token.NewLexer([]byte("x = 1 + 2.5 * y")).Tokenize()

		want := []token.Kind{
			token.Ident, token.Equal, token.Int, token.Plus, token.Float,
			token.Star, token.Ident, token.EOF,
		}
		got := kinds(toks)
		if len(got) != len(want) {
			t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("token[%d].Kind = %v, want %v", i, got[i], want[i])
			}
		}

		if toks[2].IntValue != 1 {
			t.Errorf("expected int literal 1, got %d", toks[2].IntValue)
		}
		if toks[4].Value != "2.5" {
			t.Errorf("expected float lexeme 2.5, got %q", toks[4].Value)
		}
	})
}

// TestTokenizeTwoCharOperators covers the two-char lookahead table: <<, <=,
// >>, >=, ==, != each collapse to a single token, never two.
func TestTokenizeTwoCharOperators(t *testing.T) {
	test := func(src string, want token.Kind) {
		toks := token.NewLexer([]byte(src)).Tokenize()
		if len(toks) != 2 || toks[0].Kind != want {
			t.Errorf("Tokenize(%q) = %+v, want a single %v token", src, toks, want)
		}
	}

	t.Run("Valid data", func(t *testing.T) {
		test("<<", token.Shl)
		test("<=", token.Lte)
		test(">>", token.Shr)
		test(">=", token.Gte)
		test("==", token.EqEq)
		test("!=", token.NotEq)
		test("<", token.Lt)
		test(">", token.Gt)
	})
}

func TestTokenizeStringEscapes(t *testing.T) {
	t.Run("Valid data", func(t *testing.T) {
		toks := token.NewLexer([]byte(`"a\nb"`)).Tokenize()
		if toks[0].Kind != token.String || toks[0].Value != "a\nb" {
			t.Errorf("got %+v, want a String token with value %q", toks[0], "a\nb")
		}
	})
}

// TestTokenizeCommentsAreSkipped covers the '#' line-comment rule: the rest
// of the line up to (not including) the newline is discarded.
func TestTokenizeCommentsAreSkipped(t *testing.T) {
	t.Run("Valid data", func(t *testing.T) {
		toks := token.NewLexer([]byte("x # this is a comment\ny")).Tokenize()
		want := []token.Kind{token.Ident, token.EOL, token.Ident, token.EOF}
		got := kinds(toks)
		if len(got) != len(want) {
			t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("token[%d].Kind = %v, want %v", i, got[i], want[i])
			}
		}
	})
}
