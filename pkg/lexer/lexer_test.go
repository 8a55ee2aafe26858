package lexer

import (
	"testing"

	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	tokens, err := TokenizeString(src)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens for %q, got %d: %v", len(want), src, len(got), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d of %q: expected %s, got %s", i, src, want[i], got[i])
		}
	}
	return tokens
}

func TestKeywordsRequireWordBoundary(t *testing.T) {
	tokens := expectKinds(t, "printing print ifx if", token.Identifier, token.Print, token.Identifier, token.If)
	if tokens[0].Value != "printing" {
		t.Fatalf("expected identifier printing, got %q", tokens[0].Value)
	}
}

func TestAllKeywordsTokenize(t *testing.T) {
	for word, kind := range token.Keywords {
		tokens, err := TokenizeString(word)
		if err != nil {
			t.Fatalf("tokenize %q: %v", word, err)
		}
		if len(tokens) != 1 || tokens[0].Kind != kind {
			t.Fatalf("expected %q to be %s, got %v", word, kind, tokens)
		}
	}
}

func TestOperatorsAndPunctuation(t *testing.T) {
	expectKinds(t, "+ - * / % == != <= >= < > = { } ( ) [ ] , ; : . && || !",
		token.Plus, token.Minus, token.Multiply, token.Divide, token.Percent,
		token.Eq, token.NotEq, token.LessEq, token.GreaterEq, token.Less, token.Greater, token.Assign,
		token.LBrace, token.RBrace, token.LParen, token.RParen, token.LBracket, token.RBracket,
		token.Comma, token.Semicolon, token.Colon, token.Dot, token.And, token.Or, token.Bang)
}

func TestNumbersCarryIntegerValue(t *testing.T) {
	tokens := expectKinds(t, "x = 42", token.Identifier, token.Assign, token.Number)
	if tokens[2].Int != 42 {
		t.Fatalf("expected 42, got %d", tokens[2].Int)
	}
}

func TestStringsStripOuterQuotesOnly(t *testing.T) {
	tokens := expectKinds(t, `"a\"b" 'c\n'`, token.String, token.String)
	if tokens[0].Value != `a\"b` {
		t.Fatalf("expected raw escaped text, got %q", tokens[0].Value)
	}
	if tokens[1].Value != `c\n` {
		t.Fatalf("expected raw escape preserved, got %q", tokens[1].Value)
	}
}

func TestCommentsAreDiscarded(t *testing.T) {
	src := "x = 1 # trailing\n// line\n/* block\n spanning */ y = 2"
	tokens := expectKinds(t, src, token.Identifier, token.Assign, token.Number, token.Identifier, token.Assign, token.Number)
	if tokens[3].Line != 4 || tokens[3].Column != 14 {
		t.Fatalf("expected y at 4:14, got %d:%d", tokens[3].Line, tokens[3].Column)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens := expectKinds(t, "a\n  bb = 3\n\tc", token.Identifier, token.Identifier, token.Assign, token.Number, token.Identifier)
	positions := [][2]int{{1, 1}, {2, 3}, {2, 6}, {2, 8}, {3, 2}}
	for i, pos := range positions {
		if tokens[i].Line != pos[0] || tokens[i].Column != pos[1] {
			t.Fatalf("token %d: expected %d:%d, got %d:%d", i, pos[0], pos[1], tokens[i].Line, tokens[i].Column)
		}
	}
}

func TestPositionsAreMonotonic(t *testing.T) {
	src := "def f(a, b) {\n  return a + b # sum\n}\n/* c */ print(f(1, 2))\nfor (v in [1,2]) { print(v) }"
	tokens, err := TokenizeString(src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Before(tokens[i-1]) {
			t.Fatalf("token %d (%s) precedes token %d (%s)", i, tokens[i], i-1, tokens[i-1])
		}
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize(token.NewSource("bad.vlang", "x = 1\ny = @"))
	diag, ok := diagnostics.As(err)
	if !ok {
		t.Fatalf("expected diagnostic, got %#v", err)
	}
	if diag.TypeName() != "SyntaxError" || diag.Message != "Unexpected character: @" {
		t.Fatalf("unexpected diagnostic %q", diag.Error())
	}
	if diag.Token == nil || diag.Token.Value != "@" || diag.Token.Line != 2 || diag.Token.Column != 5 {
		t.Fatalf("unexpected token %#v", diag.Token)
	}
	if diag.Filename != "bad.vlang" {
		t.Fatalf("expected filename, got %q", diag.Filename)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := TokenizeString("x = 1 /* never closed")
	diag, ok := diagnostics.As(err)
	if !ok || diag.Message != "Unterminated block comment" {
		t.Fatalf("expected unterminated comment diagnostic, got %v", err)
	}
}

func TestIntegerOverflowIsRejected(t *testing.T) {
	if _, err := TokenizeString("99999999999999999999"); err == nil {
		t.Fatalf("expected overflow error")
	}
}
