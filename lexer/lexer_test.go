package lexer

import (
	"testing"

	"github.com/Zheaoli/nadeshiko/token"
)

// Trivial test of the parsing of numbers and punctuators.
func TestTokenizeBasic(t *testing.T) {
	input := `1 + 22 - 3`

	tests := []struct {
		kind token.Kind
		lit  string
	}{
		{token.Number, "1"},
		{token.Punctuator, "+"},
		{token.Number, "22"},
		{token.Punctuator, "-"},
		{token.Number, "3"},
		{token.EOF, ""},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}
	for i, tt := range tests {
		if tokens[i].Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong, expected=%v, got=%v", i, tt.kind, tokens[i].Kind)
		}
		if tokens[i].Lit != tt.lit {
			t.Fatalf("tests[%d] - literal wrong, expected=%q, got=%q", i, tt.lit, tokens[i].Lit)
		}
	}
}

// Two-character operators take precedence over their one-character prefix.
func TestTokenizeTwoCharOperators(t *testing.T) {
	input := `== != <= >= < >`
	want := []string{"==", "!=", "<=", ">=", "<", ">"}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for i, lit := range want {
		if tokens[i].Lit != lit {
			t.Fatalf("tests[%d] - expected %q, got %q", i, lit, tokens[i].Lit)
		}
	}
}

// Keywords are reclassified after the full stream has been produced.
func TestTokenizeKeywords(t *testing.T) {
	input := `int return x`

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if tokens[0].Kind != token.Keyword || tokens[0].Lit != "int" {
		t.Fatalf("expected 'int' to be a keyword, got %+v", tokens[0])
	}
	if tokens[1].Kind != token.Keyword || tokens[1].Lit != "return" {
		t.Fatalf("expected 'return' to be a keyword, got %+v", tokens[1])
	}
	if tokens[2].Kind != token.Identifier || tokens[2].Lit != "x" {
		t.Fatalf("expected 'x' to be an identifier, got %+v", tokens[2])
	}
}

func TestTokenizeComments(t *testing.T) {
	input := "1 // a comment\n+ /* block */ 2"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got := []string{}
	for _, tok := range tokens {
		if tok.Kind != token.EOF {
			got = append(got, tok.Lit)
		}
	}
	want := []string{"1", "+", "2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestTokenizeStringLiteral(t *testing.T) {
	input := `"ab\n"`
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	tok := tokens[0]
	if tok.Kind != token.String {
		t.Fatalf("expected a string token, got %+v", tok)
	}
	want := []byte{'a', 'b', '\n', 0}
	if string(tok.StrValue) != string(want) {
		t.Fatalf("expected decoded bytes %v, got %v", want, tok.StrValue)
	}
	if tok.StrType.Size != len(want) {
		t.Fatalf("expected string type size %d, got %d", len(want), tok.StrType.Size)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	if _, err := Tokenize(`"abc`); err == nil {
		t.Fatalf("expected an error for an unterminated string")
	}
}

func TestTokenizeUnterminatedComment(t *testing.T) {
	if _, err := Tokenize(`1 /* oops`); err == nil {
		t.Fatalf("expected an error for an unterminated comment")
	}
}

func TestTokenizeInvalidToken(t *testing.T) {
	if _, err := Tokenize("1 \x01"); err == nil {
		t.Fatalf("expected an error for an invalid byte")
	}
}

func TestTokenizeHexEscape(t *testing.T) {
	tokens, err := Tokenize(`"\x41\x42"`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if string(tokens[0].StrValue) != "AB\x00" {
		t.Fatalf("expected decoded hex escape, got %q", tokens[0].StrValue)
	}
}

func TestTokenizeOctalEscape(t *testing.T) {
	tokens, err := Tokenize(`"\101"`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if string(tokens[0].StrValue) != "A\x00" {
		t.Fatalf("expected decoded octal escape, got %q", tokens[0].StrValue)
	}
}
