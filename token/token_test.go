package token

import "testing"

// Test that keyword lookup agrees with the known keyword set.
func TestIsKeyword(t *testing.T) {
	for _, kw := range []string{"return", "if", "else", "while", "for", "int", "char", "sizeof"} {
		if !IsKeyword(kw) {
			t.Errorf("expected %q to be a keyword", kw)
		}
	}

	for _, lit := range []string{"foo", "returns", "main", ""} {
		if IsKeyword(lit) {
			t.Errorf("did not expect %q to be a keyword", lit)
		}
	}
}

func TestTokenIs(t *testing.T) {
	tok := Token{Kind: Punctuator, Lit: "+"}
	if !tok.Is("+") {
		t.Errorf("expected token to match its own literal")
	}
	if tok.Is("-") {
		t.Errorf("did not expect token to match a different literal")
	}
}
