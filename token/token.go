// Package token contains the tokens that the lexer produces when
// scanning a C source file.
package token

import "github.com/Zheaoli/nadeshiko/ctype"

// Kind is the tag of a Token.
type Kind int

// The kinds of token the lexer can produce.
const (
	EOF Kind = iota
	Punctuator
	Number
	Identifier
	Keyword
	String
)

// keywords is the set of identifier spellings that get reclassified to
// Keyword once the whole token stream has been produced.
var keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"while":  true,
	"for":    true,
	"int":    true,
	"char":   true,
	"sizeof": true,
}

// IsKeyword reports whether lit names one of the reserved words.
func IsKeyword(lit string) bool {
	return keywords[lit]
}

// Token is a single lexical token, together with enough information to
// point back at the exact source bytes it came from.
type Token struct {
	Kind   Kind
	Offset int    // byte offset of the first character
	Length int    // length in bytes of the lexeme
	Lit    string // the exact lexeme text

	Value int64 // decoded value, for Number

	StrValue []byte      // decoded bytes plus a trailing NUL, for String
	StrType  *ctype.Type // Array(Char, len(StrValue)), for String

	Line int // 1-based source line
}

// Is reports whether the token's lexeme equals lit - used to match
// punctuators and keywords, where the lexeme is the whole identity.
func (t Token) Is(lit string) bool {
	return t.Lit == lit
}
