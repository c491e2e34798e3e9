// Package lexer turns C source text into a finite token sequence.
//
// Tokenize runs the whole source string up front - there is no
// incremental/streaming mode - and returns a slice whose last element
// always has kind token.EOF. The parser consumes that slice through a
// one-token look-ahead cursor of its own (see the parser package); the
// lexer itself never re-reads or rewinds.
package lexer

import (
	"github.com/Zheaoli/nadeshiko/ctype"
	"github.com/Zheaoli/nadeshiko/diag"
	"github.com/Zheaoli/nadeshiko/token"
)

// Lexer holds the scanning state for one source string.
type Lexer struct {
	src          string
	position     int  // current byte position
	readPosition int  // next byte position
	ch           byte // current byte, 0 at end of input
	line         int  // 1-based line of the current byte
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	l := &Lexer{src: src, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.src) {
		l.ch = 0
	} else {
		l.ch = l.src[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.src) {
		return 0
	}
	return l.src[l.readPosition]
}

func (l *Lexer) errorf(offset int, message string) error {
	return diag.New(diag.Lex, l.src, offset, message)
}

// Tokenize scans src in full and returns its tokens, the last of
// which has kind token.EOF. Identifiers that name a keyword are
// reclassified to token.Keyword only after the entire stream has been
// produced, matching the phase order in the component design.
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)
	var tokens []token.Token

	for {
		tok, done, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if done {
			break
		}
	}

	for i := range tokens {
		if tokens[i].Kind == token.Identifier && token.IsKeyword(tokens[i].Lit) {
			tokens[i].Kind = token.Keyword
		}
	}
	return tokens, nil
}

// next scans and returns the single next token. done is true once the
// returned token is the EOF token.
func (l *Lexer) next() (token.Token, bool, error) {
	for {
		skipped, err := l.skipComment()
		if err != nil {
			return token.Token{}, false, err
		}
		if skipped {
			continue
		}
		if isWhitespace(l.ch) {
			l.skipWhitespace()
			continue
		}
		break
	}

	start := l.position
	line := l.line

	if l.ch == 0 {
		return token.Token{Kind: token.EOF, Offset: start, Line: line}, true, nil
	}

	if l.ch == '"' {
		tok, err := l.readString()
		if err != nil {
			return token.Token{}, false, err
		}
		tok.Line = line
		return tok, false, nil
	}

	if isDigit(l.ch) {
		return l.readNumber(), false, nil
	}

	if isIdentStart(l.ch) {
		return l.readIdentifier(), false, nil
	}

	if n := punctuatorLength(l.src[l.position:]); n > 0 {
		lit := l.src[l.position : l.position+n]
		for i := 0; i < n; i++ {
			l.readChar()
		}
		return token.Token{Kind: token.Punctuator, Offset: start, Length: n, Lit: lit, Line: line}, false, nil
	}

	return token.Token{}, false, l.errorf(start, "invalid token")
}

// skipComment consumes a "//" or "/* */" comment starting at the
// current position, if any, and reports whether it did so.
func (l *Lexer) skipComment() (bool, error) {
	if l.ch == '/' && l.peekChar() == '/' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		return true, nil
	}
	if l.ch == '/' && l.peekChar() == '*' {
		start := l.position
		l.readChar()
		l.readChar()
		for !(l.ch == '*' && l.peekChar() == '/') {
			if l.ch == 0 {
				return false, l.errorf(start, "unterminated comment")
			}
			if l.ch == '\n' {
				l.line++
			}
			l.readChar()
		}
		l.readChar()
		l.readChar()
		return true, nil
	}
	return false, nil
}

func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		if l.ch == '\n' {
			l.line++
		}
		l.readChar()
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isAlpha(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isIdentStart(ch byte) bool {
	return isAlpha(ch)
}

// punctuatorLength returns the length of the punctuator token at the
// start of s: 2 for the multi-character comparison operators, 1 for
// any other printable ASCII byte, 0 if s doesn't start with one.
func punctuatorLength(s string) int {
	if len(s) >= 2 {
		switch s[:2] {
		case "==", "!=", "<=", ">=":
			return 2
		}
	}
	if len(s) >= 1 && s[0] > ' ' && s[0] < 0x7f {
		return 1
	}
	return 0
}

func (l *Lexer) readNumber() token.Token {
	start := l.position
	line := l.line
	for isDigit(l.ch) {
		l.readChar()
	}
	lit := l.src[start:l.position]
	var value int64
	for _, c := range []byte(lit) {
		value = value*10 + int64(c-'0')
	}
	return token.Token{Kind: token.Number, Offset: start, Length: l.position - start, Lit: lit, Value: value, Line: line}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.position
	line := l.line
	for isAlnum(l.ch) {
		l.readChar()
	}
	lit := l.src[start:l.position]
	return token.Token{Kind: token.Identifier, Offset: start, Length: l.position - start, Lit: lit, Line: line}
}

// readString consumes a double-quoted string literal, decoding escape
// sequences into StrValue and appending a terminating NUL byte.
func (l *Lexer) readString() (token.Token, error) {
	start := l.position
	line := l.line
	l.readChar() // swallow opening quote

	var out []byte
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{}, l.errorf(start, "unterminated string")
		}
		if l.ch == '\\' {
			b, err := l.readEscape()
			if err != nil {
				return token.Token{}, err
			}
			out = append(out, b)
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // swallow closing quote
	out = append(out, 0)

	strType := ctype.ArrayOf(ctype.TypeChar, len(out))
	return token.Token{
		Kind:     token.String,
		Offset:   start,
		Length:   l.position - start,
		Lit:      l.src[start:l.position],
		StrValue: out,
		StrType:  strType,
		Line:     line,
	}, nil
}

// readEscape decodes a single backslash escape, starting at the
// backslash itself, and advances past it.
func (l *Lexer) readEscape() (byte, error) {
	start := l.position
	l.readChar() // swallow backslash

	switch l.ch {
	case 'a':
		l.readChar()
		return 7, nil
	case 'b':
		l.readChar()
		return 8, nil
	case 'f':
		l.readChar()
		return 12, nil
	case 'n':
		l.readChar()
		return 10, nil
	case 'r':
		l.readChar()
		return 13, nil
	case 't':
		l.readChar()
		return 9, nil
	case 'v':
		l.readChar()
		return 11, nil
	case 'e':
		l.readChar()
		return 27, nil
	case 'x':
		l.readChar()
		if !isHex(l.ch) {
			return 0, l.errorf(start, "expected hex digit")
		}
		var v int
		for isHex(l.ch) {
			v = v*16 + hexValue(l.ch)
			l.readChar()
		}
		return byte(v), nil
	default:
		if l.ch >= '0' && l.ch <= '7' {
			v := 0
			for i := 0; i < 3 && l.ch >= '0' && l.ch <= '7'; i++ {
				v = v*8 + int(l.ch-'0')
				l.readChar()
			}
			return byte(v), nil
		}
		ch := l.ch
		l.readChar()
		return ch, nil
	}
}

func isHex(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func hexValue(ch byte) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}
