package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/esengine/token"
)

// Lexer scans source text one token at a time. Line and column are 1-based
// and count runes.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

func New(input string) *Lexer {
	return &Lexer{src: input, line: 1, col: 1}
}

func (l *Lexer) eof() bool {
	return l.off >= len(l.src)
}

func (l *Lexer) runeAt(off int) rune {
	if off >= len(l.src) {
		return 0
	}
	if c := l.src[off]; c < utf8.RuneSelf {
		return rune(c)
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

// cur is the rune under the cursor, 0 at end of input.
func (l *Lexer) cur() rune {
	return l.runeAt(l.off)
}

// next is the rune after the cursor.
func (l *Lexer) next() rune {
	if l.eof() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.src[l.off:])
	return l.runeAt(l.off + size)
}

func (l *Lexer) advance() rune {
	if l.eof() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipTo advances rune by rune so positions stay right across newlines.
func (l *Lexer) skipTo(off int) {
	for l.off < off && !l.eof() {
		l.advance()
	}
}

func (l *Lexer) skipWhile(pred func(rune) bool) int {
	n := 0
	for !l.eof() && pred(l.cur()) {
		l.advance()
		n++
	}
	return n
}

func (l *Lexer) emit(kind token.Kind, lexeme string, line, col int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col}
}

func (l *Lexer) illegal(msg string, line, col int) token.Token {
	return l.emit(token.Illegal, msg, line, col)
}

// skipTrivia moves past whitespace and comments. An unclosed block comment
// comes back as an Illegal token.
func (l *Lexer) skipTrivia() (token.Token, bool) {
	for !l.eof() {
		c := l.cur()
		switch {
		case isSpace(c):
			l.advance()
		case c == '/' && l.next() == '/':
			l.skipWhile(func(r rune) bool { return r != '\n' })
		case c == '/' && l.next() == '*':
			line, col := l.line, l.col
			end := strings.Index(l.src[l.off+2:], "*/")
			if end < 0 {
				l.skipTo(len(l.src))
				return l.illegal("unterminated comment", line, col), false
			}
			l.skipTo(l.off + 2 + end + 2)
		default:
			return token.Token{}, true
		}
	}
	return token.Token{}, true
}

func (l *Lexer) NextToken() token.Token {
	if bad, ok := l.skipTrivia(); !ok {
		return bad
	}

	line, col := l.line, l.col
	c := l.cur()
	switch {
	case l.eof():
		return l.emit(token.EOF, "", line, col)
	case c == '"' || c == '\'':
		return l.scanString(line, col)
	case isDigit(c) || (c == '.' && isDigit(l.next())):
		return l.scanNumber(line, col)
	case isIdentStart(c):
		start := l.off
		l.skipWhile(isIdentPart)
		word := l.src[start:l.off]
		return l.emit(token.LookupIdentifier(word), word, line, col)
	}

	rest := l.src[l.off:]
	for _, p := range token.Punctuators {
		if strings.HasPrefix(rest, p) {
			l.skipTo(l.off + len(p))
			return l.emit(token.Punctuator, p, line, col)
		}
	}

	l.advance()
	return l.illegal("unexpected character "+string(c), line, col)
}

var simpleEscapes = map[rune]rune{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f', 'v': '\v', '0': 0,
}

// scanString decodes a quoted literal; the token's lexeme is the decoded text.
func (l *Lexer) scanString(line, col int) token.Token {
	quote := l.advance()
	var sb strings.Builder
	for {
		if l.eof() || l.cur() == '\n' {
			return l.illegal("unterminated string", line, col)
		}
		c := l.advance()
		if c == quote {
			return l.emit(token.String, sb.String(), line, col)
		}
		if c != '\\' {
			sb.WriteRune(c)
			continue
		}

		if l.eof() {
			return l.illegal("unterminated string", line, col)
		}
		esc := l.advance()
		if r, ok := simpleEscapes[esc]; ok {
			sb.WriteRune(r)
			continue
		}
		switch esc {
		case 'x':
			r, ok := l.scanHex(2)
			if !ok {
				return l.illegal("invalid hex escape", line, col)
			}
			sb.WriteRune(r)
		case 'u':
			r, ok := l.scanHex(4)
			if !ok {
				return l.illegal("invalid unicode escape", line, col)
			}
			sb.WriteRune(r)
		case '\n':
			// line continuation
		default:
			sb.WriteRune(esc)
		}
	}
}

// scanHex consumes exactly n hex digits.
func (l *Lexer) scanHex(n int) (rune, bool) {
	var v rune
	for i := 0; i < n; i++ {
		d := hexVal(l.cur())
		if d < 0 {
			return 0, false
		}
		v = v<<4 | rune(d)
		l.advance()
	}
	return v, true
}

func (l *Lexer) scanNumber(line, col int) token.Token {
	start := l.off
	if l.cur() == '0' && (l.next() == 'x' || l.next() == 'X') {
		l.skipTo(l.off + 2)
		if l.skipWhile(isHexDigit) == 0 {
			return l.illegal("invalid hex literal", line, col)
		}
	} else {
		l.skipWhile(isDigit)
		if l.cur() == '.' {
			l.advance()
			l.skipWhile(isDigit)
		}
		if c := l.cur(); c == 'e' || c == 'E' {
			l.advance()
			if c := l.cur(); c == '+' || c == '-' {
				l.advance()
			}
			if l.skipWhile(isDigit) == 0 {
				return l.illegal("missing exponent digits", line, col)
			}
		}
	}
	// 3in is one bad token, not a number followed by a keyword
	if isIdentStart(l.cur()) {
		return l.illegal("identifier starts immediately after numeric literal", line, col)
	}
	return l.emit(token.Number, l.src[start:l.off], line, col)
}

// Tokenize returns all tokens from the input, ending with EOF. Lexing stops at
// the first Illegal token, which is returned as the last element.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF || tok.Kind == token.Illegal {
			return tokens
		}
	}
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f', '\uFEFF', '\u00A0':
		return true
	}
	return c > utf8.RuneSelf && unicode.Is(unicode.Zs, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return hexVal(c) >= 0
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
		(c > utf8.RuneSelf && unicode.IsLetter(c))
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c) || c == '\u200C' || c == '\u200D'
}

func hexVal(c rune) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
