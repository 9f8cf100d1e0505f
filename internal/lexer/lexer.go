package lexer

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/KimNorgaard/go-munch/internal/token"
)

// Lexer holds the state for tokenizing a Munch representation.
type Lexer struct {
	r       *bufio.Reader
	buf     bytes.Buffer
	ch      rune
	// invalid is set when ch stands for a byte that is not valid UTF-8,
	// as opposed to an encoded U+FFFD.
	invalid bool
	line    int
	column  int
}

// New creates and returns a new Lexer.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		r:      bufio.NewReader(r),
		line:   1,
		column: 1,
	}
	l.readRune()
	return l
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	tok := token.Token{Line: l.line, Column: l.column}
	switch l.ch {
	case '(', ')', '{', '}', '[', ']', ',', ':', '=':
		tok.Type = token.Type(l.ch)
		tok.Literal = string(l.ch)
	case '.':
		if l.peekRune() == '.' && l.peekNextRune() == '.' {
			l.advance()
			l.advance()
			tok.Type = token.ELLIPSIS
			tok.Literal = "..."
		} else {
			tok.Type = token.ILLEGAL
			tok.Literal = "."
		}
	case '"', '\'':
		lit, ok := l.readString(l.ch)
		if !ok {
			tok.Type = token.ILLEGAL
		} else {
			tok.Type = token.STRING
		}
		tok.Literal = lit
		return tok
	case -1: // Corresponds to io.EOF
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	default:
		if isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekRune())) {
			literal := l.readNumber()
			if typ, ok := ParseAsNumber(literal); ok {
				tok.Type = typ
			} else {
				tok.Type = token.ILLEGAL
			}
			tok.Literal = literal
			return tok
		}
		if isIdentifierStart(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		}
		tok.Type = token.ILLEGAL
		if l.invalid {
			tok.Literal = "invalid utf-8"
		} else {
			tok.Literal = string(l.ch)
		}
	}
	l.advance()
	return tok
}

func (l *Lexer) readRune() {
	r, size, err := l.r.ReadRune()
	if err != nil {
		l.ch = -1
		l.invalid = false
		return
	}
	l.ch = r
	l.invalid = r == utf8.RuneError && size == 1
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.readRune()
	l.column++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.advance()
	}
}

func (l *Lexer) readIdentifier() string {
	l.buf.Reset()
	for isIdentifierChar(l.ch) {
		l.buf.WriteRune(l.ch)
		l.advance()
	}
	return l.buf.String()
}

func (l *Lexer) readNumber() string {
	l.buf.Reset()
	prev := rune(0)
	for isIdentifierChar(l.ch) || l.ch == '.' || l.ch == '-' || l.ch == '+' {
		if (l.ch == '-' || l.ch == '+') && l.buf.Len() > 0 && prev != 'e' && prev != 'E' {
			break
		}
		if l.ch == '.' && l.peekRune() == '.' {
			break
		}
		l.buf.WriteRune(l.ch)
		prev = l.ch
		l.advance()
	}
	return l.buf.String()
}

// readString consumes a quoted literal and returns its decoded value. The
// escape sequences are those of Go string literals; a single-quoted literal
// may additionally escape its own quote.
func (l *Lexer) readString(quote rune) (string, bool) {
	l.advance() // consume opening quote
	l.buf.Reset()
	l.buf.WriteByte('"')
	for {
		if l.ch == quote {
			l.advance() // consume closing quote
			break
		}
		if l.ch == '\n' || l.ch == -1 {
			return "unterminated string", false
		}
		if l.invalid {
			return "invalid utf-8 sequence in string", false
		}
		switch {
		case l.ch == '\\':
			l.advance()
			if l.ch == -1 {
				return "unterminated string", false
			}
			if l.ch == '\'' {
				l.buf.WriteRune('\'')
			} else {
				l.buf.WriteByte('\\')
				l.buf.WriteRune(l.ch)
			}
		case l.ch == '"':
			l.buf.WriteString(`\"`)
		default:
			l.buf.WriteRune(l.ch)
		}
		l.advance()
	}
	l.buf.WriteByte('"')
	s, err := strconv.Unquote(l.buf.String())
	if err != nil {
		return "invalid escape sequence in string", false
	}
	return s, true
}

func (l *Lexer) peekRune() rune {
	// Prioritize the returned slice, as Peek can return both bytes and an error
	bytes, _ := l.r.Peek(utf8.UTFMax)
	if len(bytes) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(bytes)
	return r
}

func (l *Lexer) peekNextRune() rune {
	// Prioritize the returned slice, as Peek can return both bytes and an error
	bytes, _ := l.r.Peek(utf8.UTFMax * 2)
	if len(bytes) == 0 {
		return 0
	}

	_, firstRuneSize := utf8.DecodeRune(bytes)
	if len(bytes) <= firstRuneSize { // Not enough bytes for a second rune.
		return 0
	}

	r, _ := utf8.DecodeRune(bytes[firstRuneSize:])
	return r
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentifierStart(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isIdentifierChar(ch rune) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

func consumeDigits(s string, i int) int {
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return i
}

func parseIntegerPart(s string, i int) (newIndex int, ok bool) {
	integerStart := i
	i = consumeDigits(s, i)
	if i == integerStart {
		return i, false // No digits found.
	}
	integerPart := s[integerStart:i]
	if len(integerPart) > 1 && integerPart[0] == '0' {
		return i, false // Leading zeros are not allowed.
	}
	return i, true
}

func parseFractionalPart(s string, i int) (newIndex int, ok bool, isFloat bool) {
	if i >= len(s) || s[i] != '.' {
		return i, true, false
	}
	i++ // Consume '.'.
	fractionStart := i
	i = consumeDigits(s, i)
	if i == fractionStart {
		return i, false, true // No digits after '.'.
	}
	return i, true, true
}

func parseExponentPart(s string, i int) (newIndex int, ok bool, isFloat bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, true, false
	}
	i++ // Consume 'e' or 'E'.
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	exponentStart := i
	i = consumeDigits(s, i)
	if i == exponentStart {
		return i, false, true // No digits in exponent.
	}
	return i, true, true
}

// ParseAsNumber reports whether s is a complete integer or float literal
// and which of the two it is.
func ParseAsNumber(s string) (token.Type, bool) {
	if len(s) == 0 {
		return token.ILLEGAL, false
	}
	i, isFloat := 0, false

	if s[i] == '-' {
		if len(s) == 1 {
			return token.ILLEGAL, false
		}
		i++
	}

	var ok bool
	i, ok = parseIntegerPart(s, i)
	if !ok {
		return token.ILLEGAL, false
	}

	var fracIsFloat bool
	i, ok, fracIsFloat = parseFractionalPart(s, i)
	if !ok {
		return token.ILLEGAL, false
	}
	if fracIsFloat {
		isFloat = true
	}

	var expIsFloat bool
	i, ok, expIsFloat = parseExponentPart(s, i)
	if !ok {
		return token.ILLEGAL, false
	}
	if expIsFloat {
		isFloat = true
	}

	// Must consume the whole string.
	if i != len(s) {
		return token.ILLEGAL, false
	}

	if isFloat {
		return token.FLOAT, true
	}
	return token.INT, true
}
