package lexer

import (
	"strings"
	"testing"

	"github.com/KimNorgaard/go-munch/internal/token"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `Munch(foo=Munch(lol=True), hello=42, pi=-3.5, e=1e-05, n=None,
	xs=[1, "two"], t=("a",), d={'k': False}, self=...)`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "Munch"},
		{token.LPAREN, "("},
		{token.IDENT, "foo"},
		{token.ASSIGN, "="},
		{token.IDENT, "Munch"},
		{token.LPAREN, "("},
		{token.IDENT, "lol"},
		{token.ASSIGN, "="},
		{token.TRUE, "True"},
		{token.RPAREN, ")"},
		{token.COMMA, ","},
		{token.IDENT, "hello"},
		{token.ASSIGN, "="},
		{token.INT, "42"},
		{token.COMMA, ","},
		{token.IDENT, "pi"},
		{token.ASSIGN, "="},
		{token.FLOAT, "-3.5"},
		{token.COMMA, ","},
		{token.IDENT, "e"},
		{token.ASSIGN, "="},
		{token.FLOAT, "1e-05"},
		{token.COMMA, ","},
		{token.IDENT, "n"},
		{token.ASSIGN, "="},
		{token.NONE, "None"},
		{token.COMMA, ","},
		{token.IDENT, "xs"},
		{token.ASSIGN, "="},
		{token.LBRACK, "["},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.STRING, "two"},
		{token.RBRACK, "]"},
		{token.COMMA, ","},
		{token.IDENT, "t"},
		{token.ASSIGN, "="},
		{token.LPAREN, "("},
		{token.STRING, "a"},
		{token.COMMA, ","},
		{token.RPAREN, ")"},
		{token.COMMA, ","},
		{token.IDENT, "d"},
		{token.ASSIGN, "="},
		{token.LBRACE, "{"},
		{token.STRING, "k"},
		{token.COLON, ":"},
		{token.FALSE, "False"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.IDENT, "self"},
		{token.ASSIGN, "="},
		{token.ELLIPSIS, "..."},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := New(strings.NewReader(input))
	for i, tt := range tests {
		tok := l.NextToken()
		require.Equal(t, tt.expectedType, tok.Type, "tests[%d] - tokentype wrong, literal %q", i, tok.Literal)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "tests[%d] - literal wrong", i)
	}
}

func TestStrings(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"double quoted", `"are pretty!"`, "are pretty!", true},
		{"single quoted", `'are pretty!'`, "are pretty!", true},
		{"escaped newline", `"a\nb"`, "a\nb", true},
		{"unicode escape", `"café"`, "café", true},
		{"double quote inside single", `'say "hi"'`, `say "hi"`, true},
		{"escaped single quote", `'it\'s'`, "it's", true},
		{"escaped double quote", `"a \"b\""`, `a "b"`, true},
		{"unterminated", `"abc`, "unterminated string", false},
		{"raw newline", "\"a\nb\"", "unterminated string", false},
		{"bad escape", `"\q"`, "invalid escape sequence in string", false},
		{"replacement character", "\"a\uFFFDb\"", "a\uFFFDb", true},
		{"invalid utf-8", "\"a\xffb\"", "invalid utf-8 sequence in string", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok := New(strings.NewReader(tc.input)).NextToken()
			if tc.ok {
				require.Equal(t, token.STRING, tok.Type)
			} else {
				require.Equal(t, token.ILLEGAL, tok.Type)
			}
			require.Equal(t, tc.expected, tok.Literal)
		})
	}
}

func TestPositions(t *testing.T) {
	l := New(strings.NewReader("Munch(\n  a=1)"))
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 1, toks[0].Column)
	require.Equal(t, "a", toks[2].Literal)
	require.Equal(t, 2, toks[2].Line)
	require.Equal(t, 3, toks[2].Column)
}

func TestIllegal(t *testing.T) {
	for _, input := range []string{"@", ".", "01", "1.", "12abc"} {
		t.Run(input, func(t *testing.T) {
			tok := New(strings.NewReader(input)).NextToken()
			require.Equal(t, token.ILLEGAL, tok.Type)
		})
	}
}

func TestParseAsNumber(t *testing.T) {
	testCases := []struct {
		input string
		typ   token.Type
		ok    bool
	}{
		{"0", token.INT, true},
		{"-42", token.INT, true},
		{"3.14", token.FLOAT, true},
		{"1e+21", token.FLOAT, true},
		{"-0.5E-3", token.FLOAT, true},
		{"007", token.ILLEGAL, false},
		{"1e", token.ILLEGAL, false},
		{"-", token.ILLEGAL, false},
		{"", token.ILLEGAL, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			typ, ok := ParseAsNumber(tc.input)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.typ, typ)
		})
	}
}
