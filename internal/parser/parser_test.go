package parser

import (
	"strings"
	"testing"

	"github.com/KimNorgaard/go-munch/internal/ast"
	"github.com/KimNorgaard/go-munch/internal/lexer"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) ast.Expression {
	t.Helper()
	p := New(lexer.New(strings.NewReader(input)))
	expr := p.Parse()
	require.Empty(t, p.Errors(), "parser errors for %q", input)
	require.NotNil(t, expr)
	return expr
}

func TestParseCall(t *testing.T) {
	expr := parse(t, `Munch(foo=Munch(lol=True), hello=42, ponies="are pretty!")`)
	call, ok := expr.(*ast.CallExpression)
	require.True(t, ok, "expected *ast.CallExpression, got %T", expr)
	require.Equal(t, "Munch", call.Function.Value)
	require.Empty(t, call.Args)
	require.Len(t, call.Keywords, 3)

	require.Equal(t, "foo", call.Keywords[0].Name.Value)
	inner, ok := call.Keywords[0].Value.(*ast.CallExpression)
	require.True(t, ok)
	require.Equal(t, "lol", inner.Keywords[0].Name.Value)

	hello, ok := call.Keywords[1].Value.(*ast.IntegerLiteral)
	require.True(t, ok)
	require.Equal(t, int64(42), hello.Value)

	ponies, ok := call.Keywords[2].Value.(*ast.StringLiteral)
	require.True(t, ok)
	require.Equal(t, "are pretty!", ponies.Value)
}

func TestParsePositionalArgs(t *testing.T) {
	expr := parse(t, `DefaultFactoryMunch(list, {1: 2}, a=None)`)
	call := expr.(*ast.CallExpression)
	require.Len(t, call.Args, 2)
	require.IsType(t, &ast.Identifier{}, call.Args[0])
	require.IsType(t, &ast.DictLiteral{}, call.Args[1])
	require.Len(t, call.Keywords, 1)
	require.IsType(t, &ast.NoneLiteral{}, call.Keywords[0].Value)
}

func TestParseTuples(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		isTuple  bool
	}{
		{"()", "()", true},
		{"(1,)", "(1,)", true},
		{"(1, 2)", "(1, 2)", true},
		{"(1, 2,)", "(1, 2)", true},
		{"(1)", "1", false},
		{`(("a",),)`, `(("a",),)`, true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			expr := parse(t, tc.input)
			_, isTuple := expr.(*ast.TupleLiteral)
			require.Equal(t, tc.isTuple, isTuple)
			require.Equal(t, tc.expected, expr.String())
		})
	}
}

func TestParseCollections(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"[]", "[]"},
		{"[1, 2.5, 'x', None, ...]", `[1, 2.5, "x", None, ...]`},
		{"{}", "{}"},
		{`{1: 2, "a b": [True, False]}`, `{1: 2, "a b": [True, False]}`},
		{"int64(-7)", "int64(-7)"},
		{"Munch()", "Munch()"},
		{"Munch(\n  a=1,\n  b=2,\n)", "Munch(a=1, b=2)"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, parse(t, tc.input).String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		input       string
		expectedErr string
	}{
		{"", "empty input"},
		{"Munch(a=1", "unterminated call to Munch"},
		{"Munch(a=1 b=2)", "expected ',' or ')' in call to Munch"},
		{"Munch(a=1, 2)", "positional argument follows keyword argument"},
		{"[1 2]", "expected ',' or ']'"},
		{"{1 2}", "expected ':' after key"},
		{"{1: 2", "unterminated dict literal"},
		{"1 2", "unexpected token after main value"},
		{"@", "illegal token encountered"},
		{")", "no prefix parse function for )"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			p := New(lexer.New(strings.NewReader(tc.input)))
			p.Parse()
			require.NotEmpty(t, p.Errors())
			require.Contains(t, p.Errors().Error(), tc.expectedErr)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	p := New(lexer.New(strings.NewReader("Munch(\n  a=@)")))
	p.Parse()
	errs := p.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, 2, errs[0].Line)
	require.Equal(t, 5, errs[0].Column)
}
