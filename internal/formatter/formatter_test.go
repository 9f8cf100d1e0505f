package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KimNorgaard/go-munch/internal/lexer"
	"github.com/KimNorgaard/go-munch/internal/parser"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, input string, indent int) string {
	t.Helper()
	p := parser.New(lexer.New(strings.NewReader(input)))
	expr := p.Parse()
	require.Empty(t, p.Errors())

	var buf bytes.Buffer
	require.NoError(t, New(&buf, indent).Format(expr))
	return buf.String()
}

func TestFormatCompact(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Munch()", "Munch()"},
		{"Munch(a=1,b=[1,2],c=(3,))", "Munch(a=1, b=[1, 2], c=(3,))"},
		{"{ 'x' : None }", `{"x": None}`},
		{"DefaultMunch(None, a=...)", "DefaultMunch(None, a=...)"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, format(t, tc.input, 0))
		})
	}
}

func TestFormatIndented(t *testing.T) {
	out := format(t, `Munch(foo=Munch(lol=True), hello=[1, 2], t=("a",), e=[])`, 2)
	expected := `Munch(
  foo=Munch(
    lol=True,
  ),
  hello=[
    1,
    2,
  ],
  t=(
    "a",
  ),
  e=[],
)`
	require.Equal(t, expected, out)
}

func TestFormatIndentedReparses(t *testing.T) {
	src := `Munch(a={1: (2,), "k": []}, b=DefaultMunch(0, c=None))`
	indented := format(t, src, 4)
	require.Equal(t, format(t, src, 0), format(t, indented, 0))
}
