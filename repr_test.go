package munch_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-munch"
)

func TestReprMunch(t *testing.T) {
	m := munch.New(
		munch.P("hello", 42),
		munch.P("foo", munch.New(munch.P("lol", true))),
	)
	require.Equal(t, "Munch(foo=Munch(lol=True), hello=42)", m.String())
	require.Equal(t, "Munch()", munch.New().String())
}

func TestReprFallsBackToDictForm(t *testing.T) {
	testCases := []struct {
		name     string
		m        *munch.Munch
		expected string
	}{
		{"non-string key", munch.New(munch.P(1, "a"), munch.P("b", nil)), `Munch({1: "a", "b": None})`},
		{"non-identifier key", munch.New(munch.P("b c", 1)), `Munch({"b c": 1})`},
		{"keyword key", munch.New(munch.P("None", 1)), `Munch({"None": 1})`},
		{"mixed key order", munch.New(munch.P("s", 1), munch.P(2.5, 2), munch.P(true, 3), munch.P(nil, 4)), `Munch({None: 4, True: 3, 2.5: 2, "s": 1})`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, munch.Repr(tc.m))
		})
	}
}

func TestReprVariants(t *testing.T) {
	require.Equal(t, "DefaultMunch(None, a=1)", munch.NewDefault(nil, munch.P("a", 1)).String())
	require.Equal(t, `DefaultMunch("x", {1: 2})`, munch.NewDefault("x", munch.P(1, 2)).String())
	require.Equal(t, "DefaultFactoryMunch(list, a=[])",
		munch.NewDefaultFactory("list", func() any { return []any{} }, munch.P("a", []any{})).String())
	require.Equal(t, "AutoMunch(a=1)", munch.NewAuto(munch.P("a", 1)).String())
}

func TestReprScalars(t *testing.T) {
	testCases := []struct {
		name     string
		v        any
		expected string
	}{
		{"nil", nil, "None"},
		{"true", true, "True"},
		{"false", false, "False"},
		{"int", 42, "42"},
		{"negative int", -7, "-7"},
		{"float", 1.5, "1.5"},
		{"integral float", 1.0, "1.0"},
		{"large float", 1e21, "1e+21"},
		{"nan", math.NaN(), `float64("NaN")`},
		{"inf", math.Inf(1), `float64("+Inf")`},
		{"negative inf", math.Inf(-1), `float64("-Inf")`},
		{"int64", int64(3), "int64(3)"},
		{"uint8", uint8(255), "uint8(255)"},
		{"max uint64", uint64(math.MaxUint64), `uint64("18446744073709551615")`},
		{"float32", float32(1.5), "float32(1.5)"},
		{"string", "hi", `"hi"`},
		{"escaped string", "a\"b\n", `"a\"b\n"`},
		{"ellipsis", munch.Ellipsis, "..."},
		{"list", []any{1, "a"}, `[1, "a"]`},
		{"empty list", []any{}, "[]"},
		{"tuple", munch.Tuple{1, 2}, "(1, 2)"},
		{"single tuple", munch.Tuple{1}, "(1,)"},
		{"empty tuple", munch.Tuple{}, "()"},
		{"map", map[string]any{"b": 1, "a": 2}, `{"a": 2, "b": 1}`},
		{"any map", map[any]any{2: "b", 1: "a"}, `{1: "a", 2: "b"}`},
		{"opaque", struct{ X int }{1}, "struct { X int }{X:1}"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, munch.Repr(tc.v))
		})
	}
}

func TestReprRecursion(t *testing.T) {
	m := munch.New()
	m.Set("self", m)
	require.Equal(t, "Munch(self=...)", m.String())

	l := []any{nil}
	l[0] = l
	require.Equal(t, "[...]", munch.Repr(l))

	outer := munch.New(munch.P("a", 1))
	inner := munch.New(munch.P("parent", outer))
	outer.Set("child", inner)
	require.Equal(t, "Munch(a=1, child=Munch(parent=...))", outer.String())
}

func TestReprSharedIsNotRecursion(t *testing.T) {
	shared := []any{1}
	m := munch.New(munch.P("a", shared), munch.P("b", shared))
	require.Equal(t, "Munch(a=[1], b=[1])", m.String())
}

func TestReprConcurrentRenders(t *testing.T) {
	m := munch.New(munch.P("x", 1))
	m.Set("self", m)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = munch.Repr(munch.Tuple{m, m})
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, "(Munch(self=..., x=1), Munch(self=..., x=1))", r)
	}
}

func TestFormatIndent(t *testing.T) {
	m := munch.New(
		munch.P("hello", []any{1, 2}),
		munch.P("foo", munch.New(munch.P("lol", true))),
		munch.P("t", munch.Tuple{"a"}),
		munch.P("e", []any{}),
	)
	out, err := munch.Format(m, munch.Indent(2))
	require.NoError(t, err)
	expected := `Munch(
  e=[],
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
)`
	require.Equal(t, expected, string(out))

	out, err = munch.Format(m)
	require.NoError(t, err)
	require.Equal(t, m.String(), string(out))

	_, err = munch.Format(m, munch.Indent(-1))
	require.Error(t, err)
}
