package munch_test

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-munch"
)

func TestNewKeepsInsertionOrder(t *testing.T) {
	m := munch.New(munch.P("b", 1), munch.P("a", 2), munch.P("b", 3))
	require.Equal(t, 2, m.Len())
	require.Equal(t, []any{"b", "a"}, m.Keys())
	require.Equal(t, []any{3, 2}, m.Values())

	m.Set("c", 4)
	m.Set("b", 5)
	require.Equal(t, []any{"b", "a", "c"}, m.Keys(), spew.Sdump(m.Items()))
	require.Equal(t, []munch.Pair{munch.P("b", 5), munch.P("a", 2), munch.P("c", 4)}, m.Items())
}

func TestZeroValueIsUsable(t *testing.T) {
	var m munch.Munch
	require.Equal(t, 0, m.Len())
	_, ok := m.Lookup("x")
	require.False(t, ok)
	m.Set("x", 1)
	v, err := m.Get("x")
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestGetMissingKey(t *testing.T) {
	m := munch.New()
	_, err := m.Get("missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, munch.ErrKeyNotFound))

	var keyErr *munch.KeyError
	require.True(t, errors.As(err, &keyErr))
	require.Equal(t, "missing", keyErr.Key)
	require.Equal(t, `munch: key "missing" not found`, err.Error())

	err = m.Delete(42)
	require.True(t, errors.Is(err, munch.ErrKeyNotFound))
	require.Equal(t, "munch: key 42 not found", err.Error())
}

func TestContainsFollowsSetAndDelete(t *testing.T) {
	keys := []any{"a", 1, 2.5, nil, true, false, munch.Ellipsis}
	for _, k := range keys {
		t.Run(munch.Repr(k), func(t *testing.T) {
			m := munch.New()
			require.False(t, m.Contains(k))
			m.Set(k, "v")
			require.True(t, m.Contains(k))
			v, err := m.Get(k)
			require.NoError(t, err)
			require.Equal(t, "v", v)
			require.NoError(t, m.Delete(k))
			require.False(t, m.Contains(k))
		})
	}
}

func TestBoolAndIntKeysAreDistinct(t *testing.T) {
	m := munch.New(munch.P(true, "bool"), munch.P(1, "int"))
	require.Equal(t, 2, m.Len())
	v, err := m.Get(true)
	require.NoError(t, err)
	require.Equal(t, "bool", v)
}

func TestContainsIntrinsicNames(t *testing.T) {
	m := munch.New()
	require.True(t, m.Contains("keys"))
	require.True(t, m.Contains("copy"))
	require.False(t, m.Contains("nope"))
	require.Equal(t, 0, m.Len())
}

func TestPopAndDeleteReindex(t *testing.T) {
	m := munch.New(munch.P("a", 1), munch.P("b", 2), munch.P("c", 3))
	v, err := m.Pop("a")
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, []any{"b", "c"}, m.Keys())

	m.Set("c", 30)
	require.Equal(t, []any{"b", "c"}, m.Keys())
	v, err = m.Get("c")
	require.NoError(t, err)
	require.Equal(t, 30, v)

	_, err = m.Pop("a")
	require.ErrorIs(t, err, munch.ErrKeyNotFound)
}

func TestSetDefaultAndGetOr(t *testing.T) {
	m := munch.New(munch.P("a", 1))
	require.Equal(t, 1, m.SetDefault("a", 2))
	require.Equal(t, 3, m.SetDefault("b", 3))
	require.Equal(t, []any{"a", "b"}, m.Keys())

	require.Equal(t, 1, m.GetOr("a", 0))
	require.Equal(t, "fallback", m.GetOr("z", "fallback"))
	require.False(t, m.Contains("z"))
}

func TestClearKeepsInstanceAttributes(t *testing.T) {
	m := munch.New(munch.P("a", 1))
	require.NoError(t, m.DefineAttr("meta", "x"))
	m.Clear()
	require.Equal(t, 0, m.Len())
	v, err := m.GetAttr("meta")
	require.NoError(t, err)
	require.Equal(t, "x", v)
}

func TestAllIteratesInOrder(t *testing.T) {
	m := munch.New(munch.P("x", 1), munch.P("y", 2), munch.P("z", 3))
	var keys []any
	for k, v := range m.All() {
		keys = append(keys, k)
		if v == 2 {
			break
		}
	}
	require.Equal(t, []any{"x", "y"}, keys)
}

func TestCopyIsShallow(t *testing.T) {
	inner := munch.New(munch.P("lol", true))
	m := munch.New(munch.P("foo", inner), munch.P("hello", 42))
	require.NoError(t, m.DefineAttr("meta", 1))

	c := m.Copy()
	require.NotSame(t, m, c)
	require.True(t, m.Equal(c))

	foo, err := c.Get("foo")
	require.NoError(t, err)
	require.Same(t, inner, foo)

	c.Set("hello", 43)
	v, _ := m.Get("hello")
	require.Equal(t, 42, v)
	require.Empty(t, c.Attrs())
}

func TestFromMap(t *testing.T) {
	m := munch.FromMap(map[string]any{"b": 1, "a": map[string]any{"c": 2}})
	require.Equal(t, []any{"a", "b"}, m.Keys())
	a, err := m.Get("a")
	require.NoError(t, err)
	require.IsType(t, map[string]any{}, a)
}

func TestFieldStyleUsage(t *testing.T) {
	m := munch.New()
	require.NoError(t, m.SetAttr("hello", "world"))
	v, err := m.Get("hello")
	require.NoError(t, err)
	m.Set("hello", v.(string)+"!")

	got, err := m.GetAttr("hello")
	require.NoError(t, err)
	require.Equal(t, "world!", got)
}

func TestEqual(t *testing.T) {
	testCases := []struct {
		name  string
		a, b  any
		equal bool
	}{
		{"order ignored", munch.New(munch.P("a", 1), munch.P("b", 2)), munch.New(munch.P("b", 2), munch.P("a", 1)), true},
		{"different value", munch.New(munch.P("a", 1)), munch.New(munch.P("a", 2)), false},
		{"different length", munch.New(munch.P("a", 1)), munch.New(), false},
		{"variants ignored", munch.New(munch.P("a", 1)), munch.NewDefault(nil, munch.P("a", 1)), true},
		{"munch vs map", munch.New(munch.P("a", 1)), map[string]any{"a": 1}, false},
		{"string map vs any map", map[string]any{"a": 1}, map[any]any{"a": 1}, true},
		{"list vs tuple", []any{1}, munch.Tuple{1}, false},
		{"nil vs empty list", []any(nil), []any{}, true},
		{"int vs float", 1, 1.0, true},
		{"int vs int64", 1, int64(1), true},
		{"int vs string", 1, "1", false},
		{"nested", munch.New(munch.P("a", []any{munch.New(munch.P("b", munch.Tuple{1}))})), munch.New(munch.P("a", []any{munch.New(munch.P("b", munch.Tuple{1}))})), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.equal, munch.Equal(tc.a, tc.b))
			require.Equal(t, tc.equal, munch.Equal(tc.b, tc.a))
		})
	}
}

func TestEqualCyclic(t *testing.T) {
	a := munch.New()
	a.Set("self", a)
	b := munch.New()
	b.Set("self", b)
	require.True(t, munch.Equal(a, b))

	b.Set("extra", 1)
	require.False(t, munch.Equal(a, b))
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "Munch", munch.New().TypeName())
	require.Equal(t, "DefaultMunch", munch.NewDefault(nil).TypeName())
	require.Equal(t, "DefaultFactoryMunch", munch.NewDefaultFactory("list", func() any { return []any{} }).TypeName())
	require.Equal(t, "AutoMunch", munch.NewAuto().TypeName())
}
