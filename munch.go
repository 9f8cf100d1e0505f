package munch

import (
	"iter"
	"slices"
)

// Munch is an insertion-ordered mapping whose entries can also be reached
// as attributes through GetAttr, SetAttr and DelAttr.
//
// Keys may be any comparable value, including nil and booleans. Using a
// key that is not comparable panics, exactly as it would for a Go map.
//
// The zero value is an empty Munch ready to use. A Munch is not safe for
// concurrent mutation.
type Munch struct {
	entries []Pair
	index   map[any]int

	// attrs holds true instance attributes, which live outside key storage.
	attrs map[string]any

	fallback *fallback
	auto     bool
}

// New returns a Munch holding pairs in order. A repeated key keeps its
// first position and its last value.
func New(pairs ...Pair) *Munch {
	m := &Munch{}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// FromMap returns a Munch holding the entries of src in sorted key order.
// Values are not converted; see Munchify for a recursive conversion.
func FromMap(src map[string]any) *Munch {
	return New(pairsOf(src)...)
}

// like returns an empty Munch of the same variant as m.
func (m *Munch) like() *Munch {
	return &Munch{fallback: m.fallback, auto: m.auto}
}

// TypeName returns the name the textual representation uses for m.
func (m *Munch) TypeName() string {
	switch {
	case m.fallback != nil && m.fallback.factory != nil:
		return "DefaultFactoryMunch"
	case m.fallback != nil:
		return "DefaultMunch"
	case m.auto:
		return "AutoMunch"
	default:
		return "Munch"
	}
}

// Len returns the number of stored pairs.
func (m *Munch) Len() int {
	return len(m.entries)
}

func (m *Munch) position(key any) (int, bool) {
	if m.index == nil {
		return 0, false
	}
	i, ok := m.index[key]
	return i, ok
}

// Lookup returns the value stored under key and whether it was present.
// It never consults a default.
func (m *Munch) Lookup(key any) (any, bool) {
	i, ok := m.position(key)
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Get returns the value stored under key. An absent key yields a *KeyError,
// unless m is a default variant, in which case the default is returned.
func (m *Munch) Get(key any) (any, error) {
	if v, ok := m.Lookup(key); ok {
		return v, nil
	}
	if v, ok := m.missing(key); ok {
		return v, nil
	}
	return nil, &KeyError{Key: key}
}

// GetOr returns the value stored under key, or fallback when it is absent.
func (m *Munch) GetOr(key, fallback any) any {
	if v, ok := m.Lookup(key); ok {
		return v
	}
	return fallback
}

// Set stores value under key. A new key is appended; an existing key is
// overwritten in place.
func (m *Munch) Set(key, value any) {
	if i, ok := m.position(key); ok {
		m.entries[i].Value = value
		return
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Pair{Key: key, Value: value})
}

// SetDefault returns the value stored under key, storing value first if
// key is absent.
func (m *Munch) SetDefault(key, value any) any {
	if v, ok := m.Lookup(key); ok {
		return v
	}
	m.Set(key, value)
	return value
}

// Delete removes key. An absent key yields a *KeyError, unless m is a
// default variant, in which case Delete does nothing.
func (m *Munch) Delete(key any) error {
	if _, err := m.Pop(key); err != nil {
		if m.fallback != nil {
			return nil
		}
		return err
	}
	return nil
}

// Pop removes key and returns the value it held, or a *KeyError if it was
// absent.
func (m *Munch) Pop(key any) (any, error) {
	i, ok := m.position(key)
	if !ok {
		return nil, &KeyError{Key: key}
	}
	v := m.entries[i].Value
	delete(m.index, key)
	m.entries = slices.Delete(m.entries, i, i+1)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
	return v, nil
}

// Clear removes every stored pair. Instance attributes are kept.
func (m *Munch) Clear() {
	m.entries = nil
	m.index = nil
}

// Contains reports whether key is stored, or whether key is a name that
// GetAttr resolves through an instance attribute or an intrinsic member.
// Defaults never count.
func (m *Munch) Contains(key any) bool {
	if _, ok := m.position(key); ok {
		return true
	}
	name, ok := key.(string)
	if !ok {
		return false
	}
	if _, ok := m.attrs[name]; ok {
		return true
	}
	_, ok = intrinsics[name]
	return ok
}

// Keys returns the stored keys in insertion order.
func (m *Munch) Keys() []any {
	keys := make([]any, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the stored values in insertion order.
func (m *Munch) Values() []any {
	values := make([]any, len(m.entries))
	for i, e := range m.entries {
		values[i] = e.Value
	}
	return values
}

// Items returns the stored pairs in insertion order.
func (m *Munch) Items() []Pair {
	return slices.Clone(m.entries)
}

// All iterates over the stored pairs in insertion order.
func (m *Munch) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, e := range m.Items() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Copy returns a shallow copy of m: the same variant holding the same
// pairs, with nested values shared rather than duplicated. Instance
// attributes are not copied.
func (m *Munch) Copy() *Munch {
	c := m.like()
	for _, e := range m.entries {
		c.Set(e.Key, e.Value)
	}
	return c
}

// Equal reports whether m and other hold structurally equal pairs,
// regardless of order. Variants and instance attributes are ignored.
func (m *Munch) Equal(other *Munch) bool {
	return Equal(m, other)
}

// String returns the textual representation of m; see Repr.
func (m *Munch) String() string {
	return Repr(m)
}
