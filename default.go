package munch

// fallback configures what a default variant returns for an absent key.
type fallback struct {
	value   any
	name    string
	factory func() any
}

// NewDefault returns a DefaultMunch holding pairs. Reading an absent key or
// attribute returns value without storing it, and deleting an absent key
// is a no-op.
func NewDefault(value any, pairs ...Pair) *Munch {
	m := &Munch{fallback: &fallback{value: value}}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// NewDefaultFactory returns a DefaultFactoryMunch holding pairs. Reading an
// absent key or attribute stores the result of factory under it and
// returns that. name is how the factory appears in the textual
// representation and how Eval finds it again.
func NewDefaultFactory(name string, factory func() any, pairs ...Pair) *Munch {
	m := &Munch{fallback: &fallback{name: name, factory: factory}}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// NewAuto returns an AutoMunch holding pairs. Plain mapping values assigned
// through SetAttr are converted to AutoMunch trees.
func NewAuto(pairs ...Pair) *Munch {
	m := &Munch{auto: true}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// DefaultValue returns the fixed default of a DefaultMunch. ok is false for
// every other variant.
func (m *Munch) DefaultValue() (value any, ok bool) {
	if m.fallback == nil || m.fallback.factory != nil {
		return nil, false
	}
	return m.fallback.value, true
}

// DefaultFactory returns the name and factory of a DefaultFactoryMunch.
// factory is nil for every other variant.
func (m *Munch) DefaultFactory() (name string, factory func() any) {
	if m.fallback == nil {
		return "", nil
	}
	return m.fallback.name, m.fallback.factory
}

// missing produces the default for an absent key, if m has one.
func (m *Munch) missing(key any) (any, bool) {
	if m.fallback == nil {
		return nil, false
	}
	if m.fallback.factory == nil {
		return m.fallback.value, true
	}
	v := m.fallback.factory()
	m.Set(key, v)
	return v, true
}

func (m *Munch) autoConvert(value any) any {
	switch value.(type) {
	case map[string]any, map[any]any:
		return Munchify(value, WithFactory(func() *Munch { return NewAuto() }))
	}
	return value
}
