package munch

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// MapFactory builds an empty plain mapping able to hold keys. Unmunchify
// calls it once per Munch it flattens, before converting any values.
type MapFactory func(keys []any) any

// AutoMap returns a map[string]any when every key is a string and a
// map[any]any otherwise.
func AutoMap(keys []any) any {
	for _, k := range keys {
		if _, ok := k.(string); !ok {
			return make(map[any]any, len(keys))
		}
	}
	return make(map[string]any, len(keys))
}

// StringMap always returns a map[string]any.
func StringMap(keys []any) any {
	return make(map[string]any, len(keys))
}

// AnyMap always returns a map[any]any.
func AnyMap(keys []any) any {
	return make(map[any]any, len(keys))
}

// ConvertOption configures Munchify, Unmunchify and the constructors built
// on them.
type ConvertOption func(*convertOptions)

type convertOptions struct {
	factory    func() *Munch
	mapFactory MapFactory
}

// WithFactory sets the constructor Munchify uses for every mapping node.
// The default is New.
func WithFactory(f func() *Munch) ConvertOption {
	return func(o *convertOptions) {
		o.factory = f
	}
}

// WithMapFactory sets the plain mapping Unmunchify produces for every Munch.
// The default is AutoMap.
func WithMapFactory(f MapFactory) ConvertOption {
	return func(o *convertOptions) {
		o.mapFactory = f
	}
}

func newConvertOptions(opts []ConvertOption) *convertOptions {
	o := &convertOptions{
		factory:    func() *Munch { return New() },
		mapFactory: AutoMap,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.factory == nil {
		o.factory = func() *Munch { return New() }
	}
	if o.mapFactory == nil {
		o.mapFactory = AutoMap
	}
	return o
}

// converter holds the identity table of one top-level conversion. A target
// is registered before its children are converted, so a node reached again
// through a cycle or a shared reference resolves to the same output.
type converter struct {
	opts *convertOptions
	seen map[nodeID]any
}

func newConverter(opts []ConvertOption) *converter {
	return &converter{opts: newConvertOptions(opts), seen: make(map[nodeID]any)}
}

func (c *converter) lookup(v any) (nodeID, any, bool) {
	id, ok := identityOf(v)
	if !ok {
		return id, nil, false
	}
	out, ok := c.seen[id]
	if ok {
		Logger().Debug("reusing converted node", zap.Stringer("kind", id.kind))
	}
	return id, out, ok
}

func (c *converter) register(id nodeID, out any) {
	if id.ptr != 0 {
		c.seen[id] = out
	}
}

// Munchify converts every mapping in tree into a Munch, descending into
// lists and tuples, which keep their concrete kind. Other values are
// returned as they are. Shared references and cycles in tree are preserved
// in the result. tree itself is never modified.
func Munchify(tree any, opts ...ConvertOption) any {
	return newConverter(opts).build(tree)
}

func (c *converter) build(v any) any {
	kind := KindOf(v)
	if kind == Opaque {
		return v
	}
	id, out, ok := c.lookup(v)
	if ok {
		return out
	}
	switch kind {
	case Mapping:
		pairs := pairsOf(v)
		target := c.opts.factory()
		c.register(id, target)
		for _, p := range pairs {
			target.Set(p.Key, c.build(p.Value))
		}
		return target
	case List:
		src := v.([]any)
		if src == nil {
			return src
		}
		target := make([]any, len(src))
		c.register(id, target)
		for i, e := range src {
			target[i] = c.build(e)
		}
		return target
	default:
		src := v.(Tuple)
		if src == nil {
			return src
		}
		target := make(Tuple, len(src))
		c.register(id, target)
		for i, e := range src {
			target[i] = c.build(e)
		}
		return target
	}
}

// FromPlain converts a plain mapping tree into a Munch tree. It fails with
// ErrNotMapping when the root of tree is not a mapping.
func FromPlain(tree any, opts ...ConvertOption) (*Munch, error) {
	if KindOf(tree) != Mapping {
		return nil, fmt.Errorf("munch: cannot build from %T: %w", tree, ErrNotMapping)
	}
	m, _ := Munchify(tree, opts...).(*Munch)
	if m == nil {
		return New(), nil
	}
	return m, nil
}

// Unmunchify converts every Munch in tree into a plain mapping made by the
// configured MapFactory, descending into lists, tuples and plain maps.
// Shared references and cycles are preserved. It fails when the factory
// produces something that cannot hold a key.
func Unmunchify(tree any, opts ...ConvertOption) (any, error) {
	return newConverter(opts).flatten(tree)
}

// ToPlain flattens m; see Unmunchify.
func (m *Munch) ToPlain(opts ...ConvertOption) (any, error) {
	return Unmunchify(m, opts...)
}

func (c *converter) flatten(v any) (any, error) {
	kind := KindOf(v)
	if kind == Opaque {
		return v, nil
	}
	id, out, ok := c.lookup(v)
	if ok {
		return out, nil
	}
	switch kind {
	case Mapping:
		pairs := pairsOf(v)
		keys := make([]any, len(pairs))
		for i, p := range pairs {
			keys[i] = p.Key
		}
		target := c.opts.mapFactory(keys)
		rv := reflect.ValueOf(target)
		if rv.Kind() != reflect.Map || rv.IsNil() {
			return nil, fmt.Errorf("munch: map factory returned %T: %w", target, ErrNotMapping)
		}
		c.register(id, target)
		for _, p := range pairs {
			value, err := c.flatten(p.Value)
			if err != nil {
				return nil, err
			}
			if err := setMapIndex(rv, p.Key, value); err != nil {
				return nil, err
			}
		}
		return target, nil
	case List:
		src := v.([]any)
		if src == nil {
			return src, nil
		}
		target := make([]any, len(src))
		c.register(id, target)
		for i, e := range src {
			value, err := c.flatten(e)
			if err != nil {
				return nil, err
			}
			target[i] = value
		}
		return target, nil
	default:
		src := v.(Tuple)
		if src == nil {
			return src, nil
		}
		target := make(Tuple, len(src))
		c.register(id, target)
		for i, e := range src {
			value, err := c.flatten(e)
			if err != nil {
				return nil, err
			}
			target[i] = value
		}
		return target, nil
	}
}

func setMapIndex(m reflect.Value, key, value any) error {
	kt, vt := m.Type().Key(), m.Type().Elem()
	kv, err := assignable(key, kt)
	if err != nil {
		return fmt.Errorf("munch: key %s: %w", Repr(key), err)
	}
	vv, err := assignable(value, vt)
	if err != nil {
		return fmt.Errorf("munch: value for key %s: %w", Repr(key), err)
	}
	m.SetMapIndex(kv, vv)
	return nil
}

func assignable(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Map, reflect.Slice, reflect.Pointer, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot store nil as %s", t)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("cannot store %T as %s", v, t)
	}
	return rv, nil
}
