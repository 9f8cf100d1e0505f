package munch

import (
	"reflect"
	"slices"

	"golang.org/x/exp/constraints"
)

// Tuple is the fixed-sequence kind. It is a distinct type from []any so
// that conversions can keep the two apart; callers should treat a Tuple as
// immutable once built.
type Tuple []any

// Kind classifies a value for the structural conversions.
type Kind int

const (
	// Opaque values are copied by reference and never descended into.
	Opaque Kind = iota
	// Mapping is *Munch, map[string]any or map[any]any.
	Mapping
	// List is []any.
	List
	// TupleKind is Tuple.
	TupleKind
)

func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case List:
		return "list"
	case TupleKind:
		return "tuple"
	default:
		return "opaque"
	}
}

// KindOf reports the structural kind of v. The set of recognised types is
// closed: a map or slice of any other type is Opaque, and so is a nil
// *Munch, which has no pairs to descend into.
func KindOf(v any) Kind {
	switch v := v.(type) {
	case *Munch:
		if v == nil {
			return Opaque
		}
		return Mapping
	case map[string]any, map[any]any:
		return Mapping
	case []any:
		return List
	case Tuple:
		return TupleKind
	default:
		return Opaque
	}
}

// nodeID identifies a container by reference: the pointer of a Munch, the
// header of a map, the backing array and length of a slice.
type nodeID struct {
	kind Kind
	ptr  uintptr
	n    int
}

// identityOf returns the identity of a container. Nil containers and empty
// slices have no usable identity.
func identityOf(v any) (nodeID, bool) {
	kind := KindOf(v)
	if kind == Opaque {
		return nodeID{}, false
	}
	rv := reflect.ValueOf(v)
	id := nodeID{kind: kind, ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		id.n = rv.Len()
		if id.n == 0 {
			return nodeID{}, false
		}
	}
	if id.ptr == 0 {
		return nodeID{}, false
	}
	return id, true
}

// Pair is a single key/value entry.
type Pair struct {
	Key   any
	Value any
}

// P is shorthand for Pair{Key: key, Value: value}.
func P(key, value any) Pair {
	return Pair{Key: key, Value: value}
}

// pairsOf lists the entries of a mapping: a Munch in insertion order, a
// plain map in sorted key order.
func pairsOf(v any) []Pair {
	switch m := v.(type) {
	case *Munch:
		if m == nil {
			return nil
		}
		return m.Items()
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k, Value: m[k]}
		}
		return pairs
	case map[any]any:
		keys := make([]any, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sortKeys(keys)
		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k, Value: m[k]}
		}
		return pairs
	}
	return nil
}

// keyRank orders keys of different types: nil, booleans, numbers,
// strings, then everything else.
func keyRank(k any) int {
	switch k.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, uintptr, float32, float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

// sortKeys sorts keys by their natural order where one exists. Keys with
// no natural order keep their relative positions after all others.
func sortKeys(keys []any) {
	slices.SortStableFunc(keys, compareKeys)
}

func compareKeys(a, b any) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return compareOrdered(ra, rb)
	}
	switch ra {
	case 1:
		return compareOrdered(boolInt(a.(bool)), boolInt(b.(bool)))
	case 2:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		if c := compareNumbers(va, vb); c != 0 {
			return c
		}
		// 1 and 1.0 are distinct keys; keep their order stable.
		return compareOrdered(va.Kind(), vb.Kind())
	case 3:
		return compareOrdered(a.(string), b.(string))
	}
	return 0
}

func compareNumbers(a, b reflect.Value) int {
	switch {
	case a.CanInt() && b.CanInt():
		return compareOrdered(a.Int(), b.Int())
	case a.CanUint() && b.CanUint():
		return compareOrdered(a.Uint(), b.Uint())
	}
	return compareOrdered(toFloat(a), toFloat(b))
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// compareOrdered orders NaN before every other value and equal to itself.
func compareOrdered[T constraints.Ordered](a, b T) int {
	aNaN, bNaN := a != a, b != b
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
