package munch

import "reflect"

// Equal reports whether a and b are structurally equal. Mappings compare by
// their pairs regardless of order, so a Munch equals another Munch of any
// variant holding the same pairs, but never a plain map. Lists only equal
// lists and tuples only equal tuples. Integers and floats of the same value
// are equal. Anything else is compared with reflect.DeepEqual.
//
// Cyclic structures are compared by assuming that a pair of containers
// already under comparison is equal.
func Equal(a, b any) bool {
	return newEqualizer().equal(a, b)
}

type visit struct {
	a, b nodeID
}

type equalizer struct {
	visiting map[visit]bool
}

func newEqualizer() *equalizer {
	return &equalizer{visiting: make(map[visit]bool)}
}

func (e *equalizer) equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	if ka == Opaque {
		return equalScalar(a, b)
	}
	if ka == Mapping {
		_, am := a.(*Munch)
		_, bm := b.(*Munch)
		if am != bm {
			return false
		}
	}

	ia, oka := identityOf(a)
	ib, okb := identityOf(b)
	if oka && okb {
		if ia == ib {
			return true
		}
		v := visit{ia, ib}
		if e.visiting[v] {
			return true
		}
		e.visiting[v] = true
		defer delete(e.visiting, v)
	}

	switch ka {
	case Mapping:
		return e.equalMappings(a, b)
	case List:
		return e.equalSeqs(a.([]any), b.([]any))
	default:
		return e.equalSeqs(a.(Tuple), b.(Tuple))
	}
}

func (e *equalizer) equalSeqs(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !e.equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (e *equalizer) equalMappings(a, b any) bool {
	pa, pb := pairsOf(a), pairsOf(b)
	if len(pa) != len(pb) {
		return false
	}
	lookup := mappingLookup(b)
	for _, p := range pa {
		v, ok := lookup(p.Key)
		if !ok || !e.equal(p.Value, v) {
			return false
		}
	}
	return true
}

func mappingLookup(m any) func(key any) (any, bool) {
	switch m := m.(type) {
	case *Munch:
		return m.Lookup
	case map[string]any:
		return func(key any) (any, bool) {
			s, ok := key.(string)
			if !ok {
				return nil, false
			}
			v, ok := m[s]
			return v, ok
		}
	case map[any]any:
		return func(key any) (any, bool) {
			v, ok := m[key]
			return v, ok
		}
	}
	return func(any) (any, bool) { return nil, false }
}

// equalScalar compares leaves. Numbers of different Go types are equal when
// they hold the same value.
func equalScalar(a, b any) bool {
	if keyRank(a) == 2 && keyRank(b) == 2 {
		return compareNumbers(reflect.ValueOf(a), reflect.ValueOf(b)) == 0
	}
	return reflect.DeepEqual(a, b)
}
