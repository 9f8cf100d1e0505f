package munch

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// MarshalJSON encodes m as a JSON object with its pairs in insertion order.
// Nested plain maps are written with sorted keys. Keys that are not strings
// are written as text: booleans as true and false, nil as null, numbers in
// decimal and encoding.TextMarshaler values through MarshalText. Any other
// key yields a *json.UnsupportedTypeError, and a structure that contains
// itself yields an error wrapping ErrCycle. Two keys that encode as the same
// member name, such as 1 and "1", yield an error wrapping ErrKeyCollision.
func (m *Munch) MarshalJSON() ([]byte, error) {
	e := &jsonEncoder{active: make(map[nodeID]bool)}
	if err := e.encode(m); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// ToJSON encodes m as JSON. With Indent the output is indented.
func (m *Munch) ToJSON(opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if o.indent == 0 {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", strings.Repeat(" ", o.indent)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonEncoder struct {
	buf    bytes.Buffer
	active map[nodeID]bool
}

func (e *jsonEncoder) encode(v any) error {
	if id, ok := identityOf(v); ok {
		if e.active[id] {
			return fmt.Errorf("munch: cannot encode %s as JSON: %w", id.kind, ErrCycle)
		}
		e.active[id] = true
		defer delete(e.active, id)
	}

	switch v := v.(type) {
	case *Munch:
		if v == nil {
			e.buf.WriteString("null")
			return nil
		}
		return e.encodePairs(v.Items())
	case map[string]any:
		if v == nil {
			e.buf.WriteString("null")
			return nil
		}
		return e.encodePairs(pairsOf(v))
	case map[any]any:
		if v == nil {
			e.buf.WriteString("null")
			return nil
		}
		return e.encodePairs(pairsOf(v))
	case []any:
		return e.encodeSeq(v)
	case Tuple:
		return e.encodeSeq(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.buf.Write(data)
	return nil
}

func (e *jsonEncoder) encodeSeq(values []any) error {
	if values == nil {
		e.buf.WriteString("null")
		return nil
	}
	e.buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encode(v); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *jsonEncoder) encodePairs(pairs []Pair) error {
	names := make(map[string]any, len(pairs))
	e.buf.WriteByte('{')
	for i, p := range pairs {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		key, err := jsonKey(p.Key)
		if err != nil {
			return err
		}
		if prev, dup := names[key]; dup {
			return fmt.Errorf("munch: keys %s and %s both encode as JSON member %q: %w", Repr(prev), Repr(p.Key), key, ErrKeyCollision)
		}
		names[key] = p.Key
		data, err := json.Marshal(key)
		if err != nil {
			return err
		}
		e.buf.Write(data)
		e.buf.WriteByte(':')
		if err := e.encode(p.Value); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func jsonKey(k any) (string, error) {
	switch k := k.(type) {
	case string:
		return k, nil
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(k), nil
	case encoding.TextMarshaler:
		b, err := k.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	rv := reflect.ValueOf(k)
	switch {
	case rv.Kind() == reflect.String:
		return rv.String(), nil
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), nil
	case rv.CanUint():
		return strconv.FormatUint(rv.Uint(), 10), nil
	case rv.CanFloat():
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", &json.UnsupportedValueError{Value: rv, Str: strconv.FormatFloat(f, 'g', -1, 64)}
		}
		return strconv.FormatFloat(f, 'g', -1, rv.Type().Bits()), nil
	}
	return "", &json.UnsupportedTypeError{Type: rv.Type()}
}

// UnmarshalJSON decodes a JSON object into m, keeping the order of its
// members. Existing pairs are kept unless the object overrides them.
// Nested objects become Munch values of m's variant, arrays become []any,
// and integral numbers become int while all others become float64.
func (m *Munch) UnmarshalJSON(data []byte) error {
	return decodeJSON(data, m, m.like)
}

// FromJSON decodes a JSON object into a new Munch tree. WithFactory sets the
// variant used for the root and for every nested object.
func FromJSON(data []byte, opts ...ConvertOption) (*Munch, error) {
	o := newConvertOptions(opts)
	m := o.factory()
	if err := decodeJSON(data, m, o.factory); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeJSON(data []byte, m *Munch, newMunch func() *Munch) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &jsonDecoder{dec: dec, newMunch: newMunch}

	t, err := dec.Token()
	if err != nil {
		return fmt.Errorf("munch: decoding JSON: %w", err)
	}
	if t != json.Delim('{') {
		return fmt.Errorf("munch: cannot decode JSON %v into Munch: %w", t, ErrNotMapping)
	}
	if err := d.object(m); err != nil {
		return fmt.Errorf("munch: decoding JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("munch: decoding JSON: invalid data after top-level object")
	}
	return nil
}

type jsonDecoder struct {
	dec      *json.Decoder
	newMunch func() *Munch
}

// object reads members up to and including the closing brace.
func (d *jsonDecoder) object(m *Munch) error {
	for d.dec.More() {
		t, err := d.dec.Token()
		if err != nil {
			return err
		}
		key, ok := t.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", t)
		}
		v, err := d.value()
		if err != nil {
			return err
		}
		m.Set(key, v)
	}
	_, err := d.dec.Token()
	return err
}

func (d *jsonDecoder) value() (any, error) {
	t, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case json.Delim:
		switch t {
		case '{':
			child := d.newMunch()
			if err := d.object(child); err != nil {
				return nil, err
			}
			return child, nil
		case '[':
			list := []any{}
			for d.dec.More() {
				v, err := d.value()
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := d.dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return jsonNumber(t)
	}
	return t, nil
}

func jsonNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), nil
	}
	return n.Float64()
}
