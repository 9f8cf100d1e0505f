/*
Package munch provides Munch, an insertion-ordered mapping whose entries can
also be read and written as named attributes, together with conversions
between Munch trees and plain nested maps, lists and tuples.

The package offers three groups of functionality:

1. Keyed and Attribute Access

A Munch stores pairs under keys of any comparable type. Entries whose key is
an identifier-shaped string can also be reached through GetAttr, SetAttr and
DelAttr:

	m := munch.New()
	_ = m.SetAttr("hello", "world")
	v, _ := m.Get("hello")
	m.Set("hello", v.(string)+"!")
	// m.GetAttr("hello") now returns "world!"

Attribute reads resolve a name against instance attributes defined with
DefineAttr first, then against the intrinsic members of the type (its
methods, named in lowerCamel case, such as "keys" or "copy"), and finally
against the stored keys. Writes and deletes only ever reach an instance
attribute or a stored key. NewDefault and NewDefaultFactory build variants
that answer absent keys with a default instead of an error, and NewAuto
builds a variant that converts mapping values assigned as attributes.

2. Structural Conversion

Munchify turns every mapping in a nested structure into a Munch, and
Unmunchify turns every Munch back into a plain map. Lists ([]any) and
tuples (Tuple) keep their kind, and other values are passed through
untouched. Both conversions preserve shared references and cycles:

	x := map[string]any{}
	x["y"] = map[string]any{"x": x}
	m := munch.Munchify(x).(*munch.Munch)
	// m.GetAttr("y") holds a Munch whose "x" entry is m itself.

3. Textual Representation and Serialization

Repr renders a value deterministically, for example
Munch(foo=Munch(lol=True), hello=42), and Eval reads such text back into an
equal value. Format does the same with indentation. Munch implements
json.Marshaler, json.Unmarshaler, yaml.Marshaler and yaml.Unmarshaler, and a
YAMLCodec adds tagged YAML output and loaders that restore Munch values.

The package logs debug events through a zap.Logger set with SetLogger. It
is silent by default.
*/
package munch
