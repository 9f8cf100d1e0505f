package munch

import "slices"

// Attribute access resolves a name through three tiers, highest first:
//
//	tier               GetAttr         SetAttr            DelAttr
//	instance attribute read it         overwrite it       delete it
//	intrinsic member   bound method    store as key       delete key
//	stored key         read it         store as key       delete key
//
// An intrinsic member therefore shadows a stored key of the same name on
// read, but never captures a write or a delete. Only DefineAttr creates
// instance attributes.

// intrinsics are the members inherent to the type, named after the
// exported methods in lowerCamel case. The table is filled in init because
// several of the methods consult it.
var intrinsics map[string]func(m *Munch) any

func init() {
	intrinsics = map[string]func(m *Munch) any{
		"all":          func(m *Munch) any { return m.All },
		"attrs":        func(m *Munch) any { return m.Attrs },
		"clear":        func(m *Munch) any { return m.Clear },
		"contains":     func(m *Munch) any { return m.Contains },
		"copy":         func(m *Munch) any { return m.Copy },
		"defineAttr":   func(m *Munch) any { return m.DefineAttr },
		"delAttr":      func(m *Munch) any { return m.DelAttr },
		"delete":       func(m *Munch) any { return m.Delete },
		"equal":        func(m *Munch) any { return m.Equal },
		"get":          func(m *Munch) any { return m.Get },
		"getAttr":      func(m *Munch) any { return m.GetAttr },
		"getOr":        func(m *Munch) any { return m.GetOr },
		"hasAttr":      func(m *Munch) any { return m.HasAttr },
		"items":        func(m *Munch) any { return m.Items },
		"keys":         func(m *Munch) any { return m.Keys },
		"len":          func(m *Munch) any { return m.Len },
		"lookup":       func(m *Munch) any { return m.Lookup },
		"merge":        func(m *Munch) any { return m.Merge },
		"mergeInPlace": func(m *Munch) any { return m.MergeInPlace },
		"mergeOnto":    func(m *Munch) any { return m.MergeOnto },
		"pop":          func(m *Munch) any { return m.Pop },
		"set":          func(m *Munch) any { return m.Set },
		"setAttr":      func(m *Munch) any { return m.SetAttr },
		"setDefault":   func(m *Munch) any { return m.SetDefault },
		"string":       func(m *Munch) any { return m.String },
		"toJSON":       func(m *Munch) any { return m.ToJSON },
		"toPlain":      func(m *Munch) any { return m.ToPlain },
		"toYAML":       func(m *Munch) any { return m.ToYAML },
		"typeName":     func(m *Munch) any { return m.TypeName },
		"update":       func(m *Munch) any { return m.Update },
		"values":       func(m *Munch) any { return m.Values },
	}
}

// IsIntrinsic reports whether name is an intrinsic member of Munch.
func IsIntrinsic(name string) bool {
	_, ok := intrinsics[name]
	return ok
}

// IsIdentifier reports whether name is usable for attribute access: a
// letter or underscore followed by letters, digits or underscores.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func checkName(name string) error {
	if !IsIdentifier(name) {
		return &AttributeError{Name: name, Err: ErrInvalidAttributeName}
	}
	return nil
}

// GetAttr resolves name through the instance attribute, intrinsic member
// and stored key tiers in that order. A default variant falls back to its
// default; otherwise an unresolved name yields an *AttributeError.
func (m *Munch) GetAttr(name string) (any, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if v, ok := m.attrs[name]; ok {
		return v, nil
	}
	if member, ok := intrinsics[name]; ok {
		return member(m), nil
	}
	if v, ok := m.Lookup(name); ok {
		return v, nil
	}
	if v, ok := m.missing(name); ok {
		return v, nil
	}
	return nil, attributeNotFound(name)
}

// HasAttr reports whether GetAttr would resolve name.
func (m *Munch) HasAttr(name string) bool {
	if !IsIdentifier(name) {
		return false
	}
	if _, ok := m.attrs[name]; ok {
		return true
	}
	if _, ok := intrinsics[name]; ok {
		return true
	}
	if _, ok := m.Lookup(name); ok {
		return true
	}
	return m.fallback != nil
}

// SetAttr overwrites the instance attribute name if one exists and
// otherwise stores value under the key name. An AutoMunch converts plain
// mapping values into its own variant first.
func (m *Munch) SetAttr(name string, value any) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := m.attrs[name]; ok {
		m.attrs[name] = value
		return nil
	}
	if m.auto {
		value = m.autoConvert(value)
	}
	m.Set(name, value)
	return nil
}

// DelAttr deletes the instance attribute name if one exists and otherwise
// deletes the key name. A missing key yields an *AttributeError, except in
// default variants where it is a no-op.
func (m *Munch) DelAttr(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := m.attrs[name]; ok {
		delete(m.attrs, name)
		return nil
	}
	if err := m.Delete(name); err != nil {
		return attributeNotFound(name)
	}
	return nil
}

// DefineAttr creates or overwrites the instance attribute name. Instance
// attributes take precedence over stored keys on every attribute
// operation and are not part of the mapping's contents.
func (m *Munch) DefineAttr(name string, value any) error {
	if err := checkName(name); err != nil {
		return err
	}
	if m.attrs == nil {
		m.attrs = make(map[string]any)
	}
	m.attrs[name] = value
	return nil
}

// Attrs returns the names of the instance attributes in sorted order.
func (m *Munch) Attrs() []string {
	names := make([]string, 0, len(m.attrs))
	for name := range m.attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
